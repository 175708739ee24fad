// Package directory models the slice of a directory entry that password
// evaluation needs: attribute lookup by name and extraction of the identity
// hints (login name and display name) associated with a password change.
package directory

// Well-known attribute names carrying the identity hints.
const (
	AttrLogin   = "uid"
	AttrDisplay = "gecos"
)

// Attribute is a named, multi-valued directory attribute.
type Attribute struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Entry is the directory record accompanying a password change. The caller
// owns it; this package only reads it.
type Entry struct {
	DN         string      `json:"dn,omitempty"`
	Attributes []Attribute `json:"attributes"`
}

// First returns the first value of the named attribute. Names match
// case-sensitively; attributes with no values are treated as absent.
func (e *Entry) First(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	for _, a := range e.Attributes {
		if a.Name == name && len(a.Values) > 0 {
			return a.Values[0], true
		}
	}
	return "", false
}

// Hints are the optional identity strings for one evaluation. An empty
// field means the hint is absent.
type Hints struct {
	Login   string
	Display string
}

// IdentityHints extracts the login-name and display-name hints from e.
// It reports false when no login name is found; in that case both hints are
// unset regardless of whether a display name was present. A missing display
// name alone is tolerated.
func IdentityHints(e *Entry) (Hints, bool) {
	login, ok := e.First(AttrLogin)
	if !ok {
		return Hints{}, false
	}
	display, _ := e.First(AttrDisplay)
	return Hints{Login: login, Display: display}, true
}
