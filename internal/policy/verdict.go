package policy

// RejectKind identifies which gate rejected a password.
type RejectKind int

const (
	RejectNone RejectKind = iota
	RejectTooShort
	RejectClassImbalance
	RejectDominance
	RejectPalindrome
	RejectDictionary
)

// String returns a stable identifier for audit records.
func (k RejectKind) String() string {
	switch k {
	case RejectTooShort:
		return "too_short"
	case RejectClassImbalance:
		return "class_imbalance"
	case RejectDominance:
		return "character_dominance"
	case RejectPalindrome:
		return "palindrome"
	case RejectDictionary:
		return "dictionary_match"
	default:
		return "none"
	}
}

// Verdict is the outcome of one password evaluation. A rejection carries a
// human-readable reason; the first triggered gate wins and no further gates
// are evaluated.
type Verdict struct {
	OK     bool
	Kind   RejectKind
	Reason string
}

// Accept is the verdict for a password that passed every gate.
var Accept = Verdict{OK: true}

// Reject builds a rejection verdict.
func Reject(kind RejectKind, reason string) Verdict {
	return Verdict{Kind: kind, Reason: reason}
}
