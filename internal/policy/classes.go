package policy

// Class is an ASCII character class used by the structural analyzer.
type Class int

const (
	ClassDigit Class = iota
	ClassLower
	ClassUpper
	ClassPunct
	ClassSpace
	ClassOther
	numClasses
)

// String returns the class name used in log output.
func (c Class) String() string {
	switch c {
	case ClassDigit:
		return "digit"
	case ClassLower:
		return "lowercase"
	case ClassUpper:
		return "uppercase"
	case ClassPunct:
		return "punctuation"
	case ClassSpace:
		return "whitespace"
	default:
		return "other"
	}
}

// classOf maps a single byte to its character class. Classification is
// byte-based: anything outside printable ASCII (including all bytes >= 0x80)
// falls into ClassOther.
func classOf(b byte) Class {
	switch {
	case b >= '0' && b <= '9':
		return ClassDigit
	case b >= 'a' && b <= 'z':
		return ClassLower
	case b >= 'A' && b <= 'Z':
		return ClassUpper
	case isPunct(b):
		return ClassPunct
	case isSpace(b):
		return ClassSpace
	default:
		return ClassOther
	}
}

// isPunct reports whether b is printable ASCII that is not a letter, digit,
// or space.
func isPunct(b byte) bool {
	return (b >= '!' && b <= '/') ||
		(b >= ':' && b <= '@') ||
		(b >= '[' && b <= '`') ||
		(b >= '{' && b <= '~')
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// frequencies computes the per-class and per-byte occurrence counts of
// password in a single pass. For any input,
// sum(classes) == len(password) == sum(bytes).
func frequencies(password string) (classes [numClasses]int, bytes [256]int) {
	for i := 0; i < len(password); i++ {
		b := password[i]
		classes[classOf(b)]++
		bytes[b]++
	}
	return classes, bytes
}
