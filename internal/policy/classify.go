package policy

// Policy thresholds. These are fixed: digits have a small search space, so
// they may not dominate; each letter case must be present but not dominate;
// punctuation strengthens a password but too much of it weakens one;
// whitespace is only two common characters and adds little.
const (
	minLength = 8

	maxDigitPct = 40
	minDigitPct = 5
	maxLowerPct = 60
	minLowerPct = 10
	maxUpperPct = 60
	minUpperPct = 10
	maxPunctPct = 70
	minPunctPct = 5
	maxSpacePct = 10

	// At or above this share of non-ASCII/non-printable bytes the search
	// space is already enormous and the class bounds are skipped.
	strongOtherPct = 20

	// No single byte value may make up more than this share of the password.
	maxSingleCharPct = 60
)

// Reason strings reported to callers. The texts and the order in which the
// gates fire are part of the contract: callers and tests match on them.
const (
	ReasonTooShort    = "Password is too short"
	ReasonManyDigits  = "Password contains too many digits"
	ReasonFewDigits   = "Password contains too few digits"
	ReasonManyLower   = "Password contains too many lowercase letters"
	ReasonFewLower    = "Password contains too few lowercase letters"
	ReasonManyUpper   = "Password contains too many uppercase letters"
	ReasonFewUpper    = "Password contains too few uppercase letters"
	ReasonMuchPunct   = "Password contains too much punctuation"
	ReasonLittlePunct = "Password contains too little punctuation"
	ReasonMuchSpace   = "Password contains too much whitespace"
	ReasonSingleChar  = "Password contains too many of a single character"
	ReasonPalindrome  = "Password is a palindrome"
)

// Classify runs the structural complexity analysis over password and returns
// a verdict. The analysis is pure and deterministic: identical input always
// yields an identical verdict.
//
// Percentages use truncating integer division ((count*100)/total), so a class
// with 1 occurrence in a 9-byte password is 11%, not 12%. The class bounds
// are checked in a fixed order (digits, lowercase, uppercase, punctuation,
// whitespace; "too many" before "too few") so the reported reason is
// reproducible.
func Classify(password string) Verdict {
	total := len(password)
	if total < minLength {
		// Short-circuits the percentage math below, which would be
		// meaningless on tiny strings (and divides by total).
		return Reject(RejectTooShort, ReasonTooShort)
	}

	classes, bytes := frequencies(password)

	pct := func(c Class) int {
		return (classes[c] * 100) / total
	}

	if pct(ClassOther) < strongOtherPct {
		switch {
		case pct(ClassDigit) > maxDigitPct:
			return Reject(RejectClassImbalance, ReasonManyDigits)
		case pct(ClassDigit) < minDigitPct:
			return Reject(RejectClassImbalance, ReasonFewDigits)
		}

		switch {
		case pct(ClassLower) > maxLowerPct:
			return Reject(RejectClassImbalance, ReasonManyLower)
		case pct(ClassLower) < minLowerPct:
			return Reject(RejectClassImbalance, ReasonFewLower)
		}

		switch {
		case pct(ClassUpper) > maxUpperPct:
			return Reject(RejectClassImbalance, ReasonManyUpper)
		case pct(ClassUpper) < minUpperPct:
			return Reject(RejectClassImbalance, ReasonFewUpper)
		}

		switch {
		case pct(ClassPunct) > maxPunctPct:
			return Reject(RejectClassImbalance, ReasonMuchPunct)
		case pct(ClassPunct) < minPunctPct:
			return Reject(RejectClassImbalance, ReasonLittlePunct)
		}

		if pct(ClassSpace) > maxSpacePct {
			return Reject(RejectClassImbalance, ReasonMuchSpace)
		}
	}

	// Single-character dominance. Early exit once every occurrence has been
	// accounted for; unseen byte values contribute zero either way.
	seen := 0
	for b := 0; b < 256 && seen < total; b++ {
		if bytes[b] == 0 {
			continue
		}
		seen += bytes[b]
		if (bytes[b]*100)/total > maxSingleCharPct {
			return Reject(RejectDominance, ReasonSingleChar)
		}
	}

	return Accept
}
