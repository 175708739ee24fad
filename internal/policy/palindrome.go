package policy

// IsPalindrome reports whether password reads the same forwards and
// backwards, ASCII case-insensitively. Passwords of length 0 or 1 are not
// considered palindromes: there is no meaningful reversal to exploit.
func IsPalindrome(password string) bool {
	if len(password) < 2 {
		return false
	}
	for i, j := 0, len(password)-1; i < j; i, j = i+1, j-1 {
		if toLower(password[i]) != toLower(password[j]) {
			return false
		}
	}
	return true
}

func toLower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
