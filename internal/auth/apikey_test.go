package auth

import (
	"strings"
	"testing"
)

func TestGenerateAPIKey(t *testing.T) {
	plaintext, hash, prefix, err := GenerateAPIKey()
	if err != nil {
		t.Fatalf("GenerateAPIKey: %v", err)
	}

	if !strings.HasPrefix(plaintext, "pgd_") {
		t.Errorf("key %q missing pgd_ prefix", plaintext)
	}
	if !ValidateAPIKeyFormat(plaintext) {
		t.Errorf("generated key %q fails format validation", plaintext)
	}
	if len(prefix) != 12 || !strings.HasPrefix(plaintext, prefix) {
		t.Errorf("prefix %q not a 12-char prefix of the key", prefix)
	}
	if hash != HashAPIKey(plaintext) {
		t.Error("returned hash does not match HashAPIKey")
	}
	if len(hash) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(hash))
	}
}

func TestGenerateAPIKeyUnique(t *testing.T) {
	a, _, _, err := GenerateAPIKey()
	if err != nil {
		t.Fatal(err)
	}
	b, _, _, err := GenerateAPIKey()
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("two generated keys are identical")
	}
}

func TestValidateAPIKeyFormat(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"pgd_0123456789abcdef0123456789abcdef", true},
		{"pgd_0123456789ABCDEF0123456789ABCDEF", false},
		{"pgd_0123456789abcdef0123456789abcde", false},
		{"pgd_0123456789abcdef0123456789abcdef0", false},
		{"areg_0123456789abcdef0123456789abcdef", false},
		{"0123456789abcdef0123456789abcdef", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ValidateAPIKeyFormat(tt.key); got != tt.want {
			t.Errorf("ValidateAPIKeyFormat(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
