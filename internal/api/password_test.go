package api

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/vaultline/passguard/internal/checker"
	"github.com/vaultline/passguard/internal/policy"
)

// stubOracle is a canned dictionary oracle.
type stubOracle struct {
	reason string
	found  bool
}

func (s *stubOracle) Check(password, login, display string) (string, bool) {
	return s.reason, s.found
}

func newTestChecker(oracle checker.Oracle) *checker.Checker {
	return checker.New(oracle, log.New(&bytes.Buffer{}, "", 0))
}

func TestPasswordCheck(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]interface{}
		oracle     checker.Oracle
		wantValid  bool
		wantKind   string
		wantReason string
	}{
		{
			name:      "strong password accepted",
			body:      map[string]interface{}{"password": "Tr4v!Pho9WaLL", "login": "jdoe"},
			wantValid: true,
		},
		{
			name:       "palindrome rejected",
			body:       map[string]interface{}{"password": "Ab1!cc!1bA"},
			wantValid:  false,
			wantKind:   "palindrome",
			wantReason: policy.ReasonPalindrome,
		},
		{
			name:       "short password rejected",
			body:       map[string]interface{}{"password": "short1!"},
			wantValid:  false,
			wantKind:   "too_short",
			wantReason: policy.ReasonTooShort,
		},
		{
			name:       "all digits rejected",
			body:       map[string]interface{}{"password": "1234567890"},
			wantValid:  false,
			wantKind:   "class_imbalance",
			wantReason: policy.ReasonManyDigits,
		},
		{
			name:       "dictionary hit rejected",
			body:       map[string]interface{}{"password": "Tr4v!Pho9WaLL"},
			oracle:     &stubOracle{reason: "Password is based on a dictionary word", found: true},
			wantValid:  false,
			wantKind:   "dictionary_match",
			wantReason: "Password is based on a dictionary word",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewPasswordHandler(newTestChecker(tc.oracle), &mockAuditStoreForAPI{})
			w := httptest.NewRecorder()

			h.Check(w, jsonRequest(t, http.MethodPost, "/api/v1/password/check", tc.body))

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
			}

			env := parseEnvelope(t, w)
			data, ok := env.Data.(map[string]interface{})
			if !ok {
				t.Fatal("expected data to be a map")
			}

			if data["valid"] != tc.wantValid {
				t.Errorf("valid = %v, want %v", data["valid"], tc.wantValid)
			}
			if tc.wantKind != "" && data["kind"] != tc.wantKind {
				t.Errorf("kind = %v, want %v", data["kind"], tc.wantKind)
			}
			if tc.wantReason != "" && data["reason"] != tc.wantReason {
				t.Errorf("reason = %v, want %v", data["reason"], tc.wantReason)
			}
		})
	}
}

func TestPasswordCheckInvalidBody(t *testing.T) {
	h := NewPasswordHandler(newTestChecker(nil), &mockAuditStoreForAPI{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/password/check", strings.NewReader("{not json"))

	h.Check(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestPasswordCheckAuditTrail(t *testing.T) {
	audit := &mockAuditStoreForAPI{}
	h := NewPasswordHandler(newTestChecker(nil), audit)

	w := httptest.NewRecorder()
	req := jsonRequest(t, http.MethodPost, "/api/v1/password/check", map[string]interface{}{
		"password": "short1!",
		"login":    "jdoe",
	})
	req.RemoteAddr = "203.0.113.9:4711"

	h.Check(w, req)

	entry := audit.last(t)
	if entry.Actor != "jdoe" {
		t.Errorf("actor = %q, want jdoe", entry.Actor)
	}
	if entry.Action != "password_check" {
		t.Errorf("action = %q, want password_check", entry.Action)
	}
	if entry.Outcome != "rejected" {
		t.Errorf("outcome = %q, want rejected", entry.Outcome)
	}
	if entry.Kind != "too_short" {
		t.Errorf("kind = %q, want too_short", entry.Kind)
	}
	if entry.IPAddress != "203.0.113.9" {
		t.Errorf("ip = %q, want 203.0.113.9", entry.IPAddress)
	}
}

func TestPasswordCheckEntryForm(t *testing.T) {
	audit := &mockAuditStoreForAPI{}
	h := NewPasswordHandler(newTestChecker(nil), audit)

	w := httptest.NewRecorder()
	h.Check(w, jsonRequest(t, http.MethodPost, "/api/v1/password/check", map[string]interface{}{
		"password": "Tr4v!Pho9WaLL",
		"entry": map[string]interface{}{
			"dn": "uid=asmith,ou=people,dc=example,dc=org",
			"attributes": []map[string]interface{}{
				{"name": "uid", "values": []string{"asmith"}},
				{"name": "gecos", "values": []string{"Alice Smith"}},
			},
		},
	}))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}
	if entry := audit.last(t); entry.Actor != "asmith" {
		t.Errorf("actor = %q, want asmith", entry.Actor)
	}
}

func TestPasswordCheckAnonymousActor(t *testing.T) {
	audit := &mockAuditStoreForAPI{}
	h := NewPasswordHandler(newTestChecker(nil), audit)

	w := httptest.NewRecorder()
	h.Check(w, jsonRequest(t, http.MethodPost, "/api/v1/password/check", map[string]interface{}{
		"password": "Tr4v!Pho9WaLL",
	}))

	if entry := audit.last(t); entry.Actor != "unknown" {
		t.Errorf("actor = %q, want unknown", entry.Actor)
	}
}

func TestPasswordHash(t *testing.T) {
	audit := &mockAuditStoreForAPI{}
	h := NewPasswordHandler(newTestChecker(nil), audit)

	w := httptest.NewRecorder()
	h.Hash(w, jsonRequest(t, http.MethodPost, "/api/v1/password/hash", map[string]interface{}{
		"password": "Tr4v!Pho9WaLL",
	}))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	env := parseEnvelope(t, w)
	data, ok := env.Data.(map[string]interface{})
	if !ok {
		t.Fatal("expected data to be a map")
	}

	hash, ok := data["hash"].(string)
	if !ok || hash == "" {
		t.Fatal("expected hash in response")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("Tr4v!Pho9WaLL")); err != nil {
		t.Errorf("hash does not verify: %v", err)
	}
	if cost, _ := data["cost"].(float64); int(cost) != bcryptCost {
		t.Errorf("cost = %v, want %d", data["cost"], bcryptCost)
	}

	if entry := audit.last(t); entry.Action != "password_hash" {
		t.Errorf("action = %q, want password_hash", entry.Action)
	}
}

func TestPasswordHashRejected(t *testing.T) {
	h := NewPasswordHandler(newTestChecker(nil), &mockAuditStoreForAPI{})

	w := httptest.NewRecorder()
	h.Hash(w, jsonRequest(t, http.MethodPost, "/api/v1/password/hash", map[string]interface{}{
		"password": "racecar",
	}))

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422; body: %s", w.Code, w.Body.String())
	}

	env := parseEnvelope(t, w)
	if env.Success {
		t.Error("expected success=false")
	}
	errMap, ok := env.Error.(map[string]interface{})
	if !ok {
		t.Fatal("expected error to be a map")
	}
	if errMap["code"] != "POLICY_VIOLATION" {
		t.Errorf("code = %v, want POLICY_VIOLATION", errMap["code"])
	}
	if errMap["message"] != policy.ReasonPalindrome {
		t.Errorf("message = %v, want %q", errMap["message"], policy.ReasonPalindrome)
	}
}

func TestPasswordCheckAuditFailureDoesNotBlock(t *testing.T) {
	audit := &mockAuditStoreForAPI{insertErr: errForced}
	h := NewPasswordHandler(newTestChecker(nil), audit)

	w := httptest.NewRecorder()
	h.Check(w, jsonRequest(t, http.MethodPost, "/api/v1/password/check", map[string]interface{}{
		"password": "Tr4v!Pho9WaLL",
	}))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}
