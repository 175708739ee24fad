package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/vaultline/passguard/internal/auth"
	"github.com/vaultline/passguard/internal/ratelimit"
	"github.com/vaultline/passguard/internal/store"
)

func newTestRouter(t *testing.T) (http.Handler, string) {
	t.Helper()

	lookup := newMockAPIKeyLookup()
	plaintext, hash, prefix, err := auth.GenerateAPIKey()
	if err != nil {
		t.Fatalf("GenerateAPIKey: %v", err)
	}
	lookup.byHash[hash] = &store.APIKey{
		ID:        uuid.New(),
		Name:      "test-key",
		KeyPrefix: prefix,
		IsActive:  true,
	}

	r := NewRouter(RouterConfig{
		Health:         &HealthHandler{DB: &mockPinger{}},
		Password:       NewPasswordHandler(newTestChecker(nil), &mockAuditStoreForAPI{}),
		APIKeys:        NewAPIKeysHandler(newMockAPIKeyStore(), &mockAuditStoreForAPI{}),
		AuditLog:       NewAuditHandler(&mockAuditLogStore{}),
		AuthMW:         AuthMiddleware(lookup),
		CheckRateLimit: 3,
		RateLimiter:    ratelimit.NewRateLimiter(),
	})
	return r, plaintext
}

func TestRouterHealthIsPublic(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, w.Code)
		}
	}
}

func TestRouterAPIRequiresAuth(t *testing.T) {
	r, _ := newTestRouter(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/password/check"},
		{http.MethodPost, "/api/v1/password/hash"},
		{http.MethodGet, "/api/v1/api-keys"},
		{http.MethodGet, "/api/v1/audit-log"},
	}

	for _, p := range paths {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(p.method, p.path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s = %d, want 401", p.method, p.path, w.Code)
		}
	}
}

func TestRouterCheckEndToEnd(t *testing.T) {
	r, key := newTestRouter(t)

	req := jsonRequest(t, http.MethodPost, "/api/v1/password/check", map[string]interface{}{
		"password": "short1!",
	})
	req.Header.Set("Authorization", "Bearer "+key)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	env := parseEnvelope(t, w)
	data, ok := env.Data.(map[string]interface{})
	if !ok {
		t.Fatal("expected data to be a map")
	}
	if data["valid"] != false {
		t.Errorf("valid = %v, want false", data["valid"])
	}
}

func TestRouterCheckRateLimited(t *testing.T) {
	r, key := newTestRouter(t)

	var last int
	for i := 0; i < 4; i++ {
		req := jsonRequest(t, http.MethodPost, "/api/v1/password/check", map[string]interface{}{
			"password": "Tr4v!Pho9WaLL",
		})
		req.Header.Set("Authorization", "Bearer "+key)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		last = w.Code
	}

	if last != http.StatusTooManyRequests {
		t.Errorf("4th request = %d, want 429", last)
	}
}
