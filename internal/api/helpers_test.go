package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/vaultline/passguard/internal/store"
)

// --- Shared test helpers and mocks ---

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Error   interface{} `json:"error"`
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to unmarshal envelope: %v; body: %s", err, w.Body.String())
	}
	return env
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

var errForced = errors.New("forced failure")

// mockAuditStoreForAPI records audit entries in memory.
type mockAuditStoreForAPI struct {
	mu        sync.Mutex
	entries   []store.AuditEntry
	insertErr error
}

func (m *mockAuditStoreForAPI) Insert(_ context.Context, entry *store.AuditEntry) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockAuditStoreForAPI) last(t *testing.T) store.AuditEntry {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) == 0 {
		t.Fatal("expected an audit entry to be recorded")
	}
	return m.entries[len(m.entries)-1]
}
