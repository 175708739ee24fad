package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/vaultline/passguard/internal/auth"
	apierrors "github.com/vaultline/passguard/internal/errors"
	"github.com/vaultline/passguard/internal/store"
)

// APIKeyLookup validates an API key and returns the key's identity.
type APIKeyLookup interface {
	GetByHash(ctx context.Context, hash string) (*store.APIKey, error)
	UpdateLastUsed(ctx context.Context, id uuid.UUID) error
}

// AuthMiddleware returns middleware that authenticates requests via a
// bearer API key. There are no sessions: callers are machines.
func AuthMiddleware(apiKeys APIKeyLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				RespondError(w, r, apierrors.Unauthorized("authentication required"))
				return
			}

			key := strings.TrimPrefix(authHeader, "Bearer ")
			if !auth.ValidateAPIKeyFormat(key) {
				RespondError(w, r, apierrors.Unauthorized("invalid API key"))
				return
			}

			apiKey, err := apiKeys.GetByHash(r.Context(), auth.HashAPIKey(key))
			if err != nil {
				RespondError(w, r, apierrors.Unauthorized("invalid API key"))
				return
			}

			// Update last used timestamp (fire and forget)
			go apiKeys.UpdateLastUsed(context.Background(), apiKey.ID)

			ctx := auth.ContextWithKey(r.Context(), apiKey.ID, apiKey.Name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDMiddleware adds a unique request ID to each request.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
			r.Header.Set("X-Request-Id", id)
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}

// MaxBodySize limits the size of request bodies.
func MaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// securityHeaders adds security-related HTTP headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
