package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vaultline/passguard/internal/auth"
	"github.com/vaultline/passguard/internal/ratelimit"
)

// RouterConfig holds all dependencies needed to build the router.
type RouterConfig struct {
	Health   *HealthHandler
	Password *PasswordHandler
	APIKeys  *APIKeysHandler
	AuditLog *AuditHandler
	AuthMW   func(http.Handler) http.Handler

	// CheckRateLimit is the per-key requests-per-minute budget for the
	// password endpoints. Zero disables the limiter.
	CheckRateLimit int
	MaxBodyBytes   int64
	RateLimiter    *ratelimit.RateLimiter // nil = no rate limiting
}

// NewRouter creates the chi router with middleware and all routes.
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)

	// Health routes (no auth required)
	r.Get("/healthz", cfg.Health.Healthz)
	r.Get("/readyz", cfg.Health.Readyz)

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}

	// API routes (all require auth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(MaxBodySize(maxBody))

		if cfg.AuthMW != nil {
			r.Use(cfg.AuthMW)
		}

		// Password evaluation. Passwords flow through here, so these
		// routes get their own per-caller budget.
		if cfg.Password != nil {
			r.Route("/password", func(r chi.Router) {
				if cfg.RateLimiter != nil && cfg.CheckRateLimit > 0 {
					r.Use(cfg.RateLimiter.Middleware(cfg.CheckRateLimit, time.Minute, checkLimitKey))
				}
				r.Post("/check", cfg.Password.Check)
				r.Post("/hash", cfg.Password.Hash)
			})
		}

		// API Keys
		if cfg.APIKeys != nil {
			r.Route("/api-keys", func(r chi.Router) {
				r.Get("/", cfg.APIKeys.List)
				r.Post("/", cfg.APIKeys.Create)
				r.Delete("/{keyId}", cfg.APIKeys.Revoke)
			})
		}

		// Audit Log
		if cfg.AuditLog != nil {
			r.Get("/audit-log", cfg.AuditLog.List)
		}
	})

	return r
}

// checkLimitKey buckets password evaluations per authenticated API key,
// falling back to the caller's address when the auth middleware is absent.
func checkLimitKey(r *http.Request) string {
	if id, ok := auth.KeyIDFromContext(r.Context()); ok {
		return "check:" + id.String()
	}
	return "check:" + r.RemoteAddr
}
