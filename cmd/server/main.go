package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/vaultline/passguard/internal/api"
	"github.com/vaultline/passguard/internal/auth"
	"github.com/vaultline/passguard/internal/checker"
	"github.com/vaultline/passguard/internal/config"
	"github.com/vaultline/passguard/internal/db"
	"github.com/vaultline/passguard/internal/dictionary"
	"github.com/vaultline/passguard/internal/ratelimit"
	"github.com/vaultline/passguard/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log.Printf("starting passguard on port %s", cfg.Port)

	// Create database pool
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("database pool: %w", err)
	}
	defer pool.Close()

	// Run migrations
	sqlDB, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("sql.Open for migrations: %w", err)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	log.Println("database migrations applied")

	// Create stores
	apiKeyStore := store.NewAPIKeyStore(pool)
	auditStore := store.NewAuditStore(pool)

	// Load the dictionary. The embedded word list is always present; a
	// configured path layers site-specific words on top of it.
	var dict *dictionary.Checker
	if cfg.DictionaryPath != "" {
		dict, err = dictionary.NewFromFile(cfg.DictionaryPath)
		if err != nil {
			return fmt.Errorf("dictionary: %w", err)
		}
	} else {
		dict = dictionary.New()
	}
	log.Printf("dictionary loaded with %d words", dict.Len())

	passwordChecker := checker.New(dict, log.Default())

	// Seed the bootstrap API key so a fresh deployment has a way in
	if err := seedBootstrapKey(ctx, apiKeyStore, cfg.BootstrapAPIKey); err != nil {
		log.Printf("warning: failed to seed bootstrap API key: %v", err)
	}

	// Create rate limiter and auth middleware
	rateLimiter := ratelimit.NewRateLimiter()
	authMW := api.AuthMiddleware(apiKeyStore)

	// Create API handlers
	health := &api.HealthHandler{DB: pool}
	passwordHandler := api.NewPasswordHandler(passwordChecker, auditStore)
	apiKeysHandler := api.NewAPIKeysHandler(apiKeyStore, auditStore)
	auditLogHandler := api.NewAuditHandler(auditStore)

	// Set up router
	router := api.NewRouter(api.RouterConfig{
		Health:         health,
		Password:       passwordHandler,
		APIKeys:        apiKeysHandler,
		AuditLog:       auditLogHandler,
		AuthMW:         authMW,
		CheckRateLimit: cfg.CheckRateLimit,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		RateLimiter:    rateLimiter,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		log.Printf("received signal %v, shutting down...", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		errCh <- srv.Shutdown(shutdownCtx)
	}()

	log.Printf("server listening on :%s", cfg.Port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}

	return <-errCh
}

// seedBootstrapKey registers the operator-supplied API key on an empty
// deployment. The key arrives in plaintext via the environment, so only
// its hash is stored. Once any key exists this is a no-op.
func seedBootstrapKey(ctx context.Context, apiKeys *store.APIKeyStore, plaintext string) error {
	if plaintext == "" {
		return nil
	}

	count, err := apiKeys.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting API keys: %w", err)
	}
	if count > 0 {
		return nil
	}

	if !auth.ValidateAPIKeyFormat(plaintext) {
		return fmt.Errorf("BOOTSTRAP_API_KEY is not a valid API key")
	}

	key := &store.APIKey{
		Name:      "bootstrap",
		KeyPrefix: plaintext[:12],
		KeyHash:   auth.HashAPIKey(plaintext),
		IsActive:  true,
	}

	if err := apiKeys.Create(ctx, key); err != nil {
		return fmt.Errorf("creating bootstrap key: %w", err)
	}

	log.Println("bootstrap API key registered")
	return nil
}
