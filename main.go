package main

import (
	"context"
	"database/sql"
	"log"
	"net"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/centra-hq/centra-console/pkg/auth"
	"github.com/centra-hq/centra-console/pkg/billing"
	"github.com/centra-hq/centra-console/pkg/client"
	"github.com/centra-hq/centra-console/pkg/config"
	"github.com/centra-hq/centra-console/pkg/database"
	"github.com/centra-hq/centra-console/pkg/handlers"
	"github.com/centra-hq/centra-console/pkg/logging"
	"github.com/centra-hq/centra-console/pkg/middleware"
	"github.com/centra-hq/centra-console/pkg/querycache"
	"github.com/centra-hq/centra-console/pkg/repositories"
	"github.com/centra-hq/centra-console/pkg/services"
	"github.com/centra-hq/centra-console/pkg/webhooks"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.Bool("billing_configured", cfg.Billing.IsConfigured()),
		zap.Bool("webhooks_configured", cfg.WebhookSecret != ""))

	ctx := context.Background()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	migrationDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(migrationDB, cfg.Database.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = migrationDB.Close()

	// Repositories and services
	graphRepo := repositories.NewGraphRepository(db)
	userRepo := repositories.NewUserRepository(db)
	graphService := services.NewGraphService(graphRepo, logger)

	// Upstream client and cached query store; the cache is shared with the
	// graph handler so outcome mutations invalidate cached graph payloads.
	upstream := client.NewClient(cfg.Services, logger)
	cache := querycache.New()
	store := querycache.NewStore(upstream, cache, logger)

	// Auth
	validator, err := auth.NewJWKSClient(&auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		logger.Fatal("Failed to create JWKS client", zap.Error(err))
	}
	authMiddleware := auth.NewMiddleware(validator, logger)

	// Billing is optional; the handler responds 503 when unconfigured.
	var provider billing.Provider
	if cfg.Billing.IsConfigured() {
		provider = billing.NewStripeProvider(cfg.Billing.StripeSecretKey, logger)
	}

	// Webhook verification is optional; the handler responds 500 when
	// unconfigured.
	var verifier *webhooks.Verifier
	if cfg.WebhookSecret != "" {
		verifier, err = webhooks.NewVerifier(cfg.WebhookSecret)
		if err != nil {
			logger.Fatal("Failed to create webhook verifier", zap.Error(err))
		}
	}

	mux := http.NewServeMux()

	handlers.NewHealthHandler(cfg, store, logger).RegisterRoutes(mux)
	handlers.NewGraphHandler(graphService, cache, logger).RegisterRoutes(mux)
	handlers.NewCheckoutHandler(provider, cfg.BaseURL, logger).RegisterRoutes(mux)
	handlers.NewWebhookHandler(verifier, userRepo, logger).RegisterRoutes(mux)
	handlers.NewUserSyncHandler(userRepo, cfg.Auth.EnableVerification, logger).RegisterRoutes(mux, authMiddleware)

	handler := middleware.RequestLogger(logger)(mux)

	addr := net.JoinHostPort(cfg.BindAddr, cfg.Port)
	logger.Info("Starting centra-console",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
