// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

// Command api is the entry point for the Nabta HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nabtahq/nabta/internal/access"
	"github.com/nabtahq/nabta/internal/api"
	"github.com/nabtahq/nabta/internal/cart"
	"github.com/nabtahq/nabta/internal/catalog"
	"github.com/nabtahq/nabta/internal/platform/config"
	"github.com/nabtahq/nabta/internal/platform/constants"
	"github.com/nabtahq/nabta/internal/platform/events"
	"github.com/nabtahq/nabta/internal/platform/migration"
	pgstore "github.com/nabtahq/nabta/internal/platform/postgres"
	redisstore "github.com/nabtahq/nabta/internal/platform/redis"
	"github.com/nabtahq/nabta/internal/platform/sec"
	"github.com/nabtahq/nabta/internal/settings"
	"github.com/nabtahq/nabta/internal/users/account"
	"github.com/nabtahq/nabta/internal/users/auth"
	"github.com/nabtahq/nabta/internal/vip"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[Nabta] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Long-lived context for background workers (rate limiter cleanup,
	// feed subscriptions). Cancelled at shutdown.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Security Services ──────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	feed := events.NewFeed(rdb, log)

	// Access control: role assignments plus the first-admin bootstrap.
	roleRepository := access.NewRoleRepository(pool)
	accountDirectory := access.NewAccountDirectory(pool)
	resolver := access.NewResolver(roleRepository, accountDirectory, log)
	accessHandler := access.NewHandler(resolver)

	// Identity and sessions. The resolver stamps the role claim at token issue.
	accountRepository := auth.NewAccountRepository(pool)
	sessionRepository := auth.NewSessionRepository(pool)
	resetTokenRepository := auth.NewResetTokenRepository(rdb)
	authService := auth.NewService(accountRepository, sessionRepository, resetTokenRepository, jwtSvc, resolver, log)
	authHandler := auth.NewHandler(authService)

	accountService := account.NewService(accountRepository, sessionRepository, log)
	accountHandler := account.NewHandler(accountService)

	// Store settings: versioned documents with a Redis read-through cache.
	settingRepository := settings.NewSettingRepository(pool)
	settingCache := settings.NewSettingCache(rdb)
	settingsService := settings.NewService(settingRepository, settingCache, feed, log)
	settingsHandler := settings.NewHandler(settingsService)

	// Other API replicas invalidate their cached settings on feed events.
	stopSettingsFeed := feed.Subscribe(appCtx, constants.FeedSettings, func(event events.Event) {
		if err := settingCache.Invalidate(appCtx, event.Subject); err != nil {
			log.Warn("settings_cache_invalidation_failed",
				slog.String("key", event.Subject),
				slog.Any("error", err),
			)
		}
	})
	defer stopSettingsFeed()

	// Catalog: bilingual products and categories.
	productRepository := catalog.NewProductRepository(pool)
	categoryRepository := catalog.NewCategoryRepository(pool)
	catalogService := catalog.NewService(productRepository, categoryRepository, feed, log)
	catalogHandler := catalog.NewHandler(catalogService)

	// VIP loyalty program.
	tierRepository := vip.NewTierRepository(pool)
	membershipRepository := vip.NewMembershipRepository(pool)
	vipService := vip.NewService(tierRepository, membershipRepository, log)
	vipHandler := vip.NewHandler(vipService)

	// Cart and checkout, priced through the shipping policy and VIP discount.
	cartRepository := cart.NewCartRepository(pool)
	orderRepository := cart.NewOrderRepository(pool)
	cartService := cart.NewService(cartRepository, orderRepository, productRepository, settingsService, vipService, log)
	cartHandler := cart.NewHandler(cartService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Account:   accountHandler,
		Access:    accessHandler,
		Catalog:   catalogHandler,
		Cart:      cartHandler,
		VIP:       vipHandler,
		Settings:  settingsHandler,
	}

	server := api.NewServer(appCtx, cfg, log, jwtSvc, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
