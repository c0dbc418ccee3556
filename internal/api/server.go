// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/nabtahq/nabta/internal/access"
	"github.com/nabtahq/nabta/internal/cart"
	"github.com/nabtahq/nabta/internal/catalog"
	"github.com/nabtahq/nabta/internal/platform/config"
	"github.com/nabtahq/nabta/internal/platform/constants"
	"github.com/nabtahq/nabta/internal/platform/middleware"
	"github.com/nabtahq/nabta/internal/platform/sec"
	"github.com/nabtahq/nabta/internal/settings"
	"github.com/nabtahq/nabta/internal/users/account"
	"github.com/nabtahq/nabta/internal/users/auth"
	"github.com/nabtahq/nabta/internal/vip"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles authentication routes (login, register, refresh).
	Auth *auth.Handler

	// Account handles the caller's own profile.
	Account *account.Handler

	// Access handles role resolution and staff role administration.
	Access *access.Handler

	// Catalog handles products and categories.
	Catalog *catalog.Handler

	// Cart handles the cart, checkout, and order history.
	Cart *cart.Handler

	// VIP handles the loyalty program.
	VIP *vip.Handler

	// Settings handles versioned store configuration documents.
	Settings *settings.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Route Guards
	// Capability guards are derived from the role claim the resolver stamped
	// into the JWT; the closed role table makes each guard a pure lookup.
	authed := middleware.RequireAuth()
	adminOnly := middleware.RequireCapability(sec.CapManageRoles)
	productStaff := middleware.RequireCapability(sec.CapEditProducts)
	settingsStaff := middleware.RequireCapability(sec.CapEditSettings)
	vipStaff := middleware.RequireCapability(sec.CapManageVIP)

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/account", h.Account.Routes(authed))
		api.Mount("/access", h.Access.Routes(adminOnly))
		api.Mount("/catalog", h.Catalog.Routes(productStaff))
		api.Mount("/cart", h.Cart.Routes(authed))
		api.Mount("/vip", h.VIP.Routes(authed, vipStaff))
		api.Mount("/settings", h.Settings.Routes(settingsStaff))
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
