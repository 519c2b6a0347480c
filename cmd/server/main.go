// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

// Package main is the entry point for the Taptodine storefront server.
//
// One deployment serves many restaurants. Each request is attributed to a
// restaurant by its subdomain (customer1.example.com) or, on local hosts,
// by the first path segment (localhost:3000/customer1/menu). Menus and order
// history are proxied from that restaurant's backend; carts live in memory
// per visitor and per restaurant.
//
// # Startup
//
//  1. Configuration: defaults, config.yaml, .env and the environment (Koanf v2)
//  2. Customer registry and upstream gateway
//  3. Session manager, websocket hub and optional checkout service
//  4. Chi router behind the tenant resolver
//  5. Supervisor tree running every long-lived service
//
// # Configuration
//
// Tenants are listed under customers: in config.yaml; everything else can
// also come from the environment:
//
//	export API_BASE_URL=https://api.example.com
//	export STRIPE_SECRET_KEY=sk_test_...   # enables checkout
//	./taptodine
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor tree; the HTTP server drains
// in-flight requests for up to SHUTDOWN_TIMEOUT.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/taptodine/internal/api"
	"github.com/tomtom215/taptodine/internal/checkout"
	"github.com/tomtom215/taptodine/internal/config"
	"github.com/tomtom215/taptodine/internal/customer"
	"github.com/tomtom215/taptodine/internal/gateway"
	"github.com/tomtom215/taptodine/internal/logging"
	"github.com/tomtom215/taptodine/internal/session"
	"github.com/tomtom215/taptodine/internal/supervisor"
	"github.com/tomtom215/taptodine/internal/supervisor/services"
	"github.com/tomtom215/taptodine/internal/tenant"
	ws "github.com/tomtom215/taptodine/internal/websocket"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
		Output: os.Stderr,
	})

	registry := customer.NewRegistryFromConfig(cfg)
	logging.Info().
		Str("version", version).
		Strs("tenants", registry.IDs()).
		Bool("payments", cfg.Payment.Enabled()).
		Msg("Starting Taptodine")

	gw := gateway.NewClient(cfg.Gateway, registry)
	sessions := session.NewManager(cfg.Session, gw)

	hub := ws.NewHub()
	sessions.OnExpire(hub.CloseSession)

	var checkoutSvc *checkout.Service
	if cfg.Payment.Enabled() {
		checkoutSvc = checkout.NewService(cfg.Payment, checkout.NewStripeProvider(cfg.Payment.SecretKey))
	} else {
		logging.Info().Msg("Checkout disabled (STRIPE_SECRET_KEY not set)")
	}

	handler := api.NewHandler(api.Deps{
		Config:   cfg,
		Source:   gw,
		Registry: registry,
		Sessions: sessions,
		Hub:      hub,
		Checkout: checkoutSvc,
		Version:  version,
	})
	router := api.NewRouter(
		handler,
		api.NewChiMiddlewareFromConfig(cfg.Security),
		tenant.NewResolver(cfg.Tenancy.ReservedRoutes...),
		sessions,
		cfg.Server.StaticDir,
	)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddMaintenanceService(sessions)
	if checkoutSvc != nil {
		tree.AddMaintenanceService(checkoutSvc)
	}
	tree.AddMessagingService(hub)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for services to stop")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Taptodine stopped")
}
