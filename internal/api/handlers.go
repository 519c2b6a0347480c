// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/taptodine/internal/checkout"
	"github.com/tomtom215/taptodine/internal/config"
	"github.com/tomtom215/taptodine/internal/customer"
	"github.com/tomtom215/taptodine/internal/logging"
	"github.com/tomtom215/taptodine/internal/session"
	"github.com/tomtom215/taptodine/internal/store"
	ws "github.com/tomtom215/taptodine/internal/websocket"
)

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, websocket upgrader (this file)
//   - handlers_helpers.go: JSON encoding and request decoding
//   - handlers_proxy.go: tenant menu and order endpoints
//   - handlers_store.go: session-scoped cart and store endpoints
//   - handlers_checkout.go: payment session endpoints
//   - handlers_health.go: health and client config endpoints
type Handler struct {
	config    *config.Config
	source    store.Source
	registry  *customer.Registry
	sessions  *session.Manager
	wsHub     *ws.Hub
	checkout  *checkout.Service
	version   string
	startTime time.Time
}

// Deps lists the collaborators of a Handler. Checkout is nil when no
// payment provider is configured; Hub is nil when live updates are off.
type Deps struct {
	Config   *config.Config
	Source   store.Source
	Registry *customer.Registry
	Sessions *session.Manager
	Hub      *ws.Hub
	Checkout *checkout.Service
	Version  string
}

// NewHandler creates a new API handler.
//
// Example:
//
//	handler := api.NewHandler(api.Deps{Config: cfg, Source: gw, Sessions: sessions, ...})
//	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(cfg.Security), resolver, sessions)
//	http.ListenAndServe(cfg.Server.Addr(), router.SetupChi())
func NewHandler(deps Deps) *Handler {
	return &Handler{
		config:    deps.Config,
		source:    deps.Source,
		registry:  deps.Registry,
		sessions:  deps.Sessions,
		wsHub:     deps.Hub,
		checkout:  deps.Checkout,
		version:   deps.Version,
		startTime: time.Now(),
	}
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Browsers always send Origin; allowing it to be empty would bypass CORS.
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	if h.config == nil {
		return true
	}

	for _, allowedOrigin := range h.config.Security.CORSOrigins {
		if allowedOrigin == "*" || allowedOrigin == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
