// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/taptodine/internal/models"
	"github.com/tomtom215/taptodine/internal/tenant"
)

// breakerReporter is implemented by sources guarded by circuit breakers.
type breakerReporter interface {
	BreakerStates() map[string]string
}

// Health handles GET /api/health. The service is degraded while any
// upstream circuit breaker is open.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:  "healthy",
		Version: h.version,
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
		Tenants: []string{},
	}
	if h.registry != nil {
		resp.Tenants = h.registry.IDs()
	}
	if h.sessions != nil {
		resp.ActiveSessions = h.sessions.Active()
	}
	if br, ok := h.source.(breakerReporter); ok {
		resp.Breakers = br.BreakerStates()
		for _, state := range resp.Breakers {
			if state == "open" {
				resp.Status = "degraded"
			}
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// ClientConfig handles GET /api/config, exposing the settings the browser
// needs to start a checkout.
func (h *Handler) ClientConfig(w http.ResponseWriter, r *http.Request) {
	resp := models.ClientConfigResponse{
		CheckoutEnabled: h.checkout != nil,
		Tenant:          tenant.FromRequest(r),
	}
	if h.config != nil {
		resp.StripePublishableKey = h.config.Payment.PublishableKey
	}
	respondJSON(w, http.StatusOK, resp)
}
