// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package api

import (
	"net/http"

	"github.com/tomtom215/taptodine/internal/gateway"
	"github.com/tomtom215/taptodine/internal/logging"
	"github.com/tomtom215/taptodine/internal/models"
	"github.com/tomtom215/taptodine/internal/tenant"
)

// Menu handles GET /api/menu for the resolved tenant.
//
// Every upstream failure, whatever its cause, answers 500 with
// {"error":"Failed to fetch menu"}; the cause is only logged.
func (h *Handler) Menu(w http.ResponseWriter, r *http.Request) {
	tenantID := tenant.FromRequest(r)

	menu, err := h.source.FetchMenu(r.Context(), tenantID)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("customer_id", tenantID).Msg("Error fetching menu")
		respondError(w, http.StatusInternalServerError, gateway.EnvelopeMessage(gateway.OpMenu), nil)
		return
	}

	items := menu.Items
	if items == nil {
		items = []models.MenuItem{}
	}
	respondJSON(w, http.StatusOK, models.MenuResponse{
		Menu:           items,
		RestaurantName: menu.RestaurantName,
	})
}

// Orders handles GET /api/orders for the resolved tenant. Requests without
// a tenant fail like any other upstream error.
func (h *Handler) Orders(w http.ResponseWriter, r *http.Request) {
	tenantID := tenant.FromRequest(r)

	orders, err := h.source.FetchOrders(r.Context(), tenantID)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("customer_id", tenantID).Msg("Error fetching orders")
		respondError(w, http.StatusInternalServerError, gateway.EnvelopeMessage(gateway.OpOrders), nil)
		return
	}

	if orders == nil {
		orders = []models.Order{}
	}
	respondJSON(w, http.StatusOK, models.OrdersResponse{Orders: orders})
}
