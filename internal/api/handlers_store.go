// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tomtom215/taptodine/internal/logging"
	"github.com/tomtom215/taptodine/internal/models"
	"github.com/tomtom215/taptodine/internal/session"
	"github.com/tomtom215/taptodine/internal/store"
	ws "github.com/tomtom215/taptodine/internal/websocket"
)

// visitorSession returns the session attached by the session middleware.
func visitorSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusInternalServerError, "Session unavailable", errors.New("session middleware not installed"))
		return nil, false
	}
	return sess, true
}

// respondState writes a store snapshot. A failed refresh answers 500 with the
// snapshot, whose error field carries the visitor-facing message.
func respondState(w http.ResponseWriter, state store.State, err error) {
	status := http.StatusOK
	if err != nil {
		status = http.StatusInternalServerError
	}
	respondJSON(w, status, state)
}

// StoreState handles GET /api/store.
func (h *Handler) StoreState(w http.ResponseWriter, r *http.Request) {
	sess, ok := visitorSession(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, sess.Store.Snapshot())
}

// RefreshMenu handles POST /api/store/menu.
func (h *Handler) RefreshMenu(w http.ResponseWriter, r *http.Request) {
	sess, ok := visitorSession(w, r)
	if !ok {
		return
	}
	state, err := sess.Store.FetchMenu(r.Context())
	respondState(w, state, err)
}

// RefreshOrders handles POST /api/store/orders.
func (h *Handler) RefreshOrders(w http.ResponseWriter, r *http.Request) {
	sess, ok := visitorSession(w, r)
	if !ok {
		return
	}
	state, err := sess.Store.FetchOrders(r.Context())
	respondState(w, state, err)
}

// AddOrder handles POST /api/store/orders/add. The order is appended to the
// local history as given; missing IDs, status and timestamps are filled in.
func (h *Handler) AddOrder(w http.ResponseWriter, r *http.Request) {
	sess, ok := visitorSession(w, r)
	if !ok {
		return
	}

	var req AddOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order := models.Order{
		ID:             req.ID,
		RestaurantName: req.RestaurantName,
		Items:          req.Items,
		Total:          req.Total,
		Status:         req.Status,
		CreatedAt:      req.CreatedAt,
	}
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = models.NewTimestamp(time.Now().UTC())
	}
	if order.Items == nil {
		order.Items = []models.CartItem{}
	}

	respondJSON(w, http.StatusCreated, sess.Store.AddOrder(order))
}

// AddCartItem handles POST /api/cart/items. The item is looked up in the
// visitor's menu, which is loaded first if the store has none yet.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := visitorSession(w, r)
	if !ok {
		return
	}

	var req AddCartItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, found := sess.Store.MenuItem(req.ItemID)
	if !found && len(sess.Store.Snapshot().Menu) == 0 {
		if state, err := sess.Store.FetchMenu(r.Context()); err != nil {
			respondState(w, state, err)
			return
		}
		item, found = sess.Store.MenuItem(req.ItemID)
	}
	if !found {
		logging.Ctx(r.Context()).Debug().Str("item_id", sanitizeLogValue(req.ItemID)).Msg("Unknown menu item")
		respondError(w, http.StatusNotFound, "Menu item not found", nil)
		return
	}

	state, err := sess.Store.Add(item, req.Quantity, req.Options)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// UpdateCartItem handles PUT /api/cart/items/{id}.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := visitorSession(w, r)
	if !ok {
		return
	}

	var req SetQuantityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	respondJSON(w, http.StatusOK, sess.Store.SetQuantity(chi.URLParam(r, "id"), *req.Quantity))
}

// RemoveCartItem handles DELETE /api/cart/items/{id}.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := visitorSession(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, sess.Store.Remove(chi.URLParam(r, "id")))
}

// ClearCart handles DELETE /api/cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sess, ok := visitorSession(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, sess.Store.Clear())
}

// WebSocket upgrades the connection and streams the visitor's store state.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, http.StatusServiceUnavailable, "WebSocket service unavailable", nil)
		return
	}
	sess, ok := visitorSession(w, r)
	if !ok {
		return
	}

	// The upgrade bypasses w.Header(), so a freshly issued visitor cookie
	// has to travel in the handshake response.
	var respHeader http.Header
	if cookies := w.Header().Values("Set-Cookie"); len(cookies) > 0 {
		respHeader = http.Header{"Set-Cookie": cookies}
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, respHeader)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.NewClient(h.wsHub, conn, sess.Key, sess.Store)
	h.wsHub.Register <- client
	client.Start()
}
