// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/taptodine/internal/models"
	"github.com/tomtom215/taptodine/internal/store"
)

const storeBase = "http://localhost:3000/customer1/api"

func TestStore_IssuesVisitorCookie(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	c := env.client(t)

	rec := c.do(http.MethodGet, storeBase+"/store", nil)
	assertStatus(t, rec, http.StatusOK)
	if len(c.cookies) != 1 || c.cookies[0].Name != "tt_session" || !c.cookies[0].HttpOnly {
		t.Fatalf("cookies = %+v", c.cookies)
	}

	state := decodeBody[store.State](t, rec)
	if len(state.Cart) != 0 || state.ItemCount != 0 {
		t.Errorf("new store should be empty: %+v", state)
	}

	// Same visitor keeps the same session.
	c.do(http.MethodGet, storeBase+"/store", nil)
	if env.sessions.Active() != 1 {
		t.Errorf("active sessions = %d, want 1", env.sessions.Active())
	}
}

func TestCart_Flow(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	c := env.client(t)

	// The menu is loaded on demand for the first add.
	rec := c.do(http.MethodPost, storeBase+"/cart/items", AddCartItemRequest{ItemID: "1", Quantity: 2})
	assertStatus(t, rec, http.StatusOK)
	state := decodeBody[store.State](t, rec)
	if state.ItemCount != 2 || state.Total != 21.98 {
		t.Fatalf("after add: %+v", state)
	}
	if state.RestaurantName != "Trattoria customer1" {
		t.Errorf("restaurantName = %q", state.RestaurantName)
	}

	rec = c.do(http.MethodPost, storeBase+"/cart/items", AddCartItemRequest{ItemID: "2", Quantity: 1, Options: []string{"extra cocoa"}})
	state = decodeBody[store.State](t, rec)
	if len(state.Cart) != 2 || state.Total != 28.48 {
		t.Fatalf("after second add: %+v", state)
	}
	if env.source.menuCallCount() != 1 {
		t.Errorf("menu fetched %d times, want 1", env.source.menuCallCount())
	}

	rec = c.do(http.MethodPut, storeBase+"/cart/items/1", map[string]int{"quantity": 5})
	state = decodeBody[store.State](t, rec)
	if state.ItemCount != 6 {
		t.Errorf("after set quantity: itemCount = %d, want 6", state.ItemCount)
	}

	rec = c.do(http.MethodPut, storeBase+"/cart/items/2", map[string]int{"quantity": 0})
	state = decodeBody[store.State](t, rec)
	if len(state.Cart) != 1 || state.Cart[0].ID != "1" {
		t.Errorf("quantity 0 should remove the item: %+v", state.Cart)
	}

	rec = c.do(http.MethodDelete, storeBase+"/cart/items/1", nil)
	state = decodeBody[store.State](t, rec)
	if len(state.Cart) != 0 {
		t.Errorf("after remove: %+v", state.Cart)
	}

	c.do(http.MethodPost, storeBase+"/cart/items", AddCartItemRequest{ItemID: "1", Quantity: 1})
	rec = c.do(http.MethodDelete, storeBase+"/cart", nil)
	state = decodeBody[store.State](t, rec)
	if len(state.Cart) != 0 || state.Total != 0 {
		t.Errorf("after clear: %+v", state)
	}
}

func TestCart_SeparatePerTenant(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	c := env.client(t)

	c.do(http.MethodPost, storeBase+"/cart/items", AddCartItemRequest{ItemID: "1", Quantity: 1})

	rec := c.do(http.MethodGet, "http://localhost:3000/customer2/api/store", nil)
	state := decodeBody[store.State](t, rec)
	if len(state.Cart) != 0 {
		t.Errorf("customer2 cart should be empty, got %+v", state.Cart)
	}

	rec = c.do(http.MethodGet, storeBase+"/store", nil)
	state = decodeBody[store.State](t, rec)
	if state.ItemCount != 1 {
		t.Errorf("customer1 itemCount = %d, want 1", state.ItemCount)
	}
}

func TestCart_VisitorsAreIsolated(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)

	env.client(t).do(http.MethodPost, storeBase+"/cart/items", AddCartItemRequest{ItemID: "1", Quantity: 1})

	rec := env.client(t).do(http.MethodGet, storeBase+"/store", nil)
	if state := decodeBody[store.State](t, rec); len(state.Cart) != 0 {
		t.Errorf("another visitor's cart leaked: %+v", state.Cart)
	}
}

func TestCart_BadRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		method  string
		path    string
		body    interface{}
		status  int
		message string
	}{
		{
			name: "zero quantity", method: http.MethodPost, path: "/cart/items",
			body:   AddCartItemRequest{ItemID: "1", Quantity: 0},
			status: http.StatusBadRequest, message: "quantity must be at least 1",
		},
		{
			name: "missing item id", method: http.MethodPost, path: "/cart/items",
			body:   map[string]int{"quantity": 1},
			status: http.StatusBadRequest, message: "itemId is required",
		},
		{
			name: "malformed json", method: http.MethodPost, path: "/cart/items",
			body:   `{"itemId":`,
			status: http.StatusBadRequest, message: "Invalid request body",
		},
		{
			name: "empty body", method: http.MethodPost, path: "/cart/items",
			status: http.StatusBadRequest, message: "Invalid request body",
		},
		{
			name: "unknown item", method: http.MethodPost, path: "/cart/items",
			body:   AddCartItemRequest{ItemID: "404", Quantity: 1},
			status: http.StatusNotFound, message: "Menu item not found",
		},
		{
			name: "missing quantity", method: http.MethodPut, path: "/cart/items/1",
			body:   map[string]string{},
			status: http.StatusBadRequest, message: "quantity is required",
		},
		{
			name: "negative quantity", method: http.MethodPut, path: "/cart/items/1",
			body:   map[string]int{"quantity": -1},
			status: http.StatusBadRequest, message: "quantity must be at least 0",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, nil)
			rec := env.client(t).do(tt.method, storeBase+tt.path, tt.body)
			assertError(t, rec, tt.status, tt.message)
		})
	}
}

func TestCart_AddWhenMenuUnavailable(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	env.source.menuErr = errors.New("upstream down")

	rec := env.client(t).do(http.MethodPost, storeBase+"/cart/items", AddCartItemRequest{ItemID: "1", Quantity: 1})
	assertStatus(t, rec, http.StatusInternalServerError)
	state := decodeBody[store.State](t, rec)
	if state.Error != store.MsgMenuFailed || state.IsLoading {
		t.Errorf("state = %+v", state)
	}
}

func TestStore_Refresh(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	c := env.client(t)

	rec := c.do(http.MethodPost, storeBase+"/store/menu", nil)
	assertStatus(t, rec, http.StatusOK)
	if state := decodeBody[store.State](t, rec); len(state.Menu) != 2 || state.Error != "" {
		t.Errorf("menu refresh: %+v", state)
	}

	rec = c.do(http.MethodPost, storeBase+"/store/orders", nil)
	assertStatus(t, rec, http.StatusOK)
	if state := decodeBody[store.State](t, rec); len(state.Orders) != 1 {
		t.Errorf("orders refresh: %+v", state.Orders)
	}

	// A failed refresh keeps the menu already loaded.
	env.source.mu.Lock()
	env.source.menuErr = errors.New("timeout")
	env.source.mu.Unlock()

	rec = c.do(http.MethodPost, storeBase+"/store/menu", nil)
	assertStatus(t, rec, http.StatusInternalServerError)
	state := decodeBody[store.State](t, rec)
	if state.Error != "Failed to fetch menu" || len(state.Menu) != 2 || state.IsLoading {
		t.Errorf("failed refresh: %+v", state)
	}
}

func TestStore_AddOrder(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, nil)
	c := env.client(t)

	rec := c.do(http.MethodPost, storeBase+"/store/orders/add", AddOrderRequest{
		RestaurantName: "Trattoria",
		Items:          []models.CartItem{{MenuItem: models.MenuItem{ID: "1", Name: "Margherita", Price: 10.99}, Quantity: 1}},
		Total:          10.99,
	})
	assertStatus(t, rec, http.StatusCreated)
	state := decodeBody[store.State](t, rec)
	if len(state.Orders) != 1 {
		t.Fatalf("orders = %+v", state.Orders)
	}
	order := state.Orders[0]
	if order.ID == "" || order.Status != models.OrderStatusPending || order.CreatedAt.IsZero() {
		t.Errorf("defaults not applied: %+v", order)
	}

	rec = c.do(http.MethodPost, storeBase+"/store/orders/add", map[string]string{"status": "shipped"})
	assertError(t, rec, http.StatusBadRequest, "status must be one of: pending completed cancelled")
}

func TestVisitorSession_MissingMiddleware(t *testing.T) {
	t.Parallel()
	h := NewHandler(Deps{})

	rec := httptest.NewRecorder()
	h.StoreState(rec, httptest.NewRequest(http.MethodGet, "/api/store", nil))
	assertError(t, rec, http.StatusInternalServerError, "Session unavailable")
}
