// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/taptodine/internal/config"
	"github.com/tomtom215/taptodine/internal/models"
	"github.com/tomtom215/taptodine/internal/tenant"
)

type nopSource struct{}

func (nopSource) FetchMenu(context.Context, string) (*models.Menu, error) {
	return &models.Menu{}, nil
}

func (nopSource) FetchOrders(context.Context, string) ([]models.Order, error) {
	return nil, nil
}

func testManager() *Manager {
	return NewManager(config.SessionConfig{
		TTL:             time.Hour,
		CleanupInterval: 10 * time.Millisecond,
		CookieName:      "tt_session",
	}, nopSource{})
}

func TestKey(t *testing.T) {
	t.Parallel()

	if got := Key("customer1", "v"); got != "customer1:v" {
		t.Errorf("Key = %q", got)
	}
	if got := Key("", "v"); got != "_default:v" {
		t.Errorf("Key without tenant = %q", got)
	}
}

func TestManager_GetIsPerTenantAndVisitor(t *testing.T) {
	t.Parallel()

	m := testManager()
	a := m.Get("customer1", "visitor-a")
	if again := m.Get("customer1", "visitor-a"); again != a {
		t.Error("same tenant and visitor should share a store")
	}
	if other := m.Get("customer2", "visitor-a"); other == a {
		t.Error("each tenant needs its own store")
	}
	if other := m.Get("customer1", "visitor-b"); other == a {
		t.Error("each visitor needs its own store")
	}
	if a.Tenant() != "customer1" {
		t.Errorf("store tenant = %q", a.Tenant())
	}
	if m.Active() != 3 {
		t.Errorf("Active() = %d, want 3", m.Active())
	}
}

func TestManager_SweepExpires(t *testing.T) {
	t.Parallel()

	m := testManager()
	m.Get("customer1", "v1")

	var mu sync.Mutex
	var expired []string
	m.OnExpire(func(key string) {
		mu.Lock()
		expired = append(expired, key)
		mu.Unlock()
	})

	if removed := m.Sweep(time.Now()); removed != 0 {
		t.Errorf("fresh session swept, removed = %d", removed)
	}
	if removed := m.Sweep(time.Now().Add(2 * time.Hour)); removed != 1 {
		t.Errorf("Sweep() = %d, want 1", removed)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(expired) != 1 || expired[0] != "customer1:v1" {
		t.Errorf("expired = %v", expired)
	}
	if _, ok := m.Lookup("customer1:v1"); ok {
		t.Error("expired session should be gone")
	}
}

func TestManager_ServeStopsOnCancel(t *testing.T) {
	t.Parallel()

	m := testManager()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Serve(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not stop")
	}
}

func TestMiddleware_IssuesCookie(t *testing.T) {
	t.Parallel()

	m := testManager()
	var got *Session
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = FromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/store", nil))

	if got == nil || got.Store == nil {
		t.Fatal("expected a session in the request context")
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "tt_session" {
		t.Fatalf("cookies = %+v", cookies)
	}
	c := cookies[0]
	if !c.HttpOnly || c.SameSite != http.SameSiteLaxMode || c.Path != "/" {
		t.Errorf("cookie attributes = %+v", c)
	}
	if c.Value != got.Visitor {
		t.Errorf("cookie %q does not match visitor %q", c.Value, got.Visitor)
	}
	if got.Key != Key("", got.Visitor) {
		t.Errorf("Key = %q", got.Key)
	}
}

func TestMiddleware_ReusesCookieAndTenant(t *testing.T) {
	t.Parallel()

	m := testManager()
	visitor := uuid.NewString()

	var sessions []*Session
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := FromContext(r.Context())
		sessions = append(sessions, sess)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/store", nil)
		req.AddCookie(&http.Cookie{Name: "tt_session", Value: visitor})
		req = req.WithContext(tenant.WithTenant(req.Context(), "customer2"))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if len(rec.Result().Cookies()) != 0 {
			t.Error("a valid cookie should not be reissued")
		}
	}

	if sessions[0].Store != sessions[1].Store {
		t.Error("requests with the same cookie should share a store")
	}
	if sessions[0].Tenant != "customer2" || sessions[0].Key != "customer2:"+visitor {
		t.Errorf("session = %+v", sessions[0])
	}
}

func TestMiddleware_ReplacesInvalidCookie(t *testing.T) {
	t.Parallel()

	m := testManager()
	handler := m.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/store", nil)
	req.AddCookie(&http.Cookie{Name: "tt_session", Value: "../../etc/passwd"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected a fresh cookie, got %+v", cookies)
	}
	if _, err := uuid.Parse(cookies[0].Value); err != nil {
		t.Errorf("fresh cookie is not a UUID: %q", cookies[0].Value)
	}
}

func TestFromContextWithoutSession(t *testing.T) {
	t.Parallel()

	if _, ok := FromContext(context.Background()); ok {
		t.Error("expected no session")
	}
}
