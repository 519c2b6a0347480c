// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package tenant

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type captured struct {
	header     string
	ctxTenant  string
	ctxFound   bool
	path       string
	requestURI string
	basePath   string
}

func capture(dst *captured) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dst.header = r.Header.Get(HeaderCustomerID)
		dst.ctxTenant, dst.ctxFound = FromContext(r.Context())
		dst.path = r.URL.Path
		dst.requestURI = r.RequestURI
		dst.basePath = BasePath(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestMiddleware_Subdomain(t *testing.T) {
	t.Parallel()

	var got captured
	handler := NewResolver().Middleware(capture(&got))

	req := httptest.NewRequest(http.MethodGet, "http://customer1.example.com/api/menu", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got.header != "customer1" {
		t.Errorf("header = %q, want customer1", got.header)
	}
	if !got.ctxFound || got.ctxTenant != "customer1" {
		t.Errorf("context tenant = %q (%v)", got.ctxTenant, got.ctxFound)
	}
	if got.path != "/api/menu" {
		t.Errorf("path = %q, want unchanged", got.path)
	}
	if got.basePath != "" {
		t.Errorf("basePath = %q, want empty for subdomain tenants", got.basePath)
	}
}

func TestMiddleware_LocalRewrite(t *testing.T) {
	t.Parallel()

	var got captured
	handler := NewResolver().Middleware(capture(&got))

	req := httptest.NewRequest(http.MethodGet, "http://localhost:3000/customer2/api/orders?x=1", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got.header != "customer2" {
		t.Errorf("header = %q, want customer2", got.header)
	}
	if got.path != "/api/orders" {
		t.Errorf("path = %q, want /api/orders", got.path)
	}
	if got.basePath != "/customer2" {
		t.Errorf("basePath = %q, want /customer2", got.basePath)
	}
	if got.requestURI != "/api/orders?x=1" {
		t.Errorf("RequestURI = %q, want /api/orders?x=1", got.requestURI)
	}
	if req.URL.Path != "/customer2/api/orders" {
		t.Errorf("middleware mutated the caller's request: %q", req.URL.Path)
	}
}

func TestMiddleware_BasePathKeepsOriginalSegment(t *testing.T) {
	t.Parallel()

	var got captured
	handler := NewResolver().Middleware(capture(&got))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "http://localhost:3000/Customer1/checkout", nil))

	if got.ctxTenant != "customer1" {
		t.Errorf("tenant = %q, want customer1", got.ctxTenant)
	}
	if got.basePath != "/Customer1" {
		t.Errorf("basePath = %q, want /Customer1", got.basePath)
	}
}

func TestMiddleware_StripsSpoofedHeader(t *testing.T) {
	t.Parallel()

	var got captured
	handler := NewResolver().Middleware(capture(&got))

	req := httptest.NewRequest(http.MethodGet, "http://example.com/api/orders", nil)
	req.Header.Set(HeaderCustomerID, "customer2")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got.header != "" {
		t.Errorf("client supplied header should be removed, got %q", got.header)
	}
	if got.ctxFound {
		t.Errorf("no tenant expected in context, got %q", got.ctxTenant)
	}
}

func TestFromRequestFallsBackToHeader(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/menu", nil)
	req.Header.Set(HeaderCustomerID, "customer1")
	if got := FromRequest(req); got != "customer1" {
		t.Errorf("FromRequest() = %q, want customer1", got)
	}

	req = req.WithContext(WithTenant(req.Context(), "customer2"))
	if got := FromRequest(req); got != "customer2" {
		t.Errorf("FromRequest() = %q, want context value customer2", got)
	}
}
