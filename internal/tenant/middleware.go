// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package tenant

import (
	"context"
	"net/http"

	"github.com/tomtom215/taptodine/internal/logging"
	"github.com/tomtom215/taptodine/internal/metrics"
)

// HeaderCustomerID carries the resolved tenant ID to downstream handlers.
const HeaderCustomerID = "X-Customer-Id"

type contextKey struct{}

type prefixKey struct{}

// WithTenant returns a context carrying the tenant ID.
func WithTenant(ctx context.Context, tenant string) context.Context {
	return context.WithValue(ctx, contextKey{}, tenant)
}

// FromContext returns the tenant ID stored by Middleware.
func FromContext(ctx context.Context) (string, bool) {
	tenant, ok := ctx.Value(contextKey{}).(string)
	return tenant, ok && tenant != ""
}

// BasePath returns the path prefix the tenant was resolved from, such as
// "/customer2" on a local host, or "" when the path was not rewritten.
func BasePath(ctx context.Context) string {
	prefix, _ := ctx.Value(prefixKey{}).(string)
	return prefix
}

// FromRequest returns the tenant ID of r, preferring the context value and
// falling back to the X-Customer-Id header.
func FromRequest(r *http.Request) string {
	if tenant, ok := FromContext(r.Context()); ok {
		return tenant
	}
	return r.Header.Get(HeaderCustomerID)
}

// Middleware resolves the tenant of each request before next sees it.
// The X-Customer-Id header always reflects the resolution; a client cannot
// select a tenant by sending the header itself.
func (rv *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := rv.Resolve(r.Host, r.URL.Path)
		metrics.RecordTenantResolution(string(res.Source))

		ctx := r.Context()
		if res.Found() {
			ctx = WithTenant(ctx, res.Tenant)
			ctx = logging.ContextWithTenant(ctx, res.Tenant)
		}
		if res.Rewritten() {
			ctx = context.WithValue(ctx, prefixKey{}, res.Prefix)
		}

		req := r.Clone(ctx)
		if res.Found() {
			req.Header.Set(HeaderCustomerID, res.Tenant)
		} else {
			req.Header.Del(HeaderCustomerID)
		}
		if res.Rewritten() {
			req.URL.Path = res.Path
			req.URL.RawPath = ""
			req.RequestURI = req.URL.RequestURI()
		}

		next.ServeHTTP(w, req)
	})
}
