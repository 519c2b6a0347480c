// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	tenantKey    contextKey = "tenant"
	sessionKey   contextKey = "session"
)

// GenerateRequestID creates a new request ID.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithRequestID returns a context carrying the HTTP request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID, or "" if none is set.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithTenant returns a context whose log lines carry the tenant ID.
func ContextWithTenant(ctx context.Context, tenant string) context.Context {
	return context.WithValue(ctx, tenantKey, tenant)
}

// ContextWithSession returns a context whose log lines carry the visitor session key.
// Only the first eight characters are logged.
func ContextWithSession(ctx context.Context, session string) context.Context {
	if len(session) > 8 {
		session = session[:8]
	}
	return context.WithValue(ctx, sessionKey, session)
}

// Ctx returns the global logger enriched with request_id, tenant and session
// fields found in ctx.
//
//	logging.Ctx(ctx).Info().Msg("Cart updated")
func Ctx(ctx context.Context) *zerolog.Logger {
	logger := CtxWith(ctx).Logger()
	return &logger
}

// CtxWith returns a logger context builder pre-populated from ctx.
func CtxWith(ctx context.Context) zerolog.Context {
	logCtx := global.Load().With()
	if id := RequestIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("request_id", id)
	}
	if tenant, ok := ctx.Value(tenantKey).(string); ok && tenant != "" {
		logCtx = logCtx.Str("tenant", tenant)
	}
	if session, ok := ctx.Value(sessionKey).(string); ok && session != "" {
		logCtx = logCtx.Str("session", session)
	}
	return logCtx
}
