// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

/*
Package middleware provides the HTTP infrastructure middleware shared by
every route: request IDs, Prometheus instrumentation and access logging.

Key Components:

  - RequestID: accepts or generates X-Request-ID and puts it in the logging
    context
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled
    by chi route pattern so path parameters do not explode cardinality
  - AccessLog: one structured line per request, raised to warn above a
    latency threshold

Middleware Stack:

The router installs them outermost first:

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog(time.Second))
	r.Use(middleware.PrometheusMetrics)

The tenant resolver wraps the whole router, so the tenant is already in
the context when these run.

All wrappers use chi's WrapResponseWriter, which keeps http.Hijacker and
http.Flusher available for the websocket upgrade.
*/
package middleware
