// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

// Package metrics defines the Prometheus instruments exported on /metrics.
//
// Instruments are registered on the default registry through promauto at
// package init. Callers use the Record* helpers rather than the vectors so
// label sets stay consistent.
//
// Families:
//   - api_*: request count, latency, in-flight requests, rate limit rejections
//   - tenant_resolutions_total: how each request's tenant was resolved
//   - gateway_*: upstream calls to tenant backends
//   - circuit_breaker_*: per-upstream breaker state
//   - cart_operations_total, store_*: cart store activity
//   - sessions_active, websocket_*: visitor sessions and live connections
//   - checkout_*: payment sessions and placed orders
package metrics
