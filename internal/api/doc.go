// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

/*
Package api provides the HTTP surface of the storefront service.

Routing uses the Chi router. The tenant resolver wraps the whole router, so a
request for http://localhost:3000/customer2/api/menu reaches the /api/menu
route with customer2 as its tenant, while customer1.example.com/api/menu is
routed unchanged.

# Endpoints

Tenant catalogue (proxied to the tenant's backend):
  - GET /api/menu: {"menu": [...], "restaurantName": "..."}
  - GET /api/orders: {"orders": [...]}
  - GET /api/config: publishable payment key and checkout availability

Any upstream failure on the catalogue routes answers 500 with
{"error": "Failed to fetch menu"} or {"error": "Failed to fetch orders"}.

Visitor store (scoped to the visitor cookie and tenant):
  - GET /api/store: current store snapshot
  - POST /api/store/menu, POST /api/store/orders: refresh from the backend
  - POST /api/store/orders/add: append an order to the local history
  - POST /api/cart/items, PUT /api/cart/items/{id}, DELETE /api/cart/items/{id}
  - DELETE /api/cart
  - GET /api/ws: websocket stream of store snapshots

Checkout:
  - POST /api/create-checkout-session: {"id": "...", "url": "..."}
  - POST /api/checkout/complete: turns a paid session into an order

Operations:
  - GET /api/health
  - GET /metrics (Prometheus)

# Middleware Stack

Global middleware runs in this order: request ID, real IP, panic recovery,
access log, CORS. API routes add security headers, Prometheus metrics and
per-IP rate limiting via httprate.

All JSON is encoded with goccy/go-json. Errors use the {"error": "..."}
envelope.
*/
package api
