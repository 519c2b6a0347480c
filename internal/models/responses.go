// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package models

// MenuResponse is the body of a successful GET /api/menu.
type MenuResponse struct {
	Menu           []MenuItem `json:"menu"`
	RestaurantName string     `json:"restaurantName"`
}

// OrdersResponse is the body of a successful GET /api/orders.
type OrdersResponse struct {
	Orders []Order `json:"orders"`
}

// ErrorResponse is the uniform error body returned by every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CheckoutSessionResponse is returned when a payment session is created.
type CheckoutSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url,omitempty"`
}

// ClientConfigResponse carries public settings the storefront needs.
type ClientConfigResponse struct {
	StripePublishableKey string `json:"stripePublishableKey"`
	CheckoutEnabled      bool   `json:"checkoutEnabled"`
	Tenant               string `json:"tenant,omitempty"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status         string            `json:"status"`
	Version        string            `json:"version,omitempty"`
	Uptime         string            `json:"uptime"`
	Tenants        []string          `json:"tenants"`
	Breakers       map[string]string `json:"breakers,omitempty"`
	ActiveSessions int               `json:"activeSessions"`
}
