// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

// Package models defines the domain types shared by the gateway, the cart
// store and the HTTP API: menu items, cart lines, orders and the JSON
// payloads exchanged with the storefront UI.
//
// Prices are float64 currency units on the wire. Money arithmetic is done in
// shopspring/decimal on whole cents so sums of two-decimal prices stay exact.
package models
