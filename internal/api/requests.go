// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package api

import "github.com/tomtom215/taptodine/internal/models"

// AddCartItemRequest is the body of POST /api/cart/items.
type AddCartItemRequest struct {
	ItemID   string   `json:"itemId" validate:"required,max=128"`
	Quantity int      `json:"quantity" validate:"min=1,max=99"`
	Options  []string `json:"options,omitempty" validate:"max=20,dive,max=100"`
}

// SetQuantityRequest is the body of PUT /api/cart/items/{id}. A quantity of
// zero removes the item.
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,min=0,max=99"`
}

// AddOrderRequest is the body of POST /api/store/orders/add.
type AddOrderRequest struct {
	ID             string             `json:"id" validate:"max=128"`
	RestaurantName string             `json:"restaurantName" validate:"max=200"`
	Items          []models.CartItem  `json:"items" validate:"max=200"`
	Total          float64            `json:"total" validate:"min=0"`
	Status         models.OrderStatus `json:"status" validate:"omitempty,oneof=pending completed cancelled"`
	CreatedAt      models.Timestamp   `json:"createdAt"`
}

// CompleteCheckoutRequest is the body of POST /api/checkout/complete.
type CompleteCheckoutRequest struct {
	SessionID string `json:"sessionId" validate:"required,max=255"`
}
