// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package models

import (
	"bytes"
	"time"

	"github.com/goccy/go-json"
)

// OrderStatus is the lifecycle state of a placed order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// Order is an immutable snapshot of a cart at placement time. Only Status
// may change afterwards, and only on the backend.
type Order struct {
	ID             string      `json:"id"`
	RestaurantName string      `json:"restaurantName"`
	Items          []CartItem  `json:"items"`
	Total          float64     `json:"total"`
	Status         OrderStatus `json:"status"`
	CreatedAt      Timestamp   `json:"createdAt"`
}

// Timestamp is an order creation time. Orders placed here carry a Time;
// orders read from the backend keep the JSON value they arrived with, and
// Time is set only when that value is an RFC 3339 string.
type Timestamp struct {
	time.Time
	raw json.RawMessage
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// IsZero reports whether the timestamp carries neither a time nor a raw value.
func (t Timestamp) IsZero() bool {
	return t.Time.IsZero() && len(t.raw) == 0
}

// String returns the raw string value if there is one, else the time in RFC 3339.
func (t Timestamp) String() string {
	if len(t.raw) > 0 {
		var s string
		if err := json.Unmarshal(t.raw, &s); err == nil {
			return s
		}
		return string(t.raw)
	}
	if t.Time.IsZero() {
		return ""
	}
	return t.Time.Format(time.RFC3339Nano)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if len(t.raw) > 0 {
		return t.raw, nil
	}
	if t.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*t = Timestamp{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	t.raw = append(json.RawMessage(nil), data...)
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if parsed, err := time.Parse(time.RFC3339, s); err == nil {
			t.Time = parsed
		}
	}
	return nil
}

// Clone returns a deep copy of the order.
func (o Order) Clone() Order {
	c := o
	if o.CreatedAt.raw != nil {
		c.CreatedAt.raw = append(json.RawMessage(nil), o.CreatedAt.raw...)
	}
	if o.Items != nil {
		c.Items = make([]CartItem, len(o.Items))
		for i := range o.Items {
			c.Items[i] = o.Items[i].Clone()
		}
	}
	return c
}
