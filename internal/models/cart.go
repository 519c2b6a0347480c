// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package models

import "github.com/shopspring/decimal"

// CartItem is a MenuItem with a quantity. A cart holds at most one CartItem
// per MenuItem ID and never one with Quantity below 1.
type CartItem struct {
	MenuItem
	Quantity int      `json:"quantity"`
	Options  []string `json:"options,omitempty"`
}

// Clone returns a deep copy of the line.
func (c CartItem) Clone() CartItem {
	clone := CartItem{MenuItem: c.MenuItem.Clone(), Quantity: c.Quantity}
	if c.Options != nil {
		clone.Options = append([]string(nil), c.Options...)
	}
	return clone
}

// LineCents returns price times quantity in minor units.
func (c CartItem) LineCents() int64 {
	return Cents(c.Price) * int64(c.Quantity)
}

// Cents converts a currency amount to minor units, rounding half away from zero.
func Cents(amount float64) int64 {
	return decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart()
}

// FromCents converts minor units back to a currency amount.
func FromCents(cents int64) float64 {
	return decimal.New(cents, -2).InexactFloat64()
}

// CartTotal returns the sum of price times quantity over items.
func CartTotal(items []CartItem) float64 {
	total := decimal.Zero
	for i := range items {
		total = total.Add(decimal.New(items[i].LineCents(), -2))
	}
	return total.InexactFloat64()
}

// CartCount returns the total number of units in items.
func CartCount(items []CartItem) int {
	n := 0
	for i := range items {
		n += items[i].Quantity
	}
	return n
}
