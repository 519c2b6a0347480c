// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package models

import (
	"github.com/goccy/go-json"
)

// MenuItem is one dish as presented to the storefront. Items are immutable
// once fetched; a menu refresh replaces the whole list.
//
// Labels and Ingredients are passed through from the backend untouched.
type MenuItem struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	Price               float64         `json:"price"`
	Image               string          `json:"image"`
	Category            string          `json:"category"`
	Size                string          `json:"size,omitempty"`
	Extras              []string        `json:"extras,omitempty"`
	SpecialInstructions string          `json:"specialInstructions,omitempty"`
	Labels              json.RawMessage `json:"labels,omitempty"`
	Ingredients         json.RawMessage `json:"ingredients,omitempty"`
}

// Menu is a normalized tenant menu.
type Menu struct {
	Items          []MenuItem
	RestaurantName string
}

// Categories returns the distinct categories in menu order.
func (m *Menu) Categories() []string {
	seen := make(map[string]struct{})
	var categories []string
	for i := range m.Items {
		c := m.Items[i].Category
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		categories = append(categories, c)
	}
	return categories
}

// Clone returns a deep copy of the item.
func (i MenuItem) Clone() MenuItem {
	c := i
	if i.Extras != nil {
		c.Extras = append([]string(nil), i.Extras...)
	}
	if i.Labels != nil {
		c.Labels = append(json.RawMessage(nil), i.Labels...)
	}
	if i.Ingredients != nil {
		c.Ingredients = append(json.RawMessage(nil), i.Ingredients...)
	}
	return c
}
