// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package gateway

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/taptodine/internal/models"
)

// Wire shapes of the restaurant backend. Field types are loose where
// backends are known to disagree (numeric vs string IDs and prices).

type upstreamMenu struct {
	ID         flexString          `json:"id"`
	Sections   []upstreamSection   `json:"sections"`
	Restaurant *upstreamRestaurant `json:"restaurant"`
}

type upstreamRestaurant struct {
	ID   flexString `json:"id"`
	Name string     `json:"name"`
}

type upstreamSection struct {
	ID    flexString     `json:"id"`
	Title string         `json:"title"`
	Items []upstreamItem `json:"items"`
}

type upstreamItem struct {
	ID                  flexString      `json:"id"`
	Name                string          `json:"name"`
	Description         *string         `json:"description"`
	Price               flexPrice       `json:"price"`
	Image               string          `json:"image"`
	Size                string          `json:"size"`
	Extras              []string        `json:"extras"`
	SpecialInstructions string          `json:"specialInstructions"`
	Labels              json.RawMessage `json:"labels"`
	Ingredients         json.RawMessage `json:"ingredients"`
}

type upstreamOrders struct {
	Orders []upstreamOrder `json:"orders"`
}

type upstreamOrder struct {
	ID             flexString          `json:"id"`
	RestaurantName string              `json:"restaurantName"`
	CreatedAt      models.Timestamp    `json:"createdAt"`
	Status         string              `json:"status"`
	Items          []upstreamOrderItem `json:"items"`
	Total          *flexPrice          `json:"total"`
}

type upstreamOrderItem struct {
	ID                  flexString      `json:"id"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	Price               flexPrice       `json:"price"`
	Quantity            int             `json:"quantity"`
	Image               string          `json:"image"`
	Category            string          `json:"category"`
	Size                string          `json:"size"`
	Extras              []string        `json:"extras"`
	Options             []string        `json:"options"`
	SpecialInstructions string          `json:"specialInstructions"`
	Labels              json.RawMessage `json:"labels"`
	Ingredients         json.RawMessage `json:"ingredients"`
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// flexPrice accepts a JSON number or a numeric string. Anything else,
// including null, decodes as 0.
type flexPrice float64

func (f *flexPrice) UnmarshalJSON(data []byte) error {
	*f = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			*f = flexPrice(v)
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var v float64
		if err := json.Unmarshal(data, &v); err == nil {
			*f = flexPrice(v)
		}
	}
	return nil
}
