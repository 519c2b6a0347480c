// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package models

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestCartTotal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		items []CartItem
		want  float64
	}{
		{name: "empty", want: 0},
		{
			name: "two lines",
			items: []CartItem{
				{MenuItem: MenuItem{ID: "1", Price: 10.99}, Quantity: 2},
				{MenuItem: MenuItem{ID: "2", Price: 12.99}, Quantity: 1},
			},
			want: 34.97,
		},
		{
			name: "many small amounts",
			items: []CartItem{
				{MenuItem: MenuItem{ID: "1", Price: 0.1}, Quantity: 3},
				{MenuItem: MenuItem{ID: "2", Price: 0.2}, Quantity: 1},
			},
			want: 0.5,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CartTotal(tt.items); got != tt.want {
				t.Errorf("CartTotal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCents(t *testing.T) {
	t.Parallel()

	tests := map[float64]int64{
		0:      0,
		10.99:  1099,
		0.1:    10,
		1.005:  101,
		-2.345: -235,
		12.999: 1300,
	}
	for amount, want := range tests {
		if got := Cents(amount); got != want {
			t.Errorf("Cents(%v) = %d, want %d", amount, got, want)
		}
	}
	if got := FromCents(3497); got != 34.97 {
		t.Errorf("FromCents(3497) = %v, want 34.97", got)
	}
}

func TestCartCount(t *testing.T) {
	t.Parallel()

	items := []CartItem{
		{MenuItem: MenuItem{ID: "1"}, Quantity: 2},
		{MenuItem: MenuItem{ID: "2"}, Quantity: 5},
	}
	if got := CartCount(items); got != 7 {
		t.Errorf("CartCount() = %d, want 7", got)
	}
}

func TestOrderStatusValid(t *testing.T) {
	t.Parallel()

	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if OrderStatus("shipped").Valid() {
		t.Error("shipped should not be valid")
	}
}

func TestOrderCloneIsDeep(t *testing.T) {
	t.Parallel()

	o := Order{
		ID: "o1",
		Items: []CartItem{{
			MenuItem: MenuItem{ID: "1", Extras: []string{"cheese"}},
			Quantity: 1,
			Options:  []string{"large"},
		}},
	}
	c := o.Clone()
	c.Items[0].Quantity = 9
	c.Items[0].Extras[0] = "bacon"
	c.Items[0].Options[0] = "small"

	if o.Items[0].Quantity != 1 || o.Items[0].Extras[0] != "cheese" || o.Items[0].Options[0] != "large" {
		t.Errorf("mutating the clone changed the original: %+v", o.Items[0])
	}
}

func TestTimestampJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		in       string
		wantTime time.Time
		wantStr  string
	}{
		{"rfc3339", `"2026-01-02T15:04:05Z"`, time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC), "2026-01-02T15:04:05Z"},
		{"space separated", `"2024-05-01 12:30:00"`, time.Time{}, "2024-05-01 12:30:00"},
		{"epoch millis", `1714566600000`, time.Time{}, "1714566600000"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var ts Timestamp
			if err := json.Unmarshal([]byte(tt.in), &ts); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if !ts.Time.Equal(tt.wantTime) {
				t.Errorf("Time = %v, want %v", ts.Time, tt.wantTime)
			}
			if ts.IsZero() {
				t.Error("a decoded value should not be zero")
			}
			if got := ts.String(); got != tt.wantStr {
				t.Errorf("String() = %q, want %q", got, tt.wantStr)
			}
			out, err := json.Marshal(ts)
			if err != nil {
				t.Fatal(err)
			}
			if string(out) != tt.in {
				t.Errorf("Marshal() = %s, want %s", out, tt.in)
			}
		})
	}
}

func TestTimestampLocalAndNull(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	out, err := json.Marshal(Order{ID: "o1", CreatedAt: NewTimestamp(now)})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), `"createdAt":"2026-03-04T05:06:07Z"`) {
		t.Errorf("local order JSON = %s", out)
	}

	var o Order
	if err := json.Unmarshal([]byte(`{"id":"o2","createdAt":null}`), &o); err != nil {
		t.Fatal(err)
	}
	if !o.CreatedAt.IsZero() {
		t.Errorf("null createdAt should be zero, got %v", o.CreatedAt)
	}
}

func TestCartItemJSONIsFlat(t *testing.T) {
	t.Parallel()

	item := CartItem{MenuItem: MenuItem{ID: "7", Name: "Soup", Price: 4.5}, Quantity: 2}
	data, err := json.Marshal(item)
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["id"] != "7" || decoded["quantity"] != float64(2) {
		t.Errorf("unexpected JSON shape: %s", data)
	}
	if strings.Contains(string(data), "MenuItem") {
		t.Errorf("embedded struct should be flattened: %s", data)
	}
}

func TestMenuCategories(t *testing.T) {
	t.Parallel()

	m := Menu{Items: []MenuItem{
		{ID: "1", Category: "Mains"},
		{ID: "2", Category: "Drinks"},
		{ID: "3", Category: "Mains"},
	}}
	if got := m.Categories(); !reflect.DeepEqual(got, []string{"Mains", "Drinks"}) {
		t.Errorf("Categories() = %v", got)
	}
}
