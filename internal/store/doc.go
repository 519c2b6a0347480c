// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

/*
Package store holds the cart and order state of one visitor.

A Store is a single-writer object: every mutation takes the store lock, applies
its change and returns a deep-copied State snapshot with the cart total and
item count already computed. Nothing outside the package can reach the
underlying slices, so the cart invariants hold regardless of how many
handlers touch the same Store:

  - the cart has at most one entry per menu item id
  - no entry is ever stored with a quantity below 1
  - State.Total is the sum of price x quantity, computed in cents

Menu and order refreshes call a Source (normally the gateway client) outside
the lock. Overlapping refreshes are allowed and the last response to land
wins. A failed refresh records a message in State.Error and keeps whatever
menu or order list was loaded before.

Observers registered with Subscribe receive the new State after every
change. They run after the lock is released, so an observer may call back
into the Store.

Usage:

	s := store.New("customer1", gatewayClient)
	if _, err := s.FetchMenu(ctx); err != nil {
		// State.Error already carries the user-facing message
	}
	item, _ := s.MenuItem("101")
	state, err := s.Add(item, 2, nil)
*/
package store
