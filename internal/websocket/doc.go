// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

/*
Package websocket pushes cart state to every open page of a visitor.

Each browser tab showing the storefront (menu, cart, checkout, orders)
opens one connection to /api/ws. Connections are grouped by session key, so
a change made on the cart page reaches the menu page's cart badge without
polling.

# Architecture

	store.Store ──Subscribe──► Hub ──send chan──► Client ──► browser tab
	                            ▲
	          Register/Unregister (ServeWS, read pump exit)

The Hub subscribes to a session's store when the first client of that
session registers and unsubscribes when the last one leaves. Every store
change is delivered as

	{"type": "store_update", "data": <store.State>}

State.Version increases with every change; clients keep the highest
version they have seen and ignore older snapshots.

# Message Types

  - store_update: full store snapshot (server to client)
  - ping / pong: application-level keepalive (client initiated)

Protocol-level ping frames are also sent every 54 seconds; a client that
does not answer within 60 seconds is dropped.

# Lifecycle

Hub.Serve runs under the supervisor tree. On shutdown all clients are sent
a close frame. When a session expires its clients are disconnected; the
page reconnects and receives a fresh, empty store.
*/
package websocket
