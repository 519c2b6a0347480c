// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

// Package session maps visitors to their cart stores.
//
// A visitor is identified by a random UUID kept in a cookie. Every tenant a
// visitor orders from gets its own store.Store, so one browser can hold a
// cart at two restaurants at once. Stores live in a sliding-TTL cache and
// are swept by Manager.Serve, which runs under the supervisor tree.
package session
