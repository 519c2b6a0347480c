// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

/*
Package cache provides a thread-safe in-memory map with per-entry TTL.

It backs the session registry: each visitor session is an entry whose
expiry slides forward every time it is read, so an active visitor keeps
their cart while abandoned carts age out.

# Overview

The cache provides:
  - Thread-safe concurrent access (sync.RWMutex)
  - Fixed or sliding time-to-live per entry
  - Atomic get-or-create for lazily initialised values
  - Lazy expiration on read plus an explicit Cleanup sweep
  - An eviction callback for releasing resources held by values

Cleanup is not scheduled by the cache. The owner runs it on its own ticker
(the session janitor runs it under the supervisor tree), which keeps the
cache free of goroutines it cannot stop.

# Usage Example

	c := cache.New[*store.Store](24*time.Hour, cache.WithSliding())
	s, created := c.GetOrCreate("customer1:visitor", func() *store.Store {
	    return store.New("customer1", gw)
	})

	// later, from a ticker
	removed := c.Cleanup(time.Now())

# Thread Safety

All methods are safe for concurrent use. The eviction callback runs after
the cache lock is released.
*/
package cache
