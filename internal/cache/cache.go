// Taptodine - Multi-tenant Restaurant Ordering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/taptodine

package cache

import (
	"sync"
	"time"
)

// Entry represents a cached item with expiration
type Entry[V any] struct {
	Data      V
	ExpiresAt time.Time
}

// Cache provides a thread-safe in-memory cache with TTL support
type Cache[V any] struct {
	mu      sync.RWMutex
	entries map[string]Entry[V]
	ttl     time.Duration
	sliding bool
	onEvict func(key string, value V)
	now     func() time.Time
	stats   Stats
}

// Stats tracks cache performance metrics
type Stats struct {
	mu          sync.RWMutex
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// Option configures a Cache.
type Option[V any] func(*Cache[V])

// WithSliding extends an entry's expiry by the TTL on every successful Get.
func WithSliding[V any]() Option[V] {
	return func(c *Cache[V]) { c.sliding = true }
}

// WithOnEvict registers fn to be called for every entry removed because it
// expired or was deleted.
func WithOnEvict[V any](fn func(key string, value V)) Option[V] {
	return func(c *Cache[V]) { c.onEvict = fn }
}

// WithClock replaces time.Now, for tests.
func WithClock[V any](now func() time.Time) Option[V] {
	return func(c *Cache[V]) { c.now = now }
}

// New creates a cache whose entries live for ttl.
//
// Example:
//
//	c := cache.New[string](5 * time.Minute)
//	c.Set("key", "value")
//	if v, ok := c.Get("key"); ok {
//	    // Use cached value
//	}
func New[V any](ttl time.Duration, opts ...Option[V]) *Cache[V] {
	c := &Cache[V]{
		entries: make(map[string]Entry[V]),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.stats.LastCleanup = c.now()
	return c
}

// Get retrieves a value from the cache by key. Expired entries are removed
// and reported as a miss. With sliding expiry a hit pushes the expiry out
// by the TTL.
func (c *Cache[V]) Get(key string) (V, bool) {
	now := c.now()

	if !c.sliding {
		c.mu.RLock()
		entry, exists := c.entries[key]
		c.mu.RUnlock()
		if exists && now.Before(entry.ExpiresAt) {
			c.recordHit()
			return entry.Data, true
		}
		if !exists {
			c.recordMiss()
			var zero V
			return zero, false
		}
	}

	c.mu.Lock()
	entry, exists := c.entries[key]
	if !exists {
		c.mu.Unlock()
		c.recordMiss()
		var zero V
		return zero, false
	}
	if !now.Before(entry.ExpiresAt) {
		delete(c.entries, key)
		c.mu.Unlock()
		c.recordMiss()
		c.evicted(key, entry.Data)
		var zero V
		return zero, false
	}
	if c.sliding {
		entry.ExpiresAt = now.Add(c.ttl)
		c.entries[key] = entry
	}
	c.mu.Unlock()

	c.recordHit()
	return entry.Data, true
}

// GetOrCreate returns the live value for key, or stores and returns the
// result of create. The boolean reports whether create was called. create
// runs under the cache lock and must not call back into the cache.
func (c *Cache[V]) GetOrCreate(key string, create func() V) (V, bool) {
	now := c.now()

	c.mu.Lock()
	entry, exists := c.entries[key]
	if exists && now.Before(entry.ExpiresAt) {
		if c.sliding {
			entry.ExpiresAt = now.Add(c.ttl)
			c.entries[key] = entry
		}
		c.mu.Unlock()
		c.recordHit()
		return entry.Data, false
	}

	value := create()
	c.entries[key] = Entry[V]{Data: value, ExpiresAt: now.Add(c.ttl)}
	total := int64(len(c.entries))
	c.mu.Unlock()

	c.recordMiss()
	c.setTotal(total)
	if exists {
		c.evicted(key, entry.Data)
	}
	return value, true
}

// Set stores a value in the cache with the default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value in the cache with a custom TTL
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = Entry[V]{
		Data:      value,
		ExpiresAt: c.now().Add(ttl),
	}
	total := int64(len(c.entries))
	c.mu.Unlock()

	c.setTotal(total)
}

// Delete removes a specific cache entry by key. Deleting a missing key is
// a no-op.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	entry, exists := c.entries[key]
	delete(c.entries, key)
	total := int64(len(c.entries))
	c.mu.Unlock()

	if exists {
		c.setTotal(total)
		c.evicted(key, entry.Data)
	}
}

// Len returns the number of entries, including expired entries not yet
// swept.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Cleanup removes every entry that expired at or before now and returns
// how many were removed.
func (c *Cache[V]) Cleanup(now time.Time) int {
	c.mu.Lock()
	var expired []Entry[V]
	var keys []string
	for key, entry := range c.entries {
		if !now.Before(entry.ExpiresAt) {
			delete(c.entries, key)
			keys = append(keys, key)
			expired = append(expired, entry)
		}
	}
	total := int64(len(c.entries))
	c.mu.Unlock()

	c.stats.mu.Lock()
	c.stats.Evictions += int64(len(keys))
	c.stats.TotalKeys = total
	c.stats.LastCleanup = now
	c.stats.mu.Unlock()

	if c.onEvict != nil {
		for i, key := range keys {
			c.onEvict(key, expired[i].Data)
		}
	}
	return len(keys)
}

// GetStats returns a snapshot of current cache performance statistics.
func (c *Cache[V]) GetStats() Stats {
	c.stats.mu.RLock()
	defer c.stats.mu.RUnlock()

	return Stats{
		Hits:        c.stats.Hits,
		Misses:      c.stats.Misses,
		Evictions:   c.stats.Evictions,
		TotalKeys:   c.stats.TotalKeys,
		LastCleanup: c.stats.LastCleanup,
	}
}

// HitRate returns the cache hit rate as a percentage
func (c *Cache[V]) HitRate() float64 {
	stats := c.GetStats()
	total := stats.Hits + stats.Misses
	if total == 0 {
		return 0.0
	}
	return float64(stats.Hits) / float64(total) * 100.0
}

func (c *Cache[V]) evicted(key string, value V) {
	c.stats.mu.Lock()
	c.stats.Evictions++
	c.stats.mu.Unlock()

	if c.onEvict != nil {
		c.onEvict(key, value)
	}
}

func (c *Cache[V]) setTotal(total int64) {
	c.stats.mu.Lock()
	c.stats.TotalKeys = total
	c.stats.mu.Unlock()
}

// recordHit increments the hit counter
func (c *Cache[V]) recordHit() {
	c.stats.mu.Lock()
	c.stats.Hits++
	c.stats.mu.Unlock()
}

// recordMiss increments the miss counter
func (c *Cache[V]) recordMiss() {
	c.stats.mu.Lock()
	c.stats.Misses++
	c.stats.mu.Unlock()
}
