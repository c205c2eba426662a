// Package cache provides a small in-memory TTL cache. The admin API
// uses it to shield the event store from hot read endpoints.
package cache

import (
	"sync"
	"time"
)

// Cache is a bounded TTL cache. Expired entries are dropped lazily on
// access; when the cache is full the whole map is reset, which is
// cheap at the sizes used here.
type Cache[K comparable, V any] struct {
	mu      sync.RWMutex
	items   map[K]item[V]
	ttl     time.Duration
	maxSize int
}

type item[V any] struct {
	value     V
	expiresAt time.Time
}

// New creates a cache with the given entry lifetime and size bound
func New[K comparable, V any](ttl time.Duration, maxSize int) *Cache[K, V] {
	return &Cache[K, V]{
		items:   make(map[K]item[V]),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get returns the cached value for key if it is still fresh
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(it.expiresAt) {
		var zero V
		return zero, false
	}
	return it.value, true
}

// Set stores a value under key, evicting everything when full
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items) >= c.maxSize {
		c.items = make(map[K]item[V])
	}
	c.items[key] = item[V]{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Delete removes a single entry
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Len reports the number of entries, including expired ones not yet
// dropped.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
