package cache

import (
	"sync"
	"time"
)

// entry stores a cached value with its insertion timestamp. Staleness is a
// property of the read: an entry is valid iff now - insertedAt <= ttl.
type entry[V any] struct {
	insertedAt time.Time
	value      V
}

// Cache is an in-memory key/value store with per-instance TTL and lazy
// expiration. Expired entries are removed on Get; there is no background
// reaper, so keys never read again after expiry stay resident. Safe for
// concurrent use; each operation is atomic with respect to a single key.
type Cache[V any] struct {
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time // swapped in tests to simulate time
	m   map[string]entry[V]
}

// New creates a Cache whose entries expire ttl after insertion.
func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		ttl: ttl,
		now: time.Now,
		m:   make(map[string]entry[V]),
	}
}

// Get returns the value for key if present and not older than the TTL.
// A stale entry is deleted during the call; this is the only eviction path,
// so Get mutates internal state even though it is a read.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.m[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().Sub(e.insertedAt) > c.ttl {
		delete(c.m, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set inserts or unconditionally overwrites the entry for key, timestamped
// with the current time. The cache has no capacity bound.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = entry[V]{insertedAt: c.now(), value: value}
}

// Clear removes all entries unconditionally.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[string]entry[V])
}

// Len reports the number of resident entries, stale ones included.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}
