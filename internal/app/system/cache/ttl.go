// Package cache provides a small in-process TTL cache used by the
// analytics endpoints, where aggregation queries are expensive relative
// to how often the underlying data changes.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value   V
	expires time.Time
}

// TTL is a concurrency-safe map whose entries expire after a fixed
// duration. Expired entries are dropped lazily on access.
type TTL[V any] struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[string]entry[V]
	now func() time.Time
}

// NewTTL returns a TTL cache whose entries live for d.
func NewTTL[V any](d time.Duration) *TTL[V] {
	return &TTL[V]{
		ttl: d,
		m:   make(map[string]entry[V]),
		now: time.Now,
	}
}

// Get returns the cached value for key and whether it was present and
// still fresh.
func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.m[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().After(e.expires) {
		delete(c.m, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, replacing any existing entry.
func (c *TTL[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = entry[V]{value: value, expires: c.now().Add(c.ttl)}
}

// Clear removes all entries.
func (c *TTL[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[string]entry[V])
}
