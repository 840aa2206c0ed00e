// Package cache holds the time-bounded response cache used in front of the
// news aggregator.
package cache

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a key-value store with a fixed per-entry TTL. Expired entries are
// dropped by the Get that finds them; nothing runs in the background.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]entry[V]
	ttl     time.Duration
	now     func() time.Time
}

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func New[V any](ttl time.Duration, opts ...Option) *Cache[V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return &Cache[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		now:     o.now,
	}
}

// Set stores value under key, replacing any previous entry.
func (c *Cache[V]) Set(key any, value V) {
	k := Key(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[k] = entry[V]{value: value, expiresAt: c.now().Add(c.ttl)}
}

// Get returns the value stored under key while it is fresh.
func (c *Cache[V]) Get(key any) (V, bool) {
	k := Key(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[k]
	if !ok {
		return zero, false
	}

	if c.now().After(e.expiresAt) {
		delete(c.entries, k)
		return zero, false
	}

	return e.value, true
}

// Delete removes key and reports whether it was present.
func (c *Cache[V]) Delete(key any) bool {
	k := Key(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[k]
	delete(c.entries, k)
	return ok
}

func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry[V])
}

// Len counts stored entries, including expired ones not yet evicted.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Key renders key into its canonical string form. Strings are used as-is;
// everything else is JSON encoded, which fixes struct field order and sorts
// map keys.
func Key(key any) string {
	if s, ok := key.(string); ok {
		return s
	}

	b, err := json.Marshal(key)
	if err != nil {
		return fmt.Sprintf("%#v", key)
	}
	return string(b)
}
