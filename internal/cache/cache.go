// Package cache provides a generic in-memory cache with per-entry TTL
// and background expiry.
package cache

import (
	"context"
	"sync"
	"time"
)

type item[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a TTL cache safe for concurrent use. A background janitor
// evicts expired entries; call Close to stop it.
type Cache[K comparable, V any] struct {
	mu         sync.RWMutex
	items      map[K]item[V]
	defaultTTL time.Duration
	done       chan struct{}
	closeOnce  sync.Once
}

// New creates a cache with the given default TTL. A TTL of zero means
// entries never expire unless Set is called with an explicit TTL.
func New[K comparable, V any](defaultTTL time.Duration) *Cache[K, V] {
	c := &Cache[K, V]{
		items:      make(map[K]item[V]),
		defaultTTL: defaultTTL,
		done:       make(chan struct{}),
	}
	go c.janitor()
	return c
}

// Get returns the cached value if present and not expired.
func (c *Cache[K, V]) Get(_ context.Context, key K) (V, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || (!it.expiresAt.IsZero() && time.Now().After(it.expiresAt)) {
		var zero V
		return zero, false
	}
	return it.value, true
}

// Set stores a value with the given TTL. A non-positive TTL falls back
// to the cache default.
func (c *Cache[K, V]) Set(_ context.Context, key K, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.items[key] = item[V]{value: value, expiresAt: expiresAt}
	c.mu.Unlock()
}

// Delete removes a key.
func (c *Cache[K, V]) Delete(_ context.Context, key K) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Len reports the number of entries, including not-yet-evicted expired ones.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the janitor goroutine.
func (c *Cache[K, V]) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *Cache[K, V]) janitor() {
	interval := c.defaultTTL
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for k, it := range c.items {
				if !it.expiresAt.IsZero() && now.After(it.expiresAt) {
					delete(c.items, k)
				}
			}
			c.mu.Unlock()
		}
	}
}
