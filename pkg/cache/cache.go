package cache

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const DefaultCleanupInterval = time.Minute

// Cache is a typed in-memory TTL cache
type Cache[V any] struct {
	items *gocache.Cache
	ttl   time.Duration
}

// New creates a cache whose entries expire after ttl
func New[V any](ttl, cleanupInterval time.Duration) *Cache[V] {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	return &Cache[V]{
		items: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// Set stores a value under key with the cache's TTL
func (c *Cache[V]) Set(key string, value V) {
	c.items.Set(key, value, c.ttl)
}

// Get retrieves a value from the cache if it hasn't expired
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	value, found := c.items.Get(key)
	if !found {
		return zero, false
	}
	v, ok := value.(V)
	if !ok {
		return zero, false
	}
	return v, true
}

// Delete removes a key from the cache
func (c *Cache[V]) Delete(key string) {
	c.items.Delete(key)
}

// Clear removes all items from the cache
func (c *Cache[V]) Clear() {
	c.items.Flush()
}

// Invalidate removes all items matching a prefix
func (c *Cache[V]) Invalidate(prefix string) {
	for key := range c.items.Items() {
		if strings.HasPrefix(key, prefix) {
			c.items.Delete(key)
		}
	}
}

// Len returns the number of unexpired entries
func (c *Cache[V]) Len() int {
	return len(c.items.Items())
}
