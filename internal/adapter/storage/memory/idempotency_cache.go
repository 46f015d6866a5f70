// Package memory holds process-local adapters used when Redis is disabled.
package memory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// IdempotencyCache implements ports.IdempotencyCache in process memory.
// Entries are lost on restart, like the ledger itself.
type IdempotencyCache struct {
	items *gocache.Cache
}

// NewIdempotencyCache creates a cache that purges expired entries every cleanup interval.
func NewIdempotencyCache(cleanup time.Duration) *IdempotencyCache {
	return &IdempotencyCache{items: gocache.New(gocache.NoExpiration, cleanup)}
}

// Get returns the stored value or nil if the key is unknown or expired.
func (c *IdempotencyCache) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := c.items.Get(key)
	if !ok {
		return nil, nil
	}
	return v.([]byte), nil
}

// SetIfAbsent stores value only when key is unused.
func (c *IdempotencyCache) SetIfAbsent(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if err := c.items.Add(key, value, ttl); err != nil {
		return false, nil
	}
	return true, nil
}

func (c *IdempotencyCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.items.Set(key, value, ttl)
	return nil
}

func (c *IdempotencyCache) Delete(_ context.Context, key string) error {
	c.items.Delete(key)
	return nil
}

// Len returns the number of stored entries, including expired ones not yet purged.
func (c *IdempotencyCache) Len() int {
	return c.items.ItemCount()
}
