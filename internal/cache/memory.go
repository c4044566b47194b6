package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/quangtn/vietcal/internal/model"
)

// MemoryCache memoizes extraction results in process memory with a TTL
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a memory cache. cleanupInterval bounds how long
// expired entries linger before eviction.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a cached result
func (c *MemoryCache) Get(key string) (*model.Result, bool) {
	if val, found := c.cache.Get(key); found {
		if res, ok := val.(*model.Result); ok {
			return res, true
		}
	}
	return nil, false
}

// Set stores a result with the given TTL
func (c *MemoryCache) Set(key string, res *model.Result, ttl time.Duration) {
	c.cache.Set(key, res, ttl)
}

// Delete removes one entry
func (c *MemoryCache) Delete(key string) {
	c.cache.Delete(key)
}

// Clear drops every entry
func (c *MemoryCache) Clear() {
	c.cache.Flush()
}
