package fetcher

import (
	"context"
	"fmt"

	"github.com/patrickmn/go-cache"

	"saludcl/internal/logger"
	"saludcl/internal/models"
)

// Cache memoizes a Source by limit for the lifetime of the process.
// Entries never expire; Clear is the only way to force a refetch.
// Failed fetches are not stored. Cached tables must be treated as read-only.
type Cache struct {
	source Source
	store  *cache.Cache
	logger *logger.Logger
}

// NewCache wraps source.
func NewCache(source Source, log *logger.Logger) *Cache {
	return &Cache{
		source: source,
		store:  cache.New(cache.NoExpiration, 0),
		logger: log.With("component", "fetch-cache"),
	}
}

// Fetch returns the cached table for limit, fetching it on first use.
func (c *Cache) Fetch(ctx context.Context, limit int) (*models.Table, error) {
	key := CacheKey("records", limit)

	if v, ok := c.store.Get(key); ok {
		c.logger.Debug("cache hit", "key", key)

		return v.(*models.Table), nil
	}

	c.logger.Debug("cache miss", "key", key)

	table, err := c.source.Fetch(ctx, limit)
	if err != nil {
		return nil, err
	}

	c.store.Set(key, table, cache.NoExpiration)

	return table, nil
}

// Clear drops every cached table.
func (c *Cache) Clear() {
	c.store.Flush()
	c.logger.Info("fetch cache cleared")
}

// Len returns the number of cached limits.
func (c *Cache) Len() int {
	return c.store.ItemCount()
}

// CacheKey joins a prefix and parameters into a cache key.
func CacheKey(prefix string, params ...any) string {
	key := prefix
	for _, param := range params {
		key += ":" + fmt.Sprintf("%v", param)
	}

	return key
}

var _ Source = (*Cache)(nil)
