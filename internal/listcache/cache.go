// Package listcache holds memoised medicine listings keyed by normalised query.
package listcache

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"medicine-catalog/internal/model"

	"github.com/rs/zerolog"
	"github.com/viccon/sturdyc"
)

const keyPrefix = "medicines"

// Config holds listing cache settings.
type Config struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
}

// DefaultConfig keeps listings for one hour.
func DefaultConfig() Config {
	return Config{
		Capacity:           1000,
		NumShards:          8,
		TTL:                time.Hour,
		EvictionPercentage: 10,
	}
}

// Validate checks whether the configuration values are usable.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("cache capacity must be greater than 0")
	}
	if c.NumShards <= 0 {
		return fmt.Errorf("cache shards must be greater than 0")
	}
	if c.TTL <= 0 {
		return fmt.Errorf("cache TTL must be greater than 0")
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return fmt.Errorf("cache eviction percentage must be between 1 and 100")
	}
	return nil
}

// FetchFn loads a listing from the source of truth.
type FetchFn func(ctx context.Context) ([]model.Medicine, error)

// Cache memoises listings per query. It is safe for concurrent use.
//
// Keys carry a generation that Invalidate advances, so a fetch that started
// before a write stores its rows under a key no later lookup reads.
type Cache struct {
	client     *sturdyc.Client[[]model.Medicine]
	generation atomic.Uint64
	logger     zerolog.Logger
}

// New creates a listing cache.
func New(cfg Config, logger zerolog.Logger) (*Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Cache{
		client: sturdyc.New[[]model.Medicine](cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage),
		logger: logger.With().Str("component", "list-cache").Logger(),
	}, nil
}

func (c *Cache) key(q model.ListQuery) string {
	return fmt.Sprintf("%s/%d?%s", keyPrefix, c.generation.Load(), q.CacheKey())
}

// GetOrFetch returns the cached listing for q, calling fetch on a miss.
// Concurrent misses for the same query share one fetch.
func (c *Cache) GetOrFetch(ctx context.Context, q model.ListQuery, fetch FetchFn) ([]model.Medicine, error) {
	key := c.key(q)

	if medicines, ok := c.client.Get(key); ok {
		c.logger.Debug().Str("key", key).Int("count", len(medicines)).Msg("listing cache hit")
		return medicines, nil
	}

	c.logger.Debug().Str("key", key).Msg("listing cache miss")

	return c.client.GetOrFetch(ctx, key, func(ctx context.Context) ([]model.Medicine, error) {
		return fetch(ctx)
	})
}

// Invalidate drops every cached listing and retires keys of fetches still in flight.
func (c *Cache) Invalidate() {
	c.generation.Add(1)

	removed := 0
	for _, key := range c.client.ScanKeys() {
		if strings.HasPrefix(key, keyPrefix) {
			c.client.Delete(key)
			removed++
		}
	}
	c.logger.Debug().Int("removed", removed).Msg("listing cache invalidated")
}

// Len returns the number of cached listings.
func (c *Cache) Len() int {
	return c.client.Size()
}

// Close clears the cache. The cache stays usable afterwards.
func (c *Cache) Close() {
	c.Invalidate()
}
