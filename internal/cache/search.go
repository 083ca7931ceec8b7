// Package cache keeps recent flight directory lookups in Redis so that
// repeated searches skip the two directory queries.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/flight-reservation/internal/config"
	"github.com/iliyamo/flight-reservation/internal/model"
)

// SearchCache stores search results as JSON under a key derived from the
// search arguments.  Redis errors are logged and treated as misses.
type SearchCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	log    *zap.Logger
}

// NewSearchCache returns a cache on rdb, or nil when caching is disabled
// or no client is available.
func NewSearchCache(cfg config.SearchCacheConfig, rdb *redis.Client, log *zap.Logger) *SearchCache {
	if !cfg.Enabled || rdb == nil {
		return nil
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "search"
	}
	return &SearchCache{rdb: rdb, ttl: ttl, prefix: prefix, log: log}
}

// key builds a stable key from every search argument.
func (c *SearchCache) key(q model.SearchQuery) string {
	tail := fmt.Sprintf("o=%s|d=%s|direct=%t|day=%d|max=%d", q.Origin, q.Dest, q.DirectOnly, q.DayOfMonth, q.MaxResults)
	sum := sha1.Sum([]byte(tail))
	return fmt.Sprintf("%s:%x", c.prefix, sum[:])
}

// Get returns the cached itineraries for q.
func (c *SearchCache) Get(ctx context.Context, q model.SearchQuery) ([]model.Itinerary, bool) {
	bs, err := c.rdb.Get(ctx, c.key(q)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("search cache get failed", zap.Error(err))
		}
		return nil, false
	}
	var its []model.Itinerary
	if err := json.Unmarshal(bs, &its); err != nil {
		c.log.Warn("search cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return its, true
}

// Set stores its for q with the configured TTL.
func (c *SearchCache) Set(ctx context.Context, q model.SearchQuery, its []model.Itinerary) {
	bs, err := json.Marshal(its)
	if err != nil {
		c.log.Warn("search cache encode failed", zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, c.key(q), bs, c.ttl).Err(); err != nil {
		c.log.Warn("search cache set failed", zap.Error(err))
	}
}
