package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"directory101/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const pageCachePrefix = "listingPage:"

// ResultCache caches public result pages keyed by the normalized query.
type ResultCache interface {
	// Get returns the cached page for the query, or nil on miss.
	Get(ctx context.Context, q models.ListingQuery) *models.PageResult
	// Set stores a result page.
	Set(ctx context.Context, q models.ListingQuery, result *models.PageResult)
	// Invalidate drops every cached page.
	Invalidate(ctx context.Context) error
}

// PageCache is the Redis-backed ResultCache. A cache failure is never fatal;
// the caller falls through to the backing store.
type PageCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewPageCache creates a PageCache with the given TTL.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	return &PageCache{Client: client, TTL: ttl}
}

// Get returns the cached page for the query, or nil on miss.
func (c *PageCache) Get(ctx context.Context, q models.ListingQuery) *models.PageResult {
	data, err := c.Client.Get(ctx, pageCachePrefix+q.CacheKey()).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		zap.L().Warn("Page cache read failed", zap.Error(err))
		return nil
	}
	var result models.PageResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		zap.L().Warn("Page cache decode failed", zap.Error(err))
		return nil
	}
	return &result
}

// Set stores a result page.
func (c *PageCache) Set(ctx context.Context, q models.ListingQuery, result *models.PageResult) {
	data, err := json.Marshal(result)
	if err != nil {
		zap.L().Warn("Page cache encode failed", zap.Error(err))
		return
	}
	if err := c.Client.Set(ctx, pageCachePrefix+q.CacheKey(), data, c.TTL).Err(); err != nil {
		zap.L().Warn("Page cache write failed", zap.Error(err))
	}
}

// Invalidate drops every cached page. Called on any listing mutation so a
// stale window never outlives a change.
func (c *PageCache) Invalidate(ctx context.Context) error {
	iter := c.Client.Scan(ctx, 0, pageCachePrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan page cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.Client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete page cache keys: %w", err)
	}
	return nil
}
