package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Proger1298/gaming-server/internal/app"
)

// RedisCache is the subset of *redis.Client this package depends on,
// narrowed the way MOHCentral-opm-stats-api's logic.RedisClient narrows its
// own Redis dependency, so tests can supply a fake instead of a live server.
type RedisCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Keys(ctx context.Context, pattern string) *redis.StringSliceCmd
}

// CachedLeaderboard wraps another Leaderboard with a Redis read-through
// cache over TopPlayers, the query the records endpoint calls on every
// request. A retirement invalidates every cached page, since it can change
// any page's ranking.
type CachedLeaderboard struct {
	inner app.Leaderboard
	redis RedisCache
	ttl   time.Duration
}

// NewCachedLeaderboard wraps inner with a Redis cache. ttl bounds how stale
// a served page may be.
func NewCachedLeaderboard(inner app.Leaderboard, client RedisCache, ttl time.Duration) *CachedLeaderboard {
	return &CachedLeaderboard{inner: inner, redis: client, ttl: ttl}
}

func cacheKey(start, maxItems int) string {
	return fmt.Sprintf("leaderboard:records:%d:%d", start, maxItems)
}

// RetirePlayer writes through to the backing store, then drops every cached
// page so the next read reflects the new ranking.
func (c *CachedLeaderboard) RetirePlayer(ctx context.Context, rec app.RetiredPlayer) error {
	if err := c.inner.RetirePlayer(ctx, rec); err != nil {
		return err
	}

	keys, err := c.redis.Keys(ctx, "leaderboard:records:*").Result()
	if err != nil {
		return nil // cache invalidation failure must never fail the retirement itself
	}
	if len(keys) > 0 {
		c.redis.Del(ctx, keys...)
	}
	return nil
}

// TopPlayers serves from cache when present, otherwise queries the backing
// store and populates the cache for next time.
func (c *CachedLeaderboard) TopPlayers(ctx context.Context, start, maxItems int) ([]app.RetiredPlayer, error) {
	key := cacheKey(start, maxItems)

	if cached, err := c.redis.Get(ctx, key).Bytes(); err == nil {
		var recs []app.RetiredPlayer
		if err := json.Unmarshal(cached, &recs); err == nil {
			return recs, nil
		}
	}

	recs, err := c.inner.TopPlayers(ctx, start, maxItems)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(recs); err == nil {
		c.redis.Set(ctx, key, data, c.ttl)
	}
	return recs, nil
}
