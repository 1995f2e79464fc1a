package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisValuationCache stores valuation field maps with a short TTL. Cache
// failures degrade to recomputation, never to an error.
type RedisValuationCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisValuationCache(rdb *redis.Client, ttl time.Duration) *RedisValuationCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisValuationCache{rdb: rdb, ttl: ttl}
}

func (c *RedisValuationCache) Get(ctx context.Context, key string) (map[string]any, bool) {
	raw, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, false
	}
	return fields, true
}

func (c *RedisValuationCache) Set(ctx context.Context, key string, fields map[string]any) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, key, raw, c.ttl).Err()
}

func (c *RedisValuationCache) Delete(ctx context.Context, key string) {
	_ = c.rdb.Del(ctx, key).Err()
}
