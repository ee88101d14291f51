// Package cache provides the redis-backed optimization result cache.
//
// Caching sits entirely outside the engine: the engine stays a pure function
// of its inputs, and the API layer decides whether a cached result may be
// served. Keys carry the tour version and an options fingerprint, so results
// computed against a stale tour can never match.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tour-route-service/internal/domain"
	"tour-route-service/internal/ports"
)

// RedisResultCache stores serialized OptimizationResults with a TTL.
type RedisResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisResultCache(client *redis.Client, ttl time.Duration) *RedisResultCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisResultCache{client: client, ttl: ttl}
}

// Get returns the cached result, or (nil, nil) on a miss.
func (c *RedisResultCache) Get(ctx context.Context, key string) (*domain.OptimizationResult, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("result cache: get %q: %w", key, err)
	}

	var result domain.OptimizationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("result cache: decode %q: %w", key, err)
	}
	return &result, nil
}

// Put stores the result under key with the configured TTL.
func (c *RedisResultCache) Put(ctx context.Context, key string, result *domain.OptimizationResult) error {
	if c == nil || c.client == nil {
		return nil
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("result cache: encode %q: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("result cache: set %q: %w", key, err)
	}
	return nil
}

// Invalidate drops every cached result for the tour, regardless of version
// or options. Called after a successful apply.
func (c *RedisResultCache) Invalidate(ctx context.Context, tourID int64) error {
	if c == nil || c.client == nil {
		return nil
	}

	pattern := ports.ResultCacheTourPattern(tourID)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("result cache: del %q: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("result cache: scan %q: %w", pattern, err)
	}
	return nil
}
