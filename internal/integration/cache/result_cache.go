// Package cache implements the recommendation result cache on Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/recommender/internal/application/adapter"
)

// resultCache implements the adapter.ResultCache interface.
type resultCache struct {
	client *redis.Client
	prefix string
}

// NewResultCache creates a new Redis-backed result cache. Keys are namespaced by prefix.
func NewResultCache(client *redis.Client, prefix string) adapter.ResultCache {
	return &resultCache{
		client: client,
		prefix: prefix,
	}
}

// Get returns the cached payload, or found=false on a miss.
func (c *resultCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	return payload, true, nil
}

// Set stores a payload for the given duration.
func (c *resultCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (c *resultCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
