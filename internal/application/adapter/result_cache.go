package adapter

import (
	"context"
	"time"
)

// ResultCache stores serialized recommendation payloads keyed by user and reference date.
type ResultCache interface {
	// Get returns the cached payload, or found=false on a miss.
	Get(ctx context.Context, key string) (payload []byte, found bool, err error)

	// Set stores a payload for the given duration.
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error

	// Ping reports whether the cache backend is reachable.
	Ping(ctx context.Context) error
}
