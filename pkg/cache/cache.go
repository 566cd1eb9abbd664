// Package cache provides byte-oriented caching with pluggable backends.
//
// The edge functions cache scrape and oEmbed results, and the CLI caches
// nothing but can inspect and clear the cache directory. Backends:
//
//   - [FileCache]: one JSON file per entry, used by the CLI and single-node servers
//   - [RedisCache]: shared cache for multi-instance deployments
//   - [MemoryCache]: in-process map, used by tests
//   - [NullCache]: caching disabled
//
// Use [Namespace] to scope keys and emit observability events:
//
//	scrapes := cache.Namespace(backend, "scrape")
//	data, ok, err := scrapes.Get(ctx, url)
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Cache stores opaque byte values under string keys with an optional TTL.
//
// Get reports a miss with (nil, false, nil); expired entries are misses.
// A TTL of zero means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// GetJSON reads key and unmarshals it into v. A value that fails to decode
// is treated as a miss.
func GetJSON(ctx context.Context, c Cache, key string, v any) (bool, error) {
	data, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, nil
	}
	return true, nil
}

// SetJSON marshals v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
