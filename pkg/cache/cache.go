// Package cache stores opaque byte values under string keys.
//
// The caller uses it to memoize reference alignments: aligning the same
// contig against the same reference is the most expensive step of a run,
// and contigs repeat across runs over the same sample.
//
// Backends:
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared across `serve` instances
//   - [NullCache]: caching disabled
//
// Keys are built by a [Keyer] so every backend sees the same layout.
package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Cache is a byte cache with optional expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry.
type Clearer interface {
	Clear(ctx context.Context) error
}

// GetJSON decodes the value at key into v. It returns [ErrCacheMiss] when
// the key is absent or holds a value v cannot decode.
func GetJSON(ctx context.Context, c Cache, key string, v any) error {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok || json.Unmarshal(data, v) != nil {
		return ErrCacheMiss
	}
	return nil
}

// SetJSON stores v encoded as JSON.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
