package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/cortexwalk/pkg/observability"
)

// Instrumented reports hits, misses and writes of c to the registered
// cache hooks.
func Instrumented(c Cache) Cache {
	return &instrumented{Cache: c}
}

type instrumented struct {
	Cache
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.Cache.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, keyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, keyType(key))
		}
	}
	return data, ok, err
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.Cache.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	}
	return err
}

// Clear forwards to the wrapped cache when it supports clearing.
func (c *instrumented) Clear(ctx context.Context) error {
	if cl, ok := c.Cache.(Clearer); ok {
		return cl.Clear(ctx)
	}
	return nil
}

// keyType is the kind segment of a key: "graph" for "store:x:graph:<hash>".
func keyType(key string) string {
	i := strings.LastIndexByte(key, ':')
	if i < 0 {
		return "other"
	}
	kind := key[:i]
	if j := strings.LastIndexByte(kind, ':'); j >= 0 {
		kind = kind[j+1:]
	}
	return kind
}
