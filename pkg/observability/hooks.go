// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about traversals, variant calling, alignment, cache
// operations and HTTP requests served by the "serve" command.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, which keeps the traversal
// and caller packages free of any metrics backend. [Metrics] is the
// Prometheus-backed implementation shipped with the CLI.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    m := observability.NewMetrics(prometheus.NewRegistry())
//	    m.Install()
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	res, err := engine.DFS(seed)
//	observability.Traversal().OnTraversal(seed, "both", n, found, time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Traversal Hooks
// =============================================================================

// TraversalHooks receives events from the traversal engine. Traversals are
// CPU-bound and carry no context.
type TraversalHooks interface {
	// OnTraversal records a finished depth-first traversal.
	OnTraversal(rule, direction string, vertices int, found bool, duration time.Duration)

	// OnWalk records a finished linear walk.
	OnWalk(length int, duration time.Duration)
}

// =============================================================================
// Caller Hooks
// =============================================================================

// CallerHooks receives events from the variant caller.
type CallerHooks interface {
	// OnContigStart records the start of bubble closing for one contig.
	OnContigStart(ctx context.Context, index, length int)

	// OnContigComplete records the end of processing for one contig.
	OnContigComplete(ctx context.Context, index, calls int, duration time.Duration, err error)

	// OnCall records one emitted call of the given variant type.
	OnCall(ctx context.Context, variantType string)

	// OnAlign records one aligner invocation.
	OnAlign(ctx context.Context, reference string, hits int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP server.
type HTTPHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopTraversalHooks is a no-op implementation of TraversalHooks.
type NoopTraversalHooks struct{}

func (NoopTraversalHooks) OnTraversal(string, string, int, bool, time.Duration) {}
func (NoopTraversalHooks) OnWalk(int, time.Duration)                            {}

// NoopCallerHooks is a no-op implementation of CallerHooks.
type NoopCallerHooks struct{}

func (NoopCallerHooks) OnContigStart(context.Context, int, int)                          {}
func (NoopCallerHooks) OnContigComplete(context.Context, int, int, time.Duration, error) {}
func (NoopCallerHooks) OnCall(context.Context, string)                                   {}
func (NoopCallerHooks) OnAlign(context.Context, string, int, time.Duration, error)       {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	traversalHooks TraversalHooks = NoopTraversalHooks{}
	callerHooks    CallerHooks    = NoopCallerHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	httpHooks      HTTPHooks      = NoopHTTPHooks{}
	hooksMu        sync.RWMutex
)

// SetTraversalHooks registers custom traversal hooks.
func SetTraversalHooks(h TraversalHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		traversalHooks = h
	}
}

// SetCallerHooks registers custom caller hooks.
func SetCallerHooks(h CallerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		callerHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Traversal returns the registered traversal hooks.
func Traversal() TraversalHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return traversalHooks
}

// Caller returns the registered caller hooks.
func Caller() CallerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return callerHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	traversalHooks = NoopTraversalHooks{}
	callerHooks = NoopCallerHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
