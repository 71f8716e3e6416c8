// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup
// to receive events about exploration, layout, rendering, cache operations,
// and API requests.
//
// # Architecture
//
// Each event category has a hook interface with a no-op default. The
// registry is global and guarded by a mutex; hooks are registered by main,
// not by libraries, so the core packages stay free of metrics frameworks.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetExploreHooks(&myExploreHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Explore().OnExploreStart(ctx, maxStates)
//	g := explore.Explore(b, start, maxStates)
//	observability.Explore().OnExploreComplete(ctx, g.Len(), g.EdgeCount(), g.Truncated, time.Since(t0))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Explore Hooks
// =============================================================================

// ExploreHooks receives events from state-space exploration and subset
// selection.
type ExploreHooks interface {
	OnExploreStart(ctx context.Context, maxStates int)
	OnExploreComplete(ctx context.Context, states, edges int, truncated bool, duration time.Duration)

	// OnSelect records a depth-bounded subset being taken from a graph.
	OnSelect(ctx context.Context, maxDepth, nodes, edges int, truncated bool)
}

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the force simulation and renderers.
type LayoutHooks interface {
	OnLayoutStart(ctx context.Context, nodes, edges, iterations int)
	OnLayoutComplete(ctx context.Context, nodes int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
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

// HTTPHooks receives events from the API server.
type HTTPHooks interface {
	// OnRequest records an incoming request on a route pattern.
	OnRequest(ctx context.Context, method, route string)

	// OnResponse records the status written for a request.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopExploreHooks is a no-op implementation of ExploreHooks.
type NoopExploreHooks struct{}

func (NoopExploreHooks) OnExploreStart(context.Context, int)                              {}
func (NoopExploreHooks) OnExploreComplete(context.Context, int, int, bool, time.Duration) {}
func (NoopExploreHooks) OnSelect(context.Context, int, int, int, bool)                    {}

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(context.Context, int, int, int)                     {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, int, time.Duration, error)      {}
func (NoopLayoutHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopLayoutHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

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
	exploreHooks ExploreHooks = NoopExploreHooks{}
	layoutHooks  LayoutHooks  = NoopLayoutHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetExploreHooks registers custom exploration hooks. Nil is ignored.
func SetExploreHooks(h ExploreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		exploreHooks = h
	}
}

// SetLayoutHooks registers custom layout and render hooks. Nil is ignored.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom API server hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Explore returns the registered exploration hooks.
func Explore() ExploreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return exploreHooks
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
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
	exploreHooks = NoopExploreHooks{}
	layoutHooks = NoopLayoutHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
