// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries in this module emit events through small hook interfaces instead
// of depending on a specific backend. The server and CLI register concrete
// hooks at startup; everything else sees no-op defaults.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetFunctionHooks(observability.NewLogHooks(logger))
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	observability.Functions().OnInvokeStart(ctx, "scrape-url")
//	// ... handle request ...
//	observability.Functions().OnInvokeComplete(ctx, "scrape-url", status, time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Function Hooks
// =============================================================================

// FunctionHooks receives events from the edge function handlers.
type FunctionHooks interface {
	// OnInvokeStart records the start of a function invocation.
	OnInvokeStart(ctx context.Context, name string)

	// OnInvokeComplete records the end of an invocation with the HTTP status
	// written to the client.
	OnInvokeComplete(ctx context.Context, name string, status int, duration time.Duration)

	// OnModelCall records one round trip to the AI provider.
	OnModelCall(ctx context.Context, provider, model string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, namespace string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, namespace string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, namespace string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from outgoing HTTP requests (scraping, oEmbed).
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopFunctionHooks is a no-op implementation of FunctionHooks.
type NoopFunctionHooks struct{}

func (NoopFunctionHooks) OnInvokeStart(context.Context, string)                           {}
func (NoopFunctionHooks) OnInvokeComplete(context.Context, string, int, time.Duration)    {}
func (NoopFunctionHooks) OnModelCall(context.Context, string, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	functionHooks FunctionHooks = NoopFunctionHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetFunctionHooks registers custom function hooks.
// This should be called once at application startup before serving requests.
func SetFunctionHooks(h FunctionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		functionHooks = h
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

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Functions returns the registered function hooks.
func Functions() FunctionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return functionHooks
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
	functionHooks = NoopFunctionHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
