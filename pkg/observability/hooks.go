// Package observability provides hooks for instrumenting search runs.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about phase execution, accepted moves, and
// score-cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces per event category
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, which avoids import cycles
// and keeps the engine free of observability-framework dependencies. Tests
// also use SearchHooks to assert engine invariants (acyclicity after every
// accepted move, strict score monotonicity) without reaching into internals.
//
// # Usage
//
//	func main() {
//	    observability.SetSearchHooks(&myHooks{})
//	    // ... run searches
//	}
package observability

import (
	"context"
	"sync"
	"time"
)

// SearchHooks receives events from the search orchestrator and phase engine.
//
// Phase names are "forward", "backward", or "turning". OnMoveAccepted fires
// after the move has been applied to the graph; delta is the strictly
// positive score improvement of that move.
type SearchHooks interface {
	OnPhaseStart(ctx context.Context, phase string, score float64)
	OnMoveAccepted(ctx context.Context, phase string, move string, delta float64)
	OnPhaseComplete(ctx context.Context, phase string, moves int, duration time.Duration)
	OnConverged(ctx context.Context, passes int, score float64)
}

// CacheHooks receives events from score-cache operations.
type CacheHooks interface {
	// OnCacheHit records a memoized local score being reused.
	OnCacheHit(ctx context.Context, namespace string)

	// OnCacheMiss records a local score that had to be computed.
	OnCacheMiss(ctx context.Context, namespace string)

	// OnCacheSet records a computed local score being stored.
	OnCacheSet(ctx context.Context, namespace string, size int)
}

// NoopSearchHooks is a no-op implementation of SearchHooks.
type NoopSearchHooks struct{}

func (NoopSearchHooks) OnPhaseStart(context.Context, string, float64)               {}
func (NoopSearchHooks) OnMoveAccepted(context.Context, string, string, float64)     {}
func (NoopSearchHooks) OnPhaseComplete(context.Context, string, int, time.Duration) {}
func (NoopSearchHooks) OnConverged(context.Context, int, float64)                   {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

var (
	searchHooks SearchHooks = NoopSearchHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetSearchHooks registers custom search hooks.
// Call once at startup, before any search runs.
func SetSearchHooks(h SearchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		searchHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// Call once at startup, before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Search returns the registered search hooks.
func Search() SearchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return searchHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	searchHooks = NoopSearchHooks{}
	cacheHooks = NoopCacheHooks{}
}
