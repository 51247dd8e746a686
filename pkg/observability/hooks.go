// Package observability provides hooks for metrics and tracing of graph
// construction and queries.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup
// to receive events about graph builds, feature graph derivation and queries.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// The graph core is synchronous and never blocks on I/O, so hook methods take
// no context. Implementations must be cheap and safe for concurrent use: hooks
// are invoked from concurrent readers of the same graph.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    h := promhooks.New(prometheus.DefaultRegisterer)
//	    observability.SetGraphHooks(h)
//	    observability.SetQueryHooks(h)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	// ... build ...
//	observability.Graph().OnBuild(len(records), len(edges), time.Since(start), err)
package observability

import (
	"sync"
	"time"
)

// =============================================================================
// Graph Hooks
// =============================================================================

// GraphHooks receives events about graph construction and derivation.
type GraphHooks interface {
	// OnBuild records a package graph build attempt. err is non-nil when the
	// build was rejected.
	OnBuild(packages, edges int, duration time.Duration, err error)

	// OnFeatureGraph records the derivation of a feature graph. It fires at
	// most once per package graph.
	OnFeatureGraph(nodes, edges int, duration time.Duration)
}

// =============================================================================
// Query Hooks
// =============================================================================

// QueryHooks receives events from the query engine.
type QueryHooks interface {
	// OnClosure records a transitive closure query.
	OnClosure(direction string, roots, reached int, duration time.Duration)

	// OnCycles records a cycle scan.
	OnCycles(found int, duration time.Duration)

	// OnActivate records a feature activation query.
	OnActivate(requested, activated int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopGraphHooks is a no-op implementation of GraphHooks.
type NoopGraphHooks struct{}

func (NoopGraphHooks) OnBuild(int, int, time.Duration, error) {}
func (NoopGraphHooks) OnFeatureGraph(int, int, time.Duration) {}

// NoopQueryHooks is a no-op implementation of QueryHooks.
type NoopQueryHooks struct{}

func (NoopQueryHooks) OnClosure(string, int, int, time.Duration) {}
func (NoopQueryHooks) OnCycles(int, time.Duration)               {}
func (NoopQueryHooks) OnActivate(int, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	graphHooks GraphHooks = NoopGraphHooks{}
	queryHooks QueryHooks = NoopQueryHooks{}
	hooksMu    sync.RWMutex
)

// SetGraphHooks registers custom graph hooks.
// This should be called once at application startup before any graph is built.
func SetGraphHooks(h GraphHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		graphHooks = h
	}
}

// SetQueryHooks registers custom query hooks.
// This should be called once at application startup before any query runs.
func SetQueryHooks(h QueryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		queryHooks = h
	}
}

// Graph returns the registered graph hooks.
func Graph() GraphHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return graphHooks
}

// Query returns the registered query hooks.
func Query() QueryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return queryHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	graphHooks = NoopGraphHooks{}
	queryHooks = NoopQueryHooks{}
}
