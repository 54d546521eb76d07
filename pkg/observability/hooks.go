// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about sampling runs and trace store
// operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSamplerHooks(&mySamplerHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Sampler().OnRunStart(ctx, nVars, iterations)
//	// ... run the chain ...
//	observability.Sampler().OnRunComplete(ctx, accepted, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Sampler Hooks
// =============================================================================

// SamplerHooks receives events from sampling runs.
type SamplerHooks interface {
	// OnRunStart records the start of a run over nVars variables.
	OnRunStart(ctx context.Context, nVars, iterations int)

	// OnIteration records one completed iteration and the joint log
	// probability reached.
	OnIteration(ctx context.Context, iteration int, logProb float64)

	// OnRunComplete records the end of a run.
	OnRunComplete(ctx context.Context, accepted int, duration time.Duration, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from trace store operations.
type StoreHooks interface {
	// OnTally records a value written to a series.
	OnTally(ctx context.Context, backend, series string)

	// OnPlayback records a series read of n values.
	OnPlayback(ctx context.Context, backend, series string, n int)

	// OnStoreError records a backend failure.
	OnStoreError(ctx context.Context, backend string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSamplerHooks is a no-op implementation of SamplerHooks.
type NoopSamplerHooks struct{}

func (NoopSamplerHooks) OnRunStart(context.Context, int, int)                     {}
func (NoopSamplerHooks) OnIteration(context.Context, int, float64)                {}
func (NoopSamplerHooks) OnRunComplete(context.Context, int, time.Duration, error) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnTally(context.Context, string, string)         {}
func (NoopStoreHooks) OnPlayback(context.Context, string, string, int) {}
func (NoopStoreHooks) OnStoreError(context.Context, string, error)     {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	samplerHooks SamplerHooks = NoopSamplerHooks{}
	storeHooks   StoreHooks   = NoopStoreHooks{}
	hooksMu      sync.RWMutex
)

// SetSamplerHooks registers custom sampler hooks.
// This should be called once at application startup before any runs.
func SetSamplerHooks(h SamplerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		samplerHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Sampler returns the registered sampler hooks.
func Sampler() SamplerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return samplerHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	samplerHooks = NoopSamplerHooks{}
	storeHooks = NoopStoreHooks{}
}
