// Package observability provides hooks for metrics and tracing.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends to the analysis packages. Consumers
// register hooks at startup to receive events about pipeline stages,
// detector passes and artifact I/O.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// [Metrics] is the bundled implementation; it records Prometheus metrics
// and writes them to a node-exporter textfile.
//
// # Usage
//
// Register hooks at application startup:
//
//	m := observability.NewMetrics()
//	observability.SetPipelineHooks(m)
//	observability.SetDetectHooks(m)
//	observability.SetArtifactHooks(m)
//	// ... run analysis
//	m.WriteTextfile("/var/lib/node_exporter/pkgcheck.prom")
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnStageStart(ctx, "build")
//	// ... build the graph ...
//	observability.Pipeline().OnStageComplete(ctx, "build", duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the analysis pipeline.
type PipelineHooks interface {
	// Stage events
	OnStageStart(ctx context.Context, stage string)
	OnStageComplete(ctx context.Context, stage string, duration time.Duration, err error)

	// Ingestion events. failed counts skipped component definitions.
	OnIngest(ctx context.Context, source string, items, failed int)

	// OnGraphBuilt reports the size of the built graph.
	OnGraphBuilt(ctx context.Context, nodes, edges int)
}

// =============================================================================
// Detect Hooks
// =============================================================================

// DetectHooks receives events from detector passes.
type DetectHooks interface {
	// OnPassComplete records one finished detector pass.
	OnPassComplete(ctx context.Context, kind string, problems int, duration time.Duration)
}

// =============================================================================
// Artifact Hooks
// =============================================================================

// ArtifactHooks receives events from persisted artifact I/O.
type ArtifactHooks interface {
	// OnArtifactWrite records a written artifact and its size in bytes.
	OnArtifactWrite(ctx context.Context, kind string, size int)

	// OnArtifactRead records a read artifact, or the error reading it.
	OnArtifactRead(ctx context.Context, kind string, size int, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnStageStart(context.Context, string)                          {}
func (NoopPipelineHooks) OnStageComplete(context.Context, string, time.Duration, error) {}
func (NoopPipelineHooks) OnIngest(context.Context, string, int, int)                    {}
func (NoopPipelineHooks) OnGraphBuilt(context.Context, int, int)                        {}

// NoopDetectHooks is a no-op implementation of DetectHooks.
type NoopDetectHooks struct{}

func (NoopDetectHooks) OnPassComplete(context.Context, string, int, time.Duration) {}

// NoopArtifactHooks is a no-op implementation of ArtifactHooks.
type NoopArtifactHooks struct{}

func (NoopArtifactHooks) OnArtifactWrite(context.Context, string, int)       {}
func (NoopArtifactHooks) OnArtifactRead(context.Context, string, int, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	detectHooks   DetectHooks   = NoopDetectHooks{}
	artifactHooks ArtifactHooks = NoopArtifactHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetDetectHooks registers custom detector hooks.
func SetDetectHooks(h DetectHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		detectHooks = h
	}
}

// SetArtifactHooks registers custom artifact hooks.
func SetArtifactHooks(h ArtifactHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		artifactHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Detect returns the registered detector hooks.
func Detect() DetectHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return detectHooks
}

// Artifact returns the registered artifact hooks.
func Artifact() ArtifactHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return artifactHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	detectHooks = NoopDetectHooks{}
	artifactHooks = NoopArtifactHooks{}
}
