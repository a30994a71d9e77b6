package core

import (
	"context"

	"github.com/orneryd/gds/pkg/concurrency"
	"github.com/orneryd/gds/pkg/metrics"
	"github.com/orneryd/gds/pkg/progress"
	"github.com/orneryd/gds/pkg/schema"
	"github.com/orneryd/gds/pkg/store/view"
	"github.com/orneryd/gds/pkg/values"
)

// Row is one stream-mode output row. Algorithm-specific fields live
// alongside the common ones (spec §6 stream-output examples).
type Row map[string]any

// NodePropertyResult is what Mutate/Write project into the store: a
// column of the algorithm's output (community id, centrality score,
// embedding vector, ...) and the label set it should be recorded under.
type NodePropertyResult struct {
	PropertyName string
	Column       values.Column
	Labels       []schema.Label
}

// Output is everything execute() produces; the template decides which
// parts of it a given Mode actually surfaces. An algorithm only needs to
// populate the parts its supported modes use — a Stream-only algorithm
// like BFS can leave NodeProperty nil, for instance.
type Output struct {
	// Rows, if non-nil, is called once by Stream mode; it must call yield
	// for each row in order and stop if yield returns false.
	Rows func(yield func(Row) bool)

	// Stats is the algorithm-specific aggregate fields (Stats mode
	// overlays universal timings on top of this).
	Stats map[string]any

	// NodeProperty is populated when this algorithm supports Mutate/Write.
	NodeProperty *NodePropertyResult
}

// RunContext threads the per-call termination flag and progress tracker
// into execute(), so a kernel can check cancellation and report progress
// without importing pkg/core itself (storage/computation runtimes only
// depend on pkg/concurrency and pkg/progress, per spec §4.4's mandated
// separation).
type RunContext struct {
	Context     context.Context
	Termination *concurrency.TerminationFlag
	Tracker     *progress.Tracker
	Concurrency int
	Collectors  *metrics.Collectors
}

// AlgorithmSpec is the contract every algorithm registers (§4.3).
type AlgorithmSpec interface {
	Name() string
	ProjectionHint() ProjectionHint
	SupportedModes() []Mode

	// ValidateConfig parses and validates raw for the given mode,
	// returning the algorithm's own Config implementation.
	ValidateConfig(mode Mode, raw RawConfig) (Config, error)

	// Execute is the pure compute function: (store-view, config,
	// context) -> output. It must not mutate the store; side effects
	// (property projection) are applied by the template after Execute
	// returns, from the NodeProperty result.
	Execute(v *view.View, cfg Config, rc *RunContext) (*Output, error)

	// EstimateMemory returns [min,max] byte bounds for a hypothetical
	// graph of the given size under cfg, without requiring a live store
	// (spec §4.3 Estimate mode, and the fictitious-graph estimator
	// supplemented from original_source/gds/src/mem/memest).
	EstimateMemory(nodeCount, relationshipCount int64, cfg Config) (MemoryRange, error)
}

// MemoryRange is the Estimate-mode output (§6).
type MemoryRange struct {
	Min int64
	Max int64
}
