package core

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/orneryd/gds/pkg/concurrency"
	"github.com/orneryd/gds/pkg/gdserr"
	"github.com/orneryd/gds/pkg/metrics"
	"github.com/orneryd/gds/pkg/progress"
	gdsstore "github.com/orneryd/gds/pkg/store"
	"github.com/orneryd/gds/pkg/store/view"
)

var tracer = otel.Tracer("github.com/orneryd/gds/pkg/core")

// Timings are the universal phase timings every mode's envelope carries
// (§6 Stats output, §4.3 step 5).
type Timings struct {
	PreProcessingMillis int64
	ComputeMillis       int64
	SideEffectMillis    int64
}

// StreamEnvelope is the Stream-mode result: a lazy row sequence. If
// validation/load/execution fails before any row could be produced,
// RunStream returns the error directly and no envelope (spec §7 "stream
// mode... yields Err and halts").
type StreamEnvelope struct {
	Rows func(yield func(Row) bool)
}

// StatsEnvelope is the Stats-mode result.
type StatsEnvelope struct {
	Stats   map[string]any
	Timings Timings
	Success bool
}

// MutateEnvelope is the Mutate-mode result: the new store handle plus the
// public summary.
type MutateEnvelope struct {
	Store           *gdsstore.GraphStore
	NodesUpdated    int64
	PropertyName    string
	ExecutionTimeMs int64
}

// WriteEnvelope is the Write-mode result. Per spec §9's resolution of the
// "write" open question, this engine treats write as mutate+report: the
// new store is computed identically but the envelope surfaces only the
// summary (NodesWritten instead of NodesUpdated), matching "the true sink
// is external" — an external writer would consume Store itself.
type WriteEnvelope struct {
	NodesWritten    int64
	PropertyName    string
	ExecutionTimeMs int64
}

// EstimateEnvelope is the Estimate-mode result.
type EstimateEnvelope struct {
	Min int64
	Max int64
}

// Template wires progress tracking, termination, timing, and tracing
// around an AlgorithmSpec's Execute (§4.3's "processing template").
type Template struct {
	Registry   *progress.Registry
	Collectors *metrics.Collectors
}

// NewTemplate builds a template with its own progress registry and
// metrics collectors. Share one Template across all facades in a process
// so the registry/metrics are process-wide, per spec §9's "the graph
// catalog is the only process-wide mutable state" being complemented here
// by progress/metrics as read-only introspection state.
func NewTemplate(registry *progress.Registry, collectors *metrics.Collectors) *Template {
	return &Template{Registry: registry, Collectors: collectors}
}

func (t *Template) buildView(gs *gdsstore.GraphStore, sel GraphSelection) (*view.View, error) {
	types := sel.RelationshipTypes
	if len(types) == 1 && types[0] == "*" {
		types = gs.RelationshipTypes()
	}
	if len(sel.PropertySelectors) > 0 {
		return view.NewWeighted(gs, types, sel.PropertySelectors, sel.Orientation)
	}
	return view.New(gs, types, sel.Orientation)
}

func (t *Template) volumeHint(v *view.View) int64 {
	if v.RelationshipCount() > 0 {
		return v.RelationshipCount()
	}
	return v.NodeCount()
}

// runCore is shared by every mode: validate, build view, track progress,
// install concurrency+termination, execute, time the phases. modeName is
// used for the progress-task name and metrics labels.
func (t *Template) runCore(ctx context.Context, algo AlgorithmSpec, mode Mode, gs *gdsstore.GraphStore, raw RawConfig) (*view.View, Config, *Output, Timings, *progress.Tracker, error) {
	spanCtx, span := tracer.Start(ctx, algo.Name()+" "+mode.String())
	defer span.End()
	span.SetAttributes(attribute.String("gds.mode", mode.String()))

	t.Collectors.RecordInvocation(algo.Name(), mode.String())

	cfg, err := algo.ValidateConfig(mode, raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, nil, Timings{}, nil, err
	}

	preStart := time.Now()
	v, err := t.buildView(gs, cfg.GraphSelection())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, nil, Timings{}, nil, err
	}
	preMs := time.Since(preStart).Milliseconds()
	t.Collectors.ObservePhase(algo.Name(), mode.String(), "pre-processing", time.Since(preStart).Seconds())

	tracker := progress.New(algo.Name()+" "+mode.String(), t.volumeHint(v))
	t.Registry.Register(tracker)

	term := concurrency.NewTerminationFlag()
	rc := &RunContext{
		Context:     spanCtx,
		Termination: term,
		Tracker:     tracker,
		Concurrency: cfg.GraphSelection().Concurrency,
		Collectors:  t.Collectors,
	}

	computeStart := time.Now()
	output, err := algo.Execute(v, cfg, rc)
	computeMs := time.Since(computeStart).Milliseconds()
	t.Collectors.ObservePhase(algo.Name(), mode.String(), "compute", time.Since(computeStart).Seconds())

	if err != nil {
		if gdserr.Is(err, gdserr.ErrExecution) && term.IsStopped() {
			t.Collectors.RecordTermination(algo.Name())
		}
		tracker.EndFailure(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		slog.Error("algorithm execution failed", "algorithm", algo.Name(), "mode", mode.String(), "error", err)
		return nil, nil, nil, Timings{PreProcessingMillis: preMs, ComputeMillis: computeMs}, tracker, err
	}

	return v, cfg, output, Timings{PreProcessingMillis: preMs, ComputeMillis: computeMs}, tracker, nil
}

// RunStream executes algo in Stream mode.
func (t *Template) RunStream(ctx context.Context, algo AlgorithmSpec, gs *gdsstore.GraphStore, raw RawConfig) (*StreamEnvelope, error) {
	_, _, output, _, tracker, err := t.runCore(ctx, algo, Stream, gs, raw)
	if err != nil {
		return nil, err
	}
	tracker.EndSuccess()
	if output.Rows == nil {
		return &StreamEnvelope{Rows: func(yield func(Row) bool) {}}, nil
	}
	return &StreamEnvelope{Rows: output.Rows}, nil
}

// RunStats executes algo in Stats mode.
func (t *Template) RunStats(ctx context.Context, algo AlgorithmSpec, gs *gdsstore.GraphStore, raw RawConfig) (*StatsEnvelope, error) {
	_, _, output, timings, tracker, err := t.runCore(ctx, algo, Stats, gs, raw)
	if err != nil {
		return nil, err
	}
	tracker.EndSuccess()
	return &StatsEnvelope{Stats: output.Stats, Timings: timings, Success: true}, nil
}

// RunMutate executes algo in Mutate mode, projecting its NodeProperty
// result into a new store handle.
func (t *Template) RunMutate(ctx context.Context, algo AlgorithmSpec, gs *gdsstore.GraphStore, raw RawConfig, propertyName string) (*MutateEnvelope, error) {
	_, _, output, timings, tracker, err := t.runCore(ctx, algo, Mutate, gs, raw)
	if err != nil {
		return nil, err
	}
	if output.NodeProperty == nil {
		tracker.EndFailure(gdserr.ErrInvalidGraph)
		return nil, gdserr.InvalidGraph("algorithm %s does not support mutate mode", algo.Name())
	}

	sideEffectStart := time.Now()
	name := propertyName
	if name == "" {
		name = output.NodeProperty.PropertyName
	}
	newStore, err := gs.AddNodeProperty(output.NodeProperty.Labels, name, output.NodeProperty.Column)
	sideEffectMs := time.Since(sideEffectStart).Milliseconds()
	t.Collectors.ObservePhase(algo.Name(), Mutate.String(), "side-effect", time.Since(sideEffectStart).Seconds())
	if err != nil {
		tracker.EndFailure(err)
		return nil, err
	}
	tracker.EndSuccess()

	return &MutateEnvelope{
		Store:           newStore,
		NodesUpdated:    countPresent(output.NodeProperty.Column),
		PropertyName:    name,
		ExecutionTimeMs: timings.PreProcessingMillis + timings.ComputeMillis + sideEffectMs,
	}, nil
}

// RunWrite executes algo as mutate+report (§9's resolution of the write
// open question): it runs the identical side effect but the store handle
// is not surfaced to the caller.
func (t *Template) RunWrite(ctx context.Context, algo AlgorithmSpec, gs *gdsstore.GraphStore, raw RawConfig, propertyName string) (*WriteEnvelope, error) {
	mutated, err := t.RunMutate(ctx, algo, gs, raw, propertyName)
	if err != nil {
		return nil, err
	}
	return &WriteEnvelope{
		NodesWritten:    mutated.NodesUpdated,
		PropertyName:    mutated.PropertyName,
		ExecutionTimeMs: mutated.ExecutionTimeMs,
	}, nil
}

// RunEstimate executes algo's EstimateMemory against gs's current size.
func (t *Template) RunEstimate(ctx context.Context, algo AlgorithmSpec, gs *gdsstore.GraphStore, raw RawConfig) (*EstimateEnvelope, error) {
	cfg, err := algo.ValidateConfig(Estimate, raw)
	if err != nil {
		return nil, err
	}
	r, err := algo.EstimateMemory(gs.NodeCount(), gs.RelationshipCount(), cfg)
	if err != nil {
		return nil, err
	}
	if r.Min > r.Max {
		return nil, gdserr.Execution("estimate produced min %d > max %d", r.Min, r.Max)
	}
	return &EstimateEnvelope{Min: r.Min, Max: r.Max}, nil
}

func countPresent(col interface{ Size() int }) int64 {
	type hasValue interface{ HasValue(int) bool }
	hv, ok := col.(hasValue)
	if !ok {
		return int64(col.Size())
	}
	var n int64
	for i := 0; i < col.Size(); i++ {
		if hv.HasValue(i) {
			n++
		}
	}
	return n
}
