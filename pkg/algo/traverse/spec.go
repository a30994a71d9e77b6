package traverse

import (
	"github.com/orneryd/gds/pkg/core"
	"github.com/orneryd/gds/pkg/gdserr"
	"github.com/orneryd/gds/pkg/store/view"
)

type traverseConfig struct {
	sel       core.GraphSelection
	source    int64
	maxDepth  int
	trackPath bool
}

func (c traverseConfig) GraphSelection() core.GraphSelection { return c.sel }

func parseTraverseConfig(raw core.RawConfig) (traverseConfig, error) {
	if err := core.ValidateKnownKeys(raw, "source", "maxDepth", "trackPaths", "relationshipTypes", "direction", "concurrency"); err != nil {
		return traverseConfig{}, err
	}
	source, err := core.RequireInt64(raw, "source")
	if err != nil {
		return traverseConfig{}, err
	}
	maxDepth := unbounded
	if v, ok := raw["maxDepth"]; ok {
		f, ok := v.(float64)
		if !ok {
			return traverseConfig{}, gdserr.InvalidParameter("field %q must be a number", "maxDepth")
		}
		maxDepth = int(f)
	}
	trackPath := false
	if v, ok := raw["trackPaths"]; ok {
		b, ok := v.(bool)
		if !ok {
			return traverseConfig{}, gdserr.InvalidParameter("field %q must be a boolean", "trackPaths")
		}
		trackPath = b
	}

	return traverseConfig{
		sel:       core.ParseGraphSelection(raw, 4),
		source:    source,
		maxDepth:  maxDepth,
		trackPath: trackPath,
	}, nil
}

func visitRows(results []VisitResult) func(yield func(core.Row) bool) {
	return func(yield func(core.Row) bool) {
		for _, r := range results {
			row := core.Row{"target": r.Target, "depth": r.Depth, "cost": float64(r.Depth)}
			if r.Path != nil {
				row["path"] = r.Path
			}
			if !yield(row) {
				return
			}
		}
	}
}

func visitStats(s Stats) map[string]any {
	return map[string]any{
		"nodesVisited":    s.NodesVisited,
		"maxDepthReached": s.MaxDepthReached,
	}
}

func estimateTraverseMemory(nodeCount, relationshipCount int64) core.MemoryRange {
	base := core.FictitiousGraphStoreRange(nodeCount, relationshipCount)
	// visited bits (rounded up to 1 byte) + 8-byte depth and predecessor
	// arrays
	perNode := nodeCount * 17
	return base.Add(core.MemoryRange{Min: perNode, Max: perNode})
}

// BFSSpec is the core.AlgorithmSpec for level-synchronous breadth-first
// search (spec §4.4.2).
type BFSSpec struct{}

func (BFSSpec) Name() string                      { return "bfs" }
func (BFSSpec) ProjectionHint() core.ProjectionHint { return core.Sparse }
func (BFSSpec) SupportedModes() []core.Mode       { return []core.Mode{core.Stream, core.Stats, core.Estimate} }

func (BFSSpec) ValidateConfig(mode core.Mode, raw core.RawConfig) (core.Config, error) {
	return parseTraverseConfig(raw)
}

func (BFSSpec) Execute(v *view.View, cfg core.Config, rc *core.RunContext) (*core.Output, error) {
	c := cfg.(traverseConfig)
	if c.source < 0 || c.source >= v.NodeCount() {
		return nil, gdserr.OutOfRange("source %d outside [0,%d)", c.source, v.NodeCount())
	}
	results, stats, err := BFS(v.NodeCount(), c.source, c.maxDepth, neighborsFromView(v), true, rc.Termination)
	if err != nil {
		return nil, err
	}
	return &core.Output{Rows: visitRows(results), Stats: visitStats(stats)}, nil
}

func (BFSSpec) EstimateMemory(nodeCount, relationshipCount int64, cfg core.Config) (core.MemoryRange, error) {
	return estimateTraverseMemory(nodeCount, relationshipCount), nil
}

// DFSSpec is the core.AlgorithmSpec for explicit-stack depth-first search
// (spec §4.4.2).
type DFSSpec struct{}

func (DFSSpec) Name() string                      { return "dfs" }
func (DFSSpec) ProjectionHint() core.ProjectionHint { return core.Sparse }
func (DFSSpec) SupportedModes() []core.Mode       { return []core.Mode{core.Stream, core.Stats, core.Estimate} }

func (DFSSpec) ValidateConfig(mode core.Mode, raw core.RawConfig) (core.Config, error) {
	return parseTraverseConfig(raw)
}

func (DFSSpec) Execute(v *view.View, cfg core.Config, rc *core.RunContext) (*core.Output, error) {
	c := cfg.(traverseConfig)
	if c.source < 0 || c.source >= v.NodeCount() {
		return nil, gdserr.OutOfRange("source %d outside [0,%d)", c.source, v.NodeCount())
	}
	results, stats, err := DFS(v.NodeCount(), c.source, c.maxDepth, neighborsFromView(v), true, rc.Termination)
	if err != nil {
		return nil, err
	}
	out := visitStats(stats)
	out["backtrackOperations"] = stats.BacktrackOperations
	out["avgBranchDepth"] = stats.AvgBranchDepth
	return &core.Output{Rows: visitRows(results), Stats: out}, nil
}

func (DFSSpec) EstimateMemory(nodeCount, relationshipCount int64, cfg core.Config) (core.MemoryRange, error) {
	return estimateTraverseMemory(nodeCount, relationshipCount), nil
}
