package node2vec

import (
	"github.com/orneryd/gds/pkg/core"
	"github.com/orneryd/gds/pkg/gdserr"
	"github.com/orneryd/gds/pkg/store/view"
)

type node2vecConfig struct {
	sel core.GraphSelection
	cfg Config
}

func (c node2vecConfig) GraphSelection() core.GraphSelection { return c.sel }

func parseNode2VecConfig(raw core.RawConfig) (node2vecConfig, error) {
	if err := core.ValidateKnownKeys(raw,
		"walksPerNode", "walkLength", "returnFactor", "inOutFactor",
		"positiveSamplingFactor", "negativeSamplingExponent", "negativeSamplingRate",
		"initialLearningRate", "minLearningRate", "iterations", "windowSize",
		"embeddingDimension", "embeddingInitializer", "sourceNodes", "randomSeed",
		"concurrency", "walkBufferSize", "relationshipTypes", "direction"); err != nil {
		return node2vecConfig{}, err
	}

	initializer := Uniform
	if rawInit, ok := raw["embeddingInitializer"]; ok {
		s, ok := rawInit.(string)
		if !ok {
			return node2vecConfig{}, gdserr.InvalidParameter("field %q must be a string", "embeddingInitializer")
		}
		switch s {
		case "UNIFORM", "":
			initializer = Uniform
		case "NORMALIZED":
			initializer = Normalized
		default:
			return node2vecConfig{}, gdserr.InvalidParameter("unknown embeddingInitializer %q", s)
		}
	}

	var sourceNodes []int64
	if rawSources, ok := raw["sourceNodes"]; ok {
		items, ok := rawSources.([]any)
		if !ok {
			return node2vecConfig{}, gdserr.InvalidParameter("field %q must be a list of numbers", "sourceNodes")
		}
		sourceNodes = make([]int64, 0, len(items))
		for _, item := range items {
			f, ok := item.(float64)
			if !ok {
				return node2vecConfig{}, gdserr.InvalidParameter("field %q must contain only numbers", "sourceNodes")
			}
			sourceNodes = append(sourceNodes, int64(f))
		}
	}

	cfg := Config{
		WalksPerNode:             int(core.OptInt64(raw, "walksPerNode", 10)),
		WalkLength:               int(core.OptInt64(raw, "walkLength", 80)),
		ReturnFactor:             core.OptFloat64(raw, "returnFactor", 1.0),
		InOutFactor:              core.OptFloat64(raw, "inOutFactor", 1.0),
		PositiveSamplingFactor:   core.OptFloat64(raw, "positiveSamplingFactor", 0.001),
		NegativeSamplingExponent: core.OptFloat64(raw, "negativeSamplingExponent", 0.75),
		NegativeSamplingRate:     int(core.OptInt64(raw, "negativeSamplingRate", 5)),
		InitialLearningRate:      core.OptFloat64(raw, "initialLearningRate", 0.025),
		MinLearningRate:          core.OptFloat64(raw, "minLearningRate", 0.0001),
		Iterations:               int(core.OptInt64(raw, "iterations", 1)),
		WindowSize:               int(core.OptInt64(raw, "windowSize", 10)),
		EmbeddingDimension:       int(core.OptInt64(raw, "embeddingDimension", 128)),
		Initializer:              initializer,
		SourceNodes:              sourceNodes,
		RandomSeed:               uint64(core.OptInt64(raw, "randomSeed", 0)),
		Concurrency:              int(core.OptInt64(raw, "concurrency", 4)),
	}

	sel := core.ParseGraphSelection(raw, cfg.Concurrency)
	return node2vecConfig{sel: sel, cfg: cfg}, nil
}

func node2vecRows(result Result) func(yield func(core.Row) bool) {
	return func(yield func(core.Row) bool) {
		for node, vec := range result.Embeddings {
			row := core.Row{"nodeId": int64(node), "embedding": vec}
			if !yield(row) {
				return
			}
		}
	}
}

func node2vecStats(result Result) map[string]any {
	stats := map[string]any{
		"nodeCount":      int64(len(result.Embeddings)),
		"walksGenerated": result.WalksGenerated,
	}
	if n := len(result.LossPerIteration); n > 0 {
		stats["finalLoss"] = result.LossPerIteration[n-1]
		stats["lossPerIteration"] = result.LossPerIteration
	}
	return stats
}

// Spec is the core.AlgorithmSpec for node2vec node embeddings (spec
// §4.4.7). Mutate/Write are not implemented, matching the teacher's own
// algorithm registration and its dispatch handler, which answers
// NOT_IMPLEMENTED for both: node2vec's result is a per-node embedding
// vector, and unlike a scalar community id or score there is no
// established convention in this codebase yet for projecting array-typed
// node properties back onto the store outside of this one algorithm.
type Spec struct{}

func (Spec) Name() string                       { return "node2vec" }
func (Spec) ProjectionHint() core.ProjectionHint { return core.Dense }
func (Spec) SupportedModes() []core.Mode         { return []core.Mode{core.Stream, core.Stats, core.Estimate} }

func (Spec) ValidateConfig(mode core.Mode, raw core.RawConfig) (core.Config, error) {
	return parseNode2VecConfig(raw)
}

func (Spec) Execute(v *view.View, cfg core.Config, rc *core.RunContext) (*core.Output, error) {
	c := cfg.(node2vecConfig)

	neighbors := neighborsFromView(v)
	result, err := Compute(v.NodeCount(), c.cfg, neighbors, rc.Termination)
	if err != nil {
		return nil, err
	}

	return &core.Output{
		Rows:  node2vecRows(result),
		Stats: node2vecStats(result),
	}, nil
}

func (Spec) EstimateMemory(nodeCount, relationshipCount int64, cfg core.Config) (core.MemoryRange, error) {
	c := cfg.(node2vecConfig)
	base := core.FictitiousGraphStoreRange(nodeCount, relationshipCount)
	// Two embedding matrices (center + context), each nodeCount*dimension float64s.
	perNode := nodeCount * int64(c.cfg.EmbeddingDimension) * 8 * 2
	return base.Add(core.MemoryRange{Min: perNode, Max: perNode}), nil
}
