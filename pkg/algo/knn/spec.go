package knn

import (
	"github.com/orneryd/gds/pkg/core"
	"github.com/orneryd/gds/pkg/gdserr"
	"github.com/orneryd/gds/pkg/store/view"
)

type knnConfig struct {
	sel              core.GraphSelection
	nodeProperty     string
	k                int
	sampledK         int
	maxIterations    int
	randomSeed       uint64
	perturbationRate float64
	randomJoins      int
	updateThreshold  int64
	similarityCutoff float64
	metric           Metric
}

func (c knnConfig) GraphSelection() core.GraphSelection { return c.sel }

func parseKNNConfig(raw core.RawConfig) (knnConfig, error) {
	if err := core.ValidateKnownKeys(raw,
		"nodeProperty", "k", "sampledK", "maxIterations", "randomSeed",
		"perturbationRate", "randomJoins", "updateThreshold", "similarityCutoff",
		"similarityMetric", "initialSampler", "relationshipTypes", "direction", "concurrency"); err != nil {
		return knnConfig{}, err
	}

	nodeProperty, err := core.RequireString(raw, "nodeProperty")
	if err != nil {
		return knnConfig{}, err
	}
	k := core.OptInt64(raw, "k", 10)
	if k <= 0 {
		return knnConfig{}, gdserr.InvalidParameter("k must be positive, got %d", k)
	}
	perturbationRate := core.OptFloat64(raw, "perturbationRate", 0.0)
	if perturbationRate < 0 || perturbationRate > 1 {
		return knnConfig{}, gdserr.InvalidParameter("perturbationRate must be within [0.0, 1.0], got %f", perturbationRate)
	}

	metric := Cosine
	if core.OptString(raw, "similarityMetric", "COSINE") == "EUCLIDEAN" {
		metric = Euclidean
	}

	return knnConfig{
		sel:              core.ParseGraphSelection(raw, 4),
		nodeProperty:     nodeProperty,
		k:                int(k),
		sampledK:         int(core.OptInt64(raw, "sampledK", 0)),
		maxIterations:    int(core.OptInt64(raw, "maxIterations", 10)),
		randomSeed:       uint64(core.OptInt64(raw, "randomSeed", 0xC0FFEE)),
		perturbationRate: perturbationRate,
		randomJoins:      int(core.OptInt64(raw, "randomJoins", 0)),
		updateThreshold:  core.OptInt64(raw, "updateThreshold", 0),
		similarityCutoff: core.OptFloat64(raw, "similarityCutoff", 0.0),
		metric:           metric,
	}, nil
}

// knnRows dedups each unordered pair to a single row keyed by the
// smaller node id, since a candidate may appear in either or both
// endpoints' top-k lists (spec §8's KNN symmetry property).
func knnRows(result Result) func(yield func(core.Row) bool) {
	return func(yield func(core.Row) bool) {
		seen := make(map[[2]int64]bool)
		for u, neighbors := range result.Neighbors {
			for _, nb := range neighbors {
				lo, hi := int64(u), nb.Target
				if lo > hi {
					lo, hi = hi, lo
				}
				pair := [2]int64{lo, hi}
				if seen[pair] {
					continue
				}
				seen[pair] = true
				if !yield(core.Row{"source": lo, "target": hi, "similarity": nb.Similarity}) {
					return
				}
			}
		}
	}
}

func knnStats(result Result) map[string]any {
	nodesCompared := 0
	for _, neighbors := range result.Neighbors {
		if len(neighbors) > 0 {
			nodesCompared++
		}
	}
	return map[string]any{
		"nodesCompared":       nodesCompared,
		"ranIterations":       result.RanIterations,
		"didConverge":         result.DidConverge,
		"nodePairsConsidered": result.NodePairsConsidered,
	}
}

// Spec is the core.AlgorithmSpec for approximate k-nearest-neighbors via
// NN-Descent (spec §4.4.5). Like its teacher (`define_algorithm_spec!`
// for knn only declares Stream/Stats), it has no Mutate/Write mode:
// the result is a set of node-pair rows, not a per-node scalar.
type Spec struct{}

func (Spec) Name() string                       { return "knn" }
func (Spec) ProjectionHint() core.ProjectionHint { return core.Dense }
func (Spec) SupportedModes() []core.Mode         { return []core.Mode{core.Stream, core.Stats, core.Estimate} }

func (Spec) ValidateConfig(mode core.Mode, raw core.RawConfig) (core.Config, error) {
	return parseKNNConfig(raw)
}

func (Spec) Execute(v *view.View, cfg core.Config, rc *core.RunContext) (*core.Output, error) {
	c := cfg.(knnConfig)
	points, err := pointsFromView(v, c.nodeProperty)
	if err != nil {
		return nil, err
	}

	result, err := Compute(rc.Context, points, Config{
		K:                c.k,
		SampledK:         c.sampledK,
		MaxIterations:    c.maxIterations,
		RandomSeed:       c.randomSeed,
		PerturbationRate: c.perturbationRate,
		RandomJoins:      c.randomJoins,
		UpdateThreshold:  c.updateThreshold,
		SimilarityCutoff: c.similarityCutoff,
		SimilarityMetric: c.metric,
	}, rc.Termination)
	if err != nil {
		return nil, err
	}

	return &core.Output{
		Rows:  knnRows(result),
		Stats: knnStats(result),
	}, nil
}

func (Spec) EstimateMemory(nodeCount, relationshipCount int64, cfg core.Config) (core.MemoryRange, error) {
	c, _ := cfg.(knnConfig)
	k := int64(c.k)
	if k <= 0 {
		k = 10
	}
	// Each node's candidate heap holds k (Neighbor, index-map-entry)
	// pairs; Neighbor is int64+float64 (16 bytes), the index map roughly
	// doubles that in practice.
	perNode := nodeCount * k * 32
	base := core.FictitiousGraphStoreRange(nodeCount, 0)
	return base.Add(core.MemoryRange{Min: perNode, Max: perNode}), nil
}
