package kmeans

import (
	"github.com/orneryd/gds/pkg/core"
	"github.com/orneryd/gds/pkg/gdserr"
	"github.com/orneryd/gds/pkg/store/view"
	"github.com/orneryd/gds/pkg/values"
)

type kmeansConfig struct {
	sel               core.GraphSelection
	nodeProperty      string
	k                 int
	maxIterations     int
	deltaThreshold    float64
	randomSeed        uint64
	computeSilhouette bool
	sampler           Sampler
	seedCentroids     [][]float64
	restarts          int
}

func (c kmeansConfig) GraphSelection() core.GraphSelection { return c.sel }

func parseKMeansConfig(raw core.RawConfig) (kmeansConfig, error) {
	if err := core.ValidateKnownKeys(raw,
		"nodeProperty", "k", "maxIterations", "deltaThreshold", "randomSeed",
		"computeSilhouette", "samplerType", "seedCentroids", "restarts",
		"relationshipTypes", "direction", "concurrency"); err != nil {
		return kmeansConfig{}, err
	}

	nodeProperty, err := core.RequireString(raw, "nodeProperty")
	if err != nil {
		return kmeansConfig{}, err
	}
	k := core.OptInt64(raw, "k", 2)
	if k <= 0 {
		return kmeansConfig{}, gdserr.InvalidParameter("k must be positive, got %d", k)
	}

	computeSilhouette := false
	if v, ok := raw["computeSilhouette"]; ok {
		b, ok := v.(bool)
		if !ok {
			return kmeansConfig{}, gdserr.InvalidParameter("field %q must be a boolean", "computeSilhouette")
		}
		computeSilhouette = b
	}

	sampler := Uniform
	if core.OptString(raw, "samplerType", "UNIFORM") == "KMEANSPP" {
		sampler = KMeansPlusPlus
	}

	seedCentroids, err := parseSeedCentroids(raw)
	if err != nil {
		return kmeansConfig{}, err
	}

	return kmeansConfig{
		sel:               core.ParseGraphSelection(raw, 4),
		nodeProperty:       nodeProperty,
		k:                  int(k),
		maxIterations:      int(core.OptInt64(raw, "maxIterations", 10)),
		deltaThreshold:     core.OptFloat64(raw, "deltaThreshold", 0.0),
		randomSeed:         uint64(core.OptInt64(raw, "randomSeed", 0xC0FFEE)),
		computeSilhouette:  computeSilhouette,
		sampler:            sampler,
		seedCentroids:      seedCentroids,
		restarts:           int(core.OptInt64(raw, "restarts", 1)),
	}, nil
}

func parseSeedCentroids(raw core.RawConfig) ([][]float64, error) {
	v, ok := raw["seedCentroids"]
	if !ok {
		return nil, nil
	}
	rows, ok := v.([]any)
	if !ok {
		return nil, gdserr.InvalidParameter("field %q must be an array of arrays", "seedCentroids")
	}
	out := make([][]float64, 0, len(rows))
	for _, row := range rows {
		coords, ok := row.([]any)
		if !ok {
			return nil, gdserr.InvalidParameter("field %q must be an array of arrays", "seedCentroids")
		}
		vec := make([]float64, 0, len(coords))
		for _, c := range coords {
			f, ok := c.(float64)
			if !ok {
				return nil, gdserr.InvalidParameter("field %q coordinates must be numbers", "seedCentroids")
			}
			vec = append(vec, f)
		}
		out = append(out, vec)
	}
	return out, nil
}

func kmeansRows(result Result) func(yield func(core.Row) bool) {
	return func(yield func(core.Row) bool) {
		for i, community := range result.Communities {
			row := core.Row{
				"nodeId":      int64(i),
				"communityId": community,
				"distance":    result.DistanceFromCenter[i],
			}
			if result.Silhouette != nil {
				row["silhouette"] = result.Silhouette[i]
			}
			if !yield(row) {
				return
			}
		}
	}
}

func kmeansStats(result Result) map[string]any {
	return map[string]any{
		"averageDistanceToCentroid": result.AverageDistanceToCentroid,
		"averageSilhouette":         result.AverageSilhouette,
		"ranIterations":             result.RanIterations,
		"restarts":                  result.Restarts,
		"centers":                   result.Centers,
	}
}

// Spec is the core.AlgorithmSpec for k-means clustering (spec §4.4.4).
type Spec struct{}

func (Spec) Name() string                       { return "kmeans" }
func (Spec) ProjectionHint() core.ProjectionHint { return core.Dense }
func (Spec) SupportedModes() []core.Mode {
	return []core.Mode{core.Stream, core.Stats, core.Mutate, core.Write, core.Estimate}
}

func (Spec) ValidateConfig(mode core.Mode, raw core.RawConfig) (core.Config, error) {
	return parseKMeansConfig(raw)
}

func (Spec) Execute(v *view.View, cfg core.Config, rc *core.RunContext) (*core.Output, error) {
	c := cfg.(kmeansConfig)
	points, err := pointsFromView(v, c.nodeProperty)
	if err != nil {
		return nil, err
	}

	result, err := Compute(rc.Context, points, Config{
		K:                 c.k,
		MaxIterations:     c.maxIterations,
		DeltaThreshold:    c.deltaThreshold,
		Concurrency:       rc.Concurrency,
		RandomSeed:        c.randomSeed,
		ComputeSilhouette: c.computeSilhouette,
		Sampler:           c.sampler,
		SeedCentroids:     c.seedCentroids,
		Restarts:          c.restarts,
	}, rc.Termination)
	if err != nil {
		return nil, err
	}

	return &core.Output{
		Rows:  kmeansRows(result),
		Stats: kmeansStats(result),
		NodeProperty: &core.NodePropertyResult{
			PropertyName: "communityId",
			Column:       values.NewLongColumn(result.Communities),
		},
	}, nil
}

func (Spec) EstimateMemory(nodeCount, relationshipCount int64, cfg core.Config) (core.MemoryRange, error) {
	c, _ := cfg.(kmeansConfig)
	dims := int64(1)
	k := int64(c.k)
	if k <= 0 {
		k = 2
	}
	// Feature matrix (n*dims), assignment/distance arrays, and k centroids,
	// all float64/int64 (8 bytes each). dims is unknown until the node
	// property is read, so this estimate assumes a conservative single
	// dimension per node as a floor.
	perNode := nodeCount * (8*dims + 16)
	perCentroid := k * dims * 8
	base := core.FictitiousGraphStoreRange(nodeCount, 0)
	return base.Add(core.MemoryRange{Min: perNode + perCentroid, Max: perNode + perCentroid}), nil
}
