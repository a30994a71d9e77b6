package pathfinding

import (
	"math"

	"github.com/orneryd/gds/pkg/core"
	"github.com/orneryd/gds/pkg/gdserr"
	"github.com/orneryd/gds/pkg/store/view"
)

// pathConfig is the Config shared by Dijkstra, A*, and Yens: a source, an
// optional target set, an optional weight property, and (Yens only) k.
type pathConfig struct {
	sel         core.GraphSelection
	source      int64
	targets     []int64
	hasWeight   bool
	k           int
	heuristic   string
	xProperty   string
	yProperty   string
	latProperty string
	lonProperty string
}

func (c pathConfig) GraphSelection() core.GraphSelection { return c.sel }

func parsePathConfig(raw core.RawConfig, allowed ...string) (pathConfig, error) {
	if err := core.ValidateKnownKeys(raw, allowed...); err != nil {
		return pathConfig{}, err
	}
	source, err := core.RequireInt64(raw, "source")
	if err != nil {
		return pathConfig{}, err
	}
	var targets []int64
	if t, ok := raw["target"]; ok {
		f, ok := t.(float64)
		if !ok {
			return pathConfig{}, gdserr.InvalidParameter("field %q must be a number", "target")
		}
		targets = []int64{int64(f)}
	}
	weightProperty := core.OptString(raw, "weightProperty", "")

	sel := core.ParseGraphSelection(raw, 4)
	if weightProperty != "" {
		for _, t := range sel.RelationshipTypes {
			sel.PropertySelectors[t] = weightProperty
		}
	}

	return pathConfig{
		sel:       sel,
		source:    source,
		targets:   targets,
		hasWeight: weightProperty != "",
	}, nil
}

func checkSourceTarget(v *view.View, source int64, targets []int64) error {
	if source < 0 || source >= v.NodeCount() {
		return gdserr.OutOfRange("source %d outside [0,%d)", source, v.NodeCount())
	}
	for _, t := range targets {
		if t < 0 || t >= v.NodeCount() {
			return gdserr.OutOfRange("target %d outside [0,%d)", t, v.NodeCount())
		}
	}
	return nil
}

func pathRows(results []PathResult, source int64) func(yield func(core.Row) bool) {
	return func(yield func(core.Row) bool) {
		for _, r := range results {
			row := core.Row{"source": source, "target": r.Target, "cost": r.Cost}
			if r.Path != nil {
				row["path"] = r.Path
			}
			if !yield(row) {
				return
			}
		}
	}
}

func pathStats(results []PathResult) map[string]any {
	found := len(results) > 0
	var totalCost float64
	for _, r := range results {
		totalCost += r.Cost
	}
	return map[string]any{
		"pathsFound": len(results),
		"found":      found,
		"totalCost":  totalCost,
	}
}

// estimatePathMemory accounts for the distance/predecessor arrays every
// kernel in this package allocates, on top of the fictitious graph cost.
func estimatePathMemory(nodeCount, relationshipCount int64) core.MemoryRange {
	base := core.FictitiousGraphStoreRange(nodeCount, relationshipCount)
	perNode := nodeCount * 16 // dist float64 + pred int64
	return base.Add(core.MemoryRange{Min: perNode, Max: perNode})
}

// --- Dijkstra ---

// DijkstraSpec is the core.AlgorithmSpec for single-source weighted
// shortest paths (spec §4.4.1).
type DijkstraSpec struct{}

func (DijkstraSpec) Name() string                  { return "dijkstra" }
func (DijkstraSpec) ProjectionHint() core.ProjectionHint { return core.Sparse }
func (DijkstraSpec) SupportedModes() []core.Mode   { return []core.Mode{core.Stream, core.Stats, core.Estimate} }

func (DijkstraSpec) ValidateConfig(mode core.Mode, raw core.RawConfig) (core.Config, error) {
	return parsePathConfig(raw, "source", "target", "weightProperty", "relationshipTypes", "direction", "concurrency")
}

func (DijkstraSpec) Execute(v *view.View, cfg core.Config, rc *core.RunContext) (*core.Output, error) {
	c := cfg.(pathConfig)
	if err := checkSourceTarget(v, c.source, c.targets); err != nil {
		return nil, err
	}
	neighbors := neighborsFromView(v, c.hasWeight)
	results, err := Dijkstra(v.NodeCount(), c.source, c.targets, neighbors, true, rc.Termination)
	if err != nil {
		return nil, err
	}
	return &core.Output{
		Rows:  pathRows(results, c.source),
		Stats: pathStats(results),
	}, nil
}

func (DijkstraSpec) EstimateMemory(nodeCount, relationshipCount int64, cfg core.Config) (core.MemoryRange, error) {
	return estimatePathMemory(nodeCount, relationshipCount), nil
}

// --- A* ---

// AStarSpec is the core.AlgorithmSpec for heuristic-biased shortest paths
// (spec §4.4.1). The heuristic reads two node properties whose meaning
// depends on the configured heuristic kind.
type AStarSpec struct{}

func (AStarSpec) Name() string                  { return "astar" }
func (AStarSpec) ProjectionHint() core.ProjectionHint { return core.Sparse }
func (AStarSpec) SupportedModes() []core.Mode   { return []core.Mode{core.Stream, core.Stats, core.Estimate} }

func (AStarSpec) ValidateConfig(mode core.Mode, raw core.RawConfig) (core.Config, error) {
	c, err := parsePathConfig(raw, "source", "target", "weightProperty", "relationshipTypes", "direction",
		"concurrency", "heuristic", "xProperty", "yProperty", "latitudeProperty", "longitudeProperty")
	if err != nil {
		return nil, err
	}
	if len(c.targets) != 1 {
		return nil, gdserr.InvalidParameter("astar requires exactly one target")
	}
	c.heuristic = core.OptString(raw, "heuristic", "euclidean")
	switch c.heuristic {
	case "manhattan", "euclidean":
		c.xProperty = core.OptString(raw, "xProperty", "x")
		c.yProperty = core.OptString(raw, "yProperty", "y")
	case "haversine":
		c.latProperty = core.OptString(raw, "latitudeProperty", "latitude")
		c.lonProperty = core.OptString(raw, "longitudeProperty", "longitude")
	default:
		return nil, gdserr.InvalidParameter("unrecognized heuristic %q", c.heuristic)
	}
	return c, nil
}

func (AStarSpec) Execute(v *view.View, cfg core.Config, rc *core.RunContext) (*core.Output, error) {
	c := cfg.(pathConfig)
	if err := checkSourceTarget(v, c.source, c.targets); err != nil {
		return nil, err
	}
	target := c.targets[0]
	h, err := buildHeuristic(v, c, target)
	if err != nil {
		return nil, err
	}
	neighbors := neighborsFromView(v, c.hasWeight)
	results, err := AStar(v.NodeCount(), c.source, c.targets, neighbors, h, true, rc.Termination)
	if err != nil {
		return nil, err
	}
	return &core.Output{
		Rows:  pathRows(results, c.source),
		Stats: pathStats(results),
	}, nil
}

func (AStarSpec) EstimateMemory(nodeCount, relationshipCount int64, cfg core.Config) (core.MemoryRange, error) {
	return estimatePathMemory(nodeCount, relationshipCount), nil
}

// buildHeuristic reads the configured node properties once per call and
// returns a HeuristicFunc closed over the target's coordinates.
func buildHeuristic(v *view.View, c pathConfig, target int64) (HeuristicFunc, error) {
	st := v.Store()
	switch c.heuristic {
	case "manhattan", "euclidean":
		xs, err := st.NodePropertyValues(c.xProperty)
		if err != nil {
			return nil, err
		}
		ys, err := st.NodePropertyValues(c.yProperty)
		if err != nil {
			return nil, err
		}
		tx, _ := xs.DoubleValue(int(target))
		ty, _ := ys.DoubleValue(int(target))
		manhattan := c.heuristic == "manhattan"
		return func(node int64) float64 {
			nx, _ := xs.DoubleValue(int(node))
			ny, _ := ys.DoubleValue(int(node))
			dx, dy := nx-tx, ny-ty
			if manhattan {
				return math.Abs(dx) + math.Abs(dy)
			}
			return math.Sqrt(dx*dx + dy*dy)
		}, nil
	case "haversine":
		lats, err := st.NodePropertyValues(c.latProperty)
		if err != nil {
			return nil, err
		}
		lons, err := st.NodePropertyValues(c.lonProperty)
		if err != nil {
			return nil, err
		}
		tlat, _ := lats.DoubleValue(int(target))
		tlon, _ := lons.DoubleValue(int(target))
		return func(node int64) float64 {
			lat, _ := lats.DoubleValue(int(node))
			lon, _ := lons.DoubleValue(int(node))
			return haversine(lat, lon, tlat, tlon)
		}, nil
	default:
		return nil, gdserr.InvalidParameter("unrecognized heuristic %q", c.heuristic)
	}
}

const earthRadiusMeters = 6371000.0

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := math.Pi / 180.0
	dLat := (lat2 - lat1) * toRad
	dLon := (lon2 - lon1) * toRad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*toRad)*math.Cos(lat2*toRad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// --- Yens ---

// YensSpec is the core.AlgorithmSpec for k loopless shortest paths
// (spec §4.4.1).
type YensSpec struct{}

func (YensSpec) Name() string                  { return "yens" }
func (YensSpec) ProjectionHint() core.ProjectionHint { return core.Sparse }
func (YensSpec) SupportedModes() []core.Mode   { return []core.Mode{core.Stream, core.Stats, core.Estimate} }

func (YensSpec) ValidateConfig(mode core.Mode, raw core.RawConfig) (core.Config, error) {
	c, err := parsePathConfig(raw, "source", "target", "weightProperty", "relationshipTypes", "direction", "concurrency", "k")
	if err != nil {
		return nil, err
	}
	if len(c.targets) != 1 {
		return nil, gdserr.InvalidParameter("yens requires exactly one target")
	}
	k := core.OptInt64(raw, "k", 1)
	if k <= 0 {
		return nil, gdserr.InvalidParameter("k must be positive, got %d", k)
	}
	c.k = int(k)
	return c, nil
}

func (YensSpec) Execute(v *view.View, cfg core.Config, rc *core.RunContext) (*core.Output, error) {
	c := cfg.(pathConfig)
	if err := checkSourceTarget(v, c.source, c.targets); err != nil {
		return nil, err
	}
	neighbors := neighborsFromView(v, c.hasWeight)
	results, err := Yens(v.NodeCount(), c.source, c.targets[0], c.k, neighbors, rc.Termination)
	if err != nil {
		return nil, err
	}
	return &core.Output{
		Rows:  pathRows(results, c.source),
		Stats: pathStats(results),
	}, nil
}

func (YensSpec) EstimateMemory(nodeCount, relationshipCount int64, cfg core.Config) (core.MemoryRange, error) {
	c, _ := cfg.(pathConfig)
	k := int64(1)
	if c.k > 0 {
		k = int64(c.k)
	}
	// Yens reruns Dijkstra from each spur node, so its working set scales
	// with k rather than staying fixed like the single-shot kernels.
	r := estimatePathMemory(nodeCount, relationshipCount)
	return r.Scale(k), nil
}
