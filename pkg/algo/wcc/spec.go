package wcc

import (
	"github.com/orneryd/gds/pkg/core"
	"github.com/orneryd/gds/pkg/gdserr"
	"github.com/orneryd/gds/pkg/store/view"
	"github.com/orneryd/gds/pkg/values"
)

type wccConfig struct {
	sel       core.GraphSelection
	threshold *float64
}

func (c wccConfig) GraphSelection() core.GraphSelection { return c.sel }

func parseWCCConfig(raw core.RawConfig) (wccConfig, error) {
	if err := core.ValidateKnownKeys(raw, "threshold", "relationshipWeightProperty", "relationshipTypes", "direction", "concurrency"); err != nil {
		return wccConfig{}, err
	}
	var threshold *float64
	if v, ok := raw["threshold"]; ok {
		f, ok := v.(float64)
		if !ok {
			return wccConfig{}, gdserr.InvalidParameter("field %q must be a number", "threshold")
		}
		threshold = &f
	}
	return wccConfig{sel: core.ParseGraphSelection(raw, 4), threshold: threshold}, nil
}

// Spec is the core.AlgorithmSpec for weakly connected components
// (spec §4.4.3).
type Spec struct{}

func (Spec) Name() string                       { return "wcc" }
func (Spec) ProjectionHint() core.ProjectionHint { return core.Sparse }
func (Spec) SupportedModes() []core.Mode        { return []core.Mode{core.Stream, core.Stats, core.Mutate, core.Write, core.Estimate} }

func (Spec) ValidateConfig(mode core.Mode, raw core.RawConfig) (core.Config, error) {
	return parseWCCConfig(raw)
}

func (Spec) Execute(v *view.View, cfg core.Config, rc *core.RunContext) (*core.Output, error) {
	c := cfg.(wccConfig)
	characteristics := v.Characteristics()

	// Sampled strategy applies whenever the graph is undirected, or
	// directed-with-inverse-index traversed in its natural orientation
	// (spec §4.4.3). A directed view under UndirectedOrientation sees both
	// edge directions through one NeighborFunc call, and under Reverse it
	// sees every edge once from its target, so the unsampled single pass
	// unions every edge there too; only the Natural+inverse-indexed case
	// uses a second pass over the complementary direction.
	useInverseSecondPass := characteristics.InverseIndexed && v.Orientation() == view.Natural
	sampled := !characteristics.Directed || useInverseSecondPass

	neighbors := neighborsFromView(v, c.threshold)
	var inverse NeighborFunc
	if useInverseSecondPass {
		inverse = inverseNeighborsFromView(v, c.threshold)
	}

	dss, err := Compute(rc.Context, v.NodeCount(), neighbors, inverse, Config{
		Concurrency: rc.Concurrency,
		Sampled:     sampled,
		Threshold:   c.threshold,
		HasInverse:  useInverseSecondPass,
	}, rc.Termination)
	if err != nil {
		return nil, err
	}

	components := dss.Components()
	componentCount := dss.ComponentCount()
	if rc.Collectors != nil {
		rc.Collectors.RecordComponentsFound(componentCount)
	}

	rows := func(yield func(core.Row) bool) {
		for nodeID, componentID := range components {
			if !yield(core.Row{"nodeId": int64(nodeID), "componentId": componentID}) {
				return
			}
		}
	}

	return &core.Output{
		Rows:  rows,
		Stats: map[string]any{"componentCount": componentCount},
		NodeProperty: &core.NodePropertyResult{
			PropertyName: "componentId",
			Column:       values.NewLongColumn(components),
		},
	}, nil
}

func (Spec) EstimateMemory(nodeCount, relationshipCount int64, cfg core.Config) (core.MemoryRange, error) {
	base := core.FictitiousGraphStoreRange(nodeCount, relationshipCount)
	// One int64 parent pointer per node for the disjoint-set, plus the
	// dense component-id output array.
	perNode := nodeCount * 16
	return base.Add(core.MemoryRange{Min: perNode, Max: perNode}), nil
}
