package steiner

import (
	"github.com/orneryd/gds/pkg/core"
	"github.com/orneryd/gds/pkg/gdserr"
	"github.com/orneryd/gds/pkg/store/view"
)

type steinerConfig struct {
	sel            core.GraphSelection
	source         int64
	terminals      []int64
	delta          float64
	applyRerouting bool
	hasWeight      bool
}

func (c steinerConfig) GraphSelection() core.GraphSelection { return c.sel }

func parseSteinerConfig(raw core.RawConfig) (steinerConfig, error) {
	if err := core.ValidateKnownKeys(raw,
		"sourceNode", "targetNodes", "delta", "applyRerouting",
		"weightProperty", "relationshipTypes", "concurrency"); err != nil {
		return steinerConfig{}, err
	}

	source, err := core.RequireInt64(raw, "sourceNode")
	if err != nil {
		return steinerConfig{}, err
	}

	rawTargets, ok := raw["targetNodes"]
	if !ok {
		return steinerConfig{}, gdserr.InvalidParameter("missing required field %q", "targetNodes")
	}
	items, ok := rawTargets.([]any)
	if !ok {
		return steinerConfig{}, gdserr.InvalidParameter("field %q must be a list of numbers", "targetNodes")
	}
	terminals := make([]int64, 0, len(items))
	for _, item := range items {
		f, ok := item.(float64)
		if !ok {
			return steinerConfig{}, gdserr.InvalidParameter("field %q must contain only numbers", "targetNodes")
		}
		terminals = append(terminals, int64(f))
	}

	delta := core.OptFloat64(raw, "delta", 2.0)
	applyRerouting := false
	if v, ok := raw["applyRerouting"]; ok {
		b, ok := v.(bool)
		if !ok {
			return steinerConfig{}, gdserr.InvalidParameter("field %q must be a boolean", "applyRerouting")
		}
		applyRerouting = b
	}

	weightProperty := core.OptString(raw, "weightProperty", "")
	sel := core.ParseGraphSelection(raw, 4)
	sel.Orientation = view.UndirectedOrientation
	if weightProperty != "" {
		for _, t := range sel.RelationshipTypes {
			sel.PropertySelectors[t] = weightProperty
		}
	}

	return steinerConfig{
		sel:            sel,
		source:         source,
		terminals:      terminals,
		delta:          delta,
		applyRerouting: applyRerouting,
		hasWeight:      weightProperty != "",
	}, nil
}

func steinerRows(result Result) func(yield func(core.Row) bool) {
	return func(yield func(core.Row) bool) {
		for node, p := range result.ParentArray {
			if p == pruned || p == noParent {
				continue
			}
			row := core.Row{"nodeId": int64(node), "parentId": p, "cost": result.ParentCost[node]}
			if !yield(row) {
				return
			}
		}
	}
}

func steinerStats(result Result) map[string]any {
	return map[string]any{
		"effectiveNodeCount":   result.EffectiveNodeCount,
		"effectiveTargetCount": result.EffectiveTargetCount,
		"totalCost":            result.TotalCost,
	}
}

// Spec is the core.AlgorithmSpec for approximate minimum Steiner trees
// (spec §4.4.6). Mutate/Write are not implemented: the result is a
// per-node parent pointer describing a tree edge set, not a single
// scalar property, the same reasoning that keeps pkg/algo/knn
// Stream/Stats/Estimate-only.
type Spec struct{}

func (Spec) Name() string                       { return "steinerTree" }
func (Spec) ProjectionHint() core.ProjectionHint { return core.Sparse }
func (Spec) SupportedModes() []core.Mode         { return []core.Mode{core.Stream, core.Stats, core.Estimate} }

func (Spec) ValidateConfig(mode core.Mode, raw core.RawConfig) (core.Config, error) {
	return parseSteinerConfig(raw)
}

func (Spec) Execute(v *view.View, cfg core.Config, rc *core.RunContext) (*core.Output, error) {
	c := cfg.(steinerConfig)
	if c.source < 0 || c.source >= v.NodeCount() {
		return nil, gdserr.OutOfRange("sourceNode %d outside [0,%d)", c.source, v.NodeCount())
	}
	for _, t := range c.terminals {
		if t < 0 || t >= v.NodeCount() {
			return nil, gdserr.OutOfRange("targetNodes contains out-of-bounds node %d", t)
		}
	}

	neighbors := neighborsFromView(v, c.hasWeight)
	result, err := Compute(v.NodeCount(), Config{
		Source:         c.source,
		Terminals:      c.terminals,
		Delta:          c.delta,
		ApplyRerouting: c.applyRerouting,
	}, neighbors, rc.Termination)
	if err != nil {
		return nil, err
	}

	return &core.Output{
		Rows:  steinerRows(result),
		Stats: steinerStats(result),
	}, nil
}

func (Spec) EstimateMemory(nodeCount, relationshipCount int64, cfg core.Config) (core.MemoryRange, error) {
	base := core.FictitiousGraphStoreRange(nodeCount, relationshipCount)
	// distance, pred, predWeight, parentArray, parentCost: 3 float64 + 2 int64 per node.
	perNode := nodeCount * 40
	return base.Add(core.MemoryRange{Min: perNode, Max: perNode}), nil
}
