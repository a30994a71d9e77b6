package wcc

import "github.com/orneryd/gds/pkg/store/view"

func thresholdFallback(threshold *float64) float64 {
	if threshold != nil {
		// A fallback above the threshold means edges with no weight
		// property (unweighted graphs) always pass the filter, matching
		// the teacher implementation's "t + 1.0" fallback.
		return *threshold + 1.0
	}
	return 0.0
}

// neighborsFromView adapts a *view.View into NeighborFunc. This is the
// only file in the package that imports pkg/store/view.
func neighborsFromView(v *view.View, threshold *float64) NeighborFunc {
	fallback := thresholdFallback(threshold)
	return func(node int64) []Neighbor {
		var out []Neighbor
		collect := func(c view.Cursor) bool {
			out = append(out, Neighbor{Target: c.Target, Weight: c.Property})
			return true
		}
		if v.Orientation() == view.Reverse {
			v.StreamInverseRelationships(node, fallback, collect)
		} else {
			v.StreamRelationshipsWeighted(node, fallback, collect)
		}
		return out
	}
}

// inverseNeighborsFromView yields the complementary edge direction to
// neighborsFromView, used by the sampled strategy's second pass to union
// every edge of a directed, inverse-indexed graph (spec §4.4.3). Callers
// must not use this under UndirectedOrientation, where neighborsFromView
// already yields both directions internally.
func inverseNeighborsFromView(v *view.View, threshold *float64) NeighborFunc {
	fallback := thresholdFallback(threshold)
	return func(node int64) []Neighbor {
		var out []Neighbor
		collect := func(c view.Cursor) bool {
			out = append(out, Neighbor{Target: c.Target, Weight: c.Property})
			return true
		}
		if v.Orientation() == view.Reverse {
			v.StreamRelationshipsWeighted(node, fallback, collect)
		} else {
			v.StreamInverseRelationships(node, fallback, collect)
		}
		return out
	}
}
