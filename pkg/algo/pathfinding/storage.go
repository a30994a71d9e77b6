package pathfinding

import "github.com/orneryd/gds/pkg/store/view"

// neighborsFromView adapts a *view.View into the NeighborFunc contract the
// kernels depend on (spec §4.4's mandated storage/computation split). This
// is the only file in the package that imports pkg/store/view.
func neighborsFromView(v *view.View, hasWeight bool) NeighborFunc {
	return func(node int64) []Neighbor {
		var out []Neighbor
		collect := func(c view.Cursor) bool {
			w := 1.0
			if hasWeight {
				w = c.Property
			}
			out = append(out, Neighbor{Target: c.Target, Weight: w})
			return true
		}
		if v.Orientation() == view.Reverse {
			// StreamRelationships skips entirely under Reverse orientation
			// (view.go); incoming edges come from the inverse stream instead.
			v.StreamInverseRelationships(node, 1.0, collect)
		} else if hasWeight {
			v.StreamRelationshipsWeighted(node, 1.0, collect)
		} else {
			v.StreamRelationships(node, 1.0, collect)
		}
		return out
	}
}
