package steiner

import (
	"github.com/orneryd/gds/pkg/algo/pathfinding"
	"github.com/orneryd/gds/pkg/store/view"
)

// neighborsFromView adapts a *view.View into pathfinding.NeighborFunc.
// The view is always built with view.UndirectedOrientation (a Steiner
// tree connects terminals regardless of edge direction, spec §4.4.6), so
// StreamRelationships alone yields both directions. The sole
// pkg/store/view importer in the package.
func neighborsFromView(v *view.View, hasWeight bool) pathfinding.NeighborFunc {
	return func(node int64) []pathfinding.Neighbor {
		var out []pathfinding.Neighbor
		collect := func(c view.Cursor) bool {
			w := 1.0
			if hasWeight {
				w = c.Property
			}
			out = append(out, pathfinding.Neighbor{Target: c.Target, Weight: w})
			return true
		}
		if hasWeight {
			v.StreamRelationshipsWeighted(node, 1.0, collect)
		} else {
			v.StreamRelationships(node, 1.0, collect)
		}
		return out
	}
}
