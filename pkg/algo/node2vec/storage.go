package node2vec

import (
	"github.com/orneryd/gds/pkg/algo/pathfinding"
	"github.com/orneryd/gds/pkg/store/view"
)

// neighborsFromView adapts a *view.View into pathfinding.NeighborFunc.
// Walks follow the view's configured orientation as-is (Natural by
// default, spec §4.4.7) rather than forcing undirected like
// pkg/algo/steiner does — node2vec walks a directed graph the way the
// edges actually point unless the caller explicitly selects an
// undirected projection. Edge weights are not used by the walk's
// transition weighting, so every neighbor carries weight 1. The sole
// pkg/store/view importer in the package.
func neighborsFromView(v *view.View) pathfinding.NeighborFunc {
	return func(node int64) []pathfinding.Neighbor {
		var out []pathfinding.Neighbor
		v.StreamRelationships(node, 1.0, func(c view.Cursor) bool {
			out = append(out, pathfinding.Neighbor{Target: c.Target, Weight: 1.0})
			return true
		})
		return out
	}
}
