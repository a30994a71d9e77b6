package traverse

import "github.com/orneryd/gds/pkg/store/view"

// neighborsFromView adapts a *view.View into the unweighted NeighborFunc
// contract the kernels depend on. This is the only file in the package
// that imports pkg/store/view.
func neighborsFromView(v *view.View) NeighborFunc {
	return func(node int64) []int64 {
		var out []int64
		collect := func(c view.Cursor) bool {
			out = append(out, c.Target)
			return true
		}
		if v.Orientation() == view.Reverse {
			v.StreamInverseRelationships(node, 1.0, collect)
		} else {
			v.StreamRelationships(node, 1.0, collect)
		}
		return out
	}
}
