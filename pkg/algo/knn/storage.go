package knn

import (
	"github.com/orneryd/gds/pkg/gdserr"
	"github.com/orneryd/gds/pkg/store/view"
)

// pointsFromView reads the node property named nodeProperty as a
// per-node feature vector. It is the only file in the package that
// imports pkg/store/view.
func pointsFromView(v *view.View, nodeProperty string) ([][]float64, error) {
	col, err := v.Store().NodePropertyValues(nodeProperty)
	if err != nil {
		return nil, err
	}

	n := v.NodeCount()
	points := make([][]float64, n)
	for i := int64(0); i < n; i++ {
		vec, err := col.DoubleArrayValue(int(i))
		if err != nil {
			return nil, gdserr.InvalidGraph("node property %q is not a numeric vector at node %d: %v", nodeProperty, i, err)
		}
		points[i] = vec
	}
	return points, nil
}
