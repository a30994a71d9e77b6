// Package vector provides the pairwise vector similarity functions used
// by node feature comparisons across the algorithm packages (e.g.
// knn's NN-Descent join step, §4.4.5). Float32/GPU variants from the
// package's prior NornicDB incarnation are dropped: every caller here
// works over float64 node-property vectors.
package vector

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// CosineSimilarity returns the cosine of the angle between a and b, in
// [-1, 1], where 1 means identical direction. Returns 0 for mismatched
// lengths, empty vectors, or either input being the zero vector.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return floats.Dot(a, b) / (na * nb)
}

// EuclideanSimilarity returns 1/(1+distance) so that identical vectors
// score 1 and similarity decreases monotonically with distance.
func EuclideanSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return 1.0 / (1.0 + math.Sqrt(sum))
}
