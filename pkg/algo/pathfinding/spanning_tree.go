package pathfinding

import "math"

// MultiSourceDeltaStepping grows one shortest-path spanning tree from
// every node flagged true in active, bucketed by distance/delta
// (Meyer & Sanders delta-stepping, spec §4.4.6's "repeated multi-source
// delta-stepping" search). It returns each node's distance from its
// nearest active source and the predecessor edge discovered along that
// shortest path (predecessor node, -1 if none reached; incoming edge
// weight). Reused by pkg/algo/steiner to grow a Steiner tree one
// terminal at a time, re-running from the tree's current node set after
// each terminal is merged in.
func MultiSourceDeltaStepping(nodeCount int64, active []bool, delta float64, neighbors NeighborFunc) (distance []float64, pred []int64, predWeight []float64) {
	distance = make([]float64, nodeCount)
	pred = make([]int64, nodeCount)
	predWeight = make([]float64, nodeCount)

	var frontier []int64
	for i := int64(0); i < nodeCount; i++ {
		if active[i] {
			distance[i] = 0
			frontier = append(frontier, i)
		} else {
			distance[i] = math.Inf(1)
		}
		pred[i] = -1
	}

	tryRelax := func(from, to int64, weight float64) bool {
		nd := distance[from] + weight
		if nd < distance[to] {
			distance[to] = nd
			pred[to] = from
			predWeight[to] = weight
			return true
		}
		return false
	}

	bins := map[int][]int64{}
	currentBin := 0
	maxIterations := int(nodeCount)*2 + 1
	for iteration := 0; len(frontier) > 0 && iteration < maxIterations; iteration++ {
		var next []int64
		for len(frontier) > 0 {
			node := frontier[0]
			frontier = frontier[1:]

			if distance[node] >= delta*float64(currentBin) {
				for _, nb := range neighbors(node) {
					if nb.Target < 0 || math.IsNaN(nb.Weight) || math.IsInf(nb.Weight, 0) || nb.Weight < 0 {
						continue
					}
					if tryRelax(node, nb.Target, nb.Weight) {
						destBin := int(distance[nb.Target] / delta)
						if destBin == currentBin {
							next = append(next, nb.Target)
						} else {
							bins[destBin] = append(bins[destBin], nb.Target)
						}
					}
				}
			}
		}

		frontier = next
		nextBin, ok := findNextNonEmptyBin(bins, currentBin)
		if !ok {
			continue
		}
		currentBin = nextBin
		frontier = append(frontier, bins[currentBin]...)
		delete(bins, currentBin)
	}

	return distance, pred, predWeight
}

func findNextNonEmptyBin(bins map[int][]int64, after int) (int, bool) {
	best := -1
	for b, nodes := range bins {
		if b > after && len(nodes) > 0 && (best == -1 || b < best) {
			best = b
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}
