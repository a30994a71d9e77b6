package pathfinding

import (
	"sort"

	"github.com/orneryd/gds/pkg/concurrency"
	"github.com/orneryd/gds/pkg/gdserr"
)

// candidatePath is one entry in Yens' candidate list, which is re-sorted
// by total cost each round so the cheapest candidate is taken first.
type candidatePath struct {
	path []int64
	cost float64
}

func pathKey(path []int64) string {
	b := make([]byte, 0, len(path)*8)
	for _, n := range path {
		b = append(b, byte(n), byte(n>>8), byte(n>>16), byte(n>>24), byte(n>>32), byte(n>>40), byte(n>>48), byte(n>>56))
	}
	return string(b)
}

func pathCost(path []int64, neighbors NeighborFunc) (float64, bool) {
	var total float64
	for i := 0; i+1 < len(path); i++ {
		found := false
		for _, nb := range neighbors(path[i]) {
			if nb.Target == path[i+1] {
				total += nb.Weight
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	return total, true
}

// filteredNeighbors wraps base, hiding edges whose source is in
// blockedEdgesFrom[u] pointing to blockedEdgesFrom[u][target], and hiding
// every neighbor of a node in blockedNodes entirely (spec §4.4.1's "forbids
// edges whose endpoints appear in the root path prefix, except s").
func filteredNeighbors(base NeighborFunc, blockedNodes map[int64]bool, blockedEdgesFrom map[int64]map[int64]bool) NeighborFunc {
	return func(node int64) []Neighbor {
		if blockedNodes[node] {
			return nil
		}
		all := base(node)
		blocked := blockedEdgesFrom[node]
		if len(blocked) == 0 {
			return all
		}
		out := make([]Neighbor, 0, len(all))
		for _, nb := range all {
			if blocked[nb.Target] {
				continue
			}
			out = append(out, nb)
		}
		return out
	}
}

// Yens computes up to k loopless shortest paths from source to target
// (spec §4.4.1). Paths are returned in non-decreasing cost order;
// duplicates that arise from the candidate search are skipped.
func Yens(nodeCount, source, target int64, k int, neighbors NeighborFunc, term *concurrency.TerminationFlag) ([]PathResult, error) {
	if k <= 0 {
		return nil, gdserr.InvalidParameter("k must be positive, got %d", k)
	}

	first, err := Dijkstra(nodeCount, source, []int64{target}, neighbors, true, term)
	if err != nil {
		return nil, err
	}
	if len(first) == 0 || first[0].Path == nil {
		return nil, nil
	}

	accepted := []PathResult{first[0]}
	seen := map[string]bool{pathKey(first[0].Path): true}
	var candidates []candidatePath

	for len(accepted) < k {
		prev := accepted[len(accepted)-1].Path

		for j := 0; j < len(prev)-1; j++ {
			spur := prev[j]
			rootPath := append([]int64{}, prev[:j+1]...)

			blockedNodes := make(map[int64]bool, len(rootPath))
			for _, n := range rootPath[:len(rootPath)-1] {
				blockedNodes[n] = true
			}

			blockedEdges := map[int64]map[int64]bool{spur: {}}
			for _, p := range accepted {
				if p.Path == nil || len(p.Path) <= j || !equalPrefix(p.Path, rootPath) {
					continue
				}
				blockedEdges[spur][p.Path[j+1]] = true
			}

			spurNeighbors := filteredNeighbors(neighbors, blockedNodes, blockedEdges)
			spurResult, err := Dijkstra(nodeCount, spur, []int64{target}, spurNeighbors, true, term)
			if err != nil {
				return nil, err
			}
			if len(spurResult) == 0 || spurResult[0].Path == nil {
				continue
			}

			totalPath := append(append([]int64{}, rootPath[:len(rootPath)-1]...), spurResult[0].Path...)
			if seen[pathKey(totalPath)] {
				continue
			}
			cost, ok := pathCost(totalPath, neighbors)
			if !ok {
				continue
			}
			candidates = append(candidates, candidatePath{path: totalPath, cost: cost})
		}

		if len(candidates) == 0 {
			break
		}

		sort.SliceStable(candidates, func(a, b int) bool { return candidates[a].cost < candidates[b].cost })
		next := candidates[0]
		candidates = candidates[1:]
		if seen[pathKey(next.path)] {
			continue
		}
		seen[pathKey(next.path)] = true
		accepted = append(accepted, PathResult{Target: target, Cost: next.cost, Path: next.path})
	}

	return accepted, nil
}

func equalPrefix(path, prefix []int64) bool {
	if len(path) < len(prefix) {
		return false
	}
	for i, n := range prefix {
		if path[i] != n {
			return false
		}
	}
	return true
}
