// Package pathfinding implements the weighted shortest-paths family
// (spec §4.4.1): Dijkstra, A*, and Yens share one computation runtime
// built around a pure Dijkstra kernel that only knows a neighbor
// function, never the store — the storage runtime in storage.go is the
// only part of this package that touches a *view.View.
package pathfinding

import (
	"container/heap"
	"math"

	"github.com/orneryd/gds/pkg/concurrency"
	"github.com/orneryd/gds/pkg/gdserr"
)

// Neighbor is one outgoing edge as the kernel sees it: a target and its
// relationship weight.
type Neighbor struct {
	Target int64
	Weight float64
}

// NeighborFunc is the contract every kernel in this package depends on
// instead of a store (spec §4.4's "must accept a neighbor(node) ->
// sequence of (target, weight) function"). Implementations may return a
// freshly-allocated slice; the kernel never mutates or retains it past
// one call.
type NeighborFunc func(node int64) []Neighbor

// HeuristicFunc estimates remaining cost from node to the A* target; it
// must be admissible (not enforced here, per spec §4.4.1).
type HeuristicFunc func(node int64) float64

// PathResult is one discovered shortest path.
type PathResult struct {
	Target int64
	Cost   float64
	Path   []int64 // nil unless path tracking is enabled
}

type heapEntry struct {
	dist float64
	node int64
}

type priorityQueue []heapEntry

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].node < pq[j].node // spec: tie-break on smaller target id first
}
func (pq priorityQueue) Swap(i, j int)      { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x any)        { *pq = append(*pq, x.(heapEntry)) }
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// dijkstraCore runs single-source Dijkstra (optionally A*-biased via h)
// from source over neighbors, stopping early once every id in targets has
// been popped from the frontier (or running to exhaustion if targets is
// empty). trackPath enables predecessor recording and path
// reconstruction. Negative or non-finite edge weights are skipped during
// relaxation per spec §4.4.1.
func dijkstraCore(nodeCount, source int64, targets []int64, neighbors NeighborFunc, h HeuristicFunc, trackPath bool, term *concurrency.TerminationFlag) ([]PathResult, error) {
	if source < 0 || source >= nodeCount {
		return nil, gdserr.OutOfRange("source %d outside [0,%d)", source, nodeCount)
	}

	dist := concurrency.NewHugeDoubleArray(nodeCount, math.Inf(1))
	dist.Set(source, 0)

	var pred *concurrency.HugeLongArray
	if trackPath {
		pred = concurrency.NewHugeLongArray(nodeCount, -1)
	}

	wanted := make(map[int64]bool, len(targets))
	for _, t := range targets {
		wanted[t] = true
	}

	visited := make([]bool, nodeCount)
	pq := &priorityQueue{{dist: 0, node: source}}
	heap.Init(pq)

	var reached []int64
	popCount := int64(0)

	for pq.Len() > 0 {
		popCount++
		if term != nil && concurrency.CheckInterval(popCount) && term.IsStopped() {
			return nil, gdserr.Terminated
		}

		entry := heap.Pop(pq).(heapEntry)
		u := entry.node
		if visited[u] {
			continue
		}
		visited[u] = true
		reached = append(reached, u)

		if len(wanted) > 0 {
			delete(wanted, u)
			if len(wanted) == 0 {
				break
			}
		}

		for _, nb := range neighbors(u) {
			if nb.Weight < 0 || math.IsNaN(nb.Weight) || math.IsInf(nb.Weight, 0) {
				continue
			}
			if visited[nb.Target] {
				continue
			}
			nd := dist.Get(u) + nb.Weight
			if nd < dist.Get(nb.Target) {
				dist.Set(nb.Target, nd)
				if trackPath {
					pred.Set(nb.Target, u)
				}
				priority := nd
				if h != nil {
					priority = nd + h(nb.Target)
				}
				heap.Push(pq, heapEntry{dist: priority, node: nb.Target})
			}
		}
	}

	selected := targets
	if len(selected) == 0 {
		selected = reached
	}

	results := make([]PathResult, 0, len(selected))
	for _, target := range selected {
		if target == source {
			results = append(results, PathResult{Target: target, Cost: 0, Path: pathIfTracked(trackPath, []int64{source})})
			continue
		}
		if target < 0 || target >= nodeCount || math.IsInf(dist.Get(target), 1) {
			continue
		}
		var path []int64
		if trackPath {
			path = reconstructPath(pred, source, target)
		}
		results = append(results, PathResult{Target: target, Cost: dist.Get(target), Path: path})
	}
	return results, nil
}

func pathIfTracked(trackPath bool, path []int64) []int64 {
	if !trackPath {
		return nil
	}
	return path
}

func reconstructPath(pred *concurrency.HugeLongArray, source, target int64) []int64 {
	var rev []int64
	cur := target
	for cur != source {
		rev = append(rev, cur)
		cur = pred.Get(cur)
		if cur == -1 {
			return nil
		}
	}
	rev = append(rev, source)
	path := make([]int64, len(rev))
	for i, n := range rev {
		path[len(rev)-1-i] = n
	}
	return path
}

// Dijkstra runs the unbiased kernel (h == nil).
func Dijkstra(nodeCount, source int64, targets []int64, neighbors NeighborFunc, trackPath bool, term *concurrency.TerminationFlag) ([]PathResult, error) {
	return dijkstraCore(nodeCount, source, targets, neighbors, nil, trackPath, term)
}

// AStar runs the heuristic-biased kernel (spec §4.4.1's "Dijkstra with
// f(v) = dist[v] + h(v, target)").
func AStar(nodeCount, source int64, targets []int64, neighbors NeighborFunc, h HeuristicFunc, trackPath bool, term *concurrency.TerminationFlag) ([]PathResult, error) {
	return dijkstraCore(nodeCount, source, targets, neighbors, h, trackPath, term)
}
