// Package traverse implements unweighted graph traversal (spec §4.4.2):
// level-synchronous BFS and explicit-stack DFS. As in pkg/algo/pathfinding,
// the kernels here depend only on a NeighborFunc, never on a store —
// storage.go is the only file that imports pkg/store/view.
package traverse

import (
	"github.com/orneryd/gds/pkg/concurrency"
	"github.com/orneryd/gds/pkg/gdserr"
)

// NeighborFunc returns node's unweighted out-neighbors.
type NeighborFunc func(node int64) []int64

// VisitResult is one discovered node: its distance/depth from source and,
// if path tracking is enabled, the full path from source.
type VisitResult struct {
	Target int64
	Depth  int
	Path   []int64 // nil unless path tracking is enabled
}

// Stats is the aggregate block both BFS and DFS report (spec §4.4.2).
// BacktrackOperations and AvgBranchDepth are DFS-specific and left zero
// by BFS.
type Stats struct {
	NodesVisited        int64
	MaxDepthReached     int
	BacktrackOperations int64
	AvgBranchDepth      float64
}

const unbounded = -1

// BFS runs level-synchronous breadth-first search from source, optionally
// bounded by maxDepth (unbounded when maxDepth < 0). trackPath enables
// predecessor recording and path reconstruction.
func BFS(nodeCount, source int64, maxDepth int, neighbors NeighborFunc, trackPath bool, term *concurrency.TerminationFlag) ([]VisitResult, Stats, error) {
	if source < 0 || source >= nodeCount {
		return nil, Stats{}, gdserr.OutOfRange("source %d outside [0,%d)", source, nodeCount)
	}

	visited := concurrency.NewHugeAtomicBitSet(nodeCount)
	depth := make([]int, nodeCount)
	var pred []int64
	if trackPath {
		pred = make([]int64, nodeCount)
		for i := range pred {
			pred[i] = -1
		}
	}

	visited.TrySet(source)
	frontier := []int64{source}
	var results []VisitResult
	results = append(results, VisitResult{Target: source, Depth: 0, Path: pathIfTracked(trackPath, []int64{source})})

	stats := Stats{NodesVisited: 1, MaxDepthReached: 0}
	processed := int64(0)

	for len(frontier) > 0 {
		if maxDepth >= 0 && depth[frontier[0]] >= maxDepth {
			break
		}
		var next []int64
		for _, u := range frontier {
			processed++
			if term != nil && concurrency.CheckInterval(processed) && term.IsStopped() {
				return nil, Stats{}, gdserr.Terminated
			}
			for _, n := range neighbors(u) {
				if !visited.TrySet(n) {
					continue
				}
				depth[n] = depth[u] + 1
				if trackPath {
					pred[n] = u
				}
				if depth[n] > stats.MaxDepthReached {
					stats.MaxDepthReached = depth[n]
				}
				stats.NodesVisited++
				var path []int64
				if trackPath {
					path = reconstructPath(pred, source, n)
				}
				results = append(results, VisitResult{Target: n, Depth: depth[n], Path: path})
				next = append(next, n)
			}
		}
		frontier = next
	}

	return results, stats, nil
}

// DFS runs explicit-stack depth-first search from source, optionally
// bounded by maxDepth. Returns the same VisitResult shape as BFS plus a
// stats block including back-track counting and average branch depth
// (spec §4.4.2).
func DFS(nodeCount, source int64, maxDepth int, neighbors NeighborFunc, trackPath bool, term *concurrency.TerminationFlag) ([]VisitResult, Stats, error) {
	if source < 0 || source >= nodeCount {
		return nil, Stats{}, gdserr.OutOfRange("source %d outside [0,%d)", source, nodeCount)
	}

	type frame struct {
		node  int64
		depth int
	}

	visited := concurrency.NewHugeAtomicBitSet(nodeCount)
	var pred []int64
	if trackPath {
		pred = make([]int64, nodeCount)
		for i := range pred {
			pred[i] = -1
		}
	}

	visited.TrySet(source)
	stack := []frame{{node: source, depth: 0}}
	var results []VisitResult
	results = append(results, VisitResult{Target: source, Depth: 0, Path: pathIfTracked(trackPath, []int64{source})})

	stats := Stats{NodesVisited: 1}
	var branchDepthSum, branchCount, backtrackOps int64
	processed := int64(0)

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		processed++
		if term != nil && concurrency.CheckInterval(processed) && term.IsStopped() {
			return nil, Stats{}, gdserr.Terminated
		}

		pushed := false
		if maxDepth < 0 || top.depth < maxDepth {
			for _, n := range neighbors(top.node) {
				if !visited.TrySet(n) {
					continue
				}
				if trackPath {
					pred[n] = top.node
				}
				d := top.depth + 1
				if d > stats.MaxDepthReached {
					stats.MaxDepthReached = d
				}
				stats.NodesVisited++
				var path []int64
				if trackPath {
					path = reconstructPath(pred, source, n)
				}
				results = append(results, VisitResult{Target: n, Depth: d, Path: path})
				stack = append(stack, frame{node: n, depth: d})
				pushed = true
				break
			}
		}
		if !pushed {
			branchDepthSum += int64(top.depth)
			branchCount++
			backtrackOps++
			stack = stack[:len(stack)-1]
		}
	}

	stats.BacktrackOperations = backtrackOps
	if branchCount > 0 {
		stats.AvgBranchDepth = float64(branchDepthSum) / float64(branchCount)
	}
	return results, stats, nil
}

func pathIfTracked(trackPath bool, path []int64) []int64 {
	if !trackPath {
		return nil
	}
	return path
}

func reconstructPath(pred []int64, source, target int64) []int64 {
	var rev []int64
	cur := target
	for cur != source {
		rev = append(rev, cur)
		cur = pred[cur]
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
