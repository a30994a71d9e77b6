// Package steiner implements an approximate minimum Steiner tree via
// repeated multi-source delta-stepping (spec §4.4.6). Like its siblings,
// the kernel depends only on a neighbor function and pkg/concurrency;
// storage.go is the sole pkg/store/view importer.
package steiner

import (
	"math"

	"github.com/orneryd/gds/pkg/algo/pathfinding"
	"github.com/orneryd/gds/pkg/concurrency"
	"github.com/orneryd/gds/pkg/gdserr"
)

// noParent marks a tree member with no parent edge (the source/root).
// pruned marks a node that is not (or no longer) part of the tree.
const (
	noParent int64 = -1
	pruned   int64 = -2
)

// Config parameterizes one Compute call.
type Config struct {
	Source         int64
	Terminals      []int64
	Delta          float64
	ApplyRerouting bool // declared for parity; the rerouting pass is a later optimization (spec §4.4.6)
}

// Result is one Steiner-tree run's outcome: a forest encoded as a parent
// pointer per node (pruned or noParent or a valid node id) plus the edge
// cost to that parent.
type Result struct {
	ParentArray             []int64
	ParentCost              []float64
	TotalCost               float64
	EffectiveNodeCount      int64
	EffectiveTargetCount    int64
}

// Compute grows a Steiner tree from source by repeatedly connecting the
// closest remaining terminal (spec §4.4.6).
func Compute(nodeCount int64, cfg Config, neighbors pathfinding.NeighborFunc, term *concurrency.TerminationFlag) (Result, error) {
	if nodeCount == 0 {
		return Result{}, nil
	}
	if cfg.Delta <= 0 {
		return Result{}, gdserr.InvalidParameter("delta must be > 0, got %f", cfg.Delta)
	}
	if cfg.Source < 0 || cfg.Source >= nodeCount {
		return Result{}, gdserr.OutOfRange("source %d outside [0,%d)", cfg.Source, nodeCount)
	}
	if len(cfg.Terminals) == 0 {
		return Result{}, gdserr.InvalidGraph("target_nodes must not be empty")
	}

	isTerminal := make([]bool, nodeCount)
	seen := make(map[int64]bool, len(cfg.Terminals))
	var remaining []int64
	for _, t := range cfg.Terminals {
		if t < 0 || t >= nodeCount {
			return Result{}, gdserr.OutOfRange("target_nodes contains out-of-bounds node %d", t)
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		isTerminal[t] = true
		if t != cfg.Source {
			remaining = append(remaining, t)
		}
	}

	tree := newComputation(nodeCount)
	tree.initializeTree(cfg.Source)

	mergedToSource := make([]bool, nodeCount)
	mergedToSource[cfg.Source] = true

	step := int64(0)
	for len(remaining) > 0 {
		step++
		if term != nil && concurrency.CheckInterval(step) && term.IsStopped() {
			return Result{}, gdserr.Terminated
		}

		tree.runMultiSourceDeltaStepping(mergedToSource, cfg.Delta, neighbors)

		bestIdx := -1
		bestDist := math.Inf(1)
		for i, t := range remaining {
			d := tree.distance[t]
			if d < bestDist {
				bestDist = d
				bestIdx = i
			}
		}
		if bestIdx < 0 || math.IsInf(bestDist, 1) {
			break // no reachable remaining terminal
		}

		chosen := remaining[bestIdx]
		remaining[bestIdx] = remaining[len(remaining)-1]
		remaining = remaining[:len(remaining)-1]
		tree.mergePathIntoTree(chosen, mergedToSource)
	}

	tree.pruneNonTerminalLeaves(isTerminal, cfg.Source)

	var totalCost float64
	var effectiveNodeCount, effectiveTargetCount int64
	for node := int64(0); node < nodeCount; node++ {
		p := tree.parentArray[node]
		if p == pruned {
			continue
		}
		effectiveNodeCount++
		if isTerminal[node] {
			effectiveTargetCount++
		}
		if p >= 0 {
			totalCost += tree.parentCost[node]
		}
	}

	return Result{
		ParentArray:          tree.parentArray,
		ParentCost:           tree.parentCost,
		TotalCost:            totalCost,
		EffectiveNodeCount:   effectiveNodeCount,
		EffectiveTargetCount: effectiveTargetCount,
	}, nil
}

// computation holds the mutable state reused across every delta-stepping
// search plus the final tree being assembled. It is unexported: the
// public surface is Compute and Result.
type computation struct {
	nodeCount   int64
	distance    []float64
	pred        []int64
	predWeight  []float64
	parentArray []int64
	parentCost  []float64
}

func newComputation(nodeCount int64) *computation {
	c := &computation{
		nodeCount:   nodeCount,
		parentArray: make([]int64, nodeCount),
		parentCost:  make([]float64, nodeCount),
	}
	for i := range c.parentArray {
		c.parentArray[i] = pruned
	}
	return c
}

func (c *computation) initializeTree(source int64) {
	c.parentArray[source] = noParent
	c.parentCost[source] = 0
}

// runMultiSourceDeltaStepping re-runs the shared delta-stepping spanning
// tree search (pkg/algo/pathfinding.MultiSourceDeltaStepping) from the
// tree's current merged node set, refreshing c.distance/pred/predWeight
// with the result (spec §4.4.6).
func (c *computation) runMultiSourceDeltaStepping(mergedToSource []bool, delta float64, neighbors pathfinding.NeighborFunc) {
	c.distance, c.pred, c.predWeight = pathfinding.MultiSourceDeltaStepping(c.nodeCount, mergedToSource, delta, neighbors)
}

// mergePathIntoTree walks chosen's search-predecessor chain back to the
// first already-merged node, adding every intermediate node (and edge
// cost) to the final tree.
func (c *computation) mergePathIntoTree(chosen int64, mergedToSource []bool) {
	node := chosen
	for !mergedToSource[node] {
		p := c.pred[node]
		if p < 0 {
			break
		}
		c.parentArray[node] = p
		c.parentCost[node] = c.predWeight[node]
		mergedToSource[node] = true
		node = p
	}
}

// pruneNonTerminalLeaves iteratively removes non-terminal leaves from the
// tree until every remaining leaf is either the source or a terminal
// (spec §4.4.6).
func (c *computation) pruneNonTerminalLeaves(isTerminal []bool, source int64) {
	for {
		childCount := make([]int64, c.nodeCount)
		for node := int64(0); node < c.nodeCount; node++ {
			p := c.parentArray[node]
			if p >= 0 {
				childCount[p]++
			}
		}

		changed := false
		for node := int64(0); node < c.nodeCount; node++ {
			if c.parentArray[node] == pruned {
				continue
			}
			if node == source || isTerminal[node] {
				continue
			}
			if childCount[node] == 0 {
				c.parentArray[node] = pruned
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}
