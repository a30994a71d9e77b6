// Package wcc implements weakly connected components (spec §4.4.3) on top
// of pkg/concurrency's wait-free DisjointSet. As with pkg/algo/pathfinding
// and pkg/algo/traverse, the kernel here depends only on a NeighborFunc
// and pkg/concurrency primitives; storage.go is the sole pkg/store/view
// importer.
package wcc

import (
	"context"
	"math/rand"

	"github.com/orneryd/gds/pkg/concurrency"
	"github.com/orneryd/gds/pkg/gdserr"
)

// NeighborRounds bounds the sampled strategy's first pass: each node
// unions with at most this many of its neighbors before the largest
// component is estimated (spec §4.4.3).
const NeighborRounds = 2

// SamplingSize is the number of random probes used to estimate the
// largest component (spec §4.4.3).
const SamplingSize = 1024

// Neighbor is one outgoing edge as the kernel sees it.
type Neighbor struct {
	Target int64
	Weight float64
}

// NeighborFunc returns node's neighbors (forward or inverse, depending on
// which the caller passes).
type NeighborFunc func(node int64) []Neighbor

// Config parameterizes one Compute call.
type Config struct {
	Concurrency int
	// Sampled selects the sampled strategy (for undirected or
	// inverse-indexed graphs); false runs the single-pass unsampled
	// strategy (spec §4.4.3).
	Sampled bool
	// Threshold, if non-nil, filters edges to property > *Threshold.
	Threshold *float64
	// HasInverse enables the sampled strategy's second pass to also union
	// every node's inverse edges (directed graphs with an inverse index).
	HasInverse bool
}

// Compute runs WCC over [0, nodeCount) and returns the resulting
// disjoint-set. inverseNeighbors may be nil when cfg.HasInverse is false.
func Compute(ctx context.Context, nodeCount int64, neighbors, inverseNeighbors NeighborFunc, cfg Config, term *concurrency.TerminationFlag) (*concurrency.DisjointSet, error) {
	dss := concurrency.NewDisjointSet(nodeCount)
	if nodeCount == 0 {
		return dss, nil
	}

	if cfg.Sampled {
		if err := sampledStrategy(ctx, nodeCount, neighbors, inverseNeighbors, dss, cfg, term); err != nil {
			return nil, err
		}
	} else {
		if err := unsampledStrategy(ctx, nodeCount, neighbors, dss, cfg, term); err != nil {
			return nil, err
		}
	}
	return dss, nil
}

func passesThreshold(threshold *float64, weight float64) bool {
	return threshold == nil || weight > *threshold
}

func sampledStrategy(ctx context.Context, nodeCount int64, neighbors, inverseNeighbors NeighborFunc, dss *concurrency.DisjointSet, cfg Config, term *concurrency.TerminationFlag) error {
	_, err := concurrency.ParallelRangeFold(ctx, term, cfg.Concurrency, nodeCount, struct{}{},
		func(ctx context.Context, p concurrency.Partition) (struct{}, error) {
			for node := p.Start; node < p.End(); node++ {
				if term != nil && concurrency.CheckInterval(node+1) && term.IsStopped() {
					return struct{}{}, gdserr.Terminated
				}
				remaining := NeighborRounds
				for _, nb := range neighbors(node) {
					if remaining == 0 {
						break
					}
					if !passesThreshold(cfg.Threshold, nb.Weight) {
						continue
					}
					dss.Union(node, nb.Target)
					remaining--
				}
			}
			return struct{}{}, nil
		},
		func(acc, _ struct{}) struct{} { return acc },
	)
	if err != nil {
		return err
	}

	largest := findLargestComponent(nodeCount, dss)

	_, err = concurrency.ParallelRangeFold(ctx, term, cfg.Concurrency, nodeCount, struct{}{},
		func(ctx context.Context, p concurrency.Partition) (struct{}, error) {
			for node := p.Start; node < p.End(); node++ {
				if term != nil && concurrency.CheckInterval(node+1) && term.IsStopped() {
					return struct{}{}, gdserr.Terminated
				}
				if dss.Find(node) == largest {
					continue
				}
				for _, nb := range neighbors(node) {
					if !passesThreshold(cfg.Threshold, nb.Weight) {
						continue
					}
					dss.Union(node, nb.Target)
				}
				if cfg.HasInverse && inverseNeighbors != nil {
					for _, nb := range inverseNeighbors(node) {
						if !passesThreshold(cfg.Threshold, nb.Weight) {
							continue
						}
						dss.Union(node, nb.Target)
					}
				}
			}
			return struct{}{}, nil
		},
		func(acc, _ struct{}) struct{} { return acc },
	)
	return err
}

func unsampledStrategy(ctx context.Context, nodeCount int64, neighbors NeighborFunc, dss *concurrency.DisjointSet, cfg Config, term *concurrency.TerminationFlag) error {
	_, err := concurrency.ParallelRangeFold(ctx, term, cfg.Concurrency, nodeCount, struct{}{},
		func(ctx context.Context, p concurrency.Partition) (struct{}, error) {
			for node := p.Start; node < p.End(); node++ {
				if term != nil && concurrency.CheckInterval(node+1) && term.IsStopped() {
					return struct{}{}, gdserr.Terminated
				}
				for _, nb := range neighbors(node) {
					if !passesThreshold(cfg.Threshold, nb.Weight) {
						continue
					}
					dss.Union(node, nb.Target)
				}
			}
			return struct{}{}, nil
		},
		func(acc, _ struct{}) struct{} { return acc },
	)
	return err
}

// findLargestComponent estimates the largest component by sampling
// SamplingSize random nodes and picking the most-frequent root, ties
// broken by smaller root id (spec §4.4.3). The sampler is seeded from
// nodeCount so repeated runs over the same graph size are reproducible.
func findLargestComponent(nodeCount int64, dss *concurrency.DisjointSet) int64 {
	rng := rand.New(rand.NewSource(nodeCount))
	samples := int64(SamplingSize)
	if samples > nodeCount {
		samples = nodeCount
	}

	// Roots returned by dss.Find are themselves node ids in [0,
	// nodeCount), so a flat array indexed by root id counts them
	// directly — no map needed.
	counts := concurrency.NewHugeAtomicLongArray(nodeCount)
	for i := int64(0); i < samples; i++ {
		node := rng.Int63n(nodeCount)
		counts.Add(dss.Find(node), 1)
	}

	var bestRoot, bestCount int64
	first := true
	for root := int64(0); root < nodeCount; root++ {
		count := counts.Get(root)
		if count == 0 {
			continue
		}
		if first || count > bestCount || (count == bestCount && root < bestRoot) {
			bestRoot, bestCount, first = root, count, false
		}
	}
	return bestRoot
}
