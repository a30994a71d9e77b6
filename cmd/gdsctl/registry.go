package main

import (
	"github.com/orneryd/gds/pkg/algo/kmeans"
	"github.com/orneryd/gds/pkg/algo/knn"
	"github.com/orneryd/gds/pkg/algo/node2vec"
	"github.com/orneryd/gds/pkg/algo/pathfinding"
	"github.com/orneryd/gds/pkg/algo/steiner"
	"github.com/orneryd/gds/pkg/algo/traverse"
	"github.com/orneryd/gds/pkg/algo/wcc"
	"github.com/orneryd/gds/pkg/core"
)

// buildRegistry wires every algorithm package's Spec into one
// core.Registry, the process-wide algorithm catalog every facade in this
// binary dispatches through.
func buildRegistry() *core.Registry {
	reg := core.NewRegistry()
	reg.Register(pathfinding.DijkstraSpec{})
	reg.Register(pathfinding.AStarSpec{})
	reg.Register(pathfinding.YensSpec{})
	reg.Register(traverse.BFSSpec{})
	reg.Register(traverse.DFSSpec{})
	reg.Register(wcc.Spec{})
	reg.Register(kmeans.Spec{})
	reg.Register(knn.Spec{})
	reg.Register(steiner.Spec{})
	reg.Register(node2vec.Spec{})
	return reg
}
