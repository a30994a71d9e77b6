// Package generator implements the deterministic Erdos-Renyi random graph
// generator (spec §6): given node/relationship-type counts and
// probabilities, it produces a reproducible store by seeding a PRNG once
// and deriving every edge and weight from it. Grounded on
// moolen-spectre's cmd/gendata (`rand.New(rand.NewSource(seed))` driving
// synthetic event generation) for the "one seeded rand.Rand threaded
// through every random choice" idiom.
package generator

import (
	"math/rand"

	"github.com/orneryd/gds/pkg/gdserr"
	"github.com/orneryd/gds/pkg/schema"
	"github.com/orneryd/gds/pkg/store"
	"github.com/orneryd/gds/pkg/store/idmap"
	"github.com/orneryd/gds/pkg/values"
)

// RelationshipSpec is one relationship type to generate edges for.
type RelationshipSpec struct {
	Type        string
	Probability float64
}

// Config parameterizes the generator (spec §6's exact field list).
type Config struct {
	NodeCount      int64
	NodeLabels     []string
	Relationships  []RelationshipSpec
	Directed       bool
	InverseIndexed bool
	Seed           int64
}

// Summary reports the generated store's aggregate shape alongside the
// store itself (spec §9 Open Question 1: random_score/edge_density are
// retained as contract).
type Summary struct {
	EdgeDensity map[string]float64 // relationship type -> realized density
}

func (c Config) validate() error {
	if c.NodeCount <= 0 {
		return gdserr.InvalidParameter("nodeCount must be positive, got %d", c.NodeCount)
	}
	if len(c.Relationships) == 0 {
		return gdserr.InvalidParameter("at least one relationship spec is required")
	}
	for _, r := range c.Relationships {
		if r.Type == "" {
			return gdserr.InvalidParameter("relationship spec has empty type")
		}
		if r.Probability < 0 || r.Probability > 1 {
			return gdserr.InvalidParameter("relationship %q probability %f outside [0,1]", r.Type, r.Probability)
		}
	}
	return nil
}

// Generate builds a store.GraphStore matching cfg, plus a Summary of its
// realized densities. The same seed always produces the same store.
func Generate(cfg Config) (*store.GraphStore, Summary, error) {
	if err := cfg.validate(); err != nil {
		return nil, Summary{}, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	interner := schema.NewInterner()
	sch := schema.New(interner)

	labels := make([]schema.Label, 0, len(cfg.NodeLabels))
	for _, name := range cfg.NodeLabels {
		labels = append(labels, sch.AddLabel(name, nil))
	}

	idBuilder := idmap.NewBuilder()
	for i := int64(0); i < cfg.NodeCount; i++ {
		if len(labels) == 0 {
			idBuilder.Add(i)
			continue
		}
		idBuilder.Add(i, labels[rng.Intn(len(labels))])
	}
	idMap := idBuilder.Build()

	direction := schema.Directed
	if !cfg.Directed {
		direction = schema.Undirected
	}

	topologies := make(map[uint64]*store.Topology, len(cfg.Relationships))
	relProperties := make(map[uint64]map[string]values.Column, len(cfg.Relationships))
	densities := make(map[string]float64, len(cfg.Relationships))

	for _, r := range cfg.Relationships {
		relType := sch.AddRelationshipType(r.Type, direction, map[string]values.ValueType{"weight": values.Double})

		tb := store.NewTopologyBuilder(relType, direction, cfg.NodeCount, cfg.InverseIndexed)
		var weights []float64
		var edgeCount int64

		for u := int64(0); u < cfg.NodeCount; u++ {
			start := int64(0)
			if direction == schema.Undirected {
				start = u + 1
			}
			for v := start; v < cfg.NodeCount; v++ {
				if v == u {
					continue
				}
				if rng.Float64() >= r.Probability {
					continue
				}
				tb.AddEdge(u, v)
				weights = append(weights, rng.Float64())
				edgeCount++
			}
		}

		topo, permutation, err := tb.BuildWithPermutation()
		if err != nil {
			return nil, Summary{}, err
		}
		topologies[relType.Hash()] = topo

		aligned := make([]float64, len(permutation))
		for flatIdx, originalIdx := range permutation {
			aligned[flatIdx] = weights[originalIdx]
		}
		relProperties[relType.Hash()] = map[string]values.Column{
			"weight": values.NewDoubleColumn(aligned),
		}

		possiblePairs := cfg.NodeCount * (cfg.NodeCount - 1)
		if direction == schema.Undirected {
			possiblePairs /= 2
		}
		if possiblePairs > 0 {
			densities[r.Type] = float64(edgeCount) / float64(possiblePairs)
		}
	}

	randomScore := make([]float64, cfg.NodeCount)
	for i := range randomScore {
		randomScore[i] = rng.Float64()
	}
	nodeProperties := map[string]values.Column{
		"randomScore": values.NewDoubleColumn(randomScore),
	}

	gs := store.New(idMap, sch, topologies, nodeProperties, relProperties)
	return gs, Summary{EdgeDensity: densities}, nil
}
