// Package store implements the graph store (§4.1): a compact columnar
// representation of nodes, relationships, labels, and typed properties,
// plus construction of filtered/oriented read-only views without copying
// topology.
//
// Stores are immutable once built. Mutation (AddNodeProperty) clones the
// store structurally — reusing
// existing columns and topologies by reference — and returns a new
// handle; existing views and store handles referring to the previous
// generation remain valid (spec §3.5, §3.6, §9 "shared graph state").
package store

import (
	"github.com/orneryd/gds/pkg/gdserr"
	"github.com/orneryd/gds/pkg/schema"
	"github.com/orneryd/gds/pkg/store/idmap"
	"github.com/orneryd/gds/pkg/values"
)

// GraphStore owns the entire graph and exposes the read contract every
// algorithm's storage runtime builds its view from.
type GraphStore struct {
	idMap  *idmap.IDMap
	schema *schema.Schema

	topologies map[uint64]*Topology // keyed by RelationshipType.Hash()

	nodeProperties         map[string]values.Column
	relationshipProperties map[uint64]map[string]values.Column // keyed by type hash, then property name
}

// New constructs a store from already-built components. Factories
// (columnar ingest, random generator, induced-subgraph projection) call
// this after assembling the id map, schema, topologies, and columns.
func New(idMap *idmap.IDMap, sch *schema.Schema, topologies map[uint64]*Topology, nodeProps map[string]values.Column, relProps map[uint64]map[string]values.Column) *GraphStore {
	if nodeProps == nil {
		nodeProps = make(map[string]values.Column)
	}
	if relProps == nil {
		relProps = make(map[uint64]map[string]values.Column)
	}
	return &GraphStore{
		idMap:                  idMap,
		schema:                 sch,
		topologies:             topologies,
		nodeProperties:         nodeProps,
		relationshipProperties: relProps,
	}
}

func (s *GraphStore) IDMap() *idmap.IDMap   { return s.idMap }
func (s *GraphStore) Schema() *schema.Schema { return s.schema }

func (s *GraphStore) NodeCount() int64 { return s.idMap.NodeCount() }

func (s *GraphStore) RelationshipCount() int64 {
	var total int64
	for _, t := range s.topologies {
		total += t.RelationshipCount()
	}
	return total
}

func (s *GraphStore) NodeLabels() []string         { return s.schema.NodeLabels() }
func (s *GraphStore) RelationshipTypes() []string  { return s.schema.RelationshipTypes() }
func (s *GraphStore) NodePropertyKeys() []string   { return s.schema.NodePropertyKeys() }

func (s *GraphStore) RelationshipPropertyKeys(typeName string) []string {
	return s.schema.RelationshipPropertyKeys(typeName)
}

// NodePropertyValues returns the named node-property column.
func (s *GraphStore) NodePropertyValues(key string) (values.Column, error) {
	col, ok := s.nodeProperties[key]
	if !ok {
		return nil, gdserr.InvalidGraph("node property %q not present in store", key)
	}
	return col, nil
}

// RelationshipPropertyValues returns the named property column for a
// relationship type, aligned to that type's forward-flattened order.
func (s *GraphStore) RelationshipPropertyValues(typeName, key string) (values.Column, error) {
	rt, ok := s.schema.RelationshipType(typeName)
	if !ok {
		return nil, gdserr.InvalidGraph("relationship type %q not present in store", typeName)
	}
	byKey, ok := s.relationshipProperties[rt.Type.Hash()]
	if !ok {
		return nil, gdserr.InvalidGraph("relationship type %q has no properties", typeName)
	}
	col, ok := byKey[key]
	if !ok {
		return nil, gdserr.InvalidGraph("relationship property %q not present on type %q", key, typeName)
	}
	return col, nil
}

// TopologyForType exposes the raw per-type topology to the view package.
// Not part of the algorithm-facing contract in spec §4.1 — views are the
// supported read surface — but required so pkg/store/view can build
// cursors without duplicating CSR layout knowledge.
func (s *GraphStore) TopologyForType(typeName string) (*Topology, error) {
	return s.topologyFor(typeName)
}

func (s *GraphStore) topologyFor(typeName string) (*Topology, error) {
	rt, ok := s.schema.RelationshipType(typeName)
	if !ok {
		return nil, gdserr.InvalidGraph("unknown relationship type %q", typeName)
	}
	t, ok := s.topologies[rt.Type.Hash()]
	if !ok {
		return nil, gdserr.InvalidGraph("relationship type %q has no topology", typeName)
	}
	return t, nil
}

// AddNodeProperty clones the store structurally with one additional (or
// replaced) node-property column. labels is currently advisory — the
// column must already cover the full node count per spec §3.5 — and is
// recorded in the cloned schema so NodePropertyKeys reflects it.
func (s *GraphStore) AddNodeProperty(labels []schema.Label, key string, column values.Column) (*GraphStore, error) {
	if column.Size() != int(s.NodeCount()) {
		return nil, gdserr.InvalidGraph("property %q has %d elements, store has %d nodes", key, column.Size(), s.NodeCount())
	}

	newProps := make(map[string]values.Column, len(s.nodeProperties)+1)
	for k, v := range s.nodeProperties {
		newProps[k] = v
	}
	newProps[key] = column

	newSchema := s.schema.Clone()
	if len(labels) == 0 {
		newSchema.AddLabel("*", map[string]values.ValueType{key: column.ValueType()})
	} else {
		for _, l := range labels {
			ls, ok := newSchema.Label(l.String())
			if !ok {
				newSchema.AddLabel(l.String(), map[string]values.ValueType{key: column.ValueType()})
				continue
			}
			ls.Properties[key] = column.ValueType()
		}
	}

	return &GraphStore{
		idMap:                  s.idMap,
		schema:                 newSchema,
		topologies:             s.topologies,
		nodeProperties:         newProps,
		relationshipProperties: s.relationshipProperties,
	}, nil
}
