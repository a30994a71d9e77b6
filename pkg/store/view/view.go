// Package view implements the read-only graph projection (§4.1) that
// algorithms actually compute against: a chosen subset of relationship
// types, an orientation, and an optional per-type weighted-property
// selector. Views never copy topology — they hold a reference to the
// store's per-type Topology and compute degree/iteration from it.
package view

import (
	"log/slog"
	"sort"

	"github.com/orneryd/gds/pkg/gdserr"
	"github.com/orneryd/gds/pkg/schema"
	"github.com/orneryd/gds/pkg/store"
)

// Orientation selects which side(s) of each relationship type's topology
// a view follows.
type Orientation int

const (
	Natural Orientation = iota
	Reverse
	UndirectedOrientation
)

// ParseOrientation maps the three recognized direction strings
// (spec §6, GLOSSARY). Per spec §9's open question, an unrecognized
// string is treated as Natural ("outgoing") rather than rejected — this
// permissive default is preserved for compatibility, but callers should
// check `recognized` and log/flag it, since it silently masks typos.
func ParseOrientation(direction string) (o Orientation, recognized bool) {
	switch direction {
	case "outgoing", "":
		return Natural, true
	case "incoming":
		return Reverse, true
	case "undirected":
		return UndirectedOrientation, true
	default:
		slog.Warn("unrecognized direction string, defaulting to outgoing", "direction", direction)
		return Natural, false
	}
}

// Characteristics summarizes what a view's underlying topologies support.
type Characteristics struct {
	Directed       bool
	InverseIndexed bool
}

// Cursor is a single-edge entry yielded by a relationship stream: the
// target node and its property value (or the caller-supplied fallback
// when the type carries no such property). Cursor is a value type by
// design — streaming must not allocate per edge.
type Cursor struct {
	Target   int64
	Property float64
}

// View is the read-only projection algorithms execute against.
type View struct {
	store       *store.GraphStore
	types       []schema.RelationshipType
	orientation Orientation
	// selectors maps relationship type hash -> property name, used by
	// StreamRelationshipsWeighted. Nil for unweighted views.
	selectors map[uint64]string

	nodeCount         int64
	relationshipCount int64
	characteristics   Characteristics
}

// New builds a view over the given relationship type names and
// orientation, with no weighted-property selector (GetGraphWithTypesAndOrientation).
func New(st *store.GraphStore, typeNames []string, orientation Orientation) (*View, error) {
	return build(st, typeNames, orientation, nil)
}

// NewWeighted builds a view with a per-type property selector
// (GetGraphWithTypesSelectorsAndOrientation); perTypeProperty maps
// relationship type name -> property name used by the weighted stream.
func NewWeighted(st *store.GraphStore, typeNames []string, perTypeProperty map[string]string, orientation Orientation) (*View, error) {
	return build(st, typeNames, orientation, perTypeProperty)
}

func build(st *store.GraphStore, typeNames []string, orientation Orientation, perTypeProperty map[string]string) (*View, error) {
	present := make(map[string]struct{})
	for _, n := range st.RelationshipTypes() {
		present[n] = struct{}{}
	}

	var types []schema.RelationshipType
	selectors := make(map[uint64]string)
	var relCount int64
	characteristics := Characteristics{Directed: true, InverseIndexed: true}

	for _, name := range typeNames {
		if _, ok := present[name]; !ok {
			return nil, gdserr.InvalidGraph("unknown relationship type %q", name)
		}
		rs, _ := st.Schema().RelationshipType(name)
		types = append(types, rs.Type)
		if rs.Direction == schema.Undirected {
			characteristics.Directed = false
		}

		topo, err := st.TopologyForType(name)
		if err != nil {
			return nil, err
		}
		if !topo.HasInverse() && rs.Direction != schema.Undirected {
			characteristics.InverseIndexed = false
		}
		relCount += topo.RelationshipCount()

		if perTypeProperty != nil {
			propName, ok := perTypeProperty[name]
			if !ok {
				continue
			}
			if _, err := st.RelationshipPropertyValues(name, propName); err != nil {
				return nil, gdserr.InvalidGraph("unknown property %q for type %q", propName, name)
			}
			selectors[rs.Type.Hash()] = propName
		}
	}

	sort.Slice(types, func(i, j int) bool { return types[i].String() < types[j].String() })

	return &View{
		store:             st,
		types:             types,
		orientation:       orientation,
		selectors:         selectors,
		nodeCount:         st.NodeCount(),
		relationshipCount: relCount,
		characteristics:   characteristics,
	}, nil
}

func (v *View) NodeCount() int64                    { return v.nodeCount }
func (v *View) RelationshipCount() int64            { return v.relationshipCount }
func (v *View) Characteristics() Characteristics    { return v.characteristics }
func (v *View) Store() *store.GraphStore            { return v.store }
func (v *View) Orientation() Orientation             { return v.orientation }

// Iter yields every internal node id in [0, nodeCount).
func (v *View) Iter(fn func(node int64) bool) {
	for i := int64(0); i < v.nodeCount; i++ {
		if !fn(i) {
			return
		}
	}
}

// Degree returns the out-degree of node under the view's orientation.
func (v *View) Degree(node int64) int {
	total := 0
	for _, t := range v.types {
		topo, err := v.store.TopologyForType(t.String())
		if err != nil {
			continue
		}
		switch v.orientation {
		case Natural:
			total += topo.Degree(node)
		case Reverse:
			total += v.reverseDegree(topo, node)
		case UndirectedOrientation:
			total += topo.Degree(node) + v.reverseDegree(topo, node)
		}
	}
	return total
}

func (v *View) reverseDegree(topo *store.Topology, node int64) int {
	if topo.HasInverse() {
		return topo.InDegree(node)
	}
	// No inverse index: fall back to a linear scan over all nodes' forward
	// adjacency. Correct but O(relationshipCount); callers that need
	// repeated reverse traversal should construct the store with an
	// inverse index instead.
	count := 0
	v.Iter(func(u int64) bool {
		targets, _ := topo.OutTargets(u)
		for _, t := range targets {
			if t == node {
				count++
			}
		}
		return true
	})
	return count
}

// StreamRelationships yields (target, property-or-fallback) for node's
// outgoing edges under Natural, outgoing then incoming edges under
// UndirectedOrientation, and nothing under Reverse. fallback is returned
// whenever the view has no property selector for the edge's type or the
// edge has no value for the selected property.
func (v *View) StreamRelationships(node int64, fallback float64, fn func(Cursor) bool) {
	for _, t := range v.types {
		topo, err := v.store.TopologyForType(t.String())
		if err != nil {
			continue
		}
		if v.orientation == Reverse {
			continue
		}
		targets, offset := topo.OutTargets(node)
		for k, target := range targets {
			prop := v.lookupProperty(t, offset+int64(k), fallback)
			if !fn(Cursor{Target: target, Property: prop}) {
				return
			}
		}
		if v.orientation == UndirectedOrientation {
			v.streamInverseOf(topo, t, node, fallback, fn)
		}
	}
}

// StreamInverseRelationships yields (source, property-or-fallback) for
// node's incoming edges under Reverse/UndirectedOrientation.
func (v *View) StreamInverseRelationships(node int64, fallback float64, fn func(Cursor) bool) {
	for _, t := range v.types {
		topo, err := v.store.TopologyForType(t.String())
		if err != nil {
			continue
		}
		if v.orientation == Natural {
			continue
		}
		if !v.streamInverseOf(topo, t, node, fallback, fn) {
			return
		}
		if v.orientation == UndirectedOrientation {
			targets, offset := topo.OutTargets(node)
			for k, target := range targets {
				prop := v.lookupProperty(t, offset+int64(k), fallback)
				if !fn(Cursor{Target: target, Property: prop}) {
					return
				}
			}
		}
	}
}

func (v *View) streamInverseOf(topo *store.Topology, t schema.RelationshipType, node int64, fallback float64, fn func(Cursor) bool) bool {
	if !topo.HasInverse() {
		return true
	}
	sources, forwardOffsets, err := topo.InSources(node)
	if err != nil {
		return true
	}
	for i, src := range sources {
		prop := v.lookupProperty(t, forwardOffsets[i], fallback)
		if !fn(Cursor{Target: src, Property: prop}) {
			return false
		}
	}
	return true
}

// StreamRelationshipsWeighted is the same stream as StreamRelationships;
// both read property values through the view's per-type selector.
func (v *View) StreamRelationshipsWeighted(node int64, fallback float64, fn func(Cursor) bool) {
	v.StreamRelationships(node, fallback, fn)
}

func (v *View) lookupProperty(t schema.RelationshipType, flatIdx int64, fallback float64) float64 {
	propName, ok := v.selectors[t.Hash()]
	if !ok {
		return fallback
	}
	col, err := v.store.RelationshipPropertyValues(t.String(), propName)
	if err != nil {
		return fallback
	}
	if !col.HasValue(int(flatIdx)) {
		return fallback
	}
	val, err := col.DoubleValue(int(flatIdx))
	if err != nil {
		if lv, lerr := col.LongValue(int(flatIdx)); lerr == nil {
			return float64(lv)
		}
		return fallback
	}
	return val
}

// ConcurrentCopy returns a structurally-shared copy safe to hand to a
// worker goroutine: the underlying store/types/selectors are read-only
// and shared, so this is effectively `v` itself — there is no per-worker
// mutable cursor state to clone because Cursor is a value type produced
// fresh per StreamRelationships call. Kept as an explicit method so
// callers mirror the spec's API and the cost of "handing out a view" is
// visible at call sites (partition workers call this once, not per edge).
func (v *View) ConcurrentCopy() *View { return v }
