// Package schema interns node labels and relationship types as hashed
// handles (§3.2) and records, per label, the node-property keys and value
// types it carries, and per relationship type, its direction and
// relationship-property keys/value types.
package schema

import (
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/orneryd/gds/pkg/values"
)

// Label is an interned node label. Value equality compares the hash, so
// two Labels are equal iff they were interned from the same string.
type Label struct {
	name string
	hash uint64
}

func (l Label) String() string { return l.name }
func (l Label) Hash() uint64   { return l.hash }

// RelationshipType is an interned relationship type.
type RelationshipType struct {
	name string
	hash uint64
}

func (t RelationshipType) String() string { return t.name }
func (t RelationshipType) Hash() uint64   { return t.hash }

// Direction of a relationship type's storage.
type Direction int

const (
	Directed Direction = iota
	Undirected
)

// Interner hands out Label/RelationshipType handles, hashing each distinct
// string exactly once with xxhash so label-set and type-set membership
// tests are integer comparisons instead of string comparisons on the hot
// path (view construction, per-edge relaxation in Dijkstra/WCC).
type Interner struct {
	mu     sync.Mutex
	labels map[string]Label
	types  map[string]RelationshipType
}

func NewInterner() *Interner {
	return &Interner{
		labels: make(map[string]Label),
		types:  make(map[string]RelationshipType),
	}
}

func (in *Interner) Label(name string) Label {
	in.mu.Lock()
	defer in.mu.Unlock()
	if l, ok := in.labels[name]; ok {
		return l
	}
	l := Label{name: name, hash: xxhash.Sum64String(name)}
	in.labels[name] = l
	return l
}

func (in *Interner) RelationshipType(name string) RelationshipType {
	in.mu.Lock()
	defer in.mu.Unlock()
	if t, ok := in.types[name]; ok {
		return t
	}
	t := RelationshipType{name: name, hash: xxhash.Sum64String(name)}
	in.types[name] = t
	return t
}

// LabelSchema records the property keys and value types carried by nodes
// bearing a given label.
type LabelSchema struct {
	Label      Label
	Properties map[string]values.ValueType
}

// RelationshipSchema records a relationship type's direction and the
// property keys/value types carried by its edges.
type RelationshipSchema struct {
	Type       RelationshipType
	Direction  Direction
	Properties map[string]values.ValueType
}

// Schema is the store-wide registry of label and relationship-type
// schemas, plus the union of node-property keys across all labels.
type Schema struct {
	interner      *Interner
	labels        map[uint64]*LabelSchema
	relationships map[uint64]*RelationshipSchema
}

func New(interner *Interner) *Schema {
	return &Schema{
		interner:      interner,
		labels:        make(map[uint64]*LabelSchema),
		relationships: make(map[uint64]*RelationshipSchema),
	}
}

func (s *Schema) Interner() *Interner { return s.interner }

// Clone returns a copy with new label/relationship maps holding new
// LabelSchema/RelationshipSchema objects with copied property maps (the
// interner and the interned handles are shared), so mutating the clone
// (adding a label, replacing a property key) never affects the original
// schema. Used by GraphStore.AddNodeProperty's
// clone-on-write mutation.
func (s *Schema) Clone() *Schema {
	clone := &Schema{
		interner:      s.interner,
		labels:        make(map[uint64]*LabelSchema, len(s.labels)),
		relationships: make(map[uint64]*RelationshipSchema, len(s.relationships)),
	}
	for k, v := range s.labels {
		propsCopy := make(map[string]values.ValueType, len(v.Properties))
		for pk, pv := range v.Properties {
			propsCopy[pk] = pv
		}
		clone.labels[k] = &LabelSchema{Label: v.Label, Properties: propsCopy}
	}
	for k, v := range s.relationships {
		propsCopy := make(map[string]values.ValueType, len(v.Properties))
		for pk, pv := range v.Properties {
			propsCopy[pk] = pv
		}
		clone.relationships[k] = &RelationshipSchema{Type: v.Type, Direction: v.Direction, Properties: propsCopy}
	}
	return clone
}

func (s *Schema) AddLabel(name string, properties map[string]values.ValueType) Label {
	l := s.interner.Label(name)
	s.labels[l.hash] = &LabelSchema{Label: l, Properties: properties}
	return l
}

func (s *Schema) AddRelationshipType(name string, dir Direction, properties map[string]values.ValueType) RelationshipType {
	t := s.interner.RelationshipType(name)
	s.relationships[t.hash] = &RelationshipSchema{Type: t, Direction: dir, Properties: properties}
	return t
}

func (s *Schema) Label(name string) (*LabelSchema, bool) {
	l, ok := s.labels[s.interner.Label(name).hash]
	return l, ok
}

func (s *Schema) RelationshipType(name string) (*RelationshipSchema, bool) {
	t, ok := s.relationships[s.interner.RelationshipType(name).hash]
	return t, ok
}

// NodeLabels returns every label name in the schema, sorted for
// deterministic iteration (catalog listings, test fixtures).
func (s *Schema) NodeLabels() []string {
	out := make([]string, 0, len(s.labels))
	for _, l := range s.labels {
		out = append(out, l.Label.name)
	}
	sort.Strings(out)
	return out
}

func (s *Schema) RelationshipTypes() []string {
	out := make([]string, 0, len(s.relationships))
	for _, t := range s.relationships {
		out = append(out, t.Type.name)
	}
	sort.Strings(out)
	return out
}

// NodePropertyKeys returns the union of property keys across every label
// in the schema.
func (s *Schema) NodePropertyKeys() []string {
	seen := make(map[string]struct{})
	for _, l := range s.labels {
		for k := range l.Properties {
			seen[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// RelationshipPropertyKeys returns the property keys recorded for a given
// relationship type, or nil if the type is unknown.
func (s *Schema) RelationshipPropertyKeys(typeName string) []string {
	rs, ok := s.RelationshipType(typeName)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(rs.Properties))
	for k := range rs.Properties {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
