// Package idmap owns the bidirectional mapping between caller-supplied
// original node ids and the dense internal ids used throughout the engine
// (§3.1), plus the per-label node membership sets used by view
// construction and by algorithms that scope a computation to a label.
package idmap

import (
	"github.com/RoaringBitmap/roaring"
	"github.com/orneryd/gds/pkg/gdserr"
	"github.com/orneryd/gds/pkg/schema"
)

// IDMap is immutable once built: original<->internal assignment happens
// once, at construction (factory ingest, generator, or induced-subgraph
// renumbering), never incrementally.
type IDMap struct {
	toInternal map[int64]int64
	toOriginal []int64
	// labelSets holds, for each label hash, the roaring bitmap of internal
	// ids bearing that label. Roaring bitmaps keep per-label membership
	// compact even for sparse label assignment over millions of nodes, and
	// give us O(1) Contains plus cheap set operations for combined-label
	// view filters.
	labelSets map[uint64]*roaring.Bitmap
	// nodeLabels is the forward index: internal id -> labels held.
	nodeLabels [][]schema.Label
}

// Builder accumulates (original id, labels) pairs before Build() fixes
// the internal numbering. Internal ids are assigned in the order nodes
// are added, matching the teacher's "insert order is id order" approach
// used by its in-memory storage engine.
type Builder struct {
	toInternal map[int64]int64
	toOriginal []int64
	nodeLabels [][]schema.Label
	labelSets  map[uint64]*roaring.Bitmap
}

func NewBuilder() *Builder {
	return &Builder{
		toInternal: make(map[int64]int64),
		labelSets:  make(map[uint64]*roaring.Bitmap),
	}
}

// Add assigns the next internal id to originalID, recording its labels.
// Adding the same originalID twice is a caller bug; it overwrites labels
// and does not allocate a second internal id.
func (b *Builder) Add(originalID int64, labels ...schema.Label) int64 {
	if internal, ok := b.toInternal[originalID]; ok {
		b.nodeLabels[internal] = labels
		b.reindexLabels(internal, labels)
		return internal
	}
	internal := int64(len(b.toOriginal))
	b.toInternal[originalID] = internal
	b.toOriginal = append(b.toOriginal, originalID)
	b.nodeLabels = append(b.nodeLabels, labels)
	b.reindexLabels(internal, labels)
	return internal
}

func (b *Builder) reindexLabels(internal int64, labels []schema.Label) {
	for _, l := range labels {
		bm, ok := b.labelSets[l.Hash()]
		if !ok {
			bm = roaring.New()
			b.labelSets[l.Hash()] = bm
		}
		bm.Add(uint32(internal))
	}
}

func (b *Builder) Build() *IDMap {
	return &IDMap{
		toInternal: b.toInternal,
		toOriginal: b.toOriginal,
		labelSets:  b.labelSets,
		nodeLabels: b.nodeLabels,
	}
}

func (m *IDMap) NodeCount() int64 { return int64(len(m.toOriginal)) }

// ToInternal looks up the internal id for an original id.
func (m *IDMap) ToInternal(originalID int64) (int64, bool) {
	id, ok := m.toInternal[originalID]
	return id, ok
}

// ToOriginal returns the original id for an internal id; panics-free out
// of range returns an error per §4.1 failure semantics.
func (m *IDMap) ToOriginal(internalID int64) (int64, error) {
	if internalID < 0 || internalID >= int64(len(m.toOriginal)) {
		return 0, gdserr.OutOfRange("internal id %d outside [0,%d)", internalID, len(m.toOriginal))
	}
	return m.toOriginal[internalID], nil
}

// Labels returns the labels recorded for an internal id.
func (m *IDMap) Labels(internalID int64) []schema.Label {
	if internalID < 0 || internalID >= int64(len(m.nodeLabels)) {
		return nil
	}
	return m.nodeLabels[internalID]
}

// HasLabel reports whether internalID bears the given label, via the
// roaring bitmap for that label.
func (m *IDMap) HasLabel(internalID int64, label schema.Label) bool {
	bm, ok := m.labelSets[label.Hash()]
	if !ok {
		return false
	}
	return bm.Contains(uint32(internalID))
}

// NodesForLabel returns the roaring bitmap of internal ids bearing label,
// or an empty bitmap if the label is unknown. The caller must not mutate
// the returned bitmap; clone it first if needed.
func (m *IDMap) NodesForLabel(label schema.Label) *roaring.Bitmap {
	if bm, ok := m.labelSets[label.Hash()]; ok {
		return bm
	}
	return roaring.New()
}

// Project builds a new, densely renumbered IDMap restricted to the given
// original ids, returning the new map and the old->new internal id
// mapping (spec §3.1's "fresh dense re-numbering").
func (m *IDMap) Project(originalIDs []int64) (*IDMap, map[int64]int64, error) {
	builder := NewBuilder()
	oldToNew := make(map[int64]int64, len(originalIDs))
	for _, orig := range originalIDs {
		oldInternal, ok := m.ToInternal(orig)
		if !ok {
			return nil, nil, gdserr.InvalidGraph("original id %d not present in store", orig)
		}
		newInternal := builder.Add(orig, m.Labels(oldInternal)...)
		oldToNew[oldInternal] = newInternal
	}
	return builder.Build(), oldToNew, nil
}
