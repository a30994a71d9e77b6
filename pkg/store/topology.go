package store

import (
	"github.com/orneryd/gds/pkg/gdserr"
	"github.com/orneryd/gds/pkg/schema"
)

// Topology holds one relationship type's adjacency, flattened into a
// compressed-sparse-row layout: outOffsets[u]..outOffsets[u+1] indexes
// into outTargets for node u's outgoing edges, in insertion order. When
// an inverse index is present, inOffsets/inTargets mirror the same shape
// for incoming edges, and inEdgeIndex[pos] records which forward-flattened
// slot each inverse slot corresponds to, so relationship-property lookups
// stay aligned to the single property array (spec §3.3/§3.4).
type Topology struct {
	Type      schema.RelationshipType
	Direction schema.Direction

	outOffsets []int64
	outTargets []int64

	hasInverse  bool
	inOffsets   []int64
	inTargets   []int64
	inEdgeIndex []int64
}

// TopologyBuilder accumulates edges for one relationship type in
// insertion order before Build() produces the flattened CSR form.
type TopologyBuilder struct {
	relType    schema.RelationshipType
	direction  schema.Direction
	nodeCount  int64
	withInverse bool

	sources []int64
	targets []int64
}

func NewTopologyBuilder(relType schema.RelationshipType, direction schema.Direction, nodeCount int64, withInverse bool) *TopologyBuilder {
	return &TopologyBuilder{relType: relType, direction: direction, nodeCount: nodeCount, withInverse: withInverse}
}

// AddEdge records a directed edge source->target in forward-flattened
// order. For an Undirected relationship type, callers add the edge once;
// Build() materializes the mirror automatically so each endpoint sees it
// as outgoing (spec §3.3 "undirected types store each edge twice").
func (b *TopologyBuilder) AddEdge(source, target int64) {
	b.sources = append(b.sources, source)
	b.targets = append(b.targets, target)
}

func (b *TopologyBuilder) Build() (*Topology, error) {
	t, _, err := b.BuildWithPermutation()
	return t, err
}

// BuildWithPermutation is Build plus the edge permutation: permutation[i]
// is the original AddEdge-order index of the edge now at flattened
// position i (doubled first, for Undirected types, per mirrorUndirected).
// Callers that built a relationship-property array in AddEdge order (the
// random graph generator's per-edge weights, for instance) use this to
// reorder that array to match the flattened topology before wrapping it
// in a values.Column.
func (b *TopologyBuilder) BuildWithPermutation() (*Topology, []int64, error) {
	n := b.nodeCount
	sources, targets := b.sources, b.targets
	originalOrder := make([]int64, len(sources))
	for i := range originalOrder {
		originalOrder[i] = int64(i)
	}

	if b.direction == schema.Undirected {
		sources, targets, originalOrder = mirrorUndirectedWithOrder(sources, targets, originalOrder)
	}

	outOffsets, outTargets, csrPermutation := buildCSR(n, sources, targets)

	permutation := make([]int64, len(csrPermutation))
	for i, p := range csrPermutation {
		permutation[i] = originalOrder[p]
	}

	t := &Topology{
		Type:       b.relType,
		Direction:  b.direction,
		outOffsets: outOffsets,
		outTargets: outTargets,
	}

	if b.withInverse {
		inOffsets, inTargets, inEdgeIndex := buildInverseCSR(n, sources, targets, csrPermutation)
		t.hasInverse = true
		t.inOffsets = inOffsets
		t.inTargets = inTargets
		t.inEdgeIndex = inEdgeIndex
	}

	return t, permutation, nil
}

// mirrorUndirected doubles every edge so each endpoint carries it as an
// outgoing edge; the caller-provided property array must already be
// aligned to this doubled order (one property value per original edge,
// duplicated to match), e.g. through the permutation BuildWithPermutation
// returns.
func mirrorUndirected(sources, targets []int64) ([]int64, []int64) {
	n := len(sources)
	outSources := make([]int64, 0, n*2)
	outTargets := make([]int64, 0, n*2)
	for i := 0; i < n; i++ {
		outSources = append(outSources, sources[i], targets[i])
		outTargets = append(outTargets, targets[i], sources[i])
	}
	return outSources, outTargets
}

// mirrorUndirectedWithOrder is mirrorUndirected plus the parallel
// original-edge-index array, doubled the same way, so a caller-supplied
// property array indexed by original edge order stays aligned after
// mirroring.
func mirrorUndirectedWithOrder(sources, targets, originalOrder []int64) (outSources, outTargets, outOrder []int64) {
	n := len(sources)
	outSources = make([]int64, 0, n*2)
	outTargets = make([]int64, 0, n*2)
	outOrder = make([]int64, 0, n*2)
	for i := 0; i < n; i++ {
		outSources = append(outSources, sources[i], targets[i])
		outTargets = append(outTargets, targets[i], sources[i])
		outOrder = append(outOrder, originalOrder[i], originalOrder[i])
	}
	return outSources, outTargets, outOrder
}

// buildCSR groups (source,target) pairs by source into offset/targets
// arrays. It returns permutation[i] = original edge index that ended up
// at flattened position i, so relationship-property columns supplied in
// original edge order can be reordered to match.
func buildCSR(nodeCount int64, sources, targets []int64) (offsets []int64, flatTargets []int64, permutation []int64) {
	degree := make([]int64, nodeCount+1)
	for _, s := range sources {
		degree[s+1]++
	}
	for i := int64(1); i <= nodeCount; i++ {
		degree[i] += degree[i-1]
	}
	offsets = degree

	cursor := make([]int64, nodeCount)
	copy(cursor, offsets[:nodeCount])

	flatTargets = make([]int64, len(sources))
	permutation = make([]int64, len(sources))
	for i, s := range sources {
		pos := cursor[s]
		cursor[s]++
		flatTargets[pos] = targets[i]
		permutation[pos] = int64(i)
	}
	return offsets, flatTargets, permutation
}

// buildInverseCSR builds the incoming adjacency, and for each inverse
// slot records which forward-flattened index carries its property value.
func buildInverseCSR(nodeCount int64, sources, targets []int64, forwardPermutation []int64) (offsets []int64, flatSources []int64, edgeIndex []int64) {
	// forwardPosOfOriginal[originalEdgeIdx] = forward-flattened position
	forwardPosOfOriginal := make([]int64, len(forwardPermutation))
	for pos, orig := range forwardPermutation {
		forwardPosOfOriginal[orig] = int64(pos)
	}

	degree := make([]int64, nodeCount+1)
	for _, t := range targets {
		degree[t+1]++
	}
	for i := int64(1); i <= nodeCount; i++ {
		degree[i] += degree[i-1]
	}
	offsets = degree

	cursor := make([]int64, nodeCount)
	copy(cursor, offsets[:nodeCount])

	flatSources = make([]int64, len(sources))
	edgeIndex = make([]int64, len(sources))
	for i := range sources {
		t := targets[i]
		pos := cursor[t]
		cursor[t]++
		flatSources[pos] = sources[i]
		edgeIndex[pos] = forwardPosOfOriginal[i]
	}
	return offsets, flatSources, edgeIndex
}

func (t *Topology) Degree(node int64) int {
	if node < 0 || node+1 >= int64(len(t.outOffsets)) {
		return 0
	}
	return int(t.outOffsets[node+1] - t.outOffsets[node])
}

func (t *Topology) InDegree(node int64) int {
	if !t.hasInverse || node < 0 || node+1 >= int64(len(t.inOffsets)) {
		return 0
	}
	return int(t.inOffsets[node+1] - t.inOffsets[node])
}

func (t *Topology) HasInverse() bool { return t.hasInverse }

// OutTargets returns the outgoing targets for node, and the flattened
// offset of the first one (for relationship-property alignment).
func (t *Topology) OutTargets(node int64) (targets []int64, offset int64) {
	if node < 0 || node+1 >= int64(len(t.outOffsets)) {
		return nil, 0
	}
	start, end := t.outOffsets[node], t.outOffsets[node+1]
	return t.outTargets[start:end], start
}

// InSources returns the incoming sources for node, and for each one the
// flattened forward-offset to use for relationship-property lookups.
func (t *Topology) InSources(node int64) (sources []int64, forwardOffsets []int64, err error) {
	if !t.hasInverse {
		return nil, nil, gdserr.InvalidGraph("relationship type %s has no inverse index", t.Type)
	}
	if node < 0 || node+1 >= int64(len(t.inOffsets)) {
		return nil, nil, nil
	}
	start, end := t.inOffsets[node], t.inOffsets[node+1]
	return t.inTargets[start:end], t.inEdgeIndex[start:end], nil
}

func (t *Topology) RelationshipCount() int64 { return int64(len(t.outTargets)) }
