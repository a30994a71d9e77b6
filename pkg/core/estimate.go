package core

// Fictitious-graph memory estimation (spec §4.3 Estimate mode), supplemented
// from original_source's FictitiousGraphEstimationService: it sizes a
// hypothetical store of the given dimensions without needing a live graph,
// so EstimateMemory can answer "how much would a graph this big cost" for
// capacity planning before anyone projects it.

const (
	bytesPerNode           = 32
	bytesPerRelationship   = 24
	bytesPerAdjacencyEntry = 16
	bytesPerLabelFlag      = 8
	bytesPerPropertyValue  = 16
)

// FictitiousGraphStoreRange estimates the graph store's own footprint (node
// and relationship storage plus adjacency lists), independent of any
// algorithm's working memory on top of it.
func FictitiousGraphStoreRange(nodeCount, relationshipCount int64) MemoryRange {
	nodeMemory := nodeCount * bytesPerNode
	relMemory := relationshipCount * bytesPerRelationship
	adjacencyMemory := relationshipCount * bytesPerAdjacencyEntry
	overhead := (nodeMemory + relMemory + adjacencyMemory) / 10
	total := nodeMemory + relMemory + adjacencyMemory + overhead
	return MemoryRange{Min: total, Max: total}
}

// FictitiousGraphStoreDetailedRange refines the estimate with the number of
// distinct node labels and an average property-per-element count, both of
// which this engine's store actually carries (unlike the simple estimate,
// which assumes an unlabeled, propertyless graph).
func FictitiousGraphStoreDetailedRange(nodeCount, relationshipCount int64, nodeLabelCount, propertyCount int) MemoryRange {
	nodeMemory := nodeCount * bytesPerNode
	relMemory := relationshipCount * bytesPerRelationship
	adjacencyMemory := relationshipCount * bytesPerAdjacencyEntry

	var labelMemory int64
	if nodeLabelCount > 0 {
		labelMemory = nodeCount * int64(nodeLabelCount) * bytesPerLabelFlag
	}

	nodePropertyMemory := nodeCount * int64(propertyCount) * bytesPerPropertyValue
	relPropertyMemory := relationshipCount * int64(propertyCount) * bytesPerPropertyValue

	baseOverhead := (nodeMemory + relMemory + adjacencyMemory) / 10
	propertyOverhead := (nodePropertyMemory + relPropertyMemory) / 20

	total := nodeMemory + relMemory + adjacencyMemory + labelMemory + baseOverhead + propertyOverhead
	total += nodePropertyMemory + relPropertyMemory

	return MemoryRange{Min: total, Max: total}
}

// Add combines two independent memory ranges (e.g. the store's baseline
// footprint plus an algorithm's own working-set estimate), summing both
// bounds.
func (r MemoryRange) Add(other MemoryRange) MemoryRange {
	return MemoryRange{Min: r.Min + other.Min, Max: r.Max + other.Max}
}

// Scale multiplies both bounds by factor, for algorithms whose working
// memory is a small multiple of node or relationship count (e.g. k
// per-node neighbor lists, or a fixed-width embedding per node).
func (r MemoryRange) Scale(factor int64) MemoryRange {
	return MemoryRange{Min: r.Min * factor, Max: r.Max * factor}
}
