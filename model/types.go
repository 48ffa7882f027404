package model

import (
	"fmt"
)

// LocationID is a dense, store-local identifier for a vector slot.
// It indexes directly into the vector store's aligned data array and may be
// reassigned during compaction.
type LocationID uint32

// Neighbor is a candidate produced during graph traversal: a vector location
// together with its distance to the query.
type Neighbor struct {
	ID       LocationID
	Distance float32

	// Expanded marks a neighbor whose adjacency list has already been
	// consumed by the traversal loop.
	Expanded bool
}

// Less orders neighbors ascending by distance, ties broken by ID.
func (n Neighbor) Less(other Neighbor) bool {
	if n.Distance != other.Distance {
		return n.Distance < other.Distance
	}
	return n.ID < other.ID
}

// String returns a string representation of the Neighbor.
func (n Neighbor) String() string {
	return fmt.Sprintf("Neighbor(%d:%g)", n.ID, n.Distance)
}
