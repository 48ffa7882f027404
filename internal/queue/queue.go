// Package queue provides the bounded candidate queue used during graph
// traversal. The queue keeps the best (closest) candidates seen so far in
// a value-based sorted slice for cache locality and zero allocations in
// the steady state.
package queue

import (
	"sort"

	"github.com/hupe1980/vamana/model"
)

// Bounded is a capacity-limited priority structure over Neighbors, ordered
// ascending by distance with ties broken by id. Inserting into a full queue
// evicts the current worst candidate.
//
// Bounded is not thread-safe; it is owned by a single search operation.
type Bounded struct {
	items    []model.Neighbor
	capacity int

	// cur is the index of the closest unexpanded candidate, maintained
	// incrementally so the traversal loop can pop without scanning.
	cur int
}

// NewBounded creates a queue holding at most capacity candidates.
func NewBounded(capacity int) *Bounded {
	return &Bounded{
		items:    make([]model.Neighbor, 0, capacity+1),
		capacity: capacity,
	}
}

// Insert adds a candidate, keeping the slice sorted and bounded. Duplicate
// ids at the same distance are dropped. Returns true if the candidate was
// retained.
func (b *Bounded) Insert(n model.Neighbor) bool {
	if b.capacity == 0 {
		return false
	}

	if len(b.items) == b.capacity && !n.Less(b.items[len(b.items)-1]) {
		return false
	}

	idx := sort.Search(len(b.items), func(i int) bool {
		return n.Less(b.items[i])
	})

	// Reject an exact duplicate sitting just before the insertion point.
	if idx > 0 && b.items[idx-1].ID == n.ID && b.items[idx-1].Distance == n.Distance {
		return false
	}

	b.items = append(b.items, model.Neighbor{})
	copy(b.items[idx+1:], b.items[idx:])
	b.items[idx] = n

	if len(b.items) > b.capacity {
		b.items = b.items[:b.capacity]
	}

	if idx < b.cur {
		b.cur = idx
	}

	return true
}

// ClosestUnexpanded returns the nearest candidate not yet expanded and
// marks it expanded. ok is false when every retained candidate has been
// expanded already.
func (b *Bounded) ClosestUnexpanded() (model.Neighbor, bool) {
	for b.cur < len(b.items) {
		if !b.items[b.cur].Expanded {
			b.items[b.cur].Expanded = true
			n := b.items[b.cur]
			b.cur++
			return n, true
		}
		b.cur++
	}
	return model.Neighbor{}, false
}

// HasUnexpanded reports whether an unexpanded candidate remains.
func (b *Bounded) HasUnexpanded() bool {
	for i := b.cur; i < len(b.items); i++ {
		if !b.items[i].Expanded {
			return true
		}
	}
	return false
}

// At returns the i'th best candidate. i must be < Len.
func (b *Bounded) At(i int) model.Neighbor {
	return b.items[i]
}

// Len returns the number of retained candidates.
func (b *Bounded) Len() int {
	return len(b.items)
}

// Capacity returns the configured bound.
func (b *Bounded) Capacity() int {
	return b.capacity
}

// SetCapacity grows or shrinks the bound. Shrinking drops the worst
// candidates. Must not be called while a search is using the queue.
func (b *Bounded) SetCapacity(capacity int) {
	b.capacity = capacity
	if len(b.items) > capacity {
		b.items = b.items[:capacity]
	}
	if cap(b.items) < capacity+1 {
		grown := make([]model.Neighbor, len(b.items), capacity+1)
		copy(grown, b.items)
		b.items = grown
	}
}

// Reset empties the queue, preserving capacity.
func (b *Bounded) Reset() {
	b.items = b.items[:0]
	b.cur = 0
}
