// Package visited provides deduplication sets for graph traversal.
//
// Two interchangeable forms exist behind the Set interface: a dense
// bit-vector indexed by id (O(1) branch-free membership, best when ids are
// dense in [0, maxPoints)) and a sparse roaring-bitmap set (best when a
// search touches few ids out of a large space). The form is selected by
// configuration at construction, not by the call sites.
package visited

// Set tracks which location ids a search has already touched.
//
// Implementations are not thread-safe; each Set is owned by a single
// search operation.
type Set interface {
	// Visit marks id as seen.
	Visit(id uint32)
	// Visited reports whether id has been seen since the last Reset.
	Visited(id uint32) bool
	// Reset clears the set, preserving allocated capacity where possible.
	Reset()
}

// Kind selects a Set implementation.
type Kind int

const (
	// Dense uses a fixed bit-vector indexed by id.
	Dense Kind = iota
	// Sparse uses a compressed bitmap, cheap for scattered ids.
	Sparse
)

// New creates a Set of the given kind sized for capacity ids.
func New(kind Kind, capacity int) Set {
	if kind == Sparse {
		return newSparseSet()
	}
	return newDenseSet(capacity)
}

// denseSet tracks visited ids using a bit-vector plus a dirty list so Reset
// costs O(ids visited) rather than O(capacity).
type denseSet struct {
	bits  []uint64
	dirty []uint32
}

func newDenseSet(capacity int) *denseSet {
	return &denseSet{
		bits:  make([]uint64, (capacity+63)/64),
		dirty: make([]uint32, 0, 128),
	}
}

func (v *denseSet) Visit(id uint32) {
	wordIdx := int(id >> 6)
	bitMask := uint64(1) << (id & 63)

	if wordIdx >= len(v.bits) {
		v.grow(wordIdx + 1)
	}

	if v.bits[wordIdx]&bitMask == 0 {
		v.bits[wordIdx] |= bitMask
		v.dirty = append(v.dirty, id)
	}
}

func (v *denseSet) Visited(id uint32) bool {
	wordIdx := int(id >> 6)
	if wordIdx >= len(v.bits) {
		return false
	}
	return v.bits[wordIdx]&(uint64(1)<<(id&63)) != 0
}

func (v *denseSet) Reset() {
	for _, id := range v.dirty {
		v.bits[id>>6] &^= uint64(1) << (id & 63)
	}
	v.dirty = v.dirty[:0]
}

func (v *denseSet) grow(newLen int) {
	newCap := len(v.bits) * 2
	if newCap < newLen {
		newCap = newLen
	}

	newBits := make([]uint64, newCap)
	copy(newBits, v.bits)
	v.bits = newBits
}
