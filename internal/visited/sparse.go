package visited

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// sparseSet tracks visited ids with a compressed roaring bitmap. Container
// reuse across Resets keeps steady-state searches allocation-light while
// avoiding the O(maxPoints) footprint of a dense bit-vector.
type sparseSet struct {
	bitmap *roaring.Bitmap
}

func newSparseSet() *sparseSet {
	return &sparseSet{bitmap: roaring.New()}
}

func (v *sparseSet) Visit(id uint32) {
	v.bitmap.Add(id)
}

func (v *sparseSet) Visited(id uint32) bool {
	return v.bitmap.Contains(id)
}

func (v *sparseSet) Reset() {
	v.bitmap.Clear()
}
