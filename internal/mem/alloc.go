package mem

import (
	"unsafe"
)

// Alignment is the byte alignment used for all scratch and store buffers.
// 64 bytes covers AVX-512 loads and cache-line isolation.
const Alignment = 64

// RoundUp rounds n up to the next multiple of m. m must be positive.
func RoundUp(n, m int) int {
	return ((n + m - 1) / m) * m
}

// AllocAligned allocates a byte slice of the given size whose first element
// sits at an address divisible by Alignment.
//
// The allocation is over-sized by Alignment bytes and re-sliced to the first
// aligned offset; the returned slice keeps the underlying array alive.
func AllocAligned(size int) []byte {
	if size == 0 {
		return nil
	}

	buf := make([]byte, size+Alignment)

	ptr := unsafe.Pointer(&buf[0]) //nolint:gosec // required for alignment math
	offset := (Alignment - (uintptr(ptr) & (Alignment - 1))) & (Alignment - 1)

	return buf[offset : offset+uintptr(size)]
}

// AllocAlignedFloat32 allocates a zeroed float32 slice of the given length
// starting at an Alignment-divisible address.
func AllocAlignedFloat32(size int) []float32 {
	if size == 0 {
		return nil
	}

	byteSlice := AllocAligned(size * 4)

	// 64-byte alignment implies the 4-byte alignment float32 requires.
	ptr := unsafe.Pointer(&byteSlice[0])       //nolint:gosec // required for reinterpretation
	return unsafe.Slice((*float32)(ptr), size) //nolint:gosec // required for reinterpretation
}
