// Package vectorstore provides the aligned in-memory store backing
// full-precision distance computation.
//
// Vectors live in one contiguous 64-byte-aligned float32 array indexed by
// location id. Each slot spans the aligned dimension — the true dimension
// rounded up to an 8-element boundary — and the padding beyond the true
// dimension is kept at zero, so distance kernels may sweep the full padded
// width without reading undefined data.
//
// The store is read-mostly: concurrent Vector calls are safe without
// locking, while SetVector, Resize, and Load require external quiescence
// (no concurrent searches). Write barriers are the caller's concern.
package vectorstore
