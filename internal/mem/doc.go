// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// Provides 64-byte aligned allocation for the vector store and scratch
// buffers so that SIMD distance kernels (AVX-512 friendly) can assume
// aligned loads over the full padded vector width.
package mem
