// Package vamana provides the resource-management core of a DiskANN-style
// approximate-nearest-neighbor engine: pooled per-search scratch space and
// the aligned in-memory vector store backing distance computation.
//
// The core serves two search modes. Pure in-memory graph traversal leases
// a QueryScratch; disk-backed beam search leases a ThreadContext coupling
// a DiskScratch with an asynchronous I/O handle. Both modes reuse large
// working buffers across requests without per-query allocation.
//
//	core, err := vamana.New(vamana.DefaultConfig())
//	if err != nil { ... }
//	defer core.Close()
//
//	lease := core.LeaseQueryScratch()
//	defer lease.Release()
//	// traverse using lease.Scratch() ...
//
// Graph construction, SIMD distance kernels, PQ training, and the disk
// I/O engine itself are external collaborators.
package vamana
