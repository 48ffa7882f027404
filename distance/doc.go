// Package distance defines the distance-metric contract injected into the
// vector store, plus portable reference kernels.
//
// The resource-management core never computes distances itself; it stores
// aligned, zero-padded vectors and hands a Func to whoever traverses the
// graph. Optimized SIMD kernels can be swapped in by injecting a different
// Func — the padding guarantee (zeros beyond the true dimension) makes it
// safe for kernels to operate over the full aligned width.
//
// # Supported Metrics
//
//   - MetricL2: Squared Euclidean distance (default)
//   - MetricCosine: Cosine distance over pre-normalized vectors
//   - MetricDot: Negated dot product (inner-product search)
package distance
