// Package scratch provides the pooled per-search working memory for graph
// traversal: candidate pools, visited sets, bounded result queues, and the
// coordinate/sector buffers used by disk-backed beam search.
//
// # Lifecycle
//
// Scratch objects are constructed once when a pool is pre-warmed and only
// ever transferred between the pool and a leasing goroutine afterwards; the
// steady-state search path performs no allocation. A Lease checks an object
// out (blocking until one is free), hands it to exactly one goroutine, and
// on Release clears it and returns it to the pool, waking one waiter.
//
//	lease := scratch.NewLease(pool)
//	defer lease.Release()
//	qs := lease.Scratch()
//
// Release is safe to call from a deferred statement on every exit path,
// including panic unwinding, so an aborted search never starves the pool.
package scratch
