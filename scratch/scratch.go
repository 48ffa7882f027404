package scratch

import (
	"fmt"

	"github.com/hupe1980/vamana/internal/mem"
	"github.com/hupe1980/vamana/internal/queue"
	"github.com/hupe1980/vamana/internal/visited"
	"github.com/hupe1980/vamana/model"
)

// QueryScratchOptions sizes a QueryScratch. Every buffer is reserved at
// construction so a bounded search never reallocates.
type QueryScratchOptions struct {
	// L bounds the best-candidate queue (search frontier).
	L int
	// R is the maximum graph degree.
	R int
	// MaxC is the pruning candidate limit.
	MaxC int
	// Dim is the true vector dimension; buffers use the aligned width.
	Dim int
	// DedupeKind selects the candidate-pool dedupe form: Dense for
	// bit-vector membership over compact id spaces, Sparse otherwise.
	DedupeKind visited.Kind
	// PQ reserves product-quantization scratch when set.
	PQ bool
	// PQChunks is the number of PQ subspaces; used only when PQ is set.
	PQChunks int
}

// QueryScratch is the per-operation working memory for in-memory graph
// search. Not thread-safe; exclusively owned by one goroutine per lease.
type QueryScratch struct {
	// AlignedQuery holds the query vector padded to the aligned width.
	AlignedQuery []float32

	// Pool accumulates candidates considered for pruning.
	Pool []model.Neighbor

	// Visited tracks every id touched by the traversal.
	Visited visited.Set

	// BestL keeps the L closest candidates found so far.
	BestL *queue.Bounded

	// Inserted dedupes ids entering Pool; its form is configured, not
	// hard-wired (dense bit-vector vs sparse set).
	Inserted visited.Set

	// OccludeFactor is pruning scratch, one slot per pool candidate.
	OccludeFactor []float32

	// IDScratch and DistScratch stage one adjacency list per hop.
	IDScratch   []uint32
	DistScratch []float32

	// PQ is product-quantization scratch, nil unless reserved.
	PQ *PQScratch

	l, r, maxc int
}

// NewQueryScratch reserves all buffers for the given bounds.
func NewQueryScratch(opts QueryScratchOptions) *QueryScratch {
	alignedDim := mem.RoundUp(opts.Dim, 8)

	qs := &QueryScratch{
		AlignedQuery:  mem.AllocAlignedFloat32(alignedDim),
		Pool:          make([]model.Neighbor, 0, 3*opts.L+opts.R),
		Visited:       visited.New(visited.Sparse, 0),
		BestL:         queue.NewBounded(opts.L),
		Inserted:      visited.New(opts.DedupeKind, 4096),
		OccludeFactor: make([]float32, 0, opts.MaxC),
		IDScratch:     make([]uint32, 0, opts.R),
		DistScratch:   make([]float32, 0, opts.R),
		l:             opts.L,
		r:             opts.R,
		maxc:          opts.MaxC,
	}

	if opts.PQ {
		qs.PQ = NewPQScratch(alignedDim, opts.PQChunks)
	}

	return qs
}

// L returns the current frontier bound.
func (qs *QueryScratch) L() int { return qs.l }

// R returns the maximum graph degree.
func (qs *QueryScratch) R() int { return qs.r }

// MaxC returns the pruning candidate limit.
func (qs *QueryScratch) MaxC() int { return qs.maxc }

// ResizeForNewL grows the frontier bound between leases. Calling it while
// the scratch is leased to a running search is a caller bug.
func (qs *QueryScratch) ResizeForNewL(newL int) error {
	if newL < qs.l {
		return fmt.Errorf("scratch: cannot shrink L from %d to %d", qs.l, newL)
	}

	qs.l = newL
	qs.BestL.SetCapacity(newL)

	if want := 3*newL + qs.r; cap(qs.Pool) < want {
		grown := make([]model.Neighbor, len(qs.Pool), want)
		copy(grown, qs.Pool)
		qs.Pool = grown
	}

	return nil
}

// Clear resets every container to empty while preserving reserved
// capacity. The lease runs it on check-in; it is idempotent.
func (qs *QueryScratch) Clear() {
	qs.Pool = qs.Pool[:0]
	qs.Visited.Reset()
	qs.BestL.Reset()
	qs.Inserted.Reset()
	qs.OccludeFactor = qs.OccludeFactor[:0]
	qs.IDScratch = qs.IDScratch[:0]
	qs.DistScratch = qs.DistScratch[:0]
}

// PQScratch is aligned working memory for product-quantized distance
// computation. The core only sizes and recycles it; the PQ kernels that
// fill it are external.
type PQScratch struct {
	// DistTable is the 256-entry-per-chunk lookup table for the current
	// query.
	DistTable []float32

	// Dists receives batch distances, one per adjacency-list entry.
	Dists []float32

	// Codes stages packed PQ codes for one adjacency list.
	Codes []byte

	// RotatedQuery and QueryFloat hold preprocessed forms of the query.
	RotatedQuery []float32
	QueryFloat   []float32
}

// NewPQScratch reserves PQ scratch for the given aligned dimension and
// chunk count.
func NewPQScratch(alignedDim, chunks int) *PQScratch {
	if chunks <= 0 {
		chunks = alignedDim
	}
	return &PQScratch{
		DistTable:    mem.AllocAlignedFloat32(256 * chunks),
		Dists:        mem.AllocAlignedFloat32(MaxGraphDegree),
		Codes:        mem.AllocAligned(MaxGraphDegree * chunks),
		RotatedQuery: mem.AllocAlignedFloat32(alignedDim),
		QueryFloat:   mem.AllocAlignedFloat32(alignedDim),
	}
}
