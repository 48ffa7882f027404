package scratch

import (
	"fmt"

	"github.com/hupe1980/vamana/internal/mem"
	"github.com/hupe1980/vamana/internal/queue"
	"github.com/hupe1980/vamana/internal/visited"
	"github.com/hupe1980/vamana/model"
)

// DiskScratchOptions sizes a DiskScratch.
type DiskScratchOptions struct {
	// AlignedDim is the padded vector width; it is the coordinate-buffer
	// stride.
	AlignedDim int
	// MaxCmps caps coordinate claims per search. Defaults to MaxCmps.
	MaxCmps int
	// SectorLen is the sector-buffer stride. Defaults to SectorLen.
	SectorLen int
	// MaxSectorReads caps sector claims per search, which bounds both
	// memory and outstanding disk reads. Defaults to MaxSectorReads.
	MaxSectorReads int
	// L bounds the result queue.
	L int
	// VisitedReserve pre-sizes the visited set.
	VisitedReserve int
	// PQ reserves product-quantization scratch when set.
	PQ bool
	// PQChunks is the number of PQ subspaces; used only when PQ is set.
	PQChunks int
}

func (o *DiskScratchOptions) defaults() {
	if o.MaxCmps <= 0 {
		o.MaxCmps = MaxCmps
	}
	if o.SectorLen <= 0 {
		o.SectorLen = SectorLen
	}
	if o.MaxSectorReads <= 0 {
		o.MaxSectorReads = MaxSectorReads
	}
	if o.VisitedReserve <= 0 {
		o.VisitedReserve = 4096
	}
}

// DiskScratch is the per-operation working memory for disk-backed beam
// search: a flat decompressed-coordinate buffer and a flat raw-sector
// buffer, each handed out slot by slot through a claim cursor.
//
// Not thread-safe; exclusively owned by one goroutine per lease.
type DiskScratch struct {
	coords     []float32
	coordIdx   int
	alignedDim int
	maxCmps    int

	sectors    []byte
	sectorIdx  int
	sectorLen  int
	maxSectors int

	// AlignedQuery holds the query padded to the aligned width.
	AlignedQuery []float32

	// Visited tracks ids touched during beam search.
	Visited visited.Set

	// RetSet keeps the L best candidates seen so far.
	RetSet *queue.Bounded

	// FullRetSet accumulates every accepted full-precision result.
	FullRetSet []model.Neighbor

	// PQ is product-quantization scratch, nil unless reserved.
	PQ *PQScratch
}

// NewDiskScratch reserves all buffers for the given bounds.
func NewDiskScratch(opts DiskScratchOptions) *DiskScratch {
	opts.defaults()

	ds := &DiskScratch{
		coords:       mem.AllocAlignedFloat32(opts.MaxCmps * opts.AlignedDim),
		alignedDim:   opts.AlignedDim,
		maxCmps:      opts.MaxCmps,
		sectors:      mem.AllocAligned(opts.MaxSectorReads * opts.SectorLen),
		sectorLen:    opts.SectorLen,
		maxSectors:   opts.MaxSectorReads,
		AlignedQuery: mem.AllocAlignedFloat32(opts.AlignedDim),
		Visited:      visited.New(visited.Sparse, opts.VisitedReserve),
		RetSet:       queue.NewBounded(opts.L),
		FullRetSet:   make([]model.Neighbor, 0, opts.L*4),
	}

	if opts.PQ {
		ds.PQ = NewPQScratch(opts.AlignedDim, opts.PQChunks)
	}

	return ds
}

// ClaimCoords hands out the next aligned-dim-wide coordinate slot and
// advances the cursor. Exceeding the reserved slot count is a contract
// violation: the beam-search driver must bound in-flight claims to
// MaxCmps, so overrun is a caller bug, not a recoverable error.
func (ds *DiskScratch) ClaimCoords() []float32 {
	if ds.coordIdx >= ds.maxCmps {
		panic(fmt.Sprintf("scratch: coordinate buffer exhausted (%d slots)", ds.maxCmps))
	}
	off := ds.coordIdx * ds.alignedDim
	ds.coordIdx++
	return ds.coords[off : off+ds.alignedDim]
}

// ClaimSector hands out the next sector-sized slot and advances the
// cursor. Bounding claims to MaxSectorReads simultaneously bounds memory
// and outstanding disk reads, which bounds tail latency; overrun panics.
func (ds *DiskScratch) ClaimSector() []byte {
	if ds.sectorIdx >= ds.maxSectors {
		panic(fmt.Sprintf("scratch: sector buffer exhausted (%d slots)", ds.maxSectors))
	}
	off := ds.sectorIdx * ds.sectorLen
	ds.sectorIdx++
	return ds.sectors[off : off+ds.sectorLen]
}

// CoordsClaimed returns the number of coordinate slots handed out since
// the last Reset.
func (ds *DiskScratch) CoordsClaimed() int { return ds.coordIdx }

// SectorsClaimed returns the number of sector slots handed out since the
// last Reset.
func (ds *DiskScratch) SectorsClaimed() int { return ds.sectorIdx }

// Reset zeroes both cursors and empties the containers without freeing
// any buffer. Idempotent.
func (ds *DiskScratch) Reset() {
	ds.coordIdx = 0
	ds.sectorIdx = 0
	ds.Visited.Reset()
	ds.RetSet.Reset()
	ds.FullRetSet = ds.FullRetSet[:0]
}

// Clear implements Clearable for pooling.
func (ds *DiskScratch) Clear() {
	ds.Reset()
}

// IOContext is an opaque handle obtained from the asynchronous I/O
// subsystem. It is carried here uninterpreted and reset by its owner.
type IOContext any

// ThreadContext couples one DiskScratch with one I/O context handle for
// the lifetime of a worker's pool slot.
type ThreadContext struct {
	Scratch *DiskScratch
	IO      IOContext
}

// NewThreadContext binds scratch to io 1:1.
func NewThreadContext(scratch *DiskScratch, io IOContext) *ThreadContext {
	return &ThreadContext{Scratch: scratch, IO: io}
}

// Clear resets the scratch only; the I/O context belongs to its owning
// subsystem.
func (tc *ThreadContext) Clear() {
	tc.Scratch.Reset()
}
