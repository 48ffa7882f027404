package scratch

import (
	"context"
	"errors"
)

// Shared sizing constants agreed with the beam-search driver. They bound
// the scratch buffers below and, by construction, the number of
// outstanding disk reads per search.
const (
	// MaxGraphDegree is the maximum adjacency-list length.
	MaxGraphDegree = 512
	// MaxCmps is the maximum full-precision comparisons per search; it
	// sizes the decompressed-coordinate buffer.
	MaxCmps = 16384
	// SectorLen is the fixed disk I/O unit in bytes.
	SectorLen = 4096
	// MaxSectorReads is the maximum in-flight sector reads per search.
	MaxSectorReads = 128
)

// ErrLeasesOutstanding is returned by Drain when scratch objects are still
// checked out.
var ErrLeasesOutstanding = errors.New("scratch: leases still outstanding")

// Clearable is implemented by pooled scratch objects. Clear resets internal
// buffers and counters to empty while preserving reserved capacity.
type Clearable interface {
	Clear()
}

// Pool is a fixed-size free list of pre-constructed scratch objects.
//
// It is backed by a buffered channel sized to the pool, which gives a
// race-free blocking pop: a Push wakes exactly one blocked Acquire, and no
// notify can be missed. No fairness is guaranteed between waiters; the
// pool is expected to be sized near the worker count, so waits are short.
type Pool[T Clearable] struct {
	ch   chan T
	size int
}

// NewPool pre-warms a pool with size objects built by factory.
func NewPool[T Clearable](size int, factory func() T) *Pool[T] {
	p := &Pool[T]{
		ch:   make(chan T, size),
		size: size,
	}
	for i := 0; i < size; i++ {
		p.ch <- factory()
	}
	return p
}

// Size returns the number of objects owned by the pool.
func (p *Pool[T]) Size() int {
	return p.size
}

// Idle returns the number of objects currently checked in.
func (p *Pool[T]) Idle() int {
	return len(p.ch)
}

// TryPop removes an object without blocking. ok is false when the pool is
// empty.
func (p *Pool[T]) TryPop() (obj T, ok bool) {
	select {
	case obj = <-p.ch:
		return obj, true
	default:
		var zero T
		return zero, false
	}
}

// Acquire blocks until an object is available. Starvation is not an error:
// the wait is unbounded, and callers needing a deadline use AcquireContext.
func (p *Pool[T]) Acquire() T {
	return <-p.ch
}

// AcquireContext blocks until an object is available or ctx is done.
func (p *Pool[T]) AcquireContext(ctx context.Context) (T, error) {
	select {
	case obj := <-p.ch:
		return obj, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Push returns ownership of obj to the pool, waking one blocked Acquire.
// Pushing into a full pool means an object entered from outside the
// pre-warmed set, which is a caller bug.
func (p *Pool[T]) Push(obj T) {
	select {
	case p.ch <- obj:
	default:
		panic("scratch: push into full pool")
	}
}

// Drain empties the pool for shutdown, dropping every object for the
// garbage collector to reclaim. The caller must guarantee no lease is
// outstanding or pending; as a best-effort guard, Drain fails with
// ErrLeasesOutstanding when objects are missing at the time of the call.
func (p *Pool[T]) Drain() error {
	if len(p.ch) != p.size {
		return ErrLeasesOutstanding
	}
	for {
		select {
		case <-p.ch:
		default:
			p.size = 0
			return nil
		}
	}
}
