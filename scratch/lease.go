package scratch

import (
	"context"
)

// Lease is a scoped checkout of one scratch object. Between NewLease and
// Release the object is owned exclusively by the leasing goroutine.
//
// Release must run on every exit path; pair every NewLease with an
// immediate defer. A lease dropped without Release permanently removes one
// object from the pool.
type Lease[T Clearable] struct {
	pool     *Pool[T]
	obj      T
	released bool
}

// NewLease blocks until a scratch object is free and checks it out.
func NewLease[T Clearable](pool *Pool[T]) *Lease[T] {
	return &Lease[T]{
		pool: pool,
		obj:  pool.Acquire(),
	}
}

// NewLeaseContext is NewLease with a cancellable wait.
func NewLeaseContext[T Clearable](ctx context.Context, pool *Pool[T]) (*Lease[T], error) {
	obj, err := pool.AcquireContext(ctx)
	if err != nil {
		return nil, err
	}
	return &Lease[T]{pool: pool, obj: obj}, nil
}

// Scratch returns the checked-out object. Must not be used after Release.
func (l *Lease[T]) Scratch() T {
	return l.obj
}

// Release clears the object and transfers it back to the pool, waking one
// waiter. Idempotent; the second and later calls are no-ops.
func (l *Lease[T]) Release() {
	if l.released {
		return
	}
	l.released = true

	l.obj.Clear()
	l.pool.Push(l.obj)

	var zero T
	l.obj = zero
}
