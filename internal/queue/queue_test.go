package queue

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vamana/model"
)

func TestBounded_InsertOrdering(t *testing.T) {
	q := NewBounded(4)

	q.Insert(model.Neighbor{ID: 3, Distance: 3.0})
	q.Insert(model.Neighbor{ID: 1, Distance: 1.0})
	q.Insert(model.Neighbor{ID: 2, Distance: 2.0})

	require.Equal(t, 3, q.Len())
	assert.Equal(t, model.LocationID(1), q.At(0).ID)
	assert.Equal(t, model.LocationID(2), q.At(1).ID)
	assert.Equal(t, model.LocationID(3), q.At(2).ID)
}

func TestBounded_TiesBrokenByID(t *testing.T) {
	q := NewBounded(4)

	q.Insert(model.Neighbor{ID: 9, Distance: 1.0})
	q.Insert(model.Neighbor{ID: 2, Distance: 1.0})

	assert.Equal(t, model.LocationID(2), q.At(0).ID)
	assert.Equal(t, model.LocationID(9), q.At(1).ID)
}

func TestBounded_RejectsDuplicates(t *testing.T) {
	q := NewBounded(4)

	assert.True(t, q.Insert(model.Neighbor{ID: 7, Distance: 0.5}))
	assert.False(t, q.Insert(model.Neighbor{ID: 7, Distance: 0.5}))
	assert.Equal(t, 1, q.Len())
}

func TestBounded_EnforcesBound(t *testing.T) {
	q := NewBounded(10)

	for i := 0; i < 1000; i++ {
		q.Insert(model.Neighbor{ID: model.LocationID(i), Distance: float32(1000 - i)})
		require.LessOrEqual(t, q.Len(), 10)
	}

	// The ten closest survive: distances 1..10 (ids 999..990).
	require.Equal(t, 10, q.Len())
	for i := 0; i < 10; i++ {
		assert.Equal(t, float32(i+1), q.At(i).Distance)
	}
}

func TestBounded_ClosestUnexpanded(t *testing.T) {
	q := NewBounded(8)

	for _, id := range []model.LocationID{4, 2, 6} {
		q.Insert(model.Neighbor{ID: id, Distance: float32(id)})
	}

	n, ok := q.ClosestUnexpanded()
	require.True(t, ok)
	assert.Equal(t, model.LocationID(2), n.ID)

	// A closer late arrival is expanded before the remaining ones.
	q.Insert(model.Neighbor{ID: 3, Distance: 3})

	n, ok = q.ClosestUnexpanded()
	require.True(t, ok)
	assert.Equal(t, model.LocationID(3), n.ID)

	n, ok = q.ClosestUnexpanded()
	require.True(t, ok)
	assert.Equal(t, model.LocationID(4), n.ID)

	n, ok = q.ClosestUnexpanded()
	require.True(t, ok)
	assert.Equal(t, model.LocationID(6), n.ID)

	_, ok = q.ClosestUnexpanded()
	assert.False(t, ok)
	assert.False(t, q.HasUnexpanded())
}

func TestBounded_Reset(t *testing.T) {
	q := NewBounded(4)
	q.Insert(model.Neighbor{ID: 1, Distance: 1})

	q.Reset()
	assert.Zero(t, q.Len())

	// Reset is idempotent.
	q.Reset()
	assert.Zero(t, q.Len())

	q.Insert(model.Neighbor{ID: 2, Distance: 2})
	n, ok := q.ClosestUnexpanded()
	require.True(t, ok)
	assert.Equal(t, model.LocationID(2), n.ID)
}

func TestBounded_SetCapacity(t *testing.T) {
	q := NewBounded(2)
	q.Insert(model.Neighbor{ID: 1, Distance: 1})
	q.Insert(model.Neighbor{ID: 2, Distance: 2})
	assert.False(t, q.Insert(model.Neighbor{ID: 3, Distance: 3}))

	q.SetCapacity(4)
	assert.True(t, q.Insert(model.Neighbor{ID: 3, Distance: 3}))
	assert.Equal(t, 3, q.Len())

	q.SetCapacity(1)
	assert.Equal(t, 1, q.Len())
	assert.Equal(t, model.LocationID(1), q.At(0).ID)
}

func TestBounded_RandomizedOrderInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	q := NewBounded(32)

	for i := 0; i < 500; i++ {
		q.Insert(model.Neighbor{ID: model.LocationID(rng.Intn(10000)), Distance: rng.Float32()})
	}

	require.LessOrEqual(t, q.Len(), 32)
	for i := 1; i < q.Len(); i++ {
		assert.True(t, q.At(i-1).Less(q.At(i)), "queue not sorted at %d", i)
	}
}
