package scratch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vamana/internal/visited"
	"github.com/hupe1980/vamana/model"
)

func TestQueryScratch_New(t *testing.T) {
	qs := NewQueryScratch(QueryScratchOptions{L: 20, R: 32, MaxC: 750, Dim: 5})

	assert.Equal(t, 20, qs.L())
	assert.Equal(t, 32, qs.R())
	assert.Equal(t, 750, qs.MaxC())

	// dim 5 pads to the aligned width 8
	assert.Len(t, qs.AlignedQuery, 8)

	assert.GreaterOrEqual(t, cap(qs.Pool), 3*20+32)
	assert.GreaterOrEqual(t, cap(qs.OccludeFactor), 750)
	assert.GreaterOrEqual(t, cap(qs.IDScratch), 32)
	assert.Nil(t, qs.PQ)
}

func TestQueryScratch_PQScratch(t *testing.T) {
	qs := NewQueryScratch(QueryScratchOptions{L: 10, R: 16, MaxC: 500, Dim: 128, PQ: true, PQChunks: 32})

	require.NotNil(t, qs.PQ)
	assert.Len(t, qs.PQ.DistTable, 256*32)
	assert.Len(t, qs.PQ.Dists, MaxGraphDegree)
	assert.Len(t, qs.PQ.Codes, MaxGraphDegree*32)
	assert.Len(t, qs.PQ.RotatedQuery, 128)
}

func TestQueryScratch_BestLBounded(t *testing.T) {
	qs := NewQueryScratch(QueryScratchOptions{L: 10, R: 32, MaxC: 750, Dim: 8})

	for i := 0; i < 1000; i++ {
		qs.BestL.Insert(model.Neighbor{ID: model.LocationID(i), Distance: float32(i)})
		require.LessOrEqual(t, qs.BestL.Len(), 10)
	}
	assert.Equal(t, 10, qs.BestL.Len())
}

func TestQueryScratch_ClearIdempotent(t *testing.T) {
	qs := NewQueryScratch(QueryScratchOptions{L: 10, R: 32, MaxC: 750, Dim: 8})

	qs.Pool = append(qs.Pool, model.Neighbor{ID: 3, Distance: 0.5})
	qs.Visited.Visit(3)
	qs.Inserted.Visit(3)
	qs.BestL.Insert(model.Neighbor{ID: 3, Distance: 0.5})
	qs.OccludeFactor = append(qs.OccludeFactor, 1.0)
	qs.IDScratch = append(qs.IDScratch, 3)
	qs.DistScratch = append(qs.DistScratch, 0.5)

	poolCap := cap(qs.Pool)

	check := func() {
		assert.Empty(t, qs.Pool)
		assert.False(t, qs.Visited.Visited(3))
		assert.False(t, qs.Inserted.Visited(3))
		assert.Zero(t, qs.BestL.Len())
		assert.Empty(t, qs.OccludeFactor)
		assert.Empty(t, qs.IDScratch)
		assert.Empty(t, qs.DistScratch)
		assert.Equal(t, poolCap, cap(qs.Pool), "Clear must preserve capacity")
	}

	qs.Clear()
	check()

	qs.Clear()
	check()
}

func TestQueryScratch_ResizeForNewL(t *testing.T) {
	qs := NewQueryScratch(QueryScratchOptions{L: 10, R: 32, MaxC: 750, Dim: 8})

	require.NoError(t, qs.ResizeForNewL(50))
	assert.Equal(t, 50, qs.L())
	assert.Equal(t, 50, qs.BestL.Capacity())
	assert.GreaterOrEqual(t, cap(qs.Pool), 3*50+32)

	// Shrinking is rejected.
	assert.Error(t, qs.ResizeForNewL(10))
	assert.Equal(t, 50, qs.L())
}

func TestQueryScratch_DedupeKinds(t *testing.T) {
	for _, kind := range []visited.Kind{visited.Dense, visited.Sparse} {
		qs := NewQueryScratch(QueryScratchOptions{L: 10, R: 32, MaxC: 750, Dim: 8, DedupeKind: kind})

		qs.Inserted.Visit(123456)
		assert.True(t, qs.Inserted.Visited(123456))
		assert.False(t, qs.Inserted.Visited(123457))

		qs.Clear()
		assert.False(t, qs.Inserted.Visited(123456))
	}
}
