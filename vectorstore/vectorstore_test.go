package vectorstore

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vamana/distance"
	"github.com/hupe1980/vamana/model"
)

func TestAlignedDim(t *testing.T) {
	tests := []struct {
		dim, want int
	}{
		{5, 8},
		{8, 8},
		{9, 16},
		{128, 128},
		{1536, 1536},
	}

	for _, tt := range tests {
		s := New(4, tt.dim, distance.SquaredL2)
		assert.Equal(t, tt.want, s.AlignedDim(), "dim %d", tt.dim)
	}
}

func TestSetVectorGetVectorRoundTrip(t *testing.T) {
	s := New(4, 5, distance.SquaredL2)

	v := []float32{1, 2, 3, 4, 5}
	s.SetVector(2, v)

	got := s.Vector(2)
	require.Len(t, got, 8)
	assert.Equal(t, v, got[:5])

	// Padding beyond the true dimension stays zero.
	for i := 5; i < 8; i++ {
		assert.Zero(t, got[i], "padding index %d", i)
	}

	// Untouched slots are fully zero on a fresh store.
	for _, c := range s.Vector(0) {
		assert.Zero(t, c)
	}
}

func TestSetVectorLeavesPaddingUntouched(t *testing.T) {
	s := New(2, 5, distance.SquaredL2)

	s.SetVector(0, []float32{1, 1, 1, 1, 1})
	s.SetVector(0, []float32{2, 2, 2, 2, 2})

	got := s.Vector(0)
	assert.Equal(t, []float32{2, 2, 2, 2, 2}, got[:5])
	assert.Equal(t, []float32{0, 0, 0}, got[5:])
}

func TestDistanceUsesInjectedMetric(t *testing.T) {
	s := New(2, 8, distance.SquaredL2)
	s.SetVector(0, []float32{1, 0, 0, 0, 0, 0, 0, 0})

	query := []float32{0, 0, 0, 0, 0, 0, 0, 0}
	assert.Equal(t, float32(1), s.Distance(0, query))
}

func TestVectorOutOfRangePanics(t *testing.T) {
	s := New(2, 8, distance.SquaredL2)

	assert.Panics(t, func() {
		_ = s.Vector(model.LocationID(2))
	})
}

func TestResizePreservesData(t *testing.T) {
	s := New(2, 5, distance.SquaredL2)
	s.SetVector(0, []float32{1, 2, 3, 4, 5})
	s.SetVector(1, []float32{6, 7, 8, 9, 10})
	s.numPoints = 2

	s.Resize(8)

	assert.Equal(t, 8, s.MaxPoints())
	assert.Equal(t, []float32{1, 2, 3, 4, 5}, s.Vector(0)[:5])
	assert.Equal(t, []float32{6, 7, 8, 9, 10}, s.Vector(1)[:5])

	// New slots are zeroed.
	for _, c := range s.Vector(7) {
		assert.Zero(t, c)
	}
}

func writeTestFile(t *testing.T, vectors [][]float32) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vectors.bin")
	require.NoError(t, WriteFile(path, vectors))
	return path
}

func testVectors(n, dim int) [][]float32 {
	vectors := make([][]float32, n)
	for i := range vectors {
		vectors[i] = make([]float32, dim)
		for j := range vectors[i] {
			vectors[i][j] = float32(i*dim + j)
		}
	}
	return vectors
}

func TestLoad(t *testing.T) {
	vectors := testVectors(3, 5)
	path := writeTestFile(t, vectors)

	s := New(4, 5, distance.SquaredL2)
	n, err := s.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, s.NumPoints())

	for i, want := range vectors {
		got := s.Vector(model.LocationID(i))
		assert.Equal(t, want, got[:5], "vector %d", i)
		assert.Equal(t, []float32{0, 0, 0}, got[5:], "padding %d", i)
	}
}

func TestLoadResizesWhenFileLarger(t *testing.T) {
	vectors := testVectors(10, 5)
	path := writeTestFile(t, vectors)

	s := New(2, 5, distance.SquaredL2)
	n, err := s.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, 10, s.MaxPoints())

	// Every loaded id is retrievable after the internal resize.
	for i := range vectors {
		assert.Equal(t, vectors[i], s.Vector(model.LocationID(i))[:5])
	}
}

func TestLoadDimensionMismatch(t *testing.T) {
	path := writeTestFile(t, testVectors(2, 7))

	s := New(4, 5, distance.SquaredL2)
	_, err := s.Load(path)

	var dimErr *DimensionError
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, 5, dimErr.Expected)
	assert.Equal(t, 7, dimErr.Actual)

	// The buffer is released; the store requires reconstruction.
	assert.True(t, s.Released())
}

func TestLoadMissingFile(t *testing.T) {
	s := New(4, 5, distance.SquaredL2)
	s.SetVector(0, []float32{1, 2, 3, 4, 5})

	_, err := s.Load(filepath.Join(t.TempDir(), "missing.bin"))
	require.ErrorIs(t, err, os.ErrNotExist)

	// Surfaced before any buffer mutation.
	assert.False(t, s.Released())
	assert.Equal(t, []float32{1, 2, 3, 4, 5}, s.Vector(0)[:5])
}

func TestLoadTruncatedFile(t *testing.T) {
	path := writeTestFile(t, testVectors(3, 5))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data[:len(data)-4], 0o600))

	s := New(4, 5, distance.SquaredL2)
	_, err = s.Load(path)
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestLoadFrom(t *testing.T) {
	vectors := testVectors(3, 5)
	path := writeTestFile(t, vectors)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	s := New(2, 5, distance.SquaredL2)
	n, err := s.LoadFrom(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, s.MaxPoints())

	for i := range vectors {
		assert.Equal(t, vectors[i], s.Vector(model.LocationID(i))[:5])
	}
}

func TestLoadFromDimensionMismatch(t *testing.T) {
	path := writeTestFile(t, testVectors(2, 9))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	s := New(4, 5, distance.SquaredL2)
	_, err = s.LoadFrom(bytes.NewReader(data))

	var dimErr *DimensionError
	require.ErrorAs(t, err, &dimErr)
	assert.True(t, s.Released())
}

func TestSaveIsNoOp(t *testing.T) {
	s := New(2, 5, distance.SquaredL2)
	path := filepath.Join(t.TempDir(), "out.bin")

	require.NoError(t, s.Save(path))

	_, err := os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
