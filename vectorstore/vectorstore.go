package vectorstore

import (
	"fmt"
	"io"
	"os"

	"github.com/hupe1980/vamana/distance"
	"github.com/hupe1980/vamana/internal/mem"
	"github.com/hupe1980/vamana/internal/mmap"
	"github.com/hupe1980/vamana/model"
)

// Store owns a contiguous aligned array of raw vectors indexed by location
// id. See the package documentation for the concurrency contract.
type Store struct {
	data []float32

	maxPoints  int
	numPoints  int
	dim        int
	alignedDim int

	metric distance.Func
}

// New allocates a zero-initialized store for maxPoints vectors of the
// given dimension. The injected metric is exposed through Distance; the
// store itself never computes distances.
func New(maxPoints, dim int, metric distance.Func) *Store {
	alignedDim := mem.RoundUp(dim, 8)

	return &Store{
		data:       mem.AllocAlignedFloat32(maxPoints * alignedDim),
		maxPoints:  maxPoints,
		dim:        dim,
		alignedDim: alignedDim,
		metric:     metric,
	}
}

// Dim returns the true vector dimension.
func (s *Store) Dim() int { return s.dim }

// AlignedDim returns the padded slot width.
func (s *Store) AlignedDim() int { return s.alignedDim }

// MaxPoints returns the allocated capacity in vectors.
func (s *Store) MaxPoints() int { return s.maxPoints }

// NumPoints returns the number of vectors populated by the last Load.
func (s *Store) NumPoints() int { return s.numPoints }

// Vector returns the id'th slot spanning the aligned width. The returned
// slice aliases store memory. An out-of-range id is a caller bug: this
// sits on the hot path and performs no explicit validation beyond Go's
// slice bounds.
func (s *Store) Vector(id model.LocationID) []float32 {
	off := int(id) * s.alignedDim
	return s.data[off : off+s.alignedDim]
}

// SetVector copies exactly the true dimension from v into the id'th slot,
// leaving the zero padding untouched. v must hold at least Dim components.
// Requires external quiescence.
func (s *Store) SetVector(id model.LocationID, v []float32) {
	off := int(id) * s.alignedDim
	copy(s.data[off:off+s.dim], v[:s.dim])
}

// Distance evaluates the injected metric between the id'th vector and
// query. query must span the aligned width with zeroed padding.
func (s *Store) Distance(id model.LocationID, query []float32) float32 {
	return s.metric(s.Vector(id), query)
}

// Resize grows or shrinks the store to newMax vectors, preserving the
// overlapping prefix. Requires external quiescence.
func (s *Store) Resize(newMax int) {
	newData := mem.AllocAlignedFloat32(newMax * s.alignedDim)

	keep := s.numPoints
	if keep > newMax {
		keep = newMax
	}
	copy(newData, s.data[:keep*s.alignedDim])

	s.data = newData
	s.maxPoints = newMax
	if s.numPoints > newMax {
		s.numPoints = newMax
	}
}

// Released reports whether the backing buffer has been released (after a
// failed Load). A released store must be reconstructed before use.
func (s *Store) Released() bool {
	return s.data == nil
}

// release drops the backing buffer. A failed load leaves the store
// unusable on purpose: recovery needs a re-allocation the caller should
// drive explicitly.
func (s *Store) release() {
	s.data = nil
	s.maxPoints = 0
	s.numPoints = 0
}

// Load reads a vector file into aligned slots, resizing first when the
// file holds more points than allocated. On a dimension mismatch the
// buffer is released and a *DimensionError returned. A missing file is
// reported before any mutation. Returns the number of points loaded.
func (s *Store) Load(path string) (int, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, fmt.Errorf("vectorstore: stat %s: %w", path, err)
	}

	m, err := mmap.Open(path)
	if err != nil {
		return 0, fmt.Errorf("vectorstore: mmap %s: %w", path, err)
	}
	defer m.Close()

	// The body is consumed in one pass.
	_ = m.Advise(mmap.AccessSequential)

	numPoints, fileDim, err := parseHeader(m.Bytes())
	if err != nil {
		return 0, err
	}

	if err := s.prepare(numPoints, fileDim); err != nil {
		return 0, err
	}

	body, err := bodyFloats(m.Bytes(), numPoints, fileDim)
	if err != nil {
		return 0, err
	}

	for i := 0; i < numPoints; i++ {
		copy(s.data[i*s.alignedDim:i*s.alignedDim+s.dim], body[i*fileDim:(i+1)*fileDim])
	}
	s.numPoints = numPoints

	return numPoints, nil
}

// LoadFrom is Load over a generic reader, for callers that wrap the file
// in rate-limited or remote readers. The same header validation and
// resize-on-demand semantics apply.
func (s *Store) LoadFrom(r io.Reader) (int, error) {
	numPoints, fileDim, err := readHeader(r)
	if err != nil {
		return 0, err
	}

	if err := s.prepare(numPoints, fileDim); err != nil {
		return 0, err
	}

	row := make([]float32, fileDim)
	for i := 0; i < numPoints; i++ {
		if err := readFloats(r, row); err != nil {
			return 0, fmt.Errorf("vectorstore: read vector %d: %w", i, err)
		}
		copy(s.data[i*s.alignedDim:i*s.alignedDim+s.dim], row)
	}
	s.numPoints = numPoints

	return numPoints, nil
}

// prepare validates the file dimension against the configured one and
// grows the store when the file holds more points than allocated.
func (s *Store) prepare(numPoints, fileDim int) error {
	if fileDim != s.dim {
		s.release()
		return &DimensionError{Expected: s.dim, Actual: fileDim}
	}

	if numPoints > s.maxPoints {
		s.Resize(numPoints)
	}

	return nil
}

// Save is a deliberate no-op: persisting the store is an external
// collaborator's responsibility.
func (s *Store) Save(path string) error {
	return nil
}
