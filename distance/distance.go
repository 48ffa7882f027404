package distance

import (
	"fmt"
	"math"
)

// Func computes the pairwise distance between two equally sized vectors.
// Both slices span the full aligned width; padding beyond the true
// dimension is zero on both sides and therefore never biases the result.
type Func func(a, b []float32) float32

// Metric identifies a built-in distance function.
type Metric int

const (
	// MetricL2 is squared Euclidean distance.
	MetricL2 Metric = iota
	// MetricCosine is cosine distance, assuming L2-normalized inputs.
	MetricCosine
	// MetricDot is negated inner product (smaller = more similar).
	MetricDot
)

func (m Metric) String() string {
	switch m {
	case MetricL2:
		return "L2"
	case MetricCosine:
		return "Cosine"
	case MetricDot:
		return "Dot"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// FuncFor returns the reference kernel for a metric.
func FuncFor(m Metric) (Func, error) {
	switch m {
	case MetricL2:
		return SquaredL2, nil
	case MetricCosine:
		return Cosine, nil
	case MetricDot:
		return NegativeDot, nil
	default:
		return nil, fmt.Errorf("distance: unknown metric %d", int(m))
	}
}

// SquaredL2 calculates the squared L2 distance between two vectors.
// Assumes equal lengths (caller's responsibility).
func SquaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Dot calculates the dot product of two vectors.
// Assumes equal lengths (caller's responsibility).
func Dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// NegativeDot returns -Dot(a, b) so that smaller means more similar.
func NegativeDot(a, b []float32) float32 {
	return -Dot(a, b)
}

// Cosine calculates cosine distance assuming both inputs are
// L2-normalized: 1 - <a, b>.
func Cosine(a, b []float32) float32 {
	return 1 - Dot(a, b)
}

// NormalizeL2InPlace L2-normalizes v in place.
// Returns false if v has zero L2 norm.
func NormalizeL2InPlace(v []float32) bool {
	if len(v) == 0 {
		return false
	}
	norm2 := Dot(v, v)
	if norm2 == 0 {
		return false
	}
	inv := 1 / float32(math.Sqrt(float64(norm2)))
	for i := range v {
		v[i] *= inv
	}
	return true
}
