package dbscan

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DistanceMetric provides distance computation with optional reduced distance
// for tree-pruning optimizations (e.g., squared Euclidean skips sqrt).
// DistToRdist and RdistToDist convert between the two spaces and must be
// monotone inverses of each other.
type DistanceMetric interface {
	Distance(a, b []float64) float64
	ReducedDistance(a, b []float64) float64
	DistToRdist(d float64) float64
	RdistToDist(r float64) float64
}

// DistanceFunc adapts a plain function into a DistanceMetric.
// ReducedDistance delegates to the same function.
type DistanceFunc func(a, b []float64) float64

func (f DistanceFunc) Distance(a, b []float64) float64        { return f(a, b) }
func (f DistanceFunc) ReducedDistance(a, b []float64) float64 { return f(a, b) }
func (DistanceFunc) DistToRdist(d float64) float64            { return d }
func (DistanceFunc) RdistToDist(r float64) float64            { return r }

// EuclideanMetric computes the Euclidean (L2) distance.
// ReducedDistance returns squared Euclidean distance (skips sqrt).
type EuclideanMetric struct{}

func (EuclideanMetric) Distance(a, b []float64) float64 {
	return math.Sqrt(euclideanSumOfSquares(a, b))
}

func (EuclideanMetric) ReducedDistance(a, b []float64) float64 {
	return euclideanSumOfSquares(a, b)
}

func (EuclideanMetric) DistToRdist(d float64) float64 { return d * d }
func (EuclideanMetric) RdistToDist(r float64) float64 { return math.Sqrt(r) }

func euclideanSumOfSquares(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// ManhattanMetric computes the Manhattan (L1 / city-block) distance.
type ManhattanMetric struct{}

func (ManhattanMetric) Distance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum
}

func (m ManhattanMetric) ReducedDistance(a, b []float64) float64 { return m.Distance(a, b) }
func (ManhattanMetric) DistToRdist(d float64) float64            { return d }
func (ManhattanMetric) RdistToDist(r float64) float64            { return r }

// CosineMetric computes the cosine distance: 1 - cosine_similarity.
// Two zero vectors are at distance 0; a zero vector is at distance 1 from
// any other vector. Cosine distance does not satisfy the triangle
// inequality, so it is only served by BruteIndex.
type CosineMetric struct{}

func (CosineMetric) Distance(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	switch {
	case normA == 0 && normB == 0:
		return 0
	case normA == 0 || normB == 0:
		return 1
	}
	return math.Max(0, 1.0-dot/math.Sqrt(normA*normB))
}

func (m CosineMetric) ReducedDistance(a, b []float64) float64 { return m.Distance(a, b) }
func (CosineMetric) DistToRdist(d float64) float64            { return d }
func (CosineMetric) RdistToDist(r float64) float64            { return r }

// ChebyshevMetric computes the Chebyshev (L-infinity) distance.
type ChebyshevMetric struct{}

func (ChebyshevMetric) Distance(a, b []float64) float64 {
	return floats.Distance(a, b, math.Inf(1))
}

func (m ChebyshevMetric) ReducedDistance(a, b []float64) float64 { return m.Distance(a, b) }
func (ChebyshevMetric) DistToRdist(d float64) float64            { return d }
func (ChebyshevMetric) RdistToDist(r float64) float64            { return r }

// MinkowskiMetric computes the Minkowski distance parameterized by P.
// P = 1 is the taxicab distance, P = 2 is Euclidean and P = +Inf is
// Chebyshev. P must be >= 1; Config validation rejects smaller values
// before any distance is computed.
// ReducedDistance returns sum(|a[i]-b[i]|^P) without the final root, or the
// largest axis gap when P is infinite.
type MinkowskiMetric struct {
	P float64
}

func (m MinkowskiMetric) Distance(a, b []float64) float64 {
	return floats.Distance(a, b, m.P)
}

func (m MinkowskiMetric) ReducedDistance(a, b []float64) float64 {
	if m.infinite() {
		return floats.Distance(a, b, m.P)
	}
	var sum float64
	for i := range a {
		sum += math.Pow(math.Abs(a[i]-b[i]), m.P)
	}
	return sum
}

func (m MinkowskiMetric) DistToRdist(d float64) float64 {
	if m.infinite() {
		return d
	}
	return math.Pow(d, m.P)
}

func (m MinkowskiMetric) RdistToDist(r float64) float64 {
	if m.infinite() {
		return r
	}
	return math.Pow(r, 1.0/m.P)
}

func (m MinkowskiMetric) infinite() bool { return math.IsInf(m.P, 1) }

// AxisBounded reports whether every per-axis gap is a lower bound on the
// metric: |a[j]-b[j]| <= Distance(a, b) for all j. KD-trees and grids rely
// on this to discard whole boxes or cells.
func AxisBounded(m DistanceMetric) bool {
	switch v := m.(type) {
	case EuclideanMetric, ManhattanMetric, ChebyshevMetric:
		return true
	case MinkowskiMetric:
		return v.P >= 1
	default:
		return false
	}
}

// IsTrueMetric reports whether m is known to satisfy the triangle
// inequality, which ball-tree pruning requires.
func IsTrueMetric(m DistanceMetric) bool {
	return AxisBounded(m)
}
