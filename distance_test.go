package dbscan

import (
	"math"
	"math/rand"
	"testing"
)

const floatTol = 1e-10

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// --- EuclideanMetric tests ---

func TestEuclideanDistance_IdenticalVectors(t *testing.T) {
	m := EuclideanMetric{}
	a := []float64{1, 2, 3}
	d := m.Distance(a, a)
	if d != 0 {
		t.Errorf("expected 0, got %v", d)
	}
}

func TestEuclideanDistance_ZeroVectors(t *testing.T) {
	m := EuclideanMetric{}
	a := []float64{0, 0, 0}
	b := []float64{0, 0, 0}
	d := m.Distance(a, b)
	if d != 0 {
		t.Errorf("expected 0, got %v", d)
	}
}

func TestEuclideanDistance_UnitVectors(t *testing.T) {
	m := EuclideanMetric{}
	a := []float64{1, 0, 0}
	b := []float64{0, 1, 0}
	// sqrt((1-0)^2 + (0-1)^2 + (0-0)^2) = sqrt(2)
	expected := math.Sqrt(2)
	d := m.Distance(a, b)
	if !almostEqual(d, expected, floatTol) {
		t.Errorf("expected %v, got %v", expected, d)
	}
}

func TestEuclideanDistance_HandComputed(t *testing.T) {
	m := EuclideanMetric{}
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}
	// sqrt((4-1)^2 + (6-2)^2 + (3-3)^2) = sqrt(9+16+0) = 5
	d := m.Distance(a, b)
	if !almostEqual(d, 5.0, floatTol) {
		t.Errorf("expected 5.0, got %v", d)
	}
}

func TestEuclideanReducedDistance(t *testing.T) {
	m := EuclideanMetric{}
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}
	// squared: 9+16+0 = 25
	rd := m.ReducedDistance(a, b)
	if !almostEqual(rd, 25.0, floatTol) {
		t.Errorf("expected 25.0, got %v", rd)
	}
}

// --- ManhattanMetric tests ---

func TestManhattanDistance_IdenticalVectors(t *testing.T) {
	m := ManhattanMetric{}
	a := []float64{3, 4, 5}
	if d := m.Distance(a, a); d != 0 {
		t.Errorf("expected 0, got %v", d)
	}
}

func TestManhattanDistance_HandComputed(t *testing.T) {
	m := ManhattanMetric{}
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}
	// |4-1| + |6-2| + |3-3| = 3+4+0 = 7
	d := m.Distance(a, b)
	if !almostEqual(d, 7.0, floatTol) {
		t.Errorf("expected 7.0, got %v", d)
	}
}

func TestManhattanReducedDistance_EqualsDistance(t *testing.T) {
	m := ManhattanMetric{}
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}
	d := m.Distance(a, b)
	rd := m.ReducedDistance(a, b)
	if d != rd {
		t.Errorf("ReducedDistance (%v) != Distance (%v)", rd, d)
	}
}

// --- CosineMetric tests ---

func TestCosineDistance_ParallelVectors(t *testing.T) {
	m := CosineMetric{}
	a := []float64{1, 2, 3}
	b := []float64{2, 4, 6}
	// cosine similarity = 1, distance = 0
	d := m.Distance(a, b)
	if !almostEqual(d, 0.0, floatTol) {
		t.Errorf("expected 0, got %v", d)
	}
}

func TestCosineDistance_OrthogonalVectors(t *testing.T) {
	m := CosineMetric{}
	a := []float64{1, 0}
	b := []float64{0, 1}
	// cosine similarity = 0, distance = 1
	d := m.Distance(a, b)
	if !almostEqual(d, 1.0, floatTol) {
		t.Errorf("expected 1, got %v", d)
	}
}

func TestCosineDistance_IdenticalVectors(t *testing.T) {
	m := CosineMetric{}
	a := []float64{3, 4}
	d := m.Distance(a, a)
	if !almostEqual(d, 0.0, floatTol) {
		t.Errorf("expected 0, got %v", d)
	}
}

func TestCosineDistance_HandComputed(t *testing.T) {
	m := CosineMetric{}
	a := []float64{1, 0, 0}
	b := []float64{1, 1, 0}
	// dot = 1, |a|=1, |b|=sqrt(2)
	// cosine_sim = 1/sqrt(2), distance = 1 - 1/sqrt(2) ~ 0.292893
	expected := 1.0 - 1.0/math.Sqrt(2)
	d := m.Distance(a, b)
	if !almostEqual(d, expected, floatTol) {
		t.Errorf("expected %v, got %v", expected, d)
	}
}

func TestCosineReducedDistance_EqualsDistance(t *testing.T) {
	m := CosineMetric{}
	a := []float64{1, 2, 3}
	b := []float64{4, 5, 6}
	d := m.Distance(a, b)
	rd := m.ReducedDistance(a, b)
	if d != rd {
		t.Errorf("ReducedDistance (%v) != Distance (%v)", rd, d)
	}
}

// --- ChebyshevMetric tests ---

func TestChebyshevDistance_IdenticalVectors(t *testing.T) {
	m := ChebyshevMetric{}
	a := []float64{1, 2, 3}
	if d := m.Distance(a, a); d != 0 {
		t.Errorf("expected 0, got %v", d)
	}
}

func TestChebyshevDistance_HandComputed(t *testing.T) {
	m := ChebyshevMetric{}
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}
	// max(|4-1|, |6-2|, |3-3|) = max(3, 4, 0) = 4
	d := m.Distance(a, b)
	if !almostEqual(d, 4.0, floatTol) {
		t.Errorf("expected 4.0, got %v", d)
	}
}

func TestChebyshevReducedDistance_EqualsDistance(t *testing.T) {
	m := ChebyshevMetric{}
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}
	d := m.Distance(a, b)
	rd := m.ReducedDistance(a, b)
	if d != rd {
		t.Errorf("ReducedDistance (%v) != Distance (%v)", rd, d)
	}
}

// --- MinkowskiMetric tests ---

func TestMinkowskiDistance_IdenticalVectors(t *testing.T) {
	m := MinkowskiMetric{P: 3}
	a := []float64{1, 2, 3}
	if d := m.Distance(a, a); d != 0 {
		t.Errorf("expected 0, got %v", d)
	}
}

func TestMinkowskiDistance_P1_EqualsManhattan(t *testing.T) {
	mink := MinkowskiMetric{P: 1}
	manh := ManhattanMetric{}
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}
	dm := mink.Distance(a, b)
	dh := manh.Distance(a, b)
	if !almostEqual(dm, dh, floatTol) {
		t.Errorf("Minkowski P=1 (%v) != Manhattan (%v)", dm, dh)
	}
}

func TestMinkowskiDistance_P2_EqualsEuclidean(t *testing.T) {
	mink := MinkowskiMetric{P: 2}
	eucl := EuclideanMetric{}
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}
	dm := mink.Distance(a, b)
	de := eucl.Distance(a, b)
	if !almostEqual(dm, de, floatTol) {
		t.Errorf("Minkowski P=2 (%v) != Euclidean (%v)", dm, de)
	}
}

func TestMinkowskiDistance_P3_HandComputed(t *testing.T) {
	m := MinkowskiMetric{P: 3}
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}
	// (|3|^3 + |4|^3 + |0|^3)^(1/3) = (27+64)^(1/3) = 91^(1/3)
	expected := math.Pow(91.0, 1.0/3.0)
	d := m.Distance(a, b)
	if !almostEqual(d, expected, floatTol) {
		t.Errorf("expected %v, got %v", expected, d)
	}
}

func TestMinkowskiReducedDistance_P2_IsSquaredEuclidean(t *testing.T) {
	m := MinkowskiMetric{P: 2}
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}
	// reduced distance for P=2 is sum(|a[i]-b[i]|^P) = 25
	rd := m.ReducedDistance(a, b)
	if !almostEqual(rd, 25.0, floatTol) {
		t.Errorf("expected 25.0, got %v", rd)
	}
}

// --- DistanceFunc adapter tests ---

func TestDistanceFunc_Adapter(t *testing.T) {
	fn := DistanceFunc(func(a, b []float64) float64 {
		sum := 0.0
		for i := range a {
			sum += math.Abs(a[i] - b[i])
		}
		return sum
	})
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}

	d := fn.Distance(a, b)
	if !almostEqual(d, 7.0, floatTol) {
		t.Errorf("expected 7.0, got %v", d)
	}

	rd := fn.ReducedDistance(a, b)
	if d != rd {
		t.Errorf("ReducedDistance (%v) != Distance (%v) for DistanceFunc adapter", rd, d)
	}
}

func TestDistanceFunc_SatisfiesInterface(t *testing.T) {
	fn := DistanceFunc(func(a, b []float64) float64 { return 0 })
	var _ DistanceMetric = fn // compile-time check
}

// --- Zero vector tests for all metrics ---

func TestAllMetrics_ZeroVectors(t *testing.T) {
	metrics := map[string]DistanceMetric{
		"euclidean":  EuclideanMetric{},
		"manhattan":  ManhattanMetric{},
		"cosine":     CosineMetric{},
		"chebyshev":  ChebyshevMetric{},
		"minkowski3": MinkowskiMetric{P: 3},
	}
	zero := []float64{0, 0, 0}

	for name, m := range metrics {
		d := m.Distance(zero, zero)
		if d != 0 {
			t.Errorf("%s: expected 0 for zero vectors, got %v", name, d)
		}
	}
}

func TestCosineDistance_ZeroAgainstNonZero(t *testing.T) {
	m := CosineMetric{}
	zero := []float64{0, 0}
	v := []float64{3, 4}
	if d := m.Distance(zero, v); d != 1 {
		t.Errorf("expected 1, got %v", d)
	}
	if d := m.Distance(v, zero); d != 1 {
		t.Errorf("expected 1, got %v", d)
	}
}

func TestCosineDistance_NeverNegative(t *testing.T) {
	m := CosineMetric{}
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 200; trial++ {
		a := []float64{rng.NormFloat64() * 1e3, rng.NormFloat64() * 1e-3, rng.NormFloat64()}
		if d := m.Distance(a, a); d < 0 || d > 1e-12 {
			t.Fatalf("self distance of %v = %v", a, d)
		}
	}
}

func TestMinkowskiDistance_InfiniteP_EqualsChebyshev(t *testing.T) {
	m := MinkowskiMetric{P: math.Inf(1)}
	cheb := ChebyshevMetric{}
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}
	if d := m.Distance(a, b); d != cheb.Distance(a, b) {
		t.Errorf("Distance = %v, want %v", d, cheb.Distance(a, b))
	}
	if rd := m.ReducedDistance(a, b); rd != 4 {
		t.Errorf("ReducedDistance = %v, want 4", rd)
	}
	if r := m.DistToRdist(2.5); r != 2.5 {
		t.Errorf("DistToRdist(2.5) = %v, want 2.5", r)
	}
	if d := m.RdistToDist(2.5); d != 2.5 {
		t.Errorf("RdistToDist(2.5) = %v, want 2.5", d)
	}
}

// --- Reduced distance conversions ---

func TestDistToRdist_RoundTrip(t *testing.T) {
	metrics := map[string]DistanceMetric{
		"euclidean":    EuclideanMetric{},
		"manhattan":    ManhattanMetric{},
		"chebyshev":    ChebyshevMetric{},
		"minkowski3":   MinkowskiMetric{P: 3},
		"minkowskiInf": MinkowskiMetric{P: math.Inf(1)},
		"func":         DistanceFunc(func(a, b []float64) float64 { return 0 }),
	}
	for name, m := range metrics {
		for _, d := range []float64{0, 0.25, 1, 3.5, 1e6} {
			got := m.RdistToDist(m.DistToRdist(d))
			if !almostEqual(got, d, 1e-9*math.Max(1, d)) {
				t.Errorf("%s: RdistToDist(DistToRdist(%v)) = %v", name, d, got)
			}
		}
	}
}

func TestDistToRdist_MatchesReducedDistance(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{4, 6, 3}
	for name, m := range map[string]DistanceMetric{
		"euclidean":  EuclideanMetric{},
		"manhattan":  ManhattanMetric{},
		"chebyshev":  ChebyshevMetric{},
		"minkowski3": MinkowskiMetric{P: 3},
	} {
		want := m.ReducedDistance(a, b)
		got := m.DistToRdist(m.Distance(a, b))
		if !almostEqual(got, want, 1e-9) {
			t.Errorf("%s: DistToRdist(Distance) = %v, ReducedDistance = %v", name, got, want)
		}
	}
}

// --- Metric classification ---

func TestAxisBounded(t *testing.T) {
	tests := []struct {
		name   string
		metric DistanceMetric
		want   bool
	}{
		{"euclidean", EuclideanMetric{}, true},
		{"manhattan", ManhattanMetric{}, true},
		{"chebyshev", ChebyshevMetric{}, true},
		{"minkowski P=1", MinkowskiMetric{P: 1}, true},
		{"minkowski P=4", MinkowskiMetric{P: 4}, true},
		{"minkowski P=+Inf", MinkowskiMetric{P: math.Inf(1)}, true},
		{"minkowski P=0.5", MinkowskiMetric{P: 0.5}, false},
		{"cosine", CosineMetric{}, false},
		{"func", DistanceFunc(func(a, b []float64) float64 { return 0 }), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AxisBounded(tt.metric); got != tt.want {
				t.Errorf("AxisBounded = %v, want %v", got, tt.want)
			}
			if got := IsTrueMetric(tt.metric); got != tt.want {
				t.Errorf("IsTrueMetric = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAxisBounded_HoldsOnRandomPairs(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	metrics := []DistanceMetric{EuclideanMetric{}, ManhattanMetric{}, ChebyshevMetric{}, MinkowskiMetric{P: 1.5}}
	for trial := 0; trial < 200; trial++ {
		a := []float64{rng.NormFloat64() * 10, rng.NormFloat64() * 10, rng.NormFloat64() * 10}
		b := []float64{rng.NormFloat64() * 10, rng.NormFloat64() * 10, rng.NormFloat64() * 10}
		for _, m := range metrics {
			d := m.Distance(a, b)
			for j := range a {
				if gap := math.Abs(a[j] - b[j]); gap > d*(1+1e-12) {
					t.Fatalf("%T: axis gap %v exceeds distance %v", m, gap, d)
				}
			}
		}
	}
}
