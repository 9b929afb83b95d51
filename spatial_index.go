package dbscan

import (
	"math"
	"sort"
)

// pruneSlack widens every pruning bound so that rounding in the reduced
// distance space never discards a point that Distance would include.
const pruneSlack = 1e-9

// NodeData describes a single node in a spatial tree.
type NodeData struct {
	IdxStart, IdxEnd int
	IsLeaf           bool
	Radius           float64 // ball tree radius; 0 for KD-tree
}

// SpatialIndex answers radius queries over a fixed set of training points
// without materializing pairwise distances. Results are training indices
// sorted ascending and always include every point at distance <= eps,
// the query point itself and exact duplicates included.
type SpatialIndex interface {
	// RangeQuery returns every training point within eps of training point i.
	RangeQuery(i int, eps float64) []int

	// RangeQueryPoint returns every training point within eps of q.
	RangeQueryPoint(q []float64, eps float64) []int

	// NumPoints returns the number of points in the index.
	NumPoints() int

	// NumFeatures returns the dimensionality of each point.
	NumFeatures() int

	// Point returns training point i. The slice aliases index storage and
	// must not be modified.
	Point(i int) []float64

	// Metric returns the distance metric the index was built with.
	Metric() DistanceMetric
}

// KNNIndex is a SpatialIndex that also answers k-nearest-neighbour queries.
type KNNIndex interface {
	SpatialIndex

	// QueryKNN finds the k nearest neighbors for each row in queryData.
	// queryData is flat row-major with queryRows rows.
	// Returns per-query neighbor indices and distances (both sorted by distance).
	QueryKNN(queryData []float64, queryRows, k int) (indices [][]int, distances [][]float64)
}

// BuildIndex validates data and builds a spatial index of the requested
// kind. eps sizes grid cells and is ignored by the other kinds; leafSize
// bounds tree leaves and is ignored by the brute and grid kinds.
func BuildIndex(data [][]float64, metric DistanceMetric, kind IndexKind, eps float64, leafSize int) (SpatialIndex, error) {
	if metric == nil {
		metric = EuclideanMetric{}
	}
	if kind == "" {
		kind = IndexAuto
	}
	flat, n, dims, err := flattenPoints(data)
	if err != nil {
		return nil, err
	}
	resolved, err := selectIndex(kind, metric, dims)
	if err != nil {
		return nil, err
	}
	if resolved == IndexGrid && !(eps > 0) {
		return nil, invalidInput("eps", "grid index needs a positive cell size, got %v", eps)
	}
	if leafSize < 1 {
		leafSize = defaultLeafSize
	}
	return newIndex(resolved, flat, n, dims, metric, eps, leafSize), nil
}

// newIndex builds an already-validated index over flat row-major data.
func newIndex(kind IndexKind, flat []float64, n, dims int, metric DistanceMetric, eps float64, leafSize int) SpatialIndex {
	switch kind {
	case IndexKDTree:
		return NewKDTree(flat, n, dims, metric, leafSize)
	case IndexBallTree:
		return NewBallTree(flat, n, dims, metric, leafSize)
	case IndexGrid:
		return NewGridIndex(flat, n, dims, metric, eps)
	default:
		return NewBruteIndex(flat, n, dims, metric)
	}
}

// flattenPoints copies a dataset into one flat row-major buffer, rejecting
// empty input, ragged rows and non-finite coordinates.
func flattenPoints(data [][]float64) ([]float64, int, int, error) {
	n := len(data)
	if n == 0 {
		return nil, 0, 0, invalidInput("dataset", "no points")
	}
	dims := len(data[0])
	if dims == 0 {
		return nil, 0, 0, invalidInput("dataset", "points have no features")
	}
	flat := make([]float64, n*dims)
	for i, row := range data {
		if len(row) != dims {
			return nil, 0, 0, invalidInput("dataset", "point %d has %d features, want %d", i, len(row), dims)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, 0, 0, invalidInput("dataset", "point %d feature %d is %v", i, j, v)
			}
		}
		copy(flat[i*dims:], row)
	}
	return flat, n, dims, nil
}

// checkQuery validates a single query vector against the index dimensionality.
func checkQuery(q []float64, row, dims int) error {
	if len(q) != dims {
		return invalidInput("points", "point %d has %d features, want %d", row, len(q), dims)
	}
	for j, v := range q {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalidInput("points", "point %d feature %d is %v", row, j, v)
		}
	}
	return nil
}

// --- brute-force index ---

// BruteIndex answers queries with a linear scan. It needs O(n) memory and
// works with any metric, which makes it the reference every other index is
// tested against.
type BruteIndex struct {
	data   []float64
	n      int
	dims   int
	metric DistanceMetric
}

// NewBruteIndex wraps flat row-major data with n points of dimensionality
// dims. The data slice is copied.
func NewBruteIndex(data []float64, n, dims int, metric DistanceMetric) *BruteIndex {
	dataCopy := make([]float64, len(data))
	copy(dataCopy, data)
	return &BruteIndex{data: dataCopy, n: n, dims: dims, metric: metric}
}

func (b *BruteIndex) NumPoints() int         { return b.n }
func (b *BruteIndex) NumFeatures() int       { return b.dims }
func (b *BruteIndex) Metric() DistanceMetric { return b.metric }
func (b *BruteIndex) Point(i int) []float64  { return b.data[i*b.dims : (i+1)*b.dims] }

func (b *BruteIndex) RangeQuery(i int, eps float64) []int {
	return b.RangeQueryPoint(b.Point(i), eps)
}

func (b *BruteIndex) RangeQueryPoint(q []float64, eps float64) []int {
	var out []int
	for i := 0; i < b.n; i++ {
		if b.metric.Distance(q, b.Point(i)) <= eps {
			out = append(out, i)
		}
	}
	return out
}

// QueryKNN finds the k nearest neighbors for each row in queryData.
func (b *BruteIndex) QueryKNN(queryData []float64, queryRows, k int) ([][]int, [][]float64) {
	indices := make([][]int, queryRows)
	distances := make([][]float64, queryRows)
	for q := 0; q < queryRows; q++ {
		query := queryData[q*b.dims : (q+1)*b.dims]
		h := &knnHeap{}
		for i := 0; i < b.n; i++ {
			h.offer(knnItem{index: i, dist: b.metric.Distance(query, b.Point(i))}, k)
		}
		indices[q], distances[q] = h.drain()
	}
	return indices, distances
}

// sortedIndices sorts a query result in place and returns it.
func sortedIndices(out []int) []int {
	sort.Ints(out)
	return out
}
