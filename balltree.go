package dbscan

import (
	"math"
	"sort"
)

// BallTree is a ball tree spatial index for radius and nearest-neighbor
// queries. Each node stores a centroid and radius defining a ball that
// encloses its points, so pruning only relies on the triangle inequality.
//
// The tree is stored as a complete binary tree in array form:
//   - node i has children at 2*i+1 and 2*i+2
type BallTree struct {
	data     []float64 // flat row-major point data (n * dims)
	n        int       // number of points
	dims     int       // dimensionality
	leafSize int
	metric   DistanceMetric
	idxArray []int      // permutation: tree-order position → original index
	nodes    []NodeData // one entry per tree node; Radius is used
	// centroids[node*dims .. (node+1)*dims) = centroid of node
	centroids []float64
	numNodes  int
}

// NewBallTree builds a ball tree from flat row-major data with n points
// of dimensionality dims. leafSize controls the max points per leaf node.
func NewBallTree(data []float64, n, dims int, metric DistanceMetric, leafSize int) *BallTree {
	if leafSize < 1 {
		leafSize = 1
	}

	dataCopy := make([]float64, len(data))
	copy(dataCopy, data)
	idxArray := make([]int, n)
	for i := range idxArray {
		idxArray[i] = i
	}

	maxNodes := kdMaxNodes(n, leafSize) // reuse the same upper bound
	t := &BallTree{
		data:      dataCopy,
		n:         n,
		dims:      dims,
		leafSize:  leafSize,
		metric:    metric,
		idxArray:  idxArray,
		nodes:     make([]NodeData, maxNodes),
		centroids: make([]float64, maxNodes*dims),
	}

	if n > 0 {
		t.buildNode(0, 0, n)
		t.numNodes = countNodes(t.nodes, 0, len(t.nodes))
	}

	return t
}

// buildNode recursively builds the ball tree for points in idxArray[start:end].
func (t *BallTree) buildNode(nodeID, start, end int) {
	for nodeID >= len(t.nodes) {
		t.nodes = append(t.nodes, NodeData{})
		t.centroids = append(t.centroids, make([]float64, t.dims)...)
	}

	t.computeCentroid(nodeID, start, end)

	// Radius: max distance from centroid to any point in this node.
	centroid := t.centroids[nodeID*t.dims : (nodeID+1)*t.dims]
	var radius float64
	for i := start; i < end; i++ {
		ptIdx := t.idxArray[i]
		d := t.metric.Distance(centroid, t.Point(ptIdx))
		if d > radius {
			radius = d
		}
	}

	count := end - start
	if count <= t.leafSize {
		t.nodes[nodeID] = NodeData{IdxStart: start, IdxEnd: end, IsLeaf: true, Radius: radius}
		return
	}

	t.nodes[nodeID] = NodeData{IdxStart: start, IdxEnd: end, IsLeaf: false, Radius: radius}

	// Split at the median of the dimension with the greatest spread.
	splitDim := t.findSpreadDim(start, end)
	t.sortByDim(start, end, splitDim)
	mid := start + count/2

	t.buildNode(2*nodeID+1, start, mid)
	t.buildNode(2*nodeID+2, mid, end)
}

// computeCentroid computes the mean of points idxArray[start:end] and stores
// it in the centroids array.
func (t *BallTree) computeCentroid(nodeID, start, end int) {
	base := nodeID * t.dims
	count := float64(end - start)
	for d := 0; d < t.dims; d++ {
		t.centroids[base+d] = 0
	}
	for i := start; i < end; i++ {
		ptIdx := t.idxArray[i]
		for d := 0; d < t.dims; d++ {
			t.centroids[base+d] += t.data[ptIdx*t.dims+d]
		}
	}
	for d := 0; d < t.dims; d++ {
		t.centroids[base+d] /= count
	}
}

// findSpreadDim returns the dimension with the greatest spread among
// points in idxArray[start:end].
func (t *BallTree) findSpreadDim(start, end int) int {
	bestDim := 0
	bestSpread := -1.0
	for d := 0; d < t.dims; d++ {
		minVal := math.Inf(1)
		maxVal := math.Inf(-1)
		for i := start; i < end; i++ {
			v := t.data[t.idxArray[i]*t.dims+d]
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
		spread := maxVal - minVal
		if spread > bestSpread {
			bestSpread = spread
			bestDim = d
		}
	}
	return bestDim
}

// sortByDim sorts idxArray[start:end] by the given dimension, ties by index.
func (t *BallTree) sortByDim(start, end, dim int) {
	sub := t.idxArray[start:end]
	dims := t.dims
	data := t.data
	sort.Slice(sub, func(i, j int) bool {
		a, b := data[sub[i]*dims+dim], data[sub[j]*dims+dim]
		if a != b {
			return a < b
		}
		return sub[i] < sub[j]
	})
}

func (t *BallTree) NumPoints() int            { return t.n }
func (t *BallTree) NumFeatures() int          { return t.dims }
func (t *BallTree) NumNodes() int             { return t.numNodes }
func (t *BallTree) Metric() DistanceMetric    { return t.metric }
func (t *BallTree) IdxArray() []int           { return t.idxArray }
func (t *BallTree) NodeDataArray() []NodeData { return t.nodes[:t.numNodes] }
func (t *BallTree) Point(i int) []float64     { return t.data[i*t.dims : (i+1)*t.dims] }

// centroidDist returns the distance from q to the centroid of node. Any
// point in the node is at least centroidDist - Radius away from q.
func (t *BallTree) centroidDist(node int, q []float64) float64 {
	return t.metric.Distance(q, t.centroids[node*t.dims:(node+1)*t.dims])
}

// reachable reports whether a point of node may lie within r of q, given
// the centroid distance dc. The bound is scaled by pruneSlack relative to
// r + Radius so it holds at any coordinate magnitude.
func (t *BallTree) reachable(node int, dc, r float64) bool {
	return dc <= (r+t.nodes[node].Radius)*(1+pruneSlack)
}

// --- radius queries ---

func (t *BallTree) RangeQuery(i int, eps float64) []int {
	return t.RangeQueryPoint(t.Point(i), eps)
}

// RangeQueryPoint returns the original indices of all points within eps of q.
func (t *BallTree) RangeQueryPoint(q []float64, eps float64) []int {
	var out []int
	if t.n == 0 {
		return out
	}
	t.rangeSearch(0, q, eps, &out)
	return sortedIndices(out)
}

func (t *BallTree) rangeSearch(nodeID int, q []float64, eps float64, out *[]int) {
	if !t.reachable(nodeID, t.centroidDist(nodeID, q), eps) {
		return
	}
	node := t.nodes[nodeID]
	if node.IsLeaf {
		for i := node.IdxStart; i < node.IdxEnd; i++ {
			ptIdx := t.idxArray[i]
			if t.metric.Distance(q, t.Point(ptIdx)) <= eps {
				*out = append(*out, ptIdx)
			}
		}
		return
	}
	t.rangeSearch(2*nodeID+1, q, eps, out)
	t.rangeSearch(2*nodeID+2, q, eps, out)
}

// --- nearest-neighbour queries ---

// QueryKNN finds the k nearest neighbors for each row in queryData.
func (t *BallTree) QueryKNN(queryData []float64, queryRows, k int) ([][]int, [][]float64) {
	indices := make([][]int, queryRows)
	distances := make([][]float64, queryRows)

	for q := 0; q < queryRows; q++ {
		query := queryData[q*t.dims : (q+1)*t.dims]
		h := &knnHeap{}
		if t.n > 0 && k > 0 {
			t.knnSearch(0, query, k, h)
		}
		indices[q], distances[q] = h.drain()
	}

	return indices, distances
}

// knnSearch performs a single-tree KNN traversal for the ball tree.
func (t *BallTree) knnSearch(nodeID int, query []float64, k int, h *knnHeap) {
	node := t.nodes[nodeID]

	if node.IsLeaf {
		for i := node.IdxStart; i < node.IdxEnd; i++ {
			ptIdx := t.idxArray[i]
			h.offer(knnItem{index: ptIdx, dist: t.metric.Distance(query, t.Point(ptIdx))}, k)
		}
		return
	}

	left := 2*nodeID + 1
	right := 2*nodeID + 2
	leftDist := t.centroidDist(left, query)
	rightDist := t.centroidDist(right, query)

	// Visit the child whose ball lower bound is smaller first.
	nearChild, farChild := left, right
	farDist := rightDist
	if rightDist-t.nodes[right].Radius < leftDist-t.nodes[left].Radius {
		nearChild, farChild = right, left
		farDist = leftDist
	}

	t.knnSearch(nearChild, query, k, h)

	if h.Len() < k || t.reachable(farChild, farDist, (*h)[0].dist) {
		t.knnSearch(farChild, query, k, h)
	}
}
