package dbscan

import "sort"

// KDistances returns, for every point, the distance to its k-th nearest
// neighbor (the point itself excluded), sorted in descending order. Plotted
// against rank, the curve's knee is a common choice for Eps with
// MinPts = k + 1.
//
// Neighbors come from a KD-tree or ball tree when the metric allows one and
// from a linear scan otherwise; no distance matrix is built.
func KDistances(data [][]float64, k int, metric DistanceMetric) ([]float64, error) {
	if metric == nil {
		metric = EuclideanMetric{}
	}
	flat, n, dims, err := flattenPoints(data)
	if err != nil {
		return nil, err
	}
	if k < 1 || k > n-1 {
		return nil, invalidInput("k", "must be in [1, %d], got %d", n-1, k)
	}

	var tree KNNIndex
	switch {
	case KDTreeValidMetric(metric) && dims <= maxKDTreeDims:
		tree = NewKDTree(flat, n, dims, metric, defaultLeafSize)
	case BallTreeValidMetric(metric):
		tree = NewBallTree(flat, n, dims, metric, defaultLeafSize)
	default:
		tree = NewBruteIndex(flat, n, dims, metric)
	}

	// Query k+1 neighbors: the +1 accounts for the point itself.
	indices, distances := tree.QueryKNN(flat, n, k+1)

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		// Self may be missing from the results when it has more than k
		// exact duplicates; counting non-self entries covers both cases.
		count := 0
		for j := range distances[i] {
			if indices[i][j] == i {
				continue // skip self
			}
			count++
			if count == k {
				out[i] = distances[i][j]
				break
			}
		}
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(out)))
	return out, nil
}
