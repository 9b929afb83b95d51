package dbscan

// IndexKind selects the spatial index used for neighbourhood queries.
type IndexKind string

const (
	IndexAuto     IndexKind = "auto"
	IndexBrute    IndexKind = "brute"
	IndexKDTree   IndexKind = "kdtree"
	IndexBallTree IndexKind = "balltree"
	IndexGrid     IndexKind = "grid"
)

// maxGridDims is the largest dimensionality for which IndexAuto picks a
// grid. A grid query visits 3^d cells.
const maxGridDims = 3

// maxKDTreeDims is the largest dimensionality for which IndexAuto picks a
// KD-tree; beyond it bounding boxes stop pruning and ball trees do better.
const maxKDTreeDims = 60

// KDTreeValidMetric reports whether the metric supports KD-tree acceleration.
// KD-trees require metrics that decompose along coordinate axes:
// Euclidean, Manhattan, Chebyshev, Minkowski.
func KDTreeValidMetric(m DistanceMetric) bool {
	return AxisBounded(m)
}

// BallTreeValidMetric reports whether the metric supports Ball tree acceleration.
// Ball trees work with any metric that satisfies the triangle inequality.
func BallTreeValidMetric(m DistanceMetric) bool {
	return IsTrueMetric(m)
}

// GridValidMetric reports whether the metric supports a uniform grid with
// cell side eps: a point within eps must lie in an adjacent cell.
func GridValidMetric(m DistanceMetric) bool {
	return AxisBounded(m)
}

// selectIndex resolves IndexAuto into a concrete index choice based on the
// metric and data dimensionality, and validates that user-forced choices are
// compatible with the metric.
func selectIndex(kind IndexKind, metric DistanceMetric, dims int) (IndexKind, error) {
	switch kind {
	case IndexAuto:
		switch {
		case GridValidMetric(metric) && dims <= maxGridDims:
			return IndexGrid, nil
		case KDTreeValidMetric(metric) && dims <= maxKDTreeDims:
			return IndexKDTree, nil
		case BallTreeValidMetric(metric):
			return IndexBallTree, nil
		default:
			return IndexBrute, nil
		}
	case IndexBrute:
		return kind, nil
	case IndexKDTree:
		if !KDTreeValidMetric(metric) {
			return "", invalidInput("index", "metric %T is not supported by the KD-tree", metric)
		}
	case IndexBallTree:
		if !BallTreeValidMetric(metric) {
			return "", invalidInput("index", "metric %T is not supported by the ball tree", metric)
		}
	case IndexGrid:
		if !GridValidMetric(metric) {
			return "", invalidInput("index", "metric %T is not supported by the grid", metric)
		}
	default:
		return "", invalidInput("index", "unknown index kind %q", kind)
	}
	return kind, nil
}
