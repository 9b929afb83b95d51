package dbscan

// Noise is the label of points that belong to no cluster.
const Noise = -1

// PointState is the classification of a training point during and after Fit.
type PointState uint8

const (
	Unvisited PointState = iota
	Core
	Border
	NoisePoint
)

func (s PointState) String() string {
	switch s {
	case Unvisited:
		return "unvisited"
	case Core:
		return "core"
	case Border:
		return "border"
	case NoisePoint:
		return "noise"
	default:
		return "unknown"
	}
}

// expand labels every point reachable from the points in index order.
// Each point's neighbourhood is queried at most once: states and labels are
// the only per-point storage, and the frontier holds each point at most
// once because points are enqueued only when first assigned a cluster.
//
// Returns labels (cluster id or Noise), states and the number of clusters.
func expand(idx SpatialIndex, eps float64, minPts int) ([]int, []PointState, int) {
	n := idx.NumPoints()
	labels := make([]int, n)
	for i := range labels {
		labels[i] = Noise
	}
	states := make([]PointState, n)
	clusterID := 0

	var frontier []int
	for i := 0; i < n; i++ {
		if states[i] != Unvisited {
			continue
		}

		neighbors := idx.RangeQuery(i, eps)
		if len(neighbors) < minPts {
			states[i] = NoisePoint // provisional; may be claimed as border
			continue
		}

		states[i] = Core
		labels[i] = clusterID
		frontier = frontier[:0]
		frontier = claim(neighbors, labels, clusterID, frontier)

		for head := 0; head < len(frontier); head++ {
			q := frontier[head]
			switch states[q] {
			case NoisePoint:
				// Already known not to be core.
				states[q] = Border
				continue
			case Unvisited:
			default:
				continue
			}
			qNeighbors := idx.RangeQuery(q, eps)
			if len(qNeighbors) < minPts {
				states[q] = Border
				continue
			}
			states[q] = Core
			frontier = claim(qNeighbors, labels, clusterID, frontier)
		}
		clusterID++
	}

	return labels, states, clusterID
}

// claim assigns clusterID to every unassigned point in neighbors and
// appends them to the frontier. Points already in a cluster keep their
// label: the first cluster to reach a border point wins.
func claim(neighbors, labels []int, clusterID int, frontier []int) []int {
	for _, q := range neighbors {
		if labels[q] == Noise {
			labels[q] = clusterID
			frontier = append(frontier, q)
		}
	}
	return frontier
}
