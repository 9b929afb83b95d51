package dbscan

// Model is the immutable result of a Fit: per-point labels and states plus
// the spatial index over the training points, which Predict reuses to find
// retained core points. Accessors return copies.
type Model struct {
	cfg       Config
	index     SpatialIndex
	indexKind IndexKind
	labels    []int
	states    []PointState
	coreIdx   []int
	nClusters int
}

func newModel(cfg Config, kind IndexKind, idx SpatialIndex, labels []int, states []PointState, nClusters int) *Model {
	var coreIdx []int
	for i, s := range states {
		if s == Core {
			coreIdx = append(coreIdx, i)
		}
	}
	return &Model{
		cfg:       cfg,
		index:     idx,
		indexKind: kind,
		labels:    labels,
		states:    states,
		coreIdx:   coreIdx,
		nClusters: nClusters,
	}
}

// Labels returns the cluster id of every training point in input order,
// or Noise.
func (m *Model) Labels() []int {
	out := make([]int, len(m.labels))
	copy(out, m.labels)
	return out
}

// States returns the final classification of every training point.
func (m *Model) States() []PointState {
	out := make([]PointState, len(m.states))
	copy(out, m.states)
	return out
}

// CoreSampleIndices returns the ascending indices of the core points.
func (m *Model) CoreSampleIndices() []int {
	out := make([]int, len(m.coreIdx))
	copy(out, m.coreIdx)
	return out
}

// NumClusters returns the number of clusters, not counting noise.
func (m *Model) NumClusters() int { return m.nClusters }

// NumPoints returns the number of training points.
func (m *Model) NumPoints() int { return len(m.labels) }

// NumNoise returns the number of training points labeled Noise.
func (m *Model) NumNoise() int {
	count := 0
	for _, l := range m.labels {
		if l == Noise {
			count++
		}
	}
	return count
}

// ClusterSizes returns the member count of each cluster, indexed by id.
func (m *Model) ClusterSizes() []int {
	sizes := make([]int, m.nClusters)
	for _, l := range m.labels {
		if l != Noise {
			sizes[l]++
		}
	}
	return sizes
}

// IndexKind returns the spatial index the model was fitted with.
func (m *Model) IndexKind() IndexKind { return m.indexKind }

// Config returns the configuration the model was fitted with.
func (m *Model) Config() Config { return m.cfg }

// Predict assigns each point the cluster of the nearest core point within
// Eps, ties going to the lowest training index, or Noise if there is none.
// Points are validated before any are classified.
func (m *Model) Predict(points [][]float64) ([]int, error) {
	dims := m.index.NumFeatures()
	for i, p := range points {
		if err := checkQuery(p, i, dims); err != nil {
			return nil, err
		}
	}
	out := make([]int, len(points))
	for i, p := range points {
		out[i] = m.predictOne(p)
	}
	return out, nil
}

func (m *Model) predictOne(q []float64) int {
	metric := m.index.Metric()
	best, bestDist := -1, 0.0
	// Candidates arrive in ascending index order, so strict < keeps the
	// lowest index on ties.
	for _, c := range m.index.RangeQueryPoint(q, m.cfg.Eps) {
		if m.states[c] != Core {
			continue
		}
		d := metric.Distance(q, m.index.Point(c))
		if best < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if best < 0 {
		return Noise
	}
	return m.labels[best]
}

// Silhouette returns the mean silhouette coefficient of the training
// labels, computed without a distance matrix. See Silhouette.
func (m *Model) Silhouette() float64 {
	return silhouette(m.index.Point, m.index.NumPoints(), m.labels, m.index.Metric(), m.cfg.Workers)
}
