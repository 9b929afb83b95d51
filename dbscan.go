package dbscan

import (
	"math"
	"runtime"

	"gonum.org/v1/gonum/mat"
)

// Default hyperparameters.
const (
	DefaultEps      = 0.5
	DefaultMinPts   = 5
	defaultLeafSize = 40
)

// Config controls DBSCAN clustering behavior.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// Eps is the neighborhood radius. Two points are neighbors when their
	// distance is <= Eps. Must be a finite value > 0. Default: 0.5.
	Eps float64

	// MinPts is the minimum neighborhood size, the point itself included,
	// for a point to be a core point. Must be >= 1. Default: 5.
	MinPts int

	// Metric is the distance function used to measure point similarity.
	// Built-in: EuclideanMetric, ManhattanMetric, CosineMetric, ChebyshevMetric,
	// MinkowskiMetric. Use DistanceFunc to wrap a custom function.
	// Default: EuclideanMetric.
	Metric DistanceMetric

	// Index selects the spatial index answering neighborhood queries.
	// "auto" picks a grid for low-dimensional data, a KD-tree or ball tree
	// otherwise, and a linear scan for metrics no structure can prune.
	// Default: "auto".
	Index IndexKind

	// LeafSize controls the maximum number of points in a spatial tree leaf node.
	// Only used with tree-based indexes. Must be >= 0; 0 means default.
	// Default: 40.
	LeafSize int

	// Workers controls the number of goroutines used by Score and
	// Silhouette. Fit and Predict always run on the calling goroutine.
	// 0 means use runtime.NumCPU(). Default: 0 (auto).
	Workers int
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Eps:      DefaultEps,
		MinPts:   DefaultMinPts,
		Metric:   EuclideanMetric{},
		Index:    IndexAuto,
		LeafSize: defaultLeafSize,
	}
}

// validateConfig checks that cfg fields are valid and returns an
// *InvalidInputError if not. Eps and MinPts are never defaulted, so a zero
// Config is rejected here rather than silently repaired.
func validateConfig(cfg *Config) error {
	if math.IsNaN(cfg.Eps) || math.IsInf(cfg.Eps, 0) || cfg.Eps <= 0 {
		return invalidInput("eps", "must be a finite value > 0, got %v", cfg.Eps)
	}
	if cfg.MinPts < 1 {
		return invalidInput("minPts", "must be >= 1, got %d", cfg.MinPts)
	}
	if cfg.LeafSize < 0 {
		return invalidInput("leafSize", "must be >= 0, got %d", cfg.LeafSize)
	}
	if cfg.Workers < 0 {
		return invalidInput("workers", "must be >= 0, got %d", cfg.Workers)
	}
	if m, ok := cfg.Metric.(MinkowskiMetric); ok && !(m.P >= 1) {
		return invalidInput("metric", "Minkowski P must be >= 1, got %v", m.P)
	}
	switch cfg.Index {
	case IndexAuto, IndexBrute, IndexKDTree, IndexBallTree, IndexGrid:
	default:
		return invalidInput("index", "unknown index kind %q", cfg.Index)
	}
	return nil
}

// applyDefaults fills in zero-valued optional fields with their defaults.
func applyDefaults(cfg *Config) {
	if cfg.Metric == nil {
		cfg.Metric = EuclideanMetric{}
	}
	if cfg.Index == "" {
		cfg.Index = IndexAuto
	}
	if cfg.LeafSize == 0 {
		cfg.LeafSize = defaultLeafSize
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
}

// Cluster validates cfg and data, builds a spatial index and runs DBSCAN.
// Each element of data is a point; all points must have the same
// dimensionality. Peak extra memory is the index plus O(n) per-point state;
// no pairwise distance matrix is ever built.
func Cluster(data [][]float64, cfg Config) (*Model, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	flat, n, dims, err := flattenPoints(data)
	if err != nil {
		return nil, err
	}
	return clusterFlat(flat, n, dims, cfg)
}

func clusterFlat(flat []float64, n, dims int, cfg Config) (*Model, error) {
	kind, err := selectIndex(cfg.Index, cfg.Metric, dims)
	if err != nil {
		return nil, err
	}
	idx := newIndex(kind, flat, n, dims, cfg.Metric, cfg.Eps, cfg.LeafSize)
	labels, states, nClusters := expand(idx, cfg.Eps, cfg.MinPts)
	return newModel(cfg, kind, idx, labels, states, nClusters), nil
}

// Engine is the fit/predict front end of DBSCAN. Its hyperparameters are
// fixed at construction; each successful Fit replaces the fitted Model.
// An Engine is not safe for concurrent Fit calls. The Model it hands out
// is immutable and may be shared freely.
type Engine struct {
	cfg   Config
	model *Model
}

// New returns an Engine for cfg, or an *InvalidInputError if cfg is invalid.
func New(cfg Config) (*Engine, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// NewEngine returns an Engine with the given hyperparameters and defaults
// for everything else.
func NewEngine(eps float64, minPts int) (*Engine, error) {
	cfg := DefaultConfig()
	cfg.Eps = eps
	cfg.MinPts = minPts
	return New(cfg)
}

// Config returns the engine's configuration with defaults applied.
func (e *Engine) Config() Config { return e.cfg }

// Fit clusters data. On error the previously fitted model, if any, is kept.
func (e *Engine) Fit(data [][]float64) error {
	m, err := Cluster(data, e.cfg)
	if err != nil {
		return err
	}
	e.model = m
	return nil
}

// FitMatrix clusters the rows of m.
func (e *Engine) FitMatrix(m mat.Matrix) error {
	return e.Fit(matrixRows(m))
}

// FitPredict fits data and returns the training labels.
func (e *Engine) FitPredict(data [][]float64) ([]int, error) {
	if err := e.Fit(data); err != nil {
		return nil, err
	}
	return e.model.Labels(), nil
}

// Model returns the fitted model, or ErrNotFitted.
func (e *Engine) Model() (*Model, error) {
	if e.model == nil {
		return nil, ErrNotFitted
	}
	return e.model, nil
}

// Labels returns the training labels in input order.
func (e *Engine) Labels() ([]int, error) {
	m, err := e.Model()
	if err != nil {
		return nil, err
	}
	return m.Labels(), nil
}

// Predict assigns each point to the cluster of its nearest core point
// within Eps, or Noise.
func (e *Engine) Predict(points [][]float64) ([]int, error) {
	m, err := e.Model()
	if err != nil {
		return nil, err
	}
	return m.Predict(points)
}

// PredictMatrix is Predict over the rows of pts.
func (e *Engine) PredictMatrix(pts mat.Matrix) ([]int, error) {
	return e.Predict(matrixRows(pts))
}

// Score returns the mean silhouette coefficient of the training labels.
func (e *Engine) Score() (float64, error) {
	m, err := e.Model()
	if err != nil {
		return 0, err
	}
	return m.Silhouette(), nil
}

// Reset discards the fitted model.
func (e *Engine) Reset() { e.model = nil }

// matrixRows copies the rows of m into a [][]float64.
func matrixRows(m mat.Matrix) [][]float64 {
	if m == nil {
		return nil
	}
	r, _ := m.Dims()
	rows := make([][]float64, r)
	for i := range rows {
		rows[i] = mat.Row(nil, i, m)
	}
	return rows
}
