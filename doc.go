// Package dbscan implements Density-Based Spatial Clustering of
// Applications with Noise (DBSCAN) without a pairwise distance matrix.
//
// Neighborhoods are answered by a spatial index built once per fit, so
// memory stays linear in the number of points instead of quadratic. Every
// index returns exactly the points a brute-force scan would; the index only
// changes how many distances are evaluated.
//
// Basic usage:
//
//	eng, err := dbscan.NewEngine(0.5, 5)
//	labels, err := eng.FitPredict(data)
//	// labels[i] is the cluster ID for point i (-1 = noise)
//	newLabels, err := eng.Predict(moreData)
//
// Predict assigns a new point to the cluster of its nearest core point
// within Eps, or to noise. It never refits.
//
// # Index selection
//
// By default (Index: "auto"), the index is picked from the metric and
// dimensionality. For axis-bounded metrics on data with at most three
// dimensions a uniform grid with cell side Eps is used; up to 60 dimensions
// a KD-tree; above 60 dimensions a ball tree. The built-in metrics that
// satisfy the triangle inequality are exactly the axis-bounded ones, so the
// ball tree is only auto-selected for high-dimensional data. An arbitrary
// DistanceFunc or cosine distance gets a linear scan, since nothing is known
// about how it bounds. Set Config.Index to force a specific structure:
//
//	cfg.Index = dbscan.IndexBrute    // linear scan per query
//	cfg.Index = dbscan.IndexKDTree   // bounding-box tree
//	cfg.Index = dbscan.IndexBallTree // centroid/radius tree
//	cfg.Index = dbscan.IndexGrid     // hashed uniform grid
package dbscan
