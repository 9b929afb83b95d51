package dbscan

import "math"

// estimatedPointsPerCell sizes the initial cell map.
const estimatedPointsPerCell = 4

// maxCellCoord bounds integer cell coordinates. Clamping is monotone, so a
// point inside the box q ± eps still maps into the box's clamped cell block.
const maxCellCoord = 1 << 52

// GridIndex is a uniform grid spatial index. Cell side length equals the
// eps the grid was built for, so for an axis-bounded metric every point
// within eps of a query lies in the query's cell or an adjacent one, and a
// query visits at most 3^d cells.
//
// Cells are keyed by folding zigzag-encoded cell coordinates with Szudzik's
// pairing function. In more than two dimensions the fold can collide;
// collisions only add candidates, which the exact distance check removes.
type GridIndex struct {
	data     []float64
	n        int
	dims     int
	metric   DistanceMetric
	cellSize float64
	grid     map[uint64][]int // cell key → point indices, ascending
}

// NewGridIndex builds a grid over flat row-major data with n points of
// dimensionality dims. cellSize must be positive.
func NewGridIndex(data []float64, n, dims int, metric DistanceMetric, cellSize float64) *GridIndex {
	dataCopy := make([]float64, len(data))
	copy(dataCopy, data)
	g := &GridIndex{
		data:     dataCopy,
		n:        n,
		dims:     dims,
		metric:   metric,
		cellSize: cellSize,
		grid:     make(map[uint64][]int, n/estimatedPointsPerCell+1),
	}
	coords := make([]int64, dims)
	for i := 0; i < n; i++ {
		g.cellCoords(g.Point(i), coords)
		key := cellKey(coords)
		g.grid[key] = append(g.grid[key], i)
	}
	return g
}

func (g *GridIndex) NumPoints() int         { return g.n }
func (g *GridIndex) NumFeatures() int       { return g.dims }
func (g *GridIndex) NumCells() int          { return len(g.grid) }
func (g *GridIndex) CellSize() float64      { return g.cellSize }
func (g *GridIndex) Metric() DistanceMetric { return g.metric }
func (g *GridIndex) Point(i int) []float64  { return g.data[i*g.dims : (i+1)*g.dims] }

// cellCoords writes the integer cell coordinates of p into dst.
func (g *GridIndex) cellCoords(p []float64, dst []int64) {
	for j, v := range p {
		dst[j] = g.cellOf(v)
	}
}

// cellOf returns the clamped cell coordinate of a single value.
func (g *GridIndex) cellOf(v float64) int64 {
	c := math.Floor(v / g.cellSize)
	switch {
	case c > maxCellCoord:
		c = maxCellCoord
	case c < -maxCellCoord:
		c = -maxCellCoord
	}
	return int64(c)
}

// zigzag maps signed integers to non-negative ones: 0, -1, 1, -2 → 0, 1, 2, 3.
func zigzag(v int64) uint64 {
	if v >= 0 {
		return uint64(v) * 2
	}
	return uint64(-v)*2 - 1
}

// szudzik pairs two non-negative integers (wrapping on overflow).
func szudzik(a, b uint64) uint64 {
	if a >= b {
		return a*a + a + b
	}
	return a + b*b
}

// cellKey computes the map key for a cell.
func cellKey(coords []int64) uint64 {
	key := zigzag(coords[0])
	for _, c := range coords[1:] {
		key = szudzik(key, zigzag(c))
	}
	return key
}

func (g *GridIndex) RangeQuery(i int, eps float64) []int {
	return g.RangeQueryPoint(g.Point(i), eps)
}

// RangeQueryPoint returns every point within eps of q. It scans the block
// of cells overlapping the box q ± eps, or every point when that block has
// at least as many cells as the grid has points.
func (g *GridIndex) RangeQueryPoint(q []float64, eps float64) []int {
	reach := eps * (1 + pruneSlack)
	lo := make([]int64, g.dims)
	hi := make([]int64, g.dims)
	for j, v := range q {
		lo[j] = g.cellOf(v - reach)
		hi[j] = g.cellOf(v + reach)
	}
	if !blockSmallerThan(lo, hi, g.n) {
		return g.scanAll(q, eps)
	}

	cell := make([]int64, g.dims)
	copy(cell, lo)
	visited := make(map[uint64]struct{})

	var out []int
	for {
		key := cellKey(cell)
		if _, seen := visited[key]; !seen {
			visited[key] = struct{}{}
			for _, idx := range g.grid[key] {
				if g.metric.Distance(q, g.Point(idx)) <= eps {
					out = append(out, idx)
				}
			}
		}
		// Advance the cell odometer.
		j := 0
		for ; j < g.dims; j++ {
			cell[j]++
			if cell[j] <= hi[j] {
				break
			}
			cell[j] = lo[j]
		}
		if j == g.dims {
			break
		}
	}
	return sortedIndices(out)
}

// blockSmallerThan reports whether the block of cells lo..hi (inclusive)
// has fewer than limit cells.
func blockSmallerThan(lo, hi []int64, limit int) bool {
	cells := int64(1)
	for j := range lo {
		side := hi[j] - lo[j] + 1
		if side <= 0 || cells > int64(limit)/side {
			return false
		}
		cells *= side
	}
	return cells < int64(limit)
}

func (g *GridIndex) scanAll(q []float64, eps float64) []int {
	var out []int
	for i := 0; i < g.n; i++ {
		if g.metric.Distance(q, g.Point(i)) <= eps {
			out = append(out, i)
		}
	}
	return out
}
