package dbscan

import "math/rand"

// randomFlatData returns n uniformly distributed points in [0, scale)^dims.
func randomFlatData(rng *rand.Rand, n, dims int, scale float64) []float64 {
	data := make([]float64, n*dims)
	for i := range data {
		data[i] = rng.Float64() * scale
	}
	return data
}

// unflatten splits flat row-major data into rows.
func unflatten(flat []float64, n, dims int) [][]float64 {
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = append([]float64(nil), flat[i*dims:(i+1)*dims]...)
	}
	return rows
}

// bruteForceRange returns the ascending indices of all points within eps of q.
func bruteForceRange(data []float64, n, dims int, q []float64, eps float64, metric DistanceMetric) []int {
	var out []int
	for i := 0; i < n; i++ {
		if metric.Distance(q, data[i*dims:(i+1)*dims]) <= eps {
			out = append(out, i)
		}
	}
	return out
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// blobs returns tight groups of size points around each center, each
// coordinate jittered by at most spread/2.
func blobs(rng *rand.Rand, centers [][]float64, size int, spread float64) [][]float64 {
	var data [][]float64
	for _, c := range centers {
		for i := 0; i < size; i++ {
			p := make([]float64, len(c))
			for j := range c {
				p[j] = c[j] + (rng.Float64()-0.5)*spread
			}
			data = append(data, p)
		}
	}
	return data
}
