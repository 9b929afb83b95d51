package dbscan

import (
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// Silhouette computes the mean silhouette coefficient of labels over data.
// Noise (-1) is treated as one more label. Distances are streamed, never
// stored: the cost is O(n²) distance evaluations but only O(n + k) memory
// for k distinct labels.
//
// Returns NaN when there are fewer than two distinct labels or every point
// has its own label, since the coefficient is undefined there.
// numWorkers <= 0 means runtime.NumCPU().
func Silhouette(data [][]float64, labels []int, metric DistanceMetric, numWorkers int) (float64, error) {
	flat, n, dims, err := flattenPoints(data)
	if err != nil {
		return 0, err
	}
	if len(labels) != n {
		return 0, invalidInput("labels", "got %d labels for %d points", len(labels), n)
	}
	if metric == nil {
		metric = EuclideanMetric{}
	}
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	point := func(i int) []float64 { return flat[i*dims : (i+1)*dims] }
	return silhouette(point, n, labels, metric, numWorkers), nil
}

func silhouette(point func(int) []float64, n int, labels []int, metric DistanceMetric, numWorkers int) float64 {
	slotOf := make(map[int]int)
	slots := make([]int, n)
	var counts []int
	for i, l := range labels {
		s, ok := slotOf[l]
		if !ok {
			s = len(counts)
			slotOf[l] = s
			counts = append(counts, 0)
		}
		slots[i] = s
		counts[s]++
	}
	k := len(counts)
	if k < 2 || k >= n {
		return math.NaN()
	}

	scores := make([]float64, n)
	if numWorkers < 1 {
		numWorkers = 1
	}

	// Split rows across workers. Each worker owns a contiguous range of
	// scores and its own per-label sums, so no synchronization is needed
	// for writes.
	var wg sync.WaitGroup
	rowsPerWorker := (n + numWorkers - 1) / numWorkers

	for w := 0; w < numWorkers; w++ {
		startRow := w * rowsPerWorker
		endRow := startRow + rowsPerWorker
		if endRow > n {
			endRow = n
		}
		if startRow >= n {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			sums := make([]float64, k)
			for i := start; i < end; i++ {
				for s := range sums {
					sums[s] = 0
				}
				pi := point(i)
				for j := 0; j < n; j++ {
					if j != i {
						sums[slots[j]] += metric.Distance(pi, point(j))
					}
				}
				scores[i] = silhouetteScore(sums, counts, slots[i])
			}
		}(startRow, endRow)
	}

	wg.Wait()
	return stat.Mean(scores, nil)
}

// silhouetteScore returns (b - a) / max(a, b) for one point, where a is the
// mean distance to its own label and b the smallest mean distance to any
// other label. Points alone in their label score 0.
func silhouetteScore(sums []float64, counts []int, own int) float64 {
	if counts[own] == 1 {
		return 0
	}
	a := sums[own] / float64(counts[own]-1)
	b := math.Inf(1)
	for s, c := range counts {
		if s == own {
			continue
		}
		if mean := sums[s] / float64(c); mean < b {
			b = mean
		}
	}
	den := math.Max(a, b)
	if den == 0 {
		return 0
	}
	return (b - a) / den
}
