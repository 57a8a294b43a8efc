package dbtune

import "sync"

// ComputePairwiseDistancesParallel computes the full n×n distance matrix using
// multiple goroutines. data is flat row-major with n rows and dims columns.
// numWorkers controls the degree of parallelism; if <= 1, it falls back to
// single-threaded ComputePairwiseDistances.
//
// The result is bitwise identical to ComputePairwiseDistances.
func ComputePairwiseDistancesParallel(data []float64, n, dims int, metric DistanceMetric, numWorkers int) []float64 {
	if numWorkers <= 1 || n <= 1 {
		return ComputePairwiseDistances(data, n, dims, metric)
	}

	result := make([]float64, n*n)

	// Each worker owns a contiguous range of source rows and computes
	// dist(i,j) for j > i. Every cell is written by exactly one worker.
	forEachRowRange(n, numWorkers, func(start, end int) {
		for i := start; i < end; i++ {
			for j := i + 1; j < n; j++ {
				d := metric.Distance(data[i*dims:(i+1)*dims], data[j*dims:(j+1)*dims])
				result[i*n+j] = d
				result[j*n+i] = d
			}
		}
	})
	return result
}

// RadiusNeighborhoods returns, for every indexed point, the points within
// eps of it (itself included) in ascending index order.
func RadiusNeighborhoods(index NeighborIndex, eps float64) [][]int {
	n := index.Len()
	out := make([][]int, n)
	for i := 0; i < n; i++ {
		out[i] = index.Radius(i, eps)
	}
	return out
}

// RadiusNeighborhoodsParallel is RadiusNeighborhoods with the queries split
// across numWorkers goroutines. Falls back to the sequential version if
// numWorkers <= 1.
func RadiusNeighborhoodsParallel(index NeighborIndex, eps float64, numWorkers int) [][]int {
	n := index.Len()
	if numWorkers <= 1 || n <= 1 {
		return RadiusNeighborhoods(index, eps)
	}

	out := make([][]int, n)
	forEachRowRange(n, numWorkers, func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = index.Radius(i, eps)
		}
	})
	return out
}

// forEachRowRange splits [0, n) into contiguous ranges, runs fn on each in
// its own goroutine and waits for all of them.
func forEachRowRange(n, numWorkers int, fn func(start, end int)) {
	var wg sync.WaitGroup
	rowsPerWorker := (n + numWorkers - 1) / numWorkers

	for w := 0; w < numWorkers; w++ {
		startRow := w * rowsPerWorker
		if startRow >= n {
			break
		}
		endRow := min(startRow+rowsPerWorker, n)

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(startRow, endRow)
	}

	wg.Wait()
}
