package dbtune

import "sort"

// NodeData describes a single node in a KD-tree.
type NodeData struct {
	IdxStart, IdxEnd int
	IsLeaf           bool
}

// NeighborIndex answers neighbourhood queries about the indexed points.
// Implementations are safe for concurrent queries once built.
type NeighborIndex interface {
	// Len returns the number of indexed points.
	Len() int

	// KNearest returns the k nearest points to point i, excluding i itself,
	// ordered by distance and then by index. k is clamped to Len()-1.
	KNearest(i, k int) (indices []int, distances []float64)

	// Radius returns every point within eps of point i, i itself included,
	// in ascending index order.
	Radius(i int, eps float64) []int
}

// BruteForce is a NeighborIndex backed by a full distance matrix.
type BruteForce struct {
	dist []float64 // n*n row-major
	n    int
}

// NewBruteForce computes the pairwise distance matrix of flat row-major
// data with numWorkers goroutines and indexes it.
func NewBruteForce(data []float64, n, dims int, metric DistanceMetric, numWorkers int) *BruteForce {
	return &BruteForce{
		dist: ComputePairwiseDistancesParallel(data, n, dims, metric, numWorkers),
		n:    n,
	}
}

func (b *BruteForce) Len() int { return b.n }

// Distances exposes the underlying n*n matrix. Callers must not modify it.
func (b *BruteForce) Distances() []float64 { return b.dist }

func (b *BruteForce) KNearest(i, k int) ([]int, []float64) {
	k = max(min(k, b.n-1), 0)
	cand := make([]neighbor, 0, b.n-1)
	row := b.dist[i*b.n : (i+1)*b.n]
	for j, d := range row {
		if j != i {
			cand = append(cand, neighbor{index: j, dist: d})
		}
	}
	sort.Slice(cand, func(x, y int) bool { return cand[x].closer(cand[y]) })

	idx := make([]int, k)
	dist := make([]float64, k)
	for j := 0; j < k; j++ {
		idx[j] = cand[j].index
		dist[j] = cand[j].dist
	}
	return idx, dist
}

func (b *BruteForce) Radius(i int, eps float64) []int {
	var out []int
	row := b.dist[i*b.n : (i+1)*b.n]
	for j, d := range row {
		if d <= eps {
			out = append(out, j)
		}
	}
	return out
}

// neighbor is a candidate in a k-nearest query.
type neighbor struct {
	index int
	dist  float64
}

// closer orders neighbours by distance, breaking ties by the lower index.
func (a neighbor) closer(b neighbor) bool {
	if a.dist != b.dist {
		return a.dist < b.dist
	}
	return a.index < b.index
}
