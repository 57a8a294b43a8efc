package dbtune

import (
	"container/heap"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// KDTree is a KD-tree spatial index for k-nearest and fixed-radius queries.
// Points are stored in a flat row-major array and reordered internally via
// an index permutation array.
//
// The tree is stored as a complete binary tree in array form:
//   - node i has children at 2*i+1 and 2*i+2
//   - node bounds are stored as min/max per dimension per node
type KDTree struct {
	data     []float64 // flat row-major point data (n * dims)
	n        int
	dims     int
	leafSize int
	metric   AxisMetric
	p        float64    // metric exponent, cached
	idxArray []int      // permutation: tree-order position → original index
	nodes    []NodeData // one entry per tree node; unbuilt slots are empty
	// nodeBoundsMin[node*dims + j] = min value of feature j in node
	nodeBoundsMin []float64
	// nodeBoundsMax[node*dims + j] = max value of feature j in node
	nodeBoundsMax []float64
}

// NewKDTree builds a KD-tree from flat row-major data with n points of
// dimensionality dims. leafSize controls the max points per leaf node.
func NewKDTree(data []float64, n, dims int, metric AxisMetric, leafSize int) *KDTree {
	if leafSize < 1 {
		leafSize = 1
	}

	dataCopy := make([]float64, len(data))
	copy(dataCopy, data)
	idxArray := make([]int, n)
	for i := range idxArray {
		idxArray[i] = i
	}

	maxNodes := kdMaxNodes(n, leafSize)
	t := &KDTree{
		data:          dataCopy,
		n:             n,
		dims:          dims,
		leafSize:      leafSize,
		metric:        metric,
		p:             metric.Exponent(),
		idxArray:      idxArray,
		nodes:         make([]NodeData, maxNodes),
		nodeBoundsMin: make([]float64, maxNodes*dims),
		nodeBoundsMax: make([]float64, maxNodes*dims),
	}

	if n > 0 {
		t.buildNode(0, 0, n)
	}
	return t
}

// kdMaxNodes returns an upper bound on the number of nodes needed for a
// binary tree with n points and the given leaf size.
func kdMaxNodes(n, leafSize int) int {
	if n == 0 {
		return 1
	}
	leaves := (n + leafSize - 1) / leafSize
	depth := 0
	for v := 1; v < leaves; v *= 2 {
		depth++
	}
	return (1 << (depth + 1)) - 1
}

// buildNode recursively builds the tree for points in idxArray[start:end].
func (t *KDTree) buildNode(nodeID, start, end int) {
	for nodeID >= len(t.nodes) {
		t.nodes = append(t.nodes, NodeData{})
		t.nodeBoundsMin = append(t.nodeBoundsMin, make([]float64, t.dims)...)
		t.nodeBoundsMax = append(t.nodeBoundsMax, make([]float64, t.dims)...)
	}

	t.computeNodeBounds(nodeID, start, end)

	count := end - start
	if count <= t.leafSize {
		t.nodes[nodeID] = NodeData{IdxStart: start, IdxEnd: end, IsLeaf: true}
		return
	}

	// Split along the dimension with the greatest spread.
	splitDim := 0
	maxSpread := -1.0
	base := nodeID * t.dims
	for d := 0; d < t.dims; d++ {
		spread := t.nodeBoundsMax[base+d] - t.nodeBoundsMin[base+d]
		if spread > maxSpread {
			maxSpread = spread
			splitDim = d
		}
	}

	t.sortByDimension(start, end, splitDim)
	mid := start + count/2

	t.nodes[nodeID] = NodeData{IdxStart: start, IdxEnd: end}
	t.buildNode(2*nodeID+1, start, mid)
	t.buildNode(2*nodeID+2, mid, end)
}

func (t *KDTree) computeNodeBounds(nodeID, start, end int) {
	base := nodeID * t.dims
	for d := 0; d < t.dims; d++ {
		t.nodeBoundsMin[base+d] = math.Inf(1)
		t.nodeBoundsMax[base+d] = math.Inf(-1)
	}
	for i := start; i < end; i++ {
		pt := t.point(t.idxArray[i])
		for d, v := range pt {
			t.nodeBoundsMin[base+d] = math.Min(t.nodeBoundsMin[base+d], v)
			t.nodeBoundsMax[base+d] = math.Max(t.nodeBoundsMax[base+d], v)
		}
	}
}

// sortByDimension sorts idxArray[start:end] by the given dimension. The
// sort is stable so that equal coordinates keep index order.
func (t *KDTree) sortByDimension(start, end, dim int) {
	sub := t.idxArray[start:end]
	dims := t.dims
	data := t.data
	sort.SliceStable(sub, func(i, j int) bool {
		return data[sub[i]*dims+dim] < data[sub[j]*dims+dim]
	})
}

func (t *KDTree) point(i int) []float64 { return t.data[i*t.dims : (i+1)*t.dims] }

func (t *KDTree) Len() int { return t.n }

// IdxArray returns the permutation array mapping tree-order positions back
// to original point indices.
func (t *KDTree) IdxArray() []int { return t.idxArray }

// NodeDataArray returns the metadata for every allocated node slot.
func (t *KDTree) NodeDataArray() []NodeData { return t.nodes }

func (t *KDTree) built(node int) bool {
	return node < len(t.nodes) && t.nodes[node].IdxEnd > t.nodes[node].IdxStart
}

// minDist returns a lower bound on the distance between query and any point
// in node, using the per-dimension gap to the node's bounding box.
func (t *KDTree) minDist(node int, query, gaps []float64) float64 {
	base := node * t.dims
	for d, v := range query {
		lo, hi := t.nodeBoundsMin[base+d], t.nodeBoundsMax[base+d]
		switch {
		case v < lo:
			gaps[d] = lo - v
		case v > hi:
			gaps[d] = v - hi
		default:
			gaps[d] = 0
		}
	}
	return floats.Norm(gaps, t.p)
}

func (t *KDTree) KNearest(i, k int) ([]int, []float64) {
	k = max(min(k, t.n-1), 0)
	if k == 0 {
		return []int{}, []float64{}
	}

	h := &neighborHeap{}
	gaps := make([]float64, t.dims)
	t.knnSearch(0, i, t.point(i), k, h, gaps)

	// Pop worst-first to fill results in ascending order.
	idx := make([]int, h.Len())
	dist := make([]float64, h.Len())
	for j := h.Len() - 1; j >= 0; j-- {
		nb := heap.Pop(h).(neighbor)
		idx[j] = nb.index
		dist[j] = nb.dist
	}
	return idx, dist
}

// knnSearch performs a single-tree traversal keeping the k best candidates
// in a bounded max-heap.
func (t *KDTree) knnSearch(nodeID, self int, query []float64, k int, h *neighborHeap, gaps []float64) {
	if !t.built(nodeID) {
		return
	}
	node := t.nodes[nodeID]

	if node.IsLeaf {
		for pos := node.IdxStart; pos < node.IdxEnd; pos++ {
			j := t.idxArray[pos]
			if j == self {
				continue
			}
			cand := neighbor{index: j, dist: t.metric.Distance(query, t.point(j))}
			if h.Len() < k {
				heap.Push(h, cand)
			} else if cand.closer((*h)[0]) {
				(*h)[0] = cand
				heap.Fix(h, 0)
			}
		}
		return
	}

	left, right := 2*nodeID+1, 2*nodeID+2
	leftDist := t.minDist(left, query, gaps)
	rightDist := t.minDist(right, query, gaps)

	near, far, farDist := left, right, rightDist
	if rightDist < leftDist {
		near, far, farDist = right, left, leftDist
	}

	t.knnSearch(near, self, query, k, h, gaps)

	// Equal bounds still have to be visited so ties resolve by index.
	if h.Len() < k || farDist <= (*h)[0].dist {
		t.knnSearch(far, self, query, k, h, gaps)
	}
}

func (t *KDTree) Radius(i int, eps float64) []int {
	var out []int
	gaps := make([]float64, t.dims)
	t.radiusSearch(0, t.point(i), eps, &out, gaps)
	sort.Ints(out)
	return out
}

func (t *KDTree) radiusSearch(nodeID int, query []float64, eps float64, out *[]int, gaps []float64) {
	if !t.built(nodeID) || t.minDist(nodeID, query, gaps) > eps {
		return
	}
	node := t.nodes[nodeID]
	if node.IsLeaf {
		for pos := node.IdxStart; pos < node.IdxEnd; pos++ {
			j := t.idxArray[pos]
			if t.metric.Distance(query, t.point(j)) <= eps {
				*out = append(*out, j)
			}
		}
		return
	}
	t.radiusSearch(2*nodeID+1, query, eps, out, gaps)
	t.radiusSearch(2*nodeID+2, query, eps, out, gaps)
}

// neighborHeap is a max-heap of neighbours (the worst candidate on top)
// used as a bounded priority queue for k-nearest queries.
type neighborHeap []neighbor

func (h neighborHeap) Len() int            { return len(h) }
func (h neighborHeap) Less(i, j int) bool  { return h[j].closer(h[i]) }
func (h neighborHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *neighborHeap) Push(x any) { *h = append(*h, x.(neighbor)) }
func (h *neighborHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
