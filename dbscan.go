package dbtune

import (
	"math"
	"sort"

	"go.uber.org/zap"
)

// Noise is the label of points that belong to no cluster.
const Noise = -1

// Assignment is the outcome of one DBSCAN pass over a PointSet.
type Assignment struct {
	// Labels assigns each point to a cluster (0-indexed, numbered in order
	// of each cluster's lowest-index core point) or Noise.
	Labels []int

	// Core reports, per point, whether its eps-neighbourhood holds at least
	// MinSamples points.
	Core []bool

	Eps        float64
	MinSamples int
}

// NumClusters returns the number of distinct non-noise labels.
func (a *Assignment) NumClusters() int {
	seen := make(map[int]bool)
	for _, l := range a.Labels {
		if l != Noise {
			seen[l] = true
		}
	}
	return len(seen)
}

// NumNoise returns the number of noise points.
func (a *Assignment) NumNoise() int {
	count := 0
	for _, l := range a.Labels {
		if l == Noise {
			count++
		}
	}
	return count
}

// Members returns the indices of the points carrying label, ascending.
func (a *Assignment) Members(label int) []int {
	var out []int
	for i, l := range a.Labels {
		if l == label {
			out = append(out, i)
		}
	}
	return out
}

// LabelOf returns the label of the point of ps named id, or false if ps
// has no such point. a must have been fitted on ps.
func (a *Assignment) LabelOf(ps *PointSet, id string) (int, bool) {
	i, ok := ps.IndexOf(id)
	if !ok || i >= len(a.Labels) {
		return Noise, false
	}
	return a.Labels[i], true
}

// ClusterSizes maps every non-noise label to its number of points.
func (a *Assignment) ClusterSizes() map[int]int {
	sizes := make(map[int]int)
	for _, l := range a.Labels {
		if l != Noise {
			sizes[l]++
		}
	}
	return sizes
}

// SortedLabels returns the distinct labels, noise included, ascending.
func (a *Assignment) SortedLabels() []int {
	seen := make(map[int]bool)
	var out []int
	for _, l := range a.Labels {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	sort.Ints(out)
	return out
}

// Fit runs DBSCAN over ps. Two points are neighbours when their distance is
// at most eps; a point is core when it has at least minSamples neighbours
// counting itself. Core points that are neighbours share a cluster, and a
// non-core point joins the lowest-numbered cluster among its core
// neighbours, or stays noise if it has none.
func Fit(ps *PointSet, eps float64, minSamples int, cfg Config) (*Assignment, error) {
	cfg, err := prepareConfig(cfg)
	if err != nil {
		return nil, err
	}
	if err := validateFitParams(eps, minSamples); err != nil {
		return nil, err
	}
	if ps.Len() == 0 {
		return &Assignment{Labels: []int{}, Core: []bool{}, Eps: eps, MinSamples: minSamples}, nil
	}

	index, err := newNeighborIndex(ps, cfg)
	if err != nil {
		return nil, err
	}
	neighborhoods := RadiusNeighborhoodsParallel(index, eps, cfg.Workers)
	a := fitNeighborhoods(neighborhoods, eps, minSamples)

	cfg.Logger.Debug("dbscan fit",
		zap.Float64("eps", eps),
		zap.Int("min_samples", minSamples),
		zap.Int("clusters", a.NumClusters()),
		zap.Int("noise", a.NumNoise()),
	)
	return a, nil
}

func validateFitParams(eps float64, minSamples int) error {
	if !(eps > 0) || math.IsInf(eps, 1) {
		return invalidParamf("eps must be a positive finite number, got %v", eps)
	}
	if minSamples < 1 {
		return invalidParamf("min_samples must be >= 1, got %d", minSamples)
	}
	return nil
}

// fitNeighborhoods labels points from precomputed eps-neighbourhoods. The
// neighbourhoods are shared read-only across sweep candidates.
func fitNeighborhoods(neighborhoods [][]int, eps float64, minSamples int) *Assignment {
	n := len(neighborhoods)
	core := ComputeCoreMask(neighborhoods, minSamples)

	uf := NewUnionFind(n)
	for i, nb := range neighborhoods {
		if !core[i] {
			continue
		}
		for _, j := range nb {
			if j > i && core[j] {
				uf.Union(i, j)
			}
		}
	}

	labels := make([]int, n)
	rootLabel := make(map[int]int)
	for i := range labels {
		labels[i] = Noise
		if !core[i] {
			continue
		}
		root := uf.Find(i)
		label, ok := rootLabel[root]
		if !ok {
			label = len(rootLabel)
			rootLabel[root] = label
		}
		labels[i] = label
	}

	// Border points: core labels are final, so this pass only reads them.
	for i, nb := range neighborhoods {
		if core[i] {
			continue
		}
		for _, j := range nb {
			if core[j] && (labels[i] == Noise || labels[j] < labels[i]) {
				labels[i] = labels[j]
			}
		}
	}

	return &Assignment{Labels: labels, Core: core, Eps: eps, MinSamples: minSamples}
}
