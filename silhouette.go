package dbtune

import (
	"math"

	"github.com/cockroachdb/errors"
)

// SilhouetteScore returns the mean silhouette coefficient of the assignment
// over the coordinates of ps. Noise points are left out unless
// cfg.NoiseAsCluster is set. Returns ErrDegenerateClustering when fewer
// than two clusters remain or every scored point is its own cluster.
func SilhouetteScore(ps *PointSet, a *Assignment, cfg Config) (float64, error) {
	cfg, err := prepareConfig(cfg)
	if err != nil {
		return 0, err
	}
	if len(a.Labels) != ps.Len() {
		return 0, invalidParamf("assignment has %d labels for %d points", len(a.Labels), ps.Len())
	}
	dist := ComputePairwiseDistancesParallel(ps.data, ps.Len(), ps.Dims(), cfg.Metric, cfg.Workers)
	return silhouette(dist, a.Labels, cfg.NoiseAsCluster)
}

// silhouette computes the mean silhouette coefficient from an n*n distance
// matrix. A point in a singleton cluster scores 0.
func silhouette(dist []float64, labels []int, noiseAsCluster bool) (float64, error) {
	n := len(labels)

	keep := make([]int, 0, n)
	for i, l := range labels {
		if l != Noise || noiseAsCluster {
			keep = append(keep, i)
		}
	}
	kept := make([]int, len(keep))
	for k, i := range keep {
		kept[k] = labels[i]
	}
	slot, numClusters := encodeLabels(kept)

	m := len(keep)
	if numClusters < 2 || numClusters > m-1 {
		return 0, errors.Wrapf(ErrDegenerateClustering,
			"silhouette needs 2..%d clusters, got %d over %d points", max(m-1, 2), numClusters, m)
	}

	sizes := make([]float64, numClusters)
	for _, s := range slot {
		sizes[s]++
	}

	sums := make([]float64, numClusters)
	var total float64
	for x, i := range keep {
		clear(sums)
		row := dist[i*n : (i+1)*n]
		for y, j := range keep {
			if x != y {
				sums[slot[y]] += row[j]
			}
		}

		own := slot[x]
		if sizes[own] <= 1 {
			continue
		}
		intra := sums[own] / (sizes[own] - 1)
		inter := math.Inf(1)
		for c, s := range sums {
			if c != own {
				inter = math.Min(inter, s/sizes[c])
			}
		}

		if denom := math.Max(intra, inter); denom > 0 {
			total += (inter - intra) / denom
		}
	}
	return total / float64(m), nil
}
