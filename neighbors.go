package dbtune

import (
	"math"
	"sort"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// NearestNeighborDistances returns, for every point, the distance to its
// nearest other point, sorted ascending. Returns ErrInsufficientData when ps
// holds fewer than 2 points.
func NearestNeighborDistances(ps *PointSet, cfg Config) ([]float64, error) {
	cfg, err := prepareConfig(cfg)
	if err != nil {
		return nil, err
	}
	return nearestNeighborDistances(ps, cfg)
}

func nearestNeighborDistances(ps *PointSet, cfg Config) ([]float64, error) {
	n := ps.Len()
	if n < 2 {
		return nil, errors.Wrapf(ErrInsufficientData, "nearest-neighbor distances need at least 2 points, got %d", n)
	}

	index, err := newNeighborIndex(ps, cfg)
	if err != nil {
		return nil, err
	}

	dists := make([]float64, n)
	for i := 0; i < n; i++ {
		_, d := index.KNearest(i, 1)
		dists[i] = d[0]
	}
	sort.Float64s(dists)
	return dists, nil
}

// EstimateEps returns the cfg.Quantile quantile of the nearest-neighbour
// distances of ps. At the default 0.9, ninety percent of the points have a
// neighbour at least this close.
func EstimateEps(ps *PointSet, cfg Config) (float64, error) {
	cfg, err := prepareConfig(cfg)
	if err != nil {
		return 0, err
	}

	dists, err := nearestNeighborDistances(ps, cfg)
	if err != nil {
		return 0, err
	}

	eps := quantile(dists, cfg.Quantile, cfg.QuantileKind)
	cfg.Logger.Debug("estimated eps",
		zap.Int("points", ps.Len()),
		zap.Float64("quantile", cfg.Quantile),
		zap.String("kind", string(cfg.QuantileKind)),
		zap.Float64("eps", eps),
		zap.Float64("min_distance", dists[0]),
		zap.Float64("max_distance", dists[len(dists)-1]),
	)
	return eps, nil
}

// quantile reads the q-quantile off ascending-sorted, non-empty data.
func quantile(sorted []float64, q float64, kind QuantileKind) float64 {
	if kind == QuantileEmpirical {
		return stat.Quantile(q, stat.Empirical, sorted, nil)
	}

	h := q * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	hi := min(lo+1, len(sorted)-1)
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}
