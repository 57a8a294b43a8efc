package dbtune

import (
	"fmt"

	"go.uber.org/zap"
)

// selectAlgorithm resolves AlgorithmAuto into a concrete index choice based
// on the metric, and validates that a forced KD-tree is compatible with it.
func selectAlgorithm(cfg Config) (Algorithm, error) {
	_, axis := cfg.Metric.(AxisMetric)

	switch cfg.Algorithm {
	case AlgorithmAuto:
		if axis {
			return AlgorithmKDTree, nil
		}
		return AlgorithmBrute, nil
	case AlgorithmKDTree:
		if !axis {
			return "", invalidParamf("metric %T is not supported by the KD-tree", cfg.Metric)
		}
	}
	return cfg.Algorithm, nil
}

// newNeighborIndex builds the neighbour index selected by cfg over ps.
// cfg must already have its defaults applied.
func newNeighborIndex(ps *PointSet, cfg Config) (NeighborIndex, error) {
	algo, err := selectAlgorithm(cfg)
	if err != nil {
		return nil, err
	}

	cfg.Logger.Debug("building neighbor index",
		zap.String("algorithm", string(algo)),
		zap.Int("points", ps.Len()),
		zap.String("metric", fmt.Sprintf("%T", cfg.Metric)),
	)

	if algo == AlgorithmKDTree {
		return NewKDTree(ps.data, ps.Len(), ps.Dims(), cfg.Metric.(AxisMetric), cfg.LeafSize), nil
	}
	return NewBruteForce(ps.data, ps.Len(), ps.Dims(), cfg.Metric, cfg.Workers), nil
}
