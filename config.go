package dbtune

import (
	"math"
	"runtime"

	"go.uber.org/zap"
)

// Algorithm selects the neighbour index used for eps and k-nearest queries.
type Algorithm string

const (
	AlgorithmAuto   Algorithm = "auto"
	AlgorithmBrute  Algorithm = "brute"
	AlgorithmKDTree Algorithm = "kdtree"
)

// QuantileKind selects how EstimateEps reads a quantile off the sorted
// nearest-neighbour distances.
type QuantileKind string

const (
	// QuantileLinear interpolates linearly between the two closest ranks at
	// position q*(n-1).
	QuantileLinear QuantileKind = "linear"
	// QuantileEmpirical returns the smallest observed distance whose
	// cumulative share reaches q.
	QuantileEmpirical QuantileKind = "empirical"
)

// Config controls eps estimation, the min_samples sweep and reporting.
// Start with [DefaultConfig] and override the fields you need.
type Config struct {
	// Quantile of the sorted nearest-neighbour distances used as eps.
	// Must be in [0, 1]. Default: 0.9.
	Quantile float64

	// QuantileKind selects the quantile definition. Default: "linear".
	QuantileKind QuantileKind

	// MinSamples lists the candidate minimum neighbourhood sizes (the point
	// itself included) evaluated by Tuner. Default: 1..9.
	MinSamples []int

	// Metric measures point distance. Default: EuclideanMetric.
	Metric DistanceMetric

	// Algorithm selects the neighbour index. "auto" picks a KD-tree for
	// axis metrics and brute force otherwise. Default: "auto".
	Algorithm Algorithm

	// LeafSize is the maximum number of points in a KD-tree leaf.
	// Default: 40.
	LeafSize int

	// Workers bounds the goroutines used for neighbourhood queries and for
	// evaluating sweep candidates. 0 means runtime.NumCPU().
	Workers int

	// NoiseAsCluster scores noise points as one extra group in the
	// silhouette coefficient instead of leaving them out. Default: false.
	NoiseAsCluster bool

	// Selection picks the final candidate from a sweep.
	// Default: MaximizeSilhouette().
	Selection SelectionPolicy

	// Reporter receives every successful sweep step in ascending
	// min_samples order. Default: a LogReporter on Logger.
	Reporter Reporter

	// Renderer, when set, receives the grouped points of each Tuner stage.
	Renderer Renderer

	// Logger receives debug records. Default: zap.NewNop().
	Logger *zap.Logger
}

// DefaultConfig returns a Config that takes the 90th percentile
// nearest-neighbour distance as eps and sweeps min_samples from 1 to 9.
func DefaultConfig() Config {
	return Config{
		Quantile:     0.9,
		QuantileKind: QuantileLinear,
		MinSamples:   MinSamplesRange(1, 9),
		Metric:       EuclideanMetric{},
		Algorithm:    AlgorithmAuto,
		LeafSize:     40,
		Selection:    MaximizeSilhouette(),
	}
}

// applyDefaults fills in zero-valued config fields with their defaults.
// Quantile is left alone because 0 is a meaningful value.
func applyDefaults(cfg *Config) {
	if cfg.QuantileKind == "" {
		cfg.QuantileKind = QuantileLinear
	}
	if cfg.MinSamples == nil {
		cfg.MinSamples = MinSamplesRange(1, 9)
	}
	if cfg.Metric == nil {
		cfg.Metric = EuclideanMetric{}
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = AlgorithmAuto
	}
	if cfg.LeafSize == 0 {
		cfg.LeafSize = 40
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Selection == nil {
		cfg.Selection = MaximizeSilhouette()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Reporter == nil {
		cfg.Reporter = NewLogReporter(cfg.Logger)
	}
}

// validateConfig checks that cfg fields are valid and returns a descriptive error if not.
func validateConfig(cfg *Config) error {
	if math.IsNaN(cfg.Quantile) || cfg.Quantile < 0 || cfg.Quantile > 1 {
		return invalidParamf("Quantile must be in [0, 1], got %v", cfg.Quantile)
	}
	switch cfg.QuantileKind {
	case QuantileLinear, QuantileEmpirical:
	default:
		return invalidParamf("invalid QuantileKind %q", cfg.QuantileKind)
	}
	if len(cfg.MinSamples) == 0 {
		return invalidParamf("MinSamples must not be empty")
	}
	for _, m := range cfg.MinSamples {
		if m < 1 {
			return invalidParamf("MinSamples entries must be >= 1, got %d", m)
		}
	}
	if m, ok := cfg.Metric.(MinkowskiMetric); ok && !(m.P >= 1) {
		return invalidParamf("MinkowskiMetric.P must be >= 1, got %v", m.P)
	}
	switch cfg.Algorithm {
	case AlgorithmAuto, AlgorithmBrute, AlgorithmKDTree:
	default:
		return invalidParamf("invalid Algorithm %q", cfg.Algorithm)
	}
	if cfg.LeafSize < 1 {
		return invalidParamf("LeafSize must be >= 1, got %d", cfg.LeafSize)
	}
	if cfg.Workers < 0 {
		return invalidParamf("Workers must be >= 0, got %d", cfg.Workers)
	}
	return nil
}

// prepareConfig applies defaults to a copy of cfg and validates it.
func prepareConfig(cfg Config) (Config, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
