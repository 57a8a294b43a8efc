package dbtune

import (
	"slices"

	"github.com/cockroachdb/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SweepResult records the outcome of one min_samples candidate at a fixed eps.
type SweepResult struct {
	Eps         float64
	MinSamples  int
	NumClusters int
	NumNoise    int
	Scores      Scores
}

// MinSamplesRange returns the integers lo..hi inclusive.
func MinSamplesRange(lo, hi int) []int {
	if hi < lo {
		return []int{}
	}
	out := make([]int, 0, hi-lo+1)
	for m := lo; m <= hi; m++ {
		out = append(out, m)
	}
	return out
}

// Sweep clusters ps at the given eps once per min_samples candidate and
// scores each result. Candidates are evaluated concurrently on up to
// cfg.Workers goroutines; results come back, and are passed to
// cfg.Reporter, in ascending min_samples order.
//
// A candidate either produces a complete SweepResult or a *StepError. When
// any candidate fails, the returned error combines every StepError and the
// results of the remaining candidates are still returned.
func Sweep(ps *PointSet, eps float64, minSamples []int, cfg Config) ([]SweepResult, error) {
	cfg, err := prepareConfig(cfg)
	if err != nil {
		return nil, err
	}
	results, _, err := sweep(ps, eps, minSamples, cfg)
	return results, err
}

// sweep is Sweep on a prepared config. It also returns the
// eps-neighbourhoods so the caller can fit the chosen candidate without
// querying the index again. The neighbourhoods are nil when the sweep is
// rejected before any step runs.
func sweep(ps *PointSet, eps float64, minSamples []int, cfg Config) ([]SweepResult, [][]int, error) {
	if len(minSamples) == 0 {
		return nil, nil, invalidParamf("sweep range must not be empty")
	}
	for _, m := range minSamples {
		if err := validateFitParams(eps, m); err != nil {
			return nil, nil, err
		}
	}
	if ps.Len() == 0 {
		return nil, nil, errors.Wrap(ErrInsufficientData, "sweep needs at least one point")
	}
	if !ps.HasReference() {
		return nil, nil, invalidParamf("sweep needs reference labels")
	}

	candidates := slices.Clone(minSamples)
	slices.Sort(candidates)
	candidates = slices.Compact(candidates)

	index, err := newNeighborIndex(ps, cfg)
	if err != nil {
		return nil, nil, err
	}
	neighborhoods := RadiusNeighborhoodsParallel(index, eps, cfg.Workers)
	largest := MaxNeighborhoodSize(neighborhoods)

	var dist []float64
	if bf, ok := index.(*BruteForce); ok {
		dist = bf.Distances()
	} else {
		dist = ComputePairwiseDistancesParallel(ps.data, ps.Len(), ps.Dims(), cfg.Metric, cfg.Workers)
	}

	results := make([]SweepResult, len(candidates))
	stepErrs := make([]error, len(candidates))

	var g errgroup.Group
	g.SetLimit(cfg.Workers)
	for k, m := range candidates {
		if m > largest {
			stepErrs[k] = &StepError{MinSamples: m, Err: errors.Wrapf(ErrDegenerateClustering,
				"no core points: largest eps-neighbourhood has %d points", largest)}
			continue
		}
		k, m := k, m
		g.Go(func() error {
			res, err := evaluateCandidate(ps.reference, neighborhoods, dist, eps, m, cfg.NoiseAsCluster)
			if err != nil {
				stepErrs[k] = &StepError{MinSamples: m, Err: err}
				return nil
			}
			results[k] = res
			return nil
		})
	}
	_ = g.Wait() // steps record their own failures

	var combined error
	out := make([]SweepResult, 0, len(candidates))
	for k, m := range candidates {
		if stepErrs[k] != nil {
			cfg.Logger.Debug("sweep step failed",
				zap.Float64("eps", eps),
				zap.Int("min_samples", m),
				zap.Error(stepErrs[k]),
			)
			combined = multierr.Append(combined, stepErrs[k])
			continue
		}
		cfg.Reporter.Report(results[k])
		out = append(out, results[k])
	}
	return out, neighborhoods, combined
}

func evaluateCandidate(reference []string, neighborhoods [][]int, dist []float64, eps float64, minSamples int, noiseAsCluster bool) (SweepResult, error) {
	a := fitNeighborhoods(neighborhoods, eps, minSamples)
	scores, err := scoreWithDistances(reference, a, dist, noiseAsCluster)
	if err != nil {
		return SweepResult{}, err
	}
	return SweepResult{
		Eps:         eps,
		MinSamples:  minSamples,
		NumClusters: a.NumClusters(),
		NumNoise:    a.NumNoise(),
		Scores:      scores,
	}, nil
}

// StepErrors extracts the per-candidate failures from an error returned by
// Sweep.
func StepErrors(err error) []*StepError {
	var out []*StepError
	for _, e := range multierr.Errors(err) {
		var se *StepError
		if errors.As(e, &se) {
			out = append(out, se)
		}
	}
	return out
}
