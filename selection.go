package dbtune

import "math"

// SelectionPolicy picks one candidate out of a sweep. Results are expected
// in ascending min_samples order, as Sweep returns them.
type SelectionPolicy interface {
	Select(results []SweepResult) (SweepResult, error)
}

// SelectionFunc adapts a plain function into a SelectionPolicy.
type SelectionFunc func([]SweepResult) (SweepResult, error)

func (f SelectionFunc) Select(results []SweepResult) (SweepResult, error) { return f(results) }

type maximizePolicy struct {
	name  string
	score func(SweepResult) float64
}

// MaximizeScore selects the result with the highest score. NaN scores are
// skipped and ties go to the earliest result, i.e. the smallest min_samples.
func MaximizeScore(name string, score func(SweepResult) float64) SelectionPolicy {
	return maximizePolicy{name: name, score: score}
}

// MaximizeSilhouette selects the best-separated clustering.
func MaximizeSilhouette() SelectionPolicy {
	return MaximizeScore("silhouette", func(r SweepResult) float64 { return r.Scores.Silhouette })
}

// MaximizeVMeasure selects the clustering closest to the reference grouping.
func MaximizeVMeasure() SelectionPolicy {
	return MaximizeScore("v_measure", func(r SweepResult) float64 { return r.Scores.VMeasure })
}

func (p maximizePolicy) Select(results []SweepResult) (SweepResult, error) {
	if len(results) == 0 {
		return SweepResult{}, invalidParamf("no sweep results to select from")
	}
	best, bestScore := -1, math.Inf(-1)
	for k, r := range results {
		s := p.score(r)
		if math.IsNaN(s) {
			continue
		}
		if best == -1 || s > bestScore {
			best, bestScore = k, s
		}
	}
	if best == -1 {
		return SweepResult{}, invalidParamf("no sweep result has a defined %s score", p.name)
	}
	return results[best], nil
}

// FixedMinSamples selects the result for a predetermined min_samples, for
// when the choice was made by inspecting the sweep by hand.
func FixedMinSamples(minSamples int) SelectionPolicy {
	return SelectionFunc(func(results []SweepResult) (SweepResult, error) {
		for _, r := range results {
			if r.MinSamples == minSamples {
				return r, nil
			}
		}
		return SweepResult{}, invalidParamf("min_samples=%d not among %d sweep results", minSamples, len(results))
	})
}
