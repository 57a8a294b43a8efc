package dbtune

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Stage is the outcome of one Tuner pass over a PointSet.
type Stage struct {
	// Depth is 0 for the first pass and grows by one per refinement.
	Depth  int
	Points *PointSet
	Eps    float64

	// Results holds every candidate that scored successfully.
	Results []SweepResult
	// SweepErr combines the StepErrors of candidates that failed, if any.
	SweepErr error

	Chosen     SweepResult
	Assignment *Assignment
	Export     []ExportRow
	Render     *RenderRequest
}

// Tuner chains eps estimation, the min_samples sweep, candidate selection,
// the final fit and the export of its result.
type Tuner struct {
	cfg    Config
	stages map[int]SelectionPolicy
}

// NewTuner returns a Tuner for cfg, with defaults applied.
func NewTuner(cfg Config) (*Tuner, error) {
	cfg, err := prepareConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &Tuner{cfg: cfg}, nil
}

// Config returns the effective configuration.
func (t *Tuner) Config() Config { return t.cfg }

// SetStageSelection makes the pass at depth pick its candidate with p
// instead of cfg.Selection. A nil p restores cfg.Selection for that depth.
func (t *Tuner) SetStageSelection(depth int, p SelectionPolicy) {
	if p == nil {
		delete(t.stages, depth)
		return
	}
	if t.stages == nil {
		t.stages = make(map[int]SelectionPolicy)
	}
	t.stages[depth] = p
}

func (t *Tuner) selection(depth int) SelectionPolicy {
	if p, ok := t.stages[depth]; ok {
		return p
	}
	return t.cfg.Selection
}

// Run performs one full pass over ps. A pass fails only when no candidate
// could be scored; individual candidate failures land in Stage.SweepErr.
func (t *Tuner) Run(ps *PointSet) (*Stage, error) {
	return t.run(ps, 0)
}

func (t *Tuner) run(ps *PointSet, depth int) (*Stage, error) {
	eps, err := EstimateEps(ps, t.cfg)
	if err != nil {
		return nil, err
	}

	results, neighborhoods, sweepErr := sweep(ps, eps, t.cfg.MinSamples, t.cfg)
	if len(results) == 0 {
		if sweepErr == nil {
			sweepErr = errors.New("dbtune: sweep produced no results")
		}
		return nil, errors.Wrapf(sweepErr, "stage %d", depth)
	}

	chosen, err := t.selection(depth).Select(results)
	if err != nil {
		return nil, errors.Wrapf(err, "stage %d: select candidate", depth)
	}

	if err := validateFitParams(eps, chosen.MinSamples); err != nil {
		return nil, errors.Wrapf(err, "stage %d: selected candidate", depth)
	}
	a := fitNeighborhoods(neighborhoods, eps, chosen.MinSamples)
	rows, err := Export(ps, a)
	if err != nil {
		return nil, err
	}
	req, err := NewRenderRequest(ps, a)
	if err != nil {
		return nil, err
	}
	if t.cfg.Renderer != nil {
		if err := t.cfg.Renderer.Render(req.Groups, req.Title); err != nil {
			return nil, errors.Wrapf(err, "stage %d: render", depth)
		}
	}

	t.cfg.Logger.Debug("stage complete",
		zap.Int("depth", depth),
		zap.Int("points", ps.Len()),
		zap.Float64("eps", eps),
		zap.Int("min_samples", chosen.MinSamples),
		zap.Int("clusters", a.NumClusters()),
		zap.Int("noise", a.NumNoise()),
		zap.Int("failed_candidates", len(StepErrors(sweepErr))),
	)

	return &Stage{
		Depth:      depth,
		Points:     ps,
		Eps:        eps,
		Results:    results,
		SweepErr:   sweepErr,
		Chosen:     chosen,
		Assignment: a,
		Export:     rows,
		Render:     req,
	}, nil
}

// Refine runs up to maxDepth passes. After each pass, focus picks one
// cluster and the next pass runs on its points only. Refinement stops early
// when focus declines or the chosen cluster has fewer than 2 points.
func (t *Tuner) Refine(ps *PointSet, focus FocusPolicy, maxDepth int) ([]*Stage, error) {
	if maxDepth < 1 {
		return nil, invalidParamf("refinement depth must be >= 1, got %d", maxDepth)
	}

	var stages []*Stage
	current := ps
	for depth := 0; depth < maxDepth; depth++ {
		stage, err := t.run(current, depth)
		if err != nil {
			return stages, err
		}
		stages = append(stages, stage)

		if depth == maxDepth-1 {
			break
		}
		label, ok := focus.Focus(depth, stage.Assignment)
		if !ok {
			break
		}
		next, err := current.FilterByLabel(stage.Assignment, label)
		if err != nil {
			return stages, err
		}
		if next.Len() < 2 {
			t.cfg.Logger.Debug("refinement stopped: focused cluster too small",
				zap.Int("depth", depth), zap.Int("label", label), zap.Int("points", next.Len()))
			break
		}
		current = next
	}
	return stages, nil
}

// FocusPolicy chooses the cluster that the next refinement pass runs on.
type FocusPolicy interface {
	// Focus returns the label to refine after the pass at depth, or false
	// to stop refining.
	Focus(depth int, a *Assignment) (label int, ok bool)
}

// FocusFunc adapts a plain function into a FocusPolicy.
type FocusFunc func(depth int, a *Assignment) (int, bool)

func (f FocusFunc) Focus(depth int, a *Assignment) (int, bool) { return f(depth, a) }

// FocusLabel always refines the given label, stopping when it is absent.
func FocusLabel(label int) FocusPolicy {
	return FocusFunc(func(_ int, a *Assignment) (int, bool) {
		return label, label != Noise && a.ClusterSizes()[label] > 0
	})
}

// FocusSequence refines labels[depth] after the pass at depth and stops
// once the sequence is exhausted.
func FocusSequence(labels ...int) FocusPolicy {
	return FocusFunc(func(depth int, a *Assignment) (int, bool) {
		if depth >= len(labels) {
			return 0, false
		}
		return FocusLabel(labels[depth]).Focus(depth, a)
	})
}

// FocusLargest refines the cluster with the most points, preferring the
// lower label on ties.
func FocusLargest() FocusPolicy {
	return FocusFunc(func(_ int, a *Assignment) (int, bool) {
		best, bestSize := Noise, 0
		for label, size := range a.ClusterSizes() {
			if size > bestSize || (size == bestSize && label < best) {
				best, bestSize = label, size
			}
		}
		return best, bestSize > 0
	})
}
