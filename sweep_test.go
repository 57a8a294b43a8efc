package dbtune

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweep_TwoGroups(t *testing.T) {
	ps := twoGroups(t)
	results, err := Sweep(ps, 1, MinSamplesRange(1, 9), serialConfig())

	// Each triangle has 3 points within eps, so no point is core past m=3.
	require.Len(t, results, 3)
	for k, r := range results {
		assert.Equal(t, k+1, r.MinSamples)
		assert.Equal(t, 1.0, r.Eps)
		assert.Equal(t, 2, r.NumClusters)
		assert.Equal(t, 0, r.NumNoise)
		assert.InDelta(t, 1.0, r.Scores.VMeasure, 1e-12)
	}

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDegenerateClustering))
	steps := StepErrors(err)
	require.Len(t, steps, 6)
	for k, se := range steps {
		assert.Equal(t, k+4, se.MinSamples)
		assert.ErrorIs(t, se, ErrDegenerateClustering)
	}
}

func TestSweep_ResultsAscendingAndDeduplicated(t *testing.T) {
	ps := blobs(t, 3, 20, 4, 7)
	results, err := Sweep(ps, 1.2, []int{5, 2, 3, 2, 4}, serialConfig())

	var got []int
	for _, r := range results {
		got = append(got, r.MinSamples)
	}
	for _, se := range StepErrors(err) {
		got = append(got, se.MinSamples)
	}
	assert.ElementsMatch(t, []int{2, 3, 4, 5}, got)
	for k := 1; k < len(results); k++ {
		assert.Less(t, results[k-1].MinSamples, results[k].MinSamples)
	}
}

func TestSweep_NoiseNonDecreasing(t *testing.T) {
	ps := blobs(t, 3, 25, 6, 11)
	results, _ := Sweep(ps, 1.0, MinSamplesRange(1, 12), serialConfig())
	require.NotEmpty(t, results)
	for k := 1; k < len(results); k++ {
		assert.GreaterOrEqual(t, results[k].NumNoise, results[k-1].NumNoise,
			"noise at min_samples=%d", results[k].MinSamples)
	}
}

func TestSweep_Deterministic(t *testing.T) {
	ps := blobs(t, 4, 15, 5, 3)
	first, err1 := Sweep(ps, 1.1, MinSamplesRange(1, 9), serialConfig())
	second, err2 := Sweep(ps, 1.1, MinSamplesRange(1, 9), serialConfig())
	assert.Equal(t, first, second)
	assert.Equal(t, len(StepErrors(err1)), len(StepErrors(err2)))
}

func TestSweep_ParallelMatchesSerial(t *testing.T) {
	ps := blobs(t, 3, 30, 5, 21)

	serial, serialErr := Sweep(ps, 1.0, MinSamplesRange(1, 9), serialConfig())

	cfg := DefaultConfig()
	cfg.Workers = 4
	parallel, parallelErr := Sweep(ps, 1.0, MinSamplesRange(1, 9), cfg)

	require.Equal(t, len(serial), len(parallel))
	for k := range serial {
		assert.Equal(t, serial[k].MinSamples, parallel[k].MinSamples)
		assert.Equal(t, serial[k].NumClusters, parallel[k].NumClusters)
		assert.Equal(t, serial[k].NumNoise, parallel[k].NumNoise)
		for s, v := range serial[k].Scores.Values() {
			assert.InDelta(t, v, parallel[k].Scores.Values()[s], 1e-9, ScoreNames[s])
		}
	}
	assert.Equal(t, len(StepErrors(serialErr)), len(StepErrors(parallelErr)))
}

func TestSweep_AlgorithmsAgree(t *testing.T) {
	ps := blobs(t, 3, 20, 3, 5)

	brute := serialConfig()
	brute.Algorithm = AlgorithmBrute
	kd := serialConfig()
	kd.Algorithm = AlgorithmKDTree
	kd.LeafSize = 4

	a, _ := Sweep(ps, 1.0, MinSamplesRange(1, 6), brute)
	b, _ := Sweep(ps, 1.0, MinSamplesRange(1, 6), kd)
	require.Equal(t, len(a), len(b))
	for k := range a {
		assert.Equal(t, a[k].NumClusters, b[k].NumClusters)
		assert.Equal(t, a[k].NumNoise, b[k].NumNoise)
		assert.InDelta(t, a[k].Scores.Silhouette, b[k].Scores.Silhouette, 1e-9)
	}
}

func TestSweep_ReporterSeesResultsInOrder(t *testing.T) {
	ps := blobs(t, 3, 20, 4, 9)
	var seen []int
	cfg := DefaultConfig()
	cfg.Workers = 3
	cfg.Reporter = ReporterFunc(func(r SweepResult) { seen = append(seen, r.MinSamples) })

	results, _ := Sweep(ps, 1.0, MinSamplesRange(1, 9), cfg)
	var want []int
	for _, r := range results {
		want = append(want, r.MinSamples)
	}
	assert.Equal(t, want, seen)
}

func TestSweep_InvalidInput(t *testing.T) {
	ps := twoGroups(t)
	noRef, err := NewPointSet(nil, [][]float64{{0, 0}, {1, 1}}, nil)
	require.NoError(t, err)
	empty, err := NewPointSet(nil, [][]float64{}, []string{})
	require.NoError(t, err)

	tests := []struct {
		name   string
		ps     *PointSet
		eps    float64
		ms     []int
		target error
	}{
		{"zero eps", ps, 0, []int{1}, ErrInvalidParameter},
		{"negative eps", ps, -1, []int{1}, ErrInvalidParameter},
		{"nan eps", ps, nan(), []int{1}, ErrInvalidParameter},
		{"zero min_samples", ps, 1, []int{0, 1}, ErrInvalidParameter},
		{"empty range", ps, 1, []int{}, ErrInvalidParameter},
		{"no reference", noRef, 1, []int{1}, ErrInvalidParameter},
		{"no points", empty, 1, []int{1}, ErrInsufficientData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := Sweep(tt.ps, tt.eps, tt.ms, serialConfig())
			assert.Nil(t, results)
			assert.ErrorIs(t, err, tt.target)
			assert.Empty(t, StepErrors(err))
		})
	}
}

// cliques returns 1-D groups of 2, 3, 4 and 5 points. Within a group every
// pair is at most 1 apart; groups are 100 apart.
func cliques(t *testing.T) *PointSet {
	t.Helper()
	var coords [][]float64
	var ref []string
	for g, size := range []int{2, 3, 4, 5} {
		for j := 0; j < size; j++ {
			coords = append(coords, []float64{float64(g)*100 + float64(j)*0.25})
			ref = append(ref, string(rune('a'+g)))
		}
	}
	ps, err := NewPointSet(nil, coords, ref)
	require.NoError(t, err)
	return ps
}

func TestSweep_ClusterCountTrend(t *testing.T) {
	results, err := Sweep(cliques(t), 1, MinSamplesRange(1, 9), serialConfig())

	counts := make(map[int]int)
	for _, r := range results {
		counts[r.MinSamples] = r.NumClusters
	}
	// A group of size s stops forming a cluster once min_samples exceeds s.
	assert.Equal(t, map[int]int{1: 4, 2: 4, 3: 3, 4: 2}, counts)
	for k := 1; k < len(results); k++ {
		assert.LessOrEqual(t, results[k].NumClusters, results[k-1].NumClusters,
			"clusters at min_samples=%d", results[k].MinSamples)
	}

	// m=5 leaves one cluster; m>=6 has no core points at all.
	assert.True(t, errors.Is(err, ErrDegenerateClustering))
	var failed []int
	for _, se := range StepErrors(err) {
		failed = append(failed, se.MinSamples)
	}
	assert.Equal(t, []int{5, 6, 7, 8, 9}, failed)
}

func TestSweep_AllFarApartIsDegenerate(t *testing.T) {
	results, err := Sweep(farApart(t), 1, MinSamplesRange(1, 9), serialConfig())
	assert.Empty(t, results)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDegenerateClustering))

	steps := StepErrors(err)
	require.Len(t, steps, 9)
	for _, se := range steps {
		assert.True(t, errors.Is(se, ErrDegenerateClustering), "min_samples=%d", se.MinSamples)
	}
}

func TestSweep_CandidatesAboveLargestNeighborhoodFailEarly(t *testing.T) {
	var scored []int
	cfg := serialConfig()
	cfg.Reporter = ReporterFunc(func(r SweepResult) { scored = append(scored, r.MinSamples) })

	_, err := Sweep(twoGroups(t), 1, []int{2, 4, 7}, cfg)
	assert.Equal(t, []int{2}, scored)

	steps := StepErrors(err)
	require.Len(t, steps, 2)
	for _, se := range steps {
		assert.ErrorIs(t, se, ErrDegenerateClustering)
		assert.Contains(t, se.Error(), "largest eps-neighbourhood has 3 points")
	}
}

func TestMinSamplesRange(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, MinSamplesRange(1, 3))
	assert.Equal(t, []int{4}, MinSamplesRange(4, 4))
	assert.Empty(t, MinSamplesRange(5, 1))
}

func TestStepErrors_Nil(t *testing.T) {
	assert.Empty(t, StepErrors(nil))
}
