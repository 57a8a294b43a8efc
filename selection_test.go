package dbtune

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sweepResults(sil ...float64) []SweepResult {
	out := make([]SweepResult, len(sil))
	for k, s := range sil {
		out[k] = SweepResult{MinSamples: k + 1, Scores: Scores{Silhouette: s, VMeasure: 1 - s}}
	}
	return out
}

func TestMaximizeSilhouette(t *testing.T) {
	tests := []struct {
		name string
		sil  []float64
		want int
	}{
		{"single", []float64{0.2}, 1},
		{"clear maximum", []float64{0.1, 0.7, 0.3}, 2},
		{"tie keeps smaller min_samples", []float64{0.5, 0.8, 0.8}, 2},
		{"nan skipped", []float64{nan(), 0.1, nan()}, 2},
		{"negative scores", []float64{-0.4, -0.2, -0.3}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MaximizeSilhouette().Select(sweepResults(tt.sil...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.MinSamples)
		})
	}
}

func TestMaximizeVMeasure(t *testing.T) {
	got, err := MaximizeVMeasure().Select(sweepResults(0.9, 0.2, 0.5))
	require.NoError(t, err)
	assert.Equal(t, 2, got.MinSamples)
}

func TestMaximizeScore_Errors(t *testing.T) {
	_, err := MaximizeSilhouette().Select(nil)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = MaximizeSilhouette().Select(sweepResults(nan(), nan()))
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestFixedMinSamples(t *testing.T) {
	results := sweepResults(0.1, 0.2, 0.3)

	got, err := FixedMinSamples(3).Select(results)
	require.NoError(t, err)
	assert.Equal(t, 3, got.MinSamples)

	_, err = FixedMinSamples(7).Select(results)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSelectionFunc(t *testing.T) {
	last := SelectionFunc(func(rs []SweepResult) (SweepResult, error) { return rs[len(rs)-1], nil })
	got, err := last.Select(sweepResults(0.3, 0.1))
	require.NoError(t, err)
	assert.Equal(t, 2, got.MinSamples)
}
