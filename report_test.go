package dbtune

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var sampleResult = SweepResult{
	Eps:         0.25,
	MinSamples:  4,
	NumClusters: 3,
	NumNoise:    7,
	Scores: Scores{
		Homogeneity:        0.9531,
		Completeness:       0.8834,
		VMeasure:           0.9169,
		AdjustedRand:       0.95210,
		AdjustedMutualInfo: 0.9158,
		Silhouette:         0.6262,
	},
}

func TestLogReporter(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	NewLogReporter(zap.New(core)).Report(sampleResult)

	entries := logs.All()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "sweep step", e.Message)

	var keys []string
	for _, f := range e.Context {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{
		"eps", "min_samples", "clusters", "noise",
		"homogeneity", "completeness", "v_measure", "adjusted_rand", "adjusted_mutual_info", "silhouette",
	}, keys)

	fields := e.ContextMap()
	assert.Equal(t, int64(4), fields["min_samples"])
	assert.Equal(t, int64(7), fields["noise"])
	assert.Equal(t, 0.6262, fields["silhouette"])
}

func TestTextReporter(t *testing.T) {
	var buf bytes.Buffer
	NewTextReporter(&buf).Report(sampleResult)

	want := `Metrics for 4 min_samples, eps = 0.25
Estimated number of clusters: 3
Estimated number of noise points: 7
Homogeneity: 0.953
Completeness: 0.883
V-measure: 0.917
Adjusted Rand Index: 0.952
Adjusted Mutual Information: 0.916
Silhouette Coefficient: 0.626
###
`
	assert.Equal(t, want, buf.String())
}

func TestMultiReporter(t *testing.T) {
	var order []string
	m := MultiReporter{
		ReporterFunc(func(SweepResult) { order = append(order, "first") }),
		ReporterFunc(func(SweepResult) { order = append(order, "second") }),
	}
	m.Report(sampleResult)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestSweep_DefaultReporterLogs(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	cfg := serialConfig()
	cfg.Logger = zap.New(core)

	results, _ := Sweep(twoGroups(t), 1, MinSamplesRange(1, 5), cfg)
	assert.Equal(t, len(results), logs.FilterMessage("sweep step").Len())
}
