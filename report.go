package dbtune

import (
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Reporter receives sweep results as they are finalized.
type Reporter interface {
	Report(SweepResult)
}

// ReporterFunc adapts a plain function into a Reporter.
type ReporterFunc func(SweepResult)

func (f ReporterFunc) Report(r SweepResult) { f(r) }

// LogReporter writes one structured record per sweep step. Fields follow
// the fixed reporting order: eps, clusters, noise, then the six scores.
type LogReporter struct {
	log *zap.Logger
}

// NewLogReporter returns a LogReporter writing to log at info level.
func NewLogReporter(log *zap.Logger) *LogReporter {
	return &LogReporter{log: log}
}

func (r *LogReporter) Report(res SweepResult) {
	fields := make([]zap.Field, 0, 4+len(ScoreNames))
	fields = append(fields,
		zap.Float64("eps", res.Eps),
		zap.Int("min_samples", res.MinSamples),
		zap.Int("clusters", res.NumClusters),
		zap.Int("noise", res.NumNoise),
	)
	for k, v := range res.Scores.Values() {
		fields = append(fields, zap.Float64(ScoreNames[k], v))
	}
	r.log.Info("sweep step", fields...)
}

// TextReporter writes a human-readable block per sweep step with scores
// rounded to three decimals.
type TextReporter struct {
	w io.Writer
}

// NewTextReporter returns a TextReporter writing to w.
func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{w: w}
}

func (r *TextReporter) Report(res SweepResult) {
	s := res.Scores
	fmt.Fprintf(r.w, "Metrics for %d min_samples, eps = %g\n", res.MinSamples, res.Eps)
	fmt.Fprintf(r.w, "Estimated number of clusters: %d\n", res.NumClusters)
	fmt.Fprintf(r.w, "Estimated number of noise points: %d\n", res.NumNoise)
	fmt.Fprintf(r.w, "Homogeneity: %0.3f\n", s.Homogeneity)
	fmt.Fprintf(r.w, "Completeness: %0.3f\n", s.Completeness)
	fmt.Fprintf(r.w, "V-measure: %0.3f\n", s.VMeasure)
	fmt.Fprintf(r.w, "Adjusted Rand Index: %0.3f\n", s.AdjustedRand)
	fmt.Fprintf(r.w, "Adjusted Mutual Information: %0.3f\n", s.AdjustedMutualInfo)
	fmt.Fprintf(r.w, "Silhouette Coefficient: %0.3f\n", s.Silhouette)
	fmt.Fprintln(r.w, "###")
}

// MultiReporter fans a result out to several reporters in order.
type MultiReporter []Reporter

func (m MultiReporter) Report(res SweepResult) {
	for _, r := range m {
		r.Report(res)
	}
}
