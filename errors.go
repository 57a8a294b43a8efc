package dbtune

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrInsufficientData is returned when an operation needs more points
	// than the PointSet holds.
	ErrInsufficientData = errors.New("dbtune: insufficient data")

	// ErrDegenerateClustering is returned when the silhouette coefficient is
	// undefined: fewer than two non-noise clusters, or every scored point
	// sits in its own cluster.
	ErrDegenerateClustering = errors.New("dbtune: degenerate clustering")

	// ErrInvalidParameter is returned for out-of-range parameters such as
	// eps <= 0, min_samples < 1 or an empty sweep range.
	ErrInvalidParameter = errors.New("dbtune: invalid parameter")
)

func invalidParamf(format string, args ...any) error {
	return errors.Wrapf(ErrInvalidParameter, format, args...)
}

// StepError records the failure of a single sweep candidate.
type StepError struct {
	MinSamples int
	Err        error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("dbtune: min_samples=%d: %v", e.MinSamples, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
