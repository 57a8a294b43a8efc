package dbtune

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DistanceMetric measures the distance between two points of equal
// dimensionality.
type DistanceMetric interface {
	Distance(a, b []float64) float64
}

// AxisMetric is a DistanceMetric that is the L^p norm of the coordinate
// differences. KD-tree pruning relies on this decomposition.
type AxisMetric interface {
	DistanceMetric
	// Exponent returns p; +Inf denotes the Chebyshev norm.
	Exponent() float64
}

// DistanceFunc adapts a plain function into a DistanceMetric.
// Custom metrics are always served by the brute-force index.
type DistanceFunc func(a, b []float64) float64

func (f DistanceFunc) Distance(a, b []float64) float64 { return f(a, b) }

// EuclideanMetric computes the Euclidean (L2) distance.
type EuclideanMetric struct{}

func (EuclideanMetric) Distance(a, b []float64) float64 { return floats.Distance(a, b, 2) }
func (EuclideanMetric) Exponent() float64               { return 2 }

// ManhattanMetric computes the Manhattan (L1 / city-block) distance.
type ManhattanMetric struct{}

func (ManhattanMetric) Distance(a, b []float64) float64 { return floats.Distance(a, b, 1) }
func (ManhattanMetric) Exponent() float64               { return 1 }

// ChebyshevMetric computes the Chebyshev (L-infinity) distance.
type ChebyshevMetric struct{}

func (ChebyshevMetric) Distance(a, b []float64) float64 { return floats.Distance(a, b, math.Inf(1)) }
func (ChebyshevMetric) Exponent() float64               { return math.Inf(1) }

// MinkowskiMetric computes the Minkowski distance parameterized by P.
// P must be >= 1; Config validation rejects smaller values.
type MinkowskiMetric struct {
	P float64
}

func (m MinkowskiMetric) Distance(a, b []float64) float64 { return floats.Distance(a, b, m.P) }
func (m MinkowskiMetric) Exponent() float64               { return m.P }

// ComputePairwiseDistances computes the full n*n distance matrix.
// data is flat row-major with n rows and dims columns.
// Returns flat []float64 of length n*n.
func ComputePairwiseDistances(data []float64, n, dims int, metric DistanceMetric) []float64 {
	result := make([]float64, n*n)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := metric.Distance(data[i*dims:(i+1)*dims], data[j*dims:(j+1)*dims])
			result[i*n+j] = d
			result[j*n+i] = d
		}
	}

	return result
}
