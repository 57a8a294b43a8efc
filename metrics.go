package dbtune

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Scores holds the quality measures of one clustering. Values iterates them
// in the fixed reporting order.
type Scores struct {
	Homogeneity        float64
	Completeness       float64
	VMeasure           float64
	AdjustedRand       float64
	AdjustedMutualInfo float64
	Silhouette         float64
}

// ScoreNames lists the score names in reporting order.
var ScoreNames = [6]string{
	"homogeneity",
	"completeness",
	"v_measure",
	"adjusted_rand",
	"adjusted_mutual_info",
	"silhouette",
}

// Values returns the scores in reporting order.
func (s Scores) Values() [6]float64 {
	return [6]float64{s.Homogeneity, s.Completeness, s.VMeasure, s.AdjustedRand, s.AdjustedMutualInfo, s.Silhouette}
}

// contingency is the class-by-cluster count table of two labelings.
type contingency struct {
	table   *mat.Dense // rows: reference classes, cols: predicted clusters
	rowSums []float64  // class sizes
	colSums []float64  // cluster sizes
	n       float64
}

func newContingency[T, U comparable](truth []T, pred []U) contingency {
	rowOf, rows := encodeLabels(truth)
	colOf, cols := encodeLabels(pred)

	c := contingency{
		table:   mat.NewDense(max(rows, 1), max(cols, 1), nil),
		rowSums: make([]float64, rows),
		colSums: make([]float64, cols),
		n:       float64(len(truth)),
	}
	for i := range truth {
		r, k := rowOf[i], colOf[i]
		c.table.Set(r, k, c.table.At(r, k)+1)
		c.rowSums[r]++
		c.colSums[k]++
	}
	return c
}

// encodeLabels maps each label to a dense index in order of first appearance.
func encodeLabels[T comparable](labels []T) ([]int, int) {
	codes := make([]int, len(labels))
	index := make(map[T]int)
	for i, l := range labels {
		code, ok := index[l]
		if !ok {
			code = len(index)
			index[l] = code
		}
		codes[i] = code
	}
	return codes, len(index)
}

// labelEntropy returns the Shannon entropy (natural log) of a partition
// given its block sizes.
func labelEntropy(sizes []float64, n float64) float64 {
	if len(sizes) <= 1 || n == 0 {
		return 0
	}
	p := make([]float64, len(sizes))
	floats.ScaleTo(p, 1/n, sizes)
	return stat.Entropy(p)
}

func (c contingency) mutualInfo() float64 {
	var mi float64
	for i, a := range c.rowSums {
		for j, b := range c.colSums {
			nij := c.table.At(i, j)
			if nij == 0 {
				continue
			}
			mi += nij / c.n * math.Log(c.n*nij/(a*b))
		}
	}
	return math.Max(mi, 0)
}

// HomogeneityCompletenessV scores pred against truth. Homogeneity is 1 when
// every cluster holds a single class, completeness is 1 when every class
// lands in a single cluster, and V-measure is their harmonic mean.
func HomogeneityCompletenessV[T, U comparable](truth []T, pred []U) (homogeneity, completeness, vMeasure float64) {
	if len(truth) == 0 {
		return 1, 1, 1
	}
	c := newContingency(truth, pred)
	hTrue := labelEntropy(c.rowSums, c.n)
	hPred := labelEntropy(c.colSums, c.n)
	mi := c.mutualInfo()

	homogeneity, completeness = 1, 1
	if hTrue != 0 {
		homogeneity = mi / hTrue
	}
	if hPred != 0 {
		completeness = mi / hPred
	}
	if homogeneity+completeness != 0 {
		vMeasure = 2 * homogeneity * completeness / (homogeneity + completeness)
	}
	return homogeneity, completeness, vMeasure
}

// AdjustedRandIndex returns the Rand index of pred against truth adjusted
// for chance: 1 for identical partitions, around 0 for random ones.
func AdjustedRandIndex[T, U comparable](truth []T, pred []U) float64 {
	c := newContingency(truth, pred)

	var sumSquares float64
	r, k := c.table.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < k; j++ {
			v := c.table.At(i, j)
			sumSquares += v * v
		}
	}
	sumRows := floats.Dot(c.rowSums, c.rowSums)
	sumCols := floats.Dot(c.colSums, c.colSums)

	// Pair confusion counts, each ordered pair counted once.
	tp := sumSquares - c.n
	fp := sumCols - sumSquares
	fn := sumRows - sumSquares
	tn := c.n*c.n - fp - fn - sumSquares

	if fn == 0 && fp == 0 {
		return 1
	}
	return 2 * (tp*tn - fn*fp) / ((tp+fn)*(fn+tn) + (tp+fp)*(fp+tn))
}

// AdjustedMutualInfo returns the mutual information of pred and truth
// adjusted for chance, normalized by the arithmetic mean of their entropies.
func AdjustedMutualInfo[T, U comparable](truth []T, pred []U) float64 {
	c := newContingency(truth, pred)
	classes, clusters := len(c.rowSums), len(c.colSums)
	if (classes == 1 && clusters == 1) || (classes == 0 && clusters == 0) {
		return 1
	}

	mi := c.mutualInfo()
	emi := c.expectedMutualInfo()
	normalizer := (labelEntropy(c.rowSums, c.n) + labelEntropy(c.colSums, c.n)) / 2

	const machineEps = 2.220446049250313e-16
	denominator := normalizer - emi
	if denominator < 0 {
		denominator = math.Min(denominator, -machineEps)
	} else {
		denominator = math.Max(denominator, machineEps)
	}
	return (mi - emi) / denominator
}

// expectedMutualInfo is the expectation of the mutual information under the
// hypergeometric model of random labelings with the same block sizes.
func (c contingency) expectedMutualInfo() float64 {
	n := c.n
	lgN := lgamma(n + 1)

	var emi float64
	for _, a := range c.rowSums {
		for _, b := range c.colSums {
			start := math.Max(1, a-n+b)
			end := math.Min(a, b)
			base := lgamma(a+1) + lgamma(b+1) + lgamma(n-a+1) + lgamma(n-b+1) - lgN
			for nij := start; nij <= end; nij++ {
				term2 := math.Log(n) + math.Log(nij) - math.Log(a) - math.Log(b)
				gln := base - lgamma(nij+1) - lgamma(a-nij+1) - lgamma(b-nij+1) - lgamma(n-a-b+nij+1)
				emi += nij / n * term2 * math.Exp(gln)
			}
		}
	}
	return emi
}

func lgamma(x float64) float64 {
	v, _ := math.Lgamma(x)
	return v
}
