package dbtune

import (
	"math"
	"math/rand"
	"strconv"
	"testing"
)

const floatTol = 1e-10

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// twoGroups returns two tight triangles of points about 14 apart.
func twoGroups(t *testing.T) *PointSet {
	t.Helper()
	ps, err := NewPointSet(
		[]string{"a1", "a2", "a3", "b1", "b2", "b3"},
		[][]float64{
			{0, 0}, {0.1, 0}, {0, 0.1},
			{10, 10}, {10.1, 10}, {10, 10.1},
		},
		[]string{"A", "A", "A", "B", "B", "B"},
	)
	if err != nil {
		t.Fatalf("NewPointSet: %v", err)
	}
	return ps
}

// farApart returns five points more than 100 apart from each other.
func farApart(t *testing.T) *PointSet {
	t.Helper()
	ps, err := NewPointSet(
		nil,
		[][]float64{{0, 0}, {200, 0}, {0, 200}, {200, 200}, {500, 500}},
		[]string{"x", "x", "y", "y", "z"},
	)
	if err != nil {
		t.Fatalf("NewPointSet: %v", err)
	}
	return ps
}

// blobs returns a seeded 2-D dataset of k Gaussian blobs with perPoint
// points each, plus a few uniform outliers. Reference labels name the blob
// (or "out" for outliers).
func blobs(t testing.TB, k, perBlob, outliers int, seed int64) *PointSet {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	var ids, ref []string
	var coords [][]float64
	for c := 0; c < k; c++ {
		cx, cy := float64(c)*8, float64(c%2)*6
		for i := 0; i < perBlob; i++ {
			coords = append(coords, []float64{cx + rng.NormFloat64()*0.6, cy + rng.NormFloat64()*0.6})
			ids = append(ids, "p"+strconv.Itoa(len(ids)))
			ref = append(ref, "g"+strconv.Itoa(c))
		}
	}
	for i := 0; i < outliers; i++ {
		coords = append(coords, []float64{rng.Float64()*40 - 10, rng.Float64()*30 - 10})
		ids = append(ids, "p"+strconv.Itoa(len(ids)))
		ref = append(ref, "out")
	}
	ps, err := NewPointSet(ids, coords, ref)
	if err != nil {
		t.Fatalf("NewPointSet: %v", err)
	}
	return ps
}

// serialConfig is DefaultConfig pinned to one worker.
func serialConfig() Config {
	cfg := DefaultConfig()
	cfg.Workers = 1
	return cfg
}

func nan() float64 { return math.NaN() }
