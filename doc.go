// Package dbtune tunes DBSCAN (Density-Based Spatial Clustering of
// Applications with Noise) on small low-dimensional tables.
//
// A typical session estimates the neighbourhood radius from nearest-neighbour
// distances, sweeps the minimum neighbourhood size, scores every candidate
// against a reference grouping and picks one through a selection policy:
//
//	ps, err := dbtune.NewPointSet(ids, coords, reference)
//	cfg := dbtune.DefaultConfig()
//	eps, err := dbtune.EstimateEps(ps, cfg)
//	results, err := dbtune.Sweep(ps, eps, cfg.MinSamples, cfg)
//	best, err := cfg.Selection.Select(results)
//	assignment, err := dbtune.Fit(ps, eps, best.MinSamples, cfg)
//	// assignment.Labels[i] is the cluster of point i (-1 = noise)
//	// assignment.Core[i] reports whether point i is a core point
//
// [Tuner] chains those steps and can drill into one discovered cluster
// repeatedly:
//
//	t, err := dbtune.NewTuner(cfg)
//	stages, err := t.Refine(ps, dbtune.FocusLargest(), 3)
//
// # Scores
//
// Each sweep step reports homogeneity, completeness, V-measure, adjusted
// Rand index and adjusted mutual information against the reference labels,
// plus the silhouette coefficient over the coordinates. Silhouette needs at
// least two clusters; otherwise the step fails with
// [ErrDegenerateClustering].
//
// # Neighbour search
//
// By default (Algorithm: "auto"), neighbourhood queries use a KD-tree when
// the metric decomposes along coordinate axes and fall back to a full
// distance matrix otherwise:
//
//	cfg.Algorithm = dbtune.AlgorithmBrute   // full distance matrix
//	cfg.Algorithm = dbtune.AlgorithmKDTree  // KD-tree, axis metrics only
package dbtune
