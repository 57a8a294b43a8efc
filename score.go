package dbtune

// Score computes all six quality measures of an assignment over ps. The
// supervised scores compare against ps.Reference, with noise counted as one
// more label; the silhouette follows SilhouetteScore.
func Score(ps *PointSet, a *Assignment, cfg Config) (Scores, error) {
	cfg, err := prepareConfig(cfg)
	if err != nil {
		return Scores{}, err
	}
	if err := checkScorable(ps, a); err != nil {
		return Scores{}, err
	}
	dist := ComputePairwiseDistancesParallel(ps.data, ps.Len(), ps.Dims(), cfg.Metric, cfg.Workers)
	return scoreWithDistances(ps.reference, a, dist, cfg.NoiseAsCluster)
}

func checkScorable(ps *PointSet, a *Assignment) error {
	if !ps.HasReference() {
		return invalidParamf("scoring needs reference labels")
	}
	if len(a.Labels) != ps.Len() {
		return invalidParamf("assignment has %d labels for %d points", len(a.Labels), ps.Len())
	}
	return nil
}

func scoreWithDistances(reference []string, a *Assignment, dist []float64, noiseAsCluster bool) (Scores, error) {
	sil, err := silhouette(dist, a.Labels, noiseAsCluster)
	if err != nil {
		return Scores{}, err
	}

	var s Scores
	s.Homogeneity, s.Completeness, s.VMeasure = HomogeneityCompletenessV(reference, a.Labels)
	s.AdjustedRand = AdjustedRandIndex(reference, a.Labels)
	s.AdjustedMutualInfo = AdjustedMutualInfo(reference, a.Labels)
	s.Silhouette = sil
	return s, nil
}
