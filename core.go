package dbtune

// ComputeCoreMask marks the points whose eps-neighbourhood (the point itself
// included) holds at least minSamples points. neighborhoods[i] must list
// point i's eps-neighbours as returned by RadiusNeighborhoods.
func ComputeCoreMask(neighborhoods [][]int, minSamples int) []bool {
	core := make([]bool, len(neighborhoods))
	for i, nb := range neighborhoods {
		core[i] = len(nb) >= minSamples
	}
	return core
}

// MaxNeighborhoodSize returns the size of the largest neighbourhood. No
// point can be core once minSamples exceeds it.
func MaxNeighborhoodSize(neighborhoods [][]int) int {
	size := 0
	for _, nb := range neighborhoods {
		size = max(size, len(nb))
	}
	return size
}
