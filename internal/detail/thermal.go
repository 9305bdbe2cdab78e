package detail

// thermalErode runs `iterations` passes of pairwise slope-threshold
// transfer (§4.4): for each cell and neighbor with a slope over talus T,
// move half the excess downhill. Deltas are buffered per pass and applied
// afterward so the result doesn't depend on cell visiting order, grounded
// on YoshiDesign-ProceduralGeneration's thermal erosion (accumulate then
// apply, rather than mutate-in-place).
func thermalErode(height []float64, neighbors [][]int, iterations int, talus float64) {
	for pass := 0; pass < iterations; pass++ {
		delta := make([]float64, len(height))
		for i, hi := range height {
			for _, n := range neighbors[i] {
				diff := hi - height[n]
				if diff <= talus {
					continue
				}
				move := (diff - talus) / 2
				delta[i] -= move
				delta[n] += move
			}
		}
		for i := range height {
			height[i] += delta[i]
		}
	}
}
