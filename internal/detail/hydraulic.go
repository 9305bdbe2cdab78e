package detail

import (
	"math/rand/v2"

	"worldforge/internal/config"
)

// hydraulicErode runs the §4.4 droplet model. The spec describes bilinear
// interpolation over "the four nearest cells", which assumes a uniform
// grid; this mesh is an irregular Voronoi graph, so a droplet instead
// descends along mesh edges (steepest-neighbor descent, the same
// discretization the flow-direction step in internal/hydrology uses)
// rather than interpolating a continuous gradient. Capacity, inertia,
// erosion rate, and evaporation still gate each step exactly as specified.
func hydraulicErode(height []float64, neighbors [][]int, cfg config.ErosionConfig, r *rand.Rand) {
	n := len(height)
	for d := 0; d < cfg.Droplets; d++ {
		cell := r.IntN(n)
		sediment := 0.0
		water := 1.0
		speed := 0.0

		for step := 0; step < cfg.DropletLifetime; step++ {
			ns := neighbors[cell]
			if len(ns) == 0 || water < 0.01 {
				break
			}
			down := -1
			for _, cand := range ns {
				if down == -1 || height[cand] < height[down] {
					down = cand
				}
			}
			if height[down] >= height[cell] {
				// local minimum: deposit everything and stop
				height[cell] += sediment
				sediment = 0
				break
			}

			slope := height[cell] - height[down]
			speed = cfg.Inertia*speed + (1-cfg.Inertia)*slope
			capacity := cfg.Capacity * speed * water

			if sediment > capacity {
				deposit := (sediment - capacity) * cfg.ErosionRate
				height[cell] += deposit
				sediment -= deposit
			} else {
				erode := (capacity - sediment) * cfg.ErosionRate
				erode = min64(erode, slope)
				height[cell] -= erode
				sediment += erode
			}

			water *= 1 - cfg.Evaporation
			cell = down
		}
		height[cell] += sediment
	}
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
