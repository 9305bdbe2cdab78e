package features

import (
	"sort"
	"worldforge/internal/mesh"
)

// smoothCoastline runs k passes of §4.5's coastline smoothing rule: a cell
// whose neighbors are strictly more than half the opposite polarity flips,
// its height set to the local median of the target polarity's neighbors.
// Computed from a snapshot each pass so flips within a pass don't cascade,
// the same original-vs-mutated split features.rs's smooth_coastline uses.
func smoothCoastline(m *mesh.Mesh, isWater []bool, height []uint8, k int) {
	n := len(isWater)
	for pass := 0; pass < k; pass++ {
		origWater := make([]bool, n)
		copy(origWater, isWater)

		for i := 0; i < n; i++ {
			ns := m.Neighbors[i]
			if len(ns) == 0 {
				continue
			}
			opposite := 0
			for _, nb := range ns {
				if origWater[nb] != origWater[i] {
					opposite++
				}
			}
			if opposite*2 <= len(ns) {
				continue
			}
			targetWater := !origWater[i]
			isWater[i] = targetWater
			height[i] = localMedian(height, ns, origWater, targetWater)
		}
	}
}

func localMedian(height []uint8, neighbors []int, isWater []bool, wantWater bool) uint8 {
	vals := make([]uint8, 0, len(neighbors))
	for _, nb := range neighbors {
		if isWater[nb] == wantWater {
			vals = append(vals, height[nb])
		}
	}
	if len(vals) == 0 {
		return height[neighbors[0]]
	}
	sort.Slice(vals, func(a, b int) bool { return vals[a] < vals[b] })
	return vals[len(vals)/2]
}
