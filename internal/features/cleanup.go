package features

import "worldforge/internal/mesh"

// cleanup submerges islands under minIslandSize and fills lakes under
// minLakeSize, per §4.5. It mutates isWater (and, for filled lakes,
// height) in place; the caller re-runs label/classify afterward since
// polarity changed.
func cleanup(m *mesh.Mesh, isWater []bool, height []uint8, regions []region, minIslandSize, minLakeSize int) bool {
	changed := false
	for _, r := range regions {
		switch {
		case r.isLand && len(r.cells) < minIslandSize:
			for _, c := range r.cells {
				isWater[c] = true
			}
			changed = true
		case !r.isLand && !r.touchesMap && len(r.cells) < minLakeSize:
			ringMin := ringMinHeight(m, height, r.cells)
			for _, c := range r.cells {
				isWater[c] = false
				height[c] = ringMin
			}
			changed = true
		}
	}
	return changed
}

// ringMinHeight finds the minimum height among the land cells bordering a
// water region, the "surrounding ring" §4.5 fills small lakes up to.
func ringMinHeight(m *mesh.Mesh, height []uint8, cells []uint32) uint8 {
	inRegion := make(map[uint32]bool, len(cells))
	for _, c := range cells {
		inRegion[c] = true
	}
	min := uint8(255)
	found := false
	for _, c := range cells {
		for _, nb := range m.Neighbors[int(c)] {
			if inRegion[uint32(nb)] {
				continue
			}
			if !found || height[nb] < min {
				min = height[nb]
				found = true
			}
		}
	}
	if !found {
		return 20
	}
	return min
}
