package biomes

import "worldforge/internal/mesh"

// coastalCells marks every land cell with at least one water neighbor.
func coastalCells(m *mesh.Mesh, isWater []bool) []bool {
	coast := make([]bool, m.N())
	for i, water := range isWater {
		if water {
			continue
		}
		for _, nb := range m.Neighbors[i] {
			if isWater[nb] {
				coast[i] = true
				break
			}
		}
	}
	return coast
}
