package hydrology

import (
	"math"

	"worldforge/internal/mesh"
	"worldforge/internal/pipeline"
)

// extractLakes groups connected raised cells from priorityFlood into Lakes
// (§4.6): surface_level is the highest filled height in the group, and
// outlet_cell is the lowest non-raised neighbor bordering it — "the first
// cell along the drainage boundary".
func extractLakes(m *mesh.Mesh, raised []bool, filled []float64) []pipeline.Lake {
	n := len(raised)
	visited := make([]bool, n)
	var lakes []pipeline.Lake
	var nextID uint16

	queue := make([]int, 0, n)
	for start := 0; start < n; start++ {
		if !raised[start] || visited[start] {
			continue
		}
		nextID++
		queue = queue[:0]
		queue = append(queue, start)
		visited[start] = true

		var cells []uint32
		surfaceLevel := filled[start]
		var outlet *uint32
		outletHeight := math.Inf(1)

		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			cells = append(cells, uint32(cur))
			if filled[cur] > surfaceLevel {
				surfaceLevel = filled[cur]
			}
			for _, nb := range m.Neighbors[cur] {
				if raised[nb] {
					if !visited[nb] {
						visited[nb] = true
						queue = append(queue, nb)
					}
					continue
				}
				if filled[nb] < outletHeight {
					outletHeight = filled[nb]
					o := uint32(nb)
					outlet = &o
				}
			}
		}

		level := uint8(math.Min(255, math.Max(0, surfaceLevel)))
		lakes = append(lakes, pipeline.Lake{ID: nextID, Cells: cells, OutletCell: outlet, SurfaceLevel: level})
	}
	return lakes
}
