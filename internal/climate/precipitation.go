package climate

import (
	"math"

	"worldforge/internal/mesh"
)

// distanceToSea runs a multi-source BFS from every water cell outward over
// land, in cell hops, the same discretization internal/tectonics' boundary
// ring distances use for "cells away from a boundary".
func distanceToSea(m *mesh.Mesh, isWater []bool) []int {
	n := m.N()
	dist := make([]int, n)
	for i := range dist {
		dist[i] = -1
	}
	queue := make([]int, 0, n)
	for i, w := range isWater {
		if w {
			dist[i] = 0
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range m.Neighbors[cur] {
			if dist[nb] != -1 {
				continue
			}
			dist[nb] = dist[cur] + 1
			queue = append(queue, nb)
		}
	}
	return dist
}

// upwindSample finds the cell height roughly 100 units upwind of cell i
// along windDirection (§4.7's rain-shadow sampling), snapping to the
// nearest mesh site via the spatial index.
func upwindSample(m *mesh.Mesh, height []uint8, i int, windDirectionRadians float64) uint8 {
	p := m.Points[i]
	ux, uy := math.Cos(windDirectionRadians), math.Sin(windDirectionRadians)
	sx, sy := p.X-ux*100, p.Y-uy*100
	j := m.Spatial.Nearest(sx, sy)
	if j < 0 {
		return height[i]
	}
	return height[j]
}

// Precipitation computes the full §4.7 precipitation field from elevation
// and water alone. It has no dependency on temperature, which lets
// internal/hydrology call it directly for flux accumulation ahead of the
// Climate stage proper (§2's stage order runs Hydrology before Climate, so
// Hydrology cannot read MapSystem.Cells.Precipitation — that field is only
// populated once Climate runs). Stage.Run calls this same function to
// populate ms.Cells.Precipitation, so the two never compute it differently.
func Precipitation(m *mesh.Mesh, height []uint8, isWater []bool, windDirectionRadians float64) []uint8 {
	h := float64(m.Bounds.Height())
	if h == 0 {
		h = 1
	}
	dist := distanceToSea(m, isWater)
	out := make([]uint8, m.N())
	for i, p := range m.Points {
		if isWater[i] {
			out[i] = 255
			continue
		}
		yFrac := p.Y / h
		out[i] = precipitationAt(m, height, i, dist[i], yFrac, windDirectionRadians)
	}
	return out
}

// precipitationAt computes §4.7's precipitation formula for cell i.
func precipitationAt(m *mesh.Mesh, height []uint8, i int, distSea int, yFrac, windDirectionRadians float64) uint8 {
	base := 200 - 0.5*float64(distSea)

	upwindH := upwindSample(m, height, i, windDirectionRadians)
	shadow := 1.0
	switch {
	case float64(height[i]) > float64(upwindH)+50:
		shadow = 1.5
	case float64(upwindH) > float64(height[i])+50:
		shadow = 0.5
	}

	equatorial := 0.5 + (1 - math.Abs(yFrac-0.5))
	v := base * shadow * equatorial
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint8(math.Round(v))
}
