package features

import (
	"worldforge/internal/mesh"
	"worldforge/internal/pipeline"
)

// labelResult is the BFS flood-fill output: a feature id per cell plus the
// ordered list of cells belonging to each id, grounded on features.rs's
// detect_features (scan for the first unlabeled cell, BFS same-polarity
// neighbors, record whether the region touched the map border).
type labelResult struct {
	featureID []uint16
	regions   []region
}

type region struct {
	id         uint16
	cells      []uint32
	isLand     bool
	touchesMap bool
}

// label runs §4.5's flood-fill labeling pass: every cell gets a feature id
// shared with same-polarity neighbors reachable without crossing the
// land/water boundary.
func label(m *mesh.Mesh, isWater []bool) labelResult {
	n := m.N()
	ids := make([]uint16, n)
	var regions []region
	var nextID uint16 = 1

	queue := make([]int, 0, n)
	for start := 0; start < n; start++ {
		if ids[start] != 0 {
			continue
		}
		isLand := !isWater[start]
		id := nextID
		nextID++

		queue = queue[:0]
		queue = append(queue, start)
		ids[start] = id
		touches := touchesMapBoundary(m, start)
		cells := make([]uint32, 0, 8)

		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			cells = append(cells, uint32(cur))
			if !touches && touchesMapBoundary(m, cur) {
				touches = true
			}
			for _, nb := range m.Neighbors[cur] {
				if ids[nb] != 0 {
					continue
				}
				if !isWater[nb] != isLand {
					continue
				}
				ids[nb] = id
				queue = append(queue, nb)
			}
		}

		regions = append(regions, region{id: id, cells: cells, isLand: isLand, touchesMap: touches})
	}

	return labelResult{featureID: ids, regions: regions}
}

// classify turns labeled regions into the Landmass/Lake/Ocean tables (§4.5
// / §3): land regions become Landmass (is_continent by ContinentThreshold),
// water regions touching the map border become Ocean, the rest Lake.
func classify(regions []region, continentThreshold int) (landmasses []pipeline.Landmass, lakes []pipeline.Lake, oceans []pipeline.Ocean) {
	var landID, lakeID, oceanID uint16
	for _, r := range regions {
		switch {
		case r.isLand:
			landID++
			landmasses = append(landmasses, pipeline.Landmass{
				ID:          landID,
				Cells:       r.cells,
				IsContinent: len(r.cells) > continentThreshold,
			})
		case r.touchesMap:
			oceanID++
			oceans = append(oceans, pipeline.Ocean{ID: oceanID, Cells: r.cells})
		default:
			lakeID++
			lakes = append(lakes, pipeline.Lake{ID: lakeID, Cells: r.cells})
		}
	}
	return landmasses, lakes, oceans
}
