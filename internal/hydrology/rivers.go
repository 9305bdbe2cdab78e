package hydrology

import (
	"math"
	"sort"

	"worldforge/internal/pipeline"
)

// extractRivers finds mouths (land cells whose flux clears threshold and
// whose flow direction leads into water) and traces each upstream along
// the max-flux inbound neighbor, per §4.6. Mouths are processed in
// descending flux order so the largest rivers claim their cells first;
// a trace that runs into an already-claimed cell stops there and records
// a tributary relation instead of re-walking shared cells. Every cell has a
// single downstream neighbor, so traces from distinct mouths never share a
// cell and TributaryOf/ConfluenceCell stay nil; inbound branches other than
// the max-flux one are not traced.
func extractRivers(dir []int, flux []float64, isWater []bool, threshold float64) []pipeline.River {
	n := len(flux)
	claimed := make([]uint16, n)

	inbound := make([][]int, n)
	for i, d := range dir {
		if d != noFlow {
			inbound[d] = append(inbound[d], i)
		}
	}

	type mouthEntry struct {
		cell int
		flux float64
	}
	var mouths []mouthEntry
	for i := 0; i < n; i++ {
		if isWater[i] {
			continue
		}
		d := dir[i]
		if d == noFlow || !isWater[d] {
			continue
		}
		if flux[i] >= threshold {
			mouths = append(mouths, mouthEntry{i, flux[i]})
		}
	}
	sort.Slice(mouths, func(a, b int) bool { return mouths[a].flux > mouths[b].flux })

	var rivers []pipeline.River
	var nextID uint16
	for _, me := range mouths {
		if claimed[me.cell] != 0 {
			continue
		}
		nextID++

		var path []uint32
		var tribOf *uint16
		var confluence *uint32
		cur := me.cell
		for {
			if claimed[cur] != 0 {
				id := claimed[cur]
				tribOf = &id
				c := uint32(cur)
				confluence = &c
				break
			}
			path = append(path, uint32(cur))
			claimed[cur] = nextID

			best, bestFlux := -1, -1.0
			for _, in := range inbound[cur] {
				if flux[in] > bestFlux {
					bestFlux, best = flux[in], in
				}
			}
			if best == -1 || flux[best] < threshold {
				break
			}
			cur = best
		}

		for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
			path[l], path[r] = path[r], path[l]
		}

		mouthFlux := flux[me.cell]
		widthKM := math.Max(0.1, 0.5*math.Log(mouthFlux))
		widths := make([]uint8, len(path))
		for k, c := range path {
			rel := flux[c] / mouthFlux
			if rel < 0 {
				rel = 0
			}
			w := math.Sqrt(rel) * 255
			widths[k] = uint8(math.Min(255, math.Max(0, w)))
		}

		rivers = append(rivers, pipeline.River{
			ID:             nextID,
			Cells:          path,
			Source:         path[0],
			Mouth:          uint32(me.cell),
			WidthKM:        widthKM,
			Widths:         widths,
			TributaryOf:    tribOf,
			ConfluenceCell: confluence,
		})
	}
	return rivers
}
