package mesh

import (
	"math"

	"worldforge/internal/meshutil"
)

// SpatialIndex is a uniform-grid bucket index over the mesh's sites, giving
// expected O(1) nearest-cell queries (§4.1 step 5). Bucket size is chosen so
// average occupancy is close to one site per bucket.
type SpatialIndex struct {
	points               []meshutil.Vec2
	minX, minY, cellSize float64
	gridW, gridH         int
	buckets              [][]int
}

func buildSpatialIndex(points []meshutil.Vec2, bounds meshutil.Rect, cellSize float64) *SpatialIndex {
	if cellSize <= 0 {
		cellSize = 1
	}
	gridW := int(bounds.Width()/cellSize) + 1
	gridH := int(bounds.Height()/cellSize) + 1
	if gridW < 1 {
		gridW = 1
	}
	if gridH < 1 {
		gridH = 1
	}

	idx := &SpatialIndex{
		points:   points,
		minX:     bounds.MinX,
		minY:     bounds.MinY,
		cellSize: cellSize,
		gridW:    gridW,
		gridH:    gridH,
		buckets:  make([][]int, gridW*gridH),
	}

	for i, p := range points {
		bx, by := idx.bucketCoord(p)
		bi := by*gridW + bx
		idx.buckets[bi] = append(idx.buckets[bi], i)
	}
	return idx
}

func (idx *SpatialIndex) bucketCoord(p meshutil.Vec2) (int, int) {
	bx := int((p.X - idx.minX) / idx.cellSize)
	by := int((p.Y - idx.minY) / idx.cellSize)
	if bx < 0 {
		bx = 0
	}
	if bx >= idx.gridW {
		bx = idx.gridW - 1
	}
	if by < 0 {
		by = 0
	}
	if by >= idx.gridH {
		by = idx.gridH - 1
	}
	return bx, by
}

// Nearest returns the index of the site closest to (x, y), searching
// outward ring by ring from the query's home bucket until a candidate is
// found and no closer point could possibly exist in an unsearched ring.
func (idx *SpatialIndex) Nearest(x, y float64) int {
	if len(idx.points) == 0 {
		return -1
	}
	q := meshutil.Vec2{X: x, Y: y}
	bx, by := idx.bucketCoord(q)

	best := -1
	bestDist := math.Inf(1)
	maxRing := idx.gridW
	if idx.gridH > maxRing {
		maxRing = idx.gridH
	}

	for ring := 0; ring <= maxRing; ring++ {
		if best != -1 && float64(ring-1)*idx.cellSize > bestDist {
			break
		}
		for gx := bx - ring; gx <= bx+ring; gx++ {
			for gy := by - ring; gy <= by+ring; gy++ {
				if gx < 0 || gx >= idx.gridW || gy < 0 || gy >= idx.gridH {
					continue
				}
				onRing := gx == bx-ring || gx == bx+ring || gy == by-ring || gy == by+ring
				if !onRing {
					continue
				}
				for _, i := range idx.buckets[gy*idx.gridW+gx] {
					d := meshutil.Dist(idx.points[i], q)
					if d < bestDist {
						bestDist = d
						best = i
					}
				}
			}
		}
	}
	return best
}

// CandidatesNear returns the site indices in the query point's bucket and
// its 8 neighboring buckets, for callers that want a cheap candidate set
// without the full ring search Nearest performs.
func (idx *SpatialIndex) CandidatesNear(x, y float64) []int {
	bx, by := idx.bucketCoord(meshutil.Vec2{X: x, Y: y})
	var out []int
	for gx := bx - 1; gx <= bx+1; gx++ {
		for gy := by - 1; gy <= by+1; gy++ {
			if gx < 0 || gx >= idx.gridW || gy < 0 || gy >= idx.gridH {
				continue
			}
			out = append(out, idx.buckets[gy*idx.gridW+gx]...)
		}
	}
	return out
}
