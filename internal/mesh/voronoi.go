package mesh

import (
	"math"
	"sort"

	"worldforge/internal/meshutil"
)

// buildVoronoi computes the Voronoi dual (§4.1 step 3): one vertex per
// triangle at its circumcenter, and for each site the CCW-ordered polygon
// formed by the circumcenters of the triangles incident to it. The polygon
// list is packed CSR-style: cellVerts holds the concatenated vertex indices
// for every cell, and ranges[i] = (offset, length) locates cell i's slice.
func buildVoronoi(points []meshutil.Vec2, tris []Triangle) (vertices []meshutil.Vec2, cellVerts []int, ranges [][2]int) {
	vertices = make([]meshutil.Vec2, len(tris))
	incident := make([][]int, len(points))

	for ti, t := range tris {
		vertices[ti] = meshutil.Circumcenter(points[t.A], points[t.B], points[t.C])
		incident[t.A] = append(incident[t.A], ti)
		incident[t.B] = append(incident[t.B], ti)
		incident[t.C] = append(incident[t.C], ti)
	}

	ranges = make([][2]int, len(points))
	for i, tlist := range incident {
		site := points[i]
		sort.Slice(tlist, func(a, b int) bool {
			pa := vertices[tlist[a]].Sub(site)
			pb := vertices[tlist[b]].Sub(site)
			return math.Atan2(pa.Y, pa.X) < math.Atan2(pb.Y, pb.X)
		})
		offset := len(cellVerts)
		cellVerts = append(cellVerts, tlist...)
		ranges[i] = [2]int{offset, len(tlist)}
	}
	return vertices, cellVerts, ranges
}
