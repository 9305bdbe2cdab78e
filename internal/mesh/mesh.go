// Package mesh builds the immutable Delaunay/Voronoi mesh that every later
// pipeline stage reads from (§3, §4.1).
package mesh

import (
	"math"
	"math/rand/v2"

	"worldforge/internal/meshutil"
)

// Mesh is the immutable per-seed geometry shared read-only by every stage.
type Mesh struct {
	Points    []meshutil.Vec2
	Triangles []Triangle
	Neighbors [][]int

	VoronoiVertices  []meshutil.Vec2
	cellVerts        []int
	CellVertexRanges [][2]int

	Bounds  meshutil.Rect
	Spatial *SpatialIndex
}

// N is the number of cells (sites) in the mesh.
func (m *Mesh) N() int { return len(m.Points) }

// TouchesBoundary reports whether cell i's site sits within one bound
// tolerance of the map's outer rectangle. Jittered sites near an edge
// aren't pinned exactly to it the way a fixed grid row/column would be, so
// downstream stages that need a border flag (feature classification,
// hydrology's priority-flood drains) use this rather than an exact
// coordinate match.
func (m *Mesh) TouchesBoundary(i int) bool {
	b := m.Bounds
	tol := 0.01 * math.Min(b.Width(), b.Height())
	p := m.Points[i]
	return p.X <= b.MinX+tol || p.X >= b.MaxX-tol || p.Y <= b.MinY+tol || p.Y >= b.MaxY-tol
}

// CellPolygon returns the CCW-ordered Voronoi polygon vertices for cell i.
func (m *Mesh) CellPolygon(i int) []meshutil.Vec2 {
	r := m.CellVertexRanges[i]
	idxs := m.cellVerts[r[0] : r[0]+r[1]]
	poly := make([]meshutil.Vec2, len(idxs))
	for k, vi := range idxs {
		poly[k] = m.VoronoiVertices[vi]
	}
	return poly
}

// Build constructs a mesh for the given extent, target spacing, jitter
// fraction, and seed (§4.1).
func Build(width, height, spacing, jitter float64, seed uint64) *Mesh {
	r := rand.New(rand.NewPCG(seed, 0xD15EA5E))
	points := generatePoints(width, height, spacing, jitter, r)
	points = dedupe(points, spacing*1e-4)

	tris := triangulate(points)
	neighbors := buildNeighbors(len(points), tris)
	vertices, cellVerts, ranges := buildVoronoi(points, tris)

	bounds := meshutil.Rect{MinX: 0, MinY: 0, MaxX: width, MaxY: height}
	spatial := buildSpatialIndex(points, bounds, spacing)

	return &Mesh{
		Points:           points,
		Triangles:        tris,
		Neighbors:        neighbors,
		VoronoiVertices:  vertices,
		cellVerts:        cellVerts,
		CellVertexRanges: ranges,
		Bounds:           bounds,
		Spatial:          spatial,
	}
}

// dedupe drops points that coincide within eps of an earlier point, which
// keeps the boundary-anchor points from colliding with lattice points and
// producing degenerate zero-area triangles.
func dedupe(points []meshutil.Vec2, eps float64) []meshutil.Vec2 {
	if eps <= 0 {
		eps = 1e-9
	}
	type key struct{ x, y int64 }
	seen := make(map[key]struct{}, len(points))
	out := points[:0:0]
	for _, p := range points {
		k := key{int64(p.X / eps), int64(p.Y / eps)}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
	}
	return out
}
