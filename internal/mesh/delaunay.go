package mesh

import (
	"math"

	"worldforge/internal/meshutil"
)

// Triangle references three vertex indices, oriented CCW.
type Triangle struct {
	A, B, C int
}

type edge struct{ A, B int }

// triangulate computes the Delaunay triangulation of points via the
// incremental Bowyer-Watson algorithm: a synthetic super-triangle enclosing
// every point is inserted first, then points are added one at a time,
// replacing any triangle whose circumcircle contains the new point with a
// fan of new triangles over the resulting hole's boundary. Triangles that
// still touch a super-triangle vertex are discarded at the end. Ties in the
// empty-circumcircle test are broken by the point insertion order, which is
// the caller's point order (§4.1 step 2).
func triangulate(points []meshutil.Vec2) []Triangle {
	n := len(points)
	if n < 3 {
		return nil
	}

	minX, minY, maxX, maxY := points[0].X, points[0].Y, points[0].X, points[0].Y
	for _, p := range points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	dx, dy := maxX-minX, maxY-minY
	dmax := math.Max(dx, dy)
	if dmax <= 0 {
		dmax = 1
	}
	midX, midY := (minX+maxX)/2, (minY+maxY)/2

	pts := make([]meshutil.Vec2, n+3)
	copy(pts, points)
	pts[n] = meshutil.Vec2{X: midX - 20*dmax, Y: midY - dmax}
	pts[n+1] = meshutil.Vec2{X: midX, Y: midY + 20*dmax}
	pts[n+2] = meshutil.Vec2{X: midX + 20*dmax, Y: midY - dmax}

	tris := []Triangle{{n, n + 2, n + 1}}

	for i := 0; i < n; i++ {
		p := pts[i]

		var badEdges []edge
		keep := tris[:0:0]
		for _, t := range tris {
			a, b, c := pts[t.A], pts[t.B], pts[t.C]
			if meshutil.InCircumcircle(a, b, c, p) {
				badEdges = append(badEdges, edge{t.A, t.B}, edge{t.B, t.C}, edge{t.C, t.A})
			} else {
				keep = append(keep, t)
			}
		}

		boundary := boundaryEdges(badEdges)
		for _, e := range boundary {
			keep = append(keep, Triangle{e.A, e.B, i})
		}
		tris = keep
	}

	result := make([]Triangle, 0, len(tris))
	for _, t := range tris {
		if t.A >= n || t.B >= n || t.C >= n {
			continue
		}
		if meshutil.PolygonArea([]meshutil.Vec2{pts[t.A], pts[t.B], pts[t.C]}) < 0 {
			t.B, t.C = t.C, t.B
		}
		result = append(result, t)
	}
	return result
}

// boundaryEdges returns the edges that appear exactly once among a set of
// triangle edges being removed — the boundary of the hole left behind.
func boundaryEdges(edges []edge) []edge {
	counts := make(map[edge]int, len(edges))
	for _, e := range edges {
		rev := edge{e.B, e.A}
		if counts[rev] > 0 {
			counts[rev]--
			continue
		}
		counts[e]++
	}
	var result []edge
	for e, c := range counts {
		for i := 0; i < c; i++ {
			result = append(result, e)
		}
	}
	return result
}
