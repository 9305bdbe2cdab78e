package mesh

import (
	"math/rand/v2"

	"worldforge/internal/meshutil"
)

// generatePoints lays out a jittered lattice of spacing s over [0,W]x[0,H],
// then anchors points along the boundary so the convex hull covers the
// whole extent (§4.1 step 1).
func generatePoints(width, height, spacing, jitter float64, r *rand.Rand) []meshutil.Vec2 {
	if spacing <= 0 {
		spacing = 1
	}
	var pts []meshutil.Vec2

	cols := int(width/spacing) + 1
	rows := int(height/spacing) + 1

	for row := 0; row <= rows; row++ {
		for col := 0; col <= cols; col++ {
			x := float64(col) * spacing
			y := float64(row) * spacing
			if x > width || y > height {
				continue
			}
			jx := (r.Float64()*2 - 1) * jitter * spacing
			jy := (r.Float64()*2 - 1) * jitter * spacing
			x += jx
			y += jy
			if x < 0 {
				x = 0
			}
			if x > width {
				x = width
			}
			if y < 0 {
				y = 0
			}
			if y > height {
				y = height
			}
			pts = append(pts, meshutil.Vec2{X: x, Y: y})
		}
	}

	pts = append(pts, boundaryAnchors(width, height, spacing)...)
	return pts
}

// boundaryAnchors places unjittered points along the four edges so the
// triangulation's convex hull always covers [0,W]x[0,H] exactly, per §4.1.
func boundaryAnchors(width, height, spacing float64) []meshutil.Vec2 {
	var pts []meshutil.Vec2
	n := int(width / spacing)
	if n < 1 {
		n = 1
	}
	for i := 0; i <= n; i++ {
		x := float64(i) / float64(n) * width
		pts = append(pts, meshutil.Vec2{X: x, Y: 0})
		pts = append(pts, meshutil.Vec2{X: x, Y: height})
	}
	m := int(height / spacing)
	if m < 1 {
		m = 1
	}
	for i := 0; i <= m; i++ {
		y := float64(i) / float64(m) * height
		pts = append(pts, meshutil.Vec2{X: 0, Y: y})
		pts = append(pts, meshutil.Vec2{X: width, Y: y})
	}
	return pts
}
