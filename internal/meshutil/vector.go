// Package meshutil provides the small 2D geometry primitives shared by the
// mesh, terrain, and hydrology packages.
package meshutil

import "math"

// Vec2 is a point or displacement in the 2D map plane.
type Vec2 struct {
	X, Y float64
}

func (a Vec2) Add(b Vec2) Vec2    { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2    { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Mul(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Dot(b Vec2) float64 { return a.X*b.X + a.Y*b.Y }
func (a Vec2) Len2() float64      { return a.Dot(a) }
func (a Vec2) Len() float64       { return math.Sqrt(a.Len2()) }

// Normalize returns a unit vector, or the zero vector if too short to normalize.
func (a Vec2) Normalize() Vec2 {
	l := a.Len()
	if l < 1e-12 {
		return Vec2{}
	}
	return a.Mul(1.0 / l)
}

// Rot90 rotates the vector 90 degrees counter-clockwise.
func (a Vec2) Rot90() Vec2 { return Vec2{-a.Y, a.X} }

// Dist returns the Euclidean distance between two points.
func Dist(a, b Vec2) float64 { return a.Sub(b).Len() }

// Rect is an axis-aligned bounding rectangle.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// PolygonArea returns the signed area of a polygon; positive for CCW winding.
func PolygonArea(pts []Vec2) float64 {
	if len(pts) < 3 {
		return 0
	}
	area := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		area += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return area / 2
}

// EnsureCCW reverses pts in place if they are wound clockwise.
func EnsureCCW(pts []Vec2) {
	if PolygonArea(pts) < 0 {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
}

// Circumcenter returns the circumcenter of the triangle (a, b, c).
func Circumcenter(a, b, c Vec2) Vec2 {
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if math.Abs(d) < 1e-12 {
		return Vec2{(a.X + b.X + c.X) / 3, (a.Y + b.Y + c.Y) / 3}
	}
	ax2y2 := a.X*a.X + a.Y*a.Y
	bx2y2 := b.X*b.X + b.Y*b.Y
	cx2y2 := c.X*c.X + c.Y*c.Y
	ux := (ax2y2*(b.Y-c.Y) + bx2y2*(c.Y-a.Y) + cx2y2*(a.Y-b.Y)) / d
	uy := (ax2y2*(c.X-b.X) + bx2y2*(a.X-c.X) + cx2y2*(b.X-a.X)) / d
	return Vec2{ux, uy}
}

// InCircumcircle reports whether point d lies strictly inside the
// circumcircle of triangle (a, b, c), assuming (a, b, c) is CCW.
func InCircumcircle(a, b, c, d Vec2) bool {
	adx, ady := a.X-d.X, a.Y-d.Y
	bdx, bdy := b.X-d.X, b.Y-d.Y
	cdx, cdy := c.X-d.X, c.Y-d.Y

	adSq := adx*adx + ady*ady
	bdSq := bdx*bdx + bdy*bdy
	cdSq := cdx*cdx + cdy*cdy

	det := adx*(bdy*cdSq-cdy*bdSq) -
		ady*(bdx*cdSq-cdx*bdSq) +
		adSq*(bdx*cdy-cdx*bdy)
	return det > 0
}
