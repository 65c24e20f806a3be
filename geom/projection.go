package geom

import "math"

// Projection flattens points onto the plane orthogonal to Normal.
// Projected points keep the plane coordinates in X and Y and have Z = 0.
type Projection struct {
	normal Vec3
	u, v   Vec3
}

// NewProjection returns a projection onto the plane with the given normal.
// A zero normal falls back to Up.
func NewProjection(normal Vec3) Projection {
	n := normal.SafeNormal()
	if n == Zero {
		n = Up
	}
	helper := Forward
	if math.Abs(n.X) > 0.9 {
		helper = Vec3{0, 1, 0}
	}
	u := helper.Sub(n.Scale(helper.Dot(n))).SafeNormal()
	return Projection{normal: n, u: u, v: n.Cross(u)}
}

// Normal returns the unit plane normal.
func (p Projection) Normal() Vec3 { return p.normal }

// Flat projects a position.
func (p Projection) Flat(pos Vec3) Vec3 {
	return Vec3{pos.Dot(p.u), pos.Dot(p.v), 0}
}

// FlatTransform projects the location of t and leaves rotation and scale.
func (p Projection) FlatTransform(t Transform) Transform {
	t.Location = p.Flat(t.Location)
	return t
}

// SignedArea2 returns twice the signed area of the closed polygon formed by
// the X/Y components of pts. Counter-clockwise polygons are positive.
func SignedArea2(pts []Vec3) float64 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	var area float64
	for i := range n {
		a, b := pts[i], pts[(i+1)%n]
		area += a.X*b.Y - b.X*a.Y
	}
	return area
}
