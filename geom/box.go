package geom

import "math"

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max Vec3
}

// EmptyBox returns an inverted box that any Extend call will replace.
func EmptyBox() Box {
	inf := math.Inf(1)
	return Box{Min: Splat(inf), Max: Splat(-inf)}
}

// BoxAround returns the cube centered on c with half-size r.
func BoxAround(c Vec3, r float64) Box {
	e := Splat(r)
	return Box{Min: c.Sub(e), Max: c.Add(e)}
}

// IsValid reports whether the box contains at least one point.
func (b Box) IsValid() bool {
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}

// Extend returns b grown to include p.
func (b Box) Extend(p Vec3) Box {
	return Box{Min: Min(b.Min, p), Max: Max(b.Max, p)}
}

func (b Box) Center() Vec3 { return b.Min.Add(b.Max).Scale(0.5) }

func (b Box) Extent() Vec3 { return b.Max.Sub(b.Min).Scale(0.5) }

// Intersects reports whether b and o overlap, touching boxes included.
func (b Box) Intersects(o Box) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}

// Contains reports whether p is inside b, boundary included.
func (b Box) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// WidestAxis returns the axis (0, 1, 2) along which b is largest.
func (b Box) WidestAxis() int {
	d := b.Max.Sub(b.Min)
	switch {
	case d.X >= d.Y && d.X >= d.Z:
		return 0
	case d.Y >= d.Z:
		return 1
	default:
		return 2
	}
}

// DistSquaredTo returns the squared distance from p to the closest point of b.
func (b Box) DistSquaredTo(p Vec3) float64 {
	c := Max(b.Min, Min(p, b.Max))
	return c.DistSquared(p)
}
