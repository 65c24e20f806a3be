package data

import "github.com/hupe1980/pointgraph/geom"

// Points is an ordered point collection: one transform per point plus an
// attribute table of the same length.
type Points struct {
	Transforms []geom.Transform
	Attrs      *Table
}

// NewPoints wraps transforms with an empty attribute table.
func NewPoints(transforms []geom.Transform) *Points {
	return &Points{Transforms: transforms, Attrs: NewTable(len(transforms))}
}

// FromPositions builds points with identity rotation and unit scale.
func FromPositions(positions ...geom.Vec3) *Points {
	ts := make([]geom.Transform, len(positions))
	for i, p := range positions {
		ts[i] = geom.At(p)
	}
	return NewPoints(ts)
}

// Len returns the number of points.
func (p *Points) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Transforms)
}

// Position returns the location of point i.
func (p *Points) Position(i int) geom.Vec3 { return p.Transforms[i].Location }

// Positions returns a copy of every point location.
func (p *Points) Positions() []geom.Vec3 {
	out := make([]geom.Vec3, len(p.Transforms))
	for i, t := range p.Transforms {
		out[i] = t.Location
	}
	return out
}

// Bounds returns the bounding box of all points.
func (p *Points) Bounds() geom.Box {
	b := geom.EmptyBox()
	for _, t := range p.Transforms {
		b = b.Extend(t.Location)
	}
	return b
}

// Subset returns the points at indices, in order, with their attributes.
func (p *Points) Subset(indices []int) *Points {
	ts := make([]geom.Transform, len(indices))
	for i, idx := range indices {
		ts[i] = p.Transforms[idx]
	}
	return &Points{Transforms: ts, Attrs: p.Attrs.Subset(indices)}
}
