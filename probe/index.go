package probe

import (
	"github.com/hupe1980/pointgraph/data"
	"github.com/hupe1980/pointgraph/geom"
	"github.com/hupe1980/pointgraph/graph"
)

// IndexMode selects how an Index probe reads its value.
type IndexMode uint8

const (
	// Target connects i to the point at value.
	Target IndexMode = iota
	// OneWayOffset connects i to i+value.
	OneWayOffset
	// TwoWayOffset connects i to i+value and i-value.
	TwoWayOffset
)

// Safety handles target indices outside [0, n).
type Safety uint8

const (
	// Ignore drops out-of-range targets.
	Ignore Safety = iota
	// Clamp moves them to the nearest valid index.
	Clamp
	// Wrap tiles them around the point count.
	Wrap
)

// Sanitize maps idx into [0, n) according to s. It returns false when the
// index must be dropped.
func (s Safety) Sanitize(idx, n int) (int, bool) {
	if n <= 0 {
		return -1, false
	}
	if idx >= 0 && idx < n {
		return idx, true
	}
	switch s {
	case Clamp:
		return min(max(idx, 0), n-1), true
	case Wrap:
		idx %= n
		if idx < 0 {
			idx += n
		}
		return idx, true
	default:
		return -1, false
	}
}

// Index connects points by index arithmetic. The value is Constant, or read
// from the int32 attribute Attribute when set.
type Index struct {
	Mode      IndexMode
	Safety    Safety
	Constant  int
	Attribute string

	values *data.Buffer[int32]
	n      int
}

// NewIndex returns an Index probe with a constant value.
func NewIndex(mode IndexMode, value int, safety Safety) *Index {
	return &Index{Mode: mode, Constant: value, Safety: safety}
}

func (p *Index) Name() string                  { return "index" }
func (p *Index) RequiresSpatialIndex() bool    { return false }
func (p *Index) RequiresChainProcessing() bool { return false }
func (p *Index) SearchRadius(int) float64      { return 0 }
func (p *Index) ConstantRadius() bool          { return true }

func (p *Index) PrepareForPoints(points *data.Points) error {
	p.n = points.Len()
	if p.Attribute == "" {
		return nil
	}
	values, err := data.Lookup[int32](points.Attrs, p.Attribute)
	if err != nil {
		return err
	}
	p.values = values
	return nil
}

func (p *Index) value(i int) int {
	if p.values != nil {
		return int(p.values.Read(i))
	}
	return p.Constant
}

func (p *Index) ProcessNode(i int, transforms []geom.Transform, coincidence *Coincidence, out graph.EdgeSet, accept []bool) {
	v := p.value(i)
	switch p.Mode {
	case Target:
		p.connect(i, v, transforms, coincidence, out, accept)
	case OneWayOffset:
		p.connect(i, i+v, transforms, coincidence, out, accept)
	case TwoWayOffset:
		p.connect(i, i+v, transforms, coincidence, out, accept)
		p.connect(i, i-v, transforms, coincidence, out, accept)
	}
}

func (p *Index) connect(i, target int, transforms []geom.Transform, coincidence *Coincidence, out graph.EdgeSet, accept []bool) {
	target, ok := p.Safety.Sanitize(target, p.n)
	if !ok || target == i {
		return
	}
	if accept != nil && !accept[target] {
		return
	}
	dir := transforms[target].Location.Sub(transforms[i].Location).SafeNormal()
	if !coincidence.AdmitDir(dir) {
		return
	}
	out.Add(i, target)
}
