package probe

import (
	"github.com/hupe1980/pointgraph/data"
	"github.com/hupe1980/pointgraph/geom"
	"github.com/hupe1980/pointgraph/graph"
)

// Closest connects each point to its nearest neighbors within radius.
// Neighbors at exactly the same distance as the last accepted one are
// connected too, so the result does not depend on discovery order.
type Closest struct {
	Radius Radius
	// MaxConnections caps edges per source point. -1 connects everything in
	// radius.
	MaxConnections int
}

// NewClosest returns a Closest probe with a constant radius.
func NewClosest(radius float64, maxConnections int) *Closest {
	return &Closest{Radius: ConstRadius(radius), MaxConnections: maxConnections}
}

func (p *Closest) Name() string                  { return "closest" }
func (p *Closest) RequiresSpatialIndex() bool    { return true }
func (p *Closest) RequiresChainProcessing() bool { return false }
func (p *Closest) SearchRadius(i int) float64    { return p.Radius.At(i) }
func (p *Closest) ConstantRadius() bool          { return p.Radius.IsConstant() }

func (p *Closest) PrepareForPoints(points *data.Points) error {
	if p.MaxConnections == 0 || p.MaxConnections < -1 {
		return invalidf("closest: max connections must be -1 or positive, got %d", p.MaxConnections)
	}
	return p.Radius.prepare(points)
}

func (p *Closest) ProcessCandidates(i int, _ geom.Transform, candidates []Candidate, coincidence *Coincidence, out graph.EdgeSet) {
	r := p.Radius.At(i)
	r2 := r * r

	limit := p.MaxConnections
	if limit < 0 || limit > len(candidates) {
		limit = len(candidates)
	}

	added := 0
	last := -1.0
	for _, c := range candidates {
		if c.DistSquared > r2 {
			return
		}
		// candidates tied with the last accepted one stay in, whatever their
		// discovery order
		if added >= limit && c.DistSquared != last {
			return
		}
		if !coincidence.Admit(c.Bucket) {
			continue
		}
		out.Add(i, c.Index)
		added++
		last = c.DistSquared
	}
}
