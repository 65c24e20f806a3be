package probe

import (
	"github.com/hupe1980/pointgraph/data"
	"github.com/hupe1980/pointgraph/geom"
	"github.com/hupe1980/pointgraph/graph"
)

// Probe is the capability set shared by every strategy.
type Probe interface {
	Name() string
	// RequiresSpatialIndex reports whether the probe consumes candidates.
	RequiresSpatialIndex() bool
	// RequiresChainProcessing reports whether candidates are consumed one by
	// one in discovery order instead of as a sorted list.
	RequiresChainProcessing() bool
	// PrepareForPoints resolves attributes. An error aborts the unit of work.
	PrepareForPoints(points *data.Points) error
	// SearchRadius returns the radius around point i.
	SearchRadius(i int) float64
	// ConstantRadius reports whether SearchRadius is the same for every point.
	ConstantRadius() bool
}

// DirectProbe connects points without a spatial lookup.
type DirectProbe interface {
	Probe
	ProcessNode(i int, transforms []geom.Transform, coincidence *Coincidence, out graph.EdgeSet, accept []bool)
}

// ChainedProbe tracks a best candidate while candidates are discovered.
type ChainedProbe interface {
	Probe
	PrepareBestCandidate(i int, pt geom.Transform, best *BestCandidate)
	ProcessCandidateChained(i int, pt geom.Transform, at int, c Candidate, best *BestCandidate)
	ProcessBestCandidate(i int, pt geom.Transform, best *BestCandidate, candidates []Candidate, coincidence *Coincidence, out graph.EdgeSet)
}

// SharedProbe consumes the full candidate list sorted by ascending distance.
type SharedProbe interface {
	Probe
	ProcessCandidates(i int, pt geom.Transform, candidates []Candidate, coincidence *Coincidence, out graph.EdgeSet)
}

// Radius is a search radius, either constant or read from a float attribute.
type Radius struct {
	Constant  float64
	Attribute string

	values *data.Buffer[float64]
}

// ConstRadius returns a constant radius.
func ConstRadius(r float64) Radius { return Radius{Constant: r} }

// AttrRadius returns a per-point radius read from attribute name.
func AttrRadius(name string) Radius { return Radius{Attribute: name} }

func (r *Radius) prepare(points *data.Points) error {
	if r.Attribute == "" {
		if r.Constant <= 0 {
			return invalidf("radius must be positive, got %v", r.Constant)
		}
		return nil
	}
	values, err := data.Lookup[float64](points.Attrs, r.Attribute)
	if err != nil {
		return err
	}
	r.values = values
	return nil
}

// At returns the radius of point i.
func (r *Radius) At(i int) float64 {
	if r.values != nil {
		return r.values.Read(i)
	}
	return r.Constant
}

// IsConstant reports whether the radius does not vary per point.
func (r *Radius) IsConstant() bool { return r.Attribute == "" }

// Factory creates a fresh probe. Probes keep per-unit state after
// PrepareForPoints, so concurrent units of work each need their own.
type Factory func() Probe
