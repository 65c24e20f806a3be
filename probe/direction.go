package probe

import (
	"math"

	"github.com/hupe1980/pointgraph/data"
	"github.com/hupe1980/pointgraph/geom"
	"github.com/hupe1980/pointgraph/graph"
)

// Favor picks between competing candidates of a Direction probe.
type Favor uint8

const (
	// FavorClosest keeps the nearest candidate inside the cone.
	FavorClosest Favor = iota
	// FavorAligned keeps the candidate best aligned with the direction.
	FavorAligned
)

// Direction connects each point to the best candidate inside a cone around a
// direction.
type Direction struct {
	Radius    Radius
	Direction geom.Vec3
	// MaxAngle is the cone half-angle in degrees.
	MaxAngle float64
	// Local rotates Direction by the source point rotation.
	Local bool
	Favor Favor

	dir    geom.Vec3
	minDot float64
}

// NewDirection returns a Direction probe with a constant radius.
func NewDirection(radius float64, dir geom.Vec3, maxAngle float64) *Direction {
	return &Direction{Radius: ConstRadius(radius), Direction: dir, MaxAngle: maxAngle}
}

func (p *Direction) Name() string                  { return "direction" }
func (p *Direction) RequiresSpatialIndex() bool    { return true }
func (p *Direction) RequiresChainProcessing() bool { return true }
func (p *Direction) SearchRadius(i int) float64    { return p.Radius.At(i) }
func (p *Direction) ConstantRadius() bool          { return p.Radius.IsConstant() }

func (p *Direction) PrepareForPoints(points *data.Points) error {
	p.dir = p.Direction.SafeNormal()
	if p.dir == geom.Zero {
		return invalidf("direction: zero direction")
	}
	if p.MaxAngle < 0 || p.MaxAngle > 180 {
		return invalidf("direction: max angle %v out of [0, 180]", p.MaxAngle)
	}
	p.minDot = math.Cos(p.MaxAngle * math.Pi / 180)
	return p.Radius.prepare(points)
}

func (p *Direction) PrepareBestCandidate(_ int, _ geom.Transform, best *BestCandidate) {
	*best = NewBestCandidate()
}

func (p *Direction) ProcessCandidateChained(i int, pt geom.Transform, at int, c Candidate, best *BestCandidate) {
	r := p.Radius.At(i)
	if c.DistSquared > r*r {
		return
	}

	dir := p.dir
	if p.Local {
		dir = pt.Rotation.Rotate(dir)
	}

	dot := dir.Dot(c.Dir)
	if dot < p.minDot {
		return
	}

	better := false
	switch p.Favor {
	case FavorAligned:
		better = dot > best.Dot || (dot == best.Dot && c.DistSquared < best.DistSquared)
	default:
		better = c.DistSquared < best.DistSquared
	}
	if !better {
		return
	}

	best.Candidate = at
	best.Index = c.Index
	best.DistSquared = c.DistSquared
	best.Dot = dot
}

func (p *Direction) ProcessBestCandidate(i int, _ geom.Transform, best *BestCandidate, candidates []Candidate, coincidence *Coincidence, out graph.EdgeSet) {
	if !best.Found() {
		return
	}
	if !coincidence.Admit(candidates[best.Candidate].Bucket) {
		return
	}
	out.Add(i, best.Index)
}
