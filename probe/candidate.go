package probe

import (
	"math"

	"github.com/hupe1980/pointgraph/geom"
)

// Candidate is a neighbor found around a source point.
type Candidate struct {
	// Index is the neighbor point index.
	Index int
	// Dir is the unit direction from the source to the neighbor.
	Dir geom.Vec3
	// DistSquared is the squared distance to the source.
	DistSquared float64
	// Bucket is the quantized Dir, set only when coincidence prevention is on.
	Bucket geom.Int3
}

// BestCandidate accumulates the best neighbor of one chained probe.
type BestCandidate struct {
	// Candidate is the position of the winner in the candidate list, or -1.
	Candidate   int
	Index       int
	DistSquared float64
	Dot         float64
}

// NewBestCandidate returns an empty accumulator.
func NewBestCandidate() BestCandidate {
	return BestCandidate{Candidate: -1, Index: -1, DistSquared: math.Inf(1), Dot: -1}
}

// Found reports whether a candidate was accepted.
func (b *BestCandidate) Found() bool { return b.Candidate >= 0 }

// Quantizer maps directions onto coincidence buckets.
type Quantizer struct {
	// Tolerance is the bucket width per axis. <= 0 disables prevention.
	Tolerance float64
	Rounding  geom.Rounding
}

// Enabled reports whether coincidence prevention is active.
func (q Quantizer) Enabled() bool { return q.Tolerance > 0 }

// Bucket quantizes dir.
func (q Quantizer) Bucket(dir geom.Vec3) geom.Int3 {
	return geom.Quantize(dir, q.Tolerance, q.Rounding)
}

// NewCoincidence returns a per-source-point set, or nil when disabled.
func (q Quantizer) NewCoincidence() *Coincidence {
	if !q.Enabled() {
		return nil
	}
	return &Coincidence{q: q, seen: make(map[geom.Int3]struct{}, 8)}
}

// Coincidence holds the direction buckets already used by one source point.
// A nil *Coincidence admits everything.
type Coincidence struct {
	q    Quantizer
	seen map[geom.Int3]struct{}
}

// Admit records bucket b and reports whether it was unused.
func (c *Coincidence) Admit(b geom.Int3) bool {
	if c == nil {
		return true
	}
	if _, ok := c.seen[b]; ok {
		return false
	}
	c.seen[b] = struct{}{}
	return true
}

// AdmitDir quantizes dir and admits the result.
func (c *Coincidence) AdmitDir(dir geom.Vec3) bool {
	if c == nil {
		return true
	}
	return c.Admit(c.q.Bucket(dir))
}

// Len returns the number of buckets in use.
func (c *Coincidence) Len() int {
	if c == nil {
		return 0
	}
	return len(c.seen)
}
