package probe

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/hupe1980/pointgraph/data"
	"github.com/hupe1980/pointgraph/geom"
	"github.com/hupe1980/pointgraph/graph"
	"github.com/hupe1980/pointgraph/spatial"
)

// Set holds the prepared probes of one unit of work, classified by kind.
// It is safe for concurrent Process calls with distinct scratch values.
type Set struct {
	direct  []DirectProbe
	chained []ChainedProbe
	shared  []SharedProbe
	search  []Probe

	variableRadius bool
	sharedRadius   float64
	quantizer      Quantizer
}

// NewSet prepares probes for points and classifies them. Any preparation
// failure is returned; the unit of work must not proceed.
func NewSet(points *data.Points, q Quantizer, probes ...Probe) (*Set, error) {
	if len(probes) == 0 {
		return nil, ErrNoProbes
	}

	s := &Set{quantizer: q}
	for _, p := range probes {
		if err := p.PrepareForPoints(points); err != nil {
			return nil, fmt.Errorf("probe %s: %w", p.Name(), err)
		}

		if !p.RequiresSpatialIndex() {
			d, ok := p.(DirectProbe)
			if !ok {
				return nil, invalidf("%s: direct probe does not implement ProcessNode", p.Name())
			}
			s.direct = append(s.direct, d)
			continue
		}

		if !p.ConstantRadius() {
			s.variableRadius = true
		} else {
			s.sharedRadius = max(s.sharedRadius, p.SearchRadius(0))
		}

		if p.RequiresChainProcessing() {
			c, ok := p.(ChainedProbe)
			if !ok {
				return nil, invalidf("%s: chained probe does not implement ProcessCandidateChained", p.Name())
			}
			s.chained = append(s.chained, c)
		} else {
			sh, ok := p.(SharedProbe)
			if !ok {
				return nil, invalidf("%s: shared probe does not implement ProcessCandidates", p.Name())
			}
			s.shared = append(s.shared, sh)
		}
		s.search = append(s.search, p)
	}
	return s, nil
}

// RequiresSpatialIndex reports whether any probe consumes candidates.
func (s *Set) RequiresSpatialIndex() bool { return len(s.search) > 0 }

// Len returns the number of probes.
func (s *Set) Len() int { return len(s.direct) + len(s.search) }

// Quantizer returns the coincidence quantizer.
func (s *Set) Quantizer() Quantizer { return s.quantizer }

// MaxRadius returns the query radius around point i.
func (s *Set) MaxRadius(i int) float64 {
	if !s.variableRadius {
		return s.sharedRadius
	}
	r := 0.0
	for _, p := range s.search {
		r = max(r, p.SearchRadius(i))
	}
	return r
}

// Scratch holds per-goroutine buffers reused across Process calls.
type Scratch struct {
	candidates []Candidate
	best       []BestCandidate
}

// Process runs every probe for source point i and writes edges to out.
// transforms holds the (possibly projected) point transforms, tree indexes
// their locations. accept, when non-nil, marks the points allowed to receive
// connections.
func (s *Set) Process(i int, transforms []geom.Transform, tree *spatial.KDTree, scratch *Scratch, out graph.EdgeSet, accept []bool) {
	pt := transforms[i]
	coincidence := s.quantizer.NewCoincidence()

	best := scratch.best[:0]
	for _, p := range s.chained {
		best = append(best, NewBestCandidate())
		p.PrepareBestCandidate(i, pt, &best[len(best)-1])
	}
	scratch.best = best

	if len(s.search) > 0 && tree != nil {
		origin := pt.Location
		candidates := scratch.candidates[:0]

		for j := range tree.QueryBox(origin, s.MaxRadius(i)) {
			if j == i {
				continue
			}
			pos := transforms[j].Location
			c := Candidate{
				Index:       j,
				Dir:         pos.Sub(origin).SafeNormal(),
				DistSquared: pos.DistSquared(origin),
			}
			if coincidence != nil {
				c.Bucket = s.quantizer.Bucket(c.Dir)
			}
			candidates = append(candidates, c)

			at := len(candidates) - 1
			for k, p := range s.chained {
				p.ProcessCandidateChained(i, pt, at, c, &best[k])
			}
		}

		for k, p := range s.chained {
			p.ProcessBestCandidate(i, pt, &best[k], candidates, coincidence, out)
		}

		if len(s.shared) > 0 {
			slices.SortStableFunc(candidates, func(a, b Candidate) int {
				return cmp.Compare(a.DistSquared, b.DistSquared)
			})
			for _, p := range s.shared {
				p.ProcessCandidates(i, pt, candidates, coincidence, out)
			}
		}

		scratch.candidates = candidates
	}

	for _, p := range s.direct {
		p.ProcessNode(i, transforms, coincidence, out, accept)
	}
}
