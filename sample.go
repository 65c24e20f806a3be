package pointgraph

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/google/uuid"
	"github.com/hupe1980/pointgraph/blend"
	"github.com/hupe1980/pointgraph/data"
	"github.com/hupe1980/pointgraph/geom"
	"github.com/hupe1980/pointgraph/internal/mt"
	"github.com/hupe1980/pointgraph/spatial"
)

// SampleMode selects which targets a point samples.
type SampleMode uint8

const (
	// SampleClosest samples the single nearest target.
	SampleClosest SampleMode = iota
	// SampleWithinRange samples every target within MaxDistance, weighted by
	// distance.
	SampleWithinRange
)

// Tags added to a SampleResult.
const (
	HasSuccessesTag   = "has_successes"
	HasNoSuccessesTag = "has_no_successes"
)

// SampleConfig configures SampleNearest. Empty attribute names disable the
// corresponding output.
type SampleConfig struct {
	Mode SampleMode

	// MaxDistance bounds the search. Values <= 0 mean unbounded.
	MaxDistance float64
	// MaxDistanceAttr reads a per-point bound from a float64 attribute and
	// overrides MaxDistance.
	MaxDistanceAttr string

	// Filter selects the points to sample. Others are left untouched unless
	// ProcessFilteredAsFails is set.
	Filter                 FilterSpec
	ProcessFilteredAsFails bool

	SuccessAttr            string
	DistanceAttr           string
	NormalizedDistanceAttr string
	LocationAttr           string
	LookAtAttr             string
	IndexAttr              string

	// OneMinusNormalized writes 1 - d/max instead of d/max.
	OneMinusNormalized bool

	// Blend blends the sampled target attributes into the point. Nil
	// disables blending.
	Blend *blend.Config

	// PruneFailed removes failed points from the returned points.
	PruneFailed bool
}

// SampleResult is the outcome of one sampling unit.
type SampleResult struct {
	RunID uuid.UUID
	// Points holds the input points, or the surviving subset when
	// PruneFailed is set.
	Points    *data.Points
	Failed    *roaring.Bitmap
	Successes int
	Tags      []string
}

type sampleOutputs struct {
	dists      []float64
	success    *data.Buffer[bool]
	distance   *data.Buffer[float64]
	normalized *data.Buffer[float64]
	location   *data.Buffer[geom.Vec3]
	lookAt     *data.Buffer[geom.Vec3]
	index      *data.Buffer[int32]
}

func (o *sampleOutputs) ensure(t *data.Table, cfg SampleConfig) error {
	var err error
	if cfg.SuccessAttr != "" {
		if o.success, err = data.Ensure(t, cfg.SuccessAttr, false); err != nil {
			return err
		}
	}
	if cfg.DistanceAttr != "" {
		if o.distance, err = data.Ensure(t, cfg.DistanceAttr, 0.0); err != nil {
			return err
		}
	}
	if cfg.NormalizedDistanceAttr != "" {
		if o.normalized, err = data.Ensure(t, cfg.NormalizedDistanceAttr, 0.0); err != nil {
			return err
		}
	}
	if cfg.LocationAttr != "" {
		if o.location, err = data.Ensure(t, cfg.LocationAttr, geom.Zero); err != nil {
			return err
		}
	}
	if cfg.LookAtAttr != "" {
		if o.lookAt, err = data.Ensure(t, cfg.LookAtAttr, geom.Zero); err != nil {
			return err
		}
	}
	if cfg.IndexAttr != "" {
		if o.index, err = data.Ensure(t, cfg.IndexAttr, int32(-1)); err != nil {
			return err
		}
	}
	return nil
}

func (o *sampleOutputs) names(cfg SampleConfig) []string {
	return []string{cfg.SuccessAttr, cfg.DistanceAttr, cfg.NormalizedDistanceAttr, cfg.LocationAttr, cfg.LookAtAttr, cfg.IndexAttr}
}

func (o *sampleOutputs) write(i int, ok bool, dist float64, loc, lookAt geom.Vec3, idx int) {
	o.dists[i] = dist
	if o.success != nil {
		o.success.Set(i, ok)
	}
	if o.distance != nil {
		o.distance.Set(i, dist)
	}
	if o.location != nil {
		o.location.Set(i, loc)
	}
	if o.lookAt != nil {
		o.lookAt.Set(i, lookAt)
	}
	if o.index != nil {
		o.index.Set(i, int32(idx))
	}
}

// sampleScope accumulates per-scope results.
type sampleScope struct {
	failed    *roaring.Bitmap
	successes int
	maxDist   float64
	indices   []int
	positions []geom.Vec3
}

// SampleNearest samples targets for every point of points and writes the
// results as attributes on points. Points that find no target are failures:
// they are reported in SampleResult.Failed, never as an error.
func (e *Engine) SampleNearest(ctx context.Context, points, targets *data.Points, cfg SampleConfig) (res *SampleResult, err error) {
	runID := uuid.New()
	log := e.opts.logger.WithRun(runID).WithUnit("sample")
	start := time.Now()
	successes := 0

	defer func() {
		e.opts.metricsCollector.RecordSample(points.Len(), successes, time.Since(start), err)
		if errors.Is(err, ErrEmptyInput) {
			log.LogSkipped(ctx, err)
			return
		}
		log.LogSample(ctx, points.Len(), successes, err)
	}()

	n := points.Len()
	if n == 0 || targets.Len() == 0 {
		return nil, fmt.Errorf("%w: %d points, %d targets", ErrEmptyInput, n, targets.Len())
	}

	filter, err := cfg.Filter.resolve(points)
	if err != nil {
		return nil, classify("sample", err)
	}

	var localMax *data.Buffer[float64]
	if cfg.MaxDistanceAttr != "" {
		if localMax, err = data.Lookup[float64](points.Attrs, cfg.MaxDistanceAttr); err != nil {
			return nil, classify("sample", err)
		}
	}

	out := &sampleOutputs{dists: make([]float64, n)}
	if err := out.ensure(points.Attrs, cfg); err != nil {
		return nil, classify("sample", err)
	}

	var blender *blend.Blender
	if cfg.Blend != nil {
		bc := *cfg.Blend
		bc.Protected = append(slices.Clip(bc.Protected), out.names(cfg)...)
		// input columns stay as read
		for _, name := range []string{cfg.Filter.Attribute, cfg.MaxDistanceAttr} {
			if name != "" {
				bc.Protected = append(bc.Protected, name)
			}
		}
		if blender, err = blend.New(points.Attrs, targets.Attrs, bc); err != nil {
			return nil, classify("sample", err)
		}
	}

	tree := spatial.Build(targets.Positions(), nil)

	scopes := mt.Scopes(n, e.sched.ChunkSize())
	scoped := mt.NewScoped(scopes, func(mt.Scope) *sampleScope {
		return &sampleScope{failed: roaring.New()}
	})

	failed := roaring.New()
	maxDist := 0.0
	// written marks the points whose outputs this unit owns.
	written := make([]bool, n)

	g := e.sched.NewGroup(ctx, "sample")
	g.OnComplete = func() {
		var bitmaps []*roaring.Bitmap
		scoped.ForEach(func(s *sampleScope) {
			bitmaps = append(bitmaps, s.failed)
			successes += s.successes
			maxDist = max(maxDist, s.maxDist)
		})
		failed = roaring.FastOr(bitmaps...)
	}
	g.StartScopes(scopes, func(sc mt.Scope) {
		s := scoped.Get(sc)
		for i := sc.Start; i < sc.End; i++ {
			radius := cfg.MaxDistance
			if localMax != nil {
				radius = localMax.Read(i)
			}

			if !data.TestOr(filter, i, true) {
				if cfg.ProcessFilteredAsFails {
					written[i] = true
					sampleFail(points, out, s, i, radius)
				}
				continue
			}
			written[i] = true

			if samplePoint(points, targets, tree, cfg.Mode, blender, out, s, i, radius) {
				s.successes++
			} else {
				sampleFail(points, out, s, i, radius)
			}
		}
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if out.normalized != nil {
		_, err := e.sched.RunParallel(ctx, n, e.sched.ChunkSize(), func(sc mt.Scope) {
			for i := sc.Start; i < sc.End; i++ {
				if !written[i] {
					continue
				}
				v := 1.0
				if !failed.Contains(uint32(i)) && maxDist > 0 {
					v = out.dists[i] / maxDist
				}
				if cfg.OneMinusNormalized {
					v = 1 - v
				}
				out.normalized.Set(i, v)
			}
		}, nil)
		if err != nil {
			return nil, err
		}
	}

	res = &SampleResult{
		RunID:     runID,
		Points:    points,
		Failed:    failed,
		Successes: successes,
	}
	if successes > 0 {
		res.Tags = append(res.Tags, HasSuccessesTag)
	} else {
		res.Tags = append(res.Tags, HasNoSuccessesTag)
	}

	if cfg.PruneFailed && !failed.IsEmpty() {
		keep := make([]int, 0, n-int(failed.GetCardinality()))
		for i := range n {
			if !failed.Contains(uint32(i)) {
				keep = append(keep, i)
			}
		}
		res.Points = points.Subset(keep)
	}
	return res, nil
}

// samplePoint samples point i and reports whether any target was found.
func samplePoint(points, targets *data.Points, tree *spatial.KDTree, mode SampleMode, blender *blend.Blender, out *sampleOutputs, s *sampleScope, i int, radius float64) bool {
	origin := points.Position(i)

	if mode == SampleClosest {
		idx, d2, ok := tree.Nearest(origin, radius, nil)
		if !ok {
			return false
		}
		loc := targets.Position(idx)
		dist := math.Sqrt(d2)
		out.write(i, true, dist, loc, loc.Sub(origin).SafeNormal(), idx)
		s.maxDist = max(s.maxDist, dist)
		if blender != nil {
			blender.PrepareForBlending(i)
			blender.Blend(i, idx, 1)
			blender.CompleteBlending(i, 1, 1)
		}
		return true
	}

	s.indices, s.positions = s.indices[:0], s.positions[:0]
	if radius > 0 {
		for j := range tree.QuerySphere(origin, radius) {
			s.indices = append(s.indices, j)
		}
		slices.Sort(s.indices)
	} else {
		for j := range targets.Len() {
			s.indices = append(s.indices, j)
		}
	}
	if len(s.indices) == 0 {
		return false
	}
	for _, j := range s.indices {
		s.positions = append(s.positions, targets.Position(j))
	}

	weights := blend.Weights(origin, s.positions)
	total := blend.Total(weights)

	var loc geom.Vec3
	dist := 0.0
	nearest, nearestD2 := -1, math.Inf(1)
	for k, j := range s.indices {
		p := s.positions[k]
		loc = loc.Add(p.Scale(weights[k]))
		d2 := p.DistSquared(origin)
		dist += math.Sqrt(d2) * weights[k]
		if d2 < nearestD2 {
			nearest, nearestD2 = j, d2
		}
	}
	loc = loc.Scale(1 / total)
	dist /= total

	out.write(i, true, dist, loc, loc.Sub(origin).SafeNormal(), nearest)
	s.maxDist = max(s.maxDist, dist)

	if blender != nil {
		blender.PrepareForBlending(i)
		for k, j := range s.indices {
			blender.Blend(i, j, weights[k])
		}
		blender.CompleteBlending(i, len(s.indices), total)
	}
	return true
}

// sampleFail writes the failure values of point i.
func sampleFail(points *data.Points, out *sampleOutputs, s *sampleScope, i int, radius float64) {
	t := points.Transforms[i]
	out.write(i, false, max(radius, 0), t.Location, t.Forward(), -1)
	s.failed.Add(uint32(i))
}
