package pointgraph

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/pointgraph/chain"
	"github.com/hupe1980/pointgraph/geom"
	"github.com/hupe1980/pointgraph/graph"
	"github.com/hupe1980/pointgraph/internal/mt"
)

// PathSource selects what BreakToPaths turns into paths.
type PathSource uint8

const (
	// FromChains emits one path per chain.
	FromChains PathSource = iota
	// FromEdges emits one two-point path per edge.
	FromEdges
)

// LeavesHandling filters leaf paths.
type LeavesHandling uint8

const (
	// LeavesInclude keeps leaf paths alongside the others.
	LeavesInclude LeavesHandling = iota
	// LeavesExclude drops leaf paths.
	LeavesExclude
	// LeavesOnly keeps leaf paths only.
	LeavesOnly
)

// Winding selects the orientation of emitted paths in the projection plane.
type Winding uint8

const (
	// WindingUnchanged keeps chain order.
	WindingUnchanged Winding = iota
	// Clockwise orients paths to a negative signed area.
	Clockwise
	// CounterClockwise orients paths to a positive signed area.
	CounterClockwise
)

// PathsConfig configures BreakToPaths.
type PathsConfig struct {
	Source PathSource

	// MinPointCount and MaxPointCount bound the path size. Values <= 0
	// disable the bound.
	MinPointCount int
	MaxPointCount int

	Leaves LeavesHandling

	Winding Winding
	// WindOpenPaths also applies Winding to open paths.
	WindOpenPaths bool
	// Projection defines the winding plane. Nil projects along Up.
	Projection *geom.Projection

	// Direction orients open paths and edges. Nil keeps chain order and
	// ascending point index for edges.
	Direction graph.DirectionPolicy

	// Breakpoints forces chain cuts at the selected points.
	Breakpoints FilterSpec
}

// Path is an ordered list of point indices.
type Path struct {
	Points []int
	Closed bool
	// Leaf is set for paths ending on a dead end (a node with a single
	// link) and for isolated points.
	Leaf bool
}

// Tag returns "closed" or "open".
func (p Path) Tag() string {
	if p.Closed {
		return "closed"
	}
	return "open"
}

// BreakToPaths decomposes a cluster into paths. The result is ordered by
// chain order, or edge index in FromEdges mode.
func (e *Engine) BreakToPaths(ctx context.Context, c *graph.Cluster, cfg PathsConfig) ([]Path, error) {
	log := e.opts.logger.WithRun(uuid.New()).WithUnit("paths")

	if cfg.Source == FromEdges {
		return e.edgePaths(ctx, c, cfg)
	}

	opts := chain.Options{Scheduler: e.sched}
	if cfg.Breakpoints.IsSet() {
		f, err := cfg.Breakpoints.resolve(c.Points())
		if err != nil {
			return nil, classify("paths", err)
		}
		opts.Breakpoints = chain.BreakpointsFromFilter(c, f)
	}

	start := time.Now()
	chains, err := chain.NewBuilder(c, opts).Compile(ctx)
	e.opts.metricsCollector.RecordChains(len(chains), time.Since(start), err)
	log.LogChains(ctx, len(chains), err)
	if err != nil {
		return nil, err
	}

	proj := geom.NewProjection(geom.Up)
	if cfg.Projection != nil {
		proj = *cfg.Projection
	}

	out := make([]Path, len(chains))
	keep := make([]bool, len(chains))
	_, err = e.sched.RunParallel(ctx, len(chains), e.sched.ChunkSize(), func(sc mt.Scope) {
		for i := sc.Start; i < sc.End; i++ {
			out[i], keep[i] = chainPath(c, chains[i], cfg, proj)
		}
	}, nil)
	if err != nil {
		return nil, err
	}

	paths := out[:0]
	for i, p := range out {
		if keep[i] {
			paths = append(paths, p)
		}
	}
	return paths, nil
}

func chainPath(c *graph.Cluster, ch *chain.Chain, cfg PathsConfig, proj geom.Projection) (Path, bool) {
	leaf := ch.Leaf || c.Node(ch.Seed).IsEndpoint() || c.Node(ch.Terminal()).IsEndpoint()
	switch {
	case cfg.Leaves == LeavesExclude && leaf:
		return Path{}, false
	case cfg.Leaves == LeavesOnly && !leaf:
		return Path{}, false
	}

	size := ch.Len()
	if cfg.MinPointCount > 0 && size < cfg.MinPointCount {
		return Path{}, false
	}
	if cfg.MaxPointCount > 0 && size > cfg.MaxPointCount {
		return Path{}, false
	}

	nodes := ch.Nodes()
	pts := make([]int, len(nodes))
	for i, n := range nodes {
		pts[i] = c.Node(n).PointIndex
	}

	reverse := false
	if cfg.Direction != nil && !ch.ClosedLoop && len(pts) > 1 {
		first, last := pts[0], pts[len(pts)-1]
		s, _ := cfg.Direction.SortEndpoints(c, graph.Edge{Index: -1, Start: first, End: last})
		reverse = s != first
	}

	if cfg.Winding != WindingUnchanged && (ch.ClosedLoop || cfg.WindOpenPaths) {
		flat := make([]geom.Vec3, len(pts))
		for i, p := range pts {
			flat[i] = proj.Flat(c.Points().Position(p))
		}
		area := geom.SignedArea2(flat)
		// winding overrides the direction policy
		if area != 0 {
			reverse = (area > 0) != (cfg.Winding == CounterClockwise)
		}
	}

	if reverse {
		slices.Reverse(pts)
	}
	return Path{Points: pts, Closed: ch.ClosedLoop, Leaf: leaf}, true
}

func (e *Engine) edgePaths(ctx context.Context, c *graph.Cluster, cfg PathsConfig) ([]Path, error) {
	var policy graph.DirectionPolicy = graph.AscendingIndex{}
	if cfg.Direction != nil {
		policy = cfg.Direction
	}

	out := make([]Path, c.NumEdges())
	_, err := e.sched.RunParallel(ctx, c.NumEdges(), e.sched.ChunkSize(), func(sc mt.Scope) {
		for i := sc.Start; i < sc.End; i++ {
			s, t := policy.SortEndpoints(c, c.Edge(i))
			out[i] = Path{Points: []int{s, t}}
		}
	}, nil)
	if err != nil {
		return nil, err
	}
	return out, nil
}
