package pointgraph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/pointgraph/data"
	"github.com/hupe1980/pointgraph/geom"
	"github.com/hupe1980/pointgraph/graph"
	"github.com/hupe1980/pointgraph/internal/mt"
	"github.com/hupe1980/pointgraph/probe"
	"github.com/hupe1980/pointgraph/spatial"
	"golang.org/x/sync/errgroup"
)

// Engine runs units of work on a shared worker pool. It is safe for
// concurrent use; independent units never share mutable state.
type Engine struct {
	opts  options
	sched *mt.Scheduler
}

// New creates an engine.
//
// Example:
//
//	engine := pointgraph.New(
//	    pointgraph.WithWorkers(8),
//	    pointgraph.WithLogger(pointgraph.NewJSONLogger(slog.LevelInfo)),
//	)
func New(optFns ...Option) *Engine {
	o := applyOptions(optFns)
	return &Engine{
		opts:  o,
		sched: mt.New(mt.Config{Workers: o.workers, ChunkSize: o.chunkSize}),
	}
}

// Connection is the result of one connect unit.
type Connection struct {
	RunID   uuid.UUID
	Cluster *graph.Cluster
}

// Connect builds the graph of points. On ErrDegenerateGraph the returned
// connection still holds the edgeless cluster.
func (e *Engine) Connect(ctx context.Context, points *data.Points, cfg ConnectConfig) (conn *Connection, err error) {
	runID := uuid.New()
	log := e.opts.logger.WithRun(runID).WithUnit("connect")
	start := time.Now()
	edges := 0

	defer func() {
		e.opts.metricsCollector.RecordConnect(points.Len(), edges, time.Since(start), err)
		if errors.Is(err, ErrEmptyInput) || errors.Is(err, ErrDegenerateGraph) {
			log.LogSkipped(ctx, err)
			return
		}
		log.LogConnect(ctx, points.Len(), edges, err)
	}()

	n := points.Len()
	if n < 2 {
		return nil, fmt.Errorf("%w: %d points", ErrEmptyInput, n)
	}

	probes := make([]probe.Probe, len(cfg.Probes))
	for i, f := range cfg.Probes {
		probes[i] = f()
	}
	set, err := probe.NewSet(points, cfg.Coincidence, probes...)
	if err != nil {
		return nil, classify("connect", err)
	}

	generators, err := cfg.Generators.resolve(points)
	if err != nil {
		return nil, classify("connect", err)
	}
	connectables, err := cfg.Connectables.resolve(points)
	if err != nil {
		return nil, classify("connect", err)
	}

	u, err := e.prepare(ctx, points, set, cfg.Projection, generators, connectables)
	if err != nil {
		return nil, err
	}

	builder := graph.NewBuilder(points, cfg.Graph)
	scopes := mt.Scopes(n, e.sched.ChunkSize())
	scoped := graph.NewScopedEdges(scopes)

	g := e.sched.NewGroup(ctx, "connect")
	g.OnComplete = func() {
		scoped.MergeInto(builder.Graph())
	}
	g.StartScopes(scopes, func(sc mt.Scope) {
		scratch := &probe.Scratch{}
		out := scoped.Get(sc)
		for i := sc.Start; i < sc.End; i++ {
			if u.generate[i] {
				set.Process(i, u.transforms, u.tree, scratch, out, u.accept)
			}
		}
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cluster, err := e.compile(ctx, log, builder)
	if cluster != nil {
		edges = cluster.NumEdges()
	}
	if err != nil {
		if errors.Is(err, ErrDegenerateGraph) {
			return &Connection{RunID: runID, Cluster: cluster}, err
		}
		return nil, err
	}
	return &Connection{RunID: runID, Cluster: cluster}, nil
}

// unit holds the prepared, read-only state of a connect unit.
type unit struct {
	transforms []geom.Transform
	generate   []bool
	accept     []bool
	tree       *spatial.KDTree
}

// prepare evaluates filters and projection in parallel, then builds the
// spatial index once every scope is done.
func (e *Engine) prepare(ctx context.Context, points *data.Points, set *probe.Set, proj *geom.Projection, generators, connectables data.Filter) (*unit, error) {
	n := points.Len()
	u := &unit{
		transforms: points.Transforms,
		generate:   make([]bool, n),
	}
	if proj != nil {
		u.transforms = make([]geom.Transform, n)
	}
	if connectables != nil {
		u.accept = make([]bool, n)
	}

	var empty error
	_, err := e.sched.RunParallel(ctx, n, e.sched.ChunkSize(), func(sc mt.Scope) {
		for i := sc.Start; i < sc.End; i++ {
			u.generate[i] = data.TestOr(generators, i, true)
			if u.accept != nil {
				u.accept[i] = connectables.Test(i)
			}
			if proj != nil {
				u.transforms[i] = proj.FlatTransform(points.Transforms[i])
			}
		}
	}, func() {
		nGen, nAccept := 0, 0
		for i := range n {
			if u.generate[i] {
				nGen++
			}
			if u.accept == nil || u.accept[i] {
				nAccept++
			}
		}
		if nGen == 0 || nAccept == 0 {
			empty = fmt.Errorf("%w: %d generators, %d connectables", ErrEmptyInput, nGen, nAccept)
			return
		}

		if set.RequiresSpatialIndex() {
			positions := make([]geom.Vec3, n)
			for i, t := range u.transforms {
				positions[i] = t.Location
			}
			u.tree = spatial.Build(positions, func(i int) bool {
				return u.accept == nil || u.accept[i]
			})
		}
	})
	if err != nil {
		return nil, err
	}
	if empty != nil {
		return nil, empty
	}
	return u, nil
}

func (e *Engine) compile(ctx context.Context, log *Logger, b *graph.Builder) (*graph.Cluster, error) {
	start := time.Now()
	cluster, err := b.Compile(ctx)

	nodes, edges := 0, 0
	if cluster != nil {
		nodes, edges = cluster.NumNodes(), cluster.NumEdges()
	}
	e.opts.metricsCollector.RecordCompile(nodes, edges, time.Since(start), err)
	log.LogCompile(ctx, nodes, edges, err)
	return cluster, err
}

// BatchResult is the outcome of one unit of a batch.
type BatchResult struct {
	Connection *Connection
	Err        error
}

// ConnectBatch connects every point set concurrently. A failing unit does
// not affect its siblings; its error is reported in its result. Only a
// canceled context fails the whole batch.
func (e *Engine) ConnectBatch(ctx context.Context, batch []*data.Points, cfg ConnectConfig) ([]BatchResult, error) {
	results := make([]BatchResult, len(batch))

	var g errgroup.Group
	g.SetLimit(e.opts.batchLimit)
	for i, points := range batch {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			if l := e.opts.batchLimiter; l != nil {
				if err := l.Wait(ctx); err != nil {
					results[i].Err = err
					return nil
				}
			}
			conn, err := e.Connect(ctx, points, cfg)
			results[i] = BatchResult{Connection: conn, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	e.opts.logger.WithUnit("connect").LogBatch(ctx, len(batch), failed)

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}
