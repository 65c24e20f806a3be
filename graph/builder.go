package graph

import (
	"context"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/pointgraph/data"
)

// BuilderOptions controls compilation.
type BuilderOptions struct {
	// PruneIsolated drops nodes left without edges.
	PruneIsolated bool

	// MinNodeDegree repeatedly removes the edges of nodes whose degree is
	// below it. 0 disables the filter.
	MinNodeDegree int
}

// Builder owns the Graph of one point set and compiles it.
type Builder struct {
	points *data.Points
	opts   BuilderOptions
	graph  *Graph
}

// NewBuilder creates a builder for points.
func NewBuilder(points *data.Points, opts BuilderOptions) *Builder {
	return &Builder{
		points: points,
		opts:   opts,
		graph:  NewGraph(points.Len()),
	}
}

// Graph returns the mutable edge store.
func (b *Builder) Graph() *Graph { return b.graph }

// Options returns the compile options.
func (b *Builder) Options() BuilderOptions { return b.opts }

// Compile builds the cluster. When no edge survives it returns the
// uncompiled cluster together with ErrDegenerateGraph.
func (b *Builder) Compile(ctx context.Context) (*Cluster, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	keys := b.graph.edges.Sorted()
	if b.opts.MinNodeDegree > 0 {
		keys = enforceMinDegree(keys, b.graph.numPoints, b.opts.MinNodeDegree)
	}

	degree := make([]int, b.graph.numPoints)
	for _, k := range keys {
		degree[k.Lo]++
		degree[k.Hi]++
	}

	c := &Cluster{
		points:      b.points,
		nodeByPoint: make([]int, b.graph.numPoints),
		edges:       make([]Edge, len(keys)),
		pruned:      roaring.New(),
	}

	c.nodes = make([]Node, 0, b.graph.numPoints)
	for p := range b.graph.numPoints {
		if degree[p] == 0 && b.opts.PruneIsolated {
			c.nodeByPoint[p] = -1
			c.pruned.Add(uint32(p))
			continue
		}
		c.nodeByPoint[p] = len(c.nodes)
		c.nodes = append(c.nodes, Node{
			Index:      len(c.nodes),
			PointIndex: p,
			Links:      make([]Link, 0, degree[p]),
		})
	}

	for i, k := range keys {
		c.edges[i] = Edge{Index: i, Start: k.Lo, End: k.Hi}
		a, z := c.nodeByPoint[k.Lo], c.nodeByPoint[k.Hi]
		c.nodes[a].Links = append(c.nodes[a].Links, Link{Node: z, Edge: i})
		c.nodes[z].Links = append(c.nodes[z].Links, Link{Node: a, Edge: i})
	}

	if len(c.edges) == 0 {
		return c, ErrDegenerateGraph
	}
	c.compiled = true
	return c, nil
}

// enforceMinDegree drops edges touching nodes below minDegree until every
// remaining edge joins two nodes that satisfy it.
func enforceMinDegree(keys []EdgeKey, numPoints, minDegree int) []EdgeKey {
	degree := make([]int, numPoints)
	for _, k := range keys {
		degree[k.Lo]++
		degree[k.Hi]++
	}

	removed := make([]bool, len(keys))
	for {
		changed := false
		for i, k := range keys {
			if removed[i] {
				continue
			}
			if degree[k.Lo] < minDegree || degree[k.Hi] < minDegree {
				removed[i] = true
				degree[k.Lo]--
				degree[k.Hi]--
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	kept := keys[:0]
	for i, k := range keys {
		if !removed[i] {
			kept = append(kept, k)
		}
	}
	return kept
}
