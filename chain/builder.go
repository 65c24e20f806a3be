package chain

import (
	"cmp"
	"context"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/pointgraph/data"
	"github.com/hupe1980/pointgraph/graph"
	"github.com/hupe1980/pointgraph/internal/bitset"
	"github.com/hupe1980/pointgraph/internal/mt"
)

// Options configures a Builder.
type Options struct {
	// Breakpoints holds node indices that cut chains regardless of degree.
	Breakpoints *roaring.Bitmap

	// Scheduler runs the walks. Sharing one scheduler between callers keeps
	// their combined parallelism within its worker slots. If nil, Compile
	// creates a scheduler from Workers.
	Scheduler *mt.Scheduler

	// Workers caps parallel walks when Scheduler is nil. If <= 0, defaults
	// to GOMAXPROCS.
	Workers int

	// ChunkSize is the number of seeds per scope. If <= 0, defaults to the
	// scheduler's chunk size, or 64 without a scheduler.
	ChunkSize int
}

// Builder derives chains from a compiled cluster.
type Builder struct {
	cluster *graph.Cluster
	opts    Options

	// traversals holds two flags per edge: walked from its start node, and
	// walked from its end node.
	traversals *bitset.BitSet
	// owners holds one flag per edge, set on the canonical edge of each
	// emitted chain.
	owners *bitset.BitSet
}

// NewBuilder returns a builder for c.
func NewBuilder(c *graph.Cluster, opts Options) *Builder {
	if opts.ChunkSize <= 0 && opts.Scheduler != nil {
		opts.ChunkSize = opts.Scheduler.ChunkSize()
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 64
	}
	return &Builder{cluster: c, opts: opts}
}

// BreakpointsFromFilter collects the nodes whose point passes f.
func BreakpointsFromFilter(c *graph.Cluster, f data.Filter) *roaring.Bitmap {
	bm := roaring.New()
	for _, n := range c.Nodes() {
		if f.Test(n.PointIndex) {
			bm.Add(uint32(n.Index))
		}
	}
	return bm
}

func (b *Builder) isBreakpoint(node int) bool {
	return b.opts.Breakpoints != nil && b.opts.Breakpoints.Contains(uint32(node))
}

// isCut reports whether a walk must stop at node.
func (b *Builder) isCut(node int) bool {
	return b.cluster.Node(node).Degree() != 2 || b.isBreakpoint(node)
}

// Compile returns every chain of the cluster sorted by seed node then first
// edge. The cluster does not need to be compiled successfully: an edgeless
// cluster yields one leaf per node.
func (b *Builder) Compile(ctx context.Context) ([]*Chain, error) {
	c := b.cluster
	b.traversals = bitset.New(2 * c.NumEdges())
	b.owners = bitset.New(c.NumEdges())

	var seeds []int
	var chains []*Chain
	for _, n := range c.Nodes() {
		switch {
		case n.IsIsolated():
			chains = append(chains, &Chain{Seed: n.Index, Leaf: true, ClosingEdge: -1})
		case b.isCut(n.Index):
			seeds = append(seeds, n.Index)
		}
	}

	if len(seeds) > 0 {
		scopes := mt.Scopes(len(seeds), b.opts.ChunkSize)
		found := mt.NewScoped(scopes, func(mt.Scope) *[]*Chain { return new([]*Chain) })

		sched := b.opts.Scheduler
		if sched == nil {
			sched = mt.New(mt.Config{Workers: b.opts.Workers, ChunkSize: b.opts.ChunkSize})
		}
		g := sched.NewGroup(ctx, "chains")
		g.StartScopes(scopes, func(sc mt.Scope) {
			out := found.Get(sc)
			for _, seed := range seeds[sc.Start:sc.End] {
				for _, l := range c.Node(seed).Links {
					if ch := b.walk(seed, l); ch != nil {
						*out = append(*out, ch)
					}
				}
			}
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		found.ForEach(func(list *[]*Chain) { chains = append(chains, *list...) })
	}

	chains = append(chains, b.cycles(chains)...)

	for _, ch := range chains {
		ch.canonicalize()
	}
	slices.SortFunc(chains, func(x, y *Chain) int {
		if r := cmp.Compare(x.Seed, y.Seed); r != 0 {
			return r
		}
		return cmp.Compare(x.firstEdge(), y.firstEdge())
	})
	return chains, nil
}

// traversal returns the claim flag for walking edge away from node.
func (b *Builder) traversal(edge, from int) int {
	if b.cluster.EdgeStart(edge).Index == from {
		return 2 * edge
	}
	return 2*edge + 1
}

// walk follows first away from seed until it reaches a cut node or returns
// to seed. It returns nil when another walker owns the chain.
func (b *Builder) walk(seed int, first graph.Link) *Chain {
	if !b.traversals.Claim(b.traversal(first.Edge, seed)) {
		return nil
	}

	ch := &Chain{Seed: seed, ClosingEdge: -1}
	cur, via := first.Node, first.Edge
	for {
		if cur == seed {
			ch.ClosedLoop = true
			ch.ClosingEdge = via
			break
		}
		ch.Links = append(ch.Links, graph.Link{Node: cur, Edge: via})
		if b.isCut(cur) {
			break
		}
		next := b.other(cur, via)
		cur, via = next.Node, next.Edge
	}

	// Mark the way back as taken so the walker at the other end can skip it.
	// If it already started, ownership below decides.
	if ch.ClosedLoop {
		b.traversals.Set(b.traversal(ch.ClosingEdge, seed))
	} else {
		b.traversals.Set(b.traversal(ch.lastEdge(), ch.Terminal()))
	}

	if !b.owners.Claim(min(ch.firstEdge(), ch.lastEdge())) {
		return nil
	}
	return ch
}

// other returns the link of passthrough node n that does not use edge.
func (b *Builder) other(n, edge int) graph.Link {
	links := b.cluster.Node(n).Links
	if links[0].Edge == edge {
		return links[1]
	}
	return links[0]
}

// cycles emits the closed loops made only of passthrough nodes, which have
// no seed. Runs after the parallel pass.
func (b *Builder) cycles(found []*Chain) []*Chain {
	c := b.cluster
	covered := bitset.New(c.NumEdges())
	for _, ch := range found {
		for _, e := range ch.Edges() {
			covered.Set(e)
		}
	}

	var out []*Chain
	for e := covered.NextClear(0); e >= 0; e = covered.NextClear(e + 1) {
		// walk from the lowest node of the loop
		start := c.EdgeStart(e).Index
		ch := &Chain{Seed: start, ClosedLoop: true, ClosingEdge: -1}
		lowest := start

		cur, via := c.EdgeEnd(e).Index, e
		covered.Set(e)
		for cur != start {
			ch.Links = append(ch.Links, graph.Link{Node: cur, Edge: via})
			lowest = min(lowest, cur)
			next := b.other(cur, via)
			cur, via = next.Node, next.Edge
			covered.Set(via)
		}
		ch.ClosingEdge = via

		out = append(out, rotate(ch, lowest))
	}
	return out
}

// rotate returns closed loop ch restarted at node seed.
func rotate(ch *Chain, seed int) *Chain {
	if ch.Seed == seed {
		return ch
	}

	nodes := ch.Nodes()
	edges := ch.Edges() // edges[i] joins nodes[i] and nodes[i+1], last wraps
	at := slices.Index(nodes, seed)

	k := len(nodes)
	out := &Chain{Seed: seed, ClosedLoop: true, Links: make([]graph.Link, 0, k-1)}
	for i := 1; i < k; i++ {
		out.Links = append(out.Links, graph.Link{
			Node: nodes[(at+i)%k],
			Edge: edges[(at+i-1)%k],
		})
	}
	out.ClosingEdge = edges[(at+k-1)%k]
	return out
}
