package chain

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/pointgraph/data"
	"github.com/hupe1980/pointgraph/geom"
	"github.com/hupe1980/pointgraph/graph"
	"github.com/hupe1980/pointgraph/internal/mt"
	"github.com/hupe1980/pointgraph/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cluster(t *testing.T, positions []geom.Vec3, edges ...[2]int) *graph.Cluster {
	t.Helper()
	b := graph.NewBuilder(data.FromPositions(positions...), graph.BuilderOptions{})
	for _, e := range edges {
		b.Graph().InsertEdge(e[0], e[1])
	}
	c, err := b.Compile(context.Background())
	if err != nil && !errors.Is(err, graph.ErrDegenerateGraph) {
		require.NoError(t, err)
	}
	return c
}

func compile(t *testing.T, c *graph.Cluster, opts Options) []*Chain {
	t.Helper()
	chains, err := NewBuilder(c, opts).Compile(context.Background())
	require.NoError(t, err)
	return chains
}

// assertPartition checks that every edge belongs to exactly one chain and
// that every chain is a valid walk.
func assertPartition(t *testing.T, c *graph.Cluster, chains []*Chain) {
	t.Helper()

	count := make([]int, c.NumEdges())
	for _, ch := range chains {
		nodes := ch.Nodes()
		seen := map[int]bool{}
		for _, n := range nodes {
			assert.False(t, seen[n], "node %d repeated in chain", n)
			seen[n] = true
		}
		for i, l := range ch.Links {
			e, ok := c.EdgeBetween(nodes[i], l.Node)
			require.True(t, ok)
			assert.Equal(t, e, l.Edge)
		}
		if ch.ClosedLoop {
			e, ok := c.EdgeBetween(ch.Terminal(), ch.Seed)
			require.True(t, ok)
			assert.Equal(t, e, ch.ClosingEdge)
		}
		for _, e := range ch.Edges() {
			count[e]++
		}
	}
	for e, n := range count {
		assert.Equal(t, 1, n, "edge %d covered %d times", e, n)
	}
}

func TestScenario_Square(t *testing.T) {
	c := cluster(t,
		[]geom.Vec3{geom.V(0, 0, 0), geom.V(1, 0, 0), geom.V(1, 1, 0), geom.V(0, 1, 0)},
		[2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3}, [2]int{3, 0},
	)
	chains := compile(t, c, Options{})

	require.Len(t, chains, 1)
	ch := chains[0]
	assert.True(t, ch.ClosedLoop)
	assert.False(t, ch.Leaf)
	assert.Equal(t, 4, ch.Len())
	assert.Len(t, ch.Edges(), 4)
	assert.Equal(t, 0, ch.Seed)
	assertPartition(t, c, chains)
}

func TestScenario_SinglePoint(t *testing.T) {
	c := cluster(t, []geom.Vec3{geom.Zero})
	require.False(t, c.Compiled())

	chains := compile(t, c, Options{})
	require.Len(t, chains, 1)
	assert.True(t, chains[0].Leaf)
	assert.Equal(t, 1, chains[0].Len())
	assert.Empty(t, chains[0].Edges())
}

func TestScenario_Path(t *testing.T) {
	c := cluster(t, testutil.Line(5, 1), [2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3}, [2]int{3, 4})
	chains := compile(t, c, Options{})

	require.Len(t, chains, 1)
	ch := chains[0]
	assert.False(t, ch.ClosedLoop)
	assert.Equal(t, 5, ch.Len())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, ch.Nodes())
	assert.Equal(t, []int{0, 1, 2, 3}, ch.Edges())
}

func TestBreakpoints(t *testing.T) {
	c := cluster(t, testutil.Line(5, 1), [2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3}, [2]int{3, 4})
	chains := compile(t, c, Options{Breakpoints: roaring.BitmapOf(2)})

	require.Len(t, chains, 2)
	assert.Equal(t, []int{0, 1, 2}, chains[0].Nodes())
	assert.Equal(t, []int{2, 3, 4}, chains[1].Nodes())
	assertPartition(t, c, chains)
}

func TestBreakpointsFromFilter(t *testing.T) {
	c := cluster(t, testutil.Line(4, 1), [2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3})
	bm := BreakpointsFromFilter(c, data.FilterFunc(func(i int) bool { return i%2 == 1 }))
	assert.Equal(t, []uint32{1, 3}, bm.ToArray())
}

func TestClosedLoopThroughBranch(t *testing.T) {
	// loop 0-1-2-0 hanging off branch 0, plus a tail 0-3
	c := cluster(t, testutil.Line(4, 1), [2]int{0, 1}, [2]int{1, 2}, [2]int{2, 0}, [2]int{0, 3})
	chains := compile(t, c, Options{})

	require.Len(t, chains, 2)
	assertPartition(t, c, chains)

	var loop, tail *Chain
	for _, ch := range chains {
		if ch.ClosedLoop {
			loop = ch
		} else {
			tail = ch
		}
	}
	require.NotNil(t, loop)
	require.NotNil(t, tail)

	assert.Equal(t, 0, loop.Seed)
	assert.Equal(t, 3, loop.Len())
	assert.Less(t, loop.Links[0].Edge, loop.ClosingEdge)
	assert.Equal(t, []int{0, 3}, tail.Nodes())
}

func TestBreakpointOnPureCycle(t *testing.T) {
	c := cluster(t, testutil.Ring(6, 1),
		[2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3}, [2]int{3, 4}, [2]int{4, 5}, [2]int{5, 0})
	chains := compile(t, c, Options{Breakpoints: roaring.BitmapOf(3)})

	require.Len(t, chains, 1)
	assert.True(t, chains[0].ClosedLoop)
	assert.Equal(t, 3, chains[0].Seed)
	assert.Equal(t, 6, chains[0].Len())
	assertPartition(t, c, chains)
}

func TestTwoPureCycles(t *testing.T) {
	c := cluster(t, testutil.Line(7, 1),
		[2]int{0, 1}, [2]int{1, 2}, [2]int{2, 0},
		[2]int{5, 3}, [2]int{3, 4}, [2]int{4, 5},
		[2]int{6, 6},
	)
	chains := compile(t, c, Options{})

	require.Len(t, chains, 3)
	assert.Equal(t, 0, chains[0].Seed)
	assert.Equal(t, 3, chains[1].Seed)
	assert.True(t, chains[2].Leaf, "self-loop dropped, node 6 isolated")
	assertPartition(t, c, chains)
}

func TestPartitionLaw_Random(t *testing.T) {
	rng := testutil.NewRNG(99)

	for round := range 20 {
		n := 20 + rng.Intn(200)
		var edges [][2]int
		for range n + rng.Intn(n) {
			edges = append(edges, [2]int{rng.Intn(n), rng.Intn(n)})
		}
		c := cluster(t, testutil.Line(n, 1), edges...)

		bm := roaring.New()
		for range rng.Intn(5) {
			bm.Add(uint32(rng.Intn(n)))
		}

		serial := compile(t, c, Options{Breakpoints: bm, Workers: 1, ChunkSize: 1})
		parallel := compile(t, c, Options{Breakpoints: bm, Workers: 8, ChunkSize: 2})

		assertPartition(t, c, parallel)
		assert.Equal(t, serial, parallel, "round %d: result depends on scheduling", round)

		leaves := 0
		for _, ch := range parallel {
			if ch.Leaf {
				leaves++
				assert.True(t, c.Node(ch.Seed).IsIsolated())
			}
		}
		isolated := 0
		for _, nd := range c.Nodes() {
			if nd.IsIsolated() {
				isolated++
			}
		}
		assert.Equal(t, isolated, leaves)
	}
}

func TestCompile_SharedScheduler(t *testing.T) {
	rng := testutil.NewRNG(7)
	n := 150
	var edges [][2]int
	for range 2 * n {
		edges = append(edges, [2]int{rng.Intn(n), rng.Intn(n)})
	}
	c := cluster(t, testutil.Line(n, 1), edges...)
	want := compile(t, c, Options{Workers: 1, ChunkSize: 1})

	sched := mt.New(mt.Config{Workers: 2, ChunkSize: 3})
	assert.Equal(t, 3, NewBuilder(c, Options{Scheduler: sched}).opts.ChunkSize, "chunk size follows the scheduler")

	results := make([][]*Chain, 6)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			chains, err := NewBuilder(c, Options{Scheduler: sched}).Compile(context.Background())
			assert.NoError(t, err)
			results[i] = chains
		}()
	}
	wg.Wait()

	for _, got := range results {
		assertPartition(t, c, got)
		assert.Equal(t, want, got)
	}
}

func TestCompile_Canceled(t *testing.T) {
	c := cluster(t, testutil.Line(3, 1), [2]int{0, 1}, [2]int{1, 2})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewBuilder(c, Options{}).Compile(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChain_Reverse(t *testing.T) {
	open := &Chain{Seed: 4, ClosingEdge: -1, Links: []graph.Link{{Node: 3, Edge: 7}, {Node: 1, Edge: 2}}}
	open.canonicalize()
	assert.Equal(t, []int{1, 3, 4}, open.Nodes())
	assert.Equal(t, []int{2, 7}, open.Edges())

	closed := &Chain{Seed: 0, ClosedLoop: true, ClosingEdge: 1,
		Links: []graph.Link{{Node: 5, Edge: 9}, {Node: 6, Edge: 4}}}
	closed.canonicalize()
	assert.Equal(t, []int{0, 6, 5}, closed.Nodes())
	assert.Equal(t, []int{1, 4, 9}, closed.Edges())
}
