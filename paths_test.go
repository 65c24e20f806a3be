package pointgraph_test

import (
	"context"
	"testing"

	"github.com/hupe1980/pointgraph"
	"github.com/hupe1980/pointgraph/data"
	"github.com/hupe1980/pointgraph/geom"
	"github.com/hupe1980/pointgraph/graph"
	"github.com/hupe1980/pointgraph/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cluster compiles the given edges over positions.
func cluster(t *testing.T, positions []geom.Vec3, edges ...[2]int) *graph.Cluster {
	t.Helper()
	b := graph.NewBuilder(data.FromPositions(positions...), graph.BuilderOptions{})
	for _, e := range edges {
		b.Graph().InsertEdge(e[0], e[1])
	}
	c, err := b.Compile(context.Background())
	require.NoError(t, err)
	return c
}

func area(c *graph.Cluster, p pointgraph.Path) float64 {
	pts := make([]geom.Vec3, len(p.Points))
	for i, idx := range p.Points {
		pts[i] = c.Points().Position(idx)
	}
	return geom.SignedArea2(pts)
}

func TestBreakToPaths_Winding(t *testing.T) {
	engine := pointgraph.New()
	ring := testutil.Ring(6, 2)
	c := cluster(t, ring, [2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3}, [2]int{3, 4}, [2]int{4, 5}, [2]int{5, 0})

	for _, tc := range []struct {
		winding pointgraph.Winding
		check   func(t *testing.T, a float64)
	}{
		{pointgraph.Clockwise, func(t *testing.T, a float64) { assert.Negative(t, a) }},
		{pointgraph.CounterClockwise, func(t *testing.T, a float64) { assert.Positive(t, a) }},
	} {
		paths, err := engine.BreakToPaths(context.Background(), c, pointgraph.PathsConfig{Winding: tc.winding})
		require.NoError(t, err)
		require.Len(t, paths, 1)
		require.True(t, paths[0].Closed)
		assert.Len(t, paths[0].Points, 6)
		tc.check(t, area(c, paths[0]))
	}
}

func TestBreakToPaths_WindOpenPaths(t *testing.T) {
	engine := pointgraph.New()
	// an open L: counter-clockwise when read 0-1-2
	c := cluster(t, []geom.Vec3{geom.V(0, 0, 0), geom.V(1, 0, 0), geom.V(1, 1, 0)}, [2]int{0, 1}, [2]int{1, 2})

	plain, err := engine.BreakToPaths(context.Background(), c, pointgraph.PathsConfig{})
	require.NoError(t, err)
	require.Len(t, plain, 1)

	for _, w := range []pointgraph.Winding{pointgraph.Clockwise, pointgraph.CounterClockwise} {
		paths, err := engine.BreakToPaths(context.Background(), c, pointgraph.PathsConfig{Winding: w})
		require.NoError(t, err)
		assert.Equal(t, plain, paths, "open paths keep chain order by default")
	}

	cw, err := engine.BreakToPaths(context.Background(), c, pointgraph.PathsConfig{Winding: pointgraph.Clockwise, WindOpenPaths: true})
	require.NoError(t, err)
	require.Len(t, cw, 1)
	assert.False(t, cw[0].Closed)
	assert.Equal(t, []int{2, 1, 0}, cw[0].Points)
	assert.Negative(t, area(c, cw[0]))

	ccw, err := engine.BreakToPaths(context.Background(), c, pointgraph.PathsConfig{
		Winding:       pointgraph.CounterClockwise,
		WindOpenPaths: true,
		Direction:     graph.DescendingIndex{},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, ccw[0].Points, "winding overrides the direction policy")
}

// branch: 0-1-2 with a spur 1-3 and a separate segment 4-5-6.
func branchCluster(t *testing.T) *graph.Cluster {
	return cluster(t, testutil.Line(7, 1),
		[2]int{0, 1}, [2]int{1, 2}, [2]int{1, 3}, [2]int{4, 5}, [2]int{5, 6})
}

func TestBreakToPaths_Leaves(t *testing.T) {
	engine := pointgraph.New()
	c := cluster(t, testutil.Line(8, 1),
		[2]int{0, 1}, [2]int{1, 2}, [2]int{2, 0}, [2]int{2, 3}, [2]int{3, 4}, [2]int{4, 5}, [2]int{5, 3})

	all, err := engine.BreakToPaths(context.Background(), c, pointgraph.PathsConfig{})
	require.NoError(t, err)

	leaves, err := engine.BreakToPaths(context.Background(), c, pointgraph.PathsConfig{Leaves: pointgraph.LeavesOnly})
	require.NoError(t, err)
	excluded, err := engine.BreakToPaths(context.Background(), c, pointgraph.PathsConfig{Leaves: pointgraph.LeavesExclude})
	require.NoError(t, err)

	assert.Len(t, all, len(leaves)+len(excluded))
	require.Len(t, leaves, 2, "isolated points 6 and 7")
	for _, p := range leaves {
		assert.True(t, p.Leaf)
	}
	for _, p := range excluded {
		assert.False(t, p.Leaf)
	}
}

func TestBreakToPaths_PointCount(t *testing.T) {
	engine := pointgraph.New()
	c := branchCluster(t)

	paths, err := engine.BreakToPaths(context.Background(), c, pointgraph.PathsConfig{})
	require.NoError(t, err)
	sizes := make([]int, len(paths))
	for i, p := range paths {
		sizes[i] = len(p.Points)
	}
	assert.ElementsMatch(t, []int{2, 2, 2, 3}, sizes)

	paths, err = engine.BreakToPaths(context.Background(), c, pointgraph.PathsConfig{MinPointCount: 3})
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, []int{4, 5, 6}, paths[0].Points)

	paths, err = engine.BreakToPaths(context.Background(), c, pointgraph.PathsConfig{MaxPointCount: 2})
	require.NoError(t, err)
	assert.Len(t, paths, 3)
}

func TestBreakToPaths_Breakpoints(t *testing.T) {
	engine := pointgraph.New()
	c := cluster(t, testutil.Line(5, 1), [2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3}, [2]int{3, 4})

	paths, err := engine.BreakToPaths(context.Background(), c, pointgraph.PathsConfig{
		Breakpoints: pointgraph.FilterSpec{Filter: data.FilterFunc(func(i int) bool { return i == 2 })},
	})
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, []int{0, 1, 2}, paths[0].Points)
	assert.Equal(t, []int{2, 3, 4}, paths[1].Points)

	_, err = engine.BreakToPaths(context.Background(), c, pointgraph.PathsConfig{
		Breakpoints: pointgraph.FilterSpec{Attribute: "missing"},
	})
	assert.ErrorIs(t, err, pointgraph.ErrSetup)
}

func TestBreakToPaths_Direction(t *testing.T) {
	engine := pointgraph.New()
	c := cluster(t, testutil.Line(3, 1), [2]int{0, 1}, [2]int{1, 2})

	paths, err := engine.BreakToPaths(context.Background(), c, pointgraph.PathsConfig{Direction: graph.DescendingIndex{}})
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, []int{2, 1, 0}, paths[0].Points)
	assert.Equal(t, "open", paths[0].Tag())
}

func TestBreakToPaths_Edges(t *testing.T) {
	engine := pointgraph.New()
	c := branchCluster(t)

	paths, err := engine.BreakToPaths(context.Background(), c, pointgraph.PathsConfig{Source: pointgraph.FromEdges})
	require.NoError(t, err)
	require.Len(t, paths, c.NumEdges())
	for i, p := range paths {
		e := c.Edge(i)
		assert.Equal(t, []int{e.Start, e.End}, p.Points)
	}

	paths, err = engine.BreakToPaths(context.Background(), c, pointgraph.PathsConfig{
		Source:    pointgraph.FromEdges,
		Direction: graph.DescendingIndex{},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, paths[0].Points)
}
