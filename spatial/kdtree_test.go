package spatial

import (
	"slices"
	"testing"

	"github.com/hupe1980/pointgraph/geom"
	"github.com/hupe1980/pointgraph/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKDTree_Empty(t *testing.T) {
	tree := Build(nil, nil)
	assert.Zero(t, tree.Len())
	assert.False(t, tree.Bounds().IsValid())
	assert.Empty(t, slices.Collect(tree.QueryBox(geom.Zero, 10)))

	_, _, ok := tree.Nearest(geom.Zero, 0, nil)
	assert.False(t, ok)
}

func TestKDTree_QueryBoxMatchesBruteForce(t *testing.T) {
	rng := testutil.NewRNG(42)
	pts := rng.Cloud(2000, geom.BoxAround(geom.Zero, 50))
	tree := Build(pts, nil, func(o *Options) { o.LeafSize = 8 })
	require.Equal(t, len(pts), tree.Len())

	for q := range 50 {
		origin := pts[q*37]
		radius := 1 + float64(q%7)*2

		got := slices.Collect(tree.QueryBox(origin, radius))
		slices.Sort(got)
		want := testutil.ExactInBox(pts, origin, radius, nil)
		assert.Equal(t, want, got, "query %d", q)
	}
}

func TestKDTree_BoxNotSphere(t *testing.T) {
	// (1,1,0) is outside the unit sphere but inside the unit box
	pts := []geom.Vec3{geom.Zero, geom.V(1, 1, 0)}
	tree := Build(pts, nil)

	assert.ElementsMatch(t, []int{0, 1}, slices.Collect(tree.QueryBox(geom.Zero, 1)))
	assert.Equal(t, []int{0}, slices.Collect(tree.QuerySphere(geom.Zero, 1)))
}

func TestKDTree_ExcludedPointsAreNotIndexed(t *testing.T) {
	pts := testutil.Line(10, 1)
	odd := func(i int) bool { return i%2 == 1 }
	tree := Build(pts, odd)

	assert.Equal(t, 5, tree.Len())
	got := slices.Collect(tree.QueryBox(pts[4], 1.5))
	slices.Sort(got)
	assert.Equal(t, []int{3, 5}, got, "even point 4 may query but is never returned")
}

func TestKDTree_EarlyStop(t *testing.T) {
	tree := Build(testutil.Grid(10, 10, 1), nil)
	n := 0
	for range tree.QueryBox(geom.V(5, 5, 0), 100) {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestKDTree_Nearest(t *testing.T) {
	rng := testutil.NewRNG(3)
	pts := rng.Cloud(500, geom.BoxAround(geom.Zero, 20))
	tree := Build(pts, nil, func(o *Options) { o.LeafSize = 4 })

	queries := rng.Cloud(40, geom.BoxAround(geom.Zero, 25))
	for _, q := range queries {
		wantIdx, wantD2 := testutil.ExactNearest(pts, q, nil)
		idx, d2, ok := tree.Nearest(q, 0, nil)
		require.True(t, ok)
		assert.Equal(t, wantIdx, idx)
		assert.InDelta(t, wantD2, d2, 1e-9)
	}

	skip := func(i int) bool { return i == 0 }
	idx, _, ok := tree.Nearest(pts[0], 0, skip)
	require.True(t, ok)
	assert.NotEqual(t, 0, idx)

	_, _, ok = Build(testutil.Line(2, 10), nil).Nearest(geom.V(5, 3, 0), 1, nil)
	assert.False(t, ok, "nothing within max distance")
}
