package pointgraph_test

import (
	"context"
	"testing"

	"github.com/hupe1980/pointgraph"
	"github.com/hupe1980/pointgraph/blend"
	"github.com/hupe1980/pointgraph/data"
	"github.com/hupe1980/pointgraph/geom"
	"github.com/hupe1980/pointgraph/graph"
	"github.com/hupe1980/pointgraph/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weightedLine(t *testing.T) *graph.Cluster {
	t.Helper()
	c := cluster(t, testutil.Line(3, 1), [2]int{0, 1}, [2]int{1, 2})
	w := data.NewBuffer("w", 3, 0.0)
	w.Set(1, 10)
	w.Set(2, 20)
	c.Points().Attrs.Add(w)
	return c
}

func TestWriteEdgeProperties(t *testing.T) {
	engine := pointgraph.New()
	c := weightedLine(t)

	out, err := engine.WriteEdgeProperties(context.Background(), c, pointgraph.EdgePropertiesConfig{
		DirectionAttr:  "dir",
		LengthAttr:     "len",
		BlendEndpoints: true,
		StartWeight:    0.5,
		Blend:          blend.Config{Default: blend.Average},
	})
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())

	starts, err := data.Lookup[int32](out.Attrs, pointgraph.EdgeStartAttribute)
	require.NoError(t, err)
	ends, err := data.Lookup[int32](out.Attrs, pointgraph.EdgeEndAttribute)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 1}, starts.Values())
	assert.Equal(t, []int32{1, 2}, ends.Values())

	dirs, err := data.Lookup[geom.Vec3](out.Attrs, "dir")
	require.NoError(t, err)
	assert.Equal(t, geom.V(-1, 0, 0), dirs.Read(0))

	lengths, err := data.Lookup[float64](out.Attrs, "len")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, lengths.Read(1), 1e-12)

	assert.Equal(t, geom.V(0.5, 0, 0), out.Position(0))
	assert.Equal(t, geom.V(1.5, 0, 0), out.Position(1))

	w, err := data.Lookup[float64](out.Attrs, "w")
	require.NoError(t, err)
	assert.InDelta(t, 5.0, w.Read(0), 1e-9)
	assert.InDelta(t, 15.0, w.Read(1), 1e-9)
}

func TestWriteEdgeProperties_PositionLerp(t *testing.T) {
	engine := pointgraph.New()
	c := weightedLine(t)

	out, err := engine.WriteEdgeProperties(context.Background(), c, pointgraph.EdgePropertiesConfig{
		WritePosition:  true,
		PositionLerp:   0.25,
		BlendEndpoints: true,
		Blend:          blend.Config{Default: blend.Average},
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.75, out.Position(0).X, 1e-12)

	w, err := data.Lookup[float64](out.Attrs, "w")
	require.NoError(t, err)
	assert.InDelta(t, 7.5, w.Read(0), 1e-9)
}

func TestWriteEdgeProperties_Direction(t *testing.T) {
	engine := pointgraph.New()
	c := weightedLine(t)

	out, err := engine.WriteEdgeProperties(context.Background(), c, pointgraph.EdgePropertiesConfig{
		Direction:     graph.DescendingIndex{},
		DirectionAttr: "dir",
	})
	require.NoError(t, err)

	starts, err := data.Lookup[int32](out.Attrs, pointgraph.EdgeStartAttribute)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2}, starts.Values())

	dirs, err := data.Lookup[geom.Vec3](out.Attrs, "dir")
	require.NoError(t, err)
	assert.Equal(t, geom.V(1, 0, 0), dirs.Read(0))

	assert.False(t, out.Attrs.Has("w"), "no blending requested")
}

func TestWriteEdgeProperties_ProtectedEndpoints(t *testing.T) {
	engine := pointgraph.New()
	c := weightedLine(t)
	c.Points().Attrs.Add(data.NewBuffer[int32](pointgraph.EdgeStartAttribute, 3, 99))

	out, err := engine.WriteEdgeProperties(context.Background(), c, pointgraph.EdgePropertiesConfig{
		BlendEndpoints: true,
		Blend:          blend.Config{Default: blend.Max},
	})
	require.NoError(t, err)

	starts, err := data.Lookup[int32](out.Attrs, pointgraph.EdgeStartAttribute)
	require.NoError(t, err)
	assert.Equal(t, []int32{0, 1}, starts.Values())
}

func TestWriteEdgeProperties_ComputedOutputsWin(t *testing.T) {
	engine := pointgraph.New()
	c := weightedLine(t)
	c.Points().Attrs.Add(data.NewBuffer("len", 3, 100.0))
	c.Points().Attrs.Add(data.NewBuffer("dir", 3, 7.0))

	out, err := engine.WriteEdgeProperties(context.Background(), c, pointgraph.EdgePropertiesConfig{
		DirectionAttr:  "dir",
		LengthAttr:     "len",
		BlendEndpoints: true,
		StartWeight:    0.5,
		Blend:          blend.Config{Default: blend.Average},
	})
	require.NoError(t, err, "same-named endpoint attributes of another type are skipped")

	lengths, err := data.Lookup[float64](out.Attrs, "len")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1}, lengths.Values())

	dirs, err := data.Lookup[geom.Vec3](out.Attrs, "dir")
	require.NoError(t, err)
	assert.Equal(t, geom.V(-1, 0, 0), dirs.Read(1))

	w, err := data.Lookup[float64](out.Attrs, "w")
	require.NoError(t, err)
	assert.InDelta(t, 15.0, w.Read(1), 1e-9)
}
