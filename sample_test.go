package pointgraph_test

import (
	"context"
	"testing"

	"github.com/hupe1980/pointgraph"
	"github.com/hupe1980/pointgraph/blend"
	"github.com/hupe1980/pointgraph/data"
	"github.com/hupe1980/pointgraph/geom"
	"github.com/hupe1980/pointgraph/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleConfig() pointgraph.SampleConfig {
	return pointgraph.SampleConfig{
		MaxDistance:            5,
		SuccessAttr:            "ok",
		DistanceAttr:           "dist",
		NormalizedDistanceAttr: "norm",
		LocationAttr:           "loc",
		LookAtAttr:             "look",
		IndexAttr:              "idx",
	}
}

func targets() *data.Points {
	t := data.FromPositions(geom.V(1, 0, 0), geom.V(12, 0, 0))
	v := data.NewBuffer("v", 2, 0.0)
	v.Set(0, 3)
	v.Set(1, 7)
	t.Attrs.Add(v)
	return t
}

func TestSampleNearest_Closest(t *testing.T) {
	metrics := &pointgraph.BasicMetricsCollector{}
	engine := pointgraph.New(pointgraph.WithMetricsCollector(metrics), pointgraph.WithChunkSize(1))
	points := data.FromPositions(geom.V(0, 0, 0), geom.V(10, 0, 0), geom.V(100, 0, 0))

	cfg := sampleConfig()
	cfg.Blend = &blend.Config{Default: blend.Copy}

	res, err := engine.SampleNearest(context.Background(), points, targets(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Successes)
	assert.Equal(t, []uint32{2}, res.Failed.ToArray())
	assert.Equal(t, []string{pointgraph.HasSuccessesTag}, res.Tags)
	assert.Same(t, points, res.Points)

	ok, _ := data.Lookup[bool](points.Attrs, "ok")
	assert.Equal(t, []bool{true, true, false}, ok.Values())

	idx, _ := data.Lookup[int32](points.Attrs, "idx")
	assert.Equal(t, []int32{0, 1, -1}, idx.Values())

	dist, _ := data.Lookup[float64](points.Attrs, "dist")
	assert.InDeltaSlice(t, []float64{1, 2, 5}, dist.Values(), 1e-12)

	norm, _ := data.Lookup[float64](points.Attrs, "norm")
	assert.InDeltaSlice(t, []float64{0.5, 1, 1}, norm.Values(), 1e-12)

	loc, _ := data.Lookup[geom.Vec3](points.Attrs, "loc")
	assert.Equal(t, geom.V(12, 0, 0), loc.Read(1))
	assert.Equal(t, geom.V(100, 0, 0), loc.Read(2), "failures keep their own location")

	look, _ := data.Lookup[geom.Vec3](points.Attrs, "look")
	assert.Equal(t, geom.V(1, 0, 0), look.Read(1))

	v, err := data.Lookup[float64](points.Attrs, "v")
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 7, 0}, v.Values())

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.SampleCount)
	assert.Equal(t, int64(2), stats.SampleSuccesses)
}

func TestSampleNearest_OneMinusAndPrune(t *testing.T) {
	engine := pointgraph.New()
	points := data.FromPositions(geom.V(0, 0, 0), geom.V(10, 0, 0), geom.V(100, 0, 0))

	cfg := sampleConfig()
	cfg.OneMinusNormalized = true
	cfg.PruneFailed = true

	res, err := engine.SampleNearest(context.Background(), points, targets(), cfg)
	require.NoError(t, err)
	require.Equal(t, 2, res.Points.Len())

	norm, _ := data.Lookup[float64](res.Points.Attrs, "norm")
	assert.InDeltaSlice(t, []float64{0.5, 0}, norm.Values(), 1e-12)
}

func TestSampleNearest_WithinRange(t *testing.T) {
	engine := pointgraph.New()
	points := data.FromPositions(geom.Zero)
	tg := data.FromPositions(geom.V(1, 0, 0), geom.V(3, 0, 0), geom.V(50, 0, 0))

	cfg := sampleConfig()
	cfg.Mode = pointgraph.SampleWithinRange

	res, err := engine.SampleNearest(context.Background(), points, tg, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Successes)

	// weights 1-1/9 and 0: the farther target does not contribute
	loc, _ := data.Lookup[geom.Vec3](points.Attrs, "loc")
	assert.True(t, loc.Read(0).NearlyEqual(geom.V(1, 0, 0), 1e-9))

	dist, _ := data.Lookup[float64](points.Attrs, "dist")
	assert.InDelta(t, 1.0, dist.Read(0), 1e-9)

	idx, _ := data.Lookup[int32](points.Attrs, "idx")
	assert.Equal(t, int32(0), idx.Read(0))
}

func TestSampleNearest_Filter(t *testing.T) {
	engine := pointgraph.New()
	points := data.FromPositions(geom.V(0, 0, 0), geom.V(10, 0, 0))
	only0 := pointgraph.FilterSpec{Filter: data.FilterFunc(func(i int) bool { return i == 0 })}

	cfg := sampleConfig()
	cfg.Filter = only0
	res, err := engine.SampleNearest(context.Background(), points, targets(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Successes)
	assert.True(t, res.Failed.IsEmpty())

	ok, _ := data.Lookup[bool](points.Attrs, "ok")
	assert.Equal(t, []bool{true, false}, ok.Values())

	cfg.ProcessFilteredAsFails = true
	res, err = engine.SampleNearest(context.Background(), points, targets(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []uint32{1}, res.Failed.ToArray())
}

func TestSampleNearest_InputColumnsNotBlended(t *testing.T) {
	engine := pointgraph.New(pointgraph.WithChunkSize(1))
	points := data.FromPositions(geom.V(0, 0, 0), geom.V(10, 0, 0))
	skip := data.NewBuffer("skip", 2, false)
	skip.Set(1, true)
	points.Attrs.Add(skip)
	points.Attrs.Add(data.NewBuffer("r", 2, 5.0))

	tgt := targets()
	tgt.Attrs.Add(data.NewBuffer("skip", 2, true))
	tgt.Attrs.Add(data.NewBuffer("r", 2, 50.0))

	cfg := sampleConfig()
	cfg.Filter = pointgraph.FilterSpec{Attribute: "skip", Invert: true}
	cfg.MaxDistanceAttr = "r"
	cfg.Blend = &blend.Config{Default: blend.Copy}

	res, err := engine.SampleNearest(context.Background(), points, tgt, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Successes)

	assert.Equal(t, []bool{false, true}, skip.Values())
	r, _ := data.Lookup[float64](points.Attrs, "r")
	assert.Equal(t, []float64{5, 5}, r.Values())

	norm, _ := data.Lookup[float64](points.Attrs, "norm")
	assert.Equal(t, []float64{1, 0}, norm.Values(), "selection is fixed by the sampling pass")

	v, _ := data.Lookup[float64](points.Attrs, "v")
	assert.Equal(t, []float64{3, 0}, v.Values())
}

func TestSampleNearest_LocalMaxDistance(t *testing.T) {
	engine := pointgraph.New()
	points := data.FromPositions(geom.V(0, 0, 0), geom.V(10, 0, 0))
	r := data.NewBuffer("r", 2, 0.5)
	r.Set(1, 3)
	points.Attrs.Add(r)

	cfg := sampleConfig()
	cfg.MaxDistanceAttr = "r"

	res, err := engine.SampleNearest(context.Background(), points, targets(), cfg)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0}, res.Failed.ToArray())
}

func TestSampleNearest_Unbounded(t *testing.T) {
	engine := pointgraph.New()
	rng := testutil.NewRNG(3)
	box := geom.BoxAround(geom.Zero, 50)
	points := data.FromPositions(rng.Cloud(100, box)...)
	tg := rng.Cloud(40, box)

	cfg := sampleConfig()
	cfg.MaxDistance = 0

	res, err := engine.SampleNearest(context.Background(), points, data.FromPositions(tg...), cfg)
	require.NoError(t, err)
	assert.Equal(t, 100, res.Successes)

	idx, _ := data.Lookup[int32](points.Attrs, "idx")
	for i := range points.Len() {
		want, _ := testutil.ExactNearest(tg, points.Position(i), nil)
		assert.Equal(t, int32(want), idx.Read(i))
	}
}

func TestSampleNearest_Errors(t *testing.T) {
	engine := pointgraph.New()
	points := data.FromPositions(geom.Zero)

	_, err := engine.SampleNearest(context.Background(), points, data.FromPositions(), sampleConfig())
	assert.ErrorIs(t, err, pointgraph.ErrEmptyInput)

	cfg := sampleConfig()
	cfg.MaxDistanceAttr = "missing"
	_, err = engine.SampleNearest(context.Background(), points, targets(), cfg)
	assert.ErrorIs(t, err, pointgraph.ErrSetup)

	points.Attrs.Add(data.NewBuffer("ok", 1, 1.0))
	_, err = engine.SampleNearest(context.Background(), points, targets(), sampleConfig())
	assert.ErrorIs(t, err, pointgraph.ErrSetup)
}
