package config

import (
	"context"
	"testing"

	"github.com/hupe1980/pointgraph"
	"github.com/hupe1980/pointgraph/blend"
	"github.com/hupe1980/pointgraph/data"
	"github.com/hupe1980/pointgraph/geom"
	"github.com/hupe1980/pointgraph/probe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pipeline = `
engine {
  workers     = 4
  chunk_size  = 64
  batch_limit = 2
  batch_rate  = 100
  batch_burst = 4
  log_level   = "debug"
  log_format  = "json"
}

connect {
  prune_isolated  = true
  min_node_degree = 1
  project         = [0, 0, 1]
  generators      = "gen"

  coincidence {
    tolerance = 0.01
    rounding  = "round"
  }

  probe "closest" {
    radius          = 1.1
    max_connections = 1
  }

  probe "direction" {
    radius    = 5
    direction = [0, 1, 0]
    max_angle = 30
    favor     = "aligned"
  }

  probe "index" {
    mode   = "one_way_offset"
    value  = 1
    safety = "wrap"
  }
}

paths {
  min_points  = 2
  max_points  = 10
  leaves      = "exclude"
  winding     = "counter_clockwise"
  breakpoints = "cut"
  projection  = [0, 0, 1]
}

sample {
  mode                 = "within_range"
  max_distance         = 5
  success_attribute    = "ok"
  distance_attribute   = "dist"
  one_minus_normalized = true

  blend {
    default   = "average"
    operators = { id = "copy" }
    protected = ["ok"]
  }
}
`

func TestParse_Full(t *testing.T) {
	f, err := Parse([]byte(pipeline), "pipeline.hcl")
	require.NoError(t, err)

	opts, err := f.EngineOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 5)

	cfg, err := f.ConnectConfig()
	require.NoError(t, err)
	require.Len(t, cfg.Probes, 3)
	assert.Equal(t, probe.Quantizer{Tolerance: 0.01, Rounding: geom.Round}, cfg.Coincidence)
	require.NotNil(t, cfg.Projection)
	assert.Equal(t, geom.Up, cfg.Projection.Normal())
	assert.Equal(t, "gen", cfg.Generators.Attribute)
	assert.True(t, cfg.Graph.PruneIsolated)
	assert.Equal(t, 1, cfg.Graph.MinNodeDegree)

	closest, ok := cfg.Probes[0]().(*probe.Closest)
	require.True(t, ok)
	assert.Equal(t, 1, closest.MaxConnections)

	dir, ok := cfg.Probes[1]().(*probe.Direction)
	require.True(t, ok)
	assert.Equal(t, geom.V(0, 1, 0), dir.Direction)
	assert.Equal(t, probe.FavorAligned, dir.Favor)
	assert.InDelta(t, 30, dir.MaxAngle, 0)

	idx, ok := cfg.Probes[2]().(*probe.Index)
	require.True(t, ok)
	assert.Equal(t, probe.OneWayOffset, idx.Mode)
	assert.Equal(t, probe.Wrap, idx.Safety)

	paths, err := f.PathsConfig()
	require.NoError(t, err)
	assert.Equal(t, 2, paths.MinPointCount)
	assert.Equal(t, 10, paths.MaxPointCount)
	assert.Equal(t, pointgraph.LeavesExclude, paths.Leaves)
	assert.Equal(t, pointgraph.CounterClockwise, paths.Winding)
	assert.Equal(t, "cut", paths.Breakpoints.Attribute)
	require.NotNil(t, paths.Projection)

	sample, err := f.SampleConfig()
	require.NoError(t, err)
	assert.Equal(t, pointgraph.SampleWithinRange, sample.Mode)
	assert.InDelta(t, 5, sample.MaxDistance, 0)
	assert.True(t, sample.OneMinusNormalized)
	require.NotNil(t, sample.Blend)
	assert.Equal(t, blend.Average, sample.Blend.Default)
	assert.Equal(t, blend.Copy, sample.Blend.OperatorFor("id"))
	assert.Equal(t, blend.None, sample.Blend.OperatorFor("ok"))
}

func TestParse_Defaults(t *testing.T) {
	f, err := Parse([]byte(`
connect {
  probe "closest" {
    radius = 2
  }
}
`), "min.hcl")
	require.NoError(t, err)

	opts, err := f.EngineOptions()
	require.NoError(t, err)
	assert.Empty(t, opts)

	cfg, err := f.ConnectConfig()
	require.NoError(t, err)
	closest := cfg.Probes[0]().(*probe.Closest)
	assert.Equal(t, -1, closest.MaxConnections, "omitted max_connections is unlimited")
	assert.Nil(t, cfg.Projection)
	assert.False(t, cfg.Generators.IsSet())

	paths, err := f.PathsConfig()
	require.NoError(t, err)
	assert.Equal(t, pointgraph.PathsConfig{}, paths)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		invalid bool
	}{
		{"Syntax", `connect {`, false},
		{"UnknownBlock", `nope {}`, false},
		{"NoProbes", `connect {}`, true},
		{"UnknownKind", `connect {
  probe "random" {}
}`, true},
		{"AngleOutOfRange", `connect {
  probe "direction" {
    radius    = 1
    max_angle = 270
  }
}`, true},
		{"NegativeRate", `engine {
  batch_rate = -1
}`, true},
		{"BadLogLevel", `engine {
  log_level = "loud"
}`, true},
		{"BadCoincidence", `connect {
  probe "closest" {
    radius = 1
  }
  coincidence {
    tolerance = 0
  }
}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "bad.hcl")
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, ErrInvalid)
			}
		})
	}
}

func TestConnectConfig_BadVectors(t *testing.T) {
	f, err := Parse([]byte(`
connect {
  project = [0, 1]
  probe "closest" {
    radius = 1
  }
}
`), "vec.hcl")
	require.NoError(t, err)

	_, err = f.ConnectConfig()
	assert.ErrorIs(t, err, ErrInvalid)

	f, err = Parse([]byte(`
connect {
  probe "direction" {
    radius    = 1
    direction = "up"
  }
}
`), "vec.hcl")
	require.NoError(t, err)

	_, err = f.ConnectConfig()
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestConnectConfig_MissingBlock(t *testing.T) {
	f, err := Parse([]byte(`engine {}`), "e.hcl")
	require.NoError(t, err)

	_, err = f.ConnectConfig()
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestSampleConfig_BadOperator(t *testing.T) {
	f, err := Parse([]byte(`
sample {
  blend {
    default = "median"
  }
}
`), "s.hcl")
	require.NoError(t, err)

	_, err = f.SampleConfig()
	assert.ErrorIs(t, err, ErrInvalid)
	assert.ErrorIs(t, err, blend.ErrUnknownOperator)
}

func TestConnectConfig_RunsOnEngine(t *testing.T) {
	f, err := Parse([]byte(`
engine {
  workers = 2
}

connect {
  probe "closest" {
    radius          = 1.1
    max_connections = 1
  }
}
`), "run.hcl")
	require.NoError(t, err)

	opts, err := f.EngineOptions()
	require.NoError(t, err)
	cfg, err := f.ConnectConfig()
	require.NoError(t, err)

	pts := data.FromPositions(geom.V(0, 0, 0), geom.V(1, 0, 0), geom.V(1, 1, 0), geom.V(0, 1, 0))
	conn, err := pointgraph.New(opts...).Connect(context.Background(), pts, cfg)
	require.NoError(t, err)
	assert.Equal(t, 4, conn.Cluster.NumEdges())
}
