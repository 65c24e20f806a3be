package pointgraph

import (
	"context"
	"slices"

	"github.com/hupe1980/pointgraph/blend"
	"github.com/hupe1980/pointgraph/data"
	"github.com/hupe1980/pointgraph/geom"
	"github.com/hupe1980/pointgraph/graph"
	"github.com/hupe1980/pointgraph/internal/mt"
)

// Attributes written on every edge point. They are never blended.
const (
	EdgeStartAttribute = "edge_start"
	EdgeEndAttribute   = "edge_end"
)

// EdgePropertiesConfig configures WriteEdgeProperties.
type EdgePropertiesConfig struct {
	// Direction sorts the endpoints of each edge. Nil means ascending point
	// index.
	Direction graph.DirectionPolicy

	// DirectionAttr receives the unit vector from end to start.
	DirectionAttr string
	// LengthAttr receives the edge length.
	LengthAttr string

	// WritePosition moves each edge point to Lerp(end, start, PositionLerp)
	// and uses PositionLerp as the start blend weight. Otherwise edge points
	// sit at the midpoint.
	WritePosition bool
	PositionLerp  float64

	// BlendEndpoints blends the endpoint attributes into the edge point.
	BlendEndpoints bool
	// StartWeight is the start endpoint weight when WritePosition is off,
	// clamped to [0, 1]. The end weight is 1 - StartWeight.
	StartWeight float64
	Blend       blend.Config
}

// WriteEdgeProperties returns one point per cluster edge, in edge order.
func (e *Engine) WriteEdgeProperties(ctx context.Context, c *graph.Cluster, cfg EdgePropertiesConfig) (*data.Points, error) {
	var policy graph.DirectionPolicy = graph.AscendingIndex{}
	if cfg.Direction != nil {
		policy = cfg.Direction
	}

	n := c.NumEdges()
	out := data.NewPoints(make([]geom.Transform, n))
	starts := data.NewBuffer[int32](EdgeStartAttribute, n, -1)
	ends := data.NewBuffer[int32](EdgeEndAttribute, n, -1)
	out.Attrs.Add(starts)
	out.Attrs.Add(ends)

	var dirs *data.Buffer[geom.Vec3]
	if cfg.DirectionAttr != "" {
		dirs = data.NewBuffer(cfg.DirectionAttr, n, geom.Zero)
		out.Attrs.Add(dirs)
	}
	var lengths *data.Buffer[float64]
	if cfg.LengthAttr != "" {
		lengths = data.NewBuffer(cfg.LengthAttr, n, 0.0)
		out.Attrs.Add(lengths)
	}

	var blender *blend.Blender
	if cfg.BlendEndpoints {
		bc := cfg.Blend
		bc.Protected = append(slices.Clip(bc.Protected), EdgeStartAttribute, EdgeEndAttribute)
		// computed outputs win over same-named endpoint attributes
		for _, name := range []string{cfg.DirectionAttr, cfg.LengthAttr} {
			if name != "" {
				bc.Protected = append(bc.Protected, name)
			}
		}
		var err error
		if blender, err = blend.New(out.Attrs, c.Points().Attrs, bc); err != nil {
			return nil, classify("edges", err)
		}
	}

	wStart := min(max(cfg.StartWeight, 0), 1)
	if cfg.WritePosition {
		wStart = cfg.PositionLerp
	}
	wEnd := 1 - wStart

	points := c.Points()
	_, err := e.sched.RunParallel(ctx, n, e.sched.ChunkSize(), func(sc mt.Scope) {
		for i := sc.Start; i < sc.End; i++ {
			s, t := policy.SortEndpoints(c, c.Edge(i))
			a, b := points.Position(s), points.Position(t)

			starts.Set(i, int32(s))
			ends.Set(i, int32(t))
			if dirs != nil {
				dirs.Set(i, a.Sub(b).SafeNormal())
			}
			if lengths != nil {
				lengths.Set(i, a.Dist(b))
			}

			pos := geom.Lerp(a, b, 0.5)
			if cfg.WritePosition {
				pos = geom.Lerp(b, a, cfg.PositionLerp)
			}
			out.Transforms[i] = geom.At(pos)

			if blender != nil {
				blender.PrepareForBlending(i)
				blender.Blend(i, s, wStart)
				blender.Blend(i, t, wEnd)
				blender.CompleteBlending(i, 2, wStart+wEnd)
			}
		}
	}, nil)
	if err != nil {
		return nil, err
	}
	return out, nil
}
