// This file implements the fluent builder used to assemble a ConnectConfig.
// Builders are immutable - each method returns a new builder with the updated configuration.
package pointgraph

import (
	"slices"

	"github.com/hupe1980/pointgraph/data"
	"github.com/hupe1980/pointgraph/geom"
	"github.com/hupe1980/pointgraph/graph"
	"github.com/hupe1980/pointgraph/probe"
)

// =============================================================================
// Connect Config
// =============================================================================

// ConnectConfig is the resolved setup of a connect unit.
type ConnectConfig struct {
	// Probes create the probes of each unit. A fresh set is created per unit.
	Probes []probe.Factory

	// Coincidence drops candidates whose quantized direction was already
	// connected from the same point. Disabled when Tolerance is 0.
	Coincidence probe.Quantizer

	// Projection flattens positions before probing when set.
	Projection *geom.Projection

	// Generators selects the points that run probes. Nil means all points.
	Generators FilterSpec

	// Connectables selects the points that may be connected to. Nil means
	// all points.
	Connectables FilterSpec

	// Graph configures compilation.
	Graph graph.BuilderOptions
}

// FilterSpec selects points either by a predicate or by a bool attribute
// resolved on each unit's points.
type FilterSpec struct {
	Filter    data.Filter
	Attribute string
	Invert    bool
}

// IsSet reports whether the spec restricts anything.
func (f FilterSpec) IsSet() bool { return f.Filter != nil || f.Attribute != "" }

// resolve returns the predicate for points, or nil when unset.
func (f FilterSpec) resolve(points *data.Points) (data.Filter, error) {
	if f.Filter != nil {
		return f.Filter, nil
	}
	if f.Attribute == "" {
		return nil, nil
	}
	return data.NewBoolFilter(points.Attrs, f.Attribute, f.Invert)
}

// =============================================================================
// Probes Builder (Immutable)
// =============================================================================

// Probes creates a new connect configuration builder.
//
// The builder is immutable - each method returns a new builder with the updated configuration.
// This makes it safe to derive several configurations from a shared base.
//
// Example:
//
//	cfg, err := pointgraph.Probes().
//	    Closest(2, 1).
//	    Direction(5, geom.Forward, 30).
//	    PreventCoincidence(0.01, geom.Truncate).
//	    PruneIsolated().
//	    Build()
func Probes() ProbesBuilder {
	return ProbesBuilder{}
}

// ProbesBuilder is an immutable fluent builder for ConnectConfig.
type ProbesBuilder struct {
	factories    []probe.Factory
	quantizer    probe.Quantizer
	projection   *geom.Projection
	generators   FilterSpec
	connectables FilterSpec
	graph        graph.BuilderOptions
}

func (b ProbesBuilder) with(f probe.Factory) ProbesBuilder {
	b.factories = append(slices.Clip(b.factories), f)
	return b
}

// Closest connects each point to up to maxConnections nearest points within
// radius. maxConnections -1 means unlimited.
func (b ProbesBuilder) Closest(radius float64, maxConnections int) ProbesBuilder {
	return b.with(func() probe.Probe { return probe.NewClosest(radius, maxConnections) })
}

// ClosestAttr is Closest with a per-point radius read from a float64
// attribute.
func (b ProbesBuilder) ClosestAttr(radiusAttr string, maxConnections int) ProbesBuilder {
	return b.with(func() probe.Probe {
		return &probe.Closest{Radius: probe.AttrRadius(radiusAttr), MaxConnections: maxConnections}
	})
}

// Direction connects each point to the best candidate inside a cone of
// maxAngle degrees around dir.
func (b ProbesBuilder) Direction(radius float64, dir geom.Vec3, maxAngle float64, optFns ...func(*probe.Direction)) ProbesBuilder {
	return b.with(func() probe.Probe {
		p := probe.NewDirection(radius, dir, maxAngle)
		for _, fn := range optFns {
			fn(p)
		}
		return p
	})
}

// Index connects each point to a point designated by an index.
func (b ProbesBuilder) Index(mode probe.IndexMode, value int, safety probe.Safety) ProbesBuilder {
	return b.with(func() probe.Probe { return probe.NewIndex(mode, value, safety) })
}

// IndexAttr is Index with the value read from an int32 attribute.
func (b ProbesBuilder) IndexAttr(mode probe.IndexMode, attr string, safety probe.Safety) ProbesBuilder {
	return b.with(func() probe.Probe {
		return &probe.Index{Mode: mode, Safety: safety, Attribute: attr}
	})
}

// Probe adds a custom probe factory.
func (b ProbesBuilder) Probe(f probe.Factory) ProbesBuilder {
	return b.with(f)
}

// PreventCoincidence enables direction deduplication.
func (b ProbesBuilder) PreventCoincidence(tolerance float64, rounding geom.Rounding) ProbesBuilder {
	b.quantizer = probe.Quantizer{Tolerance: tolerance, Rounding: rounding}
	return b
}

// Project flattens positions onto the plane with the given normal.
func (b ProbesBuilder) Project(normal geom.Vec3) ProbesBuilder {
	p := geom.NewProjection(normal)
	b.projection = &p
	return b
}

// Generators restricts which points run probes.
func (b ProbesBuilder) Generators(f FilterSpec) ProbesBuilder {
	b.generators = f
	return b
}

// Connectables restricts which points can be connected to.
func (b ProbesBuilder) Connectables(f FilterSpec) ProbesBuilder {
	b.connectables = f
	return b
}

// PruneIsolated drops points without edges from compiled clusters.
func (b ProbesBuilder) PruneIsolated() ProbesBuilder {
	b.graph.PruneIsolated = true
	return b
}

// MinNodeDegree removes edges until every remaining connected node has at
// least n links.
func (b ProbesBuilder) MinNodeDegree(n int) ProbesBuilder {
	b.graph.MinNodeDegree = n
	return b
}

// Build validates the configuration.
func (b ProbesBuilder) Build() (ConnectConfig, error) {
	if len(b.factories) == 0 {
		return ConnectConfig{}, &SetupError{Unit: "connect", Reason: "no probes", cause: probe.ErrNoProbes}
	}
	if b.quantizer.Tolerance < 0 {
		return ConnectConfig{}, &SetupError{Unit: "connect", Reason: "coincidence", cause: ErrInvalidTolerance}
	}

	return ConnectConfig{
		Probes:       slices.Clone(b.factories),
		Coincidence:  b.quantizer,
		Projection:   b.projection,
		Generators:   b.generators,
		Connectables: b.connectables,
		Graph:        b.graph,
	}, nil
}
