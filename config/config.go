package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hupe1980/pointgraph"
	"github.com/hupe1980/pointgraph/blend"
	"github.com/hupe1980/pointgraph/geom"
	"github.com/hupe1980/pointgraph/probe"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ErrInvalid is returned for files that parse but do not describe a valid
// configuration.
var ErrInvalid = errors.New("config: invalid")

var validate = validator.New()

// File is the decoded content of one pipeline file. Every block is optional.
type File struct {
	Engine  *EngineBlock  `hcl:"engine,block"`
	Connect *ConnectBlock `hcl:"connect,block"`
	Paths   *PathsBlock   `hcl:"paths,block"`
	Sample  *SampleBlock  `hcl:"sample,block"`
}

// EngineBlock maps onto pointgraph options.
type EngineBlock struct {
	Workers    int     `hcl:"workers,optional" validate:"gte=0"`
	ChunkSize  int     `hcl:"chunk_size,optional" validate:"gte=0"`
	BatchLimit int     `hcl:"batch_limit,optional" validate:"gte=0"`
	BatchRate  float64 `hcl:"batch_rate,optional" validate:"gte=0"`
	BatchBurst int     `hcl:"batch_burst,optional" validate:"gte=0"`
	LogLevel   string  `hcl:"log_level,optional" validate:"omitempty,oneof=debug info warn error"`
	LogFormat  string  `hcl:"log_format,optional" validate:"omitempty,oneof=text json"`
}

// ConnectBlock describes a connect unit.
type ConnectBlock struct {
	Probes      []*ProbeBlock     `hcl:"probe,block" validate:"required,min=1,dive"`
	Coincidence *CoincidenceBlock `hcl:"coincidence,block"`

	// Project is the projection normal, e.g. [0, 0, 1].
	Project cty.Value `hcl:"project,optional"`

	Generators         string `hcl:"generators,optional"`
	InvertGenerators   bool   `hcl:"invert_generators,optional"`
	Connectables       string `hcl:"connectables,optional"`
	InvertConnectables bool   `hcl:"invert_connectables,optional"`

	PruneIsolated bool `hcl:"prune_isolated,optional"`
	MinNodeDegree int  `hcl:"min_node_degree,optional" validate:"gte=0"`
}

// CoincidenceBlock enables direction deduplication.
type CoincidenceBlock struct {
	Tolerance float64 `hcl:"tolerance" validate:"gt=0"`
	Rounding  string  `hcl:"rounding,optional" validate:"omitempty,oneof=truncate round"`
}

// ProbeBlock is one probe. Fields apply depending on Kind.
type ProbeBlock struct {
	Kind string `hcl:"kind,label" validate:"oneof=closest direction index"`

	// closest, direction
	Radius          float64 `hcl:"radius,optional" validate:"gte=0"`
	RadiusAttribute string  `hcl:"radius_attribute,optional"`

	// closest; 0 means unlimited
	MaxConnections int `hcl:"max_connections,optional" validate:"gte=-1"`

	// direction
	Direction cty.Value `hcl:"direction,optional"`
	MaxAngle  float64   `hcl:"max_angle,optional" validate:"gte=0,lte=180"`
	Local     bool      `hcl:"local,optional"`
	Favor     string    `hcl:"favor,optional" validate:"omitempty,oneof=closest aligned"`

	// index
	Mode           string `hcl:"mode,optional" validate:"omitempty,oneof=target one_way_offset two_way_offset"`
	Value          int    `hcl:"value,optional"`
	ValueAttribute string `hcl:"value_attribute,optional"`
	Safety         string `hcl:"safety,optional" validate:"omitempty,oneof=ignore clamp wrap"`
}

// PathsBlock describes a BreakToPaths call.
type PathsBlock struct {
	Source        string `hcl:"source,optional" validate:"omitempty,oneof=chains edges"`
	MinPoints     int    `hcl:"min_points,optional" validate:"gte=0"`
	MaxPoints     int    `hcl:"max_points,optional" validate:"gte=0"`
	Leaves        string `hcl:"leaves,optional" validate:"omitempty,oneof=include exclude only"`
	Winding       string `hcl:"winding,optional" validate:"omitempty,oneof=unchanged clockwise counter_clockwise"`
	WindOpenPaths bool   `hcl:"wind_open_paths,optional"`
	Breakpoints   string `hcl:"breakpoints,optional"`

	// Projection is the winding plane normal.
	Projection cty.Value `hcl:"projection,optional"`
}

// SampleBlock describes a SampleNearest call.
type SampleBlock struct {
	Mode            string  `hcl:"mode,optional" validate:"omitempty,oneof=closest within_range"`
	MaxDistance     float64 `hcl:"max_distance,optional" validate:"gte=0"`
	MaxDistanceAttr string  `hcl:"max_distance_attribute,optional"`

	Filter                 string `hcl:"filter,optional"`
	ProcessFilteredAsFails bool   `hcl:"process_filtered_as_fails,optional"`

	SuccessAttr            string `hcl:"success_attribute,optional"`
	DistanceAttr           string `hcl:"distance_attribute,optional"`
	NormalizedDistanceAttr string `hcl:"normalized_distance_attribute,optional"`
	LocationAttr           string `hcl:"location_attribute,optional"`
	LookAtAttr             string `hcl:"look_at_attribute,optional"`
	IndexAttr              string `hcl:"index_attribute,optional"`
	OneMinusNormalized     bool   `hcl:"one_minus_normalized,optional"`
	PruneFailed            bool   `hcl:"prune_failed,optional"`

	Blend *BlendBlock `hcl:"blend,block"`
}

// BlendBlock maps onto blend.Config.
type BlendBlock struct {
	Default   string            `hcl:"default,optional"`
	Operators map[string]string `hcl:"operators,optional"`
	Protected []string          `hcl:"protected,optional"`
}

// Parse decodes and validates an HCL pipeline file. filename is only used
// in diagnostics.
func Parse(src []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var f File
	diags = gohcl.DecodeBody(hclFile.Body, nil, &f)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	if err := validate.Struct(&f); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, filename, err)
	}
	return &f, nil
}

// EngineOptions returns the options of the engine block.
func (f *File) EngineOptions() ([]pointgraph.Option, error) {
	if f.Engine == nil {
		return nil, nil
	}
	e := f.Engine
	opts := []pointgraph.Option{
		pointgraph.WithWorkers(e.Workers),
		pointgraph.WithChunkSize(e.ChunkSize),
		pointgraph.WithBatchLimit(e.BatchLimit),
		pointgraph.WithBatchRate(e.BatchRate, e.BatchBurst),
	}

	if e.LogLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(e.LogLevel)); err != nil {
			return nil, fmt.Errorf("%w: log_level: %w", ErrInvalid, err)
		}
		if e.LogFormat == "json" {
			opts = append(opts, pointgraph.WithLogger(pointgraph.NewJSONLogger(level)))
		} else {
			opts = append(opts, pointgraph.WithLogLevel(level))
		}
	}
	return opts, nil
}

// ConnectConfig builds the connect configuration.
func (f *File) ConnectConfig() (pointgraph.ConnectConfig, error) {
	c := f.Connect
	if c == nil {
		return pointgraph.ConnectConfig{}, fmt.Errorf("%w: missing connect block", ErrInvalid)
	}

	b := pointgraph.Probes()
	for i, p := range c.Probes {
		var err error
		if b, err = p.apply(b); err != nil {
			return pointgraph.ConnectConfig{}, fmt.Errorf("%w: probe %d (%s): %w", ErrInvalid, i, p.Kind, err)
		}
	}

	if c.Coincidence != nil {
		b = b.PreventCoincidence(c.Coincidence.Tolerance, rounding(c.Coincidence.Rounding))
	}

	normal, ok, err := vec3(c.Project)
	if err != nil {
		return pointgraph.ConnectConfig{}, fmt.Errorf("%w: project: %w", ErrInvalid, err)
	}
	if ok {
		b = b.Project(normal)
	}

	if c.Generators != "" {
		b = b.Generators(pointgraph.FilterSpec{Attribute: c.Generators, Invert: c.InvertGenerators})
	}
	if c.Connectables != "" {
		b = b.Connectables(pointgraph.FilterSpec{Attribute: c.Connectables, Invert: c.InvertConnectables})
	}
	if c.PruneIsolated {
		b = b.PruneIsolated()
	}
	if c.MinNodeDegree > 0 {
		b = b.MinNodeDegree(c.MinNodeDegree)
	}
	return b.Build()
}

func (p *ProbeBlock) apply(b pointgraph.ProbesBuilder) (pointgraph.ProbesBuilder, error) {
	switch p.Kind {
	case "closest":
		maxConn := p.MaxConnections
		if maxConn == 0 {
			maxConn = -1
		}
		if p.RadiusAttribute != "" {
			return b.ClosestAttr(p.RadiusAttribute, maxConn), nil
		}
		return b.Closest(p.Radius, maxConn), nil

	case "direction":
		dir, ok, err := vec3(p.Direction)
		if err != nil {
			return b, fmt.Errorf("direction: %w", err)
		}
		if !ok {
			dir = geom.Forward
		}
		local, favor, radiusAttr := p.Local, probe.FavorClosest, p.RadiusAttribute
		if p.Favor == "aligned" {
			favor = probe.FavorAligned
		}
		return b.Direction(p.Radius, dir, p.MaxAngle, func(d *probe.Direction) {
			d.Local = local
			d.Favor = favor
			if radiusAttr != "" {
				d.Radius = probe.AttrRadius(radiusAttr)
			}
		}), nil

	case "index":
		mode := indexMode(p.Mode)
		safety := indexSafety(p.Safety)
		if p.ValueAttribute != "" {
			return b.IndexAttr(mode, p.ValueAttribute, safety), nil
		}
		return b.Index(mode, p.Value, safety), nil
	}
	return b, fmt.Errorf("unknown probe kind %q", p.Kind)
}

// PathsConfig builds the BreakToPaths configuration. A missing block yields
// the defaults.
func (f *File) PathsConfig() (pointgraph.PathsConfig, error) {
	var cfg pointgraph.PathsConfig
	p := f.Paths
	if p == nil {
		return cfg, nil
	}

	if p.Source == "edges" {
		cfg.Source = pointgraph.FromEdges
	}
	cfg.MinPointCount = p.MinPoints
	cfg.MaxPointCount = p.MaxPoints
	if p.MaxPoints > 0 && p.MinPoints > p.MaxPoints {
		return cfg, fmt.Errorf("%w: min_points %d > max_points %d", ErrInvalid, p.MinPoints, p.MaxPoints)
	}

	switch p.Leaves {
	case "exclude":
		cfg.Leaves = pointgraph.LeavesExclude
	case "only":
		cfg.Leaves = pointgraph.LeavesOnly
	}
	switch p.Winding {
	case "clockwise":
		cfg.Winding = pointgraph.Clockwise
	case "counter_clockwise":
		cfg.Winding = pointgraph.CounterClockwise
	}
	cfg.WindOpenPaths = p.WindOpenPaths

	if p.Breakpoints != "" {
		cfg.Breakpoints = pointgraph.FilterSpec{Attribute: p.Breakpoints}
	}

	normal, ok, err := vec3(p.Projection)
	if err != nil {
		return cfg, fmt.Errorf("%w: projection: %w", ErrInvalid, err)
	}
	if ok {
		proj := geom.NewProjection(normal)
		cfg.Projection = &proj
	}
	return cfg, nil
}

// SampleConfig builds the SampleNearest configuration. A missing block
// yields the defaults.
func (f *File) SampleConfig() (pointgraph.SampleConfig, error) {
	var cfg pointgraph.SampleConfig
	s := f.Sample
	if s == nil {
		return cfg, nil
	}

	if s.Mode == "within_range" {
		cfg.Mode = pointgraph.SampleWithinRange
	}
	cfg.MaxDistance = s.MaxDistance
	cfg.MaxDistanceAttr = s.MaxDistanceAttr
	if s.Filter != "" {
		cfg.Filter = pointgraph.FilterSpec{Attribute: s.Filter}
	}
	cfg.ProcessFilteredAsFails = s.ProcessFilteredAsFails
	cfg.SuccessAttr = s.SuccessAttr
	cfg.DistanceAttr = s.DistanceAttr
	cfg.NormalizedDistanceAttr = s.NormalizedDistanceAttr
	cfg.LocationAttr = s.LocationAttr
	cfg.LookAtAttr = s.LookAtAttr
	cfg.IndexAttr = s.IndexAttr
	cfg.OneMinusNormalized = s.OneMinusNormalized
	cfg.PruneFailed = s.PruneFailed

	if s.Blend != nil {
		bc, err := s.Blend.config()
		if err != nil {
			return cfg, err
		}
		cfg.Blend = &bc
	}
	return cfg, nil
}

func (b *BlendBlock) config() (blend.Config, error) {
	cfg := blend.Config{Default: blend.Copy, Protected: b.Protected}
	if b.Default != "" {
		op, err := blend.ParseOperator(b.Default)
		if err != nil {
			return cfg, fmt.Errorf("%w: blend default: %w", ErrInvalid, err)
		}
		cfg.Default = op
	}
	if len(b.Operators) > 0 {
		cfg.PerAttribute = make(map[string]blend.Operator, len(b.Operators))
		for name, s := range b.Operators {
			op, err := blend.ParseOperator(s)
			if err != nil {
				return cfg, fmt.Errorf("%w: blend %s: %w", ErrInvalid, name, err)
			}
			cfg.PerAttribute[name] = op
		}
	}
	return cfg, nil
}

// vec3 converts a list of three numbers. ok is false for an unset value.
func vec3(v cty.Value) (geom.Vec3, bool, error) {
	if v.IsNull() {
		return geom.Zero, false, nil
	}
	list, err := convert.Convert(v, cty.List(cty.Number))
	if err != nil {
		return geom.Zero, false, err
	}
	var fs []float64
	if err := gocty.FromCtyValue(list, &fs); err != nil {
		return geom.Zero, false, err
	}
	if len(fs) != 3 {
		return geom.Zero, false, fmt.Errorf("expected 3 components, got %d", len(fs))
	}
	return geom.V(fs[0], fs[1], fs[2]), true, nil
}

func rounding(s string) geom.Rounding {
	if s == "round" {
		return geom.Round
	}
	return geom.Truncate
}

func indexMode(s string) probe.IndexMode {
	switch s {
	case "one_way_offset":
		return probe.OneWayOffset
	case "two_way_offset":
		return probe.TwoWayOffset
	}
	return probe.Target
}

func indexSafety(s string) probe.Safety {
	switch s {
	case "clamp":
		return probe.Clamp
	case "wrap":
		return probe.Wrap
	}
	return probe.Ignore
}
