package blend

import (
	"math"

	"github.com/hupe1980/pointgraph/geom"
)

// algebra lifts values of T into an accumulator A that supports weighted
// sums, then lowers the result back to T.
type algebra[T any, A any] interface {
	zero() A
	lift(v T) A
	lower(a A) T
	add(a, b A) A
	scale(a A, s float64) A
	min(a, b A) A
	max(a, b A) A
}

type floatAlgebra struct{}

func (floatAlgebra) zero() float64                      { return 0 }
func (floatAlgebra) lift(v float64) float64             { return v }
func (floatAlgebra) lower(a float64) float64            { return a }
func (floatAlgebra) add(a, b float64) float64           { return a + b }
func (floatAlgebra) scale(a float64, s float64) float64 { return a * s }
func (floatAlgebra) min(a, b float64) float64           { return math.Min(a, b) }
func (floatAlgebra) max(a, b float64) float64           { return math.Max(a, b) }

// intAlgebra accumulates in float64 and rounds on the way out.
type intAlgebra struct{}

func (intAlgebra) zero() float64                      { return 0 }
func (intAlgebra) lift(v int32) float64               { return float64(v) }
func (intAlgebra) add(a, b float64) float64           { return a + b }
func (intAlgebra) scale(a float64, s float64) float64 { return a * s }
func (intAlgebra) min(a, b float64) float64           { return math.Min(a, b) }
func (intAlgebra) max(a, b float64) float64           { return math.Max(a, b) }

func (intAlgebra) lower(a float64) int32 {
	a = math.Round(a)
	switch {
	case a > math.MaxInt32:
		return math.MaxInt32
	case a < math.MinInt32:
		return math.MinInt32
	}
	return int32(a)
}

type vecAlgebra struct{}

func (vecAlgebra) zero() geom.Vec3                        { return geom.Zero }
func (vecAlgebra) lift(v geom.Vec3) geom.Vec3             { return v }
func (vecAlgebra) lower(a geom.Vec3) geom.Vec3            { return a }
func (vecAlgebra) add(a, b geom.Vec3) geom.Vec3           { return a.Add(b) }
func (vecAlgebra) scale(a geom.Vec3, s float64) geom.Vec3 { return a.Scale(s) }
func (vecAlgebra) min(a, b geom.Vec3) geom.Vec3           { return geom.Min(a, b) }
func (vecAlgebra) max(a, b geom.Vec3) geom.Vec3           { return geom.Max(a, b) }

// transformAlgebra blends location and scale linearly. Rotations are summed
// as quaternions flipped into the hemisphere of the running sum, then
// normalized; min and max keep the first rotation.
type transformAlgebra struct{}

func (transformAlgebra) zero() geom.Transform {
	return geom.Transform{}
}

func (transformAlgebra) lift(v geom.Transform) geom.Transform { return v }

func (transformAlgebra) lower(a geom.Transform) geom.Transform {
	if a.Rotation == (geom.Quat{}) {
		a.Rotation = geom.IdentityQuat
	} else {
		a.Rotation = a.Rotation.Normalize()
	}
	return a
}

func (transformAlgebra) add(a, b geom.Transform) geom.Transform {
	rot := b.Rotation
	if a.Rotation.Dot(rot) < 0 {
		rot = rot.Scale(-1)
	}
	return geom.Transform{
		Location: a.Location.Add(b.Location),
		Rotation: a.Rotation.Add(rot),
		Scale:    a.Scale.Add(b.Scale),
	}
}

func (transformAlgebra) scale(a geom.Transform, s float64) geom.Transform {
	return geom.Transform{
		Location: a.Location.Scale(s),
		Rotation: a.Rotation.Scale(s),
		Scale:    a.Scale.Scale(s),
	}
}

func (transformAlgebra) min(a, b geom.Transform) geom.Transform {
	return geom.Transform{
		Location: geom.Min(a.Location, b.Location),
		Rotation: a.Rotation,
		Scale:    geom.Min(a.Scale, b.Scale),
	}
}

func (transformAlgebra) max(a, b geom.Transform) geom.Transform {
	return geom.Transform{
		Location: geom.Max(a.Location, b.Location),
		Rotation: a.Rotation,
		Scale:    geom.Max(a.Scale, b.Scale),
	}
}

// boolAlgebra: min is AND, max is OR, everything else keeps the last value.
type boolAlgebra struct{}

func (boolAlgebra) zero() bool                   { return false }
func (boolAlgebra) lift(v bool) bool             { return v }
func (boolAlgebra) lower(a bool) bool            { return a }
func (boolAlgebra) add(_, b bool) bool           { return b }
func (boolAlgebra) scale(a bool, _ float64) bool { return a }
func (boolAlgebra) min(a, b bool) bool           { return a && b }
func (boolAlgebra) max(a, b bool) bool           { return a || b }
