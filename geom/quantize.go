package geom

import "math"

// Int3 is an integer voxel coordinate.
type Int3 struct {
	X, Y, Z int32
}

// Rounding selects how scaled components are mapped to integers.
type Rounding uint8

const (
	// Truncate drops the fractional part (rounds toward zero).
	Truncate Rounding = iota
	// Round rounds half away from zero.
	Round
)

func (r Rounding) String() string {
	switch r {
	case Truncate:
		return "truncate"
	case Round:
		return "round"
	default:
		return "unknown"
	}
}

// Quantize maps v onto a voxel grid where each cell is tolerance wide.
// A non-positive tolerance maps every vector to the zero voxel.
func Quantize(v Vec3, tolerance float64, r Rounding) Int3 {
	if tolerance <= 0 {
		return Int3{}
	}
	inv := 1 / tolerance
	return Int3{
		quantizeComponent(v.X*inv, r),
		quantizeComponent(v.Y*inv, r),
		quantizeComponent(v.Z*inv, r),
	}
}

func quantizeComponent(f float64, r Rounding) int32 {
	if r == Round {
		f = math.Round(f)
	} else {
		f = math.Trunc(f)
	}
	switch {
	case f > math.MaxInt32:
		return math.MaxInt32
	case f < math.MinInt32:
		return math.MinInt32
	}
	return int32(f)
}
