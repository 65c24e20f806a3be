package geom

import "math"

// smallNumber is the length below which a vector is treated as zero.
const smallNumber = 1e-8

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float64
}

var (
	// Zero is the zero vector.
	Zero = Vec3{}
	// One has all components set to 1.
	One = Vec3{1, 1, 1}
	// Up is +Z.
	Up = Vec3{0, 0, 1}
	// Forward is +X.
	Forward = Vec3{1, 0, 0}
)

// V returns a Vec3.
func V(x, y, z float64) Vec3 { return Vec3{x, y, z} }

// Splat returns a vector with every component set to s.
func Splat(s float64) Vec3 { return Vec3{s, s, s} }

func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

func (a Vec3) Mul(b Vec3) Vec3 { return Vec3{a.X * b.X, a.Y * b.Y, a.Z * b.Z} }

func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }

func (a Vec3) Neg() Vec3 { return Vec3{-a.X, -a.Y, -a.Z} }

func (a Vec3) Dot(b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func (a Vec3) LengthSquared() float64 { return a.Dot(a) }

func (a Vec3) Length() float64 { return math.Sqrt(a.Dot(a)) }

// DistSquared returns the squared euclidean distance between a and b.
func (a Vec3) DistSquared(b Vec3) float64 { return a.Sub(b).LengthSquared() }

// Dist returns the euclidean distance between a and b.
func (a Vec3) Dist(b Vec3) float64 { return a.Sub(b).Length() }

// SafeNormal returns a unit vector in the direction of a, or the zero vector
// when a is too short to normalize.
func (a Vec3) SafeNormal() Vec3 {
	l2 := a.LengthSquared()
	if l2 < smallNumber*smallNumber {
		return Zero
	}
	return a.Scale(1 / math.Sqrt(l2))
}

// Lerp interpolates between a (t=0) and b (t=1).
func Lerp(a, b Vec3, t float64) Vec3 {
	return Vec3{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
	}
}

// Min returns the component-wise minimum.
func Min(a, b Vec3) Vec3 {
	return Vec3{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)}
}

// Max returns the component-wise maximum.
func Max(a, b Vec3) Vec3 {
	return Vec3{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)}
}

// Component returns the component for axis 0 (X), 1 (Y) or 2 (Z).
func (a Vec3) Component(axis int) float64 {
	switch axis {
	case 0:
		return a.X
	case 1:
		return a.Y
	default:
		return a.Z
	}
}

// NearlyEqual reports whether a and b are within tol on every axis.
func (a Vec3) NearlyEqual(b Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}
