package geom

import "math"

// Quat is a rotation quaternion.
type Quat struct {
	X, Y, Z, W float64
}

// IdentityQuat is the rotation that does nothing.
var IdentityQuat = Quat{W: 1}

// AxisAngle returns the rotation of angle radians around axis.
func AxisAngle(axis Vec3, angle float64) Quat {
	n := axis.SafeNormal()
	s, c := math.Sincos(angle / 2)
	return Quat{n.X * s, n.Y * s, n.Z * s, c}
}

func (q Quat) Dot(o Quat) float64 { return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W }

func (q Quat) Scale(s float64) Quat { return Quat{q.X * s, q.Y * s, q.Z * s, q.W * s} }

func (q Quat) Add(o Quat) Quat { return Quat{q.X + o.X, q.Y + o.Y, q.Z + o.Z, q.W + o.W} }

// Normalize returns q scaled to unit length, or the identity for a zero quaternion.
func (q Quat) Normalize() Quat {
	l := math.Sqrt(q.Dot(q))
	if l < smallNumber {
		return IdentityQuat
	}
	return q.Scale(1 / l)
}

// Rotate applies q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Transform is a location, rotation and scale.
type Transform struct {
	Location Vec3
	Rotation Quat
	Scale    Vec3
}

// Identity is the identity transform.
var Identity = Transform{Rotation: IdentityQuat, Scale: One}

// At returns an identity transform translated to p.
func At(p Vec3) Transform {
	t := Identity
	t.Location = p
	return t
}

// Forward returns the rotated +X axis.
func (t Transform) Forward() Vec3 { return t.Rotation.Rotate(Forward) }
