package math3d

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vector3 is a point or direction in the world space. Y is up, so the ground
// plane is X/Z.
type Vector3 struct {
	X float64
	Y float64
	Z float64
}

var (
	ZeroVector3 = Vector3{}

	// Up is the unit vector pointing away from the ground.
	Up = Vector3{X: 0, Y: 1, Z: 0}
)

// MakeVector3 returns a new Vector3.
func MakeVector3(x float64, y float64, z float64) Vector3 {
	return Vector3{x, y, z}
}

func (v Vector3) String() string {
	return fmt.Sprintf("&Vec3{x=%0.2f y=%0.2f z=%0.2f}", v.X, v.Y, v.Z)
}

func (v Vector3) r3() r3.Vec {
	return r3.Vec(v)
}

// Zero returns true if the vector is at 0,0,0.
func (v Vector3) Zero() bool {
	return (v.X == 0) && (v.Y == 0) && (v.Z == 0)
}

// Add adds two vectors, and returns the result.
func (v Vector3) Add(vv Vector3) Vector3 {
	return Vector3(r3.Add(v.r3(), vv.r3()))
}

// Subtract returns the vector from vv to v.
func (v Vector3) Subtract(vv Vector3) Vector3 {
	return Vector3(r3.Sub(v.r3(), vv.r3()))
}

// MultiplyByScalar returns a new vector scaled by s.
func (v Vector3) MultiplyByScalar(s float64) Vector3 {
	return Vector3(r3.Scale(s, v.r3()))
}

// Dot returns the dot product of two vectors.
func (v Vector3) Dot(vv Vector3) float64 {
	return r3.Dot(v.r3(), vv.r3())
}

// Cross returns the cross product of two vectors.
func (v Vector3) Cross(vv Vector3) Vector3 {
	return Vector3(r3.Cross(v.r3(), vv.r3()))
}

// Magnitude returns the length of the vector.
func (v Vector3) Magnitude() float64 {
	return r3.Norm(v.r3())
}

// MagnitudeSquared returns the squared length of the vector. Prefer this for
// comparisons against a threshold, which can be squared instead.
func (v Vector3) MagnitudeSquared() float64 {
	return r3.Norm2(v.r3())
}

// Distance calculates and returns the distance between this vector and another,
// as a float64.
func (v Vector3) Distance(vv Vector3) float64 {
	return v.Subtract(vv).Magnitude()
}

// DistanceSquared returns the squared distance between two points.
func (v Vector3) DistanceSquared(vv Vector3) float64 {
	return v.Subtract(vv).MagnitudeSquared()
}

// Unit returns a vector with the same direction and a length of one. The zero
// vector has no direction, so is returned unchanged.
func (v Vector3) Unit() Vector3 {
	if v.Zero() {
		return ZeroVector3
	}

	return Vector3(r3.Unit(v.r3()))
}

// Flat returns the vector projected onto the ground plane.
func (v Vector3) Flat() Vector3 {
	return Vector3{X: v.X, Y: 0, Z: v.Z}
}

// MagnitudeSquared2D returns the squared length of the vector on the ground
// plane, ignoring height.
func (v Vector3) MagnitudeSquared2D() float64 {
	return (v.X * v.X) + (v.Z * v.Z)
}

// Lerp returns the point a fraction t of the way from v to vv. t is not
// clamped.
func (v Vector3) Lerp(vv Vector3, t float64) Vector3 {
	return v.Add(vv.Subtract(v).MultiplyByScalar(t))
}

// Angle returns the angle (in radians) between two unit vectors, in the range
// [0, Pi]. The dot product is clamped first, since float error can push it
// slightly out of the domain of Acos and produce NaN.
func (v Vector3) Angle(vv Vector3) float64 {
	d := math.Max(-1, math.Min(1, v.Dot(vv)))
	return math.Acos(d)
}

// MultiplyByMatrix44 returns a new Vector3, by multiplying this vector my a 4x4
// matrix.
func (v Vector3) MultiplyByMatrix44(m Matrix44) Vector3 {
	return Vector3{
		(v.X * m.m11) + (v.Y * m.m21) + (v.Z * m.m31) + m.m41,
		(v.X * m.m12) + (v.Y * m.m22) + (v.Z * m.m32) + m.m42,
		(v.X * m.m13) + (v.Y * m.m23) + (v.Z * m.m33) + m.m43,
	}
}
