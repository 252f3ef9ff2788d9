package math3d

import (
	"fmt"
	"math"

	"github.com/adammck/walker/utils"
)

// EulerAngles are stored in radians.
type EulerAngles struct {
	Heading float64 // y
	Pitch   float64 // x
	Bank    float64 // z
}

var (
	IdentityOrientation = EulerAngles{}
)

// HeadingRotation returns an orientation rotated around the vertical axis by
// the given angle, in degrees.
func HeadingRotation(angle float64) EulerAngles {
	return EulerAngles{Heading: utils.Rad(angle)}
}

// LookRotation returns the orientation which rotates the local +X axis to
// point along dir. Roll around dir is left at zero. The zero vector has no
// direction, so returns the identity.
func LookRotation(dir Vector3) EulerAngles {
	u := dir.Unit()
	if u.Zero() {
		return IdentityOrientation
	}

	return EulerAngles{
		Heading: math.Atan2(-u.Z, u.X),
		Bank:    math.Asin(utils.Clamp(u.Y, -1, 1)),
	}
}

// HeadingOf returns the heading (in degrees) of the given vector on the ground
// plane, such that rotating +X by it points the same way. Height is ignored.
// Returns zero for vertical or zero vectors.
func HeadingOf(v Vector3) float64 {
	if v.X == 0 && v.Z == 0 {
		return 0
	}

	return utils.Deg(math.Atan2(-v.Z, v.X))
}

// HeadingVector returns the unit vector on the ground plane for a heading in
// degrees.
func HeadingVector(heading float64) Vector3 {
	r := utils.Rad(heading)
	return Vector3{X: math.Cos(r), Y: 0, Z: -math.Sin(r)}
}

func (ea EulerAngles) String() string {
	return fmt.Sprintf("&Euler{h=%+.2f° p=%+.2f° b=%+.2f°}", utils.Deg(ea.Heading), utils.Deg(ea.Pitch), utils.Deg(ea.Bank))
}
