package math3d

import (
	"fmt"
)

// Pose is a position and a heading (in degrees) on the ground plane. Walkers
// don't pitch or roll their legs' frame, so this is all the orientation the
// controller needs.
type Pose struct {
	Position Vector3
	Heading  float64
}

func (p Pose) String() string {
	return fmt.Sprintf("Pose{x=%+07.2f y=%+07.2f z=%+07.2f, r=%+07.2f}", p.Position.X, p.Position.Y, p.Position.Z, p.Heading)
}

// Rotate returns the direction d (in the pose's local space) rotated into the
// parent space. Position is ignored, so this is only useful for directions.
func (p Pose) Rotate(d Vector3) Vector3 {
	m := Matrix44{}
	m.SetRotation(p.ea())
	return d.MultiplyByMatrix44(m)
}

// ToWorld returns a matrix to transform a vector in the pose's space into the
// parent space.
func (p Pose) ToWorld() Matrix44 {
	return MakeMatrix44(p.Position, p.ea())
}

func (p Pose) ea() EulerAngles {
	return HeadingRotation(p.Heading)
}
