package walker

import (
	"github.com/adammck/walker/math3d"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "walker",
})

// Stance is what the host vehicle is doing with its suspension.
type Stance int

const (
	StanceStanding Stance = iota
	StanceCrouched
	StanceParked
)

func (s Stance) String() string {
	switch s {
	case StanceStanding:
		return "standing"
	case StanceCrouched:
		return "crouched"
	case StanceParked:
		return "parked"
	default:
		return "unknown"
	}
}

// Host is the vehicle which the walker body is attached to. The controller
// only ever reads from it.
type Host interface {

	// Pose returns the world position of the body, and its heading.
	Pose() math3d.Pose

	// Velocity returns the linear velocity of the body, in units per second.
	Velocity() math3d.Vector3

	// Driving returns true if the vehicle is being actively driven, rather than
	// parked.
	Driving() bool

	Stance() Stance

	// HoverDistance returns how far the body hovers above the ground, as
	// implied by the suspension. This sizes the stance.
	HoverDistance() float64
}

// Skeleton is the read side of the skeletal pose. Bone locations are sampled
// once per tick and may be a frame stale.
type Skeleton interface {
	BoneLocation(name string) math3d.Vector3
}

// Poser is the write side of the skeletal pose. Whatever drives the visual
// pose should make the named bones follow these targets.
type Poser interface {
	SetFootTarget(bone string, pos math3d.Vector3, orient math3d.EulerAngles)

	// ReleaseFoot stops pinning the foot, so it dangles.
	ReleaseFoot(bone string)

	SetAimTarget(bone string, target math3d.Vector3)
}
