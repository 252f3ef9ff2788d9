package shoulders

import (
	"fmt"
	"time"

	"github.com/adammck/walker"
	"github.com/adammck/walker/config"
	"github.com/adammck/walker/math3d"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "shoulders",
})

// Feet is where the shoulders look. The legs component provides it.
type Feet interface {
	NumLegs() int

	// FootTarget returns where the foot is pinned, or false if it's dangling.
	FootTarget(leg int) (math3d.Vector3, bool)

	FootLocation(leg int) math3d.Vector3
}

// Shoulders points each shoulder at its foot, so the upper leg follows the
// foot around.
type Shoulders struct {
	legs     []config.Leg
	distance float64

	feet  Feet
	skel  walker.Skeleton
	poser walker.Poser

	aims []math3d.Vector3
}

func New(cfg config.Walker, feet Feet, skel walker.Skeleton, poser walker.Poser) *Shoulders {
	return &Shoulders{
		legs:     cfg.Legs,
		distance: cfg.AimDistance,
		feet:     feet,
		skel:     skel,
		poser:    poser,
		aims:     make([]math3d.Vector3, len(cfg.Legs)),
	}
}

func (s *Shoulders) Boot() error {
	if n := s.feet.NumLegs(); n != len(s.legs) {
		return fmt.Errorf("shoulders for %d legs, but feet for %d", len(s.legs), n)
	}

	return nil
}

func (s *Shoulders) Tick(now time.Time) error {
	for i, leg := range s.legs {
		target, ok := s.feet.FootTarget(i)
		if !ok {
			target = s.feet.FootLocation(i)
		}

		// Aim at a point a fixed distance along the line to the foot, rather
		// than the foot itself, so the aim is well-defined however close the
		// foot gets.
		shoulder := s.skel.BoneLocation(leg.ShoulderBone)
		aim := shoulder.Add(target.Subtract(shoulder).Unit().MultiplyByScalar(s.distance))

		s.aims[i] = aim
		s.poser.SetAimTarget(leg.ShoulderBone, aim)
	}

	log.Debugf("aims=%v", s.aims)
	return nil
}

// Aim returns the last aim target of the given leg's shoulder.
func (s *Shoulders) Aim(leg int) math3d.Vector3 {
	return s.aims[leg]
}
