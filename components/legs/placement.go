package legs

import (
	"fmt"
	"math"

	"github.com/adammck/walker/config"
	"github.com/adammck/walker/math3d"
)

// Distance below a ceiling found by the upward trace to start the downward
// trace from, so it doesn't hit the ceiling again.
const ceilingClearance = 1.0

// Slot is an abstract position around the body, and where the foot filling it
// should currently be planted.
type Slot struct {
	Name string

	// Heading relative to the legs' facing.
	Heading float64

	// Seconds of horizontal velocity to lead the foot by.
	Lead float64

	// Where the foot should be, and the normal of the surface there. These are
	// left alone (stale) when no foothold can be found.
	Desired math3d.Vector3
	Normal  math3d.Vector3

	// True if the last search for a foothold failed.
	NoFoothold bool

	// The trace seed used by the last search, to skip searching again when
	// nothing has moved.
	seed   math3d.Vector3
	seeded bool
}

func newSlot(c config.Slot) *Slot {
	return &Slot{
		Name:    c.Name,
		Heading: c.Heading,
		Lead:    c.Lead,
		Normal:  math3d.Up,
	}
}

func (s *Slot) String() string {
	return fmt.Sprintf("&Slot{%s desired=%s none=%v}", s.Name, s.Desired, s.NoFoothold)
}

// footRadius returns the horizontal distance from the body at which feet
// should be placed, such that the leg is spread to the configured fraction of
// its reach given how high the body is hovering.
func (l *Legs) footRadius(hover float64) float64 {
	length := l.cfg.MaxReach * l.cfg.SpreadFactor
	if length <= hover {
		return 0
	}

	return math.Sqrt(length*length - hover*hover)
}

// seed returns the point above which the foot for the slot should be placed,
// given the position of the body, its velocity, and the legs' facing.
func (l *Legs) seed(s *Slot, body, vel math3d.Vector3, facing, radius float64) math3d.Vector3 {
	offset := math3d.Pose{Heading: facing}.Rotate(math3d.HeadingVector(s.Heading)).MultiplyByScalar(radius)
	lead := vel.Flat().MultiplyByScalar(s.Lead)
	return body.Add(offset).Add(lead)
}

// place recalculates the desired position of every slot, unless its seed
// hasn't moved since last time.
func (l *Legs) place(body, vel math3d.Vector3, facing float64, force bool) {
	radius := l.footRadius(l.host.HoverDistance())

	for i, s := range l.slots {
		seed := l.seed(s, body, vel, facing, radius)
		if !force && s.seeded && seed.Distance(s.seed) <= l.cfg.SeedEpsilon {
			continue
		}

		s.seed = seed
		s.seeded = true

		if l.findFoothold(s, seed, body, vel) {
			continue
		}

		// Back it up halfway toward the body, then most of the rest of the way,
		// and try again each time.
		seed = seed.Add(body.Subtract(seed).MultiplyByScalar(0.5))
		if l.findFoothold(s, seed, body, vel) {
			continue
		}

		seed = seed.Add(body.Subtract(seed).MultiplyByScalar(0.9))
		if l.findFoothold(s, seed, body, vel) {
			continue
		}

		if !s.NoFoothold {
			l.log.WithField("slot", i).Debug("no foothold")
		}

		s.NoFoothold = true
	}
}

// findFoothold probes for ground below the seed. If some is found within
// reach of the body (now, or soon), it becomes the slot's desired position.
func (l *Legs) findFoothold(s *Slot, seed, body, vel math3d.Vector3) bool {

	// Start above the seed, to climb steep hills. But not above a platform
	// overhead, or the foot would end up on top of it.
	start := seed.Add(math3d.Up.MultiplyByScalar(l.cfg.TraceRaise))
	if hit := l.ground.Probe(seed, start); hit.OK {
		start = hit.Location.Subtract(math3d.Up.MultiplyByScalar(ceilingClearance))
	}

	end := start.Subtract(math3d.Up.MultiplyByScalar(l.cfg.TraceDepth))
	hit := l.ground.Probe(start, end)
	if !hit.OK {
		return false
	}

	reachSq := l.cfg.MaxReach * l.cfg.MaxReach
	if hit.Location.DistanceSquared(body) > reachSq {

		// Too far now, but maybe not once the body has moved a bit further.
		ahead := body.Add(vel.MultiplyByScalar(l.cfg.Anticipation.Seconds()))
		if hit.Location.DistanceSquared(ahead) > reachSq {
			return false
		}
	}

	s.Desired = hit.Location.Subtract(hit.Normal.MultiplyByScalar(l.cfg.FootEmbed))
	s.Normal = hit.Normal
	s.NoFoothold = false
	return true
}
