package vehicle

import (
	"math"
	"time"

	"github.com/adammck/walker"
	"github.com/adammck/walker/config"
	"github.com/adammck/walker/math3d"
	"github.com/adammck/walker/probe"
	"github.com/sirupsen/logrus"
)

var logger = logrus.WithFields(logrus.Fields{
	"pkg": "vehicle",
})

const (

	// Suspension can't adjust by more than this many seconds' worth in a single
	// tick, so a long hitch doesn't snap the body up or down.
	maxAdjustDelta = 100 * time.Millisecond

	// How far above and below the body to look for the ground.
	groundSearch = 2000.0
)

// FakeVehicle is the simulated vehicle which a walker body hangs from. It
// moves at whatever velocity it's given, and rides at its suspension height
// above the ground. It's a component, and should be added to the walker before
// the legs, so they see this tick's position.
type FakeVehicle struct {
	cfg    config.Sim
	ground probe.Prober

	pos     math3d.Vector3
	vel     math3d.Vector3
	heading float64

	driving bool
	duck    bool
	stance  walker.Stance

	// Current suspension travel, which moves toward the stance's travel.
	travel float64

	last time.Time
}

// New returns a parked vehicle at the given position. If ground is nil, the
// vehicle doesn't follow the terrain.
func New(cfg config.Sim, ground probe.Prober, pos math3d.Vector3) *FakeVehicle {
	v := &FakeVehicle{
		cfg:    cfg,
		ground: ground,
		pos:    pos,
		stance: walker.StanceParked,
	}

	v.travel = v.suspension().Travel
	return v
}

func (v *FakeVehicle) Boot() error {
	v.follow()
	return nil
}

// Tick integrates the velocity, updates the stance, and adjusts the
// suspension.
func (v *FakeVehicle) Tick(now time.Time) error {
	var dt time.Duration
	if !v.last.IsZero() && now.After(v.last) {
		dt = now.Sub(v.last)
	}
	v.last = now

	v.stance = v.desiredStance()
	v.adjust(dt)

	v.pos = v.pos.Add(v.vel.Flat().MultiplyByScalar(dt.Seconds()))
	v.follow()

	return nil
}

func (v *FakeVehicle) desiredStance() walker.Stance {
	if !v.driving {
		return walker.StanceParked
	}

	if v.duck {
		return walker.StanceCrouched
	}

	return walker.StanceStanding
}

// adjust moves the suspension travel toward the current stance's.
func (v *FakeVehicle) adjust(dt time.Duration) {
	if dt > maxAdjustDelta {
		dt = maxAdjustDelta
	}

	want := v.suspension().Travel
	step := v.cfg.SuspensionSpeed * dt.Seconds()

	if v.travel > want {
		v.travel = math.Max(want, v.travel-step)
	} else if v.travel < want {
		v.travel = math.Min(want, v.travel+step)
	}
}

// follow puts the body at its ride height above the ground.
func (v *FakeVehicle) follow() {
	if v.ground == nil {
		return
	}

	up := math3d.Up.MultiplyByScalar(groundSearch)
	hit := v.ground.Probe(v.pos.Add(up), v.pos.Subtract(up))
	if !hit.OK {
		logger.Debugf("no ground below %s", v.pos)
		return
	}

	v.pos.Y = hit.Location.Y + v.travel + v.cfg.WheelRadius
}

func (v *FakeVehicle) suspension() config.Suspension {
	return v.cfg.Suspension[v.stance.String()]
}

func (v *FakeVehicle) Pose() math3d.Pose {
	return math3d.Pose{Position: v.pos, Heading: v.heading}
}

func (v *FakeVehicle) Velocity() math3d.Vector3 {
	return v.vel
}

func (v *FakeVehicle) Driving() bool {
	return v.driving
}

func (v *FakeVehicle) Stance() walker.Stance {
	return v.stance
}

// HoverDistance returns the ride height which the current stance is aiming
// for, rather than the current one, so the stance is sized for where the body
// is going to be.
func (v *FakeVehicle) HoverDistance() float64 {
	s := v.suspension()
	return s.Travel + s.HoverAdjust + v.cfg.WheelRadius
}

// SetDriving starts or stops driving. The stance changes on the next tick.
func (v *FakeVehicle) SetDriving(driving bool) {
	v.driving = driving
}

// SetDuck holds (or lets go of) crouch.
func (v *FakeVehicle) SetDuck(duck bool) {
	v.duck = duck
}

func (v *FakeVehicle) SetVelocity(vel math3d.Vector3) {
	v.vel = vel
}

func (v *FakeVehicle) SetHeading(heading float64) {
	v.heading = heading
}

// Teleport moves the vehicle instantly, without any velocity.
func (v *FakeVehicle) Teleport(pos math3d.Vector3) {
	v.pos = pos
}
