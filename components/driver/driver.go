package driver

import (
	"time"

	"github.com/adammck/walker"
	"github.com/adammck/walker/config"
	"github.com/adammck/walker/math3d"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "driver",
})

const (

	// How close (on the ground plane) the vehicle must get to a waypoint before
	// moving on to the next.
	arriveDistance = 25.0
)

// Vehicle is a host which can be driven.
type Vehicle interface {
	walker.Host
	SetDriving(bool)
	SetDuck(bool)
	SetVelocity(math3d.Vector3)
	SetHeading(float64)
}

// Driver drives a vehicle along a route, at a constant speed, then parks it.
// It should be added to the walker before the vehicle.
type Driver struct {
	v     Vehicle
	route []config.Point
	speed float64

	// Where the vehicle was at boot. The route is relative to this.
	origin math3d.Vector3

	next int

	// Ducking and standing are only commanded on the way in, so anything else
	// driving the vehicle can override them in between.
	ducking  Latch
	standing Latch
}

func New(v Vehicle, route []config.Point, speed float64) *Driver {
	return &Driver{
		v:     v,
		route: route,
		speed: speed,
	}
}

func (d *Driver) Boot() error {
	d.origin = d.v.Pose().Position
	d.next = 0

	if len(d.route) > 0 {
		d.v.SetDriving(true)
	}

	return nil
}

func (d *Driver) Tick(now time.Time) error {
	if d.Parked() {
		return nil
	}

	pos := d.v.Pose().Position
	wp := d.waypoint(d.next)

	if wp.Subtract(pos).Flat().Magnitude() <= arriveDistance {
		log.Debugf("reached waypoint %d at %s", d.next, pos)
		d.next++

		if d.Parked() {
			log.Infof("parked at %s", pos)
			d.v.SetVelocity(math3d.ZeroVector3)
			d.setDuck(false)
			d.v.SetDriving(false)
			return nil
		}

		wp = d.waypoint(d.next)
	}

	d.setDuck(d.route[d.next].Duck)

	vel := wp.Subtract(pos).Flat().Unit().MultiplyByScalar(d.speed)
	d.v.SetVelocity(vel)
	d.v.SetHeading(math3d.HeadingOf(vel))

	return nil
}

func (d *Driver) setDuck(duck bool) {
	if d.ducking.Run(duck) {
		log.Debugf("ducking toward waypoint %d", d.next)
		d.v.SetDuck(true)
	}

	if d.standing.Run(!duck) {
		d.v.SetDuck(false)
	}
}

// Parked returns true once the last waypoint has been reached.
func (d *Driver) Parked() bool {
	return d.next >= len(d.route)
}

func (d *Driver) waypoint(i int) math3d.Vector3 {
	p := d.route[i]
	return d.origin.Add(math3d.Vector3{X: p.X, Z: p.Z})
}
