package body

import (
	"math"
	"time"

	"github.com/adammck/walker"
	"github.com/adammck/walker/config"
	"github.com/adammck/walker/math3d"
	"github.com/adammck/walker/utils"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "body",
})

// Body tracks the yaw of the leg mesh, which turns toward the direction of
// travel while moving, and holds still otherwise. Since the legs are spaced
// evenly around the body, it never needs to turn further than half the gap
// between two legs to put one of them in front.
type Body struct {
	host        walker.Host
	movingSpeed float64
	speed       float64
	symmetry    float64

	heading float64
	last    time.Time
}

func New(host walker.Host, cfg config.Walker) *Body {
	return &Body{
		host:        host,
		movingSpeed: cfg.MovingSpeed,
		speed:       cfg.BodyYawSpeed,
		symmetry:    180 / float64(cfg.NumLegs()),
	}
}

func (b *Body) Boot() error {
	b.heading = b.host.Pose().Heading
	log.Debugf("booted at heading=%.1f", b.heading)
	return nil
}

func (b *Body) Tick(now time.Time) error {
	var dt time.Duration
	if !b.last.IsZero() && now.After(b.last) {
		dt = now.Sub(b.last)
	}
	b.last = now

	vel := b.host.Velocity()
	if vel.MagnitudeSquared2D() <= b.movingSpeed*b.movingSpeed {
		return nil
	}

	goal := b.goal(math3d.HeadingOf(vel))
	b.heading = interpTo(b.heading, goal, dt, b.speed)
	return nil
}

// goal returns the heading to turn toward, given the heading of travel.
func (b *Body) goal(travel float64) float64 {
	delta := utils.NormalizeHeading(travel - b.heading)
	if math.Abs(delta) > b.symmetry {
		if delta < 0 {
			return travel + b.symmetry
		}

		return travel - b.symmetry
	}

	return travel
}

// BodyHeading returns the current yaw of the leg mesh.
func (b *Body) BodyHeading() float64 {
	return b.heading
}

// interpTo turns current the short way round toward target, by a fraction of
// the remaining difference proportional to dt and speed. A non-positive speed
// snaps straight to the target.
func interpTo(current, target float64, dt time.Duration, speed float64) float64 {
	if speed <= 0 {
		return utils.NormalizeHeading(target)
	}

	delta := utils.NormalizeHeading(target - current)
	step := utils.Clamp(dt.Seconds()*speed, 0, 1)
	return utils.NormalizeHeading(current + delta*step)
}
