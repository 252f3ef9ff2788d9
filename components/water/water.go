package water

import (
	"time"

	"github.com/adammck/walker"
	"github.com/adammck/walker/config"
	"github.com/adammck/walker/math3d"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "water",
})

// Query is whatever knows where the water is.
type Query interface {
	InWater(v math3d.Vector3) bool
}

// Check notices feet entering or leaving water, so splashes can be played.
type Check struct {
	bones    []string
	interval time.Duration

	skel   walker.Skeleton
	query  Query
	events walker.Events

	t  time.Time
	in []bool
}

func New(cfg config.Walker, skel walker.Skeleton, query Query, events walker.Events) *Check {
	if events == nil {
		events = walker.NopEvents{}
	}

	bones := make([]string, len(cfg.Legs))
	for i, l := range cfg.Legs {
		bones[i] = l.FootBone
	}

	return &Check{
		bones:    bones,
		interval: cfg.WaterCheckInterval,
		skel:     skel,
		query:    query,
		events:   events,
		in:       make([]bool, len(bones)),
	}
}

func (c *Check) Boot() error {
	return nil
}

func (c *Check) Tick(now time.Time) error {
	if c.NeedsCheck(now) {
		c.CheckFeet(now)
	}

	return nil
}

// NeedsCheck returns true if it's been at least an interval since the feet were
// last checked.
func (c *Check) NeedsCheck(now time.Time) bool {
	return c.t.IsZero() || now.Sub(c.t) >= c.interval
}

// CheckFeet samples every foot, and sends an event for each one whose state has
// changed since last time. Feet start out of the water.
func (c *Check) CheckFeet(now time.Time) {
	c.t = now

	for i, bone := range c.bones {
		in := c.query.InWater(c.skel.BoneLocation(bone))
		if in == c.in[i] {
			continue
		}

		c.in[i] = in
		log.WithFields(logrus.Fields{"leg": i, "water": in}).Debug("foot water changed")
		c.events.FootWater(i, in)
	}
}

// InWater returns true if the given leg's foot was in water when last checked.
func (c *Check) InWater(leg int) bool {
	return c.in[leg]
}
