package legs

import (
	"fmt"
	"time"

	"github.com/adammck/walker/components/legs/handle"
	"github.com/adammck/walker/config"
	"github.com/adammck/walker/math3d"
)

// Leg is the runtime state of one physical leg. Legs are indexed by their
// position in the config, which never changes. Which slot a leg fills does.
type Leg struct {
	Index        int
	Name         string
	FootBone     string
	ShoulderBone string

	// The heading (relative to the body) which this leg points at rest.
	Heading float64

	// World position of the foot, sampled from the skeleton at the start of
	// each tick. May be a frame stale.
	Foot math3d.Vector3

	Stage Stage

	// When the current stage should advance. Zero means never.
	due time.Time

	// True if the current step was started because the leg was over-stretched,
	// rather than by the scheduler.
	emergency bool

	// Ignored legs are never stepped, and their feet dangle.
	ignored bool

	handle handle.Handle
}

func newLeg(i int, c config.Leg) *Leg {
	return &Leg{
		Index:        i,
		Name:         c.Name,
		FootBone:     c.FootBone,
		ShoulderBone: c.ShoulderBone,
		Heading:      c.Heading,
		Stage:        Planted,
	}
}

func (leg *Leg) String() string {
	return fmt.Sprintf("&Leg{%d %s stage=%s foot=%s %s}", leg.Index, leg.Name, leg.Stage, leg.Foot, &leg.handle)
}

// isDue returns true if the current stage has run for long enough.
func (leg *Leg) isDue(now time.Time) bool {
	return !leg.due.IsZero() && now.After(leg.due)
}

// goal returns the position the foot should be converging on. A dangling foot
// isn't being moved anywhere, so it's happy where it is.
func (leg *Leg) goal() math3d.Vector3 {
	g, ok := leg.handle.Goal()
	if !ok {
		return leg.Foot
	}

	return g
}
