package legs

import (
	"time"

	"github.com/adammck/walker/math3d"
	"github.com/sirupsen/logrus"
)

// Stage is a phase of a single step. Stages only ever advance, except that any
// stage can return to Planted.
type Stage int

const (
	Planted Stage = iota - 1

	// The foot arcs up from where it is, toward a point above where it should
	// land. The end of the arc follows the desired position as it moves.
	Lift

	// The foot moves straight down onto the desired position.
	Descend

	// Nothing is commanded; the foot is given time to arrive.
	Settle

	// The foot never arrived. Give up and call it planted, so the leg doesn't
	// block other legs from stepping forever.
	ForceFinish
)

func (s Stage) String() string {
	switch s {
	case Planted:
		return "planted"
	case Lift:
		return "lift"
	case Descend:
		return "descend"
	case Settle:
		return "settle"
	case ForceFinish:
		return "force-finish"
	default:
		return "unknown"
	}
}

// Airborne returns true if the foot is off the ground in this stage.
func (s Stage) Airborne() bool {
	return s == Lift || s == Descend
}

// beginStep starts a step for the leg filling the given slot.
func (l *Legs) beginStep(now time.Time, slot int, emergency bool) {
	leg := l.legs[l.mapping[slot]]
	leg.emergency = emergency
	l.beginStage(now, slot, Lift)
}

// beginStage moves the leg filling the given slot into stage st, and sends
// the constraint commands for it.
func (l *Legs) beginStage(now time.Time, slot int, st Stage) {
	leg := l.legs[l.mapping[slot]]
	s := l.slots[slot]
	leg.Stage = st

	l.log.WithFields(logrus.Fields{
		"leg":       leg.Index,
		"slot":      slot,
		"stage":     st,
		"emergency": leg.emergency,
	}).Debug("begin stage")

	switch st {
	case Lift:
		if !leg.handle.IsAttached() {
			leg.handle.Attach(leg.Foot)
		}

		start := leg.Foot.Add(math3d.Up.MultiplyByScalar(l.cfg.StartLift))
		end := s.Desired.Add(math3d.Up.MultiplyByScalar(l.cfg.EndLift))
		leg.handle.SetSmoothLocationWithGoalInterp(start, end, l.cfg.LiftTime)
		l.events.StepBegan(leg.Index)
		leg.due = now.Add(l.cfg.LiftTime)

	case Descend:
		leg.handle.StopGoalInterp()

		// There's nowhere to put the foot down, so let it dangle rather than
		// planting it somewhere stale.
		if s.NoFoothold {
			l.release(leg)
		} else {
			l.moveFoot(leg, s.Desired, s.Normal, l.cfg.DescendTime)
		}

		leg.due = now.Add(l.cfg.DescendTime)

	case Settle:
		leg.due = now.Add(l.cfg.SettleTime)

	case ForceFinish:
		l.log.WithFields(logrus.Fields{
			"leg":  leg.Index,
			"foot": leg.Foot,
			"goal": leg.goal(),
		}).Debug("forcing step to finish")
		l.finishStep(leg)
	}
}

// processSteps advances every leg which is mid-step. Stages advance when
// they're due; otherwise the lift arc is retargeted at the latest desired
// position, and settling legs are checked for arrival.
func (l *Legs) processSteps(now time.Time) {
	for slot, idx := range l.mapping {
		leg := l.legs[idx]
		if leg.Stage == Planted {
			continue
		}

		if leg.isDue(now) {
			l.beginStage(now, slot, leg.Stage+1)
			continue
		}

		switch leg.Stage {
		case Lift:
			end := l.slots[slot].Desired.Add(math3d.Up.MultiplyByScalar(l.cfg.EndLift))
			leg.handle.UpdateSmoothLocationWithGoalInterp(end)

		case Settle:
			if leg.Foot.DistanceSquared(leg.goal()) < l.cfg.LandedDistanceSq {
				l.finishStep(leg)
			}
		}
	}
}

// finishStep returns the leg to Planted, wherever the foot ended up. A foot
// released on the way down is still dangling, so hasn't landed anywhere.
func (l *Legs) finishStep(leg *Leg) {
	leg.Stage = Planted
	leg.due = time.Time{}
	leg.emergency = false

	if !leg.handle.IsAttached() {
		l.log.WithField("leg", leg.Index).Debug("step finished with foot dangling")
		return
	}

	l.events.FootLanded(leg.Index)
}

// moveFoot pins the foot to loc, facing into the surface, over d. Dangling
// feet are grabbed where they are first.
func (l *Legs) moveFoot(leg *Leg, loc, normal math3d.Vector3, d time.Duration) {
	if !leg.handle.IsAttached() {
		leg.handle.Attach(leg.Foot)
	}

	if d > 0 {
		leg.handle.SetSmoothLocation(loc, d)
	} else {
		leg.handle.SetLocation(loc)
	}

	leg.handle.SetOrientation(math3d.LookRotation(normal.MultiplyByScalar(-1)))
}

// release lets the foot dangle.
func (l *Legs) release(leg *Leg) {
	if !leg.handle.IsAttached() {
		return
	}

	l.log.WithField("leg", leg.Index).Debug("releasing foot")
	leg.handle.Release()
	l.poser.ReleaseFoot(leg.FootBone)
}
