package legs

import (
	"time"

	"github.com/adammck/walker/math3d"
	"github.com/sirupsen/logrus"
)

// Asymmetry returns the sum of the horizontal unit vectors from each of the
// given foot positions toward the body. Feet spread evenly around the body
// cancel out to (nearly) zero; feet clustered on one side don't.
func Asymmetry(body math3d.Vector3, feet []math3d.Vector3) math3d.Vector3 {
	sum := math3d.ZeroVector3
	for _, f := range feet {
		sum = sum.Add(body.Subtract(f).Flat().Unit())
	}

	return sum
}

// overStretched returns true if the foot is further from the body than the leg
// can reach.
func (l *Legs) overStretched(leg *Leg, body math3d.Vector3) bool {
	return leg.Foot.DistanceSquared(body) > l.cfg.MaxReach*l.cfg.MaxReach
}

// unbalanced returns true if any planted leg is over-stretched, or if every
// leg is planted but the desired positions aren't spread around the body.
func (l *Legs) unbalanced(body math3d.Vector3) bool {
	stepping := false
	for _, leg := range l.legs {
		if leg.Stage != Planted {
			stepping = true
			continue
		}

		if !leg.ignored && l.overStretched(leg, body) {
			return true
		}
	}

	if stepping {
		return false
	}

	desired := make([]math3d.Vector3, len(l.slots))
	for i, s := range l.slots {
		desired[i] = s.Desired
	}

	return Asymmetry(body, desired).MagnitudeSquared() > 1
}

// Unbalanced returns true if the legs are unbalanced around the host's current
// position.
func (l *Legs) Unbalanced() bool {
	return l.unbalanced(l.host.Pose().Position)
}

// checkReach starts an emergency step for every planted leg which is
// over-stretched. If there's nowhere for it to go, it's released instead.
func (l *Legs) checkReach(now time.Time, body math3d.Vector3) {
	for slot, idx := range l.mapping {
		leg := l.legs[idx]
		if leg.Stage != Planted || leg.ignored || !l.overStretched(leg, body) {
			continue
		}

		s := l.slots[slot]
		if s.NoFoothold {
			l.release(leg)
			continue
		}

		l.log.WithFields(logrus.Fields{
			"leg":  leg.Index,
			"slot": slot,
			"dist": leg.Foot.Distance(body),
		}).Debug("leg over-stretched")

		// If the foot is below or roughly level with where it should be, take a
		// normal step. If it's well above, just bring it down.
		dz := leg.Foot.Y - s.Desired.Y
		if dz < l.cfg.MaxReach*0.5 {
			l.beginStep(now, slot, true)
		} else {
			leg.emergency = true
			l.beginStage(now, slot, Descend)
		}
	}
}
