package walker

import (
	"github.com/sirupsen/logrus"
)

// Events receives fire-and-forget notifications about the legs, for animation,
// audio and particle effects. Implementations must not block.
type Events interface {
	StepBegan(leg int)
	FootLanded(leg int)
	FootWater(leg int, inWater bool)
}

// NopEvents discards all notifications.
type NopEvents struct{}

func (NopEvents) StepBegan(int) {}

func (NopEvents) FootLanded(int) {}

func (NopEvents) FootWater(int, bool) {}

// LogEvents writes notifications to the walker's log at debug level.
type LogEvents struct {
	W *Walker
}

func (e LogEvents) StepBegan(leg int) {
	e.W.Log().WithField("leg", leg).Debug("step began")
}

func (e LogEvents) FootLanded(leg int) {
	e.W.Log().WithField("leg", leg).Debug("foot landed")
}

func (e LogEvents) FootWater(leg int, inWater bool) {
	e.W.Log().WithFields(logrus.Fields{"leg": leg, "water": inWater}).Debug("foot water")
}
