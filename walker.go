package walker

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Walker is a walker body attached to a host vehicle. It owns an ordered list
// of components, which are ticked once per simulation tick in the order they
// were added. Everything that touches a walker's legs must happen inside its
// Tick, on one goroutine.
type Walker struct {
	ID         uuid.UUID
	Host       Host
	Components []Component

	// Dead walkers don't tick their components, so the legs freeze wherever
	// they were.
	Dead bool

	booted bool
	frozen bool
	log    *logrus.Entry
}

type Component interface {
	Boot() error
	Tick(time.Time) error
}

// Resumer is implemented by components which need to know when a dead walker
// comes back to life, since they missed every tick in between.
type Resumer interface {
	Resume(now time.Time)
}

// New creates a new Walker attached to the given host.
func New(host Host) *Walker {
	id := uuid.New()
	return &Walker{
		ID:         id,
		Host:       host,
		Components: []Component{},
		log:        log.WithField("walker", id.String()),
	}
}

// Log returns the logger for this walker, which components should use so
// their output can be told apart when many walkers are ticking.
func (w *Walker) Log() *logrus.Entry {
	return w.log
}

// Add registers a component to receive ticks every frame.
func (w *Walker) Add(c Component) {
	w.Components = append(w.Components, c)
}

// Boot calls Boot on each component.
func (w *Walker) Boot() error {
	for i, c := range w.Components {
		err := c.Boot()
		if err != nil {
			return fmt.Errorf("booting component %d (%T): %w", i, c, err)
		}
	}

	w.booted = true
	w.log.Infof("booted %d components", len(w.Components))
	return nil
}

// Tick calls Tick on each component, and returns the first error. Components
// after a failing one are not ticked, since they may depend on its output.
func (w *Walker) Tick(now time.Time) error {
	if !w.booted {
		return fmt.Errorf("walker %s ticked before boot", w.ID)
	}

	if w.Dead {
		w.frozen = true
		return nil
	}

	if w.frozen {
		w.frozen = false
		w.log.Debug("resuming")
		for _, c := range w.Components {
			if r, ok := c.(Resumer); ok {
				r.Resume(now)
			}
		}
	}

	for i, c := range w.Components {
		err := c.Tick(now)
		if err != nil {
			return fmt.Errorf("ticking component %d (%T): %w", i, c, err)
		}
	}

	return nil
}
