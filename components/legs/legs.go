package legs

import (
	"fmt"
	"slices"
	"time"

	"github.com/adammck/walker"
	"github.com/adammck/walker/components/legs/assign"
	"github.com/adammck/walker/config"
	"github.com/adammck/walker/math3d"
	"github.com/adammck/walker/probe"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "legs",
})

// BodyOrienter provides the current heading of the body the legs hang from,
// which may lag behind the host's heading.
type BodyOrienter interface {
	BodyHeading() float64
}

// Legs decides where each foot of a walker should be planted, and steps them
// there one at a time.
type Legs struct {
	cfg    config.Walker
	host   walker.Host
	skel   walker.Skeleton
	poser  walker.Poser
	ground probe.Prober
	events walker.Events
	log    *logrus.Entry

	orienter BodyOrienter
	solver   *assign.Solver

	// Physical legs, and abstract slots. mapping[slot] is the index of the leg
	// currently filling it.
	legs    []*Leg
	slots   []*Slot
	mapping []int

	legHeadings  []float64
	slotHeadings []float64

	stance   walker.Stance
	disabled bool
	booted   bool
	lastTick time.Time
}

// New creates the legs of walker w. The config is copied, and must be valid.
// If events is nil, notifications are discarded.
func New(w *walker.Walker, cfg config.Walker, skel walker.Skeleton, poser walker.Poser, ground probe.Prober, events walker.Events) (*Legs, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("creating legs: %w", err)
	}

	if events == nil {
		events = walker.NopEvents{}
	}

	l := &Legs{
		cfg:     cfg,
		host:    w.Host,
		skel:    skel,
		poser:   poser,
		ground:  ground,
		events:  events,
		log:     w.Log().WithField("pkg", "legs"),
		solver:  assign.New(cfg.NumLegs()),
		mapping: assign.Identity(cfg.NumLegs()),
	}

	for i, c := range cfg.Legs {
		l.legs = append(l.legs, newLeg(i, c))
		l.legHeadings = append(l.legHeadings, c.Heading)
	}

	for _, c := range cfg.Slots {
		l.slots = append(l.slots, newSlot(c))
		l.slotHeadings = append(l.slotHeadings, c.Heading)
	}

	return l, nil
}

// SetOrienter sets where the current body heading comes from. If unset, the
// host's heading is used.
func (l *Legs) SetOrienter(o BodyOrienter) {
	l.orienter = o
}

// Boot assigns legs to slots, finds a foothold for each, and pins every foot
// there instantly.
func (l *Legs) Boot() error {
	pose := l.host.Pose()
	l.stance = l.host.Stance()
	l.sample()

	l.recompute(pose, l.host.Velocity(), true)

	for slot, idx := range l.mapping {
		leg := l.legs[idx]
		s := l.slots[slot]
		leg.Stage = Planted

		if s.NoFoothold {
			l.log.WithField("leg", idx).Warn("no foothold at boot")
			continue
		}

		l.moveFoot(leg, s.Desired, s.Normal, 0)
	}

	l.update()
	l.booted = true
	log.Infof("booted %d legs", len(l.legs))
	return nil
}

func (l *Legs) Tick(now time.Time) error {
	if !l.booted {
		return fmt.Errorf("legs ticked before boot")
	}

	var dt time.Duration
	if !l.lastTick.IsZero() && now.After(l.lastTick) {
		dt = now.Sub(l.lastTick)
	}
	l.lastTick = now

	// Frozen wherever they are.
	if l.disabled {
		return nil
	}

	for _, leg := range l.legs {
		leg.handle.Tick(dt)
	}

	l.sample()

	pose := l.host.Pose()
	vel := l.host.Velocity()

	// Reposition after changing stance, except when crouching, since the feet
	// can stay where they are for that.
	stance := l.host.Stance()
	restance := stance != l.stance && stance != walker.StanceCrouched
	l.stance = stance

	if l.moving(vel) || restance || l.unbalanced(pose.Position) || !l.allPlanted() {
		l.recompute(pose, vel, false)
	}

	l.processSteps(now)
	l.checkReach(now, pose.Position)
	l.maybeStep(now)
	l.update()

	return nil
}

// Resume picks up where the legs left off when the walker froze. Time spent
// frozen doesn't count toward any step in progress.
func (l *Legs) Resume(now time.Time) {
	if !l.lastTick.IsZero() && now.After(l.lastTick) {
		gap := now.Sub(l.lastTick)
		for _, leg := range l.legs {
			if !leg.due.IsZero() {
				leg.due = leg.due.Add(gap)
			}
		}
	}

	l.lastTick = now
}

// moving returns true if the host is moving fast enough on the ground plane
// that the feet need to keep up.
func (l *Legs) moving(vel math3d.Vector3) bool {
	return vel.MagnitudeSquared2D() > l.cfg.MovingSpeed*l.cfg.MovingSpeed
}

func (l *Legs) allPlanted() bool {
	for _, leg := range l.legs {
		if leg.Stage != Planted {
			return false
		}
	}

	return true
}

// sample caches the position of each foot.
func (l *Legs) sample() {
	for _, leg := range l.legs {
		leg.Foot = l.skel.BoneLocation(leg.FootBone)
	}
}

// recompute reassigns legs to slots, and finds new footholds.
func (l *Legs) recompute(pose math3d.Pose, vel math3d.Vector3, force bool) {
	facing := assign.Facing(l.host, l.cfg.MovingSpeed)
	desired := assign.Directions(facing, l.slotHeadings)
	current := assign.Directions(l.bodyHeading(), l.legHeadings)

	m := l.solver.Solve(desired, current, l.mapping)
	if !slices.Equal(m, l.mapping) {
		l.log.WithFields(logrus.Fields{"from": l.mapping, "to": m}).Debug("reassigned legs")
	}

	l.mapping = m
	l.place(pose.Position, vel, facing, force)
}

func (l *Legs) bodyHeading() float64 {
	if l.orienter != nil {
		return l.orienter.BodyHeading()
	}

	return l.host.Pose().Heading
}

// maybeStep steps the leg whose foot is furthest from where it should be, if
// no leg is in the air already.
func (l *Legs) maybeStep(now time.Time) {
	for _, leg := range l.legs {
		if leg.Stage.Airborne() {
			return
		}
	}

	minSq := l.cfg.MinStepDistance * l.cfg.MinStepDistance
	best := -1
	bestDist := 0.0

	for slot, idx := range l.mapping {
		leg := l.legs[idx]
		s := l.slots[slot]
		if leg.ignored || leg.Stage != Planted || s.NoFoothold {
			continue
		}

		d := s.Desired.Subtract(leg.Foot).MagnitudeSquared2D()
		if d > minSq && d > bestDist {
			best = slot
			bestDist = d
		}
	}

	if best >= 0 {
		l.beginStep(now, best, false)
	}
}

// update pushes the foot constraints to the skeleton.
func (l *Legs) update() {
	for _, leg := range l.legs {
		if leg.handle.IsAttached() {
			l.poser.SetFootTarget(leg.FootBone, leg.handle.Location(), leg.handle.Orientation())
		}
	}
}

// SetDisabled freezes (or unfreezes) the legs wherever they are.
func (l *Legs) SetDisabled(disabled bool) {
	l.disabled = disabled
}

// SetIgnored excludes a leg from stepping, and lets its foot dangle. Any step
// in progress is abandoned.
func (l *Legs) SetIgnored(leg int, ignored bool) error {
	if leg < 0 || leg >= len(l.legs) {
		return fmt.Errorf("no such leg: %d", leg)
	}

	lg := l.legs[leg]
	lg.ignored = ignored
	if ignored {
		lg.Stage = Planted
		lg.due = time.Time{}
		lg.emergency = false
		l.release(lg)
	}

	return nil
}

// TestStep starts a step for the leg in the given slot, regardless of whether
// one is needed. Ignored legs can't be stepped.
func (l *Legs) TestStep(now time.Time, slot int) error {
	if slot < 0 || slot >= len(l.slots) {
		return fmt.Errorf("no such slot: %d", slot)
	}

	leg := l.legs[l.mapping[slot]]
	if leg.ignored {
		return fmt.Errorf("leg %d is ignored", leg.Index)
	}

	if leg.Stage != Planted {
		return fmt.Errorf("leg %d is already stepping (%s)", leg.Index, leg.Stage)
	}

	l.beginStep(now, slot, false)
	return nil
}

// NumLegs returns the number of physical legs (and slots).
func (l *Legs) NumLegs() int {
	return len(l.legs)
}

// Stage returns the stage of the given physical leg.
func (l *Legs) Stage(leg int) Stage {
	return l.legs[leg].Stage
}

// Emergency returns true if the given leg is taking an emergency step.
func (l *Legs) Emergency(leg int) bool {
	return l.legs[leg].emergency
}

// Mapping returns a copy of the current mapping from slot to leg.
func (l *Legs) Mapping() []int {
	m := make([]int, len(l.mapping))
	copy(m, l.mapping)
	return m
}

// Desired returns where the foot in the given slot should be planted, and the
// normal of the surface there.
func (l *Legs) Desired(slot int) (math3d.Vector3, math3d.Vector3) {
	s := l.slots[slot]
	return s.Desired, s.Normal
}

// NoValidFoothold returns true if the last search for a foothold for the given
// slot failed.
func (l *Legs) NoValidFoothold(slot int) bool {
	return l.slots[slot].NoFoothold
}

// FootTarget returns where the given leg's foot is pinned. The bool is false
// if the foot is dangling.
func (l *Legs) FootTarget(leg int) (math3d.Vector3, bool) {
	h := &l.legs[leg].handle
	return h.Location(), h.IsAttached()
}

// FootLocation returns the position of the given leg's foot, as sampled from
// the skeleton at the start of the last tick.
func (l *Legs) FootLocation(leg int) math3d.Vector3 {
	return l.legs[leg].Foot
}
