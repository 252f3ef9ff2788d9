package legs

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/adammck/walker"
	"github.com/adammck/walker/components/legs/assign"
	"github.com/adammck/walker/config"
	fevents "github.com/adammck/walker/fake/events"
	"github.com/adammck/walker/fake/skeleton"
	"github.com/adammck/walker/fake/vehicle"
	"github.com/adammck/walker/math3d"
	"github.com/adammck/walker/probe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Vector3 = math3d.Vector3

const tickInterval = time.Second / 60

type rig struct {
	cfg  config.Sim
	v    *vehicle.FakeVehicle
	w    *walker.Walker
	skel *skeleton.FakeSkeleton
	rec  *fevents.Recorder
	l    *Legs
	now  time.Time
}

func newRig(t *testing.T, ground probe.Prober) *rig {
	t.Helper()

	cfg := config.DefaultSim()
	v := vehicle.New(cfg, ground, Vector3{})
	w := walker.New(v)
	skel := skeleton.New(v)
	rec := fevents.New()

	l, err := New(w, cfg.Walker, skel, skel, ground, rec)
	require.NoError(t, err)

	w.Add(v)
	w.Add(l)
	require.NoError(t, w.Boot())

	return &rig{
		cfg:  cfg,
		v:    v,
		w:    w,
		skel: skel,
		rec:  rec,
		l:    l,
		now:  time.Unix(1000, 0),
	}
}

func (r *rig) tick(t *testing.T) {
	t.Helper()
	r.now = r.now.Add(tickInterval)
	require.NoError(t, r.w.Tick(r.now))
}

// legIn returns the physical leg currently filling the slot.
func (r *rig) legIn(slot int) int {
	return r.l.Mapping()[slot]
}

func (r *rig) bone(leg int) string {
	return r.cfg.Walker.Legs[leg].FootBone
}

func TestNewInvalid(t *testing.T) {
	cfg := config.Default()
	cfg.MaxReach = 0

	w := walker.New(vehicle.New(config.DefaultSim(), nil, Vector3{}))
	_, err := New(w, cfg, skeleton.New(nil), skeleton.New(nil), probe.Plane{}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrInvalid))
}

func TestTickBeforeBoot(t *testing.T) {
	w := walker.New(vehicle.New(config.DefaultSim(), nil, Vector3{}))
	l, err := New(w, config.Default(), skeleton.New(nil), skeleton.New(nil), probe.Plane{}, nil)
	require.NoError(t, err)
	assert.Error(t, l.Tick(time.Now()))
}

func TestBoot(t *testing.T) {
	r := newRig(t, probe.Plane{})
	body := r.v.Pose().Position
	radius := r.l.footRadius(r.v.HoverDistance())

	assert.True(t, assign.Valid(r.l.Mapping(), 3))

	for slot := 0; slot < 3; slot++ {
		leg := r.legIn(slot)
		assert.Equal(t, Planted, r.l.Stage(leg))
		assert.False(t, r.l.NoValidFoothold(slot))

		desired, normal := r.l.Desired(slot)
		assert.Equal(t, math3d.Up, normal)
		assert.InDelta(t, -r.cfg.Walker.FootEmbed, desired.Y, 1e-9)
		assert.InDelta(t, radius, desired.Subtract(body).Flat().Magnitude(), 1e-6)

		// pinned there instantly
		target, ok := r.l.FootTarget(leg)
		require.True(t, ok)
		assert.Equal(t, desired, target)
		assert.Equal(t, desired, r.skel.BoneLocation(r.bone(leg)))
		assert.True(t, r.skel.Pinned(r.bone(leg)))
	}

	assert.Empty(t, r.rec.Events)
}

func TestAsymmetry(t *testing.T) {
	type eg struct {
		feet []Vector3
		exp  float64
	}

	examples := []eg{
		{[]Vector3{math3d.HeadingVector(180), math3d.HeadingVector(60), math3d.HeadingVector(-60)}, 0},
		{[]Vector3{{X: 1}, {X: -1}}, 0},
		{[]Vector3{{X: 1}, {X: 2, Y: 99}, {X: 3}}, 3},
		{[]Vector3{{X: 1}, {Z: 1}}, 1.4142135623730951},
		{[]Vector3{{}}, 0},
	}

	for i, eg := range examples {
		act := Asymmetry(Vector3{}, eg.feet).Magnitude()
		assert.InDelta(t, eg.exp, act, 1e-9, "example #%d", i+1)
	}
}

// Standing still with the feet spread evenly around the body: nothing to do.
func TestBalancedNoStep(t *testing.T) {
	r := newRig(t, probe.Plane{})

	desired := make([]Vector3, 3)
	for slot := range desired {
		desired[slot], _ = r.l.Desired(slot)
	}
	assert.InDelta(t, 0, Asymmetry(r.v.Pose().Position, desired).Magnitude(), 1e-9)

	for i := 0; i < 120; i++ {
		r.tick(t)
	}

	assert.Equal(t, 0, r.rec.Count(fevents.StepBegan))
	assert.False(t, r.l.Unbalanced())
	for leg := 0; leg < 3; leg++ {
		assert.Equal(t, Planted, r.l.Stage(leg))
	}
}

// Feet clustered on one side of the body: exactly one step, for the foot
// which is furthest out of place.
func TestClusteredOneStep(t *testing.T) {
	clustered := false
	ground := probe.Func(func(origin, toward Vector3) probe.Hit {
		hit := probe.Plane{}.Probe(origin, toward)
		if clustered && hit.OK && hit.Location.X < 150 {
			hit.Location.X = 150
		}
		return hit
	})

	r := newRig(t, ground)
	rear := r.legIn(0)

	// standing up repositions the feet, onto footholds which are all on the
	// +X side of the body.
	clustered = true
	r.v.SetDriving(true)
	r.tick(t)

	desired := make([]Vector3, 3)
	for slot := range desired {
		desired[slot], _ = r.l.Desired(slot)
	}
	assert.Greater(t, Asymmetry(r.v.Pose().Position, desired).MagnitudeSquared(), 1.0)

	assert.Equal(t, []int{rear}, r.rec.Legs(fevents.StepBegan))
	assert.Equal(t, Lift, r.l.Stage(rear))
	assert.False(t, r.l.Emergency(rear))

	// nothing else steps while it's in the air
	for r.l.Stage(rear).Airborne() {
		r.tick(t)
		assert.Equal(t, 1, r.rec.Count(fevents.StepBegan))
	}
}

// A foot way out of reach, with somewhere to go: emergency step.
func TestOverStretchedSteps(t *testing.T) {
	r := newRig(t, probe.Plane{})
	rear := r.legIn(0)

	foot := math3d.HeadingVector(180).MultiplyByScalar(r.cfg.Walker.MaxReach * 1.5)
	foot.Y = -r.cfg.Walker.FootEmbed
	r.skel.SetBone(r.bone(rear), foot)
	r.tick(t)

	assert.Equal(t, Lift, r.l.Stage(rear))
	assert.True(t, r.l.Emergency(rear))
	assert.Equal(t, []int{rear}, r.rec.Legs(fevents.StepBegan))
}

// A foot way out of reach and well above where it should be skips the lift.
func TestOverStretchedHighDescends(t *testing.T) {
	r := newRig(t, probe.Plane{})
	rear := r.legIn(0)

	foot := math3d.HeadingVector(180).MultiplyByScalar(700)
	foot.Y = r.cfg.Walker.MaxReach * 0.6
	r.skel.SetBone(r.bone(rear), foot)
	r.tick(t)

	assert.Equal(t, Descend, r.l.Stage(rear))
	assert.True(t, r.l.Emergency(rear))
	assert.Equal(t, 0, r.rec.Count(fevents.StepBegan))

	// headed straight for the desired position
	desired, _ := r.l.Desired(0)
	target, ok := r.l.FootTarget(rear)
	require.True(t, ok)
	assert.Less(t, target.Distance(desired), foot.Distance(desired))
}

// A foot way out of reach with nowhere to go: dangle.
func TestOverStretchedNoFootholdReleases(t *testing.T) {
	solid := true
	ground := probe.Func(func(origin, toward Vector3) probe.Hit {
		if !solid {
			return probe.Hit{}
		}
		return probe.Plane{}.Probe(origin, toward)
	})

	r := newRig(t, ground)
	rear := r.legIn(0)

	solid = false
	r.v.Teleport(Vector3{X: 10, Y: 40})

	foot := math3d.HeadingVector(180).MultiplyByScalar(r.cfg.Walker.MaxReach * 1.5)
	r.skel.SetBone(r.bone(rear), foot)
	r.skel.Block(r.bone(rear), true)
	r.tick(t)

	assert.True(t, r.l.NoValidFoothold(0))
	assert.True(t, r.l.Unbalanced())
	assert.Equal(t, Planted, r.l.Stage(rear))
	_, ok := r.l.FootTarget(rear)
	assert.False(t, ok)
	assert.False(t, r.skel.Pinned(r.bone(rear)))
	assert.Equal(t, 0, r.rec.Count(fevents.StepBegan))

	// and stays that way
	for i := 0; i < 30; i++ {
		r.tick(t)
	}
	assert.Equal(t, 0, r.rec.Count(fevents.StepBegan))
	assert.Equal(t, foot, r.skel.BoneLocation(r.bone(rear)))
}

func TestStepLands(t *testing.T) {
	r := newRig(t, probe.Plane{})
	leg := r.legIn(1)
	require.NoError(t, r.l.TestStep(r.now, 1))
	assert.Error(t, r.l.TestStep(r.now, 1))

	seen := []Stage{Lift}
	for i := 0; i < 120 && r.l.Stage(leg) != Planted; i++ {
		r.tick(t)
		if s := r.l.Stage(leg); s != seen[len(seen)-1] {
			seen = append(seen, s)
		}
	}

	assert.Equal(t, []Stage{Lift, Descend, Settle, Planted}, seen)
	assert.Equal(t, []int{leg}, r.rec.Legs(fevents.FootLanded))

	// right back where it started, since nothing moved.
	desired, _ := r.l.Desired(1)
	assert.InDelta(t, 0, r.skel.BoneLocation(r.bone(leg)).Distance(desired), 1e-6)
}

func TestStuckStepForcedToFinish(t *testing.T) {
	r := newRig(t, probe.Plane{})
	leg := r.legIn(2)
	r.skel.Block(r.bone(leg), true)

	// move the foot a bit, so it can't arrive.
	foot := r.skel.BoneLocation(r.bone(leg))
	r.skel.SetBone(r.bone(leg), foot.Add(Vector3{X: 30}))

	require.NoError(t, r.l.TestStep(r.now, 2))
	start := r.now

	for i := 0; i < 200 && r.l.Stage(leg) != Planted; i++ {
		r.tick(t)
	}

	c := r.cfg.Walker
	assert.Equal(t, Planted, r.l.Stage(leg))
	assert.GreaterOrEqual(t, r.now.Sub(start), c.LiftTime+c.DescendTime+c.SettleTime)
	assert.Equal(t, []int{leg}, r.rec.Legs(fevents.FootLanded))
}

func TestIgnoredLeg(t *testing.T) {
	r := newRig(t, probe.Plane{})
	rear := r.legIn(0)

	require.NoError(t, r.l.SetIgnored(rear, true))
	assert.False(t, r.skel.Pinned(r.bone(rear)))
	assert.Error(t, r.l.SetIgnored(3, true))
	assert.Error(t, r.l.TestStep(r.now, 0))

	// way out of place, but ignored.
	r.skel.SetBone(r.bone(rear), Vector3{X: -2000})
	for i := 0; i < 10; i++ {
		r.tick(t)
	}

	assert.Equal(t, Planted, r.l.Stage(rear))
	assert.NotContains(t, r.rec.Legs(fevents.StepBegan), rear)

	// once it's back, it steps into place.
	require.NoError(t, r.l.SetIgnored(rear, false))
	r.tick(t)
	assert.Contains(t, r.rec.Legs(fevents.StepBegan), rear)
	_, ok := r.l.FootTarget(rear)
	assert.True(t, ok)
}

func TestDisabledFreezes(t *testing.T) {
	r := newRig(t, probe.Plane{})
	r.l.SetDisabled(true)

	r.skel.SetBone(r.bone(r.legIn(0)), Vector3{X: -2000})
	for i := 0; i < 10; i++ {
		r.tick(t)
	}
	assert.Empty(t, r.rec.Events)

	r.l.SetDisabled(false)
	r.tick(t)
	assert.Equal(t, 1, r.rec.Count(fevents.StepBegan))
}

func TestDeadWalkerFreezes(t *testing.T) {
	r := newRig(t, probe.Plane{})
	r.w.Dead = true

	r.skel.SetBone(r.bone(r.legIn(0)), Vector3{X: -2000})
	for i := 0; i < 10; i++ {
		r.tick(t)
	}
	assert.Empty(t, r.rec.Events)
}

// A step in progress while the walker is dead carries on from where it was,
// rather than jumping ahead by however long it was dead for.
func TestDeadWalkerResumes(t *testing.T) {
	r := newRig(t, probe.Plane{})
	leg := r.legIn(1)
	require.NoError(t, r.l.TestStep(r.now, 1))
	r.tick(t)
	r.tick(t)

	before, ok := r.l.FootTarget(leg)
	require.True(t, ok)

	r.w.Dead = true
	for i := 0; i < 120; i++ {
		r.tick(t)
	}

	r.w.Dead = false
	r.tick(t)
	assert.Equal(t, Lift, r.l.Stage(leg))
	after, ok := r.l.FootTarget(leg)
	require.True(t, ok)
	assert.InDelta(t, 0, after.Distance(before), 1e-9)

	// and the rest of the lift isn't skipped.
	n := 0
	for ; n < 200 && r.l.Stage(leg) == Lift; n++ {
		r.tick(t)
	}
	assert.Greater(t, time.Duration(n)*tickInterval, r.cfg.Walker.LiftTime/2)
}

// A foot released on the way down hasn't landed, even once the step is over.
func TestDanglingStepDoesNotLand(t *testing.T) {
	solid := true
	ground := probe.Func(func(origin, toward Vector3) probe.Hit {
		if !solid {
			return probe.Hit{}
		}
		return probe.Plane{}.Probe(origin, toward)
	})

	r := newRig(t, ground)
	leg := r.legIn(1)
	require.NoError(t, r.l.TestStep(r.now, 1))

	solid = false
	r.v.Teleport(Vector3{X: 10, Y: 40})

	for i := 0; i < 120 && r.l.Stage(leg) != Planted; i++ {
		r.tick(t)
	}

	assert.Equal(t, Planted, r.l.Stage(leg))
	assert.True(t, r.l.NoValidFoothold(1))
	assert.Equal(t, []int{leg}, r.rec.Legs(fevents.StepBegan))
	assert.Equal(t, 0, r.rec.Count(fevents.FootLanded))

	_, ok := r.l.FootTarget(leg)
	assert.False(t, ok)
	assert.False(t, r.skel.Pinned(r.bone(leg)))
}

// Crouching keeps the feet where they are; standing back up moves them.
func TestStanceChange(t *testing.T) {
	r := newRig(t, probe.Plane{})
	before, _ := r.l.Desired(0)

	r.v.SetDriving(true)
	r.v.SetDuck(true)
	r.tick(t)
	require.Equal(t, walker.StanceCrouched, r.v.Stance())
	after, _ := r.l.Desired(0)
	assert.Equal(t, before, after)

	r.v.SetDuck(false)
	r.tick(t)
	require.Equal(t, walker.StanceStanding, r.v.Stance())
	after, _ = r.l.Desired(0)
	assert.NotEqual(t, before, after)
}

// Walk in a straight line for a while, checking that the legs behave every
// tick.
func TestWalkingInvariants(t *testing.T) {
	r := newRig(t, probe.Plane{})
	r.v.SetDriving(true)
	r.v.SetVelocity(Vector3{X: 200})

	c := r.cfg.Walker
	prev := make([]Stage, 3)
	for leg := range prev {
		prev[leg] = r.l.Stage(leg)
	}

	for i := 0; i < 600; i++ {
		landed := len(r.rec.Legs(fevents.FootLanded))
		r.tick(t)
		justLanded := r.rec.Legs(fevents.FootLanded)[landed:]

		require.True(t, assign.Valid(r.l.Mapping(), 3), "tick %d: bad mapping %v", i, r.l.Mapping())

		airborne := 0
		for leg := 0; leg < 3; leg++ {
			s := r.l.Stage(leg)
			if s.Airborne() && !r.l.Emergency(leg) {
				airborne++
			}

			// a leg can land and start another step in the same tick.
			if s != Planted && !slices.Contains(justLanded, leg) {
				assert.GreaterOrEqual(t, s, prev[leg], "tick %d: leg %d went from %s to %s", i, leg, prev[leg], s)
			}
			prev[leg] = s
		}
		assert.LessOrEqual(t, airborne, 1, "tick %d", i)

		body := r.v.Pose().Position
		for _, leg := range justLanded {
			assert.LessOrEqual(t, r.l.FootLocation(leg).Distance(body), c.MaxReach+c.FootEmbed, "tick %d: leg %d", i, leg)
		}
	}

	// it actually walked
	assert.Greater(t, r.rec.Count(fevents.StepBegan), 6)
	assert.Greater(t, r.rec.Count(fevents.FootLanded), 6)
}

// Turning round while walking reassigns legs rather than crossing them.
func TestTurningReassigns(t *testing.T) {
	r := newRig(t, probe.Plane{})
	r.v.SetDriving(true)
	r.v.SetVelocity(Vector3{X: 200})

	o := &fixedHeading{}
	r.l.SetOrienter(o)

	for i := 0; i < 30; i++ {
		r.tick(t)
	}
	before := r.l.Mapping()

	// heading the other way, but the body hasn't turned.
	r.v.SetVelocity(Vector3{X: -200})
	r.tick(t)

	after := r.l.Mapping()
	assert.True(t, assign.Valid(after, 3))
	assert.NotEqual(t, before, after)
}

type fixedHeading struct {
	h float64
}

func (f *fixedHeading) BodyHeading() float64 {
	return f.h
}
