package walker

import (
	"errors"
	"testing"
	"time"

	"github.com/adammck/walker/math3d"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type host struct{}

func (host) Pose() math3d.Pose {
	return math3d.Pose{}
}

func (host) Velocity() math3d.Vector3 {
	return math3d.Vector3{}
}

func (host) Driving() bool {
	return false
}

func (host) Stance() Stance {
	return StanceParked
}

func (host) HoverDistance() float64 {
	return 0
}

type component struct {
	name    string
	order   *[]string
	bootErr error
	tickErr error
}

func (c *component) Boot() error {
	*c.order = append(*c.order, "boot "+c.name)
	return c.bootErr
}

func (c *component) Tick(now time.Time) error {
	*c.order = append(*c.order, "tick "+c.name)
	return c.tickErr
}

func TestWalkerOrder(t *testing.T) {
	order := []string{}
	w := New(host{})
	w.Add(&component{name: "a", order: &order})
	w.Add(&component{name: "b", order: &order})

	assert.Error(t, w.Tick(time.Now()))

	require.NoError(t, w.Boot())
	require.NoError(t, w.Tick(time.Now()))
	assert.Equal(t, []string{"boot a", "boot b", "tick a", "tick b"}, order)
}

func TestWalkerErrors(t *testing.T) {
	boom := errors.New("boom")
	order := []string{}

	w := New(host{})
	w.Add(&component{name: "a", order: &order, tickErr: boom})
	w.Add(&component{name: "b", order: &order})
	require.NoError(t, w.Boot())

	err := w.Tick(time.Now())
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, []string{"boot a", "boot b", "tick a"}, order)

	w = New(host{})
	w.Add(&component{name: "c", order: &order, bootErr: boom})
	assert.True(t, errors.Is(w.Boot(), boom))
}

func TestWalkerDead(t *testing.T) {
	order := []string{}
	w := New(host{})
	w.Add(&component{name: "a", order: &order})
	require.NoError(t, w.Boot())

	w.Dead = true
	require.NoError(t, w.Tick(time.Now()))
	assert.Equal(t, []string{"boot a"}, order)
}

type resumer struct {
	component
}

func (r *resumer) Resume(now time.Time) {
	*r.order = append(*r.order, "resume "+r.name)
}

func TestWalkerResume(t *testing.T) {
	order := []string{}
	w := New(host{})
	w.Add(&resumer{component{name: "a", order: &order}})
	w.Add(&component{name: "b", order: &order})
	require.NoError(t, w.Boot())

	require.NoError(t, w.Tick(time.Now()))
	w.Dead = true
	require.NoError(t, w.Tick(time.Now()))
	require.NoError(t, w.Tick(time.Now()))
	w.Dead = false
	require.NoError(t, w.Tick(time.Now()))
	require.NoError(t, w.Tick(time.Now()))

	// only resumed once, before the first tick back.
	assert.Equal(t, []string{
		"boot a", "boot b",
		"tick a", "tick b",
		"resume a", "tick a", "tick b",
		"tick a", "tick b",
	}, order)
}

func TestStanceString(t *testing.T) {
	assert.Equal(t, "standing", StanceStanding.String())
	assert.Equal(t, "crouched", StanceCrouched.String())
	assert.Equal(t, "parked", StanceParked.String())
}
