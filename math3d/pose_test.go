package math3d

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRotate(t *testing.T) {
	p := Pose{Vector3{X: 100, Y: 50, Z: 100}, 90}
	act := p.Rotate(Vector3{X: 1})
	assert.InDelta(t, 0, act.Distance(Vector3{Z: -1}), 0.0001, "got %s", act)
}

func TestHeading(t *testing.T) {
	for _, h := range []float64{0, 45, 90, 135, 179, -90, -30} {
		v := HeadingVector(h)
		assert.InDelta(t, h, HeadingOf(v), 0.0001)

		// Rotating +X by the heading must agree with the heading vector.
		r := Pose{Heading: h}.Rotate(Vector3{X: 1})
		assert.InDelta(t, 0, r.Distance(v), 0.0001)
	}
}

func TestLookRotation(t *testing.T) {
	dirs := []Vector3{
		{X: 1},
		{X: 0, Y: -1, Z: 0},
		{X: 1, Y: 1, Z: 1},
		{X: -3, Y: 0.5, Z: 2},
	}

	for i, d := range dirs {
		m := MakeMatrix44(ZeroVector3, LookRotation(d))
		act := Vector3{X: 1}.MultiplyByMatrix44(m)
		assert.InDelta(t, 0, act.Distance(d.Unit()), 0.0001, "example %d: got %s", i+1, act)
	}
}
