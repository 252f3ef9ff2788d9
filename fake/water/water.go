package water

import (
	"github.com/adammck/walker/math3d"
)

// FakeWater is a flat water surface covering the whole world.
type FakeWater struct {
	level float64
}

func New(level float64) *FakeWater {
	return &FakeWater{level}
}

func (w FakeWater) InWater(v math3d.Vector3) bool {
	return v.Y < w.level
}
