package probe

import (
	"math"

	"github.com/adammck/walker/math3d"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "probe",
})

// Hit is the result of a single ray query against the world. If OK is false,
// nothing was hit and the other fields are meaningless.
type Hit struct {
	OK       bool
	Location math3d.Vector3
	Normal   math3d.Vector3
}

// Prober finds the first blocking world geometry along the ray from origin to
// toward. It must not have side effects, and must return the same result for
// the same world state. Missing is not an error; callers fall back.
type Prober interface {
	Probe(origin, toward math3d.Vector3) Hit
}

// Func adapts a function into a Prober.
type Func func(origin, toward math3d.Vector3) Hit

func (f Func) Probe(origin, toward math3d.Vector3) Hit {
	return f(origin, toward)
}

// Plane is an infinite horizontal ground plane at a fixed height.
type Plane struct {
	Height float64
}

func (p Plane) Probe(origin, toward math3d.Vector3) Hit {
	dy := toward.Y - origin.Y
	if dy == 0 {
		return Hit{}
	}

	t := (p.Height - origin.Y) / dy
	if t < 0 || t > 1 || math.IsNaN(t) {
		return Hit{}
	}

	return Hit{
		OK:       true,
		Location: origin.Lerp(toward, t),
		Normal:   math3d.Up,
	}
}

// Miss is a Prober which never hits anything.
var Miss = Func(func(origin, toward math3d.Vector3) Hit {
	return Hit{}
})
