package herd

import (
	"fmt"

	"github.com/adammck/walker"
	"github.com/adammck/walker/components/body"
	"github.com/adammck/walker/components/driver"
	"github.com/adammck/walker/components/legs"
	"github.com/adammck/walker/components/shoulders"
	"github.com/adammck/walker/components/water"
	"github.com/adammck/walker/config"
	"github.com/adammck/walker/fake/skeleton"
	"github.com/adammck/walker/fake/vehicle"
	fwater "github.com/adammck/walker/fake/water"
	"github.com/adammck/walker/math3d"
	"github.com/adammck/walker/probe"
)

const (

	// Distance from the center of the body to each shoulder, on the ground
	// plane, and how far above the center they are.
	shoulderRadius = 60.0
	shoulderHeight = 30.0
)

// Sim is one simulated walker, and the parts of it which the simulator pokes
// at or reports on.
type Sim struct {
	Walker   *walker.Walker
	Vehicle  *vehicle.FakeVehicle
	Skeleton *skeleton.FakeSkeleton
	Driver   *driver.Driver
	Legs     *legs.Legs
	Water    *water.Check
}

// Ground returns the prober for the configured terrain.
func Ground(cfg config.Sim) probe.Prober {
	if len(cfg.Terrain) == 0 {
		return probe.Plane{}
	}

	return probe.NewProfile(cfg.Terrain)
}

// Spawn creates a simulated walker at start, with every component attached in
// tick order, driving the configured route. It isn't booted.
func Spawn(cfg config.Sim, ground probe.Prober, start math3d.Vector3) (*Sim, error) {
	v := vehicle.New(cfg, ground, start)
	w := walker.New(v)

	skel := skeleton.New(v)
	for _, l := range cfg.Walker.Legs {
		off := math3d.HeadingVector(l.Heading).MultiplyByScalar(shoulderRadius)
		off.Y = shoulderHeight
		skel.Mount(l.ShoulderBone, off)
	}

	events := walker.LogEvents{W: w}

	l, err := legs.New(w, cfg.Walker, skel, skel, ground, events)
	if err != nil {
		return nil, fmt.Errorf("spawning walker: %w", err)
	}

	b := body.New(v, cfg.Walker)
	l.SetOrienter(b)

	s := &Sim{
		Walker:   w,
		Vehicle:  v,
		Skeleton: skel,
		Driver:   driver.New(v, cfg.Route, cfg.Speed),
		Legs:     l,
		Water:    water.New(cfg.Walker, skel, fwater.New(cfg.WaterLevel), events),
	}

	w.Add(s.Driver)
	w.Add(v)
	w.Add(b)
	w.Add(l)
	w.Add(shoulders.New(cfg.Walker, l, skel, skel))
	w.Add(s.Water)

	return s, nil
}

// Start returns the starting position of the i'th walker of a herd.
func Start(cfg config.Sim, i int) math3d.Vector3 {
	return math3d.Vector3{Z: float64(i) * cfg.Spacing}
}
