package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Point is a position on the ground plane. The driver holds crouch while
// heading toward a point with Duck set.
type Point struct {
	X    float64 `yaml:"x"`
	Z    float64 `yaml:"z"`
	Duck bool    `yaml:"duck"`
}

// Segment is one edge of the terrain profile, in the X/Y plane. The profile is
// extruded along Z to make the ground.
type Segment struct {
	X1 float64 `yaml:"x1"`
	Y1 float64 `yaml:"y1"`
	X2 float64 `yaml:"x2"`
	Y2 float64 `yaml:"y2"`
}

// Suspension is the tuning of the vehicle's suspension in one stance.
type Suspension struct {
	Travel      float64 `yaml:"travel"`
	HoverAdjust float64 `yaml:"hover_adjust"`
}

// Sim holds the config of the walker simulator. It embeds the walker tuning,
// which every simulated walker shares.
type Sim struct {
	Walker Walker `yaml:"walker"`

	Walkers  int `yaml:"walkers"`
	TickRate int `yaml:"tick_rate"`

	// Distance (along Z) between the starting positions of each walker.
	Spacing float64 `yaml:"spacing"`

	// Ground plane speed which the driver aims for.
	Speed float64 `yaml:"speed"`

	// Waypoints which the driver visits in order, relative to each walker's
	// starting position. The walker parks at the last one.
	Route []Point `yaml:"route"`

	// Terrain profile. If empty, the ground is flat at height zero.
	Terrain []Segment `yaml:"terrain"`

	// Height of the water surface. Feet below it are in water.
	WaterLevel float64 `yaml:"water_level"`

	// Per-stance suspension, keyed by stance name.
	Suspension map[string]Suspension `yaml:"suspension"`

	// Rate (units per second) at which suspension travel moves toward the
	// current stance's travel.
	SuspensionSpeed float64 `yaml:"suspension_speed"`

	WheelRadius float64 `yaml:"wheel_radius"`
}

// DefaultSim returns a simulator config with one walker crossing a low step
// and a shallow pool.
func DefaultSim() Sim {
	return Sim{
		Walker:   Default(),
		Walkers:  1,
		TickRate: 60,
		Spacing:  2000,
		Speed:    300,
		Route: []Point{
			{X: 1500, Z: 0},
			{X: 3000, Z: 800, Duck: true},
			{X: 3000, Z: 2000},
		},
		Terrain: []Segment{
			{X1: -10000, Y1: 0, X2: 1000, Y2: 0},
			{X1: 1000, Y1: 0, X2: 1200, Y2: 120},
			{X1: 1200, Y1: 120, X2: 2500, Y2: 120},
			{X1: 2500, Y1: 120, X2: 2600, Y2: -40},
			{X1: 2600, Y1: -40, X2: 10000, Y2: -40},
		},
		WaterLevel: -20,
		Suspension: map[string]Suspension{
			"standing": {Travel: 160, HoverAdjust: 20},
			"crouched": {Travel: 60, HoverAdjust: 10},
			"parked":   {Travel: 20, HoverAdjust: 0},
		},
		SuspensionSpeed: 200,
		WheelRadius:     20,
	}
}

// TickInterval returns the duration of one simulation tick.
func (s Sim) TickInterval() time.Duration {
	return time.Second / time.Duration(s.TickRate)
}

// LoadSim loads simulator config from a YAML file, on top of the defaults. If
// the file doesn't exist, returns the defaults.
func LoadSim(path string) (Sim, error) {
	cfg := DefaultSim()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

func (s Sim) Validate() error {
	if err := s.Walker.Validate(); err != nil {
		return err
	}

	if s.Walkers < 1 {
		return fmt.Errorf("%w: need at least one walker, got %d", ErrInvalid, s.Walkers)
	}

	if s.TickRate < 1 {
		return fmt.Errorf("%w: tick_rate must be positive, got %d", ErrInvalid, s.TickRate)
	}

	if s.Speed < 0 || s.SuspensionSpeed < 0 || s.WheelRadius < 0 {
		return fmt.Errorf("%w: speeds and wheel_radius can't be negative", ErrInvalid)
	}

	for _, name := range []string{"standing", "crouched", "parked"} {
		if _, ok := s.Suspension[name]; !ok {
			return fmt.Errorf("%w: missing suspension for stance %q", ErrInvalid, name)
		}
	}

	return nil
}
