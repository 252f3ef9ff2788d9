package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid walker config")

// Leg is a physical leg of the walker.
type Leg struct {
	Name         string `yaml:"name"`
	FootBone     string `yaml:"foot_bone"`
	ShoulderBone string `yaml:"shoulder_bone"`

	// The heading (in degrees, relative to the body) which the leg points out
	// of the shoulder when the body is at rest.
	Heading float64 `yaml:"heading"`
}

// Slot is an abstract position around the body which some leg must fill.
// Which leg fills it changes as the walker turns; the slots never do.
type Slot struct {
	Name string `yaml:"name"`

	// The heading (in degrees, relative to the legs' facing) of the foot.
	Heading float64 `yaml:"heading"`

	// How far (in seconds of travel) to lead the foot ahead of the body while
	// moving, so feet appear to reach forward and pull the walker.
	Lead float64 `yaml:"lead"`
}

// Walker holds the tuning of a walker body. It's set once at construction and
// never mutated at runtime.
type Walker struct {
	Legs  []Leg  `yaml:"legs"`
	Slots []Slot `yaml:"slots"`

	// The maximum distance between the body and a planted foot before the leg
	// is considered over-stretched.
	MaxReach float64 `yaml:"max_reach"`

	// Fraction of MaxReach to aim for when placing feet. Keeps the stance
	// narrower than the legs can physically reach.
	SpreadFactor float64 `yaml:"spread_factor"`

	// Duration of each stage of a step. The settle stage is an upper bound;
	// it ends early once the foot lands.
	LiftTime    time.Duration `yaml:"lift_time"`
	DescendTime time.Duration `yaml:"descend_time"`
	SettleTime  time.Duration `yaml:"settle_time"`

	// Height above the current foot position at which a step arc starts, and
	// above the desired foot position at which it ends.
	StartLift float64 `yaml:"start_lift"`
	EndLift   float64 `yaml:"end_lift"`

	// Minimum distance (on the ground plane) which the desired foot position
	// should be from its actual position before a step is taken to correct it.
	MinStepDistance float64 `yaml:"min_step_distance"`

	// Squared distance between the foot and its constraint below which a
	// settling foot is considered to have landed.
	LandedDistanceSq float64 `yaml:"landed_distance_sq"`

	// How far to sink feet into the surface, so they don't look like they're
	// balancing on it.
	FootEmbed float64 `yaml:"foot_embed"`

	// Ground probes start this far above the trace seed (to climb steep hills)
	// and extend this far below the start.
	TraceRaise float64 `yaml:"trace_raise"`
	TraceDepth float64 `yaml:"trace_depth"`

	// Trace seeds which moved less than this since the last tick aren't
	// probed again.
	SeedEpsilon float64 `yaml:"seed_epsilon"`

	// Ground plane speed above which the walker is considered to be moving.
	MovingSpeed float64 `yaml:"moving_speed"`

	// Footholds beyond reach are accepted if the body is expected to be in
	// reach of them this far in the future.
	Anticipation time.Duration `yaml:"anticipation"`

	// Distance from the shoulder to the aim target.
	AimDistance float64 `yaml:"aim_distance"`

	// Rate at which the body yaw catches up with the direction of travel.
	BodyYawSpeed float64 `yaml:"body_yaw_speed"`

	// How often to check whether feet are in water. Zero means every tick.
	WaterCheckInterval time.Duration `yaml:"water_check_interval"`
}

// Default returns the reference three-legged walker: one leg at the rear, two
// at the front.
func Default() Walker {
	return Walker{
		Legs: []Leg{
			{Name: "rear", FootBone: "Foot0", ShoulderBone: "Shoulder0", Heading: 180},
			{Name: "left", FootBone: "Foot1", ShoulderBone: "Shoulder1", Heading: 60},
			{Name: "right", FootBone: "Foot2", ShoulderBone: "Shoulder2", Heading: -60},
		},
		Slots: []Slot{
			{Name: "rear", Heading: 180, Lead: 0.5},
			{Name: "front-left", Heading: 60, Lead: 0.65},
			{Name: "front-right", Heading: -60, Lead: 0.65},
		},
		MaxReach:           600,
		SpreadFactor:       0.7,
		LiftTime:           350 * time.Millisecond,
		DescendTime:        150 * time.Millisecond,
		SettleTime:         500 * time.Millisecond,
		StartLift:          80,
		EndLift:            60,
		MinStepDistance:    60,
		LandedDistanceSq:   64,
		FootEmbed:          5,
		TraceRaise:         700,
		TraceDepth:         2000,
		SeedEpsilon:        1,
		MovingSpeed:        100,
		Anticipation:       500 * time.Millisecond,
		AimDistance:        256,
		BodyYawSpeed:       4,
		WaterCheckInterval: 100 * time.Millisecond,
	}
}

// Load loads walker config from a YAML file, on top of the defaults. If the
// file doesn't exist, returns the defaults. The result is validated.
func Load(path string) (Walker, error) {
	cfg := Default()

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

// NumLegs returns the number of physical legs, which is also the number of
// slots in a valid config.
func (c Walker) NumLegs() int {
	return len(c.Legs)
}

// Validate returns an error wrapping ErrInvalid if the config can't describe a
// working walker.
func (c Walker) Validate() error {
	if len(c.Legs) == 0 {
		return fmt.Errorf("%w: no legs", ErrInvalid)
	}

	if len(c.Slots) != len(c.Legs) {
		return fmt.Errorf("%w: %d slots for %d legs", ErrInvalid, len(c.Slots), len(c.Legs))
	}

	bones := map[string]bool{}
	for i, leg := range c.Legs {
		for _, b := range []string{leg.FootBone, leg.ShoulderBone} {
			if b == "" {
				return fmt.Errorf("%w: leg %d (%s) is missing a bone name", ErrInvalid, i, leg.Name)
			}
			if bones[b] {
				return fmt.Errorf("%w: bone %q is used twice", ErrInvalid, b)
			}
			bones[b] = true
		}
	}

	if c.MaxReach <= 0 {
		return fmt.Errorf("%w: max_reach must be positive, got %v", ErrInvalid, c.MaxReach)
	}

	if c.SpreadFactor <= 0 || c.SpreadFactor > 1 {
		return fmt.Errorf("%w: spread_factor must be in (0, 1], got %v", ErrInvalid, c.SpreadFactor)
	}

	if c.LiftTime <= 0 || c.DescendTime <= 0 || c.SettleTime <= 0 {
		return fmt.Errorf("%w: stage times must be positive, got %v/%v/%v", ErrInvalid, c.LiftTime, c.DescendTime, c.SettleTime)
	}

	if c.LandedDistanceSq <= 0 {
		return fmt.Errorf("%w: landed_distance_sq must be positive, got %v", ErrInvalid, c.LandedDistanceSq)
	}

	if c.MinStepDistance < 0 || c.SeedEpsilon < 0 || c.FootEmbed < 0 || c.MovingSpeed < 0 {
		return fmt.Errorf("%w: distances and speeds can't be negative", ErrInvalid)
	}

	if c.TraceDepth <= 0 || c.TraceRaise < 0 {
		return fmt.Errorf("%w: trace_depth must be positive and trace_raise non-negative", ErrInvalid)
	}

	return nil
}
