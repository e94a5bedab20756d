package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/physbox/internal/physics"
)

const (
	DefaultDt             = 1.0 / 60
	DefaultDuration       = 20.0
	DefaultMaxStep        = 0.05
	DefaultFloor          = 600.0
	DefaultWidth          = 800.0
	DefaultPixelsPerMeter = 50.0
	DefaultBalls          = 1
	DefaultHistory        = 600
)

type Config struct {
	Lesson   physics.Lesson `yaml:"lesson"`
	Dt       float64        `yaml:"dt"`
	Duration float64        `yaml:"duration"`
	MaxStep  float64        `yaml:"max_step"`
	Seed     int64          `yaml:"seed"`
	History  int            `yaml:"history"`
	World    WorldConfig    `yaml:"world"`
	Spawn    SpawnConfig    `yaml:"spawn"`
	Bodies   []BodyConfig   `yaml:"bodies,omitempty"`
}

// WorldConfig holds the global defaults. Physical quantities are SI, the
// angle is in degrees, lengths are in world units.
type WorldConfig struct {
	Gravity        float64         `yaml:"gravity"`
	Restitution    float64         `yaml:"restitution"`
	Friction       float64         `yaml:"friction"`
	Mass           float64         `yaml:"mass"`
	Force          float64         `yaml:"force"`
	AngleDeg       float64         `yaml:"angle_deg"`
	UseGravity     bool            `yaml:"use_gravity"`
	Floor          float64         `yaml:"floor"`
	Width          float64         `yaml:"width"`
	PixelsPerMeter float64         `yaml:"pixels_per_meter"`
	Thresholds     ThresholdConfig `yaml:"thresholds"`
}

// ThresholdConfig holds the settling constants: settle_speed in m/s, the
// rest in world units.
type ThresholdConfig struct {
	SettleSpeed float64 `yaml:"settle_speed"`
	ContactSlop float64 `yaml:"contact_slop"`
	StackAlign  float64 `yaml:"stack_align"`
	StackReach  float64 `yaml:"stack_reach"`
}

// SpawnConfig drives the lesson spawner when Bodies is empty.
type SpawnConfig struct {
	Balls           int     `yaml:"balls"`
	InitialVelocity float64 `yaml:"initial_velocity"`
	InitialHeight   float64 `yaml:"initial_height"`
}

// BodyConfig places one body explicitly. Position and velocity are in world
// units with y down; overrides are SI.
type BodyConfig struct {
	Shape  string  `yaml:"shape"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	VX     float64 `yaml:"vx"`
	VY     float64 `yaml:"vy"`
	AX     float64 `yaml:"ax"`
	AY     float64 `yaml:"ay"`
	Radius float64 `yaml:"radius,omitempty"`
	W      float64 `yaml:"w,omitempty"`
	H      float64 `yaml:"h,omitempty"`

	physics.Overrides `yaml:",inline"`
}

func DefaultConfig() *Config {
	p := physics.DefaultParams()
	th := physics.DefaultThresholds()
	return &Config{
		Lesson:   physics.FreeFall,
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		MaxStep:  DefaultMaxStep,
		History:  DefaultHistory,
		World: WorldConfig{
			Gravity:        p.Gravity,
			Restitution:    p.Restitution,
			Friction:       p.Friction,
			Mass:           p.Mass,
			Force:          p.Force,
			UseGravity:     p.UseGravity,
			Floor:          DefaultFloor,
			Width:          DefaultWidth,
			PixelsPerMeter: DefaultPixelsPerMeter,
			Thresholds: ThresholdConfig{
				SettleSpeed: th.SettleSpeed,
				ContactSlop: th.ContactSlop,
				StackAlign:  th.StackAlign,
				StackReach:  th.StackReach,
			},
		},
		Spawn: SpawnConfig{
			Balls:         DefaultBalls,
			InitialHeight: 2,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if !c.Lesson.Valid() {
		return fmt.Errorf("invalid lesson %d", uint8(c.Lesson))
	}
	if !(c.Dt > 0) {
		return fmt.Errorf("dt must be positive, got %v", c.Dt)
	}
	if !(c.Duration > 0) {
		return fmt.Errorf("duration must be positive, got %v", c.Duration)
	}
	if c.MaxStep > 0 && c.Dt > c.MaxStep {
		return fmt.Errorf("dt %v exceeds max_step %v", c.Dt, c.MaxStep)
	}
	if c.World.Restitution < 0 || c.World.Restitution > 1 {
		return fmt.Errorf("restitution must be in [0, 1], got %v", c.World.Restitution)
	}
	if c.World.Friction < 0 {
		return fmt.Errorf("friction must be non-negative, got %v", c.World.Friction)
	}
	for i, b := range c.Bodies {
		switch b.Shape {
		case "", "ball":
			if !(b.Radius > 0) {
				return fmt.Errorf("body %d: ball needs a positive radius", i)
			}
		case "box":
			if !(b.W > 0 && b.H > 0) {
				return fmt.Errorf("body %d: box needs positive w and h", i)
			}
		default:
			return fmt.Errorf("body %d: unknown shape %q", i, b.Shape)
		}
	}
	return nil
}

// Params converts the world section to physics defaults.
func (w WorldConfig) Params() physics.Params {
	return physics.Params{
		Gravity:     w.Gravity,
		Restitution: w.Restitution,
		Friction:    w.Friction,
		Mass:        w.Mass,
		Force:       w.Force,
		Angle:       w.AngleDeg * math.Pi / 180,
		UseGravity:  w.UseGravity,
	}
}

// Env builds the physics environment described by c.
func (c *Config) Env() physics.Env {
	th := physics.DefaultThresholds()
	if t := c.World.Thresholds; t != (ThresholdConfig{}) {
		th = physics.Thresholds{
			SettleSpeed: t.SettleSpeed,
			ContactSlop: t.ContactSlop,
			StackAlign:  t.StackAlign,
			StackReach:  t.StackReach,
		}
	}
	return physics.Env{
		Lesson:     c.Lesson,
		Floor:      c.World.Floor,
		Scale:      c.World.PixelsPerMeter,
		Defaults:   c.World.Params(),
		Thresholds: th,
	}
}

// Body builds the configured body.
func (b BodyConfig) Body() *physics.Body {
	var body *physics.Body
	if b.Shape == "box" {
		body = physics.NewBox(b.X, b.Y, b.W, b.H)
	} else {
		body = physics.NewBall(b.X, b.Y, b.Radius)
	}
	body.Vel.X, body.Vel.Y = b.VX, b.VY
	body.Accel.X, body.Accel.Y = b.AX, b.AY
	body.Overrides = b.Overrides
	return body
}
