package config

import "github.com/san-kum/physbox/internal/physics"

// Presets are keyed by lesson name, then preset name.
var Presets = map[string]map[string]*Config{
	"freefall": {
		"drop": preset(physics.FreeFall, func(c *Config) {}),
		"moon": preset(physics.FreeFall, func(c *Config) {
			c.World.Gravity = 1.62
			c.Duration = 40
		}),
		"stack": preset(physics.FreeFall, func(c *Config) {
			c.Bodies = []BodyConfig{
				{Shape: "ball", X: 200, Y: 580, Radius: 20},
				{Shape: "ball", X: 200, Y: 480, Radius: 20},
			}
		}),
	},
	"kinematics": {
		"cruise": preset(physics.Kinematics, func(c *Config) {
			c.Duration = 5
			c.Spawn.InitialVelocity = 3
		}),
		"accelerate": preset(physics.Kinematics, func(c *Config) {
			c.Duration = 5
			c.Bodies = []BodyConfig{
				{Shape: "ball", X: 100, Y: 300, Radius: 20, AX: 50},
			}
		}),
	},
	"forces": {
		"push": preset(physics.Forces, func(c *Config) {
			c.World.Force = 10
			c.World.Mass = 1
		}),
		"launch": preset(physics.Forces, func(c *Config) {
			c.World.Force = 20
			c.World.AngleDeg = 60
			c.Bodies = []BodyConfig{
				{Shape: "ball", X: 100, Y: 580, Radius: 20},
			}
		}),
		"space": preset(physics.Forces, func(c *Config) {
			c.World.UseGravity = false
			c.World.Force = 2
			c.World.Mass = 4
			c.Duration = 10
		}),
	},
	"friction": {
		"rough": preset(physics.Friction, func(c *Config) {
			c.World.Friction = 0.5
		}),
		"ice": preset(physics.Friction, func(c *Config) {
			c.World.Friction = 0.03
		}),
		"slide": preset(physics.Friction, func(c *Config) {
			c.Spawn.Balls = 0
		}),
	},
	"workenergy": {
		"bounce": preset(physics.WorkEnergy, func(c *Config) {}),
		"superball": preset(physics.WorkEnergy, func(c *Config) {
			c.World.Restitution = 0.95
			c.Spawn.InitialHeight = 8
		}),
		"clay": preset(physics.WorkEnergy, func(c *Config) {
			c.World.Restitution = 0.2
			c.Spawn.InitialHeight = 8
		}),
	},
}

func preset(l physics.Lesson, edit func(*Config)) *Config {
	c := DefaultConfig()
	c.Lesson = l
	edit(c)
	return c
}

func GetPreset(lesson, name string) *Config {
	lessonPresets, ok := Presets[lesson]
	if !ok {
		return nil
	}
	cfg, ok := lessonPresets[name]
	if !ok {
		return nil
	}
	// Callers mutate the result with flag overrides.
	c := *cfg
	c.Bodies = append([]BodyConfig(nil), cfg.Bodies...)
	return &c
}

func ListPresets(lesson string) []string {
	lessonPresets, ok := Presets[lesson]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(lessonPresets))
	for name := range lessonPresets {
		names = append(names, name)
	}
	return names
}
