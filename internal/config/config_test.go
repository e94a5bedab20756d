package config

import (
	"math"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/san-kum/physbox/internal/physics"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Lesson != physics.FreeFall {
		t.Errorf("expected lesson freefall, got %s", cfg.Lesson)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Lesson = physics.WorkEnergy
	cfg.World.Restitution = 0.6
	cfg.Bodies = []BodyConfig{{
		Shape: "ball", X: 10, Y: 20, Radius: 5,
		Overrides: physics.Overrides{Mass: physics.Float(3)},
	}}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Lesson != physics.WorkEnergy {
		t.Errorf("lesson = %s, want workenergy", loaded.Lesson)
	}
	if loaded.World.Restitution != 0.6 {
		t.Errorf("restitution = %f, want 0.6", loaded.World.Restitution)
	}
	if len(loaded.Bodies) != 1 || loaded.Bodies[0].Mass == nil || *loaded.Bodies[0].Mass != 3 {
		t.Errorf("bodies = %+v", loaded.Bodies)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := "lesson: workEnergy\nworld:\n  gravity: 1.62\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Lesson != physics.WorkEnergy || cfg.World.Gravity != 1.62 {
		t.Errorf("lesson %s gravity %f", cfg.Lesson, cfg.World.Gravity)
	}
	if cfg.World.Restitution != 0.8 || cfg.Dt != DefaultDt {
		t.Errorf("defaults lost: restitution %f dt %f", cfg.World.Restitution, cfg.Dt)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown lesson", "lesson: orbits\n"},
		{"negative dt", "dt: -0.1\n"},
		{"restitution above one", "world:\n  restitution: 1.5\n"},
		{"ball without radius", "bodies:\n  - shape: ball\n    x: 1\n"},
		{"unknown shape", "bodies:\n  - shape: triangle\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEnv(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lesson = physics.Forces
	cfg.World.AngleDeg = 90

	env := cfg.Env()
	if env.Lesson != physics.Forces || env.Floor != DefaultFloor || env.Scale != DefaultPixelsPerMeter {
		t.Errorf("env = %+v", env)
	}
	if math.Abs(env.Defaults.Angle-math.Pi/2) > 1e-12 {
		t.Errorf("angle = %f rad, want pi/2", env.Defaults.Angle)
	}
	if env.Thresholds != physics.DefaultThresholds() {
		t.Errorf("thresholds = %+v", env.Thresholds)
	}
}

func TestBodyConfig(t *testing.T) {
	box := BodyConfig{Shape: "box", X: 1, Y: 2, W: 40, H: 20, VX: 3}.Body()
	if !box.IsBox() || box.Vel.X != 3 {
		t.Errorf("box = %+v", box)
	}
	ball := BodyConfig{X: 1, Y: 2, Radius: 5, AX: 7}.Body()
	if !ball.IsCircle() || ball.Accel.X != 7 {
		t.Errorf("ball = %+v", ball)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("workenergy", "superball")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.World.Restitution != 0.95 || cfg.Lesson != physics.WorkEnergy {
		t.Errorf("preset = %+v", cfg)
	}

	cfg.World.Restitution = 0.1
	if GetPreset("workenergy", "superball").World.Restitution != 0.95 {
		t.Error("GetPreset returned a shared config")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("freefall", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "drop") != nil {
		t.Error("expected nil for nonexistent lesson")
	}
}

func TestPresetsAreValid(t *testing.T) {
	for _, l := range physics.Lessons() {
		names := ListPresets(l.String())
		if len(names) == 0 {
			t.Errorf("no presets for %s", l)
		}
		sort.Strings(names)
		for _, name := range names {
			cfg := GetPreset(l.String(), name)
			if cfg.Lesson != l {
				t.Errorf("%s/%s has lesson %s", l, name, cfg.Lesson)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("%s/%s: %v", l, name, err)
			}
		}
	}

	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent lesson")
	}
}

func TestLoadServer(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PHYSBOX_PORT", "9090")
	t.Setenv("PHYSBOX_FPS", "not-a-number")
	t.Setenv("PHYSBOX_LESSON", "friction")
	t.Setenv("PHYSBOX_ORIGINS", "https://a.example, ,https://b.example")

	cfg := LoadServer()
	if cfg.Port != "9090" || cfg.Lesson != "friction" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.FPS != 60 {
		t.Errorf("fps = %d, want fallback 60", cfg.FPS)
	}
	if cfg.Environment != "development" {
		t.Errorf("environment = %s", cfg.Environment)
	}
	if len(cfg.Origins) != 2 || cfg.Origins[1] != "https://b.example" {
		t.Errorf("origins = %v", cfg.Origins)
	}
}
