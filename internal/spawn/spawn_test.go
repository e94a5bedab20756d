package spawn

import (
	"math"
	"testing"

	"github.com/san-kum/physbox/internal/physics"
)

func newEnv(l physics.Lesson) *physics.Env {
	env := physics.DefaultEnv()
	env.Lesson = l
	env.Scale = 50
	return &env
}

func TestBallDefaults(t *testing.T) {
	tests := []struct {
		lesson physics.Lesson
		vx     float64
	}{
		{physics.FreeFall, 0},
		{physics.Kinematics, 150},
		{physics.Forces, 0},
		{physics.Friction, 0},
	}

	for _, tt := range tests {
		t.Run(tt.lesson.String(), func(t *testing.T) {
			b := New(newEnv(tt.lesson)).Ball()
			if b.Pos.X != BallX || b.Pos.Y != BallY || b.Radius != BallRadius {
				t.Errorf("ball at (%f, %f) r=%f", b.Pos.X, b.Pos.Y, b.Radius)
			}
			if b.Vel.X != tt.vx || b.Vel.Y != 0 {
				t.Errorf("velocity = %v, want (%f, 0)", b.Vel, tt.vx)
			}
		})
	}
}

func TestSuccessiveBallsDoNotOverlap(t *testing.T) {
	s := New(newEnv(physics.FreeFall))
	bodies := s.Spawn(4)
	for i := 1; i < len(bodies); i++ {
		if d := bodies[i].Pos.Distance(bodies[i-1].Pos); d <= 2*BallRadius {
			t.Errorf("balls %d and %d overlap at distance %f", i-1, i, d)
		}
	}

	s.Reset()
	if b := s.Ball(); b.Pos.X != BallX {
		t.Errorf("x after reset = %f, want %d", b.Pos.X, BallX)
	}
}

func TestEnergyBallHeight(t *testing.T) {
	env := newEnv(physics.WorkEnergy)
	s := New(env)
	s.InitialHeight = 3

	b := s.Ball()
	if got := env.ToMeters(env.Floor - b.Bottom()); math.Abs(got-3) > 1e-9 {
		t.Errorf("height = %f m, want 3", got)
	}
	if b.Vel != (physics.NewBall(0, 0, 1).Vel) {
		t.Errorf("energy ball not at rest: %v", b.Vel)
	}
}

func TestSlidingBox(t *testing.T) {
	s := New(newEnv(physics.Friction))
	bodies := s.Spawn(1)
	if len(bodies) != 2 {
		t.Fatalf("expected box plus ball, got %d bodies", len(bodies))
	}
	box := bodies[0]
	if !box.IsBox() || box.W != BoxW || box.H != BoxH {
		t.Errorf("first body is not the %dx%d box", BoxW, BoxH)
	}
	if box.Vel.X != 100 {
		t.Errorf("box vx = %f, want 100 world units/s", box.Vel.X)
	}
}

func TestForceBallOverrides(t *testing.T) {
	env := newEnv(physics.Forces)
	b := New(env).ForceBall(20, 4, math.Pi/2)

	p := b.Effective(env.Defaults)
	if p.Force != 20 || p.Mass != 4 || p.Angle != math.Pi/2 {
		t.Errorf("params = %+v", p)
	}

	physics.Integrate(b, env, 0.1)
	// 5 m/s² up against 9.8 down, times 50 units/m.
	if want := (9.8 - 5) * 50 * 0.1; math.Abs(b.Vel.Y-want) > 1e-9 {
		t.Errorf("vy = %f, want %f", b.Vel.Y, want)
	}
}

func TestSpawnerOverridesAreCopied(t *testing.T) {
	s := New(newEnv(physics.FreeFall))
	s.Overrides.Gravity = physics.Float(1.62)
	a := s.Ball()
	s.Overrides.Gravity = physics.Float(24.8)
	b := s.Ball()
	if *a.Overrides.Gravity != 1.62 || *b.Overrides.Gravity != 24.8 {
		t.Errorf("gravity overrides = %f, %f", *a.Overrides.Gravity, *b.Overrides.Gravity)
	}
}
