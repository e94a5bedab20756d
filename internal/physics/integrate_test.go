package physics

import (
	"math"
	"runtime"
	"testing"

	"github.com/setanarut/vec"
)

const eps = 1e-9

func env(lesson Lesson) *Env {
	e := DefaultEnv()
	e.Lesson = lesson
	return &e
}

func TestFloorBounceScalesByRestitution(t *testing.T) {
	for _, r := range []float64{0, 0.25, 0.5, 0.8, 0.99} {
		e := env(WorkEnergy)
		e.Defaults.Gravity = 0
		e.Defaults.Restitution = r

		b := NewBall(100, 575, 20)
		b.Vel.Y = 600 // crosses the floor in one 1/60 tick
		pre := math.Abs(b.Vel.Y)

		Integrate(b, e, 1.0/60)

		post := math.Abs(b.Vel.Y)
		want := pre * r
		if want < e.settleSpeed() {
			want = 0
		}
		if math.Abs(post-want) > eps {
			t.Errorf("restitution %.2f: |vy| = %f, want %f", r, post, want)
		}
		if post > pre {
			t.Errorf("restitution %.2f: bounce gained speed %f > %f", r, post, pre)
		}
		if b.Vel.Y > 0 {
			t.Errorf("restitution %.2f: still moving into the floor, vy = %f", r, b.Vel.Y)
		}
	}
}

func TestFloorContainment(t *testing.T) {
	lessons := []Lesson{FreeFall, Friction, WorkEnergy, Forces}
	for _, l := range lessons {
		t.Run(l.String(), func(t *testing.T) {
			e := env(l)
			b := NewBall(100, 0, 20)
			b.Vel = vec.Vec2{X: 30, Y: 0}
			for i := 0; i < 2000; i++ {
				Integrate(b, e, 0.05)
				if b.Pos.Y+b.Radius > e.Floor+eps {
					t.Fatalf("tick %d: bottom %f below floor %f", i, b.Pos.Y+b.Radius, e.Floor)
				}
			}
		})
	}
}

func TestBoxUsesHalfHeightOnFloor(t *testing.T) {
	e := env(FreeFall)
	b := NewBox(100, 580, 40, 20)
	b.Vel.Y = 1000
	Integrate(b, e, 0.05)
	if got := b.Bottom(); math.Abs(got-e.Floor) > eps {
		t.Errorf("box bottom = %f, want %f", got, e.Floor)
	}
}

func TestMicroBounceSettlesOnGround(t *testing.T) {
	e := env(FreeFall)
	e.Defaults.Restitution = 0.1
	b := NewBall(100, 579.99, 20)
	b.Vel.Y = 0.05

	Integrate(b, e, 0.1)

	if b.Vel.Y != 0 {
		t.Errorf("vy = %f, want 0 after a sub-threshold bounce", b.Vel.Y)
	}
	if b.Rest.Kind() != RestingOnGround {
		t.Errorf("rest = %q, want ground", b.Rest)
	}

	y := b.Pos.Y
	for i := 0; i < 100; i++ {
		Integrate(b, e, 0.01)
	}
	if b.Vel.Y != 0 || b.Pos.Y != y {
		t.Errorf("resting body moved: y %f -> %f, vy %f", y, b.Pos.Y, b.Vel.Y)
	}
}

func TestKinematicsIgnoresGravity(t *testing.T) {
	for _, g := range []float64{0, 9.8, 1000, -50} {
		e := env(Kinematics)
		e.Defaults.Gravity = g
		b := NewBall(0, 0, 10)
		b.Accel = vec.Vec2{X: 2, Y: -1}
		b.Overrides.Gravity = Float(g * 3)

		dt := 0.01
		for i := 0; i < 100; i++ {
			Integrate(b, e, dt)
		}

		if math.Abs(b.Vel.X-2) > 1e-9 || math.Abs(b.Vel.Y+1) > 1e-9 {
			t.Errorf("gravity %f: velocity = (%f, %f), want (2, -1)", g, b.Vel.X, b.Vel.Y)
		}
		if b.Applied != b.Accel {
			t.Errorf("gravity %f: applied = %v, want %v", g, b.Applied, b.Accel)
		}
	}
}

func TestKinematicsHasNoFloor(t *testing.T) {
	e := env(Kinematics)
	b := NewBall(0, 590, 20)
	b.Vel.Y = 100
	Integrate(b, e, 0.05)
	if b.Pos.Y != 595 {
		t.Errorf("y = %f, want 595", b.Pos.Y)
	}
}

func TestFreeFallZeroesHorizontalVelocity(t *testing.T) {
	e := env(FreeFall)
	b := NewBall(100, 0, 20)
	b.Vel = vec.Vec2{X: 50, Y: 0}
	Integrate(b, e, 0.1)
	if b.Vel.X != 0 || b.Pos.X != 100 {
		t.Errorf("free fall moved horizontally: x=%f vx=%f", b.Pos.X, b.Vel.X)
	}
	if math.Abs(b.Vel.Y-0.98) > eps {
		t.Errorf("vy = %f, want 0.98", b.Vel.Y)
	}
}

func TestEulerPositionUsesUpdatedVelocity(t *testing.T) {
	e := env(WorkEnergy)
	b := NewBall(0, 0, 1)
	Integrate(b, e, 0.5)
	if math.Abs(b.Pos.Y-9.8*0.5*0.5) > eps {
		t.Errorf("y = %f, want %f", b.Pos.Y, 9.8*0.25)
	}
}

func TestForcesLesson(t *testing.T) {
	tests := []struct {
		name       string
		force      float64
		mass       float64
		angle      float64
		useGravity bool
		want       vec.Vec2
	}{
		{"horizontal", 10, 2, 0, false, vec.Vec2{X: 5}},
		{"straight up", 10, 1, math.Pi / 2, false, vec.Vec2{X: 0, Y: -10}},
		{"with gravity", 10, 1, math.Pi / 2, true, vec.Vec2{X: 0, Y: -0.2}},
		{"zero mass", 10, 0, 0, true, vec.Vec2{Y: 9.8}},
		{"nan force", math.NaN(), 1, 0, false, vec.Vec2{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := env(Forces)
			b := NewBall(100, 100, 10)
			b.Overrides = Overrides{
				Force:      Float(tt.force),
				Mass:       Float(tt.mass),
				Angle:      Float(tt.angle),
				UseGravity: Bool(tt.useGravity),
			}
			Integrate(b, e, 1)
			if math.Abs(b.Applied.X-tt.want.X) > 1e-9 || math.Abs(b.Applied.Y-tt.want.Y) > 1e-9 {
				t.Errorf("applied = %v, want %v", b.Applied, tt.want)
			}
			if math.IsNaN(b.Pos.X) || math.IsNaN(b.Pos.Y) {
				t.Errorf("position became NaN")
			}
		})
	}
}

func TestForcesWithoutGravityIgnoresFloor(t *testing.T) {
	e := env(Forces)
	e.Defaults.UseGravity = false
	e.Defaults.Force = 0
	b := NewBall(0, 590, 20)
	b.Vel.Y = 100
	Integrate(b, e, 0.1)
	if b.Pos.Y != 600 {
		t.Errorf("y = %f, want 600 (no floor without gravity)", b.Pos.Y)
	}
}

func TestFrictionDecaysOnGround(t *testing.T) {
	e := env(Friction)
	e.Defaults.Friction = 0.5
	b := NewBall(0, 580, 20)
	b.Vel.X = 10
	b.Rest = RestOnGround()

	dt := 0.1
	Integrate(b, e, dt)

	if !b.OnGround {
		t.Fatal("expected body on ground")
	}
	want := 10 - 0.5*9.8*dt
	if math.Abs(b.Vel.X-want) > eps {
		t.Errorf("vx = %f, want %f", b.Vel.X, want)
	}

	for i := 0; i < 100; i++ {
		Integrate(b, e, dt)
	}
	if b.Vel.X != 0 {
		t.Errorf("vx = %f, want exactly 0 once friction stops the body", b.Vel.X)
	}
}

func TestFrictionSnapsNegativeVelocity(t *testing.T) {
	e := env(Friction)
	b := NewBall(0, 580, 20)
	b.Vel.X = -0.1
	b.Rest = RestOnGround()
	Integrate(b, e, 0.1)
	if b.Vel.X != 0 {
		t.Errorf("vx = %f, want 0 without sign flip", b.Vel.X)
	}
}

func TestFrictionNeedsGroundContact(t *testing.T) {
	e := env(Friction)
	b := NewBall(0, 100, 20)
	b.Vel.X = 10
	Integrate(b, e, 0.1)
	if b.OnGround {
		t.Error("airborne body flagged on ground")
	}
	if b.Vel.X != 10 {
		t.Errorf("vx = %f, want 10 while airborne", b.Vel.X)
	}
}

func TestRestingBodySkipsGravity(t *testing.T) {
	lower := NewBall(100, 580, 20)
	upper := NewBall(100, 540, 20)
	upper.Rest = RestOn(lower)

	e := env(WorkEnergy)
	Integrate(upper, e, 0.1)
	if upper.Vel.Y != 0 {
		t.Errorf("resting body accelerated: vy = %f", upper.Vel.Y)
	}
	runtime.KeepAlive(lower)
}

func TestIntegrateIgnoresBadTimestep(t *testing.T) {
	e := env(FreeFall)
	for _, dt := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		b := NewBall(10, 10, 5)
		Integrate(b, e, dt)
		if b.Pos.Y != 10 || b.Vel.Y != 0 {
			t.Errorf("dt %v moved the body", dt)
		}
	}
}

func TestPerBodyOverrides(t *testing.T) {
	e := env(WorkEnergy)
	moon := NewBall(0, 0, 5)
	moon.Overrides.Gravity = Float(1.62)
	earth := NewBall(50, 0, 5)

	MotionStage([]*Body{moon, earth}, e, 1)

	if math.Abs(moon.Vel.Y-1.62) > eps {
		t.Errorf("moon vy = %f, want 1.62", moon.Vel.Y)
	}
	if math.Abs(earth.Vel.Y-9.8) > eps {
		t.Errorf("earth vy = %f, want 9.8", earth.Vel.Y)
	}
}

func TestScaleConvertsGravity(t *testing.T) {
	e := env(WorkEnergy)
	e.Scale = 50
	b := NewBall(0, 0, 5)
	Integrate(b, e, 0.1)
	if math.Abs(b.Vel.Y-49) > 1e-9 {
		t.Errorf("vy = %f, want 49 world units/s", b.Vel.Y)
	}
}
