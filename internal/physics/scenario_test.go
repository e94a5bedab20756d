package physics

import (
	"math"
	"testing"
)

func TestBouncingBallScenario(t *testing.T) {
	e := env(FreeFall)
	b := NewBall(100, 0, 20)
	bodies := []*Body{b}
	dt := 1.0 / 60
	rest := e.Floor - b.Radius

	firstContact := -1
	var peaks []float64
	apex := math.Inf(1)
	rising := false

	for i := 0; i < 8000; i++ {
		Step(bodies, e, dt, fixedRand(0))

		if firstContact < 0 && b.Pos.Y == rest {
			firstContact = i
		}
		if firstContact < 0 {
			continue
		}
		switch {
		case b.Vel.Y < 0:
			rising = true
			apex = math.Min(apex, b.Pos.Y)
		case rising:
			peaks = append(peaks, rest-apex)
			rising = false
			apex = math.Inf(1)
		}
	}

	if firstContact < 640 || firstContact > 665 {
		t.Errorf("first contact at tick %d, want near 652 (t=%.2fs)", firstContact, float64(firstContact)*dt)
	}
	if len(peaks) < 10 {
		t.Fatalf("only %d bounces recorded", len(peaks))
	}
	for n, p := range peaks {
		if n > 0 && p >= peaks[n-1] {
			t.Errorf("bounce %d peak %f not below previous %f", n+1, p, peaks[n-1])
		}
		if n < 10 {
			bound := math.Pow(0.64, float64(n+1))*rest + 0.5
			if p > bound {
				t.Errorf("bounce %d peak %f exceeds %f", n+1, p, bound)
			}
		}
	}
	if b.Rest.Kind() != RestingOnGround || b.Pos.Y != rest || b.Vel.Y != 0 {
		t.Errorf("ball did not settle: y=%f vy=%f rest=%q", b.Pos.Y, b.Vel.Y, b.Rest)
	}
}

func TestCollisionAfterMotionForAllBodies(t *testing.T) {
	// Side by side, 1 unit apart.
	e := env(FreeFall)
	a := NewBall(100, 0, 20)
	b := NewBall(141, 0, 20)
	bodies := []*Body{a, b}
	for i := 0; i < 300; i++ {
		Step(bodies, e, 1.0/60, fixedRand(0))
		if a.Pos.Y != b.Pos.Y || a.Pos.X != 100 || b.Pos.X != 141 {
			t.Fatalf("tick %d: bodies diverged: %v %v", i, a.Pos, b.Pos)
		}
	}
}

// pixelEnv is the shipped configuration: 50 world units per meter.
func pixelEnv(lesson Lesson) *Env {
	e := env(lesson)
	e.Scale = 50
	return e
}

func TestBouncingBallSettlesAtPixelScale(t *testing.T) {
	e := pixelEnv(FreeFall)
	b := NewBall(100, 0, 20)
	bodies := []*Body{b}

	settled := -1
	for i := 0; i < 1800; i++ {
		Step(bodies, e, 1.0/60, fixedRand(0))
		switch {
		case settled < 0 && b.Rest.Kind() == RestingOnGround:
			settled = i
		case settled >= 0 && b.Rest.Kind() != RestingOnGround:
			t.Fatalf("tick %d: ground rest lost after settling at %d", i, settled)
		}
	}

	if settled < 0 || settled > 1200 {
		t.Fatalf("ball settled at tick %d, want within 20s: y=%f vy=%f", settled, b.Pos.Y, b.Vel.Y)
	}
	if b.Pos.Y != 580 || b.Vel.Y != 0 {
		t.Errorf("settled ball at y=%f vy=%f, want 580 and 0", b.Pos.Y, b.Vel.Y)
	}
}

func TestDroppedBodySettlesOnStackAtPixelScale(t *testing.T) {
	e := pixelEnv(FreeFall)
	lower := NewBall(100, 580, 20)
	lower.Rest = RestOnGround()
	upper := NewBall(100, 400, 20)
	bodies := []*Body{lower, upper}

	rested := -1
	for i := 0; i < 1800; i++ {
		Step(bodies, e, 1.0/60, fixedRand(0))
		switch {
		case rested < 0 && upper.Rest.Support() == lower:
			rested = i
		case rested >= 0 && upper.Rest.Support() != lower:
			t.Fatalf("tick %d: upper lost its support after resting at %d", i, rested)
		}
	}

	if rested < 0 {
		t.Fatalf("upper never rested: y=%f vy=%f", upper.Pos.Y, upper.Vel.Y)
	}
	if upper.Vel.Y != 0 || math.Abs(upper.Pos.Y-540) > 0.5 {
		t.Errorf("upper at y=%f vy=%f, want ~540 and 0", upper.Pos.Y, upper.Vel.Y)
	}
	if math.Abs(lower.Pos.Y-580) > 0.5 {
		t.Errorf("lower at y=%f, want ~580", lower.Pos.Y)
	}
}

func TestBoxOnFloorFollowsForces(t *testing.T) {
	e := pixelEnv(Forces)
	e.Defaults.Angle = math.Pi / 2
	e.Defaults.Force = 5 // 5 m/s² up against 9.8 down
	box := NewBox(100, 590, 40, 20)
	bodies := []*Body{box}

	for i := 0; i < 600; i++ {
		Step(bodies, e, 1.0/60, fixedRand(0))
		if box.Rest.IsResting() {
			t.Fatalf("tick %d: box marked resting on %q", i, box.Rest)
		}
	}
	if box.Bottom() != e.Floor || box.Vel.Y != 0 {
		t.Fatalf("box left the floor under a net downward force: y=%f vy=%f", box.Pos.Y, box.Vel.Y)
	}

	// 15 m/s² up beats gravity, so the box must lift off.
	e.Defaults.Force = 15
	for i := 0; i < 60; i++ {
		Step(bodies, e, 1.0/60, fixedRand(0))
	}
	if box.Pos.Y >= 590 || box.Vel.Y >= 0 {
		t.Errorf("box did not lift off: y=%f vy=%f", box.Pos.Y, box.Vel.Y)
	}
}
