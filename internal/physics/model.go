package physics

import (
	"math"

	"github.com/setanarut/vec"
)

// forceModel updates a body's velocity for one lesson and reports the
// acceleration it applied, in world units.
type forceModel interface {
	apply(b *Body, p Params, env *Env, dt float64) vec.Vec2
	// hasFloor reports whether the floor constrains bodies under p.
	hasFloor(p Params) bool
}

var models = [numLessons]forceModel{
	FreeFall:   freeFall{},
	Kinematics: kinematics{},
	Forces:     forces{},
	Friction:   friction{},
	WorkEnergy: workEnergy{},
}

func (l Lesson) model() forceModel {
	if !l.Valid() {
		return models[FreeFall]
	}
	return models[l]
}

// HasFloor reports whether the floor constrains a body with params p under
// this lesson.
func (l Lesson) HasFloor(p Params) bool { return l.model().hasFloor(p) }

// gravity returns the downward acceleration a body receives this tick.
func gravity(b *Body, p Params, env *Env) float64 {
	if b.Rest.active() {
		return 0
	}
	return p.Gravity * env.scale()
}

type freeFall struct{}

func (freeFall) apply(b *Body, p Params, env *Env, dt float64) vec.Vec2 {
	b.Vel.X = 0
	g := gravity(b, p, env)
	b.Vel.Y += g * dt
	return vec.Vec2{Y: g}
}

func (freeFall) hasFloor(Params) bool { return true }

type kinematics struct{}

func (kinematics) apply(b *Body, _ Params, _ *Env, dt float64) vec.Vec2 {
	b.Vel = b.Vel.Add(b.Accel.Scale(dt))
	return b.Accel
}

func (kinematics) hasFloor(Params) bool { return false }

type forces struct{}

func (forces) apply(b *Body, p Params, env *Env, dt float64) vec.Vec2 {
	a := AccelFromForce(p.Force, p.Mass, p.Angle).Scale(env.scale())
	if p.UseGravity {
		a.Y += gravity(b, p, env)
	}
	b.Vel = b.Vel.Add(a.Scale(dt))
	return a
}

func (forces) hasFloor(p Params) bool { return p.UseGravity }

type friction struct{}

func (friction) apply(b *Body, p Params, env *Env, dt float64) vec.Vec2 {
	b.OnGround = math.Abs(b.Bottom()-env.Floor) <= env.Thresholds.ContactSlop

	var ax float64
	if b.OnGround && p.Friction > 0 {
		// μ·m·g / m: mass cancels out of kinetic friction.
		decel := p.Friction * p.Gravity * env.scale()
		switch {
		case math.Abs(b.Vel.X) < decel*dt:
			if dt > 0 {
				ax = -b.Vel.X / dt
			}
			b.Vel.X = 0
		default:
			ax = -math.Copysign(decel, b.Vel.X)
			b.Vel.X += ax * dt
		}
	}

	g := gravity(b, p, env)
	b.Vel.Y += g * dt
	return vec.Vec2{X: ax, Y: g}
}

func (friction) hasFloor(Params) bool { return true }

type workEnergy struct{}

func (workEnergy) apply(b *Body, p Params, env *Env, dt float64) vec.Vec2 {
	g := gravity(b, p, env)
	b.Vel.Y += g * dt
	return vec.Vec2{Y: g}
}

func (workEnergy) hasFloor(Params) bool { return true }
