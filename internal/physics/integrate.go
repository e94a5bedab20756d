package physics

import "math"

// Integrate runs the motion stage for one body: the lesson's force model
// updates the velocity, then the position takes an Euler step with the new
// velocity, then the floor is enforced.
func Integrate(b *Body, env *Env, dt float64) {
	if dt <= 0 || !finite(dt) {
		return
	}
	p := b.Effective(env.Defaults)
	m := env.Lesson.model()

	b.Applied = m.apply(b, p, env, dt)

	b.Pos.X += b.Vel.X * dt
	b.Pos.Y += b.Vel.Y * dt

	if m.hasFloor(p) {
		collideFloor(b, p, env)
	}
}

// collideFloor clamps b onto the floor and reflects its vertical velocity
// scaled by restitution. A rebound slower than the settle speed is zeroed,
// and a circle is marked resting on the ground.
func collideFloor(b *Body, p Params, env *Env) {
	half := b.HalfHeight()
	if b.Pos.Y+half <= env.Floor {
		return
	}
	b.Pos.Y = env.Floor - half
	b.Vel.Y = -b.Vel.Y * p.Restitution
	if math.Abs(b.Vel.Y) < env.settleSpeed() {
		b.Vel.Y = 0
		if b.IsCircle() {
			b.Rest = RestOnGround()
		}
	}
}

// MotionStage integrates every body. It must finish for the whole set
// before CollisionStage runs.
func MotionStage(bodies []*Body, env *Env, dt float64) {
	for _, b := range bodies {
		Integrate(b, env, dt)
	}
}
