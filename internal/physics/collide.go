package physics

import (
	"math"

	"github.com/setanarut/vec"
)

// RandSource supplies the tie-break angle for coincident centers.
// *math/rand.Rand satisfies it.
type RandSource interface {
	Float64() float64
}

// ResolveCollisions runs the collision stage for b against every other
// circle in all. Boxes are ignored on both sides. It must only be called
// once every body has completed the motion stage for the tick.
func ResolveCollisions(b *Body, all []*Body, env *Env, rnd RandSource) {
	if !b.IsCircle() {
		return
	}
	maintainRest(b, env)
	for _, other := range all {
		if other == b || !other.IsCircle() {
			continue
		}
		resolvePair(b, other, env, rnd)
	}
}

// CollisionStage resolves every unordered circle pair exactly once and
// refreshes the rest relation of every body.
func CollisionStage(bodies []*Body, env *Env, rnd RandSource) {
	for i, b := range bodies {
		if !b.IsCircle() {
			continue
		}
		maintainRest(b, env)
		for _, other := range bodies[i+1:] {
			if other == b || !other.IsCircle() {
				continue
			}
			resolvePair(b, other, env, rnd)
		}
	}
}

// Step advances the world by one tick: motion for all bodies, then
// collisions for all bodies.
func Step(bodies []*Body, env *Env, dt float64, rnd RandSource) {
	MotionStage(bodies, env, dt)
	CollisionStage(bodies, env, rnd)
}

// maintainRest breaks a rest relation once the body has drifted further
// than the contact slop from its support.
func maintainRest(b *Body, env *Env) {
	slop := env.Thresholds.ContactSlop
	switch b.Rest.Kind() {
	case RestingOnBody:
		s := b.Rest.Support()
		if s == nil || b.Pos.Distance(s.Pos) > b.Radius+s.Radius+slop {
			b.Rest = Rest{}
		}
	case RestingOnGround:
		if env.Floor-b.Bottom() > slop {
			b.Rest = Rest{}
		}
	}
}

func resolvePair(a, b *Body, env *Env, rnd RandSource) {
	delta := b.Pos.Sub(a.Pos)
	dist := delta.Mag()
	minDist := a.Radius + b.Radius
	if dist > minDist {
		return
	}

	var n vec.Vec2
	if dist == 0 {
		theta := 2 * math.Pi * rnd.Float64()
		n = vec.Vec2{X: math.Cos(theta), Y: math.Sin(theta)}
	} else {
		n = delta.Scale(1 / dist)
	}

	// Each body takes half the overlap along the normal.
	push := n.Scale((minDist - dist) / 2)
	a.Pos = a.Pos.Sub(push)
	b.Pos = b.Pos.Add(push)

	th := env.Thresholds
	settle := env.settleSpeed()
	bounce := math.Min(
		a.Effective(env.Defaults).Restitution,
		b.Effective(env.Defaults).Restitution,
	)
	approaching := b.Vel.Sub(a.Vel).Dot(n) <= 0

	if math.Abs(delta.X) < th.StackAlign && math.Abs(delta.Y) <= th.StackReach*minDist {
		upper, lower := a, b
		if b.Pos.Y < a.Pos.Y {
			upper, lower = b, a
		}
		relVy := lower.Vel.Y - upper.Vel.Y
		if math.Abs(relVy) < settle &&
			math.Abs(upper.Vel.Y) < settle &&
			math.Abs(lower.Vel.Y) < settle {
			upper.Vel.Y = 0
			lower.Vel.Y = 0
			upper.Rest = RestOn(lower)
			return
		}
		if approaching {
			a.Vel.Y, b.Vel.Y = b.Vel.Y*bounce, a.Vel.Y*bounce
		}
		return
	}

	if !approaching {
		return
	}
	vn := b.Vel.Sub(a.Vel).Dot(n)
	j := -(1 + bounce) * vn / 2
	impulse := n.Scale(j)
	a.Vel = a.Vel.Sub(impulse)
	b.Vel = b.Vel.Add(impulse)
}
