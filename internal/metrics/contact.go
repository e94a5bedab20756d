package metrics

import (
	"math"

	"github.com/san-kum/physbox/internal/physics"
	"github.com/san-kum/physbox/internal/sim"
)

// Penetration is the deepest overlap seen between two circles or between a
// body and the floor, in world units.
type Penetration struct {
	name string
	max  float64
}

func NewPenetration() *Penetration {
	return &Penetration{name: "max_penetration"}
}

func (p *Penetration) Name() string { return p.name }

func (p *Penetration) Observe(w *sim.World) {
	env := w.Env()
	bodies := w.Bodies()
	for i, a := range bodies {
		if env.Lesson.HasFloor(a.Effective(env.Defaults)) {
			p.max = math.Max(p.max, a.Bottom()-env.Floor)
		}
		if !a.IsCircle() {
			continue
		}
		for _, b := range bodies[i+1:] {
			if !b.IsCircle() {
				continue
			}
			p.max = math.Max(p.max, a.Radius+b.Radius-a.Pos.Distance(b.Pos))
		}
	}
}

func (p *Penetration) Value() float64 { return p.max }

func (p *Penetration) Reset() { p.max = 0 }

// SettleTime is the first time at which every body is settled, or -1 if the
// world never settled. Circles settle by resting; boxes never rest and
// settle once stopped on the floor.
type SettleTime struct {
	name string
	at   float64
}

func NewSettleTime() *SettleTime {
	return &SettleTime{name: "settle_time", at: -1}
}

func (s *SettleTime) Name() string { return s.name }

func (s *SettleTime) Observe(w *sim.World) {
	if s.at >= 0 || w.Len() == 0 {
		return
	}
	env := w.Env()
	for _, b := range w.Bodies() {
		if !settled(b, env) {
			return
		}
	}
	s.at = w.Time()
}

func settled(b *physics.Body, env *physics.Env) bool {
	if b.IsCircle() {
		return b.Rest.IsResting()
	}
	return b.Vel.X == 0 && b.Vel.Y == 0 &&
		math.Abs(b.Bottom()-env.Floor) <= env.Thresholds.ContactSlop
}

func (s *SettleTime) Value() float64 { return s.at }

func (s *SettleTime) Reset() { s.at = -1 }

// Bounces counts floor rebounds: a body moving down in one observation and
// up in the next while touching the floor.
type Bounces struct {
	name  string
	count int
	prev  []float64
}

func NewBounces() *Bounces {
	return &Bounces{name: "bounces"}
}

func (c *Bounces) Name() string { return c.name }

func (c *Bounces) Observe(w *sim.World) {
	env := w.Env()
	bodies := w.Bodies()
	if len(c.prev) != len(bodies) {
		c.prev = make([]float64, len(bodies))
	}
	for i, b := range bodies {
		touching := math.Abs(b.Bottom()-env.Floor) <= env.Thresholds.ContactSlop
		if touching && c.prev[i] > 0 && b.Vel.Y < 0 {
			c.count++
		}
		c.prev[i] = b.Vel.Y
	}
}

func (c *Bounces) Value() float64 { return float64(c.count) }

func (c *Bounces) Reset() {
	c.count = 0
	c.prev = nil
}
