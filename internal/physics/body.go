package physics

import (
	"math"

	"github.com/setanarut/vec"
)

// Params are the physical parameters of a body. Gravity is in m/s², Force
// in N, Mass in kg, Angle in radians. Restitution and Friction are
// dimensionless.
type Params struct {
	Gravity     float64
	Restitution float64
	Friction    float64
	Mass        float64
	Force       float64
	Angle       float64
	UseGravity  bool
}

// DefaultParams mirrors the sandbox's out-of-the-box controls.
func DefaultParams() Params {
	return Params{
		Gravity:     9.8,
		Restitution: 0.8,
		Friction:    0.5,
		Mass:        1,
		Force:       10,
		UseGravity:  true,
	}
}

// Overrides are per-body replacements for the world defaults. A nil field
// means "use the default".
type Overrides struct {
	Gravity     *float64 `yaml:"gravity,omitempty" json:"gravity,omitempty"`
	Restitution *float64 `yaml:"restitution,omitempty" json:"restitution,omitempty"`
	Friction    *float64 `yaml:"friction,omitempty" json:"friction,omitempty"`
	Mass        *float64 `yaml:"mass,omitempty" json:"mass,omitempty"`
	Force       *float64 `yaml:"force,omitempty" json:"force,omitempty"`
	Angle       *float64 `yaml:"angle,omitempty" json:"angle,omitempty"`
	UseGravity  *bool    `yaml:"use_gravity,omitempty" json:"use_gravity,omitempty"`
}

// Resolve layers o over defaults.
func (o Overrides) Resolve(defaults Params) Params {
	p := defaults
	if o.Gravity != nil {
		p.Gravity = *o.Gravity
	}
	if o.Restitution != nil {
		p.Restitution = *o.Restitution
	}
	if o.Friction != nil {
		p.Friction = *o.Friction
	}
	if o.Mass != nil {
		p.Mass = *o.Mass
	}
	if o.Force != nil {
		p.Force = *o.Force
	}
	if o.Angle != nil {
		p.Angle = *o.Angle
	}
	if o.UseGravity != nil {
		p.UseGravity = *o.UseGravity
	}
	return p
}

// Float returns a pointer to v, for filling Overrides.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v, for filling Overrides.
func Bool(v bool) *bool { return &v }

// Body is a circle (Radius > 0) or an axis-aligned box (W, H > 0). Bodies
// are mutated in place by the step functions and compared by pointer.
type Body struct {
	Pos vec.Vec2
	Vel vec.Vec2
	// Accel is the user-set acceleration of the kinematics lesson, in world
	// units per second squared.
	Accel vec.Vec2
	// Applied is the acceleration the last motion stage applied, gravity and
	// friction included.
	Applied vec.Vec2

	Radius float64
	W, H   float64

	Overrides Overrides

	OnGround bool
	Rest     Rest
}

// NewBall returns a circle body at rest at (x, y).
func NewBall(x, y, radius float64) *Body {
	return &Body{Pos: vec.Vec2{X: x, Y: y}, Radius: radius}
}

// NewBox returns a box body at rest at (x, y); the position is the center.
func NewBox(x, y, w, h float64) *Body {
	return &Body{Pos: vec.Vec2{X: x, Y: y}, W: w, H: h}
}

// IsCircle reports whether b takes part in collisions and resting.
func (b *Body) IsCircle() bool { return b.Radius > 0 }

// IsBox reports whether b is a valid axis-aligned box.
func (b *Body) IsBox() bool { return b.Radius <= 0 && b.W > 0 && b.H > 0 }

// HalfHeight is the distance from the center to the lower extent.
func (b *Body) HalfHeight() float64 {
	if b.IsCircle() {
		return b.Radius
	}
	return b.H / 2
}

// Bottom is the lower extent in world coordinates (y grows downward).
func (b *Body) Bottom() float64 { return b.Pos.Y + b.HalfHeight() }

// Effective resolves the body's overrides over the world defaults.
func (b *Body) Effective(defaults Params) Params {
	return b.Overrides.Resolve(defaults)
}

// ApplyForce pushes the body with its effective force for duration seconds,
// the sandbox's "Apply Force" action. The body leaves any resting state.
func (b *Body) ApplyForce(env *Env, duration float64) {
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return
	}
	p := b.Effective(env.Defaults)
	a := AccelFromForce(p.Force, p.Mass, p.Angle).Scale(env.scale())
	b.Vel = b.Vel.Add(a.Scale(duration))
	b.Rest = Rest{}
}

// AccelFromForce returns the acceleration in m/s² produced by force newtons
// at angle radians on mass kilograms. Positive angles point up the screen,
// so the vertical component is negated. Non-finite input or a non-positive
// mass yields zero.
func AccelFromForce(force, mass, angle float64) vec.Vec2 {
	if !finite(force) || !finite(mass) || !finite(angle) || mass <= 0 {
		return vec.Vec2{}
	}
	a := force / mass
	return vec.Vec2{X: a * math.Cos(angle), Y: -a * math.Sin(angle)}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
