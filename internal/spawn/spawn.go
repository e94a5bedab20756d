// Package spawn builds the bodies each lesson starts with.
package spawn

import (
	"math"

	"github.com/san-kum/physbox/internal/physics"
)

// Default placements, in world units.
const (
	BallX      = 100
	BallY      = 50
	BallRadius = 20

	BoxX = 100
	BoxY = 300
	BoxW = 40
	BoxH = 20

	// BoxSpeed is the sliding box's initial speed in m/s.
	BoxSpeed = 2.0

	// KinematicsSpeed is the initial horizontal speed of a kinematics ball
	// in m/s.
	KinematicsSpeed = 3.0

	// EnergyHeight is the default drop height of a work-energy ball in m.
	EnergyHeight = 2.0
)

// Spawner places successive bodies side by side so that a fresh batch does
// not start out overlapping.
type Spawner struct {
	env *physics.Env

	// InitialVelocity is the horizontal launch speed in m/s.
	InitialVelocity float64
	// InitialHeight is the drop height of energy balls in m, measured from
	// the floor to the bottom of the ball.
	InitialHeight float64
	// Overrides are copied onto every spawned body.
	Overrides physics.Overrides
	// Spacing is the horizontal gap between successive spawns.
	Spacing float64

	count int
}

func New(env *physics.Env) *Spawner {
	s := &Spawner{
		env:           env,
		InitialHeight: EnergyHeight,
		Spacing:       2.5 * BallRadius,
	}
	if env.Lesson == physics.Kinematics {
		s.InitialVelocity = KinematicsSpeed
	}
	return s
}

// Reset starts placing bodies from the default position again.
func (s *Spawner) Reset() { s.count = 0 }

func (s *Spawner) next() float64 {
	x := BallX + float64(s.count)*s.Spacing
	s.count++
	return x
}

// Ball spawns the default body of the current lesson.
func (s *Spawner) Ball() *physics.Body {
	if s.env.Lesson == physics.WorkEnergy {
		return s.EnergyBall()
	}
	return s.BallAt(s.next(), BallY)
}

// BallAt spawns a ball at (x, y) with the lesson's launch velocity.
func (s *Spawner) BallAt(x, y float64) *physics.Body {
	b := physics.NewBall(x, y, BallRadius)
	b.Vel.X = s.env.ToWorld(s.InitialVelocity)
	b.Overrides = s.Overrides
	return b
}

// EnergyBall spawns a ball at rest with its bottom InitialHeight meters above
// the floor.
func (s *Spawner) EnergyBall() *physics.Body {
	h := math.Max(s.InitialHeight, 0)
	y := s.env.Floor - s.env.ToWorld(h) - BallRadius
	b := physics.NewBall(s.next(), y, BallRadius)
	b.Overrides = s.Overrides
	return b
}

// ForceBall spawns a ball carrying its own force, mass and angle (radians).
func (s *Spawner) ForceBall(force, mass, angle float64) *physics.Body {
	b := s.BallAt(s.next(), BallY)
	b.Overrides.Force = physics.Float(force)
	b.Overrides.Mass = physics.Float(mass)
	b.Overrides.Angle = physics.Float(angle)
	return b
}

// SlidingBox spawns the friction lesson's box moving right.
func (s *Spawner) SlidingBox() *physics.Body {
	b := physics.NewBox(BoxX, BoxY, BoxW, BoxH)
	b.Vel.X = s.env.ToWorld(BoxSpeed)
	b.Overrides = s.Overrides
	return b
}

// Spawn returns n default bodies for the lesson. The friction lesson starts
// with the sliding box in front of its balls.
func (s *Spawner) Spawn(n int) []*physics.Body {
	bodies := make([]*physics.Body, 0, n+1)
	if s.env.Lesson == physics.Friction {
		bodies = append(bodies, s.SlidingBox())
	}
	for i := 0; i < n; i++ {
		bodies = append(bodies, s.Ball())
	}
	return bodies
}
