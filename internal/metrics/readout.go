package metrics

import (
	"math"

	"github.com/san-kum/physbox/internal/physics"
	"github.com/san-kum/physbox/internal/sim"
)

// groundBand is the height in meters below which a body reads as on the
// floor.
const groundBand = 0.05

// Readout is the per-body panel of the sandbox, in SI units with y up.
type Readout struct {
	Height float64 // m above the floor
	VX     float64 // m/s
	VY     float64 // m/s, positive up
	Speed  float64 // m/s
	Accel  float64 // m/s²
	PE     float64 // J
	KE     float64 // J
	E      float64 // J
}

func Read(b *physics.Body, env *physics.Env) Readout {
	p := b.Effective(env.Defaults)

	h := env.ToMeters(env.Floor - b.Bottom())
	if h < groundBand {
		h = 0
	}
	vx := env.ToMeters(b.Vel.X)
	vy := env.ToMeters(-b.Vel.Y)
	speed := math.Hypot(vx, vy)

	var accel float64
	switch env.Lesson {
	case physics.Forces, physics.Friction:
		accel = physics.AccelFromForce(p.Force, p.Mass, p.Angle).Mag()
	default:
		accel = env.ToMeters(b.Applied.Mag())
	}

	mass := p.Mass
	if !(mass > 0) || math.IsInf(mass, 0) {
		mass = 0
	}
	pe := mass * p.Gravity * h
	ke := 0.5 * mass * speed * speed

	return Readout{
		Height: h,
		VX:     vx,
		VY:     vy,
		Speed:  speed,
		Accel:  accel,
		PE:     pe,
		KE:     ke,
		E:      pe + ke,
	}
}

// TotalEnergy sums the mechanical energy of every body in the world.
func TotalEnergy(w *sim.World) float64 {
	env := w.Env()
	total := 0.0
	for _, b := range w.Bodies() {
		total += Read(b, env).E
	}
	return total
}
