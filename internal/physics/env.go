package physics

// Thresholds are the numerical settling constants of the step. Distances
// are in world units; SettleSpeed is in m/s so it tracks gravity at any
// scale.
type Thresholds struct {
	// SettleSpeed is the speed in m/s below which a bounce or a stacked pair
	// comes to rest.
	SettleSpeed float64
	// ContactSlop is the positional tolerance for ground contact and the
	// hysteresis band before a rest relation is broken.
	ContactSlop float64
	// StackAlign is the maximum horizontal offset for two circles to count
	// as stacked.
	StackAlign float64
	// StackReach is the vertical reach, as a factor of the combined radii,
	// within which two aligned circles count as stacked.
	StackReach float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		SettleSpeed: 0.2,
		ContactSlop: 1,
		StackAlign:  2,
		StackReach:  1.1,
	}
}

// Env is the per-frame configuration shared by every body.
type Env struct {
	Lesson Lesson
	// Floor is the y coordinate of the ground; y grows downward.
	Floor float64
	// Scale is world units per meter. Zero means 1.
	Scale      float64
	Defaults   Params
	Thresholds Thresholds
}

// DefaultEnv is a unit-scale free-fall world with the floor at 600.
func DefaultEnv() Env {
	return Env{
		Lesson:     FreeFall,
		Floor:      600,
		Scale:      1,
		Defaults:   DefaultParams(),
		Thresholds: DefaultThresholds(),
	}
}

func (e *Env) scale() float64 {
	if e.Scale <= 0 || !finite(e.Scale) {
		return 1
	}
	return e.Scale
}

// ToMeters converts a world distance or speed to SI.
func (e *Env) ToMeters(v float64) float64 { return v / e.scale() }

// ToWorld converts an SI distance, speed or acceleration to world units.
func (e *Env) ToWorld(v float64) float64 { return v * e.scale() }

// settleSpeed is the settle threshold in world units per second.
func (e *Env) settleSpeed() float64 { return e.ToWorld(e.Thresholds.SettleSpeed) }
