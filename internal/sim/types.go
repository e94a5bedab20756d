package sim

import (
	"math"

	"github.com/san-kum/physbox/internal/physics"
)

// BodyState is the renderer-facing view of one body. Resting is "", "ground"
// or "body:<index>" where index refers to the same snapshot.
type BodyState struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	VX       float64 `json:"vx"`
	VY       float64 `json:"vy"`
	AX       float64 `json:"ax"`
	AY       float64 `json:"ay"`
	Radius   float64 `json:"radius,omitempty"`
	W        float64 `json:"w,omitempty"`
	H        float64 `json:"h,omitempty"`
	Resting  string  `json:"resting"`
	OnGround bool    `json:"on_ground"`
}

func (b BodyState) IsCircle() bool { return b.Radius > 0 }

type Snapshot struct {
	Time   float64        `json:"time"`
	Step   int            `json:"step"`
	Lesson physics.Lesson `json:"lesson"`
	Paused bool           `json:"paused"`
	Floor  float64        `json:"floor"`
	Bodies []BodyState    `json:"bodies"`
}

// IsValid reports whether every kinematic value in the snapshot is finite.
func (s Snapshot) IsValid() bool {
	for _, b := range s.Bodies {
		for _, v := range [...]float64{b.X, b.Y, b.VX, b.VY, b.AX, b.AY} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	}
	return true
}

type Metric interface {
	Name() string
	Observe(w *World)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Snapshot)
}

// EnergyFunc reports the total mechanical energy of a world in joules.
type EnergyFunc func(w *World) float64

type Config struct {
	Dt            float64
	Duration      float64
	ValidateState bool
}

type Result struct {
	Snapshots   []Snapshot
	Times       []float64
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Errors      []error
}
