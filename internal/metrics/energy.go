package metrics

import (
	"math"

	"github.com/san-kum/physbox/internal/sim"
)

// Energy is the mean total mechanical energy over a run.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(w *sim.World) {
	e.totalEnergy += TotalEnergy(w)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyGain is the largest rise of total energy above its initial value,
// relative to the initial value.
type EnergyGain struct {
	name          string
	initialEnergy float64
	maxGain       float64
	samples       int
}

func NewEnergyGain() *EnergyGain {
	return &EnergyGain{name: "energy_gain"}
}

func (e *EnergyGain) Name() string { return e.name }

func (e *EnergyGain) Observe(w *sim.World) {
	energy := TotalEnergy(w)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		gain := (energy - e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxGain = math.Max(e.maxGain, gain)
	}
}

func (e *EnergyGain) Value() float64 {
	return e.maxGain
}

func (e *EnergyGain) Reset() {
	e.initialEnergy = 0
	e.maxGain = 0
	e.samples = 0
}
