package metrics

import "github.com/san-kum/physbox/internal/sim"

// MeanAccel is the mean magnitude of the applied acceleration per body and
// step, in m/s².
type MeanAccel struct {
	name    string
	sum     float64
	samples int
}

func NewMeanAccel() *MeanAccel {
	return &MeanAccel{name: "mean_accel"}
}

func (m *MeanAccel) Name() string {
	return m.name
}

func (m *MeanAccel) Observe(w *sim.World) {
	env := w.Env()
	for _, b := range w.Bodies() {
		m.sum += env.ToMeters(b.Applied.Mag())
		m.samples++
	}
}

func (m *MeanAccel) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanAccel) Reset() {
	m.sum = 0
	m.samples = 0
}
