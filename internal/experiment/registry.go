package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/physbox/internal/metrics"
	"github.com/san-kum/physbox/internal/physics"
	"github.com/san-kum/physbox/internal/sim"
)

type Registry struct {
	metrics  map[string]func() sim.Metric
	defaults map[physics.Lesson][]string
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics:  make(map[string]func() sim.Metric),
		defaults: make(map[physics.Lesson][]string),
	}

	r.metrics["energy"] = func() sim.Metric { return metrics.NewEnergy() }
	r.metrics["energy_gain"] = func() sim.Metric { return metrics.NewEnergyGain() }
	r.metrics["mean_accel"] = func() sim.Metric { return metrics.NewMeanAccel() }
	r.metrics["max_penetration"] = func() sim.Metric { return metrics.NewPenetration() }
	r.metrics["settle_time"] = func() sim.Metric { return metrics.NewSettleTime() }
	r.metrics["bounces"] = func() sim.Metric { return metrics.NewBounces() }

	r.defaults[physics.FreeFall] = []string{"energy", "energy_gain", "max_penetration", "settle_time", "bounces"}
	r.defaults[physics.Kinematics] = []string{"mean_accel", "max_penetration"}
	r.defaults[physics.Forces] = []string{"mean_accel", "max_penetration", "bounces"}
	r.defaults[physics.Friction] = []string{"mean_accel", "max_penetration", "settle_time"}
	r.defaults[physics.WorkEnergy] = []string{"energy", "energy_gain", "max_penetration", "settle_time", "bounces"}

	return r
}

func (r *Registry) GetMetric(name string) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns fresh instances of the lesson's standard metrics.
func (r *Registry) DefaultMetrics(l physics.Lesson) []sim.Metric {
	names := r.defaults[l]
	ms := make([]sim.Metric, 0, len(names))
	for _, name := range names {
		ms = append(ms, r.metrics[name]())
	}
	return ms
}
