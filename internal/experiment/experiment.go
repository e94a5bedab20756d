package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/physbox/internal/config"
	"github.com/san-kum/physbox/internal/metrics"
	"github.com/san-kum/physbox/internal/sim"
	"github.com/san-kum/physbox/internal/spawn"
)

type Experiment struct {
	cfg       *config.Config
	world     *sim.World
	simulator *sim.Simulator
}

func New(cfg *config.Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", sim.ErrInvalidConfig, err)
	}
	w, err := BuildWorld(cfg, cfg.Seed)
	if err != nil {
		return nil, err
	}
	return &Experiment{cfg: cfg, world: w}, nil
}

// BuildWorld creates the world described by cfg with the given seed. The
// configured bodies are used when present, otherwise the lesson spawner
// places cfg.Spawn.Balls default bodies.
func BuildWorld(cfg *config.Config, seed int64) (*sim.World, error) {
	env := cfg.Env()
	if !env.Lesson.Valid() {
		return nil, fmt.Errorf("%w: lesson %d", sim.ErrInvalidConfig, uint8(env.Lesson))
	}

	w := sim.NewWorld(env, seed)
	if cfg.MaxStep > 0 {
		w.SetMaxStep(cfg.MaxStep)
	}
	if cfg.History > 0 {
		w.SetHistoryLimit(cfg.History)
	}

	if len(cfg.Bodies) > 0 {
		for _, b := range cfg.Bodies {
			w.Add(b.Body())
		}
		return w, nil
	}

	w.Add(NewSpawner(cfg, w).Spawn(cfg.Spawn.Balls)...)
	return w, nil
}

// NewSpawner returns a lesson spawner configured from cfg.Spawn for w.
func NewSpawner(cfg *config.Config, w *sim.World) *spawn.Spawner {
	sp := spawn.New(w.Env())
	if cfg.Spawn.InitialVelocity != 0 {
		sp.InitialVelocity = cfg.Spawn.InitialVelocity
	}
	if cfg.Spawn.InitialHeight > 0 {
		sp.InitialHeight = cfg.Spawn.InitialHeight
	}
	return sp
}

func (e *Experiment) Setup(ms []sim.Metric) {
	e.simulator = sim.New(e.world)
	e.simulator.SetEnergy(metrics.TotalEnergy)
	for _, m := range ms {
		e.simulator.AddMetric(m)
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.simConfig())
}

func (e *Experiment) simConfig() sim.Config {
	return sim.Config{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		ValidateState: true,
	}
}

// RunEnsemble repeats the experiment under n consecutive seeds starting at
// the configured one, each with fresh default metrics.
func (e *Experiment) RunEnsemble(ctx context.Context, reg *Registry, n int) ([]*sim.Result, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: ensemble size %d", sim.ErrInvalidConfig, n)
	}
	build := func(seed int64) (*sim.World, error) {
		return BuildWorld(e.cfg, seed)
	}
	setup := func(s *sim.Simulator) {
		s.SetEnergy(metrics.TotalEnergy)
		for _, m := range reg.DefaultMetrics(e.cfg.Lesson) {
			s.AddMetric(m)
		}
	}
	return sim.NewEnsemble(build, setup, n, e.cfg.Seed).Run(ctx, e.simConfig())
}

func (e *Experiment) World() *sim.World { return e.world }

// GetSimulator returns the underlying simulator for adding observers.
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
