package sim

import (
	"context"
	"fmt"
	"math"
)

// Simulator runs a World headless at a fixed step.
type Simulator struct {
	world     *World
	energy    EnergyFunc
	metrics   []Metric
	observers []Observer
}

func New(w *World) *Simulator {
	return &Simulator{
		world:     w,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) World() *World { return s.world }

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// SetEnergy installs the function used for the run's energy drift.
func (s *Simulator) SetEnergy(fn EnergyFunc) { s.energy = fn }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		Snapshots: make([]Snapshot, 0, steps+1),
		Times:     make([]float64, 0, steps+1),
		Metrics:   make(map[string]float64),
		Errors:    make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	w := s.world
	snap := w.Snapshot()
	result.Snapshots = append(result.Snapshots, snap)
	result.Times = append(result.Times, w.Time())

	initialEnergy := s.computeEnergy()

	// Every recorded state is observed, the initial one and the final one
	// included.
	observe := func(snap Snapshot) {
		for _, m := range s.metrics {
			m.Observe(w)
		}
		for _, obs := range s.observers {
			obs.OnStep(snap)
		}
	}
	observe(snap)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
		default:
		}

		w.advance(cfg.Dt)
		snap = w.Snapshot()

		if cfg.ValidateState && !snap.IsValid() {
			result.Errors = append(result.Errors, &SimError{Step: i, Time: w.Time(), Wrapped: ErrInvalidState})
			break
		}

		result.StepsTaken++
		result.Snapshots = append(result.Snapshots, snap)
		result.Times = append(result.Times, w.Time())
		observe(snap)
	}

	finalEnergy := s.computeEnergy()
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Dt > s.world.MaxStep() {
		return fmt.Errorf("%w: dt %f exceeds max step %f", ErrInvalidConfig, cfg.Dt, s.world.MaxStep())
	}
	if !(cfg.Duration > 0) {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	return nil
}

func (s *Simulator) computeEnergy() float64 {
	if s.energy == nil {
		return 0
	}
	return s.energy(s.world)
}

// RunWithCallback steps until the duration elapses or callback returns
// false. Snapshots are not retained.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(Snapshot) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	w := s.world
	end := w.Time() + cfg.Duration

	for w.Time() < end-cfg.Dt/2 {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
		default:
		}

		if !callback(w.Snapshot()) {
			return nil
		}

		w.advance(cfg.Dt)

		if cfg.ValidateState {
			if snap := w.Snapshot(); !snap.IsValid() {
				return &SimError{Step: w.Steps(), Time: w.Time(), Wrapped: ErrInvalidState}
			}
		}
	}

	return nil
}
