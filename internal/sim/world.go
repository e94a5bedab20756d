package sim

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/physbox/internal/physics"
)

const (
	// DefaultMaxStep is the largest frame time World.Step integrates.
	DefaultMaxStep = 0.05

	DefaultHistory = 600
)

// World owns a body set and steps it under one environment. It is not safe
// for concurrent use.
type World struct {
	env     physics.Env
	bodies  []*physics.Body
	spawned []physics.Body

	seed int64
	rng  *rand.Rand

	time    float64
	steps   int
	paused  bool
	maxStep float64
	history *History
}

func NewWorld(env physics.Env, seed int64) *World {
	return &World{
		env:     env,
		seed:    seed,
		rng:     rand.New(rand.NewSource(seed)),
		maxStep: DefaultMaxStep,
		history: NewHistory(DefaultHistory),
	}
}

// Env returns the live environment; edits apply from the next step.
func (w *World) Env() *physics.Env { return &w.env }

// Bodies returns the live body slice. It is invalidated by Add, Clear,
// Reset and SetLesson.
func (w *World) Bodies() []*physics.Body { return w.bodies }

func (w *World) Len() int { return len(w.bodies) }

func (w *World) Body(i int) (*physics.Body, bool) {
	if i < 0 || i >= len(w.bodies) {
		return nil, false
	}
	return w.bodies[i], true
}

// Add inserts bodies and records their current state as part of the spawn
// set that Reset restores.
func (w *World) Add(bodies ...*physics.Body) {
	for _, b := range bodies {
		if b == nil {
			continue
		}
		w.bodies = append(w.bodies, b)
		spawn := *b
		spawn.Rest = physics.Rest{}
		w.spawned = append(w.spawned, spawn)
	}
}

// Clear removes every body and forgets the spawn set.
func (w *World) Clear() {
	w.bodies = nil
	w.spawned = nil
	w.rewind()
}

// Reset restores the spawn set and rewinds the clock and random source.
func (w *World) Reset() {
	w.bodies = make([]*physics.Body, len(w.spawned))
	for i := range w.spawned {
		b := w.spawned[i]
		w.bodies[i] = &b
	}
	w.rewind()
}

func (w *World) rewind() {
	w.time = 0
	w.steps = 0
	w.rng = rand.New(rand.NewSource(w.seed))
	w.history.Clear()
}

// SetLesson switches the force model and clears the world.
func (w *World) SetLesson(l physics.Lesson) error {
	if !l.Valid() {
		return fmt.Errorf("%w: lesson %d", ErrInvalidConfig, uint8(l))
	}
	w.env.Lesson = l
	w.Clear()
	return nil
}

func (w *World) Lesson() physics.Lesson { return w.env.Lesson }

func (w *World) Pause()           { w.paused = true }
func (w *World) Resume()          { w.paused = false }
func (w *World) Toggle()          { w.paused = !w.paused }
func (w *World) Paused() bool     { return w.paused }
func (w *World) Time() float64    { return w.time }
func (w *World) Steps() int       { return w.steps }
func (w *World) Seed() int64      { return w.seed }
func (w *World) MaxStep() float64 { return w.maxStep }

func (w *World) SetMaxStep(dt float64) {
	if dt > 0 {
		w.maxStep = dt
	}
}

func (w *World) SetHistoryLimit(n int) { w.history = NewHistory(n) }

func (w *World) History() *History { return w.history }

// Step advances one frame. The frame time is clamped to the max step.
// It reports false when paused or when dt is not positive.
func (w *World) Step(dt float64) bool {
	if w.paused || !(dt > 0) {
		return false
	}
	if dt > w.maxStep {
		dt = w.maxStep
	}
	w.advance(dt)
	w.history.Push(w.Snapshot())
	return true
}

func (w *World) advance(dt float64) {
	physics.Step(w.bodies, &w.env, dt, w.rng)
	w.time += dt
	w.steps++
}

// Seek returns the i-th snapshot of the replay history, 0 being the oldest.
func (w *World) Seek(i int) (Snapshot, bool) {
	return w.history.At(i)
}

// Push applies the effective force of body i for duration seconds.
func (w *World) Push(i int, duration float64) error {
	b, ok := w.Body(i)
	if !ok {
		return fmt.Errorf("body %d out of range [0, %d)", i, len(w.bodies))
	}
	if !(duration > 0) {
		return fmt.Errorf("%w: push duration %v", ErrInvalidConfig, duration)
	}
	b.ApplyForce(&w.env, duration)
	return nil
}

// Snapshot captures the current state of every body.
func (w *World) Snapshot() Snapshot {
	index := make(map[*physics.Body]int, len(w.bodies))
	for i, b := range w.bodies {
		index[b] = i
	}

	s := Snapshot{
		Time:   w.time,
		Step:   w.steps,
		Lesson: w.env.Lesson,
		Paused: w.paused,
		Floor:  w.env.Floor,
		Bodies: make([]BodyState, len(w.bodies)),
	}
	for i, b := range w.bodies {
		s.Bodies[i] = BodyState{
			X:        b.Pos.X,
			Y:        b.Pos.Y,
			VX:       b.Vel.X,
			VY:       b.Vel.Y,
			AX:       b.Applied.X,
			AY:       b.Applied.Y,
			Radius:   b.Radius,
			W:        b.W,
			H:        b.H,
			Resting:  resting(b.Rest, index),
			OnGround: b.OnGround,
		}
	}
	return s
}

func resting(r physics.Rest, index map[*physics.Body]int) string {
	switch r.Kind() {
	case physics.RestingOnGround:
		return "ground"
	case physics.RestingOnBody:
		if i, ok := index[r.Support()]; ok {
			return fmt.Sprintf("body:%d", i)
		}
	}
	return ""
}
