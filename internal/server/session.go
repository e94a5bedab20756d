package server

import (
	"errors"
	"fmt"
	"sync"

	"github.com/san-kum/physbox/internal/config"
	"github.com/san-kum/physbox/internal/experiment"
	"github.com/san-kum/physbox/internal/export"
	"github.com/san-kum/physbox/internal/physics"
	"github.com/san-kum/physbox/internal/sim"
	"github.com/san-kum/physbox/internal/spawn"
)

// ErrBadRequest marks errors caused by the caller's input.
var ErrBadRequest = errors.New("server: bad request")

// Session owns the served world. Every method takes the session lock, so
// bodies only change between frames.
type Session struct {
	mu      sync.Mutex
	world   *sim.World
	spawner *spawn.Spawner
	dt      float64
	width   float64
	balls   int
}

func NewSession(cfg *config.Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", sim.ErrInvalidConfig, err)
	}
	w, err := experiment.BuildWorld(cfg, cfg.Seed)
	if err != nil {
		return nil, err
	}
	return &Session{
		world:   w,
		spawner: experiment.NewSpawner(cfg, w),
		dt:      cfg.Dt,
		width:   cfg.World.Width,
		balls:   max(cfg.Spawn.Balls, 1),
	}, nil
}

// BodyRequest describes a body to add. Without a position the lesson
// spawner places the default ball or box.
type BodyRequest struct {
	Shape  string   `json:"shape"`
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
	VX     float64  `json:"vx"`
	VY     float64  `json:"vy"`
	Radius float64  `json:"radius"`
	W      float64  `json:"w"`
	H      float64  `json:"h"`

	physics.Overrides
}

func (r BodyRequest) body(sp *spawn.Spawner) (*physics.Body, error) {
	var b *physics.Body
	switch r.Shape {
	case "", "ball":
		if r.X == nil || r.Y == nil {
			b = sp.Ball()
			break
		}
		radius := r.Radius
		if radius == 0 {
			radius = spawn.BallRadius
		}
		if !(radius > 0) {
			return nil, fmt.Errorf("%w: radius must be positive", ErrBadRequest)
		}
		b = physics.NewBall(*r.X, *r.Y, radius)
		b.Overrides = sp.Overrides
	case "box":
		if r.X == nil || r.Y == nil {
			b = sp.SlidingBox()
			break
		}
		w, h := r.W, r.H
		if w == 0 && h == 0 {
			w, h = spawn.BoxW, spawn.BoxH
		}
		if !(w > 0 && h > 0) {
			return nil, fmt.Errorf("%w: box needs positive w and h", ErrBadRequest)
		}
		b = physics.NewBox(*r.X, *r.Y, w, h)
		b.Overrides = sp.Overrides
	default:
		return nil, fmt.Errorf("%w: unknown shape %q", ErrBadRequest, r.Shape)
	}

	if r.X != nil && r.Y != nil {
		b.Vel.X, b.Vel.Y = r.VX, r.VY
	}
	b.Overrides = mergeOverrides(b.Overrides, r.Overrides)
	return b, nil
}

// mergeOverrides layers the set fields of top over base.
func mergeOverrides(base, top physics.Overrides) physics.Overrides {
	if top.Gravity != nil {
		base.Gravity = top.Gravity
	}
	if top.Restitution != nil {
		base.Restitution = top.Restitution
	}
	if top.Friction != nil {
		base.Friction = top.Friction
	}
	if top.Mass != nil {
		base.Mass = top.Mass
	}
	if top.Force != nil {
		base.Force = top.Force
	}
	if top.Angle != nil {
		base.Angle = top.Angle
	}
	if top.UseGravity != nil {
		base.UseGravity = top.UseGravity
	}
	return base
}

// Add inserts a body and returns its index.
func (s *Session) Add(r BodyRequest) (int, sim.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := r.body(s.spawner)
	if err != nil {
		return 0, sim.Snapshot{}, err
	}
	s.world.Add(b)
	return s.world.Len() - 1, s.world.Snapshot(), nil
}

func (s *Session) Clear() sim.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.world.Clear()
	s.spawner.Reset()
	return s.world.Snapshot()
}

// SetLesson switches lesson, which clears the world, and spawns the default
// bodies of the new lesson.
func (s *Session) SetLesson(name string) (sim.Snapshot, error) {
	l, err := physics.ParseLesson(name)
	if err != nil {
		return sim.Snapshot{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.world.SetLesson(l); err != nil {
		return sim.Snapshot{}, err
	}
	overrides := s.spawner.Overrides
	s.spawner = spawn.New(s.world.Env())
	s.spawner.Overrides = overrides
	s.world.Add(s.spawner.Spawn(s.balls)...)
	return s.world.Snapshot(), nil
}

// SetParams layers p over the world defaults.
func (s *Session) SetParams(p physics.Overrides) (physics.Params, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := p.Resolve(s.world.Env().Defaults)
	if next.Restitution < 0 || next.Restitution > 1 {
		return physics.Params{}, fmt.Errorf("%w: restitution must be in [0, 1]", ErrBadRequest)
	}
	if next.Friction < 0 {
		return physics.Params{}, fmt.Errorf("%w: friction must be non-negative", ErrBadRequest)
	}
	s.world.Env().Defaults = next
	return next, nil
}

func (s *Session) Params() physics.Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world.Env().Defaults
}

func (s *Session) Pause() sim.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.world.Pause()
	return s.world.Snapshot()
}

func (s *Session) Resume() sim.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.world.Resume()
	return s.world.Snapshot()
}

func (s *Session) Reset() sim.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.world.Reset()
	s.spawner.Reset()
	return s.world.Snapshot()
}

// Push applies body i's force for duration seconds.
func (s *Session) Push(i int, duration float64) (sim.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.world.Push(i, duration); err != nil {
		return sim.Snapshot{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return s.world.Snapshot(), nil
}

func (s *Session) Snapshot() sim.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world.Snapshot()
}

// FrameSVG renders the current frame.
func (s *Session) FrameSVG() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	env := s.world.Env()
	return export.Frame(s.world.Snapshot(), s.width, env.Lesson.HasFloor(env.Defaults))
}

// Step advances one frame. It reports false while paused.
func (s *Session) Step() (sim.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.world.Step(s.dt) {
		return sim.Snapshot{}, false
	}
	return s.world.Snapshot(), true
}
