package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/physbox/internal/metrics"
	"github.com/san-kum/physbox/internal/physics"
	"github.com/san-kum/physbox/internal/sim"
	"github.com/san-kum/physbox/internal/spawn"
)

const (
	width           = 60
	height          = 20
	historyCapacity = 600

	// pushDuration is how long the f key applies a body's force, in seconds.
	pushDuration = 0.1
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// tunable is one adjustable control of the side panel.
type tunable struct {
	name     string
	min, max float64
	step     float64
	get      func(m *Model) float64
	set      func(m *Model, v float64)
}

var (
	gravityParam = tunable{
		name: "gravity",
		min:  0,
		max:  30,
		step: 0.2,
		get:  func(m *Model) float64 { return m.world.Env().Defaults.Gravity },
		set:  func(m *Model, v float64) { m.world.Env().Defaults.Gravity = v },
	}
	restitutionParam = tunable{
		name: "bounce",
		min:  0,
		max:  1,
		step: 0.05,
		get:  func(m *Model) float64 { return m.world.Env().Defaults.Restitution },
		set:  func(m *Model, v float64) { m.world.Env().Defaults.Restitution = v },
	}
	frictionParam = tunable{
		name: "friction",
		min:  0,
		max:  2,
		step: 0.05,
		get:  func(m *Model) float64 { return m.world.Env().Defaults.Friction },
		set:  func(m *Model, v float64) { m.world.Env().Defaults.Friction = v },
	}
	forceParam = tunable{
		name: "force",
		min:  0,
		max:  100,
		step: 1,
		get:  func(m *Model) float64 { return m.world.Env().Defaults.Force },
		set:  func(m *Model, v float64) { m.world.Env().Defaults.Force = v },
	}
	massParam = tunable{
		name: "mass",
		min:  0.1,
		max:  20,
		step: 0.1,
		get:  func(m *Model) float64 { return m.world.Env().Defaults.Mass },
		set:  func(m *Model, v float64) { m.world.Env().Defaults.Mass = v },
	}
	angleParam = tunable{
		name: "angle",
		min:  -180,
		max:  180,
		step: 5,
		get:  func(m *Model) float64 { return m.world.Env().Defaults.Angle * 180 / math.Pi },
		set:  func(m *Model, v float64) { m.world.Env().Defaults.Angle = v * math.Pi / 180 },
	}
	velocityParam = tunable{
		name: "velocity",
		min:  -10,
		max:  10,
		step: 0.5,
		get:  func(m *Model) float64 { return m.spawner.InitialVelocity },
		set:  func(m *Model, v float64) { m.spawner.InitialVelocity = v },
	}
	heightParam = tunable{
		name: "height",
		min:  0,
		max:  10,
		step: 0.25,
		get:  func(m *Model) float64 { return m.spawner.InitialHeight },
		set:  func(m *Model, v float64) { m.spawner.InitialHeight = v },
	}
)

// lessonControls lists the side panel controls of each lesson.
var lessonControls = map[physics.Lesson][]tunable{
	physics.FreeFall:   {gravityParam, restitutionParam},
	physics.Kinematics: {velocityParam},
	physics.Forces:     {forceParam, massParam, angleParam, gravityParam},
	physics.Friction:   {frictionParam, forceParam, massParam, gravityParam},
	physics.WorkEnergy: {heightParam, massParam, gravityParam, restitutionParam},
}

// Model drives a sim.World from the terminal.
type Model struct {
	world    *sim.World
	spawner  *spawn.Spawner
	dt       float64
	extent   float64
	canvas   *Canvas
	balls    int
	energy   []float64
	speed    []float64
	playHead int
	selected int
	focus    int
	showHelp bool
	notice   string
}

// NewModel wraps w. extent is the world width in world units that the canvas
// shows; balls is how many default bodies a lesson switch spawns.
func NewModel(w *sim.World, sp *spawn.Spawner, dt, extent float64, balls int) Model {
	if extent <= 0 {
		extent = 800
	}
	return Model{
		world:    w,
		spawner:  sp,
		dt:       dt,
		extent:   extent,
		canvas:   NewCanvas(width, height),
		balls:    balls,
		energy:   make([]float64, 0, historyCapacity),
		speed:    make([]float64, 0, historyCapacity),
		playHead: -1,
	}
}

func (m Model) Init() tea.Cmd { return tick() }

// Update handles input events and steps the world.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.notice = ""
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.world.Toggle()
		case "r":
			m.reset()
		case "c":
			m.world.Clear()
			m.spawner.Reset()
			m.clearCharts()
		case "s":
			m.world.Add(m.spawner.Ball())
		case "b":
			m.world.Add(m.spawner.SlidingBox())
		case "f":
			if err := m.world.Push(m.focus, pushDuration); err != nil {
				m.notice = err.Error()
			}
		case "l":
			m.nextLesson()
		case "v":
			if n := m.world.Len(); n > 0 {
				m.focus = (m.focus + 1) % n
			}
		case "[":
			m.scrub(-1)
		case "]":
			m.scrub(1)
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1)
		case "down", "j":
			m.adjustParam(-1)
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			NextTheme()
		}
	case TickMsg:
		m.advance()
		return m, tick()
	}
	return m, nil
}

func (m *Model) controls() []tunable { return lessonControls[m.world.Lesson()] }

func (m *Model) cycleParam() {
	if n := len(m.controls()); n > 0 {
		m.selected = (m.selected + 1) % n
	}
}

func (m *Model) adjustParam(dir float64) {
	cs := m.controls()
	if m.selected >= len(cs) {
		return
	}
	p := cs[m.selected]
	v := p.get(m) + dir*p.step
	p.set(m, math.Min(p.max, math.Max(p.min, v)))
}

// advance steps the world or the replay cursor by one frame.
func (m *Model) advance() {
	if m.playHead >= 0 {
		if !m.world.Paused() {
			m.playHead++
			if m.playHead >= m.world.History().Len() {
				m.playHead = -1
			}
		}
		return
	}
	if !m.world.Step(m.dt) {
		return
	}
	m.energy = appendCapped(m.energy, metrics.TotalEnergy(m.world))
	speed := 0.0
	if b, ok := m.world.Body(m.focus); ok {
		speed = metrics.Read(b, m.world.Env()).Speed
	}
	m.speed = appendCapped(m.speed, speed)
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

// scrub moves the replay cursor through the world history. Leaving the
// newest snapshot returns to the live world.
func (m *Model) scrub(dir int) {
	n := m.world.History().Len()
	if m.playHead == -1 {
		if n == 0 {
			return
		}
		m.playHead = n - 1
		m.world.Pause()
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= n {
		m.playHead = -1
	}
}

func (m *Model) reset() {
	m.world.Reset()
	m.spawner.Reset()
	m.clearCharts()
}

func (m *Model) clearCharts() {
	m.energy = m.energy[:0]
	m.speed = m.speed[:0]
	m.playHead = -1
	m.focus = 0
}

// nextLesson switches lesson, which empties the world, and spawns the new
// lesson's default bodies.
func (m *Model) nextLesson() {
	next := m.world.Lesson().Next()
	if err := m.world.SetLesson(next); err != nil {
		m.notice = err.Error()
		return
	}
	overrides := m.spawner.Overrides
	m.spawner = spawn.New(m.world.Env())
	m.spawner.Overrides = overrides
	m.world.Add(m.spawner.Spawn(m.balls)...)
	m.clearCharts()
	m.selected = 0
}

// frame returns the snapshot on screen: the replay cursor or the live world.
func (m *Model) frame() (sim.Snapshot, bool) {
	if m.playHead >= 0 {
		if s, ok := m.world.Seek(m.playHead); ok {
			return s, true
		}
	}
	return m.world.Snapshot(), false
}

// scale maps world units onto canvas sub-pixels so that the extent and the
// floor both fit.
func (m *Model) scale() float64 {
	cw, ch := float64(m.canvas.Width*2-1), float64(m.canvas.Height*4-1)
	floor := m.world.Env().Floor
	if floor <= 0 {
		return cw / m.extent
	}
	return math.Min(cw/m.extent, ch/floor)
}

// draw renders s onto the canvas and reports whether the lesson has a floor.
func (m *Model) draw(s sim.Snapshot) bool {
	m.canvas.Clear()
	k := m.scale()
	px := func(v float64) int { return int(math.Round(v * k)) }

	for _, b := range s.Bodies {
		x, y := px(b.X), px(b.Y)
		if b.IsCircle() {
			m.canvas.DrawCircle(x, y, max(1, px(b.Radius)))
			continue
		}
		hw, hh := max(1, px(b.W/2)), max(1, px(b.H/2))
		m.canvas.DrawRect(x-hw, y-hh, x+hw, y+hh)
	}

	env := m.world.Env()
	return env.Lesson.HasFloor(env.Defaults)
}

// View renders the canvas and the side panel.
func (m Model) View() string {
	pal := newPalette(CurrentTheme)
	snap, replay := m.frame()
	floor := m.draw(snap)

	canvasView := pal.canvas.Render(m.renderCanvas(pal, floor))

	var s strings.Builder
	title := strings.ToUpper(snap.Lesson.String())
	s.WriteString(pal.header.Render(GradientText(title, CurrentTheme.Title, CurrentTheme.Accent)) + "\n")
	s.WriteString(m.status(pal, snap, replay) + "\n\n")

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy (J)"))
		s.WriteString(pal.graph.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(pal.label.Render(label) + pal.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", snap.Time))
	row("Bodies", fmt.Sprintf("%d", len(snap.Bodies)))

	if b, ok := m.world.Body(m.focus); ok && !replay {
		r := metrics.Read(b, m.world.Env())
		s.WriteString("\n" + pal.label.Render(fmt.Sprintf("BODY %d", m.focus)) + m.restLabel(snap) + "\n")
		row("Height", fmt.Sprintf("%.2f m", r.Height))
		row("Velocity", fmt.Sprintf("(%.2f, %.2f) m/s", r.VX, r.VY))
		row("Speed", fmt.Sprintf("%.2f m/s", r.Speed)+" "+SparklineChart(m.speed, 12, CurrentTheme))
		row("Accel", fmt.Sprintf("%.2f m/s²", r.Accel))
		if snap.Lesson == physics.WorkEnergy {
			row("PE", fmt.Sprintf("%.2f J", r.PE))
			row("KE", fmt.Sprintf("%.2f J", r.KE))
			row("E", fmt.Sprintf("%.2f J", r.E))
		}
	}

	s.WriteString("\nCONTROLS\n")
	for i, p := range m.controls() {
		v := p.get(&m)
		bar := ProgressBar((v-p.min)/(p.max-p.min), 10, CurrentTheme)
		line := fmt.Sprintf("%-9s %s %.2f", p.name, bar, v)
		if i == m.selected {
			s.WriteString(pal.active.Render("> ") + line + "\n")
		} else {
			s.WriteString("  " + line + "\n")
		}
	}

	if m.notice != "" {
		s.WriteString("\n" + pal.notice.Render(m.notice) + "\n")
	}
	s.WriteString(pal.help.Render("─────────────────────\nSP:Pause R:Reset Q:Quit\nS:Ball B:Box F:Push L:Lesson\n[ ]:Replay ↑↓:Tune ?:Help"))

	statsView := pal.stats.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

func (m *Model) status(pal palette, snap sim.Snapshot, replay bool) string {
	switch {
	case replay:
		latest, _ := m.world.History().Latest()
		return pal.paused.Render(fmt.Sprintf("REPLAY (%.1fs)", snap.Time-latest.Time))
	case m.world.Paused():
		return pal.paused.Render("PAUSED")
	}
	return pal.running.Render("RUNNING")
}

func (m *Model) restLabel(snap sim.Snapshot) string {
	if m.focus >= len(snap.Bodies) || snap.Bodies[m.focus].Resting == "" {
		return ""
	}
	return "resting on " + snap.Bodies[m.focus].Resting
}

// renderCanvas colors the canvas and closes it with a ground line when the
// lesson has a floor. The floor sits on the last sub-pixel row.
func (m *Model) renderCanvas(pal palette, floor bool) string {
	out := pal.body.Render(strings.TrimSuffix(m.canvas.String(), "\n"))
	if floor {
		out += "\n" + pal.floor.Render(strings.Repeat("▔", m.canvas.Width))
	}
	return out
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset to spawn state     ║
║  C        - Clear all bodies         ║
║  S        - Spawn ball               ║
║  B        - Spawn sliding box        ║
║  F        - Push focused body        ║
║  V        - Focus next body          ║
║  L        - Next lesson              ║
║  Tab      - Cycle controls           ║
║  Up/K     - Increase control         ║
║  Down/J   - Decrease control         ║
║  [ ]      - Replay history           ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// Run starts the live view full-screen and blocks until it quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
