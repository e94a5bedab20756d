package viz

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/physbox/internal/config"
	"github.com/san-kum/physbox/internal/experiment"
	"github.com/san-kum/physbox/internal/physics"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	keyCap  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

var lessonInfo = map[physics.Lesson]string{
	physics.FreeFall:   "gravity and bouncing",
	physics.Kinematics: "constant velocity",
	physics.Forces:     "F = ma at an angle",
	physics.Friction:   "sliding to a stop",
	physics.WorkEnergy: "PE, KE and losses",
}

// defaultPreset is the menu entry that starts a lesson from plain defaults.
const defaultPreset = "default"

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// app picks a lesson and preset, then hands over to the live Model.
type app struct {
	state, cursor int
	lessons       []physics.Lesson
	presets       []string
	presetCursor  int
	selected      physics.Lesson
	err           error
	live          Model
}

func NewInteractiveApp() *app {
	return &app{state: stateMenu, lessons: physics.Lessons()}
}

func (m app) Init() tea.Cmd { return nil }

func (m app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		if m.state == stateSim {
			next, cmd := m.live.Update(msg)
			m.live = next.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m app) handleKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}
	return m, nil
}

func (m app) menuKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.lessons)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.lessons[m.cursor]
		m.presets = presetNames(m.selected)
		m.state, m.presetCursor, m.err = stateConfig, 0, nil
	}
	return m, nil
}

func (m app) configKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.presetCursor > 0 {
			m.presetCursor--
		}
	case "down", "j":
		if m.presetCursor < len(m.presets)-1 {
			m.presetCursor++
		}
	case "enter", " ", "s":
		cfg := config.DefaultConfig()
		cfg.Lesson = m.selected
		if name := m.presets[m.presetCursor]; name != defaultPreset {
			cfg = config.GetPreset(m.selected.String(), name)
		}
		live, err := NewLiveModel(cfg)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.live, m.state = live, stateSim
		return m, m.live.Init()
	}
	return m, nil
}

// presetNames lists the default entry followed by the lesson presets in
// name order.
func presetNames(l physics.Lesson) []string {
	names := config.ListPresets(l.String())
	sort.Strings(names)
	return append([]string{defaultPreset}, names...)
}

// NewLiveModel builds the world described by cfg and wraps it in a live
// Model.
func NewLiveModel(cfg *config.Config) (Model, error) {
	if err := cfg.Validate(); err != nil {
		return Model{}, err
	}
	w, err := experiment.BuildWorld(cfg, cfg.Seed)
	if err != nil {
		return Model{}, err
	}
	sp := experiment.NewSpawner(cfg, w)
	return NewModel(w, sp, cfg.Dt, cfg.World.Width, max(cfg.Spawn.Balls, 1)), nil
}

func (m app) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.live.View()
	}
	return ""
}

func (m app) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + cyan.Render("PHYSBOX") + "\n    " + dim.Render("physics teaching sandbox") + "\n    " + dim.Render("─────────────────────────") + "\n\n")
	for i, l := range m.lessons {
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cyan.Render("▸"), white.Render(fmt.Sprintf("%-12s", l)), magenta.Render(lessonInfo[l])))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", dim.Render(fmt.Sprintf("  %-12s", l)), dimmer.Render(lessonInfo[l])))
		}
	}
	b.WriteString("\n    " + keyCap.Render("j/k") + dim.Render(" navigate  ") + keyCap.Render("enter") + dim.Render(" select  ") + keyCap.Render("q") + dim.Render(" quit") + "\n")
	return b.String()
}

func (m app) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + cyan.Render(strings.ToUpper(m.selected.String())) + "\n    " + dim.Render(lessonInfo[m.selected]) + "\n    " + dim.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		if i == m.presetCursor {
			b.WriteString(fmt.Sprintf("    %s %s\n", cyan.Render("▸"), white.Render(name)))
		} else {
			b.WriteString(fmt.Sprintf("      %s\n", dim.Render(name)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + magenta.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyCap.Render("j/k") + dim.Render(" select  ") + keyCap.Render("enter") + dim.Render(" start  ") + keyCap.Render("esc") + dim.Render(" back") + "\n")
	return b.String()
}

func RunInteractive() error {
	_, err := tea.NewProgram(NewInteractiveApp(), tea.WithAltScreen()).Run()
	return err
}
