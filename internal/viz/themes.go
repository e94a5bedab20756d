package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the color scheme of the live view.
type Theme struct {
	Name   string
	Body   lipgloss.Color
	Floor  lipgloss.Color
	Title  lipgloss.Color
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	High   lipgloss.Color
	Mid    lipgloss.Color
	Low    lipgloss.Color
}

var (
	ThemeChalk = Theme{
		Name:   "chalk",
		Body:   lipgloss.Color("#ffffff"),
		Floor:  lipgloss.Color("#888888"),
		Title:  lipgloss.Color("#00ffff"),
		Accent: lipgloss.Color("#ff00ff"),
		Text:   lipgloss.Color("#dddddd"),
		Muted:  lipgloss.Color("#666688"),
		High:   lipgloss.Color("#00ff88"),
		Mid:    lipgloss.Color("#ffcc00"),
		Low:    lipgloss.Color("#ff4444"),
	}

	ThemeRetro = Theme{
		Name:   "retro",
		Body:   lipgloss.Color("#00ff00"), // green phosphor
		Floor:  lipgloss.Color("#005500"),
		Title:  lipgloss.Color("#88ff88"),
		Accent: lipgloss.Color("#ffff00"),
		Text:   lipgloss.Color("#00cc00"),
		Muted:  lipgloss.Color("#005500"),
		High:   lipgloss.Color("#88ff88"),
		Mid:    lipgloss.Color("#00cc00"),
		Low:    lipgloss.Color("#007700"),
	}

	ThemeBlueprint = Theme{
		Name:   "blueprint",
		Body:   lipgloss.Color("#e0f0ff"),
		Floor:  lipgloss.Color("#4488aa"),
		Title:  lipgloss.Color("#00a8cc"),
		Accent: lipgloss.Color("#ffd700"),
		Text:   lipgloss.Color("#e0f0ff"),
		Muted:  lipgloss.Color("#4488aa"),
		High:   lipgloss.Color("#00ff88"),
		Mid:    lipgloss.Color("#ffcc00"),
		Low:    lipgloss.Color("#ff4444"),
	}

	ThemeSunset = Theme{
		Name:   "sunset",
		Body:   lipgloss.Color("#feca57"),
		Floor:  lipgloss.Color("#8b6b8c"),
		Title:  lipgloss.Color("#ff6b6b"),
		Accent: lipgloss.Color("#ff9ff3"),
		Text:   lipgloss.Color("#fff5f5"),
		Muted:  lipgloss.Color("#8b6b8c"),
		High:   lipgloss.Color("#5fd068"),
		Mid:    lipgloss.Color("#ffc048"),
		Low:    lipgloss.Color("#ff4757"),
	}

	CurrentTheme = ThemeChalk

	Themes = []Theme{
		ThemeChalk,
		ThemeRetro,
		ThemeBlueprint,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to chalk.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeChalk
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	names := ThemeNames()
	for i, name := range names {
		if name == CurrentTheme.Name {
			SetTheme(names[(i+1)%len(names)])
			return
		}
	}
	SetTheme(names[0])
}
