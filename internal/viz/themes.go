package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// Theme defines the color scheme for the TUI. Series colors are assigned
// to populations by index, wrapping around.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Running   lipgloss.Color
	Stopped   lipgloss.Color
	Error     lipgloss.Color
	Series    []asciigraph.AnsiColor
}

var (
	ThemeMeadow = Theme{
		Name:      "meadow",
		Primary:   lipgloss.Color("#7ddf64"),
		Secondary: lipgloss.Color("#c0f5a0"),
		Accent:    lipgloss.Color("#ffd166"),
		Text:      lipgloss.Color("#f1faee"),
		Muted:     lipgloss.Color("#5c7a5c"),
		Running:   lipgloss.Color("#00ff88"),
		Stopped:   lipgloss.Color("#ffaa00"),
		Error:     lipgloss.Color("#ff4444"),
		Series:    []asciigraph.AnsiColor{asciigraph.Green, asciigraph.Yellow, asciigraph.Cyan, asciigraph.Red, asciigraph.Magenta, asciigraph.Blue},
	}

	ThemeTundra = Theme{
		Name:      "tundra",
		Primary:   lipgloss.Color("#a8dadc"),
		Secondary: lipgloss.Color("#e0f0ff"),
		Accent:    lipgloss.Color("#457b9d"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#6b8a99"),
		Running:   lipgloss.Color("#90e0ef"),
		Stopped:   lipgloss.Color("#caf0f8"),
		Error:     lipgloss.Color("#ff6b6b"),
		Series:    []asciigraph.AnsiColor{asciigraph.Cyan, asciigraph.White, asciigraph.Blue, asciigraph.Magenta},
	}

	ThemeReef = Theme{
		Name:      "reef",
		Primary:   lipgloss.Color("#0077be"),
		Secondary: lipgloss.Color("#00a8cc"),
		Accent:    lipgloss.Color("#ff7f50"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Running:   lipgloss.Color("#00ff88"),
		Stopped:   lipgloss.Color("#ffcc00"),
		Error:     lipgloss.Color("#ff4444"),
		Series:    []asciigraph.AnsiColor{asciigraph.Blue, asciigraph.Red, asciigraph.Cyan, asciigraph.Yellow},
	}

	ThemeDusk = Theme{
		Name:      "dusk",
		Primary:   lipgloss.Color("#ff6b6b"),
		Secondary: lipgloss.Color("#feca57"),
		Accent:    lipgloss.Color("#ff9ff3"),
		Text:      lipgloss.Color("#fff5f5"),
		Muted:     lipgloss.Color("#8b6b8c"),
		Running:   lipgloss.Color("#5fd068"),
		Stopped:   lipgloss.Color("#ffc048"),
		Error:     lipgloss.Color("#ff4757"),
		Series:    []asciigraph.AnsiColor{asciigraph.Red, asciigraph.Yellow, asciigraph.Magenta, asciigraph.Green},
	}

	ThemeMono = Theme{
		Name:      "mono",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Running:   lipgloss.Color("#ffffff"),
		Stopped:   lipgloss.Color("#888888"),
		Error:     lipgloss.Color("#ff0000"),
		Series:    []asciigraph.AnsiColor{asciigraph.Default},
	}

	CurrentTheme = ThemeMeadow

	Themes = []Theme{
		ThemeMeadow,
		ThemeTundra,
		ThemeReef,
		ThemeDusk,
		ThemeMono,
	}
)

// GetTheme returns a theme by name, falling back to the first theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
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

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// SeriesColor is the chart color for population i.
func (t Theme) SeriesColor(i int) asciigraph.AnsiColor {
	if len(t.Series) == 0 {
		return asciigraph.Default
	}
	return t.Series[i%len(t.Series)]
}
