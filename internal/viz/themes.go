package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/stepsim/internal/response"
)

// Theme defines color scheme for the TUI
type Theme struct {
	Name   string
	Title  lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Accent lipgloss.Color
	Border lipgloss.Color
	Button lipgloss.Color

	Series map[response.Signal]asciigraph.AnsiColor
}

var (
	ThemeDark = Theme{
		Name:   "dark",
		Title:  lipgloss.Color("#00cccc"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#666688"),
		Accent: lipgloss.Color("#ff88ff"),
		Border: lipgloss.Color("#444466"),
		Button: lipgloss.Color("#00aa00"),
		Series: map[response.Signal]asciigraph.AnsiColor{
			response.SignalReference: asciigraph.White,
			response.SignalOutput:    asciigraph.Blue,
			response.SignalError:     asciigraph.Red,
			response.SignalFeedback:  asciigraph.Green,
			response.SignalRate:      asciigraph.Yellow,
		},
	}

	ThemeLight = Theme{
		Name:   "light",
		Title:  lipgloss.Color("#005f87"),
		Text:   lipgloss.Color("#000000"),
		Muted:  lipgloss.Color("#808080"),
		Accent: lipgloss.Color("#af005f"),
		Border: lipgloss.Color("#bcbcbc"),
		Button: lipgloss.Color("#008700"),
		Series: map[response.Signal]asciigraph.AnsiColor{
			response.SignalReference: asciigraph.Black,
			response.SignalOutput:    asciigraph.Blue,
			response.SignalError:     asciigraph.Red,
			response.SignalFeedback:  asciigraph.Green,
			response.SignalRate:      asciigraph.Olive,
		},
	}

	Themes = []Theme{ThemeDark, ThemeLight}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDark
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
