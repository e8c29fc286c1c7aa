package viz

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	focused lipgloss.Style
	muted   lipgloss.Style
	on      lipgloss.Style
	off     lipgloss.Style
	button  lipgloss.Style
	panel   lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Title).
			MarginBottom(1),
		label: lipgloss.NewStyle().
			Foreground(t.Muted).
			Width(16),
		value: lipgloss.NewStyle().
			Foreground(t.Text),
		focused: lipgloss.NewStyle().
			Foreground(t.Accent).
			Bold(true),
		muted: lipgloss.NewStyle().
			Foreground(t.Muted),
		on: lipgloss.NewStyle().
			Foreground(t.Button).
			Bold(true),
		off: lipgloss.NewStyle().
			Foreground(t.Muted),
		button: lipgloss.NewStyle().
			Foreground(t.Text).
			Background(t.Button).
			Padding(0, 2).
			MarginTop(1),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
	}
}
