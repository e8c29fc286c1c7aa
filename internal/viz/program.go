package viz

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/stepsim/internal/app"
)

// Model is the Bubble Tea program of the interactive lab. Every key press is
// turned into an app.Command; the chart frame is replaced only when the
// command succeeds.
type Model struct {
	state  *app.State
	chart  *ChartRenderer
	styles styles
	frame  string
	width  int
	height int
}

// NewModel builds the model and draws the first chart from the configured
// defaults. Invalid defaults leave the chart area empty until a valid
// simulate.
func NewModel(state *app.State, chart *ChartRenderer) *Model {
	m := &Model{
		state:  state,
		chart:  chart,
		styles: newStyles(chart.Theme),
	}
	if frame, ok := app.Dispatch(state, app.Simulate(), chart); ok {
		m.frame = frame
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.state
	switch msg.String() {
	case "ctrl+c", "esc", "q":
		return m, tea.Quit
	case " ", "enter":
		m.dispatch(app.Simulate())
	case "f1", "alt+1":
		m.dispatch(app.Command{Kind: app.CmdToggleReference})
	case "f2", "alt+2":
		m.dispatch(app.Command{Kind: app.CmdToggleOutput})
	case "f3", "alt+3":
		m.dispatch(app.Command{Kind: app.CmdToggleError})
	case "f4", "alt+4":
		m.dispatch(app.Command{Kind: app.CmdToggleFeedback})
	case "ctrl+r":
		m.dispatch(app.Reset())
	case "tab", "down":
		m.moveFocus(1)
	case "shift+tab", "up":
		m.moveFocus(-1)
	case "backspace":
		text := s.Inputs[s.Focus]
		if text != "" {
			runes := []rune(text)
			_ = s.Update(app.SetField(s.Focus, string(runes[:len(runes)-1])))
		}
	case "ctrl+u":
		_ = s.Update(app.SetField(s.Focus, ""))
	default:
		if msg.Type == tea.KeyRunes && numericRunes(msg.Runes) {
			_ = s.Update(app.SetField(s.Focus, s.Inputs[s.Focus]+string(msg.Runes)))
		}
	}
	return m, nil
}

func (m *Model) dispatch(cmd app.Command) {
	if frame, ok := app.Dispatch(m.state, cmd, m.chart); ok {
		m.frame = frame
	}
}

func (m *Model) moveFocus(delta int) {
	n := len(app.Fields())
	next := (int(m.state.Focus) + delta + n) % n
	_ = m.state.Update(app.Focus(app.Field(next)))
}

func numericRunes(rs []rune) bool {
	for _, r := range rs {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == '-', r == '+', r == 'e', r == 'E':
		default:
			return false
		}
	}
	return len(rs) > 0
}

// Frame returns the last successfully rendered chart.
func (m *Model) Frame() string {
	return m.frame
}

func (m *Model) View() string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.panel.Render(m.formView()),
		"  ",
		m.frame,
	)
}

func (m *Model) formView() string {
	s := m.state
	st := m.styles
	var b strings.Builder

	b.WriteString(st.title.Render("STEP RESPONSE"))
	b.WriteString("\n")
	for _, f := range app.Fields() {
		cursor := "  "
		value := st.value.Render(s.Inputs[f])
		if f == s.Focus {
			cursor = st.focused.Render("▸ ")
			value = st.focused.Render(s.Inputs[f] + "_")
		}
		b.WriteString(cursor + st.label.Render(f.Label()) + value + "\n")
	}

	b.WriteString("\n")
	toggles := []struct {
		key string
		on  bool
		sig string
	}{
		{"F1", s.Toggles.Reference, "reference"},
		{"F2", s.Toggles.Output, "output"},
		{"F3", s.Toggles.Error, "error"},
		{"F4", s.Toggles.Feedback, "feedback"},
	}
	for _, t := range toggles {
		box := st.off.Render("[ ]")
		if t.on {
			box = st.on.Render("[x]")
		}
		b.WriteString(st.muted.Render(t.key+" ") + box + " " + t.sig + "\n")
	}

	b.WriteString(st.button.Render("Update (space)"))
	b.WriteString("\n\n")
	b.WriteString(st.muted.Render("tab: field  ctrl+r: reset  q: quit"))
	return b.String()
}

// Run starts the interactive program on the alternate screen.
func Run(state *app.State, chart *ChartRenderer) error {
	p := tea.NewProgram(NewModel(state, chart), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
