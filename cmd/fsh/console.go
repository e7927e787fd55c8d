package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"ferret/cmd/ferret/ui"
	"ferret/internal/config"
	"ferret/internal/console"
)

// consoleModel is the bubbletea model for the fsh prototype: one scrollback
// viewport over the interpreter output plus an input line with history.
type consoleModel struct {
	interp *console.Interpreter
	styles ui.Styles

	input  textinput.Model
	output viewport.Model
	lines  []string

	width  int
	height int
	ready  bool

	quitting bool
}

func newConsoleModel(cfg *config.Config, startDir string) *consoleModel {
	if startDir == "" {
		startDir, _ = os.Getwd()
	}
	styles := ui.NewStyles(ui.ThemeFromName(cfg.UI.Theme))

	input := textinput.New()
	input.Prompt = styles.Prompt.Render("fsh> ")
	input.CharLimit = 512

	m := &consoleModel{
		interp: console.NewInterpreter(startDir),
		styles: styles,
		input:  input,
	}
	m.lines = []string{
		styles.Title.Render("fsh - ferret command console"),
		styles.Muted.Render("type 'help' for commands, ctrl+d to quit"),
		"",
	}
	return m
}

func (m *consoleModel) Init() tea.Cmd {
	return m.input.Focus()
}

func (m *consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		outHeight := m.height - 3
		if outHeight < 3 {
			outHeight = 3
		}
		if !m.ready {
			m.output = viewport.New(m.width, outHeight)
			m.ready = true
		} else {
			m.output.Width = m.width
			m.output.Height = outHeight
		}
		m.input.Width = m.width - 8
		m.refreshOutput()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d":
			m.quitting = true
			return m, tea.Quit

		case "up":
			m.input.SetValue(m.interp.History().Prev())
			m.input.CursorEnd()
			return m, nil

		case "down":
			m.input.SetValue(m.interp.History().Next())
			m.input.CursorEnd()
			return m, nil

		case "pgup":
			m.output.HalfViewUp()
			return m, nil

		case "pgdown":
			m.output.HalfViewDown()
			return m, nil

		case "enter":
			m.execute(strings.TrimSpace(m.input.Value()))
			m.input.SetValue("")
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *consoleModel) execute(line string) {
	if line == "" {
		return
	}
	m.lines = append(m.lines, m.styles.Prompt.Render("fsh> ")+m.styles.UserInput.Render(line))

	res := m.interp.Execute(line)
	if res.OK && res.Message == "CLEAR" {
		m.lines = nil
		m.refreshOutput()
		return
	}

	m.lines = append(m.lines, res.Output...)
	if res.Message != "" {
		if res.OK {
			m.lines = append(m.lines, m.styles.Muted.Render(res.Message))
		} else {
			m.lines = append(m.lines, m.styles.Error.Render(res.Message))
		}
	}
	m.lines = append(m.lines, "")
	m.refreshOutput()
}

func (m *consoleModel) refreshOutput() {
	if !m.ready {
		return
	}
	m.output.SetContent(strings.Join(m.lines, "\n"))
	m.output.GotoBottom()
}

func (m *consoleModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "starting..."
	}
	header := m.styles.Header.Width(m.width).Render("fsh  " + m.interp.Dir())
	footer := m.styles.Footer.Render(fmt.Sprintf("%d command(s) in history", m.interp.History().Len()))
	return header + "\n" + m.output.View() + "\n" + m.input.View() + "\n" + footer
}
