package explorer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"ferret/internal/llm"
	"ferret/internal/logging"
	"ferret/internal/terminal"
)

// timeRound trims assistant latency for the status line.
const timeRound = 10 * time.Millisecond

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modePrompt:
			return m.updatePrompt(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateBrowse(msg)
		}

	case dirLoadedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Cannot open %s: %v", msg.dir, msg.err), true)
			return m, nil
		}
		m.browser.setListing(msg.dir, msg.entries)
		if m.watch != nil {
			if err := m.watch.SetDir(msg.dir); err != nil {
				logging.Watcher("rewatch %s: %v", msg.dir, err)
			}
		}
		return m, m.previewCurrent()

	case previewMsg:
		// Stale previews arrive after fast cursor movement; drop them.
		if cur := m.browser.current(); cur == nil || cur.Path != msg.path {
			return m, nil
		}
		m.previewPath = msg.path
		m.fileInfo = msg.info
		m.record = msg.record
		if m.ready {
			m.previewPane.SetContent(m.renderPreviewContent(msg))
			m.previewPane.GotoTop()
		}
		return m, nil

	case llmHealthMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Assistant offline: %v", msg.err), true)
		} else if !msg.modelAvailable {
			m.setStatus(fmt.Sprintf("Assistant online, but model %q is not installed", m.cfg.LLM.Model), true)
		} else {
			m.setStatus(fmt.Sprintf("Assistant ready (%s)", m.cfg.LLM.Model), false)
		}
		return m, nil

	case llmOutcomeMsg:
		return m.handleLLMOutcome(msg.outcome)

	case terminalEventMsg:
		m.handleTerminalEvent(msg.event)
		cmds := []tea.Cmd{m.waitTerminalEvent()}
		if msg.event.Kind == terminal.EventDirChanged {
			cmds = append(cmds, loadDirCmd(msg.event.Dir, m.browser.showHidden))
		}
		return m, tea.Batch(cmds...)

	case watchRefreshMsg:
		cmds := []tea.Cmd{m.waitWatchEvent()}
		if msg.dir == m.browser.dir {
			cmds = append(cmds, loadDirCmd(m.browser.dir, m.browser.showHidden))
		}
		return m, tea.Batch(cmds...)

	case tagSearchMsg:
		if msg.err != nil {
			m.setStatus("Tag search failed: "+msg.err.Error(), true)
			return m, nil
		}
		if len(msg.paths) == 0 {
			m.setStatus(fmt.Sprintf("No files tagged %q", msg.tag), false)
			return m, nil
		}
		found := m.browser.selectPaths(msg.paths)
		m.setStatus(fmt.Sprintf("%d file(s) tagged %q, %d visible here", len(msg.paths), msg.tag, found), false)
		return m, m.previewCurrent()

	case statusMsg:
		m.setStatus(msg.text, msg.isErr)
		return m, nil

	case spinner.TickMsg:
		if !m.llmBusy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

// ===== BROWSE MODE =====

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {

	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "tab":
		m.focusedPane = (m.focusedPane + 1) % 3
		return m, nil

	case "up", "k":
		if m.focusedPane != focusBrowser {
			return m.scrollFocused(-1)
		}
		m.browser.moveCursor(-1)
		return m, m.previewCurrent()

	case "down", "j":
		if m.focusedPane != focusBrowser {
			return m.scrollFocused(1)
		}
		m.browser.moveCursor(1)
		return m, m.previewCurrent()

	case "g":
		m.browser.cursor = 0
		return m, m.previewCurrent()

	case "G":
		m.browser.cursor = len(m.browser.entries) - 1
		if m.browser.cursor < 0 {
			m.browser.cursor = 0
		}
		return m, m.previewCurrent()

	case "enter", "l", "right":
		if e := m.browser.current(); e != nil && e.IsDir {
			return m, loadDirCmd(e.Path, m.browser.showHidden)
		}
		return m, nil

	case "backspace", "h", "left":
		parent := filepath.Dir(m.browser.dir)
		if parent == m.browser.dir {
			return m, nil
		}
		return m, loadDirCmd(parent, m.browser.showHidden)

	case " ":
		m.browser.toggleSelect()
		m.browser.moveCursor(1)
		return m, m.previewCurrent()

	case "esc":
		m.browser.clearSelection()
		m.setStatus("", false)
		return m, nil

	case ".":
		m.browser.showHidden = !m.browser.showHidden
		return m, loadDirCmd(m.browser.dir, m.browser.showHidden)

	case "ctrl+r", "f5":
		return m, loadDirCmd(m.browser.dir, m.browser.showHidden)

	case "c":
		paths := m.browser.selectedPaths()
		m.ops.CopyToClipboard(paths)
		m.setStatus(fmt.Sprintf("Copied %d item(s) to clipboard", len(paths)), false)
		return m, nil

	case "x":
		paths := m.browser.selectedPaths()
		m.ops.CutToClipboard(paths)
		m.setStatus(fmt.Sprintf("Cut %d item(s) to clipboard", len(paths)), false)
		return m, nil

	case "v":
		return m.startPaste()

	case "d":
		return m.startDelete()

	case "r":
		e := m.browser.current()
		if e == nil {
			return m, nil
		}
		return m.openPrompt(promptRename, "New name for "+e.Name, e.Name)

	case "n":
		return m.openPrompt(promptNewFile, "New file name", "")

	case "N":
		return m.openPrompt(promptNewFolder, "New folder name", "")

	case "t":
		if m.browser.current() == nil {
			return m, nil
		}
		initial := ""
		if m.record != nil {
			initial = strings.Join(m.record.Tags, ", ")
		}
		return m.openPrompt(promptTags, "Tags (comma separated)", initial)

	case "o":
		if m.browser.current() == nil {
			return m, nil
		}
		initial := ""
		if m.record != nil {
			initial = m.record.Notes
		}
		return m.openPrompt(promptNotes, "Notes", initial)

	case "s":
		return m.openPrompt(promptSearchTag, "Search files by tag", "")

	case "/":
		return m.openPrompt(promptAssistant, "Ask the assistant", "")

	case "!":
		return m.openPrompt(promptTerminal, "Shell command", "")
	}

	return m, nil
}

func (m *Model) scrollFocused(delta int) (tea.Model, tea.Cmd) {
	pane := &m.previewPane
	if m.focusedPane == focusOutput {
		pane = &m.outputPane
	}
	if delta > 0 {
		pane.LineDown(delta)
	} else {
		pane.LineUp(-delta)
	}
	return m, nil
}

func (m *Model) previewCurrent() tea.Cmd {
	e := m.browser.current()
	if e == nil {
		m.previewPath = ""
		m.fileInfo = nil
		m.record = nil
		if m.ready {
			m.previewPane.SetContent("")
		}
		return nil
	}
	return m.previewCmd(e.Path)
}

// ===== PROMPT MODE =====

func (m *Model) openPrompt(kind promptKind, placeholder, initial string) (tea.Model, tea.Cmd) {
	m.mode = modePrompt
	m.promptKind = kind
	m.input.Placeholder = placeholder
	m.input.SetValue(initial)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m *Model) closePrompt() {
	m.mode = modeBrowse
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePrompt()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		kind := m.promptKind
		m.closePrompt()
		return m.submitPrompt(kind, value)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submitPrompt(kind promptKind, value string) (tea.Model, tea.Cmd) {
	switch kind {

	case promptRename:
		e := m.browser.current()
		if e == nil || value == "" {
			return m, nil
		}
		if value == e.Name {
			m.setStatus("No change in name.", false)
			return m, nil
		}
		oldPath, oldName := e.Path, e.Name
		return m.openConfirm("Rename",
			fmt.Sprintf("Rename '%s' to '%s'?", oldName, value),
			func(m *Model) tea.Cmd {
				if _, err := m.ops.RenameItem(oldPath, value); err != nil {
					m.setStatus(err.Error(), true)
					return nil
				}
				m.setStatus("Renamed to "+value, false)
				return loadDirCmd(m.browser.dir, m.browser.showHidden)
			})

	case promptNewFile:
		if value == "" {
			return m, nil
		}
		if _, err := m.ops.CreateFile(m.browser.dir, value); err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.setStatus("Created file "+value, false)
		return m, loadDirCmd(m.browser.dir, m.browser.showHidden)

	case promptNewFolder:
		if value == "" {
			return m, nil
		}
		if _, err := m.ops.CreateFolder(m.browser.dir, value); err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.setStatus("Created folder "+value, false)
		return m, loadDirCmd(m.browser.dir, m.browser.showHidden)

	case promptTags, promptNotes:
		return m.saveMetadata(kind, value)

	case promptSearchTag:
		if value == "" {
			return m, nil
		}
		return m, m.searchTagCmd(value)

	case promptAssistant:
		if value == "" {
			return m, nil
		}
		return m.submitAssistant(value)

	case promptTerminal:
		if value == "" {
			return m, nil
		}
		m.session.Run(value)
		return m, nil
	}
	return m, nil
}

func (m *Model) saveMetadata(kind promptKind, value string) (tea.Model, tea.Cmd) {
	e := m.browser.current()
	if e == nil {
		return m, nil
	}
	tags := []string{}
	notes := ""
	if m.record != nil {
		tags = m.record.Tags
		notes = m.record.Notes
	}
	if kind == promptTags {
		tags = nil
		for _, t := range strings.Split(value, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	} else {
		notes = value
	}
	if m.store == nil {
		m.setStatus("Metadata store unavailable; not saved", true)
		return m, nil
	}
	if err := m.store.Save(e.Path, tags, notes); err != nil {
		m.setStatus("Cannot save metadata: "+err.Error(), true)
		return m, nil
	}
	m.setStatus("Metadata saved", false)
	return m, m.previewCmd(e.Path)
}

// ===== CONFIRM MODE =====

func (m *Model) openConfirm(title, message string, accept func(*Model) tea.Cmd) (tea.Model, tea.Cmd) {
	m.mode = modeConfirm
	m.confirm = confirmState{title: title, message: message, accept: accept}
	return m, nil
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		accept := m.confirm.accept
		m.mode = modeBrowse
		m.confirm = confirmState{}
		if accept == nil {
			return m, nil
		}
		// The staged answer is live only while the accept action runs,
		// so a later unprompted Confirm call from the service declines.
		m.confirmAnswer = true
		cmd := accept(m)
		m.confirmAnswer = false
		return m, cmd
	case "n", "N", "esc":
		m.mode = modeBrowse
		m.confirm = confirmState{}
		m.confirmAnswer = false
		m.setStatus("Cancelled", false)
		return m, nil
	}
	return m, nil
}

func (m *Model) startDelete() (tea.Model, tea.Cmd) {
	paths := m.browser.selectedPaths()
	if len(paths) == 0 {
		return m, nil
	}
	return m.openConfirm("Delete",
		fmt.Sprintf("Delete %d item(s)? This cannot be undone.", len(paths)),
		func(m *Model) tea.Cmd {
			res := m.ops.DeleteItems(paths)
			m.setStatus(res.Message("delete"), !res.OK())
			m.browser.clearSelection()
			return loadDirCmd(m.browser.dir, m.browser.showHidden)
		})
}

func (m *Model) startPaste() (tea.Model, tea.Cmd) {
	if !m.ops.CanPaste() {
		m.setStatus("Clipboard is empty", true)
		return m, nil
	}
	_, paths := m.ops.ClipboardContents()
	collisions := 0
	for _, p := range paths {
		if _, err := os.Stat(filepath.Join(m.browser.dir, filepath.Base(p))); err == nil {
			collisions++
		}
	}

	doPaste := func(m *Model) tea.Cmd {
		res := m.ops.PasteFromClipboard(m.browser.dir)
		m.setStatus(res.Message("paste"), !res.OK())
		return loadDirCmd(m.browser.dir, m.browser.showHidden)
	}

	// With no collisions up front the paste runs unconfirmed; should a
	// collision appear between the scan and the paste, the service asks
	// its Confirmer, the staged answer is still false, and the item is
	// skipped rather than silently overwritten.
	if collisions == 0 {
		return m, doPaste(m)
	}
	return m.openConfirm("Overwrite",
		fmt.Sprintf("%d item(s) already exist in %s. Overwrite?", collisions, m.browser.dir),
		doPaste)
}

// ===== ASSISTANT =====

func (m *Model) submitAssistant(command string) (tea.Model, tea.Cmd) {
	req := llm.Request{
		Command:    command,
		CurrentDir: m.browser.dir,
		Selected:   m.browser.selectedPaths(),
	}
	outcomes, err := m.worker.Submit(context.Background(), req)
	if err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}
	m.llmBusy = true
	m.appendOutput(m.styles.Prompt.Render("? ")+command, "")
	return m, tea.Batch(
		m.spin.Tick,
		func() tea.Msg { return llmOutcomeMsg{outcome: <-outcomes} },
	)
}

func (m *Model) handleLLMOutcome(out llm.Outcome) (tea.Model, tea.Cmd) {
	m.llmBusy = false
	if out.Err != nil {
		m.setStatus("Assistant: "+out.Err.Error(), true)
		m.appendOutput(m.styles.Error.Render(out.Err.Error()), "")
		return m, nil
	}

	for _, line := range strings.Split(strings.TrimSpace(out.Response), "\n") {
		m.appendOutput(m.styles.LLMResponse.Render(line))
	}
	m.appendOutput("")
	m.setStatus(fmt.Sprintf("Assistant answered in %s", out.Elapsed.Round(timeRound)), false)

	if out.Parsed.HasSelection() {
		found := m.browser.selectPaths(out.Parsed.FoundFiles)
		m.setStatus(fmt.Sprintf("Assistant found %d file(s), %d visible here", len(out.Parsed.FoundFiles), found), false)
	}

	if len(out.Parsed.Commands) > 0 {
		commands := out.Parsed.Commands
		return m.openConfirm("Run commands",
			fmt.Sprintf("Run %d suggested command(s) in the terminal?\n%s",
				len(commands), strings.Join(commands, "\n")),
			func(m *Model) tea.Cmd {
				m.session.RunAll(commands)
				return nil
			})
	}
	return m, nil
}

// ===== TERMINAL =====

func (m *Model) handleTerminalEvent(e terminal.Event) {
	switch e.Kind {
	case terminal.EventEcho:
		m.appendOutput(m.styles.Prompt.Render("$ ") + e.Line)
	case terminal.EventStdout:
		m.appendOutput(m.styles.TerminalLine.Render(e.Line))
	case terminal.EventStderr:
		m.appendOutput(m.styles.Warning.Render(e.Line))
	case terminal.EventError:
		m.appendOutput(m.styles.Error.Render(e.Line))
	case terminal.EventExit:
		if e.ExitCode != 0 {
			m.appendOutput(m.styles.Error.Render(fmt.Sprintf("[exit %d]", e.ExitCode)), "")
		} else {
			m.appendOutput("")
		}
	case terminal.EventDirChanged:
		m.appendOutput(m.styles.Info.Render("cd " + e.Dir))
	}
}
