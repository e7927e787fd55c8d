// Package explorer implements the bubbletea model for the ferret manager
// TUI: a browser pane, a preview/metadata pane, and an output pane shared
// by the assistant and the embedded terminal.
package explorer

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"ferret/cmd/ferret/ui"
	"ferret/internal/config"
	"ferret/internal/fileops"
	"ferret/internal/llm"
	"ferret/internal/logging"
	"ferret/internal/metadata"
	"ferret/internal/preview"
	"ferret/internal/terminal"
	"ferret/internal/watcher"
)

// mode is the model's input mode.
type mode int

const (
	modeBrowse mode = iota
	modePrompt
	modeConfirm
)

// promptKind says what the text prompt is collecting.
type promptKind int

const (
	promptRename promptKind = iota
	promptNewFile
	promptNewFolder
	promptTags
	promptNotes
	promptSearchTag
	promptAssistant
	promptTerminal
)

// focus identifies which pane receives scroll keys.
type focus int

const (
	focusBrowser focus = iota
	focusPreview
	focusOutput
)

// Model is the root bubbletea model for the manager TUI.
type Model struct {
	cfg    *config.Config
	styles ui.Styles

	browser browserState
	preview *preview.Generator

	ops     *fileops.Service
	store   *metadata.Store
	client  *llm.Client
	worker  *llm.Worker
	session *terminal.Session
	watch   *watcher.DirWatcher

	// Channels bridging service callbacks into bubbletea messages.
	termCh  chan terminal.Event
	watchCh chan string

	mode       mode
	promptKind promptKind
	input      textinput.Model
	confirm    confirmState

	// confirmAnswer is true only while the accept action of a confirm
	// dialog runs; the service Confirmer reads it. It is reset as soon
	// as the accept action returns.
	confirmAnswer bool

	focusedPane focus

	previewPane viewport.Model
	outputPane  viewport.Model
	outputLines []string
	spin        spinner.Model
	llmBusy     bool

	// Current preview/metadata for the cursor entry.
	previewPath string
	fileInfo    *metadata.FileInfo
	record      *metadata.Record

	status    string
	statusErr bool

	width  int
	height int
	ready  bool

	quitting bool
}

// confirmState is a pending yes/no question with its commit action.
type confirmState struct {
	title   string
	message string
	accept  func(m *Model) tea.Cmd
}

// New assembles the model and its services.
func New(cfg *config.Config, startDir string) (*Model, error) {
	if startDir == "" {
		var err error
		startDir, err = os.Getwd()
		if err != nil {
			startDir = config.DefaultDataDir()
		}
	}

	styles := ui.NewStyles(ui.ThemeFromName(cfg.UI.Theme))

	store, err := metadata.Open(cfg.MetadataDBPath(config.DefaultDataDir()))
	if err != nil {
		// Metadata persistence is optional; browsing must still work.
		logging.Store("metadata store unavailable: %v", err)
		store = nil
	}

	client := llm.NewClient(llm.Options{
		Endpoint:    cfg.LLM.Endpoint,
		Model:       cfg.LLM.Model,
		Timeout:     time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
		Temperature: cfg.LLM.Temperature,
		NumCtx:      cfg.LLM.NumCtx,
	})

	m := &Model{
		cfg:     cfg,
		styles:  styles,
		browser: newBrowserState(startDir),
		preview: preview.NewGenerator(60, styles.Theme.IsDark),
		store:   store,
		client:  client,
		worker:  llm.NewWorker(client),
		termCh:  make(chan terminal.Event, 64),
		watchCh: make(chan string, 8),
		input:   textinput.New(),
	}

	m.wireOps()

	m.session = terminal.NewSession(cfg.Terminal.Shell, startDir, terminal.NotifierFunc(func(e terminal.Event) {
		select {
		case m.termCh <- e:
		default:
			logging.Terminal("dropping terminal event, channel full")
		}
	}))

	if w, err := watcher.New(startDir, func(dir string) {
		select {
		case m.watchCh <- dir:
		default:
		}
	}); err == nil {
		m.watch = w
	} else {
		logging.Watcher("directory watching disabled: %v", err)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner
	m.spin = sp

	m.input.Prompt = styles.Prompt.Render("> ")
	m.input.CharLimit = 512

	return m, nil
}

// wireOps builds the file-operation service. Its Confirmer reads the
// answer staged by the confirm dialog, which holds true only while a
// confirmed operation runs; any Confirm call outside that window is a
// decline.
func (m *Model) wireOps() {
	m.ops = fileops.NewService(fileops.ConfirmFunc(func(title, message string) bool {
		return m.confirmAnswer
	}))
}

// Init starts the watcher, the terminal/watch listeners, and the LLM
// health probe.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		loadDirCmd(m.browser.dir, m.browser.showHidden),
		m.waitTerminalEvent(),
		m.healthProbeCmd(),
		m.spin.Tick,
	}
	if m.watch != nil {
		if err := m.watch.Start(context.Background()); err == nil {
			cmds = append(cmds, m.waitWatchEvent())
		}
	}
	return tea.Batch(cmds...)
}

// Shutdown stops background services; called after the program exits.
func (m *Model) Shutdown() {
	if m.watch != nil {
		m.watch.Stop()
	}
	m.session.Shutdown(2 * time.Second)
	m.worker.Shutdown(2 * time.Second)
	if m.store != nil {
		if err := m.store.Close(); err != nil {
			logging.Store("close: %v", err)
		}
	}
}

// waitTerminalEvent blocks on the terminal channel and re-arms after each
// message.
func (m *Model) waitTerminalEvent() tea.Cmd {
	return func() tea.Msg {
		return terminalEventMsg{event: <-m.termCh}
	}
}

func (m *Model) waitWatchEvent() tea.Cmd {
	return func() tea.Msg {
		return watchRefreshMsg{dir: <-m.watchCh}
	}
}

func (m *Model) healthProbeCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		available, err := client.HealthCheck(ctx)
		return llmHealthMsg{modelAvailable: available, err: err}
	}
}

// previewCmd renders preview and metadata for a path off the event loop.
func (m *Model) previewCmd(path string) tea.Cmd {
	gen := m.preview
	store := m.store
	return func() tea.Msg {
		msg := previewMsg{path: path}
		msg.preview = gen.Generate(path)
		if info, err := metadata.Inspect(path); err == nil {
			msg.info = info
		}
		if rec, err := store.Get(path); err == nil {
			msg.record = rec
		} else {
			logging.Store("get %s: %v", path, err)
		}
		return msg
	}
}

// searchTagCmd queries the metadata store for paths carrying tag.
func (m *Model) searchTagCmd(tag string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		paths, err := store.SearchTag(tag)
		return tagSearchMsg{tag: tag, paths: paths, err: err}
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
	if isErr {
		logging.UI("status error: %s", text)
	}
}

func (m *Model) appendOutput(lines ...string) {
	m.outputLines = append(m.outputLines, lines...)
	const maxLines = 2000
	if len(m.outputLines) > maxLines {
		m.outputLines = m.outputLines[len(m.outputLines)-maxLines:]
	}
	if m.ready {
		m.outputPane.SetContent(strings.Join(m.outputLines, "\n"))
		m.outputPane.GotoBottom()
	}
}

func (m *Model) statusLine() string {
	if m.status != "" {
		if m.statusErr {
			return m.styles.Error.Render(m.status)
		}
		return m.styles.Success.Render(m.status)
	}
	if action, paths := m.ops.ClipboardContents(); len(paths) > 0 {
		return m.styles.Muted.Render(fmt.Sprintf("clipboard: %d item(s) (%s)", len(paths), action))
	}
	return m.styles.Muted.Render("tab: focus  space: select  c/x/v: copy/cut/paste  d: delete  r: rename  s: tag search  /: ask  !: shell  q: quit")
}
