// Package terminal runs shell commands for the embedded terminal pane.
// Commands are queued and executed strictly sequentially, one OS process at
// a time; stdout and stderr are streamed to an observer as line events.
// "cd" is intercepted before spawning so the session's working directory
// stays in sync with the GUI.
package terminal

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"ferret/internal/logging"
)

// EventKind classifies a session event.
type EventKind int

const (
	// EventStdout is one line of process standard output.
	EventStdout EventKind = iota
	// EventStderr is one line of process standard error.
	EventStderr
	// EventExit reports a finished process with its exit code.
	EventExit
	// EventError reports a session-level failure (start error, bad cd).
	EventError
	// EventDirChanged reports a successful cd with the new directory.
	EventDirChanged
	// EventEcho repeats the command being started, for display.
	EventEcho
)

// Event is one observer notification from the session.
type Event struct {
	Kind     EventKind
	Line     string
	ExitCode int
	Dir      string
}

// Notifier receives session events. Calls arrive from the session's worker
// goroutine; implementations must be safe for that.
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Event)

// Notify implements Notifier.
func (f NotifierFunc) Notify(e Event) { f(e) }

// Session owns the embedded terminal state: shell choice, tracked working
// directory and the sequential command queue.
type Session struct {
	program string
	flag    string

	mu      sync.Mutex
	cwd     string
	queue   []string
	running bool
	proc    *exec.Cmd

	notify Notifier
}

// NewSession creates a session rooted at startDir (home when empty) using
// the given shell override (auto-detected when empty).
func NewSession(shellOverride, startDir string, notify Notifier) *Session {
	program, flag := DetectShell(shellOverride)
	if startDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			startDir = home
		} else {
			startDir = "/"
		}
	}
	logging.Terminal("Session shell: %s %s, start dir: %s", program, flag, startDir)
	if notify == nil {
		notify = NotifierFunc(func(Event) {})
	}
	return &Session{
		program: program,
		flag:    flag,
		cwd:     filepath.Clean(startDir),
		notify:  notify,
	}
}

// Dir returns the tracked working directory.
func (s *Session) Dir() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cwd
}

// Busy reports whether a process is running or commands are queued.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running || len(s.queue) > 0
}

// SetDir changes the tracked working directory from outside (GUI sync).
// The target must be an existing, readable directory.
func (s *Session) SetDir(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		logging.Get(logging.CategoryTerminal).Warn("Rejecting external cwd change to %s", path)
		return fmt.Errorf("cannot change directory to '%s'", path)
	}
	clean := filepath.Clean(path)

	s.mu.Lock()
	changed := s.cwd != clean
	s.cwd = clean
	s.mu.Unlock()

	if changed {
		logging.Terminal("Terminal cwd externally set to %s", clean)
	}
	return nil
}

// Run enqueues one command. RunAll enqueues several; they run strictly in
// order after anything already queued.
func (s *Session) Run(command string) {
	s.RunAll([]string{command})
}

// RunAll enqueues commands for sequential execution.
func (s *Session) RunAll(commands []string) {
	var queued []string
	for _, c := range commands {
		c = strings.TrimSpace(c)
		if c != "" {
			queued = append(queued, c)
		}
	}
	if len(queued) == 0 {
		return
	}

	s.mu.Lock()
	s.queue = append(s.queue, queued...)
	start := !s.running
	if start {
		s.running = true
	}
	s.mu.Unlock()

	logging.TerminalDebug("Queued %d command(s)", len(queued))
	if start {
		go s.drain()
	}
}

// drain executes queued commands one at a time until the queue is empty.
func (s *Session) drain() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.running = false
			s.mu.Unlock()
			return
		}
		command := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.execute(command)
	}
}

// execute runs one command: cd is handled in-process, everything else is
// handed to the shell with the tracked working directory.
func (s *Session) execute(command string) {
	s.notify.Notify(Event{Kind: EventEcho, Line: command})

	if isChdir(command) {
		s.chdir(command)
		return
	}

	s.mu.Lock()
	cwd := s.cwd
	cmd := exec.Command(s.program, s.flag, command)
	cmd.Dir = cwd
	s.proc = cmd
	s.mu.Unlock()

	logging.TerminalDebug("Starting %s %s %q in %s", s.program, s.flag, command, cwd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		s.fail(fmt.Sprintf("Error starting process: %v", err))
		return
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		s.fail(fmt.Sprintf("Error starting process: %v", err))
		return
	}
	if err := cmd.Start(); err != nil {
		logging.Get(logging.CategoryTerminal).Error("Process failed to start: %v", err)
		s.fail(fmt.Sprintf("Error starting process: %v", err))
		return
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			s.notify.Notify(Event{Kind: EventStdout, Line: scanner.Text()})
		}
	}()
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stderr)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			s.notify.Notify(Event{Kind: EventStderr, Line: scanner.Text()})
		}
	}()
	wg.Wait()

	exitCode := 0
	if err := cmd.Wait(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = -1
		}
	}

	s.mu.Lock()
	s.proc = nil
	s.mu.Unlock()

	logging.Terminal("Process finished with exit code %d", exitCode)
	s.notify.Notify(Event{Kind: EventExit, ExitCode: exitCode})
}

// fail reports a session-level error and keeps the queue running.
func (s *Session) fail(msg string) {
	s.mu.Lock()
	s.proc = nil
	s.mu.Unlock()
	s.notify.Notify(Event{Kind: EventError, Line: msg})
}

func isChdir(command string) bool {
	lower := strings.ToLower(command)
	return lower == "cd" || strings.HasPrefix(lower, "cd ")
}

// chdir applies an intercepted cd against the tracked directory.
func (s *Session) chdir(command string) {
	target := strings.TrimSpace(command[2:])

	home, _ := os.UserHomeDir()
	switch {
	case target == "" || target == "~":
		target = home
	case strings.HasPrefix(target, "~/"):
		target = filepath.Join(home, target[2:])
	}

	s.mu.Lock()
	cwd := s.cwd
	s.mu.Unlock()

	if !filepath.IsAbs(target) {
		target = filepath.Join(cwd, target)
	}
	target = filepath.Clean(target)

	info, err := os.Stat(target)
	if err != nil || !info.IsDir() {
		logging.Get(logging.CategoryTerminal).Warn("cd target invalid: %s", target)
		s.notify.Notify(Event{Kind: EventError, Line: fmt.Sprintf("cd: no such file or directory: %s", target)})
		return
	}

	s.mu.Lock()
	changed := s.cwd != target
	s.cwd = target
	s.mu.Unlock()

	if changed {
		logging.Terminal("Terminal cwd changed to %s", target)
		s.notify.Notify(Event{Kind: EventDirChanged, Dir: target})
	}
}

// Shutdown kills any running process and waits briefly for the queue
// goroutine to notice. Queued commands are discarded.
func (s *Session) Shutdown(timeout time.Duration) {
	s.mu.Lock()
	s.queue = nil
	proc := s.proc
	s.mu.Unlock()

	if proc != nil && proc.Process != nil {
		logging.Terminal("Killing running process on shutdown")
		_ = proc.Process.Kill()
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !s.Busy() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}
