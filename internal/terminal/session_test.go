package terminal

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"
)

// collector records events and lets tests wait for specific kinds.
type collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *collector) Notify(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *collector) snapshot() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

func (c *collector) waitFor(t *testing.T, kind EventKind, n int) []Event {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		var matched []Event
		for _, e := range c.snapshot() {
			if e.Kind == kind {
				matched = append(matched, e)
			}
		}
		if len(matched) >= n {
			return matched
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events of kind %d; got %+v", n, kind, c.snapshot())
	return nil
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test uses POSIX shell commands")
	}
}

func TestRun_StreamsStdout(t *testing.T) {
	skipOnWindows(t)
	c := &collector{}
	s := NewSession("", t.TempDir(), c)

	s.Run("echo hello")

	exits := c.waitFor(t, EventExit, 1)
	if exits[0].ExitCode != 0 {
		t.Errorf("exit code = %d", exits[0].ExitCode)
	}
	lines := c.waitFor(t, EventStdout, 1)
	if lines[0].Line != "hello" {
		t.Errorf("stdout = %q", lines[0].Line)
	}
}

func TestRunAll_StrictlySequential(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	c := &collector{}
	s := NewSession("", dir, c)

	marker := filepath.Join(dir, "marker")
	s.RunAll([]string{
		"echo one > " + marker,
		"cat " + marker,
	})

	c.waitFor(t, EventExit, 2)
	out := c.waitFor(t, EventStdout, 1)
	if out[0].Line != "one" {
		t.Errorf("second command must observe the first command's write, got %q", out[0].Line)
	}
}

func TestRun_FailedCommandKeepsQueueRunning(t *testing.T) {
	skipOnWindows(t)
	c := &collector{}
	s := NewSession("", t.TempDir(), c)

	s.RunAll([]string{"false", "echo after"})

	exits := c.waitFor(t, EventExit, 2)
	if exits[0].ExitCode == 0 {
		t.Error("first command should report a nonzero exit")
	}
	out := c.waitFor(t, EventStdout, 1)
	if out[0].Line != "after" {
		t.Errorf("queue should continue after a failure, got %q", out[0].Line)
	}
}

func TestChdirIntercepted(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}

	c := &collector{}
	s := NewSession("", dir, c)

	s.Run("cd sub")

	changed := c.waitFor(t, EventDirChanged, 1)
	if changed[0].Dir != sub {
		t.Errorf("Dir = %q, want %q", changed[0].Dir, sub)
	}
	if s.Dir() != sub {
		t.Errorf("session cwd = %q, want %q", s.Dir(), sub)
	}
}

func TestChdirInvalidTargetKeepsCwd(t *testing.T) {
	dir := t.TempDir()
	c := &collector{}
	s := NewSession("", dir, c)

	s.Run("cd definitely-not-here")

	errs := c.waitFor(t, EventError, 1)
	if errs[0].Line == "" {
		t.Error("expected an error line")
	}
	if s.Dir() != dir {
		t.Errorf("cwd must be unchanged, got %q", s.Dir())
	}
}

func TestChdirAffectsLaterCommands(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}

	c := &collector{}
	s := NewSession("", dir, c)

	s.RunAll([]string{"cd sub", "pwd"})

	out := c.waitFor(t, EventStdout, 1)
	if resolved, _ := filepath.EvalSymlinks(sub); out[0].Line != sub && out[0].Line != resolved {
		t.Errorf("pwd = %q, want %q", out[0].Line, sub)
	}
}

func TestSetDir(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()
	s := NewSession("", dir, nil)

	if err := s.SetDir(other); err != nil {
		t.Fatalf("SetDir failed: %v", err)
	}
	if s.Dir() != filepath.Clean(other) {
		t.Errorf("cwd = %q", s.Dir())
	}

	if err := s.SetDir(filepath.Join(dir, "missing")); err == nil {
		t.Error("SetDir to a missing path should fail")
	}
	if s.Dir() != filepath.Clean(other) {
		t.Error("failed SetDir must not change cwd")
	}
}

func TestShutdown_KillsRunningProcess(t *testing.T) {
	skipOnWindows(t)
	c := &collector{}
	s := NewSession("", t.TempDir(), c)

	s.Run("sleep 30")
	// Give the process a moment to start.
	time.Sleep(100 * time.Millisecond)

	start := time.Now()
	s.Shutdown(2 * time.Second)
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("shutdown took too long: %v", elapsed)
	}
	if s.Busy() {
		t.Error("session should be idle after shutdown")
	}
}

func TestDetectShell(t *testing.T) {
	if runtime.GOOS == "windows" {
		prog, flag := DetectShell("")
		if prog != "cmd.exe" || flag != "/c" {
			t.Errorf("got %s %s", prog, flag)
		}
		return
	}

	prog, flag := DetectShell("/bin/custom-sh")
	if prog != "/bin/custom-sh" || flag != "-c" {
		t.Errorf("override ignored: %s %s", prog, flag)
	}

	prog, flag = DetectShell("")
	if prog == "" || flag != "-c" {
		t.Errorf("detection failed: %s %s", prog, flag)
	}
}
