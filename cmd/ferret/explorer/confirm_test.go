package explorer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ferret/cmd/ferret/ui"
)

// newOpsModel builds a model with just the browser and the file-operation
// service wired the way New wires them, listing dir.
func newOpsModel(t *testing.T, dir string) *Model {
	t.Helper()
	m := &Model{
		styles:  ui.NewStyles(ui.DarkTheme()),
		browser: newBrowserState(dir),
		input:   textinput.New(),
	}
	m.wireOps()
	entries, err := readDir(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	m.browser.setListing(dir, entries)
	return m
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestRenamePromptConfirmedRenamesFile(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "old.txt"))
	m := newOpsModel(t, dir)

	m.submitPrompt(promptRename, "new.txt")
	if m.mode != modeConfirm {
		t.Fatalf("mode = %d, want confirm dialog before rename", m.mode)
	}
	m.updateConfirm(keyMsg("y"))

	if _, err := os.Stat(filepath.Join(dir, "new.txt")); err != nil {
		t.Fatalf("renamed file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "old.txt")); !os.IsNotExist(err) {
		t.Fatal("old name still present after rename")
	}
	if m.statusErr {
		t.Fatalf("rename reported error: %s", m.status)
	}
	if m.confirmAnswer {
		t.Fatal("confirm answer not reset after the operation")
	}
}

func TestRenamePromptDeclinedLeavesFile(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "old.txt"))
	m := newOpsModel(t, dir)

	m.submitPrompt(promptRename, "new.txt")
	m.updateConfirm(keyMsg("n"))

	if _, err := os.Stat(filepath.Join(dir, "old.txt")); err != nil {
		t.Fatalf("declined rename moved the file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "new.txt")); !os.IsNotExist(err) {
		t.Fatal("declined rename created the target")
	}
}

func TestRenamePromptSameNameIsNoOp(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "old.txt"))
	m := newOpsModel(t, dir)

	m.submitPrompt(promptRename, "old.txt")
	if m.mode != modeBrowse {
		t.Fatalf("mode = %d, same-name rename should not prompt", m.mode)
	}
	if m.statusErr {
		t.Fatalf("same-name rename reported error: %s", m.status)
	}
}

// A confirmed dialog must not leave the answer sticky: a later Confirm
// from the service with no dialog open has to decline. Here a paste
// collision appears only after the pre-scan, so the service asks and the
// existing file must survive.
func TestConfirmAnswerNotStickyAcrossOperations(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "old.txt"))
	m := newOpsModel(t, dir)

	m.submitPrompt(promptRename, "new.txt")
	m.updateConfirm(keyMsg("y"))

	dest := t.TempDir()
	existing := filepath.Join(dest, "new.txt")
	if err := os.WriteFile(existing, []byte("keep me"), 0o644); err != nil {
		t.Fatal(err)
	}

	m.ops.CopyToClipboard([]string{filepath.Join(dir, "new.txt")})
	res := m.ops.PasteFromClipboard(dest)
	if res.Succeeded != 0 {
		t.Fatalf("unprompted overwrite succeeded: %+v", res)
	}
	got, err := os.ReadFile(existing)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "keep me" {
		t.Fatalf("existing file overwritten without a dialog: %q", got)
	}
}
