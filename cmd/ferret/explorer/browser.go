package explorer

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"ferret/internal/logging"
)

// Entry is one row in the browser pane.
type Entry struct {
	Name    string
	Path    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// loadDirCmd reads a directory off the event loop and delivers a
// dirLoadedMsg.
func loadDirCmd(dir string, showHidden bool) tea.Cmd {
	return func() tea.Msg {
		entries, err := readDir(dir, showHidden)
		return dirLoadedMsg{dir: dir, entries: entries, err: err}
	}
}

func readDir(dir string, showHidden bool) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		logging.UI("read dir %s: %v", dir, err)
		return nil, err
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		if !showHidden && len(name) > 0 && name[0] == '.' {
			continue
		}
		e := Entry{
			Name:  name,
			Path:  filepath.Join(dir, name),
			IsDir: de.IsDir(),
		}
		if info, err := de.Info(); err == nil {
			e.Size = info.Size()
			e.ModTime = info.ModTime()
		}
		entries = append(entries, e)
	}

	// Directories first, then files, each sorted by name.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// browserState tracks the listing, cursor, and multi-selection.
type browserState struct {
	dir        string
	entries    []Entry
	cursor     int
	selected   map[string]bool
	showHidden bool
}

func newBrowserState(dir string) browserState {
	return browserState{
		dir:      dir,
		selected: make(map[string]bool),
	}
}

func (b *browserState) current() *Entry {
	if b.cursor < 0 || b.cursor >= len(b.entries) {
		return nil
	}
	return &b.entries[b.cursor]
}

func (b *browserState) moveCursor(delta int) {
	b.cursor += delta
	if b.cursor < 0 {
		b.cursor = 0
	}
	if b.cursor >= len(b.entries) {
		b.cursor = len(b.entries) - 1
	}
	if b.cursor < 0 {
		b.cursor = 0
	}
}

func (b *browserState) toggleSelect() {
	e := b.current()
	if e == nil {
		return
	}
	if b.selected[e.Path] {
		delete(b.selected, e.Path)
	} else {
		b.selected[e.Path] = true
	}
}

func (b *browserState) clearSelection() {
	b.selected = make(map[string]bool)
}

// selectedPaths returns the marked paths, or the cursor entry when
// nothing is marked.
func (b *browserState) selectedPaths() []string {
	if len(b.selected) > 0 {
		paths := make([]string, 0, len(b.selected))
		for _, e := range b.entries {
			if b.selected[e.Path] {
				paths = append(paths, e.Path)
			}
		}
		return paths
	}
	if e := b.current(); e != nil {
		return []string{e.Path}
	}
	return nil
}

// selectPaths marks exactly the given paths and moves the cursor to the
// first one present in the listing.
func (b *browserState) selectPaths(paths []string) int {
	b.clearSelection()
	found := 0
	firstIdx := -1
	want := make(map[string]bool, len(paths))
	for _, p := range paths {
		want[p] = true
	}
	for i, e := range b.entries {
		if want[e.Path] {
			b.selected[e.Path] = true
			found++
			if firstIdx < 0 {
				firstIdx = i
			}
		}
	}
	if firstIdx >= 0 {
		b.cursor = firstIdx
	}
	return found
}

// setListing installs a fresh listing, keeping the cursor near its old
// position and dropping selections for vanished paths.
func (b *browserState) setListing(dir string, entries []Entry) {
	prev := ""
	if e := b.current(); e != nil {
		prev = e.Path
	}
	changedDir := dir != b.dir
	b.dir = dir
	b.entries = entries

	if changedDir {
		b.cursor = 0
		b.clearSelection()
		return
	}

	b.cursor = 0
	for i, e := range entries {
		if e.Path == prev {
			b.cursor = i
			break
		}
	}
	present := make(map[string]bool, len(entries))
	for _, e := range entries {
		present[e.Path] = true
	}
	for p := range b.selected {
		if !present[p] {
			delete(b.selected, p)
		}
	}
}
