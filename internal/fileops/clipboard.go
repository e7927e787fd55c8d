package fileops

import (
	"fmt"
	"os"
	"path/filepath"

	"ferret/internal/logging"
)

// ClipboardAction distinguishes a pending copy from a pending cut.
type ClipboardAction string

const (
	ActionCopy ClipboardAction = "copy"
	ActionCut  ClipboardAction = "cut"
)

// Clipboard is the in-process record of pending copy/cut paths, distinct
// from the OS clipboard. It holds at most one pending operation.
type Clipboard struct {
	Action ClipboardAction
	Paths  []string
}

// Empty reports whether nothing is pending.
func (c *Clipboard) Empty() bool { return len(c.Paths) == 0 }

func (c *Clipboard) clear() {
	c.Action = ""
	c.Paths = nil
}

// CopyToClipboard records paths for a later copy-paste. An empty list clears
// the clipboard.
func (s *Service) CopyToClipboard(paths []string) {
	if len(paths) == 0 {
		s.clipboard.clear()
		return
	}
	s.clipboard.Action = ActionCopy
	s.clipboard.Paths = append([]string(nil), paths...)
	logging.FileOps("Copied %d items to clipboard", len(paths))
}

// CutToClipboard records paths for a later move-paste. An empty list clears
// the clipboard.
func (s *Service) CutToClipboard(paths []string) {
	if len(paths) == 0 {
		s.clipboard.clear()
		return
	}
	s.clipboard.Action = ActionCut
	s.clipboard.Paths = append([]string(nil), paths...)
	logging.FileOps("Cut %d items to clipboard", len(paths))
}

// CanPaste reports whether a paste would have sources to work with.
func (s *Service) CanPaste() bool { return !s.clipboard.Empty() }

// ClipboardContents returns the pending action and paths for display.
func (s *Service) ClipboardContents() (ClipboardAction, []string) {
	return s.clipboard.Action, append([]string(nil), s.clipboard.Paths...)
}

// PasteFromClipboard copies or moves the pending paths into destDir.
// Name collisions prompt the Confirmer per item; declined items are skipped
// and reported as errors. A cut clipboard is cleared once anything was moved;
// a copy clipboard stays populated so it can be pasted again.
func (s *Service) PasteFromClipboard(destDir string) Result {
	res := Result{Requested: len(s.clipboard.Paths)}
	if s.clipboard.Empty() {
		res.Errors = append(res.Errors, "Clipboard is empty.")
		return res
	}
	info, err := os.Stat(destDir)
	if err != nil || !info.IsDir() {
		res.Errors = append(res.Errors, fmt.Sprintf("Destination is not a valid directory: %s", destDir))
		return res
	}

	action := s.clipboard.Action
	logging.FileOps("Pasting %d items (%s) to '%s'", len(s.clipboard.Paths), action, destDir)

	for _, src := range s.clipboard.Paths {
		if _, err := os.Lstat(src); err != nil {
			logging.Get(logging.CategoryFileOps).Warn("Paste source missing: %s", src)
			res.Errors = append(res.Errors, fmt.Sprintf("Source item no longer exists: %s", filepath.Base(src)))
			continue
		}

		base := filepath.Base(src)
		dst := filepath.Join(destDir, base)

		if _, err := os.Lstat(dst); err == nil {
			if !s.confirm.Confirm("Confirm Overwrite",
				fmt.Sprintf("'%s' already exists in the destination. Overwrite?", base)) {
				res.Errors = append(res.Errors, fmt.Sprintf("Skipped overwrite of %s", base))
				continue
			}
			if err := os.RemoveAll(dst); err != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("Error removing existing '%s' for overwrite: %v", base, err))
				continue
			}
		}

		switch action {
		case ActionCopy:
			err = s.CopyItem(src, dst)
		case ActionCut:
			err = s.MoveItem(src, dst)
		}
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("Error pasting %s: %v", base, err))
			continue
		}
		res.Succeeded++
	}

	if action == ActionCut && res.Succeeded > 0 {
		s.clipboard.clear()
		logging.FileOps("Clipboard cleared after cut operation.")
	}
	return res
}
