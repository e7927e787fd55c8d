// Package fileops implements the file-operation service: create, rename,
// delete, copy and move, plus the internal copy/cut clipboard.
//
// Destructive operations ask an explicit Confirmer before touching the
// filesystem; batch operations collect per-item errors and allow partial
// success.
package fileops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ferret/internal/logging"
)

// Confirmer answers yes/no questions before destructive operations.
// The TUI implements this with a modal prompt; tests use AutoApprove/AutoDeny.
type Confirmer interface {
	Confirm(title, message string) bool
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(title, message string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(title, message string) bool { return f(title, message) }

// AutoApprove confirms everything. AutoDeny declines everything.
var (
	AutoApprove Confirmer = ConfirmFunc(func(string, string) bool { return true })
	AutoDeny    Confirmer = ConfirmFunc(func(string, string) bool { return false })
)

// Result reports the outcome of a batch operation.
type Result struct {
	Requested int
	Succeeded int
	Errors    []string
	Canceled  bool
}

// OK reports whether the batch completed without errors or cancellation.
func (r Result) OK() bool { return !r.Canceled && len(r.Errors) == 0 }

// Message builds the cumulative summary shown to the user.
func (r Result) Message(verb string) string {
	if r.Canceled {
		return "Operation cancelled by user."
	}
	msg := fmt.Sprintf("Successfully %sd %d of %d item(s).", verb, r.Succeeded, r.Requested)
	if len(r.Errors) > 0 {
		msg += "\nErrors occurred:\n" + strings.Join(r.Errors, "\n")
	}
	return msg
}

// invalidNameChars are rejected in new file and folder names.
const invalidNameChars = `/\:*?"<>|`

// Service performs filesystem operations with confirmation and logging.
type Service struct {
	confirm   Confirmer
	clipboard *Clipboard
}

// NewService creates a Service using the given Confirmer.
func NewService(confirm Confirmer) *Service {
	if confirm == nil {
		confirm = AutoApprove
	}
	logging.FileOps("FileOperationService initialized.")
	return &Service{confirm: confirm, clipboard: &Clipboard{}}
}

// DeleteItems permanently removes the given paths after one batch confirmation.
// Missing paths count as errors; existing paths are still removed.
func (s *Service) DeleteItems(paths []string) Result {
	res := Result{Requested: len(paths)}
	if len(paths) == 0 {
		res.Errors = append(res.Errors, "No items selected for deletion.")
		return res
	}
	logging.FileOps("Attempting to delete %d items", len(paths))

	var sb strings.Builder
	fmt.Fprintf(&sb, "Permanently delete these %d item(s)?\n", len(paths))
	for i, p := range paths {
		if i == 5 {
			fmt.Fprintf(&sb, "...and %d more.", len(paths)-5)
			break
		}
		fmt.Fprintf(&sb, "- %s\n", filepath.Base(p))
	}
	if !s.confirm.Confirm("Confirm Deletion", sb.String()) {
		logging.FileOps("Deletion cancelled by user.")
		res.Canceled = true
		return res
	}

	for _, p := range paths {
		info, err := os.Lstat(p)
		if err != nil {
			logging.Get(logging.CategoryFileOps).Warn("Delete target missing: %s", p)
			res.Errors = append(res.Errors, fmt.Sprintf("Not found: %s", filepath.Base(p)))
			continue
		}
		if info.IsDir() {
			err = os.RemoveAll(p)
		} else {
			err = os.Remove(p)
		}
		if err != nil {
			logging.Get(logging.CategoryFileOps).Error("Error deleting %s: %v", p, err)
			res.Errors = append(res.Errors, fmt.Sprintf("Error deleting %s: %v", filepath.Base(p), err))
			continue
		}
		logging.FileOpsDebug("Deleted: %s", p)
		res.Succeeded++
	}
	return res
}

// RenameItem renames the item at oldPath to newName within the same directory.
// Renaming to the current name is a success no-op with no filesystem mutation.
func (s *Service) RenameItem(oldPath, newName string) (string, error) {
	logging.FileOps("Attempting to rename '%s' to '%s'", oldPath, newName)
	if _, err := os.Lstat(oldPath); err != nil {
		return "", fmt.Errorf("source path does not exist: %s", oldPath)
	}
	if strings.TrimSpace(newName) == "" {
		return "", fmt.Errorf("new name cannot be empty")
	}

	oldBase := filepath.Base(oldPath)
	if newName == oldBase {
		logging.FileOps("Rename skipped: new name is same as old.")
		return "No change in name.", nil
	}
	if strings.ContainsAny(newName, invalidNameChars) {
		return "", fmt.Errorf("the name contains invalid characters")
	}

	newPath := filepath.Join(filepath.Dir(oldPath), newName)
	if _, err := os.Lstat(newPath); err == nil {
		return "", fmt.Errorf("an item named '%s' already exists in this location", newName)
	}

	if !s.confirm.Confirm("Confirm Rename",
		fmt.Sprintf("Rename '%s' to '%s'?", oldBase, newName)) {
		return "", fmt.Errorf("rename cancelled by user")
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		logging.Get(logging.CategoryFileOps).Error("Error renaming '%s': %v", oldPath, err)
		return "", fmt.Errorf("error renaming: %w", err)
	}
	logging.FileOps("Renamed '%s' to '%s'.", oldBase, newName)
	return fmt.Sprintf("Renamed '%s' to '%s'.", oldBase, newName), nil
}

// CreateFile creates an empty file named name inside parentDir.
func (s *Service) CreateFile(parentDir, name string) (string, error) {
	if err := validateNewName(parentDir, name); err != nil {
		return "", err
	}
	path := filepath.Join(parentDir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		logging.Get(logging.CategoryFileOps).Error("Error creating file '%s': %v", path, err)
		return "", fmt.Errorf("error creating file: %w", err)
	}
	_ = f.Close()
	logging.FileOps("File '%s' created.", path)
	return fmt.Sprintf("File '%s' created.", name), nil
}

// CreateFolder creates a directory named name inside parentDir.
func (s *Service) CreateFolder(parentDir, name string) (string, error) {
	if err := validateNewName(parentDir, name); err != nil {
		return "", err
	}
	path := filepath.Join(parentDir, name)

	if err := os.MkdirAll(path, 0755); err != nil {
		logging.Get(logging.CategoryFileOps).Error("Error creating folder '%s': %v", path, err)
		return "", fmt.Errorf("error creating folder: %w", err)
	}
	logging.FileOps("Folder '%s' created.", path)
	return fmt.Sprintf("Folder '%s' created.", name), nil
}

// validateNewName checks parentDir exists, the name is usable and not taken.
func validateNewName(parentDir, name string) error {
	info, err := os.Stat(parentDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("parent directory does not exist: %s", parentDir)
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if strings.ContainsAny(name, invalidNameChars) {
		return fmt.Errorf("the name contains invalid characters")
	}
	if _, err := os.Lstat(filepath.Join(parentDir, name)); err == nil {
		return fmt.Errorf("a file or folder named '%s' already exists", name)
	}
	return nil
}

// CopyItem copies a file or directory tree from source to destination.
func (s *Service) CopyItem(source, destination string) error {
	info, err := os.Stat(source)
	if err != nil {
		return fmt.Errorf("source not found: %s", source)
	}
	if info.IsDir() {
		err = copyTree(source, destination)
	} else {
		err = copyFile(source, destination)
	}
	if err != nil {
		logging.Get(logging.CategoryFileOps).Error("Error copying '%s' to '%s': %v", source, destination, err)
		return err
	}
	logging.FileOpsDebug("Copied '%s' to '%s'", source, destination)
	return nil
}

// MoveItem moves a file or directory from source to destination.
func (s *Service) MoveItem(source, destination string) error {
	if _, err := os.Lstat(source); err != nil {
		return fmt.Errorf("source not found: %s", source)
	}
	if err := moveItem(source, destination); err != nil {
		logging.Get(logging.CategoryFileOps).Error("Error moving '%s' to '%s': %v", source, destination, err)
		return err
	}
	logging.FileOpsDebug("Moved '%s' to '%s'", source, destination)
	return nil
}
