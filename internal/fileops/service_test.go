package fileops

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile(%s) failed: %v", path, err)
	}
}

func TestDeleteItems_PartialSuccess(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "a.txt")
	writeFile(t, existing, "a")
	missing := filepath.Join(dir, "gone.txt")

	svc := NewService(AutoApprove)
	res := svc.DeleteItems([]string{existing, missing})

	if res.Requested != 2 {
		t.Errorf("Requested = %d, want 2", res.Requested)
	}
	if res.Succeeded != 1 {
		t.Errorf("Succeeded = %d, want 1", res.Succeeded)
	}
	if len(res.Errors) == 0 {
		t.Error("expected a non-empty error list for the missing path")
	}
	if _, err := os.Lstat(existing); !os.IsNotExist(err) {
		t.Error("existing file should have been removed")
	}
}

func TestDeleteItems_Cancelled(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "keep.txt")
	writeFile(t, target, "keep")

	svc := NewService(AutoDeny)
	res := svc.DeleteItems([]string{target})

	if !res.Canceled {
		t.Error("expected Canceled result")
	}
	if _, err := os.Lstat(target); err != nil {
		t.Error("file should survive a cancelled deletion")
	}
}

func TestDeleteItems_Directory(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.MkdirAll(filepath.Join(sub, "nested"), 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	writeFile(t, filepath.Join(sub, "nested", "f.txt"), "x")

	svc := NewService(AutoApprove)
	res := svc.DeleteItems([]string{sub})

	if !res.OK() || res.Succeeded != 1 {
		t.Errorf("directory delete failed: %+v", res)
	}
	if _, err := os.Lstat(sub); !os.IsNotExist(err) {
		t.Error("directory tree should have been removed")
	}
}

func TestRenameItem_SameNameIsNoOp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "name.txt")
	writeFile(t, path, "content")
	before, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}

	// A denying confirmer proves no confirmation (and no mutation) happens.
	svc := NewService(AutoDeny)
	msg, err := svc.RenameItem(path, "name.txt")
	if err != nil {
		t.Fatalf("same-name rename should succeed, got %v", err)
	}
	if msg != "No change in name." {
		t.Errorf("msg = %q", msg)
	}

	after, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file must still exist: %v", err)
	}
	if !after.ModTime().Equal(before.ModTime()) {
		t.Error("no-op rename must not touch the file")
	}
}

func TestRenameItem(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "old.txt")
	writeFile(t, path, "content")

	svc := NewService(AutoApprove)

	if _, err := svc.RenameItem(path, ""); err == nil {
		t.Error("empty name should fail")
	}
	if _, err := svc.RenameItem(path, "bad/name"); err == nil {
		t.Error("name with separator should fail")
	}

	// Collision.
	writeFile(t, filepath.Join(dir, "taken.txt"), "x")
	if _, err := svc.RenameItem(path, "taken.txt"); err == nil {
		t.Error("rename onto an existing name should fail")
	}

	if _, err := svc.RenameItem(path, "new.txt"); err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if _, err := os.Lstat(filepath.Join(dir, "new.txt")); err != nil {
		t.Error("renamed file missing")
	}
	if _, err := os.Lstat(path); !os.IsNotExist(err) {
		t.Error("old path should be gone")
	}
}

func TestCreateFileAndFolder(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(AutoApprove)

	if _, err := svc.CreateFile(dir, "notes.txt"); err != nil {
		t.Fatalf("CreateFile failed: %v", err)
	}
	if _, err := svc.CreateFile(dir, "notes.txt"); err == nil {
		t.Error("duplicate file name should fail")
	}
	if _, err := svc.CreateFile(dir, "in?valid"); err == nil {
		t.Error("invalid characters should fail")
	}
	if _, err := svc.CreateFile(filepath.Join(dir, "nope"), "x.txt"); err == nil {
		t.Error("missing parent should fail")
	}

	if _, err := svc.CreateFolder(dir, "sub"); err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, "sub"))
	if err != nil || !info.IsDir() {
		t.Error("created folder missing")
	}
}

func TestCopyItem_Tree(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	if err := os.MkdirAll(filepath.Join(src, "inner"), 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	writeFile(t, filepath.Join(src, "a.txt"), "a")
	writeFile(t, filepath.Join(src, "inner", "b.txt"), "b")

	svc := NewService(AutoApprove)
	dst := filepath.Join(dir, "dst")
	if err := svc.CopyItem(src, dst); err != nil {
		t.Fatalf("CopyItem failed: %v", err)
	}

	for _, rel := range []string{"a.txt", filepath.Join("inner", "b.txt")} {
		if _, err := os.Lstat(filepath.Join(dst, rel)); err != nil {
			t.Errorf("copied tree missing %s", rel)
		}
	}
	// Source untouched.
	if _, err := os.Lstat(filepath.Join(src, "a.txt")); err != nil {
		t.Error("copy must not modify the source")
	}
}

func TestMoveItem(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "move-me.txt")
	writeFile(t, src, "content")

	svc := NewService(AutoApprove)
	dst := filepath.Join(dir, "moved.txt")
	if err := svc.MoveItem(src, dst); err != nil {
		t.Fatalf("MoveItem failed: %v", err)
	}
	if _, err := os.Lstat(src); !os.IsNotExist(err) {
		t.Error("source should be gone after move")
	}
	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "content" {
		t.Error("moved file content mismatch")
	}

	if err := svc.MoveItem(filepath.Join(dir, "ghost"), dst); err == nil {
		t.Error("moving a missing source should fail")
	}
}
