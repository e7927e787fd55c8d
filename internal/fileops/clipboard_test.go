package fileops

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCutPaste_MovesAndClears(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "p.txt")
	writeFile(t, src, "payload")
	dst := filepath.Join(dir, "dest")
	if err := os.Mkdir(dst, 0755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}

	svc := NewService(AutoApprove)
	svc.CutToClipboard([]string{src})
	if !svc.CanPaste() {
		t.Fatal("clipboard should be populated after cut")
	}

	res := svc.PasteFromClipboard(dst)
	if !res.OK() || res.Succeeded != 1 {
		t.Fatalf("paste failed: %+v", res)
	}
	if _, err := os.Lstat(filepath.Join(dst, "p.txt")); err != nil {
		t.Error("file should be in the destination")
	}
	if _, err := os.Lstat(src); !os.IsNotExist(err) {
		t.Error("cut source should be gone")
	}
	if svc.CanPaste() {
		t.Error("clipboard must be cleared after a successful cut-paste")
	}
}

func TestCopyPaste_TwicePersists(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "p.txt")
	writeFile(t, src, "payload")
	dst1 := filepath.Join(dir, "one")
	dst2 := filepath.Join(dir, "two")
	for _, d := range []string{dst1, dst2} {
		if err := os.Mkdir(d, 0755); err != nil {
			t.Fatalf("Mkdir failed: %v", err)
		}
	}

	svc := NewService(AutoApprove)
	svc.CopyToClipboard([]string{src})

	res := svc.PasteFromClipboard(dst1)
	if !res.OK() {
		t.Fatalf("first paste failed: %+v", res)
	}
	if !svc.CanPaste() {
		t.Fatal("clipboard must stay populated after a copy-paste")
	}

	res = svc.PasteFromClipboard(dst2)
	if !res.OK() {
		t.Fatalf("second paste failed: %+v", res)
	}

	for _, d := range []string{dst1, dst2} {
		if _, err := os.Lstat(filepath.Join(d, "p.txt")); err != nil {
			t.Errorf("paste missing in %s", d)
		}
	}
	if _, err := os.Lstat(src); err != nil {
		t.Error("copy source must survive")
	}
}

func TestPaste_MissingSourceReported(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "vanish.txt")
	writeFile(t, src, "x")
	dst := filepath.Join(dir, "dest")
	if err := os.Mkdir(dst, 0755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}

	svc := NewService(AutoApprove)
	svc.CopyToClipboard([]string{src})
	if err := os.Remove(src); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	res := svc.PasteFromClipboard(dst)
	if res.Succeeded != 0 || len(res.Errors) == 0 {
		t.Errorf("expected reported failure for vanished source: %+v", res)
	}
}

func TestPaste_OverwriteDeclinedSkips(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "p.txt")
	writeFile(t, src, "new")
	dst := filepath.Join(dir, "dest")
	if err := os.Mkdir(dst, 0755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}
	collide := filepath.Join(dst, "p.txt")
	writeFile(t, collide, "old")

	svc := NewService(AutoDeny)
	svc.CopyToClipboard([]string{src})

	res := svc.PasteFromClipboard(dst)
	if res.Succeeded != 0 || len(res.Errors) != 1 {
		t.Errorf("declined overwrite should be skipped with an error: %+v", res)
	}
	data, _ := os.ReadFile(collide)
	if string(data) != "old" {
		t.Error("declined overwrite must leave the destination untouched")
	}
}

func TestClipboard_OverwrittenBySecondCopy(t *testing.T) {
	svc := NewService(AutoApprove)
	svc.CopyToClipboard([]string{"/a"})
	svc.CutToClipboard([]string{"/b", "/c"})

	action, paths := svc.ClipboardContents()
	if action != ActionCut || len(paths) != 2 {
		t.Errorf("clipboard should hold only the latest operation, got %s %v", action, paths)
	}

	svc.CopyToClipboard(nil)
	if svc.CanPaste() {
		t.Error("empty copy should clear the clipboard")
	}
}

func TestPaste_EmptyClipboard(t *testing.T) {
	svc := NewService(AutoApprove)
	res := svc.PasteFromClipboard(t.TempDir())
	if res.OK() {
		t.Error("pasting an empty clipboard should report an error")
	}
}
