package metadata

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInspect_TextFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "readme.txt")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	info, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if info.Name != "readme.txt" {
		t.Errorf("Name = %q", info.Name)
	}
	if info.Size != 5 {
		t.Errorf("Size = %d", info.Size)
	}
	if info.SizeHuman == "" {
		t.Error("SizeHuman should be populated")
	}
	if !strings.HasPrefix(info.MimeType, "text/plain") {
		t.Errorf("MimeType = %q", info.MimeType)
	}
	if info.IsDir {
		t.Error("IsDir should be false")
	}
}

func TestInspect_ImageDimensions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dot.png")

	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 3, 7))
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	info, err := Inspect(path)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if info.Dimensions != "3x7" {
		t.Errorf("Dimensions = %q, want 3x7", info.Dimensions)
	}
}

func TestInspect_Missing(t *testing.T) {
	if _, err := Inspect(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected an error for a missing path")
	}
}

func TestInspect_Directory(t *testing.T) {
	info, err := Inspect(t.TempDir())
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if !info.IsDir {
		t.Error("IsDir should be true")
	}
}
