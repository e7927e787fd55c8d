package llm

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseResponse_ShellCommands(t *testing.T) {
	text := `Here is what I suggest:
SHELL_COMMAND: mkdir "temp_stuff"
SHELL_COMMAND: ls "temp_stuff"
Some commentary in between.
SHELL_COMMAND: rm old.log # This will delete files.
`
	got := ParseResponse(text)

	want := []string{`mkdir "temp_stuff"`, `ls "temp_stuff"`, "rm old.log"}
	if diff := cmp.Diff(want, got.Commands); diff != "" {
		t.Errorf("Commands mismatch (-want +got):\n%s", diff)
	}
	if got.HasSelection() {
		t.Error("no selection expected")
	}
}

func TestParseResponse_CommentOnlyCommandDropped(t *testing.T) {
	got := ParseResponse("SHELL_COMMAND: # nothing to run")
	if len(got.Commands) != 0 {
		t.Errorf("Commands = %v, want none", got.Commands)
	}
}

func TestParseResponse_FoundFiles(t *testing.T) {
	text := `FOUND_FILES_JSON: ["/a/b.txt","/c/d.txt"]`
	got := ParseResponse(text)

	want := []string{"/a/b.txt", "/c/d.txt"}
	if diff := cmp.Diff(want, got.FoundFiles); diff != "" {
		t.Errorf("FoundFiles mismatch (-want +got):\n%s", diff)
	}
	if !got.HasSelection() {
		t.Error("HasSelection should be true")
	}
}

func TestParseResponse_FirstWellFormedArrayWins(t *testing.T) {
	text := `FOUND_FILES_JSON: ["/first.txt"]
FOUND_FILES_JSON: ["/second.txt"]`
	got := ParseResponse(text)

	if len(got.FoundFiles) != 1 || got.FoundFiles[0] != "/first.txt" {
		t.Errorf("FoundFiles = %v, want only the first array", got.FoundFiles)
	}
}

func TestParseResponse_MalformedJSONYieldsNoSelection(t *testing.T) {
	got := ParseResponse(`FOUND_FILES_JSON: ["/a/b.txt",`)

	if got.HasSelection() {
		t.Errorf("malformed JSON must yield no selection, got %v", got.FoundFiles)
	}
}

func TestParseResponse_MalformedThenWellFormed(t *testing.T) {
	text := `FOUND_FILES_JSON: not json at all
FOUND_FILES_JSON: ["/ok.txt"]`
	got := ParseResponse(text)

	want := []string{"/ok.txt"}
	if diff := cmp.Diff(want, got.FoundFiles); diff != "" {
		t.Errorf("FoundFiles mismatch (-want +got):\n%s", diff)
	}
}

func TestParseResponse_PlainTextResponse(t *testing.T) {
	got := ParseResponse("This file appears to be a quarterly report.")
	if len(got.Commands) != 0 || got.HasSelection() {
		t.Errorf("plain response should parse to nothing, got %+v", got)
	}
}

func TestParseResponse_EmptySelectionIsStillSelection(t *testing.T) {
	got := ParseResponse("FOUND_FILES_JSON: []")
	if !got.HasSelection() {
		t.Error("an empty well-formed array still drives (empty) selection")
	}
	if len(got.FoundFiles) != 0 {
		t.Errorf("FoundFiles = %v", got.FoundFiles)
	}
}
