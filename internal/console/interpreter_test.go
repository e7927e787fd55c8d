package console

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestInterpreter(t *testing.T) (*Interpreter, string) {
	t.Helper()
	dir := t.TempDir()
	return NewInterpreter(dir), dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCdChangesDirectory(t *testing.T) {
	in, dir := newTestInterpreter(t)
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	res := in.Execute("cd sub")
	if !res.OK {
		t.Fatalf("cd sub failed: %s", res.Message)
	}
	if in.Dir() != sub {
		t.Fatalf("Dir = %q, want %q", in.Dir(), sub)
	}
}

func TestCdNonexistentLeavesDirectoryUnchanged(t *testing.T) {
	in, dir := newTestInterpreter(t)

	res := in.Execute("cd nonexistent_dir")
	if res.OK {
		t.Fatal("cd to a missing directory reported success")
	}
	if in.Dir() != dir {
		t.Fatalf("Dir changed to %q after failed cd", in.Dir())
	}
}

func TestCdToFileFails(t *testing.T) {
	in, dir := newTestInterpreter(t)
	writeFile(t, filepath.Join(dir, "plain.txt"), "x")

	res := in.Execute("cd plain.txt")
	if res.OK {
		t.Fatal("cd to a regular file reported success")
	}
	if in.Dir() != dir {
		t.Fatalf("Dir changed to %q", in.Dir())
	}
}

func TestLsHidesDotFilesUnlessDashA(t *testing.T) {
	in, dir := newTestInterpreter(t)
	writeFile(t, filepath.Join(dir, "visible.txt"), "v")
	writeFile(t, filepath.Join(dir, ".hidden"), "h")

	plain := in.Execute("ls")
	if !plain.OK {
		t.Fatalf("ls failed: %s", plain.Message)
	}
	if contains(plain.Output, ".hidden") {
		t.Error("plain ls listed a dot-file")
	}
	if !contains(plain.Output, "visible.txt") {
		t.Error("plain ls missed visible.txt")
	}

	all := in.Execute("ls -a")
	if !all.OK {
		t.Fatalf("ls -a failed: %s", all.Message)
	}
	if !contains(all.Output, ".hidden") {
		t.Error("ls -a did not list the dot-file")
	}
}

func TestPwd(t *testing.T) {
	in, dir := newTestInterpreter(t)
	res := in.Execute("pwd")
	if !res.OK || len(res.Output) != 1 || res.Output[0] != dir {
		t.Fatalf("pwd = %+v, want %q", res, dir)
	}
}

func TestMkdirAndRm(t *testing.T) {
	in, dir := newTestInterpreter(t)

	if res := in.Execute("mkdir nested/deep"); !res.OK {
		t.Fatalf("mkdir failed: %s", res.Message)
	}
	if _, err := os.Stat(filepath.Join(dir, "nested", "deep")); err != nil {
		t.Fatal("mkdir did not create the path")
	}

	// Directories need the recursive flag.
	if res := in.Execute("rm nested"); res.OK {
		t.Fatal("rm on a directory without -r reported success")
	}
	if res := in.Execute("rm -r nested"); !res.OK {
		t.Fatalf("rm -r failed: %s", res.Message)
	}
	if _, err := os.Stat(filepath.Join(dir, "nested")); !os.IsNotExist(err) {
		t.Fatal("rm -r left the directory behind")
	}
}

func TestRmMissingFileFails(t *testing.T) {
	in, _ := newTestInterpreter(t)
	if res := in.Execute("rm ghost.txt"); res.OK {
		t.Fatal("rm on a missing file reported success")
	}
}

func TestCpAndMv(t *testing.T) {
	in, dir := newTestInterpreter(t)
	writeFile(t, filepath.Join(dir, "a.txt"), "payload")

	if res := in.Execute("cp a.txt b.txt"); !res.OK {
		t.Fatalf("cp failed: %s", res.Message)
	}
	data, err := os.ReadFile(filepath.Join(dir, "b.txt"))
	if err != nil || string(data) != "payload" {
		t.Fatalf("copy content = %q, err %v", data, err)
	}

	if res := in.Execute("mv b.txt c.txt"); !res.OK {
		t.Fatalf("mv failed: %s", res.Message)
	}
	if _, err := os.Stat(filepath.Join(dir, "b.txt")); !os.IsNotExist(err) {
		t.Fatal("mv left the source behind")
	}
	if _, err := os.Stat(filepath.Join(dir, "c.txt")); err != nil {
		t.Fatal("mv did not create the destination")
	}
}

func TestCpIntoExistingDirectory(t *testing.T) {
	in, dir := newTestInterpreter(t)
	writeFile(t, filepath.Join(dir, "a.txt"), "x")
	if err := os.Mkdir(filepath.Join(dir, "dest"), 0o755); err != nil {
		t.Fatal(err)
	}

	if res := in.Execute("cp a.txt dest"); !res.OK {
		t.Fatalf("cp failed: %s", res.Message)
	}
	if _, err := os.Stat(filepath.Join(dir, "dest", "a.txt")); err != nil {
		t.Fatal("cp into a directory did not place the file inside it")
	}
}

func TestCat(t *testing.T) {
	in, dir := newTestInterpreter(t)
	writeFile(t, filepath.Join(dir, "lines.txt"), "one\ntwo\n")

	res := in.Execute("cat lines.txt")
	if !res.OK {
		t.Fatalf("cat failed: %s", res.Message)
	}
	if len(res.Output) != 2 || res.Output[0] != "one" || res.Output[1] != "two" {
		t.Fatalf("cat output = %v", res.Output)
	}
}

func TestFind(t *testing.T) {
	in, dir := newTestInterpreter(t)
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "report.txt"), "")
	writeFile(t, filepath.Join(dir, "sub", "report_old.txt"), "")
	writeFile(t, filepath.Join(dir, "other.md"), "")

	res := in.Execute("find report")
	if !res.OK {
		t.Fatalf("find failed: %s", res.Message)
	}
	if len(res.Output) != 2 {
		t.Fatalf("find matched %d paths, want 2: %v", len(res.Output), res.Output)
	}
}

func TestUnknownCommand(t *testing.T) {
	in, _ := newTestInterpreter(t)
	if res := in.Execute("frobnicate"); res.OK {
		t.Fatal("unknown verb reported success")
	}
}

func TestQuotedPathWithSpaces(t *testing.T) {
	in, dir := newTestInterpreter(t)
	writeFile(t, filepath.Join(dir, "my file.txt"), "spaced")

	res := in.Execute(`cat "my file.txt"`)
	if !res.OK {
		t.Fatalf("cat quoted path failed: %s", res.Message)
	}
	if len(res.Output) != 1 || res.Output[0] != "spaced" {
		t.Fatalf("output = %v", res.Output)
	}
}

func TestExecuteRecordsHistory(t *testing.T) {
	in, _ := newTestInterpreter(t)
	in.Execute("pwd")
	in.Execute("help")
	if in.History().Len() != 2 {
		t.Fatalf("history length = %d, want 2", in.History().Len())
	}
	if got := in.History().Prev(); got != "help" {
		t.Fatalf("Prev = %q, want help", got)
	}
}

func contains(lines []string, want string) bool {
	for _, l := range lines {
		if l == want || l == want+string(os.PathSeparator) {
			return true
		}
	}
	return false
}
