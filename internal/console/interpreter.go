package console

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"ferret/internal/logging"
)

// Result is what every command handler returns: a success flag, a short
// status message, and zero or more output lines for the console pane.
type Result struct {
	OK      bool
	Message string
	Output  []string
}

func ok(message string, output ...string) Result {
	return Result{OK: true, Message: message, Output: output}
}

func fail(format string, args ...interface{}) Result {
	return Result{OK: false, Message: fmt.Sprintf(format, args...)}
}

type handler func(args []string) Result

// Interpreter dispatches tokenized command lines against a fixed verb table.
// It tracks its own current directory independently of the process cwd.
type Interpreter struct {
	dir      string
	handlers map[string]handler
	history  *History
}

func NewInterpreter(startDir string) *Interpreter {
	if startDir == "" {
		startDir, _ = os.Getwd()
	}
	in := &Interpreter{
		dir:     startDir,
		history: NewHistory(),
	}
	in.handlers = map[string]handler{
		"cd":    in.cmdCd,
		"ls":    in.cmdLs,
		"dir":   in.cmdLs,
		"pwd":   in.cmdPwd,
		"mkdir": in.cmdMkdir,
		"rm":    in.cmdRm,
		"cp":    in.cmdCp,
		"mv":    in.cmdMv,
		"cat":   in.cmdCat,
		"find":  in.cmdFind,
		"help":  in.cmdHelp,
		"clear": in.cmdClear,
	}
	return in
}

// Dir returns the interpreter's current directory.
func (in *Interpreter) Dir() string {
	return in.dir
}

// History exposes the recall buffer for up/down navigation in the console.
func (in *Interpreter) History() *History {
	return in.history
}

// Execute tokenizes and dispatches one command line. Panics inside a
// handler are converted to failure results so nothing crosses the
// interpreter boundary.
func (in *Interpreter) Execute(line string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			logging.Console("panic in command handler: %v", r)
			result = fail("internal error: %v", r)
		}
	}()

	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ok("")
	}
	in.history.Add(trimmed)

	tokens, err := Tokenize(trimmed)
	if err != nil {
		return fail("parse error: %v", err)
	}
	verb := strings.ToLower(tokens[0])
	h, found := in.handlers[verb]
	if !found {
		return fail("Command not found: %s (try 'help')", verb)
	}

	logging.ConsoleDebug("dispatch %s %v", verb, tokens[1:])
	return h(tokens[1:])
}

// resolve expands ~ and makes relative paths absolute against the
// interpreter's current directory.
func (in *Interpreter) resolve(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(in.dir, path)
	}
	return filepath.Clean(path)
}

// ===== COMMAND HANDLERS =====

func (in *Interpreter) cmdCd(args []string) Result {
	target := ""
	if len(args) == 0 {
		home, err := os.UserHomeDir()
		if err != nil {
			return fail("cd: cannot determine home directory")
		}
		target = home
	} else {
		target = in.resolve(args[0])
	}

	info, err := os.Stat(target)
	if err != nil {
		return fail("cd: no such directory: %s", target)
	}
	if !info.IsDir() {
		return fail("cd: not a directory: %s", target)
	}
	in.dir = target
	return ok(target)
}

func (in *Interpreter) cmdLs(args []string) Result {
	showHidden := false
	long := false
	target := in.dir
	for _, a := range args {
		switch {
		case a == "-a" || a == "--all" || a == "-la" || a == "-al":
			showHidden = true
			long = long || strings.Contains(strings.TrimPrefix(a, "-"), "l")
		case a == "-l":
			long = true
		case strings.HasPrefix(a, "-"):
			return fail("ls: unknown flag: %s", a)
		default:
			target = in.resolve(a)
		}
	}

	entries, err := os.ReadDir(target)
	if err != nil {
		return fail("ls: %v", err)
	}

	// Directories list before files, each group sorted by name.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return entries[i].Name() < entries[j].Name()
	})

	var lines []string
	for _, e := range entries {
		name := e.Name()
		if !showHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if e.IsDir() {
			name += "/"
		}
		if long {
			info, err := e.Info()
			if err != nil {
				lines = append(lines, name)
				continue
			}
			lines = append(lines, fmt.Sprintf("%s  %8s  %s  %s",
				info.Mode(), humanize.IBytes(uint64(info.Size())),
				info.ModTime().Format("2006-01-02 15:04"), name))
		} else {
			lines = append(lines, name)
		}
	}
	return ok(fmt.Sprintf("%d item(s)", len(lines)), lines...)
}

func (in *Interpreter) cmdPwd(args []string) Result {
	return ok(in.dir, in.dir)
}

func (in *Interpreter) cmdMkdir(args []string) Result {
	if len(args) == 0 {
		return fail("mkdir: missing directory name")
	}
	var made []string
	for _, a := range args {
		target := in.resolve(a)
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fail("mkdir: %v", err)
		}
		made = append(made, target)
	}
	return ok(fmt.Sprintf("created %d directorie(s)", len(made)), made...)
}

func (in *Interpreter) cmdRm(args []string) Result {
	recursive := false
	var paths []string
	for _, a := range args {
		switch a {
		case "-r", "-rf", "-R":
			recursive = true
		default:
			if strings.HasPrefix(a, "-") {
				return fail("rm: unknown flag: %s", a)
			}
			paths = append(paths, a)
		}
	}
	if len(paths) == 0 {
		return fail("rm: missing operand")
	}

	removed := 0
	for _, p := range paths {
		target := in.resolve(p)
		info, err := os.Stat(target)
		if err != nil {
			return fail("rm: no such file: %s", target)
		}
		if info.IsDir() {
			if !recursive {
				return fail("rm: %s is a directory (use -r)", target)
			}
			if err := os.RemoveAll(target); err != nil {
				return fail("rm: %v", err)
			}
		} else if err := os.Remove(target); err != nil {
			return fail("rm: %v", err)
		}
		removed++
	}
	return ok(fmt.Sprintf("removed %d item(s)", removed))
}

func (in *Interpreter) cmdCp(args []string) Result {
	if len(args) != 2 {
		return fail("cp: usage: cp <source> <dest>")
	}
	src := in.resolve(args[0])
	dst := in.resolve(args[1])

	info, err := os.Stat(src)
	if err != nil {
		return fail("cp: no such file: %s", src)
	}
	if dstInfo, err := os.Stat(dst); err == nil && dstInfo.IsDir() {
		dst = filepath.Join(dst, filepath.Base(src))
	}

	if info.IsDir() {
		if err := copyDir(src, dst); err != nil {
			return fail("cp: %v", err)
		}
	} else if err := copyFileContents(src, dst); err != nil {
		return fail("cp: %v", err)
	}
	return ok(fmt.Sprintf("copied %s -> %s", src, dst))
}

func (in *Interpreter) cmdMv(args []string) Result {
	if len(args) != 2 {
		return fail("mv: usage: mv <source> <dest>")
	}
	src := in.resolve(args[0])
	dst := in.resolve(args[1])

	if _, err := os.Stat(src); err != nil {
		return fail("mv: no such file: %s", src)
	}
	if dstInfo, err := os.Stat(dst); err == nil && dstInfo.IsDir() {
		dst = filepath.Join(dst, filepath.Base(src))
	}
	if err := os.Rename(src, dst); err != nil {
		return fail("mv: %v", err)
	}
	return ok(fmt.Sprintf("moved %s -> %s", src, dst))
}

const catLimit = 256 * 1024

func (in *Interpreter) cmdCat(args []string) Result {
	if len(args) == 0 {
		return fail("cat: missing file")
	}
	var lines []string
	for _, a := range args {
		target := in.resolve(a)
		info, err := os.Stat(target)
		if err != nil {
			return fail("cat: no such file: %s", target)
		}
		if info.IsDir() {
			return fail("cat: %s is a directory", target)
		}
		if info.Size() > catLimit {
			return fail("cat: %s is too large (%s)", target, humanize.IBytes(uint64(info.Size())))
		}
		data, err := os.ReadFile(target)
		if err != nil {
			return fail("cat: %v", err)
		}
		lines = append(lines, strings.Split(strings.TrimRight(string(data), "\n"), "\n")...)
	}
	return ok(fmt.Sprintf("%d line(s)", len(lines)), lines...)
}

func (in *Interpreter) cmdFind(args []string) Result {
	if len(args) == 0 {
		return fail("find: missing name pattern")
	}
	pattern := args[0]
	root := in.dir
	if len(args) > 1 {
		root = in.resolve(args[1])
	}

	var matches []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		matched, _ := filepath.Match(pattern, d.Name())
		if matched || strings.Contains(strings.ToLower(d.Name()), strings.ToLower(pattern)) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return fail("find: %v", err)
	}
	return ok(fmt.Sprintf("%d match(es)", len(matches)), matches...)
}

func (in *Interpreter) cmdHelp(args []string) Result {
	lines := []string{
		"cd [dir]        change directory (no argument: home)",
		"ls [-a] [-l]    list directory contents",
		"pwd             print current directory",
		"mkdir <dir>...  create directories",
		"rm [-r] <p>...  remove files (directories need -r)",
		"cp <src> <dst>  copy a file or directory",
		"mv <src> <dst>  move or rename",
		"cat <file>...   print file contents",
		"find <pat> [d]  search by name under a directory",
		"clear           clear the console",
		"help            show this text",
	}
	return ok("available commands", lines...)
}

// cmdClear returns the sentinel the console front-end treats as a
// screen reset.
func (in *Interpreter) cmdClear(args []string) Result {
	return Result{OK: true, Message: "CLEAR"}
}
