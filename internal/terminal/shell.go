package terminal

import (
	"os"
	"runtime"
)

// DetectShell picks the shell executable and its command flag for this OS.
// An explicit override wins; otherwise $SHELL, then a platform fallback.
func DetectShell(override string) (program, flag string) {
	if runtime.GOOS == "windows" {
		if override != "" {
			return override, "/c"
		}
		return "cmd.exe", "/c"
	}

	if override != "" {
		return override, "-c"
	}
	if shell := os.Getenv("SHELL"); shell != "" {
		if _, err := os.Stat(shell); err == nil {
			return shell, "-c"
		}
	}
	if runtime.GOOS == "darwin" {
		if _, err := os.Stat("/bin/zsh"); err == nil {
			return "/bin/zsh", "-c"
		}
	}
	if _, err := os.Stat("/bin/bash"); err == nil {
		return "/bin/bash", "-c"
	}
	return "/bin/sh", "-c"
}
