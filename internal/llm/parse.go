package llm

import (
	"encoding/json"
	"strings"

	"ferret/internal/logging"
)

// Response-line conventions the prompt instructs the model to use.
const (
	shellCommandPrefix = "SHELL_COMMAND:"
	foundFilesPrefix   = "FOUND_FILES_JSON:"
)

// Parsed is the structured reading of a raw LLM response.
type Parsed struct {
	// Commands holds one entry per SHELL_COMMAND: line, in response order,
	// with inline # comments stripped.
	Commands []string

	// FoundFiles is the path list from the first well-formed
	// FOUND_FILES_JSON: array, nil when the response had none.
	FoundFiles []string
}

// HasSelection reports whether a file-selection list was extracted.
func (p Parsed) HasSelection() bool { return p.FoundFiles != nil }

// ParseResponse scans the response text line by line for the two output
// conventions. Malformed JSON after FOUND_FILES_JSON: is logged and skipped;
// it never fails the parse.
func ParseResponse(text string) Parsed {
	var parsed Parsed

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		if strings.HasPrefix(line, shellCommandPrefix) {
			cmd := strings.TrimSpace(line[len(shellCommandPrefix):])
			if i := strings.Index(cmd, "#"); i >= 0 {
				cmd = strings.TrimSpace(cmd[:i])
			}
			if cmd != "" {
				parsed.Commands = append(parsed.Commands, cmd)
			}
			continue
		}

		if parsed.FoundFiles == nil && strings.HasPrefix(line, foundFilesPrefix) {
			payload := strings.TrimSpace(line[len(foundFilesPrefix):])
			var paths []string
			if err := json.Unmarshal([]byte(payload), &paths); err != nil {
				logging.Get(logging.CategoryLLM).Error("Malformed FOUND_FILES_JSON payload: %v", err)
				continue
			}
			parsed.FoundFiles = paths
		}
	}

	if len(parsed.Commands) > 0 {
		logging.LLM("LLM suggested %d command(s)", len(parsed.Commands))
	}
	return parsed
}
