package llm

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// BuildPrompt embeds the user command, current directory and selection into
// the fixed instruction template the response parser understands.
func BuildPrompt(command, currentDir string, selected []string) string {
	basenames := make([]string, 0, len(selected))
	for _, p := range selected {
		basenames = append(basenames, filepath.Base(p))
	}

	var sb strings.Builder
	sb.WriteString("You are an expert AI assistant integrated into a file manager.\n")
	sb.WriteString("Your goal is to translate natural language user commands into specific, executable shell commands or provide helpful file-related information.\n")
	sb.WriteString("You understand the user's current context.\n\n")

	fmt.Fprintf(&sb, "Current Directory: %q\n", currentDir)
	fmt.Fprintf(&sb, "Selected Files/Folders (names only): %s\n", jsonListOrNone(basenames))
	fmt.Fprintf(&sb, "Full paths of selected items (for your reference, do not show to user unless asked): %s\n\n", jsonListOrNone(selected))
	fmt.Fprintf(&sb, "User's Command: %q\n\n", command)

	sb.WriteString(`INSTRUCTIONS:
1. If the command clearly maps to one or more shell commands (for a Linux-like environment such as bash), provide them.
   Prefix EACH INDIVIDUAL executable shell command on its own line with "SHELL_COMMAND:".
   Example:
   User: "list all go files"
   SHELL_COMMAND: find . -maxdepth 1 -type f -name "*.go"
2. For destructive commands (e.g. rm, or mv that might overwrite) you may still suggest the command; the application handles final user confirmation. You MAY add a brief warning comment (e.g. "# This will delete files.").
3. If the command is to find files and you can determine the file paths, list them.
   Prefix the list with "FOUND_FILES_JSON:" followed by a JSON array of absolute file paths.
   Example:
   FOUND_FILES_JSON: ["/home/user/Documents/report.txt", "/home/user/Documents/notes.txt"]
4. If the command asks for information about specific files, answer concisely in natural language without using the prefixes above.
5. If the command is ambiguous or beyond shell capabilities, explain what you understand and state limitations.
6. If the command is unrelated to files in the current context, politely state that you are a file management assistant.
7. Work relative to the Current Directory (".") unless absolute paths are given or implied by selected files.
8. Quote file names containing spaces or special characters in suggested commands.
9. Be concise: only the commands, the FOUND_FILES_JSON list, or the direct answer.

Your Response:
`)
	return sb.String()
}

func jsonListOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "None"
	}
	return string(data)
}
