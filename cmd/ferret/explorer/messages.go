package explorer

import (
	"ferret/internal/llm"
	"ferret/internal/metadata"
	"ferret/internal/preview"
	"ferret/internal/terminal"
)

// dirLoadedMsg carries a freshly read directory listing.
type dirLoadedMsg struct {
	dir     string
	entries []Entry
	err     error
}

// previewMsg carries the rendered preview and metadata for the file
// under the cursor.
type previewMsg struct {
	path    string
	preview preview.Preview
	info    *metadata.FileInfo
	record  *metadata.Record
}

// llmOutcomeMsg wraps the worker result for one assistant request.
type llmOutcomeMsg struct {
	outcome llm.Outcome
}

// llmHealthMsg reports the startup health probe.
type llmHealthMsg struct {
	modelAvailable bool
	err            error
}

// terminalEventMsg is one event from the embedded shell session.
type terminalEventMsg struct {
	event terminal.Event
}

// watchRefreshMsg asks the browser to reload after filesystem changes
// settle.
type watchRefreshMsg struct {
	dir string
}

// tagSearchMsg carries the stored paths matching a tag query.
type tagSearchMsg struct {
	tag   string
	paths []string
	err   error
}

// statusMsg sets the transient status line.
type statusMsg struct {
	text  string
	isErr bool
}
