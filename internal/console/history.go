package console

// History keeps entered command lines and a recall cursor. Prev walks back
// toward the oldest entry, Next walks forward; stepping past the newest
// entry returns an empty line and parks the cursor at the end.
type History struct {
	lines  []string
	cursor int
}

func NewHistory() *History {
	return &History{}
}

// Add appends a line and resets the cursor past the newest entry. Blank
// lines and immediate duplicates are not recorded.
func (h *History) Add(line string) {
	if line == "" {
		h.cursor = len(h.lines)
		return
	}
	if n := len(h.lines); n > 0 && h.lines[n-1] == line {
		h.cursor = n
		return
	}
	h.lines = append(h.lines, line)
	h.cursor = len(h.lines)
}

func (h *History) Prev() string {
	if len(h.lines) == 0 {
		return ""
	}
	if h.cursor > 0 {
		h.cursor--
	}
	return h.lines[h.cursor]
}

func (h *History) Next() string {
	if h.cursor < len(h.lines) {
		h.cursor++
	}
	if h.cursor >= len(h.lines) {
		h.cursor = len(h.lines)
		return ""
	}
	return h.lines[h.cursor]
}

func (h *History) Len() int {
	return len(h.lines)
}
