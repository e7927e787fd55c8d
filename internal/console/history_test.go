package console

import "testing"

func TestHistoryRecall(t *testing.T) {
	h := NewHistory()
	h.Add("first")
	h.Add("second")
	h.Add("third")

	if got := h.Prev(); got != "third" {
		t.Fatalf("Prev = %q, want third", got)
	}
	if got := h.Prev(); got != "second" {
		t.Fatalf("Prev = %q, want second", got)
	}
	if got := h.Next(); got != "third" {
		t.Fatalf("Next = %q, want third", got)
	}
	// Stepping past the newest entry yields a blank line and parks the
	// cursor so another Next stays blank.
	if got := h.Next(); got != "" {
		t.Fatalf("Next past end = %q, want empty", got)
	}
	if got := h.Next(); got != "" {
		t.Fatalf("Next past end again = %q, want empty", got)
	}
	if got := h.Prev(); got != "third" {
		t.Fatalf("Prev after parking = %q, want third", got)
	}
}

func TestHistoryPrevStopsAtOldest(t *testing.T) {
	h := NewHistory()
	h.Add("only")
	for i := 0; i < 3; i++ {
		if got := h.Prev(); got != "only" {
			t.Fatalf("Prev #%d = %q, want only", i, got)
		}
	}
}

func TestHistorySkipsDuplicatesAndBlanks(t *testing.T) {
	h := NewHistory()
	h.Add("ls")
	h.Add("ls")
	h.Add("")
	if h.Len() != 1 {
		t.Fatalf("Len = %d, want 1", h.Len())
	}
}

func TestHistoryEmpty(t *testing.T) {
	h := NewHistory()
	if got := h.Prev(); got != "" {
		t.Fatalf("Prev on empty = %q", got)
	}
	if got := h.Next(); got != "" {
		t.Fatalf("Next on empty = %q", got)
	}
}
