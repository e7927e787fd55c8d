package llm

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"ferret/internal/logging"
)

// State is the worker lifecycle state.
type State int

const (
	// StateIdle means no request has been submitted yet.
	StateIdle State = iota
	// StateRequesting means exactly one request is in flight.
	StateRequesting
	// StateDone means the last request finished and its outcome was
	// delivered; a new request may be submitted.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// ErrBusy is returned by Submit while a request is in flight.
var ErrBusy = errors.New("llm worker busy: a request is already in flight")

// Request is one natural-language command with its browser context.
type Request struct {
	Command    string
	CurrentDir string
	Selected   []string
}

// Outcome is the terminal result of one request. Exactly one of Response or
// Err is meaningful.
type Outcome struct {
	RequestID string
	Response  string
	Parsed    Parsed
	Err       error
	Elapsed   time.Duration
}

// Worker runs LLM requests on a background goroutine, one at a time. The
// state machine {Idle, Requesting, Done} guards submission: Submit from
// Requesting fails with ErrBusy. Cancellation is cooperative through the
// request context.
type Worker struct {
	client *Client

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	doneCh chan struct{}
}

// NewWorker creates a Worker over the given client.
func NewWorker(client *Client) *Worker {
	return &Worker{client: client, state: StateIdle}
}

// State returns the current lifecycle state.
func (w *Worker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Busy reports whether a request is in flight.
func (w *Worker) Busy() bool { return w.State() == StateRequesting }

// Submit starts one request and returns a channel that receives exactly one
// Outcome. It fails with ErrBusy while a previous request is still in
// flight; transitions Idle/Done -> Requesting are the only ones permitted.
func (w *Worker) Submit(ctx context.Context, req Request) (<-chan Outcome, error) {
	w.mu.Lock()
	if w.state == StateRequesting {
		w.mu.Unlock()
		return nil, ErrBusy
	}
	reqCtx, cancel := context.WithCancel(ctx)
	w.state = StateRequesting
	w.cancel = cancel
	w.doneCh = make(chan struct{})
	done := w.doneCh
	w.mu.Unlock()

	id := uuid.NewString()
	logging.LLM("Worker starting request %s: '%s'", id, truncate(req.Command, 50))

	out := make(chan Outcome, 1)
	go func() {
		defer close(done)
		defer cancel()

		start := time.Now()
		response, err := w.client.Process(reqCtx, req.Command, req.CurrentDir, req.Selected)

		outcome := Outcome{
			RequestID: id,
			Response:  response,
			Err:       err,
			Elapsed:   time.Since(start),
		}
		if err == nil {
			outcome.Parsed = ParseResponse(response)
		}

		w.mu.Lock()
		w.state = StateDone
		w.cancel = nil
		w.mu.Unlock()

		if err != nil {
			logging.Get(logging.CategoryLLM).Error("Worker request %s failed after %v: %v", id, outcome.Elapsed, err)
		} else {
			logging.LLM("Worker request %s finished in %v", id, outcome.Elapsed)
		}
		out <- outcome
	}()
	return out, nil
}

// Cancel aborts the in-flight request, if any. The outcome channel still
// receives a (failed) Outcome.
func (w *Worker) Cancel() {
	w.mu.Lock()
	cancel := w.cancel
	w.mu.Unlock()
	if cancel != nil {
		logging.LLM("Worker cancel requested")
		cancel()
	}
}

// Shutdown cancels any in-flight request and waits up to timeout for the
// worker goroutine to exit. Returns false when the wait timed out.
func (w *Worker) Shutdown(timeout time.Duration) bool {
	w.mu.Lock()
	cancel := w.cancel
	done := w.doneCh
	inFlight := w.state == StateRequesting
	w.mu.Unlock()

	if !inFlight {
		return true
	}
	if cancel != nil {
		cancel()
	}
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		logging.Get(logging.CategoryLLM).Warn("Worker shutdown timed out after %v", timeout)
		return false
	}
}
