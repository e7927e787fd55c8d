package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"ferret/internal/logging"
)

// DirWatcher watches the browser's current directory and invokes a callback
// once changes settle, so a burst of filesystem events produces a single
// refresh instead of one per event.
type DirWatcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	dir         string
	onChange    func(dir string)
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool

	stats Stats
}

// Stats tracks watcher activity for debugging.
type Stats struct {
	Created       int
	Modified      int
	Removed       int
	RefreshesSent int
	Errors        int
	LastEventTime time.Time
	LastEventPath string
}

// New creates a DirWatcher. onChange is called with the watched directory
// after events settle; it runs on the watcher goroutine.
func New(dir string, onChange func(dir string)) (*DirWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &DirWatcher{
		watcher:     w,
		dir:         dir,
		onChange:    onChange,
		debounceMap: make(map[string]time.Time),
		debounceDur: 300 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the event loop runs in a goroutine.
func (dw *DirWatcher) Start(ctx context.Context) error {
	dw.mu.Lock()
	if dw.running {
		dw.mu.Unlock()
		return nil
	}
	dw.running = true
	dir := dw.dir
	dw.mu.Unlock()

	if err := dw.watcher.Add(dir); err != nil {
		logging.Watcher("initial watch of %s failed: %v", dir, err)
	} else {
		logging.Watcher("watching directory: %s", dir)
	}

	go dw.run(ctx)
	return nil
}

// Stop shuts the watcher down and waits for the event loop to exit.
func (dw *DirWatcher) Stop() {
	dw.mu.Lock()
	if !dw.running {
		dw.mu.Unlock()
		return
	}
	dw.running = false
	dw.mu.Unlock()

	close(dw.stopCh)
	<-dw.doneCh

	if err := dw.watcher.Close(); err != nil {
		logging.Watcher("error closing watcher: %v", err)
	}
}

// SetDir re-points the watch at a new directory when the browser navigates.
// Pending events for the old directory are dropped.
func (dw *DirWatcher) SetDir(dir string) error {
	dw.mu.Lock()
	old := dw.dir
	dw.dir = dir
	dw.debounceMap = make(map[string]time.Time)
	dw.mu.Unlock()

	if old == dir {
		return nil
	}
	if old != "" {
		if err := dw.watcher.Remove(old); err != nil {
			logging.WatcherDebug("remove watch on %s: %v", old, err)
		}
	}
	if err := dw.watcher.Add(dir); err != nil {
		logging.Watcher("watch %s failed: %v", dir, err)
		return err
	}
	logging.WatcherDebug("watch moved %s -> %s", old, dir)
	return nil
}

func (dw *DirWatcher) IsWatching() bool {
	dw.mu.RLock()
	defer dw.mu.RUnlock()
	return dw.running
}

func (dw *DirWatcher) GetStats() Stats {
	dw.mu.RLock()
	defer dw.mu.RUnlock()
	return dw.stats
}

func (dw *DirWatcher) run(ctx context.Context) {
	defer close(dw.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-dw.stopCh:
			return

		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			dw.handleEvent(event)

		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			logging.Watcher("watch error: %v", err)
			dw.mu.Lock()
			dw.stats.Errors++
			dw.mu.Unlock()

		case <-ticker.C:
			dw.flushSettled()
		}
	}
}

func (dw *DirWatcher) handleEvent(event fsnotify.Event) {
	switch {
	case event.Op&fsnotify.Create != 0:
		dw.mu.Lock()
		dw.stats.Created++
	case event.Op&fsnotify.Write != 0:
		dw.mu.Lock()
		dw.stats.Modified++
	case event.Op&fsnotify.Remove != 0, event.Op&fsnotify.Rename != 0:
		dw.mu.Lock()
		dw.stats.Removed++
	default:
		// Chmod and friends do not change directory listings.
		return
	}
	dw.stats.LastEventTime = time.Now()
	dw.stats.LastEventPath = event.Name
	dw.debounceMap[event.Name] = time.Now()
	dw.mu.Unlock()

	logging.WatcherDebug("event %s on %s", event.Op, event.Name)
}

func (dw *DirWatcher) flushSettled() {
	dw.mu.Lock()
	now := time.Now()
	settled := 0
	for path, eventTime := range dw.debounceMap {
		if now.Sub(eventTime) >= dw.debounceDur {
			delete(dw.debounceMap, path)
			settled++
		}
	}
	fire := settled > 0
	dir := dw.dir
	if fire {
		dw.stats.RefreshesSent++
	}
	dw.mu.Unlock()

	if fire && dw.onChange != nil {
		dw.onChange(dir)
	}
}
