package logging

import "time"

// =============================================================================
// CONVENIENCE FUNCTIONS - Quick logging without getting a logger first
// These are no-ops if the category is disabled
// =============================================================================

// Boot logs to the boot category
func Boot(format string, args ...interface{}) {
	Get(CategoryBoot).Info(format, args...)
}

// BootDebug logs debug to the boot category
func BootDebug(format string, args ...interface{}) {
	Get(CategoryBoot).Debug(format, args...)
}

// FileOps logs to the fileops category
func FileOps(format string, args ...interface{}) {
	Get(CategoryFileOps).Info(format, args...)
}

// FileOpsDebug logs debug to the fileops category
func FileOpsDebug(format string, args ...interface{}) {
	Get(CategoryFileOps).Debug(format, args...)
}

// Store logs to the store category
func Store(format string, args ...interface{}) {
	Get(CategoryStore).Info(format, args...)
}

// StoreDebug logs debug to the store category
func StoreDebug(format string, args ...interface{}) {
	Get(CategoryStore).Debug(format, args...)
}

// LLM logs to the llm category
func LLM(format string, args ...interface{}) {
	Get(CategoryLLM).Info(format, args...)
}

// LLMDebug logs debug to the llm category
func LLMDebug(format string, args ...interface{}) {
	Get(CategoryLLM).Debug(format, args...)
}

// Terminal logs to the terminal category
func Terminal(format string, args ...interface{}) {
	Get(CategoryTerminal).Info(format, args...)
}

// TerminalDebug logs debug to the terminal category
func TerminalDebug(format string, args ...interface{}) {
	Get(CategoryTerminal).Debug(format, args...)
}

// Console logs to the console category
func Console(format string, args ...interface{}) {
	Get(CategoryConsole).Info(format, args...)
}

// ConsoleDebug logs debug to the console category
func ConsoleDebug(format string, args ...interface{}) {
	Get(CategoryConsole).Debug(format, args...)
}

// Preview logs to the preview category
func Preview(format string, args ...interface{}) {
	Get(CategoryPreview).Info(format, args...)
}

// PreviewDebug logs debug to the preview category
func PreviewDebug(format string, args ...interface{}) {
	Get(CategoryPreview).Debug(format, args...)
}

// Watcher logs to the watcher category
func Watcher(format string, args ...interface{}) {
	Get(CategoryWatcher).Info(format, args...)
}

// WatcherDebug logs debug to the watcher category
func WatcherDebug(format string, args ...interface{}) {
	Get(CategoryWatcher).Debug(format, args...)
}

// UI logs to the ui category
func UI(format string, args ...interface{}) {
	Get(CategoryUI).Info(format, args...)
}

// UIDebug logs debug to the ui category
func UIDebug(format string, args ...interface{}) {
	Get(CategoryUI).Debug(format, args...)
}

// =============================================================================
// TIMING HELPERS - For performance logging
// =============================================================================

// Timer helps measure operation duration
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{
		category: category,
		op:       operation,
		start:    time.Now(),
	}
}

// Stop ends the timer and logs the duration
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithInfo ends the timer and logs at info level
func (t *Timer) StopWithInfo() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Info("%s completed in %v", t.op, elapsed)
	return elapsed
}
