package testutil

import (
	"fmt"
	"strings"
	"sync"

	"mvx/internal/mvx"
)

// LogEntry is a single record captured by RecordingLogger.
type LogEntry struct {
	Level   string
	Message string
	Args    []any
}

// String renders the entry as "LEVEL message k=v ...".
func (e LogEntry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", e.Level, e.Message)
	for i := 0; i+1 < len(e.Args); i += 2 {
		fmt.Fprintf(&b, " %v=%v", e.Args[i], e.Args[i+1])
	}
	return b.String()
}

// RecordingLogger keeps every record in memory so tests can assert on diagnostics.
type RecordingLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{}
}

func (l *RecordingLogger) record(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Message: msg, Args: args})
}

func (l *RecordingLogger) Debug(msg string, args ...any) { l.record("DEBUG", msg, args) }
func (l *RecordingLogger) Info(msg string, args ...any)  { l.record("INFO", msg, args) }
func (l *RecordingLogger) Warn(msg string, args ...any)  { l.record("WARN", msg, args) }
func (l *RecordingLogger) Error(msg string, args ...any) { l.record("ERROR", msg, args) }

// Entries returns the records at the given level, or all records if level is empty.
func (l *RecordingLogger) Entries(level string) []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []LogEntry
	for _, e := range l.entries {
		if level == "" || e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// Diagnostics returns the WARN and ERROR records, the ones shown to the user.
func (l *RecordingLogger) Diagnostics() []LogEntry {
	return append(l.Entries("WARN"), l.Entries("ERROR")...)
}

// Compile-time check
var _ mvx.Logger = (*RecordingLogger)(nil)
