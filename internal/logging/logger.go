package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Logger wraps the leveled logger the engine reports events through. When an
// event file is configured every line is also appended there, timestamped,
// so a session leaves a human-readable audit trail behind.
type Logger struct {
	*log.Logger
	file *os.File
}

// New creates a logger writing to stderr and, if eventPath is non-empty, to
// an append-only event log file.
func New(level log.Level, eventPath string) (*Logger, error) {
	var w io.Writer = os.Stderr
	var f *os.File

	if eventPath != "" {
		if err := os.MkdirAll(filepath.Dir(eventPath), 0755); err != nil {
			return nil, fmt.Errorf("error creating log directory: %w", err)
		}
		var err error
		f, err = os.OpenFile(eventPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("error opening event log: %w", err)
		}
		w = io.MultiWriter(os.Stderr, f)
	}

	l := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05",
	})

	return &Logger{Logger: l, file: f}, nil
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *Logger {
	return &Logger{Logger: log.New(io.Discard)}
}

// Close closes the event log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
