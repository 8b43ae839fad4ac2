package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	clog "github.com/charmbracelet/log"
)

// Console returns a logger for command output on w. verbose enables debug
// records; otherwise only warnings and errors are shown.
func Console(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(NewConsoleHandler(w, level))
}

// Discard returns a logger that drops every record. The TUI uses it when
// no log file is configured, since stderr output would tear the screen.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// File opens path for appending and returns a JSON logger writing to it,
// with the file's Close.
func File(path string, verbose bool) (*slog.Logger, func() error, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	level := clog.InfoLevel
	if verbose {
		level = clog.DebugLevel
	}
	handler := clog.NewWithOptions(f, clog.Options{
		Prefix:          "quizly",
		Level:           level,
		ReportTimestamp: true,
		Formatter:       clog.JSONFormatter,
	})
	return slog.New(handler), f.Close, nil
}
