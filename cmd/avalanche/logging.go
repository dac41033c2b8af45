package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger at the --log-level threshold.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// tuiLogger logs to ~/.avalanche/avalanche.log since the terminal is taken
// by the alternate screen. The returned func closes the file.
func tuiLogger() (*log.Logger, func()) {
	home, err := os.UserHomeDir()
	if err != nil {
		return newLogger(io.Discard, "avalanche"), func() {}
	}
	dir := filepath.Join(home, ".avalanche")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot create %s: %v\n", dir, err)
		return newLogger(io.Discard, "avalanche"), func() {}
	}

	f, err := os.OpenFile(filepath.Join(dir, "avalanche.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", err)
		return newLogger(io.Discard, "avalanche"), func() {}
	}
	return newLogger(f, "avalanche"), func() { f.Close() }
}
