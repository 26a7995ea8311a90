// Package logging wires the diagnostics logger. The TUI owns stdout, so
// everything goes to a state-dir file; callers that cannot open it get a
// discard logger rather than an error.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultPath returns the log file location under the user's state dir.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "finsight", "finsight.log")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "finsight", "finsight.log")
}

// Open returns a file-backed logger at the given level. An empty path or
// an unopenable file degrades to a discard logger.
func Open(path, level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	if path == "" {
		return log
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return log
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return log
	}
	log.SetOutput(f)
	return log
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
