// Package logging is the human-readable diagnostics log for duo.
//
// The TUI owns the terminal, so everything goes to a dated file under the
// data directory. Helpers are no-ops until Init succeeds, which keeps tests
// and the CLI quiet.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

var (
	// Logger is the process-wide logger; nil before Init.
	Logger *log.Logger

	logFile *os.File
)

// Init opens dataDir/logs/duo-YYYY-MM-DD.log and installs Logger.
func Init(dataDir string, version string) error {
	logDir := filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	name := fmt.Sprintf("duo-%s.log", time.Now().Format("2006-01-02"))
	f, err := os.OpenFile(filepath.Join(logDir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logFile = f

	InitWriter(f)
	Logger.Info("duo started", "version", version)
	return nil
}

// InitWriter installs a Logger writing to w. Used by Init and by tests.
func InitWriter(w io.Writer) {
	Logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           log.DebugLevel,
	})
}

// Close flushes the shutdown line and closes the file.
func Close() {
	if Logger != nil {
		Logger.Info("duo shutting down")
	}
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// WithPrefix returns a sub-logger tagged with prefix, or nil before Init.
func WithPrefix(prefix string) *log.Logger {
	if Logger != nil {
		return Logger.WithPrefix(prefix)
	}
	return nil
}
