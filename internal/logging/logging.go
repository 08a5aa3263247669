// Package logging provides component loggers backed by charmbracelet/log.
//
// Basic usage:
//
//	if err := logging.Init(logging.Config{Level: "info"}); err != nil {
//	    return err
//	}
//	defer logging.Close()
//
//	logger := logging.Get("scanner")
//	logger.Info("scan started", "root", "/home/user")
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
)

// ErrInvalidLevel is returned when an invalid log level string is provided.
var ErrInvalidLevel = errors.New("invalid log level")

// Config configures the logging system.
type Config struct {
	// Level is the minimum level written (debug, info, warn, error).
	Level string

	// Path is the log file path. Empty uses DefaultLogPath().
	Path string

	// Console mirrors log output to stderr.
	Console bool
}

// Logger is a component-scoped logger.
type Logger struct {
	component string
	inner     *log.Logger
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, keyvals ...interface{}) { l.current().Debug(msg, keyvals...) }

// Info logs an info message.
func (l *Logger) Info(msg string, keyvals ...interface{}) { l.current().Info(msg, keyvals...) }

// Warn logs a warning message.
func (l *Logger) Warn(msg string, keyvals ...interface{}) { l.current().Warn(msg, keyvals...) }

// Error logs an error message.
func (l *Logger) Error(msg string, keyvals ...interface{}) { l.current().Error(msg, keyvals...) }

// With returns a logger carrying additional key/value context.
func (l *Logger) With(keyvals ...interface{}) *Logger {
	return &Logger{component: l.component, inner: l.current().With(keyvals...)}
}

// current picks up a logger rebuilt by a later Init.
func (l *Logger) current() *log.Logger {
	if l.inner != nil {
		return l.inner
	}
	globalState.mu.RLock()
	defer globalState.mu.RUnlock()
	return globalState.base.WithPrefix(l.component)
}

type state struct {
	mu     sync.RWMutex
	base   *log.Logger
	file   *os.File
	cached map[string]*Logger
}

var globalState = &state{
	base:   log.NewWithOptions(io.Discard, log.Options{}),
	cached: make(map[string]*Logger),
}

// ParseLevel parses a level name.
func ParseLevel(s string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel, nil
	case "", "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("%w: %s", ErrInvalidLevel, s)
	}
}

// DefaultLogPath returns the log file location under the XDG state directory.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, "file-lister", "file-lister.log")
}

// Init opens the log file and rebuilds every logger. Before Init all
// loggers write to io.Discard.
func Init(cfg Config) error {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}

	path := cfg.Path
	if path == "" {
		path = DefaultLogPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	var w io.Writer = f
	if cfg.Console {
		w = io.MultiWriter(f, os.Stderr)
	}

	globalState.mu.Lock()
	defer globalState.mu.Unlock()

	if globalState.file != nil {
		_ = globalState.file.Close()
	}
	globalState.file = f
	globalState.base = log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	globalState.cached = make(map[string]*Logger)
	return nil
}

// Get returns the logger for component.
func Get(component string) *Logger {
	globalState.mu.RLock()
	if l, ok := globalState.cached[component]; ok {
		globalState.mu.RUnlock()
		return l
	}
	globalState.mu.RUnlock()

	globalState.mu.Lock()
	defer globalState.mu.Unlock()
	if l, ok := globalState.cached[component]; ok {
		return l
	}
	l := &Logger{component: component}
	globalState.cached[component] = l
	return l
}

// Close flushes and closes the log file. Loggers fall back to io.Discard.
func Close() error {
	globalState.mu.Lock()
	defer globalState.mu.Unlock()

	globalState.base = log.NewWithOptions(io.Discard, log.Options{})
	if globalState.file == nil {
		return nil
	}
	err := globalState.file.Close()
	globalState.file = nil
	return err
}
