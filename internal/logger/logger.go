// Package logger provides a zerolog wrapper with file-friendly defaults.
//
// The terminal belongs to the TUI, so the root logger writes to a file
// (or any io.Writer) rather than stdout.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Options configures the logger.
type Options struct {
	Level  string
	Format string
	Writer io.Writer
}

// Logger is the project-wide logging type.
type Logger = zerolog.Logger

var (
	mu   sync.Mutex
	root atomic.Pointer[zerolog.Logger]
)

// Get returns the process-wide root logger; before Init it discards everything.
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	nop := zerolog.Nop()
	return &nop
}

// Init builds the root logger. Later calls replace it.
func Init(opt Options) {
	mu.Lock()
	defer mu.Unlock()

	zerolog.TimeFieldFormat = time.RFC3339Nano

	var w io.Writer = os.Stderr
	if opt.Writer != nil {
		w = opt.Writer
	}
	if opt.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}
	log := zerolog.New(w).Level(ParseLevel(opt.Level)).With().Timestamp().Logger()
	root.Store(&log)
}

// Named returns a child logger with a component field.
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	ll := Get().With().Str("component", component).Logger()
	return &ll
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	l := zerolog.Nop()
	return &l
}

// OpenFile opens path for appending, creating parent directories.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
