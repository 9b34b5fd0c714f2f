package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Config contains logging configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// FilePath is the path to the log file. Empty means no file logging.
	FilePath string
	// MaxSizeMB is the maximum size in MB before rotation.
	MaxSizeMB int
	// MaxFiles is the maximum number of rotated files to keep.
	MaxFiles int
	// Stderr receives a text copy of records when non-nil.
	Stderr io.Writer
	// StderrLevel is the minimum level copied to Stderr. Empty means Level.
	StderrLevel string
	// RunID tags every record. Empty generates a new one.
	RunID string
}

// DefaultConfig logs warnings and errors to stderr only.
func DefaultConfig() Config {
	return Config{
		Level:  "warn",
		Stderr: os.Stderr,
	}
}

// DebugConfig logs everything to the rotating debug file. When the caller
// sets Stderr, only warnings and errors are copied there so check output
// stays readable.
func DebugConfig() Config {
	return Config{
		Level:       "debug",
		FilePath:    DefaultLogPath(),
		MaxSizeMB:   10,
		MaxFiles:    5,
		StderrLevel: "warn",
	}
}

// NewRunID returns a fresh invocation id.
func NewRunID() string {
	return uuid.NewString()
}

// Setup builds a logger for cfg and returns it with a cleanup function that
// flushes and closes the log file. Cleanup is always non-nil on success.
func Setup(cfg Config) (*slog.Logger, func(), error) {
	level := parseLevel(cfg.Level)
	runID := cfg.RunID
	if runID == "" {
		runID = NewRunID()
	}

	var handlers []slog.Handler
	cleanup := func() {}

	if cfg.FilePath != "" {
		writer, err := NewRotatingWriter(cfg.FilePath, cfg.MaxSizeMB, cfg.MaxFiles)
		if err != nil {
			return nil, nil, err
		}
		handlers = append(handlers, slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level}))
		cleanup = func() {
			_ = writer.Sync()
			_ = writer.Close()
		}
	}

	if cfg.Stderr != nil {
		stderrLevel := level
		if cfg.StderrLevel != "" {
			stderrLevel = parseLevel(cfg.StderrLevel)
		}
		handlers = append(handlers, slog.NewTextHandler(cfg.Stderr, &slog.HandlerOptions{Level: stderrLevel}))
	}

	var handler slog.Handler
	switch len(handlers) {
	case 0:
		handler = slog.DiscardHandler
	case 1:
		handler = handlers[0]
	default:
		handler = fanout(handlers)
	}

	return slog.New(handler).With(slog.String("run_id", runID)), cleanup, nil
}

// Discard returns a logger that drops everything. Used until Setup runs.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// parseLevel converts string level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
