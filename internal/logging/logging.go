// Package logging configures the diagnostic logger.
//
// Diagnostics go to stderr through log/slog: a colored tint handler when
// stderr is a terminal, a plain text handler otherwise. Status lines meant
// for the user do not go through here.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

const (
	EnvLogLevel   = "MODCHECK_LOG_LEVEL"
	EnvLogNoColor = "MODCHECK_LOG_NOCOLOR"
)

// LevelOff disables all output.
const LevelOff = slog.Level(99)

// Config selects the handler.
type Config struct {
	Level    slog.Level
	NoColor  bool
	Terminal bool
}

// DefaultConfig returns the runtime defaults for w with environment overrides applied.
func DefaultConfig(w io.Writer) Config {
	cfg := Config{
		Level:    slog.LevelWarn,
		Terminal: isTerminal(w),
	}
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(EnvLogNoColor))); err == nil {
		cfg.NoColor = v
	}
	return cfg
}

// New creates a logger writing to w.
func New(w io.Writer, cfg Config) *slog.Logger {
	if cfg.Terminal {
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:   cfg.Level,
			NoColor: cfg.NoColor,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey && len(groups) == 0 {
					return slog.Attr{}
				}
				return a
			},
		}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.Level}))
}

// Setup creates the stderr logger and installs it as the slog default.
func Setup() *slog.Logger {
	logger := New(os.Stderr, DefaultConfig(os.Stderr))
	slog.SetDefault(logger)
	return logger
}

// ParseLevel parses a level name. The second result is false for unknown names.
func ParseLevel(raw string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug", "trace":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "err", "error":
		return slog.LevelError, true
	case "off", "none", "disabled":
		return LevelOff, true
	default:
		return slog.LevelWarn, false
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
