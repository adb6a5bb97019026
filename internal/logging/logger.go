// Package logging configures the CLI's structured logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/rbright/i3ipc/internal/config"
)

// Runtime bundles the configured logger and its open file handle lifecycle.
type Runtime struct {
	Logger *slog.Logger
	// Path is the JSONL log file, empty when logging to stderr.
	Path   string
	closer io.Closer
}

// Close flushes and closes the logger output sink.
func (r Runtime) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// New builds the runtime logger. With cfg.File set it appends JSONL under the
// state directory; otherwise it writes to stderr, as text on a terminal and
// JSON when redirected.
func New(cfg config.LogConfig, stderr io.Writer) (Runtime, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return Runtime{}, err
	}
	options := &slog.HandlerOptions{Level: level}

	if !cfg.File {
		var handler slog.Handler
		if isTerminal(stderr) {
			handler = slog.NewTextHandler(stderr, options)
		} else {
			handler = slog.NewJSONHandler(stderr, options)
		}
		return Runtime{Logger: slog.New(handler)}, nil
	}

	path, err := resolveLogPath()
	if err != nil {
		return Runtime{}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return Runtime{}, err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return Runtime{}, err
	}

	logger := slog.New(slog.NewJSONHandler(f, options))
	return Runtime{Logger: logger, Path: path, closer: f}, nil
}

// ParseLevel maps a config level name to its slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", name)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// resolveLogPath selects XDG_STATE_HOME when available, otherwise ~/.local/state.
func resolveLogPath() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); xdg != "" {
		return filepath.Join(xdg, "i3ipc", "log.jsonl"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "i3ipc", "log.jsonl"), nil
}
