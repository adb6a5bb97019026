package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rbright/i3ipc/internal/config"
)

func TestResolveLogPathUsesXDGStateHome(t *testing.T) {
	xdgStateHome := t.TempDir()
	t.Setenv("XDG_STATE_HOME", xdgStateHome)
	t.Setenv("HOME", t.TempDir())

	path, err := resolveLogPath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(xdgStateHome, "i3ipc", "log.jsonl"), path)
}

func TestResolveLogPathFallsBackToHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("HOME", home)

	path, err := resolveLogPath()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".local", "state", "i3ipc", "log.jsonl"), path)
}

func TestNewCreatesWritableJSONLogFile(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	runtime, err := New(config.LogConfig{Level: "info", File: true}, &bytes.Buffer{})
	require.NoError(t, err)

	runtime.Logger.Info("unit-test-log", "component", "logging")
	runtime.Logger.Debug("filtered-out")
	require.NoError(t, runtime.Close())

	contents, err := os.ReadFile(runtime.Path)
	require.NoError(t, err)
	require.Contains(t, string(contents), `"msg":"unit-test-log"`)
	require.Contains(t, string(contents), `"component":"logging"`)
	require.NotContains(t, string(contents), "filtered-out")

	stat, err := os.Stat(runtime.Path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), stat.Mode().Perm())
}

func TestNewWritesJSONToRedirectedStderr(t *testing.T) {
	var stderr bytes.Buffer

	runtime, err := New(config.LogConfig{Level: "debug"}, &stderr)
	require.NoError(t, err)
	require.Empty(t, runtime.Path)

	runtime.Logger.Debug("socket resolved", "path", "/tmp/ipc.sock")
	require.NoError(t, runtime.Close())
	require.Contains(t, stderr.String(), `"msg":"socket resolved"`)
	require.Contains(t, stderr.String(), `"path":"/tmp/ipc.sock"`)
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"":      slog.LevelInfo,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, want := range cases {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		require.Equal(t, want, got, name)
	}

	_, err := ParseLevel("trace")
	require.EqualError(t, err, `unknown log level "trace"`)
}
