package i3ipc

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rbright/i3ipc/wire"
)

func TestSocketPathPrefersI3SOCK(t *testing.T) {
	t.Setenv("I3SOCK", "/run/user/1000/i3/ipc-socket.1")
	t.Setenv("SWAYSOCK", "/run/user/1000/sway-ipc.sock")

	path, err := SocketPath(context.Background())
	require.NoError(t, err)
	require.Equal(t, "/run/user/1000/i3/ipc-socket.1", path)
}

func TestSocketPathFallsBackToSWAYSOCK(t *testing.T) {
	t.Setenv("I3SOCK", " ")
	t.Setenv("SWAYSOCK", "/run/user/1000/sway-ipc.sock")

	path, err := SocketPath(context.Background())
	require.NoError(t, err)
	require.Equal(t, "/run/user/1000/sway-ipc.sock", path)
}

func TestSocketPathAsksBinary(t *testing.T) {
	t.Setenv("I3SOCK", "")
	t.Setenv("SWAYSOCK", "")
	installI3Stub(t, `
if [[ "${1:-}" == "--get-socketpath" ]]; then
  echo '/tmp/i3-user.1234/ipc-socket.5678'
  exit 0
fi
exit 3
`)

	path, err := SocketPath(context.Background())
	require.NoError(t, err)
	require.Equal(t, "/tmp/i3-user.1234/ipc-socket.5678", path)
}

func TestSocketPathReportsBinaryFailure(t *testing.T) {
	t.Setenv("I3SOCK", "")
	t.Setenv("SWAYSOCK", "")
	installI3Stub(t, `
echo 'no running i3 instance' >&2
exit 1
`)

	_, err := SocketPath(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "i3 --get-socketpath failed")
	require.Contains(t, err.Error(), "no running i3 instance")
}

func TestSocketPathRejectsEmptyOutput(t *testing.T) {
	t.Setenv("I3SOCK", "")
	t.Setenv("SWAYSOCK", "")
	installI3Stub(t, `echo ''`)

	_, err := SocketPath(context.Background())
	require.EqualError(t, err, "i3 --get-socketpath returned an empty path")
}

func TestConnectReportsSocketPathStage(t *testing.T) {
	t.Setenv("I3SOCK", "")
	t.Setenv("SWAYSOCK", "")

	_, err := Connect(context.Background(), WithBinary(filepath.Join(t.TempDir(), "missing-i3")))
	var connectErr *ConnectError
	require.ErrorAs(t, err, &connectErr)
	require.Equal(t, StageSocketPath, connectErr.Stage)
}

func TestConnectReportsDialStage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.sock")

	_, err := Connect(context.Background(), WithSocketPath(path), WithDialTimeout(time.Second))
	var connectErr *ConnectError
	require.ErrorAs(t, err, &connectErr)
	require.Equal(t, StageDial, connectErr.Stage)
	require.Equal(t, path, connectErr.Path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestConnectOverUnixSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ipc.sock")
	ln, err := net.Listen("unix", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		req, err := wire.ReadMessage(conn)
		if err != nil {
			return
		}
		_ = wire.WriteMessage(conn, wire.Message{Type: req.Type, Payload: []byte(`["default"]`)})
	}()

	t.Setenv("I3SOCK", path)
	conn, err := Connect(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	modes, err := conn.GetBindingModes()
	require.NoError(t, err)
	require.Equal(t, []string{"default"}, modes)
}

func installI3Stub(t *testing.T, body string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "i3")
	script := "#!/usr/bin/env bash\nset -euo pipefail\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	t.Setenv("PATH", dir+":"+os.Getenv("PATH"))
}

func TestSocketPathOptionsOverrideDiscovery(t *testing.T) {
	t.Setenv("I3SOCK", "/run/user/1000/i3/ipc-socket.1")

	path, err := SocketPath(context.Background(), WithSocketPath(" /tmp/explicit.sock "))
	require.NoError(t, err)
	require.Equal(t, "/tmp/explicit.sock", path)
}

func TestSocketPathUsesConfiguredBinary(t *testing.T) {
	t.Setenv("I3SOCK", "")
	t.Setenv("SWAYSOCK", "")
	dir := t.TempDir()
	binary := filepath.Join(dir, "sway")
	script := "#!/usr/bin/env bash\necho /run/user/1000/sway-ipc.sock\n"
	require.NoError(t, os.WriteFile(binary, []byte(script), 0o755))

	path, err := SocketPath(context.Background(), WithBinary(binary))
	require.NoError(t, err)
	require.Equal(t, "/run/user/1000/sway-ipc.sock", path)
}
