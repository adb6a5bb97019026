package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rbright/i3ipc/internal/i3test"
	"github.com/rbright/i3ipc/wire"
)

const versionReply = `{"major":4,"minor":22,"patch":0,"human_readable":"4.22 (2023-01-02)","loaded_config_file_name":"/home/u/.config/i3/config"}`

const treeReply = `{"id":1,"name":"root","type":"root","border":"normal","current_border_width":0,"layout":"splith",
	"rect":{"x":0,"y":0,"width":1920,"height":1080},"window_rect":{"x":0,"y":0,"width":0,"height":0},
	"deco_rect":{"x":0,"y":0,"width":0,"height":0},"geometry":{"x":0,"y":0,"width":0,"height":0},
	"urgent":false,"focused":false,"focus":[2],"nodes":[
	{"id":2,"name":"vim","type":"con","border":"pixel","current_border_width":2,"layout":"splith",
	"rect":{"x":0,"y":0,"width":1920,"height":1080},"window_rect":{"x":0,"y":0,"width":0,"height":0},
	"deco_rect":{"x":0,"y":0,"width":0,"height":0},"geometry":{"x":0,"y":0,"width":0,"height":0},
	"window":8388614,"urgent":false,"focused":true}]}`

func TestExecuteHelp(t *testing.T) {
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	exitCode := Execute(context.Background(), []string{"--help"}, &stdout, &stderr)
	require.Equal(t, 0, exitCode)
	require.Contains(t, stdout.String(), "Usage:")
	require.Empty(t, stderr.String())
}

func TestExecuteVersion(t *testing.T) {
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	exitCode := Execute(context.Background(), []string{"version"}, &stdout, &stderr)
	require.Equal(t, 0, exitCode)
	require.Contains(t, stdout.String(), "i3ipc")
	require.Empty(t, stderr.String())
}

func TestExecuteUnknownCommand(t *testing.T) {
	var stdout bytes.Buffer
	var stderr bytes.Buffer

	exitCode := Execute(context.Background(), []string{"definitely-not-a-command"}, &stdout, &stderr)
	require.Equal(t, 2, exitCode)
	require.Contains(t, stderr.String(), "unknown command")
	require.Contains(t, stderr.String(), "Usage:")
}

func TestExecuteRejectsUnknownOutputFormat(t *testing.T) {
	configPath := setupRunnerEnv(t)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	exitCode := Execute(context.Background(), []string{"--config", configPath, "-o", "xml", "marks"}, &stdout, &stderr)
	require.Equal(t, 2, exitCode)
	require.Contains(t, stderr.String(), "output must be one of")
}

func TestExecuteQueries(t *testing.T) {
	configPath := setupRunnerEnv(t)
	server := startFakeI3(t, i3test.Replies(map[wire.MessageType]string{
		wire.GetWorkspaces:   `[{"num":1,"name":"1","visible":true,"focused":true,"urgent":false,"rect":{"x":0,"y":0,"width":1920,"height":1080},"output":"eDP-1"}]`,
		wire.GetMarks:        `["mail","irc"]`,
		wire.GetVersion:      versionReply,
		wire.GetBindingModes: `["default","resize"]`,
		wire.GetTree:         treeReply,
		wire.GetConfig:       `{"config":"set $mod Mod4\n"}`,
	}))

	cases := []struct {
		name string
		args []string
		want string
	}{
		{"workspaces", []string{"workspaces"}, "* 1            output=eDP-1 1920x1080+0+0 visible\n"},
		{"marks", []string{"marks"}, "mail\nirc\n"},
		{"binding modes", []string{"binding-modes"}, "default\nresize\n"},
		{"i3 version", []string{"i3-version"}, "4.22 (2023-01-02)\nconfig: /home/u/.config/i3/config\n"},
		{"config", []string{"config"}, "set $mod Mod4\n"},
		{"focused", []string{"focused"}, "con #2 splith \"vim\" focused window\n"},
		{"marks as yaml", []string{"-o", "yaml", "marks"}, "- mail\n- irc\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var stdout bytes.Buffer
			var stderr bytes.Buffer
			args := append([]string{"--config", configPath, "--socket", server.Path}, tc.args...)

			exitCode := Execute(context.Background(), args, &stdout, &stderr)
			require.Equal(t, 0, exitCode, stderr.String())
			require.Equal(t, tc.want, stdout.String())
			require.Empty(t, stderr.String())
		})
	}
}

func TestExecuteTreeAsJSON(t *testing.T) {
	configPath := setupRunnerEnv(t)
	server := startFakeI3(t, i3test.Replies(map[wire.MessageType]string{wire.GetTree: treeReply}))

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	exitCode := Execute(context.Background(),
		[]string{"--config", configPath, "--socket", server.Path, "--output", "json", "tree"}, &stdout, &stderr)
	require.Equal(t, 0, exitCode, stderr.String())

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &decoded))
	require.Equal(t, "root", decoded["type"])
	require.Len(t, decoded["nodes"], 1)
}

func TestExecuteRunCommandJoinsArgsAndReportsFailure(t *testing.T) {
	configPath := setupRunnerEnv(t)
	received := make(chan string, 1)
	server := startFakeI3(t, i3test.HandlerFunc(func(_ context.Context, req wire.Message) []wire.Message {
		received <- string(req.Payload)
		return []wire.Message{{Type: req.Type, Payload: []byte(`[{"success":true},{"success":false,"error":"Unknown command"}]`)}}
	}))

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	exitCode := Execute(context.Background(),
		[]string{"--config", configPath, "--socket", server.Path, "command", "workspace", "2;", "bogus"}, &stdout, &stderr)

	require.Equal(t, 1, exitCode)
	require.Equal(t, "workspace 2; bogus", <-received)
	require.Equal(t, "0: ok\n1: error: Unknown command\n", stdout.String())
}

func TestExecuteBarConfigSendsID(t *testing.T) {
	configPath := setupRunnerEnv(t)
	received := make(chan string, 1)
	server := startFakeI3(t, i3test.HandlerFunc(func(_ context.Context, req wire.Message) []wire.Message {
		received <- string(req.Payload)
		return []wire.Message{{Type: req.Type, Payload: []byte(`{"id":"bar-0","mode":"dock","position":"top",
			"workspace_buttons":true,"binding_mode_indicator":true,"verbose":false,"colors":{}}`)}}
	}))

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	exitCode := Execute(context.Background(),
		[]string{"--config", configPath, "--socket", server.Path, "bar-config", "bar-0"}, &stdout, &stderr)

	require.Equal(t, 0, exitCode, stderr.String())
	require.Equal(t, "bar-0", <-received)
	require.Contains(t, stdout.String(), "position: top\n")
}

func TestExecuteConnectFailure(t *testing.T) {
	configPath := setupRunnerEnv(t)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	exitCode := Execute(context.Background(),
		[]string{"--config", configPath, "--socket", filepath.Join(t.TempDir(), "gone.sock"), "marks"}, &stdout, &stderr)

	require.Equal(t, 1, exitCode)
	require.Contains(t, stderr.String(), "i3ipc: dial")
	require.Empty(t, stdout.String())
}

func TestExecuteSubscribeStreamsUntilSocketCloses(t *testing.T) {
	configPath := setupRunnerEnv(t)
	received := make(chan string, 1)
	server := startFakeI3(t, i3test.HandlerFunc(func(_ context.Context, req wire.Message) []wire.Message {
		received <- string(req.Payload)
		return []wire.Message{
			{Type: req.Type, Payload: []byte(`{"success":true}`)},
			{Type: wire.MessageType(wire.EventBit | 2), Payload: []byte(`{"change":"resize"}`)},
			{Type: wire.MessageType(wire.EventBit | 2), Payload: []byte(`{"pango_markup":true}`)},
			{Type: wire.MessageType(wire.EventBit | 6), Payload: []byte(`{"change":"exit"}`)},
		}
	}))

	var stdout syncBuffer
	var stderr syncBuffer
	done := make(chan int, 1)
	go func() {
		done <- Execute(context.Background(),
			[]string{"--config", configPath, "--socket", server.Path, "subscribe", "mode", "shutdown"}, &stdout, &stderr)
	}()

	require.Equal(t, `["mode","shutdown"]`, <-received)
	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), "shutdown exit")
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, server.Close())
	require.Equal(t, 0, <-done)
	require.Equal(t, "mode resize\nshutdown exit\n", stdout.String())
	require.Contains(t, stderr.String(), `warning: i3ipc: mode event: field "change" is missing`)
}

func TestExecuteSubscribeStopsOnCancel(t *testing.T) {
	configPath := setupRunnerEnv(t)
	received := make(chan string, 1)
	server := startFakeI3(t, i3test.HandlerFunc(func(_ context.Context, req wire.Message) []wire.Message {
		received <- string(req.Payload)
		return []wire.Message{{Type: req.Type, Payload: []byte(`{"success":true}`)}}
	}))

	ctx, cancel := context.WithCancel(context.Background())
	var stdout syncBuffer
	var stderr syncBuffer
	done := make(chan int, 1)
	go func() {
		done <- Execute(ctx, []string{"--config", configPath, "--socket", server.Path, "subscribe"}, &stdout, &stderr)
	}()

	require.Equal(t, `["window"]`, <-received)
	cancel()

	select {
	case code := <-done:
		require.Equal(t, 0, code, stderr.String())
	case <-time.After(2 * time.Second):
		t.Fatal("subscribe did not stop after cancel")
	}
}

func TestExecuteSubscribeRejected(t *testing.T) {
	configPath := setupRunnerEnv(t)
	server := startFakeI3(t, i3test.Replies(map[wire.MessageType]string{wire.Subscribe: `{"success":false}`}))

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	exitCode := Execute(context.Background(),
		[]string{"--config", configPath, "--socket", server.Path, "subscribe", "window"}, &stdout, &stderr)

	require.Equal(t, 1, exitCode)
	require.Contains(t, stderr.String(), "subscription rejected")
}

func TestExecuteSubscribeUnknownEvent(t *testing.T) {
	configPath := setupRunnerEnv(t)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	exitCode := Execute(context.Background(), []string{"--config", configPath, "subscribe", "tick"}, &stdout, &stderr)

	require.Equal(t, 2, exitCode)
	require.Contains(t, stderr.String(), `unknown event type "tick"`)
}

func TestExecuteDoctor(t *testing.T) {
	configPath := setupRunnerEnv(t)
	server := startFakeI3(t, i3test.Replies(map[wire.MessageType]string{wire.GetVersion: versionReply}))

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	exitCode := Execute(context.Background(), []string{"--config", configPath, "--socket", server.Path, "doctor"}, &stdout, &stderr)

	require.Equal(t, 0, exitCode, stdout.String())
	require.Contains(t, stdout.String(), "[OK] socket.dial")
	require.Contains(t, stdout.String(), "[OK] ipc.version: 4.22")
}

func TestExecuteWritesLogFile(t *testing.T) {
	configPath := setupRunnerEnv(t)
	server := startFakeI3(t, i3test.Replies(map[wire.MessageType]string{wire.GetMarks: `[]`}))

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	exitCode := Execute(context.Background(), []string{"--config", configPath, "--socket", server.Path, "marks"}, &stdout, &stderr)
	require.Equal(t, 0, exitCode)

	contents, err := os.ReadFile(filepath.Join(os.Getenv("XDG_STATE_HOME"), "i3ipc", "log.jsonl"))
	require.NoError(t, err)
	require.Contains(t, string(contents), `"msg":"command start"`)
	require.Contains(t, string(contents), `"command":"marks"`)
}

func setupRunnerEnv(t *testing.T) string {
	t.Helper()

	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("I3SOCK", "")
	t.Setenv("SWAYSOCK", "")

	configPath := filepath.Join(t.TempDir(), "config.jsonc")
	require.NoError(t, os.WriteFile(configPath, []byte("{\n  \"events\": [\"window\"],\n}\n"), 0o600))
	return configPath
}

// syncBuffer lets a test read output while Execute still writes it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func startFakeI3(t *testing.T, handler i3test.Handler) *i3test.Server {
	t.Helper()

	server, err := i3test.Start(t.TempDir(), handler)
	require.NoError(t, err)
	t.Cleanup(func() { _ = server.Close() })
	return server
}
