package i3ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultBinary is the window manager executable asked for its socket path
// when neither I3SOCK nor SWAYSOCK is set.
const DefaultBinary = "i3"

type options struct {
	socketPath  string
	binary      string
	dialTimeout time.Duration
	logger      *slog.Logger
}

// Option configures Connect, Listen, NewConn and NewListener.
type Option func(*options)

// WithSocketPath skips discovery and dials path directly.
func WithSocketPath(path string) Option {
	return func(o *options) { o.socketPath = strings.TrimSpace(path) }
}

// WithBinary sets the executable run for `--get-socketpath`.
func WithBinary(name string) Option {
	return func(o *options) {
		if name = strings.TrimSpace(name); name != "" {
			o.binary = name
		}
	}
}

// WithDialTimeout bounds the dial. Requests on an established connection
// have no timeout.
func WithDialTimeout(d time.Duration) Option {
	return func(o *options) { o.dialTimeout = d }
}

// WithLogger receives debug records about tolerated protocol surprises such
// as unknown enum values.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		binary: DefaultBinary,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// SocketPath resolves the IPC socket: the WithSocketPath option, then
// $I3SOCK, then $SWAYSOCK, then the output of `i3 --get-socketpath` (or the
// WithBinary executable).
func SocketPath(ctx context.Context, opts ...Option) (string, error) {
	o := buildOptions(opts)
	if o.socketPath != "" {
		return o.socketPath, nil
	}
	return socketPath(ctx, o.binary)
}

func socketPath(ctx context.Context, binary string) (string, error) {
	for _, key := range []string{"I3SOCK", "SWAYSOCK"} {
		if path := strings.TrimSpace(os.Getenv(key)); path != "" {
			return path, nil
		}
	}

	cmd := exec.CommandContext(ctx, binary, "--get-socketpath")
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		trimmed := strings.TrimSpace(stderr.String())
		if trimmed == "" {
			return "", fmt.Errorf("%s --get-socketpath failed: %w", binary, err)
		}
		return "", fmt.Errorf("%s --get-socketpath failed: %w (%s)", binary, err, trimmed)
	}

	path := strings.TrimRight(string(out), "\r\n")
	if strings.TrimSpace(path) == "" {
		return "", errors.New(binary + " --get-socketpath returned an empty path")
	}
	return path, nil
}

// dial resolves the socket path (unless given) and connects to it.
func dial(ctx context.Context, o options) (net.Conn, error) {
	path := o.socketPath
	if path == "" {
		resolved, err := socketPath(ctx, o.binary)
		if err != nil {
			return nil, &ConnectError{Stage: StageSocketPath, Err: err}
		}
		path = resolved
	}

	dialer := net.Dialer{Timeout: o.dialTimeout}
	conn, err := dialer.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, &ConnectError{Stage: StageDial, Path: path, Err: err}
	}
	o.logger.Debug("connected to window manager", "socket", path)
	return conn, nil
}

// Connect opens a request/reply connection to the running window manager.
func Connect(ctx context.Context, opts ...Option) (*Conn, error) {
	o := buildOptions(opts)
	conn, err := dial(ctx, o)
	if err != nil {
		return nil, err
	}
	return newConn(conn, o), nil
}

// Listen opens a connection for event traffic. Call Subscribe before
// reading events.
func Listen(ctx context.Context, opts ...Option) (*Listener, error) {
	o := buildOptions(opts)
	conn, err := dial(ctx, o)
	if err != nil {
		return nil, err
	}
	return newListener(conn, o), nil
}
