// Package doctor runs readiness diagnostics for config, socket discovery, and the i3 connection.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rbright/i3ipc"
	"github.com/rbright/i3ipc/internal/config"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run checks the loaded config, then walks the connection path step by step
// so the first failing stage is visible. Later stages are skipped once one
// fails.
func Run(ctx context.Context, loaded config.Loaded, cfg config.Config) Report {
	checks := []Check{configCheck(loaded)}

	opts := []i3ipc.Option{
		i3ipc.WithSocketPath(cfg.SocketPath),
		i3ipc.WithBinary(cfg.I3Binary),
		i3ipc.WithDialTimeout(cfg.DialTimeout),
	}

	if cfg.SocketPath == "" && os.Getenv("I3SOCK") == "" && os.Getenv("SWAYSOCK") == "" {
		binary := checkBinary(cfg.I3Binary, "used for --get-socketpath")
		checks = append(checks, binary)
		if !binary.Pass {
			return Report{Checks: checks}
		}
	}

	path, err := i3ipc.SocketPath(ctx, opts...)
	if err != nil {
		checks = append(checks, Check{Name: "socket.path", Pass: false, Message: err.Error()})
		return Report{Checks: checks}
	}
	checks = append(checks, Check{Name: "socket.path", Pass: true, Message: path})

	conn, err := i3ipc.Connect(ctx, append(opts, i3ipc.WithSocketPath(path))...)
	if err != nil {
		checks = append(checks, Check{Name: "socket.dial", Pass: false, Message: err.Error()})
		return Report{Checks: checks}
	}
	defer conn.Close()
	checks = append(checks, Check{Name: "socket.dial", Pass: true, Message: "connected"})

	checks = append(checks, checkVersion(conn))
	return Report{Checks: checks}
}

func configCheck(loaded config.Loaded) Check {
	if !loaded.Exists {
		return Check{Name: "config", Pass: true, Message: fmt.Sprintf("%q not found; using defaults", loaded.Path)}
	}
	return Check{Name: "config", Pass: true, Message: fmt.Sprintf("loaded %q", loaded.Path)}
}

// checkBinary validates that a binary exists in PATH.
func checkBinary(bin string, okMsg string) Check {
	path, err := exec.LookPath(bin)
	if err != nil {
		return Check{Name: bin, Pass: false, Message: fmt.Sprintf("binary not found in PATH: %s", bin)}
	}
	return Check{Name: bin, Pass: true, Message: fmt.Sprintf("found at %s (%s)", path, okMsg)}
}

// checkVersion runs one get_version round trip and flags releases too old for
// get_binding_modes (4.13) and get_config (4.14).
func checkVersion(conn *i3ipc.Conn) Check {
	v, err := conn.GetVersion()
	if err != nil {
		return Check{Name: "ipc.version", Pass: false, Message: err.Error()}
	}
	message := v.HumanReadable
	if !v.AtLeast(4, 14) {
		message += " (binding-modes needs 4.13, config needs 4.14)"
	}
	return Check{Name: "ipc.version", Pass: true, Message: message}
}
