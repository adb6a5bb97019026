package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rbright/i3ipc"
	"github.com/rbright/i3ipc/internal/cli"
	"github.com/rbright/i3ipc/internal/config"
	"github.com/rbright/i3ipc/internal/doctor"
	"github.com/rbright/i3ipc/internal/logging"
	"github.com/rbright/i3ipc/internal/render"
	"github.com/rbright/i3ipc/internal/version"
)

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText("i3ipc"))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText("i3ipc"))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	cfg, err := cfgLoaded.Config.Override(parsed.SocketPath, parsed.Output)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 2
	}

	logRuntime, err := logging.New(cfg.Log, r.Stderr)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	for _, w := range cfgLoaded.Warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		if cfgLoaded.Exists {
			fmt.Fprintf(r.Stderr, "warning: %s\n", msg)
		}
		logger.Warn("config warning", "line", w.Line, "message", w.Message)
	}

	logger.Info("command start",
		"command", parsed.Command,
		"config", cfgLoaded.Path,
		"log", logRuntime.Path,
	)

	if parsed.Command == cli.CommandDoctor {
		report := doctor.Run(ctx, cfgLoaded, cfg)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	}

	opts := []i3ipc.Option{
		i3ipc.WithSocketPath(cfg.SocketPath),
		i3ipc.WithBinary(cfg.I3Binary),
		i3ipc.WithDialTimeout(cfg.DialTimeout),
		i3ipc.WithLogger(logger),
	}
	out := render.New(r.Stdout, cfg.Output)

	if parsed.Command == cli.CommandSubscribe {
		return r.commandSubscribe(ctx, parsed.Args, cfg, opts, out, logger)
	}

	conn, err := i3ipc.Connect(ctx, opts...)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("connect failed", "error", err.Error())
		return 1
	}
	defer func() { _ = conn.Close() }()

	value, err := query(conn, parsed)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("request failed", "command", parsed.Command, "error", err.Error())
		return 1
	}
	if err := out.Value(value); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	if outcomes, ok := value.([]i3ipc.CommandOutcome); ok {
		for _, outcome := range outcomes {
			if !outcome.Success {
				return 1
			}
		}
	}
	return 0
}

// query runs the request behind a one-shot command.
func query(conn *i3ipc.Conn, parsed cli.Parsed) (any, error) {
	switch parsed.Command {
	case cli.CommandRun:
		return conn.RunCommand(strings.Join(parsed.Args, " "))
	case cli.CommandWorkspaces:
		return conn.GetWorkspaces()
	case cli.CommandOutputs:
		return conn.GetOutputs()
	case cli.CommandTree:
		return conn.GetTree()
	case cli.CommandFocused:
		tree, err := conn.GetTree()
		if err != nil {
			return nil, err
		}
		focused := tree.FindFocused()
		if focused == nil {
			return nil, errors.New("no focused container")
		}
		return focused, nil
	case cli.CommandMarks:
		return conn.GetMarks()
	case cli.CommandBarIDs:
		return conn.GetBarIDs()
	case cli.CommandBarConfig:
		return conn.GetBarConfig(parsed.Args[0])
	case cli.CommandI3Version:
		return conn.GetVersion()
	case cli.CommandBindingModes:
		return conn.GetBindingModes()
	case cli.CommandConfig:
		return conn.GetConfig()
	default:
		return nil, fmt.Errorf("unsupported command %q", parsed.Command)
	}
}

// commandSubscribe streams events until the socket closes or ctx ends.
// Undecodable events are reported and skipped.
func (r Runner) commandSubscribe(
	ctx context.Context,
	args []string,
	cfg config.Config,
	opts []i3ipc.Option,
	out *render.Renderer,
	logger *slog.Logger,
) int {
	names := args
	if len(names) == 0 {
		names = cfg.Events
	}
	if len(names) == 0 {
		fmt.Fprintln(r.Stderr, "error: no events to subscribe to")
		return 2
	}
	events, err := config.EventTypes(names)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 2
	}

	listener, err := i3ipc.Listen(ctx, opts...)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("connect failed", "error", err.Error())
		return 1
	}
	stop := context.AfterFunc(ctx, func() { _ = listener.Close() })
	defer stop()
	defer func() { _ = listener.Close() }()

	if _, err := listener.Subscribe(events...); err != nil {
		if ctx.Err() != nil {
			return 0
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("subscribe failed", "events", names, "error", err.Error())
		return 1
	}
	logger.Info("subscribed", "events", names)

	for ev, err := range listener.Events() {
		if err == nil {
			if err := out.Event(ev); err != nil {
				fmt.Fprintf(r.Stderr, "error: %v\n", err)
				return 1
			}
			continue
		}
		if !i3ipc.IsPermanent(err) {
			fmt.Fprintf(r.Stderr, "warning: %v\n", err)
			logger.Warn("skipping event", "error", err.Error())
			continue
		}
		if ctx.Err() != nil {
			return 0
		}
		if errors.Is(err, io.EOF) {
			logger.Info("event stream closed")
			return 0
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("event stream failed", "error", err.Error())
		return 1
	}
	return 0
}
