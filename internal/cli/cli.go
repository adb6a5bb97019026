// Package cli parses the i3ipc command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// Command names one CLI subcommand.
type Command string

const (
	CommandRun          Command = "command"
	CommandWorkspaces   Command = "workspaces"
	CommandOutputs      Command = "outputs"
	CommandTree         Command = "tree"
	CommandFocused      Command = "focused"
	CommandMarks        Command = "marks"
	CommandBarIDs       Command = "bar-ids"
	CommandBarConfig    Command = "bar-config"
	CommandI3Version    Command = "i3-version"
	CommandBindingModes Command = "binding-modes"
	CommandConfig       Command = "config"
	CommandSubscribe    Command = "subscribe"
	CommandDoctor       Command = "doctor"
	CommandVersion      Command = "version"
	CommandHelp         Command = "help"
)

// arity bounds the positional arguments each command accepts; max < 0 means
// unbounded.
type arity struct{ min, max int }

var validCommands = map[Command]arity{
	CommandRun:          {1, -1},
	CommandWorkspaces:   {0, 0},
	CommandOutputs:      {0, 0},
	CommandTree:         {0, 0},
	CommandFocused:      {0, 0},
	CommandMarks:        {0, 0},
	CommandBarIDs:       {0, 0},
	CommandBarConfig:    {1, 1},
	CommandI3Version:    {0, 0},
	CommandBindingModes: {0, 0},
	CommandConfig:       {0, 0},
	CommandSubscribe:    {0, -1},
	CommandDoctor:       {0, 0},
	CommandVersion:      {0, 0},
	CommandHelp:         {0, 0},
}

// Parsed is the result of Parse: the global flags plus the command and its
// positional arguments.
type Parsed struct {
	Command    Command
	Args       []string
	ConfigPath string
	SocketPath string
	Output     string
	ShowHelp   bool
}

// Parse reads global flags followed by one command and its arguments. Flags
// after the command belong to the command's arguments, so i3 commands such as
// `exec --no-startup-id foot` pass through untouched.
func Parse(args []string) (Parsed, error) {
	var parsed Parsed
	var showVersion bool

	flags := pflag.NewFlagSet("i3ipc", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.SetInterspersed(false)
	flags.StringVar(&parsed.ConfigPath, "config", "", "config file path")
	flags.StringVar(&parsed.SocketPath, "socket", "", "i3 IPC socket path")
	flags.StringVarP(&parsed.Output, "output", "o", "", "output format: text, json, yaml")
	flags.BoolVarP(&parsed.ShowHelp, "help", "h", false, "show help")
	flags.BoolVar(&showVersion, "version", false, "show version")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return Parsed{Command: CommandHelp, ShowHelp: true}, nil
		}
		return Parsed{}, err
	}
	if flags.Changed("config") && strings.TrimSpace(parsed.ConfigPath) == "" {
		return Parsed{}, errors.New("--config requires a path")
	}

	switch {
	case parsed.ShowHelp:
		parsed.Command = CommandHelp
		return parsed, nil
	case showVersion:
		parsed.Command = CommandVersion
		return parsed, nil
	}

	rest := flags.Args()
	if len(rest) == 0 {
		parsed.Command = CommandHelp
		parsed.ShowHelp = true
		return parsed, nil
	}

	cmd := Command(rest[0])
	bounds, ok := validCommands[cmd]
	if !ok {
		return Parsed{}, fmt.Errorf("unknown command: %s", rest[0])
	}
	parsed.Command = cmd
	parsed.ShowHelp = cmd == CommandHelp
	parsed.Args = rest[1:]

	switch {
	case len(parsed.Args) < bounds.min:
		return Parsed{}, fmt.Errorf("command %q requires %d argument(s)", cmd, bounds.min)
	case bounds.max >= 0 && len(parsed.Args) > bounds.max:
		return Parsed{}, fmt.Errorf("unexpected arguments after command %q", cmd)
	}
	return parsed, nil
}

func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s [--config PATH] [--socket PATH] [-o FORMAT] <command> [args]

Commands:
  command TEXT...      Run i3 commands (;-separated) and print each outcome
  workspaces           List workspaces
  outputs              List outputs
  tree                 Print the layout tree
  focused              Print the focused container
  marks                List container marks
  bar-ids              List bar ids
  bar-config ID        Print one bar's configuration
  i3-version           Print the window manager version
  binding-modes        List binding modes
  config               Print the loaded i3 config file
  subscribe [EVENT...] Stream events (default: events from config)
  doctor               Check socket discovery and connectivity
  version              Print version information
  help                 Show this help

Events:
  workspace output mode window barconfig_update binding shutdown

Flags:
  --config PATH        Config file path (default: $XDG_CONFIG_HOME/i3ipc/config.jsonc)
  --socket PATH        IPC socket path (default: $I3SOCK, $SWAYSOCK, i3 --get-socketpath)
  -o, --output FORMAT  Output format: text, json, yaml
  -h, --help           Show help
  --version            Show version
`, binaryName)
}
