// Package render prints replies and events as text, JSON or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/rbright/i3ipc"
	"github.com/rbright/i3ipc/internal/config"
)

// Renderer writes values in one output format. JSON is indented when w is a
// terminal and one value per line otherwise, so event streams pipe as JSONL.
type Renderer struct {
	w      io.Writer
	format string
	indent bool
	docs   int
}

func New(w io.Writer, format string) *Renderer {
	return &Renderer{w: w, format: format, indent: isTerminal(w)}
}

// EventRecord tags an event with its category for structured output.
type EventRecord struct {
	Type  i3ipc.EventType `json:"type" yaml:"type"`
	Event i3ipc.Event     `json:"event" yaml:"event"`
}

// Value renders one reply value.
func (r *Renderer) Value(v any) error {
	switch r.format {
	case config.OutputJSON:
		return r.json(v)
	case config.OutputYAML:
		return r.yaml(v)
	case config.OutputText, "":
		_, err := io.WriteString(r.w, Text(v))
		return err
	default:
		return fmt.Errorf("unknown output format %q", r.format)
	}
}

// Event renders one event from a subscription stream.
func (r *Renderer) Event(ev i3ipc.Event) error {
	if r.format == config.OutputText || r.format == "" {
		_, err := io.WriteString(r.w, eventText(ev)+"\n")
		return err
	}
	return r.Value(EventRecord{Type: ev.EventType(), Event: ev})
}

func (r *Renderer) json(v any) error {
	enc := json.NewEncoder(r.w)
	if r.indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json output: %w", err)
	}
	return nil
}

// yaml separates consecutive values with document markers.
func (r *Renderer) yaml(v any) error {
	if r.docs > 0 {
		if _, err := io.WriteString(r.w, "---\n"); err != nil {
			return err
		}
	}
	r.docs++

	enc := yaml.NewEncoder(r.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml output: %w", err)
	}
	return enc.Close()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Text formats a reply for humans. Unknown types fall back to %+v.
func Text(v any) string {
	var b strings.Builder
	switch v := v.(type) {
	case []i3ipc.CommandOutcome:
		for i, outcome := range v {
			if outcome.Success {
				fmt.Fprintf(&b, "%d: ok\n", i)
				continue
			}
			fmt.Fprintf(&b, "%d: error: %s\n", i, outcome.Error)
		}
	case []i3ipc.Workspace:
		for _, ws := range v {
			fmt.Fprintf(&b, "%s %-12s output=%s %s%s\n",
				marker(ws.Focused), ws.Name, ws.Output, rectText(ws.Rect), flag(ws.Visible, "visible")+flag(ws.Urgent, "urgent"))
		}
	case []i3ipc.Output:
		for _, out := range v {
			workspace := out.CurrentWorkspace
			if workspace == "" {
				workspace = "-"
			}
			fmt.Fprintf(&b, "%s %-12s workspace=%s %s%s\n",
				marker(out.Primary), out.Name, workspace, rectText(out.Rect), flag(out.Active, "active"))
		}
	case *i3ipc.Node:
		writeTree(&b, v, 0)
	case []string:
		for _, s := range v {
			b.WriteString(s + "\n")
		}
	case i3ipc.BarConfig:
		writeBarConfig(&b, v)
	case i3ipc.Version:
		fmt.Fprintf(&b, "%s\n", v.HumanReadable)
		if v.LoadedConfigFileName != "" {
			fmt.Fprintf(&b, "config: %s\n", v.LoadedConfigFileName)
		}
	case i3ipc.Config:
		b.WriteString(v.Config)
		if !strings.HasSuffix(v.Config, "\n") {
			b.WriteString("\n")
		}
	default:
		fmt.Fprintf(&b, "%+v\n", v)
	}
	return b.String()
}

func marker(on bool) string {
	if on {
		return "*"
	}
	return " "
}

func flag(on bool, label string) string {
	if on {
		return " " + label
	}
	return ""
}

func rectText(r i3ipc.Rect) string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

func writeTree(b *strings.Builder, n *i3ipc.Node, depth int) {
	if n == nil {
		return
	}
	fmt.Fprintf(b, "%s%s #%d %s %q%s\n",
		strings.Repeat("  ", depth), n.Type, n.ID, n.Layout, n.Name,
		flag(n.Focused, "focused")+flag(n.Urgent, "urgent")+flag(n.Window != nil, "window"))
	for _, child := range n.Nodes {
		writeTree(b, child, depth+1)
	}
	for _, child := range n.FloatingNodes {
		writeTree(b, child, depth+1)
	}
}

func writeBarConfig(b *strings.Builder, cfg i3ipc.BarConfig) {
	fmt.Fprintf(b, "id: %s\nmode: %s\nposition: %s\n", cfg.ID, cfg.Mode, cfg.Position)
	if cfg.StatusCommand != "" {
		fmt.Fprintf(b, "status_command: %s\n", cfg.StatusCommand)
	}
	if cfg.Font != "" {
		fmt.Fprintf(b, "font: %s\n", cfg.Font)
	}
	fmt.Fprintf(b, "workspace_buttons: %t\nbinding_mode_indicator: %t\nverbose: %t\n",
		cfg.WorkspaceButtons, cfg.BindingModeIndicator, cfg.Verbose)

	colors := make([]string, 0, len(cfg.Colors)+len(cfg.UndocumentedColors))
	for part, value := range cfg.Colors {
		colors = append(colors, part.String()+" "+value)
	}
	for key, value := range cfg.UndocumentedColors {
		colors = append(colors, key+" "+value)
	}
	slices.Sort(colors)
	for _, c := range colors {
		fmt.Fprintf(b, "color %s\n", c)
	}
}

func eventText(ev i3ipc.Event) string {
	switch ev := ev.(type) {
	case *i3ipc.WorkspaceEvent:
		return fmt.Sprintf("workspace %s current=%s old=%s", ev.Change, nodeName(ev.Current), nodeName(ev.Old))
	case *i3ipc.OutputEvent:
		return "output " + ev.Change.String()
	case *i3ipc.ModeEvent:
		return "mode " + ev.Change
	case *i3ipc.WindowEvent:
		return fmt.Sprintf("window %s #%d %q", ev.Change, ev.Container.ID, ev.Container.Name)
	case *i3ipc.BarConfigUpdateEvent:
		return fmt.Sprintf("barconfig_update %s mode=%s", ev.ID, ev.Mode)
	case *i3ipc.BindingEvent:
		mods := strings.Join(ev.Binding.EventStateMask, "+")
		if mods == "" {
			mods = "-"
		}
		return fmt.Sprintf("binding %s %s %q mods=%s symbol=%s",
			ev.Change, ev.Binding.InputType, ev.Binding.Command, mods, ev.Binding.Symbol)
	case *i3ipc.ShutdownEvent:
		return "shutdown " + ev.Change.String()
	default:
		return fmt.Sprintf("%s %+v", ev.EventType(), ev)
	}
}

func nodeName(n *i3ipc.Node) string {
	if n == nil {
		return "-"
	}
	return fmt.Sprintf("%q", n.Name)
}
