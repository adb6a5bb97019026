package i3ipc

import "fmt"

// EventType is an event category. It is both the value a subscription names
// and the low bits of an event envelope's message type.
type EventType uint32

const (
	EventWorkspace       EventType = 0
	EventOutput          EventType = 1
	EventMode            EventType = 2
	EventWindow          EventType = 3
	EventBarConfigUpdate EventType = 4
	EventBinding         EventType = 5
	EventShutdown        EventType = 6
)

var eventTypeNames = [...]string{
	EventWorkspace:       "workspace",
	EventOutput:          "output",
	EventMode:            "mode",
	EventWindow:          "window",
	EventBarConfigUpdate: "barconfig_update",
	EventBinding:         "binding",
	EventShutdown:        "shutdown",
}

// AllEvents lists every category in wire order.
var AllEvents = []EventType{
	EventWorkspace,
	EventOutput,
	EventMode,
	EventWindow,
	EventBarConfigUpdate,
	EventBinding,
	EventShutdown,
}

// String returns the name used in subscribe requests.
func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return fmt.Sprintf("event(%d)", uint32(t))
}

func (t EventType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Valid reports whether t is a category this package can decode.
func (t EventType) Valid() bool {
	return int(t) < len(eventTypeNames)
}

// ParseEventType maps a subscription name back to its category.
func ParseEventType(name string) (EventType, error) {
	for i, n := range eventTypeNames {
		if n == name {
			return EventType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown event type %q", name)
}

// Event is implemented by every decoded event payload.
type Event interface {
	EventType() EventType
}

// WorkspaceEvent reports a workspace change.
type WorkspaceEvent struct {
	Change WorkspaceChange `json:"change" yaml:"change"`
	// Current is the affected workspace, when there is one.
	Current *Node `json:"current" yaml:"current"`
	// Old is set only for focus changes that had a previous workspace. An
	// empty previous workspace is destroyed by the switch but still shows up
	// here.
	Old *Node `json:"old" yaml:"old"`
}

// OutputEvent reports an output (display) change.
type OutputEvent struct {
	Change OutputChange `json:"change" yaml:"change"`
}

// ModeEvent reports a binding mode switch.
type ModeEvent struct {
	// Change is the new mode's name; the default mode is "default".
	Change      string `json:"change" yaml:"change"`
	PangoMarkup bool   `json:"pango_markup" yaml:"pango_markup"`
}

// WindowEvent reports a change to a window.
type WindowEvent struct {
	Change    WindowChange `json:"change" yaml:"change"`
	Container Node         `json:"container" yaml:"container"`
}

// BarConfigUpdateEvent carries a bar's new configuration.
type BarConfigUpdateEvent struct {
	BarConfig `yaml:",inline"`
}

// Binding describes the binding that triggered a binding event.
type Binding struct {
	Command string `json:"command" yaml:"command"`
	// EventStateMask lists the modifiers configured for the binding.
	EventStateMask []string `json:"event_state_mask" yaml:"event_state_mask"`
	// InputCode is the key code for bindcode bindings, the button for mouse
	// bindings, and 0 otherwise.
	InputCode int `json:"input_code" yaml:"input_code"`
	// Symbol is the keysym for bindsym bindings, empty otherwise.
	Symbol    string    `json:"symbol" yaml:"symbol"`
	InputType InputType `json:"input_type" yaml:"input_type"`
}

// BindingEvent reports a binding that ran a command.
type BindingEvent struct {
	Change  BindingChange `json:"change" yaml:"change"`
	Binding Binding       `json:"binding" yaml:"binding"`
}

// ShutdownEvent reports that i3 is restarting or exiting.
type ShutdownEvent struct {
	Change ShutdownChange `json:"change" yaml:"change"`
}

func (*WorkspaceEvent) EventType() EventType       { return EventWorkspace }
func (*OutputEvent) EventType() EventType          { return EventOutput }
func (*ModeEvent) EventType() EventType            { return EventMode }
func (*WindowEvent) EventType() EventType          { return EventWindow }
func (*BarConfigUpdateEvent) EventType() EventType { return EventBarConfigUpdate }
func (*BindingEvent) EventType() EventType         { return EventBinding }
func (*ShutdownEvent) EventType() EventType        { return EventShutdown }
