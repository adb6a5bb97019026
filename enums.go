package i3ipc

// Every enumeration below uses its zero value for Unknown. Strings the
// decoder does not recognize land there instead of failing, so a client built
// against an older i3 keeps working when newer values appear.

// NodeType is a container's role in the tree.
type NodeType int

const (
	NodeUnknown NodeType = iota
	NodeRoot
	NodeOutput
	NodeCon
	NodeFloatingCon
	NodeWorkspace
	NodeDockArea
)

var nodeTypeNames = enumNames[NodeType]{
	NodeUnknown:     "unknown",
	NodeRoot:        "root",
	NodeOutput:      "output",
	NodeCon:         "con",
	NodeFloatingCon: "floating_con",
	NodeWorkspace:   "workspace",
	NodeDockArea:    "dockarea",
}

func (t NodeType) String() string               { return nodeTypeNames.name(t) }
func (t NodeType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// BorderStyle is a container's border style.
type BorderStyle int

const (
	BorderUnknown BorderStyle = iota
	BorderNormal
	BorderNone
	BorderPixel
)

var borderStyleNames = enumNames[BorderStyle]{
	BorderUnknown: "unknown",
	BorderNormal:  "normal",
	BorderNone:    "none",
	BorderPixel:   "pixel",
}

func (b BorderStyle) String() string               { return borderStyleNames.name(b) }
func (b BorderStyle) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// Layout is how a container arranges its children.
type Layout int

const (
	LayoutUnknown Layout = iota
	LayoutSplitH
	LayoutSplitV
	LayoutStacked
	LayoutTabbed
	LayoutDockArea
	LayoutOutput
)

var layoutNames = enumNames[Layout]{
	LayoutUnknown:  "unknown",
	LayoutSplitH:   "splith",
	LayoutSplitV:   "splitv",
	LayoutStacked:  "stacked",
	LayoutTabbed:   "tabbed",
	LayoutDockArea: "dockarea",
	LayoutOutput:   "output",
}

func (l Layout) String() string               { return layoutNames.name(l) }
func (l Layout) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// WindowProperty names an X11 property reported in window_properties.
// There is no Unknown member: unrecognized properties are dropped.
type WindowProperty int

const (
	PropertyTitle WindowProperty = iota + 1
	PropertyInstance
	PropertyClass
	PropertyWindowRole
	PropertyTransientFor
	PropertyMachine
)

var windowPropertyNames = enumNames[WindowProperty]{
	PropertyTitle:        "title",
	PropertyInstance:     "instance",
	PropertyClass:        "class",
	PropertyWindowRole:   "window_role",
	PropertyTransientFor: "transient_for",
	PropertyMachine:      "machine",
}

func (p WindowProperty) String() string               { return windowPropertyNames.name(p) }
func (p WindowProperty) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// BarPart is a colorable element of an i3bar.
type BarPart int

const (
	BarPartUnknown BarPart = iota
	BarBackground
	BarStatusline
	BarSeparator
	BarFocusedBackground
	BarFocusedStatusline
	BarFocusedSeparator
	BarFocusedWorkspaceText
	BarFocusedWorkspaceBg
	BarFocusedWorkspaceBorder
	BarActiveWorkspaceText
	BarActiveWorkspaceBg
	BarActiveWorkspaceBorder
	BarInactiveWorkspaceText
	BarInactiveWorkspaceBg
	BarInactiveWorkspaceBorder
	BarUrgentWorkspaceText
	BarUrgentWorkspaceBg
	BarUrgentWorkspaceBorder
	BarBindingModeText
	BarBindingModeBg
	BarBindingModeBorder
)

var barPartNames = enumNames[BarPart]{
	BarPartUnknown:             "unknown",
	BarBackground:              "background",
	BarStatusline:              "statusline",
	BarSeparator:               "separator",
	BarFocusedBackground:       "focused_background",
	BarFocusedStatusline:       "focused_statusline",
	BarFocusedSeparator:        "focused_separator",
	BarFocusedWorkspaceText:    "focused_workspace_text",
	BarFocusedWorkspaceBg:      "focused_workspace_bg",
	BarFocusedWorkspaceBorder:  "focused_workspace_border",
	BarActiveWorkspaceText:     "active_workspace_text",
	BarActiveWorkspaceBg:       "active_workspace_bg",
	BarActiveWorkspaceBorder:   "active_workspace_border",
	BarInactiveWorkspaceText:   "inactive_workspace_text",
	BarInactiveWorkspaceBg:     "inactive_workspace_bg",
	BarInactiveWorkspaceBorder: "inactive_workspace_border",
	BarUrgentWorkspaceText:     "urgent_workspace_text",
	BarUrgentWorkspaceBg:       "urgent_workspace_bg",
	BarUrgentWorkspaceBorder:   "urgent_workspace_border",
	BarBindingModeText:         "binding_mode_text",
	BarBindingModeBg:           "binding_mode_bg",
	BarBindingModeBorder:       "binding_mode_border",
}

func (p BarPart) String() string               { return barPartNames.name(p) }
func (p BarPart) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// WorkspaceChange is the change field of a workspace event.
type WorkspaceChange int

const (
	WorkspaceChangeUnknown WorkspaceChange = iota
	WorkspaceFocus
	WorkspaceInit
	WorkspaceEmpty
	WorkspaceUrgent
	WorkspaceRename
	WorkspaceReload
	WorkspaceRestored
	WorkspaceMove
)

var workspaceChangeNames = enumNames[WorkspaceChange]{
	WorkspaceChangeUnknown: "unknown",
	WorkspaceFocus:         "focus",
	WorkspaceInit:          "init",
	WorkspaceEmpty:         "empty",
	WorkspaceUrgent:        "urgent",
	WorkspaceRename:        "rename",
	WorkspaceReload:        "reload",
	WorkspaceRestored:      "restored",
	WorkspaceMove:          "move",
}

func (c WorkspaceChange) String() string               { return workspaceChangeNames.name(c) }
func (c WorkspaceChange) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// OutputChange is the change field of an output event.
type OutputChange int

const (
	OutputChangeUnknown OutputChange = iota
	OutputUnspecified
)

var outputChangeNames = enumNames[OutputChange]{
	OutputChangeUnknown: "unknown",
	OutputUnspecified:   "unspecified",
}

func (c OutputChange) String() string               { return outputChangeNames.name(c) }
func (c OutputChange) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// WindowChange is the change field of a window event.
type WindowChange int

const (
	WindowChangeUnknown WindowChange = iota
	WindowNew
	WindowClose
	WindowFocus
	WindowTitle
	WindowFullscreenMode
	WindowMove
	WindowFloating
	WindowUrgent
	WindowMark
)

var windowChangeNames = enumNames[WindowChange]{
	WindowChangeUnknown:  "unknown",
	WindowNew:            "new",
	WindowClose:          "close",
	WindowFocus:          "focus",
	WindowTitle:          "title",
	WindowFullscreenMode: "fullscreen_mode",
	WindowMove:           "move",
	WindowFloating:       "floating",
	WindowUrgent:         "urgent",
	WindowMark:           "mark",
}

func (c WindowChange) String() string               { return windowChangeNames.name(c) }
func (c WindowChange) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// BindingChange is the change field of a binding event.
type BindingChange int

const (
	BindingChangeUnknown BindingChange = iota
	BindingRun
)

var bindingChangeNames = enumNames[BindingChange]{
	BindingChangeUnknown: "unknown",
	BindingRun:           "run",
}

func (c BindingChange) String() string               { return bindingChangeNames.name(c) }
func (c BindingChange) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// InputType distinguishes keyboard and mouse bindings.
type InputType int

const (
	InputUnknown InputType = iota
	InputKeyboard
	InputMouse
)

var inputTypeNames = enumNames[InputType]{
	InputUnknown:  "unknown",
	InputKeyboard: "keyboard",
	InputMouse:    "mouse",
}

func (t InputType) String() string               { return inputTypeNames.name(t) }
func (t InputType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// ShutdownChange is the change field of a shutdown event.
type ShutdownChange int

const (
	ShutdownChangeUnknown ShutdownChange = iota
	ShutdownRestart
	ShutdownExit
)

var shutdownChangeNames = enumNames[ShutdownChange]{
	ShutdownChangeUnknown: "unknown",
	ShutdownRestart:       "restart",
	ShutdownExit:          "exit",
}

func (c ShutdownChange) String() string               { return shutdownChangeNames.name(c) }
func (c ShutdownChange) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// enumNames maps enum values to their wire strings.
type enumNames[T comparable] map[T]string

func (n enumNames[T]) name(v T) string {
	if s, ok := n[v]; ok {
		return s
	}
	return "unknown"
}

// parse returns the value whose wire string is s. The zero value and false
// come back for anything unrecognized.
func (n enumNames[T]) parse(s string) (T, bool) {
	for v, name := range n {
		if name == s && name != "unknown" {
			return v, true
		}
	}
	var zero T
	return zero, false
}
