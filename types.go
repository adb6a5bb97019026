package i3ipc

// Rect is an (x, y, width, height) rectangle in display coordinates.
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Node is one container in the layout tree.
//
// Following the first entry of Focus from the root eventually reaches the one
// node with Focused set.
type Node struct {
	// ID identifies the container for the lifetime of the i3 process.
	ID int64 `json:"id" yaml:"id"`
	// Name is the window title for windows, a human-readable name for
	// structural containers, and empty when i3 reports null.
	Name               string      `json:"name" yaml:"name"`
	Type               NodeType    `json:"type" yaml:"type"`
	Border             BorderStyle `json:"border" yaml:"border"`
	CurrentBorderWidth int         `json:"current_border_width" yaml:"current_border_width"`
	Layout             Layout      `json:"layout" yaml:"layout"`
	// Percent is the share of the parent this container occupies, nil where
	// the notion does not apply (e.g. the root).
	Percent    *float64 `json:"percent" yaml:"percent"`
	Rect       Rect     `json:"rect" yaml:"rect"`
	WindowRect Rect     `json:"window_rect" yaml:"window_rect"`
	DecoRect   Rect     `json:"deco_rect" yaml:"deco_rect"`
	// Geometry is the size the window asked for when it was mapped.
	Geometry Rect `json:"geometry" yaml:"geometry"`
	// Window is the X11 window id, nil for split and empty containers.
	Window           *int64                    `json:"window" yaml:"window"`
	WindowProperties map[WindowProperty]string `json:"window_properties,omitempty" yaml:"window_properties,omitempty"`
	Urgent           bool                      `json:"urgent" yaml:"urgent"`
	Focused          bool                      `json:"focused" yaml:"focused"`
	// Focus lists child IDs from most to least recently focused.
	Focus         []int64 `json:"focus" yaml:"focus"`
	Nodes         []*Node `json:"nodes" yaml:"nodes"`
	FloatingNodes []*Node `json:"floating_nodes" yaml:"floating_nodes"`
}

// CommandOutcome is the result of one command in a run_command request.
type CommandOutcome struct {
	Success bool `json:"success" yaml:"success"`
	// Error is i3's human-readable message, empty on success.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Workspace is one entry of a get_workspaces reply.
type Workspace struct {
	// Num is the workspace number, -1 for named workspaces.
	Num     int    `json:"num" yaml:"num"`
	Name    string `json:"name" yaml:"name"`
	Visible bool   `json:"visible" yaml:"visible"`
	Focused bool   `json:"focused" yaml:"focused"`
	Urgent  bool   `json:"urgent" yaml:"urgent"`
	Rect    Rect   `json:"rect" yaml:"rect"`
	// Output is the video output the workspace is on (e.g. eDP-1).
	Output string `json:"output" yaml:"output"`
}

// Output is one entry of a get_outputs reply.
type Output struct {
	Name    string `json:"name" yaml:"name"`
	Active  bool   `json:"active" yaml:"active"`
	Primary bool   `json:"primary" yaml:"primary"`
	// CurrentWorkspace is empty when the output is inactive.
	CurrentWorkspace string `json:"current_workspace" yaml:"current_workspace"`
	Rect             Rect   `json:"rect" yaml:"rect"`

	// The fields below are only reported by sway and stay zero under i3.
	Make   string `json:"make,omitempty" yaml:"make,omitempty"`
	Model  string `json:"model,omitempty" yaml:"model,omitempty"`
	Serial string `json:"serial,omitempty" yaml:"serial,omitempty"`
	DPMS   *bool  `json:"dpms,omitempty" yaml:"dpms,omitempty"`
	// Scale is nil when the compositor does not report one.
	Scale           *float64 `json:"scale,omitempty" yaml:"scale,omitempty"`
	SubpixelHinting string   `json:"subpixel_hinting,omitempty" yaml:"subpixel_hinting,omitempty"`
	Transform       string   `json:"transform,omitempty" yaml:"transform,omitempty"`
	Modes           []Mode   `json:"modes,omitempty" yaml:"modes,omitempty"`
	CurrentMode     *Mode    `json:"current_mode,omitempty" yaml:"current_mode,omitempty"`
}

// Mode is a video mode an output supports. Refresh is in mHz.
type Mode struct {
	Width   int `json:"width" yaml:"width"`
	Height  int `json:"height" yaml:"height"`
	Refresh int `json:"refresh" yaml:"refresh"`
}

// BarConfig is a get_bar_config reply and the payload of barconfig_update.
type BarConfig struct {
	ID                   string `json:"id" yaml:"id"`
	Mode                 string `json:"mode" yaml:"mode"`
	Position             string `json:"position" yaml:"position"`
	StatusCommand        string `json:"status_command" yaml:"status_command"`
	Font                 string `json:"font" yaml:"font"`
	WorkspaceButtons     bool   `json:"workspace_buttons" yaml:"workspace_buttons"`
	BindingModeIndicator bool   `json:"binding_mode_indicator" yaml:"binding_mode_indicator"`
	Verbose              bool   `json:"verbose" yaml:"verbose"`
	// Colors holds #rrggbb values for the documented bar parts.
	Colors map[BarPart]string `json:"colors" yaml:"colors"`
	// UndocumentedColors keeps color keys this package does not know yet,
	// keyed by their raw name.
	UndocumentedColors map[string]string `json:"undocumented_colors,omitempty" yaml:"undocumented_colors,omitempty"`
}

// Color returns the value for part and whether it was present.
func (b BarConfig) Color(part BarPart) (string, bool) {
	v, ok := b.Colors[part]
	return v, ok
}

// Version is a get_version reply.
type Version struct {
	Major         int    `json:"major" yaml:"major"`
	Minor         int    `json:"minor" yaml:"minor"`
	Patch         int    `json:"patch" yaml:"patch"`
	HumanReadable string `json:"human_readable" yaml:"human_readable"`
	// LoadedConfigFileName is reported by i3 >= 4.13; empty otherwise.
	LoadedConfigFileName string `json:"loaded_config_file_name,omitempty" yaml:"loaded_config_file_name,omitempty"`
}

// AtLeast reports whether v is major.minor or newer.
func (v Version) AtLeast(major, minor int) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

// Config is a get_config reply.
type Config struct {
	// Config is the config file contents as i3 last loaded it.
	Config string `json:"config" yaml:"config"`
}

// SubscribeResult is the reply to a subscribe request.
type SubscribeResult struct {
	Success bool `json:"success" yaml:"success"`
}
