// Package version carries build metadata stamped in with -ldflags.
package version

import "runtime"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String formats the build metadata for `i3ipc version`.
func String() string {
	return "i3ipc " + Version + " (commit=" + Commit + ", date=" + Date + ", go=" + runtime.Version() + ")"
}
