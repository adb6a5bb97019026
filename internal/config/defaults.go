package config

import (
	"time"

	"github.com/rbright/i3ipc"
)

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	return Config{
		I3Binary:    i3ipc.DefaultBinary,
		DialTimeout: 2 * time.Second,
		Output:      OutputText,
		Log: LogConfig{
			Level: "info",
			File:  true,
		},
		Events: []string{"workspace", "window"},
	}
}
