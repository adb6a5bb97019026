// Package config resolves, parses, validates, and defaults i3ipc CLI configuration.
package config

import "time"

// Config is the fully materialized runtime configuration used by the CLI.
type Config struct {
	// SocketPath overrides socket discovery when set.
	SocketPath  string
	I3Binary    string
	DialTimeout time.Duration
	Output      string
	Log         LogConfig
	// Events is the default subscription for `subscribe` without arguments.
	Events []string
}

// LogConfig controls the runtime logger.
type LogConfig struct {
	Level string
	File  bool
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}

// Output formats accepted by the output key and --output flag.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)
