package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Loaded captures resolved config path, parsed values, and non-fatal warnings.
type Loaded struct {
	Path     string
	Config   Config
	Warnings []Warning
	Exists   bool
}

// Load resolves, reads, parses, and validates the runtime configuration.
//
// A missing file at the implicit location yields defaults and a warning; a
// missing file named with --config is an error.
func Load(explicitPath string) (Loaded, error) {
	resolvedPath, err := ResolvePath(explicitPath)
	if err != nil {
		return Loaded{}, err
	}

	base := Default()
	content, err := os.ReadFile(resolvedPath)
	switch {
	case errors.Is(err, os.ErrNotExist) && strings.TrimSpace(explicitPath) == "":
		return Loaded{
			Path:   resolvedPath,
			Config: base,
			Warnings: []Warning{{
				Message: fmt.Sprintf("config file %q not found; using defaults", resolvedPath),
			}},
		}, nil
	case err != nil:
		return Loaded{}, fmt.Errorf("read config %q: %w", resolvedPath, err)
	}

	cfg, warnings, err := Parse(string(content), base)
	if err != nil {
		return Loaded{}, fmt.Errorf("parse config %q: %w", resolvedPath, err)
	}

	return Loaded{
		Path:     resolvedPath,
		Config:   cfg,
		Warnings: warnings,
		Exists:   true,
	}, nil
}

// Override applies command-line flags on top of the file configuration. Empty
// values leave the file setting in place.
func (c Config) Override(socketPath, output string) (Config, error) {
	if socketPath = strings.TrimSpace(socketPath); socketPath != "" {
		c.SocketPath = socketPath
	}
	if output = strings.ToLower(strings.TrimSpace(output)); output != "" {
		c.Output = output
	}
	if _, err := Validate(c); err != nil {
		return Config{}, err
	}
	return c, nil
}
