package config

import (
	"fmt"
	"strings"

	"github.com/rbright/i3ipc"
)

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if strings.TrimSpace(cfg.I3Binary) == "" {
		return nil, fmt.Errorf("i3_binary must not be empty")
	}
	if cfg.DialTimeout < 0 {
		return nil, fmt.Errorf("dial_timeout_ms must be >= 0")
	}

	switch cfg.Output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return nil, fmt.Errorf("output must be one of: text, json, yaml")
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}

	if _, err := EventTypes(cfg.Events); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(cfg.Events))
	for _, name := range cfg.Events {
		if _, dup := seen[name]; dup {
			warnings = append(warnings, Warning{Message: fmt.Sprintf("events lists %q more than once", name)})
			continue
		}
		seen[name] = struct{}{}
	}
	if len(cfg.Events) == 0 {
		warnings = append(warnings, Warning{Message: "events is empty; subscribe needs explicit event names"})
	}

	return warnings, nil
}

// EventTypes maps subscription names to event categories, dropping
// duplicates while keeping first-seen order.
func EventTypes(names []string) ([]i3ipc.EventType, error) {
	out := make([]i3ipc.EventType, 0, len(names))
	seen := make(map[i3ipc.EventType]struct{}, len(names))
	for _, name := range names {
		ev, err := i3ipc.ParseEventType(strings.TrimSpace(name))
		if err != nil {
			return nil, fmt.Errorf("events: %w", err)
		}
		if _, dup := seen[ev]; dup {
			continue
		}
		seen[ev] = struct{}{}
		out = append(out, ev)
	}
	return out, nil
}
