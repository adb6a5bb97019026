package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
)

type jsoncConfig struct {
	SocketPath    *string   `json:"socket_path"`
	I3Binary      *string   `json:"i3_binary"`
	DialTimeoutMS *int      `json:"dial_timeout_ms"`
	Output        *string   `json:"output"`
	Log           *jsoncLog `json:"log"`
	Events        *[]string `json:"events"`
}

type jsoncLog struct {
	Level *string `json:"level"`
	File  *bool   `json:"file"`
}

// Parse reads JSONC configuration content (comments and trailing commas
// allowed) on top of base.
func Parse(content string, base Config) (Config, []Warning, error) {
	if strings.TrimSpace(content) == "" {
		warnings, err := Validate(base)
		if err != nil {
			return Config{}, nil, err
		}
		return base, warnings, nil
	}

	// jsonc.ToJSON blanks comments in place, so offsets still match content.
	normalized := jsonc.ToJSON([]byte(content))

	decoder := json.NewDecoder(bytes.NewReader(normalized))
	decoder.DisallowUnknownFields()

	var payload jsoncConfig
	if err := decoder.Decode(&payload); err != nil {
		return Config{}, nil, wrapJSONDecodeError(content, err)
	}
	if err := ensureSingleJSONValue(decoder); err != nil {
		return Config{}, nil, wrapJSONDecodeError(content, err)
	}

	cfg := base
	if err := payload.applyTo(&cfg); err != nil {
		return Config{}, nil, err
	}

	warnings, err := Validate(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, warnings, nil
}

func (payload jsoncConfig) applyTo(cfg *Config) error {
	if payload.SocketPath != nil {
		cfg.SocketPath = strings.TrimSpace(*payload.SocketPath)
	}
	if payload.I3Binary != nil {
		cfg.I3Binary = strings.TrimSpace(*payload.I3Binary)
	}
	if payload.DialTimeoutMS != nil {
		if *payload.DialTimeoutMS < 0 {
			return fmt.Errorf("dial_timeout_ms must be >= 0")
		}
		cfg.DialTimeout = time.Duration(*payload.DialTimeoutMS) * time.Millisecond
	}
	if payload.Output != nil {
		cfg.Output = strings.ToLower(strings.TrimSpace(*payload.Output))
	}

	if payload.Log != nil {
		if payload.Log.Level != nil {
			cfg.Log.Level = strings.ToLower(strings.TrimSpace(*payload.Log.Level))
		}
		if payload.Log.File != nil {
			cfg.Log.File = *payload.Log.File
		}
	}

	if payload.Events != nil {
		events := make([]string, 0, len(*payload.Events))
		for _, name := range *payload.Events {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			events = append(events, name)
		}
		cfg.Events = events
	}
	return nil
}

func ensureSingleJSONValue(decoder *json.Decoder) error {
	var extra json.RawMessage
	err := decoder.Decode(&extra)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err == nil {
		return fmt.Errorf("multiple JSON values are not allowed")
	}
	return err
}

func wrapJSONDecodeError(content string, err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := offsetToLineCol(content, syntaxErr.Offset)
		return fmt.Errorf("line %d column %d: %w", line, col, err)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		line, col := offsetToLineCol(content, typeErr.Offset)
		return fmt.Errorf("line %d column %d: %w", line, col, err)
	}

	return err
}

func offsetToLineCol(content string, offset int64) (int, int) {
	if offset <= 0 {
		return 1, 1
	}

	limit := int(offset)
	if limit > len(content) {
		limit = len(content)
	}

	line := 1
	col := 1
	for i := 0; i < limit-1; i++ {
		if content[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
