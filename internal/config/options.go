package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Default option values.
const (
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultOnDuplicate = OnDuplicateError
)

// Options configures a dispatch engine.
type Options struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`
	// OnDuplicate decides what registering an equal function twice does:
	// "error" rejects it, "ignore" keeps the first registration.
	OnDuplicate string `koanf:"on_duplicate"`
}

// DefaultOptions returns options with every field set to its default.
func DefaultOptions() *Options {
	return &Options{
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
		OnDuplicate: DefaultOnDuplicate,
	}
}

// ApplyDefaults fills empty fields.
func (o *Options) ApplyDefaults() {
	if o.LogLevel == "" {
		o.LogLevel = DefaultLogLevel
	}
	if o.LogFormat == "" {
		o.LogFormat = DefaultLogFormat
	}
	if o.OnDuplicate == "" {
		o.OnDuplicate = DefaultOnDuplicate
	}
}

// Validate checks enumerated fields.
func (o *Options) Validate() error {
	if _, err := parseLevel(o.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(o.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q: must be text or json", o.LogFormat)
	}
	switch o.OnDuplicate {
	case OnDuplicateError, OnDuplicateIgnore:
	default:
		return fmt.Errorf("invalid on_duplicate %q: must be %s or %s", o.OnDuplicate, OnDuplicateError, OnDuplicateIgnore)
	}
	return nil
}

// NewLogger builds a structured logger writing to w.
func (o *Options) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(o.LogLevel)
	if err != nil {
		return nil, err
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(o.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log_level %q", s)
}
