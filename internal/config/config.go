// Package config holds runtime configuration: defaults, CLI flag
// registration, validation, and YAML job files.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// LogFormat selects the log encoder.
type LogFormat string

const (
	LogFormatText LogFormat = "text" // Human-readable lines (default).
	LogFormatJSON LogFormat = "json" // One JSON object per line.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stderr is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds the settings shared by every subcommand. It is populated by
// [DefaultConfig] and then mutated by the flags registered in
// [RegisterFlags].
type Config struct {
	// Tools.
	FFmpegPath  string // Default: "ffmpeg", resolved through PATH.
	FFprobePath string // Default: "ffprobe".
	MinVersion  string // Minimum "major.minor" accepted by check; empty disables the gate.

	// Execution.
	WaitDelay time.Duration // Grace period between SIGTERM and kill. Default: 5s.

	// Logging.
	Debug     bool
	NoLog     bool
	LogFormat LogFormat // Default: "text".
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional append-only log file.
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() Config {
	return Config{
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
		WaitDelay:   5 * time.Second,
		LogFormat:   LogFormatText,
		ColorMode:   ColorAuto,
	}
}

// Validate checks enum fields and normalizes MinVersion.
func (c *Config) Validate() error {
	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("invalid log format %q (use 'text' or 'json')", c.LogFormat)
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}

	if strings.TrimSpace(c.FFmpegPath) == "" {
		return errors.New("ffmpeg path must not be empty")
	}
	if strings.TrimSpace(c.FFprobePath) == "" {
		return errors.New("ffprobe path must not be empty")
	}
	if c.WaitDelay < 0 {
		return errors.New("wait delay must not be negative")
	}

	c.MinVersion = strings.TrimPrefix(strings.TrimSpace(c.MinVersion), "v")
	return nil
}
