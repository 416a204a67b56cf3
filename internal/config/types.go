// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"time"

	"redo-cli/pkg/dofile"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces the dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces the light color scheme.
	ColorSchemeLight ColorScheme = "light"

	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"

	LogFormatText   LogFormat = "text"
	LogFormatJSON   LogFormat = "json"
	LogFormatLogfmt LogFormat = "logfmt"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidLogFormat is returned when a LogFormat value is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// LogLevel is the minimum severity written to the log.
	LogLevel string

	// LogFormat selects the log line encoding.
	LogFormat string

	// Config is the complete redo configuration.
	Config struct {
		// SearchOrder selects how default do-files are interleaved with
		// ancestor levels. See dofile.SearchOrder.
		SearchOrder dofile.SearchOrder `json:"search_order" mapstructure:"search_order" toml:"search_order"`
		Path        PathConfig         `json:"path" mapstructure:"path" toml:"path"`
		UI          UIConfig           `json:"ui" mapstructure:"ui" toml:"ui"`
		Log         LogConfig          `json:"log" mapstructure:"log" toml:"log"`
		Watch       WatchConfig        `json:"watch" mapstructure:"watch" toml:"watch"`
	}

	// PathConfig overrides the path conventions candidates are built with.
	PathConfig struct {
		Separator string `json:"separator" mapstructure:"separator" toml:"separator"`
		Parent    string `json:"parent" mapstructure:"parent" toml:"parent"`
	}

	// UIConfig controls terminal output.
	UIConfig struct {
		Verbose     bool        `json:"verbose" mapstructure:"verbose" toml:"verbose"`
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme" toml:"color_scheme"`
	}

	// LogConfig controls the process logger.
	LogConfig struct {
		Level  LogLevel  `json:"level" mapstructure:"level" toml:"level"`
		Format LogFormat `json:"format" mapstructure:"format" toml:"format"`
	}

	// WatchConfig controls `redo whichdo --watch`.
	WatchConfig struct {
		// Debounce is a Go duration string (e.g. "300ms").
		Debounce    string   `json:"debounce" mapstructure:"debounce" toml:"debounce"`
		Patterns    []string `json:"patterns" mapstructure:"patterns" toml:"patterns"`
		Ignore      []string `json:"ignore" mapstructure:"ignore" toml:"ignore"`
		ClearScreen bool     `json:"clear_screen" mapstructure:"clear_screen" toml:"clear_screen"`
	}

	// InvalidConfigError aggregates every field-level validation failure.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		SearchOrder: dofile.OrderExtension,
		Path: PathConfig{
			Separator: dofile.HostStyle().Separator,
			Parent:    dofile.HostStyle().Parent,
		},
		UI: UIConfig{
			Verbose:     false,
			ColorScheme: ColorSchemeAuto,
		},
		Log: LogConfig{
			Level:  LogLevelWarn,
			Format: LogFormatText,
		},
		Watch: WatchConfig{
			Debounce:    "300ms",
			Patterns:    []string{"*.do"},
			Ignore:      []string{},
			ClearScreen: false,
		},
	}
}

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// Validate returns an error if the ColorScheme is not recognized.
func (c ColorScheme) Validate() error {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidColorScheme, string(c))
	}
}

// GlamourStyle maps the scheme to a glamour style name for rendering
// issue pages.
func (c ColorScheme) GlamourStyle() string {
	switch c {
	case ColorSchemeDark:
		return "dark"
	case ColorSchemeLight:
		return "light"
	default:
		return "auto"
	}
}

// Validate returns an error if the LogLevel is not recognized.
func (l LogLevel) Validate() error {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, string(l))
	}
}

// Validate returns an error if the LogFormat is not recognized.
func (f LogFormat) Validate() error {
	switch f {
	case LogFormatText, LogFormatJSON, LogFormatLogfmt:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, string(f))
	}
}

// DebounceDuration parses Watch.Debounce. An empty value yields zero.
func (w WatchConfig) DebounceDuration() (time.Duration, error) {
	if w.Debounce == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(w.Debounce)
	if err != nil {
		return 0, fmt.Errorf("invalid watch debounce %q: %w", w.Debounce, err)
	}
	return d, nil
}

// Style returns the path conventions described by the configuration. A
// backslash separator selects drive-letter and UNC volume handling.
func (c *Config) Style() dofile.PathStyle {
	style := dofile.PosixStyle
	if c.Path.Separator == dofile.WindowsStyle.Separator {
		style = dofile.WindowsStyle
	}
	style.Separator = c.Path.Separator
	style.Parent = c.Path.Parent
	return style
}

// Resolver returns a candidate resolver configured from c.
func (c *Config) Resolver() *dofile.Resolver {
	return &dofile.Resolver{Style: c.Style(), Order: c.SearchOrder}
}

// Validate checks every field and returns an *InvalidConfigError listing
// all failures, or nil.
func (c *Config) Validate() error {
	var errs []error
	if err := c.SearchOrder.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Style().Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Log.Level.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Log.Format.Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Watch.DebounceDuration(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig followed by every field error, so
// errors.Is matches both the sentinel and the specific failure.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
