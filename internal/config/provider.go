// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"fmt"

	"redo-cli/pkg/types"
)

// ErrInvalidLoadOptions is the sentinel error wrapped by InvalidLoadOptionsError.
var ErrInvalidLoadOptions = errors.New("invalid load options")

type (
	// LoadOptions defines explicit configuration loading inputs. Zero
	// fields are not set; set fields must be valid paths.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific config file.
		ConfigFilePath types.FilesystemPath
		// ConfigDirPath overrides the config directory lookup.
		ConfigDirPath types.FilesystemPath
		// BaseDir is searched for config.cue when the config directory has none.
		BaseDir types.FilesystemPath
	}

	// InvalidLoadOptionsError lists the LoadOptions fields that failed validation.
	InvalidLoadOptionsError struct {
		FieldErrors []error
	}

	// Provider loads configuration from explicit options.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
		// LoadWithSource also reports the file the configuration came from
		// ("" when only defaults and environment apply).
		LoadWithSource(ctx context.Context, opts LoadOptions) (*Config, types.FilesystemPath, error)
	}

	fileProvider struct{}
)

// NewProvider creates a configuration provider backed by the filesystem.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads configuration from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadWithSource reads configuration and reports the file it came from.
func (p *fileProvider) LoadWithSource(ctx context.Context, opts LoadOptions) (*Config, types.FilesystemPath, error) {
	return loadWithOptions(ctx, opts)
}

// Validate returns an *InvalidLoadOptionsError if any set field is invalid.
func (o LoadOptions) Validate() error {
	var errs []error
	for _, p := range []types.FilesystemPath{o.ConfigFilePath, o.ConfigDirPath, o.BaseDir} {
		if p == "" {
			continue
		}
		if err := p.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return &InvalidLoadOptionsError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidLoadOptionsError) Error() string {
	return fmt.Sprintf("invalid load options: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidLoadOptions for errors.Is() compatibility.
func (e *InvalidLoadOptionsError) Unwrap() error { return ErrInvalidLoadOptions }
