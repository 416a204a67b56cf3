// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"redo-cli/internal/issue"
	"redo-cli/pkg/cueutil"
	"redo-cli/pkg/fspath"
	"redo-cli/pkg/platform"
	"redo-cli/pkg/types"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "redo"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides, e.g. REDO_SEARCH_ORDER.
	EnvPrefix = "REDO"
)

//go:embed config_schema.cue
var configSchema []byte

// ConfigDir returns the redo configuration directory using platform
// conventions: %APPDATA% on Windows, ~/Library/Application Support on macOS,
// and $XDG_CONFIG_HOME (defaulting to ~/.config) elsewhere.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (types.FilesystemPath, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	configDir, err := platform.ConfigRoot(runtime.GOOS, platform.Env{
		Getenv:  os.Getenv,
		HomeDir: os.UserHomeDir,
	})
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: %w", err)
	}

	return fspath.JoinStr(types.FilesystemPath(configDir), AppName), nil
}

// FilePath returns the default config file path inside ConfigDir.
func FilePath() (types.FilesystemPath, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return fspath.JoinStr(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// loadWithOptions performs option-driven config loading and returns the
// path of the file that was read ("" when only defaults apply).
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, types.FilesystemPath, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, "", err
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath, err := resolveConfigFile(opts)
	if err != nil {
		return nil, "", err
	}
	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath.String()).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'redo config init' in an empty config directory to see the defaults").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath.String()).
			WithSuggestion("Check REDO_* environment variables for typos").
			Wrap(err).
			BuildError()
	}

	slog.Debug("configuration loaded", "path", resolvedPath.String(), "search_order", cfg.SearchOrder.String())
	return &cfg, resolvedPath, nil
}

// resolveConfigFile picks the file to read: the explicit path when given
// (it must exist), otherwise config.cue in the config directory, otherwise
// config.cue in the base directory. It returns "" when no file exists.
func resolveConfigFile(opts LoadOptions) (types.FilesystemPath, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath.String()).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	cfgDir := opts.ConfigDirPath
	if cfgDir == "" {
		dir, err := ConfigDir()
		if err != nil {
			return "", err
		}
		cfgDir = dir
	}

	name := ConfigFileName + "." + ConfigFileExt
	if p := fspath.JoinStr(cfgDir, name); fileExists(p) {
		return p, nil
	}
	if opts.BaseDir != "" {
		if p := fspath.JoinStr(opts.BaseDir, name); fileExists(p) {
			return p, nil
		}
	}
	return "", nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("search_order", string(d.SearchOrder))
	v.SetDefault("path.separator", d.Path.Separator)
	v.SetDefault("path.parent", d.Path.Parent)
	v.SetDefault("ui.verbose", d.UI.Verbose)
	v.SetDefault("ui.color_scheme", string(d.UI.ColorScheme))
	v.SetDefault("log.level", string(d.Log.Level))
	v.SetDefault("log.format", string(d.Log.Format))
	v.SetDefault("watch.debounce", d.Watch.Debounce)
	v.SetDefault("watch.patterns", d.Watch.Patterns)
	v.SetDefault("watch.ignore", d.Watch.Ignore)
	v.SetDefault("watch.clear_screen", d.Watch.ClearScreen)
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into
// Viper over the defaults.
func loadCUEIntoViper(v *viper.Viper, path types.FilesystemPath) error {
	data, err := os.ReadFile(path.String())
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	configMap, err := cueutil.DecodeMap(configSchema, data, "#Config", cueutil.WithFilename(path.String()))
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path types.FilesystemPath) bool {
	info, err := os.Stat(path.String())
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes the default configuration to the config
// directory unless a file already exists there. It returns the file path
// and whether a file was written.
func CreateDefaultConfig() (types.FilesystemPath, bool, error) {
	cfgPath, err := FilePath()
	if err != nil {
		return "", false, err
	}
	if fileExists(cfgPath) {
		return cfgPath, false, nil
	}

	if err := os.MkdirAll(fspath.Dir(cfgPath).String(), 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(cfgPath.String(), []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write config file: %w", err)
	}
	return cfgPath, true, nil
}

// GenerateCUE renders cfg as a CUE document accepted by the #Config schema.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// redo configuration file\n\n")
	fmt.Fprintf(&sb, "search_order: %q\n", cfg.SearchOrder)

	sb.WriteString("\npath: {\n")
	fmt.Fprintf(&sb, "\tseparator: %q\n", cfg.Path.Separator)
	fmt.Fprintf(&sb, "\tparent: %q\n", cfg.Path.Parent)
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	sb.WriteString("}\n")

	sb.WriteString("\nlog: {\n")
	fmt.Fprintf(&sb, "\tlevel: %q\n", cfg.Log.Level)
	fmt.Fprintf(&sb, "\tformat: %q\n", cfg.Log.Format)
	sb.WriteString("}\n")

	sb.WriteString("\nwatch: {\n")
	fmt.Fprintf(&sb, "\tdebounce: %q\n", cfg.Watch.Debounce)
	writeCUEList(&sb, "patterns", cfg.Watch.Patterns)
	writeCUEList(&sb, "ignore", cfg.Watch.Ignore)
	fmt.Fprintf(&sb, "\tclear_screen: %v\n", cfg.Watch.ClearScreen)
	sb.WriteString("}\n")

	return sb.String()
}

func writeCUEList(sb *strings.Builder, key string, items []string) {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	fmt.Fprintf(sb, "\t%s: [%s]\n", key, strings.Join(quoted, ", "))
}

// GenerateTOML renders cfg as TOML.
func GenerateTOML(cfg *Config) (string, error) {
	out, err := toml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode config as TOML: %w", err)
	}
	return string(out), nil
}
