// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"redo-cli/internal/issue"
	"redo-cli/pkg/dofile"
	"redo-cli/pkg/types"
)

func writeConfig(t *testing.T, dir, content string) types.FilesystemPath {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return types.FilesystemPath(path)
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.SearchOrder != dofile.OrderExtension {
		t.Errorf("SearchOrder = %q, want %q", cfg.SearchOrder, dofile.OrderExtension)
	}
	if host := dofile.HostStyle(); cfg.Path.Separator != host.Separator || cfg.Path.Parent != host.Parent {
		t.Errorf("Path = %+v, want host conventions %+v", cfg.Path, host)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("ColorScheme = %q, want auto", cfg.UI.ColorScheme)
	}
	if cfg.Log.Level != LogLevelWarn {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
	if len(cfg.Watch.Patterns) != 1 || cfg.Watch.Patterns[0] != "*.do" {
		t.Errorf("Watch.Patterns = %v, want [*.do]", cfg.Watch.Patterns)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG lookup only applies on linux")
	}

	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg-config")

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	if want := filepath.Join("/tmp/test-xdg-config", AppName); dir.String() != want {
		t.Errorf("ConfigDir() = %q, want %q", dir, want)
	}
}

func TestConfigDir_Override(t *testing.T) {
	SetConfigDirOverride("/custom/redo")
	t.Cleanup(Reset)

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() error = %v", err)
	}
	if dir != "/custom/redo" {
		t.Errorf("ConfigDir() = %q, want /custom/redo", dir)
	}

	path, err := FilePath()
	if err != nil {
		t.Fatalf("FilePath() error = %v", err)
	}
	if want := filepath.Join("/custom/redo", "config.cue"); path.String() != want {
		t.Errorf("FilePath() = %q, want %q", path, want)
	}
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	t.Parallel()

	cfg, source, err := NewProvider().LoadWithSource(t.Context(), LoadOptions{
		ConfigDirPath: types.FilesystemPath(t.TempDir()),
	})
	if err != nil {
		t.Fatalf("LoadWithSource() error = %v", err)
	}
	if source != "" {
		t.Errorf("source = %q, want empty", source)
	}
	if cfg.SearchOrder != dofile.OrderExtension {
		t.Errorf("SearchOrder = %q, want extension", cfg.SearchOrder)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	want := writeConfig(t, dir, `
search_order: "directory"
log: level: "debug"
watch: {
	debounce: "1s"
	patterns: ["*.do", "*.c"]
}
`)

	cfg, source, err := NewProvider().LoadWithSource(t.Context(), LoadOptions{
		ConfigDirPath: types.FilesystemPath(dir),
	})
	if err != nil {
		t.Fatalf("LoadWithSource() error = %v", err)
	}
	if source != want {
		t.Errorf("source = %q, want %q", source, want)
	}
	if cfg.SearchOrder != dofile.OrderDirectory {
		t.Errorf("SearchOrder = %q, want directory", cfg.SearchOrder)
	}
	if cfg.Log.Level != LogLevelDebug {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Log.Format != LogFormatText {
		t.Errorf("Log.Format = %q, want default text", cfg.Log.Format)
	}
	if len(cfg.Watch.Patterns) != 2 || cfg.Watch.Patterns[1] != "*.c" {
		t.Errorf("Watch.Patterns = %v", cfg.Watch.Patterns)
	}
	if want := dofile.HostStyle().Separator; cfg.Path.Separator != want {
		t.Errorf("Path.Separator = %q, want default %q", cfg.Path.Separator, want)
	}
}

func TestLoad_BaseDirFallback(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	want := writeConfig(t, base, `ui: verbose: true`)

	cfg, source, err := NewProvider().LoadWithSource(t.Context(), LoadOptions{
		ConfigDirPath: types.FilesystemPath(t.TempDir()),
		BaseDir:       types.FilesystemPath(base),
	})
	if err != nil {
		t.Fatalf("LoadWithSource() error = %v", err)
	}
	if source != want {
		t.Errorf("source = %q, want %q", source, want)
	}
	if !cfg.UI.Verbose {
		t.Error("UI.Verbose = false, want true")
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "custom.cue")
	if err := os.WriteFile(path, []byte(`log: format: "json"`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewProvider().Load(t.Context(), LoadOptions{ConfigFilePath: types.FilesystemPath(path)})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Format != LogFormatJSON {
		t.Errorf("Log.Format = %q, want json", cfg.Log.Format)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	t.Parallel()

	_, err := NewProvider().Load(t.Context(), LoadOptions{
		ConfigFilePath: types.FilesystemPath(filepath.Join(t.TempDir(), "missing.cue")),
	})
	if err == nil {
		t.Fatal("Load() error = nil, want error")
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error type = %T, want *issue.ActionableError", err)
	}
	if !ae.HasSuggestions() {
		t.Error("expected suggestions on missing config file error")
	}
}

func TestLoad_SchemaViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown order", content: `search_order: "sideways"`},
		{name: "unknown field", content: `colour: "red"`},
		{name: "empty separator", content: `path: separator: ""`},
		{name: "syntax error", content: `search_order: `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, err := NewProvider().Load(t.Context(), LoadOptions{ConfigDirPath: types.FilesystemPath(dir)})
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("error type = %T, want *issue.ActionableError", err)
			}
			if ae.Operation != "load configuration" {
				t.Errorf("Operation = %q, want %q", ae.Operation, "load configuration")
			}
		})
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `search_order: "extension"`)
	t.Setenv("REDO_SEARCH_ORDER", "directory")
	t.Setenv("REDO_UI_VERBOSE", "true")

	cfg, err := NewProvider().Load(t.Context(), LoadOptions{ConfigDirPath: types.FilesystemPath(dir)})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SearchOrder != dofile.OrderDirectory {
		t.Errorf("SearchOrder = %q, want directory from environment", cfg.SearchOrder)
	}
	if !cfg.UI.Verbose {
		t.Error("UI.Verbose = false, want true from environment")
	}
}

func TestLoad_EnvInvalid(t *testing.T) {
	t.Setenv("REDO_LOG_LEVEL", "loud")

	_, err := NewProvider().Load(t.Context(), LoadOptions{ConfigDirPath: types.FilesystemPath(t.TempDir())})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Load() error = %v, want ErrInvalidConfig", err)
	}
	if !errors.Is(err, ErrInvalidLogLevel) {
		t.Errorf("Load() error = %v, want ErrInvalidLogLevel in chain", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := NewProvider().Load(ctx, LoadOptions{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	src := DefaultConfig()
	src.SearchOrder = dofile.OrderDirectory
	src.Watch.Ignore = []string{"build/**"}

	dir := t.TempDir()
	writeConfig(t, dir, GenerateCUE(src))

	cfg, err := NewProvider().Load(t.Context(), LoadOptions{ConfigDirPath: types.FilesystemPath(dir)})
	if err != nil {
		t.Fatalf("Load() of generated CUE error = %v", err)
	}
	if cfg.SearchOrder != dofile.OrderDirectory {
		t.Errorf("SearchOrder = %q, want directory", cfg.SearchOrder)
	}
	if len(cfg.Watch.Ignore) != 1 || cfg.Watch.Ignore[0] != "build/**" {
		t.Errorf("Watch.Ignore = %v, want [build/**]", cfg.Watch.Ignore)
	}
	if cfg.Watch.Debounce != "300ms" {
		t.Errorf("Watch.Debounce = %q, want 300ms", cfg.Watch.Debounce)
	}
}

func TestGenerateTOML(t *testing.T) {
	t.Parallel()

	out, err := GenerateTOML(DefaultConfig())
	if err != nil {
		t.Fatalf("GenerateTOML() error = %v", err)
	}
	for _, want := range []string{"search_order", "[path]", "[watch]", "debounce", "extension"} {
		if !strings.Contains(out, want) {
			t.Errorf("GenerateTOML() output missing %q:\n%s", want, out)
		}
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "redo")
	SetConfigDirOverride(types.FilesystemPath(dir))
	t.Cleanup(Reset)

	path, created, err := CreateDefaultConfig()
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	if !created {
		t.Error("created = false on first call, want true")
	}
	if !fileExists(path) {
		t.Fatalf("config file %q not written", path)
	}

	if _, created, err = CreateDefaultConfig(); err != nil || created {
		t.Errorf("second CreateDefaultConfig() = (created %v, err %v), want (false, nil)", created, err)
	}
}

func TestLoadOptions_Validate(t *testing.T) {
	t.Parallel()

	if err := (LoadOptions{}).Validate(); err != nil {
		t.Errorf("zero LoadOptions.Validate() = %v, want nil", err)
	}

	err := LoadOptions{ConfigFilePath: "  ", BaseDir: "a\x00b"}.Validate()
	if !errors.Is(err, ErrInvalidLoadOptions) {
		t.Fatalf("Validate() = %v, want ErrInvalidLoadOptions", err)
	}
	var le *InvalidLoadOptionsError
	if !errors.As(err, &le) || len(le.FieldErrors) != 2 {
		t.Errorf("FieldErrors = %v, want 2 entries", le)
	}
}
