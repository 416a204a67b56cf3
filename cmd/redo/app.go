// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"redo-cli/internal/config"
	"redo-cli/internal/finder"
	"redo-cli/pkg/dofile"
	"redo-cli/pkg/fspath"
	"redo-cli/pkg/types"

	"github.com/spf13/afero"
)

type (
	// App wires CLI services and shared dependencies. All Cobra command
	// handlers receive an App reference and reach the filesystem, the
	// working directory, and configuration only through it.
	App struct {
		Config config.Provider
		Fs     afero.Fs
		Getwd  func() (types.FilesystemPath, error)
		stdout io.Writer
		stderr io.Writer
		// globalLogger installs each session's logger as the slog default.
		globalLogger bool
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config config.Provider
		Fs     afero.Fs
		Getwd  func() (types.FilesystemPath, error)
		Stdout io.Writer
		Stderr io.Writer
	}

	// session is the per-invocation state shared by subcommands: the loaded
	// configuration, the logger built from it, and the working directory.
	session struct {
		cfg    *config.Config
		source types.FilesystemPath
		cwd    types.FilesystemPath
		logger *slog.Logger
	}
)

// NewApp creates an App, filling nil dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config: deps.Config,
		Fs:     deps.Fs,
		Getwd:  deps.Getwd,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.Fs == nil {
		app.Fs = afero.NewOsFs()
	}
	if app.Getwd == nil {
		app.Getwd = fspath.Getwd
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// newSession loads configuration and resolves the working directory for one
// command invocation. In the real process the logger it builds is also
// installed as the slog default so library packages log through it.
func (a *App) newSession(ctx context.Context, flags *rootFlagValues) (*session, error) {
	cwd := types.FilesystemPath(flags.workdir)
	if cwd == "" {
		wd, err := a.Getwd()
		if err != nil {
			return nil, err
		}
		cwd = wd
	} else if !fspath.IsAbs(cwd) {
		abs, err := fspath.Abs(cwd)
		if err != nil {
			return nil, err
		}
		cwd = abs
	}

	cfg, source, err := a.Config.LoadWithSource(ctx, config.LoadOptions{
		ConfigFilePath: types.FilesystemPath(flags.configPath),
		BaseDir:        cwd,
	})
	if err != nil {
		return nil, err
	}

	if flags.verbose {
		cfg.UI.Verbose = true
	}
	if flags.logLevel != "" {
		cfg.Log.Level = config.LogLevel(flags.logLevel)
		if err := cfg.Log.Level.Validate(); err != nil {
			return nil, usageError("--log-level: %w", err)
		}
	}

	logger := newLogger(a.stderr, cfg.Log, cfg.UI.Verbose)
	if a.globalLogger {
		slog.SetDefault(logger)
	}

	return &session{cfg: cfg, source: source, cwd: cwd, logger: logger}, nil
}

// finder returns a Finder for the session's working directory and
// configuration, with the order optionally overridden.
func (a *App) finder(s *session, order string) (*finder.Finder, error) {
	resolver := s.cfg.Resolver()
	if order != "" {
		resolver.Order = dofile.SearchOrder(order)
		if err := resolver.Order.Validate(); err != nil {
			return nil, usageError("--order: %w", err)
		}
	}
	return finder.New(s.cwd.String(),
		finder.WithFs(a.Fs),
		finder.WithResolver(resolver),
		finder.WithLogger(s.logger),
	), nil
}
