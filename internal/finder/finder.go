// SPDX-License-Identifier: MPL-2.0

package finder

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"strings"
	"syscall"

	"redo-cli/pkg/dofile"

	"github.com/spf13/afero"
)

// ErrNoDoFile is the sentinel error wrapped by NoDoFileError.
var ErrNoDoFile = errors.New("no do-file found")

type (
	// Option configures a Finder.
	Option func(*Finder)

	// Finder locates the do-file for a target. Relative targets and
	// candidates are anchored at the working directory given to New, never
	// at the process working directory.
	Finder struct {
		fs       afero.Fs
		resolver *dofile.Resolver
		cwd      string
		logger   *slog.Logger
	}

	// Match is the do-file chosen for a target.
	Match struct {
		// Target is the target path as requested.
		Target string
		// Candidate is the winning candidate.
		Candidate dofile.Candidate
		// Path is the do-file path, relative when the target was relative.
		Path string
		// Base is the target file name without the matched extension.
		Base string
		// Tried lists the candidate paths probed before Path, in order.
		Tried []string
	}

	// NoDoFileError is returned when no candidate exists.
	NoDoFileError struct {
		Target string
		Tried  []string
	}
)

// WithFs sets the filesystem probed for candidates. Defaults to the OS
// filesystem.
func WithFs(fsys afero.Fs) Option {
	return func(f *Finder) { f.fs = fsys }
}

// WithResolver sets the candidate resolver. Defaults to the zero Resolver.
func WithResolver(r *dofile.Resolver) Option {
	return func(f *Finder) { f.resolver = r }
}

// WithLogger sets the logger used for probe tracing. Defaults to
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(f *Finder) { f.logger = l }
}

// New creates a Finder rooted at the working directory cwd.
func New(cwd string, opts ...Option) *Finder {
	f := &Finder{
		fs:       afero.NewOsFs(),
		resolver: &dofile.Resolver{},
		cwd:      cwd,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// Error implements the error interface.
func (e *NoDoFileError) Error() string {
	return fmt.Sprintf("no do-file for %q (%d candidates checked)", e.Target, len(e.Tried))
}

// Unwrap returns ErrNoDoFile for errors.Is() compatibility.
func (e *NoDoFileError) Unwrap() error { return ErrNoDoFile }

// Candidates returns the resolver's candidates for target without probing.
func (f *Finder) Candidates(target string) (iter.Seq[dofile.Candidate], error) {
	return f.resolver.Resolve(target, f.cwd)
}

// Find returns the first candidate for target that exists as a regular
// file. Directories of the candidate's name are skipped. Probing stops as
// soon as a match is found or ctx is cancelled.
func (f *Finder) Find(ctx context.Context, target string) (*Match, error) {
	seq, err := f.Candidates(target)
	if err != nil {
		return nil, err
	}

	style := f.style()
	_, name := style.Split(target)

	var tried []string
	for c := range seq {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("find do-file for %q: %w", target, err)
		}

		path := style.Join(c.Dir, c.Name)
		ok, err := f.isFile(f.anchor(path))
		if err != nil {
			return nil, fmt.Errorf("probe %s: %w", path, err)
		}
		if !ok {
			f.logger.Debug("do-file candidate missing", "target", target, "path", path)
			tried = append(tried, path)
			continue
		}

		f.logger.Debug("do-file found", "target", target, "path", path, "ext", c.Ext, "checked", len(tried)+1)
		return &Match{
			Target:    target,
			Candidate: c,
			Path:      path,
			Base:      c.Base(name),
			Tried:     tried,
		}, nil
	}

	return nil, &NoDoFileError{Target: target, Tried: tried}
}

// Dirs returns the distinct directories Find would probe for target, in
// first-probe order. Watchers use it to know where a new do-file matters.
func (f *Finder) Dirs(target string) ([]string, error) {
	seq, err := f.Candidates(target)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var dirs []string
	for c := range seq {
		if _, ok := seen[c.Dir]; ok {
			continue
		}
		seen[c.Dir] = struct{}{}
		dirs = append(dirs, c.Dir)
	}
	return dirs, nil
}

func (f *Finder) style() dofile.PathStyle {
	if f.resolver.Style == (dofile.PathStyle{}) {
		return dofile.PosixStyle
	}
	return f.resolver.Style
}

// anchor joins a relative candidate path onto the working directory. The
// result is not cleaned; parent markers are left for the filesystem.
func (f *Finder) anchor(path string) string {
	style := f.style()
	if style.IsAbs(path) || f.cwd == "" {
		return path
	}
	return strings.TrimSuffix(f.cwd, style.Separator) + style.Separator + path
}

func (f *Finder) isFile(path string) (bool, error) {
	info, err := f.fs.Stat(path)
	switch {
	case err == nil:
		return !info.IsDir(), nil
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		return false, nil
	default:
		return false, err
	}
}
