// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when do-files appear, change, or vanish
// in the directories a target's candidates live in.
//
// Candidate directories often do not exist yet (e.g. "../do/a"). For each
// such directory the nearest existing ancestor is watched instead, and the
// directory itself is added once it is created. Events within the debounce
// window are coalesced so the callback fires once with the full set of
// changed paths.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is the delay before firing the onChange callback after the
// last filesystem event, so an editor's write-then-rename lands as one change.
const defaultDebounce = 300 * time.Millisecond

// ErrNoDirs is returned by New when Config.Dirs is empty.
var ErrNoDirs = errors.New("watch: no directories to watch")

// defaultIgnores lists base-name patterns that never trigger callbacks
// (editor swap and backup files, OS metadata).
var defaultIgnores = []string{
	"*.swp",
	"*.swo",
	"*~",
	".#*",
	".DS_Store",
}

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Dirs are the candidate directories to monitor. Paths may contain
		// literal ".." components; they are cleaned before watching.
		Dirs []string

		// Patterns are doublestar globs matched against the base name of a
		// changed file (e.g. "*.do"). An empty slice matches every file.
		Patterns []string

		// Ignore are additional base-name globs merged with the built-in
		// default ignores.
		Ignore []string

		// Debounce is the quiet period after the last event before the callback
		// fires. Zero or negative values fall back to defaultDebounce.
		Debounce time.Duration

		// ClearScreen writes ANSI clear-screen sequences to Stdout before
		// each callback. No terminal detection is performed.
		ClearScreen bool

		// OnChange is called after the debounce window closes with the sorted,
		// deduplicated list of changed paths. A nil callback is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Stdout receives the clear-screen sequence. nil means os.Stdout.
		Stdout io.Writer

		// Logger receives diagnostics. nil means slog.Default().
		Logger *slog.Logger
	}

	// Watcher monitors candidate directories and fires a debounced callback
	// when matching files change. Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		ignores  []string
		stdout   io.Writer
		logger   *slog.Logger
		debounce time.Duration

		// mu guards wanted and watched, which the event loop updates as
		// missing candidate directories are created.
		mu sync.Mutex
		// wanted holds every cleaned candidate directory.
		wanted map[string]struct{}
		// watched holds the directories currently registered with fsnotify.
		watched map[string]struct{}

		started atomic.Bool
	}
)

// New creates a Watcher for cfg.Dirs. It validates all patterns and
// registers each directory, or its nearest existing ancestor, with fsnotify.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Dirs) == 0 {
		return nil, ErrNoDirs
	}
	if err := validatePatterns(cfg.Patterns, "watch"); err != nil {
		return nil, err
	}
	if err := validatePatterns(cfg.Ignore, "ignore"); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ignores := make([]string, 0, len(defaultIgnores)+len(cfg.Ignore))
	ignores = append(ignores, defaultIgnores...)
	ignores = append(ignores, cfg.Ignore...)

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		ignores:  ignores,
		stdout:   stdout,
		logger:   logger,
		debounce: debounce,
		wanted:   make(map[string]struct{}, len(cfg.Dirs)),
		watched:  make(map[string]struct{}),
	}

	for _, d := range cfg.Dirs {
		abs, absErr := filepath.Abs(d)
		if absErr != nil {
			fsw.Close() //nolint:errcheck // best-effort cleanup
			return nil, fmt.Errorf("watch: resolve directory %q: %w", d, absErr)
		}
		w.wanted[abs] = struct{}{}
	}

	for _, d := range slices.Sorted(maps.Keys(w.wanted)) {
		if addErr := w.watchNearest(d); addErr != nil {
			fsw.Close() //nolint:errcheck // best-effort cleanup
			return nil, addErr
		}
	}

	return w, nil
}

// Watched returns the sorted directories currently registered with fsnotify.
func (w *Watcher) Watched() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Sorted(maps.Keys(w.watched))
}

// Run blocks until ctx is cancelled, processing filesystem events and
// dispatching debounced callbacks. It returns nil on clean cancellation and
// propagates fatal watcher errors.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire drains the pending set and invokes OnChange. A callback still in
	// progress causes a retry after another debounce period instead of a
	// concurrent invocation.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.logger.Debug("previous run still in progress, retrying")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.ClearScreen {
			fmt.Fprint(w.stdout, "\033[2J\033[H")
		}

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Error("watch callback failed", "err", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if closeErr := w.fsw.Close(); closeErr != nil {
			w.logger.Warn("close fsnotify watcher", "err", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			if !w.relevant(evt) {
				continue
			}

			w.logger.Debug("do-file event", "path", evt.Name, "op", evt.Op.String())

			mu.Lock()
			pending[evt.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

// relevant reports whether evt should schedule a callback. Files count when
// they sit directly in a candidate directory and match the patterns. A
// directory on the way to a missing candidate directory counts when it is
// created, and is registered so deeper events are seen.
func (w *Watcher) relevant(evt fsnotify.Event) bool {
	if evt.Has(fsnotify.Create) && w.leadsToWanted(evt.Name) {
		if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
			if addErr := w.watchNearest(evt.Name); addErr != nil {
				w.logger.Warn("watch new directory", "path", evt.Name, "err", addErr)
			}
			w.rewatchMissing()
			return true
		}
	}

	w.mu.Lock()
	_, inWanted := w.wanted[filepath.Dir(evt.Name)]
	w.mu.Unlock()
	if !inWanted {
		return false
	}

	base := filepath.Base(evt.Name)
	return !w.isIgnored(base) && w.matchesPatterns(base)
}

// leadsToWanted reports whether dir is a candidate directory or an ancestor
// of one.
func (w *Watcher) leadsToWanted(dir string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for want := range w.wanted {
		if want == dir {
			return true
		}
		if rel, err := filepath.Rel(dir, want); err == nil && filepath.IsLocal(rel) {
			return true
		}
	}
	return false
}

// rewatchMissing registers candidate directories that now exist. A
// directory created together with its children (mkdir -p) may have missed
// the intermediate Create events.
func (w *Watcher) rewatchMissing() {
	w.mu.Lock()
	var missing []string
	for want := range w.wanted {
		if _, ok := w.watched[want]; !ok {
			missing = append(missing, want)
		}
	}
	w.mu.Unlock()

	for _, d := range missing {
		if err := w.watchNearest(d); err != nil {
			w.logger.Warn("watch candidate directory", "path", d, "err", err)
		}
	}
}

// watchNearest registers dir with fsnotify, or its closest existing
// ancestor when dir does not exist yet.
func (w *Watcher) watchNearest(dir string) error {
	target := dir
	for {
		info, err := os.Stat(target)
		if err == nil && info.IsDir() {
			break
		}
		parent := filepath.Dir(target)
		if parent == target {
			return fmt.Errorf("watch: no existing ancestor for %q", dir)
		}
		target = parent
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.watched[target]; ok {
		return nil
	}
	if err := w.fsw.Add(target); err != nil {
		return fmt.Errorf("watch: add directory %q: %w", target, err)
	}
	w.watched[target] = struct{}{}
	w.logger.Debug("watching directory", "path", target, "for", dir)
	return nil
}

func (w *Watcher) isIgnored(base string) bool {
	return matchAny(w.ignores, base)
}

// matchesPatterns returns true when no patterns are configured or base
// matches at least one of them.
func (w *Watcher) matchesPatterns(base string) bool {
	return len(w.cfg.Patterns) == 0 || matchAny(w.cfg.Patterns, base)
}

func matchAny(patterns []string, name string) bool {
	for _, pat := range patterns {
		if matched, err := doublestar.Match(pat, name); err == nil && matched {
			return true
		}
	}
	return false
}

// isFatalFsnotifyError reports whether err is one of the platform's
// fatalErrnos (see watcher_fatal_*.go).
func isFatalFsnotifyError(err error) bool {
	return slices.ContainsFunc(fatalErrnos, func(errno syscall.Errno) bool {
		return errors.Is(err, errno)
	})
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

// validatePatterns checks that every pattern in the slice is a valid doublestar
// glob. The label (e.g., "watch" or "ignore") is used in error messages.
func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if _, err := doublestar.Match(pat, ""); err != nil {
			return fmt.Errorf("watch: invalid %s pattern %q: %w", label, pat, err)
		}
	}
	return nil
}
