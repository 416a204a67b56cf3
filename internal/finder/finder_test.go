// SPDX-License-Identifier: MPL-2.0

package finder

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"

	"redo-cli/pkg/dofile"

	"github.com/spf13/afero"
)

func newTestFinder(t *testing.T, cwd string, files ...string) (*Finder, afero.Fs) {
	t.Helper()

	fsys := afero.NewMemMapFs()
	for _, f := range files {
		if err := afero.WriteFile(fsys, f, []byte("exec true\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", f, err)
		}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cwd, WithFs(fsys), WithLogger(logger)), fsys
}

func TestFind_Precedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		files    []string
		target   string
		wantPath string
		wantExt  string
		wantBase string
	}{
		{
			name:     "exact beats default",
			files:    []string{"/p/src/app.tar.gz.do", "/p/src/default.tar.gz.do"},
			target:   "/p/src/app.tar.gz",
			wantPath: "/p/src/app.tar.gz.do",
			wantBase: "app.tar.gz",
		},
		{
			name:     "exact in do dir beats default next to target",
			files:    []string{"/p/do/src/app.o.do", "/p/src/default.o.do"},
			target:   "/p/src/app.o",
			wantPath: "/p/src/../do/src/app.o.do",
			wantBase: "app.o",
		},
		{
			name:     "longer extension wins",
			files:    []string{"/p/src/default.gz.do", "/p/src/default.tar.gz.do"},
			target:   "/p/src/app.tar.gz",
			wantPath: "/p/src/default.tar.gz.do",
			wantExt:  ".tar.gz",
			wantBase: "app",
		},
		{
			name:     "specific extension in parent beats bare default here",
			files:    []string{"/p/default.gz.do", "/p/src/default.do"},
			target:   "/p/src/app.tar.gz",
			wantPath: "/p/src/../default.gz.do",
			wantExt:  ".gz",
			wantBase: "app.tar",
		},
		{
			name:     "bare default in ancestor",
			files:    []string{"/default.do"},
			target:   "/p/src/app",
			wantPath: "/p/src/../../default.do",
			wantBase: "app",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f, _ := newTestFinder(t, "/", tt.files...)
			m, err := f.Find(context.Background(), tt.target)
			if err != nil {
				t.Fatalf("Find(%q) error = %v", tt.target, err)
			}
			if m.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", m.Path, tt.wantPath)
			}
			if m.Candidate.Ext != tt.wantExt {
				t.Errorf("Ext = %q, want %q", m.Candidate.Ext, tt.wantExt)
			}
			if m.Base != tt.wantBase {
				t.Errorf("Base = %q, want %q", m.Base, tt.wantBase)
			}
		})
	}
}

func TestFind_DirectoryOrder(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	for _, p := range []string{"/p/default.gz.do", "/p/src/default.do"} {
		if err := afero.WriteFile(fsys, p, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	f := New("/", WithFs(fsys), WithResolver(&dofile.Resolver{Order: dofile.OrderDirectory}))

	m, err := f.Find(context.Background(), "/p/src/app.tar.gz")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if m.Path != "/p/src/default.do" {
		t.Errorf("Path = %q, want nearer /p/src/default.do", m.Path)
	}
}

func TestFind_RelativeTargetAnchoredAtCwd(t *testing.T) {
	t.Parallel()

	f, _ := newTestFinder(t, "/work", "/work/x/do/y/f.do")
	m, err := f.Find(context.Background(), "x/y/f")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if m.Path != "x/y/../do/y/f.do" {
		t.Errorf("Path = %q, want %q", m.Path, "x/y/../do/y/f.do")
	}
	wantTried := []string{"x/y/f.do", "x/y/do/f.do"}
	if !slices.Equal(m.Tried, wantTried) {
		t.Errorf("Tried = %v, want %v", m.Tried, wantTried)
	}
}

func TestFind_SkipsDirectories(t *testing.T) {
	t.Parallel()

	f, fsys := newTestFinder(t, "/", "/p/default.do")
	if err := fsys.MkdirAll("/p/app.do", 0o755); err != nil {
		t.Fatal(err)
	}

	m, err := f.Find(context.Background(), "/p/app")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if m.Path != "/p/default.do" {
		t.Errorf("Path = %q, want /p/default.do", m.Path)
	}
}

func TestFind_NoDoFile(t *testing.T) {
	t.Parallel()

	f, _ := newTestFinder(t, "/")
	_, err := f.Find(context.Background(), "/a/b.c")
	if !errors.Is(err, ErrNoDoFile) {
		t.Fatalf("Find() error = %v, want ErrNoDoFile", err)
	}
	var noErr *NoDoFileError
	if !errors.As(err, &noErr) {
		t.Fatalf("error should be *NoDoFileError, got %T", err)
	}
	// /a has parts ["", "a"]: depth 2, chain of 2.
	if want := dofile.Count(2, 2); len(noErr.Tried) != want {
		t.Errorf("len(Tried) = %d, want %d", len(noErr.Tried), want)
	}
	if noErr.Tried[0] != "/a/b.c.do" {
		t.Errorf("Tried[0] = %q, want /a/b.c.do", noErr.Tried[0])
	}
}

func TestFind_InvalidTarget(t *testing.T) {
	t.Parallel()

	f, _ := newTestFinder(t, "/")
	if _, err := f.Find(context.Background(), "out/"); !errors.Is(err, dofile.ErrInvalidTarget) {
		t.Errorf("Find(out/) error = %v, want ErrInvalidTarget", err)
	}
}

func TestFind_Cancelled(t *testing.T) {
	t.Parallel()

	f, _ := newTestFinder(t, "/", "/default.do")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := f.Find(ctx, "/a/b"); !errors.Is(err, context.Canceled) {
		t.Errorf("Find() error = %v, want context.Canceled", err)
	}
}

func TestDirs(t *testing.T) {
	t.Parallel()

	f, _ := newTestFinder(t, "/")
	dirs, err := f.Dirs("/a/f")
	if err != nil {
		t.Fatalf("Dirs() error = %v", err)
	}
	want := []string{"/a", "/a/do", "/a/../do/a", "/a/..", "/a/../do"}
	if !slices.Equal(dirs, want) {
		t.Errorf("Dirs() = %v, want %v", dirs, want)
	}
}
