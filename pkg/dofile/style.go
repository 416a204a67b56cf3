// SPDX-License-Identifier: MPL-2.0

package dofile

import (
	"os"
	"strings"
)

var (
	// PosixStyle is the slash-separated convention used by the default Resolver.
	PosixStyle = PathStyle{Separator: "/", Parent: "..", Current: "."}
	// WindowsStyle is the backslash convention with drive-letter and UNC
	// volumes, e.g. C:\work or \\server\share\work.
	WindowsStyle = PathStyle{Separator: `\`, Parent: "..", Current: ".", Volumes: true}
)

type (
	// PathStyle holds the filesystem conventions the resolver builds paths
	// with. Paths are assembled textually and never cleaned, so parent
	// markers in the output stay literal for the filesystem to interpret.
	PathStyle struct {
		// Separator joins path components (e.g. "/").
		Separator string
		// Parent is the parent-directory marker (e.g. "..").
		Parent string
		// Current is the current-directory marker (e.g. ".").
		Current string
		// Volumes enables drive-letter ("C:") and UNC ("\\host\share")
		// prefixes ahead of the root separator.
		Volumes bool
	}
)

// HostStyle returns the style matching the running platform's separator.
func HostStyle() PathStyle {
	if os.PathSeparator == '\\' {
		return WindowsStyle
	}
	return PosixStyle
}

// Validate reports whether the style can be used to build paths.
func (s PathStyle) Validate() error {
	switch {
	case s.Separator == "":
		return &InvalidPathError{Path: s.Separator, Reason: "empty path separator"}
	case s.Parent == "" || strings.Contains(s.Parent, s.Separator):
		return &InvalidPathError{Path: s.Parent, Reason: "parent marker must be a single path component"}
	case s.Current == "" || strings.Contains(s.Current, s.Separator):
		return &InvalidPathError{Path: s.Current, Reason: "current marker must be a single path component"}
	}
	return nil
}

// VolumeName returns the leading volume of p: a drive letter such as "C:"
// or a UNC prefix such as `\\host\share`. It returns "" unless Volumes is
// set.
func (s PathStyle) VolumeName(p string) string {
	if !s.Volumes {
		return ""
	}
	if len(p) >= 2 && p[1] == ':' && isDriveLetter(p[0]) {
		return p[:2]
	}

	unc := s.Separator + s.Separator
	if !strings.HasPrefix(p, unc) {
		return ""
	}
	rest := p[len(unc):]
	host, share, ok := strings.Cut(rest, s.Separator)
	if !ok || host == "" || share == "" || strings.HasPrefix(share, s.Separator) {
		return ""
	}
	if i := strings.Index(share, s.Separator); i >= 0 {
		share = share[:i]
	}
	return unc + host + s.Separator + share
}

func isDriveLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// IsAbs reports whether p starts at the filesystem root, after any volume.
// UNC paths are always absolute; "C:x" is relative to the drive's current
// directory and is not.
func (s PathStyle) IsAbs(p string) bool {
	vol := s.VolumeName(p)
	if len(vol) > 2 {
		return true
	}
	return strings.HasPrefix(p[len(vol):], s.Separator)
}

// AncestorPath returns the relative fragment that climbs n directories,
// e.g. "../.." for n = 2. It returns "" for n <= 0.
func (s PathStyle) AncestorPath(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(s.Parent+s.Separator, n-1) + s.Parent
}

// Join concatenates the non-empty elements with the separator. Unlike
// filepath.Join it does not clean the result.
func (s PathStyle) Join(elem ...string) string {
	var b strings.Builder
	for _, e := range elem {
		if e == "" {
			continue
		}
		if b.Len() > 0 && !strings.HasSuffix(b.String(), s.Separator) {
			b.WriteString(s.Separator)
		}
		b.WriteString(e)
	}
	return b.String()
}

// Split separates p into its directory and final component. Trailing
// separators are trimmed from the directory unless it is the root.
func (s PathStyle) Split(p string) (dir, file string) {
	vol := s.VolumeName(p)
	i := strings.LastIndex(p[len(vol):], s.Separator)
	if i < 0 {
		return vol, p[len(vol):]
	}
	i += len(vol)
	dir, file = p[:i+len(s.Separator)], p[i+len(s.Separator):]
	if trimmed := strings.TrimRight(dir, s.Separator); len(trimmed) > len(vol) {
		dir = trimmed
	}
	return dir, file
}

// Normalize lexically resolves p against cwd into an absolute, clean path.
// Current markers and empty components are dropped and parent markers
// consume the preceding component; a parent marker at the root stays at
// the root. A volume prefix is kept as is. Repeated leading separators
// collapse to one, so "//a" is "/a".
func (s PathStyle) Normalize(p, cwd string) string {
	vol, stack := s.clean(p, cwd)
	return vol + s.Separator + strings.Join(stack, s.Separator)
}

// DirParts splits the normalized absolute form of dir into components. The
// root contributes a leading component holding the volume, empty without
// one, so "/a/b" yields ["", "a", "b"], "/" yields ["", ""] and `C:\a`
// yields ["C:", "a"].
func (s PathStyle) DirParts(dir, cwd string) []string {
	vol, stack := s.clean(dir, cwd)
	if len(stack) == 0 {
		return []string{vol, ""}
	}
	return append([]string{vol}, stack...)
}

// clean resolves p against cwd and returns its volume and the components
// below the root.
func (s PathStyle) clean(p, cwd string) (vol string, stack []string) {
	if !s.IsAbs(p) {
		p = s.Join(cwd, p)
	}
	vol = s.VolumeName(p)

	for _, part := range strings.Split(p[len(vol):], s.Separator) {
		switch part {
		case "", s.Current:
		case s.Parent:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, part)
		}
	}
	return vol, stack
}
