// SPDX-License-Identifier: MPL-2.0

package dofile

import (
	"fmt"
	"iter"
	"strings"
)

const (
	// OrderExtension searches each default-chain entry through every
	// ancestor level before moving on to the next, less specific entry.
	OrderExtension SearchOrder = "extension"
	// OrderDirectory searches every default-chain entry at one ancestor
	// level before climbing to the next, so closer directories win.
	OrderDirectory SearchOrder = "directory"

	// doDir is the name of the directory that may hold do-files on behalf
	// of the directories mirrored beneath it.
	doDir = "do"
)

type (
	// SearchOrder selects how default recipes are interleaved with
	// ancestor levels.
	SearchOrder string

	// Candidate is one possible do-file location for a target.
	Candidate struct {
		// Dir is the directory to look in. It may contain unresolved parent
		// markers and a do/ component.
		Dir string
		// Name is the do-file name within Dir.
		Name string
		// Ext is the extension a default recipe matched, or "" for an exact
		// recipe and for the bare default.do.
		Ext string
	}

	// Resolver enumerates do-file candidates. The zero value uses
	// PosixStyle and OrderExtension. A Resolver holds no state between
	// calls and is safe for concurrent use.
	Resolver struct {
		Style PathStyle
		Order SearchOrder
	}
)

// String returns the search order name.
func (o SearchOrder) String() string { return string(o) }

// Validate returns an error if the order is not recognized. The empty
// order is valid and means OrderExtension.
func (o SearchOrder) Validate() error {
	switch o {
	case "", OrderExtension, OrderDirectory:
		return nil
	default:
		return fmt.Errorf("unknown search order %q (expected %q or %q)", string(o), OrderExtension, OrderDirectory)
	}
}

// Base returns target with the extension the candidate matched removed.
// For "a.tar.gz" matched by default.gz.do this is "a.tar".
func (c Candidate) Base(target string) string {
	return strings.TrimSuffix(target, c.Ext)
}

// Resolve enumerates the candidates for target using PosixStyle and
// OrderExtension.
func Resolve(target, cwd string) (iter.Seq[Candidate], error) {
	var r Resolver
	return r.Resolve(target, cwd)
}

// Count returns the number of candidates Resolve yields for a target whose
// absolute directory has depth components and whose default chain has
// chainLen entries.
func Count(depth, chainLen int) int {
	perEntry := 0
	for up := range depth {
		perEntry += 1 + depth - up
	}
	return 1 + depth + chainLen*perEntry
}

// Resolve validates target and cwd and returns the ordered candidates for
// target. cwd is consulted only when target is relative. Earlier candidates
// take priority; the caller picks the first one that exists.
//
// The returned sequence is built on demand and may be ranged over any
// number of times, producing the same candidates each time.
func (r *Resolver) Resolve(target, cwd string) (iter.Seq[Candidate], error) {
	style := r.style()
	if err := style.Validate(); err != nil {
		return nil, err
	}
	if err := r.Order.Validate(); err != nil {
		return nil, err
	}
	if strings.ContainsRune(target, 0) {
		return nil, &InvalidPathError{Path: target, Reason: "contains NUL byte"}
	}

	dir, name := style.Split(target)
	if name == "" {
		return nil, &InvalidTargetError{Target: target}
	}

	if vol := style.VolumeName(dir); vol != "" && !style.IsAbs(dir) {
		return nil, &InvalidPathError{Path: target, Reason: "drive-relative target"}
	}
	if !style.IsAbs(dir) {
		switch {
		case cwd == "":
			return nil, &InvalidPathError{Path: target, Reason: "relative target without a working directory"}
		case strings.ContainsRune(cwd, 0):
			return nil, &InvalidPathError{Path: cwd, Reason: "working directory contains NUL byte"}
		case !style.IsAbs(cwd):
			return nil, &InvalidPathError{Path: cwd, Reason: "working directory is not absolute"}
		}
	}

	w := walk{
		style: style,
		dir:   dir,
		name:  name,
		parts: style.DirParts(dir, cwd),
		chain: DefaultChain(name),
	}
	if r.Order == OrderDirectory {
		return w.byDirectory, nil
	}
	return w.byExtension, nil
}

func (r *Resolver) style() PathStyle {
	if r.Style == (PathStyle{}) {
		return PosixStyle
	}
	return r.Style
}

// walk carries the per-target values shared by the generators.
type walk struct {
	style PathStyle
	dir   string
	name  string
	parts []string
	chain []DefaultEntry
}

func (w *walk) depth() int { return len(w.parts) }

// exact yields target.do next to the target, then inside the do/
// directory of every ancestor with the target's directory mirrored below.
func (w *walk) exact(yield func(Candidate) bool) bool {
	file := w.name + Suffix
	if !yield(Candidate{Dir: w.dir, Name: file}) {
		return false
	}
	depth := w.depth()
	for i := range depth {
		suffix := strings.Join(w.parts[depth-i:], w.style.Separator)
		base := w.style.Join(w.dir, w.style.AncestorPath(i))
		if !yield(Candidate{Dir: w.style.Join(base, doDir, suffix), Name: file}) {
			return false
		}
	}
	return true
}

// level yields entry in the directory up levels above the target, then in
// the do/ directories above that, narrowing as up grows.
func (w *walk) level(entry DefaultEntry, up int, yield func(Candidate) bool) bool {
	depth := w.depth()
	parentBase := w.style.Join(w.dir, w.style.AncestorPath(up))
	if !yield(Candidate{Dir: parentBase, Name: entry.Name, Ext: entry.Ext}) {
		return false
	}
	for i := range depth - up {
		suffix := strings.Join(w.parts[depth-i-up:depth-up], w.style.Separator)
		base := w.style.Join(parentBase, w.style.AncestorPath(i))
		if !yield(Candidate{Dir: w.style.Join(base, doDir, suffix), Name: entry.Name, Ext: entry.Ext}) {
			return false
		}
	}
	return true
}

func (w *walk) byExtension(yield func(Candidate) bool) {
	if !w.exact(yield) {
		return
	}
	for _, entry := range w.chain {
		for up := range w.depth() {
			if !w.level(entry, up, yield) {
				return
			}
		}
	}
}

func (w *walk) byDirectory(yield func(Candidate) bool) {
	if !w.exact(yield) {
		return
	}
	for up := range w.depth() {
		for _, entry := range w.chain {
			if !w.level(entry, up, yield) {
				return
			}
		}
	}
}
