// SPDX-License-Identifier: MPL-2.0

package dofile

import "strings"

const (
	// Suffix is the file-name suffix that marks a do-file.
	Suffix = ".do"
	// DefaultStem is the stem of a default (extension-matching) do-file.
	DefaultStem = "default"
	// extSeparator splits a file name into its extension parts.
	extSeparator = "."
)

// DefaultEntry is one rung of a target's default-recipe chain.
type DefaultEntry struct {
	// Name is the do-file name, e.g. "default.tar.gz.do".
	Name string
	// Ext is the part of the target name the recipe is responsible for,
	// e.g. ".tar.gz". It is "" for the bare default.do.
	Ext string
}

// DefaultChain returns the default do-files that may build a target named
// base, most specific first:
//
//	DefaultChain("a.tar.gz") = default.tar.gz.do, default.gz.do, default.do
//
// The chain always ends with the bare default.do and never repeats a name.
func DefaultChain(base string) []DefaultEntry {
	parts := strings.Split(base, extSeparator)
	chain := make([]DefaultEntry, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))

	for i := 1; i <= len(parts); i++ {
		ext := strings.Join(parts[i:], extSeparator)
		if ext != "" {
			ext = extSeparator + ext
		}
		// Unique file names win over one entry per dot part ("a." -> default.do once).
		if _, dup := seen[ext]; dup {
			continue
		}
		seen[ext] = struct{}{}
		chain = append(chain, DefaultEntry{Name: DefaultStem + ext + Suffix, Ext: ext})
	}
	return chain
}
