// SPDX-License-Identifier: MPL-2.0

package dofile_test

import (
	"slices"
	"testing"

	"redo-cli/pkg/dofile"
)

func TestDefaultChain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base string
		want []dofile.DefaultEntry
	}{
		{"e.ext", []dofile.DefaultEntry{
			{Name: "default.ext.do", Ext: ".ext"},
			{Name: "default.do", Ext: ""},
		}},
		{"a.tar.gz", []dofile.DefaultEntry{
			{Name: "default.tar.gz.do", Ext: ".tar.gz"},
			{Name: "default.gz.do", Ext: ".gz"},
			{Name: "default.do", Ext: ""},
		}},
		{"noext", []dofile.DefaultEntry{
			{Name: "default.do", Ext: ""},
		}},
		{".bashrc", []dofile.DefaultEntry{
			{Name: "default.bashrc.do", Ext: ".bashrc"},
			{Name: "default.do", Ext: ""},
		}},
		{"trailing.", []dofile.DefaultEntry{
			{Name: "default.do", Ext: ""},
		}},
		{"..", []dofile.DefaultEntry{
			{Name: "default...do", Ext: ".."},
			{Name: "default.do", Ext: ""},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			t.Parallel()
			got := dofile.DefaultChain(tt.base)
			if !slices.Equal(got, tt.want) {
				t.Errorf("DefaultChain(%q) = %+v, want %+v", tt.base, got, tt.want)
			}
		})
	}
}

func TestDefaultChain_UniqueNames(t *testing.T) {
	t.Parallel()

	for _, base := range []string{"a..b", "x.y.", "...", "a.b.c.d.e"} {
		seen := make(map[string]bool)
		for _, e := range dofile.DefaultChain(base) {
			if seen[e.Name] {
				t.Errorf("DefaultChain(%q) repeats %q", base, e.Name)
			}
			seen[e.Name] = true
		}
	}
}
