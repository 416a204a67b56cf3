// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestValues_OrderedAndComplete(t *testing.T) {
	t.Parallel()

	values := Values()
	want := []Id{NoDoFileFoundId, InvalidTargetId, ConfigLoadFailedId}
	if len(values) != len(want) {
		t.Fatalf("len(Values()) = %d, want %d", len(values), len(want))
	}
	for i, id := range want {
		if values[i].Id() != id {
			t.Errorf("Values()[%d].Id() = %d, want %d", i, values[i].Id(), id)
		}
		if strings.TrimSpace(string(values[i].MarkdownMsg())) == "" {
			t.Errorf("issue %d has an empty message", id)
		}
	}
}

func TestGet_Unknown(t *testing.T) {
	t.Parallel()

	if Get(Id(999)) != nil {
		t.Error("Get(999) should return nil")
	}
}

func TestIssue_DocLinksCopy(t *testing.T) {
	t.Parallel()

	links := Get(NoDoFileFoundId).DocLinks()
	if len(links) == 0 {
		t.Fatal("NoDoFileFound should carry documentation links")
	}
	links[0] = "mutated"
	if Get(NoDoFileFoundId).DocLinks()[0] == "mutated" {
		t.Error("DocLinks() should return a copy")
	}
}

func TestIssue_Render(t *testing.T) {
	t.Parallel()

	out, err := Get(NoDoFileFoundId).Render("notty")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "No do-file found") {
		t.Errorf("Render() output missing title:\n%s", out)
	}
	if !strings.Contains(out, "redo.readthedocs.io") {
		t.Errorf("Render() output missing doc link:\n%s", out)
	}
}

func TestIssue_Title(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   Id
		want string
	}{
		{NoDoFileFoundId, "No do-file found for this target"},
		{InvalidTargetId, "Invalid build target"},
		{ConfigLoadFailedId, "Failed to load configuration"},
	}
	for _, tt := range tests {
		if got := Get(tt.id).Title(); got != tt.want {
			t.Errorf("Get(%d).Title() = %q, want %q", tt.id, got, tt.want)
		}
	}

	if got := (&Issue{mdMsg: "no heading here"}).Title(); got != "" {
		t.Errorf("Title() without heading = %q, want empty", got)
	}
}
