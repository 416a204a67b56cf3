// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

const (
	NoDoFileFoundId Id = iota + 1
	InvalidTargetId
	ConfigLoadFailedId
)

type (
	// Id identifies an entry in the issue catalog.
	Id int

	// MarkdownMsg is the Markdown body of an issue page.
	MarkdownMsg string

	// HttpLink is a documentation URL attached to an issue.
	HttpLink string

	// Issue is a help page shown when a well-known failure occurs.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

// Id returns the catalog identifier.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the raw Markdown body.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Title returns the text of the page's first top-level heading.
func (i *Issue) Title() string {
	for line := range strings.Lines(string(i.mdMsg)) {
		if title, ok := strings.CutPrefix(strings.TrimSpace(line), "# "); ok {
			return title
		}
	}
	return ""
}

// DocLinks returns a copy of the documentation links.
func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render renders the page for the terminal using the named glamour style
// ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	noDoFileFoundIssue = &Issue{
		id: NoDoFileFoundId,
		mdMsg: `
# No do-file found for this target

redo looked for a build recipe in every place one may live and found none.

## Search order
1. ` + "`target.do`" + ` next to the target
2. ` + "`do/.../target.do`" + ` in a do/ directory at each parent level
3. ` + "`default.<ext>.do`" + ` from the longest extension down to ` + "`default.do`" + `,
   next to the target, in parent directories, and in do/ directories

## Things you can try
- List every location redo checks:
~~~
$ redo candidates path/to/target
~~~
- Create the most specific recipe, e.g. ` + "`path/to/target.do`" + `
- Put a shared ` + "`default.<ext>.do`" + ` in a parent directory`,
		docLinks: []HttpLink{"https://redo.readthedocs.io/en/latest/"},
	}

	invalidTargetIssue = &Issue{
		id: InvalidTargetId,
		mdMsg: `
# Invalid build target

A target must name a file. Paths ending in a separator name a directory and
cannot be built.

## Things you can try
- Drop the trailing slash: ` + "`redo out/app`" + ` instead of ` + "`redo out/app/`",
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

The configuration file could not be read or does not match the schema.

## Things you can try
- Show where redo looks for its configuration:
~~~
$ redo config path
~~~
- Recreate a default configuration:
~~~
$ redo config init
~~~`,
	}

	issues = map[Id]*Issue{
		noDoFileFoundIssue.Id():    noDoFileFoundIssue,
		invalidTargetIssue.Id():    invalidTargetIssue,
		configLoadFailedIssue.Id(): configLoadFailedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
