package fragment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/faqindex/internal/foundation/errors"
)

const angular = "---\n" +
	"title: What is Angular and how is it different from AngularJS?\n" +
	"---\n" +
	"\n" +
	"## TL;DR\n" +
	"\n" +
	"Angular is a **TypeScript** framework.\n" +
	"\n" +
	"```ts\n" +
	"---\n" +
	"@Component({ selector: 'app' })\n" +
	"```\n" +
	"\n" +
	"- `ngOnInit`\n" +
	"  - nested\n" +
	"\n" +
	"---\n" +
	"\n" +
	"## Detailed answer\n"

func TestParse_ExtractsExcerptVerbatim(t *testing.T) {
	raw := []byte(angular)
	f, err := Parse("questions/what-is-angular/en-US.mdx", raw, Options{})
	require.NoError(t, err)

	assert.Equal(t, "What is Angular and how is it different from AngularJS?", f.Title)
	assert.Equal(t, "Angular is a **TypeScript** framework.\n"+
		"\n"+
		"```ts\n"+
		"---\n"+
		"@Component({ selector: 'app' })\n"+
		"```\n"+
		"\n"+
		"- `ngOnInit`\n"+
		"  - nested\n", f.Excerpt)
	assert.Equal(t, f.Excerpt, string(raw[f.ExcerptStart:f.ExcerptEnd]))
	assert.Equal(t, 7, f.ExcerptLine)
	assert.Equal(t, "\n## Detailed answer\n", f.Detail)
}

func TestParse_CRLFPreserved(t *testing.T) {
	raw := []byte("---\r\ntitle: Foo\r\n---\r\n## TL;DR\r\nLine one\r\nLine two\r\n---\r\nrest\r\n")
	f, err := Parse("f.mdx", raw, Options{})
	require.NoError(t, err)
	assert.Equal(t, "Line one\r\nLine two\r\n", f.Excerpt)
}

func TestParse_CustomHeadingCaseInsensitive(t *testing.T) {
	raw := []byte("---\ntitle: Foo\n---\n# summary\nBody\n- - -\n")
	f, err := Parse("f.mdx", raw, Options{SummaryHeading: "Summary"})
	require.NoError(t, err)
	assert.Equal(t, "Body\n", f.Excerpt)
}

func TestParse_HeadingInsideFenceIgnored(t *testing.T) {
	raw := []byte("---\ntitle: Foo\n---\n```\n## TL;DR\n```\n")
	_, err := Parse("f.mdx", raw, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "summary heading")
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		reason string
		line   int
	}{
		{"no frontmatter", "## TL;DR\nx\n---\n", "missing frontmatter", 1},
		{"unterminated frontmatter", "---\ntitle: x\n## TL;DR\n", "unterminated frontmatter", 1},
		{"bad yaml", "---\ntitle: [\n---\n", "invalid frontmatter yaml", 2},
		{"missing title", "---\nauthor: me\n---\n## TL;DR\nx\n---\n", `required field "title" is missing`, 2},
		{"non-string title", "---\ntitle: 42\n---\n## TL;DR\nx\n---\n", `field "title" must be a string, got int`, 2},
		{"multi-line title", "---\ntitle: \"Line one\\nline two\"\n---\n## TL;DR\nx\n---\n", "title must be a single line", 2},
		{"block scalar title", "---\nauthor: me\ntitle: |\n  Line one\n  line two\n---\n## TL;DR\nx\n---\n", "title must be a single line", 3},
		{"carriage return title", "---\ntitle: \"Line one\\rline two\"\n---\n## TL;DR\nx\n---\n", "title must be a single line", 2},
		{"no heading", "---\ntitle: x\n---\n## Other\nx\n---\n", `no "TL;DR" summary heading`, 0},
		{"no break", "---\ntitle: x\n---\n\n## TL;DR\nx\n", "summary section has no terminating thematic break", 5},
		{"break inside unterminated fence", "---\ntitle: x\n---\n## TL;DR\n```\n---\n", "summary section has no terminating thematic break", 4},
		{"empty summary", "---\ntitle: x\n---\n## TL;DR\n\n\n---\n", "summary section is empty", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("questions/x/en-US.mdx", []byte(tt.raw), Options{})
			require.Error(t, err)

			classified, ok := ferrors.AsClassified(err)
			require.True(t, ok)
			assert.Equal(t, ferrors.CategoryFragment, classified.Category())
			reason, _ := classified.Context().GetString(ferrors.ContextReason)
			assert.Equal(t, tt.reason, reason)
			path, _ := classified.Context().GetString(ferrors.ContextPath)
			assert.Equal(t, "questions/x/en-US.mdx", path)
			line, _ := classified.Context().GetInt(ferrors.ContextLine)
			assert.Equal(t, tt.line, line)
		})
	}
}

func TestParse_TitleLineFollowsKeyPosition(t *testing.T) {
	raw := []byte("---\nauthor: me\ntags:\n  - a\ntitle: Foo\n---\n## TL;DR\nx\n---\n")
	f, err := Parse("f.mdx", raw, Options{})
	require.NoError(t, err)
	assert.Equal(t, 5, f.TitleLine)
}
