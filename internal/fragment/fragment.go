// Package fragment parses FAQ fragment files: strict frontmatter plus the
// summary excerpt that is embedded verbatim into the index document.
package fragment

import (
	"bytes"
	"fmt"
	"strings"

	ferrors "git.home.luguber.info/inful/faqindex/internal/foundation/errors"
	"git.home.luguber.info/inful/faqindex/internal/frontmatter"
	"git.home.luguber.info/inful/faqindex/internal/markdown"
)

// DefaultSummaryHeading is the heading text that opens a fragment's summary.
const DefaultSummaryHeading = "TL;DR"

// Options controls excerpt extraction.
type Options struct {
	// SummaryHeading is matched case-insensitively against ATX heading text.
	SummaryHeading string
}

// Fragment is one parsed fragment file.
type Fragment struct {
	Path    string
	Title   string
	Excerpt string
	// ExcerptStart and ExcerptEnd locate Excerpt in the raw file bytes.
	ExcerptStart int
	ExcerptEnd   int
	// ExcerptLine is the 1-based line of the excerpt's first line.
	ExcerptLine int
	// TitleLine is the 1-based line of the title key.
	TitleLine int
	// Detail is everything after the summary's closing thematic break.
	Detail string
}

// Parse extracts the title and summary excerpt from raw fragment bytes.
//
// The excerpt is the text between the summary heading line and the next
// thematic break outside a fenced code block, without the surrounding blank
// lines. It is returned exactly as it appears in raw; nothing is re-rendered.
func Parse(path string, raw []byte, opts Options) (*Fragment, error) {
	heading := opts.SummaryHeading
	if heading == "" {
		heading = DefaultSummaryHeading
	}

	fm, body, had, _, err := frontmatter.Split(raw)
	if err != nil {
		return nil, ferrors.MalformedFragment(path, "unterminated frontmatter").WithLine(1).WithCause(err).Build()
	}
	if !had {
		return nil, ferrors.MalformedFragment(path, "missing frontmatter").WithLine(1).Build()
	}
	fields, err := frontmatter.ParseYAML(fm)
	if err != nil {
		return nil, ferrors.MalformedFragment(path, "invalid frontmatter yaml").WithLine(2).WithCause(err).Build()
	}
	// Frontmatter content starts on line 2, after the opening delimiter.
	titleLine := 2
	if l, ok := frontmatter.KeyLine(fm, "title"); ok {
		titleLine = l + 1
	}
	title, err := frontmatter.RequireString(fields, "title")
	if err != nil {
		return nil, ferrors.MalformedFragment(path, err.Error()).WithLine(titleLine).Build()
	}
	if strings.ContainsAny(title, "\r\n") {
		return nil, ferrors.MalformedFragment(path, "title must be a single line").WithLine(titleLine).Build()
	}

	bodyOffset := len(raw) - len(body)
	lineOffset := bytes.Count(raw[:bodyOffset], []byte("\n"))
	lines := markdown.SplitLines(body)

	headingIdx, breakIdx := -1, -1
	var fence markdown.FenceTracker
	for i, l := range lines {
		if fence.Feed(l.Text) {
			continue
		}
		if headingIdx < 0 {
			if _, text, ok := markdown.ATXHeading(l.Text); ok && strings.EqualFold(text, heading) {
				headingIdx = i
			}
			continue
		}
		if markdown.IsThematicBreak(l.Text) {
			breakIdx = i
			break
		}
	}

	if headingIdx < 0 {
		return nil, ferrors.MalformedFragment(path, fmt.Sprintf("no %q summary heading", heading)).Build()
	}
	if breakIdx < 0 {
		return nil, ferrors.MalformedFragment(path, "summary section has no terminating thematic break").
			WithLine(lineOffset + lines[headingIdx].Number).
			Build()
	}

	first, last := headingIdx+1, breakIdx-1
	for first <= last && lines[first].Blank() {
		first++
	}
	for last >= first && lines[last].Blank() {
		last--
	}
	if first > last {
		return nil, ferrors.MalformedFragment(path, "summary section is empty").
			WithLine(lineOffset + lines[headingIdx].Number).
			Build()
	}

	start := bodyOffset + lines[first].Start
	end := bodyOffset + lines[last].End
	return &Fragment{
		Path:         path,
		Title:        title,
		TitleLine:    titleLine,
		Excerpt:      string(raw[start:end]),
		ExcerptStart: start,
		ExcerptEnd:   end,
		ExcerptLine:  lineOffset + lines[first].Number,
		Detail:       string(raw[bodyOffset+lines[breakIdx].End:]),
	}, nil
}
