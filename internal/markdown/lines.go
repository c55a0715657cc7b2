package markdown

import (
	"bytes"
	"regexp"
	"strings"
)

// Line is one line of a document addressed by byte offsets.
//
// Start is the offset of the first byte; End is the offset just past the line
// terminator (or len(source) on an unterminated last line). Text excludes the
// terminator, including a trailing '\r'.
type Line struct {
	Number int
	Start  int
	End    int
	Text   string
}

// Blank reports whether the line holds only whitespace.
func (l Line) Blank() bool {
	return strings.TrimSpace(l.Text) == ""
}

// SplitLines splits source into lines without copying semantics away from offsets.
func SplitLines(source []byte) []Line {
	lines := make([]Line, 0, bytes.Count(source, []byte("\n"))+1)
	start := 0
	for start < len(source) {
		end := len(source)
		if i := bytes.IndexByte(source[start:], '\n'); i >= 0 {
			end = start + i + 1
		}
		text := strings.TrimSuffix(strings.TrimSuffix(string(source[start:end]), "\n"), "\r")
		lines = append(lines, Line{Number: len(lines) + 1, Start: start, End: end, Text: text})
		start = end
	}
	return lines
}

var (
	fenceOpen     = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})")
	thematicBreak = regexp.MustCompile(`^ {0,3}-[ \t]*-[ \t]*-[ \t-]*$`)
	atxHeading    = regexp.MustCompile(`^ {0,3}(#{1,6})(?:[ \t]+(.*?))?(?:[ \t]+#+)?[ \t]*$`)
)

// FenceTracker follows fenced code block state across consecutive lines.
type FenceTracker struct {
	marker string
}

// Inside reports whether the tracker is currently within a fenced block.
func (f *FenceTracker) Inside() bool {
	return f.marker != ""
}

// Feed consumes one line and reports whether it belongs to a fenced block,
// including the opening and closing fence lines themselves.
func (f *FenceTracker) Feed(text string) bool {
	if f.marker == "" {
		m := fenceOpen.FindStringSubmatch(text)
		if m == nil {
			return false
		}
		// Backtick fences cannot carry backticks in their info string.
		if m[1][0] == '`' && strings.Contains(text[len(m[0]):], "`") {
			return false
		}
		f.marker = m[1]
		return true
	}
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, f.marker) && strings.Trim(trimmed, f.marker[:1]) == "" && len(text)-len(strings.TrimLeft(text, " ")) <= 3 {
		f.marker = ""
	}
	return true
}

// IsThematicBreak reports whether text is a `---` style thematic break line.
func IsThematicBreak(text string) bool {
	return thematicBreak.MatchString(text)
}

// ATXHeading parses an ATX heading line, returning its level and inline text.
func ATXHeading(text string) (level int, content string, ok bool) {
	m := atxHeading.FindStringSubmatch(text)
	if m == nil {
		return 0, "", false
	}
	return len(m[1]), strings.TrimSpace(m[2]), true
}
