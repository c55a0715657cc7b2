package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLines_Offsets(t *testing.T) {
	src := []byte("a\r\nbb\n\nccc")
	lines := SplitLines(src)
	require.Len(t, lines, 4)

	assert.Equal(t, Line{Number: 1, Start: 0, End: 3, Text: "a"}, lines[0])
	assert.Equal(t, Line{Number: 2, Start: 3, End: 6, Text: "bb"}, lines[1])
	assert.True(t, lines[2].Blank())
	assert.Equal(t, "ccc", lines[3].Text)
	assert.Equal(t, len(src), lines[3].End)
}

func TestSplitLines_Empty(t *testing.T) {
	assert.Empty(t, SplitLines(nil))
}

func TestFenceTracker(t *testing.T) {
	var f FenceTracker
	inputs := []struct {
		text   string
		inside bool
	}{
		{"text", false},
		{"```ts", true},
		{"---", true},
		{"```", true},
		{"after", false},
		{"~~~~", true},
		{"~~~", true},
		{"~~~~~", true},
		{"``` not a fence `", false},
	}
	for _, in := range inputs {
		assert.Equal(t, in.inside, f.Feed(in.text), in.text)
	}
	assert.False(t, f.Inside())
}

func TestIsThematicBreak(t *testing.T) {
	for _, ok := range []string{"---", "----", "- - -", "  ---  ", "---\t"} {
		assert.True(t, IsThematicBreak(ok), ok)
	}
	for _, notOK := range []string{"--", "***", "    ---", "--- x", "text"} {
		assert.False(t, IsThematicBreak(notOK), notOK)
	}
}

func TestATXHeading(t *testing.T) {
	tests := []struct {
		in      string
		level   int
		content string
		ok      bool
	}{
		{"## TL;DR", 2, "TL;DR", true},
		{"### Title ###", 3, "Title", true},
		{"# C#", 1, "C#", true},
		{"##", 2, "", true},
		{"#hashtag", 0, "", false},
		{"####### seven", 0, "", false},
		{"plain", 0, "", false},
	}
	for _, tt := range tests {
		level, content, ok := ATXHeading(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.level, level, tt.in)
		assert.Equal(t, tt.content, content, tt.in)
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"What is Angular?", "What is Angular?"},
		{"What is `ngOnInit` used for?", "What is ngOnInit used for?"},
		{"Explain **two-way** _binding_", "Explain two-way binding"},
		{"See [the docs](https://angular.dev)", "See the docs"},
		{"1. Numbered title", "1. Numbered title"},
		{"> quoted", "> quoted"},
		{"Use <b>bold</b> tags", "Use bold tags"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PlainText(tt.in), tt.in)
	}
}
