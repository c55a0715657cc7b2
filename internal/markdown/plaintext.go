package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var inlineParser = goldmark.New().Parser()

// PlainText returns the visible text of an inline Markdown fragment.
//
// Emphasis markers, code span backticks, link destinations and raw HTML are
// dropped; code span contents and link labels are kept. The input is parsed
// as the content of an ATX heading so leading "1." or ">" stay literal text.
func PlainText(inline string) string {
	inline = strings.Join(strings.Fields(inline), " ")
	if inline == "" {
		return ""
	}
	src := []byte("# " + inline)
	root := inlineParser.Parse(text.NewReader(src))

	var b strings.Builder
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Text:
			b.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.String:
			b.Write(node.Value)
		case *gmast.AutoLink:
			b.Write(node.Label(src))
			return gmast.WalkSkipChildren, nil
		case *gmast.RawHTML:
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return b.String()
}
