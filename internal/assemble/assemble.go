// Package assemble renders the table of contents and questions bodies that
// fill the index document's marker regions.
package assemble

import (
	"bytes"
	"strconv"
	"strings"
	"text/template"

	ferrors "git.home.luguber.info/inful/faqindex/internal/foundation/errors"
	"git.home.luguber.info/inful/faqindex/internal/markers"
)

// Default rendering settings.
const (
	DefaultTOCAnchor = "table-of-contents"
	DefaultPromo     = "> Read the detailed answer in [{{.Label}}](/{{.SourcePath}})."
)

// DefaultTOCHeader is the table header emitted above the TOC rows.
var DefaultTOCHeader = []string{"| No. | Questions |", "| --- | :-- |"}

// Entry is one resolved, numbered FAQ entry.
type Entry struct {
	Order      int
	Title      string
	Slug       string
	SourcePath string
	Excerpt    string
}

// Options controls rendering. Zero values fall back to the defaults.
type Options struct {
	Newline   string
	TOCHeader []string
	TOCAnchor string
	Promo     string
}

// Assembler renders region bodies. It holds no per-run state.
type Assembler struct {
	nl        string
	tocHeader []string
	tocAnchor string
	promo     *template.Template
}

// New validates opts and compiles the promo template.
func New(opts Options) (*Assembler, error) {
	a := &Assembler{
		nl:        opts.Newline,
		tocHeader: opts.TOCHeader,
		tocAnchor: opts.TOCAnchor,
	}
	if a.nl == "" {
		a.nl = "\n"
	}
	if len(a.tocHeader) == 0 {
		a.tocHeader = DefaultTOCHeader
	}
	if a.tocAnchor == "" {
		a.tocAnchor = DefaultTOCAnchor
	}
	promo := opts.Promo
	if promo == "" {
		promo = DefaultPromo
	}
	tmpl, err := template.New("promo").Option("missingkey=error").Parse(promo)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid promo template").Build()
	}
	a.promo = tmpl
	return a, nil
}

// TOCAnchor returns the anchor that "Back to top" links point at.
func (a *Assembler) TOCAnchor() string { return a.tocAnchor }

// TOC renders the table of contents body.
func (a *Assembler) TOC(entries []Entry) []byte {
	var b bytes.Buffer
	b.WriteString(a.nl)
	for _, h := range a.tocHeader {
		b.WriteString(h)
		b.WriteString(a.nl)
	}
	for _, e := range entries {
		b.WriteString("| ")
		b.WriteString(strconv.Itoa(e.Order))
		b.WriteString(" | [")
		b.WriteString(escapeCell(escapeLabel(e.Title)))
		b.WriteString("](#")
		b.WriteString(e.Slug)
		b.WriteString(") |")
		b.WriteString(a.nl)
	}
	b.WriteString(a.nl)
	return b.Bytes()
}

// Questions renders the questions body with each excerpt embedded verbatim.
func (a *Assembler) Questions(entries []Entry) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(a.nl)
	for _, e := range entries {
		comment := markers.UpdateHereComment(e.SourcePath)

		b.WriteString(strconv.Itoa(e.Order))
		b.WriteString(". ### ")
		b.WriteString(e.Title)
		a.blank(&b, 1)

		b.WriteString(comment)
		a.blank(&b, 1)

		b.WriteString(e.Excerpt)
		if !strings.HasSuffix(e.Excerpt, "\n") {
			b.WriteString(a.nl)
		}
		b.WriteString(a.nl)

		b.WriteString(comment)
		a.blank(&b, 1)

		if err := a.promo.Execute(&b, promoData{
			Order:      e.Order,
			Title:      e.Title,
			Label:      escapeLabel(e.Title),
			Slug:       e.Slug,
			SourcePath: e.SourcePath,
		}); err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "render promo").
				WithPath(e.SourcePath).
				Build()
		}
		a.blank(&b, 1)

		b.WriteString("[Back to top ↑](#")
		b.WriteString(a.tocAnchor)
		b.WriteString(")")
		a.blank(&b, 1)
	}
	return b.Bytes(), nil
}

type promoData struct {
	Order      int
	Title      string
	// Label is Title escaped for use as link text.
	Label      string
	Slug       string
	SourcePath string
}

// blank ends the current line and adds n empty lines.
func (a *Assembler) blank(b *bytes.Buffer, n int) {
	for i := 0; i <= n; i++ {
		b.WriteString(a.nl)
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// escapeLabel backslash-escapes brackets that are not already escaped, so a
// title cannot end or open a link label early. Code spans are copied as is.
func escapeLabel(s string) string {
	if !strings.ContainsAny(s, "[]") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); {
		switch c := s[i]; c {
		case '\\':
			end := min(i+2, len(s))
			b.WriteString(s[i:end])
			i = end
		case '`':
			n := backtickRun(s, i)
			if end := closingRun(s, i+n, n); end > 0 {
				b.WriteString(s[i:end])
				i = end
				continue
			}
			b.WriteString(s[i : i+n])
			i += n
		case '[', ']':
			b.WriteByte('\\')
			b.WriteByte(c)
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

func backtickRun(s string, i int) int {
	n := 0
	for i+n < len(s) && s[i+n] == '`' {
		n++
	}
	return n
}

// closingRun returns the index just past the first run of exactly n
// backticks at or after from, or -1.
func closingRun(s string, from, n int) int {
	for i := from; i < len(s); {
		if s[i] != '`' {
			i++
			continue
		}
		m := backtickRun(s, i)
		if m == n {
			return i + m
		}
		i += m
	}
	return -1
}
