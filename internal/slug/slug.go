// Package slug derives heading anchors the way common Markdown renderers do.
package slug

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/faqindex/internal/markdown"
)

// ErrEmptySlug is returned when a title has no characters that survive slugging.
var ErrEmptySlug = errors.New("title produces an empty anchor")

// Base converts a title to its anchor form without collision handling.
//
// Inline markup is stripped first (only the visible text counts), then the
// text is lowercased, characters outside [a-z0-9], whitespace and '-' are
// dropped, whitespace runs become a single '-', and outer hyphens are trimmed.
//
// Raw inline HTML counts as markup, so "What is <ng-template>?" yields
// "what-is", the same anchor GitHub renders. Write tag names in a code span
// ("What is `<ng-template>`?") to keep them in the anchor.
func Base(title string) string {
	plain := cases.Lower(language.Und).String(markdown.PlainText(title))

	var b strings.Builder
	pendingSpace := false
	for _, r := range plain {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = true
			continue
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
		default:
			continue
		}
		if pendingSpace {
			b.WriteByte('-')
			pendingSpace = false
		}
		b.WriteRune(r)
	}
	return strings.Trim(b.String(), "-")
}

// Generator assigns unique slugs within one document.
//
// The first title to produce a given base keeps it; later ones receive the
// lowest free numeric suffix (-1, -2, ...). A Generator is not safe for
// concurrent use; create one per run.
type Generator struct {
	used map[string]struct{}
	next map[string]int
}

// NewGenerator returns an empty Generator.
func NewGenerator() *Generator {
	return &Generator{
		used: make(map[string]struct{}),
		next: make(map[string]int),
	}
}

// Next returns a slug for title that has not been handed out by g before.
func (g *Generator) Next(title string) (string, error) {
	base := Base(title)
	if base == "" {
		return "", ErrEmptySlug
	}
	if _, taken := g.used[base]; !taken {
		g.used[base] = struct{}{}
		return base, nil
	}
	for n := g.next[base] + 1; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if _, taken := g.used[candidate]; taken {
			continue
		}
		g.used[candidate] = struct{}{}
		g.next[base] = n
		return candidate, nil
	}
}

// Reserve marks s as used so Next never returns it.
func (g *Generator) Reserve(s string) {
	g.used[s] = struct{}{}
}
