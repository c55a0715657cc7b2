package markers

import (
	"strings"

	"golang.org/x/net/html"
)

const updateHerePrefix = "Update here:"

// UpdateHereComment renders the per-entry comment bracketing an excerpt.
// p is repository-relative; it is written with a leading slash.
func UpdateHereComment(p string) string {
	return "<!-- " + updateHerePrefix + " /" + strings.TrimPrefix(p, "/") + " -->"
}

// ParseUpdateHere extracts the repository-relative path from an
// "Update here" comment line. The line must hold exactly one HTML comment.
func ParseUpdateHere(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "<!--") || !strings.HasSuffix(trimmed, "-->") {
		return "", false
	}
	z := html.NewTokenizer(strings.NewReader(trimmed))
	if z.Next() != html.CommentToken {
		return "", false
	}
	data := strings.TrimSpace(z.Token().Data)
	if z.Next() != html.ErrorToken {
		return "", false
	}
	rest, ok := strings.CutPrefix(data, updateHerePrefix)
	if !ok {
		return "", false
	}
	p := strings.TrimPrefix(strings.TrimSpace(rest), "/")
	if p == "" {
		return "", false
	}
	return p, true
}
