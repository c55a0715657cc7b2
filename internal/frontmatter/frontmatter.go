// Package frontmatter splits `---` delimited YAML frontmatter from fragment bodies.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Style captures the newline shape of a document.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
//
// If the document does not start with a YAML frontmatter delimiter, had is false
// and body is the full input. body always aliases content, so
// len(content)-len(body) is the byte offset of the body.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, style Style, err error) {
	style = DetectStyle(content)

	nl := style.Newline
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, style, nil
	}

	start := len(open)
	closeLine := []byte("---" + nl)
	if bytes.HasPrefix(content[start:], closeLine) {
		return []byte{}, content[start+len(closeLine):], true, style, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A closing delimiter on the final line without a trailing newline.
		closeEOF := []byte(nl + "---")
		if bytes.HasSuffix(content[start:], closeEOF) {
			end := len(content) - len(closeEOF) + len(nl)
			return content[start:end], content[len(content):], true, style, nil
		}
		return nil, nil, false, style, ErrMissingClosingDelimiter
	}

	end := start + idx + len(nl)
	bodyStart := start + idx + len(closeSeq)
	return content[start:end], content[bodyStart:], true, style, nil
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(frontmatter) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// RequireString returns fields[key] when it is a non-empty string.
//
// Numbers, booleans, lists and blank strings are rejected rather than coerced.
func RequireString(fields map[string]any, key string) (string, error) {
	raw, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("required field %q is missing", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("field %q must be a string, got %T", key, raw)
	}
	if len(bytes.TrimSpace([]byte(s))) == 0 {
		return "", fmt.Errorf("field %q is empty", key)
	}
	return s, nil
}

// KeyLine returns the 1-based line, within frontmatter, of the top-level key.
func KeyLine(frontmatter []byte, key string) (int, bool) {
	var doc yaml.Node
	if err := yaml.Unmarshal(frontmatter, &doc); err != nil || len(doc.Content) == 0 {
		return 0, false
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return 0, false
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i].Line, true
		}
	}
	return 0, false
}

// DetectStyle reports the first newline sequence used by content ("\n" when none).
func DetectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			if i > 0 && content[i-1] == '\r' {
				newline = "\r\n"
			}
			break
		}
	}

	return Style{
		Newline:            newline,
		HasTrailingNewline: len(content) > 0 && content[len(content)-1] == '\n',
	}
}
