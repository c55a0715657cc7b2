// Package manifest defines the ordered entry list that drives numbering and
// resolves each entry to its fragment file.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/faqindex/internal/foundation/errors"
	"git.home.luguber.info/inful/faqindex/internal/markdown"
	"git.home.luguber.info/inful/faqindex/internal/markers"
)

// Item is one manifest entry. Either Slug or Path must be set; Path wins.
type Item struct {
	Slug string `yaml:"slug,omitempty"`
	Path string `yaml:"path,omitempty"`
}

// Manifest is the authoritative display order of entries.
type Manifest struct {
	Entries []Item `yaml:"entries"`
	// Origin describes where the manifest came from, for logging.
	Origin string `yaml:"-"`
}

// Layout maps fragment slugs to repository-relative file paths.
type Layout struct {
	QuestionsDir string
	Locale       string
	Extension    string
}

// PathFor returns questions/<slug>/<locale><ext> as a slash-separated path.
func (l Layout) PathFor(slug string) string {
	return path.Join(l.QuestionsDir, slug, l.Locale+l.Extension)
}

// SlugFor reverses PathFor, reporting false for paths outside the layout.
func (l Layout) SlugFor(p string) (string, bool) {
	dir, file := path.Split(path.Clean(p))
	if file != l.Locale+l.Extension {
		return "", false
	}
	parent, slug := path.Split(strings.TrimSuffix(dir, "/"))
	if slug == "" || path.Clean(parent) != path.Clean(l.QuestionsDir) {
		return "", false
	}
	return slug, true
}

// Source is a manifest entry resolved to an existing fragment file.
type Source struct {
	Order int
	Slug  string
	// Path is repository-relative and slash-separated.
	Path string
}

// Load reads a YAML manifest file. Unknown keys are rejected.
func Load(filename string) (*Manifest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryManifest, "read manifest").WithPath(filename).Build()
	}
	m, err := Decode(data)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryManifest, "parse manifest").WithPath(filename).Build()
	}
	m.Origin = "file:" + filename
	return m, nil
}

// Decode parses manifest YAML.
func Decode(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && err != io.EOF {
		return nil, err
	}
	return &m, nil
}

// Write serializes m as YAML.
func Write(w io.Writer, m *Manifest) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// FromDocument derives a manifest from the "Update here" comment pairs in the
// QUESTIONS region of an existing index document. Each entry's excerpt is
// bracketed by two identical comments; their order is the current display order.
func FromDocument(doc []byte, layout Layout) (*Manifest, error) {
	regions, err := markers.Locate(doc, markers.RegionQuestions)
	if err != nil {
		return nil, err
	}
	region := regions[0]

	m := &Manifest{Origin: "document"}
	pending, pendingLine := "", 0
	for _, line := range markdown.SplitLines(region.Body(doc)) {
		p, ok := markers.ParseUpdateHere(line.Text)
		if !ok {
			continue
		}
		lineNo := region.StartLine + line.Number
		switch pending {
		case "":
			pending, pendingLine = p, lineNo
		case p:
			m.Entries = append(m.Entries, itemFor(p, layout))
			pending = ""
		default:
			return nil, ferrors.ManifestError(fmt.Sprintf("unpaired Update here comment for %s", pending)).
				WithLine(pendingLine).
				Build()
		}
	}
	if pending != "" {
		return nil, ferrors.ManifestError(fmt.Sprintf("unpaired Update here comment for %s", pending)).
			WithLine(pendingLine).
			Build()
	}
	return m, nil
}

func itemFor(p string, layout Layout) Item {
	if slug, ok := layout.SlugFor(p); ok {
		return Item{Slug: slug}
	}
	return Item{Path: p}
}

// Resolve maps every manifest entry to a fragment in fsys, preserving manifest
// order. Directory listing order is never consulted.
func Resolve(m *Manifest, layout Layout, fsys fs.FS) ([]Source, error) {
	sources := make([]Source, 0, len(m.Entries))
	seen := make(map[string]int, len(m.Entries))
	for i, item := range m.Entries {
		order := i + 1
		p := strings.TrimPrefix(item.Path, "/")
		if p == "" {
			if item.Slug == "" {
				return nil, ferrors.ManifestError(fmt.Sprintf("entry %d has neither slug nor path", order)).Build()
			}
			p = layout.PathFor(item.Slug)
		}
		p = path.Clean(p)
		if !fs.ValidPath(p) {
			return nil, ferrors.ManifestError(fmt.Sprintf("entry %d path escapes the repository", order)).WithPath(p).Build()
		}
		if prev, dup := seen[p]; dup {
			return nil, ferrors.ManifestError(fmt.Sprintf("entries %d and %d reference the same fragment", prev, order)).WithPath(p).Build()
		}
		seen[p] = order

		info, err := fs.Stat(fsys, p)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, ferrors.MissingFragment(p).Build()
		case err != nil:
			return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "stat fragment").WithPath(p).Build()
		case info.IsDir():
			return nil, ferrors.MissingFragment(p).Build()
		}

		slug := item.Slug
		if slug == "" {
			slug = path.Base(path.Dir(p))
		}
		sources = append(sources, Source{Order: order, Slug: slug, Path: p})
	}
	return sources, nil
}
