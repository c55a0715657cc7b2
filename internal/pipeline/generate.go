package pipeline

import (
	"bytes"

	"git.home.luguber.info/inful/faqindex/internal/assemble"
	ferrors "git.home.luguber.info/inful/faqindex/internal/foundation/errors"
	"git.home.luguber.info/inful/faqindex/internal/fragment"
	"git.home.luguber.info/inful/faqindex/internal/manifest"
	"git.home.luguber.info/inful/faqindex/internal/markdown"
	"git.home.luguber.info/inful/faqindex/internal/markers"
	"git.home.luguber.info/inful/faqindex/internal/slug"
)

// Regions are the marker regions the generator owns, in document order.
var Regions = []string{markers.RegionTOC, markers.RegionQuestions}

// File is a resolved manifest entry together with its raw fragment bytes.
type File struct {
	Source manifest.Source
	Raw    []byte
}

// Options configures Generate.
type Options struct {
	// IndexPath names the index document in errors.
	IndexPath      string
	SummaryHeading string
	TOCHeader      []string
	TOCAnchor      string
	Promo          string
}

// Result is the output of one generation.
type Result struct {
	Document []byte
	Entries  []assemble.Entry
}

// Generate renders every file into the marker regions of doc and returns the
// new document. doc is never modified. Any error aborts the whole generation.
func Generate(doc []byte, files []File, opts Options) (*Result, error) {
	if _, err := markers.Locate(doc, Regions...); err != nil {
		return nil, withIndexPath(err, opts.IndexPath)
	}

	a, err := assemble.New(assemble.Options{
		Newline:   DetectNewline(doc),
		TOCHeader: opts.TOCHeader,
		TOCAnchor: opts.TOCAnchor,
		Promo:     opts.Promo,
	})
	if err != nil {
		return nil, err
	}

	slugs := slug.NewGenerator()
	slugs.Reserve(a.TOCAnchor())

	entries := make([]assemble.Entry, 0, len(files))
	for i, f := range files {
		frag, err := fragment.Parse(f.Source.Path, f.Raw, fragment.Options{SummaryHeading: opts.SummaryHeading})
		if err != nil {
			return nil, err
		}
		if line, ok := reservedLine(frag.Excerpt); ok {
			return nil, ferrors.MalformedFragment(f.Source.Path, "summary contains a reserved marker comment").
				WithLine(frag.ExcerptLine + line - 1).
				Build()
		}
		s, err := slugs.Next(frag.Title)
		if err != nil {
			return nil, ferrors.MalformedFragment(f.Source.Path, err.Error()).WithLine(frag.TitleLine).Build()
		}
		entries = append(entries, assemble.Entry{
			Order:      i + 1,
			Title:      frag.Title,
			Slug:       s,
			SourcePath: f.Source.Path,
			Excerpt:    frag.Excerpt,
		})
	}

	questions, err := a.Questions(entries)
	if err != nil {
		return nil, err
	}
	out, err := markers.Sync(doc, Regions, map[string][]byte{
		markers.RegionTOC:       a.TOC(entries),
		markers.RegionQuestions: questions,
	})
	if err != nil {
		return nil, withIndexPath(err, opts.IndexPath)
	}
	return &Result{Document: out, Entries: entries}, nil
}

// DetectNewline returns the terminator of the document's first line, so
// generated regions match the surrounding text.
func DetectNewline(doc []byte) string {
	i := bytes.IndexByte(doc, '\n')
	if i > 0 && doc[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// reservedLine reports the 1-based line of the first region token or
// "Update here" comment inside an excerpt. Either would corrupt the regions
// or the derived manifest on the next run.
func reservedLine(excerpt string) (int, bool) {
	for _, l := range markdown.SplitLines([]byte(excerpt)) {
		if markers.IsToken(l.Text, Regions...) {
			return l.Number, true
		}
		if _, ok := markers.ParseUpdateHere(l.Text); ok {
			return l.Number, true
		}
	}
	return 0, false
}

func withIndexPath(err error, path string) error {
	if path == "" {
		return err
	}
	if ce, ok := ferrors.AsClassified(err); ok {
		if _, has := ce.Context().Get(ferrors.ContextPath); !has {
			return ce.WithContext(ferrors.ContextPath, path)
		}
	}
	return err
}
