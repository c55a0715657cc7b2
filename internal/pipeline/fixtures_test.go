package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/faqindex/internal/manifest"
)

const indexDoc = `# FAQ

## Table of Contents

<!-- TABLE_OF_CONTENTS:START -->
<!-- TABLE_OF_CONTENTS:END -->

## Questions

<!-- QUESTIONS:START -->
<!-- QUESTIONS:END -->

Contributions welcome.
`

func fragmentText(title, excerpt string) string {
	return fmt.Sprintf("---\ntitle: %q\n---\n\n# %s\n\n## TL;DR\n\n%s\n---\n\n## Detail\n\nLonger text.\n", title, title, excerpt)
}

func file(slug, title, excerpt string) File {
	return File{
		Source: manifest.Source{Slug: slug, Path: "questions/" + slug + "/en-US.mdx"},
		Raw:    []byte(fragmentText(title, excerpt)),
	}
}

func numbered(files []File) []File {
	for i := range files {
		files[i].Source.Order = i + 1
	}
	return files
}

// repo lays out an index, fragments, and a manifest file under a temp root.
type repo struct {
	t    *testing.T
	root string
}

func newRepo(t *testing.T) *repo {
	t.Helper()
	r := &repo{t: t, root: t.TempDir()}
	r.write("README.md", indexDoc)
	return r
}

func (r *repo) write(rel, content string) {
	r.t.Helper()
	p := filepath.Join(r.root, filepath.FromSlash(rel))
	require.NoError(r.t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(r.t, os.WriteFile(p, []byte(content), 0o600))
}

func (r *repo) read(rel string) string {
	r.t.Helper()
	data, err := os.ReadFile(filepath.Join(r.root, filepath.FromSlash(rel)))
	require.NoError(r.t, err)
	return string(data)
}

func (r *repo) fragment(slug, title, excerpt string) {
	r.write("questions/"+slug+"/en-US.mdx", fragmentText(title, excerpt))
}

func (r *repo) manifest(slugs ...string) {
	content := "entries:\n"
	for _, s := range slugs {
		content += "  - slug: " + s + "\n"
	}
	r.write("faq.yaml", content)
}
