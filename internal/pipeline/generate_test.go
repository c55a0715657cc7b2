package pipeline

import (
	"crypto/sha256"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/faqindex/internal/assemble"
	ferrors "git.home.luguber.info/inful/faqindex/internal/foundation/errors"
	"git.home.luguber.info/inful/faqindex/internal/markers"
	"git.home.luguber.info/inful/faqindex/internal/slug"
)

var (
	tocRow      = regexp.MustCompile(`(?m)^\| (\d+) \| \[(.*)\]\(#([^)]+)\) \|\r?$`)
	questionRow = regexp.MustCompile(`(?m)^(\d+)\. ### (.*?)\r?$`)
)

func regionBody(t *testing.T, doc []byte, name string) string {
	t.Helper()
	regions, err := markers.Locate(doc, name)
	require.NoError(t, err)
	return string(regions[0].Body(doc))
}

func sampleFiles() []File {
	return numbered([]File{
		file("angular", "What is Angular and how is it different from AngularJS?", "Angular is a **platform**.\n"),
		file("foo", "Foo", "First foo.\n"),
		file("foo-again", "Foo", "Second foo.\n\n```sh\n---\n```\n"),
		file("code", "What does `ngOnInit` do?", "- runs once\n- after inputs\n"),
	})
}

func TestGenerate_ScenarioSlugs(t *testing.T) {
	res, err := Generate([]byte(indexDoc), sampleFiles(), Options{})
	require.NoError(t, err)

	got := make([]string, 0, len(res.Entries))
	for _, e := range res.Entries {
		got = append(got, e.Slug)
	}
	assert.Equal(t, []string{
		"what-is-angular-and-how-is-it-different-from-angularjs",
		"foo",
		"foo-1",
		"what-does-ngoninit-do",
	}, got)
}

func TestGenerate_Idempotent(t *testing.T) {
	first, err := Generate([]byte(indexDoc), sampleFiles(), Options{})
	require.NoError(t, err)
	second, err := Generate(first.Document, sampleFiles(), Options{})
	require.NoError(t, err)
	assert.Equal(t, string(first.Document), string(second.Document))
	assert.Equal(t, sha256.Sum256(first.Document), sha256.Sum256(second.Document))
}

func TestGenerate_PreservesTextOutsideRegions(t *testing.T) {
	res, err := Generate([]byte(indexDoc), sampleFiles(), Options{})
	require.NoError(t, err)
	out := string(res.Document)
	assert.True(t, strings.HasPrefix(out, "# FAQ\n\n## Table of Contents\n\n<!-- TABLE_OF_CONTENTS:START -->\n"))
	assert.True(t, strings.HasSuffix(out, "<!-- QUESTIONS:END -->\n\nContributions welcome.\n"))
	assert.Contains(t, out, "<!-- TABLE_OF_CONTENTS:END -->\n\n## Questions\n\n<!-- QUESTIONS:START -->\n")
}

func TestGenerate_ExcerptRoundTrip(t *testing.T) {
	files := sampleFiles()
	res, err := Generate([]byte(indexDoc), files, Options{})
	require.NoError(t, err)

	questions := regionBody(t, res.Document, markers.RegionQuestions)
	for _, e := range res.Entries {
		comment := markers.UpdateHereComment(e.SourcePath)
		assert.Contains(t, questions, comment+"\n\n"+e.Excerpt+"\n"+comment+"\n")
	}
	assert.Contains(t, questions, "```sh\n---\n```\n")
}

func TestGenerate_OrderConsistencyAndAnchors(t *testing.T) {
	res, err := Generate([]byte(indexDoc), sampleFiles(), Options{})
	require.NoError(t, err)

	toc := tocRow.FindAllStringSubmatch(regionBody(t, res.Document, markers.RegionTOC), -1)
	questions := questionRow.FindAllStringSubmatch(regionBody(t, res.Document, markers.RegionQuestions), -1)
	require.Len(t, toc, len(res.Entries))
	require.Len(t, questions, len(res.Entries))

	headings := slug.NewGenerator()
	headings.Reserve(assemble.DefaultTOCAnchor)
	seen := map[string]bool{}
	for i, e := range res.Entries {
		assert.Equal(t, strconv.Itoa(i+1), toc[i][1])
		assert.Equal(t, toc[i][1], questions[i][1])
		assert.Equal(t, e.Title, questions[i][2])

		anchor, err := headings.Next(questions[i][2])
		require.NoError(t, err)
		assert.Equal(t, anchor, toc[i][3], "TOC link must resolve to its question heading")

		assert.False(t, seen[e.Slug], "duplicate slug %s", e.Slug)
		seen[e.Slug] = true
	}
}

func TestGenerate_InsertionRenumbers(t *testing.T) {
	var files []File
	for i := 1; i <= 7; i++ {
		n := strconv.Itoa(i)
		files = append(files, file("q"+n, "Question "+n, "Answer "+n+".\n"))
	}
	before, err := Generate([]byte(indexDoc), numbered(append([]File(nil), files...)), Options{})
	require.NoError(t, err)

	inserted := append(append(append([]File(nil), files[:4]...), file("new", "Brand new", "Fresh.\n")), files[4:]...)
	after, err := Generate(before.Document, numbered(inserted), Options{})
	require.NoError(t, err)

	rowsBefore := tocRow.FindAllStringSubmatch(regionBody(t, before.Document, markers.RegionTOC), -1)
	rowsAfter := tocRow.FindAllStringSubmatch(regionBody(t, after.Document, markers.RegionTOC), -1)
	require.Len(t, rowsAfter, len(rowsBefore)+1)

	for i := 0; i < 4; i++ {
		assert.Equal(t, rowsBefore[i][0], rowsAfter[i][0])
	}
	assert.Equal(t, []string{"5", "Brand new"}, rowsAfter[4][1:3])
	for i := 4; i < len(rowsBefore); i++ {
		assert.Equal(t, strconv.Itoa(i+2), rowsAfter[i+1][1])
		assert.Equal(t, rowsBefore[i][2], rowsAfter[i+1][2])
	}

	qs := questionRow.FindAllStringSubmatch(regionBody(t, after.Document, markers.RegionQuestions), -1)
	assert.Equal(t, []string{"5", "Brand new"}, qs[4][1:3])
	assert.Equal(t, []string{"8", "Question 7"}, qs[7][1:3])
}

func TestGenerate_MissingQuestionsEnd(t *testing.T) {
	doc := []byte(strings.Replace(indexDoc, "<!-- QUESTIONS:END -->\n", "", 1))
	orig := append([]byte(nil), doc...)

	_, err := Generate(doc, sampleFiles(), Options{IndexPath: "README.md"})
	require.Error(t, err)
	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, ferrors.CategoryMarker, ce.Category())
	kind, _ := ce.Context().GetString(ferrors.ContextKind)
	assert.Equal(t, string(markers.KindMissingEnd), kind)
	path, _ := ce.Context().GetString(ferrors.ContextPath)
	assert.Equal(t, "README.md", path)
	assert.Equal(t, orig, doc)
}

func TestGenerate_FragmentErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no frontmatter", "# Foo\n\n## TL;DR\n\nx\n\n---\n"},
		{"missing title", "---\nauthor: me\n---\n\n## TL;DR\n\nx\n\n---\n"},
		{"no summary", "---\ntitle: Foo\n---\n\nbody\n"},
		{"reserved marker", fragmentText("Foo", "<!-- QUESTIONS:END -->\n")},
		{"reserved comment", fragmentText("Foo", "<!-- Update here: /questions/x/en-US.mdx -->\n")},
		{"empty slug", fragmentText("???", "x\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := []File{{Source: sampleFiles()[0].Source, Raw: []byte(tt.raw)}}
			_, err := Generate([]byte(indexDoc), files, Options{})
			require.Error(t, err)
			assert.Equal(t, ferrors.CategoryFragment, ferrors.GetCategory(err))
		})
	}
}

func TestGenerate_CRLFDocument(t *testing.T) {
	doc := []byte(strings.ReplaceAll(indexDoc, "\n", "\r\n"))
	res, err := Generate(doc, sampleFiles()[:1], Options{})
	require.NoError(t, err)

	toc := regionBody(t, res.Document, markers.RegionTOC)
	assert.Equal(t, "\r\n| No. | Questions |\r\n| --- | :-- |\r\n| 1 | [What is Angular and how is it different from AngularJS?](#what-is-angular-and-how-is-it-different-from-angularjs) |\r\n\r\n", toc)
	assert.Equal(t, "\r\n", DetectNewline(res.Document))
}

func TestGenerate_EmptyManifestClearsRegions(t *testing.T) {
	filled, err := Generate([]byte(indexDoc), sampleFiles(), Options{})
	require.NoError(t, err)
	res, err := Generate(filled.Document, nil, Options{})
	require.NoError(t, err)
	assert.Equal(t, "\n", regionBody(t, res.Document, markers.RegionQuestions))
	assert.Empty(t, res.Entries)
}

func TestGenerate_TitleCollidingWithTOCAnchor(t *testing.T) {
	res, err := Generate([]byte(indexDoc), numbered([]File{file("toc", "Table of Contents", "x\n")}), Options{})
	require.NoError(t, err)
	assert.Equal(t, "table-of-contents-1", res.Entries[0].Slug)
}

func TestGenerate_EmptySlugReportsTitleLine(t *testing.T) {
	raw := "---\nauthor: me\ndate: 2024-01-01\ntitle: \"???\"\n---\n\n## TL;DR\n\nx\n\n---\n"
	files := []File{{Source: sampleFiles()[0].Source, Raw: []byte(raw)}}
	_, err := Generate([]byte(indexDoc), files, Options{})
	require.Error(t, err)

	ce, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	line, _ := ce.Context().GetInt(ferrors.ContextLine)
	assert.Equal(t, 4, line)
}
