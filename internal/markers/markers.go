// Package markers locates generator-owned regions of the index document and
// splices new content into them.
//
// A region is bounded by a start and end token line:
//
//	<!-- QUESTIONS:START -->
//	...generated body...
//	<!-- QUESTIONS:END -->
//
// Token lines match after trimming surrounding whitespace and are
// case-sensitive. Tokens inside fenced code blocks outside any region are
// documentation, not markers, and are ignored.
package markers

import (
	"strings"

	ferrors "git.home.luguber.info/inful/faqindex/internal/foundation/errors"
	"git.home.luguber.info/inful/faqindex/internal/markdown"
)

// Region names used by the index document.
const (
	RegionTOC       = "TABLE_OF_CONTENTS"
	RegionQuestions = "QUESTIONS"
)

// Kind classifies a marker failure.
type Kind string

const (
	KindMissingStart   Kind = "missing-start"
	KindMissingEnd     Kind = "missing-end"
	KindEndBeforeStart Kind = "end-before-start"
	KindDuplicateStart Kind = "duplicate-start"
	KindDuplicateEnd   Kind = "duplicate-end"
	KindOverlap        Kind = "overlapping-regions"
)

// StartToken returns the start marker line for a region.
func StartToken(name string) string { return "<!-- " + name + ":START -->" }

// EndToken returns the end marker line for a region.
func EndToken(name string) string { return "<!-- " + name + ":END -->" }

// Region is a located marker region.
type Region struct {
	Name string
	// StartLine and EndLine are the 1-based lines of the token lines.
	StartLine int
	EndLine   int
	// BodyStart and BodyEnd delimit the bytes between the two token lines.
	BodyStart int
	BodyEnd   int
}

// Body returns the region's current content within doc.
func (r Region) Body(doc []byte) []byte {
	return doc[r.BodyStart:r.BodyEnd]
}

type state int

const (
	seekingStart state = iota
	insideRegion
	seekingEnd
	done
)

type machine struct {
	name   string
	start  string
	end    string
	state  state
	region Region
}

// Locate scans doc once and returns the regions for names, in the order given.
// Any malformed region aborts the scan with a marker error carrying its line.
func Locate(doc []byte, names ...string) ([]Region, error) {
	machines := make([]*machine, len(names))
	for i, name := range names {
		machines[i] = &machine{name: name, start: StartToken(name), end: EndToken(name)}
	}

	var fence markdown.FenceTracker
	var active *machine
	for _, line := range markdown.SplitLines(doc) {
		if active == nil && fence.Feed(line.Text) {
			continue
		}
		trimmed := strings.TrimSpace(line.Text)
		for _, m := range machines {
			switch trimmed {
			case m.start:
				switch m.state {
				case seekingStart:
					if active != nil {
						return nil, markerError(KindOverlap, m.name, line.Number)
					}
					m.state = insideRegion
					m.region = Region{Name: m.name, StartLine: line.Number, BodyStart: line.End}
					active = m
				default:
					return nil, markerError(KindDuplicateStart, m.name, line.Number)
				}
			case m.end:
				switch m.state {
				case seekingStart:
					return nil, markerError(KindEndBeforeStart, m.name, line.Number)
				case insideRegion, seekingEnd:
					m.state = done
					m.region.EndLine = line.Number
					m.region.BodyEnd = line.Start
					active = nil
				case done:
					return nil, markerError(KindDuplicateEnd, m.name, line.Number)
				}
			default:
				if m.state == insideRegion {
					m.state = seekingEnd
				}
			}
		}
	}

	regions := make([]Region, len(machines))
	for i, m := range machines {
		switch m.state {
		case seekingStart:
			return nil, markerError(KindMissingStart, m.name, 0)
		case insideRegion, seekingEnd:
			return nil, markerError(KindMissingEnd, m.name, m.region.StartLine)
		}
		regions[i] = m.region
	}
	return regions, nil
}

// Sync replaces the body of every region named in bodies and returns the new
// document. Bytes outside the regions, including the token lines, are copied
// unchanged. doc itself is never modified.
func Sync(doc []byte, names []string, bodies map[string][]byte) ([]byte, error) {
	regions, err := Locate(doc, names...)
	if err != nil {
		return nil, err
	}
	edits := make([]markdown.Edit, 0, len(regions))
	for _, r := range regions {
		body, ok := bodies[r.Name]
		if !ok {
			continue
		}
		edits = append(edits, markdown.Edit{Start: r.BodyStart, End: r.BodyEnd, Replacement: body})
	}
	return markdown.ApplyEdits(doc, edits)
}

// IsToken reports whether text is a start or end token for any of names.
func IsToken(text string, names ...string) bool {
	trimmed := strings.TrimSpace(text)
	for _, name := range names {
		if trimmed == StartToken(name) || trimmed == EndToken(name) {
			return true
		}
	}
	return false
}

func markerError(kind Kind, region string, line int) error {
	return ferrors.MarkerError(string(kind), region, line).Build()
}
