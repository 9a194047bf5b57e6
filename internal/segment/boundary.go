// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import (
	"sort"

	"github.com/pdiddy/section-engine/internal/taxonomy"
	"github.com/pdiddy/section-engine/pkg/types"
)

// Options tunes boundary assembly.
type Options struct {
	// MinGap is the distance in bytes a boundary must exceed from the last
	// kept boundary. Zero or negative uses types.DefaultMinBoundaryGap.
	MinGap int
}

// Candidate is a per-line detection before spacing is enforced.
type Candidate struct {
	Line     int
	Features types.LineFeatures
	Boundary types.Boundary
}

// Candidates runs the detectors over every line of text and returns one
// candidate per line that produced a boundary, in document order. The
// ordinal resolver takes priority; the semantic matcher runs only when it
// does not fire.
func Candidates(t *taxonomy.Table, text string) []Candidate {
	lines := SplitLines(text)

	var out []Candidate
	for i, line := range lines {
		f := ExtractFeatures(t, lines, i)
		if !IsHeaderCandidate(f) {
			continue
		}

		if res, ok := ResolveOrdinal(t, line.Text, f); ok {
			out = append(out, Candidate{Line: i, Features: f, Boundary: types.Boundary{
				Position:    line.Start,
				SectionType: res.Section,
				Confidence:  res.Confidence,
				Source:      types.SourceOrdinal,
			}})
			continue
		}

		if m, ok := MatchSemantic(t, lines, i, f); ok {
			out = append(out, Candidate{Line: i, Features: f, Boundary: types.Boundary{
				Position:    line.Start,
				SectionType: m.Section,
				Confidence:  m.Confidence,
				Source:      types.SourceSemantic,
			}})
		}
	}
	return out
}

// DetectBoundaries returns the document's segmentation: boundaries sorted by
// position with every pair of neighbours more than opts.MinGap apart. An
// empty result means no segmentation was found.
func DetectBoundaries(t *taxonomy.Table, text string, opts Options) []types.Boundary {
	cands := Candidates(t, text)
	bounds := make([]types.Boundary, len(cands))
	for i, c := range cands {
		bounds[i] = c.Boundary
	}
	return Thin(bounds, opts.MinGap)
}

// Thin stable-sorts bounds by position and drops every boundary within
// minGap of the previously kept one. The filter is greedy left to right, so
// the earlier of two close boundaries always survives.
func Thin(bounds []types.Boundary, minGap int) []types.Boundary {
	if minGap <= 0 {
		minGap = types.DefaultMinBoundaryGap
	}

	sorted := make([]types.Boundary, len(bounds))
	copy(sorted, bounds)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	var kept []types.Boundary
	for _, b := range sorted {
		if len(kept) > 0 && b.Position-kept[len(kept)-1].Position <= minGap {
			continue
		}
		kept = append(kept, b)
	}
	return kept
}
