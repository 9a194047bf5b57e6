// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import (
	"strings"

	"github.com/pdiddy/section-engine/internal/taxonomy"
	"github.com/pdiddy/section-engine/internal/textutil"
	"github.com/pdiddy/section-engine/pkg/types"
)

// SemanticThreshold is the confidence a semantic match must exceed to
// become a boundary.
const SemanticThreshold = 0.15

const (
	keywordWeight   = 0.4
	contextWeight   = 0.3
	structureWeight = 0.4

	keywordContextBoost   = 1.2
	keywordStructureBoost = 1.3

	positionDecay = 0.2

	// contextWindow is the number of lines after the header searched for
	// structure cues.
	contextWindow = 4
)

// Match is the best taxonomy entry for a header candidate.
type Match struct {
	Section    string
	Confidence float64
}

// MatchSemantic scores lines[i] and the contextWindow lines after it against
// every taxonomy entry and returns the best one. ok is false when the best
// confidence does not exceed SemanticThreshold.
func MatchSemantic(t *taxonomy.Table, lines []Line, i int, f types.LineFeatures) (Match, bool) {
	line := textutil.Fold(lines[i].Text)
	window := foldWindow(lines, i)
	decay := 1.0 - positionDecay*float64(i)/float64(len(lines))

	var (
		best     Match
		bestPrio int
		found    bool
	)
	for _, e := range t.Entries() {
		conf := scoreEntry(e, line, window, f.HeaderScore) * decay
		if conf > 1 {
			conf = 1
		}
		if !found || conf > best.Confidence || (conf == best.Confidence && e.Priority < bestPrio) {
			best = Match{Section: e.Name, Confidence: conf}
			bestPrio = e.Priority
			found = true
		}
	}

	if !found || best.Confidence <= SemanticThreshold {
		return Match{}, false
	}
	return best, true
}

// scoreEntry computes the weighted, boosted score of one entry before the
// position decay.
func scoreEntry(e taxonomy.Entry, line, window string, headerScore float64) float64 {
	kw := textutil.CountHits(line, e.Keywords)
	ctx := textutil.CountHits(line, e.ContextWords)
	cues := textutil.CountHits(window, e.StructureCues)

	raw := keywordWeight*ratio(kw, len(e.Keywords)) +
		contextWeight*ratio(ctx, len(e.ContextWords)) +
		structureWeight*ratio(cues, len(e.StructureCues))

	score := raw * headerScore
	if kw > 0 && ctx > 0 {
		score *= keywordContextBoost
	}
	if kw > 0 && cues > 0 {
		score *= keywordStructureBoost
	}
	return score
}

// foldWindow joins lines[i] and up to contextWindow following lines.
func foldWindow(lines []Line, i int) string {
	end := i + 1 + contextWindow
	if end > len(lines) {
		end = len(lines)
	}
	parts := make([]string, 0, end-i)
	for _, l := range lines[i:end] {
		parts = append(parts, l.Text)
	}
	return textutil.Fold(strings.Join(parts, "\n"))
}

func ratio(hits, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
