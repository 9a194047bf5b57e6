// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chunk

import (
	"github.com/pdiddy/section-engine/internal/taxonomy"
	"github.com/pdiddy/section-engine/internal/textutil"
	"github.com/pdiddy/section-engine/pkg/types"
)

const (
	// minRelabelHits is the fewest keyword hits that may relabel a chunk.
	minRelabelHits = 2

	// relabelConfidenceScale converts a keyword share into a confidence.
	// Relabeled chunks stay well below the reconciler's priority threshold.
	relabelConfidenceScale = 0.5
)

// KeywordVote counts, per taxonomy entry, how many of its keywords occur in
// content. It returns the winning entry when it holds a clear majority of
// all hits: more than half, at least minRelabelHits, and no tie.
func KeywordVote(t *taxonomy.Table, content string) (name string, share float64, ok bool) {
	folded := textutil.Fold(content)

	total, best, bestHits, tied := 0, "", 0, false
	for _, e := range t.Entries() {
		hits := textutil.CountHits(folded, e.Keywords)
		total += hits
		switch {
		case hits > bestHits:
			best, bestHits, tied = e.Name, hits, false
		case hits == bestHits && hits > 0:
			tied = true
		}
	}

	if tied || bestHits < minRelabelHits || bestHits*2 <= total {
		return "", 0, false
	}
	return best, float64(bestHits) / float64(total), true
}

func relabel(t *taxonomy.Table, c *types.Chunk) {
	name, share, ok := KeywordVote(t, c.Content)
	if !ok {
		return
	}
	c.SectionType = name
	c.Confidence = share * relabelConfidenceScale
}
