// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment detects section boundaries in extracted document text.
// Each line is scored for header-like structure; header candidates are
// resolved either through an explicit clause ordinal or through weighted
// vocabulary matching against the taxonomy, and the resulting boundaries are
// ordered and thinned so that no two sit closer than a minimum gap.
//
// Everything here is a pure function of the input text and the taxonomy.
package segment

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/section-engine/internal/taxonomy"
	"github.com/pdiddy/section-engine/internal/textutil"
	"github.com/pdiddy/section-engine/pkg/types"
)

const (
	// HeaderThreshold is the minimum header score for a line to be
	// considered a header candidate.
	HeaderThreshold = 0.3

	// MaxHeaderScore caps the summed feature weights.
	MaxHeaderScore = 3.0

	shortLineRunes = 150
)

// Feature weights.
const (
	weightShort          = 0.2
	weightUppercase      = 0.3
	weightNumbering      = 0.3
	weightColon          = 0.2
	weightStandalone     = 0.3
	weightTitleCase      = 0.2
	weightLeadingNumber  = 0.4
	weightHeaderVocab    = 0.3
	weightOrdinalWord    = 0.5
	weightClauseMarker   = 0.6
	weightSectionDash    = 0.4
	weightLeadingRoman   = 0.4
	titleCaseMinWordSize = 4
)

// ordinalAlternation matches the clause ordinals "primera" to "décima" on
// folded text. Only the feminine forms name clauses; "el primer pago" is
// prose.
const ordinalAlternation = `primera|segunda|tercera|cuarta|quinta|sexta|s(?:ep|e)tima|octava|novena|decima`

var (
	numberingRe     = regexp.MustCompile(`^(?:\d+(?:\.\d+)*[.)\-]|[IVXLC]+[.)]|[a-z][.)]|[-•*·▪])\s`)
	leadingNumberRe = regexp.MustCompile(`^\d+\.\s`)
	leadingRomanRe  = regexp.MustCompile(`^[IVXLC]+\s*[.)\-–—:]`)
	ordinalWordRe   = regexp.MustCompile(`\b(` + ordinalAlternation + `)\b`)
	clauseMarkerRe  = regexp.MustCompile(`^(?:clausula\s+)?(?:` + ordinalAlternation + `|\d+|[ivx]+)\s*\.?\s*[-–—:]`)
	sectionDashRe   = regexp.MustCompile(`[–—]\s*\p{Lu}`)
)

// Line is one line of the source text together with its byte offset.
type Line struct {
	Text  string
	Start int
}

// SplitLines splits text on "\n", recording the byte offset at which each
// line starts. A trailing "\r" is kept in Text and ignored by the detectors.
func SplitLines(text string) []Line {
	var lines []Line
	start := 0
	for {
		i := strings.IndexByte(text[start:], '\n')
		if i < 0 {
			lines = append(lines, Line{Text: text[start:], Start: start})
			return lines
		}
		lines = append(lines, Line{Text: text[start : start+i], Start: start})
		start += i + 1
	}
}

// ExtractFeatures computes the structural features of lines[i]. The
// neighbouring lines decide whether the line stands alone.
func ExtractFeatures(t *taxonomy.Table, lines []Line, i int) types.LineFeatures {
	var f types.LineFeatures

	trimmed := strings.TrimSpace(lines[i].Text)
	if trimmed == "" {
		return f
	}
	folded := textutil.Fold(trimmed)

	f.IsShort = utf8.RuneCountInString(trimmed) < shortLineRunes
	f.IsUppercase = isUppercase(trimmed)
	f.HasNumbering = numberingRe.MatchString(trimmed)
	f.EndsWithColon = strings.HasSuffix(trimmed, ":")
	f.IsStandalone = (i == 0 || textutil.IsBlank(lines[i-1].Text)) &&
		i+1 < len(lines) && !textutil.IsBlank(lines[i+1].Text)
	f.HasTitleCase = !f.IsUppercase && isTitleCase(trimmed)
	f.StartsWithNumber = leadingNumberRe.MatchString(trimmed)
	f.HasHeaderVocabulary = textutil.CountHits(folded, t.HeaderVocabulary()) > 0
	f.HasOrdinalPattern = ordinalWordRe.MatchString(folded)
	f.HasClauseMarker = clauseMarkerRe.MatchString(folded)
	f.HasSectionDash = sectionDashRe.MatchString(trimmed)
	f.StartsWithRoman = leadingRomanRe.MatchString(trimmed)

	f.HeaderScore = headerScore(f)
	return f
}

// IsHeaderCandidate reports whether f clears the header threshold.
func IsHeaderCandidate(f types.LineFeatures) bool {
	return f.HeaderScore >= HeaderThreshold
}

func headerScore(f types.LineFeatures) float64 {
	score := 0.0
	add := func(on bool, w float64) {
		if on {
			score += w
		}
	}
	add(f.IsShort, weightShort)
	add(f.IsUppercase, weightUppercase)
	add(f.HasNumbering, weightNumbering)
	add(f.EndsWithColon, weightColon)
	add(f.IsStandalone, weightStandalone)
	add(f.HasTitleCase, weightTitleCase)
	add(f.StartsWithNumber, weightLeadingNumber)
	add(f.HasHeaderVocabulary, weightHeaderVocab)
	add(f.HasOrdinalPattern, weightOrdinalWord)
	add(f.HasClauseMarker, weightClauseMarker)
	add(f.HasSectionDash, weightSectionDash)
	add(f.StartsWithRoman, weightLeadingRoman)
	if score > MaxHeaderScore {
		score = MaxHeaderScore
	}
	return score
}

// isUppercase reports whether s has letters and none of them is lowercase.
func isUppercase(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// isTitleCase reports whether every word of titleCaseMinWordSize runes or
// more starts with an uppercase letter and at least two words do. Short
// connectors ("de", "del", "la") are ignored.
func isTitleCase(s string) bool {
	capitalized := 0
	for _, w := range strings.Fields(s) {
		r, _ := utf8.DecodeRuneInString(w)
		if !unicode.IsLetter(r) {
			continue
		}
		if unicode.IsUpper(r) {
			capitalized++
			continue
		}
		if utf8.RuneCountInString(w) >= titleCaseMinWordSize {
			return false
		}
	}
	return capitalized >= 2
}
