// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/section-engine/internal/taxonomy"
	"github.com/pdiddy/section-engine/internal/textutil"
	"github.com/pdiddy/section-engine/pkg/types"
)

// OrdinalConfidence is the confidence assigned to boundaries resolved from
// an explicit clause marker.
const OrdinalConfidence = 0.8

// ordinalWords maps folded clause ordinals to their position.
var ordinalWords = map[string]int{
	"primera": 1, "segunda": 2, "tercera": 3, "cuarta": 4, "quinta": 5,
	"sexta": 6, "septima": 7, "setima": 7, "octava": 8, "novena": 9,
	"decima": 10,
}

// romanNumerals covers the clause numbers I to X.
var romanNumerals = map[string]int{
	"I": 1, "II": 2, "III": 3, "IV": 4, "V": 5,
	"VI": 6, "VII": 7, "VIII": 8, "IX": 9, "X": 10,
}

var (
	leadingIntRe   = regexp.MustCompile(`^(\d+)\.`)
	leadingRomanIn = regexp.MustCompile(`^([IVX]+)\b`)
)

// Resolution is the outcome of resolving a clause ordinal.
type Resolution struct {
	Position   int
	Section    string
	Confidence float64
}

// OrdinalPosition extracts the clause position named by line, trying the
// ordinal word table, a leading "<int>.", then a leading Roman numeral.
func OrdinalPosition(line string) (int, bool) {
	trimmed := strings.TrimSpace(line)
	folded := textutil.Fold(trimmed)

	if m := ordinalWordRe.FindString(folded); m != "" {
		if pos, ok := ordinalWords[m]; ok {
			return pos, true
		}
	}
	if m := leadingIntRe.FindStringSubmatch(trimmed); m != nil {
		if pos, err := strconv.Atoi(m[1]); err == nil && pos > 0 {
			return pos, true
		}
	}
	if m := leadingRomanIn.FindStringSubmatch(trimmed); m != nil {
		if pos, ok := romanNumerals[m[1]]; ok {
			return pos, true
		}
	}
	return 0, false
}

// ResolveOrdinal maps an explicitly numbered clause header to a section type
// through the taxonomy's position table. It fires only when the line carries
// a full clause marker and the table has a rule for the position. The first
// candidate whose keywords occur in the line wins; otherwise the rule's
// default applies.
func ResolveOrdinal(t *taxonomy.Table, line string, f types.LineFeatures) (Resolution, bool) {
	if !f.HasClauseMarker {
		return Resolution{}, false
	}
	pos, ok := OrdinalPosition(line)
	if !ok {
		return Resolution{}, false
	}
	rule, ok := t.Ordinal(pos)
	if !ok {
		return Resolution{}, false
	}

	folded := textutil.Fold(line)
	section := rule.Default
	for _, c := range rule.Candidates {
		if textutil.CountHits(folded, c.Keywords) > 0 {
			section = c.Section
			break
		}
	}

	return Resolution{Position: pos, Section: section, Confidence: OrdinalConfidence}, true
}
