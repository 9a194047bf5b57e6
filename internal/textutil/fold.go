// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textutil holds the text normalization shared by the detectors and
// the chunk carver.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips diacritics so that "GARANTÍAS" and
// "garantias" compare equal. The result is only used for matching; byte
// offsets into the original text must never be taken from it.
func Fold(s string) string {
	// transform.Chain is stateful, so each call builds its own.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// FoldAll folds every element of words, dropping empty results.
func FoldAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if f := strings.TrimSpace(Fold(w)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// CountHits returns how many of the (already folded) terms occur in folded.
func CountHits(folded string, terms []string) int {
	n := 0
	for _, term := range terms {
		if strings.Contains(folded, term) {
			n++
		}
	}
	return n
}

// IsBlank reports whether s contains only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
