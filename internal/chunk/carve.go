// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chunk carves a document into size-bounded, section-labeled chunks
// given its boundaries. Chunks cover the whole text: consecutive chunks
// either touch or, inside one oversized paragraph, overlap by at most the
// configured overlap.
package chunk

import (
	"github.com/pdiddy/section-engine/internal/taxonomy"
	"github.com/pdiddy/section-engine/internal/textutil"
	"github.com/pdiddy/section-engine/pkg/types"
)

// Options controls chunk sizing. Sizes are measured in runes.
type Options struct {
	ChunkSize    int
	ChunkOverlap int

	// Separators overrides DefaultSeparators for the recursive splitter.
	Separators []string

	// SourceID is copied into every chunk.
	SourceID string
}

// section is a labeled byte range of the document.
type section struct {
	span
	label      string
	confidence float64
}

// Carve slices text into chunks. Each boundary starts a section that runs to
// the next boundary or the end of the text. Text before the first boundary
// is its own GENERAL section, unless it is blank, in which case the first
// section absorbs it. With no boundaries the whole text is one GENERAL
// section and each resulting chunk may be relabeled by its keywords.
//
// Blank text yields no chunks.
func Carve(t *taxonomy.Table, text string, bounds []types.Boundary, opts Options) []types.Chunk {
	if textutil.IsBlank(text) {
		return nil
	}

	seps := opts.Separators
	if len(seps) == 0 {
		seps = DefaultSeparators
	}
	sp := &splitter{text: text, size: opts.ChunkSize, overlap: opts.ChunkOverlap, separators: seps}

	var chunks []types.Chunk
	for _, sec := range sections(text, bounds) {
		var pieces []span
		if opts.ChunkSize <= 0 {
			pieces = []span{sec.span}
		} else {
			pieces = sp.splitSection(sec.span)
		}
		for _, p := range pieces {
			chunks = append(chunks, types.Chunk{
				Content:     text[p.start:p.end],
				SectionType: sec.label,
				StartPos:    p.start,
				EndPos:      p.end,
				Index:       len(chunks),
				SourceID:    opts.SourceID,
				Confidence:  sec.confidence,
			})
		}
	}

	if len(bounds) == 0 {
		for i := range chunks {
			relabel(t, &chunks[i])
		}
	}
	return chunks
}

// sections turns boundaries into labeled ranges covering [0, len(text)).
func sections(text string, bounds []types.Boundary) []section {
	if len(bounds) == 0 {
		return []section{{span: span{0, len(text)}, label: types.SectionGeneral}}
	}

	var out []section
	first := 0
	if p := bounds[0].Position; p > 0 && !textutil.IsBlank(text[:p]) {
		out = append(out, section{span: span{0, p}, label: types.SectionGeneral})
		first = p
	}

	for i, b := range bounds {
		start := b.Position
		if i == 0 {
			start = first
		}
		end := len(text)
		if i+1 < len(bounds) {
			end = bounds[i+1].Position
		}
		out = append(out, section{
			span:       span{start, end},
			label:      b.SectionType,
			confidence: b.Confidence,
		})
	}
	return out
}
