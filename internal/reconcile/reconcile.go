// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reconcile merges boundary-derived chunk labels with advisory
// labels from an external classifier.
package reconcile

import (
	"sort"

	"github.com/pdiddy/section-engine/internal/taxonomy"
	"github.com/pdiddy/section-engine/pkg/types"
)

const (
	// PriorityThreshold is the boundary confidence at or above which the
	// boundary's section type is kept.
	PriorityThreshold = 0.7

	// ExternalWeight scales the external classifier's confidence.
	ExternalWeight = 0.8
)

// Label is a section type with its confidence.
type Label struct {
	SectionType string
	Confidence  float64
}

// Reconcile merges the boundary label a with the external label b. An
// external label whose section type the table does not know is ignored.
func Reconcile(t *taxonomy.Table, a, b Label) Label {
	if !t.Known(b.SectionType) {
		return a
	}

	out := Label{SectionType: b.SectionType, Confidence: max(a.Confidence, b.Confidence*ExternalWeight)}
	if a.Confidence >= PriorityThreshold {
		out.SectionType = a.SectionType
	}
	return out
}

// ApplyLabels returns a copy of chunks with every external label reconciled
// into the chunk whose index it names. Chunks without a label are copied
// unchanged. Labels for unknown indexes or unknown section types are
// ignored. When several labels name the same chunk, the one with the
// highest confidence is used, ties going to the lexically smaller section
// type, so the result never depends on label order.
func ApplyLabels(t *taxonomy.Table, chunks []types.Chunk, labels []types.ExternalLabel) []types.Chunk {
	out := make([]types.Chunk, len(chunks))
	copy(out, chunks)

	byIndex := make(map[int]types.ExternalLabel, len(labels))
	for _, l := range labels {
		if !t.Known(l.SectionType) {
			continue
		}
		if cur, ok := byIndex[l.Index]; !ok || preferred(l, cur) {
			byIndex[l.Index] = l
		}
	}

	indexes := make([]int, 0, len(byIndex))
	for idx := range byIndex {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	for _, idx := range indexes {
		i, ok := position(out, idx)
		if !ok {
			continue
		}
		l := byIndex[idx]
		got := Reconcile(t,
			Label{SectionType: out[i].SectionType, Confidence: out[i].Confidence},
			Label{SectionType: l.SectionType, Confidence: l.Confidence},
		)
		out[i].SectionType = got.SectionType
		out[i].Confidence = got.Confidence
	}
	return out
}

func preferred(a, b types.ExternalLabel) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	return a.SectionType < b.SectionType
}

// position finds the slice position of the chunk with the given index.
// Carved chunks sit at their own index, so the direct lookup almost always
// hits.
func position(chunks []types.Chunk, idx int) (int, bool) {
	if idx >= 0 && idx < len(chunks) && chunks[idx].Index == idx {
		return idx, true
	}
	for i, c := range chunks {
		if c.Index == idx {
			return i, true
		}
	}
	return 0, false
}
