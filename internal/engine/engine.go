// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine ties boundary detection and chunk carving into a single
// call per document. An Engine holds only a read-only taxonomy table and
// its sizing options, so one value may serve concurrent callers.
package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pdiddy/section-engine/internal/chunk"
	"github.com/pdiddy/section-engine/internal/reconcile"
	"github.com/pdiddy/section-engine/internal/segment"
	"github.com/pdiddy/section-engine/internal/taxonomy"
	"github.com/pdiddy/section-engine/pkg/types"
)

// ErrInvalidOptions reports chunk sizing the carver cannot honour.
var ErrInvalidOptions = errors.New("invalid segmentation options")

// documentNamespace scopes content-derived document ids.
var documentNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://section-engine/documents"))

// Engine segments documents against one taxonomy.
type Engine struct {
	table *taxonomy.Table
	cfg   types.SegmentationConfig
}

// New validates cfg and returns an Engine. A zero MinBoundaryGap uses the
// default gap.
func New(table *taxonomy.Table, cfg types.SegmentationConfig) (*Engine, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: nil taxonomy", ErrInvalidOptions)
	}
	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", ErrInvalidOptions, cfg.ChunkSize)
	}
	if cfg.ChunkOverlap < 0 {
		return nil, fmt.Errorf("%w: chunk overlap %d is negative", ErrInvalidOptions, cfg.ChunkOverlap)
	}
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d",
			ErrInvalidOptions, cfg.ChunkOverlap, cfg.ChunkSize)
	}
	if cfg.MinBoundaryGap < 0 {
		return nil, fmt.Errorf("%w: minimum boundary gap %d is negative", ErrInvalidOptions, cfg.MinBoundaryGap)
	}
	if cfg.MinBoundaryGap == 0 {
		cfg.MinBoundaryGap = types.DefaultMinBoundaryGap
	}
	return &Engine{table: table, cfg: cfg}, nil
}

// Table returns the engine's taxonomy.
func (e *Engine) Table() *taxonomy.Table { return e.table }

// Config returns the engine's effective options.
func (e *Engine) Config() types.SegmentationConfig { return e.cfg }

// Segment detects the boundaries of text and carves it into chunks. An
// empty sourceID is replaced by DocumentID(text). Blank text yields a
// segmentation with no boundaries and no chunks.
func (e *Engine) Segment(text, sourceID string) types.Segmentation {
	if sourceID == "" {
		sourceID = DocumentID(text)
	}

	bounds := segment.DetectBoundaries(e.table, text, segment.Options{MinGap: e.cfg.MinBoundaryGap})
	chunks := chunk.Carve(e.table, text, bounds, chunk.Options{
		ChunkSize:    e.cfg.ChunkSize,
		ChunkOverlap: e.cfg.ChunkOverlap,
		Separators:   e.cfg.Separators,
		SourceID:     sourceID,
	})

	if bounds == nil {
		bounds = []types.Boundary{}
	}
	if chunks == nil {
		chunks = []types.Chunk{}
	}
	return types.Segmentation{
		SourceID:        sourceID,
		TaxonomyVersion: e.table.Version(),
		Length:          len(text),
		Boundaries:      bounds,
		Chunks:          chunks,
	}
}

// Reconcile returns a copy of seg with the external labels merged into its
// chunks. Boundaries are left untouched.
func (e *Engine) Reconcile(seg types.Segmentation, labels []types.ExternalLabel) types.Segmentation {
	seg.Chunks = reconcile.ApplyLabels(e.table, seg.Chunks, labels)
	return seg
}

// DocumentID derives a stable id from a document's content.
func DocumentID(text string) string {
	return uuid.NewSHA1(documentNamespace, []byte(text)).String()
}
