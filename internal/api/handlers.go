// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pdiddy/section-engine/internal/engine"
	"github.com/pdiddy/section-engine/pkg/types"
)

// SegmentRequest is the body of POST /api/segment. Zero sizes use the
// server defaults.
type SegmentRequest struct {
	Text              string `json:"text"`
	SourceID          string `json:"source_id,omitempty"`
	ChunkSize         int    `json:"chunk_size,omitempty"`
	ChunkOverlap      *int   `json:"chunk_overlap,omitempty"`
	ClassifierDriven  bool   `json:"classifier_driven,omitempty"`
	IncludeBoundaries bool   `json:"include_boundaries,omitempty"`
}

// SegmentResponse is the body returned by POST /api/segment.
type SegmentResponse struct {
	SourceID        string           `json:"source_id"`
	TaxonomyVersion string           `json:"taxonomy_version"`
	Length          int              `json:"length"`
	Chunks          []types.Chunk    `json:"chunks"`
	Boundaries      []types.Boundary `json:"boundaries,omitempty"`
}

// ReconcileRequest is the body of POST /api/reconcile.
type ReconcileRequest struct {
	Chunks []types.Chunk         `json:"chunks"`
	Labels []types.ExternalLabel `json:"labels"`
}

// ReconcileResponse is the body returned by POST /api/reconcile.
type ReconcileResponse struct {
	Chunks []types.Chunk `json:"chunks"`
}

func (s *Server) handleSegment(w http.ResponseWriter, r *http.Request) {
	var req SegmentRequest
	if !s.decode(w, r, &req) {
		return
	}

	eng, err := s.engineFor(req)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	seg := eng.Segment(req.Text, req.SourceID)
	resp := SegmentResponse{
		SourceID:        seg.SourceID,
		TaxonomyVersion: seg.TaxonomyVersion,
		Length:          seg.Length,
		Chunks:          seg.Chunks,
	}
	if req.IncludeBoundaries {
		resp.Boundaries = seg.Boundaries
	}
	writeJSON(w, http.StatusOK, resp)
}

// engineFor returns the server engine, or a new one when the request
// overrides chunk sizing.
func (s *Server) engineFor(req SegmentRequest) (*engine.Engine, error) {
	if req.ChunkSize == 0 && req.ChunkOverlap == nil && !req.ClassifierDriven {
		return s.engine, nil
	}

	cfg := s.engine.Config()
	if req.ClassifierDriven {
		cfg.ChunkOverlap = types.ClassifierDrivenChunkOverlap
	}
	if req.ChunkSize != 0 {
		cfg.ChunkSize = req.ChunkSize
	}
	if req.ChunkOverlap != nil {
		cfg.ChunkOverlap = *req.ChunkOverlap
	}
	return engine.New(s.engine.Table(), cfg)
}

func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	var req ReconcileRequest
	if !s.decode(w, r, &req) {
		return
	}

	seg := s.engine.Reconcile(types.Segmentation{Chunks: req.Chunks}, req.Labels)
	if seg.Chunks == nil {
		seg.Chunks = []types.Chunk{}
	}
	writeJSON(w, http.StatusOK, ReconcileResponse{Chunks: seg.Chunks})
}

func (s *Server) handleTaxonomy(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Table().Definition())
}

// decode reads a JSON body into v, writing the error response itself when
// it fails.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
