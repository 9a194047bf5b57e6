// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportEntry is one chunk in an export file.
type ExportEntry struct {
	SourceID        string  `json:"source_id" yaml:"source_id"`
	Index           int     `json:"index" yaml:"index"`
	SectionType     string  `json:"section_type" yaml:"section_type"`
	StartPos        int     `json:"start_pos" yaml:"start_pos"`
	EndPos          int     `json:"end_pos" yaml:"end_pos"`
	Confidence      float64 `json:"confidence" yaml:"confidence"`
	TaxonomyVersion string  `json:"taxonomy_version" yaml:"taxonomy_version"`
	Content         string  `json:"content" yaml:"content"`
}

const exportLimit = 100000

// ExportYAML writes matching chunks to dataDir/index/export.yaml and returns
// the file path.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) (string, error) {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	path := filepath.Join(s.dataDir, indexDir, "export.yaml")
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes matching chunks to dataDir/index/export.json and returns
// the file path.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) (string, error) {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	path := filepath.Join(s.dataDir, indexDir, "export.json")
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) exportEntries(ctx context.Context, opts QueryOptions) ([]ExportEntry, error) {
	opts.MaxResults = exportLimit
	results, err := s.Retrieve(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(results))
	for i, r := range results {
		entries[i] = ExportEntry{
			SourceID:        r.SourceID,
			Index:           r.Index,
			SectionType:     r.SectionType,
			StartPos:        r.StartPos,
			EndPos:          r.EndPos,
			Confidence:      r.Confidence,
			TaxonomyVersion: r.TaxonomyVersion,
			Content:         r.Content,
		}
	}
	return entries, nil
}
