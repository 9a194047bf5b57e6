// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch runs the segmentation engine over a documents directory.
// Plain-text documents are read from <docs>/text/ and each result is written
// to <docs>/segments/<id>-segments.yaml.
package batch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/section-engine/internal/engine"
	"github.com/pdiddy/section-engine/pkg/types"
)

const (
	// TextDir is the subdirectory under the docs base holding input text.
	TextDir = "text"
	// SegmentsDir is the subdirectory under the docs base for results.
	SegmentsDir = "segments"

	textExt        = ".txt"
	segmentsSuffix = "-segments.yaml"

	defaultWorkers = 4
)

// BatchSummary holds counts from a batch segmentation run.
type BatchSummary struct {
	Segmented int
	Skipped   int
	Failed    int
}

// Total returns the number of documents processed.
func (s BatchSummary) Total() int {
	return s.Segmented + s.Skipped + s.Failed
}

// HasFailures reports whether any documents failed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

type outcome int

const (
	outcomeSegmented outcome = iota
	outcomeSkipped
	outcomeFailed
)

type result struct {
	outcome outcome
	line    string
}

// SegmentAll segments every .txt file in cfg.DocsDir/text/ that changed
// since its segments file was written. Documents run on up to cfg.Workers
// goroutines; progress lines are written to w in file-name order once all
// documents finish. One failing document never stops the batch.
func SegmentAll(ctx context.Context, eng *engine.Engine, cfg types.SegmentationConfig, w io.Writer) (BatchSummary, error) {
	textDir := filepath.Join(cfg.DocsDir, TextDir)
	outDir := filepath.Join(cfg.DocsDir, SegmentsDir)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return BatchSummary{}, fmt.Errorf("creating output directory: %w", err)
	}

	entries, err := os.ReadDir(textDir)
	if err != nil {
		return BatchSummary{}, fmt.Errorf("reading text directory %s: %w", textDir, err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), textExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), textExt))
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	results := make([]result, len(ids))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for range min(workers, max(len(ids), 1)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = segmentOne(eng, ids[i], filepath.Join(textDir, ids[i]+textExt), SegmentsPath(cfg.DocsDir, ids[i]))
			}
		}()
	}

	var ctxErr error
feed:
	for i := range ids {
		if err := ctx.Err(); err != nil {
			ctxErr = err
			break
		}
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	var summary BatchSummary
	for _, r := range results {
		if r.line == "" {
			// Not started before cancellation.
			continue
		}
		fmt.Fprintln(w, r.line)
		switch r.outcome {
		case outcomeSegmented:
			summary.Segmented++
		case outcomeSkipped:
			summary.Skipped++
		case outcomeFailed:
			summary.Failed++
		}
	}

	if ctxErr != nil {
		return summary, fmt.Errorf("batch interrupted: %w", ctxErr)
	}
	return summary, nil
}

func segmentOne(eng *engine.Engine, id, textPath, outPath string) result {
	changed, err := hasChanged(textPath, outPath)
	if err != nil {
		return result{outcomeFailed, fmt.Sprintf("failed    %s: %v", id, err)}
	}
	if !changed {
		return result{outcomeSkipped, fmt.Sprintf("skipped   %s", id)}
	}

	seg, err := SegmentFile(eng, textPath, id)
	if err != nil {
		return result{outcomeFailed, fmt.Sprintf("failed    %s: %v", id, err)}
	}
	if err := WriteSegmentation(outPath, seg); err != nil {
		return result{outcomeFailed, fmt.Sprintf("failed    %s: write error: %v", id, err)}
	}
	return result{outcomeSegmented, fmt.Sprintf("segmented %s (%d boundaries, %d chunks)", id, len(seg.Boundaries), len(seg.Chunks))}
}

// SegmentsPath returns where the segments file for id lives under docsDir.
func SegmentsPath(docsDir, id string) string {
	return filepath.Join(docsDir, SegmentsDir, id+segmentsSuffix)
}

// SegmentFile reads a UTF-8 text file and segments it under sourceID.
func SegmentFile(eng *engine.Engine, path, sourceID string) (types.Segmentation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Segmentation{}, fmt.Errorf("reading text %s: %w", path, err)
	}
	return eng.Segment(string(data), sourceID), nil
}

// WriteSegmentation marshals seg to a YAML file.
func WriteSegmentation(path string, seg types.Segmentation) error {
	data, err := yaml.Marshal(seg)
	if err != nil {
		return fmt.Errorf("marshaling segmentation: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadSegmentation loads a segments YAML file.
func ReadSegmentation(path string) (types.Segmentation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Segmentation{}, fmt.Errorf("reading segmentation %s: %w", path, err)
	}
	var seg types.Segmentation
	if err := yaml.Unmarshal(data, &seg); err != nil {
		return types.Segmentation{}, fmt.Errorf("parsing segmentation %s: %w", path, err)
	}
	return seg, nil
}

// ReadLabels loads an external label file, a YAML (or JSON) list of
// {index, section_type, confidence} records.
func ReadLabels(path string) ([]types.ExternalLabel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading labels %s: %w", path, err)
	}
	var labels []types.ExternalLabel
	if err := yaml.Unmarshal(data, &labels); err != nil {
		return nil, fmt.Errorf("parsing labels %s: %w", path, err)
	}
	return labels, nil
}

// hasChanged reports whether textPath is newer than outPath or outPath
// does not exist yet.
func hasChanged(textPath, outPath string) (bool, error) {
	textInfo, err := os.Stat(textPath)
	if err != nil {
		return false, fmt.Errorf("stat text %s: %w", textPath, err)
	}

	outInfo, err := os.Stat(outPath)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat output %s: %w", outPath, err)
	}

	return textInfo.ModTime().After(outInfo.ModTime()), nil
}
