// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/section-engine/internal/batch"
	"github.com/pdiddy/section-engine/pkg/types"
)

var segmentCmd = &cobra.Command{
	Use:   "segment [files...]",
	Short: "Split documents into labeled sections and chunks",
	Long: `Segment detects section boundaries in UTF-8 text and carves the text
into labeled chunks. Each file argument is segmented and printed as YAML
(or JSON with --json); with no arguments the text is read from stdin.

With --batch, every .txt file in docs/text/ is segmented and written to
docs/segments/<id>-segments.yaml. Files whose output is newer than the
text are skipped.`,
	RunE: runSegment,
}

func runSegment(cmd *cobra.Command, args []string) error {
	eng, cfg, err := newEngine(cmd)
	if err != nil {
		return err
	}

	if useBatch, _ := cmd.Flags().GetBool("batch"); useBatch {
		summary, err := batch.SegmentAll(cmd.Context(), eng, cfg, os.Stdout)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "\nBatch summary: %d segmented, %d skipped, %d failed (total: %d)\n",
			summary.Segmented, summary.Skipped, summary.Failed, summary.Total())
		if summary.HasFailures() {
			return fmt.Errorf("%d document(s) failed segmentation", summary.Failed)
		}
		return nil
	}

	var segs []types.Segmentation
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		sourceID, _ := cmd.Flags().GetString("source-id")
		segs = append(segs, eng.Segment(string(data), sourceID))
	}
	for _, path := range args {
		id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		seg, err := batch.SegmentFile(eng, path, id)
		if err != nil {
			return err
		}
		segs = append(segs, seg)
	}

	withBoundaries, _ := cmd.Flags().GetBool("boundaries")
	if !withBoundaries {
		for i := range segs {
			segs[i].Boundaries = nil
		}
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return writeSegmentations(os.Stdout, segs, jsonOutput)
}

// writeSegmentations prints one document as a single object and several as
// a list.
func writeSegmentations(w io.Writer, segs []types.Segmentation, jsonOutput bool) error {
	var v any = segs
	if len(segs) == 1 {
		v = segs[0]
	}

	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(v)
}

func init() {
	addSizingFlags(segmentCmd)
	segmentCmd.Flags().Int("workers", 4, "documents segmented concurrently in batch mode")
	segmentCmd.Flags().Bool("batch", false, "segment every changed document in docs-dir/text/")
	segmentCmd.Flags().Bool("boundaries", false, "include the raw boundary list in the output")
	segmentCmd.Flags().Bool("json", false, "output JSON instead of YAML")
	segmentCmd.Flags().String("source-id", "", "source id for stdin input (default: derived from content)")

	rootCmd.AddCommand(segmentCmd)
}
