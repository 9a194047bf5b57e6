// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/section-engine/internal/batch"
	"github.com/pdiddy/section-engine/internal/engine"
	"github.com/pdiddy/section-engine/pkg/types"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile <segments.yaml>",
	Short: "Merge external classifier labels into a segmentation",
	Long: `Reconcile applies advisory labels from an external classifier to the
chunks of a segmentation file. The labels file is a YAML or JSON list of
{index, section_type, confidence} records. A chunk keeps its own label
when its confidence is at least 0.7; otherwise the external label wins.
Labels with unknown section types are ignored.

The result is printed, or written back with --write.`,
	Args: cobra.ExactArgs(1),
	RunE: runReconcile,
}

func runReconcile(cmd *cobra.Command, args []string) error {
	labelsPath, _ := cmd.Flags().GetString("labels")
	if labelsPath == "" {
		return fmt.Errorf("--labels is required")
	}

	table, err := loadTable()
	if err != nil {
		return err
	}
	// Sizing is irrelevant to reconciliation; the defaults always validate.
	eng, err := engine.New(table, types.DefaultSegmentationConfig())
	if err != nil {
		return err
	}

	seg, err := batch.ReadSegmentation(args[0])
	if err != nil {
		return err
	}
	labels, err := batch.ReadLabels(labelsPath)
	if err != nil {
		return err
	}

	out := eng.Reconcile(seg, labels)

	if write, _ := cmd.Flags().GetBool("write"); write {
		if err := batch.WriteSegmentation(args[0], out); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "reconciled %s (%d labels)\n", args[0], len(labels))
		return nil
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return writeSegmentations(os.Stdout, []types.Segmentation{out}, jsonOutput)
}

func init() {
	reconcileCmd.Flags().String("labels", "", "external label file (YAML or JSON)")
	reconcileCmd.Flags().Bool("write", false, "write the result back to the segmentation file")
	reconcileCmd.Flags().Bool("json", false, "output JSON instead of YAML")

	rootCmd.AddCommand(reconcileCmd)
}
