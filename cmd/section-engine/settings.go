// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/section-engine/internal/engine"
	"github.com/pdiddy/section-engine/internal/taxonomy"
	"github.com/pdiddy/section-engine/pkg/types"
)

// loadTable returns the taxonomy named by the taxonomy setting, or the
// built-in one when it is empty.
func loadTable() (*taxonomy.Table, error) {
	path := viper.GetString("taxonomy")
	if path == "" {
		return taxonomy.Default()
	}
	return taxonomy.Load(path)
}

// intSetting resolves an integer option: an explicit flag wins, then the
// config file or environment under key, then def.
func intSetting(cmd *cobra.Command, flag, key string, def int) int {
	if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
		v, _ := cmd.Flags().GetInt(flag)
		return v
	}
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	return def
}

// segmentationConfig builds chunk sizing from flags and configuration.
// --classifier-driven pins the overlap to the classifier one unless
// --chunk-overlap is given explicitly.
func segmentationConfig(cmd *cobra.Command) types.SegmentationConfig {
	cfg := types.DefaultSegmentationConfig()

	cfg.ChunkSize = intSetting(cmd, "chunk-size", "chunk_size", cfg.ChunkSize)
	cfg.ChunkOverlap = intSetting(cmd, "chunk-overlap", "chunk_overlap", cfg.ChunkOverlap)
	if classifierDriven(cmd) && !cmd.Flags().Changed("chunk-overlap") {
		cfg.ChunkOverlap = types.ClassifierDrivenChunkOverlap
	}
	cfg.MinBoundaryGap = intSetting(cmd, "min-gap", "min_gap", cfg.MinBoundaryGap)
	cfg.Workers = intSetting(cmd, "workers", "workers", cfg.Workers)
	cfg.TaxonomyPath = viper.GetString("taxonomy")
	if dir := viper.GetString("docs_dir"); dir != "" {
		cfg.DocsDir = dir
	}
	if seps := viper.GetStringSlice("separators"); len(seps) > 0 {
		cfg.Separators = seps
	}
	return cfg
}

func classifierDriven(cmd *cobra.Command) bool {
	if cmd.Flags().Lookup("classifier-driven") == nil {
		return false
	}
	on, _ := cmd.Flags().GetBool("classifier-driven")
	return on
}

// newEngine loads the taxonomy and builds an engine for cmd's options.
func newEngine(cmd *cobra.Command) (*engine.Engine, types.SegmentationConfig, error) {
	table, err := loadTable()
	if err != nil {
		return nil, types.SegmentationConfig{}, err
	}
	cfg := segmentationConfig(cmd)
	eng, err := engine.New(table, cfg)
	if err != nil {
		return nil, types.SegmentationConfig{}, err
	}
	return eng, cfg, nil
}

// addSizingFlags registers the chunk sizing flags shared by segment and
// serve.
func addSizingFlags(cmd *cobra.Command) {
	cmd.Flags().Int("chunk-size", types.DefaultChunkSize, "maximum chunk length in characters")
	cmd.Flags().Int("chunk-overlap", types.DefaultChunkOverlap, "overlap between split pieces in characters")
	cmd.Flags().Int("min-gap", types.DefaultMinBoundaryGap, "minimum distance in bytes between boundaries")
	cmd.Flags().Bool("classifier-driven", false, "use the classifier-driven overlap (100) unless --chunk-overlap is set")
}
