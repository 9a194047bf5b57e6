// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the section-engine CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/section-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// rootCmd is the base command for the section-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "section-engine",
	Short: "Detect and label the sections of legal and tender documents",
	Long: `section-engine splits extracted document text into labeled structural
sections (object, economic terms, deadlines, guarantees, ...) and carves
them into size-bounded chunks for downstream scoring and search.

Documents live under docs/text/ as UTF-8 text; segmentations are written
to docs/segments/ and can be loaded into a local SQLite store.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(secrets.DefaultDir, os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", s.Keys())
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./section-engine.yaml or ~/.config/section-engine/section-engine.yaml)")
	rootCmd.PersistentFlags().String("taxonomy", "", "taxonomy definition file (default: built-in tender taxonomy)")
	rootCmd.PersistentFlags().String("docs-dir", "docs", "base directory for documents (contains text/, segments/)")

	viper.BindPFlag("taxonomy", rootCmd.PersistentFlags().Lookup("taxonomy"))
	viper.BindPFlag("docs_dir", rootCmd.PersistentFlags().Lookup("docs-dir"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("section-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "section-engine"))
		}
	}

	viper.SetEnvPrefix("SECTION_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
