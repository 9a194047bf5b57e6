// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/section-engine/internal/taxonomy"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Inspect and validate taxonomy definitions",
	Long: `Taxonomy works with the section taxonomy: the section types, their
keyword, context and structure-cue lists, and the ordinal position table.
Without --taxonomy the built-in tender taxonomy is used.`,
}

var taxonomyValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a taxonomy definition for errors",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}
		def := t.Definition()
		fmt.Fprintf(os.Stdout, "taxonomy %s OK: %d sections, %d ordinal rules\n",
			t.Version(), len(def.Sections), len(def.Ordinals))
		return nil
	},
}

var taxonomyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active taxonomy",
	Long: `Show prints the active taxonomy. The built-in definition is printed
verbatim; a loaded one is printed as JSON with --json, or as a section
summary otherwise.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable()
		if err != nil {
			return err
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(t.Definition())
		}

		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			_, err := os.Stdout.Write(taxonomy.DefaultDefinition())
			return err
		}

		fmt.Fprintf(os.Stdout, "%-4s  %-26s  %s\n", "Prio", "Section", "Keywords")
		for _, name := range t.Names() {
			e, _ := t.Lookup(name)
			fmt.Fprintf(os.Stdout, "%-4d  %-26s  %v\n", e.Priority, e.Name, e.Keywords)
		}
		fmt.Fprintln(os.Stdout)
		for _, rule := range t.Definition().Ordinals {
			fmt.Fprintf(os.Stdout, "ordinal %-2d  default %s\n", rule.Position, rule.Default)
		}
		return nil
	},
}

func init() {
	taxonomyShowCmd.Flags().Bool("json", false, "print the definition as JSON")
	taxonomyShowCmd.Flags().Bool("raw", false, "print the built-in YAML definition")

	taxonomyCmd.AddCommand(taxonomyValidateCmd)
	taxonomyCmd.AddCommand(taxonomyShowCmd)

	rootCmd.AddCommand(taxonomyCmd)
}
