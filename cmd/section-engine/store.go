// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/section-engine/internal/store"
	"github.com/pdiddy/section-engine/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the segment store (ingest, retrieve, export)",
	Long: `Store manages a local SQLite index of segmented documents. Use
subcommands to load segmentation files, query chunks by text or section,
or export the index.`,
}

var storeIngestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load segmentation files into the store",
	Long: `Ingest reads segmentation YAML files from docs/segments/, indexes their
chunks in a SQLite database, and writes an export file. Unchanged
documents are skipped on subsequent runs.`,
	RunE: runStoreIngest,
}

func runStoreIngest(cmd *cobra.Command, args []string) error {
	s, err := store.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	summary, err := s.Ingest(cmd.Context(), os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d document(s) failed indexing", summary.Failed)
	}
	return nil
}

var storeRetrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Query stored chunks by text, section, or document",
	Long: `Retrieve searches stored chunks. Query words are matched against the
accent-folded chunk text, so "garantia" finds "GARANTÍA". Results can be
filtered by --section and --source.

With --counts, the number of stored chunks per section is printed instead.`,
	RunE: runStoreRetrieve,
}

func runStoreRetrieve(cmd *cobra.Command, args []string) error {
	s, err := store.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	if counts, _ := cmd.Flags().GetBool("counts"); counts {
		byType, err := s.SectionCounts(cmd.Context())
		if err != nil {
			return err
		}
		return formatSectionCounts(os.Stdout, byType)
	}

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --section, or --source")
	}

	results, err := s.Retrieve(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRetrieveOutput(os.Stdout, results, jsonOutput)
}

func formatRetrieveOutput(w io.Writer, results []store.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-20s  %-5s  %-26s  %-4s  %s\n",
		"Document", "Chunk", "Section", "Conf", "Content")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for _, r := range results {
		fmt.Fprintf(w, "%-20s  %-5d  %-26s  %.2f  %s\n",
			truncate(r.SourceID, 20), r.Index, r.SectionType, r.Confidence,
			truncate(strings.Join(strings.Fields(r.Content), " "), 50))
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

func formatSectionCounts(w io.Writer, byType map[string]int) error {
	names := make([]string, 0, len(byType))
	total := 0
	for name, n := range byType {
		names = append(names, name)
		total += n
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(w, "%-26s  %d\n", name, byType[name])
	}
	fmt.Fprintf(w, "\n%d chunks\n", total)
	return nil
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored chunks to YAML or JSON",
	Long: `Export writes every stored chunk (or a filtered subset) to
data/index/export.yaml or export.json. Supports the same filter flags as
retrieve for partial exports.`,
	RunE: runStoreExport,
}

func runStoreExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	s, err := store.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer s.Close()

	opts := queryOptsFromFlags(cmd, args)

	var path string
	switch format {
	case "yaml", "":
		path, err = s.ExportYAML(cmd.Context(), opts)
	case "json":
		path, err = s.ExportJSON(cmd.Context(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Println("Exported to", path)
	return nil
}

func storeConfig(cmd *cobra.Command) types.StoreConfig {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	if f := cmd.Flags().Lookup("data-dir"); (f == nil || !f.Changed) && viper.IsSet("data_dir") {
		dataDir = viper.GetString("data_dir")
	}
	if dataDir == "" {
		dataDir = "data"
	}
	docsDir := viper.GetString("docs_dir")
	if docsDir == "" {
		docsDir = "docs"
	}

	return types.StoreConfig{
		DataDir:    dataDir,
		DocsDir:    docsDir,
		MaxResults: intSetting(cmd, "max-results", "max_results", 20),
	}
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) store.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	section, _ := cmd.Flags().GetString("section")
	source, _ := cmd.Flags().GetString("source")
	limit, _ := cmd.Flags().GetInt("limit")

	return store.QueryOptions{
		Query:       queryText,
		SectionType: strings.ToUpper(section),
		SourceID:    source,
		MaxResults:  limit,
	}
}

func init() {
	storeCmd.PersistentFlags().String("data-dir", "data", "base directory for the store (contains index/)")
	storeCmd.PersistentFlags().Int("max-results", 20, "maximum number of query results")

	storeRetrieveCmd.Flags().String("query", "", "text to search for")
	storeRetrieveCmd.Flags().String("section", "", "filter by section type, e.g. GARANTIAS")
	storeRetrieveCmd.Flags().String("source", "", "filter by document id")
	storeRetrieveCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	storeRetrieveCmd.Flags().Bool("counts", false, "print chunk counts per section")
	storeRetrieveCmd.Flags().Bool("json", false, "output results as JSON")

	storeExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	storeExportCmd.Flags().String("query", "", "text filter for partial export")
	storeExportCmd.Flags().String("section", "", "filter by section type for partial export")
	storeExportCmd.Flags().String("source", "", "filter by document id for partial export")
	storeExportCmd.Flags().Int("limit", 0, "maximum chunks to export (0 = all)")

	storeCmd.AddCommand(storeIngestCmd)
	storeCmd.AddCommand(storeRetrieveCmd)
	storeCmd.AddCommand(storeExportCmd)

	rootCmd.AddCommand(storeCmd)
}
