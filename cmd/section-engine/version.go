package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/section-engine/internal/taxonomy"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of section-engine",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("section-engine %s\n", version)
		if viper.GetString("taxonomy") != "" {
			return
		}
		if t, err := taxonomy.Default(); err == nil {
			fmt.Printf("built-in taxonomy %s\n", t.Version())
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
