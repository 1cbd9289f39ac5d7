package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:     "lumina",
	Version: Version,
	Short:   "Lumina resolves launcher queries into ranked results",
	Long: "Lumina is the query-resolution core of a desktop quick-launcher:\n" +
		"it indexes installed applications and browser bookmarks, detects the\n" +
		"intent behind a query, fans out across every matching source and\n" +
		"prints the ranked results as JSON.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(bookmarksCmd)
}
