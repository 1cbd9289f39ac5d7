package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var queryLimit int

var queryCmd = &cobra.Command{
	Use:   "query \"<text>\"",
	Short: "Resolve one query and print the ranked results as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := context.Background()
		if err := a.apps.IndexApps(ctx, false); err != nil {
			a.logger.Warn().Err(err).Msg("app indexing failed, results may be partial")
		}
		if err := a.bookmarks.LoadBookmarks(ctx, false); err != nil {
			a.logger.Warn().Err(err).Msg("bookmark load failed, results may be partial")
		}

		results := a.orch.Resolve(ctx, args[0])
		if queryLimit > 0 && len(results) > queryLimit {
			results = results[:queryLimit]
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("encoding results: %w", err)
		}
		return nil
	},
}

func init() {
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 0, "cap the number of printed results (0 = all)")
}
