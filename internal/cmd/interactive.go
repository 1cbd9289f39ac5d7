package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lidayx/lumina-sub000/pkg/launcher"
	"github.com/lidayx/lumina-sub000/pkg/result"
)

// interactiveCmd drives the debounce controller from stdin, one query per
// line. It is what a UI host would do over IPC.
var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Read queries from stdin and print ranked results per line",
	Args:  cobra.NoArgs,
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
		if err := a.bookmarks.StartWatching(ctx); err != nil {
			a.logger.Warn().Err(err).Msg("bookmark watch unavailable")
		}

		enc := json.NewEncoder(os.Stdout)
		ctrl := launcher.NewController(
			a.orch.Resolve,
			func(token string, results []result.SearchResult) {
				if err := enc.Encode(results); err != nil {
					a.logger.Warn().Err(err).Msg("encoding results")
				}
			},
			launcher.WithDelays(a.settings.CompletionDelay(), a.settings.NormalDelay()),
		)
		defer ctrl.Stop()

		fmt.Fprintln(os.Stderr, "type a query per line, ctrl-d to exit")
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			ctrl.Submit(sc.Text())
		}
		return sc.Err()
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
