package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var indexForce bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or refresh the application index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := context.Background()
		if indexForce {
			err = a.apps.ReindexApps(ctx)
		} else {
			err = a.apps.IndexApps(ctx, false)
		}
		if err != nil {
			return fmt.Errorf("indexing applications: %w", err)
		}
		fmt.Printf("%d applications indexed\n", len(a.apps.GetAllApps()))
		return nil
	},
}

func init() {
	indexCmd.Flags().BoolVarP(&indexForce, "force", "f", false, "ignore the cache and rescan")
}
