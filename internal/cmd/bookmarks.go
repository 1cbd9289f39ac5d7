package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var bookmarksReload bool

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "Load the merged browser bookmark list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := context.Background()
		if bookmarksReload {
			err = a.bookmarks.ReloadBookmarks(ctx)
		} else {
			err = a.bookmarks.LoadBookmarks(ctx, false)
		}
		if err != nil {
			return fmt.Errorf("loading bookmarks: %w", err)
		}
		for _, b := range a.bookmarks.GetAllBookmarks() {
			fmt.Printf("%s\t%s\n", b.Name, b.URL)
		}
		return nil
	},
}

func init() {
	bookmarksCmd.Flags().BoolVarP(&bookmarksReload, "reload", "r", false, "re-read every source, bypassing the cache")
}
