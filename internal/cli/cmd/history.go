package cmd

import (
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit         int
		offset        int
		favoritesOnly bool
		pinnedOnly    bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent clips",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := send("get_recent_clips_paginated", map[string]any{
				"limit":          limit,
				"offset":         offset,
				"favorites_only": favoritesOnly,
				"pinned_only":    pinnedOnly,
			})
			if err != nil {
				return err
			}
			return printClips(resp.Data)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of clips to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "pagination offset")
	cmd.Flags().BoolVar(&favoritesOnly, "favorites", false, "only favorited clips")
	cmd.Flags().BoolVar(&pinnedOnly, "pinned", false, "only pinned clips")
	return cmd
}
