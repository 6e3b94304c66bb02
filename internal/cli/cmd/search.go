package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	var (
		limit      int
		offset     int
		semantic   bool
		threshold  float64
		typesFlag  string
		favorites  bool
		pinnedOnly bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search clipboard history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reqArgs := map[string]any{
				"query":          args[0],
				"limit":          limit,
				"offset":         offset,
				"use_semantic":   semantic,
				"favorites_only": favorites,
				"pinned_only":    pinnedOnly,
			}
			if semantic && threshold > 0 {
				reqArgs["threshold"] = threshold
			}
			if typesFlag != "" {
				var filterTypes []any
				for _, t := range strings.Split(typesFlag, ",") {
					filterTypes = append(filterTypes, strings.TrimSpace(t))
				}
				reqArgs["filter_types"] = filterTypes
			}

			resp, err := send("search_clips_paginated", reqArgs)
			if err != nil {
				return err
			}
			return printClips(resp.Data)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "pagination offset")
	cmd.Flags().BoolVar(&semantic, "semantic", false, "rank by semantic similarity instead of full-text match")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "minimum cosine score for semantic results (default 0.3)")
	cmd.Flags().StringVar(&typesFlag, "types", "", "comma-separated content types to filter (text,html,rtf,image,files,office)")
	cmd.Flags().BoolVar(&favorites, "favorites", false, "only favorited clips")
	cmd.Flags().BoolVar(&pinnedOnly, "pinned", false, "only pinned clips")
	return cmd
}
