package cmd

import (
	"github.com/spf13/cobra"
)

func newCollectionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collection",
		Short: "Manage clip collections",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "create <name>",
			Short: "Create a collection",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				resp, err := send("collection.create", map[string]any{"name": args[0]})
				if err != nil {
					return err
				}
				return printJSON(resp.Data)
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List collections",
			RunE: func(cmd *cobra.Command, args []string) error {
				resp, err := send("collection.list", nil)
				if err != nil {
					return err
				}
				return printJSON(resp.Data)
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a collection",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := send("collection.delete", map[string]any{"id": args[0]})
				return err
			},
		},
		&cobra.Command{
			Use:   "add <clip-id> <collection-id>",
			Short: "Add a clip to a collection",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := send("collection.add", map[string]any{"clip_id": args[0], "collection_id": args[1]})
				return err
			},
		},
		&cobra.Command{
			Use:   "remove <clip-id> <collection-id>",
			Short: "Remove a clip from a collection",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := send("collection.remove", map[string]any{"clip_id": args[0], "collection_id": args[1]})
				return err
			},
		},
	)
	return cmd
}
