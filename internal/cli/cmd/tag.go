package cmd

import (
	"github.com/spf13/cobra"
)

func newTagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage clip tags",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "create <name>",
			Short: "Create a tag",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				resp, err := send("tag.create", map[string]any{"name": args[0]})
				if err != nil {
					return err
				}
				return printJSON(resp.Data)
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List tags",
			RunE: func(cmd *cobra.Command, args []string) error {
				resp, err := send("tag.list", nil)
				if err != nil {
					return err
				}
				return printJSON(resp.Data)
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a tag",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := send("tag.delete", map[string]any{"id": args[0]})
				return err
			},
		},
		&cobra.Command{
			Use:   "attach <clip-id> <tag-id>",
			Short: "Attach a tag to a clip",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := send("tag.attach", map[string]any{"clip_id": args[0], "tag_id": args[1]})
				return err
			},
		},
		&cobra.Command{
			Use:   "detach <clip-id> <tag-id>",
			Short: "Detach a tag from a clip",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := send("tag.detach", map[string]any{"clip_id": args[0], "tag_id": args[1]})
				return err
			},
		},
	)
	return cmd
}
