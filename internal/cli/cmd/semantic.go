package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSemanticCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "semantic",
		Short: "Manage the semantic search model",
	}

	var initModel string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Load (downloading if needed) a semantic embedding model",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := send("init_semantic_search", map[string]any{"model": initModel})
			if err != nil {
				return err
			}
			fmt.Println("semantic search enabled")
			return nil
		},
	}
	initCmd.Flags().StringVar(&initModel, "model", "", "model name (default: all-MiniLM-L6-v2)")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show the currently loaded model",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := send("get_semantic_search_status", nil)
			if err != nil {
				return err
			}
			return printJSON(resp.Data)
		},
	}

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "List downloaded models",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := send("get_downloaded_models", nil)
			if err != nil {
				return err
			}
			return printJSON(resp.Data)
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <model>",
		Short: "Delete a downloaded model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := send("delete_semantic_model", map[string]any{"model": args[0]})
			return err
		},
	}

	cmd.AddCommand(initCmd, statusCmd, modelsCmd, deleteCmd)
	return cmd
}
