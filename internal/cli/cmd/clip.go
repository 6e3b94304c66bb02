package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/azure06/clipsx/internal/ipc"
	"github.com/azure06/clipsx/pkg/format"
)

func newClipCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clip",
		Short: "Operate on a single clip by id",
	}
	cmd.AddCommand(
		newClipGetCmd(),
		newClipCopyCmd(),
		newClipPasteCmd(),
		newClipDeleteCmd(),
		newClipPinCmd(),
		newClipFavoriteCmd(),
		newClipClearCmd(),
		newClipWatchCmd(),
	)
	return cmd
}

// newClipWatchCmd streams clipboard_changed events from a running daemon
// until the process is interrupted. It upgrades the IPC connection with
// CmdSubscribe rather than polling get_recent_clips_paginated.
func newClipWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print each new clip as it is captured",
		RunE: func(cmd *cobra.Command, args []string) error {
			events := make(chan ipc.Event)
			errc := make(chan error, 1)
			go func() { errc <- ipc.Subscribe(socketPath(), events) }()

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			for {
				select {
				case ev := <-events:
					if jsonOutput {
						enc.Encode(ev)
						continue
					}
					clip, ok := asClip(ev.Data)
					if ev.Name == ipc.EventClipboardChanged && ok {
						fmt.Printf("[%s] %s: %s\n", clip.ID, clip.ContentType, truncate(clip.ContentText, 80))
					} else {
						enc.Encode(ev)
					}
				case err := <-errc:
					return err
				}
			}
		},
	}
}

func newClipGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one clip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := send("get_clip_by_id", map[string]any{"id": args[0]})
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(resp.Data)
			}
			clip, ok := asClip(resp.Data)
			if !ok {
				fmt.Println("(not found)")
				return nil
			}
			opts := format.DefaultOptions()
			opts.UseColors = !noColor
			fmt.Println(format.FormatClip(clip, opts))
			return nil
		},
	}
}

func newClipCopyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copy [text]",
		Short: "Copy text onto the live clipboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			if len(args) > 0 {
				text = strings.Join(args, " ")
			} else {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(data)
			}
			_, err := send("copy_to_clipboard", map[string]any{"text": text})
			return err
		},
	}
	return cmd
}

func newClipPasteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paste <id>",
		Short: "Restore a stored clip to the live clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := send("paste_clip", map[string]any{"id": args[0]})
			return err
		},
	}
}

func newClipDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a clip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := send("delete_clip", map[string]any{"id": args[0]})
			return err
		},
	}
}

func newClipPinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pin <id>",
		Short: "Toggle a clip's pinned flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := send("toggle_pin", map[string]any{"id": args[0]})
			if err != nil {
				return err
			}
			fmt.Printf("pinned: %v\n", resp.Data)
			return nil
		},
	}
}

func newClipFavoriteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <id>",
		Short: "Toggle a clip's favorite flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := send("toggle_favorite", map[string]any{"id": args[0]})
			if err != nil {
				return err
			}
			fmt.Printf("favorite: %v\n", resp.Data)
			return nil
		},
	}
}

func newClipClearCmd() *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "clear-all",
		Short: "Delete every clip in history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("refusing to clear all history without --yes")
			}
			_, err := send("clear_all_clips", nil)
			return err
		},
	}
	cmd.Flags().BoolVar(&confirm, "yes", false, "confirm the destructive clear")
	return cmd
}
