// Package cmd implements the clipsx command-line front end: a thin cobra
// client that speaks the IPC protocol to a running clipsxd daemon.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/azure06/clipsx/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "clipsx",
	Short: "Clipboard history, search and restore, backed by clipsxd",
	Long: `clipsx is the command-line client for the clipsxd clipboard daemon:
  - browse and search clipboard history, with optional semantic ranking
  - restore a past clip back onto the live pasteboard
  - tag and collect clips for later retrieval`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

// Execute runs the root command, exiting the process on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&socketFlag, "socket", "", "IPC socket/pipe path (default: resolved from the OS data directory)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print raw JSON instead of a formatted table")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable ANSI color in table and detail output")

	rootCmd.AddCommand(
		newHistoryCmd(),
		newSearchCmd(),
		newClipCmd(),
		newTagCmd(),
		newCollectionCmd(),
		newSemanticCmd(),
		newDaemonCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
}

func setup() error {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	built, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	logger = built

	if socketFlag == "" {
		resolved, err := config.ResolvePaths()
		if err != nil {
			return fmt.Errorf("resolve data directory: %w", err)
		}
		paths = resolved
	}
	return nil
}
