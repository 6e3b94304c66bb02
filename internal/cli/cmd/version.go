package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
	commit    = "none"
)

// SetVersionInfo lets main() inject build-time values via -ldflags.
func SetVersionInfo(v, t, c string) {
	version, buildTime, commit = v, t, c
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the clipsx client version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("clipsx %s (built %s, commit %s)\n", version, buildTime, commit)
			return nil
		},
	}
}
