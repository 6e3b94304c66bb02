package cmd

import (
	"go.uber.org/zap"

	"github.com/azure06/clipsx/internal/config"
)

// Shared state set up once in root.go's PersistentPreRun and read by
// every subcommand.
var (
	socketFlag string
	jsonOutput bool
	verbose    bool
	noColor    bool

	logger *zap.Logger
	paths  *config.Paths
)

func socketPath() string {
	if socketFlag != "" {
		return socketFlag
	}
	if paths != nil {
		return paths.SocketPath
	}
	return ""
}
