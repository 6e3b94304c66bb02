// Command clipsx is the CLI client for the clipsxd clipboard daemon.
package main

import (
	"github.com/azure06/clipsx/internal/cli/cmd"
)

var (
	version   = "dev"
	buildTime = "unknown"
	commit    = "none"
)

func main() {
	cmd.SetVersionInfo(version, buildTime, commit)
	cmd.Execute()
}
