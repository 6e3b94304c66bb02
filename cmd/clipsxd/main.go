// Command clipsxd is the background daemon: it owns the clipboard
// capture loop and serves the IPC command surface that clipsx (the CLI)
// and any UI layer talk to.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/azure06/clipsx/internal/daemon"
)

var (
	version   = "dev"
	buildTime = "unknown"
	commit    = "none"
)

func main() {
	var (
		logLevel    = flag.String("log-level", "info", "log level (debug, info, warn, error)")
		showVersion = flag.Bool("version", false, "show version")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("clipsxd %s (built %s, commit %s)\n", version, buildTime, commit)
		os.Exit(0)
	}

	logger, err := newLogger(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "clipsxd: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	d := daemon.New(logger)
	if err := d.Initialize(); err != nil {
		logger.Fatal("failed to initialize daemon", zap.Error(err))
	}

	if err := d.Run(); err != nil {
		logger.Fatal("daemon exited with error", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	var lvl zap.AtomicLevel
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.Level = lvl
	return cfg.Build()
}
