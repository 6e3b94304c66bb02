// Package daemon wires the capture and retrieval components into one
// long-running process: load configuration, open storage, start the
// capture loop, and serve the IPC command surface until a shutdown signal
// arrives.
package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/azure06/clipsx/internal/config"
	"github.com/azure06/clipsx/internal/ingest"
	"github.com/azure06/clipsx/internal/ipc"
	"github.com/azure06/clipsx/internal/monitor"
	"github.com/azure06/clipsx/internal/platform"
	"github.com/azure06/clipsx/internal/repository"
	"github.com/azure06/clipsx/internal/retrieval"
	"github.com/azure06/clipsx/internal/semantic"
	"github.com/azure06/clipsx/internal/sidecar"
	"github.com/azure06/clipsx/internal/types"
)

// hasNativeChangeCounter records, per GOOS, whether the platform adapter's
// ChangeCounter is authoritative enough to use as the monitor's fast path.
// darwin's NSPasteboard.changeCount always is; X11 has none (the linux
// adapter's counter only reflects this process's own writes) and Win32's
// GetClipboardSequenceNumber is reliable enough to trust.
var hasNativeChangeCounter = map[string]bool{
	"darwin":  true,
	"windows": true,
	"linux":   false,
}

// Daemon owns every long-lived component for one process lifetime.
type Daemon struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger

	paths    *config.Paths
	settings *config.Settings

	adapter     platform.Adapter
	repo        *repository.Repository
	sidecars    *sidecar.Store
	semantic    *semantic.Engine
	monitor     *monitor.Monitor
	coordinator *ingest.Coordinator
	retrieval   *retrieval.Engine
	ipcServer   *ipc.Server
}

// New constructs a Daemon with a cancellable root context. Initialize must
// be called before Run.
func New(logger *zap.Logger) *Daemon {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Daemon{ctx: ctx, cancel: cancel, logger: logger}
}

// Initialize resolves paths, loads settings, and brings up every
// component in dependency order: storage before capture, capture before
// IPC (handlers close over the other components).
func (d *Daemon) Initialize() error {
	paths, err := config.ResolvePaths()
	if err != nil {
		return fmt.Errorf("daemon: resolve paths: %w", err)
	}
	d.paths = paths

	settings, err := config.Load(paths.ConfigFile)
	if err != nil {
		return fmt.Errorf("daemon: load settings: %w", err)
	}
	d.settings = settings

	d.logger.Info("storage: opening repository", zap.String("path", paths.DBFile))
	repo, err := repository.Open(paths.DBFile)
	if err != nil {
		return fmt.Errorf("daemon: open repository: %w", err)
	}
	d.repo = repo

	sidecars, err := sidecar.New(filepath.Join(paths.DataRoot, "clipboard_data"))
	if err != nil {
		return fmt.Errorf("daemon: open sidecar store: %w", err)
	}
	d.sidecars = sidecars

	d.semantic = semantic.NewEngine(paths.ModelCache, d.logger)
	if changed := settings.SelfHeal(paths.ModelCache, modelPresentOnDisk); changed {
		d.logger.Info("self-heal: clearing semantic_search_enabled, model not on disk",
			zap.String("model", settings.SemanticModel))
		if err := config.Save(paths.ConfigFile, settings); err != nil {
			d.logger.Warn("self-heal: failed to persist settings", zap.Error(err))
		}
	}
	if settings.SemanticSearchEnabled {
		if err := d.semantic.InitModel(d.ctx, settings.SemanticModel); err != nil {
			d.logger.Warn("semantic: failed to load model at startup", zap.Error(err))
		}
	}

	adapter := platform.New(d.logger)
	d.adapter = adapter

	countsNatively := hasNativeChangeCounter[runtime.GOOS]
	d.monitor = monitor.New(adapter, countsNatively)

	coordinator := ingest.New(adapter, d.monitor, repo, sidecars, d.semantic, d.logger)
	d.coordinator = coordinator

	d.retrieval = retrieval.New(repo, d.semantic)

	d.ipcServer = ipc.NewServer(d.handleRequest)
	coordinator.Publish = func(clip *types.Clip) {
		d.ipcServer.Publish(ipc.Event{Name: ipc.EventClipboardChanged, Data: clip})
	}
	go func() {
		for ev := range d.semantic.Progress() {
			d.ipcServer.Publish(ipc.Event{Name: ipc.EventDownloadProgress, Data: ev})
		}
	}()

	d.logger.Info("daemon initialized", zap.String("data_root", paths.DataRoot))
	return nil
}

// Run starts the capture loop and the IPC server and blocks until a
// termination signal arrives, then shuts everything down.
func (d *Daemon) Run() error {
	interval := time.Duration(d.settings.PollingIntervalMS) * time.Millisecond
	go d.coordinator.Run(d.ctx, interval)

	go func() {
		d.logger.Info("ipc: listening", zap.String("socket", d.paths.SocketPath))
		if err := d.ipcServer.ListenAndServe(d.paths.SocketPath); err != nil {
			d.logger.Error("ipc: server stopped", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	d.logger.Info("shutdown signal received")
	return d.Shutdown()
}

// Shutdown cancels the capture loop and closes storage. The IPC listener
// closes implicitly when ListenAndServe's Accept call errors at process
// exit; nothing here needs to wait on it.
func (d *Daemon) Shutdown() error {
	d.cancel()
	d.semantic.UnloadModel()
	if err := d.repo.Close(); err != nil {
		return fmt.Errorf("daemon: close repository: %w", err)
	}
	d.logger.Info("daemon shutdown complete")
	return nil
}

func modelPresentOnDisk(modelCache, name string) bool {
	info, err := os.Stat(filepath.Join(modelCache, name))
	return err == nil && info.IsDir()
}
