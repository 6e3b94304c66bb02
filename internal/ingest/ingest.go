// Package ingest implements the Ingestion Coordinator: a single cooperative
// loop that ties the change monitor, classifier, repository, sidecar store
// and semantic engine together, turning one detected clipboard change into
// one stored clip and one published event.
package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/azure06/clipsx/internal/classifier"
	"github.com/azure06/clipsx/internal/monitor"
	"github.com/azure06/clipsx/internal/platform"
	"github.com/azure06/clipsx/internal/repository"
	"github.com/azure06/clipsx/internal/semantic"
	"github.com/azure06/clipsx/internal/sidecar"
	"github.com/azure06/clipsx/internal/types"
)

// DefaultInterval is the reference tick cadence.
const DefaultInterval = 500 * time.Millisecond

// Embedder is the subset of *semantic.Engine the coordinator needs, so
// tests can substitute a fake without loading an ONNX model.
type Embedder interface {
	IsReady() bool
	Embed(ctx context.Context, text string) ([]float32, error)
}

var _ Embedder = (*semantic.Engine)(nil)

// Coordinator runs the capture loop. It owns no goroutine until Run is
// called, and it is the only writer to ingestion state (repository writes
// aside, which the DB itself serializes).
type Coordinator struct {
	adapter  platform.Adapter
	monitor  *monitor.Monitor
	repo     *repository.Repository
	sidecars *sidecar.Store
	embedder Embedder
	logger   *zap.Logger

	// Publish is called with every clipboard_changed clip. Nil is valid
	// (no subscribers yet); callers typically wire this to an ipc.Server
	// event broadcaster.
	Publish func(clip *types.Clip)
}

// New builds a Coordinator. embedder may be nil if no semantic model is
// configured; embeddings are then simply never scheduled.
func New(adapter platform.Adapter, mon *monitor.Monitor, repo *repository.Repository, sidecars *sidecar.Store, embedder Embedder, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		adapter:  adapter,
		monitor:  mon,
		repo:     repo,
		sidecars: sidecars,
		embedder: embedder,
		logger:   logger,
	}
}

// Run loops at interval until ctx is cancelled. Every tick's error is
// logged, never fatal: a bad read or a transient DB error must not end
// capture for the rest of the session.
func (c *Coordinator) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Tick(ctx); err != nil {
				c.logger.Warn("ingest tick failed", zap.Error(err))
			}
		}
	}
}

// Tick runs the five-step sequence once: check, classify, dedupe-or-insert,
// re-fetch, publish. It is exported so tests and a manual "capture now"
// command can drive it directly.
func (c *Coordinator) Tick(ctx context.Context) error {
	result, err := c.monitor.Check()
	if err != nil {
		return fmt.Errorf("ingest: check clipboard: %w", err)
	}
	if !result.Changed {
		return nil
	}

	now := time.Now()
	clip, isNew, err := c.dedupeOrInsert(result, now)
	if err != nil {
		return fmt.Errorf("ingest: store clip: %w", err)
	}

	if isNew && c.embedder != nil && c.embedder.IsReady() {
		go c.embedAsync(clip.ID, clip.ContentText)
	}

	saved, err := c.repo.GetByID(clip.ID)
	if err != nil {
		return fmt.Errorf("ingest: refetch clip: %w", err)
	}
	if saved == nil {
		return fmt.Errorf("ingest: clip %s vanished after write", clip.ID)
	}

	if c.Publish != nil {
		c.Publish(saved)
	}
	return nil
}

// dedupeOrInsert implements step 3: touch an existing row on hash
// collision, or build and insert a brand new one.
func (c *Coordinator) dedupeOrInsert(result monitor.Result, now time.Time) (*types.Clip, bool, error) {
	existing, err := c.repo.FindByHash(result.Hash)
	if err != nil {
		return nil, false, fmt.Errorf("find by hash: %w", err)
	}
	if existing != nil {
		if err := c.repo.Touch(existing.ID, now.Unix()); err != nil {
			return nil, false, fmt.Errorf("touch: %w", err)
		}
		return existing, false, nil
	}

	clip := buildClip(result, now)

	paths, err := c.sidecars.Write(clip.ID, result.Content)
	if err != nil {
		return nil, false, fmt.Errorf("write sidecars: %w", err)
	}
	clip.ImagePath = paths.ImagePath
	clip.SVGPath = paths.SVGPath
	clip.PDFPath = paths.PDFPath
	clip.AttachmentPath = paths.AttachmentPath

	if err := c.repo.Insert(clip); err != nil {
		return nil, false, fmt.Errorf("insert: %w", err)
	}
	return clip, true, nil
}

// buildClip implements step 2: classify the plain projection for
// text-shaped kinds and fill metadata for binary kinds.
func buildClip(result monitor.Result, now time.Time) *types.Clip {
	content := result.Content
	id := types.NewClipID(now)

	clip := &types.Clip{
		ID:          id,
		ContentType: content.Kind,
		AppName:     result.SourceApp,
		CreatedAt:   now.Unix(),
		UpdatedAt:   now.Unix(),
		ContentHash: result.Hash,
		Metadata:    map[string]string{},
	}

	switch content.Kind {
	case types.KindText:
		clip.ContentText = content.Text
		applyDetection(clip, content.Text)
	case types.KindHTML:
		clip.ContentHTML = content.Markup
		clip.ContentText = content.Plain
		applyDetection(clip, content.Plain)
	case types.KindRTF:
		clip.ContentRTF = content.Markup
		clip.ContentText = content.Plain
		applyDetection(clip, content.Plain)
	case types.KindImage:
		clip.DetectedType = types.DetectedImage
		clip.ContentText = fmt.Sprintf("image (%s)", content.ImageFormat)
	case types.KindFiles:
		clip.DetectedType = types.DetectedFiles
		clip.FilePaths = content.Paths
		clip.ContentText = strings.Join(content.Paths, "\n")
		clip.Metadata["file_count"] = fmt.Sprintf("%d", len(content.Paths))
	case types.KindOffice:
		clip.DetectedType = types.DetectedOffice
		clip.AttachmentType = content.OLEType
		clip.ContentText = content.ExtractedText
		if clip.ContentText == "" {
			clip.ContentText = "office document"
		}
	}

	return clip
}

func applyDetection(clip *types.Clip, text string) {
	res := classifier.Detect(text)
	clip.DetectedType = res.Kind
	for k, v := range res.Metadata {
		clip.Metadata[k] = v
	}
}

// embedAsync implements the fire-and-forget embed→create_embedding step.
// It runs detached from the tick that scheduled it: an embedding failure
// never rolls back the clip it belongs to.
func (c *Coordinator) embedAsync(clipID, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	vec, err := c.embedder.Embed(ctx, text)
	if err != nil {
		c.logger.Warn("embed clip failed", zap.String("clip_id", clipID), zap.Error(err))
		return
	}

	info, ok := c.embedder.(interface {
		GetModelInfo() (*semantic.ModelInfo, bool)
	})
	var model string
	var dims int
	if ok {
		if mi, loaded := info.GetModelInfo(); loaded {
			model, dims = mi.Name, mi.Dimensions
		}
	}
	if dims == 0 {
		dims = len(vec)
	}

	now := time.Now().Unix()
	if err := c.repo.CreateEmbedding(clipID, semantic.VectorToBytes(vec), model, dims, now); err != nil {
		c.logger.Warn("persist embedding failed", zap.String("clip_id", clipID), zap.Error(err))
	}
}
