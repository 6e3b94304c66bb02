// Package retrieval implements the Retrieval Engine (search, ranked by
// semantic similarity or full-text relevance) and the cross-component
// restore path that writes a stored clip back onto the live pasteboard.
package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/azure06/clipsx/internal/monitor"
	"github.com/azure06/clipsx/internal/platform"
	"github.com/azure06/clipsx/internal/repository"
	"github.com/azure06/clipsx/internal/semantic"
	"github.com/azure06/clipsx/internal/sidecar"
	"github.com/azure06/clipsx/internal/types"
)

// DefaultThreshold is the minimum cosine score a semantic match must clear.
const DefaultThreshold = 0.3

// Embedder is the subset of *semantic.Engine the engine needs for query
// embedding, mirrored from ingest.Embedder so the two packages stay
// independently testable.
type Embedder interface {
	IsReady() bool
	Embed(ctx context.Context, text string) ([]float32, error)
}

var _ Embedder = (*semantic.Engine)(nil)

// Engine answers search and restore requests against the repository.
type Engine struct {
	repo     *repository.Repository
	embedder Embedder
}

// New builds an Engine. embedder may be nil if semantic search was never
// configured; Search then always takes the FTS path.
func New(repo *repository.Repository, embedder Embedder) *Engine {
	return &Engine{repo: repo, embedder: embedder}
}

// Options controls a single Search call.
type Options struct {
	Query         string
	FilterTypes   []types.ContentKind
	UseSemantic   bool
	Threshold     float32
	FavoritesOnly bool
	PinnedOnly    bool
	Limit         int
	Offset        int
}

// Search implements spec §4.H: a semantic path when requested, a model is
// loaded and the query is non-empty, else the full-text path.
func (e *Engine) Search(ctx context.Context, opts Options) ([]*types.Clip, error) {
	if opts.UseSemantic && e.embedder != nil && e.embedder.IsReady() && strings.TrimSpace(opts.Query) != "" {
		return e.semanticSearch(ctx, opts)
	}
	return e.repo.Search(opts.Query, opts.FilterTypes, opts.FavoritesOnly, opts.PinnedOnly, opts.Limit, opts.Offset)
}

type scored struct {
	id    string
	score float32
}

func (e *Engine) semanticSearch(ctx context.Context, opts Options) ([]*types.Clip, error) {
	qVec, err := e.embedder.Embed(ctx, opts.Query)
	if err != nil {
		return nil, fmt.Errorf("retrieval: embed query: %w", err)
	}

	rows, err := e.repo.GetEmbeddingsWithFilters(opts.FilterTypes, opts.FavoritesOnly, opts.PinnedOnly)
	if err != nil {
		return nil, fmt.Errorf("retrieval: load embeddings: %w", err)
	}

	threshold := opts.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}

	candidates := make([]scored, 0, len(rows))
	for _, row := range rows {
		vec := semantic.BytesToVector(row.Vector)
		score := semantic.Cosine(qVec, vec)
		if score >= threshold {
			candidates = append(candidates, scored{id: row.ClipID, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	start, end := paginate(len(candidates), opts.Offset, opts.Limit)
	window := candidates[start:end]

	ids := make([]string, len(window))
	scoreByID := make(map[string]float32, len(window))
	for i, c := range window {
		ids[i] = c.id
		scoreByID[c.id] = c.score
	}

	clips, err := e.repo.GetClipsByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("retrieval: materialize clips: %w", err)
	}
	for _, clip := range clips {
		if s, ok := scoreByID[clip.ID]; ok {
			score := s
			clip.Score = &score
		}
	}
	return clips, nil
}

func paginate(total, offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return offset, end
}

// Restore implements the cross-component restore path: reconstruct a
// clip's original ClipboardContent, write it to the live pasteboard, and
// tell the change monitor about the write so the next capture tick does
// not treat it as a new foreign copy.
func Restore(repo *repository.Repository, sidecars *sidecar.Store, adapter platform.Adapter, mon *monitor.Monitor, clipID string) error {
	clip, err := repo.GetByID(clipID)
	if err != nil {
		return fmt.Errorf("retrieval: load clip: %w", err)
	}
	if clip == nil {
		return fmt.Errorf("retrieval: clip %s not found", clipID)
	}

	content, err := reconstruct(clip, sidecars)
	if err != nil {
		return fmt.Errorf("retrieval: reconstruct content: %w", err)
	}

	if err := adapter.Write(content); err != nil {
		return fmt.Errorf("retrieval: write clipboard: %w", err)
	}
	mon.NotifyWrote(content)

	if err := repo.IncrementAccess(clip.ID); err != nil {
		return fmt.Errorf("retrieval: increment access count: %w", err)
	}
	return nil
}

func reconstruct(clip *types.Clip, sidecars *sidecar.Store) (*types.ClipboardContent, error) {
	paths := sidecar.Paths{
		ImagePath:      clip.ImagePath,
		SVGPath:        clip.SVGPath,
		PDFPath:        clip.PDFPath,
		AttachmentPath: clip.AttachmentPath,
	}
	image, svg, pdf, attachment, err := sidecars.Read(paths)
	if err != nil {
		return nil, err
	}

	content := &types.ClipboardContent{Kind: clip.ContentType}
	switch clip.ContentType {
	case types.KindText:
		content.Text = clip.ContentText
	case types.KindHTML:
		content.Markup = clip.ContentHTML
		content.Plain = clip.ContentText
	case types.KindRTF:
		content.Markup = clip.ContentRTF
		content.Plain = clip.ContentText
	case types.KindImage:
		content.ImageBytes = image
		content.ImageFormat = imageFormatFromPath(clip.ImagePath)
	case types.KindFiles:
		content.Paths = clip.FilePaths
	case types.KindOffice:
		content.OLEBytes = attachment
		content.OLEType = clip.AttachmentType
		content.SVG = svg
		content.PDF = pdf
		content.PNG = image
		content.ExtractedText = clip.ContentText
	}
	return content, nil
}

func imageFormatFromPath(path string) types.ImageFormat {
	switch {
	case strings.HasSuffix(path, ".jpg"), strings.HasSuffix(path, ".jpeg"):
		return types.ImageJPEG
	case strings.HasSuffix(path, ".tiff"), strings.HasSuffix(path, ".tif"):
		return types.ImageTIFF
	default:
		return types.ImagePNG
	}
}
