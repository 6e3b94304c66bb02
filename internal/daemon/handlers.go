package daemon

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/azure06/clipsx/internal/config"
	"github.com/azure06/clipsx/internal/ipc"
	"github.com/azure06/clipsx/internal/retrieval"
	"github.com/azure06/clipsx/internal/semantic"
	"github.com/azure06/clipsx/internal/sidecar"
	"github.com/azure06/clipsx/internal/types"
)

// handleRequest is the daemon's ipc.Handler: it never panics, converting
// every failure into a Response{Status: "error"}.
func (d *Daemon) handleRequest(req *ipc.Request) *ipc.Response {
	switch req.Command {
	case ipc.CmdGetRecentClips:
		return d.handleGetRecent(req, 0)
	case ipc.CmdGetRecentClipsPaginated:
		return d.handleGetRecent(req, argInt(req, "offset", 0))
	case ipc.CmdGetClipsAfterTimestamp:
		return d.handleGetAfterTimestamp(req)
	case ipc.CmdGetClipByID:
		return d.handleGetByID(req)
	case ipc.CmdSearchClips, ipc.CmdSearchClipsPaginated:
		return d.handleSearch(req)
	case ipc.CmdDeleteClip:
		return d.handleDelete(req)
	case ipc.CmdToggleFavorite:
		return d.handleToggleFavorite(req)
	case ipc.CmdTogglePin:
		return d.handleTogglePin(req)
	case ipc.CmdClearAllClips:
		return d.handleClearAll()
	case ipc.CmdCopyToClipboard:
		return d.handleCopyToClipboard(req)
	case ipc.CmdPasteClip:
		return d.handlePasteClip(req)
	case ipc.CmdInitSemanticSearch:
		return d.handleInitSemanticSearch(req)
	case ipc.CmdChangeSemanticModel:
		return d.handleInitSemanticSearch(req)
	case ipc.CmdGetSemanticSearchStatus:
		return d.handleSemanticStatus()
	case ipc.CmdGetDownloadedModels:
		return d.handleDownloadedModels()
	case ipc.CmdDeleteSemanticModel:
		return d.handleDeleteModel(req)
	case ipc.CmdGenerateEmbedding:
		return d.handleGenerateEmbedding(req)
	case ipc.CmdCreateTag, ipc.CmdListTags, ipc.CmdDeleteTag, ipc.CmdTagClip, ipc.CmdUntagClip:
		return d.handleTagCommand(req)
	case ipc.CmdCreateCollection, ipc.CmdListCollections, ipc.CmdDeleteCollection, ipc.CmdAddToCollection, ipc.CmdRemoveFromCollection:
		return d.handleCollectionCommand(req)
	default:
		return errResponse(fmt.Errorf("unknown command: %s", req.Command))
	}
}

func okResponse(data any) *ipc.Response { return &ipc.Response{Status: "ok", Data: data} }
func errResponse(err error) *ipc.Response {
	return &ipc.Response{Status: "error", Message: err.Error()}
}

func argInt(req *ipc.Request, key string, def int) int {
	if v, ok := req.Args[key].(float64); ok {
		return int(v)
	}
	return def
}

func argString(req *ipc.Request, key string) string {
	if v, ok := req.Args[key].(string); ok {
		return v
	}
	return ""
}

func argBool(req *ipc.Request, key string) bool {
	if v, ok := req.Args[key].(bool); ok {
		return v
	}
	return false
}

func (d *Daemon) handleGetRecent(req *ipc.Request, offset int) *ipc.Response {
	limit := argInt(req, "limit", 50)
	clips, err := d.repo.GetRecentPaginated(limit, offset, argBool(req, "favorites_only"), argBool(req, "pinned_only"))
	if err != nil {
		return errResponse(err)
	}
	return okResponse(clips)
}

func (d *Daemon) handleGetAfterTimestamp(req *ipc.Request) *ipc.Response {
	t := int64(argInt(req, "timestamp", 0))
	clips, err := d.repo.GetAfterTimestamp(t)
	if err != nil {
		return errResponse(err)
	}
	return okResponse(clips)
}

func (d *Daemon) handleGetByID(req *ipc.Request) *ipc.Response {
	clip, err := d.repo.GetByID(argString(req, "id"))
	if err != nil {
		return errResponse(err)
	}
	return okResponse(clip)
}

func (d *Daemon) handleSearch(req *ipc.Request) *ipc.Response {
	var filterTypes []types.ContentKind
	if raw, ok := req.Args["filter_types"].([]any); ok {
		for _, r := range raw {
			if s, ok := r.(string); ok {
				filterTypes = append(filterTypes, types.ContentKind(s))
			}
		}
	}

	opts := retrieval.Options{
		Query:         argString(req, "query"),
		FilterTypes:   filterTypes,
		UseSemantic:   argBool(req, "use_semantic"),
		Threshold:     float32(argFloat(req, "threshold", retrieval.DefaultThreshold)),
		FavoritesOnly: argBool(req, "favorites_only"),
		PinnedOnly:    argBool(req, "pinned_only"),
		Limit:         argInt(req, "limit", 50),
		Offset:        argInt(req, "offset", 0),
	}
	clips, err := d.retrieval.Search(context.Background(), opts)
	if err != nil {
		return errResponse(err)
	}
	return okResponse(clips)
}

func argFloat(req *ipc.Request, key string, def float64) float64 {
	if v, ok := req.Args[key].(float64); ok {
		return v
	}
	return def
}

func (d *Daemon) handleDelete(req *ipc.Request) *ipc.Response {
	id := argString(req, "id")
	clip, err := d.repo.GetByID(id)
	if err != nil {
		return errResponse(err)
	}
	if clip != nil {
		d.sidecars.Delete(sidecarPaths(clip))
	}
	if err := d.repo.Delete(id); err != nil {
		return errResponse(err)
	}
	return okResponse(nil)
}

func (d *Daemon) handleToggleFavorite(req *ipc.Request) *ipc.Response {
	v, err := d.repo.ToggleFavorite(argString(req, "id"))
	if err != nil {
		return errResponse(err)
	}
	return okResponse(v)
}

func (d *Daemon) handleTogglePin(req *ipc.Request) *ipc.Response {
	v, err := d.repo.TogglePin(argString(req, "id"))
	if err != nil {
		return errResponse(err)
	}
	return okResponse(v)
}

func (d *Daemon) handleClearAll() *ipc.Response {
	if err := d.repo.ClearAll(); err != nil {
		return errResponse(err)
	}
	return okResponse(nil)
}

// handleCopyToClipboard implements copy_to_clipboard: write plain text to
// the live pasteboard and, if an existing clip id was supplied, touch it
// so it floats to the top without duplicating.
func (d *Daemon) handleCopyToClipboard(req *ipc.Request) *ipc.Response {
	text := argString(req, "text")
	content := &types.ClipboardContent{Kind: types.KindText, Text: text}
	if err := d.adapter.Write(content); err != nil {
		return errResponse(err)
	}
	d.monitor.NotifyWrote(content)

	if id := argString(req, "id"); id != "" {
		if err := d.repo.Touch(id, time.Now().Unix()); err != nil {
			return errResponse(err)
		}
	}
	return okResponse(nil)
}

// handlePasteClip implements paste_clip: restore a stored clip's original
// representations to the pasteboard via the shared restore path.
func (d *Daemon) handlePasteClip(req *ipc.Request) *ipc.Response {
	id := argString(req, "id")
	if id == "" {
		content := &types.ClipboardContent{Kind: types.KindText, Text: argString(req, "text")}
		if err := d.adapter.Write(content); err != nil {
			return errResponse(err)
		}
		d.monitor.NotifyWrote(content)
		return okResponse(nil)
	}
	if err := retrieval.Restore(d.repo, d.sidecars, d.adapter, d.monitor, id); err != nil {
		return errResponse(err)
	}
	return okResponse(nil)
}

func (d *Daemon) handleInitSemanticSearch(req *ipc.Request) *ipc.Response {
	model := argString(req, "model")
	if err := d.semantic.InitModel(context.Background(), model); err != nil {
		return errResponse(err)
	}
	d.settings.SemanticSearchEnabled = true
	if model != "" {
		d.settings.SemanticModel = model
	}
	if err := persistSettings(d); err != nil {
		return errResponse(err)
	}
	return okResponse(true)
}

func (d *Daemon) handleSemanticStatus() *ipc.Response {
	info, ready := d.semantic.GetModelInfo()
	status := map[string]any{"ready": ready}
	if ready {
		status["model"] = info.Name
		status["dimensions"] = info.Dimensions
	}
	return okResponse(status)
}

func (d *Daemon) handleDownloadedModels() *ipc.Response {
	models, err := d.semantic.GetDownloadedModels()
	if err != nil {
		return errResponse(err)
	}
	return okResponse(models)
}

func (d *Daemon) handleDeleteModel(req *ipc.Request) *ipc.Response {
	if err := d.semantic.DeleteModel(argString(req, "model")); err != nil {
		return errResponse(err)
	}
	return okResponse(nil)
}

func (d *Daemon) handleGenerateEmbedding(req *ipc.Request) *ipc.Response {
	id := argString(req, "id")
	clip, err := d.repo.GetByID(id)
	if err != nil {
		return errResponse(err)
	}
	if clip == nil {
		return errResponse(fmt.Errorf("clip %s not found", id))
	}
	if !d.semantic.IsReady() {
		return errResponse(fmt.Errorf("no embedding model loaded"))
	}

	vec, err := d.semantic.Embed(context.Background(), clip.ContentText)
	if err != nil {
		return errResponse(err)
	}
	info, _ := d.semantic.GetModelInfo()
	if err := d.repo.CreateEmbedding(id, semantic.VectorToBytes(vec), info.Name, info.Dimensions, time.Now().Unix()); err != nil {
		return errResponse(err)
	}
	return okResponse(nil)
}

func (d *Daemon) handleTagCommand(req *ipc.Request) *ipc.Response {
	switch req.Command {
	case ipc.CmdCreateTag:
		t := &types.Tag{ID: uuid.NewString(), Name: argString(req, "name")}
		if err := d.repo.CreateTag(t); err != nil {
			return errResponse(err)
		}
		return okResponse(t)
	case ipc.CmdListTags:
		tags, err := d.repo.ListTags()
		if err != nil {
			return errResponse(err)
		}
		return okResponse(tags)
	case ipc.CmdDeleteTag:
		if err := d.repo.DeleteTag(argString(req, "id")); err != nil {
			return errResponse(err)
		}
		return okResponse(nil)
	case ipc.CmdTagClip:
		if err := d.repo.TagClip(argString(req, "clip_id"), argString(req, "tag_id")); err != nil {
			return errResponse(err)
		}
		return okResponse(nil)
	case ipc.CmdUntagClip:
		if err := d.repo.UntagClip(argString(req, "clip_id"), argString(req, "tag_id")); err != nil {
			return errResponse(err)
		}
		return okResponse(nil)
	}
	return errResponse(fmt.Errorf("unhandled tag command: %s", req.Command))
}

func (d *Daemon) handleCollectionCommand(req *ipc.Request) *ipc.Response {
	switch req.Command {
	case ipc.CmdCreateCollection:
		c := &types.Collection{ID: uuid.NewString(), Name: argString(req, "name"), CreatedAt: time.Now().Unix()}
		if err := d.repo.CreateCollection(c); err != nil {
			return errResponse(err)
		}
		return okResponse(c)
	case ipc.CmdListCollections:
		cs, err := d.repo.ListCollections()
		if err != nil {
			return errResponse(err)
		}
		return okResponse(cs)
	case ipc.CmdDeleteCollection:
		if err := d.repo.DeleteCollection(argString(req, "id")); err != nil {
			return errResponse(err)
		}
		return okResponse(nil)
	case ipc.CmdAddToCollection:
		if err := d.repo.AddToCollection(argString(req, "clip_id"), argString(req, "collection_id")); err != nil {
			return errResponse(err)
		}
		return okResponse(nil)
	case ipc.CmdRemoveFromCollection:
		if err := d.repo.RemoveFromCollection(argString(req, "clip_id"), argString(req, "collection_id")); err != nil {
			return errResponse(err)
		}
		return okResponse(nil)
	}
	return errResponse(fmt.Errorf("unhandled collection command: %s", req.Command))
}

func sidecarPaths(clip *types.Clip) sidecar.Paths {
	return sidecar.Paths{
		ImagePath:      clip.ImagePath,
		SVGPath:        clip.SVGPath,
		PDFPath:        clip.PDFPath,
		AttachmentPath: clip.AttachmentPath,
	}
}

func persistSettings(d *Daemon) error {
	return config.Save(d.paths.ConfigFile, d.settings)
}
