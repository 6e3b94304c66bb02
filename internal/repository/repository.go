package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/azure06/clipsx/internal/types"
)

// Repository is the embedded SQL store backing clips, embeddings, tags and
// collections. All methods are safe for concurrent callers; sqlite3
// serializes writers internally.
type Repository struct {
	db *sql.DB
}

// Open creates (if needed) and opens the database file at path, applying
// the schema idempotently.
func Open(path string) (*Repository, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("repository: create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("repository: open database: %w", err)
	}
	// sqlite3 serializes writers; a single connection avoids
	// "database is locked" errors under concurrent callers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("repository: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Insert stores clip, failing with ErrDuplicateHash if content_hash is
// already present.
func (r *Repository) Insert(clip *types.Clip) error {
	metaJSON, err := json.Marshal(clip.Metadata)
	if err != nil {
		return fmt.Errorf("repository: marshal metadata: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO clips (
			id, content_type, content_text, content_html, content_rtf,
			image_path, svg_path, pdf_path, attachment_path, attachment_type,
			file_paths, detected_type, metadata, created_at, updated_at,
			app_name, is_pinned, is_favorite, access_count, content_hash
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		clip.ID, clip.ContentType, clip.ContentText, clip.ContentHTML, clip.ContentRTF,
		clip.ImagePath, clip.SVGPath, clip.PDFPath, clip.AttachmentPath, clip.AttachmentType,
		strings.Join(clip.FilePaths, "|"), clip.DetectedType, string(metaJSON), clip.CreatedAt, clip.UpdatedAt,
		clip.AppName, boolToInt(clip.IsPinned), boolToInt(clip.IsFavorite), clip.AccessCount, clip.ContentHash,
	)
	if err != nil {
		if isUniqueConstraint(err) {
			return ErrDuplicateHash
		}
		return fmt.Errorf("repository: insert clip: %w", err)
	}
	return nil
}

func isUniqueConstraint(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

const selectClipColumns = `
	id, content_type, content_text, content_html, content_rtf,
	image_path, svg_path, pdf_path, attachment_path, attachment_type,
	file_paths, detected_type, metadata, created_at, updated_at,
	app_name, is_pinned, is_favorite, access_count, content_hash`

func scanClip(row interface{ Scan(...any) error }) (*types.Clip, error) {
	var c types.Clip
	var filePaths, metaJSON string
	var isPinned, isFavorite int

	err := row.Scan(
		&c.ID, &c.ContentType, &c.ContentText, &c.ContentHTML, &c.ContentRTF,
		&c.ImagePath, &c.SVGPath, &c.PDFPath, &c.AttachmentPath, &c.AttachmentType,
		&filePaths, &c.DetectedType, &metaJSON, &c.CreatedAt, &c.UpdatedAt,
		&c.AppName, &isPinned, &isFavorite, &c.AccessCount, &c.ContentHash,
	)
	if err != nil {
		return nil, err
	}

	if filePaths != "" {
		c.FilePaths = strings.Split(filePaths, "|")
	}
	c.Metadata = map[string]string{}
	if metaJSON != "" {
		_ = json.Unmarshal([]byte(metaJSON), &c.Metadata)
	}
	c.IsPinned = isPinned != 0
	c.IsFavorite = isFavorite != 0

	return &c, nil
}

func (r *Repository) FindByHash(hash string) (*types.Clip, error) {
	row := r.db.QueryRow("SELECT "+selectClipColumns+" FROM clips WHERE content_hash = ?", hash)
	clip, err := scanClip(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repository: find by hash: %w", err)
	}
	return clip, nil
}

func (r *Repository) FindByContentText(text string) (*types.Clip, error) {
	row := r.db.QueryRow("SELECT "+selectClipColumns+" FROM clips WHERE content_text = ? ORDER BY updated_at DESC LIMIT 1", text)
	clip, err := scanClip(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repository: find by content text: %w", err)
	}
	return clip, nil
}

func (r *Repository) GetByID(id string) (*types.Clip, error) {
	row := r.db.QueryRow("SELECT "+selectClipColumns+" FROM clips WHERE id = ?", id)
	clip, err := scanClip(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("repository: get by id: %w", err)
	}
	return clip, nil
}

// GetClipsByIDs preserves the caller's input order, which matters for
// semantic search results that are already ranked by score.
func (r *Repository) GetClipsByIDs(ids []string) ([]*types.Clip, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	rows, err := r.db.Query("SELECT "+selectClipColumns+" FROM clips WHERE id IN ("+strings.Join(placeholders, ",")+")", args...)
	if err != nil {
		return nil, fmt.Errorf("repository: get clips by ids: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*types.Clip, len(ids))
	for rows.Next() {
		clip, err := scanClip(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: scan clip: %w", err)
		}
		byID[clip.ID] = clip
	}

	ordered := make([]*types.Clip, 0, len(ids))
	for _, id := range ids {
		if clip, ok := byID[id]; ok {
			ordered = append(ordered, clip)
		}
	}
	return ordered, nil
}

func (r *Repository) GetRecentPaginated(limit, offset int, favoritesOnly, pinnedOnly bool) ([]*types.Clip, error) {
	query := "SELECT " + selectClipColumns + " FROM clips WHERE 1=1"
	var args []any
	if favoritesOnly {
		query += " AND is_favorite = 1"
	}
	if pinnedOnly {
		query += " AND is_pinned = 1"
	}
	query += " ORDER BY updated_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	return r.queryClips(query, args...)
}

func (r *Repository) GetAfterTimestamp(t int64) ([]*types.Clip, error) {
	return r.queryClips("SELECT "+selectClipColumns+" FROM clips WHERE updated_at > ? ORDER BY updated_at DESC", t)
}

func (r *Repository) queryClips(query string, args ...any) ([]*types.Clip, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: query clips: %w", err)
	}
	defer rows.Close()

	var clips []*types.Clip
	for rows.Next() {
		clip, err := scanClip(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: scan clip: %w", err)
		}
		clips = append(clips, clip)
	}
	return clips, nil
}

func (r *Repository) Touch(id string, now int64) error {
	_, err := r.db.Exec("UPDATE clips SET updated_at = ? WHERE id = ?", now, id)
	if err != nil {
		return fmt.Errorf("repository: touch: %w", err)
	}
	return nil
}

func (r *Repository) TogglePin(id string) (bool, error) {
	return r.toggleFlag(id, "is_pinned")
}

func (r *Repository) ToggleFavorite(id string) (bool, error) {
	return r.toggleFlag(id, "is_favorite")
}

func (r *Repository) toggleFlag(id, column string) (bool, error) {
	_, err := r.db.Exec("UPDATE clips SET "+column+" = 1 - "+column+" WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("repository: toggle %s: %w", column, err)
	}
	var value int
	if err := r.db.QueryRow("SELECT "+column+" FROM clips WHERE id = ?", id).Scan(&value); err != nil {
		return false, fmt.Errorf("repository: read %s: %w", column, err)
	}
	return value != 0, nil
}

func (r *Repository) IncrementAccess(id string) error {
	_, err := r.db.Exec("UPDATE clips SET access_count = access_count + 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("repository: increment access: %w", err)
	}
	return nil
}

// Delete removes the clip row; embeddings and tag/collection memberships
// cascade via foreign keys. Sidecar file cleanup is the caller's
// responsibility (the coordinator knows the sidecar paths).
func (r *Repository) Delete(id string) error {
	_, err := r.db.Exec("DELETE FROM clips WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("repository: delete: %w", err)
	}
	return nil
}

func (r *Repository) ClearAll() error {
	_, err := r.db.Exec("DELETE FROM clips")
	if err != nil {
		return fmt.Errorf("repository: clear all: %w", err)
	}
	return nil
}

// EscapeFTSQuery turns raw user input into a safe MATCH expression per the
// query-escape rules: trim, split on whitespace, double internal quotes,
// wrap each token in quotes with a trailing prefix-match '*', AND-join.
func EscapeFTSQuery(q string) string {
	q = strings.TrimSpace(q)
	if q == "" {
		return `""`
	}

	fields := strings.Fields(q)
	tokens := make([]string, len(fields))
	for i, f := range fields {
		escaped := strings.ReplaceAll(f, `"`, `""`)
		tokens[i] = `"` + escaped + `"*`
	}
	return strings.Join(tokens, " AND ")
}

// Search runs the FTS path: relevance rank primary, updated_at DESC
// tiebreak, with optional content-type and flag filters.
func (r *Repository) Search(q string, filterTypes []types.ContentKind, favoritesOnly, pinnedOnly bool, limit, offset int) ([]*types.Clip, error) {
	var builder strings.Builder
	var args []any

	if strings.TrimSpace(q) != "" {
		builder.WriteString(`SELECT ` + prefixColumns("c.") +
			` FROM clips_fts f JOIN clips c ON c.rowid = f.rowid WHERE clips_fts MATCH ?`)
		args = append(args, EscapeFTSQuery(q))
		appendFilters(&builder, &args, filterTypes, favoritesOnly, pinnedOnly, "c.")
		builder.WriteString(" ORDER BY rank, c.updated_at DESC LIMIT ? OFFSET ?")
	} else {
		builder.WriteString("SELECT " + selectClipColumns + " FROM clips WHERE 1=1")
		appendFilters(&builder, &args, filterTypes, favoritesOnly, pinnedOnly, "")
		builder.WriteString(" ORDER BY updated_at DESC LIMIT ? OFFSET ?")
	}
	args = append(args, limit, offset)

	return r.queryClips(builder.String(), args...)
}

func appendFilters(b *strings.Builder, args *[]any, filterTypes []types.ContentKind, favoritesOnly, pinnedOnly bool, prefix string) {
	if len(filterTypes) > 0 {
		placeholders := make([]string, len(filterTypes))
		for i, t := range filterTypes {
			placeholders[i] = "?"
			*args = append(*args, string(t))
		}
		b.WriteString(" AND " + prefix + "content_type IN (" + strings.Join(placeholders, ",") + ")")
	}
	if favoritesOnly {
		b.WriteString(" AND " + prefix + "is_favorite = 1")
	}
	if pinnedOnly {
		b.WriteString(" AND " + prefix + "is_pinned = 1")
	}
}

// CreateEmbedding upserts the one-to-one embedding row for clipID.
func (r *Repository) CreateEmbedding(clipID string, vectorBytes []byte, model string, dimensions int, now int64) error {
	_, err := r.db.Exec(`
		INSERT INTO embeddings (clip_id, vector, model, dimensions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(clip_id) DO UPDATE SET vector = excluded.vector, model = excluded.model,
			dimensions = excluded.dimensions, updated_at = excluded.updated_at`,
		clipID, vectorBytes, model, dimensions, now, now)
	if err != nil {
		return fmt.Errorf("repository: create embedding: %w", err)
	}
	return nil
}

// EmbeddingRow pairs a clip id with its stored vector bytes, the minimum
// the Retrieval Engine needs to score candidates.
type EmbeddingRow struct {
	ClipID string
	Vector []byte
}

func (r *Repository) GetEmbeddingsWithFilters(filterTypes []types.ContentKind, favoritesOnly, pinnedOnly bool) ([]EmbeddingRow, error) {
	var b strings.Builder
	var args []any
	b.WriteString("SELECT e.clip_id, e.vector FROM embeddings e JOIN clips c ON c.id = e.clip_id WHERE 1=1")
	appendFilters(&b, &args, filterTypes, favoritesOnly, pinnedOnly, "c.")

	rows, err := r.db.Query(b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("repository: get embeddings with filters: %w", err)
	}
	defer rows.Close()

	var out []EmbeddingRow
	for rows.Next() {
		var e EmbeddingRow
		if err := rows.Scan(&e.ClipID, &e.Vector); err != nil {
			return nil, fmt.Errorf("repository: scan embedding: %w", err)
		}
		out = append(out, e)
	}
	return out, nil
}
