package repository

import (
	"fmt"

	"github.com/azure06/clipsx/internal/types"
)

// CreateTag inserts a tag definition, upserting on name conflict to return
// the existing id.
func (r *Repository) CreateTag(tag *types.Tag) error {
	_, err := r.db.Exec(`
		INSERT INTO tags (id, name) VALUES (?, ?)
		ON CONFLICT(name) DO NOTHING`, tag.ID, tag.Name)
	if err != nil {
		return fmt.Errorf("repository: create tag: %w", err)
	}
	if err := r.db.QueryRow("SELECT id FROM tags WHERE name = ?", tag.Name).Scan(&tag.ID); err != nil {
		return fmt.Errorf("repository: read tag id: %w", err)
	}
	return nil
}

func (r *Repository) ListTags() ([]*types.Tag, error) {
	rows, err := r.db.Query("SELECT id, name FROM tags ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("repository: list tags: %w", err)
	}
	defer rows.Close()

	var out []*types.Tag
	for rows.Next() {
		var t types.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("repository: scan tag: %w", err)
		}
		out = append(out, &t)
	}
	return out, nil
}

// DeleteTag removes the tag definition; clip_tags memberships cascade.
func (r *Repository) DeleteTag(id string) error {
	_, err := r.db.Exec("DELETE FROM tags WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("repository: delete tag: %w", err)
	}
	return nil
}

func (r *Repository) TagClip(clipID, tagID string) error {
	_, err := r.db.Exec(`
		INSERT INTO clip_tags (clip_id, tag_id) VALUES (?, ?)
		ON CONFLICT(clip_id, tag_id) DO NOTHING`, clipID, tagID)
	if err != nil {
		return fmt.Errorf("repository: tag clip: %w", err)
	}
	return nil
}

func (r *Repository) UntagClip(clipID, tagID string) error {
	_, err := r.db.Exec("DELETE FROM clip_tags WHERE clip_id = ? AND tag_id = ?", clipID, tagID)
	if err != nil {
		return fmt.Errorf("repository: untag clip: %w", err)
	}
	return nil
}

func (r *Repository) GetTagsForClip(clipID string) ([]*types.Tag, error) {
	rows, err := r.db.Query(`
		SELECT t.id, t.name FROM tags t
		JOIN clip_tags ct ON ct.tag_id = t.id
		WHERE ct.clip_id = ? ORDER BY t.name`, clipID)
	if err != nil {
		return nil, fmt.Errorf("repository: get tags for clip: %w", err)
	}
	defer rows.Close()

	var out []*types.Tag
	for rows.Next() {
		var t types.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("repository: scan tag: %w", err)
		}
		out = append(out, &t)
	}
	return out, nil
}

func (r *Repository) GetClipsByTag(tagID string) ([]*types.Clip, error) {
	return r.queryClips(`
		SELECT `+prefixColumns("c.")+` FROM clips c
		JOIN clip_tags ct ON ct.clip_id = c.id
		WHERE ct.tag_id = ? ORDER BY c.updated_at DESC`, tagID)
}

// CreateCollection inserts a collection. On a name conflict the existing
// row is kept and c is filled with its id and created_at.
func (r *Repository) CreateCollection(c *types.Collection) error {
	_, err := r.db.Exec(`
		INSERT INTO collections (id, name, created_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO NOTHING`, c.ID, c.Name, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("repository: create collection: %w", err)
	}
	if err := r.db.QueryRow("SELECT id, created_at FROM collections WHERE name = ?", c.Name).Scan(&c.ID, &c.CreatedAt); err != nil {
		return fmt.Errorf("repository: read collection id: %w", err)
	}
	return nil
}

func (r *Repository) ListCollections() ([]*types.Collection, error) {
	rows, err := r.db.Query("SELECT id, name, created_at FROM collections ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("repository: list collections: %w", err)
	}
	defer rows.Close()

	var out []*types.Collection
	for rows.Next() {
		var c types.Collection
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("repository: scan collection: %w", err)
		}
		out = append(out, &c)
	}
	return out, nil
}

func (r *Repository) DeleteCollection(id string) error {
	_, err := r.db.Exec("DELETE FROM collections WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("repository: delete collection: %w", err)
	}
	return nil
}

func (r *Repository) AddToCollection(clipID, collectionID string) error {
	_, err := r.db.Exec(`
		INSERT INTO clip_collections (clip_id, collection_id) VALUES (?, ?)
		ON CONFLICT(clip_id, collection_id) DO NOTHING`, clipID, collectionID)
	if err != nil {
		return fmt.Errorf("repository: add to collection: %w", err)
	}
	return nil
}

func (r *Repository) RemoveFromCollection(clipID, collectionID string) error {
	_, err := r.db.Exec("DELETE FROM clip_collections WHERE clip_id = ? AND collection_id = ?", clipID, collectionID)
	if err != nil {
		return fmt.Errorf("repository: remove from collection: %w", err)
	}
	return nil
}

func (r *Repository) GetClipsInCollection(collectionID string) ([]*types.Clip, error) {
	return r.queryClips(`
		SELECT `+prefixColumns("c.")+` FROM clips c
		JOIN clip_collections cc ON cc.clip_id = c.id
		WHERE cc.collection_id = ? ORDER BY c.updated_at DESC`, collectionID)
}

func prefixColumns(prefix string) string {
	return prefix + "id, " + prefix + "content_type, " + prefix + "content_text, " + prefix + "content_html, " +
		prefix + "content_rtf, " + prefix + "image_path, " + prefix + "svg_path, " + prefix + "pdf_path, " +
		prefix + "attachment_path, " + prefix + "attachment_type, " + prefix + "file_paths, " + prefix + "detected_type, " +
		prefix + "metadata, " + prefix + "created_at, " + prefix + "updated_at, " + prefix + "app_name, " +
		prefix + "is_pinned, " + prefix + "is_favorite, " + prefix + "access_count, " + prefix + "content_hash"
}
