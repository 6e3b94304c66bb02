// Package repository implements the Clip Repository (spec §4.D): the
// single embedded SQL store backing clips, their embeddings, full-text
// search, tags and collections.
package repository

const schema = `
CREATE TABLE IF NOT EXISTS clips (
	id              TEXT PRIMARY KEY,
	content_type    TEXT NOT NULL,
	content_text    TEXT NOT NULL DEFAULT '',
	content_html    TEXT NOT NULL DEFAULT '',
	content_rtf     TEXT NOT NULL DEFAULT '',
	image_path      TEXT NOT NULL DEFAULT '',
	svg_path        TEXT NOT NULL DEFAULT '',
	pdf_path        TEXT NOT NULL DEFAULT '',
	attachment_path TEXT NOT NULL DEFAULT '',
	attachment_type TEXT NOT NULL DEFAULT '',
	file_paths      TEXT NOT NULL DEFAULT '',
	detected_type   TEXT NOT NULL DEFAULT '',
	metadata        TEXT NOT NULL DEFAULT '{}',
	created_at      INTEGER NOT NULL,
	updated_at      INTEGER NOT NULL,
	app_name        TEXT NOT NULL DEFAULT '',
	is_pinned       INTEGER NOT NULL DEFAULT 0,
	is_favorite     INTEGER NOT NULL DEFAULT 0,
	access_count    INTEGER NOT NULL DEFAULT 0,
	content_hash    TEXT NOT NULL UNIQUE
);

CREATE INDEX IF NOT EXISTS idx_clips_updated_at ON clips(updated_at);
CREATE INDEX IF NOT EXISTS idx_clips_content_hash ON clips(content_hash);
CREATE INDEX IF NOT EXISTS idx_clips_content_type ON clips(content_type);

CREATE TABLE IF NOT EXISTS embeddings (
	clip_id    TEXT PRIMARY KEY REFERENCES clips(id) ON DELETE CASCADE,
	vector     BLOB NOT NULL,
	model      TEXT NOT NULL,
	dimensions INTEGER NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE VIRTUAL TABLE IF NOT EXISTS clips_fts USING fts5(
	content_text,
	content=clips,
	content_rowid=rowid
);

CREATE TRIGGER IF NOT EXISTS clips_fts_insert AFTER INSERT ON clips BEGIN
	INSERT INTO clips_fts(rowid, content_text) VALUES (new.rowid, new.content_text);
END;

CREATE TRIGGER IF NOT EXISTS clips_fts_delete AFTER DELETE ON clips BEGIN
	INSERT INTO clips_fts(clips_fts, rowid, content_text) VALUES ('delete', old.rowid, old.content_text);
END;

CREATE TRIGGER IF NOT EXISTS clips_fts_update AFTER UPDATE ON clips BEGIN
	INSERT INTO clips_fts(clips_fts, rowid, content_text) VALUES ('delete', old.rowid, old.content_text);
	INSERT INTO clips_fts(rowid, content_text) VALUES (new.rowid, new.content_text);
END;

CREATE TABLE IF NOT EXISTS tags (
	id   TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS clip_tags (
	clip_id TEXT NOT NULL REFERENCES clips(id) ON DELETE CASCADE,
	tag_id  TEXT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
	PRIMARY KEY (clip_id, tag_id)
);

CREATE TABLE IF NOT EXISTS collections (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS clip_collections (
	clip_id       TEXT NOT NULL REFERENCES clips(id) ON DELETE CASCADE,
	collection_id TEXT NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
	PRIMARY KEY (clip_id, collection_id)
);
`
