package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS items (
	id           TEXT PRIMARY KEY,
	workspace_id TEXT NOT NULL,
	label        TEXT NOT NULL,
	completed    INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	priority     TEXT NOT NULL DEFAULT '' CHECK(priority IN ('', 'high', 'medium', 'low')),
	due_date     DATETIME,
	parent_id    TEXT REFERENCES items(id) ON DELETE CASCADE,
	position     INTEGER NOT NULL DEFAULT 0,
	created_at   DATETIME NOT NULL,
	updated_at   DATETIME NOT NULL,
	completed_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_items_workspace ON items(workspace_id);
CREATE INDEX IF NOT EXISTS idx_items_parent ON items(parent_id);

CREATE TABLE IF NOT EXISTS notes (
	id         TEXT PRIMARY KEY,
	item_id    TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
	text       TEXT NOT NULL,
	position   INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_notes_item ON notes(item_id);

CREATE TABLE IF NOT EXISTS item_tags (
	item_id  TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
	tag      TEXT NOT NULL,
	position INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (item_id, tag)
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
