package store

// migration is a single ordered schema change.
type migration struct {
	Version int
	Name    string
	SQL     string
}

var migrations = []migration{
	{
		Version: 1,
		Name:    "create archived sessions and messages",
		SQL: `
			CREATE TABLE archived_sessions (
				id         TEXT PRIMARY KEY,
				provider   TEXT NOT NULL DEFAULT '',
				model      TEXT NOT NULL DEFAULT '',
				updated_at TEXT NOT NULL DEFAULT (datetime('now'))
			);

			CREATE TABLE archived_messages (
				id         INTEGER PRIMARY KEY AUTOINCREMENT,
				session_id TEXT NOT NULL REFERENCES archived_sessions(id) ON DELETE CASCADE,
				seq        INTEGER NOT NULL,
				role       TEXT NOT NULL,
				content    TEXT NOT NULL
			);

			CREATE INDEX idx_archived_messages_session ON archived_messages (session_id, seq);
		`,
	},
	{
		Version: 2,
		Name:    "full-text index over archived messages",
		SQL: `
			CREATE VIRTUAL TABLE archived_messages_fts USING fts5(
				content,
				content='archived_messages',
				content_rowid='id'
			);

			CREATE TRIGGER archived_messages_ai AFTER INSERT ON archived_messages BEGIN
				INSERT INTO archived_messages_fts(rowid, content)
				VALUES (new.id, new.content);
			END;

			CREATE TRIGGER archived_messages_ad AFTER DELETE ON archived_messages BEGIN
				INSERT INTO archived_messages_fts(archived_messages_fts, rowid, content)
				VALUES ('delete', old.id, old.content);
			END;
		`,
	},
}
