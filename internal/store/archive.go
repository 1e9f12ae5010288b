package store

import (
	"fmt"
	"time"

	"github.com/arlogriffin/scribe/internal/domain"
)

// Archive mirrors saved sessions into SQLite so their messages can be
// searched across sessions. It is an index over the file store, not a
// source of truth: the JSON files remain authoritative and any archive
// row can be rebuilt from them.
type Archive struct {
	db *DB
}

// NewArchive creates an archive over an open database.
func NewArchive(db *DB) *Archive {
	return &Archive{db: db}
}

// SearchHit is one matching message from Search.
type SearchHit struct {
	SessionID string
	Role      domain.Role
	Content   string
}

// Index records (or re-records) a session's messages. Indexing is
// idempotent: prior rows for the session are dropped first.
func (a *Archive) Index(sess *domain.Session) error {
	tx, err := a.db.sql.Begin()
	if err != nil {
		return fmt.Errorf("begin index: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM archived_messages WHERE session_id = ?", sess.ID); err != nil {
		return fmt.Errorf("clearing old rows for %s: %w", sess.ID, err)
	}
	if _, err := tx.Exec(
		`INSERT INTO archived_sessions (id, provider, model, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET provider=excluded.provider, model=excluded.model, updated_at=excluded.updated_at`,
		sess.ID, sess.Provider, sess.Model, sess.UpdatedAt.UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("upserting session %s: %w", sess.ID, err)
	}

	for i, m := range sess.Messages {
		content := m.Content
		if m.Role == domain.RoleTool {
			// Tool messages carry no text; index their outputs instead.
			for _, r := range m.ToolResults {
				content += r.Output
			}
		}
		if content == "" {
			continue
		}
		if _, err := tx.Exec(
			"INSERT INTO archived_messages (session_id, seq, role, content) VALUES (?, ?, ?, ?)",
			sess.ID, i, string(m.Role), content,
		); err != nil {
			return fmt.Errorf("indexing message %d of %s: %w", i, sess.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit index for %s: %w", sess.ID, err)
	}
	a.db.log.Debug().Str("id", sess.ID).Int("messages", len(sess.Messages)).Msg("session indexed")
	return nil
}

// Remove drops a session from the archive.
func (a *Archive) Remove(sessionID string) error {
	if _, err := a.db.sql.Exec("DELETE FROM archived_sessions WHERE id = ?", sessionID); err != nil {
		return fmt.Errorf("removing %s from archive: %w", sessionID, err)
	}
	return nil
}

// Search returns up to limit messages matching the FTS5 query, newest
// sessions first.
func (a *Archive) Search(query string, limit int) ([]SearchHit, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := a.db.sql.Query(`
		SELECT m.session_id, m.role, m.content
		FROM archived_messages_fts f
		JOIN archived_messages m ON m.id = f.rowid
		JOIN archived_sessions s ON s.id = m.session_id
		WHERE archived_messages_fts MATCH ?
		ORDER BY s.updated_at DESC, m.seq
		LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching archive: %w", err)
	}
	defer rows.Close()

	var hits []SearchHit
	for rows.Next() {
		var h SearchHit
		var role string
		if err := rows.Scan(&h.SessionID, &role, &h.Content); err != nil {
			continue
		}
		h.Role = domain.Role(role)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
