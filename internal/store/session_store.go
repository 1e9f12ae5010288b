// Package store persists conversation sessions. The primary backend is
// one human-readable JSON file per session; an optional SQLite archive
// provides full-text search across sessions.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/arlogriffin/scribe/internal/domain"
	"github.com/arlogriffin/scribe/internal/history"
	"github.com/arlogriffin/scribe/internal/logging"
)

// ErrNotFound reports that no session exists under the requested id.
// Callers branch on it with errors.Is; a parse failure on an existing
// file surfaces as a distinct error.
var ErrNotFound = errors.New("session not found")

// DefaultListLimit bounds List when the caller passes limit <= 0.
const DefaultListLimit = 10

// previewMaxRunes caps the preview in FormatSessionSummary.
const previewMaxRunes = 50

// SessionStore is a file-per-session durable store. Recency is judged
// by file modification time, not by the logical updatedAt field, so an
// out-of-band touch counts as activity. No cross-process locking is
// performed: two processes saving the same id race and the last writer
// wins.
type SessionStore struct {
	dir string
	log *logging.Logger
}

// NewSessionStore creates a store rooted at dir. The directory is
// created on first save, not here.
func NewSessionStore(dir string, log *logging.Logger) *SessionStore {
	return &SessionStore{dir: dir, log: log.Sub("sessions")}
}

// GenerateID returns a fresh session id: a sortable UTC timestamp
// prefix plus a short random suffix for practical uniqueness without
// coordination.
func GenerateID() string {
	return time.Now().UTC().Format("20060102-150405") + "-" + uuid.NewString()[:8]
}

// Save snapshots h into a session record and writes it to disk,
// returning the id used. An empty id means generate one. Both
// timestamps are set to now: original creation time is not preserved
// across overwrite-saves. The write goes through a temp file and
// rename, so a failed save leaves any prior record untouched.
func (s *SessionStore) Save(h *history.History, provider, model string, totalTokens int, totalCost float64, id string) (string, error) {
	if id == "" {
		id = GenerateID()
	} else if !validID(id) {
		return "", fmt.Errorf("invalid session id %q", id)
	}

	now := time.Now().UTC()
	sess := domain.Session{
		ID:          id,
		CreatedAt:   now,
		UpdatedAt:   now,
		Provider:    provider,
		Model:       model,
		Messages:    h.Messages(),
		TotalTokens: totalTokens,
		TotalCost:   totalCost,
	}

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return "", fmt.Errorf("creating session directory: %w", err)
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding session %s: %w", id, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+id+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("writing session %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("writing session %s: %w", id, err)
	}
	if err := os.Rename(tmp.Name(), s.path(id)); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("writing session %s: %w", id, err)
	}

	s.log.Debug().Str("id", id).Int("messages", len(sess.Messages)).Msg("session saved")
	return id, nil
}

// Load reads the session stored under id. A missing file yields
// ErrNotFound; an unreadable or malformed file yields a wrapped error
// so diagnostics are not conflated with routine absence.
func (s *SessionStore) Load(id string) (*domain.Session, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading session %s: %w", id, err)
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parsing session %s: %w", id, err)
	}
	return &sess, nil
}

// LoadLatest loads the session whose file was most recently modified.
// Returns ErrNotFound when no sessions exist.
func (s *SessionStore) LoadLatest() (*domain.Session, error) {
	ids, err := s.idsByRecency()
	if err != nil || len(ids) == 0 {
		return nil, ErrNotFound
	}
	return s.Load(ids[0])
}

// List returns up to limit sessions ordered most-recently-modified
// first. Entries that fail to load are skipped rather than aborting the
// listing. Storage failures degrade to an empty result.
func (s *SessionStore) List(limit int) []*domain.Session {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	ids, err := s.idsByRecency()
	if err != nil {
		return nil
	}

	var out []*domain.Session
	for _, id := range ids {
		if len(out) == limit {
			break
		}
		sess, err := s.Load(id)
		if err != nil {
			s.log.Warn().Str("id", id).Err(err).Msg("skipping unreadable session")
			continue
		}
		out = append(out, sess)
	}
	return out
}

// Delete removes the session stored under id, reporting whether a
// record was actually removed.
func (s *SessionStore) Delete(id string) bool {
	if !validID(id) {
		return false
	}
	if err := os.Remove(s.path(id)); err != nil {
		return false
	}
	s.log.Debug().Str("id", id).Msg("session deleted")
	return true
}

// RestoreHistory replaces h's contents with the session's messages,
// re-applying the retention policy.
func (s *SessionStore) RestoreHistory(sess *domain.Session, h *history.History) {
	h.Restore(sess.Messages)
}

// FormatSessionSummary renders a one-line descriptor of a session: id,
// date and time, non-system message count, and a short preview of the
// first user message.
func FormatSessionSummary(sess *domain.Session) string {
	preview := "(no user messages)"
	if m, ok := sess.FirstUserMessage(); ok {
		preview = truncate(flattenContent(m.Content), previewMaxRunes)
	}
	return fmt.Sprintf("%s | %s | %d messages | %s",
		sess.ID,
		sess.UpdatedAt.Local().Format("2006-01-02 15:04"),
		sess.NonSystemCount(),
		preview,
	)
}

// flattenContent returns the text of a message body. Sessions imported
// from other frontends sometimes store content as a JSON array of
// typed parts; in that case the text-bearing parts are joined with
// single spaces.
func flattenContent(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "[") || !gjson.Valid(trimmed) {
		return content
	}
	parsed := gjson.Parse(trimmed)
	if !parsed.IsArray() {
		return content
	}
	var parts []string
	for _, el := range parsed.Array() {
		switch {
		case el.Type == gjson.String:
			parts = append(parts, el.String())
		case el.Get("text").Exists():
			parts = append(parts, el.Get("text").String())
		}
	}
	return strings.Join(parts, " ")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

func (s *SessionStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// validID rejects ids that would escape the session directory.
func validID(id string) bool {
	return id != "" && !strings.ContainsAny(id, `/\`) && id != "." && id != ".."
}

// idsByRecency returns all stored session ids, most recently modified
// file first.
func (s *SessionStore) idsByRecency() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	type candidate struct {
		id    string
		mtime time.Time
	}
	var cands []candidate
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		cands = append(cands, candidate{id: strings.TrimSuffix(name, ".json"), mtime: info.ModTime()})
	}

	sort.Slice(cands, func(i, j int) bool { return cands[i].mtime.After(cands[j].mtime) })

	ids := make([]string, len(cands))
	for i, c := range cands {
		ids[i] = c.id
	}
	return ids, nil
}
