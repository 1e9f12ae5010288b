package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlogriffin/scribe/internal/domain"
	"github.com/arlogriffin/scribe/internal/history"
	"github.com/arlogriffin/scribe/internal/logging"
)

func testStore(t *testing.T) *SessionStore {
	t.Helper()
	return NewSessionStore(filepath.Join(t.TempDir(), "sessions"), logging.New(nil, "silent"))
}

func seededHistory() *history.History {
	h := history.New(100)
	h.AddSystemMessage("be helpful")
	h.AddUserMessage("rename the variable")
	h.AddAssistantMessage("done", []domain.ToolCall{{ID: "tc-1", Name: "edit_file", Input: `{"path":"a.go"}`}})
	h.AddToolResults([]domain.ToolResult{{ToolCallID: "tc-1", Name: "edit_file", Success: true, Output: "OK"}})
	return h
}

// backdate gives each session file a distinct, ordered mtime so
// recency ordering does not depend on filesystem timestamp resolution.
func backdate(t *testing.T, s *SessionStore, id string, age time.Duration) {
	t.Helper()
	when := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(s.path(id), when, when))
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := testStore(t)
	h := seededHistory()

	id, err := s.Save(h, "anthropic", "claude-sonnet-4-20250514", 128, 0.004, "")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	sess, err := s.Load(id)
	require.NoError(t, err)
	assert.Equal(t, id, sess.ID)
	assert.Equal(t, "anthropic", sess.Provider)
	assert.Equal(t, "claude-sonnet-4-20250514", sess.Model)
	assert.Equal(t, 128, sess.TotalTokens)
	assert.InDelta(t, 0.004, sess.TotalCost, 1e-9)
	assert.Equal(t, h.Messages(), sess.Messages)
	assert.False(t, sess.CreatedAt.IsZero())
	assert.False(t, sess.UpdatedAt.IsZero())
}

func TestSave_GeneratedIDIsTimeOrderedPrefix(t *testing.T) {
	s := testStore(t)
	id, err := s.Save(history.New(10), "anthropic", "m", 0, 0, "")
	require.NoError(t, err)

	parts := strings.Split(id, "-")
	require.Len(t, parts, 3)
	ts, err := time.Parse("20060102-150405", parts[0]+"-"+parts[1])
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), ts, time.Minute)
	assert.Len(t, parts[2], 8)
}

func TestSave_SuppliedIDIsReusedAndOverwritten(t *testing.T) {
	s := testStore(t)

	h := history.New(10)
	h.AddUserMessage("first")
	id, err := s.Save(h, "anthropic", "m", 1, 0, "my-session")
	require.NoError(t, err)
	assert.Equal(t, "my-session", id)

	h.AddAssistantMessage("second", nil)
	_, err = s.Save(h, "anthropic", "m", 2, 0, "my-session")
	require.NoError(t, err)

	sess, err := s.Load("my-session")
	require.NoError(t, err)
	assert.Len(t, sess.Messages, 2)
	assert.Equal(t, 2, sess.TotalTokens)
}

func TestSave_RejectsPathEscapingID(t *testing.T) {
	s := testStore(t)
	_, err := s.Save(history.New(10), "p", "m", 0, 0, "../evil")
	assert.Error(t, err)
}

func TestLoad_NotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.Load("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoad_CorruptFileIsNotNotFound(t *testing.T) {
	s := testStore(t)
	id, err := s.Save(history.New(10), "p", "m", 0, 0, "")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(s.path(id), []byte("{nope"), 0o600))

	_, err = s.Load(id)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestLoad_TimestampsParse(t *testing.T) {
	s := testStore(t)
	id, err := s.Save(seededHistory(), "p", "m", 0, 0, "")
	require.NoError(t, err)

	sess, err := s.Load(id)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), sess.CreatedAt, time.Minute)
	assert.WithinDuration(t, time.Now(), sess.UpdatedAt, time.Minute)
}

func TestLoadLatest_PicksMostRecentlyModifiedFile(t *testing.T) {
	s := testStore(t)

	idA, err := s.Save(history.New(10), "p", "m", 0, 0, "a")
	require.NoError(t, err)
	idB, err := s.Save(history.New(10), "p", "m", 0, 0, "b")
	require.NoError(t, err)
	backdate(t, s, idA, time.Minute)
	backdate(t, s, idB, 2*time.Minute)

	// Recency follows file mtime, not the logical updatedAt field.
	latest, err := s.LoadLatest()
	require.NoError(t, err)
	assert.Equal(t, "a", latest.ID)
}

func TestLoadLatest_Empty(t *testing.T) {
	s := testStore(t)
	_, err := s.LoadLatest()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_OrdersByRecencyAndHonorsLimit(t *testing.T) {
	s := testStore(t)
	for i, id := range []string{"a", "b", "c"} {
		_, err := s.Save(history.New(10), "p", "m", 0, 0, id)
		require.NoError(t, err)
		backdate(t, s, id, time.Duration(3-i)*time.Minute) // a oldest, c newest
	}

	got := s.List(2)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}

func TestList_SkipsCorruptEntries(t *testing.T) {
	s := testStore(t)
	_, err := s.Save(history.New(10), "p", "m", 0, 0, "good")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(s.path("bad"), []byte("not json"), 0o600))

	got := s.List(0)
	require.Len(t, got, 1)
	assert.Equal(t, "good", got[0].ID)
}

func TestList_EmptyDirectory(t *testing.T) {
	s := testStore(t)
	assert.Empty(t, s.List(5))
}

func TestDelete(t *testing.T) {
	s := testStore(t)
	id, err := s.Save(history.New(10), "p", "m", 0, 0, "")
	require.NoError(t, err)

	assert.True(t, s.Delete(id))
	assert.False(t, s.Delete(id), "second delete finds nothing")
	assert.False(t, s.Delete("never-existed"))
}

func TestRestoreHistory_AppliesRetention(t *testing.T) {
	s := testStore(t)

	big := history.New(100)
	big.AddSystemMessage("sys")
	for i := 0; i < 20; i++ {
		big.AddUserMessage("msg")
	}
	id, err := s.Save(big, "p", "m", 0, 0, "")
	require.NoError(t, err)

	sess, err := s.Load(id)
	require.NoError(t, err)

	small := history.New(5)
	s.RestoreHistory(sess, small)
	assert.Equal(t, 6, small.Len()) // 1 system + cap of 5
}

func TestFormatSessionSummary(t *testing.T) {
	sess := &domain.Session{
		ID:        "20260314-092653-ab12cd34",
		UpdatedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: "sys"},
			{Role: domain.RoleUser, Content: "please refactor the session store"},
			{Role: domain.RoleAssistant, Content: "sure"},
		},
	}

	line := FormatSessionSummary(sess)
	assert.Contains(t, line, "20260314-092653-ab12cd34")
	assert.Contains(t, line, "2 messages")
	assert.Contains(t, line, "please refactor the session store")
}

func TestFormatSessionSummary_TruncatesLongPreview(t *testing.T) {
	long := strings.Repeat("x", 80)
	sess := &domain.Session{
		ID:       "id",
		Messages: []domain.Message{{Role: domain.RoleUser, Content: long}},
	}

	line := FormatSessionSummary(sess)
	assert.Contains(t, line, strings.Repeat("x", 50)+"...")
	assert.NotContains(t, line, strings.Repeat("x", 51))
}

func TestFormatSessionSummary_FlattensPartArrayContent(t *testing.T) {
	sess := &domain.Session{
		ID: "id",
		Messages: []domain.Message{{
			Role:    domain.RoleUser,
			Content: `[{"type":"text","text":"fix"},{"type":"image","url":"x.png"},{"type":"text","text":"the bug"}]`,
		}},
	}

	line := FormatSessionSummary(sess)
	assert.Contains(t, line, "fix the bug")
}

func TestFormatSessionSummary_NoUserMessages(t *testing.T) {
	sess := &domain.Session{ID: "id"}
	assert.Contains(t, FormatSessionSummary(sess), "(no user messages)")
}
