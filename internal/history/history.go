// Package history maintains the in-memory conversation log with bounded
// retention, compaction, and single-step undo.
package history

import (
	"fmt"
	"sync"

	"github.com/arlogriffin/scribe/internal/domain"
)

// DefaultMaxMessages is the retention cap applied when none is configured.
const DefaultMaxMessages = 100

// compactKeepRecent is how many trailing messages survive a Compact.
const compactKeepRecent = 10

// History is an ordered conversation log. It is the sole mutator of its
// message sequence; everything else reads snapshots or replaces the
// contents wholesale via Restore.
//
// Non-system messages are capped at maxMessages; system messages are
// exempt from the cap and always sort before non-system messages.
type History struct {
	messages    []domain.Message
	maxMessages int
}

// New returns an empty history capped at maxMessages non-system
// messages. Values <= 0 fall back to DefaultMaxMessages.
func New(maxMessages int) *History {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}
	return &History{maxMessages: maxMessages}
}

var (
	defaultOnce sync.Once
	defaultInst *History
)

// Default returns the process-wide shared history, creating it on first
// use. It exists as a convenience for single-session programs; nothing
// in this package requires it.
func Default() *History {
	defaultOnce.Do(func() {
		defaultInst = New(DefaultMaxMessages)
	})
	return defaultInst
}

// AddUserMessage appends a user message.
func (h *History) AddUserMessage(content string) {
	h.messages = append(h.messages, domain.Message{Role: domain.RoleUser, Content: content})
	h.trim()
}

// AddAssistantMessage appends an assistant message, optionally carrying
// tool calls.
func (h *History) AddAssistantMessage(content string, toolCalls []domain.ToolCall) {
	h.messages = append(h.messages, domain.Message{
		Role:      domain.RoleAssistant,
		Content:   content,
		ToolCalls: append([]domain.ToolCall(nil), toolCalls...),
	})
	h.trim()
}

// AddToolResults appends a tool message wrapping the given results. The
// message itself has no text content.
func (h *History) AddToolResults(results []domain.ToolResult) {
	h.messages = append(h.messages, domain.Message{
		Role:        domain.RoleTool,
		ToolResults: append([]domain.ToolResult(nil), results...),
	})
	h.trim()
}

// AddSystemMessage inserts a system message at the front of the log.
// System messages carry persistent instructions, so retention is not
// applied: they survive regardless of conversation length.
func (h *History) AddSystemMessage(content string) {
	msg := domain.Message{Role: domain.RoleSystem, Content: content}
	h.messages = append([]domain.Message{msg}, h.messages...)
}

// Messages returns an independent copy of the log in stored order.
func (h *History) Messages() []domain.Message {
	out := make([]domain.Message, len(h.messages))
	for i, m := range h.messages {
		out[i] = m.Clone()
	}
	return out
}

// LastMessage returns the most recent message, or false if the log is
// empty.
func (h *History) LastMessage() (domain.Message, bool) {
	if len(h.messages) == 0 {
		return domain.Message{}, false
	}
	return h.messages[len(h.messages)-1].Clone(), true
}

// Len returns the total message count, system messages included.
func (h *History) Len() int {
	return len(h.messages)
}

// Clear removes every non-system message. System messages are retained
// unconditionally.
func (h *History) Clear() {
	kept := h.messages[:0]
	for _, m := range h.messages {
		if m.Role == domain.RoleSystem {
			kept = append(kept, m)
		}
	}
	h.messages = kept
}

// Compact replaces the log with the system messages (original relative
// order), one synthetic assistant message wrapping summary, and the
// most recent 10 messages of the pre-compaction sequence. The recent
// tail is taken verbatim: a system message that happens to be recent
// appears both in the prefix and the tail, and that duplication is
// intentional. Producing the summary is the caller's job.
func (h *History) Compact(summary string) {
	var system []domain.Message
	for _, m := range h.messages {
		if m.Role == domain.RoleSystem {
			system = append(system, m)
		}
	}

	tail := h.messages
	if len(tail) > compactKeepRecent {
		tail = tail[len(tail)-compactKeepRecent:]
	}

	next := make([]domain.Message, 0, len(system)+1+len(tail))
	next = append(next, system...)
	next = append(next, domain.Message{
		Role:    domain.RoleAssistant,
		Content: fmt.Sprintf("[Previous conversation summary: %s]", summary),
	})
	next = append(next, tail...)
	h.messages = next
}

// UndoLast removes the most recent message. It reports false, leaving
// the log unchanged, when the log is empty or the last message is a
// system message. When the removed message was an assistant or tool
// turn and the message before it is a user message, that user message
// is removed as well, so one undo reverts one full turn.
func (h *History) UndoLast() bool {
	n := len(h.messages)
	if n == 0 {
		return false
	}
	last := h.messages[n-1]
	if last.Role == domain.RoleSystem {
		return false
	}
	h.messages = h.messages[:n-1]

	if last.Role == domain.RoleAssistant || last.Role == domain.RoleTool {
		if n-2 >= 0 && h.messages[n-2].Role == domain.RoleUser {
			h.messages = h.messages[:n-2]
		}
	}
	return true
}

// Restore replaces the log contents with msgs and re-applies retention,
// so a restored history can never exceed the configured cap. The
// counterpart for serialization is Messages.
func (h *History) Restore(msgs []domain.Message) {
	h.messages = make([]domain.Message, len(msgs))
	for i, m := range msgs {
		h.messages[i] = m.Clone()
	}
	h.trim()
}

// trim enforces the retention cap: system messages first in their
// original relative order, then the most recent maxMessages non-system
// messages in theirs.
func (h *History) trim() {
	var system, rest []domain.Message
	for _, m := range h.messages {
		if m.Role == domain.RoleSystem {
			system = append(system, m)
		} else {
			rest = append(rest, m)
		}
	}
	if len(system) == 0 && len(rest) <= h.maxMessages {
		return
	}
	if len(rest) > h.maxMessages {
		rest = rest[len(rest)-h.maxMessages:]
	}
	h.messages = append(system, rest...)
}
