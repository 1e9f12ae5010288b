package domain

import "time"

// Session is a durable snapshot of a conversation plus provider and
// usage metadata. Once written it is only ever overwritten whole under
// the same ID, never partially mutated on disk.
type Session struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Provider    string    `json:"provider"`
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	TotalTokens int       `json:"totalTokens"`
	TotalCost   float64   `json:"totalCost"`
}

// NonSystemCount returns the number of messages excluding system messages.
func (s *Session) NonSystemCount() int {
	n := 0
	for _, m := range s.Messages {
		if m.Role != RoleSystem {
			n++
		}
	}
	return n
}

// FirstUserMessage returns the first user message, if any.
func (s *Session) FirstUserMessage() (Message, bool) {
	for _, m := range s.Messages {
		if m.Role == RoleUser {
			return m, true
		}
	}
	return Message{}, false
}
