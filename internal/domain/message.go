// Package domain holds the shared data model for conversations and
// durable sessions.
package domain

// Role classifies who produced a message. The set is closed: the core
// never invents roles at runtime.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleTool:
		return true
	}
	return false
}

// Message is a single turn in a conversation.
//
// ToolCalls may only be set on assistant messages; ToolResults may only
// be set on tool messages. Tool messages carry empty Content; their
// payload lives in ToolResults.
type Message struct {
	Role        Role         `json:"role"`
	Content     string       `json:"content"`
	ToolCalls   []ToolCall   `json:"toolCalls,omitempty"`
	ToolResults []ToolResult `json:"toolResults,omitempty"`
}

// Clone returns a copy of m whose slices do not alias the original.
func (m Message) Clone() Message {
	c := m
	if len(m.ToolCalls) > 0 {
		c.ToolCalls = append([]ToolCall(nil), m.ToolCalls...)
	}
	if len(m.ToolResults) > 0 {
		c.ToolResults = append([]ToolResult(nil), m.ToolResults...)
	}
	return c
}

// ToolCall is a request by the assistant to invoke a named tool.
// Input is the raw JSON argument payload; the conversation core stores
// and replays it without interpreting it.
type ToolCall struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Input string `json:"input"`
}

// ToolResult is the outcome of executing one tool call.
type ToolResult struct {
	ToolCallID string `json:"toolCallId"`
	Name       string `json:"name"`
	Success    bool   `json:"success"`
	Output     string `json:"output,omitempty"`
	Error      string `json:"error,omitempty"`
}
