// Package llm defines the AI-backend client interface and the Anthropic
// implementation. The conversation core never talks to a provider
// directly; it only stores the messages a client produces.
package llm

import (
	"context"

	"github.com/arlogriffin/scribe/internal/domain"
)

// ToolDefinition describes a tool the model may invoke. InputSchema is
// a JSON Schema document as a string.
type ToolDefinition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema string `json:"inputSchema"`
}

// CompletionRequest is the input to a Complete call. System messages in
// Messages are lifted into the provider's system slot by the client.
type CompletionRequest struct {
	Model     string           `json:"model,omitempty"`
	Messages  []domain.Message `json:"messages"`
	Tools     []ToolDefinition `json:"tools,omitempty"`
	MaxTokens int              `json:"maxTokens,omitempty"`
}

// Usage tracks token consumption for one completion.
type Usage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
}

// Total returns combined input and output tokens.
func (u Usage) Total() int { return u.InputTokens + u.OutputTokens }

// CompletionResponse is the result of a completion.
type CompletionResponse struct {
	Content    string            `json:"content"`
	ToolCalls  []domain.ToolCall `json:"toolCalls,omitempty"`
	StopReason string            `json:"stopReason,omitempty"`
	Model      string            `json:"model,omitempty"`
	Usage      Usage             `json:"usage"`
}

// Client is an AI backend capable of chat completions.
type Client interface {
	// Name identifies the provider (e.g. "anthropic").
	Name() string

	// Complete sends the conversation and returns the model's reply.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}
