package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/arlogriffin/scribe/internal/domain"
	"github.com/arlogriffin/scribe/internal/logging"
)

// DefaultModel is used when the config names none.
const DefaultModel = "claude-sonnet-4-20250514"

// AnthropicClient implements Client on the official Anthropic SDK.
type AnthropicClient struct {
	client anthropic.Client
	model  string
	log    *logging.Logger
}

// NewAnthropicClient creates a client. An empty apiKey falls back to
// the SDK's own environment lookup (ANTHROPIC_API_KEY).
func NewAnthropicClient(apiKey, model string, log *logging.Logger) *AnthropicClient {
	var opts []option.RequestOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if model == "" {
		model = DefaultModel
	}
	return &AnthropicClient{
		client: anthropic.NewClient(opts...),
		model:  model,
		log:    log.Sub("llm.anthropic"),
	}
}

func (c *AnthropicClient) Name() string { return "anthropic" }

// Complete sends the conversation and maps the reply back into the
// domain shape, including any tool_use blocks as ToolCalls.
func (c *AnthropicClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	system, msgs := convertMessages(req.Messages)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages:  msgs,
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if len(req.Tools) > 0 {
		tools, err := convertTools(req.Tools)
		if err != nil {
			return nil, err
		}
		params.Tools = tools
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic completion: %w", err)
	}

	resp := &CompletionResponse{
		StopReason: string(msg.StopReason),
		Model:      string(msg.Model),
		Usage: Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
		},
	}

	var text strings.Builder
	for _, block := range msg.Content {
		switch v := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(v.Text)
		case anthropic.ToolUseBlock:
			resp.ToolCalls = append(resp.ToolCalls, domain.ToolCall{
				ID:    v.ID,
				Name:  v.Name,
				Input: v.JSON.Input.Raw(),
			})
		}
	}
	resp.Content = text.String()

	c.log.Debug().
		Str("model", resp.Model).
		Str("stopReason", resp.StopReason).
		Int("inputTokens", resp.Usage.InputTokens).
		Int("outputTokens", resp.Usage.OutputTokens).
		Int("toolCalls", len(resp.ToolCalls)).
		Msg("completion received")
	return resp, nil
}

// convertMessages maps domain messages to SDK params. System messages
// are concatenated into the separate system slot the API expects; tool
// results travel as user messages carrying tool_result blocks.
func convertMessages(msgs []domain.Message) (string, []anthropic.MessageParam) {
	var system []string
	var out []anthropic.MessageParam

	for _, m := range msgs {
		switch m.Role {
		case domain.RoleSystem:
			system = append(system, m.Content)
		case domain.RoleUser:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case domain.RoleAssistant:
			var blocks []anthropic.ContentBlockParamUnion
			if m.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(m.Content))
			}
			for _, tc := range m.ToolCalls {
				blocks = append(blocks, anthropic.ContentBlockParamUnion{
					OfToolUse: &anthropic.ToolUseBlockParam{
						ID:    tc.ID,
						Name:  tc.Name,
						Input: json.RawMessage(tc.Input),
					},
				})
			}
			if len(blocks) > 0 {
				out = append(out, anthropic.NewAssistantMessage(blocks...))
			}
		case domain.RoleTool:
			var blocks []anthropic.ContentBlockParamUnion
			for _, r := range m.ToolResults {
				content := r.Output
				if !r.Success {
					content = r.Error
				}
				blocks = append(blocks, anthropic.NewToolResultBlock(r.ToolCallID, content, !r.Success))
			}
			if len(blocks) > 0 {
				out = append(out, anthropic.NewUserMessage(blocks...))
			}
		}
	}
	return strings.Join(system, "\n\n"), out
}

// convertTools maps tool definitions to SDK params, lifting the JSON
// Schema "properties" and "required" members into the typed schema.
func convertTools(defs []ToolDefinition) ([]anthropic.ToolUnionParam, error) {
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, d := range defs {
		var schema struct {
			Properties any      `json:"properties"`
			Required   []string `json:"required"`
		}
		if d.InputSchema != "" {
			if err := json.Unmarshal([]byte(d.InputSchema), &schema); err != nil {
				return nil, fmt.Errorf("tool %s: invalid input schema: %w", d.Name, err)
			}
		}
		out = append(out, anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
			Name:        d.Name,
			Description: anthropic.String(d.Description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: schema.Properties,
				Required:   schema.Required,
			},
		}})
	}
	return out, nil
}
