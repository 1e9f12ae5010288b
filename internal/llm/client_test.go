package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlogriffin/scribe/internal/domain"
)

func TestMockClient_Defaults(t *testing.T) {
	m := &MockClient{}
	resp, err := m.Complete(context.Background(), CompletionRequest{
		Messages: []domain.Message{{Role: domain.RoleUser, Content: "hi"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "mock response", resp.Content)
	assert.Equal(t, "mock", m.Name())
	require.Len(t, m.Requests, 1)
	assert.Equal(t, "hi", m.Requests[0].Messages[0].Content)
}

func TestUsage_Total(t *testing.T) {
	u := Usage{InputTokens: 100, OutputTokens: 40}
	assert.Equal(t, 140, u.Total())
}

func TestEstimateTokens(t *testing.T) {
	msgs := []domain.Message{
		{Role: domain.RoleUser, Content: "12345678"}, // 8 chars
		{Role: domain.RoleAssistant, ToolCalls: []domain.ToolCall{
			{Name: "grep", Input: `{"q":"x"}`}, // 4 + 9 chars
		}},
		{Role: domain.RoleTool, ToolResults: []domain.ToolResult{
			{Output: "abc"}, // 3 chars
		}},
	}
	assert.Equal(t, 24/charsPerToken, EstimateTokens(msgs))
}

func TestEstimateTokens_Empty(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(nil))
}

func TestEstimateCost_KnownFamilies(t *testing.T) {
	usage := Usage{InputTokens: 1_000_000, OutputTokens: 1_000_000}

	assert.InDelta(t, 90.0, EstimateCost("claude-opus-4-20250514", usage), 1e-9)
	assert.InDelta(t, 18.0, EstimateCost("claude-sonnet-4-20250514", usage), 1e-9)
	assert.InDelta(t, 4.8, EstimateCost("claude-haiku-3-5-20241022", usage), 1e-9)
}

func TestEstimateCost_UnknownModelFallsBack(t *testing.T) {
	usage := Usage{InputTokens: 1_000_000}
	assert.InDelta(t, 3.0, EstimateCost("some-future-model", usage), 1e-9)
}

func TestConvertMessages_LiftsSystemAndMapsToolTraffic(t *testing.T) {
	msgs := []domain.Message{
		{Role: domain.RoleSystem, Content: "be terse"},
		{Role: domain.RoleUser, Content: "list files"},
		{Role: domain.RoleAssistant, Content: "on it", ToolCalls: []domain.ToolCall{
			{ID: "tc-1", Name: "list_files", Input: "{}"},
		}},
		{Role: domain.RoleTool, ToolResults: []domain.ToolResult{
			{ToolCallID: "tc-1", Name: "list_files", Success: true, Output: `["main.go"]`},
		}},
	}

	system, params := convertMessages(msgs)
	assert.Equal(t, "be terse", system)
	require.Len(t, params, 3) // system message lifted out

	// Assistant message carries a text block and a tool_use block.
	assert.Len(t, params[1].Content, 2)
	require.NotNil(t, params[1].Content[1].OfToolUse)
	assert.Equal(t, "tc-1", params[1].Content[1].OfToolUse.ID)

	// Tool results travel as a user message of tool_result blocks.
	require.NotNil(t, params[2].Content[0].OfToolResult)
	assert.Equal(t, "tc-1", params[2].Content[0].OfToolResult.ToolUseID)
}

func TestConvertMessages_MultipleSystemJoined(t *testing.T) {
	msgs := []domain.Message{
		{Role: domain.RoleSystem, Content: "one"},
		{Role: domain.RoleSystem, Content: "two"},
	}
	system, params := convertMessages(msgs)
	assert.Equal(t, "one\n\ntwo", system)
	assert.Empty(t, params)
}

func TestConvertTools(t *testing.T) {
	defs := []ToolDefinition{{
		Name:        "read_file",
		Description: "Read a file.",
		InputSchema: `{"type":"object","properties":{"path":{"type":"string"}},"required":["path"]}`,
	}}

	out, err := convertTools(defs)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].OfTool)
	assert.Equal(t, "read_file", out[0].OfTool.Name)
	assert.Equal(t, []string{"path"}, out[0].OfTool.InputSchema.Required)
}

func TestConvertTools_BadSchema(t *testing.T) {
	_, err := convertTools([]ToolDefinition{{Name: "x", InputSchema: "{broken"}})
	assert.Error(t, err)
}
