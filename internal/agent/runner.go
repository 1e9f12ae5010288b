// Package agent drives the conversation loop: it appends turns to the
// history, calls the model, executes requested tools, and triggers
// compaction when the history grows long.
package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/arlogriffin/scribe/internal/domain"
	"github.com/arlogriffin/scribe/internal/history"
	"github.com/arlogriffin/scribe/internal/llm"
	"github.com/arlogriffin/scribe/internal/logging"
)

// maxToolIterations limits how many tool-call rounds one user turn may
// trigger.
const maxToolIterations = 5

// summaryPrompt asks the model to compress the conversation so far.
const summaryPrompt = "Summarize the conversation so far in a few sentences. " +
	"Preserve file names, decisions made, and any unfinished work. Reply with the summary only."

// ConfirmFunc approves or rejects a prompt-class tool invocation.
type ConfirmFunc func(toolName, input string) bool

// RunnerConfig configures the conversation loop.
type RunnerConfig struct {
	Model     string
	MaxTokens int
	// CompactAfter triggers summarization when the history reaches
	// this many messages. 0 disables automatic compaction.
	CompactAfter int
	WorkDir      string
	ProjectRoot  string
}

// RunResult is the outcome of processing one user turn.
type RunResult struct {
	Response  string
	Usage     llm.Usage
	CostUSD   float64
	Compacted bool
}

// Runner owns one conversation. It is the only writer to its history.
type Runner struct {
	cfg     RunnerConfig
	client  llm.Client
	hist    *history.History
	tools   *ToolRegistry
	confirm ConfirmFunc
	log     *logging.Logger

	totalUsage llm.Usage
	totalCost  float64
}

// NewRunner creates a runner over an existing history, which may
// already hold restored messages.
func NewRunner(cfg RunnerConfig, client llm.Client, hist *history.History, tools *ToolRegistry, confirm ConfirmFunc, log *logging.Logger) *Runner {
	return &Runner{
		cfg:     cfg,
		client:  client,
		hist:    hist,
		tools:   tools,
		confirm: confirm,
		log:     log.Sub("agent"),
	}
}

// History exposes the conversation log, e.g. for saving.
func (r *Runner) History() *history.History { return r.hist }

// TotalUsage returns tokens consumed across all turns so far.
func (r *Runner) TotalUsage() llm.Usage { return r.totalUsage }

// TotalCost returns the accumulated cost estimate in dollars.
func (r *Runner) TotalCost() float64 { return r.totalCost }

// Run processes one user turn: append it, call the model, execute any
// requested tools, and repeat until the model answers in text.
func (r *Runner) Run(ctx context.Context, userInput string) (*RunResult, error) {
	r.hist.AddUserMessage(userInput)

	r.log.Debug().
		Int("historyLen", r.hist.Len()).
		Int("estTokens", llm.EstimateTokens(r.hist.Messages())).
		Msg("processing turn")

	result := &RunResult{}
	for i := 0; i < maxToolIterations; i++ {
		resp, err := r.client.Complete(ctx, llm.CompletionRequest{
			Model:     r.cfg.Model,
			Messages:  r.hist.Messages(),
			Tools:     r.tools.Definitions(),
			MaxTokens: r.cfg.MaxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("completion: %w", err)
		}

		cost := llm.EstimateCost(resp.Model, resp.Usage)
		result.Usage.InputTokens += resp.Usage.InputTokens
		result.Usage.OutputTokens += resp.Usage.OutputTokens
		result.CostUSD += cost
		r.totalUsage.InputTokens += resp.Usage.InputTokens
		r.totalUsage.OutputTokens += resp.Usage.OutputTokens
		r.totalCost += cost

		r.hist.AddAssistantMessage(resp.Content, resp.ToolCalls)
		result.Response = resp.Content

		if len(resp.ToolCalls) == 0 {
			break
		}

		results := make([]domain.ToolResult, 0, len(resp.ToolCalls))
		for _, tc := range resp.ToolCalls {
			results = append(results, r.executeToolCall(ctx, tc))
		}
		r.hist.AddToolResults(results)
	}

	if r.cfg.CompactAfter > 0 && r.hist.Len() >= r.cfg.CompactAfter {
		result.Compacted = r.compact(ctx)
	}
	return result, nil
}

// executeToolCall resolves and runs one tool call, mapping every
// failure mode into a ToolResult the model can read.
func (r *Runner) executeToolCall(ctx context.Context, tc domain.ToolCall) domain.ToolResult {
	res := domain.ToolResult{ToolCallID: tc.ID, Name: tc.Name}

	tool, ok := r.tools.Get(tc.Name)
	if !ok {
		res.Error = fmt.Sprintf("unknown tool %q", tc.Name)
		return res
	}

	if tool.Permission() == PermissionPrompt {
		if r.confirm == nil || !r.confirm(tc.Name, tc.Input) {
			r.log.Info().Str("tool", tc.Name).Msg("tool call rejected")
			res.Error = "user declined the tool call"
			return res
		}
	}

	ec := ExecContext{WorkDir: r.cfg.WorkDir, ProjectRoot: r.cfg.ProjectRoot}
	out, err := tool.Execute(ctx, json.RawMessage(tc.Input), ec)
	if err != nil {
		r.log.Warn().Str("tool", tc.Name).Err(err).Msg("tool failed")
		res.Error = err.Error()
		return res
	}

	res.Success = true
	res.Output = out
	return res
}

// compact asks the model for a summary and folds the history down
// around it. Failures are logged and skipped; the next turn will
// retry once the threshold is still exceeded.
func (r *Runner) compact(ctx context.Context) bool {
	msgs := append(r.hist.Messages(), domain.Message{Role: domain.RoleUser, Content: summaryPrompt})
	resp, err := r.client.Complete(ctx, llm.CompletionRequest{
		Model:     r.cfg.Model,
		Messages:  msgs,
		MaxTokens: r.cfg.MaxTokens,
	})
	if err != nil || resp.Content == "" {
		r.log.Warn().Err(err).Msg("compaction summary failed, keeping full history")
		return false
	}

	before := r.hist.Len()
	r.hist.Compact(resp.Content)
	r.log.Info().Int("before", before).Int("after", r.hist.Len()).Msg("history compacted")
	return true
}
