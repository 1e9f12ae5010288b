package agent

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/arlogriffin/scribe/internal/llm"
)

// Permission classifies whether a tool may run without confirmation.
type Permission string

const (
	// PermissionAuto tools execute without asking.
	PermissionAuto Permission = "auto"
	// PermissionPrompt tools require external approval before executing.
	PermissionPrompt Permission = "prompt"
)

// ExecContext supplies path resolution context to a tool invocation.
type ExecContext struct {
	// WorkDir is the directory relative paths resolve against.
	WorkDir string
	// ProjectRoot bounds what tools may touch. Empty means WorkDir.
	ProjectRoot string
}

// Root returns the effective boundary directory.
func (ec ExecContext) Root() string {
	if ec.ProjectRoot != "" {
		return ec.ProjectRoot
	}
	return ec.WorkDir
}

// Tool is a capability the assistant can invoke during a conversation.
// The conversation core itself never calls tools; it only stores the
// calls and results the runner produces.
type Tool interface {
	// Name returns the tool's identifier.
	Name() string

	// Description returns a human-readable description for the model.
	Description() string

	// InputSchema returns the JSON Schema for the tool's input.
	InputSchema() string

	// Permission reports whether the tool needs approval to run.
	Permission() Permission

	// Execute runs the tool. A non-nil error means the invocation
	// failed; the error text is surfaced to the model.
	Execute(ctx context.Context, input json.RawMessage, ec ExecContext) (string, error)
}

// ToolRegistry holds available tools.
type ToolRegistry struct {
	tools map[string]Tool
}

// NewToolRegistry creates an empty tool registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{tools: make(map[string]Tool)}
}

// Register adds a tool, replacing any prior tool of the same name.
func (r *ToolRegistry) Register(t Tool) {
	r.tools[t.Name()] = t
}

// Get returns a tool by name.
func (r *ToolRegistry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Definitions returns model-ready tool definitions, sorted by name so
// request payloads are deterministic.
func (r *ToolRegistry) Definitions() []llm.ToolDefinition {
	defs := make([]llm.ToolDefinition, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, llm.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.InputSchema(),
		})
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}
