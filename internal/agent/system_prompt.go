package agent

import (
	"fmt"
	"strings"
)

// PromptConfig feeds BuildSystemPrompt.
type PromptConfig struct {
	Model   string
	WorkDir string
	Tools   []string
}

// BuildSystemPrompt assembles the standing instructions that seed a new
// conversation. It lives in the history as a system message, so it
// survives retention and compaction.
func BuildSystemPrompt(cfg PromptConfig) string {
	var b strings.Builder
	b.WriteString("You are scribe, a coding assistant working in a user's project.\n")
	fmt.Fprintf(&b, "Working directory: %s\n", cfg.WorkDir)
	if len(cfg.Tools) > 0 {
		fmt.Fprintf(&b, "Available tools: %s\n", strings.Join(cfg.Tools, ", "))
	}
	b.WriteString("Prefer reading files before editing them. Keep answers short and concrete.")
	return b.String()
}
