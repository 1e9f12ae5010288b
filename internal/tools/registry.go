package tools

import "github.com/arlogriffin/scribe/internal/agent"

// RegisterAll wires every built-in tool into the registry.
func RegisterAll(reg *agent.ToolRegistry) {
	reg.Register(ReadFile{})
	reg.Register(ListFiles{})
	reg.Register(WriteFile{})
	reg.Register(EditFile{})
}
