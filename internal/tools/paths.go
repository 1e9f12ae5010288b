package tools

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arlogriffin/scribe/internal/agent"
)

// resolvePath turns a tool-supplied relative path into an absolute one
// inside the project boundary. Absolute inputs and traversal outside
// the root are rejected.
func resolvePath(ec agent.ExecContext, rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("path is required")
	}
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("absolute paths are not allowed")
	}

	workDir, err := filepath.Abs(ec.WorkDir)
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	root, err := filepath.Abs(ec.Root())
	if err != nil {
		return "", fmt.Errorf("resolving project root: %w", err)
	}

	abs := filepath.Clean(filepath.Join(workDir, rel))
	inside, err := filepath.Rel(root, abs)
	if err != nil || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes the project root", rel)
	}
	return abs, nil
}
