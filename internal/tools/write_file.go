package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arlogriffin/scribe/internal/agent"
)

type writeFileInput struct {
	Path    string `json:"path" jsonschema:"required" jsonschema_description:"Relative file path to write."`
	Content string `json:"content" jsonschema_description:"Full content to write; replaces any existing file."`
}

var writeFileSchema = GenerateSchema[writeFileInput]()

// WriteFile creates or overwrites a file. Requires approval.
type WriteFile struct{}

func (WriteFile) Name() string { return "write_file" }

func (WriteFile) Description() string {
	return "Create or overwrite a file at a relative path within the project with the given content. Parent directories are created as needed."
}

func (WriteFile) InputSchema() string { return writeFileSchema }

func (WriteFile) Permission() agent.Permission { return agent.PermissionPrompt }

func (WriteFile) Execute(ctx context.Context, input json.RawMessage, ec agent.ExecContext) (string, error) {
	var in writeFileInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", fmt.Errorf("invalid write_file input: %w", err)
	}

	path, err := resolvePath(ec, in.Path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(in.Content), 0o644); err != nil {
		return "", err
	}
	return fmt.Sprintf("wrote %d bytes to %s", len(in.Content), in.Path), nil
}
