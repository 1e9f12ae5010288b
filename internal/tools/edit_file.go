package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/arlogriffin/scribe/internal/agent"
)

type editFileInput struct {
	Path   string `json:"path" jsonschema:"required" jsonschema_description:"Relative file path to edit."`
	OldStr string `json:"old_str" jsonschema_description:"Exact text to replace. Empty creates a new file."`
	NewStr string `json:"new_str" jsonschema_description:"Replacement text, or the full content of a new file."`
}

var editFileSchema = GenerateSchema[editFileInput]()

// EditFile replaces text in an existing file, or creates a new file
// when old_str is empty. Requires approval.
type EditFile struct{}

func (EditFile) Name() string { return "edit_file" }

func (EditFile) Description() string {
	return "Edit a file by replacing every occurrence of old_str with new_str. " +
		"With an empty old_str and a file that does not exist yet, creates the file with new_str as its content."
}

func (EditFile) InputSchema() string { return editFileSchema }

func (EditFile) Permission() agent.Permission { return agent.PermissionPrompt }

func (EditFile) Execute(ctx context.Context, input json.RawMessage, ec agent.ExecContext) (string, error) {
	var in editFileInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", fmt.Errorf("invalid edit_file input: %w", err)
	}
	if in.OldStr == in.NewStr {
		return "", fmt.Errorf("old_str and new_str must differ")
	}

	path, err := resolvePath(ec, in.Path)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && in.OldStr == "" {
			if err := os.WriteFile(path, []byte(in.NewStr), 0o644); err != nil {
				return "", err
			}
			return fmt.Sprintf("created %s", in.Path), nil
		}
		return "", err
	}

	if in.OldStr == "" {
		return "", fmt.Errorf("old_str is required when editing an existing file")
	}

	content := string(data)
	count := strings.Count(content, in.OldStr)
	if count == 0 {
		return "", fmt.Errorf("old_str not found in %s", in.Path)
	}

	if err := os.WriteFile(path, []byte(strings.ReplaceAll(content, in.OldStr, in.NewStr)), 0o644); err != nil {
		return "", err
	}
	return fmt.Sprintf("replaced %d occurrence(s) in %s", count, in.Path), nil
}
