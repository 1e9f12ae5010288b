package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/arlogriffin/scribe/internal/agent"
)

type readFileInput struct {
	Path   string `json:"path" jsonschema:"required" jsonschema_description:"Relative file path within the project."`
	Offset int    `json:"offset,omitempty" jsonschema_description:"Line offset (0-based) to start reading from."`
	Limit  int    `json:"limit,omitempty" jsonschema_description:"Maximum lines to return (default 500)."`
}

const defaultReadLimit = 500

// truncationNote marks paginated output so the model asks for more
// instead of assuming it saw the whole file.
const truncationNote = "\n-- truncated; use offset/limit to fetch more --"

var readFileSchema = GenerateSchema[readFileInput]()

// ReadFile reads a text file inside the project.
type ReadFile struct{}

func (ReadFile) Name() string { return "read_file" }

func (ReadFile) Description() string {
	return "Read the contents of a file at a relative path within the project. Supports line offset/limit pagination for large files."
}

func (ReadFile) InputSchema() string { return readFileSchema }

func (ReadFile) Permission() agent.Permission { return agent.PermissionAuto }

func (ReadFile) Execute(ctx context.Context, input json.RawMessage, ec agent.ExecContext) (string, error) {
	var in readFileInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", fmt.Errorf("invalid read_file input: %w", err)
	}

	path, err := resolvePath(ec, in.Path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory, use list_files", in.Path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultReadLimit
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}

	lines := strings.Split(string(data), "\n")
	if offset >= len(lines) {
		return "", nil
	}
	end := offset + limit
	truncated := end < len(lines)
	if !truncated {
		end = len(lines)
	}

	out := strings.Join(lines[offset:end], "\n")
	if truncated {
		out += truncationNote
	}
	return out, nil
}
