package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/arlogriffin/scribe/internal/agent"
)

type listFilesInput struct {
	Path string `json:"path,omitempty" jsonschema_description:"Relative directory to list (defaults to the working directory)."`
}

var listFilesSchema = GenerateSchema[listFilesInput]()

// ListFiles lists directory entries, non-recursively.
type ListFiles struct{}

func (ListFiles) Name() string { return "list_files" }

func (ListFiles) Description() string {
	return "List entries of a directory within the project (non-recursive). Directories are suffixed with '/'."
}

func (ListFiles) InputSchema() string { return listFilesSchema }

func (ListFiles) Permission() agent.Permission { return agent.PermissionAuto }

func (ListFiles) Execute(ctx context.Context, input json.RawMessage, ec agent.ExecContext) (string, error) {
	var in listFilesInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", fmt.Errorf("invalid list_files input: %w", err)
	}
	if in.Path == "" {
		in.Path = "."
	}

	path, err := resolvePath(ec, in.Path)
	if err != nil {
		return "", err
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return "", err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)

	b, err := json.Marshal(names)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
