// Package tools implements the filesystem tools the assistant can
// invoke: read_file, list_files, write_file, edit_file. Each tool is
// stateless; all path resolution happens per call via the ExecContext.
package tools

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema derives a JSON Schema string from a tool input struct.
// Field descriptions come from jsonschema_description tags.
func GenerateSchema[T any]() string {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(&v)
	b, err := json.Marshal(schema)
	if err != nil {
		// Only reachable with a broken input struct, which is a
		// programming error.
		panic(err)
	}
	return string(b)
}
