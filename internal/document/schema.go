package document

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// JSONSchema describes the document format written by Serialize.
func JSONSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	s := r.Reflect(&Document{})
	s.Title = "Wireframe document"
	s.Description = fmt.Sprintf("Scene document, schema %q version %d", Schema, Version)

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}
