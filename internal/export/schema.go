package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/file-analyzer/internal/identity"
)

// IdentityDocument is the JSON form of an identity record. Absent fields
// are omitted rather than written as display placeholders.
type IdentityDocument struct {
	ID          string  `json:"id"`
	Source      string  `json:"source"`
	Page        int     `json:"page"`
	Identifier  string  `json:"identifier"`
	Name        *string `json:"name,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
	Gender      *string `json:"gender,omitempty"`
}

// NewIdentityDocument pairs a match with the file it was found in.
func NewIdentityDocument(source string, m identity.Match) IdentityDocument {
	return IdentityDocument{
		ID:          m.Record.ID,
		Source:      source,
		Page:        m.Page,
		Identifier:  m.Record.Identifier,
		Name:        m.Record.Name,
		DateOfBirth: m.Record.DateOfBirth,
		Gender:      m.Record.Gender,
	}
}

// BuildIdentityJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a generic map.
func BuildIdentityJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"id":            map[string]any{"type": "string"},
			"source":        map[string]any{"type": "string"},
			"page":          map[string]any{"type": "integer", "minimum": 1},
			"identifier":    map[string]any{"type": "string", "pattern": `^\d{4}[\s-]?\d{4}[\s-]?\d{4}$`},
			"name":          map[string]any{"type": "string"},
			"date_of_birth": map[string]any{"type": "string", "pattern": `^\d{2}/\d{2}/\d{4}$`},
			"gender":        map[string]any{"type": "string", "enum": []string{"Female", "Male", "M", "F"}},
		},
		"required": []string{"id", "source", "page", "identifier"},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// WriteIdentityJSON validates doc and writes it, indented, to path.
func (s *Service) WriteIdentityJSON(path string, doc IdentityDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	if err := ValidateJSONAgainstSchema(BuildIdentityJSONSchema(), data); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create json dir: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write identity json: %w", err)
	}
	s.logger.Debug("export.identity_json.ok", "path", path, "id", doc.ID)
	return nil
}
