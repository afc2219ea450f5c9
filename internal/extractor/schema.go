package extractor

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"docverify/internal/domain"
)

//go:embed schema.yaml
var schemaYAML []byte

// Schema maps each supported document type to the fields extracted from it.
type Schema map[domain.DocumentType][]domain.FieldSpec

var defaultSchema = mustLoadSchema(schemaYAML)

// DefaultSchema returns the built-in field schema.
func DefaultSchema() Schema {
	return defaultSchema
}

// LoadSchema decodes a YAML document of the form `type: [ {name, description, date} ]`.
func LoadSchema(data []byte) (Schema, error) {
	raw := map[string][]domain.FieldSpec{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding field schema: %w", err)
	}
	s := make(Schema, len(raw))
	for key, fields := range raw {
		dt := domain.ParseDocumentType(key)
		if dt == domain.DocumentTypeUnknown {
			return nil, fmt.Errorf("field schema: unsupported document type %q", key)
		}
		if len(fields) == 0 {
			return nil, fmt.Errorf("field schema: %s has no fields", key)
		}
		seen := map[string]bool{}
		for _, f := range fields {
			if f.Name == "" {
				return nil, fmt.Errorf("field schema: %s has a field without a name", key)
			}
			if seen[f.Name] {
				return nil, fmt.Errorf("field schema: %s lists %s twice", key, f.Name)
			}
			seen[f.Name] = true
		}
		s[dt] = fields
	}
	return s, nil
}

func mustLoadSchema(data []byte) Schema {
	s, err := LoadSchema(data)
	if err != nil {
		panic(err)
	}
	return s
}

// Fields returns the field specs for a document type, or nil if unsupported.
func (s Schema) Fields(dt domain.DocumentType) []domain.FieldSpec {
	return s[dt]
}

// FieldNames returns the ordered field names for a document type.
func (s Schema) FieldNames(dt domain.DocumentType) []string {
	specs := s[dt]
	names := make([]string, len(specs))
	for i, f := range specs {
		names[i] = f.Name
	}
	return names
}

// Supports reports whether fields can be extracted for the document type.
func (s Schema) Supports(dt domain.DocumentType) bool {
	return len(s[dt]) > 0
}

// Names returns the {type: [field names]} listing served by the API.
func (s Schema) Names() map[domain.DocumentType][]string {
	out := make(map[domain.DocumentType][]string, len(s))
	for dt := range s {
		out[dt] = s.FieldNames(dt)
	}
	return out
}
