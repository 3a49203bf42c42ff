package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// bundleSchema is the JSON-schema a catalog update bundle must satisfy
// before its entries are parsed and merged in. Validating structure before
// interpretation keeps a malformed bundle from ever reaching AddOrReplace.
const bundleSchema = `{
  "type": "object",
  "required": ["version", "techniques"],
  "properties": {
    "version": {"type": "string"},
    "techniques": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name", "tactics", "platforms"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "name": {"type": "string"},
          "tactics": {"type": "array", "items": {"type": "string"}},
          "platforms": {"type": "array", "items": {"type": "string"}},
          "templates": {"type": "array", "items": {"type": "string"}}
        }
      }
    }
  }
}`

// Bundle is a versioned set of technique descriptors distributed as a
// catalog-update release asset (see update.go).
type Bundle struct {
	Version    string                `json:"version"`
	Techniques []TechniqueDescriptor `json:"techniques"`
}

// ValidateBundle schema-validates raw bundle JSON before it is unmarshaled
// into a Bundle. Returns a descriptive error listing every violation found
// using gojsonschema against the bundle manifest schema.
func ValidateBundle(raw []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(bundleSchema)
	docLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("catalog: schema validation failed: %w", err)
	}
	if !result.Valid() {
		msg := "catalog: bundle does not conform to schema:"
		for _, e := range result.Errors() {
			msg += "\n  - " + e.String()
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}

// ParseBundle validates and decodes a catalog bundle.
func ParseBundle(raw []byte) (*Bundle, error) {
	if err := ValidateBundle(raw); err != nil {
		return nil, err
	}
	var b Bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("catalog: decoding bundle: %w", err)
	}
	return &b, nil
}
