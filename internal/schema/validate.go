package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed product.schema.json
var productSchema string

// ValidationError reports which canonical fields violated the schema.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single violation at a specific field path.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("product validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Validate checks a canonical product against the embedded JSON Schema.
// It guards the persister against extractor bugs that drop a required
// group before any row is written.
func Validate(p *Product) error {
	jsonBytes, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}

	schemaLoader := gojsonschema.NewStringLoader(productSchema)
	documentLoader := gojsonschema.NewBytesLoader(jsonBytes)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed during load: %w", err)
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
