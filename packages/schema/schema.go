// Package schema validates decoded response data against JSON Schema files.
package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ValidationError lists every schema violation found in a document.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema validation failed: %s", strings.Join(e.Errors, "; "))
}

// ValidateFile checks data against the schema stored at path.
func ValidateFile(path string, data any) error {
	schemaData, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}
	return Validate(schemaData, data)
}

// Validate checks data against a JSON schema document. It returns a
// *ValidationError when the data does not conform.
func Validate(schemaData []byte, data any) error {
	actualJSON, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal actual value: %w", err)
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaData)
	documentLoader := gojsonschema.NewBytesLoader(actualJSON)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return &ValidationError{Errors: violations}
}
