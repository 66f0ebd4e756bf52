// internal/common/validation/record.go
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// batchInputSchema constrains one JSONL input record. format_hint is an
// enum because the synthesis coercion pass is keyed on it.
var batchInputSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"id": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
		},
		"question": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
		},
		"format_hint": map[string]interface{}{
			"type": "string",
			"enum": []interface{}{"int", "float", "string", "json", "list"},
		},
	},
	"required": []interface{}{"id", "question", "format_hint"},
}

// ValidateBatchInput validates a decoded input record. A non-nil error
// describes every violation; the caller still emits an output record.
func ValidateBatchInput(record map[string]interface{}) error {
	schemaLoader := gojsonschema.NewGoLoader(batchInputSchema)
	documentLoader := gojsonschema.NewGoLoader(record)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("invalid input record: %s", strings.Join(msgs, "; "))
}
