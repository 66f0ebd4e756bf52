// internal/workers/synthesize/coerce_test.go
package synthesize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"northwind-agent/internal/models"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		hint     models.FormatHint
		expected interface{}
	}{
		{"int from prose", "The answer is 42 units", models.FormatInt, 42},
		{"int bare", "42", models.FormatInt, 42},
		{"int negative", "a change of -7 orders", models.FormatInt, -7},
		{"int picks first number", "12 of 30", models.FormatInt, 12},
		{"int default when absent", "no numbers here", models.FormatInt, 0},
		{"float from prose", "roughly 3.14 on average", models.FormatFloat, 3.14},
		{"float from integer text", "10", models.FormatFloat, 10.0},
		{"float default when absent", "nothing numeric", models.FormatFloat, 0.0},
		{"string passthrough", "The answer is 42 units", models.FormatString, "The answer is 42 units"},
		{"json passthrough unvalidated", `{"a": 1}`, models.FormatJSON, `{"a": 1}`},
		{"list passthrough unvalidated", `["Chai", "Chang"]`, models.FormatList, `["Chai", "Chang"]`},
		{"unknown hint passthrough", "text", models.FormatHint("other"), "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Coerce(tt.raw, tt.hint))
		})
	}
}
