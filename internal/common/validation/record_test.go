// internal/common/validation/record_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateBatchInput(t *testing.T) {
	tests := []struct {
		name    string
		record  map[string]interface{}
		wantErr string
	}{
		{
			name: "valid record",
			record: map[string]interface{}{
				"id": "q1", "question": "How many orders?", "format_hint": "int",
			},
		},
		{
			name: "missing id",
			record: map[string]interface{}{
				"question": "How many orders?", "format_hint": "int",
			},
			wantErr: "id",
		},
		{
			name: "empty question",
			record: map[string]interface{}{
				"id": "q1", "question": "", "format_hint": "int",
			},
			wantErr: "question",
		},
		{
			name: "unknown format hint",
			record: map[string]interface{}{
				"id": "q1", "question": "How many orders?", "format_hint": "integer",
			},
			wantErr: "format_hint",
		},
		{
			name: "wrong type",
			record: map[string]interface{}{
				"id": 17, "question": "How many orders?", "format_hint": "int",
			},
			wantErr: "id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBatchInput(tt.record)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
