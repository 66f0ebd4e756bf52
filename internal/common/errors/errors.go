// Package errors provides standardized error handling for the question
// workflow. Codes map one-to-one onto workflow degradation modes: every code
// is survivable, nothing here terminates a run.
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeClassificationDegraded ErrorCode = "CLASSIFICATION_DEGRADED"
	ErrCodeRetrievalEmpty         ErrorCode = "RETRIEVAL_EMPTY"
	ErrCodeGenerationFieldMissing ErrorCode = "GENERATION_FIELD_MISSING"
	ErrCodeQueryExecutionFailed   ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeRetryBudgetExhausted   ErrorCode = "RETRY_BUDGET_EXHAUSTED"
	ErrCodeSynthesisFailed        ErrorCode = "SYNTHESIS_FAILED"

	ErrCodeGeneratorUnavailable ErrorCode = "GENERATOR_UNAVAILABLE"
	ErrCodeDatastoreUnavailable ErrorCode = "DATASTORE_UNAVAILABLE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Degraded  bool                   `json:"degraded"` // true when the run continues on a fallback
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewClassificationDegraded reports a router fallback to the document branch.
func NewClassificationDegraded(raw string) *StandardError {
	return &StandardError{
		Code:      ErrCodeClassificationDegraded,
		Message:   "classification label missing or unrecognized, defaulting to doc_only",
		Details:   fmt.Sprintf("raw label: %q", raw),
		Degraded:  true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRetrievalEmpty reports a zero-hit retrieval. Not fatal: synthesis runs
// with an empty context.
func NewRetrievalEmpty(question string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRetrievalEmpty,
		Message:   "no document fragments matched the question",
		Details:   question,
		Degraded:  true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGenerationFieldMissing reports a generator response without an expected
// field.
func NewGenerationFieldMissing(field, template string) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationFieldMissing,
		Message:   "generator response missing expected field",
		Details:   fmt.Sprintf("field: %s, template: %s", field, template),
		Degraded:  true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailed wraps a datastore execution error.
func NewQueryExecutionFailed(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "query execution failed",
		Details:   err.Error(),
		Degraded:  true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRetryBudgetExhausted reports that the repair loop hit its ceiling.
func NewRetryBudgetExhausted(retries int, lastErr string) *StandardError {
	return &StandardError{
		Code:     ErrCodeRetryBudgetExhausted,
		Message:  "repair retry budget exhausted, synthesizing with degraded confidence",
		Details:  lastErr,
		Degraded: true,
		Metadata: map[string]interface{}{
			"retries": retries,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewSynthesisFailed wraps a failure at the synthesis boundary.
func NewSynthesisFailed(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSynthesisFailed,
		Message:   "answer synthesis failed",
		Details:   err.Error(),
		Degraded:  true,
		Timestamp: time.Now().UTC(),
	}
}
