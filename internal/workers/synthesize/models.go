// internal/workers/synthesize/models.go
package synthesize

import (
	"northwind-agent/internal/datastore"
	"northwind-agent/internal/models"
)

type Input struct {
	Question   string            `json:"question"`
	FormatHint models.FormatHint `json:"formatHint"`
	SQL        string            `json:"sqlQuery"`
	Outcome    datastore.Outcome `json:"outcome"`
	// OutcomeSet distinguishes "query ran" from "no query was ever run"
	// (the doc_only branch).
	OutcomeSet bool   `json:"outcomeSet"`
	DocContext string `json:"docContext"`
	// Citations is the accumulated citation set; it is passed through to
	// the answer unchanged regardless of what the generator claims.
	Citations []string `json:"citations"`
	// PendingError is the unresolved execution error, if any, on entry.
	PendingError string `json:"pendingError"`
}

type Output struct {
	Answer models.FinalAnswer `json:"answer"`
}
