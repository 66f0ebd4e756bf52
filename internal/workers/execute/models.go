// internal/workers/execute/models.go
package execute

import "northwind-agent/internal/datastore"

type Input struct {
	SQL string `json:"sqlQuery"`
}

type Output struct {
	Outcome datastore.Outcome `json:"outcome"`
	// Citations are the known tables textually referenced by the query.
	Citations []string `json:"citations,omitempty"`
	// Err mirrors Outcome.Err; empty on success so the merge clears any
	// previous failure state.
	Err string `json:"error"`
}
