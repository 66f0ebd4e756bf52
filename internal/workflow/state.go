// internal/workflow/state.go
package workflow

import (
	"northwind-agent/internal/datastore"
	"northwind-agent/internal/models"
)

// State is the aggregate run state for one question. It is owned by the
// engine, passed to nodes by value, and replaced (never mutated in place)
// on every transition.
type State struct {
	RunID    string
	Question models.Question

	Classification models.Classification

	Fragments  []models.Fragment
	DocContext string

	Constraints string

	Schema string
	SQL    string

	Outcome    datastore.Outcome
	OutcomeSet bool

	// Retries counts trips around the repair edge; it only grows and is
	// bounded by the engine's repair budget.
	Retries   int
	LastError string

	Citations models.CitationSet

	Answer *models.FinalAnswer
}

// NewState creates the initial state for a run.
func NewState(runID string, q models.Question) State {
	return State{
		RunID:     runID,
		Question:  q,
		Citations: make(models.CitationSet),
	}
}

// Update is a node's partial contribution to the state. Nil pointer fields
// are left untouched; Citations are unioned in, never replaced.
type Update struct {
	Classification *models.Classification
	Fragments      []models.Fragment
	DocContext     *string
	Constraints    *string
	Schema         *string
	SQL            *string
	Outcome        *datastore.Outcome
	Retries        *int
	LastError      *string
	Citations      []string
	Answer         *models.FinalAnswer
}

// Apply merges an update into a copy of the state: last-writer-wins per
// field, set-union for citations.
func (s State) Apply(u Update) State {
	next := s
	// Citations grow monotonically; copy-on-write keeps prior states intact.
	next.Citations = s.Citations.Union(nil)
	next.Citations.Add(u.Citations...)

	if u.Classification != nil {
		next.Classification = *u.Classification
	}
	if u.Fragments != nil {
		next.Fragments = u.Fragments
	}
	if u.DocContext != nil {
		next.DocContext = *u.DocContext
	}
	if u.Constraints != nil {
		next.Constraints = *u.Constraints
	}
	if u.Schema != nil {
		next.Schema = *u.Schema
	}
	if u.SQL != nil {
		next.SQL = *u.SQL
	}
	if u.Outcome != nil {
		next.Outcome = *u.Outcome
		next.OutcomeSet = true
	}
	if u.Retries != nil {
		next.Retries = *u.Retries
	}
	if u.LastError != nil {
		next.LastError = *u.LastError
	}
	if u.Answer != nil {
		answer := *u.Answer
		next.Answer = &answer
	}
	return next
}

// strPtr and friends keep node bindings terse.
func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }

func classPtr(c models.Classification) *models.Classification { return &c }

func outcomePtr(o datastore.Outcome) *datastore.Outcome { return &o }
