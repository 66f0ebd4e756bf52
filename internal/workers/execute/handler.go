// internal/workers/execute/handler.go
package execute

import (
	"context"
	"errors"
	"strings"

	apperrors "northwind-agent/internal/common/errors"
	"northwind-agent/internal/common/logger"
	"northwind-agent/internal/datastore"
)

const TaskType = "executor"

// NoQueryError is the failure reported for an empty query. It never reaches
// the data store.
const NoQueryError = "No SQL generated"

// Runner is the datastore surface the executor needs.
type Runner interface {
	Execute(ctx context.Context, query string) datastore.Outcome
	TableCitations(query string) []string
}

// Handler runs a generated query, classifies the outcome and derives table
// citations from the query text.
type Handler struct {
	store  Runner
	logger logger.Logger
}

func NewHandler(store Runner, log logger.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: log.With(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if strings.TrimSpace(input.SQL) == "" {
		h.logger.Warn("no sql query to execute", nil)
		return &Output{
			Outcome: datastore.Outcome{Err: NoQueryError},
			Err:     NoQueryError,
		}, nil
	}

	outcome := h.store.Execute(ctx, input.SQL)
	citations := h.store.TableCitations(input.SQL)

	if outcome.Failed() {
		h.logger.WithError(apperrors.NewQueryExecutionFailed(errors.New(outcome.Err))).
			Warn("query execution failed", nil)
		return &Output{Outcome: outcome, Citations: citations, Err: outcome.Err}, nil
	}

	h.logger.Info("query executed", map[string]interface{}{
		"rows":      len(outcome.Rows),
		"citations": citations,
	})
	return &Output{Outcome: outcome, Citations: citations}, nil
}
