// internal/workers/retrieve/handler.go
package retrieve

import (
	"context"
	"fmt"
	"strings"

	apperrors "northwind-agent/internal/common/errors"
	"northwind-agent/internal/common/logger"
	"northwind-agent/internal/retrieval"
)

const TaskType = "retriever"

// Handler fetches cited document fragments for a question. An empty result
// is a valid outcome, not an error; the run continues with empty context.
type Handler struct {
	config   *Config
	searcher retrieval.Searcher
	logger   logger.Logger
}

func NewHandler(config *Config, searcher retrieval.Searcher, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		searcher: searcher,
		logger:   log.With(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	fragments, err := h.searcher.Search(ctx, input.Question, h.config.TopK)
	if err != nil {
		// Degrade to an empty context rather than aborting the run.
		h.logger.Warn("retrieval failed, continuing with empty context", map[string]interface{}{
			"error": err.Error(),
		})
		fragments = nil
	}

	citations := make([]string, 0, len(fragments))
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		citations = append(citations, f.ID)
		parts = append(parts, fmt.Sprintf("[%s] %s", f.ID, f.Text))
	}

	if len(fragments) == 0 {
		h.logger.WithError(apperrors.NewRetrievalEmpty(input.Question)).
			Warn("continuing with empty document context", nil)
	} else {
		h.logger.Info("fragments retrieved", map[string]interface{}{
			"count":     len(fragments),
			"citations": citations,
		})
	}

	return &Output{
		Fragments:  fragments,
		DocContext: strings.Join(parts, "\n\n"),
		Citations:  citations,
	}, nil
}
