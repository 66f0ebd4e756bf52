// internal/workers/plan/handler.go
package plan

import (
	"context"

	"northwind-agent/internal/common/logger"
	"northwind-agent/internal/genai"
)

const TaskType = "planner"

// Handler extracts machine-usable SQL constraints from retrieved documents.
// Runs only on the hybrid branch. A missing output field degrades to the
// empty-constraints sentinel; downstream generation treats that as
// "unconstrained".
type Handler struct {
	gen    genai.Generator
	logger logger.Logger
}

func NewHandler(gen genai.Generator, log logger.Logger) *Handler {
	return &Handler{
		gen:    gen,
		logger: log.With(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	req := genai.NewRequest(genai.TemplatePlanner, map[string]string{
		"docs":     input.DocContext,
		"question": input.Question,
	})

	resp, err := h.gen.Generate(ctx, req)
	if err != nil {
		h.logger.Warn("constraint extraction failed, proceeding unconstrained", map[string]interface{}{
			"error": err.Error(),
		})
		return &Output{Degraded: true}, nil
	}

	constraints, ok := resp.Field("constraints")
	if !ok {
		h.logger.Warn("constraints field missing, proceeding unconstrained", nil)
		return &Output{Degraded: true}, nil
	}

	h.logger.Info("constraints extracted", map[string]interface{}{
		"constraints": constraints,
	})
	return &Output{Constraints: constraints}, nil
}
