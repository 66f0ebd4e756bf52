// internal/workers/router/handler.go
package router

import (
	"context"
	"strings"

	apperrors "northwind-agent/internal/common/errors"
	"northwind-agent/internal/common/logger"
	"northwind-agent/internal/genai"
	"northwind-agent/internal/models"
)

const TaskType = "router"

// Handler classifies a question into its execution branch. Classification is
// never fatal: any generator failure or unrecognized label degrades to the
// document branch, which is the cheaper and safer default.
type Handler struct {
	config *Config
	gen    genai.Generator
	logger logger.Logger
}

func NewHandler(config *Config, gen genai.Generator, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		gen:    gen,
		logger: log.With(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute runs one classification. There is no retry and no error return;
// the fallback policy absorbs every failure mode.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	req := genai.NewRequest(genai.TemplateRouter, map[string]string{
		"question": input.Question,
	})

	resp, err := h.gen.Generate(ctx, req)
	if err != nil {
		h.logger.Warn("classification degraded", map[string]interface{}{
			"error": err.Error(),
		})
		return &Output{Classification: models.ClassDocOnly, Degraded: true}, nil
	}

	raw, ok := resp.Field("classification")
	if !ok {
		h.logger.WithError(apperrors.NewClassificationDegraded(raw)).
			Warn("classification degraded", nil)
		return &Output{Classification: models.ClassDocOnly, Degraded: true}, nil
	}

	cls := Normalize(raw)
	h.logger.Info("route selected", map[string]interface{}{
		"classification": string(cls),
		"rawLabel":       raw,
	})
	return &Output{Classification: cls, RawLabel: raw}, nil
}

// Normalize maps a raw label onto a branch by case-insensitive substring:
// "hybrid" overrides "sql"; absence of both defaults to doc_only.
func Normalize(raw string) models.Classification {
	lower := strings.ToLower(raw)
	cls := models.ClassDocOnly
	if strings.Contains(lower, "sql") {
		cls = models.ClassDataOnly
	}
	if strings.Contains(lower, "hybrid") {
		cls = models.ClassHybrid
	}
	return cls
}
