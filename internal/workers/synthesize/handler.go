// internal/workers/synthesize/handler.go
package synthesize

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"northwind-agent/internal/common/logger"
	"northwind-agent/internal/datastore"
	"northwind-agent/internal/genai"
	"northwind-agent/internal/models"
)

const TaskType = "synthesizer"

// Handler produces the terminal FinalAnswer. Every failure mode is caught
// here; the run always ends with an answer, possibly of zero confidence.
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

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	req := genai.NewRequest(genai.TemplateAnswer, map[string]string{
		"question":    input.Question,
		"sql_query":   input.SQL,
		"sql_result":  h.renderOutcome(input),
		"doc_context": input.DocContext,
		"format_hint": string(input.FormatHint),
	})

	resp, err := h.gen.Generate(ctx, req)
	if err != nil {
		return h.failedAnswer(input, fmt.Sprintf("Synthesis Error: %v", err)), nil
	}

	raw, ok := resp.Field("final_answer")
	if !ok {
		return h.failedAnswer(input, "Synthesis Error: generator response missing final_answer"), nil
	}
	explanation, _ := resp.Field("explanation")

	// The generator also reports citations, but model-reported citations are
	// unverifiable; only the programmatically tracked set is attached.
	confidence := 1.0
	if input.PendingError != "" {
		confidence = 0.0
	}

	answer := models.FinalAnswer{
		Value:       Coerce(raw, input.FormatHint),
		Explanation: explanation,
		Citations:   input.Citations,
		Confidence:  confidence,
	}

	h.logger.Info("answer synthesized", map[string]interface{}{
		"formatHint": string(input.FormatHint),
		"citations":  len(answer.Citations),
		"confidence": confidence,
	})

	return &Output{Answer: answer}, nil
}

func (h *Handler) failedAnswer(input *Input, explanation string) *Output {
	h.logger.Error("synthesis failed", map[string]interface{}{
		"explanation": explanation,
	})
	return &Output{Answer: models.FinalAnswer{
		Value:       nil,
		Explanation: explanation,
		Citations:   input.Citations,
		Confidence:  0.0,
	}}
}

// renderOutcome serializes the execution outcome for the generator,
// truncated to the configured bound.
func (h *Handler) renderOutcome(input *Input) string {
	var s string
	switch {
	case !input.OutcomeSet:
		s = "No SQL run"
	case input.Outcome.Failed():
		s = input.Outcome.Err
	default:
		rows := input.Outcome.Rows
		if rows == nil {
			// An empty result must read as an empty list, not JSON null.
			rows = []datastore.Row{}
		}
		raw, err := json.Marshal(rows)
		if err != nil {
			s = fmt.Sprintf("%v", rows)
		} else {
			s = string(raw)
		}
	}

	if limit := h.config.ResultTruncation; limit > 0 && len(s) > limit {
		for limit > 0 && !utf8.RuneStart(s[limit]) {
			limit--
		}
		s = s[:limit] + "...(truncated)"
	}
	return s
}
