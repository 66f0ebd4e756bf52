// internal/workers/sqlgen/handler.go
package sqlgen

import (
	"context"
	"fmt"
	"strings"

	apperrors "northwind-agent/internal/common/errors"
	"northwind-agent/internal/common/logger"
	"northwind-agent/internal/genai"
)

const TaskType = "sql_gen"

// SchemaProvider describes the dataset for the generator.
type SchemaProvider interface {
	Schema(ctx context.Context) (string, error)
}

// Handler generates an executable SQL query from the question, the schema
// and any extracted constraints. On a repair attempt the prior error text is
// appended verbatim to the context; that textual feedback channel is the
// only repair mechanism.
type Handler struct {
	config *Config
	gen    genai.Generator
	schema SchemaProvider
	logger logger.Logger
}

func NewHandler(config *Config, gen genai.Generator, schema SchemaProvider, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		gen:    gen,
		schema: schema,
		logger: log.With(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	retries := input.RetryCount
	genContext := input.Constraints

	if input.LastError != "" {
		// Inbound repair: consume budget before generating so the check at
		// the executor edge is exact.
		retries++
		h.logger.Warn("repair attempt", map[string]interface{}{
			"attempt":       retries,
			"previousError": input.LastError,
		})
		genContext += fmt.Sprintf("\n\nPREVIOUS ERROR: %s. Fix the SQL.", input.LastError)
	}

	schema, err := h.schema.Schema(ctx)
	if err != nil {
		h.logger.Error("schema introspection failed", map[string]interface{}{
			"error": err.Error(),
		})
		return &Output{
			Err:        fmt.Sprintf("schema unavailable: %v", err),
			RetryCount: retries + 1,
		}, nil
	}

	req := genai.NewRequest(genai.TemplateSQL, map[string]string{
		"question":       input.Question,
		"schema_context": schema,
		"context":        genContext,
	})
	req.MaxTokens = h.config.MaxTokens

	resp, err := h.gen.Generate(ctx, req)
	if err != nil {
		return &Output{
			Err:        fmt.Sprintf("model failed to generate SQL: %v", err),
			RetryCount: retries + 1,
		}, nil
	}

	raw, ok := resp.Field("sql_query")
	if !ok {
		h.logger.WithError(apperrors.NewGenerationFieldMissing("sql_query", genai.TemplateSQL)).
			Error("generator omitted sql_query field", nil)
		return &Output{
			Err:        "model failed to generate SQL format",
			RetryCount: retries + 1,
		}, nil
	}

	clean := CleanSQL(raw)

	h.logger.Info("sql generated", map[string]interface{}{
		"sql":            clean,
		"retryCount":     retries,
		"hasConstraints": input.Constraints != "",
	})

	return &Output{
		SQL:        clean,
		Schema:     schema,
		RetryCount: retries,
	}, nil
}

// CleanSQL strips code-fence markup the generator tends to wrap queries in.
func CleanSQL(raw string) string {
	clean := strings.ReplaceAll(raw, "```sql", "")
	clean = strings.ReplaceAll(clean, "```", "")
	return strings.TrimSpace(clean)
}
