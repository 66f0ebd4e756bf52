// internal/workers/synthesize/handler_test.go
package synthesize

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"northwind-agent/internal/common/logger"
	"northwind-agent/internal/datastore"
	"northwind-agent/internal/genai"
	"northwind-agent/internal/models"
)

type fakeGenerator struct {
	resp    *genai.Response
	err     error
	lastReq *genai.Request
}

func (f *fakeGenerator) Generate(_ context.Context, req *genai.Request) (*genai.Response, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func TestHandler_Execute_Success(t *testing.T) {
	gen := &fakeGenerator{
		resp: &genai.Response{Fields: map[string]string{
			"final_answer": "The answer is 42 units",
			"explanation":  "Counted matching orders.",
			"citations":    "orders, made_up_table",
		}},
	}
	h := NewHandler(DefaultConfig(), gen, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{
		Question:   "How many orders?",
		FormatHint: models.FormatInt,
		SQL:        "SELECT COUNT(*) FROM orders",
		Outcome:    datastore.Outcome{Rows: []datastore.Row{{"count": 42}}},
		OutcomeSet: true,
		Citations:  []string{"kpi-definitions::chunk1", "orders"},
	})
	require.NoError(t, err)

	assert.Equal(t, 42, out.Answer.Value)
	assert.Equal(t, "Counted matching orders.", out.Answer.Explanation)
	assert.Equal(t, 1.0, out.Answer.Confidence)

	// Model-reported citations are ignored; only the tracked set survives.
	assert.Equal(t, []string{"kpi-definitions::chunk1", "orders"}, out.Answer.Citations)
}

func TestHandler_Execute_PendingErrorZeroesConfidence(t *testing.T) {
	gen := &fakeGenerator{
		resp: &genai.Response{Fields: map[string]string{
			"final_answer": "0",
			"explanation":  "Query failed.",
		}},
	}
	h := NewHandler(DefaultConfig(), gen, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{
		Question:     "How many orders?",
		FormatHint:   models.FormatInt,
		Outcome:      datastore.Outcome{Err: "SQL Error: no such table: orderz"},
		OutcomeSet:   true,
		PendingError: "SQL Error: no such table: orderz",
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, out.Answer.Confidence)
	assert.Equal(t, 0, out.Answer.Value)
}

func TestHandler_Execute_GeneratorFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("service down")}
	h := NewHandler(DefaultConfig(), gen, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{
		Question:  "How many orders?",
		Citations: []string{"orders"},
	})
	require.NoError(t, err)

	assert.Nil(t, out.Answer.Value)
	assert.Contains(t, out.Answer.Explanation, "Synthesis Error:")
	assert.Equal(t, 0.0, out.Answer.Confidence)
	assert.Equal(t, []string{"orders"}, out.Answer.Citations)
}

func TestHandler_Execute_MissingFinalAnswerField(t *testing.T) {
	gen := &fakeGenerator{resp: &genai.Response{Fields: map[string]string{"explanation": "hm"}}}
	h := NewHandler(DefaultConfig(), gen, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{Question: "How many orders?"})
	require.NoError(t, err)

	assert.Nil(t, out.Answer.Value)
	assert.Contains(t, out.Answer.Explanation, "missing final_answer")
	assert.Equal(t, 0.0, out.Answer.Confidence)
}

func TestHandler_RenderOutcome(t *testing.T) {
	h := NewHandler(&Config{ResultTruncation: 40}, &fakeGenerator{}, logger.NewTestLogger(t))

	tests := []struct {
		name     string
		input    *Input
		expected string
	}{
		{
			name:     "no query ran",
			input:    &Input{},
			expected: "No SQL run",
		},
		{
			name: "failed outcome passes the error through",
			input: &Input{
				OutcomeSet: true,
				Outcome:    datastore.Outcome{Err: "SQL Error: boom"},
			},
			expected: "SQL Error: boom",
		},
		{
			name: "rows serialize as json",
			input: &Input{
				OutcomeSet: true,
				Outcome:    datastore.Outcome{Rows: []datastore.Row{{"n": 1}}},
			},
			expected: `[{"n":1}]`,
		},
		{
			name: "nil rows render as an empty list",
			input: &Input{
				OutcomeSet: true,
				Outcome:    datastore.Outcome{Rows: nil},
			},
			expected: `[]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, h.renderOutcome(tt.input))
		})
	}
}

func TestHandler_RenderOutcome_Truncates(t *testing.T) {
	h := NewHandler(&Config{ResultTruncation: 40}, &fakeGenerator{}, logger.NewTestLogger(t))

	input := &Input{
		OutcomeSet: true,
		Outcome: datastore.Outcome{Rows: []datastore.Row{
			{"description": strings.Repeat("x", 200)},
		}},
	}
	rendered := h.renderOutcome(input)

	assert.Len(t, rendered, 40+len("...(truncated)"))
	assert.True(t, strings.HasSuffix(rendered, "...(truncated)"))
}

func TestHandler_RenderOutcome_TruncatesOnRuneBoundary(t *testing.T) {
	h := NewHandler(&Config{ResultTruncation: 40}, &fakeGenerator{}, logger.NewTestLogger(t))

	input := &Input{
		OutcomeSet: true,
		Outcome: datastore.Outcome{Rows: []datastore.Row{
			{"d": strings.Repeat("é", 100)},
		}},
	}
	rendered := h.renderOutcome(input)

	assert.True(t, strings.HasSuffix(rendered, "...(truncated)"))
	assert.True(t, utf8.ValidString(rendered), "truncation must not split a rune")
	assert.LessOrEqual(t, len(rendered), 40+len("...(truncated)"))
}

func TestHandler_Execute_SendsRenderedResultToGenerator(t *testing.T) {
	gen := &fakeGenerator{
		resp: &genai.Response{Fields: map[string]string{"final_answer": "ok"}},
	}
	h := NewHandler(DefaultConfig(), gen, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{
		Question:   "What is the policy?",
		FormatHint: models.FormatString,
	})
	require.NoError(t, err)

	require.NotNil(t, gen.lastReq)
	assert.Equal(t, genai.TemplateAnswer, gen.lastReq.Template)
	assert.Equal(t, "No SQL run", gen.lastReq.Fields["sql_result"])
	assert.Equal(t, "string", gen.lastReq.Fields["format_hint"])
}
