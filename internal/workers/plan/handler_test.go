// internal/workers/plan/handler_test.go
package plan

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"northwind-agent/internal/common/logger"
	"northwind-agent/internal/genai"
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

func TestHandler_Execute_ExtractsConstraints(t *testing.T) {
	gen := &fakeGenerator{
		resp: &genai.Response{Fields: map[string]string{
			"constraints": "OrderDate BETWEEN '1997-06-01' AND '1997-08-31'",
		}},
	}
	h := NewHandler(gen, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{
		Question:   "Beverage revenue in Summer 1997?",
		DocContext: "[seasons::chunk1] ## Summer Season\n\nJune through August inclusive.",
	})
	require.NoError(t, err)

	assert.Equal(t, "OrderDate BETWEEN '1997-06-01' AND '1997-08-31'", out.Constraints)
	assert.False(t, out.Degraded)

	require.NotNil(t, gen.lastReq)
	assert.Equal(t, genai.TemplatePlanner, gen.lastReq.Template)
	assert.Contains(t, gen.lastReq.Fields["docs"], "Summer Season")
}

func TestHandler_Execute_DegradesOnGeneratorError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("timeout")}
	h := NewHandler(gen, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{Question: "anything"})
	require.NoError(t, err)

	assert.Equal(t, "", out.Constraints)
	assert.True(t, out.Degraded)
}

func TestHandler_Execute_DegradesOnMissingField(t *testing.T) {
	gen := &fakeGenerator{resp: &genai.Response{Fields: map[string]string{}}}
	h := NewHandler(gen, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{Question: "anything"})
	require.NoError(t, err)

	assert.Equal(t, "", out.Constraints)
	assert.True(t, out.Degraded)
}
