// internal/workflow/agent.go
package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	apperrors "northwind-agent/internal/common/errors"
	"northwind-agent/internal/common/logger"
	"northwind-agent/internal/common/observability"
	"northwind-agent/internal/models"
	"northwind-agent/internal/workers/execute"
	"northwind-agent/internal/workers/plan"
	"northwind-agent/internal/workers/retrieve"
	"northwind-agent/internal/workers/router"
	"northwind-agent/internal/workers/sqlgen"
	"northwind-agent/internal/workers/synthesize"
)

// Node names. These are the states of the orchestration machine.
const (
	NodeRouter      = "router"
	NodeRetriever   = "retriever"
	NodePlanner     = "planner"
	NodeSQLGen      = "sql_gen"
	NodeExecutor    = "executor"
	NodeSynthesizer = "synthesizer"
)

// Handlers bundles the six node handlers the agent sequences.
type Handlers struct {
	Router      *router.Handler
	Retriever   *retrieve.Handler
	Planner     *plan.Handler
	SQLGen      *sqlgen.Handler
	Executor    *execute.Handler
	Synthesizer *synthesize.Handler
}

// Agent owns the compiled workflow for answering one question at a time.
// A single Agent is safe for concurrent runs; each run gets its own State.
type Agent struct {
	graph      *Graph
	handlers   Handlers
	maxRetries int
	logger     logger.Logger
	obs        *observability.Observability
}

// NewAgent compiles the question workflow:
//
//	router -> {retriever | sql_gen}
//	retriever -> {planner | synthesizer}   (planner iff hybrid)
//	planner -> sql_gen -> executor
//	executor -> {sql_gen | synthesizer}    (repair iff failed and budget left)
//	synthesizer -> End
func NewAgent(h Handlers, maxRetries, maxSteps int, log logger.Logger, obs *observability.Observability) *Agent {
	a := &Agent{
		handlers:   h,
		maxRetries: maxRetries,
		logger:     log.With(map[string]interface{}{"component": "agent"}),
		obs:        obs,
	}

	g := NewGraph(maxSteps, log, obs)
	g.AddNode(NodeRouter, a.routerNode)
	g.AddNode(NodeRetriever, a.retrieverNode)
	g.AddNode(NodePlanner, a.plannerNode)
	g.AddNode(NodeSQLGen, a.sqlGenNode)
	g.AddNode(NodeExecutor, a.executorNode)
	g.AddNode(NodeSynthesizer, a.synthesizerNode)

	g.SetEntryPoint(NodeRouter)
	g.AddConditionalEdges(NodeRouter, a.routeAfterRouter)
	g.AddConditionalEdges(NodeRetriever, a.routeAfterRetriever)
	g.AddEdge(NodePlanner, NodeSQLGen)
	g.AddEdge(NodeSQLGen, NodeExecutor)
	g.AddConditionalEdges(NodeExecutor, a.routeAfterExecutor)
	g.AddEdge(NodeSynthesizer, End)

	a.graph = g
	return a
}

// Answer runs the full workflow for one question and returns the final
// state. The returned state always carries an Answer; degraded runs
// surface as zero confidence, never as an error.
func (a *Agent) Answer(ctx context.Context, q models.Question) (State, error) {
	state := NewState(uuid.NewString(), q)

	final, err := a.graph.Run(ctx, state)
	if err != nil {
		return final, err
	}
	if final.Answer == nil {
		// The graph terminated without synthesis; structurally impossible
		// unless the graph was miswired.
		return final, fmt.Errorf("workflow terminated without an answer")
	}

	status := "ok"
	if final.Answer.Confidence == 0 {
		status = "degraded"
	}
	if a.obs != nil {
		a.obs.RecordQuestion(ctx, string(final.Classification), status)
	}
	return final, nil
}

// --- node bindings ---

func (a *Agent) routerNode(ctx context.Context, s State) Update {
	out, err := a.handlers.Router.Execute(ctx, &router.Input{Question: s.Question.Text})
	if err != nil {
		return Update{Classification: classPtr(models.ClassDocOnly)}
	}
	return Update{Classification: classPtr(out.Classification)}
}

func (a *Agent) retrieverNode(ctx context.Context, s State) Update {
	out, err := a.handlers.Retriever.Execute(ctx, &retrieve.Input{Question: s.Question.Text})
	if err != nil {
		return Update{DocContext: strPtr("")}
	}
	return Update{
		Fragments:  out.Fragments,
		DocContext: strPtr(out.DocContext),
		Citations:  out.Citations,
	}
}

func (a *Agent) plannerNode(ctx context.Context, s State) Update {
	out, err := a.handlers.Planner.Execute(ctx, &plan.Input{
		Question:   s.Question.Text,
		DocContext: s.DocContext,
	})
	if err != nil {
		return Update{Constraints: strPtr("")}
	}
	return Update{Constraints: strPtr(out.Constraints)}
}

func (a *Agent) sqlGenNode(ctx context.Context, s State) Update {
	out, err := a.handlers.SQLGen.Execute(ctx, &sqlgen.Input{
		Question:    s.Question.Text,
		Constraints: s.Constraints,
		RetryCount:  s.Retries,
		LastError:   s.LastError,
	})
	if err != nil {
		return Update{
			LastError: strPtr(fmt.Sprintf("sql generation error: %v", err)),
			Retries:   intPtr(s.Retries + 1),
		}
	}
	if out.Err != "" {
		return Update{
			LastError: strPtr(out.Err),
			Retries:   intPtr(out.RetryCount),
		}
	}
	return Update{
		SQL:     strPtr(out.SQL),
		Schema:  strPtr(out.Schema),
		Retries: intPtr(out.RetryCount),
	}
}

func (a *Agent) executorNode(ctx context.Context, s State) Update {
	out, err := a.handlers.Executor.Execute(ctx, &execute.Input{SQL: s.SQL})
	if err != nil {
		return Update{LastError: strPtr(fmt.Sprintf("execution error: %v", err))}
	}
	return Update{
		Outcome:   outcomePtr(out.Outcome),
		Citations: out.Citations,
		LastError: strPtr(out.Err),
	}
}

func (a *Agent) synthesizerNode(ctx context.Context, s State) Update {
	out, err := a.handlers.Synthesizer.Execute(ctx, &synthesize.Input{
		Question:     s.Question.Text,
		FormatHint:   s.Question.FormatHint,
		SQL:          s.SQL,
		Outcome:      s.Outcome,
		OutcomeSet:   s.OutcomeSet,
		DocContext:   s.DocContext,
		Citations:    s.Citations.Sorted(),
		PendingError: s.LastError,
	})
	if err != nil {
		// The synthesis boundary catches its own failures, but nothing past
		// this node may fault either way.
		a.logger.WithError(apperrors.NewSynthesisFailed(err)).Error("synthesis boundary fault", nil)
		return Update{Answer: &models.FinalAnswer{
			Explanation: fmt.Sprintf("Synthesis Error: %v", err),
			Citations:   s.Citations.Sorted(),
			Confidence:  0.0,
		}}
	}
	return Update{Answer: &out.Answer}
}

// --- routing ---

func (a *Agent) routeAfterRouter(s State) string {
	if s.Classification == models.ClassDataOnly {
		return NodeSQLGen
	}
	return NodeRetriever
}

func (a *Agent) routeAfterRetriever(s State) string {
	if s.Classification == models.ClassHybrid {
		return NodePlanner
	}
	return NodeSynthesizer
}

func (a *Agent) routeAfterExecutor(s State) string {
	if s.LastError != "" && s.Retries < a.maxRetries {
		a.logger.Warn("routing to repair", map[string]interface{}{
			"attempt": s.Retries + 1,
			"budget":  a.maxRetries,
		})
		if a.obs != nil {
			a.obs.RecordRepairAttempt(context.Background())
		}
		return NodeSQLGen
	}
	if s.LastError != "" {
		a.logger.WithError(apperrors.NewRetryBudgetExhausted(s.Retries, s.LastError)).
			Warn("proceeding to synthesis with unresolved error", nil)
	}
	return NodeSynthesizer
}
