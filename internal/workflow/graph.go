// internal/workflow/graph.go
package workflow

import (
	"context"
	"fmt"
	"time"

	"northwind-agent/internal/common/logger"
	"northwind-agent/internal/common/observability"
)

// End is the terminal pseudo-node.
const End = "__end__"

// NodeFunc executes one step and returns a partial state update. Nodes do
// not return errors: every internal failure must be encoded in the update
// so the run can route around it.
type NodeFunc func(ctx context.Context, s State) Update

// RouteFunc picks the next node after a conditional edge.
type RouteFunc func(s State) string

// Graph is a directed workflow of named nodes with plain and conditional
// edges. Construction is not concurrency-safe; Run is, as long as each run
// gets its own State.
type Graph struct {
	nodes       map[string]NodeFunc
	edges       map[string]string
	conditional map[string]RouteFunc
	entry       string
	maxSteps    int
	logger      logger.Logger
	obs         *observability.Observability
}

func NewGraph(maxSteps int, log logger.Logger, obs *observability.Observability) *Graph {
	if maxSteps <= 0 {
		maxSteps = 25
	}
	return &Graph{
		nodes:       make(map[string]NodeFunc),
		edges:       make(map[string]string),
		conditional: make(map[string]RouteFunc),
		maxSteps:    maxSteps,
		logger:      log.With(map[string]interface{}{"component": "workflow"}),
		obs:         obs,
	}
}

func (g *Graph) AddNode(name string, fn NodeFunc) {
	g.nodes[name] = fn
}

func (g *Graph) SetEntryPoint(name string) {
	g.entry = name
}

// AddEdge declares an unconditional transition.
func (g *Graph) AddEdge(from, to string) {
	g.edges[from] = to
}

// AddConditionalEdges declares a state-dependent transition.
func (g *Graph) AddConditionalEdges(from string, route RouteFunc) {
	g.conditional[from] = route
}

// Run drives the state machine from the entry node to End. The step bound
// guarantees termination even against a miswired graph; reaching it is a
// programming error, not a data condition.
func (g *Graph) Run(ctx context.Context, initial State) (State, error) {
	if g.entry == "" {
		return initial, fmt.Errorf("workflow has no entry point")
	}

	state := initial
	current := g.entry

	for step := 0; step < g.maxSteps; step++ {
		node, ok := g.nodes[current]
		if !ok {
			return state, fmt.Errorf("workflow references unknown node %q", current)
		}

		g.logger.Debug("entering node", map[string]interface{}{
			"node": current,
			"step": step,
			"run":  state.RunID,
		})

		start := time.Now()
		update := g.safeInvoke(ctx, node, current, state)
		state = state.Apply(update)

		if g.obs != nil {
			g.obs.RecordNodeDuration(ctx, current, time.Since(start))
		}

		next, err := g.next(current, state)
		if err != nil {
			return state, err
		}
		if next == End {
			return state, nil
		}
		current = next
	}

	return state, fmt.Errorf("workflow exceeded %d steps without terminating", g.maxSteps)
}

func (g *Graph) next(current string, s State) (string, error) {
	if route, ok := g.conditional[current]; ok {
		return route(s), nil
	}
	if to, ok := g.edges[current]; ok {
		return to, nil
	}
	return "", fmt.Errorf("node %q has no outgoing edge", current)
}

// safeInvoke keeps a panicking node from escaping the orchestrator
// boundary; the panic becomes an error on the state.
func (g *Graph) safeInvoke(ctx context.Context, node NodeFunc, name string, s State) (u Update) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("node panicked", map[string]interface{}{
				"node":  name,
				"panic": fmt.Sprintf("%v", r),
			})
			u = Update{LastError: strPtr(fmt.Sprintf("node %s panicked: %v", name, r))}
		}
	}()
	return node(ctx, s)
}
