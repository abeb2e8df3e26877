package workflow

import (
	"context"
	"fmt"
	"time"

	"report-agent/budget"
	"report-agent/config"
	"report-agent/llmclient"

	"go.uber.org/zap"
)

// Completer is the generation backend the engine drives. It is injected at
// construction so tests can substitute a double and no package-level client
// exists.
type Completer interface {
	Chat(ctx context.Context, messages []llmclient.Message, opts llmclient.ChatOptions) (string, error)
}

// Engine drives one graph traversal to completion. One traversal per request,
// strictly sequential; concurrent requests each own their State and never
// share it.
type Engine struct {
	graph        *Graph
	backend      Completer
	budgeter     *budget.Budgeter
	logger       *zap.Logger
	ceiling      int
	revisionCap  int
	stageTimeout time.Duration
	model        string
	temperature  float64
}

func NewEngine(graph *Graph, backend Completer, budgeter *budget.Budgeter, cfg *config.Config, logger *zap.Logger) *Engine {
	return &Engine{
		graph:        graph,
		backend:      backend,
		budgeter:     budgeter,
		logger:       logger,
		ceiling:      cfg.TokenCeiling,
		revisionCap:  cfg.RevisionCap,
		stageTimeout: cfg.StageTimeout,
		model:        cfg.Model,
		temperature:  cfg.Temperature,
	}
}

// Run executes the traversal from the graph's entry node until Terminal. On
// a fatal stage failure it returns the partial state together with a
// GenerationFailure; the caller decides whether to retry the whole request.
// Exhausting the revision cap is not fatal: the best-so-far state comes back
// flagged BestEffort with a warning attached.
func (e *Engine) Run(ctx context.Context, st *State) (*State, error) {
	st.Current = e.graph.Entry()

	// Hard bound on iterations so even a miswired graph provably halts:
	// every revision cycle plus the fixed stages, with slack.
	maxIterations := (e.revisionCap + 2) * (e.graph.Size() + 1)

	for iterations := 0; st.Current != Terminal; iterations++ {
		if err := ctx.Err(); err != nil {
			return st, &GenerationFailure{Stage: st.Current, Err: err}
		}
		if iterations >= maxIterations {
			st.AddWarning(fmt.Sprintf("iteration guard reached after %d stages, returning best-so-far draft", iterations))
			st.BestEffort = true
			return st, nil
		}

		node, ok := e.graph.Node(st.Current)
		if !ok {
			return st, &GenerationFailure{Stage: st.Current, Err: fmt.Errorf("no node registered for stage")}
		}

		raw, err := e.invoke(ctx, node, st)
		if err != nil {
			return st, &GenerationFailure{Stage: node.ID, Err: err}
		}

		if err := node.Apply(st, raw); err != nil {
			return st, &GenerationFailure{Stage: node.ID, Err: err}
		}

		// Revision cap: once review has sent work back revisionCap times,
		// stop granting cycles and return what we have.
		if node.ID == AgentReview && st.NeedsRevision {
			if st.Revisions >= e.revisionCap {
				st.AddWarning(fmt.Sprintf("revision cap of %d cycles reached, returning best-so-far draft", e.revisionCap))
				st.BestEffort = true
				return st, nil
			}
			st.Revisions++
		}

		st.Current = e.graph.Route(st)
	}

	return st, nil
}

// invoke performs one budgeted, time-bounded generation call and appends the
// result to the audit log. History grows by exactly one entry per call and
// is never pruned.
func (e *Engine) invoke(ctx context.Context, node *Node, st *State) (string, error) {
	inputs := node.Select(st)
	fitted, exhausted := e.budgeter.Fit(ctx, inputs, e.ceiling)
	for _, name := range exhausted {
		st.AddWarning(fmt.Sprintf("input %q was reduced to nothing fitting the token budget at stage %s", name, node.ID))
	}

	userPrompt := node.Prompt(fitted)
	messages := []llmclient.Message{
		{Role: "system", Content: node.System},
		{Role: "user", Content: userPrompt},
	}

	callCtx := ctx
	if e.stageTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.stageTimeout)
		defer cancel()
	}

	temp := e.temperature
	raw, err := e.backend.Chat(callCtx, messages, llmclient.ChatOptions{
		Model:       e.model,
		Temperature: &temp,
		JSONMode:    node.JSONMode,
	})
	if err != nil {
		return "", err
	}

	st.History = append(st.History, Message{Agent: node.ID, Prompt: userPrompt, Response: raw})

	if e.logger != nil {
		e.logger.Debug("Agent stage complete",
			zap.String("stage", string(node.ID)),
			zap.Int("history_len", len(st.History)),
			zap.Int("response_chars", len(raw)))
	}
	return raw, nil
}
