// Package cycle implements the Cognitive Cycle Engine (spec §4.E): a
// bounded iterative reasoning attempt over a single Query, selecting a
// strategy, executing it against injected collaborators, detecting
// impasses, and spawning/resolving sub-goals in-line.
//
// Grounded on internal/campaign/orchestrator_execution.go's per-iteration
// loop against a cancellable context, and orchestrator_phases.go's
// terminal-state transition guard.
package cycle

import (
	"context"
	"time"

	"hrc/internal/collab"
	"hrc/internal/config"
	"hrc/internal/herrors"
	"hrc/internal/impasse"
	"hrc/internal/logging"
	"hrc/internal/strategy"
	"hrc/internal/subgoal"
	"hrc/internal/types"
	"hrc/internal/utility"
)

// Engine runs Cognitive Cycles against a shared Strategy Registry and set
// of external collaborators.
type Engine struct {
	cfg   config.CycleConfig
	reg   *strategy.Registry
	coll  collab.Collaborators
}

// NewEngine returns an Engine bound to reg and coll.
func NewEngine(cfg config.CycleConfig, reg *strategy.Registry, coll collab.Collaborators) *Engine {
	return &Engine{cfg: cfg, reg: reg, coll: coll}
}

// Run executes one Cognitive Cycle for q/hctx to completion: success,
// failure, or timeout. It never returns without a terminal Outcome set on
// the returned Cycle (spec §7: no silent hangs). ctx cancellation is
// observable at each iteration boundary and during collaborator calls.
// id is assigned by the caller (the HRC Orchestrator) so a Cycle's
// identity is known before it starts running. initialStrategy, if
// non-empty, pins the first iteration's strategy instead of deriving it
// from the Utility Evaluator — used by the Orchestrator's
// DoesNotUnderstand interception (spec §4.F).
func (e *Engine) Run(ctx context.Context, id string, initialStrategy types.StrategyID, q types.Query, hctx types.Context) *types.Cycle {
	c := &types.Cycle{
		ID:             id,
		Query:          q,
		Context:        hctx,
		StartedAt:      types.TimeNow(),
		Status:         types.CycleInitialized,
		ChosenStrategy: initialStrategy,
	}

	timeout := e.cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c.Status = types.CycleRunning
	logging.CycleDebug("cycle %s started for class=%s", c.ID, q.Kind)

	outcome := e.loop(runCtx, c)
	c.Outcome = &outcome
	c.EndedAt = types.TimeNow()

	switch {
	case outcome.Success:
		c.Status = types.CycleCompleted
	case outcome.Error == string(herrors.Timeout):
		c.Status = types.CycleTimedOut
	default:
		c.Status = types.CycleFailed
	}
	logging.Cycle("cycle %s finished status=%s iterations=%d", c.ID, c.Status, c.Iterations)
	return c
}

// loop is the bounded iteration body. It owns all mutation of c.Iterations
// and c.ChosenStrategy — the only state a Running cycle may change
// (spec §3 invariant).
func (e *Engine) loop(ctx context.Context, c *types.Cycle) types.Outcome {
	maxIter := e.cfg.MaxIterations
	if maxIter <= 0 {
		maxIter = 10
	}
	thetaSuccess := e.cfg.ThetaSuccess
	thetaDisc := e.cfg.ThetaDisc
	queueDepth := e.cfg.SubGoalQueueDepth
	if queueDepth <= 0 {
		queueDepth = 16
	}

	for c.Iterations = 1; c.Iterations <= maxIter; c.Iterations++ {
		if err := ctx.Err(); err != nil {
			return e.contextOutcome(err, c.Iterations)
		}

		if c.ChosenStrategy == "" {
			c.ChosenStrategy = types.StrategyID(utility.Select(e.reg.List(), c.Query.Kind).ID)
		}

		result, execErr := e.execute(ctx, c.ChosenStrategy, c.Query)
		if err := ctx.Err(); err != nil {
			return e.contextOutcome(err, c.Iterations)
		}

		if result.Confidence >= thetaSuccess {
			_ = e.reg.UpdateStats(c.ChosenStrategy, true)
			return types.Outcome{
				Success:        true,
				Confidence:     result.Confidence,
				UsedGeneration: result.UsedGeneration,
				Iterations:     c.Iterations,
				Reason:         "confidence_above_theta_success",
			}
		}

		if result.Confidence < thetaDisc && e.coll.Generator != nil {
			cand, genErr := e.coll.Generator.Generate(ctx, c.Query)
			if genErr == nil && cand != nil {
				_ = e.reg.UpdateStats(c.ChosenStrategy, true)
				return types.Outcome{
					Success:        true,
					Confidence:     result.Confidence,
					UsedGeneration: true,
					Iterations:     c.Iterations,
					Reason:         "generative_kernel_accepted",
				}
			}
		}

		imp := impasse.Detect(result, execErr != nil)
		if imp == nil {
			// No impasse and confidence didn't clear theta_success: retain
			// the current strategy and iterate again.
			_ = e.reg.UpdateStats(c.ChosenStrategy, false)
			continue
		}

		_ = e.reg.UpdateStats(c.ChosenStrategy, false)

		if len(c.PendingSubGoals) >= queueDepth {
			return types.Outcome{
				Success:    false,
				Confidence: result.Confidence,
				Iterations: c.Iterations,
				Error:      string(herrors.Exhausted),
				Reason:     "subgoal_overflow",
			}
		}

		reason := impasseReason(*imp)
		sg := subgoal.Build(*imp, c.Query, reason)
		c.PendingSubGoals = append(c.PendingSubGoals, sg)
		logging.CycleDebug("cycle %s impasse=%s -> subgoal=%s hint=%s", c.ID, imp.Kind, sg.Kind, sg.StrategyHint)

		// Resolve the sub-goal in-line: adopt its strategy hint and retry
		// with the sub-goal's (possibly narrowed) query on the next
		// iteration.
		c.ChosenStrategy = sg.StrategyHint
		c.Query = sg.Query
	}

	// The loop counter runs one past maxIter on exit; report the number of
	// iterations actually run.
	c.Iterations = maxIter
	return types.Outcome{
		Success:    false,
		Iterations: maxIter,
		Error:      string(herrors.Exhausted),
		Reason:     "max_iterations",
	}
}

// execute dispatches strategy against q via the injected collaborators
// and converts any collaborator error into a zero-confidence
// IterationResult plus a non-nil error, so the caller can fold it into an
// OperatorFailure impasse instead of propagating it (spec §4.E failure
// semantics).
func (e *Engine) execute(ctx context.Context, strat types.StrategyID, q types.Query) (types.IterationResult, error) {
	switch strat {
	case types.StrategyVSANative, types.StrategyGlobalSearch:
		resp, err := e.coll.Memory.Search(ctx, q)
		if err != nil {
			return types.IterationResult{Strategy: string(strat)}, err
		}
		return confidenceFromSearch(strat, resp), nil

	case types.StrategyGraphDisambiguation:
		resp, err := e.coll.Graph.SearchAndRerank(ctx, q)
		if err != nil {
			return types.IterationResult{Strategy: string(strat)}, err
		}
		return confidenceFromSearch(strat, resp), nil

	case types.StrategyLLMDecomposition:
		tr, err := e.coll.LLM.Decompose(ctx, q)
		if err != nil {
			return types.IterationResult{Strategy: string(strat)}, err
		}
		conf := 0.3
		if tr.ToolCallParsed {
			conf = 0.9
		}
		return types.IterationResult{
			Confidence: conf,
			BestMatch:  tr.Payload,
			Strategy:   string(strat),
			Evidence:   map[string]any{"tool_call_parsed": tr.ToolCallParsed},
		}, nil

	default:
		return types.IterationResult{}, herrors.New(herrors.Integrity, "unknown strategy: "+string(strat))
	}
}

// confidenceFromSearch applies the per-strategy confidence rule from
// spec §4.E: for vsa_native and global_search, confidence is the
// similarity of the top hit, passed through verbatim (scenario 1: a
// single hit at similarity 0.86 yields confidence 0.86, not a rounded
// stand-in). An empty result floors confidence below the StateNoChange
// threshold for vsa_native/graph_disambiguation (0.05) but only down to
// 0.2 for global_search, reflecting global_search's broader recall and
// its position as the last resort a sub-goal escalates to. More than one
// hit without disambiguation keeps confidence low enough to trigger
// OperatorTie once similar_count crosses the impasse threshold (handled
// upstream by the Impasse Detector on SimilarCount, independent of this
// confidence value); a disambiguated multi-hit response clears
// confidence at 0.8 per spec §4.E ("if >1 hit was disambiguated, 0.8").
// Absent an actual graph reranker result (Disambiguated left false on a
// multi-hit response), confidence is set to 0.5 — an explicit Open
// Question decision, not a spec-literal value.
func confidenceFromSearch(strat types.StrategyID, resp collab.SearchResponse) types.IterationResult {
	n := len(resp.Matches)
	var best any
	var topScore float64
	if n > 0 {
		best = resp.Matches[0].Payload
		topScore = resp.Matches[0].Score
	}
	result := types.IterationResult{
		SimilarCount: n,
		BestMatch:    best,
		Strategy:     string(strat),
		Evidence:     map[string]any{"match_count": n, "disambiguated": resp.Disambiguated},
	}

	switch {
	case n == 0:
		if strat == types.StrategyGlobalSearch {
			result.Confidence = 0.2
		} else {
			result.Confidence = 0.05
		}
	case n == 1:
		result.Confidence = topScore
	case resp.Disambiguated:
		result.Confidence = 0.8
	default:
		result.Confidence = 0.5
	}
	return result
}

func impasseReason(imp types.Impasse) string {
	switch imp.Kind {
	case types.ImpasseStateNoChange:
		return "confidence below floor"
	case types.ImpasseOperatorTie:
		return "similar_count exceeds tie threshold"
	case types.ImpasseOperatorNoChange:
		return "no strategy selected"
	case types.ImpasseOperatorFailure:
		return "strategy execution failed"
	default:
		return "unknown impasse"
	}
}

// contextOutcome converts a ctx.Err() into a terminal Outcome: cancelled
// if the host called its CancelFunc, timeout if the cycle_timeout context
// deadline elapsed.
func (e *Engine) contextOutcome(err error, iterations int) types.Outcome {
	kind := herrors.Cancelled
	reason := "cancelled"
	if err == context.DeadlineExceeded {
		kind = herrors.Timeout
		reason = "cycle_timeout"
	}
	return types.Outcome{
		Success:    false,
		Iterations: iterations,
		Error:      string(kind),
		Reason:     reason,
	}
}
