// Package orchestrator implements the HRC Orchestrator (spec §4.F): the
// top-level entry point that accepts Queries, runs them through the
// Cognitive Cycle Engine under a bounded concurrency limit, runs
// DoesNotUnderstand classifications as an ordinary cycle with the
// llm_decomposition strategy pinned, exposes a PendingResolution handle for async callers, and triggers
// template evolution (autopoiesis) from completed-cycle statistics.
//
// Grounded on internal/campaign/orchestrator.go's registry-of-running-
// campaigns shape and its submit/status/cancel surface, and
// internal/autopoiesis/prompt_evolution's performance-triggered template
// promotion.
package orchestrator

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"hrc/internal/collab"
	"hrc/internal/config"
	"hrc/internal/cycle"
	"hrc/internal/freeenergy"
	"hrc/internal/herrors"
	"hrc/internal/logging"
	"hrc/internal/monitor"
	"hrc/internal/strategy"
	"hrc/internal/template"
	"hrc/internal/types"
)

// entry is the orchestrator's bookkeeping record for one submitted cycle.
type entry struct {
	cycle  *types.Cycle
	cancel context.CancelFunc
	done   chan struct{}
	mu     sync.RWMutex // guards reads of cycle while it is still running
}

func (e *entry) snapshot() types.Cycle {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return *e.cycle
}

// Statistics summarizes every completed cycle the orchestrator has run.
type Statistics struct {
	Submitted   int
	Succeeded   int
	Failed      int
	TimedOut    int
	Cancelled   int
	ByStrategy  map[types.StrategyID]int
}

// Orchestrator is the shared entry point for submitting Queries.
type Orchestrator struct {
	cfg       config.Config
	reg       *strategy.Registry
	engine    *cycle.Engine
	templates *template.Store
	optimizer *freeenergy.Optimizer
	mon       *monitor.Monitor
	coll      collab.Collaborators
	sem       *semaphore.Weighted

	mu      sync.RWMutex
	cycles  map[string]*entry
	stats   Statistics

	// history is the bounded, FIFO-by-completion archive of completed
	// cycles autopoiesis analysis consults (spec §3/§4.F: cycles are
	// archived on completion). Oldest first, capped at
	// cfg.Orchestrator.HistoryDepth.
	history []types.Cycle
}

// New builds an Orchestrator wiring together a fresh Strategy Registry,
// Cognitive Cycle Engine, Template Store, Free-Energy Optimizer, and
// System State Monitor around cfg and coll.
func New(cfg config.Config, coll collab.Collaborators) *Orchestrator {
	reg := strategy.NewRegistry(cfg.Strategy.LearningRate)
	return &Orchestrator{
		cfg:           cfg,
		reg:           reg,
		engine:        cycle.NewEngine(cfg.Cycle, reg, coll),
		templates:     template.NewStore(),
		optimizer:     freeenergy.NewOptimizer(cfg.FreeEnergy),
		mon:           monitor.NewMonitor(cfg.Monitor, reg),
		coll:          coll,
		sem:           semaphore.NewWeighted(cfg.Cycle.MaxConcurrentCycles),
		cycles:        map[string]*entry{},
		stats:         Statistics{ByStrategy: map[types.StrategyID]int{}},
	}
}

// Strategies exposes the underlying Strategy Registry for callers that
// need to inspect or persist it.
func (o *Orchestrator) Strategies() *strategy.Registry { return o.reg }

// Templates exposes the underlying Template Store.
func (o *Orchestrator) Templates() *template.Store { return o.templates }

// PendingResolution is a handle to a running or completed Cycle.
type PendingResolution struct {
	ID   string
	orch *Orchestrator
}

// Wait blocks until the cycle completes or ctx is done, then returns its
// final state.
func (p *PendingResolution) Wait(ctx context.Context) (*types.Cycle, error) {
	p.orch.mu.RLock()
	e, ok := p.orch.cycles[p.ID]
	p.orch.mu.RUnlock()
	if !ok {
		return nil, herrors.New(herrors.Invalid, "no such cycle: "+p.ID)
	}
	select {
	case <-e.done:
		c := e.snapshot()
		return &c, nil
	case <-ctx.Done():
		return nil, herrors.Wrap(herrors.Cancelled, "wait", ctx.Err())
	}
}

// MessageSink is the host-side seam for the doesNotUnderstand
// interception operation (spec §9): a host dispatcher that cannot
// resolve a message sends it here instead of building a Query itself.
// Orchestrator satisfies MessageSink.
type MessageSink interface {
	DispatchUnresolved(ctx context.Context, messageName string, receiverDescriptor any, args []string, originatorHandle any) (*PendingResolution, error)
}

var _ MessageSink = (*Orchestrator)(nil)

// DispatchUnresolved implements the doesNotUnderstand interception
// operation (spec §4.F(ii), §6, §9): the host raises an unresolved-
// message event carrying (message_name, receiver_descriptor, args,
// originator_handle), and DispatchUnresolved synthesizes the
// corresponding DoesNotUnderstand Query and submits it, returning the
// same PendingResolution handle Submit would.
//
// If Collaborators.Objects is configured, receiverDescriptor and
// originatorHandle are resolved against the host's object system (spec
// §6) before the Query is built, and the resolved receiver is attached
// to the Query payload under "receiver". A nil Objects, or a failed
// resolution, passes the raw descriptor/handle through unresolved
// rather than failing the dispatch.
func (o *Orchestrator) DispatchUnresolved(ctx context.Context, messageName string, receiverDescriptor any, args []string, originatorHandle any) (*PendingResolution, error) {
	payload := map[string]any{"receiver_descriptor": receiverDescriptor}
	originator := originatorHandle

	if o.coll.Objects != nil {
		if resolved, err := o.coll.Objects.Resolve(ctx, receiverDescriptor); err != nil {
			logging.OrchestratorDebug("receiver descriptor resolution failed for %q: %v", messageName, err)
		} else {
			payload["receiver"] = resolved
		}
		if resolved, err := o.coll.Objects.Resolve(ctx, originatorHandle); err == nil {
			originator = resolved
		}
	}

	q := types.Query{
		Kind:          types.ClassDoesNotUnderstand,
		Payload:       payload,
		Originator:    originator,
		OriginMessage: messageName,
		Args:          args,
	}
	logging.OrchestratorDebug("dispatching unresolved message %q from host as DoesNotUnderstand", messageName)
	return o.Submit(ctx, q, types.Context{})
}

// Submit classifies and begins a Cognitive Cycle for q. A
// DoesNotUnderstand classification is intercepted here (spec §4.F): it
// is run as an ordinary cycle but with its strategy hint pre-pinned to
// llm_decomposition, skipping the first iteration's utility selection,
// since the query is by definition not amenable to semantic search.
// Submit blocks until a concurrency slot under max_concurrent_cycles is
// free or ctx is cancelled.
func (o *Orchestrator) Submit(ctx context.Context, q types.Query, hctx types.Context) (*PendingResolution, error) {
	if err := o.sem.Acquire(ctx, 1); err != nil {
		return nil, herrors.Wrap(herrors.Cancelled, "submit", err)
	}

	id := uuid.NewString()
	runCtx, cancel := context.WithCancel(context.Background())
	e := &entry{
		cycle: &types.Cycle{ID: id, Query: q, Context: hctx, Status: types.CycleInitialized},
		cancel: cancel,
		done:   make(chan struct{}),
	}

	if q.Kind == types.ClassDoesNotUnderstand {
		logging.OrchestratorDebug("cycle %s intercepted: DoesNotUnderstand pinned to llm_decomposition", id)
		e.cycle.ChosenStrategy = types.StrategyLLMDecomposition
	}

	o.mu.Lock()
	o.cycles[id] = e
	o.stats.Submitted++
	o.mu.Unlock()

	go o.run(runCtx, e, q, hctx)

	return &PendingResolution{ID: id, orch: o}, nil
}

func (o *Orchestrator) run(ctx context.Context, e *entry, q types.Query, hctx types.Context) {
	defer o.sem.Release(1)
	defer close(e.done)
	defer e.cancel()

	pinned := e.cycle.ChosenStrategy

	result := o.engine.Run(ctx, e.cycle.ID, pinned, q, hctx)

	e.mu.Lock()
	e.cycle = result
	e.mu.Unlock()

	o.recordCompletion(result)
}

func (o *Orchestrator) recordCompletion(c *types.Cycle) {
	o.mu.Lock()
	switch {
	case c.Status == types.CycleCompleted:
		o.stats.Succeeded++
	case c.Status == types.CycleTimedOut:
		o.stats.TimedOut++
	case c.Outcome != nil && c.Outcome.Error == string(herrors.Cancelled):
		o.stats.Cancelled++
	default:
		o.stats.Failed++
	}
	o.stats.ByStrategy[c.ChosenStrategy]++

	// Snapshot prior history before archiving the current cycle, so the
	// autopoiesis analysis below counts only cycles that completed
	// strictly before this one (spec §4.F: "compares the completed cycle
	// against history").
	prior := append([]types.Cycle(nil), o.history...)
	o.history = append(o.history, *c)
	depth := o.cfg.Orchestrator.HistoryDepth
	if depth <= 0 {
		depth = 1000
	}
	if len(o.history) > depth {
		o.history = o.history[len(o.history)-depth:]
	}
	o.mu.Unlock()

	if c.Outcome != nil {
		novelty := 0.0
		if c.Outcome.UsedGeneration {
			novelty = 1.0
		}
		candidate := o.optimizer.Score(types.SolutionCandidate{
			Entropy:   float64(c.Outcome.Iterations) / float64(o.cfg.Cycle.MaxIterations),
			Coherence: c.Outcome.Confidence,
			Cost:      1 - c.Outcome.Confidence,
			Novelty:   novelty,
		})

		o.mu.RLock()
		submitted, failed, historyLen := o.stats.Submitted, o.stats.Failed, len(o.history)
		o.mu.RUnlock()
		stress := monitor.StressInputs{
			CognitiveLoad:  float64(c.Outcome.Iterations) / float64(o.cfg.Cycle.MaxIterations),
			MemoryPressure: float64(historyLen) / float64(depth),
		}
		if submitted > 0 {
			stress.ErrorRate = float64(failed) / float64(submitted)
		}

		o.mon.Observe(monitor.Sample{At: types.TimeNow(), Strategy: c.ChosenStrategy, Candidate: candidate}, stress)
	}

	o.coll.Record(context.Background(), "cycle_completed", map[string]any{
		"cycle_id": c.ID,
		"status":   string(c.Status),
		"strategy": string(c.ChosenStrategy),
	})

	o.autopoiesisAnalyze(c, prior)
}

const (
	dnuResponseTemplateName   = "dnu_response"
	decompositionTemplateName = "llm_decomposition_prompt"
)

// autopoiesisAnalyze implements spec §4.F's autopoiesis analysis: compare
// the just-completed cycle c against prior archived history and, if
// either trigger condition holds, evolve the implicated template to a
// new version. Both triggers are independent; either, both, or neither
// may fire for a given cycle.
func (o *Orchestrator) autopoiesisAnalyze(c *types.Cycle, prior []types.Cycle) {
	// (a) three or more prior cycles with an identical DoesNotUnderstand
	// origin message: make the unknown-message response template more
	// specific about that recurring message.
	if c.Query.Kind == types.ClassDoesNotUnderstand && c.Query.OriginMessage != "" {
		matches := 0
		for _, h := range prior {
			if h.Query.Kind == types.ClassDoesNotUnderstand && h.Query.OriginMessage == c.Query.OriginMessage {
				matches++
			}
		}
		if matches >= 3 {
			o.evolveRecurringUnknownTemplate(c.Query.OriginMessage, matches)
		}
	}

	// (b) iterations exceeded max_iterations/2: emit a "decompose
	// step-by-step" template variant to push llm_decomposition toward
	// smaller steps next time.
	if o.cfg.Cycle.MaxIterations > 0 && c.Iterations > o.cfg.Cycle.MaxIterations/2 {
		o.evolveDecompositionTemplate(c.Iterations)
	}
}

func (o *Orchestrator) evolveRecurringUnknownTemplate(originMessage string, matches int) {
	if len(o.templates.Versions(dnuResponseTemplateName)) == 0 {
		return
	}
	_, err := o.templates.Append(dnuResponseTemplateName, func(cur types.PromptTemplate) (string, []string) {
		return cur.Text + "\nThe message \"" + originMessage + "\" has recurred; respond with a concrete, message-specific handler instead of a generic fallback.", cur.Variables
	})
	if err != nil {
		logging.OrchestratorDebug("template evolution skipped: %v", err)
		return
	}
	logging.Orchestrator("evolved %s: %q recurred across %d prior cycles", dnuResponseTemplateName, originMessage, matches)
}

func (o *Orchestrator) evolveDecompositionTemplate(iterations int) {
	if len(o.templates.Versions(decompositionTemplateName)) == 0 {
		return
	}
	_, err := o.templates.Append(decompositionTemplateName, func(cur types.PromptTemplate) (string, []string) {
		return cur.Text + "\nDecompose step-by-step: break the remaining work into smaller single-tool-call steps.", cur.Variables
	})
	if err != nil {
		logging.OrchestratorDebug("template evolution skipped: %v", err)
		return
	}
	logging.Orchestrator("evolved %s after a %d-iteration cycle exceeded max_iterations/2", decompositionTemplateName, iterations)
}

// History returns a copy of the bounded completed-cycle archive,
// oldest first.
func (o *Orchestrator) History() []types.Cycle {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return append([]types.Cycle(nil), o.history...)
}

// Status returns the current (possibly still-running) state of a
// previously submitted cycle.
func (o *Orchestrator) Status(id string) (*types.Cycle, error) {
	o.mu.RLock()
	e, ok := o.cycles[id]
	o.mu.RUnlock()
	if !ok {
		return nil, herrors.New(herrors.Invalid, "no such cycle: "+id)
	}
	c := e.snapshot()
	return &c, nil
}

// Cancel requests cancellation of a running cycle. Canceling an already
// terminal cycle is a no-op.
func (o *Orchestrator) Cancel(id string) error {
	o.mu.RLock()
	e, ok := o.cycles[id]
	o.mu.RUnlock()
	if !ok {
		return herrors.New(herrors.Invalid, "no such cycle: "+id)
	}
	e.cancel()
	return nil
}

// Statistics returns a snapshot of aggregate orchestrator statistics.
func (o *Orchestrator) Statistics() Statistics {
	o.mu.RLock()
	defer o.mu.RUnlock()
	byStrat := make(map[types.StrategyID]int, len(o.stats.ByStrategy))
	for k, v := range o.stats.ByStrategy {
		byStrat[k] = v
	}
	s := o.stats
	s.ByStrategy = byStrat
	return s
}
