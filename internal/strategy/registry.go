// Package strategy implements the Strategy Registry (spec §4.A): the
// catalog of reasoning strategies with prior success/cost/value and
// mutable running statistics.
//
// Grounded on internal/autopoiesis/prompt_evolution/strategy_store.go
// (problem-type-keyed strategy database with success/failure counters)
// and the corpus's aristoteles strategy-selector (id -> info catalog).
package strategy

import (
	"sort"
	"sync"

	"hrc/internal/herrors"
	"hrc/internal/logging"
	"hrc/internal/types"
)

// Registry is the shared, concurrency-safe catalog of strategies.
type Registry struct {
	mu           sync.RWMutex
	priors       map[types.StrategyID]*types.StrategyPrior
	learningRate float64
}

// seedPriors are the four strategies from spec §4.A with their seed
// priors: expected success P, expected cost C, goal value G.
func seedPriors() map[types.StrategyID]*types.StrategyPrior {
	return map[types.StrategyID]*types.StrategyPrior{
		types.StrategyVSANative: {
			ID: types.StrategyVSANative, DisplayName: "VSA Native Search",
			P: 0.7, C: 0.2, G: 1.0,
		},
		types.StrategyGraphDisambiguation: {
			ID: types.StrategyGraphDisambiguation, DisplayName: "Graph Disambiguation",
			P: 0.8, C: 0.5, G: 1.0,
		},
		types.StrategyLLMDecomposition: {
			ID: types.StrategyLLMDecomposition, DisplayName: "LLM Decomposition",
			P: 0.9, C: 0.8, G: 1.0,
		},
		types.StrategyGlobalSearch: {
			ID: types.StrategyGlobalSearch, DisplayName: "Global Search",
			P: 0.6, C: 0.9, G: 1.0,
		},
	}
}

// NewRegistry returns a Registry seeded with the four spec-defined
// strategies. learningRate controls how fast priors move toward observed
// outcomes (spec §9 Open Question: rate left as a parameter).
func NewRegistry(learningRate float64) *Registry {
	return &Registry{priors: seedPriors(), learningRate: learningRate}
}

// List returns all strategies ordered by ID for deterministic iteration.
func (r *Registry) List() []types.StrategyPrior {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.StrategyPrior, 0, len(r.priors))
	for _, p := range r.priors {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns the named strategy's current prior.
func (r *Registry) Get(id types.StrategyID) (types.StrategyPrior, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.priors[id]
	if !ok {
		return types.StrategyPrior{}, herrors.New(herrors.Integrity, "strategy not in registry: "+string(id))
	}
	return *p, nil
}

// UpdateStats applies a bounded moving-average adjustment to P given a
// cycle outcome (success=true/false). C and G are held fixed unless an
// adaptation trigger (see internal/monitor) alters them via AdjustCostGoal.
func (r *Registry) UpdateStats(id types.StrategyID, success bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.priors[id]
	if !ok {
		return herrors.New(herrors.Integrity, "strategy not in registry: "+string(id))
	}
	target := 0.0
	if success {
		target = 1.0
	}
	p.P = clamp01(p.P + r.learningRate*(target-p.P))
	logging.StrategyDebug("updated prior for %s: P=%.3f (success=%v)", id, p.P, success)
	return nil
}

// AdjustCostGoal nudges one strategy's cost/goal priors in response to a
// System State Monitor adaptation trigger (penalty on the implicated
// strategy). Other strategies are left unchanged; DecayTowardSeed is the
// separate step that moves priors back toward their seeds.
func (r *Registry) AdjustCostGoal(id types.StrategyID, deltaC, deltaG float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.priors[id]
	if !ok {
		return herrors.New(herrors.Integrity, "strategy not in registry: "+string(id))
	}
	p.C = clamp01(p.C + deltaC)
	p.G = clamp01(p.G + deltaG)
	return nil
}

// DecayTowardSeed moves every strategy's P a small step back toward its
// seed prior. Used by the System State Monitor to de-emphasize recent
// noisy outcomes after an adaptation trigger.
func (r *Registry) DecayTowardSeed(rate float64) {
	seed := seedPriors()
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, p := range r.priors {
		p.P = clamp01(p.P + rate*(seed[id].P-p.P))
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
