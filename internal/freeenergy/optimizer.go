// Package freeenergy implements the Composite Free-Energy Optimizer
// (spec §4.H): a Gibbs-style scoring function over candidate solutions,
// G = -alpha*S + beta*I + gamma*C - delta*N (entropy, coherence, cost,
// novelty), plus a bounded evaluation history exposed through History and
// Mean.
//
// Grounded on internal/autopoiesis/fitness.go's weighted multi-term
// scoring shape, reparameterized to the spec's four named terms.
package freeenergy

import (
	"sort"
	"sync"

	"hrc/internal/config"
	"hrc/internal/herrors"
	"hrc/internal/types"
)

// Optimizer scores and ranks SolutionCandidates and retains a bounded
// window of past scores.
type Optimizer struct {
	cfg config.FreeEnergyConfig

	mu      sync.Mutex
	history []float64 // ring buffer of most recent Free values, oldest first
}

// NewOptimizer returns an Optimizer configured with cfg's weights and
// history depth.
func NewOptimizer(cfg config.FreeEnergyConfig) *Optimizer {
	return &Optimizer{cfg: cfg}
}

// Score computes and records the composite free energy of one candidate,
// returning the scored copy (Free populated).
//
//	G = -alpha*Entropy + beta*Coherence + gamma*Cost - delta*Novelty
//
// Lower G is better: an optimizer run minimizes free energy the same way
// a physical system relaxes toward its ground state (spec §4.H).
func (o *Optimizer) Score(c types.SolutionCandidate) types.SolutionCandidate {
	c.Free = -o.cfg.Alpha*c.Entropy + o.cfg.Beta*c.Coherence + o.cfg.Gamma*c.Cost - o.cfg.Delta*c.Novelty
	o.record(c.Free)
	return c
}

// ScoreAll scores every candidate in cs and returns them sorted ascending
// by Free (best first), keeping input order among equal Free values.
func (o *Optimizer) ScoreAll(cs []types.SolutionCandidate) []types.SolutionCandidate {
	out := make([]types.SolutionCandidate, len(cs))
	for i, c := range cs {
		out[i] = o.Score(c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Free < out[j].Free })
	return out
}

// Select scores every candidate in cs and returns the one with lowest
// free energy, ties broken by lowest Cost then earliest index (spec
// §4.H: "argmin G across K; ties broken by lowest C then earliest
// index"). An empty cs raises Invalid rather than panicking or silently
// returning a zero value (spec §8: "Empty candidate set to Free-Energy
// Optimizer returns no selection and raises Invalid").
func (o *Optimizer) Select(cs []types.SolutionCandidate) (types.SolutionCandidate, error) {
	if len(cs) == 0 {
		return types.SolutionCandidate{}, herrors.New(herrors.Invalid, "free-energy select: empty candidate set")
	}
	scored := o.ScoreAll(cs)
	best := scored[0]
	for _, c := range scored[1:] {
		if c.Free != best.Free {
			break
		}
		if c.Cost < best.Cost {
			best = c
		}
	}
	return best, nil
}

// BuildCandidateSet computes each candidate's structured-entropy and
// coherence contribution over the whole set K once (S(K), I(K) are
// properties of the set, not the individual candidate, per spec §4.H)
// and its own cost/novelty from its text, returning unscored
// SolutionCandidates ready for Score/ScoreAll/Select.
func BuildCandidateSet(texts []string) []types.SolutionCandidate {
	s := Entropy(texts)
	i := Coherence(texts)
	out := make([]types.SolutionCandidate, len(texts))
	for idx, text := range texts {
		out[idx] = types.SolutionCandidate{
			Payload:   text,
			Entropy:   s,
			Coherence: i,
			Cost:      Cost(text),
			Novelty:   Novelty(text),
		}
	}
	return out
}

// ScoreTexts builds and scores a candidate set directly from raw
// candidate text, per spec §4.H's score_one(k, K) contract.
func (o *Optimizer) ScoreTexts(texts []string) []types.SolutionCandidate {
	return o.ScoreAll(BuildCandidateSet(texts))
}

// SelectTexts builds a candidate set from raw text and returns the
// lowest-free-energy member (spec §4.H's select(K) contract).
func (o *Optimizer) SelectTexts(texts []string) (types.SolutionCandidate, error) {
	return o.Select(BuildCandidateSet(texts))
}

func (o *Optimizer) record(free float64) {
	depth := o.cfg.EvaluationHistoryDepth
	if depth <= 0 {
		depth = 10000
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.history = append(o.history, free)
	if len(o.history) > depth {
		o.history = o.history[len(o.history)-depth:]
	}
}

// History returns a copy of the retained evaluation history, oldest
// first.
func (o *Optimizer) History() []float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]float64(nil), o.history...)
}

// Mean returns the arithmetic mean of the retained history, 0 if empty.
func (o *Optimizer) Mean() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.history) == 0 {
		return 0
	}
	var sum float64
	for _, v := range o.history {
		sum += v
	}
	return sum / float64(len(o.history))
}
