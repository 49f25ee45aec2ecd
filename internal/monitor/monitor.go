// Package monitor implements the System State Monitor (spec §4.J): it
// maintains an accumulating free-energy scalar F(t) fed by cycle
// outcomes, free-energy scores, and exogenous stress inputs, and fires
// an adaptation trigger when F(t) crosses the configured upper bound,
// penalizing the strategy that dominated the excess, nudging the rest
// of the registry back toward its seed priors, and relaxing F(t) back
// down toward the bound it crossed.
//
// Grounded on internal/autopoiesis/self_monitor.go's windowed-metric +
// threshold-trigger shape.
package monitor

import (
	"sync"
	"time"

	"hrc/internal/config"
	"hrc/internal/logging"
	"hrc/internal/strategy"
	"hrc/internal/types"
)

// Sample is one free-energy observation tied to the strategy and
// candidate that produced it.
type Sample struct {
	At        time.Time
	Strategy  types.StrategyID
	Candidate types.SolutionCandidate
}

// StressInputs are the exogenous stress signals spec §4.J names:
// cognitive_load, memory_pressure, and error_rate, each expected in
// [0,1] and each clamped to that range before being folded into F(t).
// A zero-value StressInputs contributes nothing beyond the sample's own
// free-energy score.
type StressInputs struct {
	CognitiveLoad  float64
	MemoryPressure float64
	ErrorRate      float64
}

func (s StressInputs) sum() float64 {
	return clamp01(s.CognitiveLoad) + clamp01(s.MemoryPressure) + clamp01(s.ErrorRate)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// Trigger records one adaptation event: F(t) crossed the upper bound,
// and DominantContributor names which weighted term of the composite
// score (entropy, coherence, cost, or novelty) contributed most to the
// sample that pushed it over.
type Trigger struct {
	At                  time.Time
	FreeEnergy          float64
	Strategy            types.StrategyID
	DominantContributor string
}

// Monitor retains a bounded window of Samples and the Triggers fired
// from them, plus the running free-energy scalar F(t) they accumulate
// into.
type Monitor struct {
	cfg config.MonitorConfig
	reg *strategy.Registry

	mu       sync.Mutex
	ft       float64
	samples  []Sample
	triggers []Trigger
}

// NewMonitor returns a Monitor bound to reg, which adaptation triggers
// adjust.
func NewMonitor(cfg config.MonitorConfig, reg *strategy.Registry) *Monitor {
	return &Monitor{cfg: cfg, reg: reg}
}

// Observe folds one cycle outcome into F(t): its free-energy score plus
// the given exogenous stress inputs are added to the running scalar,
// which only ever grows from an Observe call (monotone-nonnegative —
// spec §4.J) until an adaptation trigger relaxes it back down. Returns
// the Trigger if F(t) crossed the configured upper bound, nil
// otherwise.
func (m *Monitor) Observe(s Sample, stress StressInputs) *Trigger {
	depth := m.cfg.AdaptationHistoryDepth
	if depth <= 0 {
		depth = 1000
	}

	increment := s.Candidate.Free + stress.sum()
	if increment < 0 {
		increment = 0
	}

	m.mu.Lock()
	m.samples = append(m.samples, s)
	if len(m.samples) > depth {
		m.samples = m.samples[len(m.samples)-depth:]
	}
	m.ft += increment
	ft := m.ft
	m.mu.Unlock()

	if ft <= m.cfg.FreeEnergyUpperBound {
		return nil
	}

	trig := Trigger{
		At:                  s.At,
		FreeEnergy:          ft,
		Strategy:            s.Strategy,
		DominantContributor: dominantContributor(s.Candidate),
	}

	m.mu.Lock()
	m.triggers = append(m.triggers, trig)
	if len(m.triggers) > depth {
		m.triggers = m.triggers[len(m.triggers)-depth:]
	}
	m.mu.Unlock()

	m.apply(trig)
	logging.Monitor("adaptation trigger: strategy=%s dominant=%s F=%.3f", trig.Strategy, trig.DominantContributor, trig.FreeEnergy)
	return &trig
}

// apply penalizes the implicated strategy's cost prior, decays the
// rest of the registry back toward seed, and relaxes F(t) back down to
// the bound it just crossed. Adaptation only ever lowers F(t), never
// raises it (spec §4.J).
func (m *Monitor) apply(t Trigger) {
	if t.Strategy != "" {
		_ = m.reg.AdjustCostGoal(t.Strategy, 0.1, 0)
		m.reg.DecayTowardSeed(0.05)
	}

	m.mu.Lock()
	if m.ft > m.cfg.FreeEnergyUpperBound {
		m.ft = m.cfg.FreeEnergyUpperBound
	}
	m.mu.Unlock()
}

// dominantContributor names the weighted term with the largest magnitude
// in the Gibbs decomposition, matching the component names in §4.H. Raw
// field magnitudes are used (pre-weighting), since the monitor only has
// the already-scored candidate to work from; this is an Open Question
// decision, not a spec-literal formula.
func dominantContributor(c types.SolutionCandidate) string {
	best := "entropy"
	bestMag := abs(c.Entropy)
	if v := abs(c.Coherence); v > bestMag {
		best, bestMag = "coherence", v
	}
	if v := abs(c.Cost); v > bestMag {
		best, bestMag = "cost", v
	}
	if v := abs(c.Novelty); v > bestMag {
		best, bestMag = "novelty", v
	}
	return best
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// FreeEnergy returns the current value of the accumulating F(t) scalar.
func (m *Monitor) FreeEnergy() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ft
}

// Triggers returns a copy of every retained Trigger, oldest first.
func (m *Monitor) Triggers() []Trigger {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Trigger(nil), m.triggers...)
}

// Samples returns a copy of the retained observation window, oldest
// first.
func (m *Monitor) Samples() []Sample {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Sample(nil), m.samples...)
}
