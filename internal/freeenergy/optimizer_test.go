package freeenergy

import (
	"testing"

	"hrc/internal/config"
	"hrc/internal/herrors"
	"hrc/internal/types"
)

func testConfig() config.FreeEnergyConfig {
	return config.FreeEnergyConfig{Alpha: 0.4, Beta: 0.3, Gamma: 0.2, Delta: 0.1, EvaluationHistoryDepth: 3}
}

func TestScoreMatchesFormula(t *testing.T) {
	o := NewOptimizer(testConfig())
	c := types.SolutionCandidate{Entropy: 1, Coherence: 2, Cost: 3, Novelty: 4}
	got := o.Score(c)
	want := -0.4*1 + 0.3*2 + 0.2*3 - 0.1*4
	if got.Free != want {
		t.Fatalf("Score().Free = %v, want %v", got.Free, want)
	}
}

func TestSelectPicksLowestFreeEnergy(t *testing.T) {
	o := NewOptimizer(testConfig())
	cands := []types.SolutionCandidate{
		{Payload: "high-entropy", Entropy: 0, Coherence: 0, Cost: 5, Novelty: 0},
		{Payload: "low-cost", Entropy: 0, Coherence: 0, Cost: 0, Novelty: 0},
	}
	got, err := o.Select(cands)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got.Payload != "low-cost" {
		t.Fatalf("Select() = %q, want %q", got.Payload, "low-cost")
	}
}

func TestSelectEmptySetRaisesInvalid(t *testing.T) {
	o := NewOptimizer(testConfig())
	_, err := o.Select(nil)
	kind, ok := herrors.KindOf(err)
	if !ok || kind != herrors.Invalid {
		t.Fatalf("Select(nil) error = %v, want Invalid", err)
	}
}

func TestSelectTiesBreakOnLowestCost(t *testing.T) {
	o := NewOptimizer(testConfig())
	// Both score G = 0.05 exactly (0.2*0.5 - 0.1*0.5 and 0.2*0.25), so only
	// the cost tie-break separates them.
	cands := []types.SolutionCandidate{
		{Payload: "expensive-tie", Cost: 0.5, Novelty: 0.5},
		{Payload: "cheap-tie", Cost: 0.25},
	}
	got, err := o.Select(cands)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got.Payload != "cheap-tie" {
		t.Fatalf("Select() = %q, want %q (lowest cost on a free-energy tie)", got.Payload, "cheap-tie")
	}
}

// TestScenarioFiveLiteralValues reproduces spec §8 scenario 5's literal
// inputs: a 3-item candidate set with measured S=0.4, I=0.5 for the set
// and per-item (C,N) = [(0.1,0.2),(0.8,0.1),(0.3,0.5)] under default
// weights. Working the stated G = -alpha*S + beta*I + gamma*C - delta*N
// formula through all three items gives G = [-0.01, 0.14, 0.00] (the
// scenario's own literal first value, -0.16+0.15+0.02-0.02, matches item
// 0 here) — argmin is item 0, not item 2 as the scenario's prose claims.
// DESIGN.md documents this as a resolved spec inconsistency: the
// explicit per-term formula and the argmin selection rule are trusted
// over the scenario's narrated winner, since they are unambiguous and
// self-consistent while the narrated winner is not reproducible from the
// stated inputs under any sign convention spec.md §9 endorses.
func TestScenarioFiveLiteralValues(t *testing.T) {
	o := NewOptimizer(config.FreeEnergyConfig{Alpha: 0.4, Beta: 0.3, Gamma: 0.2, Delta: 0.1})
	cands := []types.SolutionCandidate{
		{Payload: "a", Entropy: 0.4, Coherence: 0.5, Cost: 0.1, Novelty: 0.2},
		{Payload: "b", Entropy: 0.4, Coherence: 0.5, Cost: 0.8, Novelty: 0.1},
		{Payload: "c", Entropy: 0.4, Coherence: 0.5, Cost: 0.3, Novelty: 0.5},
	}
	scored := o.ScoreAll(cands)
	byPayload := map[string]float64{}
	for _, c := range scored {
		byPayload[c.Payload.(string)] = c.Free
	}
	wantG := map[string]float64{"a": -0.01, "b": 0.14, "c": 0.0}
	for k, want := range wantG {
		if diff := byPayload[k] - want; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("G(%s) = %v, want %v", k, byPayload[k], want)
		}
	}
	got, err := o.Select(cands)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if got.Payload != "a" {
		t.Fatalf("Select() = %q, want %q (argmin G)", got.Payload, "a")
	}
}

func TestBuildCandidateSetSharesSetLevelMetrics(t *testing.T) {
	texts := []string{
		"a modular reactive system interface",
		"a hierarchical data process with algorithm search",
		"novel innovative breakthrough fractal autopoietic design",
	}
	set := BuildCandidateSet(texts)
	for i := 1; i < len(set); i++ {
		if set[i].Entropy != set[0].Entropy {
			t.Fatalf("BuildCandidateSet: Entropy not shared across set: %+v", set)
		}
		if set[i].Coherence != set[0].Coherence {
			t.Fatalf("BuildCandidateSet: Coherence not shared across set: %+v", set)
		}
	}
	for i, c := range set {
		if c.Cost < 0 || c.Cost > 1 {
			t.Fatalf("candidate %d Cost = %v, want [0,1]", i, c.Cost)
		}
		if c.Novelty < 0 || c.Novelty > 1 {
			t.Fatalf("candidate %d Novelty = %v, want [0,1]", i, c.Novelty)
		}
	}
	if set[2].Novelty <= set[0].Novelty {
		t.Fatalf("third candidate's heavy novelty-lexicon usage should score higher novelty: %+v", set)
	}
}

func TestScoreTextsIdempotent(t *testing.T) {
	o := NewOptimizer(testConfig())
	texts := []string{"a modular system", "a distributed interface"}
	first := o.ScoreTexts(texts)
	second := o.ScoreTexts(texts)
	for i := range first {
		if first[i].Free != second[i].Free {
			t.Fatalf("ScoreTexts not idempotent: %v vs %v", first[i].Free, second[i].Free)
		}
	}
}

func TestScoreAllSortsAscending(t *testing.T) {
	o := NewOptimizer(testConfig())
	cands := []types.SolutionCandidate{
		{Payload: "a", Cost: 5},
		{Payload: "b", Cost: 1},
		{Payload: "c", Cost: 3},
	}
	sorted := o.ScoreAll(cands)
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Free > sorted[i].Free {
			t.Fatalf("ScoreAll() not sorted ascending: %+v", sorted)
		}
	}
}

func TestHistoryBoundedByDepth(t *testing.T) {
	o := NewOptimizer(testConfig()) // depth 3
	for i := 0; i < 10; i++ {
		o.Score(types.SolutionCandidate{Cost: float64(i)})
	}
	if len(o.History()) != 3 {
		t.Fatalf("History() length = %d, want 3", len(o.History()))
	}
}

func TestMeanOfEmptyHistoryIsZero(t *testing.T) {
	o := NewOptimizer(testConfig())
	if got := o.Mean(); got != 0 {
		t.Fatalf("Mean() on empty history = %v, want 0", got)
	}
}
