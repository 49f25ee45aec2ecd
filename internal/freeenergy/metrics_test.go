package freeenergy

import "testing"

func TestEntropyOfIdenticalApproachesIsLow(t *testing.T) {
	cands := []string{"a modular system", "a modular process"}
	got := Entropy(cands)
	if got <= 0 || got >= 1 {
		t.Fatalf("Entropy() = %v, want in (0,1) for two short same-approach candidates", got)
	}
}

func TestEntropyOfEmptySetIsZero(t *testing.T) {
	if got := Entropy(nil); got != 0 {
		t.Fatalf("Entropy(nil) = %v, want 0", got)
	}
}

func TestCoherenceOfSingletonIsOne(t *testing.T) {
	if got := Coherence([]string{"anything at all"}); got != 1 {
		t.Fatalf("Coherence(singleton) = %v, want 1", got)
	}
	if got := Coherence(nil); got != 1 {
		t.Fatalf("Coherence(nil) = %v, want 1", got)
	}
}

func TestCoherenceSharedTermRaisesScore(t *testing.T) {
	shared := Coherence([]string{"the user interface", "a faster interface"})
	unshared := Coherence([]string{"the user interface", "a recursive loop"})
	if shared <= unshared {
		t.Fatalf("Coherence() shared=%v, unshared=%v; want shared > unshared", shared, unshared)
	}
}

func TestCostGrowsWithLengthAndComplexityTerms(t *testing.T) {
	short := Cost("a short answer")
	long := Cost("an algorithmic search over a distributed neural index with extensive optimization")
	if long <= short {
		t.Fatalf("Cost() long=%v, short=%v; want long > short", long, short)
	}
}

func TestCostCapsAtOne(t *testing.T) {
	huge := ""
	for i := 0; i < 200; i++ {
		huge += "word "
	}
	if got := Cost(huge); got != 1 {
		t.Fatalf("Cost(huge) = %v, want capped at 1", got)
	}
}

func TestNoveltyWeightsPrimaryOverSecondary(t *testing.T) {
	primary := Novelty("a novel approach")
	secondary := Novelty("a fractal approach")
	if primary <= secondary {
		t.Fatalf("Novelty() primary=%v, secondary=%v; want primary > secondary (0.15 vs 0.10 weight)", primary, secondary)
	}
}

func TestNoveltyOfPlainTextIsZero(t *testing.T) {
	if got := Novelty("a plain ordinary sentence"); got != 0 {
		t.Fatalf("Novelty(plain) = %v, want 0", got)
	}
}
