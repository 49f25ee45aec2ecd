package freeenergy

import "strings"

// approachLexicon is the fixed 16-term vocabulary spec §4.H uses to
// compute each candidate's "approach signature" for structured entropy.
var approachLexicon = []string{
	"modular", "hierarchical", "distributed", "centralized",
	"parallel", "sequential", "recursive", "iterative",
	"functional", "procedural", "declarative", "imperative",
	"reactive", "proactive", "adaptive", "static",
}

// coherenceLexicon is the fixed design-concept vocabulary spec §4.H uses
// to test whether two candidates share a common concern.
var coherenceLexicon = []string{
	"system", "interface", "data", "process",
	"user", "performance", "security", "scalability",
}

// complexityLexicon is the fixed vocabulary spec §4.H adds 0.1 per match
// of to a candidate's cost.
var complexityLexicon = []string{
	"algorithm", "optimization", "parallel", "distributed",
	"neural", "learning", "search", "index",
}

// noveltyLexiconPrimary contributes 0.15 per match to novelty.
var noveltyLexiconPrimary = []string{
	"novel", "innovative", "creative", "unique",
	"breakthrough", "pioneering", "revolutionary", "experimental",
}

// noveltyLexiconSecondary contributes 0.10 per match to novelty.
var noveltyLexiconSecondary = []string{
	"fractal", "consciousness", "entropy", "autopoietic",
	"prototypal", "morphic", "synaptic",
}

// approachSignature returns the stable, comma-joined subset of
// approachLexicon found in text, used to test whether two candidates
// took the "same" approach for structured-entropy purposes.
func approachSignature(text string) string {
	lower := strings.ToLower(text)
	var hit []string
	for _, term := range approachLexicon {
		if strings.Contains(lower, term) {
			hit = append(hit, term)
		}
	}
	return strings.Join(hit, ",")
}

// structuralClass buckets a candidate's size into {low, med, high}. Spec
// §4.H names the three classes but leaves the boundary unspecified; 10
// and 30 words are a documented judgment call (DESIGN.md Open Question
// decisions), chosen so a short one-line candidate, a typical paragraph,
// and a multi-paragraph design doc land in different buckets.
func structuralClass(text string) string {
	n := len(strings.Fields(text))
	switch {
	case n < 10:
		return "low"
	case n <= 30:
		return "med"
	default:
		return "high"
	}
}

// Entropy computes the structured entropy S(K) of a candidate set: the
// ratio of (distinct approach signatures + distinct structural classes
// present in K) to 2*|K| (spec §4.H). Empty K yields 0.
func Entropy(candidates []string) float64 {
	if len(candidates) == 0 {
		return 0
	}
	sigs := make(map[string]struct{}, len(candidates))
	classes := make(map[string]struct{}, 3)
	for _, c := range candidates {
		sigs[approachSignature(c)] = struct{}{}
		classes[structuralClass(c)] = struct{}{}
	}
	return float64(len(sigs)+len(classes)) / float64(2*len(candidates))
}

// Coherence computes I(K): the fraction of unordered candidate pairs
// that share at least one coherenceLexicon term. A singleton (or empty)
// set is defined as fully coherent, matching spec §4.H's "singleton K
// yields I=1".
func Coherence(candidates []string) float64 {
	if len(candidates) <= 1 {
		return 1
	}
	matched := make([]map[string]bool, len(candidates))
	for i, c := range candidates {
		lower := strings.ToLower(c)
		m := make(map[string]bool)
		for _, term := range coherenceLexicon {
			if strings.Contains(lower, term) {
				m[term] = true
			}
		}
		matched[i] = m
	}
	var sharedPairs, totalPairs int
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			totalPairs++
			for term := range matched[i] {
				if matched[j][term] {
					sharedPairs++
					break
				}
			}
		}
	}
	if totalPairs == 0 {
		return 1
	}
	return float64(sharedPairs) / float64(totalPairs)
}

// Cost computes C(k): token_count/100 plus 0.1 per complexityLexicon
// match, capped at 1 (spec §4.H). Token count is approximated as
// whitespace-separated word count, the same text-metric convention a
// complexity scorer uses elsewhere in the corpus rather than a real
// tokenizer.
func Cost(text string) float64 {
	tokens := len(strings.Fields(text))
	lower := strings.ToLower(text)
	var matches int
	for _, term := range complexityLexicon {
		if strings.Contains(lower, term) {
			matches++
		}
	}
	c := float64(tokens)/100 + 0.1*float64(matches)
	if c > 1 {
		c = 1
	}
	return c
}

// Novelty computes N(k) per spec §4.H's two-tier lexicon weighting
// (0.15 per primary-lexicon match, 0.10 per secondary), capped at 1.
func Novelty(text string) float64 {
	lower := strings.ToLower(text)
	var primary, secondary int
	for _, term := range noveltyLexiconPrimary {
		if strings.Contains(lower, term) {
			primary++
		}
	}
	for _, term := range noveltyLexiconSecondary {
		if strings.Contains(lower, term) {
			secondary++
		}
	}
	n := 0.15*float64(primary) + 0.10*float64(secondary)
	if n > 1 {
		n = 1
	}
	return n
}
