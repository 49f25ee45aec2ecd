// Package utility implements the Utility Evaluator (spec §4.B): a pure
// scoring function over strategies, U = P*G - C, with deterministic
// query-class adjustments and tie-breaking.
package utility

import (
	"sort"

	"hrc/internal/types"
)

// Score computes U = P*G - C for one strategy against a query class.
// Adjustments to P are additive and clamped to [0,1] before scoring, per
// spec §4.B.
func Score(prior types.StrategyPrior, class types.Classification) float64 {
	p := adjustedP(prior, class)
	return p*prior.G - prior.C
}

func adjustedP(prior types.StrategyPrior, class types.Classification) float64 {
	p := prior.P
	switch class {
	case types.ClassComplexMultiHop:
		if prior.ID == types.StrategyLLMDecomposition {
			p += 0.2
		}
	case types.ClassDoesNotUnderstand:
		if prior.ID == types.StrategyVSANative {
			p += 0.1
		}
	}
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return p
}

// Select picks the strategy maximizing U among priors for the given
// query class. Ties break by lowest expected cost, then lexical ID
// (spec §4.B). Select is a pure function of (priors, class) — identical
// inputs always select the same strategy (spec §8 Determinism property).
func Select(priors []types.StrategyPrior, class types.Classification) types.StrategyPrior {
	ranked := make([]types.StrategyPrior, len(priors))
	copy(ranked, priors)

	sort.Slice(ranked, func(i, j int) bool {
		ui, uj := Score(ranked[i], class), Score(ranked[j], class)
		if ui != uj {
			return ui > uj
		}
		if ranked[i].C != ranked[j].C {
			return ranked[i].C < ranked[j].C
		}
		return ranked[i].ID < ranked[j].ID
	})
	return ranked[0]
}
