// Package impasse implements the Impasse Detector (spec §4.C): given an
// IterationResult, emits at most one impasse, deterministically and
// idempotently.
//
// Grounded directly on other_examples' impasse_detector.go (SOAR-style
// tagged impasse classification), narrowed to the four kinds spec.md
// names and the exact thresholds it specifies.
package impasse

import "hrc/internal/types"

// ConfidenceFloor is the StateNoChange threshold (spec §4.C).
const ConfidenceFloor = 0.1

// TieThreshold is the similar-count above which an OperatorTie impasse
// fires (spec §4.C: similar_count > 3).
const TieThreshold = 3

// Detect classifies one IterationResult into at most one Impasse. A
// strategy result with no strategy set (empty string) is treated as "no
// operator selected". operatorFailed signals the strategy execution
// itself raised an error (converted upstream into this flag rather than
// propagated, per spec §4.E's failure semantics).
func Detect(result types.IterationResult, operatorFailed bool) *types.Impasse {
	switch {
	// A failed execution is checked first: its placeholder result carries
	// zero confidence, which would otherwise read as StateNoChange.
	case operatorFailed:
		return &types.Impasse{
			Kind:       types.ImpasseOperatorFailure,
			Descriptor: map[string]any{"strategy": result.Strategy},
		}
	case result.Confidence < ConfidenceFloor:
		return &types.Impasse{
			Kind:       types.ImpasseStateNoChange,
			Descriptor: map[string]any{"confidence": result.Confidence},
		}
	case result.SimilarCount > TieThreshold:
		return &types.Impasse{
			Kind:       types.ImpasseOperatorTie,
			Descriptor: map[string]any{"similar_count": result.SimilarCount},
		}
	case result.Strategy == "":
		return &types.Impasse{
			Kind:       types.ImpasseOperatorNoChange,
			Descriptor: map[string]any{},
		}
	default:
		return nil
	}
}
