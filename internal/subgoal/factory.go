// Package subgoal implements the Sub-Goal Factory (spec §4.D): maps an
// impasse kind to a SubGoal template, deep-copying the parent query so
// sub-goals never alias parent state.
//
// Grounded on the resolution-strategy mapping in other_examples'
// impasse_detector.go (ImpasseType -> ResolutionStrategy) and
// internal/campaign/decomposer.go's deep-copy-into-child pattern.
package subgoal

import (
	"github.com/google/uuid"

	"hrc/internal/types"
)

// template pairs a SubGoalKind with its strategy hint for one impasse
// kind, per spec §4.D.
type template struct {
	kind types.SubGoalKind
	hint types.StrategyID
}

var templates = map[types.ImpasseKind]template{
	types.ImpasseStateNoChange:    {types.SubGoalExploration, types.StrategyGraphDisambiguation},
	types.ImpasseOperatorTie:      {types.SubGoalDisambiguation, types.StrategyGraphDisambiguation},
	types.ImpasseOperatorNoChange: {types.SubGoalGeneration, types.StrategyLLMDecomposition},
	types.ImpasseOperatorFailure:  {types.SubGoalRecovery, types.StrategyGlobalSearch},
}

// Build produces the SubGoal for the given impasse, inheriting a deep
// copy of the parent query. reason is a human-readable description for
// diagnostics (e.g. "similar_count=5 exceeds tie threshold").
func Build(imp types.Impasse, parentQuery types.Query, reason string) types.SubGoal {
	t, ok := templates[imp.Kind]
	if !ok {
		// Unreachable for well-formed Impasse values (exhaustive per the
		// four tagged kinds), but fall back to Recovery/global_search
		// rather than panicking on an unknown future kind.
		t = template{types.SubGoalRecovery, types.StrategyGlobalSearch}
	}
	return types.SubGoal{
		ID:           uuid.NewString(),
		Kind:         t.kind,
		Reason:       reason,
		Query:        parentQuery.Clone(),
		StrategyHint: t.hint,
		CreatedAt:    types.TimeNow(),
	}
}
