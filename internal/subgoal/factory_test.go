package subgoal

import (
	"testing"

	"hrc/internal/types"
)

func TestBuildMapsImpasseKindToSubGoalKind(t *testing.T) {
	cases := []struct {
		impasse types.ImpasseKind
		want    types.SubGoalKind
		hint    types.StrategyID
	}{
		{types.ImpasseStateNoChange, types.SubGoalExploration, types.StrategyGraphDisambiguation},
		{types.ImpasseOperatorTie, types.SubGoalDisambiguation, types.StrategyGraphDisambiguation},
		{types.ImpasseOperatorNoChange, types.SubGoalGeneration, types.StrategyLLMDecomposition},
		{types.ImpasseOperatorFailure, types.SubGoalRecovery, types.StrategyGlobalSearch},
	}
	for _, c := range cases {
		sg := Build(types.Impasse{Kind: c.impasse}, types.Query{Kind: types.ClassGeneric}, "reason")
		if sg.Kind != c.want {
			t.Errorf("Build(%v).Kind = %v, want %v", c.impasse, sg.Kind, c.want)
		}
		if sg.StrategyHint != c.hint {
			t.Errorf("Build(%v).StrategyHint = %v, want %v", c.impasse, sg.StrategyHint, c.hint)
		}
		if sg.ID == "" {
			t.Errorf("Build(%v).ID is empty", c.impasse)
		}
	}
}

func TestBuildDeepCopiesParentQuery(t *testing.T) {
	parent := types.Query{
		Kind:    types.ClassGeneric,
		Payload: map[string]any{"k": "v"},
		Args:    []string{"a"},
	}
	sg := Build(types.Impasse{Kind: types.ImpasseStateNoChange}, parent, "reason")

	sg.Query.Payload["k"] = "mutated"
	sg.Query.Args[0] = "mutated"

	if parent.Payload["k"] != "v" {
		t.Fatalf("parent Payload mutated via sub-goal: %v", parent.Payload)
	}
	if parent.Args[0] != "a" {
		t.Fatalf("parent Args mutated via sub-goal: %v", parent.Args)
	}
}

func TestBuildUnknownImpasseFallsBackToRecovery(t *testing.T) {
	sg := Build(types.Impasse{Kind: types.ImpasseKind("future_kind")}, types.Query{}, "reason")
	if sg.Kind != types.SubGoalRecovery || sg.StrategyHint != types.StrategyGlobalSearch {
		t.Fatalf("Build() on unknown impasse = %+v, want Recovery/global_search fallback", sg)
	}
}
