package types

import "time"

// CycleStatus is the terminal/non-terminal state of a Cognitive Cycle.
type CycleStatus string

const (
	CycleInitialized CycleStatus = "Initialized"
	CycleRunning     CycleStatus = "Running"
	CycleCompleted   CycleStatus = "Completed"
	CycleTimedOut    CycleStatus = "TimedOut"
	CycleFailed      CycleStatus = "Failed"
)

// IsTerminal reports whether s is a terminal cycle status. Once terminal,
// a Cycle accepts no further mutation (§3 invariant).
func (s CycleStatus) IsTerminal() bool {
	switch s {
	case CycleCompleted, CycleTimedOut, CycleFailed:
		return true
	default:
		return false
	}
}

// Outcome is the terminal result record a Cycle always produces — success
// or failure, never a silent hang (§7).
type Outcome struct {
	Success        bool
	Confidence     float64
	UsedGeneration bool
	Error          string // one of herrors.Kind, empty on success
	Reason         string
	Iterations     int
}

// Cycle is a bounded iterative reasoning attempt for one Query.
type Cycle struct {
	ID              string
	Query           Query
	Context         Context
	Iterations      int
	StartedAt       time.Time
	EndedAt         time.Time
	Status          CycleStatus
	ChosenStrategy  StrategyID
	Outcome         *Outcome
	PendingSubGoals []SubGoal
}

// ImpasseKind tags the condition under which a strategy cannot progress.
type ImpasseKind string

const (
	ImpasseStateNoChange   ImpasseKind = "StateNoChange"
	ImpasseOperatorTie     ImpasseKind = "OperatorTie"
	ImpasseOperatorNoChange ImpasseKind = "OperatorNoChange"
	ImpasseOperatorFailure ImpasseKind = "OperatorFailure"
)

// Impasse is a detected condition blocking cycle progress, carrying a
// free-form descriptor payload for diagnostics.
type Impasse struct {
	Kind       ImpasseKind
	Descriptor map[string]any
}

// SubGoalKind classifies what a SubGoal is trying to accomplish.
type SubGoalKind string

const (
	SubGoalExploration    SubGoalKind = "Exploration"
	SubGoalDisambiguation SubGoalKind = "Disambiguation"
	SubGoalGeneration     SubGoalKind = "Generation"
	SubGoalRecovery       SubGoalKind = "Recovery"
)

// SubGoal is a derived query intended to resolve an impasse in-line.
type SubGoal struct {
	ID           string
	Kind         SubGoalKind
	Reason       string
	Query        Query
	StrategyHint StrategyID
	CreatedAt    time.Time
}
