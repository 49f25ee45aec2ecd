// Package herrors implements the error taxonomy from the orchestrator's
// error handling design: a small set of kinds, each carrying an
// unwrap-able cause, so callers can branch on kind via errors.As while
// still seeing the underlying error via errors.Unwrap.
//
// Grounded on internal/transparency/error_classifier.go's kind-tagged
// classification style.
package herrors

import (
	"errors"
	"fmt"
)

// Kind is one of the taxonomy entries from the error handling design.
type Kind string

const (
	// Transient covers a failed memory/LLM call; the cycle converts it to
	// an OperatorFailure impasse and attempts recovery once.
	Transient Kind = "transient"

	// Invalid covers a malformed query or context; the cycle is rejected
	// at submit and the error surfaces to the caller.
	Invalid Kind = "invalid"

	// Exhausted covers max_iterations or sub-goal queue overflow.
	Exhausted Kind = "exhausted"

	// Timeout covers wall-clock exceeding cycle_timeout.
	Timeout Kind = "timeout"

	// Cancelled covers explicit host-initiated cancellation.
	Cancelled Kind = "cancelled"

	// Integrity covers invariant violations: strategy not in registry,
	// template name missing, and similar. Fatal to the offending cycle,
	// never to the orchestrator.
	Integrity Kind = "integrity"
)

// Tagged is an error carrying a taxonomy Kind and an optional wrapped
// cause plus a free-form reason string (e.g. "max_iterations",
// "subgoal_overflow", "cancelled").
type Tagged struct {
	Kind   Kind
	Reason string
	Cause  error
}

func (e *Tagged) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Cause)
	}
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
	}
	return string(e.Kind)
}

func (e *Tagged) Unwrap() error { return e.Cause }

// New constructs a Tagged error with no wrapped cause.
func New(kind Kind, reason string) *Tagged {
	return &Tagged{Kind: kind, Reason: reason}
}

// Wrap constructs a Tagged error wrapping cause.
func Wrap(kind Kind, reason string, cause error) *Tagged {
	return &Tagged{Kind: kind, Reason: reason, Cause: cause}
}

// KindOf extracts the Kind from err if it is (or wraps) a *Tagged, and
// reports ok=false otherwise.
func KindOf(err error) (Kind, bool) {
	var t *Tagged
	if errors.As(err, &t) {
		return t.Kind, true
	}
	return "", false
}
