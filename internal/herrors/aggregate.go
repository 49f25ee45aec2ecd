package herrors

import "go.uber.org/multierr"

// Aggregator collects non-fatal errors from a gap-resolution sweep
// without aborting the sweep itself. Grounded on
// internal/autopoiesis's EvolutionResult.Errors []string field, upgraded
// to a typed, combinable error via go.uber.org/multierr.
type Aggregator struct {
	err error
}

// Add records err if non-nil; nil errors are ignored.
func (a *Aggregator) Add(err error) {
	if err == nil {
		return
	}
	a.err = multierr.Append(a.err, err)
}

// Err returns the combined error, or nil if nothing was added.
func (a *Aggregator) Err() error {
	return a.err
}

// Errors returns the individual errors that were added, in order.
func (a *Aggregator) Errors() []error {
	return multierr.Errors(a.err)
}

// Count reports how many errors have been added.
func (a *Aggregator) Count() int {
	return len(multierr.Errors(a.err))
}
