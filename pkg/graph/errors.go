package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrCycle is returned when a variable is found to be its own transitive
	// parent. Cycles are detected at graph construction time; a cyclic model
	// is rejected outright rather than partially built.
	ErrCycle = errors.New("dependency graph contains a cycle")

	// ErrObserved is returned by [Stochastic.SetValue] when the variable's
	// value is fixed by observed data and must not be resampled.
	ErrObserved = errors.New("observed value cannot be reassigned")

	// ErrNoLogProb is returned by [Stochastic.LogP] when no log-probability
	// function was bound at construction.
	ErrNoLogProb = errors.New("no log-probability bound")

	// ErrEmptyName is returned by [Graph.Add] when a variable has an empty
	// name. Names are the graph key and must be non-empty.
	ErrEmptyName = errors.New("variable name must not be empty")

	// ErrDuplicateName is returned by [Graph.Add] when a different variable
	// with the same name is already registered.
	ErrDuplicateName = errors.New("duplicate variable name")
)

// ComputationError reports a failed recompute or live-value pull. It carries
// the identity of the offending variable; the variable's previously cached
// value is left untouched when this error is returned.
type ComputationError struct {
	Variable string // name of the variable whose computation failed
	Err      error  // underlying failure
}

// Error implements the error interface.
func (e *ComputationError) Error() string {
	return fmt.Sprintf("compute %s: %v", e.Variable, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As compatibility.
func (e *ComputationError) Unwrap() error { return e.Err }
