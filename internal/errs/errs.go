// Package errs collects the typed error kinds shared across the solver
// core, following the sentinel-plus-wrapper convention the rest of this
// module uses for domain errors.
package errs

import (
	"errors"
	"fmt"
)

// ErrRankDeficient is returned by the QR solve when the coupling matrix S
// cannot be inverted to the requested tolerance.
var ErrRankDeficient = errors.New("lqgame: coupling matrix is rank deficient")

// SingularCouplingError reports an LQ backward-sweep step at which the
// player coupling matrix S could not be inverted.
type SingularCouplingError struct {
	Step           int
	PivotMagnitude float64
}

func (e *SingularCouplingError) Error() string {
	return fmt.Sprintf("lqgame: singular coupling at step %d (smallest pivot %.3e)", e.Step, e.PivotMagnitude)
}

func (e *SingularCouplingError) Unwrap() error { return ErrRankDeficient }

// RolloutDivergedError reports a rollout step at which a non-finite state
// was produced.
type RolloutDivergedError struct {
	Step int
	Time float64
}

func (e *RolloutDivergedError) Error() string {
	return fmt.Sprintf("lqgame: rollout diverged at step %d (t=%.4f)", e.Step, e.Time)
}

// NoProgressError marks an iLQ run that exhausted its line search without
// improvement for the configured number of consecutive iterations.
type NoProgressError struct {
	Iterations int
}

func (e *NoProgressError) Error() string {
	return fmt.Sprintf("lqgame: no progress for %d consecutive iterations", e.Iterations)
}

// BudgetExceededError is fatal at the receding-horizon driver level: the
// measured solve wall-time exceeded the planner runtime budget.
type BudgetExceededError struct {
	Budget  float64
	Elapsed float64
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("lqgame: solve took %.4fs, exceeding budget %.4fs", e.Elapsed, e.Budget)
}

// ShapeMismatchError marks a programmer/contract error: a capability
// returned an output with the wrong dimensions. It is not meant to be
// recovered from.
type ShapeMismatchError struct {
	Context  string
	Expected int
	Got      int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("lqgame: shape mismatch in %s: expected %d, got %d", e.Context, e.Expected, e.Got)
}
