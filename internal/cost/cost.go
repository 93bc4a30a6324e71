// Package cost defines the PlayerCost capability (spec §6) consumed by
// the solver core, plus the small set of concrete cost kinds needed to
// drive the testable properties of spec §8 and the safety scenario
// supplemented from original_source/'s oncoming_example.h. Per spec §9's
// design note on polymorphism, costs are enumerated concretely here
// rather than dispatched through a deep interface hierarchy; a richer
// catalog (semiquadratic, polyline2, route-progress, curvature,
// final-time) is explicitly a Non-goal of this core.
package cost

import (
	"github.com/san-kum/ilqgame/internal/traj"
	"gonum.org/v1/gonum/mat"
)

// PlayerCost is the per-player cost capability contract (spec §6).
type PlayerCost interface {
	Evaluate(t float64, x traj.Vector, u []traj.Vector) float64
	Quadraticize(t float64, x traj.Vector, u []traj.Vector) *QuadraticCostApprox
}

// ControlTerm is the (R_ij, r_ij) block of a quadratic cost approximation
// contributed with respect to player j's control.
type ControlTerm struct {
	R      *mat.Dense
	Linear *mat.VecDense
}

// QuadraticCostApprox is one player's local quadratic approximation at a
// single time step: a state block (Q, L) and a sparse map from player
// index to that player's control block. The self entry (keyed by the
// cost's own player index) is always present; cross entries default to
// zero when absent (spec §3, §4.1).
type QuadraticCostApprox struct {
	Q        *mat.Dense
	L        *mat.VecDense
	Controls map[int]*ControlTerm
}
