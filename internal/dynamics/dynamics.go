// Package dynamics defines the Dynamics capability (spec §6) consumed by
// the solver core, plus a small number of concrete systems used only to
// drive tests and scenarios. Concrete catalogs of dynamics are explicitly
// out of scope as a shipped product (spec §1); PointMass and MultiUnicycle
// here exist solely to exercise the testable properties of spec §8.
package dynamics

import (
	"github.com/san-kum/ilqgame/internal/traj"
	"gonum.org/v1/gonum/mat"
)

// System is the Dynamics capability contract (spec §6).
type System interface {
	XDim() int
	UDim(player int) int
	NumPlayers() int

	// Evaluate returns the continuous-time derivative xdot at (t, x, u).
	Evaluate(t float64, x traj.Vector, u []traj.Vector) traj.Vector

	// Integrate advances x0 from t0 to t1 under the feedback law derived
	// from (op, strategies), via fixed-step sub-integration (default RK4).
	Integrate(t0, t1 float64, x0 traj.Vector, op *traj.OperatingPoint, strategies traj.Strategies) traj.Vector

	// Linearize returns the discrete-time linearization (A, {B_i}) at
	// (t, x, u), already discretized by dt.
	Linearize(t float64, x traj.Vector, u []traj.Vector, dt float64) *Linearization
}

// Linearization is a per-step linear dynamics approximation:
// delta_x_{k+1} = A delta_x_k + sum_i B_i delta_u_k^i.
type Linearization struct {
	A *mat.Dense
	B []*mat.Dense // per player
}
