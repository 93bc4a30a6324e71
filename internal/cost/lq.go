package cost

import (
	"github.com/san-kum/ilqgame/internal/traj"
	"gonum.org/v1/gonum/mat"
)

// LQTracking is an already-quadratic, possibly player-coupled running
// cost: a state tracking term plus one control-tracking term per player
// named in ControlWeights (which must include the self entry, player ==
// Player, and may include cross terms for other players' controls, the
// general-sum coupling spec §3's QuadraticCostApproximation allows).
// Because the cost is exactly quadratic, Quadraticize returns the exact
// local expansion rather than an approximation — the representation used
// to construct the fixed, time-invariant test games of spec §8.
type LQTracking struct {
	Player         int
	StateWeight    *mat.Dense
	Target         traj.Vector
	ControlWeights map[int]*mat.Dense
	ControlTargets map[int]traj.Vector // optional; missing entries default to zero
}

func (q *LQTracking) controlTarget(j int, dim int) traj.Vector {
	if t, ok := q.ControlTargets[j]; ok {
		return t
	}
	return make(traj.Vector, dim)
}

func (q *LQTracking) Evaluate(t float64, x traj.Vector, u []traj.Vector) float64 {
	dx := x.Sub(q.Target)
	total := 0.5 * quadForm(q.StateWeight, dx)

	for j, r := range q.ControlWeights {
		du := u[j].Sub(q.controlTarget(j, len(u[j])))
		total += 0.5 * quadForm(r, du)
	}
	return total
}

func (q *LQTracking) Quadraticize(t float64, x traj.Vector, u []traj.Vector) *QuadraticCostApprox {
	n := len(x)
	dx := x.Sub(q.Target)
	l := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		row := 0.0
		for j := 0; j < n; j++ {
			row += q.StateWeight.At(i, j) * dx[j]
		}
		l.SetVec(i, row)
	}

	controls := make(map[int]*ControlTerm, len(q.ControlWeights))
	for j, r := range q.ControlWeights {
		du := u[j].Sub(q.controlTarget(j, len(u[j])))
		uDim := len(du)
		lin := mat.NewVecDense(uDim, nil)
		for i := 0; i < uDim; i++ {
			row := 0.0
			for c := 0; c < uDim; c++ {
				row += r.At(i, c) * du[c]
			}
			lin.SetVec(i, row)
		}
		controls[j] = &ControlTerm{R: r, Linear: lin}
	}

	return &QuadraticCostApprox{Q: q.StateWeight, L: l, Controls: controls}
}
