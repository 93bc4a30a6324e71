package cost

import (
	"github.com/san-kum/ilqgame/internal/traj"
	"gonum.org/v1/gonum/mat"
)

// Quadratic is a tracking cost for one player:
//
//	C(x, u) = 1/2 (x - Target)^T StateWeight (x - Target)
//	        + 1/2 (u_i - ControlTarget)^T ControlWeight (u_i - ControlTarget)
//
// Being already quadratic, its Quadraticize is the exact local expansion
// rather than an approximation.
type Quadratic struct {
	Player        int
	StateWeight   *mat.Dense
	Target        traj.Vector
	ControlWeight *mat.Dense
	ControlTarget traj.Vector
}

func (q *Quadratic) Evaluate(t float64, x traj.Vector, u []traj.Vector) float64 {
	dx := x.Sub(q.Target)
	stateCost := quadForm(q.StateWeight, dx)

	du := u[q.Player].Sub(q.ControlTarget)
	controlCost := quadForm(q.ControlWeight, du)

	return 0.5*stateCost + 0.5*controlCost
}

func quadForm(w *mat.Dense, v traj.Vector) float64 {
	n := len(v)
	sum := 0.0
	for i := 0; i < n; i++ {
		row := 0.0
		for j := 0; j < n; j++ {
			row += w.At(i, j) * v[j]
		}
		sum += v[i] * row
	}
	return sum
}

func (q *Quadratic) Quadraticize(t float64, x traj.Vector, u []traj.Vector) *QuadraticCostApprox {
	n := len(x)
	e := x.Sub(q.Target)
	l := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		row := 0.0
		for j := 0; j < n; j++ {
			row += q.StateWeight.At(i, j) * e[j]
		}
		l.SetVec(i, row)
	}

	du := u[q.Player].Sub(q.ControlTarget)
	uDim := len(du)
	r := mat.NewVecDense(uDim, nil)
	for i := 0; i < uDim; i++ {
		row := 0.0
		for j := 0; j < uDim; j++ {
			row += q.ControlWeight.At(i, j) * du[j]
		}
		r.SetVec(i, row)
	}

	return &QuadraticCostApprox{
		Q: q.StateWeight,
		L: l,
		Controls: map[int]*ControlTerm{
			q.Player: {R: q.ControlWeight, Linear: r},
		},
	}
}
