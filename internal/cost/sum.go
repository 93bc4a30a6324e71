package cost

import (
	"github.com/san-kum/ilqgame/internal/traj"
	"gonum.org/v1/gonum/mat"
)

// Sum combines several cost terms for the same player into a single
// PlayerCost by addition, the way a Problem façade assembles a player's
// full running cost from a catalog of terms. Terms are held as PlayerCost
// interface values and dispatched dynamically. Each term evaluates and
// quadraticizes independently; their contributions are added block-wise,
// merging control maps by player index.
type Sum struct {
	Player int
	Terms  []PlayerCost
}

func (s *Sum) Evaluate(t float64, x traj.Vector, u []traj.Vector) float64 {
	total := 0.0
	for _, term := range s.Terms {
		total += term.Evaluate(t, x, u)
	}
	return total
}

func (s *Sum) Quadraticize(t float64, x traj.Vector, u []traj.Vector) *QuadraticCostApprox {
	n := len(x)
	out := &QuadraticCostApprox{
		Q:        mat.NewDense(n, n, nil),
		L:        mat.NewVecDense(n, nil),
		Controls: map[int]*ControlTerm{},
	}

	for _, term := range s.Terms {
		qc := term.Quadraticize(t, x, u)
		out.Q.Add(out.Q, qc.Q)
		out.L.AddVec(out.L, qc.L)

		for j, block := range qc.Controls {
			existing, ok := out.Controls[j]
			if !ok {
				rows, cols := block.R.Dims()
				existing = &ControlTerm{
					R:      mat.NewDense(rows, cols, nil),
					Linear: mat.NewVecDense(block.Linear.Len(), nil),
				}
				out.Controls[j] = existing
			}
			existing.R.Add(existing.R, block.R)
			existing.Linear.AddVec(existing.Linear, block.Linear)
		}
	}

	return out
}
