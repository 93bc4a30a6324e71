package cost

import (
	"math"

	"github.com/san-kum/ilqgame/internal/traj"
	"gonum.org/v1/gonum/mat"
)

// Proximity penalizes player Self getting closer than MinDistance to
// player Other, via a squared-hinge potential on the planar distance
// between their position coordinates within the joint state vector:
//
//	C(x) = 1/2 Weight * max(0, MinDistance - dist(x))^2
//
// This supplements the two-car scenario dropped from
// original_source/include/ilqgames/examples/oncoming_example.h just
// enough to exercise the safety property of spec §8 scenario 3. The
// quadratic approximation uses a Gauss-Newton Hessian (the outer product
// of the constraint gradient), the standard approximation for hinge-type
// potentials that avoids a second derivative of the distance function.
type Proximity struct {
	Player      int
	SelfXIdx    int
	SelfYIdx    int
	Other       int
	OtherXIdx   int
	OtherYIdx   int
	MinDistance float64
	Weight      float64
	StateDim    int
	ControlDim  int // own control dimension, for the required self R_ii entry
}

func (p *Proximity) distance(x traj.Vector) float64 {
	rx := x[p.SelfXIdx] - x[p.OtherXIdx]
	ry := x[p.SelfYIdx] - x[p.OtherYIdx]
	return math.Hypot(rx, ry)
}

func (p *Proximity) Evaluate(t float64, x traj.Vector, u []traj.Vector) float64 {
	viol := p.MinDistance - p.distance(x)
	if viol <= 0 {
		return 0
	}
	return 0.5 * p.Weight * viol * viol
}

func (p *Proximity) Quadraticize(t float64, x traj.Vector, u []traj.Vector) *QuadraticCostApprox {
	n := p.StateDim
	q := mat.NewDense(n, n, nil)
	l := mat.NewVecDense(n, nil)

	dist := p.distance(x)
	viol := p.MinDistance - dist
	if viol > 0 && dist > 1e-9 {
		rx := x[p.SelfXIdx] - x[p.OtherXIdx]
		ry := x[p.SelfYIdx] - x[p.OtherYIdx]

		// gradient of g = MinDistance - dist wrt the four coupled indices.
		idx := []int{p.SelfXIdx, p.SelfYIdx, p.OtherXIdx, p.OtherYIdx}
		dg := []float64{-rx / dist, -ry / dist, rx / dist, ry / dist}

		for a, ia := range idx {
			l.SetVec(ia, l.AtVec(ia)+p.Weight*viol*dg[a])
			for b, ib := range idx {
				q.Set(ia, ib, q.At(ia, ib)+p.Weight*dg[a]*dg[b])
			}
		}
	}

	return &QuadraticCostApprox{
		Q: q,
		L: l,
		Controls: map[int]*ControlTerm{
			p.Player: {
				R:      mat.NewDense(p.ControlDim, p.ControlDim, nil),
				Linear: mat.NewVecDense(p.ControlDim, nil),
			},
		},
	}
}
