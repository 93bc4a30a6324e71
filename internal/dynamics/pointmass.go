package dynamics

import (
	"github.com/san-kum/ilqgame/internal/traj"
	"gonum.org/v1/gonum/mat"
)

// PointMass is the two-player 1-D point mass used by spec §8 scenario 1:
// state [position, velocity]; each player's scalar control enters the
// continuous dynamics as xdot += B_i * u_i, with B_i = [bVel_i, bAcc_i].
// It is a test fixture, not a shipped catalog entry (spec §1 Non-goals).
type PointMass struct {
	BVel []float64 // per player
	BAcc []float64 // per player
	rk4  *RK4
}

// NewPointMass builds the two-player fixture from spec §8 scenario 1.
func NewPointMass() *PointMass {
	return &PointMass{
		BVel: []float64{0.05, 0.032},
		BAcc: []float64{1.0, 0.11},
		rk4:  NewRK4(),
	}
}

func (p *PointMass) XDim() int          { return 2 }
func (p *PointMass) UDim(i int) int     { return 1 }
func (p *PointMass) NumPlayers() int    { return len(p.BVel) }

func (p *PointMass) Evaluate(t float64, x traj.Vector, u []traj.Vector) traj.Vector {
	dx := traj.Vector{x[1], 0}
	for i := range u {
		dx[0] += p.BVel[i] * u[i][0]
		dx[1] += p.BAcc[i] * u[i][0]
	}
	return dx
}

func (p *PointMass) Integrate(t0, t1 float64, x0 traj.Vector, op *traj.OperatingPoint, strategies traj.Strategies) traj.Vector {
	return IntegrateUnderFeedback(p, p.rk4, t0, t1, x0, op, strategies)
}

// Linearize returns the forward-Euler discretization (A = I + dt*A_c,
// B_i = dt*B_i) of the point-mass dynamics; since PointMass is linear,
// it is the same for any (t, x, u).
func (p *PointMass) Linearize(t float64, x traj.Vector, u []traj.Vector, dt float64) *Linearization {
	a := mat.NewDense(2, 2, []float64{1, dt, 0, 1})
	bs := make([]*mat.Dense, p.NumPlayers())
	for i := range bs {
		bs[i] = mat.NewDense(2, 1, []float64{p.BVel[i] * dt, p.BAcc[i] * dt})
	}
	return &Linearization{A: a, B: bs}
}
