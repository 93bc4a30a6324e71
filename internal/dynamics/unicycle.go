package dynamics

import (
	"math"

	"github.com/san-kum/ilqgame/internal/traj"
	"gonum.org/v1/gonum/mat"
)

// MultiUnicycle is a joint dynamics system for N independent unicycle
// agents, each with state [x, y, heading, speed] and control
// [turnRate, accel]. Agents do not couple through the dynamics — only
// through cost (see internal/cost.Proximity) — but they share one joint
// state vector per spec §3's data model. This supplements the dropped
// oncoming_example.h scenario from original_source/ just enough to
// exercise the receding-horizon safety property of spec §8 scenario 3.
type MultiUnicycle struct {
	numAgents int
	rk4       *RK4
}

const unicycleStateDim = 4
const unicycleControlDim = 2

func NewMultiUnicycle(numAgents int) *MultiUnicycle {
	return &MultiUnicycle{numAgents: numAgents, rk4: NewRK4()}
}

func (m *MultiUnicycle) XDim() int       { return unicycleStateDim * m.numAgents }
func (m *MultiUnicycle) UDim(i int) int  { return unicycleControlDim }
func (m *MultiUnicycle) NumPlayers() int { return m.numAgents }

func (m *MultiUnicycle) Evaluate(t float64, x traj.Vector, u []traj.Vector) traj.Vector {
	dx := make(traj.Vector, len(x))
	for a := 0; a < m.numAgents; a++ {
		base := a * unicycleStateDim
		heading := x[base+2]
		speed := x[base+3]
		sin, cos := fastSinCos(heading)

		dx[base+0] = speed * cos
		dx[base+1] = speed * sin
		dx[base+2] = u[a][0]
		dx[base+3] = u[a][1]
	}
	return dx
}

func (m *MultiUnicycle) Integrate(t0, t1 float64, x0 traj.Vector, op *traj.OperatingPoint, strategies traj.Strategies) traj.Vector {
	return IntegrateUnderFeedback(m, m.rk4, t0, t1, x0, op, strategies)
}

func (m *MultiUnicycle) Linearize(t float64, x traj.Vector, u []traj.Vector, dt float64) *Linearization {
	n := m.XDim()
	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		a.Set(i, i, 1)
	}

	bs := make([]*mat.Dense, m.numAgents)
	for agent := 0; agent < m.numAgents; agent++ {
		base := agent * unicycleStateDim
		heading := x[base+2]
		speed := x[base+3]
		sin, cos := math.Sincos(heading)

		// d(xdot,ydot)/d(heading,speed), Euler-discretized by dt.
		a.Set(base+0, base+2, -speed*sin*dt)
		a.Set(base+0, base+3, cos*dt)
		a.Set(base+1, base+2, speed*cos*dt)
		a.Set(base+1, base+3, sin*dt)

		b := mat.NewDense(n, unicycleControlDim, nil)
		b.Set(base+2, 0, dt)
		b.Set(base+3, 1, dt)
		bs[agent] = b
	}
	return &Linearization{A: a, B: bs}
}
