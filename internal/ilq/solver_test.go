package ilq

import (
	"math"
	"testing"

	"github.com/san-kum/ilqgame/internal/cost"
	"github.com/san-kum/ilqgame/internal/dynamics"
	"github.com/san-kum/ilqgame/internal/solve"
	"github.com/san-kum/ilqgame/internal/solverparams"
	"github.com/san-kum/ilqgame/internal/traj"
	"gonum.org/v1/gonum/mat"
)

// TestDegenerateGameMatchesDirectLQSolve checks spec §8's boundary case
// N=1 (degenerate game = standard iLQR): for linear dynamics and an
// already-quadratic cost, a single iLQ iteration must reproduce the
// result of calling the LQ solver directly once, since linearizing
// already-linear dynamics and quadraticizing an already-quadratic cost
// introduce no approximation error.
func TestDegenerateGameMatchesDirectLQSolve(t *testing.T) {
	dt := 0.1
	k := 10
	sys := &singlePlayerPointMass{dt: dt}
	q := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	r := mat.NewDense(1, 1, []float64{1})
	playerCost := &cost.LQTracking{
		Player:         0,
		StateWeight:    q,
		Target:         traj.Vector{0, 0},
		ControlWeights: map[int]*mat.Dense{0: r},
	}

	x0 := traj.Vector{1, 0}
	op, strategies := onePlayerOpAndStrategies(k, dt, x0)

	params := solverparams.DefaultSolverParams()
	params.MaxIterations = 1

	outer := New(sys, []cost.PlayerCost{playerCost}, params, k)
	log, err := outer.Solve(op, strategies, x0, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if log.NumIterates() < 2 {
		t.Fatalf("expected at least one accepted iteration, got %d iterates", log.NumIterates())
	}

	// Independently solve the single LQ subproblem the outer loop should
	// have produced from the zero-control linearization.
	lin := make([]*dynamics.Linearization, k)
	qc := make([][]*cost.QuadraticCostApprox, k)
	for kk := 0; kk < k; kk++ {
		zeroU := []traj.Vector{{0}}
		l := sys.Linearize(op.TimeAt(kk), op.Xs[kk], zeroU, dt)
		lin[kk] = l
		approx := playerCost.Quadraticize(op.TimeAt(kk), op.Xs[kk+1], zeroU)
		qc[kk] = []*cost.QuadraticCostApprox{approx}
	}
	direct := solve.NewSolver([]int{1}, 2, k)
	wantStrategies, err := direct.Solve(lin, qc)
	if err != nil {
		t.Fatalf("direct Solve: %v", err)
	}

	got := log.Iterates[1].Strategies[0]
	for kk := 0; kk < k; kk++ {
		for c := 0; c < 2; c++ {
			if math.Abs(got.Ps[kk].At(0, c)-wantStrategies[0].Ps[kk].At(0, c)) > 1e-6 {
				t.Errorf("step %d: P[0][%d] = %v, want %v", kk, c, got.Ps[kk].At(0, c), wantStrategies[0].Ps[kk].At(0, c))
			}
		}
	}
}

func onePlayerOpAndStrategies(k int, dt float64, x0 traj.Vector) (*traj.OperatingPoint, traj.Strategies) {
	// With zero control and x0's zero velocity the point mass stays at x0,
	// so holding every state at x0 makes the operating point dynamically
	// consistent with its own controls.
	op := traj.NewOperatingPoint(0, dt, k, 2, []int{1})
	for i := range op.Xs {
		op.Xs[i] = x0.Clone()
	}
	return op, traj.Strategies{traj.NewStrategy(k, 1, 2)}
}

// singlePlayerPointMass is a trivial one-player linear system used only
// to exercise the N=1 degenerate-game boundary case.
type singlePlayerPointMass struct {
	dt  float64
	rk4 *dynamics.RK4
}

func (s *singlePlayerPointMass) XDim() int       { return 2 }
func (s *singlePlayerPointMass) UDim(i int) int  { return 1 }
func (s *singlePlayerPointMass) NumPlayers() int { return 1 }

func (s *singlePlayerPointMass) Evaluate(t float64, x traj.Vector, u []traj.Vector) traj.Vector {
	return traj.Vector{x[1], u[0][0]}
}

func (s *singlePlayerPointMass) Integrate(t0, t1 float64, x0 traj.Vector, op *traj.OperatingPoint, strategies traj.Strategies) traj.Vector {
	if s.rk4 == nil {
		s.rk4 = dynamics.NewRK4()
	}
	return dynamics.IntegrateUnderFeedback(s, s.rk4, t0, t1, x0, op, strategies)
}

func (s *singlePlayerPointMass) Linearize(t float64, x traj.Vector, u []traj.Vector, dt float64) *dynamics.Linearization {
	a := mat.NewDense(2, 2, []float64{1, dt, 0, 1})
	b := mat.NewDense(2, 1, []float64{0, dt})
	return &dynamics.Linearization{A: a, B: []*mat.Dense{b}}
}
