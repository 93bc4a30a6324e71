package receding

import (
	"testing"

	"github.com/san-kum/ilqgame/internal/problem"
	"github.com/san-kum/ilqgame/internal/scenario"
	"github.com/san-kum/ilqgame/internal/solverparams"
	"github.com/san-kum/ilqgame/internal/traj"
)

// TestBudgetExceededIsFatal checks spec §8 scenario 6: a planner runtime
// far below what the solver actually needs must surface BudgetExceeded.
func TestBudgetExceededIsFatal(t *testing.T) {
	sc, err := scenario.Get("point-mass-2p")
	if err != nil {
		t.Fatalf("scenario.Get: %v", err)
	}

	op := traj.NewOperatingPoint(0, sc.Dt, sc.K, 2, sc.UDims)
	op.Xs[0] = sc.X0.Clone()
	strategies := traj.Strategies{
		traj.NewStrategy(sc.K, sc.UDims[0], 2),
		traj.NewStrategy(sc.K, sc.UDims[1], 2),
	}

	params := solverparams.DefaultSolverParams()
	params.MaxIterations = 200 // far more work than a 1e-12 s budget allows

	p := problem.New(sc.System, sc.Costs, params, op, strategies, sc.X0)
	sim := New(p, params)

	// An impossibly tight planner runtime: the very first replanning
	// solve cannot possibly finish within it.
	_, err = sim.Run(float64(sc.K)*sc.Dt, 1e-12)
	if err == nil {
		t.Fatal("expected a budget-exceeded error")
	}
}
