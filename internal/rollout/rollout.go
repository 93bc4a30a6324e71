// Package rollout applies a candidate set of strategies to the dynamics
// to produce a new nominal trajectory (spec §4.3). Its control flow —
// step, validate, record — follows internal/sim/simulator.go's Run loop
// in the simulation teacher this module descends from, specialized to
// per-player error feedback instead of a single controller.
package rollout

import (
	"github.com/san-kum/ilqgame/internal/dynamics"
	"github.com/san-kum/ilqgame/internal/errs"
	"github.com/san-kum/ilqgame/internal/traj"
)

// Roller performs rollouts for a fixed problem geometry, keeping its RK4
// stepper's scratch buffers alive across calls (spec §9 workspace
// buffers).
type Roller struct {
	sys dynamics.System
	rk4 *dynamics.RK4
}

func NewRoller(sys dynamics.System) *Roller {
	return &Roller{sys: sys, rk4: dynamics.NewRK4()}
}

// Rollout produces a new operating point by applying strategies around op
// starting from x0, scaled by the line-search factor lsAlpha (spec §4.2
// step 4: lsAlpha multiplies only the feedforward alpha term). A
// non-finite state anywhere aborts with RolloutDivergedError.
func (r *Roller) Rollout(op *traj.OperatingPoint, strategies traj.Strategies, x0 traj.Vector, lsAlpha float64) (*traj.OperatingPoint, error) {
	k := op.NumSteps()
	out := &traj.OperatingPoint{
		T0: op.T0,
		Dt: op.Dt,
		Xs: make([]traj.Vector, k+1),
		Us: make([][]traj.Vector, len(strategies)),
	}
	for i := range strategies {
		out.Us[i] = make([]traj.Vector, k)
	}

	x := x0.Clone()
	out.Xs[0] = x.Clone()

	for kk := 0; kk < k; kk++ {
		t := op.TimeAt(kk)
		u := dynamics.FeedbackControl(op, strategies, kk, x, lsAlpha)
		for i := range strategies {
			out.Us[i][kk] = u[i]
		}

		next := r.rk4.Step(r.sys, x, u, t, op.Dt)
		if !next.IsValid() {
			return nil, &errs.RolloutDivergedError{Step: kk, Time: t + op.Dt}
		}
		x = next
		out.Xs[kk+1] = x.Clone()
	}

	return out, nil
}
