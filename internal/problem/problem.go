// Package problem implements the Problem façade (spec §2, §3): it owns
// the dynamics, per-player costs, current strategies, and current
// operating point for one game instance, and exposes Solve. Its
// ownership discipline — a thin façade gluing capability interfaces to
// the solver internals without itself doing numerical work — follows
// internal/experiment/experiment.go's Experiment type in the simulation
// teacher this module descends from.
package problem

import (
	"github.com/san-kum/ilqgame/internal/cost"
	"github.com/san-kum/ilqgame/internal/dynamics"
	"github.com/san-kum/ilqgame/internal/ilq"
	"github.com/san-kum/ilqgame/internal/solverparams"
	"github.com/san-kum/ilqgame/internal/traj"
)

// Problem holds exclusive ownership of dynamics, costs, and the current
// best strategies/operating point for one game instance (spec §3,
// "Ownership").
type Problem struct {
	sys    dynamics.System
	costs  []cost.PlayerCost
	params solverparams.SolverParams
	solver *ilq.Solver

	x0         traj.Vector
	op         *traj.OperatingPoint
	strategies traj.Strategies
}

// New builds a Problem over a fixed horizon of k steps, with initial
// guesses op and strategies and a starting state x0.
func New(sys dynamics.System, costs []cost.PlayerCost, params solverparams.SolverParams, op *traj.OperatingPoint, strategies traj.Strategies, x0 traj.Vector) *Problem {
	return &Problem{
		sys:        sys,
		costs:      costs,
		params:     params,
		solver:     ilq.New(sys, costs, params, op.NumSteps()),
		x0:         x0,
		op:         op,
		strategies: strategies,
	}
}

// Solve runs the iLQ outer loop from the current (op, strategies, x0),
// subject to an optional wall-clock budget in seconds. On return the
// façade's own operating point and strategies are left at the final
// iterate, so a subsequent Solve warm-starts from the converged result
// rather than the stale pre-solve guess (original_source/src/
// receding_horizon_simulator.cpp's second "Solved warm-started problem"
// call depends on exactly this).
func (p *Problem) Solve(budget *float64) (*ilq.SolverLog, error) {
	log, err := p.solver.Solve(p.op, p.strategies, p.x0, budget)
	if log != nil && log.NumIterates() > 0 {
		p.op = log.FinalOperatingPoint()
		p.strategies = log.FinalStrategies()
	}
	return log, err
}

func (p *Problem) SetOperatingPoint(op *traj.OperatingPoint) { p.op = op }
func (p *Problem) SetStrategies(s traj.Strategies)           { p.strategies = s }
func (p *Problem) OperatingPoint() *traj.OperatingPoint      { return p.op }
func (p *Problem) Strategies() traj.Strategies               { return p.strategies }
func (p *Problem) InitialState() traj.Vector                 { return p.x0 }
func (p *Problem) Dynamics() dynamics.System                 { return p.sys }

// SetUpNextRecedingHorizon advances the problem's internal clock and
// plant state ahead of the next Solve call (spec §4.5 step a): the
// warm-start operating point and strategies are left as whatever the
// caller last set via SetOperatingPoint/SetStrategies (the spliced
// trajectory), and only the clock origin and initial state move.
func (p *Problem) SetUpNextRecedingHorizon(x traj.Vector, t, plannerRuntime float64) {
	p.x0 = x
	p.op.T0 = t
}
