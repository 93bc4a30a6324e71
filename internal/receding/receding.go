// Package receding implements the receding-horizon driver (spec §4.5):
// it interleaves Solve calls on a Problem with forward simulation of the
// plant, advancing the plant by the measured solve wall-time plus a
// fixed slack, and splices each new solution onto the held trajectory.
// Its solve/measure/advance loop follows internal/sim/simulator.go's
// Run loop in the simulation teacher this module descends from,
// generalized from a single fixed-control rollout to repeated replanning.
package receding

import (
	"time"

	"github.com/san-kum/ilqgame/internal/errs"
	"github.com/san-kum/ilqgame/internal/ilq"
	"github.com/san-kum/ilqgame/internal/problem"
	"github.com/san-kum/ilqgame/internal/solverparams"
	"github.com/san-kum/ilqgame/internal/splicer"
)

// Simulator drives a Problem under receding-horizon replanning.
type Simulator struct {
	problem *problem.Problem
	params  solverparams.SolverParams
}

func New(p *problem.Problem, params solverparams.SolverParams) *Simulator {
	return &Simulator{problem: p, params: params}
}

// Run executes the receding-horizon loop until the plant clock reaches
// finalTime, replanning with a wall-clock budget of plannerRuntime each
// step, and returns every per-stage SolverLog (spec §4.5).
func (s *Simulator) Run(finalTime, plannerRuntime float64) ([]*ilq.SolverLog, error) {
	firstLog, err := s.problem.Solve(nil)
	if err != nil {
		return nil, err
	}
	logs := []*ilq.SolverLog{firstLog}

	sp := splicer.New(firstLog)
	sys := s.problem.Dynamics()

	x := s.problem.InitialState()
	t := firstLog.InitialTime()

	for t < finalTime {
		s.problem.SetUpNextRecedingHorizon(x, t, plannerRuntime)

		solveStart := time.Now()
		log, err := s.problem.Solve(&plannerRuntime)
		solveWall := time.Since(solveStart).Seconds()
		if err != nil {
			return logs, err
		}
		if solveWall > plannerRuntime {
			return logs, &errs.BudgetExceededError{Budget: plannerRuntime, Elapsed: solveWall}
		}

		x = sys.Integrate(t, t+solveWall, x, sp.CurrentOperatingPoint(), sp.CurrentStrategies())
		t += solveWall

		sp.Splice(log, t)
		s.problem.SetOperatingPoint(sp.CurrentOperatingPoint())
		s.problem.SetStrategies(sp.CurrentStrategies())

		slack := s.params.RecedingHorizonSlack
		x = sys.Integrate(t, t+slack, x, sp.CurrentOperatingPoint(), sp.CurrentStrategies())
		t += slack

		logs = append(logs, log)
	}

	return logs, nil
}
