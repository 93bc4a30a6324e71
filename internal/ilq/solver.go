package ilq

import (
	"time"

	"github.com/san-kum/ilqgame/internal/cost"
	"github.com/san-kum/ilqgame/internal/dynamics"
	"github.com/san-kum/ilqgame/internal/errs"
	"github.com/san-kum/ilqgame/internal/linalg"
	"github.com/san-kum/ilqgame/internal/rollout"
	"github.com/san-kum/ilqgame/internal/solve"
	"github.com/san-kum/ilqgame/internal/solverparams"
	"github.com/san-kum/ilqgame/internal/traj"
)

// Solver runs the outer fixed-point iteration (spec §4.2) for a fixed
// problem geometry, reusing its LQ solver's and roller's workspace
// buffers across Solve calls the same way those components do
// internally (spec §9).
type Solver struct {
	sys    dynamics.System
	costs  []cost.PlayerCost
	params solverparams.SolverParams

	lq     *solve.Solver
	roller *rollout.Roller

	uDims []int
	n     int
	k     int

	// linearizations and quadraticCosts are sized once in New for a
	// horizon of k steps and reused across iterations and Solve calls;
	// they are not resized.
	linearizations []*dynamics.Linearization
	quadraticCosts [][]*cost.QuadraticCostApprox
}

// New builds an outer solver for a dynamics system and one cost per
// player, over a horizon of k steps.
func New(sys dynamics.System, costs []cost.PlayerCost, params solverparams.SolverParams, k int) *Solver {
	n := sys.XDim()
	numPlayers := sys.NumPlayers()
	uDims := make([]int, numPlayers)
	for i := range uDims {
		uDims[i] = sys.UDim(i)
	}

	return &Solver{
		sys:            sys,
		costs:          costs,
		params:         params,
		lq:             solve.NewSolver(uDims, n, k),
		roller:         rollout.NewRoller(sys),
		uDims:          uDims,
		n:              n,
		k:              k,
		linearizations: make([]*dynamics.Linearization, k),
		quadraticCosts: make([][]*cost.QuadraticCostApprox, k),
	}
}

// Solve runs the iLQ loop starting from (op, strategies), subject to an
// optional wall-clock budget in seconds (nil means unbounded within the
// loop; the receding-horizon driver enforces a hard budget separately).
func (sv *Solver) Solve(op *traj.OperatingPoint, strategies traj.Strategies, x0 traj.Vector, budget *float64) (*SolverLog, error) {
	start := time.Now()
	numPlayers := len(sv.costs)

	log := &SolverLog{}
	cur := op
	curStrategies := strategies

	curCost := sv.totalCosts(cur)
	log.Iterates = append(log.Iterates, &Iterate{
		OperatingPoint: cur,
		Strategies:     curStrategies,
		TotalCost:      curCost,
		Alpha:          1,
		WallTime:       0,
	})

	noProgress := 0
	smallImprovement := 0

	for iter := 0; iter < sv.params.MaxIterations; iter++ {
		if budget != nil && time.Since(start).Seconds() >= *budget {
			return log, nil
		}

		if err := sv.linearizeAll(cur); err != nil {
			return log, err
		}
		if err := sv.quadraticizeAll(cur); err != nil {
			return log, err
		}

		candidate, err := sv.lq.Solve(sv.linearizations, sv.quadraticCosts)
		if err != nil {
			if _, ok := err.(*errs.SingularCouplingError); ok {
				noProgress++
				if noProgress >= sv.params.MaxNoProgressIterations {
					log.NoProgress = true
					return log, nil
				}
				continue
			}
			return log, err
		}

		accepted, acceptedAlpha, newCost, ok := sv.lineSearch(cur, candidate, x0, curCost)
		if !ok {
			noProgress++
			if noProgress >= sv.params.MaxNoProgressIterations {
				log.NoProgress = true
				return log, nil
			}
			continue
		}
		noProgress = 0

		maxControlChange := maxControlDelta(cur, accepted, numPlayers)

		oldMax := maxOf(curCost)
		newMax := maxOf(newCost)
		improvement := oldMax - newMax

		cur = accepted
		curStrategies = candidate
		curCost = newCost

		log.Iterates = append(log.Iterates, &Iterate{
			OperatingPoint: cur,
			Strategies:     curStrategies,
			TotalCost:      curCost,
			Alpha:          acceptedAlpha,
			WallTime:       time.Since(start).Seconds(),
		})

		if maxControlChange < sv.params.EpsU {
			return log, nil
		}
		if improvement < sv.params.EpsJ {
			smallImprovement++
			if smallImprovement >= 2 {
				return log, nil
			}
		} else {
			smallImprovement = 0
		}
	}

	return log, nil
}

func (sv *Solver) linearizeAll(op *traj.OperatingPoint) error {
	k := op.NumSteps()
	return linalg.ParallelFor(k, func(kk int) error {
		t := op.TimeAt(kk)
		u := make([]traj.Vector, len(op.Us))
		for i := range op.Us {
			u[i] = op.Us[i][kk]
		}
		sv.linearizations[kk] = sv.sys.Linearize(t, op.Xs[kk], u, op.Dt)
		return nil
	})
}

func (sv *Solver) quadraticizeAll(op *traj.OperatingPoint) error {
	k := op.NumSteps()
	numPlayers := len(sv.costs)
	return linalg.ParallelFor(k, func(kk int) error {
		t := op.TimeAt(kk)
		u := make([]traj.Vector, len(op.Us))
		for i := range op.Us {
			u[i] = op.Us[i][kk]
		}
		row := make([]*cost.QuadraticCostApprox, numPlayers)
		for i := 0; i < numPlayers; i++ {
			row[i] = sv.costs[i].Quadraticize(t, op.Xs[kk+1], u)
		}
		sv.quadraticCosts[kk] = row
		return nil
	})
}

// lineSearch implements spec §4.2 step 4-5: halve alpha from 1 until the
// rollout neither diverges nor violates the trust region, and either
// reduces the summed per-player cost or satisfies the trust region alone.
// Halving stops at whichever bound is hit first: alpha falling below
// EpsAlpha, or LineSearchMaxHalvings halvings having been tried.
func (sv *Solver) lineSearch(op *traj.OperatingPoint, strategies traj.Strategies, x0 traj.Vector, curCost []float64) (*traj.OperatingPoint, float64, []float64, bool) {
	alpha := 1.0
	oldSum := sumOf(curCost)

	for halvings := 0; alpha >= sv.params.EpsAlpha && halvings <= sv.params.LineSearchMaxHalvings; halvings++ {
		candidate, err := sv.roller.Rollout(op, strategies, x0, alpha)
		if err != nil {
			alpha /= 2
			continue
		}

		if len(sv.params.TrustRegionDimensions) > 0 {
			if !sv.withinTrustRegion(op, candidate) {
				alpha /= 2
				continue
			}
		}

		newCost := sv.totalCosts(candidate)
		if sumOf(newCost) < oldSum || len(sv.params.TrustRegionDimensions) > 0 {
			return candidate, alpha, newCost, true
		}

		alpha /= 2
	}

	return nil, 0, nil, false
}

func (sv *Solver) withinTrustRegion(old, candidate *traj.OperatingPoint) bool {
	rho := sv.params.TrustRegionRadius
	for k := range old.Xs {
		for _, d := range sv.params.TrustRegionDimensions {
			delta := candidate.Xs[k][d] - old.Xs[k][d]
			if delta < 0 {
				delta = -delta
			}
			if delta > rho {
				return false
			}
		}
	}
	return true
}

// totalCosts sums each player's running cost over the whole trajectory.
func (sv *Solver) totalCosts(op *traj.OperatingPoint) []float64 {
	k := op.NumSteps()
	out := make([]float64, len(sv.costs))
	for kk := 0; kk < k; kk++ {
		t := op.TimeAt(kk)
		u := make([]traj.Vector, len(op.Us))
		for i := range op.Us {
			u[i] = op.Us[i][kk]
		}
		for i, c := range sv.costs {
			out[i] += c.Evaluate(t, op.Xs[kk], u)
		}
	}
	return out
}

func maxControlDelta(old, candidate *traj.OperatingPoint, numPlayers int) float64 {
	max := 0.0
	for i := 0; i < numPlayers; i++ {
		for k := range old.Us[i] {
			d := candidate.Us[i][k].Sub(old.Us[i][k]).Norm()
			if d > max {
				max = d
			}
		}
	}
	return max
}

func sumOf(vs []float64) float64 {
	s := 0.0
	for _, v := range vs {
		s += v
	}
	return s
}

func maxOf(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
