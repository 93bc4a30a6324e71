// Package splicer implements the solution splicer (spec §4.4): it holds
// the "currently believed" full-horizon trajectory across receding-
// horizon steps and grafts each newly solved prefix onto the tail of
// that trajectory. Its copy-then-overwrite update mirrors the
// snapshot-then-patch style of internal/storage/store.go's metadata
// handling in the simulation teacher this module descends from, adapted
// from whole-run persistence to incremental trajectory splicing.
package splicer

import (
	"math"

	"github.com/san-kum/ilqgame/internal/ilq"
	"github.com/san-kum/ilqgame/internal/traj"
	"gonum.org/v1/gonum/mat"
)

// Splicer owns a stitched (OperatingPoint, Strategies) pair. Callers read
// it only through the accessors below.
type Splicer struct {
	op         *traj.OperatingPoint
	strategies traj.Strategies
}

// New initializes the splicer from the first solved stage's final
// iterate.
func New(firstLog *ilq.SolverLog) *Splicer {
	return &Splicer{
		op:         firstLog.FinalOperatingPoint(),
		strategies: firstLog.FinalStrategies(),
	}
}

func (sp *Splicer) CurrentOperatingPoint() *traj.OperatingPoint { return sp.op }
func (sp *Splicer) CurrentStrategies() traj.Strategies          { return sp.strategies }

// Splice grafts newLog's final iterate onto the held trajectory at
// tSplice: the prefix of the current trajectory up to the largest grid
// index not after tSplice is kept; everything from there on is
// overwritten with newLog's trajectory, aligned so the first overwritten
// step equals newLog's own start time. Total length K and the Δt grid
// are preserved.
func (sp *Splicer) Splice(newLog *ilq.SolverLog, tSplice float64) {
	opNew := newLog.FinalOperatingPoint()
	stratNew := newLog.FinalStrategies()

	k := sp.op.NumSteps()
	kStar := int(math.Floor((tSplice-sp.op.T0)/sp.op.Dt + 1e-9))
	if kStar < 0 {
		kStar = 0
	}
	if kStar > k {
		kStar = k
	}
	available := opNew.NumSteps()

	newXs := make([]traj.Vector, k+1)
	copy(newXs, sp.op.Xs[:kStar])
	for step := kStar; step <= k; step++ {
		src := step - kStar
		if src <= available {
			newXs[step] = opNew.Xs[src].Clone()
		} else {
			newXs[step] = opNew.Xs[available].Clone()
		}
	}

	newUs := make([][]traj.Vector, len(sp.op.Us))
	for i := range sp.op.Us {
		newUs[i] = make([]traj.Vector, k)
		copy(newUs[i], sp.op.Us[i][:kStar])
		for step := kStar; step < k; step++ {
			src := step - kStar
			if src < available {
				newUs[i][step] = opNew.Us[i][src].Clone()
			} else {
				newUs[i][step] = opNew.Us[i][available-1].Clone()
			}
		}
	}

	newStrategies := make(traj.Strategies, len(sp.strategies))
	for i, s := range sp.strategies {
		ns := &traj.Strategy{Ps: make([]*mat.Dense, k), Alphas: make([]*mat.VecDense, k)}
		copy(ns.Ps, s.Ps[:kStar])
		copy(ns.Alphas, s.Alphas[:kStar])
		for step := kStar; step < k; step++ {
			src := step - kStar
			if src >= available {
				src = available - 1
			}
			ns.Ps[step] = stratNew[i].Ps[src]
			ns.Alphas[step] = stratNew[i].Alphas[src]
		}
		newStrategies[i] = ns
	}

	sp.op = &traj.OperatingPoint{T0: sp.op.T0, Dt: sp.op.Dt, Xs: newXs, Us: newUs}
	sp.strategies = newStrategies
}
