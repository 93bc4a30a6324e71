// Package ilq implements the iterative LQ (iLQ) outer loop (spec §4.2): a
// trust-region/line-searched fixed-point iteration over linearize,
// quadraticize, LQ-solve, and rollout. Its iteration structure and log
// bookkeeping follow internal/sim/simulator.go's Run-and-record loop in
// the simulation teacher this module descends from, generalized from a
// single-trajectory record to a per-iterate SolverLog.
package ilq

import (
	"github.com/san-kum/ilqgame/internal/traj"
)

// Iterate is one entry of the outer loop's log (the initial guess or an
// accepted step): the operating point and
// strategies it produced, the per-player total cost at that point, the
// line-search step size that was accepted, and a wall-clock timestamp
// (seconds since the Solve call began).
type Iterate struct {
	OperatingPoint *traj.OperatingPoint
	Strategies     traj.Strategies
	TotalCost      []float64
	Alpha          float64
	WallTime       float64
}

// SolverLog is the ordered record of a single Solve call: the initial
// iterate followed by every accepted iterate (spec §3). NoProgress is set
// when the loop stopped after MaxNoProgressIterations consecutive
// iterations without an accepted step; Solve returns no error in that
// case.
type SolverLog struct {
	Iterates   []*Iterate
	NoProgress bool
}

func (l *SolverLog) NumIterates() int { return len(l.Iterates) }

func (l *SolverLog) last() *Iterate {
	return l.Iterates[len(l.Iterates)-1]
}

// InitialTime reports the start time of the first iterate's operating
// point; FinalTime reports the end time (T0 + K*Dt) of the last iterate's
// operating point.
func (l *SolverLog) InitialTime() float64 {
	return l.Iterates[0].OperatingPoint.T0
}

func (l *SolverLog) FinalTime() float64 {
	op := l.last().OperatingPoint
	return op.T0 + float64(op.NumSteps())*op.Dt
}

// FinalOperatingPoint and FinalStrategies expose the last accepted
// iterate, the result a caller acts on.
func (l *SolverLog) FinalOperatingPoint() *traj.OperatingPoint {
	return l.last().OperatingPoint
}

func (l *SolverLog) FinalStrategies() traj.Strategies {
	return l.last().Strategies
}

// InterpolateState delegates to the final iterate's operating point.
func (l *SolverLog) InterpolateState(t float64) traj.Vector {
	return l.last().OperatingPoint.InterpolateState(t)
}

// InterpolateControls delegates to the final iterate's operating point
// for player i.
func (l *SolverLog) InterpolateControls(t float64, i int) traj.Vector {
	return l.last().OperatingPoint.InterpolateControl(t, i)
}
