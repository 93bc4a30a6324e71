package splicer

import (
	"math"
	"testing"

	"github.com/san-kum/ilqgame/internal/ilq"
	"github.com/san-kum/ilqgame/internal/traj"
)

func makeLog(t0, dt float64, k int, xStart float64) *ilq.SolverLog {
	op := traj.NewOperatingPoint(t0, dt, k, 1, []int{1})
	for i := 0; i <= k; i++ {
		op.Xs[i] = traj.Vector{xStart + float64(i)}
	}
	for kk := 0; kk < k; kk++ {
		op.Us[0][kk] = traj.Vector{1}
	}
	strategies := traj.Strategies{traj.NewStrategy(k, 1, 1)}
	return &ilq.SolverLog{Iterates: []*ilq.Iterate{{OperatingPoint: op, Strategies: strategies, TotalCost: []float64{0}}}}
}

// TestSplicePreservesLengthAndGrid checks spec §8's splicer invariant:
// total length K and the Δt time grid survive every Splice call.
func TestSplicePreservesLengthAndGrid(t *testing.T) {
	dt := 0.1
	k := 10
	first := makeLog(0, dt, k, 0)
	sp := New(first)

	tSplice := 0.5 // k* = 5
	second := makeLog(tSplice, dt, k, 100)

	sp.Splice(second, tSplice)

	op := sp.CurrentOperatingPoint()
	if op.NumSteps() != k {
		t.Fatalf("expected length %d, got %d", k, op.NumSteps())
	}
	for i := 0; i <= k; i++ {
		wantT := op.T0 + float64(i)*dt
		gotT := op.T0 + float64(i)*op.Dt
		if math.Abs(wantT-gotT) > 1e-12 {
			t.Errorf("time grid broken at index %d", i)
		}
	}
}

// TestSpliceJoinsAtNewLogsFirstState checks spec §8 scenario 4: after
// Splice at t_splice, OP.xs[k*] must equal OP_new.xs[0].
func TestSpliceJoinsAtNewLogsFirstState(t *testing.T) {
	dt := 0.1
	k := 10
	first := makeLog(0, dt, k, 0)
	sp := New(first)

	tSplice := 0.5
	kStar := int(tSplice / dt)
	second := makeLog(tSplice, dt, k, 100)

	sp.Splice(second, tSplice)

	op := sp.CurrentOperatingPoint()
	got := op.Xs[kStar][0]
	want := second.FinalOperatingPoint().Xs[0][0]
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("join state mismatch: got %v, want %v", got, want)
	}

	// Prefix before k* must be untouched.
	for i := 0; i < kStar; i++ {
		if math.Abs(op.Xs[i][0]-float64(i)) > 1e-9 {
			t.Errorf("prefix state at %d was overwritten: got %v", i, op.Xs[i][0])
		}
	}
}
