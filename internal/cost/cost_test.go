package cost

import (
	"math"
	"testing"

	"github.com/san-kum/ilqgame/internal/traj"
	"gonum.org/v1/gonum/mat"
)

func TestQuadraticEvaluateAndQuadraticizeAgree(t *testing.T) {
	q := &Quadratic{
		Player:        0,
		StateWeight:   mat.NewDense(2, 2, []float64{2, 0, 0, 2}),
		Target:        traj.Vector{1, 1},
		ControlWeight: mat.NewDense(1, 1, []float64{1}),
		ControlTarget: traj.Vector{0},
	}

	x := traj.Vector{2, 3}
	u := []traj.Vector{{0.5}}

	got := q.Evaluate(0, x, u)
	want := 0.5*2*((2-1)*(2-1)+(3-1)*(3-1)) + 0.5*1*0.5*0.5
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Evaluate = %v, want %v", got, want)
	}

	approx := q.Quadraticize(0, x, u)
	if approx.L.AtVec(0) != 2*(2-1) || approx.L.AtVec(1) != 2*(3-1) {
		t.Errorf("unexpected L: %v, %v", approx.L.AtVec(0), approx.L.AtVec(1))
	}
	if _, ok := approx.Controls[0]; !ok {
		t.Fatal("missing self control entry")
	}
}

func TestProximityZeroBeyondMinDistance(t *testing.T) {
	p := &Proximity{
		Player: 0, SelfXIdx: 0, SelfYIdx: 1,
		Other: 1, OtherXIdx: 2, OtherYIdx: 3,
		MinDistance: 1.0, Weight: 10, StateDim: 4, ControlDim: 1,
	}

	far := traj.Vector{0, 0, 10, 10}
	if c := p.Evaluate(0, far, nil); c != 0 {
		t.Errorf("expected zero cost beyond MinDistance, got %v", c)
	}

	near := traj.Vector{0, 0, 0.5, 0}
	if c := p.Evaluate(0, near, nil); c <= 0 {
		t.Errorf("expected positive cost within MinDistance, got %v", c)
	}
}

func TestProximityQuadraticizeHasRequiredSelfEntry(t *testing.T) {
	p := &Proximity{
		Player: 0, SelfXIdx: 0, SelfYIdx: 1,
		Other: 1, OtherXIdx: 2, OtherYIdx: 3,
		MinDistance: 1.0, Weight: 10, StateDim: 4, ControlDim: 2,
	}
	near := traj.Vector{0, 0, 0.5, 0}
	approx := p.Quadraticize(0, near, nil)
	term, ok := approx.Controls[0]
	if !ok {
		t.Fatal("missing required self control entry")
	}
	rows, cols := term.R.Dims()
	if rows != 2 || cols != 2 {
		t.Errorf("expected 2x2 self R, got %dx%d", rows, cols)
	}
}

func TestSumCombinesTerms(t *testing.T) {
	q1 := &Quadratic{Player: 0, StateWeight: mat.NewDense(2, 2, []float64{1, 0, 0, 1}), Target: traj.Vector{0, 0}, ControlWeight: mat.NewDense(1, 1, []float64{1}), ControlTarget: traj.Vector{0}}
	q2 := &Quadratic{Player: 0, StateWeight: mat.NewDense(2, 2, []float64{1, 0, 0, 1}), Target: traj.Vector{0, 0}, ControlWeight: mat.NewDense(1, 1, []float64{1}), ControlTarget: traj.Vector{0}}
	sum := &Sum{Player: 0, Terms: []PlayerCost{q1, q2}}

	x := traj.Vector{1, 1}
	u := []traj.Vector{{1}}

	gotEval := sum.Evaluate(0, x, u)
	wantEval := q1.Evaluate(0, x, u) + q2.Evaluate(0, x, u)
	if math.Abs(gotEval-wantEval) > 1e-9 {
		t.Errorf("Evaluate = %v, want %v", gotEval, wantEval)
	}

	approx := sum.Quadraticize(0, x, u)
	single := q1.Quadraticize(0, x, u)
	if approx.Q.At(0, 0) != 2*single.Q.At(0, 0) {
		t.Errorf("Q not summed: got %v, want %v", approx.Q.At(0, 0), 2*single.Q.At(0, 0))
	}
}
