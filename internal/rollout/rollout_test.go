package rollout

import (
	"math"
	"testing"

	"github.com/san-kum/ilqgame/internal/dynamics"
	"github.com/san-kum/ilqgame/internal/traj"
)

// TestRolloutAtZeroAlphaIsIdentity checks spec §8's invariant: rolling
// out the operating point's own strategies at line-search scalar alpha=0
// must reproduce the operating point exactly, since the feedback law
// reduces to u_k = ubar_k when both the state error term and the
// feedforward term vanish.
func TestRolloutAtZeroAlphaIsIdentity(t *testing.T) {
	sys := dynamics.NewPointMass()
	rk4 := dynamics.NewRK4()
	k := 10
	op := traj.NewOperatingPoint(0, 0.1, k, 2, []int{1, 1})

	x := traj.Vector{1, 0}
	op.Xs[0] = x.Clone()
	for kk := 0; kk < k; kk++ {
		op.Us[0][kk] = traj.Vector{0.1}
		op.Us[1][kk] = traj.Vector{-0.2}
		u := []traj.Vector{op.Us[0][kk], op.Us[1][kk]}
		t := op.TimeAt(kk)
		x = rk4.Step(sys, x, u, t, op.Dt)
		op.Xs[kk+1] = x.Clone()
	}

	strategies := traj.Strategies{
		traj.NewStrategy(k, 1, 2),
		traj.NewStrategy(k, 1, 2),
	}
	// Nonzero P and feedforward alpha so that, were the line-search scalar
	// not zero, the feedforward term would push the rollout off op and P
	// would then act on the resulting error; at zero it must still
	// reproduce op exactly because the error term (x_k - xbar_k) is always
	// zero along the nominal trajectory.
	for kk := 0; kk < k; kk++ {
		strategies[0].Ps[kk].Set(0, 0, 5)
		strategies[1].Alphas[kk].SetVec(0, 3)
	}

	roller := NewRoller(sys)
	got, err := roller.Rollout(op, strategies, op.Xs[0], 0)
	if err != nil {
		t.Fatalf("Rollout: %v", err)
	}

	for kk := 0; kk <= k; kk++ {
		for d := 0; d < 2; d++ {
			if math.Abs(got.Xs[kk][d]-op.Xs[kk][d]) > 1e-9 {
				t.Errorf("state mismatch at step %d dim %d: got %v want %v", kk, d, got.Xs[kk][d], op.Xs[kk][d])
			}
		}
	}
}

func TestRolloutDetectsDivergence(t *testing.T) {
	sys := dynamics.NewPointMass()
	k := 3
	op := traj.NewOperatingPoint(0, 0.1, k, 2, []int{1, 1})
	strategies := traj.Strategies{
		traj.NewStrategy(k, 1, 2),
		traj.NewStrategy(k, 1, 2),
	}
	for kk := 0; kk < k; kk++ {
		strategies[0].Alphas[kk].SetVec(0, math.Inf(1))
	}

	roller := NewRoller(sys)
	_, err := roller.Rollout(op, strategies, op.Xs[0], 1)
	if err == nil {
		t.Fatal("expected RolloutDiverged error")
	}
}
