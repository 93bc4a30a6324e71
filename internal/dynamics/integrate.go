package dynamics

import (
	"math"

	"github.com/san-kum/ilqgame/internal/traj"
)

// FeedbackControl evaluates the affine error-feedback law for every
// player at operating-point step k:
//
//	u_k^i = ubar_k^i - P_{i,k} (x_k - xbar_k) - lsAlpha * alpha_{i,k}
func FeedbackControl(op *traj.OperatingPoint, strategies traj.Strategies, k int, x traj.Vector, lsAlpha float64) []traj.Vector {
	xbar := op.Xs[k]
	dx := make([]float64, len(x))
	for i := range x {
		dx[i] = x[i] - xbar[i]
	}

	us := make([]traj.Vector, len(strategies))
	for i, s := range strategies {
		p := s.Ps[k]
		alpha := s.Alphas[k]
		uDim, n := p.Dims()
		u := make(traj.Vector, uDim)
		for r := 0; r < uDim; r++ {
			sum := 0.0
			for c := 0; c < n; c++ {
				sum += p.At(r, c) * dx[c]
			}
			u[r] = op.Us[i][k][r] - sum - lsAlpha*alpha.AtVec(r)
		}
		us[i] = u
	}
	return us
}

// IntegrateUnderFeedback advances x0 from t0 to t1, stepping by the
// operating point's grid spacing (or a single smaller sub-step for the
// remainder) and re-deriving the feedback control at each grid index.
// This is the default behavior spec §6 asks every Dynamics.Integrate
// implementation to provide; concrete systems call it directly.
func IntegrateUnderFeedback(sys System, rk4 *RK4, t0, t1 float64, x0 traj.Vector, op *traj.OperatingPoint, strategies traj.Strategies) traj.Vector {
	x := x0.Clone()
	t := t0
	dt := op.Dt
	const tol = 1e-9

	for t1-t > tol {
		step := dt
		if t+step > t1 {
			step = t1 - t
		}

		k := int(math.Round((t - op.T0) / op.Dt))
		if k < 0 {
			k = 0
		}
		if k >= op.NumSteps() {
			k = op.NumSteps() - 1
		}

		u := FeedbackControl(op, strategies, k, x, 1.0)
		x = rk4.Step(sys, x, u, t, step)
		t += step
	}
	return x
}
