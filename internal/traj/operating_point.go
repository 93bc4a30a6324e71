package traj

// OperatingPoint is the nominal (xbar_k, ubar_k^i) trajectory around which
// dynamics are linearized and costs are quadraticized. Xs has length K+1
// (xbar_0 .. xbar_K); Us[i] has length K (ubar_0^i .. ubar_{K-1}^i).
type OperatingPoint struct {
	T0 float64
	Dt float64
	Xs []Vector
	Us [][]Vector // Us[player][k]
}

// NewOperatingPoint preallocates a zero trajectory of K steps for a
// problem with state dimension n and the given per-player control
// dimensions.
func NewOperatingPoint(t0, dt float64, k, n int, uDims []int) *OperatingPoint {
	op := &OperatingPoint{
		T0: t0,
		Dt: dt,
		Xs: make([]Vector, k+1),
		Us: make([][]Vector, len(uDims)),
	}
	for step := 0; step <= k; step++ {
		op.Xs[step] = make(Vector, n)
	}
	for i, uDim := range uDims {
		op.Us[i] = make([]Vector, k)
		for step := 0; step < k; step++ {
			op.Us[i][step] = make(Vector, uDim)
		}
	}
	return op
}

// NumSteps returns K, the number of control steps (one less than len(Xs)).
func (op *OperatingPoint) NumSteps() int {
	if len(op.Xs) == 0 {
		return 0
	}
	return len(op.Xs) - 1
}

func (op *OperatingPoint) NumPlayers() int { return len(op.Us) }

// TimeAt returns t0 + k*dt, the time stamp of step k.
func (op *OperatingPoint) TimeAt(k int) float64 {
	return op.T0 + float64(k)*op.Dt
}

func (op *OperatingPoint) Clone() *OperatingPoint {
	out := &OperatingPoint{
		T0: op.T0,
		Dt: op.Dt,
		Xs: make([]Vector, len(op.Xs)),
		Us: make([][]Vector, len(op.Us)),
	}
	for i, x := range op.Xs {
		out.Xs[i] = x.Clone()
	}
	for i, us := range op.Us {
		out.Us[i] = make([]Vector, len(us))
		for k, u := range us {
			out.Us[i][k] = u.Clone()
		}
	}
	return out
}

// InterpolateState returns xbar at time t, exact at grid points and
// linearly interpolated between them; it clamps to the trajectory's
// endpoints outside [T0, T0+K*Dt].
func (op *OperatingPoint) InterpolateState(t float64) Vector {
	k := op.NumSteps()
	if k == 0 {
		return op.Xs[0].Clone()
	}
	frac := (t - op.T0) / op.Dt
	if frac <= 0 {
		return op.Xs[0].Clone()
	}
	if frac >= float64(k) {
		return op.Xs[k].Clone()
	}
	lo := int(frac)
	hi := lo + 1
	w := frac - float64(lo)
	out := make(Vector, len(op.Xs[lo]))
	for i := range out {
		out[i] = op.Xs[lo][i]*(1-w) + op.Xs[hi][i]*w
	}
	return out
}

// InterpolateControl returns ubar^i at time t using the same convention
// as InterpolateState, except controls are held piecewise-constant on
// [t_k, t_{k+1}) since they are defined only at the K step indices.
func (op *OperatingPoint) InterpolateControl(t float64, player int) Vector {
	k := op.NumSteps()
	us := op.Us[player]
	if k == 0 || len(us) == 0 {
		return Vector{}
	}
	frac := (t - op.T0) / op.Dt
	idx := int(frac)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(us) {
		idx = len(us) - 1
	}
	return us[idx].Clone()
}
