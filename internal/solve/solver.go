// Package solve implements the LQ feedback-game solver: the backward
// Riccati-style sweep of spec §4.1, the numerical heart of the core. It
// consumes per-step linear dynamics and per-step, per-player quadratic
// cost approximations and returns per-player feedback strategies.
package solve

import (
	"github.com/san-kum/ilqgame/internal/cost"
	"github.com/san-kum/ilqgame/internal/dynamics"
	"github.com/san-kum/ilqgame/internal/errs"
	"github.com/san-kum/ilqgame/internal/linalg"
	"github.com/san-kum/ilqgame/internal/traj"
	"gonum.org/v1/gonum/mat"
)

// Solver runs the backward sweep for a fixed problem geometry (player
// count, control dimensions, state dimension, horizon). The per-player
// value function (Z, zeta) and the block coupling matrices S and Y are
// allocated once at construction and reused across Solve calls; the
// propagation scratch (F, beta and the per-player products) is allocated
// afresh in each backward step.
type Solver struct {
	numPlayers int
	uDims      []int
	n          int
	k          int
	totalU     int
	offsets    []int

	qr *linalg.QRWorkspace

	z    []*mat.Dense
	zeta []*mat.VecDense

	s *mat.Dense
	y *mat.Dense
	x mat.Dense
}

// NewSolver preallocates a solver for N players with the given per-player
// control dimensions, state dimension n, and horizon K.
func NewSolver(uDims []int, n, k int) *Solver {
	numPlayers := len(uDims)
	offsets := make([]int, numPlayers)
	total := 0
	for i, ud := range uDims {
		offsets[i] = total
		total += ud
	}

	z := make([]*mat.Dense, numPlayers)
	zeta := make([]*mat.VecDense, numPlayers)
	for i := 0; i < numPlayers; i++ {
		z[i] = mat.NewDense(n, n, nil)
		zeta[i] = mat.NewVecDense(n, nil)
	}

	return &Solver{
		numPlayers: numPlayers,
		uDims:      uDims,
		n:          n,
		k:          k,
		totalU:     total,
		offsets:    offsets,
		qr:         linalg.NewQRWorkspace(),
		z:          z,
		zeta:       zeta,
		s:          mat.NewDense(total, total, nil),
		y:          mat.NewDense(total, n+1, nil),
	}
}

// Solve runs the backward sweep over linearizations[0..K-1] and
// quadraticCosts[0..K-1][0..N-1] (quadraticCosts[k][i] is player i's
// approximation at step k, referring to state x_{k+1} per spec §3), and
// returns the resulting per-player strategies.
func (sv *Solver) Solve(linearizations []*dynamics.Linearization, quadraticCosts [][]*cost.QuadraticCostApprox) (traj.Strategies, error) {
	k := sv.k
	strategies := make(traj.Strategies, sv.numPlayers)
	for i := range strategies {
		strategies[i] = traj.NewStrategy(k, sv.uDims[i], sv.n)
	}

	last := k - 1
	for i := 0; i < sv.numPlayers; i++ {
		qc := quadraticCosts[last][i]
		if err := sv.requireSelf(qc, i); err != nil {
			return nil, err
		}
		sv.z[i].Copy(qc.Q)
		sv.zeta[i].CopyVec(qc.L)
	}

	for kk := k - 2; kk >= 0; kk-- {
		if err := sv.stepBackward(kk, linearizations[kk], quadraticCosts[kk], strategies); err != nil {
			return nil, err
		}
	}

	return strategies, nil
}

func (sv *Solver) requireSelf(qc *cost.QuadraticCostApprox, i int) error {
	if _, ok := qc.Controls[i]; !ok {
		return &errs.ShapeMismatchError{Context: "missing self control-cost entry", Expected: i, Got: -1}
	}
	return nil
}

func setBlock(dst *mat.Dense, r0, c0 int, src mat.Matrix) {
	rows, cols := src.Dims()
	if rows == 0 || cols == 0 {
		return
	}
	view := dst.Slice(r0, r0+rows, c0, c0+cols).(*mat.Dense)
	view.Copy(src)
}

func (sv *Solver) stepBackward(kk int, lin *dynamics.Linearization, costs []*cost.QuadraticCostApprox, strategies traj.Strategies) error {
	n := sv.n
	zero(sv.s)
	zero(sv.y)

	var biZi mat.Dense // scratch: B_i^T Z_i, reused per player i

	for i := 0; i < sv.numPlayers; i++ {
		qc := costs[i]
		if err := sv.requireSelf(qc, i); err != nil {
			return err
		}
		bi := lin.B[i]
		uDim, _ := bi.Dims()
		_ = uDim

		biZi.Mul(bi.T(), sv.z[i])

		// Diagonal block S_ii = B_i^T Z_i B_i + R_ii.
		var sii mat.Dense
		sii.Mul(&biZi, bi)
		sii.Add(&sii, qc.Controls[i].R)
		setBlock(sv.s, sv.offsets[i], sv.offsets[i], &sii)

		// Off-diagonal blocks S_ij = B_i^T Z_i B_j.
		for j := 0; j < sv.numPlayers; j++ {
			if j == i {
				continue
			}
			var sij mat.Dense
			sij.Mul(&biZi, lin.B[j])
			setBlock(sv.s, sv.offsets[i], sv.offsets[j], &sij)
		}

		// Y row block: [B_i^T Z_i A_k | B_i^T zeta_i + r_ii].
		var biZA mat.Dense
		biZA.Mul(&biZi, lin.A)
		setBlock(sv.y, sv.offsets[i], 0, &biZA)

		var biZeta mat.VecDense
		biZeta.MulVec(bi.T(), sv.zeta[i])
		biZeta.AddVec(&biZeta, qc.Controls[i].Linear)
		setBlock(sv.y, sv.offsets[i], n, &biZeta)
	}

	if err := sv.qr.Solve(&sv.x, sv.s, sv.y); err != nil {
		if sce, ok := err.(*errs.SingularCouplingError); ok {
			sce.Step = kk
			return sce
		}
		return err
	}

	// Split X into per-player (P, alpha) and record the strategy — the
	// corrected ordering per spec §9's open question: split first, assign
	// second.
	for i, strat := range strategies {
		uDim := sv.uDims[i]
		off := sv.offsets[i]
		p := strat.Ps[kk]
		alpha := strat.Alphas[kk]
		for r := 0; r < uDim; r++ {
			for c := 0; c < n; c++ {
				p.Set(r, c, sv.x.At(off+r, c))
			}
			alpha.SetVec(r, sv.x.At(off+r, n))
		}
	}

	// Propagate value functions: F = A_k - sum_i B_i P_{i,k}; beta = -sum_i B_i alpha_{i,k}.
	f := mat.NewDense(n, n, nil)
	f.Copy(lin.A)
	beta := mat.NewVecDense(n, nil)
	for i, strat := range strategies {
		var bp mat.Dense
		bp.Mul(lin.B[i], strat.Ps[kk])
		f.Sub(f, &bp)

		var ba mat.VecDense
		ba.MulVec(lin.B[i], strat.Alphas[kk])
		beta.SubVec(beta, &ba)
	}

	for i := 0; i < sv.numPlayers; i++ {
		qc := costs[i]

		var zBeta mat.VecDense
		zBeta.MulVec(sv.z[i], beta)
		zBeta.AddVec(&zBeta, sv.zeta[i])

		var newZeta mat.VecDense
		newZeta.MulVec(f.T(), &zBeta)
		newZeta.AddVec(&newZeta, qc.L)

		var newZ mat.Dense
		var fz mat.Dense
		fz.Mul(f.T(), sv.z[i])
		newZ.Mul(&fz, f)
		newZ.Add(&newZ, qc.Q)

		for j, term := range qc.Controls {
			pj := strategies[j].Ps[kk]
			alphaj := strategies[j].Alphas[kk]

			var rAlpha mat.VecDense
			rAlpha.MulVec(term.R, alphaj)
			rAlpha.SubVec(&rAlpha, term.Linear)

			var pjtRAlpha mat.VecDense
			pjtRAlpha.MulVec(pj.T(), &rAlpha)
			newZeta.AddVec(&newZeta, &pjtRAlpha)

			var pjtR mat.Dense
			pjtR.Mul(pj.T(), term.R)
			var pjtRpj mat.Dense
			pjtRpj.Mul(&pjtR, pj)
			newZ.Add(&newZ, &pjtRpj)
		}

		sv.zeta[i].CopyVec(&newZeta)
		sv.z[i].Copy(&newZ)
	}

	return nil
}

func zero(d *mat.Dense) {
	r, c := d.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			d.Set(i, j, 0)
		}
	}
}
