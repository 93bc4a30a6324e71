package traj

import "gonum.org/v1/gonum/mat"

// Strategy is one player's length-K sequence of affine error-feedback
// laws (P_k, alpha_k), applied as
//
//	u_k = ubar_k - P_k (x_k - xbar_k) - alpha_k
//
// around an OperatingPoint. All P_k share the same u_i x n shape; all
// alpha_k share the same u_i shape.
type Strategy struct {
	Ps     []*mat.Dense
	Alphas []*mat.VecDense
}

// NewStrategy preallocates a zero strategy of length k for a player with
// control dimension uDim over a state of dimension n. Steps are
// preallocated once, matching the "workspace buffers allocated at
// construction" discipline the LQ solver also follows.
func NewStrategy(k, uDim, n int) *Strategy {
	s := &Strategy{
		Ps:     make([]*mat.Dense, k),
		Alphas: make([]*mat.VecDense, k),
	}
	for i := 0; i < k; i++ {
		s.Ps[i] = mat.NewDense(uDim, n, nil)
		s.Alphas[i] = mat.NewVecDense(uDim, nil)
	}
	return s
}

func (s *Strategy) Len() int { return len(s.Ps) }

func (s *Strategy) Clone() *Strategy {
	out := &Strategy{
		Ps:     make([]*mat.Dense, len(s.Ps)),
		Alphas: make([]*mat.VecDense, len(s.Alphas)),
	}
	for i, p := range s.Ps {
		var c mat.Dense
		c.CloneFrom(p)
		out.Ps[i] = &c
	}
	for i, a := range s.Alphas {
		c := mat.NewVecDense(a.Len(), nil)
		c.CopyVec(a)
		out.Alphas[i] = c
	}
	return out
}

// Strategies is one Strategy per player, ordered by ascending player index.
type Strategies []*Strategy

func (ss Strategies) Clone() Strategies {
	out := make(Strategies, len(ss))
	for i, s := range ss {
		out[i] = s.Clone()
	}
	return out
}
