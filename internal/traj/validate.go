package traj

import "github.com/san-kum/ilqgame/internal/errs"

// ValidateShapes checks that an OperatingPoint and a per-player Strategies
// list are internally consistent for a problem of state dimension n, per-
// player control dimensions uDims, and horizon k. Violations are
// programmer errors (contract bugs, per the core's error taxonomy) and
// are reported as ShapeMismatchError.
func ValidateShapes(op *OperatingPoint, strategies Strategies, n int, uDims []int, k int) error {
	if op.NumSteps() != k {
		return &errs.ShapeMismatchError{Context: "operating point horizon", Expected: k, Got: op.NumSteps()}
	}
	for _, x := range op.Xs {
		if len(x) != n {
			return &errs.ShapeMismatchError{Context: "operating point state", Expected: n, Got: len(x)}
		}
	}
	if len(uDims) != len(strategies) || len(uDims) != len(op.Us) {
		return &errs.ShapeMismatchError{Context: "player count", Expected: len(uDims), Got: len(strategies)}
	}
	for i, uDim := range uDims {
		if len(op.Us[i]) != k {
			return &errs.ShapeMismatchError{Context: "operating point controls", Expected: k, Got: len(op.Us[i])}
		}
		for _, u := range op.Us[i] {
			if len(u) != uDim {
				return &errs.ShapeMismatchError{Context: "operating point control dim", Expected: uDim, Got: len(u)}
			}
		}
		s := strategies[i]
		if s.Len() != k {
			return &errs.ShapeMismatchError{Context: "strategy horizon", Expected: k, Got: s.Len()}
		}
		for step := 0; step < k; step++ {
			pr, pc := s.Ps[step].Dims()
			if pr != uDim || pc != n {
				return &errs.ShapeMismatchError{Context: "strategy gain shape", Expected: uDim * n, Got: pr * pc}
			}
			if s.Alphas[step].Len() != uDim {
				return &errs.ShapeMismatchError{Context: "strategy offset shape", Expected: uDim, Got: s.Alphas[step].Len()}
			}
		}
	}
	return nil
}
