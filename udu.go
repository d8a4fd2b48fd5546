package primme

import (
	"gonum.org/v1/gonum/mat"

	"github.com/fumin/primme/numerics"
)

// computeSkewProjectorFactors builds evecsHat = K*evecs (K applied through
// ApplyPreconditioner) and factorizes
// M = evecs^T*evecsHat, the small symmetric-indefinite system behind the
// skew projector (I-K*Q*(Q^T*K*Q)^-1*Q^T) of spec.md §4.3, §4.8. It reports
// ok=false (not an error) when the preconditioner is absent or the
// factorization is singular; callers disable the skew projector for that
// step rather than aborting the solve.
func (s *state) computeSkewProjectorFactors() (evecsHat *mat.Dense, factors *numerics.UDUFactors, ok bool, err error) {
	if s.p.ApplyPreconditioner == nil {
		return nil, nil, false, nil
	}
	k := s.p.NumOrthoConst + s.numLocked
	if k == 0 {
		return nil, nil, false, nil
	}

	evecsHat = mat.NewDense(s.n, k, nil)
	x := make([]float64, s.n*k)
	y := make([]float64, s.n*k)
	for j := 0; j < k; j++ {
		copy(x[j*s.n:(j+1)*s.n], numerics.ColView(s.evecs, j))
	}
	if err := s.p.ApplyPreconditioner(x, y, k); err != nil {
		return nil, nil, false, callbackFailuref("applyPreconditioner: %v", err)
	}
	for j := 0; j < k; j++ {
		numerics.SetCol(evecsHat, j, y[j*s.n:(j+1)*s.n])
	}

	m := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		ei := numerics.ColView(s.evecs, i)
		for j := i; j < k; j++ {
			hj := numerics.ColView(evecsHat, j)
			mij, err := reducedDot(s.p, ei, hj)
			if err != nil {
				return nil, nil, false, err
			}
			m.SetSym(i, j, mij)
		}
	}

	factors, facOK := numerics.Factorize(m)
	if !facOK {
		return evecsHat, nil, false, nil
	}
	return evecsHat, factors, true, nil
}

// applySkewProjector computes t <- (I - K*Q*M^-1*Q^T) * t in place, where Q
// is evecs[:,0:k], evecsHat = K*Q, and M = Q^T*K*Q is the factorization from
// computeSkewProjectorFactors. The Q^T*t inner products cross the whole
// vector, so they must go through reducedDot like every other cross-rank
// reduction in the package (spec.md §4.2, §5), not the local-only Dot.
func applySkewProjector(p *Params, evecs, evecsHat *mat.Dense, factors *numerics.UDUFactors, k int, t []float64) error {
	qt := make([]float64, k)
	for j := 0; j < k; j++ {
		d, err := reducedDot(p, numerics.ColView(evecs, j), t)
		if err != nil {
			return err
		}
		qt[j] = d
	}
	x, err := factors.SolveVec(qt)
	if err != nil {
		return numericalFailuref(-1, "skew projector solve: %v", err)
	}
	for j := 0; j < k; j++ {
		numerics.Axpy(-x[j], numerics.ColView(evecsHat, j), t)
	}
	return nil
}
