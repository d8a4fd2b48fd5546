package primme

import (
	"math"

	"github.com/fumin/primme/numerics"
)

// correctionResult is the outcome of solving the correction equation for
// one candidate pair (spec.md §4.8).
type correctionResult struct {
	t []float64
}

// correction solves, approximately, the Jacobi-Davidson correction equation
// (I-xx^T)(A-theta*I)(I-xx^T)*t = -r, t orthogonal to x, for candidate
// iev[blockIdx]. It dispatches on whether JDQMR is enabled (any projector
// set) or the simpler GD+k (generalized Davidson) recipe applies.
func (s *state) correction(blockIdx int, outerResNorm float64) (correctionResult, error) {
	j := s.iev[blockIdx]
	theta := s.hVals[j]
	x := s.ritzVector(j)
	r := make([]float64, s.n)
	{
		ax := make([]float64, s.n)
		c := numerics.ColView(s.hVecs, j)
		for i := 0; i < s.n; i++ {
			var axi float64
			for k := 0; k < s.m; k++ {
				axi += s.w.At(i, k) * c[k]
			}
			ax[i] = axi
		}
		numerics.ComputeResidual(theta, x, ax, r)
	}

	proj := s.p.CorrectionParams.Projectors
	usesJDQMR := proj.LeftQ || proj.LeftX || proj.RightQ || proj.RightX || proj.SkewQ || proj.SkewX

	var t []float64
	var err error
	if usesJDQMR {
		t, err = s.jdqmr(theta, x, r, outerResNorm)
	} else {
		t, err = s.gdPlusK(r)
	}
	if err != nil {
		return correctionResult{}, err
	}

	// Final projection: t must be orthogonal to x (spec.md §4.8).
	c, err := reducedDot(s.p, x, t)
	if err != nil {
		return correctionResult{}, err
	}
	numerics.Axpy(-c, x, t)
	return correctionResult{t: t}, nil
}

// gdPlusK is the generalized-Davidson recipe: t = K*(-r), or t = -r when no
// preconditioner is configured (spec.md §4.8).
func (s *state) gdPlusK(r []float64) ([]float64, error) {
	neg := make([]float64, s.n)
	for i := range r {
		neg[i] = -r[i]
	}
	if !s.p.CorrectionParams.Precondition || s.p.ApplyPreconditioner == nil {
		return neg, nil
	}
	t := make([]float64, s.n)
	if err := s.p.ApplyPreconditioner(neg, t, 1); err != nil {
		return nil, callbackFailuref("applyPreconditioner: %v", err)
	}
	s.p.Stats.NumPreconds++
	return t, nil
}

// jdqmr solves the projected correction equation by a preconditioned
// conjugate-gradient-style Lanczos iteration on the symmetric projected
// operator (I-xx^T)(A-theta*I)(I-xx^T), preconditioned by K when available
// (spec.md §4.8). The inner tolerance is dynamic: iteration stops when the
// inner residual drops below the policy tolerance (RelTolBase, scaled by
// ConvTest), when a step fails to reduce the residual (adaptive_ETolerance
// stagnation), or after MaxInnerIterations. On stagnation it returns the
// best iterate so far; on NaN, a zero pivot or a preconditioner failure it
// falls back to GD+k, while a matvec or reduction failure is returned as an
// error (spec.md §4.8).
func (s *state) jdqmr(theta float64, x, r []float64, outerResNorm float64) ([]float64, error) {
	n := s.n
	t := make([]float64, n) // iterate, t0 = 0
	negResid := make([]float64, n)
	for i := range r {
		negResid[i] = -r[i]
	}

	innerTol := s.innerTolerance(outerResNorm)
	maxIter := s.p.CorrectionParams.MaxInnerIterations
	if maxIter <= 0 {
		maxIter = 10
	}

	proj := s.p.CorrectionParams.Projectors
	applyA := func(v []float64) ([]float64, error) {
		av := make([]float64, n)
		if err := s.p.MatrixMatvec(v, av, 1); err != nil {
			return nil, callbackFailuref("matrixMatvec: %v", err)
		}
		s.p.Stats.NumMatvecs++
		for i := range av {
			av[i] -= theta * v[i]
		}
		if proj.RightX || proj.LeftX {
			c, err := reducedDot(s.p, x, av)
			if err != nil {
				return nil, err
			}
			numerics.Axpy(-c, x, av)
		}
		if (proj.SkewQ || proj.SkewX) && s.skewOK {
			k := s.p.NumOrthoConst + s.numLocked
			if err := applySkewProjector(s.p, s.evecs, s.skewEvecsHat, s.skewFactors, k, av); err != nil {
				return nil, err
			}
		}
		return av, nil
	}

	precond := func(v []float64) ([]float64, error) {
		if !s.p.CorrectionParams.Precondition || s.p.ApplyPreconditioner == nil {
			return append([]float64(nil), v...), nil
		}
		out := make([]float64, n)
		if err := s.p.ApplyPreconditioner(v, out, 1); err != nil {
			return nil, callbackFailuref("applyPreconditioner: %v", err)
		}
		s.p.Stats.NumPreconds++
		return out, nil
	}

	bestT := append([]float64(nil), t...)
	bestNorm, err := reducedNorm(s.p, negResid)
	if err != nil {
		return nil, err
	}
	prevNorm := bestNorm

	zPrev, err := precond(negResid)
	if err != nil {
		return s.gdPlusK(r)
	}
	p := append([]float64(nil), zPrev...)
	rho, err := reducedDot(s.p, negResid, zPrev)
	if err != nil {
		return s.gdPlusK(r)
	}

	iters := 0
	for it := 0; it < maxIter; it++ {
		iters = it + 1

		ap, err := applyA(p)
		if err != nil {
			return nil, err
		}
		pap, err := reducedDot(s.p, p, ap)
		if err != nil {
			return nil, err
		}
		if pap == 0 || math.IsNaN(pap) {
			s.p.Stats.NumInnerIterations += iters
			return s.gdPlusK(r)
		}
		alpha := rho / pap
		if math.IsNaN(alpha) || math.IsInf(alpha, 0) {
			s.p.Stats.NumInnerIterations += iters
			return s.gdPlusK(r)
		}

		for i := range t {
			t[i] += alpha * p[i]
			negResid[i] -= alpha * ap[i]
		}

		curNorm, err := reducedNorm(s.p, negResid)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(curNorm) {
			s.p.Stats.NumInnerIterations += iters
			return s.gdPlusK(r)
		}
		if curNorm < bestNorm {
			bestNorm = curNorm
			copy(bestT, t)
		}

		if curNorm < innerTol {
			break
		}
		if s.p.CorrectionParams.ConvTest == AdaptiveETolerance && curNorm > prevNorm {
			// Inner step failed to improve: stop and return best (spec.md §4.8).
			break
		}
		prevNorm = curNorm

		z, err := precond(negResid)
		if err != nil {
			s.p.Stats.NumInnerIterations += iters
			return s.gdPlusK(r)
		}
		rhoNew, err := reducedDot(s.p, negResid, z)
		if err != nil {
			return nil, err
		}
		if rho == 0 {
			break
		}
		beta := rhoNew / rho
		for i := range p {
			p[i] = z[i] + beta*p[i]
		}
		rho = rhoNew
	}

	s.p.Stats.NumInnerIterations += iters
	return bestT, nil
}

// innerTolerance implements the dynamic stopping tolerance policy of
// spec.md §4.8/§6 (CorrectionParams.ConvTest).
func (s *state) innerTolerance(outerResNorm float64) float64 {
	base := s.p.CorrectionParams.RelTolBase
	if base <= 0 {
		base = 0.1
	}
	switch s.p.CorrectionParams.ConvTest {
	case DecreasingLTolerance:
		return base * outerResNorm / float64(s.outerIter+1)
	case FullLTolerance:
		return s.p.Eps * s.estimatedLargestSingularValue()
	default: // AdaptiveETolerance, Adaptive
		return base * outerResNorm
	}
}
