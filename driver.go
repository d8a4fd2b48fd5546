package primme

import (
	"gonum.org/v1/gonum/mat"

	"github.com/fumin/primme/numerics"
)

// Solve runs the preconditioned iterative eigensolver (spec.md §2, §6). It
// fills evals[0:k], resNorms[0:k] and the corresponding columns of evecs
// (offset by Params.NumOrthoConst, which the caller must have already
// filled with any orthogonality constraints) with the k = Params.NumEvals
// converged pairs nearest Params.Target, or returns an error wrapping a
// *SolveError that describes why it could not.
//
// The iteration is the classical Davidson state machine: extend the basis
// by one block of correction vectors, re-orthogonalize, update the
// projected problem, extract Ritz pairs, check convergence, lock or
// restart, repeat (spec.md §2).
func Solve(p *Params, evals, resNorms []float64, evecs *mat.Dense) error {
	if err := p.validate(); err != nil {
		return err
	}
	if len(evals) < p.NumEvals || len(resNorms) < p.NumEvals {
		return invalidInputf("evals", "evals/resNorms must have length >= numEvals (%d)", p.NumEvals)
	}
	rows, cols := evecs.Dims()
	if rows != p.NLocal || cols < p.NumOrthoConst+p.NumEvals {
		return invalidInputf("evecs", "evecs must be nLocal x (numOrthoConst+numEvals)")
	}

	s := newState(p)
	// Copy caller-supplied orthogonality constraints into the lock set so
	// every extension and restart orthogonalizes against them too.
	for j := 0; j < p.NumOrthoConst; j++ {
		numerics.SetCol(s.evecs, j, numerics.ColView(evecs, j))
	}

	if err := s.initBasis(); err != nil {
		return p.trace("initBasis", -20, err)
	}

	for {
		s.outerIter++
		if p.MaxOuterIterations > 0 && s.outerIter > p.MaxOuterIterations {
			return p.trace("Solve", -30, convergenceAbortedf("reached maxOuterIterations (%d) with %d/%d pairs converged", p.MaxOuterIterations, s.convergedCount(), p.NumEvals))
		}
		if p.MaxMatvecs > 0 && p.Stats.NumMatvecs >= p.MaxMatvecs {
			return p.trace("Solve", -31, convergenceAbortedf("reached maxMatvecs (%d) with %d/%d pairs converged", p.MaxMatvecs, s.convergedCount(), p.NumEvals))
		}
		p.Stats.NumOuterIterations = s.outerIter

		if err := s.prepareCandidates(); err != nil {
			return p.trace("prepareCandidates", -21, err)
		}
		if err := s.classifyCandidates(); err != nil {
			return p.trace("classifyCandidates", -22, err)
		}

		if p.Locking {
			if _, err := s.lockConverged(); err != nil {
				return p.trace("lockConverged", -23, err)
			}
		}

		if s.convergedCount() >= p.NumEvals {
			break
		}

		if s.m+s.blockSize > p.MaxBasisSize {
			if err := s.restart(); err != nil {
				return p.trace("restart", -25, err)
			}
			// Downgrade check runs once per restart (spec.md §4.10):
			// restart truncates the subspace, which is the event that
			// can invalidate a previously-marked CONVERGED pair.
			for j := 0; j < s.m; j++ {
				s.downgradeIfNeeded(j, s.hVals[j])
			}
			// restart rebuilds hVals/hVecs for a shrunk basis: s.iev
			// indexes the pre-restart Ritz pairs and is now stale, so
			// go around and re-select candidates before extending.
			continue
		}

		if err := s.extendBlock(); err != nil {
			return p.trace("extendBlock", -24, err)
		}
	}

	s.harvestConverged()
	s.finalize(evals, resNorms, evecs)
	for j := 0; j < p.NumOrthoConst; j++ {
		numerics.SetCol(evecs, j, numerics.ColView(s.evecs, j))
	}
	return nil
}

// initBasis seeds V with InitSize LARNV-style random vectors (blockSize
// vectors when InitSize is not positive, at most MaxBasisSize), orthogonal
// to the orthogonality constraints; the caller's evecs columns are not used
// as initial guesses. It then computes W=A*V and the initial projection
// (spec.md §3 Lifecycle, §4.1).
func (s *state) initBasis() error {
	init := s.p.InitSize
	if init <= 0 {
		init = s.blockSize
	}
	if init > s.p.MaxBasisSize {
		init = s.p.MaxBasisSize
	}

	for j := 0; j < init; j++ {
		v := numerics.ColView(s.v, j)
		numerics.Larnv(&s.iseed, v)
		numerics.SetCol(s.v, j, v)
	}
	if err := orthogonalizeBlock(s.p, s.v, 0, init, s.evecs, s.p.NumOrthoConst, &s.iseed); err != nil {
		return err
	}

	for j := 0; j < init; j++ {
		v := numerics.ColView(s.v, j)
		w := make([]float64, s.n)
		if err := s.p.MatrixMatvec(v, w, 1); err != nil {
			return callbackFailuref("matrixMatvec: %v", err)
		}
		s.p.Stats.NumMatvecs++
		numerics.SetCol(s.w, j, w)
	}
	s.m = init

	if err := s.updateProjection(0, s.m); err != nil {
		return err
	}

	if s.aNorm == 0 {
		diag := make([]float64, s.m)
		offSum := make([]float64, s.m)
		for i := 0; i < s.m; i++ {
			diag[i] = s.h.At(i, i)
			var sum float64
			for j := 0; j < s.m; j++ {
				if j != i {
					sum += absDiff(s.h.At(i, j), 0)
				}
			}
			offSum[i] = sum
		}
		s.aNorm = numerics.GershgorinBound(diag, offSum)
		if s.aNorm == 0 {
			s.aNorm = 1
		}
	}

	if s.q != nil {
		var tau float64
		if len(s.p.TargetShifts) > 0 {
			tau = s.p.TargetShifts[0]
		}
		if err := s.updateQ(0, s.m, tau); err != nil {
			return err
		}
	}
	s.refreshEstimateResidualError()
	return s.solveH()
}

// classifyCandidates assigns a flagState to every candidate chosen by
// prepareCandidates, via checkConvergence (spec.md §4.6). The Ritz value
// and residual norm are cached into markedEval/markedResNorm at the
// moment a candidate is first marked CONVERGED, for downgradeIfNeeded to
// compare against later.
func (s *state) classifyCandidates() error {
	for i, j := range s.iev {
		x := s.ritzVector(j)
		flag, err := s.checkConvergence(s.hVals[j], x, s.blockNorms[i])
		if err != nil {
			return err
		}
		s.flags[j] = flag
		if flag == converged {
			s.markedEval[j] = s.hVals[j]
			s.markedResNorm[j] = s.blockNorms[i]
		}
	}
	return nil
}

// convergedCount returns the number of pairs currently accounted
// converged: under hard locking the number of locked pairs, otherwise the
// number of CONVERGED pairs resident in V.
func (s *state) convergedCount() int {
	if s.p.Locking {
		return s.numLocked
	}
	n := 0
	for j := 0; j < s.m; j++ {
		if s.flags[j] == converged {
			n++
		}
	}
	return n
}

// extendBlock solves the correction equation for every unconverged
// candidate in s.iev and appends the resulting directions as new columns
// of V, then extends W, H (and Q/R/QV) and re-solves (spec.md §4.1, §4.4,
// §4.8).
func (s *state) extendBlock() error {
	outerNorm := 0.0
	for _, v := range s.blockNorms {
		if v > outerNorm {
			outerNorm = v
		}
	}

	proj := s.p.CorrectionParams.Projectors
	if proj.SkewQ || proj.SkewX {
		evecsHat, factors, ok, err := s.computeSkewProjectorFactors()
		if err != nil {
			return err
		}
		s.skewEvecsHat, s.skewFactors, s.skewOK = evecsHat, factors, ok
	}

	mPrev := s.m
	added := 0
	for i, j := range s.iev {
		if s.flags[j] == converged || s.flags[j] == practicallyConverged {
			continue
		}
		if mPrev+added >= s.p.MaxBasisSize {
			break
		}
		res, err := s.correction(i, outerNorm)
		if err != nil {
			return err
		}
		numerics.SetCol(s.v, mPrev+added, res.t)
		added++
	}
	if added == 0 {
		return nil
	}
	mNew := mPrev + added

	if err := orthogonalizeBlock(s.p, s.v, mPrev, mNew, s.evecs, s.p.NumOrthoConst+s.numLocked, &s.iseed); err != nil {
		return err
	}

	for j := mPrev; j < mNew; j++ {
		v := numerics.ColView(s.v, j)
		w := make([]float64, s.n)
		if err := s.p.MatrixMatvec(v, w, 1); err != nil {
			return callbackFailuref("matrixMatvec: %v", err)
		}
		s.p.Stats.NumMatvecs++
		numerics.SetCol(s.w, j, w)
	}
	s.m = mNew

	if err := s.updateProjection(mPrev, mNew); err != nil {
		return err
	}
	if s.q != nil {
		var tau float64
		if len(s.p.TargetShifts) > 0 {
			tau = s.p.TargetShifts[0]
		}
		if err := s.updateQ(mPrev, mNew, tau); err != nil {
			return err
		}
	}
	return s.solveH()
}

// harvestConverged is the soft-locking counterpart of lockConverged: it
// copies every currently-converged Ritz pair resident in V into
// evecs/evals/resNorms for finalize, without removing it from the working
// basis (spec.md §4.10: soft locking never shrinks V).
func (s *state) harvestConverged() {
	if s.p.Locking {
		return
	}
	for j := 0; j < s.m && s.numLocked < len(s.evals); j++ {
		if s.flags[j] != converged {
			continue
		}
		x := s.ritzVector(j)
		col := s.p.NumOrthoConst + s.numLocked
		numerics.SetCol(s.evecs, col, x)
		s.evals[s.numLocked] = s.hVals[j]
		s.resNorms[s.numLocked] = s.blockNormFor(j)
		s.numLocked++
	}
}
