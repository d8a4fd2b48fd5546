package primme

import (
	"gonum.org/v1/gonum/mat"

	"github.com/fumin/primme/numerics"
)

// lockConverged moves every CONVERGED candidate pair out of the working
// basis into the locked set evecs/evals/resNorms, in the order they
// converged (spec.md §4.10). It is only invoked when Params.Locking is set;
// soft locking (the default) instead leaves converged pairs in V and relies
// on downgradeIfNeeded to recheck them after every restart.
//
// A pair moved here is hard-locked: compactBasis removes its column from V
// immediately, so it can never again reach downgradeIfNeeded (spec.md §9
// Open Question (a) — hard-locked pairs are never revisited).
func (s *state) lockConverged() (int, error) {
	locked := 0
	keep := make([]int, 0, s.m)
	for j := 0; j < s.m; j++ {
		if s.flags[j] != converged || s.numLocked >= len(s.evals) {
			keep = append(keep, j)
			continue
		}

		x := s.ritzVector(j)
		col := s.p.NumOrthoConst + s.numLocked
		if err := orthogonalizeAgainstLocked(s.p, s.evecs, col, x, &s.iseed); err != nil {
			return 0, err
		}
		numerics.SetCol(s.evecs, col, x)
		s.evals[s.numLocked] = s.hVals[j]
		s.resNorms[s.numLocked] = s.blockNormFor(j)
		s.numLocked++
		locked++
	}

	if locked == 0 {
		return 0, nil
	}
	if err := s.compactBasis(keep); err != nil {
		return 0, err
	}
	s.p.Stats.NumLocked += locked
	return locked, nil
}

// blockNormFor returns the last computed residual norm for hVals index j,
// falling back to a fresh computation if j was not part of the current
// candidate block.
func (s *state) blockNormFor(j int) float64 {
	for i, idx := range s.iev {
		if idx == j {
			return s.blockNorms[i]
		}
	}
	x := s.ritzVector(j)
	ax := make([]float64, s.n)
	c := numerics.ColView(s.hVecs, j)
	for i := 0; i < s.n; i++ {
		var axi float64
		for k := 0; k < s.m; k++ {
			axi += s.w.At(i, k) * c[k]
		}
		ax[i] = axi
	}
	r := make([]float64, s.n)
	numerics.ComputeResidual(s.hVals[j], x, ax, r)
	n, _ := reducedNorm(s.p, r)
	return n
}

// orthogonalizeAgainstLocked re-orthogonalizes x against the already-locked
// columns of evecs[:,0:col) with one classical Gram-Schmidt pass (reduced
// through reducedDot/reducedNorm like orthogonalize.go), replacing x by a
// random vector if it collapses, so locked eigenvectors stay mutually orthonormal
// (spec.md §4.10: "orthogonality enforcement against locked set at every
// extension").
func orthogonalizeAgainstLocked(p *Params, evecs *mat.Dense, col int, x []float64, iseed *[4]int) error {
	for k := 0; k < col; k++ {
		u := numerics.ColView(evecs, k)
		c, err := reducedDot(p, u, x)
		if err != nil {
			return err
		}
		numerics.Axpy(-c, u, x)
	}
	norm, err := reducedNorm(p, x)
	if err != nil {
		return err
	}
	if norm < machineEps {
		numerics.Larnv(iseed, x)
		return orthogonalizeAgainstLocked(p, evecs, col, x, iseed)
	}
	numerics.Scal(1/norm, x)
	return nil
}

// compactBasis rebuilds V, W, H, hVals, hVecs and flags keeping only the
// columns in keep (in order), shrinking the effective basis size after
// locking removes columns (spec.md §4.10).
func (s *state) compactBasis(keep []int) error {
	newM := len(keep)
	for newJ, oldJ := range keep {
		if newJ == oldJ {
			continue
		}
		numerics.SetCol(s.v, newJ, numerics.ColView(s.v, oldJ))
		numerics.SetCol(s.w, newJ, numerics.ColView(s.w, oldJ))
		s.flags[newJ] = s.flags[oldJ]
		s.markedEval[newJ] = s.markedEval[oldJ]
		s.markedResNorm[newJ] = s.markedResNorm[oldJ]
	}
	s.m = newM
	// H must be rebuilt, not merely relabeled: recompute the retained
	// block in place since V/W columns were permuted above.
	for j := 0; j < newM; j++ {
		wj := numerics.ColView(s.w, j)
		for i := 0; i <= j; i++ {
			vi := numerics.ColView(s.v, i)
			hij, err := reducedDot(s.p, vi, wj)
			if err != nil {
				return err
			}
			s.h.SetSym(i, j, hij)
		}
	}
	if s.q != nil {
		tau := s.p.TargetShifts
		var shift float64
		if len(tau) > 0 {
			shift = tau[0]
		}
		// Columns were permuted, not merely extended: rebuild Q/R/QV
		// from scratch against the compacted V/W, same as restart().
		if err := s.updateQ(0, newM, shift); err != nil {
			return err
		}
	}
	return s.solveH()
}

// finalize sorts the locked/soft-converged eigenpairs into targetOrder and
// copies them into the caller-supplied output slices (spec.md §6: "Solve
// returns the k requested eigenpairs").
func (s *state) finalize(outEvals, outResNorms []float64, outEvecs *mat.Dense) {
	order := targetOrder(s.evals[:s.numLocked], s.p.Target, s.p.TargetShifts)
	for i, j := range order {
		if i >= len(outEvals) {
			break
		}
		outEvals[i] = s.evals[j]
		outResNorms[i] = s.resNorms[j]
		numerics.SetCol(outEvecs, s.p.NumOrthoConst+i, numerics.ColView(s.evecs, s.p.NumOrthoConst+j))
	}
}
