package primme

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/fumin/primme/numerics"
)

// maxOrthoRestarts bounds the random-replacement retries of spec.md §4.2.
const maxOrthoRestarts = 3

// orthogonalizeBlock orthogonalizes columns [b1,b2) of basis against the
// external locked matrix (its first lockedCols columns) and against
// basis[:,0:b1], then against each other within the block as columns are
// processed left to right (spec.md §4.2). It implements iterated classical
// Gram-Schmidt: one pass, a second pass when the norm drops below half of
// its value before projection, and replacement
// by a fresh random vector (cap maxOrthoRestarts) on terminal collapse. On
// terminal failure of a single column it leaves that column as the best
// available random vector and returns nil: the caller continues with a
// reduced effective basis rather than aborting the solve (spec.md §4.2, §7).
func orthogonalizeBlock(p *Params, basis *mat.Dense, b1, b2 int, locked *mat.Dense, lockedCols int, iseed *[4]int) error {
	for j := b1; j < b2; j++ {
		v := numerics.ColView(basis, j)
		restarts := 0

	retry:
		preNorm, err := reducedNorm(p, v)
		if err != nil {
			return err
		}
		if err := cgsPass(p, basis, j, locked, lockedCols, v); err != nil {
			return err
		}
		postNorm, err := reducedNorm(p, v)
		if err != nil {
			return err
		}
		if postNorm < 0.5*preNorm {
			if err := cgsPass(p, basis, j, locked, lockedCols, v); err != nil {
				return err
			}
			postNorm, err = reducedNorm(p, v)
			if err != nil {
				return err
			}
		}

		if postNorm < machineEps*max(preNorm, 1) {
			if restarts >= maxOrthoRestarts {
				// Terminal stagnation: keep the best iterate and let
				// the caller shrink its effective basis (spec.md §7).
				numerics.SetCol(basis, j, v)
				return nil
			}
			restarts++
			numerics.Larnv(iseed, v)
			goto retry
		}

		numerics.Scal(1/postNorm, v)
		numerics.SetCol(basis, j, v)
	}
	return nil
}

// cgsPass subtracts from v its projection onto locked[:,0:lockedCols] and
// basis[:,0:col], reducing local dot products through GlobalSumDouble
// exactly once per vector projected against (spec.md §4.2, §5).
func cgsPass(p *Params, basis *mat.Dense, col int, locked *mat.Dense, lockedCols int, v []float64) error {
	if locked != nil {
		for k := 0; k < lockedCols; k++ {
			u := numerics.ColView(locked, k)
			c, err := reducedDot(p, u, v)
			if err != nil {
				return err
			}
			numerics.Axpy(-c, u, v)
		}
	}
	for k := 0; k < col; k++ {
		u := numerics.ColView(basis, k)
		c, err := reducedDot(p, u, v)
		if err != nil {
			return err
		}
		numerics.Axpy(-c, u, v)
	}
	return nil
}

// reducedDot computes the globally-summed inner product <u,v>.
func reducedDot(p *Params, u, v []float64) (float64, error) {
	local := numerics.Dot(u, v)
	out := make([]float64, 1)
	if err := p.GlobalSumDouble([]float64{local}, out, 1); err != nil {
		return 0, callbackFailuref("globalSumDouble: %v", err)
	}
	return out[0], nil
}

// reducedNorm computes the globally-summed Euclidean norm of v.
func reducedNorm(p *Params, v []float64) (float64, error) {
	local := numerics.Dot(v, v)
	out := make([]float64, 1)
	if err := p.GlobalSumDouble([]float64{local}, out, 1); err != nil {
		return 0, callbackFailuref("globalSumDouble: %v", err)
	}
	return math.Sqrt(out[0]), nil
}
