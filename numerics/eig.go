package numerics

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// EigSym computes the full symmetric eigendecomposition of a (ascending
// eigenvalues), the Rayleigh-Ritz extraction kernel of spec.md §4.5. It
// fails with a NumericalError-shaped error when the underlying LAPACK call
// reports a non-zero info, propagated by gonum as Factorize returning false.
func EigSym(a *mat.SymDense) (vals []float64, vecs *mat.Dense, err error) {
	var eig mat.EigenSym
	ok := eig.Factorize(a, true)
	if !ok {
		return nil, nil, errors.New("numerics: EigSym: symmetric eigendecomposition failed to converge")
	}
	vals = eig.Values(nil)
	n := a.Symmetric()
	vecs = mat.NewDense(n, n, nil)
	vecs.EigenvectorsSym(&eig)
	return vals, vecs, nil
}
