package numerics

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// SVD computes the thin singular value decomposition a = u*diag(s)*v^T,
// used by the refined extraction of spec.md §4.5 (SVD of R).
func SVD(a *mat.Dense) (u, v *mat.Dense, s []float64, err error) {
	var svd mat.SVD
	ok := svd.Factorize(a, mat.SVDThin)
	if !ok {
		return nil, nil, nil, errors.New("numerics: SVD: factorization failed to converge")
	}
	s = svd.Values(nil)
	u = &mat.Dense{}
	v = &mat.Dense{}
	svd.UTo(u)
	svd.VTo(v)
	return u, v, s, nil
}

// QR computes the QR factorization a = q*r, q the square orthonormal factor
// (rows x rows) and r upper trapezoidal (rows x cols). updateQ does not call
// it; it extends Q with orthogonalizeBlock instead.
func QR(a *mat.Dense) (q, r *mat.Dense, err error) {
	var qr mat.QR
	qr.Factorize(a)
	q = &mat.Dense{}
	r = &mat.Dense{}
	qr.QTo(q)
	qr.RTo(r)
	return q, r, nil
}
