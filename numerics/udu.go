package numerics

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
	"gonum.org/v1/gonum/mat"
)

// UDUFactors holds the Bunch-Kaufman symmetric-indefinite factorization of a
// small matrix M, used by the evecs'*K^-1*evecs skew-projector of spec.md
// §4.3. The packed U and D factors are stored in a copy of M (the caller's
// matrix is left unchanged), mirroring
// the original's Num_dsytrf_dprimme (spec grounding: original_source
// numerical_d.c).
type UDUFactors struct {
	n    int
	a    blas64.Symmetric
	ipiv []int
}

// Factorize computes the UDU^T factorization of the symmetric matrix m. It
// reports ok=false when the factorization detects exact singularity; the
// caller (computeSkewProjectorFactors in the primme package) disables the
// skew projector for that step rather than
// failing the solve (spec.md §4.3).
func Factorize(m *mat.SymDense) (f *UDUFactors, ok bool) {
	n := m.Symmetric()
	a := blas64.Symmetric{N: n, Uplo: blas.Upper, Stride: n, Data: make([]float64, n*n)}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			a.Data[i*n+j] = m.At(i, j)
		}
	}

	ipiv := make([]int, n)
	work := []float64{0}
	lapack64.Sytrf(a, ipiv, work, -1)
	work = make([]float64, int(work[0]))
	ok = lapack64.Sytrf(a, ipiv, work, len(work))
	if !ok {
		return nil, false
	}
	return &UDUFactors{n: n, a: a, ipiv: ipiv}, true
}

// Solve overwrites b (n x nrhs, column-major via mat.Dense) with the
// solution of M*x = b using the cached factorization.
func (f *UDUFactors) Solve(b *mat.Dense) error {
	ok := lapack64.Sytrs(f.a, b.RawMatrix(), f.ipiv)
	if !ok {
		return errors.New("numerics: UDU solve: singular factor")
	}
	return nil
}

// SolveVec solves M*x = b for a single right-hand side.
func (f *UDUFactors) SolveVec(b []float64) ([]float64, error) {
	rhs := mat.NewDense(f.n, 1, append([]float64(nil), b...))
	if err := f.Solve(rhs); err != nil {
		return nil, err
	}
	return rhs.RawMatrix().Data, nil
}
