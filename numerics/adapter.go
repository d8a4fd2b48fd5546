// Package numerics is a thin semantic layer over dense linear algebra,
// wrapping gonum's mat/blas64/lapack64 packages the way the teacher repo
// wraps gonum directly in exactdiag/mat.COO.Eigen: callers never import
// gonum/blas or gonum/lapack themselves.
package numerics

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

// Gemm computes c <- alpha*a*b + beta*c.
func Gemm(alpha float64, a, b *mat.Dense, beta float64, c *mat.Dense) {
	blas64.Gemm(blas.NoTrans, blas.NoTrans, alpha, a.RawMatrix(), b.RawMatrix(), beta, c.RawMatrix())
}

// GemmTrans computes c <- alpha*op(a)*op(b) + beta*c where op is Trans or
// NoTrans per transA/transB.
func GemmTrans(transA, transB blas.Transpose, alpha float64, a, b *mat.Dense, beta float64, c *mat.Dense) {
	blas64.Gemm(transA, transB, alpha, a.RawMatrix(), b.RawMatrix(), beta, c.RawMatrix())
}

// Symm computes c <- alpha*a*b + beta*c where a is symmetric.
func Symm(side blas.Side, alpha float64, a blas64.Symmetric, b *mat.Dense, beta float64, c *mat.Dense) {
	blas64.Symm(side, alpha, a, b.RawMatrix(), beta, c.RawMatrix())
}

// Gemv computes y <- alpha*op(a)*x + beta*y.
func Gemv(trans blas.Transpose, alpha float64, a *mat.Dense, x blas64.Vector, beta float64, y blas64.Vector) {
	blas64.Gemv(trans, alpha, a.RawMatrix(), x, beta, y)
}

// Axpy computes y <- alpha*x + y.
func Axpy(alpha float64, x, y []float64) {
	blas64.Axpy(alpha, vec(x), vec(y))
}

// Dot returns the inner product of x and y (local to this rank; callers
// reduce across ranks with their GlobalSumDouble collaborator).
func Dot(x, y []float64) float64 {
	return blas64.Dot(vec(x), vec(y))
}

// Nrm2 returns the Euclidean norm of x.
func Nrm2(x []float64) float64 {
	return blas64.Nrm2(vec(x))
}

// Scal computes x <- alpha*x.
func Scal(alpha float64, x []float64) {
	blas64.Scal(alpha, vec(x))
}

// Trsm solves op(a)*x = alpha*b or x*op(a) = alpha*b in place on b, a
// triangular.
func Trsm(side blas.Side, transA blas.Transpose, alpha float64, a blas64.Triangular, b *mat.Dense) {
	blas64.Trsm(side, transA, alpha, a, b.RawMatrix())
}

// Trmm computes b <- alpha*op(a)*b or alpha*b*op(a), a triangular.
func Trmm(side blas.Side, transA blas.Transpose, alpha float64, a blas64.Triangular, b *mat.Dense) {
	blas64.Trmm(side, transA, alpha, a, b.RawMatrix())
}

func vec(x []float64) blas64.Vector {
	return blas64.Vector{N: len(x), Data: x, Inc: 1}
}

// ColView returns a newly allocated copy of column j of a as a plain Go
// slice, so callers can pass it to Dot/Axpy/Nrm2/Scal; changes to the slice
// do not reach a until written back with SetCol.
func ColView(a *mat.Dense, j int) []float64 {
	raw := a.RawMatrix()
	n := raw.Rows
	col := make([]float64, n)
	for i := 0; i < n; i++ {
		col[i] = raw.Data[i*raw.Stride+j]
	}
	return col
}

// SetCol writes v into column j of a.
func SetCol(a *mat.Dense, j int, v []float64) {
	raw := a.RawMatrix()
	for i := 0; i < raw.Rows; i++ {
		raw.Data[i*raw.Stride+j] = v[i]
	}
}
