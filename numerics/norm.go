package numerics

import "math"

// GershgorinBound estimates ||A|| from a sparse symmetric matrix given as
// diagonal entries and, for each row, the sum of absolute off-diagonal
// entries, returning the largest of the per-row Gershgorin disc bounds
// |center|+radius. Adapted from the teacher's gerschgorin helper in
// exactdiag/mat/gradientdescent.go (Theorem A3, Bounds for the eigenvalues
// of a matrix, Kenneth R. Garren), generalized from the ground-state-only
// lower bound to a two-sided spectral-radius estimate.
func GershgorinBound(diag []float64, offDiagAbsSum []float64) float64 {
	var bound float64
	for i, c := range diag {
		r := offDiagAbsSum[i]
		if b := math.Abs(c) + r; b > bound {
			bound = b
		}
	}
	return bound
}

// PowerIterationNorm estimates the spectral radius of a matrix-free
// operator via power iteration, for use when Params.ANorm is left at zero
// and the operator is not conveniently inspectable row-by-row (the general
// matrix-free case spec.md §6 describes). matvec computes y <- A*x for a
// single column (blockSize 1).
func PowerIterationNorm(matvec func(x, y []float64) error, n, iters int) (float64, error) {
	x := make([]float64, n)
	y := make([]float64, n)
	x[0] = 1
	var lambda float64
	for it := 0; it < iters; it++ {
		if err := matvec(x, y); err != nil {
			return 0, err
		}
		norm := Norm2(y)
		if norm == 0 {
			return 0, nil
		}
		lambda = norm
		for i := range y {
			x[i] = y[i] / norm
		}
	}
	return lambda, nil
}
