package primme

// MatrixMatvec computes y <- A*x columnwise, x and y holding blockSize
// columns of length nLocal each, column-major (spec.md §6).
type MatrixMatvec func(x, y []float64, blockSize int) error

// ApplyPreconditioner computes y ~= (A-sigma*I)^-1 * x columnwise.
type ApplyPreconditioner func(x, y []float64, blockSize int) error

// GlobalSumDouble reduces (sums) in across all ranks into out, count
// elements, the MPI_Allreduce-equivalent collaborator of spec.md §5. The
// core calls it exactly once per reduction operation and assumes every rank
// performs the same sequence of calls with identical counts.
type GlobalSumDouble func(in, out []float64, count int) error

// SequentialGlobalSum is the single-rank identity reduction, used when a
// Params leaves GlobalSumDouble nil. It is the degenerate NumProcs==1 case
// the original ships as its own default reduction.
func SequentialGlobalSum(in, out []float64, count int) error {
	copy(out[:count], in[:count])
	return nil
}

// ConvTestFunc optionally overrides the default convergence formula of
// convergence.go (spec.md §4.6, §6). It reports whether the pair (eval,
// evec) with the given residual norm should be considered converged.
type ConvTestFunc func(eval float64, evec []float64, rNorm float64) (bool, error)
