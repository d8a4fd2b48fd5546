package numerics

import "math"

// ResidualBlock is the block size used by ComputeResidual to keep the
// working set in cache (spec.md §4.1), matching the original's tunable
// B=512.
const ResidualBlock = 512

// ComputeResidual computes r[k:k+M] <- ax[k:k+M] - eval*x[k:k+M] in chunks
// of at most ResidualBlock elements, the cache-blocked residual kernel of
// spec.md §4.1 (grounded on Num_compute_residual_dprimme).
func ComputeResidual(eval float64, x, ax, r []float64) {
	n := len(x)
	for k := 0; k < n; k += ResidualBlock {
		end := min(k+ResidualBlock, n)
		for i := k; i < end; i++ {
			r[i] = ax[i] - eval*x[i]
		}
	}
}

// Norm2 returns the Euclidean norm of x computed in cache-blocked chunks,
// so callers needing only a local norm do not need a full Vector wrapper.
func Norm2(x []float64) float64 {
	var sumSq float64
	n := len(x)
	for k := 0; k < n; k += ResidualBlock {
		end := min(k+ResidualBlock, n)
		var partial float64
		for i := k; i < end; i++ {
			partial += x[i] * x[i]
		}
		sumSq += partial
	}
	return math.Sqrt(sumSq)
}
