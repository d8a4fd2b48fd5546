package primme

import (
	"gonum.org/v1/gonum/mat"

	"github.com/fumin/primme/numerics"
)

// flagState is one of the per-Ritz-pair convergence flags of spec.md §3.
type flagState int

const (
	unconverged flagState = iota
	converged
	practicallyConverged
)

// state is the driver's private working state (spec.md §3 Data Model). All
// large buffers are allocated once in newState (the Lifecycle rule: "All
// large buffers are allocated once at the start of a solve"); nothing here
// is resized mid-solve.
type state struct {
	p *Params

	n         int
	blockSize int

	m int // current basis size, 0 <= m <= maxBasisSize

	v *mat.Dense    // n x maxBasisSize
	w *mat.Dense    // n x maxBasisSize, W[:,j] ~= A*V[:,j]
	h *mat.SymDense // maxBasisSize x maxBasisSize, upper triangle authoritative

	// Refined/harmonic-only auxiliary projection (spec.md §3).
	q  *mat.Dense // n x maxBasisSize, orthonormal columns of QR(A-tau*I)V
	r  *mat.Dense // maxBasisSize x maxBasisSize, upper triangular
	qv *mat.Dense // maxBasisSize x maxBasisSize, Q^T*V

	hVals  []float64
	hVecs  *mat.Dense
	hU     *mat.Dense // refined/harmonic left vectors
	hSVals []float64  // singular values of R

	iev        []int // indices into columns of hVecs chosen for the block
	blockNorms []float64

	evecs    *mat.Dense // n x (numOrthoConst+numEvals)
	evals    []float64
	resNorms []float64
	flags    []flagState

	// markedEval/markedResNorm cache the Ritz value and residual norm
	// recorded at the moment column j was marked CONVERGED, for
	// downgradeIfNeeded to compare against (spec.md §3 invariant;
	// indexed like flags, not the lock-output evals/resNorms arrays).
	markedEval    []float64
	markedResNorm []float64

	prevHVecs *mat.Dense // m x maxPrevRetain, retained across restarts

	skewEvecsHat *mat.Dense // K*evecs, refreshed once per block extension
	skewFactors  *numerics.UDUFactors
	skewOK       bool

	restartsSinceReset    int
	estimateResidualError float64
	numLocked             int
	numConverged          int

	aNorm float64

	iseed [4]int

	outerIter int
	numMatvecs int
}

func newState(p *Params) *state {
	s := &state{p: p}
	s.n = p.NLocal
	s.blockSize = p.MaxBlockSize
	s.iseed = numerics.NormalizeISeed(p.ISeed, p.ProcID)

	s.v = mat.NewDense(s.n, p.MaxBasisSize, nil)
	s.w = mat.NewDense(s.n, p.MaxBasisSize, nil)
	s.h = mat.NewSymDense(p.MaxBasisSize, nil)

	if p.Projection != RR {
		s.q = mat.NewDense(s.n, p.MaxBasisSize, nil)
		s.r = mat.NewDense(p.MaxBasisSize, p.MaxBasisSize, nil)
		s.qv = mat.NewDense(p.MaxBasisSize, p.MaxBasisSize, nil)
	}

	s.evecs = mat.NewDense(s.n, p.NumOrthoConst+p.NumEvals, nil)
	s.evals = make([]float64, p.NumEvals)
	s.resNorms = make([]float64, p.NumEvals)
	s.flags = make([]flagState, p.MaxBasisSize)
	s.markedEval = make([]float64, p.MaxBasisSize)
	s.markedResNorm = make([]float64, p.MaxBasisSize)

	maxPrevRetain := p.RestartingParams.MaxPrevRetain
	if maxPrevRetain > 0 {
		s.prevHVecs = mat.NewDense(p.MaxBasisSize, maxPrevRetain, nil)
	}

	s.aNorm = p.ANorm
	return s
}

// colsV returns a view of the first m columns of v as a *mat.Dense sharing
// backing storage (used to pass the active basis to numerics routines).
func (s *state) colsV(m int) *mat.Dense { return viewCols(s.v, s.n, m) }
func (s *state) colsW(m int) *mat.Dense { return viewCols(s.w, s.n, m) }

func viewCols(a *mat.Dense, rows, cols int) *mat.Dense {
	return a.Slice(0, rows, 0, cols).(*mat.Dense)
}
