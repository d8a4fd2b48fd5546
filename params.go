// Package primme implements a preconditioned iterative eigensolver for
// large, sparse, real-symmetric eigenvalue problems.
//
// The method is Davidson-type projection with thick restart, optional hard
// locking of converged pairs, and an inner Jacobi-Davidson correction
// equation solved by JDQMR or by generalized Davidson (GD+k). Given an
// implicit operator A (a matrix-vector product), an optional preconditioner
// K approximating (A-sigma*I)^-1, and a targeting mode, Solve returns the k
// requested eigenpairs (lambda_i, x_i) with ||A*x_i - lambda_i*x_i|| <=
// eps*||A||.
//
// References:
//   - A. Stathopoulos, Nearly optimal preconditioned methods for hermitian
//     eigenproblems under limited memory. Part I: Seeking one eigenvalue.
//   - A. Stathopoulos, J. R. McCombs, Nearly optimal preconditioned methods
//     for hermitian eigenproblems under limited memory. Part II: Seeking
//     many eigenvalues.
package primme

// Target selects which part of the spectrum the solver seeks.
type Target int

const (
	Smallest Target = iota
	Largest
	ClosestGEQ
	ClosestLEQ
	ClosestABS
)

// Projection selects the Rayleigh-Ritz extraction method used by solveH.
type Projection int

const (
	RR Projection = iota
	Refined
	Harmonic
)

// RestartScheme selects the restart-size policy.
type RestartScheme int

const (
	ThickRestart RestartScheme = iota
	DynamicThickRestart
)

// ConvTest selects the built-in inner-tolerance policy for the correction
// solver. A caller-supplied ConvTestFunc (on Params) overrides the outer
// convergence test itself, not this inner-tolerance policy.
type ConvTest int

const (
	FullLTolerance ConvTest = iota
	DecreasingLTolerance
	AdaptiveETolerance
	Adaptive
)

// Projectors selects which projector variants the JDQMR correction solver
// applies to the correction equation (I-xx*)(A-theta*I)(I-xx*)t = -r.
type Projectors struct {
	LeftQ  bool
	LeftX  bool
	RightQ bool
	RightX bool
	SkewQ  bool
	SkewX  bool
}

// RestartingParams configures the thick-restart subsystem (spec.md §4.9).
type RestartingParams struct {
	Scheme        RestartScheme
	MaxPrevRetain int // size of the +k augmentation, spec.md GLOSSARY
}

// CorrectionParams configures the inner correction solver (spec.md §4.8).
type CorrectionParams struct {
	Precondition      bool
	ConvTest          ConvTest
	RelTolBase        float64
	Projectors        Projectors
	MaxInnerIterations int
}

// Params is the Go form of primme_params (spec.md §6). It carries no
// runtime-mutated cross references; the fields named there are enumerated
// directly here instead of emulating the original's pointer-linked config
// graph.
type Params struct {
	N       int
	NLocal  int
	NumProcs int
	ProcID   int

	NumEvals int
	Target   Target

	TargetShifts []float64

	Eps   float64
	ANorm float64 // if zero, estimated at solve start as the Gershgorin bound of the initial H

	MaxBasisSize       int
	MinRestartSize     int
	MaxBlockSize       int
	MaxOuterIterations int
	MaxMatvecs         int

	NumOrthoConst int
	InitSize      int
	Locking       bool

	ISeed [4]int

	PrintLevel int

	Projection       Projection
	RestartScheme    RestartScheme
	RestartingParams RestartingParams
	CorrectionParams CorrectionParams

	// MatrixMatvec, ApplyPreconditioner and GlobalSumDouble are the
	// injected collaborators (spec.md §5, §6). ConvTestFunc is optional;
	// when nil the default formula in convergence.go is used.
	MatrixMatvec      MatrixMatvec
	ApplyPreconditioner ApplyPreconditioner
	GlobalSumDouble   GlobalSumDouble
	ConvTestFunc      ConvTestFunc

	// Stats is filled in during Solve; it is per-solve state hung off
	// the parameter record rather than process-wide (spec.md §9).
	Stats Stats
	Trace []TraceEntry
}

// Stats accumulates elapsed-work counters filled in during Solve.
type Stats struct {
	NumOuterIterations int
	NumRestarts        int
	NumMatvecs         int
	NumPreconds        int
	NumInnerIterations int
	NumLocked          int
	ElapsedSeconds     float64
}

// validate checks Params for the invalid-input conditions of spec.md §6/§7.
// Each specific field is checked with its own error so a caller can tell
// exactly which one is out of range.
func (p *Params) validate() error {
	switch {
	case p.N <= 0:
		return invalidInputf("n", "n must be positive, got %d", p.N)
	case p.NLocal <= 0 || p.NLocal > p.N:
		return invalidInputf("nLocal", "nLocal must be in (0, n], got %d", p.NLocal)
	case p.NumEvals <= 0:
		return invalidInputf("numEvals", "numEvals must be positive, got %d", p.NumEvals)
	case p.NumEvals > p.N:
		return invalidInputf("numEvals", "numEvals (%d) exceeds n (%d)", p.NumEvals, p.N)
	case p.MaxBlockSize <= 0:
		return invalidInputf("maxBlockSize", "maxBlockSize must be positive, got %d", p.MaxBlockSize)
	case p.MaxBasisSize < p.NumEvals+p.MaxBlockSize:
		return invalidInputf("maxBasisSize", "maxBasisSize (%d) must be >= numEvals+maxBlockSize (%d)", p.MaxBasisSize, p.NumEvals+p.MaxBlockSize)
	case p.MaxBasisSize > p.N:
		return invalidInputf("maxBasisSize", "maxBasisSize (%d) exceeds n (%d)", p.MaxBasisSize, p.N)
	case p.Eps <= 0:
		return invalidInputf("eps", "eps must be positive, got %g", p.Eps)
	case p.Eps < machineEps:
		return invalidInputf("eps", "eps (%g) is tighter than machine precision", p.Eps)
	case p.MatrixMatvec == nil:
		return invalidInputf("matrixMatvec", "matrixMatvec collaborator is required")
	case p.CorrectionParams.Precondition && p.ApplyPreconditioner == nil:
		return invalidInputf("applyPreconditioner", "preconditioning requested but applyPreconditioner is nil")
	case (p.Target == ClosestGEQ || p.Target == ClosestLEQ || p.Target == ClosestABS) && len(p.TargetShifts) == 0:
		return invalidInputf("targetShifts", "target %v requires at least one target shift", p.Target)
	}
	if p.MinRestartSize <= 0 {
		p.MinRestartSize = p.NumEvals
	}
	if p.GlobalSumDouble == nil {
		p.GlobalSumDouble = SequentialGlobalSum
	}
	return nil
}

const machineEps = 0x1p-52
