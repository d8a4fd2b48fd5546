package primme

// WorkspaceSize reports the real- and integer-valued workspace a Solve call
// with the given Params would consume, computed by walking the same
// allocation sizes newState uses, but without allocating (spec.md §6 size
// query, §9 "Workspace by offset").
type WorkspaceSize struct {
	RealBytes int
	IntBytes  int
}

const (
	float64Bytes = 8
	intBytes     = 8
)

// SizeQuery computes the workspace a solve would need without performing
// it, PRIMME's "size query mode" (spec.md §2, §6). It validates Params the
// same way Solve does, so invalid input is reported the same way at size
// query time as at solve time.
func SizeQuery(p *Params) (WorkspaceSize, error) {
	if err := p.validate(); err != nil {
		return WorkspaceSize{}, err
	}

	n := p.NLocal
	m := p.MaxBasisSize

	var realElems, intElems int

	// V, W.
	realElems += 2 * n * m
	// H (symmetric, stored packed upper triangle conceptually; we count
	// the full m*m here since mat.SymDense backs a dense m*m array).
	realElems += m * m

	if p.Projection != RR {
		// Q, R, QV.
		realElems += n*m + m*m + m*m
	}

	// hVals, hVecs, blockNorms, iev (int), resNorms, evals.
	realElems += m + m*m + p.MaxBlockSize
	intElems += p.MaxBlockSize
	realElems += 2 * p.NumEvals
	// flags (int), markedEval, markedResNorm.
	intElems += m
	realElems += 2 * m

	if p.Projection != RR {
		realElems += m * m // hU
		realElems += m     // hSVals
	}

	// evecs.
	realElems += n * (p.NumOrthoConst + p.NumEvals)
	intElems += p.NumOrthoConst + p.NumEvals // perm

	if p.RestartingParams.MaxPrevRetain > 0 {
		realElems += m * p.RestartingParams.MaxPrevRetain
	}

	if p.CorrectionParams.Precondition && (p.CorrectionParams.Projectors.SkewQ || p.CorrectionParams.Projectors.SkewX) {
		k := p.NumOrthoConst + p.NumEvals
		realElems += n*k + k*k // evecsHat, M
		intElems += k          // UDU pivots
	}

	// Inner-solver scratch (JDQMR keeps a handful of n-length vectors
	// live at once: iterate, best iterate, residual, search direction,
	// preconditioned residual and the operator applied to the search
	// direction).
	realElems += 6 * n

	return WorkspaceSize{
		RealBytes: realElems * float64Bytes,
		IntBytes:  intElems * intBytes,
	}, nil
}
