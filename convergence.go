package primme

import "math"

// the machine-precision convergence floor of spec.md §4.6 (3.16*eps_m in
// the original, 3.16 approximating sqrt(10)).
const convergenceEpsFactor = 3.16

// checkConvergence classifies a Ritz pair given its residual norm against
// the formula of spec.md §4.6, or the caller-supplied ConvTestFunc override
// if one is set.
func (s *state) checkConvergence(eval float64, evec []float64, resNorm float64) (flagState, error) {
	if s.p.ConvTestFunc != nil {
		ok, err := s.p.ConvTestFunc(eval, evec, resNorm)
		if err != nil {
			return unconverged, callbackFailuref("convTestFun: %v", err)
		}
		if ok {
			return converged, nil
		}
	} else {
		estLargestSVal := s.estimatedLargestSingularValue()
		threshold := math.Max(s.p.Eps*math.Max(s.aNorm, estLargestSVal), convergenceEpsFactor*machineEps*estLargestSVal)
		if resNorm < threshold {
			return converged, nil
		}
	}

	if resNorm <= s.estimateResidualError {
		return practicallyConverged, nil
	}
	return unconverged, nil
}

// estimatedLargestSingularValue returns the best available spectral-norm
// estimate: the largest |hVal| seen so far, or the user/estimated aNorm if
// larger.
func (s *state) estimatedLargestSingularValue() float64 {
	best := s.aNorm
	for _, v := range s.hVals {
		if math.Abs(v) > best {
			best = math.Abs(v)
		}
	}
	return best
}

// refreshEstimateResidualError updates the accumulated-error estimate of
// spec.md §3: estimateResidualError = 2*sqrt(restartsSinceReset)*eps_m*||A||.
func (s *state) refreshEstimateResidualError() {
	s.estimateResidualError = 2 * math.Sqrt(float64(s.restartsSinceReset)) * machineEps * s.estimatedLargestSingularValue()
}

// downgradeIfNeeded implements the soft-locking downgrade check of spec.md
// §4.10, run once per restart (restart perturbs Ritz values by truncating
// the subspace, which is the only event this check needs to react to): if
// |hVals[i]-markedEval[i]| > markedResNorm[i] for a pair already marked
// CONVERGED, it is flagged back to UNCONVERGED. markedEval/markedResNorm
// are the value and residual norm recorded at the moment column i was
// marked converged (spec.md §3 invariant "at the moment of marking") — not
// the evals/resNorms arrays, which are the final lock-output buffers and
// stay zero until a pair is actually locked. Hard-locked pairs are never
// passed to this function (spec.md §9 Open Question (a)): the caller must
// only invoke it for pairs still resident in V.
func (s *state) downgradeIfNeeded(i int, newHVal float64) {
	if s.flags[i] != converged {
		return
	}
	if math.Abs(newHVal-s.markedEval[i]) > s.markedResNorm[i] {
		s.flags[i] = unconverged
	}
}
