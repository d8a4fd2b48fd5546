package primme

import "github.com/fumin/primme/numerics"

// prepareCandidates chooses up to blockSize Ritz pairs from the ordered
// hVals not yet converged and not already locked, computing their residuals
// by reusing V/W (spec.md §4.7): R_block = W*c - (V*c)*diag(hVals). The
// chosen indices are stored in s.iev and their norms in s.blockNorms.
func (s *state) prepareCandidates() error {
	s.iev = s.iev[:0]
	s.blockNorms = s.blockNorms[:0]

	for j := 0; j < s.m && len(s.iev) < s.blockSize; j++ {
		if s.flags[j] == converged || s.flags[j] == practicallyConverged {
			continue
		}
		s.iev = append(s.iev, j)
	}

	for _, j := range s.iev {
		c := numerics.ColView(s.hVecs, j)
		x := make([]float64, s.n)
		ax := make([]float64, s.n)
		for i := 0; i < s.n; i++ {
			var xi, axi float64
			for k := 0; k < s.m; k++ {
				ck := c[k]
				xi += s.v.At(i, k) * ck
				axi += s.w.At(i, k) * ck
			}
			x[i], ax[i] = xi, axi
		}

		r := make([]float64, s.n)
		numerics.ComputeResidual(s.hVals[j], x, ax, r)
		norm, err := reducedNorm(s.p, r)
		if err != nil {
			return err
		}
		s.blockNorms = append(s.blockNorms, norm)
	}
	return nil
}

// ritzVector materializes x=V*hVecs[:,j] for candidate j.
func (s *state) ritzVector(j int) []float64 {
	c := numerics.ColView(s.hVecs, j)
	x := make([]float64, s.n)
	for i := 0; i < s.n; i++ {
		var xi float64
		for k := 0; k < s.m; k++ {
			xi += s.v.At(i, k) * c[k]
		}
		x[i] = xi
	}
	return x
}
