package primme

import (
	"github.com/fumin/primme/numerics"
)

// updateProjection extends H = V^T*A*V with the new columns [mPrev,mNew) of
// V and W, without recomputing the already-established top-left block
// (spec.md §4.4). H's upper triangle is authoritative; new entries are
// symmetrized by construction (H[i,j] = <V[:,i],W[:,j]>, and H is
// symmetric so H[j,i] is never stored separately).
func (s *state) updateProjection(mPrev, mNew int) error {
	for j := mPrev; j < mNew; j++ {
		wj := numerics.ColView(s.w, j)
		for i := 0; i <= j; i++ {
			vi := numerics.ColView(s.v, i)
			hij, err := reducedDot(s.p, vi, wj)
			if err != nil {
				return err
			}
			s.h.SetSym(i, j, hij)
		}
	}
	return nil
}

// updateQ extends the refined/harmonic auxiliary QR factorization Q,R of
// (A-tau*I)V with the new columns [mPrev,mNew), block-orthogonalizing
// A*V_new - tau*V_new against the existing columns of Q using the same
// iterated-CGS engine as orthogonalize.go (spec.md §4.4).
func (s *state) updateQ(mPrev, mNew int, tau float64) error {
	if s.q == nil {
		return nil
	}
	for j := mPrev; j < mNew; j++ {
		wj := numerics.ColView(s.w, j)
		vj := numerics.ColView(s.v, j)
		aq := make([]float64, s.n)
		for i := range aq {
			aq[i] = wj[i] - tau*vj[i]
		}
		numerics.SetCol(s.q, j, aq)
	}
	if err := orthogonalizeBlock(s.p, s.q, mPrev, mNew, nil, 0, &s.iseed); err != nil {
		return err
	}
	// R = Q^T*(A-tau*I)V restricted to the new columns against all of Q.
	for j := mPrev; j < mNew; j++ {
		wj := numerics.ColView(s.w, j)
		vj := numerics.ColView(s.v, j)
		aq := make([]float64, s.n)
		for i := range aq {
			aq[i] = wj[i] - tau*vj[i]
		}
		for i := 0; i <= j; i++ {
			qi := numerics.ColView(s.q, i)
			rij, err := reducedDot(s.p, qi, aq)
			if err != nil {
				return err
			}
			s.r.Set(i, j, rij)
		}
	}

	if s.qv != nil {
		for j := mPrev; j < mNew; j++ {
			vj := numerics.ColView(s.v, j)
			for i := 0; i < mNew; i++ {
				qi := numerics.ColView(s.q, i)
				qvij, err := reducedDot(s.p, qi, vj)
				if err != nil {
					return err
				}
				s.qv.Set(i, j, qvij)
			}
		}
		for i := mPrev; i < mNew; i++ {
			vAllJ := numerics.ColView(s.v, i)
			for j := 0; j < mPrev; j++ {
				qj := numerics.ColView(s.q, j)
				qvij, err := reducedDot(s.p, qj, vAllJ)
				if err != nil {
					return err
				}
				s.qv.Set(j, i, qvij)
			}
		}
	}
	return nil
}
