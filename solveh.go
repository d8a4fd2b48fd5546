package primme

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/fumin/primme/numerics"
)

// solveH extracts Ritz pairs from the current projected problem, dispatched
// on Params.Projection (spec.md §4.5): Rayleigh-Ritz (symmetric eigensolve
// of H), refined (SVD of R), or harmonic (generalized problem QV*x=theta*R*x
// reduced via R upper triangular). hVals/hVecs (and hU/hSVals for
// refined/harmonic) are (re)computed for the full current basis size m.
func (s *state) solveH() error {
	switch s.p.Projection {
	case Refined:
		return s.solveHRefined()
	case Harmonic:
		return s.solveHHarmonic()
	default:
		return s.solveHRR()
	}
}

func (s *state) solveHRR() error {
	hSub := subSym(s.h, s.m)
	vals, vecs, err := numerics.EigSym(hSub)
	if err != nil {
		return numericalFailuref(-10, "solveH: RR eigendecomposition: %v", err)
	}
	order := targetOrder(vals, s.p.Target, s.p.TargetShifts)
	s.hVals = permuteFloats(vals, order)
	s.hVecs = permuteCols(vecs, order)
	return nil
}

// solveHRefined picks each candidate theta as the RR eigenvalue (to choose
// a target ordering) and then refines the corresponding vector by an SVD of
// R, minimizing ||(A-theta*I)y|| over the subspace (spec.md §4.5, GLOSSARY).
func (s *state) solveHRefined() error {
	if err := s.solveHRR(); err != nil {
		return err
	}
	rSub := subDense(s.r, s.m)
	u, v, sv, err := numerics.SVD(rSub)
	if err != nil {
		return numericalFailuref(-11, "solveH: refined SVD(R): %v", err)
	}
	s.hU = u
	s.hVecs = v
	s.hSVals = sv

	// Rayleigh quotient theta = y^T*H*y for each refined vector y.
	hSub := subSym(s.h, s.m)
	vals := make([]float64, s.m)
	for j := 0; j < s.m; j++ {
		y := numerics.ColView(s.hVecs, j)
		hy := make([]float64, s.m)
		for i := 0; i < s.m; i++ {
			var acc float64
			for k := 0; k < s.m; k++ {
				acc += hSub.At(i, k) * y[k]
			}
			hy[i] = acc
		}
		vals[j] = numerics.Dot(y, hy)
	}
	order := targetOrder(vals, s.p.Target, s.p.TargetShifts)
	s.hVals = permuteFloats(vals, order)
	s.hVecs = permuteCols(s.hVecs, order)
	s.hU = permuteCols(s.hU, order)
	s.hSVals = permuteFloatsLen(s.hSVals, order)
	return nil
}

// solveHHarmonic solves the generalized eigenproblem QV*x = theta*R*x,
// reduced to standard form using R upper triangular (spec.md §4.5).
func (s *state) solveHHarmonic() error {
	rSub := subDense(s.r, s.m)
	qvSub := subDense(s.qv, s.m)

	rInv := mat.NewDense(s.m, s.m, nil)
	rInv.Copy(rSub)
	triUpper := mat.NewTriDense(s.m, mat.Upper, nil)
	for i := 0; i < s.m; i++ {
		for j := i; j < s.m; j++ {
			triUpper.SetTri(i, j, rSub.At(i, j))
		}
	}
	var rInvTri mat.Dense
	ident := mat.NewDense(s.m, s.m, nil)
	for i := 0; i < s.m; i++ {
		ident.Set(i, i, 1)
	}
	if err := rInvTri.Solve(triUpper, ident); err != nil {
		return numericalFailuref(-12, "solveH: harmonic: R not invertible: %v", err)
	}

	b := mat.NewDense(s.m, s.m, nil)
	b.Mul(&rInvTri, qvSub)
	bSym := mat.NewSymDense(s.m, nil)
	for i := 0; i < s.m; i++ {
		for j := i; j < s.m; j++ {
			bSym.SetSym(i, j, 0.5*(b.At(i, j)+b.At(j, i)))
		}
	}

	vals, vecs, err := numerics.EigSym(bSym)
	if err != nil {
		return numericalFailuref(-13, "solveH: harmonic eigendecomposition: %v", err)
	}
	for i := range vals {
		if vals[i] != 0 {
			vals[i] = 1 / vals[i]
		}
	}

	order := targetOrder(vals, s.p.Target, s.p.TargetShifts)
	s.hVals = permuteFloats(vals, order)
	s.hVecs = permuteCols(vecs, order)
	s.hU = s.hVecs
	return nil
}

// targetOrder returns the permutation of indices [0,len(vals)) realizing
// the targeting rule of spec.md §4.5, ties broken by original index.
func targetOrder(vals []float64, target Target, shifts []float64) []int {
	idx := make([]int, len(vals))
	for i := range idx {
		idx[i] = i
	}
	var tau float64
	if len(shifts) > 0 {
		tau = shifts[0]
	}

	key := func(i int) (float64, bool) {
		switch target {
		case Smallest:
			return vals[i], true
		case Largest:
			return -vals[i], true
		case ClosestGEQ:
			d := vals[i] - tau
			if d >= 0 {
				return d, true
			}
			return math.Inf(1), false
		case ClosestLEQ:
			d := tau - vals[i]
			if d >= 0 {
				return d, true
			}
			return math.Inf(1), false
		case ClosestABS:
			return math.Abs(vals[i] - tau), true
		default:
			return vals[i], true
		}
	}

	sort.SliceStable(idx, func(a, b int) bool {
		ka, inA := key(idx[a])
		kb, inB := key(idx[b])
		if inA != inB {
			return inA
		}
		if ka != kb {
			return ka < kb
		}
		return idx[a] < idx[b]
	})
	return idx
}

func permuteFloats(v []float64, order []int) []float64 {
	out := make([]float64, len(order))
	for i, j := range order {
		out[i] = v[j]
	}
	return out
}

func permuteFloatsLen(v []float64, order []int) []float64 {
	if v == nil {
		return nil
	}
	out := make([]float64, len(order))
	for i, j := range order {
		if j < len(v) {
			out[i] = v[j]
		}
	}
	return out
}

func permuteCols(a *mat.Dense, order []int) *mat.Dense {
	rows, _ := a.Dims()
	out := mat.NewDense(rows, len(order), nil)
	for i, j := range order {
		numerics.SetCol(out, i, numerics.ColView(a, j))
	}
	return out
}

func subSym(a *mat.SymDense, m int) *mat.SymDense {
	out := mat.NewSymDense(m, nil)
	for i := 0; i < m; i++ {
		for j := i; j < m; j++ {
			out.SetSym(i, j, a.At(i, j))
		}
	}
	return out
}

func subDense(a *mat.Dense, m int) *mat.Dense {
	return a.Slice(0, m, 0, m).(*mat.Dense)
}
