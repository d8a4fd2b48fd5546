package primme_test

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/fumin/primme"
	"github.com/fumin/primme/examples"
)

func TestSolveDiagonalSmallest(t *testing.T) {
	t.Parallel()
	n := 20
	d := make([]float64, n)
	for i := range d {
		d[i] = float64(i + 1)
	}
	op := examples.Diagonal{D: d}

	p := &primme.Params{
		N:            n,
		NLocal:       n,
		NumEvals:     3,
		Target:       primme.Smallest,
		MaxBlockSize: 1,
		MaxBasisSize: 12,
		Eps:          1e-10,
		MatrixMatvec: op.Matvec,
	}

	evals := make([]float64, p.NumEvals)
	resNorms := make([]float64, p.NumEvals)
	evecs := mat.NewDense(n, p.NumEvals, nil)

	if err := primme.Solve(p, evals, resNorms, evecs); err != nil {
		t.Fatalf("Solve: %v", err)
	}

	want := []float64{1, 2, 3}
	for i, w := range want {
		if math.Abs(evals[i]-w) > 1e-6 {
			t.Fatalf("evals[%d] = %v, want %v", i, evals[i], w)
		}
		if resNorms[i] > 1e-6 {
			t.Fatalf("resNorms[%d] = %v, want < 1e-6", i, resNorms[i])
		}
	}

	for i, w := range want {
		col := mat.Col(nil, i, evecs)
		var ax float64
		for j, v := range col {
			ax += math.Pow(d[j]*v-w*v, 2)
		}
		if math.Sqrt(ax) > 1e-6 {
			t.Fatalf("eigenvector %d residual too large: %v", i, math.Sqrt(ax))
		}
	}
}

func TestSolveDiagonalLargestWithLocking(t *testing.T) {
	t.Parallel()
	n := 15
	d := make([]float64, n)
	for i := range d {
		d[i] = float64(i + 1)
	}
	op := examples.Diagonal{D: d}

	p := &primme.Params{
		N:            n,
		NLocal:       n,
		NumEvals:     2,
		Target:       primme.Largest,
		MaxBlockSize: 1,
		MaxBasisSize: 8,
		Eps:          1e-9,
		Locking:      true,
		MatrixMatvec: op.Matvec,
	}

	evals := make([]float64, p.NumEvals)
	resNorms := make([]float64, p.NumEvals)
	evecs := mat.NewDense(n, p.NumEvals, nil)

	if err := primme.Solve(p, evals, resNorms, evecs); err != nil {
		t.Fatalf("Solve: %v", err)
	}

	want := []float64{15, 14}
	for i, w := range want {
		if math.Abs(evals[i]-w) > 1e-6 {
			t.Fatalf("evals[%d] = %v, want %v", i, evals[i], w)
		}
	}
}

// TestSolveForcesRestart picks a MaxBasisSize tight enough that the basis
// must restart repeatedly before all pairs converge, exercising the thick
// restart / downgrade-after-restart path end to end.
func TestSolveForcesRestart(t *testing.T) {
	t.Parallel()
	n := 25
	d := make([]float64, n)
	for i := range d {
		d[i] = float64(i + 1)
	}
	op := examples.Diagonal{D: d}

	p := &primme.Params{
		N:                  n,
		NLocal:             n,
		NumEvals:           4,
		Target:             primme.Smallest,
		MaxBlockSize:       1,
		MaxBasisSize:       6,
		Eps:                1e-9,
		MaxOuterIterations: 500,
		MatrixMatvec:       op.Matvec,
	}

	evals := make([]float64, p.NumEvals)
	resNorms := make([]float64, p.NumEvals)
	evecs := mat.NewDense(n, p.NumEvals, nil)

	if err := primme.Solve(p, evals, resNorms, evecs); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if p.Stats.NumRestarts == 0 {
		t.Fatalf("expected at least one restart with MaxBasisSize=%d, NumEvals=%d", p.MaxBasisSize, p.NumEvals)
	}

	want := []float64{1, 2, 3, 4}
	for i, w := range want {
		if math.Abs(evals[i]-w) > 1e-6 {
			t.Fatalf("evals[%d] = %v, want %v", i, evals[i], w)
		}
		if resNorms[i] > 1e-6 {
			t.Fatalf("resNorms[%d] = %v, want < 1e-6", i, resNorms[i])
		}
	}
}

func TestSolveLaplacian1DWithPreconditioner(t *testing.T) {
	t.Parallel()
	n := 30
	op := examples.Laplacian1D{N: n}
	precond := examples.JacobiPreconditioner{D: op.Diag(), Sigma: 0}

	p := &primme.Params{
		N:            n,
		NLocal:       n,
		NumEvals:     2,
		Target:       primme.Smallest,
		MaxBlockSize: 1,
		MaxBasisSize: 10,
		Eps:          1e-8,
		MatrixMatvec: op.Matvec,
		CorrectionParams: primme.CorrectionParams{
			Precondition: true,
		},
		ApplyPreconditioner: precond.Precondition,
	}

	evals := make([]float64, p.NumEvals)
	resNorms := make([]float64, p.NumEvals)
	evecs := mat.NewDense(n, p.NumEvals, nil)

	if err := primme.Solve(p, evals, resNorms, evecs); err != nil {
		t.Fatalf("Solve: %v", err)
	}

	// Closed form for the N x N tridiagonal(-1,2,-1) Laplacian:
	// lambda_k = 2 - 2*cos(k*pi/(n+1)), k = 1..n.
	for i := 0; i < p.NumEvals; i++ {
		k := float64(i + 1)
		want := 2 - 2*math.Cos(k*math.Pi/float64(n+1))
		if math.Abs(evals[i]-want) > 1e-5 {
			t.Fatalf("evals[%d] = %v, want %v", i, evals[i], want)
		}
	}
}
