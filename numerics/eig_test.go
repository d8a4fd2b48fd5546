package numerics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestEigSymDiagonal(t *testing.T) {
	t.Parallel()
	a := mat.NewSymDense(3, nil)
	a.SetSym(0, 0, 3)
	a.SetSym(1, 1, 1)
	a.SetSym(2, 2, 2)

	vals, vecs, err := EigSym(a)
	if err != nil {
		t.Fatalf("EigSym: %v", err)
	}
	want := []float64{1, 2, 3}
	for i, w := range want {
		if math.Abs(vals[i]-w) > 1e-9 {
			t.Fatalf("vals[%d] = %v, want %v (full %v)", i, vals[i], w, vals)
		}
	}
	rows, cols := vecs.Dims()
	if rows != 3 || cols != 3 {
		t.Fatalf("vecs dims = %d x %d, want 3 x 3", rows, cols)
	}
}

func TestEigSymResidual(t *testing.T) {
	t.Parallel()
	a := mat.NewSymDense(2, []float64{2, 1, 1, 2})
	vals, vecs, err := EigSym(a)
	if err != nil {
		t.Fatalf("EigSym: %v", err)
	}
	for j := 0; j < 2; j++ {
		v := ColView(vecs, j)
		av := make([]float64, 2)
		for i := 0; i < 2; i++ {
			var acc float64
			for k := 0; k < 2; k++ {
				acc += a.At(i, k) * v[k]
			}
			av[i] = acc
		}
		r := make([]float64, 2)
		ComputeResidual(vals[j], v, av, r)
		if Norm2(r) > 1e-8 {
			t.Fatalf("residual for eigenpair %d too large: %v", j, Norm2(r))
		}
	}
}
