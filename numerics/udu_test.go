package numerics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestFactorizeSolveVec(t *testing.T) {
	t.Parallel()
	m := mat.NewSymDense(2, nil)
	m.SetSym(0, 0, 4)
	m.SetSym(0, 1, 1)
	m.SetSym(1, 1, 3)

	f, ok := Factorize(m)
	if !ok {
		t.Fatalf("Factorize reported not ok for a nonsingular matrix")
	}

	b := []float64{1, 2}
	x, err := f.SolveVec(b)
	if err != nil {
		t.Fatalf("SolveVec: %v", err)
	}

	// Verify M*x == b.
	got := []float64{
		m.At(0, 0)*x[0] + m.At(0, 1)*x[1],
		m.At(1, 0)*x[0] + m.At(1, 1)*x[1],
	}
	for i := range b {
		if math.Abs(got[i]-b[i]) > 1e-9 {
			t.Fatalf("M*x[%d] = %v, want %v", i, got[i], b[i])
		}
	}
}

func TestFactorizeSingular(t *testing.T) {
	t.Parallel()
	m := mat.NewSymDense(2, nil) // all zero: singular
	_, ok := Factorize(m)
	if ok {
		t.Fatalf("Factorize reported ok for the zero matrix")
	}
}
