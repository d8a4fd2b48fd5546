package numerics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestDotAxpyScal(t *testing.T) {
	t.Parallel()
	x := []float64{1, 2, 3}
	y := []float64{4, 5, 6}

	if got, want := Dot(x, y), 32.0; got != want {
		t.Fatalf("Dot = %v, want %v", got, want)
	}

	yc := append([]float64(nil), y...)
	Axpy(2, x, yc)
	want := []float64{6, 9, 12}
	for i := range want {
		if yc[i] != want[i] {
			t.Fatalf("Axpy[%d] = %v, want %v", i, yc[i], want[i])
		}
	}

	xc := append([]float64(nil), x...)
	Scal(2, xc)
	for i, v := range []float64{2, 4, 6} {
		if xc[i] != v {
			t.Fatalf("Scal[%d] = %v, want %v", i, xc[i], v)
		}
	}
}

func TestNrm2(t *testing.T) {
	t.Parallel()
	got := Nrm2([]float64{3, 4})
	if math.Abs(got-5) > 1e-12 {
		t.Fatalf("Nrm2 = %v, want 5", got)
	}
}

func TestColViewSetCol(t *testing.T) {
	t.Parallel()
	a := mat.NewDense(3, 2, []float64{
		1, 2,
		3, 4,
		5, 6,
	})
	col := ColView(a, 1)
	want := []float64{2, 4, 6}
	for i := range want {
		if col[i] != want[i] {
			t.Fatalf("ColView[%d] = %v, want %v", i, col[i], want[i])
		}
	}

	SetCol(a, 0, []float64{10, 20, 30})
	for i, v := range []float64{10, 20, 30} {
		if a.At(i, 0) != v {
			t.Fatalf("after SetCol a.At(%d,0) = %v, want %v", i, a.At(i, 0), v)
		}
	}
}
