package primme

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/fumin/primme/numerics"
)

func TestOrthogonalizeBlockAgainstLocked(t *testing.T) {
	t.Parallel()
	p := &Params{GlobalSumDouble: SequentialGlobalSum}
	locked := mat.NewDense(4, 1, []float64{1, 0, 0, 0})
	basis := mat.NewDense(4, 1, []float64{1, 1, 0, 0})
	iseed := [4]int{1, 3, 5, 7}

	if err := orthogonalizeBlock(p, basis, 0, 1, locked, 1, &iseed); err != nil {
		t.Fatalf("orthogonalizeBlock: %v", err)
	}
	v := numerics.ColView(basis, 0)
	if math.Abs(v[0]) > 1e-9 {
		t.Fatalf("v[0] = %v, want ~0 (projected out locked direction)", v[0])
	}
	if math.Abs(numerics.Norm2(v)-1) > 1e-9 {
		t.Fatalf("||v|| = %v, want 1", numerics.Norm2(v))
	}
}

func TestOrthogonalizeBlockWithinBlock(t *testing.T) {
	t.Parallel()
	p := &Params{GlobalSumDouble: SequentialGlobalSum}
	basis := mat.NewDense(3, 2, []float64{
		1, 1,
		0, 1,
		0, 0,
	})
	iseed := [4]int{1, 3, 5, 7}

	if err := orthogonalizeBlock(p, basis, 0, 2, nil, 0, &iseed); err != nil {
		t.Fatalf("orthogonalizeBlock: %v", err)
	}
	c0 := numerics.ColView(basis, 0)
	c1 := numerics.ColView(basis, 1)
	dot, err := reducedDot(p, c0, c1)
	if err != nil {
		t.Fatalf("reducedDot: %v", err)
	}
	if math.Abs(dot) > 1e-9 {
		t.Fatalf("<c0,c1> = %v, want ~0", dot)
	}
	for i, c := range [][]float64{c0, c1} {
		if math.Abs(numerics.Norm2(c)-1) > 1e-9 {
			t.Fatalf("||c%d|| = %v, want 1", i, numerics.Norm2(c))
		}
	}
}

func TestReducedDotAndNorm(t *testing.T) {
	t.Parallel()
	p := &Params{GlobalSumDouble: SequentialGlobalSum}
	u := []float64{1, 2, 3}
	v := []float64{4, 5, 6}
	dot, err := reducedDot(p, u, v)
	if err != nil {
		t.Fatalf("reducedDot: %v", err)
	}
	if math.Abs(dot-32) > 1e-12 {
		t.Fatalf("reducedDot = %v, want 32", dot)
	}
	n, err := reducedNorm(p, []float64{3, 4})
	if err != nil {
		t.Fatalf("reducedNorm: %v", err)
	}
	if math.Abs(n-5) > 1e-12 {
		t.Fatalf("reducedNorm = %v, want 5", n)
	}
}
