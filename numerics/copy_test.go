package numerics

import "testing"

func TestCopyMatrixDisjoint(t *testing.T) {
	t.Parallel()
	x := []float64{1, 2, 3, 4, 5, 6} // 2x3, ld=2
	y := make([]float64, 6)
	CopyMatrix(x, 2, 3, 2, y, 2)
	for i := range x {
		if x[i] != y[i] {
			t.Fatalf("y[%d] = %v, want %v", i, y[i], x[i])
		}
	}
}

func TestCopyMatrixOverlapForward(t *testing.T) {
	t.Parallel()
	// Shift a 2x3 matrix (ld=2) one column to the left within the same
	// backing array: dest starts before source, so a forward copy is safe.
	buf := []float64{99, 99, 1, 2, 3, 4, 5, 6}
	x := buf[2:8]
	y := buf[0:6]
	want := []float64{1, 2, 3, 4, 5, 6}

	CopyMatrix(x, 2, 3, 2, y, 2)
	for i, w := range want {
		if buf[i] != w {
			t.Fatalf("buf[%d] = %v, want %v", i, buf[i], w)
		}
	}
}

func TestCopyMatrixOverlapBackward(t *testing.T) {
	t.Parallel()
	// Shift a 2x3 matrix (ld=2) one column to the right: dest starts
	// after source and the ranges overlap, so the copy must go backward.
	buf := []float64{1, 2, 3, 4, 5, 6, 99, 99}
	x := buf[0:6]
	y := buf[2:8]
	want := []float64{1, 2, 3, 4, 5, 6}

	CopyMatrix(x, 2, 3, 2, y, 2)
	for i, w := range want {
		if buf[i+2] != w {
			t.Fatalf("buf[%d] = %v, want %v", i+2, buf[i+2], w)
		}
	}
}

func TestCopyMatrixZeroDims(t *testing.T) {
	t.Parallel()
	y := []float64{7, 8, 9}
	CopyMatrix(nil, 0, 0, 0, y, 0)
	for i, v := range []float64{7, 8, 9} {
		if y[i] != v {
			t.Fatalf("y[%d] = %v, want unchanged %v", i, y[i], v)
		}
	}
}
