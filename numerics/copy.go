package numerics

import "unsafe"

// CopyMatrix copies the m x n column-major matrix x (leading dimension ldx)
// into y (leading dimension ldy), correctly whether the two overlap:
// destination to the left of source (copy forward), destination to the
// right with a stride exceeding the row count (copy backward), the same row
// run (a straight memmove), or disjoint storage. Mirrors
// Num_copy_matrix_dprimme (spec.md §4.1, §8 round-trip property).
func CopyMatrix(x []float64, m, n, ldx int, y []float64, ldy int) {
	if m == 0 || n == 0 {
		return
	}
	if len(x) == 0 || len(y) == 0 {
		return
	}
	// Same underlying column run (x and y identical): nothing to do.
	if &x[0] == &y[0] && ldx == ldy {
		return
	}

	overlapping := rangesOverlap(x, y)
	xBeforeY := false
	if overlapping {
		xBeforeY = addr(x) < addr(y)
	}

	switch {
	case !overlapping:
		copyForward(x, m, n, ldx, y, ldy)
	case xBeforeY:
		// Destination starts after source: copying forward would
		// clobber not-yet-read source columns, so go backward.
		copyBackward(x, m, n, ldx, y, ldy)
	default:
		copyForward(x, m, n, ldx, y, ldy)
	}
}

func copyForward(x []float64, m, n, ldx int, y []float64, ldy int) {
	for j := 0; j < n; j++ {
		copy(y[j*ldy:j*ldy+m], x[j*ldx:j*ldx+m])
	}
}

func copyBackward(x []float64, m, n, ldx int, y []float64, ldy int) {
	for j := n - 1; j >= 0; j-- {
		copy(y[j*ldy:j*ldy+m], x[j*ldx:j*ldx+m])
	}
}

func addr(s []float64) uintptr {
	if len(s) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&s[0]))
}

func rangesOverlap(a, b []float64) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	aStart, aEnd := addr(a), addr(a)+uintptr(len(a))*8
	bStart, bEnd := addr(b), addr(b)+uintptr(len(b))*8
	return aStart < bEnd && bStart < aEnd
}
