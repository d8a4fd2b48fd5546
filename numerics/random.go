package numerics

// Larnv generates n uniform(-1,1) pseudo-random reals into dst, advancing
// iseed deterministically, mirroring LAPACK's DLARNV(idist=2, ...) contract
// used throughout the original (Num_larnv_dprimme): iseed's four entries
// each lie in [0,4095] and the last is odd.
func Larnv(iseed *[4]int, dst []float64) {
	const (
		m1 = 494
		m2 = 322
		m3 = 2508
		m4 = 2549
	)
	it1, it2, it3, it4 := iseed[0], iseed[1], iseed[2], iseed[3]
	for i := range dst {
		// 48-bit combined linear congruential step, carried as four
		// 12-bit digits the way DLARUV advances its seed.
		it4 = (it4*m4 + 1) % 4096
		it3 = (it3*m3 + it4) % 4096
		it2 = (it2*m2 + it3) % 4096
		it1 = (it1*m1 + it2) % 4096

		u := (float64(it1)*4096.0*4096.0*4096.0 + float64(it2)*4096.0*4096.0 + float64(it3)*4096.0 + float64(it4)) / (4096.0 * 4096.0 * 4096.0 * 4096.0)
		dst[i] = 2*u - 1
	}
	iseed[0], iseed[1], iseed[2], iseed[3] = it1, it2, it3, it4|1
}

// NormalizeISeed remaps an iseed whose entries fall outside [0,4095], or
// whose last entry is even, into a valid deterministic seed derived from
// procID (spec.md §8 boundary behaviors).
func NormalizeISeed(iseed [4]int, procID int) [4]int {
	out := iseed
	valid := true
	for _, v := range iseed {
		if v < 0 || v > 4095 {
			valid = false
		}
	}
	if iseed[3]%2 == 0 {
		valid = false
	}
	if valid {
		return out
	}
	base := 1 + procID*4
	out = [4]int{(base * 37) % 4096, (base * 101) % 4096, (base * 709) % 4096, ((base*1237)%4096)| 1}
	return out
}
