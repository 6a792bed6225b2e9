package jpeg

import "math"

// zigzagOrder maps a coefficient's position in the transmitted
// (zigzag) order to its natural row-major index in an 8x8 block
// (spec.md glossary, "Zigzag order").
var zigzagOrder = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// idctCos[x][u] = cos((2x+1)*u*pi/16), precomputed once per process.
var idctCos [8][8]float64

// idctC[u] is the normalization coefficient c_u from spec.md §4.F step 6:
// 1/sqrt(2) for u=0, 1 otherwise.
var idctC [8]float64

func init() {
	for x := 0; x < 8; x++ {
		for u := 0; u < 8; u++ {
			idctCos[x][u] = math.Cos(float64(2*x+1) * float64(u) * math.Pi / 16)
		}
	}
	idctC[0] = 1 / math.Sqrt2
	for u := 1; u < 8; u++ {
		idctC[u] = 1
	}
}

// extend implements JPEG's sign-extension rule (spec.md §4.F step 1/3):
// a T-bit raw value v whose high bit is 0 represents a negative
// magnitude in the range [-(2^T-1), -2^(T-1)].
func extend(v uint32, t int) int {
	if t == 0 {
		return 0
	}
	vt := int32(1) << uint(t-1)
	sv := int32(v)
	if sv < vt {
		return int(sv - (1<<uint(t) - 1))
	}
	return int(sv)
}
