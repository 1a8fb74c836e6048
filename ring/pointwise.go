package ring

// This file implements PointMul/PointAdd (spec.md §4.6): elementwise
// operations on matching (channel, index) pairs in the NTT domain.

// pointMul multiplies a and b channelwise using Barrett reduction, writing
// the result into dst (which may alias a or b).
func pointMul(dst, a, b []uint64, p, pr uint64, twok int) {
	for n := range dst {
		dst[n] = mulModBarrett(a[n], b[n], p, pr, twok)
	}
}

// pointAdd adds a and b channelwise with a single conditional subtraction
// of p, writing the result into dst (which may alias a or b).
func pointAdd(dst, a, b []uint64, p uint64) {
	for n := range dst {
		s := a[n] + b[n]
		if s >= p {
			s -= p
		}
		dst[n] = s
	}
}
