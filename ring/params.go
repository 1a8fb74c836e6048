package ring

import (
	"math"
	"math/big"

	"github.com/ALTree/bigfloat"
)

// channelCount returns L = ceil((2 + logN + 4*logQ) / 59), the number of
// channel primes spec.md §3 requires so that Π p_i > 2^bound. Every channel
// prime is a primeBits-bit value, so only p_i > 2^(primeBits-1) is
// guaranteed; the divisor is therefore primeBits-1.
func channelCount(logN int, logQ float64) int {
	bound := 2 + float64(logN) + 4*logQ
	return int(math.Ceil(bound / float64(primeBits-1)))
}

// log2BigInt returns an exact (non-bit-length-truncated) base-2 logarithm
// of a positive arbitrary-precision integer, using ALTree/bigfloat's
// Log2 over an arbitrary-precision float. Q.BitLen() only gives
// floor(log2(Q))+1 as an integer; when deriving the channel count from an
// actual caller-supplied Q (NewEngineForModulus) rather than a caller-given
// logQ bound, the fractional part matters because the bound
// "2 + logN + 4*logQ" is multiplied by 4 before the ceiling is taken, so a
// bit-length over-estimate of logQ can cost an entire extra channel prime.
func log2BigInt(q *big.Int) float64 {
	f := new(big.Float).SetPrec(uint(q.BitLen()) + 64).SetInt(q)
	lg := bigfloat.Log2(f)
	v, _ := lg.Float64()
	return v
}
