package ring

import (
	"math/big"
	"math/bits"
)

// This file implements ModArith: the 64-bit modular building blocks used by
// every other component. Two reduction strategies coexist, matching the
// rationale in spec.md §4.1: Barrett reduction (mulModBarrett) for generic
// pointwise multiplies where neither operand has a fixed pre-scaling, and a
// Montgomery-flavored reduction (via invModPow2_64) for the NTT butterfly,
// where the twiddle factor is stored pre-scaled by 2^64.

// mulMod returns a*b mod m for an arbitrary modulus m, using a 128-bit
// intermediate product. This is not on the NTT hot path — it backs table
// construction and primitive-root search — so it is implemented with
// math/big for exactness, the same way ring.BRedParams itself falls back
// to math/big for its one-time precompute rather than hand-rolled 128-bit
// division.
func mulMod(a, b, m uint64) uint64 {
	var prod, mod big.Int
	prod.Mul(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
	mod.SetUint64(m)
	prod.Mod(&prod, &mod)
	return prod.Uint64()
}

// mulModBarrett returns a*b mod p via the Barrett sequence described in
// spec.md §4.1: form the 128-bit product u = a*b, approximate the quotient
// q = floor(u*pr / 2^twok) using two 64x64->128 steps that consume the low
// and high halves of u separately, then return u - q*p with one
// conditional subtraction. Correct provided a, b < p and pr, twok satisfy
// the BarrettParams precompute identity (see barrettParams below).
func mulModBarrett(a, b, p, pr uint64, twok int) uint64 {
	uHi, uLo := bits.Mul64(a, b)

	loHi, _ := bits.Mul64(uLo, pr)
	hiHi, hiLo := bits.Mul64(uHi, pr)

	sumLo, carry := bits.Add64(hiLo, loHi, 0)
	sumHi := hiHi + carry

	shift := uint(twok - 64)
	var q uint64
	if shift == 0 {
		q = sumLo
	} else {
		q = (sumHi << (64 - shift)) | (sumLo >> shift)
	}

	qpHi, qpLo := bits.Mul64(q, p)
	rLo, borrow := bits.Sub64(uLo, qpLo, 0)
	_ = uHi - qpHi - borrow // high word of (u - q*p); zero for valid inputs

	r := rLo
	if r >= p {
		r -= p
	}
	return r
}

// barrettParams computes (pr, twok) for modulus p: twok = 2*(floor(log2 p)+1),
// pr = floor(2^twok / p). Uses math/big for the one-time division, matching
// BRedParams's own use of math/big in the teacher's modular_reduction.go.
func barrettParams(p uint64) (pr uint64, twok int) {
	twok = 2 * (bits.Len64(p))
	num := new(big.Int).Lsh(big.NewInt(1), uint(twok))
	q := new(big.Int).Quo(num, new(big.Int).SetUint64(p))
	return q.Uint64(), twok
}

// powMod returns x^y mod modulus by square-and-multiply.
func powMod(x, y, modulus uint64) uint64 {
	res := uint64(1)
	x %= modulus
	for y > 0 {
		if y&1 == 1 {
			res = mulMod(res, x, modulus)
		}
		y >>= 1
		x = mulMod(x, x, modulus)
	}
	return res
}

// invMod returns the multiplicative inverse of x mod a prime modulus via
// Fermat's little theorem: x^(m-2) mod m.
func invMod(x, m uint64) uint64 {
	return powMod(x, m-2, m)
}

// invModPow2_64 computes -p^{-1} mod 2^64 for odd p, the pInv used by the NTT
// butterfly's Montgomery-style reduction (spec.md §3, §4.4).
//
// The C++ original computes this as pow(x, uint64(-1)), documented in
// spec.md §9 as the open question "overflow in pow(x,-1)": (Z/2^64)* has
// order 2^63, and for odd x, x^(2^64-1) = x^(2^63-1) = x^{-1} in that group,
// so the wraparound in the exponent is not a bug — 2^64-1 is computed via
// unsigned overflow but is congruent to -1 in the exponent group
// regardless. Rather than replicate that (in Go, an untyped 2^64-1
// constant overflows uint64 and there is no implicit wraparound in
// exponent arithmetic the way C's `(uint64_t)-1` gives one), this computes
// the same value with the iterative doubling used by the teacher's own
// MRedParams in modular_reduction.go: 63 rounds of qInv *= x; x *= x, which
// is Newton-Hensel lifting of the inverse of an odd number mod 2^64 and
// needs no signed/unsigned overflow trick at all.
func invModPow2_64(p uint64) uint64 {
	var qInv, x uint64 = 1, p
	for i := 0; i < 63; i++ {
		qInv *= x
		x *= x
	}
	return -qInv
}

// bitReverse32 reverses the bits of the low 32 bits of x.
func bitReverse32(x uint32) uint32 {
	x = (x&0xaaaaaaaa)>>1 | (x&0x55555555)<<1
	x = (x&0xcccccccc)>>2 | (x&0x33333333)<<2
	x = (x&0xf0f0f0f0)>>4 | (x&0x0f0f0f0f)<<4
	x = (x&0xff00ff00)>>8 | (x&0x00ff00ff)<<8
	return x>>16 | x<<16
}

// bitReverse returns the logN-bit bit-reversal of x (0 <= x < 1<<logN).
func bitReverse(x uint32, logN int) uint32 {
	return bitReverse32(x) >> (32 - uint(logN))
}
