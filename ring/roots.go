package ring

import "math/big"

// This file implements Roots (spec.md §4.3): primitive-root search and
// Montgomery-scaled, bit-reversed twiddle-factor tables for the forward
// and inverse NTT.

// factorize returns the distinct prime factors of n, via trial division.
// Grounded directly on the C++ original's findPrimeFactors and mirrored by
// ring.PrimitiveRoot's own factors slice (table.go), just deduplicated
// since only distinct factors are needed to test candidate primitive
// roots.
func factorize(n uint64) []uint64 {
	var factors []uint64
	for n%2 == 0 {
		factors = append(factors, 2)
		n /= 2
		for n%2 == 0 {
			n /= 2
		}
	}
	for d := uint64(3); d*d <= n; d += 2 {
		if n%d == 0 {
			factors = append(factors, d)
			for n%d == 0 {
				n /= d
			}
		}
	}
	if n > 1 {
		factors = append(factors, n)
	}
	return factors
}

// primitiveRoot finds the smallest primitive root of F_p by factoring p-1
// and testing candidates r = 2, 3, ... for g^((p-1)/q) != 1 for every prime
// factor q of p-1, exactly the search in the C++ original's
// findPrimitiveRoot (and the equivalent loop in ring.PrimitiveRoot).
func primitiveRoot(p uint64) uint64 {
	phi := p - 1
	factors := factorize(phi)
	for r := uint64(2); r < p; r++ {
		isRoot := true
		for _, q := range factors {
			if powMod(r, phi/q, p) == 1 {
				isRoot = false
				break
			}
		}
		if isRoot {
			return r
		}
	}
	return 0
}

// mthRootOfUnity returns a primitive M-th root of unity mod p, where
// M = 2N, given that p ≡ 1 (mod M). Returns (0, false) otherwise, the
// channel-construction trigger for ErrNoRootOfUnity.
func mthRootOfUnity(m uint64, p uint64) (uint64, bool) {
	if (p-1)%m != 0 {
		return 0, false
	}
	g := primitiveRoot(p)
	factor := (p - 1) / m
	return powMod(g, factor, p), true
}

// toMontgomery64 computes x * 2^64 mod p exactly via math/big. Table
// construction runs once per channel at Engine construction, so exactness
// via math/big is preferred over the C++ original's double-by-2^32 trick
// (which exists there only because that codebase had no native 128-bit
// multiply); Go's math/big gives the same Montgomery-form value directly.
func toMontgomery64(x, p uint64) uint64 {
	r := new(big.Int).Lsh(new(big.Int).SetUint64(x), 64)
	r.Mod(r, new(big.Int).SetUint64(p))
	return r.Uint64()
}

// buildTwiddleTables fills ΨFwd and ΨInv in bit-reversed order, each scaled
// into Montgomery form by 2^64 mod p, and returns the Montgomery-scaled
// N^{-1} used to close out the inverse transform. Implements spec.md §3's
// invariant ΨFwd[bitreverse(k)] = psi^k · 2^64 mod p for k in [0, N).
func buildTwiddleTables(psi uint64, p uint64, logN int) (fwd, inv []uint64, nInv uint64) {
	n := 1 << uint(logN)
	fwd = make([]uint64, n)
	inv = make([]uint64, n)

	psiInv := invMod(psi, p)

	power := uint64(1)
	powerInv := uint64(1)
	for j := 0; j < n; j++ {
		jPrime := bitReverse(uint32(j), logN)
		fwd[jPrime] = toMontgomery64(power, p)
		inv[jPrime] = toMontgomery64(powerInv, p)
		power = mulMod(power, psi, p)
		powerInv = mulMod(powerInv, psiInv, p)
	}

	// nInv = N^{-1} · 2^64 mod p: the Montgomery-form factor consumed
	// once by the same MRed-style reduction used to close out INTT (see
	// ntt.go's inverseNTT final loop). The C++ original computes this same
	// single 2^64 scaling via two multiplications by 2^32 (it has no
	// native 2^64 operand); math/big gets there directly.
	nInvPlain := invMod(uint64(n), p)
	nInv = toMontgomery64(nInvPlain, p)
	return
}
