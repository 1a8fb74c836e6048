package ring

import "math/big"

// This file implements CrtProject and CrtReconstruct (spec.md §4.5, §4.7).

// crtProject reduces a coefficient vector x (length N, big.Int, caller
// owns) into a single channel's residues mod p, writing into dst.
func crtProject(dst []uint64, x []*big.Int, p uint64) {
	pBig := new(big.Int).SetUint64(p)
	var r big.Int
	for n, xn := range x {
		r.Mod(xn, pBig)
		dst[n] = r.Uint64()
	}
}

// crtTables holds, per level l = np-1, the CRT reconstruction
// precomputation described in spec.md §3: pProd_l, pProdh_l, pHat_l[j] for
// j <= l, and pHatInv_l[j] = (pHat_l[j] mod p_j)^{-1} mod p_j.
type crtTables struct {
	pProd   []*big.Int   // pProd[l] = Π_{i<=l} p_i
	pProdh  []*big.Int   // pProdh[l] = pProd[l] / 2
	pHat    [][]*big.Int // pHat[l][j] = pProd[l] / p_j, for j <= l
	pHatInv [][]uint64   // pHatInv[l][j] = (pHat[l][j] mod p_j)^{-1} mod p_j
}

// buildCRTTables computes the full level-indexed CRT table set for the
// given channel primes, mirroring the nested construction in the C++
// original's RingMultiplier constructor.
func buildCRTTables(primes []uint64) *crtTables {
	l := len(primes)
	t := &crtTables{
		pProd:   make([]*big.Int, l),
		pProdh:  make([]*big.Int, l),
		pHat:    make([][]*big.Int, l),
		pHatInv: make([][]uint64, l),
	}

	for i := 0; i < l; i++ {
		if i == 0 {
			t.pProd[i] = new(big.Int).SetUint64(primes[i])
		} else {
			t.pProd[i] = new(big.Int).Mul(t.pProd[i-1], new(big.Int).SetUint64(primes[i]))
		}
		t.pProdh[i] = new(big.Int).Rsh(t.pProd[i], 1)

		t.pHat[i] = make([]*big.Int, i+1)
		t.pHatInv[i] = make([]uint64, i+1)
		for j := 0; j <= i; j++ {
			hat := big.NewInt(1)
			for k := 0; k <= i; k++ {
				if k == j {
					continue
				}
				hat.Mul(hat, new(big.Int).SetUint64(primes[k]))
			}
			t.pHat[i][j] = hat

			pj := primes[j]
			hatModPj := new(big.Int).Mod(hat, new(big.Int).SetUint64(pj)).Uint64()
			t.pHatInv[i][j] = invMod(hatModPj, pj)
		}
	}
	return t
}

// crtReconstruct recovers big.Int coefficients x[n] from np channels of
// time-domain residues (channel c's slice at rx[c*N:(c+1)*N]), centers the
// result into (-pProd_{np-1}/2, pProd_{np-1}/2], then reduces into the
// caller-supplied modulus Q. x must already hold N allocated *big.Int
// destinations.
func crtReconstruct(x []*big.Int, rx []uint64, np int, n int, primes []uint64, t *crtTables, q *big.Int, workers int) {
	level := np - 1
	pHat := t.pHat[level]
	pHatInv := t.pHatInv[level]
	pProd := t.pProd[level]
	pProdh := t.pProdh[level]

	qHalf := new(big.Int).Rsh(q, 1)

	parallelFor(n, workers, func(lo, hi int) {
		acc := new(big.Int)
		term := new(big.Int)
		for idx := lo; idx < hi; idx++ {
			acc.SetInt64(0)
			for c := 0; c < np; c++ {
				p := primes[c]
				s := mulMod(rx[c*n+idx], pHatInv[c], p)
				term.Mul(pHat[c], new(big.Int).SetUint64(s))
				acc.Add(acc, term)
			}
			acc.Mod(acc, pProd)
			if acc.Cmp(pProdh) > 0 {
				acc.Sub(acc, pProd)
			}

			// Step 5: reduce the (possibly negative) centered acc modulo
			// the caller's Q, then re-center into (-Q/2, Q/2] using the
			// same ">" convention as step 4.
			if x[idx] == nil {
				x[idx] = new(big.Int)
			}
			r := x[idx]
			r.Mod(acc, q)
			if r.Cmp(qHalf) > 0 {
				r.Sub(r, q)
			}
		}
	})
}
