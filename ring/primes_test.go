package ring

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeneratePrimesCongruenceAndPrimality(t *testing.T) {
	for _, logN := range []int{4, 8, 12} {
		primes, err := generatePrimes(logN, 4)
		require.NoError(t, err)
		require.Len(t, primes, 4)

		twoN := uint64(1) << uint(logN+1)
		seen := make(map[uint64]bool)
		for _, p := range primes {
			require.Equalf(t, uint64(1), p%twoN, "p=%d not ≡ 1 mod 2N for logN=%d", p, logN)
			require.Truef(t, new(big.Int).SetUint64(p).ProbablyPrime(20), "p=%d is not prime", p)
			require.GreaterOrEqual(t, p, uint64(1)<<(primeBits-1))
			require.Less(t, p, uint64(1)<<primeBits)
			require.Falsef(t, seen[p], "duplicate prime %d", p)
			seen[p] = true
		}
	}
}

func TestPrimeTableFingerprintDeterministicAndSensitive(t *testing.T) {
	a, err := generatePrimes(10, 3)
	require.NoError(t, err)
	b, err := generatePrimes(10, 3)
	require.NoError(t, err)
	require.Equal(t, a, b, "prime generation must be a deterministic function of (logN, count)")

	fa := PrimeTableFingerprint(a)
	fb := PrimeTableFingerprint(b)
	require.Equal(t, fa, fb)

	c, err := generatePrimes(10, 4)
	require.NoError(t, err)
	fc := PrimeTableFingerprint(c)
	require.NotEqual(t, fa, fc, "a different channel count must fingerprint differently")
}

func TestGeneratePrimesRejectsOutOfRange(t *testing.T) {
	_, err := generatePrimes(maxLogN+1, 1)
	require.ErrorIs(t, err, ErrBadParameters)

	_, err = generatePrimes(8, len(bakedPrimes60)+1)
	require.ErrorIs(t, err, ErrBadParameters)
}
