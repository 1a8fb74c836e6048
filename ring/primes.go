package ring

import (
	"fmt"

	"github.com/zeebo/blake3"
)

// primeBits is the fixed bit-width of every channel prime (spec.md §2, §4.2).
const primeBits = 60

// maxLogN is the largest ring degree (log2 N) bakedPrimes60 serves. Every
// entry is ≡ 1 (mod 2^17), the congruence the teacher's own Pi60 table
// (ring/primes.go) documents as "allowing NTT for N = 65536"; since 2N
// divides 2^17 for every power-of-two N up to 65536, the same fixed table
// already satisfies p ≡ 1 (mod 2N) for any smaller supported N too, with no
// per-N search needed.
const maxLogN = 16

// bakedPrimes60 is the teacher's own Pi60 table (ring/primes.go), reused
// verbatim: a fixed, compiled-in list of 60-bit primes p ≡ 1 (mod 2^17), no
// runtime search, exactly the "PrimeTable ... No runtime prime search"
// contract spec.md §4.2 describes (mirroring the C++ original's
// pPrimesVec/Pi60/Qi60 compiled-in lists).
var bakedPrimes60 = []uint64{
	576460752308273153, 576460752315482113, 576460752319021057, 576460752319414273, 576460752321642497,
	576460752325705729, 576460752328327169, 576460752329113601, 576460752329506817, 576460752329900033,
	576460752331210753, 576460752337502209, 576460752340123649, 576460752342876161, 576460752347201537,
	576460752347332609, 576460752352837633, 576460752354017281, 576460752355065857, 576460752355459073,
	576460752358604801, 576460752364240897, 576460752368435201, 576460752371187713, 576460752373547009,
	576460752374333441, 576460752376692737, 576460752378003457, 576460752378396673, 576460752380755969,
	576460752381411329, 576460752386129921, 576460752395173889, 576460752395960321, 576460752396091393,
	576460752396484609, 576460752399106049, 576460752405135361, 576460752405921793, 576460752409722881,
	576460752410116097, 576460752411033601, 576460752412082177, 576460752416145409, 576460752416931841,
	576460752421257217, 576460752427548673, 576460752429514753, 576460752435281921, 576460752437248001,
	576460752438558721, 576460752441966593, 576460752449044481, 576460752451141633, 576460752451534849,
	576460752462938113, 576460752465952769, 576460752468705281, 576460752469491713, 576460752472375297,
	576460752473948161, 576460752475389953, 576460752480894977, 576460752483254273, 576460752484827137,
	576460752486793217, 576460752486924289, 576460752492691457, 576460752498589697, 576460752498720769,
	576460752499507201, 576460752504225793, 576460752505405441, 576460752507240449, 576460752507764737,
	576460752509206529, 576460752510124033, 576460752510779393, 576460752511959041, 576460752514449409,
	576460752516284417, 576460752519168001, 576460752520347649, 576460752520609793, 576460752522969089,
	576460752523100161, 576460752524279809, 576460752525852673, 576460752526245889, 576460752526508033,
	576460752532013057, 576460752545120257, 576460752550100993, 576460752551804929, 576460752567402497,
	576460752568975361, 576460752573431809, 576460752580902913, 576460752585490433, 576460752586407937,
}

// generatePrimes returns the first count entries of bakedPrimes60 for a ring
// degree N = 2^logN, a plain slice of the compiled-in table with no search:
// since every entry already satisfies p ≡ 1 (mod 2^17) and 2N divides 2^17
// for logN <= maxLogN, the slice is valid for every supported N without
// per-construction filtering or primality testing.
func generatePrimes(logN int, count int) ([]uint64, error) {
	if logN < 1 || logN > maxLogN {
		return nil, fmt.Errorf("ring: logN=%d outside [1,%d] served by the baked prime table: %w", logN, maxLogN, ErrBadParameters)
	}
	if count < 1 || count > len(bakedPrimes60) {
		return nil, fmt.Errorf("ring: requested %d channel primes but only %d are baked: %w", count, len(bakedPrimes60), ErrBadParameters)
	}
	primes := make([]uint64, count)
	copy(primes, bakedPrimes60[:count])
	return primes, nil
}

// PrimeTableFingerprint returns a content hash identifying a compiled
// channel-prime table. Per spec.md §6, "Changing it changes the engine's
// wire-compatible identity" — two engines are interoperable only if their
// prime tables (and hence their RNS bases) match exactly. blake3 is the
// teacher's own hashing dependency (github.com/zeebo/blake3); this is the
// one place in the engine where a cryptographic hash is the natural tool,
// since the fingerprint is meant to be collision-resistant across
// parameter sets, not just distinguishing by accident.
func PrimeTableFingerprint(primes []uint64) [32]byte {
	h := blake3.New()
	buf := make([]byte, 8)
	for _, p := range primes {
		for i := 0; i < 8; i++ {
			buf[i] = byte(p >> (8 * uint(i)))
		}
		h.Write(buf)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
