// Package ringtest provides deterministic random-polynomial generation for
// tests and benchmarks of the ring package. It is test/bench support only:
// nothing in package ring imports it, and it never sits on the engine's
// arithmetic path.
package ringtest

import (
	"encoding/binary"
	"math/big"

	"golang.org/x/crypto/blake2b"
)

// UniformSampler deterministically draws []*big.Int polynomials with
// coefficients uniform in [0, bound), seeded by a caller-supplied key. This
// mirrors the structure of the teacher's own keyed-PRNG sampler
// (ring/prng.go, ring/sampler_uniform.go): a keyed hash function run in
// counter mode rather than crypto/rand, so property tests and benchmarks
// get reproducible vectors across runs.
type UniformSampler struct {
	key     [32]byte
	counter uint64
}

// NewUniformSampler creates a sampler seeded by seed (hashed into a fixed
// 256-bit key with blake2b, the teacher's own hashing dependency via
// golang.org/x/crypto).
func NewUniformSampler(seed string) *UniformSampler {
	return &UniformSampler{key: blake2b.Sum256([]byte(seed))}
}

// next returns the next 32 bytes of keystream.
func (s *UniformSampler) next() []byte {
	h, err := blake2b.New256(s.key[:])
	if err != nil {
		panic(err) // 256-bit key is always valid for blake2b.New256
	}
	var ctr [8]byte
	binary.LittleEndian.PutUint64(ctr[:], s.counter)
	s.counter++
	h.Write(ctr[:])
	return h.Sum(nil)
}

// Sample returns a length-n polynomial with coefficients uniform in
// [0, bound).
func (s *UniformSampler) Sample(n int, bound *big.Int) []*big.Int {
	out := make([]*big.Int, n)
	for i := range out {
		raw := new(big.Int).SetBytes(s.next())
		out[i] = raw.Mod(raw, bound)
	}
	return out
}

// SampleCentered returns a length-n polynomial with coefficients uniform in
// (-bound/2, bound/2], the centered-remainder convention the engine's
// outputs use.
func (s *UniformSampler) SampleCentered(n int, bound *big.Int) []*big.Int {
	half := new(big.Int).Rsh(bound, 1)
	out := s.Sample(n, bound)
	for _, c := range out {
		if c.Cmp(half) > 0 {
			c.Sub(c, bound)
		}
	}
	return out
}
