// Package ring implements the RNS/NTT/CRT polynomial multiplication engine
// for the cyclotomic ring R = Z[X]/(X^N+1): projecting big-integer
// coefficient vectors onto a residue number system of NTT-friendly prime
// fields, transforming, doing pointwise work, and reconstructing
// big-integer coefficients via the Chinese Remainder Theorem.
//
// Everything outside this engine — key generation, ciphertext algebra,
// encoding, noise management, serialization — is an external collaborator
// that merely calls it.
package ring

import (
	"fmt"
	"math/big"
	"runtime"

	"golang.org/x/exp/slices"
)

// channelParams holds the immutable per-channel precomputation described in
// spec.md §3: the prime itself, its Barrett and Montgomery-style reduction
// constants, and its bit-reversed Montgomery-scaled twiddle tables.
type channelParams struct {
	p     uint64
	pInv  uint64 // -p^{-1} mod 2^64
	pr    uint64 // Barrett precompute
	twok  int
	fwd   []uint64 // ΨFwd, bit-reversed, Montgomery-scaled
	inv   []uint64 // ΨInv, bit-reversed, Montgomery-scaled
	nInv  uint64   // N^{-1}, Montgomery-scaled
}

// RNSBuffer is a caller-visible RNS-NTT buffer: np*N unsigned 64-bit
// residues, channel c occupying Data[c*N:(c+1)*N]. A buffer is either
// time-domain or NTT-domain; which one a given RNSBuffer holds is tracked
// by which Engine method produced or consumes it (spec.md §3), not by a
// field on the struct.
type RNSBuffer struct {
	NP   int
	N    int
	Data []uint64
}

// Channel returns the residue slice for channel c.
func (b *RNSBuffer) Channel(c int) []uint64 {
	return b.Data[c*b.N : (c+1)*b.N]
}

func newRNSBuffer(np, n int) *RNSBuffer {
	return &RNSBuffer{NP: np, N: n, Data: make([]uint64, np*n)}
}

// Engine is the public surface of the polynomial-multiplication core
// (spec.md §4.8): construction derives every immutable table once from
// (logN, logQ); every operation below allocates its own transient buffers
// and returns only once all parallel work has completed.
type Engine struct {
	LogN int
	N    int
	LogQ float64
	L    int // number of channel primes

	channels []channelParams
	primes   []uint64
	crt      *crtTables

	// NumWorkers bounds how many goroutines a parallel region may use.
	// Defaults to runtime.GOMAXPROCS(0). Read-only tables above are safe
	// to share across workers; each call's scratch buffers are private to
	// that call.
	NumWorkers int
}

// NewEngine constructs an Engine for ring degree N = 2^logN and a ciphertext
// modulus bit-length bound logQ. Fails with ErrBadParameters if logN < 1,
// logQ < 1, or the channel count it derives cannot be satisfied by the
// prime generator; fails with ErrNoRootOfUnity if a generated prime does
// not admit a primitive 2N-th root of unity (should not occur by
// construction, but is checked since the generator's correctness is part
// of this engine, not assumed).
func NewEngine(logN, logQ int) (*Engine, error) {
	if logN < 1 || logQ < 1 {
		return nil, fmt.Errorf("ring: logN=%d logQ=%d: %w", logN, logQ, ErrBadParameters)
	}
	return newEngine(logN, channelCount(logN, float64(logQ)), float64(logQ))
}

// NewEngineForModulus constructs an Engine for ring degree N = 2^logN,
// deriving the effective logQ from an explicit ciphertext modulus Q via an
// exact big-float log2 (see log2BigInt) rather than Q.BitLen(). This
// supplements NewEngine's signature from spec.md §6 for callers that hold
// an actual modulus rather than a planned bit-length bound.
func NewEngineForModulus(logN int, q *big.Int) (*Engine, error) {
	if logN < 1 || q == nil || q.Sign() <= 0 {
		return nil, fmt.Errorf("ring: invalid modulus: %w", ErrBadParameters)
	}
	logQ := log2BigInt(q)
	return newEngine(logN, channelCount(logN, logQ), logQ)
}

func newEngine(logN, l int, logQ float64) (*Engine, error) {
	if l < 1 {
		return nil, fmt.Errorf("ring: derived channel count %d: %w", l, ErrBadParameters)
	}

	n := 1 << uint(logN)
	twoN := uint64(n) << 1

	primes, err := generatePrimes(logN, l)
	if err != nil {
		return nil, fmt.Errorf("ring: generating %d channel primes for N=%d: %w", l, n, err)
	}

	channels := make([]channelParams, l)
	for i, p := range primes {
		psi, ok := mthRootOfUnity(twoN, p)
		if !ok {
			return nil, fmt.Errorf("ring: prime %d has no 2N-th root of unity for N=%d: %w", p, n, ErrNoRootOfUnity)
		}
		pr, twok := barrettParams(p)
		fwd, inv, nInv := buildTwiddleTables(psi, p, logN)
		channels[i] = channelParams{
			p:    p,
			pInv: invModPow2_64(p),
			pr:   pr,
			twok: twok,
			fwd:  fwd,
			inv:  inv,
			nInv: nInv,
		}
	}

	return &Engine{
		LogN:       logN,
		N:          n,
		LogQ:       logQ,
		L:          l,
		channels:   channels,
		primes:     primes,
		crt:        buildCRTTables(primes),
		NumWorkers: runtime.GOMAXPROCS(0),
	}, nil
}

func (e *Engine) validateNP(np int) error {
	if np < 1 || np > e.L {
		return fmt.Errorf("ring: np=%d outside [1,%d]: %w", np, e.L, ErrBadChannelCount)
	}
	return nil
}

// ToNTT projects a (length-N big.Int coefficients) into np RNS channels and
// forward-transforms each channel in place, returning a fresh NTT-domain
// RNSBuffer.
func (e *Engine) ToNTT(a []*big.Int, np int) (*RNSBuffer, error) {
	if err := e.validateNP(np); err != nil {
		return nil, err
	}
	rx := newRNSBuffer(np, e.N)
	e.projectAndForward(rx, a, np)
	return rx, nil
}

// projectAndForward projects a into the first np channels of rx and
// forward-transforms each channel in place; per-channel work is
// independent (disjoint [c*N,(c+1)*N) ranges), so it runs under
// parallelFor.
func (e *Engine) projectAndForward(rx *RNSBuffer, a []*big.Int, np int) {
	parallelFor(np, e.NumWorkers, func(lo, hi int) {
		for c := lo; c < hi; c++ {
			ch := e.channels[c]
			slot := rx.Channel(c)
			crtProject(slot, a, ch.p)
			forwardNTT(slot, ch.fwd, ch.p, ch.pInv)
		}
	})
}

// inverseAndReconstruct inverse-transforms rx's first np channels in place
// and reconstructs big.Int coefficients into x via the CRT, reduced and
// centered into (-q/2, q/2].
//
// InsufficientBound (spec.md §7): this does not verify that the caller's
// operand magnitudes are within the reconstruction bound for np; choosing
// np too small for N·‖a‖·‖b‖ silently yields an incorrect centered
// representative. Use Engine.ChannelMarginStats to pick np with margin.
func (e *Engine) inverseAndReconstruct(x []*big.Int, rx *RNSBuffer, np int, q *big.Int) {
	parallelFor(np, e.NumWorkers, func(lo, hi int) {
		for c := lo; c < hi; c++ {
			ch := e.channels[c]
			inverseNTT(rx.Channel(c), ch.inv, ch.nInv, ch.p, ch.pInv)
		}
	})
	crtReconstruct(x, rx.Data, np, e.N, e.primes, e.crt, q, e.NumWorkers)
}

// FromNTT inverse-transforms an NTT-domain buffer and reconstructs
// big-integer coefficients via the CRT, reduced and centered into
// (-Q/2, Q/2]. It does not mutate rx: the inverse transform runs on a
// private copy, so rx remains usable by the caller afterward (the
// value-preserving convention spec.md §4.8 states for every engine
// operation). This is the "fromNTT" referenced by spec.md §8's addition-
// compatibility property; it has no entry of its own in the §4.8 table
// because every other operation already folds it into reconstruction, but
// AddNTT's result is otherwise only observable by pairing it with this.
func (e *Engine) FromNTT(rx *RNSBuffer, q *big.Int) ([]*big.Int, error) {
	if err := e.validateNP(rx.NP); err != nil {
		return nil, err
	}
	work := &RNSBuffer{NP: rx.NP, N: rx.N, Data: slices.Clone(rx.Data)}
	x := allocPoly(e.N)
	e.inverseAndReconstruct(x, work, rx.NP, q)
	return x, nil
}

func (e *Engine) pointwiseMul(dst, a, b *RNSBuffer, np int) {
	parallelFor(np, e.NumWorkers, func(lo, hi int) {
		for c := lo; c < hi; c++ {
			ch := e.channels[c]
			pointMul(dst.Channel(c), a.Channel(c), b.Channel(c), ch.p, ch.pr, ch.twok)
		}
	})
}

func allocPoly(n int) []*big.Int {
	out := make([]*big.Int, n)
	for i := range out {
		out[i] = new(big.Int)
	}
	return out
}

// Multiply returns x = a*b mod (X^N+1, Q), reduced and centered into
// (-Q/2, Q/2].
func (e *Engine) Multiply(a, b []*big.Int, np int, q *big.Int) ([]*big.Int, error) {
	if err := e.validateNP(np); err != nil {
		return nil, err
	}
	ra := newRNSBuffer(np, e.N)
	rb := newRNSBuffer(np, e.N)
	e.projectAndForward(ra, a, np)
	e.projectAndForward(rb, b, np)

	rx := newRNSBuffer(np, e.N)
	e.pointwiseMul(rx, ra, rb, np)

	x := allocPoly(e.N)
	e.inverseAndReconstruct(x, rx, np, q)
	return x, nil
}

// MultiplyInPlace sets a = a*b mod (X^N+1, Q).
func (e *Engine) MultiplyInPlace(a, b []*big.Int, np int, q *big.Int) error {
	x, err := e.Multiply(a, b, np, q)
	if err != nil {
		return err
	}
	copy(a, x)
	return nil
}

// MultiplyPreNTT returns x = a*b mod (X^N+1, Q), where rb is an NTT-domain
// buffer already produced by ToNTT with the same np.
func (e *Engine) MultiplyPreNTT(a []*big.Int, rb *RNSBuffer, np int, q *big.Int) ([]*big.Int, error) {
	if err := e.validateNP(np); err != nil {
		return nil, err
	}
	ra := newRNSBuffer(np, e.N)
	e.projectAndForward(ra, a, np)

	rx := newRNSBuffer(np, e.N)
	e.pointwiseMul(rx, ra, rb, np)

	x := allocPoly(e.N)
	e.inverseAndReconstruct(x, rx, np, q)
	return x, nil
}

// MultiplyInPlacePreNTT sets a = a*b, where rb is a pre-transformed operand.
func (e *Engine) MultiplyInPlacePreNTT(a []*big.Int, rb *RNSBuffer, np int, q *big.Int) error {
	x, err := e.MultiplyPreNTT(a, rb, np, q)
	if err != nil {
		return err
	}
	copy(a, x)
	return nil
}

// MultiplyBothNTT returns x = a*b mod (X^N+1, Q), where both ra and rb are
// pre-transformed operands produced by ToNTT with the same np.
func (e *Engine) MultiplyBothNTT(ra, rb *RNSBuffer, np int, q *big.Int) ([]*big.Int, error) {
	if err := e.validateNP(np); err != nil {
		return nil, err
	}
	rx := newRNSBuffer(np, e.N)
	e.pointwiseMul(rx, ra, rb, np)

	x := allocPoly(e.N)
	e.inverseAndReconstruct(x, rx, np, q)
	return x, nil
}

// AddNTT returns rc = ra + rb, channelwise mod p_c, in the NTT domain. ra
// and rb must share the same NP and N.
func (e *Engine) AddNTT(ra, rb *RNSBuffer) (*RNSBuffer, error) {
	if ra.NP != rb.NP || ra.N != rb.N {
		return nil, fmt.Errorf("ring: mismatched RNS buffers (%d,%d) vs (%d,%d)", ra.NP, ra.N, rb.NP, rb.N)
	}
	if err := e.validateNP(ra.NP); err != nil {
		return nil, err
	}
	rc := newRNSBuffer(ra.NP, ra.N)
	parallelFor(ra.NP, e.NumWorkers, func(lo, hi int) {
		for c := lo; c < hi; c++ {
			pointAdd(rc.Channel(c), ra.Channel(c), rb.Channel(c), e.channels[c].p)
		}
	})
	return rc, nil
}

// Square returns x = a*a mod (X^N+1, Q).
func (e *Engine) Square(a []*big.Int, np int, q *big.Int) ([]*big.Int, error) {
	if err := e.validateNP(np); err != nil {
		return nil, err
	}
	ra := newRNSBuffer(np, e.N)
	e.projectAndForward(ra, a, np)

	rx := newRNSBuffer(np, e.N)
	e.pointwiseMul(rx, ra, ra, np)

	x := allocPoly(e.N)
	e.inverseAndReconstruct(x, rx, np, q)
	return x, nil
}

// SquareInPlace sets a = a*a mod (X^N+1, Q).
func (e *Engine) SquareInPlace(a []*big.Int, np int, q *big.Int) error {
	x, err := e.Square(a, np, q)
	if err != nil {
		return err
	}
	copy(a, x)
	return nil
}

// SquarePreNTT returns x = a*a mod (X^N+1, Q), where ra is a pre-transformed
// operand produced by ToNTT.
func (e *Engine) SquarePreNTT(ra *RNSBuffer, np int, q *big.Int) ([]*big.Int, error) {
	if err := e.validateNP(np); err != nil {
		return nil, err
	}
	rx := newRNSBuffer(np, e.N)
	e.pointwiseMul(rx, ra, ra, np)

	x := allocPoly(e.N)
	e.inverseAndReconstruct(x, rx, np, q)
	return x, nil
}
