package ring

import "errors"

// Error taxonomy for the engine. Every error below is a programmer-error:
// the engine is infallible on valid inputs, and all errors surface at a
// construction or call-entry boundary rather than being recovered from
// internally.
var (
	// ErrBadParameters is returned by NewEngine/NewEngineForModulus when
	// logN < 1, logQ < 1, or the derived channel count L exceeds what the
	// prime generator can produce for the requested N.
	ErrBadParameters = errors.New("ring: bad construction parameters")

	// ErrBadChannelCount is returned at call entry when np is outside
	// [1, L] for the engine's configured channel count L.
	ErrBadChannelCount = errors.New("ring: channel count out of range")

	// ErrNoRootOfUnity is returned by NewEngine if a generated prime p_i
	// does not satisfy (p_i - 1) ≡ 0 (mod 2N), so no primitive 2N-th root
	// of unity exists mod p_i. Construction aborts.
	ErrNoRootOfUnity = errors.New("ring: no 2N-th root of unity for channel prime")
)

// InsufficientBound is not an error type: the engine does not verify, at
// runtime, that N·‖a‖·‖b‖ < pProd_{np-1}. It is the caller's responsibility
// to choose np large enough (see Engine.ChannelMarginStats). Violating the
// bound silently yields an incorrect centered representative; this is
// documented behavior, not a detected fault.
