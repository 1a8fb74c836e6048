package ring

import "github.com/montanaflynn/stats"

// ChannelMarginStats reports the mean and standard deviation, across every
// valid channel count np in [1, L], of the "margin" in bits between
// pProd_{np-1}'s bit length and the reconstruction bound this Engine was
// constructed for (2 + logN + 4*logQ). A negative margin at some np means
// that channel count is too small to safely reconstruct products bounded
// by Q (spec.md §7's InsufficientBound, which the engine does not check at
// call time) — this is read-only introspection a caller can use to pick
// np with confidence, not a substitute for that check.
func (e *Engine) ChannelMarginStats() (mean, stddev float64, err error) {
	bound := 2 + float64(e.LogN) + 4*e.LogQ
	margins := make([]float64, e.L)
	for l := 0; l < e.L; l++ {
		margins[l] = float64(e.crt.pProd[l].BitLen()) - bound
	}

	data := stats.LoadRawData(margins)
	mean, err = stats.Mean(data)
	if err != nil {
		return 0, 0, err
	}
	stddev, err = stats.StandardDeviation(data)
	if err != nil {
		return 0, 0, err
	}
	return mean, stddev, nil
}
