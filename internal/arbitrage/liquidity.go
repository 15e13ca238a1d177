package arbitrage

import "math"

// bottleneckIndex returns the argmin over converted leg capacities. The
// comparison is strict less-than, so exact ties resolve to the lowest leg
// index; no floating-point equality against a precomputed minimum is
// involved.
func bottleneckIndex(caps []float64) (int, float64) {
	idx, min := 0, caps[0]
	for i := 1; i < len(caps); i++ {
		if caps[i] < min {
			idx, min = i, caps[i]
		}
	}
	return idx, min
}

// finiteRate reports whether a computed cycle rate is usable. Division by a
// zero price or degenerate input yields Inf or NaN, which discards the
// candidate rather than surfacing an error.
func finiteRate(rate float64) bool {
	return !math.IsNaN(rate) && !math.IsInf(rate, 0)
}
