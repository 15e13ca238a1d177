// Package arbitrage implements the opportunity-detection engine: triangle
// (3-leg) and cross-pair (4-leg) cycle enumeration over a normalized
// order-book snapshot, bridged through a fixed intermediary currency.
//
// The engine is pure: it reads nothing from the environment, performs no
// I/O, and holds no state between invocations. Malformed input degrades to
// empty or partial results, never to an error.
package arbitrage

const (
	// DefaultCrossTopK bounds each axis of the cross-pair search.
	DefaultCrossTopK = 60
	// DefaultCrossSlackPct is the early-discard slack: cross-pair candidates
	// with netPct below -DefaultCrossSlackPct are dropped before liquidity
	// evaluation. A tuning knob, not a correctness boundary.
	DefaultCrossSlackPct = 5
)

// Config is the full configuration surface the engine consumes. All values
// arrive as explicit parameters.
type Config struct {
	// LocalCurrency is the cycle's entry and exit currency, e.g. IRT.
	LocalCurrency string
	// BridgeCurrency is the intermediary, e.g. USDT.
	BridgeCurrency string
	// FeePct is the per-trade fee percentage charged on every leg.
	FeePct float64
	// CrossTopK caps each axis of the cross-pair prefix pruning.
	// Zero or negative selects DefaultCrossTopK.
	CrossTopK int
	// CrossMaxResults truncates the cross-pair result list.
	// Zero or negative means no truncation.
	CrossMaxResults int
	// CrossSlackPct overrides the early-discard slack.
	// Zero or negative selects DefaultCrossSlackPct.
	CrossSlackPct float64
}

func (c Config) topK() int {
	if c.CrossTopK > 0 {
		return c.CrossTopK
	}
	return DefaultCrossTopK
}

func (c Config) slackPct() float64 {
	if c.CrossSlackPct > 0 {
		return c.CrossSlackPct
	}
	return DefaultCrossSlackPct
}
