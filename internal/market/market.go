// Package market
package market

// RawOrderBook is the wire shape of one symbol's order book in the exchange
// snapshot: price levels as [price, quantity] string pairs, best price first.
type RawOrderBook struct {
	Bids       [][2]string `json:"bids"`
	Asks       [][2]string `json:"asks"`
	Status     string      `json:"status,omitempty"`
	LastUpdate int64       `json:"lastUpdate,omitempty"`
}

// MarketPair is the normalized top-of-book view of one tradable pair.
// Prices are positive and finite; quantities are non-negative and finite
// (invalid source quantities are clamped to zero during normalization).
type MarketPair struct {
	Symbol     string  `json:"symbol"`
	Asset      string  `json:"asset"`
	Quote      string  `json:"quote"`
	BestBid    float64 `json:"best_bid"`
	BestBidQty float64 `json:"best_bid_qty"`
	BestAsk    float64 `json:"best_ask"`
	BestAskQty float64 `json:"best_ask_qty"`
}

// AssetEntry links an asset's local-currency pair with its bridge-currency
// pair. Only assets having both are represented.
type AssetEntry struct {
	Asset      string
	LocalPair  MarketPair
	BridgePair MarketPair
}

// Side of one leg.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// OpportunityType distinguishes 3-leg and 4-leg cycles.
type OpportunityType string

const (
	TypeTriangle OpportunityType = "triangle"
	TypeCross    OpportunityType = "cross"
)

// Direction of a cycle through the bridge.
type Direction string

const (
	// DirectionForward is local -> asset -> bridge -> local.
	DirectionForward Direction = "forward"
	// DirectionReverse is local -> bridge -> asset -> local.
	DirectionReverse Direction = "reverse"
	// DirectionCross is local -> seller asset -> bridge -> buyer asset -> local.
	DirectionCross Direction = "cross"
)

// Leg is one atomic trade within a cycle, a read-only snapshot of the pair's
// top of book at detection time.
type Leg struct {
	Symbol       string  `json:"symbol"`
	Side         Side    `json:"side"`
	Price        float64 `json:"price"`
	AvailableQty float64 `json:"available_qty"`
	QtyUnit      string  `json:"qty_unit"`
}

// Opportunity is one detected trade cycle. Created fresh per scan and never
// mutated afterward.
type Opportunity struct {
	Type           OpportunityType `json:"type"`
	Assets         []string        `json:"assets"`
	Bridge         string          `json:"bridge"`
	Direction      Direction       `json:"direction"`
	Legs           []Leg           `json:"legs"`
	Rate           float64         `json:"rate"`
	GrossPct       float64         `json:"gross_pct"`
	FeePct         float64         `json:"fee_pct"`
	NetPct         float64         `json:"net_pct"`
	MaxVolumeLocal float64         `json:"max_volume_local"`
	ExpectedProfit float64         `json:"expected_profit_local"`
	BottleneckLeg  int             `json:"bottleneck_leg"`
}
