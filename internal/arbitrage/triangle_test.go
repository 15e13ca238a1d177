package arbitrage

import (
	"testing"

	"github.com/Mhmdrza/nobitex-arbitrage/internal/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		LocalCurrency:  "IRT",
		BridgeCurrency: "USDT",
		FeePct:         0.35,
	}
}

// snapshotPairs builds the worked example: asset X at 1000 IRT / 1.06 USDT
// with a 990/1000 bridge pair, depth 10 everywhere except 1000 USDT on the
// bridge book.
func examplePairs() []market.MarketPair {
	return []market.MarketPair{
		{Symbol: "XIRT", Asset: "X", Quote: "IRT", BestBid: 990, BestBidQty: 10, BestAsk: 1000, BestAskQty: 10},
		{Symbol: "XUSDT", Asset: "X", Quote: "USDT", BestBid: 1.05, BestBidQty: 10, BestAsk: 1.06, BestAskQty: 10},
		{Symbol: "USDTIRT", Asset: "USDT", Quote: "IRT", BestBid: 990, BestBidQty: 1000, BestAsk: 1000, BestAskQty: 1000},
	}
}

func findByDirection(opps []market.Opportunity, dir market.Direction) (market.Opportunity, bool) {
	for _, o := range opps {
		if o.Direction == dir {
			return o, true
		}
	}
	return market.Opportunity{}, false
}

func TestFindTrianglesForwardExample(t *testing.T) {
	opps := FindTriangles(examplePairs(), testConfig())

	fwd, ok := findByDirection(opps, market.DirectionForward)
	require.True(t, ok, "forward triangle expected")

	// rate = (1.05 * 990) / 1000 = 1.0395
	assert.InDelta(t, 1.0395, fwd.Rate, 1e-9)
	assert.InDelta(t, 3.95, fwd.GrossPct, 1e-9)
	assert.InDelta(t, 1.05, fwd.FeePct, 1e-9)
	assert.InDelta(t, 2.90, fwd.NetPct, 1e-9)

	// volume bounded by min(10, 10, 1000/1.05) = 10 asset units
	assert.InDelta(t, 10000, fwd.MaxVolumeLocal, 1e-6)
	assert.InDelta(t, 290, fwd.ExpectedProfit, 1e-6)
	// both asset-unit legs tie at 10; lowest index wins
	assert.Equal(t, 0, fwd.BottleneckLeg)

	require.Len(t, fwd.Legs, 3)
	assert.Equal(t, market.SideBuy, fwd.Legs[0].Side)
	assert.Equal(t, "XIRT", fwd.Legs[0].Symbol)
	assert.Equal(t, market.SideSell, fwd.Legs[1].Side)
	assert.Equal(t, "XUSDT", fwd.Legs[1].Symbol)
	assert.Equal(t, market.SideSell, fwd.Legs[2].Side)
	assert.Equal(t, "USDTIRT", fwd.Legs[2].Symbol)
	assert.Equal(t, []string{"X"}, fwd.Assets)
	assert.Equal(t, market.TypeTriangle, fwd.Type)
}

func TestFindTrianglesReverseEmittedWhenUnprofitable(t *testing.T) {
	opps := FindTriangles(examplePairs(), testConfig())

	rev, ok := findByDirection(opps, market.DirectionReverse)
	require.True(t, ok, "reverse triangle expected even when unprofitable")

	// rate = 990 / (1.06 * 1000) < 1
	assert.InDelta(t, 990.0/1060.0, rev.Rate, 1e-9)
	assert.Less(t, rev.NetPct, 0.0)
	require.Len(t, rev.Legs, 3)
	assert.Equal(t, "USDTIRT", rev.Legs[0].Symbol)
	assert.Equal(t, market.SideBuy, rev.Legs[0].Side)
}

func TestFindTrianglesMissingBridgePair(t *testing.T) {
	pairs := []market.MarketPair{
		{Symbol: "XIRT", Asset: "X", Quote: "IRT", BestBid: 990, BestBidQty: 10, BestAsk: 1000, BestAskQty: 10},
		{Symbol: "XUSDT", Asset: "X", Quote: "USDT", BestBid: 1.05, BestBidQty: 10, BestAsk: 1.06, BestAskQty: 10},
	}

	assert.Empty(t, FindTriangles(pairs, testConfig()))
}

func TestFindTrianglesZeroDepthExcluded(t *testing.T) {
	pairs := examplePairs()
	pairs[0].BestAskQty = 0 // entry leg of the forward cycle has no depth

	opps := FindTriangles(pairs, testConfig())

	_, ok := findByDirection(opps, market.DirectionForward)
	assert.False(t, ok, "forward triangle must be excluded at zero volume")
	_, ok = findByDirection(opps, market.DirectionReverse)
	assert.True(t, ok, "reverse triangle is unaffected")
}

func TestFindTrianglesCandidateBound(t *testing.T) {
	var pairs []market.MarketPair
	assets := []string{"AAA", "BBB", "CCC", "DDD", "EEE"}
	for _, a := range assets {
		pairs = append(pairs,
			market.MarketPair{Symbol: a + "IRT", Asset: a, Quote: "IRT", BestBid: 990, BestBidQty: 10, BestAsk: 1000, BestAskQty: 10},
			market.MarketPair{Symbol: a + "USDT", Asset: a, Quote: "USDT", BestBid: 1.05, BestBidQty: 10, BestAsk: 1.06, BestAskQty: 10},
		)
	}
	pairs = append(pairs, market.MarketPair{Symbol: "USDTIRT", Asset: "USDT", Quote: "IRT", BestBid: 990, BestBidQty: 1000, BestAsk: 1000, BestAskQty: 1000})

	opps := FindTriangles(pairs, testConfig())

	assert.LessOrEqual(t, len(opps), 2*len(assets))
	for _, o := range opps {
		assert.Equal(t, o.GrossPct-o.FeePct, o.NetPct)
		assert.InDelta(t, 3*0.35, o.FeePct, 1e-12)
		assert.GreaterOrEqual(t, o.MaxVolumeLocal, 0.0)
	}
}

func TestBottleneckIndex(t *testing.T) {
	tests := []struct {
		name string
		caps []float64
		idx  int
		min  float64
	}{
		{name: "distinct minimum", caps: []float64{5, 3, 9}, idx: 1, min: 3},
		{name: "exact tie picks lowest index", caps: []float64{4, 4, 9}, idx: 0, min: 4},
		{name: "all equal", caps: []float64{7, 7, 7, 7}, idx: 0, min: 7},
		{name: "minimum last", caps: []float64{5, 4, 1}, idx: 2, min: 1},
		{name: "single leg", caps: []float64{2}, idx: 0, min: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, min := bottleneckIndex(tt.caps)
			assert.Equal(t, tt.idx, idx)
			assert.Equal(t, tt.min, min)
		})
	}
}

func TestFindTrianglesBottleneckMatchesMinimum(t *testing.T) {
	pairs := examplePairs()
	pairs[1].BestBidQty = 4 // middle leg becomes the binding minimum

	opps := FindTriangles(pairs, testConfig())
	fwd, ok := findByDirection(opps, market.DirectionForward)
	require.True(t, ok)

	assert.Equal(t, 1, fwd.BottleneckLeg)
	assert.InDelta(t, 4*1000, fwd.MaxVolumeLocal, 1e-9)
}

func BenchmarkFindTriangles(b *testing.B) {
	var pairs []market.MarketPair
	for i := 0; i < 100; i++ {
		a := string(rune('A'+i%26)) + string(rune('A'+(i/26)%26)) + "X"
		pairs = append(pairs,
			market.MarketPair{Symbol: a + "IRT", Asset: a, Quote: "IRT", BestBid: 990, BestBidQty: 10, BestAsk: 1000, BestAskQty: 10},
			market.MarketPair{Symbol: a + "USDT", Asset: a, Quote: "USDT", BestBid: 1.05, BestBidQty: 10, BestAsk: 1.06, BestAskQty: 10},
		)
	}
	pairs = append(pairs, market.MarketPair{Symbol: "USDTIRT", Asset: "USDT", Quote: "IRT", BestBid: 990, BestBidQty: 1000, BestAsk: 1000, BestAskQty: 1000})
	cfg := testConfig()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		FindTriangles(pairs, cfg)
	}
}
