package arbitrage

import (
	"github.com/Mhmdrza/nobitex-arbitrage/internal/market"
)

// FindTriangles enumerates 3-leg cycles through the bridge for every
// bridgeable asset, evaluating the forward (buy-asset-first) and reverse
// (buy-bridge-first) direction independently. At most two candidates are
// produced per asset.
//
// A candidate is emitted only when its rate is finite and its executable
// volume is positive. Unprofitable candidates are still emitted;
// profitability filtering is the caller's concern. When the bridge currency
// has no local-currency pair the result is empty.
func FindTriangles(pairs []market.MarketPair, cfg Config) []market.Opportunity {
	bridgeLocal, ok := market.FindPair(pairs, cfg.BridgeCurrency, cfg.LocalCurrency)
	if !ok {
		return nil
	}
	entries := market.BuildAssetEntries(pairs, cfg.BridgeCurrency)

	opps := make([]market.Opportunity, 0, 2*len(entries))
	for _, e := range entries {
		if opp, ok := forwardTriangle(e, bridgeLocal, cfg); ok {
			opps = append(opps, opp)
		}
		if opp, ok := reverseTriangle(e, bridgeLocal, cfg); ok {
			opps = append(opps, opp)
		}
	}
	return opps
}

// forwardTriangle models local -> asset -> bridge -> local: buy the asset at
// its local ask, sell it into the bridge at the bridge-pair bid, sell the
// bridge back to local at the bridge/local bid.
func forwardTriangle(e market.AssetEntry, bridgeLocal market.MarketPair, cfg Config) (market.Opportunity, bool) {
	localAsk := e.LocalPair.BestAsk
	bridgeBid := e.BridgePair.BestBid
	exitBid := bridgeLocal.BestBid

	rate := bridgeBid * exitBid / localAsk

	legs := []market.Leg{
		{Symbol: e.LocalPair.Symbol, Side: market.SideBuy, Price: localAsk, AvailableQty: e.LocalPair.BestAskQty, QtyUnit: e.Asset},
		{Symbol: e.BridgePair.Symbol, Side: market.SideSell, Price: bridgeBid, AvailableQty: e.BridgePair.BestBidQty, QtyUnit: e.Asset},
		{Symbol: bridgeLocal.Symbol, Side: market.SideSell, Price: exitBid, AvailableQty: bridgeLocal.BestBidQty, QtyUnit: cfg.BridgeCurrency},
	}
	// Leg capacities in asset units. The exit leg's depth is denominated in
	// bridge currency; one asset unit consumes bridgeBid of it.
	caps := []float64{
		e.LocalPair.BestAskQty,
		e.BridgePair.BestBidQty,
		bridgeLocal.BestBidQty / bridgeBid,
	}

	return buildTriangle(e, market.DirectionForward, rate, legs, caps, localAsk, cfg)
}

// reverseTriangle models local -> bridge -> asset -> local: buy the bridge at
// the bridge/local ask, buy the asset at its bridge-pair ask, sell the asset
// at its local bid.
func reverseTriangle(e market.AssetEntry, bridgeLocal market.MarketPair, cfg Config) (market.Opportunity, bool) {
	entryAsk := bridgeLocal.BestAsk
	bridgeAsk := e.BridgePair.BestAsk
	localBid := e.LocalPair.BestBid

	rate := localBid / (bridgeAsk * entryAsk)

	legs := []market.Leg{
		{Symbol: bridgeLocal.Symbol, Side: market.SideBuy, Price: entryAsk, AvailableQty: bridgeLocal.BestAskQty, QtyUnit: cfg.BridgeCurrency},
		{Symbol: e.BridgePair.Symbol, Side: market.SideBuy, Price: bridgeAsk, AvailableQty: e.BridgePair.BestAskQty, QtyUnit: e.Asset},
		{Symbol: e.LocalPair.Symbol, Side: market.SideSell, Price: localBid, AvailableQty: e.LocalPair.BestBidQty, QtyUnit: e.Asset},
	}
	// Entry-leg depth is in bridge currency; one asset unit costs bridgeAsk.
	caps := []float64{
		bridgeLocal.BestAskQty / bridgeAsk,
		e.BridgePair.BestAskQty,
		e.LocalPair.BestBidQty,
	}

	// Entry cost per asset unit in local currency.
	entryPrice := bridgeAsk * entryAsk

	return buildTriangle(e, market.DirectionReverse, rate, legs, caps, entryPrice, cfg)
}

// buildTriangle finishes a triangle candidate: liquidity, fees, notional and
// profit. entryPrice is the local-currency cost of one asset unit on entry,
// used to convert the asset-unit volume into local notional.
func buildTriangle(e market.AssetEntry, dir market.Direction, rate float64, legs []market.Leg, caps []float64, entryPrice float64, cfg Config) (market.Opportunity, bool) {
	if !finiteRate(rate) {
		return market.Opportunity{}, false
	}
	bottleneck, volume := bottleneckIndex(caps)
	if volume <= 0 {
		return market.Opportunity{}, false
	}

	grossPct := (rate - 1) * 100
	feePct := 3 * cfg.FeePct
	netPct := grossPct - feePct
	volumeLocal := volume * entryPrice

	return market.Opportunity{
		Type:           market.TypeTriangle,
		Assets:         []string{e.Asset},
		Bridge:         cfg.BridgeCurrency,
		Direction:      dir,
		Legs:           legs,
		Rate:           rate,
		GrossPct:       grossPct,
		FeePct:         feePct,
		NetPct:         netPct,
		MaxVolumeLocal: volumeLocal,
		ExpectedProfit: netPct / 100 * volumeLocal,
		BottleneckLeg:  bottleneck,
	}, true
}
