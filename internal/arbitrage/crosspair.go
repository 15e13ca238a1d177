package arbitrage

import (
	"math"
	"sort"

	"github.com/Mhmdrza/nobitex-arbitrage/internal/market"
)

// ratedEntry pairs an asset entry with its precomputed conversion ratio for
// one side of the cross-pair search.
type ratedEntry struct {
	entry market.AssetEntry
	ratio float64
}

// FindCrossPairs enumerates 4-leg cycles using two distinct assets: seller X
// is bought with local currency and sold into the bridge, buyer Y is bought
// with the bridge and sold back into local currency. The bridge/local pair
// itself is never traded.
//
// The search space is the cross product of all (seller, buyer) asset pairs.
// To bound it, only the top-K sellers by sellRatio and top-K buyers by
// buyRatio enter the product. This is a pruning heuristic, not an exact
// top-N search: a pair ranked outside the top K on one axis but combining
// favorably with the other is missed. The trade-off is deliberate and K is
// configurable.
//
// Results are sorted by descending netPct and truncated to
// cfg.CrossMaxResults when that cap is positive.
func FindCrossPairs(pairs []market.MarketPair, cfg Config) []market.Opportunity {
	// A bridge without its own local pair is not a viable base at all, even
	// though no cross-pair leg trades it.
	if _, ok := market.FindPair(pairs, cfg.BridgeCurrency, cfg.LocalCurrency); !ok {
		return nil
	}
	entries := market.BuildAssetEntries(pairs, cfg.BridgeCurrency)
	if len(entries) < 2 {
		return nil
	}

	sellers := make([]ratedEntry, 0, len(entries))
	buyers := make([]ratedEntry, 0, len(entries))
	for _, e := range entries {
		// Bridge currency gained per unit of local currency spent on X.
		sellRatio := e.BridgePair.BestBid / e.LocalPair.BestAsk
		// Local currency gained per unit of bridge currency spent on Y.
		buyRatio := e.LocalPair.BestBid / e.BridgePair.BestAsk
		if usableRatio(sellRatio) {
			sellers = append(sellers, ratedEntry{entry: e, ratio: sellRatio})
		}
		if usableRatio(buyRatio) {
			buyers = append(buyers, ratedEntry{entry: e, ratio: buyRatio})
		}
	}
	sellers = topByRatio(sellers, cfg.topK())
	buyers = topByRatio(buyers, cfg.topK())

	slack := cfg.slackPct()
	feePct := 4 * cfg.FeePct

	var opps []market.Opportunity
	for _, s := range sellers {
		for _, b := range buyers {
			if s.entry.Asset == b.entry.Asset {
				continue
			}
			rate := s.ratio * b.ratio
			if !finiteRate(rate) {
				continue
			}
			netPct := (rate-1)*100 - feePct
			if netPct < -slack {
				continue
			}
			if opp, ok := buildCross(s, b, rate, feePct, cfg); ok {
				opps = append(opps, opp)
			}
		}
	}

	sort.SliceStable(opps, func(i, j int) bool { return opps[i].NetPct > opps[j].NetPct })
	if cfg.CrossMaxResults > 0 && len(opps) > cfg.CrossMaxResults {
		opps = opps[:cfg.CrossMaxResults]
	}
	return opps
}

func buildCross(s, b ratedEntry, rate, feePct float64, cfg Config) (market.Opportunity, bool) {
	seller, buyer := s.entry, b.entry
	sellBid := seller.BridgePair.BestBid
	buyAsk := buyer.BridgePair.BestAsk

	legs := []market.Leg{
		{Symbol: seller.LocalPair.Symbol, Side: market.SideBuy, Price: seller.LocalPair.BestAsk, AvailableQty: seller.LocalPair.BestAskQty, QtyUnit: seller.Asset},
		{Symbol: seller.BridgePair.Symbol, Side: market.SideSell, Price: sellBid, AvailableQty: seller.BridgePair.BestBidQty, QtyUnit: seller.Asset},
		{Symbol: buyer.BridgePair.Symbol, Side: market.SideBuy, Price: buyAsk, AvailableQty: buyer.BridgePair.BestAskQty, QtyUnit: buyer.Asset},
		{Symbol: buyer.LocalPair.Symbol, Side: market.SideSell, Price: buyer.LocalPair.BestBid, AvailableQty: buyer.LocalPair.BestBidQty, QtyUnit: buyer.Asset},
	}
	// Common unit: seller asset units. Buyer-side depths are converted to
	// bridge currency at the buyer's bridge ask, then through the seller's
	// bridge-sell price.
	caps := []float64{
		seller.LocalPair.BestAskQty,
		seller.BridgePair.BestBidQty,
		buyer.BridgePair.BestAskQty * buyAsk / sellBid,
		buyer.LocalPair.BestBidQty * buyAsk / sellBid,
	}
	bottleneck, volume := bottleneckIndex(caps)
	if volume <= 0 {
		return market.Opportunity{}, false
	}

	grossPct := (rate - 1) * 100
	volumeLocal := volume * seller.LocalPair.BestAsk

	return market.Opportunity{
		Type:           market.TypeCross,
		Assets:         []string{seller.Asset, buyer.Asset},
		Bridge:         cfg.BridgeCurrency,
		Direction:      market.DirectionCross,
		Legs:           legs,
		Rate:           rate,
		GrossPct:       grossPct,
		FeePct:         feePct,
		NetPct:         grossPct - feePct,
		MaxVolumeLocal: volumeLocal,
		ExpectedProfit: (grossPct - feePct) / 100 * volumeLocal,
		BottleneckLeg:  bottleneck,
	}, true
}

func usableRatio(r float64) bool {
	return r > 0 && !math.IsInf(r, 0) && !math.IsNaN(r)
}

// topByRatio keeps the k best-rated entries. The sort is stable over the
// asset-ordered input, so equal ratios keep a deterministic order.
func topByRatio(rated []ratedEntry, k int) []ratedEntry {
	sort.SliceStable(rated, func(i, j int) bool { return rated[i].ratio > rated[j].ratio })
	if len(rated) > k {
		return rated[:k]
	}
	return rated
}
