package market

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// SplitSymbol derives (asset, quote) from a concatenated symbol using the
// suffix rule: the bridge ticker is tested before the local code, so a symbol
// like USDTIRT parses as asset USDT quoted in IRT while BTCUSDT parses as
// asset BTC quoted in USDT. Symbols matching neither suffix, or with an empty
// asset part, are rejected.
func SplitSymbol(symbol, local, bridge string) (asset, quote string, ok bool) {
	if bridge != "" && strings.HasSuffix(symbol, bridge) && len(symbol) > len(bridge) {
		return symbol[:len(symbol)-len(bridge)], bridge, true
	}
	if local != "" && strings.HasSuffix(symbol, local) && len(symbol) > len(local) {
		return symbol[:len(symbol)-len(local)], local, true
	}
	return "", "", false
}

// ParsePairs normalizes a raw snapshot into MarketPair records. Entries with
// unrecognized symbols, missing bid/ask levels, or a non-positive or
// non-finite best price are dropped silently. Invalid best quantities are
// clamped to zero so the pair survives with no executable depth.
//
// The result is sorted by symbol so that repeated scans over the same
// snapshot produce identical ordered output.
func ParsePairs(snapshot map[string]RawOrderBook, local, bridge string) []MarketPair {
	pairs := make([]MarketPair, 0, len(snapshot))
	for symbol, book := range snapshot {
		asset, quote, ok := SplitSymbol(symbol, local, bridge)
		if !ok {
			continue
		}
		if len(book.Bids) == 0 || len(book.Asks) == 0 {
			continue
		}
		bid, bidQty, ok := parseLevel(book.Bids[0])
		if !ok {
			continue
		}
		ask, askQty, ok := parseLevel(book.Asks[0])
		if !ok {
			continue
		}
		pairs = append(pairs, MarketPair{
			Symbol:     symbol,
			Asset:      asset,
			Quote:      quote,
			BestBid:    bid,
			BestBidQty: bidQty,
			BestAsk:    ask,
			BestAskQty: askQty,
		})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Symbol < pairs[j].Symbol })
	return pairs
}

// FindPair returns the pair for asset quoted in quote, if present.
func FindPair(pairs []MarketPair, asset, quote string) (MarketPair, bool) {
	for _, p := range pairs {
		if p.Asset == asset && p.Quote == quote {
			return p, true
		}
	}
	return MarketPair{}, false
}

// parseLevel parses one [price, quantity] level. A level is usable only when
// the price is positive and finite; the quantity is clamped to zero when
// negative or non-finite.
func parseLevel(level [2]string) (price, qty float64, ok bool) {
	price, err := strconv.ParseFloat(level[0], 64)
	if err != nil || price <= 0 || math.IsInf(price, 0) || math.IsNaN(price) {
		return 0, 0, false
	}
	qty, err = strconv.ParseFloat(level[1], 64)
	if err != nil || qty < 0 || math.IsInf(qty, 0) || math.IsNaN(qty) {
		qty = 0
	}
	return price, qty, true
}
