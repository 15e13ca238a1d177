package arbitrage

import (
	"sort"

	"github.com/Mhmdrza/nobitex-arbitrage/internal/market"
)

// Rank merges triangle and cross-pair candidates into a single list sorted
// by descending netPct. Exact ties keep their insertion order. The full list
// is returned; truncation to a top N is the caller's responsibility.
func Rank(triangles, crosses []market.Opportunity) []market.Opportunity {
	merged := make([]market.Opportunity, 0, len(triangles)+len(crosses))
	merged = append(merged, triangles...)
	merged = append(merged, crosses...)
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].NetPct > merged[j].NetPct })
	return merged
}

// Scan runs both finders over a normalized pair set and returns the merged
// ranked list. This is the engine's single entry point for one snapshot.
func Scan(pairs []market.MarketPair, cfg Config) []market.Opportunity {
	return Rank(FindTriangles(pairs, cfg), FindCrossPairs(pairs, cfg))
}
