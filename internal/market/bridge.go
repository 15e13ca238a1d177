package market

import "sort"

// BuildAssetEntries links every local-quoted pair (excluding the bridge
// currency itself) with the same asset's bridge-quoted pair. Assets lacking a
// bridge-quoted counterpart are excluded entirely; downstream search never
// sees them. Entries are sorted by asset for deterministic iteration.
func BuildAssetEntries(pairs []MarketPair, bridge string) []AssetEntry {
	byKey := make(map[string]MarketPair, len(pairs))
	for _, p := range pairs {
		byKey[p.Asset+":"+p.Quote] = p
	}

	var entries []AssetEntry
	for _, p := range pairs {
		if p.Quote == bridge || p.Asset == bridge {
			continue
		}
		bp, ok := byKey[p.Asset+":"+bridge]
		if !ok {
			continue
		}
		entries = append(entries, AssetEntry{
			Asset:      p.Asset,
			LocalPair:  p,
			BridgePair: bp,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Asset < entries[j].Asset })
	return entries
}

// AvailableBases reports which of the candidate currencies are viable bridges
// for the snapshot: a candidate qualifies when it has its own local-currency
// pair and at least one asset carries both a local pair and a pair quoted in
// the candidate. Used for discovery and validation, not by the scan path.
func AvailableBases(snapshot map[string]RawOrderBook, local string, candidates []string) []string {
	var bases []string
	for _, b := range candidates {
		if b == "" || b == local {
			continue
		}
		pairs := ParsePairs(snapshot, local, b)
		if _, ok := FindPair(pairs, b, local); !ok {
			continue
		}
		if len(BuildAssetEntries(pairs, b)) == 0 {
			continue
		}
		bases = append(bases, b)
	}
	sort.Strings(bases)
	return bases
}
