package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func pair(symbol, asset, quote string) MarketPair {
	return MarketPair{
		Symbol:     symbol,
		Asset:      asset,
		Quote:      quote,
		BestBid:    99,
		BestBidQty: 1,
		BestAsk:    100,
		BestAskQty: 1,
	}
}

func TestBuildAssetEntries(t *testing.T) {
	tests := []struct {
		name   string
		pairs  []MarketPair
		bridge string
		assets []string
	}{
		{
			name: "asset with both pairs",
			pairs: []MarketPair{
				pair("BTCIRT", "BTC", "IRT"),
				pair("BTCUSDT", "BTC", "USDT"),
			},
			bridge: "USDT",
			assets: []string{"BTC"},
		},
		{
			name: "asset without bridge pair excluded",
			pairs: []MarketPair{
				pair("BTCIRT", "BTC", "IRT"),
				pair("BTCUSDT", "BTC", "USDT"),
				pair("ETHIRT", "ETH", "IRT"),
			},
			bridge: "USDT",
			assets: []string{"BTC"},
		},
		{
			name: "bridge currency itself excluded",
			pairs: []MarketPair{
				pair("USDTIRT", "USDT", "IRT"),
				pair("BTCIRT", "BTC", "IRT"),
				pair("BTCUSDT", "BTC", "USDT"),
			},
			bridge: "USDT",
			assets: []string{"BTC"},
		},
		{
			name: "bridge-quoted only asset excluded",
			pairs: []MarketPair{
				pair("ETHUSDT", "ETH", "USDT"),
			},
			bridge: "USDT",
			assets: nil,
		},
		{
			name:   "empty input",
			pairs:  nil,
			bridge: "USDT",
			assets: nil,
		},
		{
			name: "entries sorted by asset",
			pairs: []MarketPair{
				pair("ETHIRT", "ETH", "IRT"),
				pair("ETHUSDT", "ETH", "USDT"),
				pair("ADAIRT", "ADA", "IRT"),
				pair("ADAUSDT", "ADA", "USDT"),
			},
			bridge: "USDT",
			assets: []string{"ADA", "ETH"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := BuildAssetEntries(tt.pairs, tt.bridge)
			got := make([]string, 0, len(entries))
			for _, e := range entries {
				assert.Equal(t, e.Asset, e.LocalPair.Asset)
				assert.Equal(t, e.Asset, e.BridgePair.Asset)
				assert.Equal(t, tt.bridge, e.BridgePair.Quote)
				assert.NotEqual(t, tt.bridge, e.Asset)
				got = append(got, e.Asset)
			}
			if tt.assets == nil {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.assets, got)
			}
		})
	}
}

func TestAvailableBases(t *testing.T) {
	snapshot := map[string]RawOrderBook{
		"USDTIRT": {Bids: [][2]string{{"990", "100"}}, Asks: [][2]string{{"1000", "100"}}},
		"BTCIRT":  {Bids: [][2]string{{"990000", "1"}}, Asks: [][2]string{{"1000000", "1"}}},
		"BTCUSDT": {Bids: [][2]string{{"1000", "1"}}, Asks: [][2]string{{"1010", "1"}}},
	}

	tests := []struct {
		name       string
		candidates []string
		want       []string
	}{
		{name: "viable bridge", candidates: []string{"USDT"}, want: []string{"USDT"}},
		{name: "candidate without local pair", candidates: []string{"EUR"}, want: nil},
		{name: "local currency never a bridge", candidates: []string{"IRT"}, want: nil},
		{name: "mixed", candidates: []string{"USDT", "EUR", "IRT"}, want: []string{"USDT"}},
		{name: "no candidates", candidates: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AvailableBases(snapshot, "IRT", tt.candidates)
			if tt.want == nil {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestAvailableBasesRequiresBridgeableAsset(t *testing.T) {
	// The bridge has a local pair but no asset carries both quotes.
	snapshot := map[string]RawOrderBook{
		"USDTIRT": {Bids: [][2]string{{"990", "100"}}, Asks: [][2]string{{"1000", "100"}}},
		"BTCIRT":  {Bids: [][2]string{{"990000", "1"}}, Asks: [][2]string{{"1000000", "1"}}},
		"ETHUSDT": {Bids: [][2]string{{"30", "1"}}, Asks: [][2]string{{"31", "1"}}},
	}

	assert.Empty(t, AvailableBases(snapshot, "IRT", []string{"USDT"}))
}
