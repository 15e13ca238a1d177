package exchange

import (
	"context"
	"fmt"
	"time"

	"github.com/Mhmdrza/nobitex-arbitrage/internal/market"
	"github.com/Mhmdrza/nobitex-arbitrage/internal/utils"
	wallex "github.com/wallexchange/wallex-go"
)

// WallexExchange adapts the Wallex SDK to the snapshot contract. Wallex has
// no single-call snapshot endpoint, so the adapter lists markets once and
// pulls the order book of every symbol matching the configured local or
// bridge quote.
type WallexExchange struct {
	client *wallex.Client
	local  string
	bridge string
}

func NewWallexExchange(apiKey, local, bridge string) *WallexExchange {
	return &WallexExchange{
		client: wallex.New(wallex.ClientOptions{APIKey: apiKey}),
		local:  local,
		bridge: bridge,
	}
}

func (w *WallexExchange) Name() string {
	return "wallex"
}

func (w *WallexExchange) FetchSnapshot(ctx context.Context) (map[string]market.RawOrderBook, error) {
	var markets []*wallex.Market
	err := retry("Wallex", 3, 2*time.Second, func() error {
		var err error
		markets, err = w.client.Markets()
		if err != nil {
			return fmt.Errorf("fetching markets: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("FetchSnapshot failed: %w", err)
	}

	snapshot := make(map[string]market.RawOrderBook)
	for _, m := range markets {
		if _, _, ok := market.SplitSymbol(m.Symbol, w.local, w.bridge); !ok {
			continue
		}

		select {
		case <-ctx.Done():
			utils.GetLogger().Printf("Exchange | %s FetchSnapshot timeout", w.Name())
			return nil, ctx.Err()
		default:
		}

		asks, bids, err := w.client.MarketOrders(m.Symbol)
		if err != nil {
			// One dead symbol must not sink the whole scan.
			utils.GetLogger().Printf("Exchange | %s orderbook fetch failed for %s: %v", w.Name(), m.Symbol, err)
			continue
		}
		snapshot[m.Symbol] = market.RawOrderBook{
			Bids: levels(bids),
			Asks: levels(asks),
		}
	}
	return snapshot, nil
}

func levels(orders []*wallex.MarketOrder) [][2]string {
	out := make([][2]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, [2]string{string(o.Price), string(o.Quantity)})
	}
	return out
}
