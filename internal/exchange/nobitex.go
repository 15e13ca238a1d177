package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Mhmdrza/nobitex-arbitrage/internal/market"
	"github.com/Mhmdrza/nobitex-arbitrage/internal/utils"
)

const nobitexBaseURL = "https://apiv2.nobitex.ir"

type NobitexExchange struct {
	baseURL string
	client  *http.Client
}

func NewNobitexExchange() *NobitexExchange {
	return &NobitexExchange{
		baseURL: nobitexBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// NewNobitexExchangeWithURL points the client at a non-default endpoint.
func NewNobitexExchangeWithURL(baseURL string) *NobitexExchange {
	e := NewNobitexExchange()
	e.baseURL = baseURL
	return e
}

func (n *NobitexExchange) Name() string {
	return "nobitex"
}

// FetchSnapshot retrieves the full order-book snapshot from the v2 orderbook
// endpoint. The response is a mapping from symbol to order book plus a few
// metadata keys ("status", timestamps) whose values are not objects; those
// keys are skipped rather than parsed as pairs.
func (n *NobitexExchange) FetchSnapshot(ctx context.Context) (map[string]market.RawOrderBook, error) {
	var body []byte

	select {
	case <-ctx.Done():
		utils.GetLogger().Printf("Exchange | %s FetchSnapshot timeout", n.Name())
		return nil, ctx.Err()

	default:
		err := retry("Nobitex", 3, 2*time.Second, func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/v2/orderbook/all", nil)
			if err != nil {
				return fmt.Errorf("building request: %w", err)
			}
			resp, err := n.client.Do(req)
			if err != nil {
				return fmt.Errorf("fetching orderbook snapshot: %w", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("orderbook snapshot: unexpected status %s", resp.Status)
			}
			body, err = io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("reading orderbook snapshot: %w", err)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("FetchSnapshot failed: %w", err)
		}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decoding orderbook snapshot: %w", err)
	}

	snapshot := make(map[string]market.RawOrderBook, len(raw))
	for symbol, msg := range raw {
		var book market.RawOrderBook
		if err := json.Unmarshal(msg, &book); err != nil {
			// Metadata key, not an order book.
			continue
		}
		snapshot[symbol] = book
	}
	return snapshot, nil
}
