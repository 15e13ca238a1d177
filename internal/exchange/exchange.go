// Package exchange
package exchange

import (
	"context"
	"errors"
	"time"

	"github.com/Mhmdrza/nobitex-arbitrage/internal/market"
	"github.com/Mhmdrza/nobitex-arbitrage/internal/utils"
)

// Exchange is a snapshot source: one call returns the full symbol -> order
// book mapping for a single scan.
type Exchange interface {
	Name() string
	FetchSnapshot(ctx context.Context) (map[string]market.RawOrderBook, error)
}

// retry wraps a function with retry logic for transient errors, using exponential backoff and error logging.
func retry(name string, attempts int, delay time.Duration, fn func() error) error {
	backoff := delay
	for i := 1; i <= attempts; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		utils.GetLogger().Printf("Exchange | %s Retry attempt %d/%d failed: %v. Backing off for %v", name, i, attempts, err, backoff)
		time.Sleep(backoff)
		// Exponential backoff, but cap at 5 minutes
		if backoff < 5*time.Minute {
			backoff *= 2
			if backoff > 5*time.Minute {
				backoff = 5 * time.Minute
			}
		}
	}
	return errors.New("all retry attempts failed")
}
