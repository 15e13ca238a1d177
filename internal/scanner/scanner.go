// Package scanner
package scanner

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Mhmdrza/nobitex-arbitrage/internal/arbitrage"
	"github.com/Mhmdrza/nobitex-arbitrage/internal/db"
	"github.com/Mhmdrza/nobitex-arbitrage/internal/exchange"
	"github.com/Mhmdrza/nobitex-arbitrage/internal/journal"
	"github.com/Mhmdrza/nobitex-arbitrage/internal/market"
	"github.com/Mhmdrza/nobitex-arbitrage/internal/notifier"
	"github.com/google/uuid"
)

// Scanner runs the fetch -> normalize -> detect -> persist pipeline. Each
// scan is an independent unit of work; no state is carried between scans
// besides the append-only outputs.
type Scanner struct {
	ex       exchange.Exchange
	storage  db.Storage
	journal  *journal.Writer
	notifier notifier.Notifier

	engineCfg arbitrage.Config
	interval  time.Duration
	topN      int
	notifyPct float64
}

type Options struct {
	Storage   db.Storage      // optional
	Journal   *journal.Writer // optional
	Notifier  notifier.Notifier
	Interval  time.Duration
	TopN      int
	NotifyPct float64
}

func New(ex exchange.Exchange, engineCfg arbitrage.Config, opts Options) *Scanner {
	n := opts.Notifier
	if n == nil {
		n = notifier.Noop{}
	}
	return &Scanner{
		ex:        ex,
		storage:   opts.Storage,
		journal:   opts.Journal,
		notifier:  n,
		engineCfg: engineCfg,
		interval:  opts.Interval,
		topN:      opts.TopN,
		notifyPct: opts.NotifyPct,
	}
}

// Run scans once immediately, then on every tick until the context is
// cancelled. A failed fetch is logged and retried on the next tick.
func (s *Scanner) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Printf("Starting scanner on %s every %v", s.ex.Name(), s.interval)

	for {
		if _, _, err := s.ScanOnce(ctx); err != nil {
			if ctx.Err() != nil {
				log.Println("Scanner stopped")
				return
			}
			log.Printf("Scan failed: %v", err)
		}

		select {
		case <-ctx.Done():
			log.Println("Scanner stopped")
			return
		case <-ticker.C:
		}
	}
}

// ScanOnce performs a single detection pass and fans the result out to the
// configured sinks.
func (s *Scanner) ScanOnce(ctx context.Context) (db.Scan, []market.Opportunity, error) {
	started := time.Now().UTC()

	snapshot, err := s.ex.FetchSnapshot(ctx)
	if err != nil {
		return db.Scan{}, nil, fmt.Errorf("fetching snapshot: %w", err)
	}

	pairs := market.ParsePairs(snapshot, s.engineCfg.LocalCurrency, s.engineCfg.BridgeCurrency)
	entries := market.BuildAssetEntries(pairs, s.engineCfg.BridgeCurrency)
	opps := arbitrage.Scan(pairs, s.engineCfg)

	scan := db.Scan{
		ID:               uuid.NewString(),
		Exchange:         s.ex.Name(),
		Bridge:           s.engineCfg.BridgeCurrency,
		StartedAt:        started,
		Duration:         time.Since(started),
		PairCount:        len(pairs),
		EntryCount:       len(entries),
		OpportunityCount: len(opps),
	}
	if len(opps) > 0 {
		scan.BestNetPct = opps[0].NetPct
	}

	kept := opps
	if s.topN > 0 && len(kept) > s.topN {
		kept = kept[:s.topN]
	}

	if s.storage != nil {
		if err := s.storage.SaveScan(ctx, scan); err != nil {
			log.Printf("Failed to save scan %s: %v", scan.ID, err)
		} else if err := s.storage.SaveOpportunities(ctx, scan.ID, kept); err != nil {
			log.Printf("Failed to save opportunities for scan %s: %v", scan.ID, err)
		}
	}

	if s.journal != nil {
		if err := s.journal.AppendTimeline(started, s.ex.Name(), len(pairs), kept); err != nil {
			log.Printf("Failed to append timeline: %v", err)
		}
		if err := s.journal.WriteSnapshot(started, scan.ID, s.ex.Name(), kept); err != nil {
			log.Printf("Failed to write scan snapshot: %v", err)
		}
	}

	s.notify(kept)

	return scan, opps, nil
}

func (s *Scanner) notify(opps []market.Opportunity) {
	var lines []string
	for _, o := range opps {
		if o.NetPct < s.notifyPct {
			break // ranked descending
		}
		lines = append(lines, fmt.Sprintf("%s %s/%s net=%.2f%% profit=%.0f %s",
			o.Type, strings.Join(o.Assets, "-"), o.Bridge, o.NetPct, o.ExpectedProfit, s.engineCfg.LocalCurrency))
	}
	if len(lines) == 0 {
		return
	}
	msg := "Arbitrage opportunities:\n" + strings.Join(lines, "\n")
	if err := s.notifier.SendWithRetry(msg); err != nil {
		log.Printf("Failed to send notification: %v", err)
	}
}
