package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Mhmdrza/nobitex-arbitrage/internal/arbitrage"
	"github.com/Mhmdrza/nobitex-arbitrage/internal/config"
	"github.com/Mhmdrza/nobitex-arbitrage/internal/db"
	"github.com/Mhmdrza/nobitex-arbitrage/internal/exchange"
	"github.com/Mhmdrza/nobitex-arbitrage/internal/journal"
	"github.com/Mhmdrza/nobitex-arbitrage/internal/market"
	"github.com/Mhmdrza/nobitex-arbitrage/internal/notifier"
	"github.com/Mhmdrza/nobitex-arbitrage/internal/report"
	"github.com/Mhmdrza/nobitex-arbitrage/internal/scanner"
)

func main() {
	cfg := config.MustLoadConfig()
	log.Println("Starting Nobitex Arbitrage in mode:", cfg.Mode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	ex := newExchange(cfg)

	switch cfg.Mode {
	case "scan":
		runScan(ctx, cfg, ex)
	case "once":
		runOnce(ctx, cfg, ex)
	case "bases":
		runBases(ctx, cfg, ex)
	case "report":
		runReport(ctx, cfg)
	default:
		log.Fatalf("Unsupported mode: %s", cfg.Mode)
	}
}

func newExchange(cfg config.Config) exchange.Exchange {
	switch cfg.Exchange {
	case "nobitex":
		return exchange.NewNobitexExchange()
	case "wallex":
		return exchange.NewWallexExchange(cfg.WallexAPIKey, cfg.LocalCurrency, cfg.BridgeCurrency)
	default:
		log.Fatalf("Unsupported exchange: %s", cfg.Exchange)
		return nil
	}
}

func engineConfig(cfg config.Config) arbitrage.Config {
	return arbitrage.Config{
		LocalCurrency:   cfg.LocalCurrency,
		BridgeCurrency:  cfg.BridgeCurrency,
		FeePct:          cfg.FeePct,
		CrossTopK:       cfg.CrossTopK,
		CrossMaxResults: cfg.CrossMaxResults,
		CrossSlackPct:   cfg.CrossSlackPct,
	}
}

func openStorage(cfg config.Config) db.Storage {
	if cfg.DBConnStr == "" {
		return nil
	}
	storage, err := db.NewPostgres(cfg.DBConnStr, cfg.DBMaxOpen, cfg.DBMaxIdle)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	log.Println("Connected to Postgres")
	return storage
}

func runScan(ctx context.Context, cfg config.Config, ex exchange.Exchange) {
	storage := openStorage(cfg)
	if storage != nil {
		defer storage.Close()
	}

	writer, err := journal.NewWriter(cfg.OutputDir)
	if err != nil {
		log.Fatalf("Failed to create journal writer: %v", err)
	}

	var n notifier.Notifier = notifier.Noop{}
	if cfg.TelegramToken != "" && cfg.TelegramChatID != "" {
		n = notifier.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID, cfg.NotifyRetries, cfg.NotifyDelay)
	}

	s := scanner.New(ex, engineConfig(cfg), scanner.Options{
		Storage:   storage,
		Journal:   writer,
		Notifier:  n,
		Interval:  cfg.ScanInterval,
		TopN:      cfg.TopN,
		NotifyPct: cfg.NotifyNetPct,
	})
	s.Run(ctx)
}

func runOnce(ctx context.Context, cfg config.Config, ex exchange.Exchange) {
	s := scanner.New(ex, engineConfig(cfg), scanner.Options{TopN: cfg.TopN})
	scan, opps, err := s.ScanOnce(ctx)
	if err != nil {
		log.Fatalf("Scan failed: %v", err)
	}

	fmt.Printf("scan %s: %d pairs, %d bridgeable assets, %d opportunities (%v)\n",
		scan.ID, scan.PairCount, scan.EntryCount, scan.OpportunityCount, scan.Duration.Round(time.Millisecond))
	limit := len(opps)
	if cfg.TopN > 0 && limit > cfg.TopN {
		limit = cfg.TopN
	}
	for i := 0; i < limit; i++ {
		o := opps[i]
		fmt.Printf("%2d. %-8s %-12s net=%+.3f%% gross=%+.3f%% vol=%.0f %s profit=%.0f bottleneck=leg%d\n",
			i+1, o.Type, strings.Join(o.Assets, "-"), o.NetPct, o.GrossPct,
			o.MaxVolumeLocal, cfg.LocalCurrency, o.ExpectedProfit, o.BottleneckLeg+1)
	}
}

func runBases(ctx context.Context, cfg config.Config, ex exchange.Exchange) {
	snapshot, err := ex.FetchSnapshot(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch snapshot: %v", err)
	}
	bases := market.AvailableBases(snapshot, cfg.LocalCurrency, cfg.BaseCandidates)
	if len(bases) == 0 {
		fmt.Println("no viable bridge currencies found")
		return
	}
	for _, b := range bases {
		fmt.Println(b)
	}
}

func runReport(ctx context.Context, cfg config.Config) {
	storage := openStorage(cfg)
	if storage == nil {
		log.Fatal("Report mode requires DB_CONN_STR")
	}
	defer storage.Close()

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -cfg.ReportDays)
	out, err := report.Build(ctx, storage, cfg.ReportBucket, start, end)
	if err != nil {
		log.Fatalf("Failed to build report: %v", err)
	}
	fmt.Print(out)
}
