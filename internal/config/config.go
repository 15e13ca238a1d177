// Package config
package config

import (
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

/*
YAML config example:
mode: "scan"
exchange: "nobitex"
local_currency: "IRT"
bridge_currency: "USDT"
fee_pct: 0.35
cross_top_k: 60
cross_max_results: 20
cross_slack_pct: 5.0
scan_interval: 30s
top_n: 10
output_dir: "out"
db_conn_str: "postgres://..."
notify_net_pct: 1.0
base_candidates: ["USDT", "BTC"]
*/

type Config struct {
	Mode            string        `yaml:"mode"`
	Exchange        string        `yaml:"exchange"`
	LocalCurrency   string        `yaml:"local_currency"`
	BridgeCurrency  string        `yaml:"bridge_currency"`
	FeePct          float64       `yaml:"fee_pct"`
	CrossTopK       int           `yaml:"cross_top_k"`
	CrossMaxResults int           `yaml:"cross_max_results"`
	CrossSlackPct   float64       `yaml:"cross_slack_pct"`
	ScanInterval    time.Duration `yaml:"scan_interval"`
	TopN            int           `yaml:"top_n"`
	OutputDir       string        `yaml:"output_dir"`
	DBConnStr       string        `yaml:"db_conn_str"`
	DBMaxOpen       int           `yaml:"db_max_open"`
	DBMaxIdle       int           `yaml:"db_max_idle"`
	WallexAPIKey    string        `yaml:"wallex_api_key"`
	TelegramToken   string        `yaml:"telegram_token"`
	TelegramChatID  string        `yaml:"telegram_chat_id"`
	NotifyNetPct    float64       `yaml:"notify_net_pct"`
	NotifyRetries   int           `yaml:"notify_retries"`
	NotifyDelay     time.Duration `yaml:"notify_delay"`
	ReportBucket    string        `yaml:"report_bucket"`
	ReportDays      int           `yaml:"report_days"`
	BaseCandidates  []string      `yaml:"base_candidates"`
}

func MustLoadConfig() Config {
	// Secrets may live in a .env file; a missing file is fine.
	_ = godotenv.Load()

	mode := flag.String("mode", "scan", "Mode: scan, once, bases, or report")
	exchangeName := flag.String("exchange", "nobitex", "Snapshot source: nobitex or wallex")
	localCurrency := flag.String("local", "IRT", "Local (entry/exit) currency code")
	bridgeCurrency := flag.String("bridge", "USDT", "Bridge currency ticker")
	feePct := flag.Float64("fee-pct", 0.35, "Per-trade fee percent per leg (e.g., 0.35 for 0.35%)")
	crossTopK := flag.Int("cross-top-k", 60, "Top-K prefix cap per axis of the cross-pair search")
	crossMaxResults := flag.Int("cross-max-results", 20, "Maximum cross-pair results per scan (0 = unlimited)")
	crossSlackPct := flag.Float64("cross-slack-pct", 5.0, "Early-discard slack for cross-pair candidates, in net percent")
	scanInterval := flag.Duration("scan-interval", 30*time.Second, "Delay between scans in scan mode")
	topN := flag.Int("top-n", 10, "Opportunities kept per scan for journal and notifications")
	outputDir := flag.String("output-dir", "out", "Directory for timeline log and scan snapshots")
	notifyNetPct := flag.Float64("notify-net-pct", 1.0, "Minimum net percent before an opportunity is notified")
	notifyRetries := flag.Int("notify-retries", 3, "Number of notification send attempts")
	notifyDelay := flag.Duration("notify-delay", 5*time.Second, "Delay between notification retries (e.g., 5s)")
	reportBucket := flag.String("report-bucket", "hour", "Report bucketing: hour or day")
	reportDays := flag.Int("report-days", 1, "Report lookback window in days")
	baseCandidates := flag.String("base-candidates", "USDT", "Comma-separated bridge candidates for bases mode")
	configFile := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	if *configFile != "" {
		data, err := os.ReadFile(*configFile)
		if err != nil {
			log.Fatalf("Failed to read config file: %v", err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			log.Fatalf("Failed to parse config file: %v", err)
		}
		return fileCfg
	}

	return Config{
		Mode:            *mode,
		Exchange:        *exchangeName,
		LocalCurrency:   strings.ToUpper(*localCurrency),
		BridgeCurrency:  strings.ToUpper(*bridgeCurrency),
		FeePct:          *feePct,
		CrossTopK:       *crossTopK,
		CrossMaxResults: *crossMaxResults,
		CrossSlackPct:   *crossSlackPct,
		ScanInterval:    *scanInterval,
		TopN:            *topN,
		OutputDir:       *outputDir,
		DBConnStr:       os.Getenv("DB_CONN_STR"),
		DBMaxOpen:       10,
		DBMaxIdle:       5,
		WallexAPIKey:    os.Getenv("WALLEX_API_KEY"),
		TelegramToken:   os.Getenv("TELEGRAM_TOKEN"),
		TelegramChatID:  os.Getenv("TELEGRAM_CHAT_ID"),
		NotifyNetPct:    *notifyNetPct,
		NotifyRetries:   *notifyRetries,
		NotifyDelay:     *notifyDelay,
		ReportBucket:    *reportBucket,
		ReportDays:      *reportDays,
		BaseCandidates:  strings.Split(strings.ToUpper(*baseCandidates), ","),
	}
}
